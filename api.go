package msgfield

import (
	"context"
	"reflect"

	js "github.com/reoring/msgfield/jsonschema"
)

// Message is implemented by schema-declared record types. MessageDescriptor
// must not dereference its receiver: RepeatedField calls it on the zero value
// of T to learn the declared element type.
type Message interface {
	MessageDescriptor() *Descriptor
}

// RawConfig is the configuration-shaped form of a message (decoded JSON/YAML
// objects) accepted at construction time.
type RawConfig = map[string]any

// Descriptor describes one message type of a schema file.
type Descriptor struct {
	// FullName is the package-qualified message name, e.g. api.DocConstructor.
	FullName string
	// File is the schema file that declares the message. The declaring package
	// links it before any RepeatedField of the message is constructed.
	File *FileDescriptor
	// Parse converts a RawConfig into the message. Nil means the message
	// accepts only typed values.
	Parse func(ctx context.Context, v any) (Message, error)
	// JSONSchema projects the message shape for export. Optional.
	JSONSchema func() *js.Schema
}

// FileDescriptor groups the messages declared by one schema file. It is the
// unit of one-time registration.
type FileDescriptor struct {
	Path     string // e.g. graphik.proto
	Package  string // e.g. api
	Messages []*Descriptor
	// Init runs exactly once, before the messages become visible in the
	// registry. Optional.
	Init func() error
}

// Normalizer provides an optional hook to normalize a converted message before
// it is stored. If it is not implemented, the phase is skipped.
type Normalizer interface {
	Normalize(ctx context.Context) error
}

// Validator provides an optional hook to validate a converted message. If it
// is not implemented, the phase is skipped.
type Validator interface {
	Validate(ctx context.Context) error
}

// DescriptorOf returns the descriptor of the declared message type T, or nil
// when T is an interface type and so names no single message.
func DescriptorOf[T Message]() *Descriptor {
	if reflect.TypeFor[T]().Kind() == reflect.Interface {
		return nil
	}
	var zero T
	return zero.MessageDescriptor()
}
