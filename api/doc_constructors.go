package api

import (
	"context"
	"fmt"

	"github.com/reoring/msgfield"
	js "github.com/reoring/msgfield/jsonschema"
)

const docConstructorsName = "api.DocConstructors"

// DocConstructors is used to create a batch of docs.
//
// The zero value is an empty batch; NewDocConstructors additionally makes
// sure the graphik schema is registered.
type DocConstructors struct {
	// docs is an array of doc constructors
	docs msgfield.RepeatedField[*DocConstructor]
}

func (*DocConstructors) MessageDescriptor() *msgfield.Descriptor { return docConstructorsDesc }

// NewDocConstructors returns an empty batch.
func NewDocConstructors() *DocConstructors {
	if err := msgfield.EnsureSchema[*DocConstructors](); err != nil {
		panic(err)
	}
	return &DocConstructors{}
}

// NewDocConstructorsFrom builds a batch from data: nil, a list of docs (typed
// or config-shaped), or a config object of the form {"docs": [...]}.
func NewDocConstructorsFrom(ctx context.Context, data any) (*DocConstructors, error) {
	cfg, isObject := data.(msgfield.RawConfig)
	if isObject {
		m, iss := objectFields(cfg, "docs")
		if len(iss) > 0 {
			return nil, batchMismatch(data, iss)
		}
		data = m["docs"]
	}
	field, err := msgfield.NewRepeatedFieldFrom[*DocConstructor](ctx, data)
	if err != nil {
		if !isObject {
			return nil, err
		}
		// paths relative to the input object, not to its docs list
		iss, ok := msgfield.AsIssues(err)
		if !ok {
			return nil, err
		}
		return nil, batchMismatch(cfg, msgfield.PrefixIssues(msgfield.RootPath().Field("docs"), iss))
	}
	b := &DocConstructors{}
	if err := b.docs.Set(field.Get()); err != nil {
		return nil, err
	}
	return b, nil
}

func batchMismatch(data any, iss msgfield.Issues) *msgfield.TypeMismatchError {
	return &msgfield.TypeMismatchError{Index: -1, Expected: docConstructorsName, Actual: fmt.Sprintf("%T", data), Cause: iss}
}

// GetDocs returns the docs of the batch in order.
func (b *DocConstructors) GetDocs() []*DocConstructor { return b.docs.Get() }

// SetDocs replaces every doc of the batch. Nothing changes when an element is
// rejected.
func (b *DocConstructors) SetDocs(docs []*DocConstructor) error { return b.docs.Set(docs) }

// AppendDocs adds docs at the end of the batch.
func (b *DocConstructors) AppendDocs(docs ...*DocConstructor) error { return b.docs.Append(docs...) }

// Len returns the number of docs.
func (b *DocConstructors) Len() int { return b.docs.Len() }

// JSONSchema projects the batch shape.
func (b *DocConstructors) JSONSchema() *js.Schema { return docConstructorsSchema() }

func parseDocConstructorsMessage(ctx context.Context, v any) (msgfield.Message, error) {
	b, err := NewDocConstructorsFrom(ctx, v)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func docConstructorsSchema() *js.Schema {
	return &js.Schema{
		Type:        "object",
		Title:       docConstructorsName,
		Description: "DocConstructors is used to create a batch of docs",
		Properties: map[string]*js.Schema{
			"docs": {Type: "array", Description: "docs is an array of doc constructors", Items: docConstructorSchema()},
		},
		AdditionalProperties: false,
	}
}
