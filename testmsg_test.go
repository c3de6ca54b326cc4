package msgfield_test

import (
	"context"
	"strings"

	"github.com/reoring/msgfield"
)

var testFile = &msgfield.FileDescriptor{Path: "test/doc.proto", Package: "test"}

var (
	docDesc = &msgfield.Descriptor{
		FullName: "test.Doc",
		File:     testFile,
		Parse:    parseDoc,
	}
	noteDesc = &msgfield.Descriptor{FullName: "test.Note", File: testFile}
)

func init() { testFile.Messages = []*msgfield.Descriptor{docDesc, noteDesc} }

type doc struct{ Name string }

func (*doc) MessageDescriptor() *msgfield.Descriptor { return docDesc }

func (d *doc) Named() string { return d.Name }

// namedMessage is an interface element type; it names no single message.
type namedMessage interface {
	msgfield.Message
	Named() string
}

func (d *doc) Normalize(context.Context) error {
	d.Name = strings.TrimSpace(d.Name)
	return nil
}

func (d *doc) Validate(context.Context) error {
	if d.Name == "" {
		return msgfield.Issues{msgfield.RootPath().Field("name").Issue(msgfield.CodeRequired, "name is required")}
	}
	return nil
}

type note struct{ Text string }

func (*note) MessageDescriptor() *msgfield.Descriptor { return noteDesc }

func parseDoc(_ context.Context, v any) (msgfield.Message, error) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, msgfield.Issues{msgfield.Issue{Path: "/", Code: msgfield.CodeInvalidType, Message: "expected object"}}
	}
	d := &doc{}
	if raw, ok := m["name"]; ok {
		s, ok := raw.(string)
		if !ok {
			return nil, msgfield.Issues{msgfield.RootPath().Field("name").Issue(msgfield.CodeInvalidType, "expected string")}
		}
		d.Name = s
	}
	return d, nil
}
