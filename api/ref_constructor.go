package api

import (
	"context"

	"github.com/reoring/msgfield"
	js "github.com/reoring/msgfield/jsonschema"
)

// RefConstructor names the document to create: its type and, optionally, its id.
type RefConstructor struct {
	// Gtype is the type of the doc, e.g. user.
	Gtype string `json:"gtype" validate:"required"`
	// Gid is the unique id of the doc within its type. Empty ids are generated.
	Gid string `json:"gid,omitempty"`
}

func (*RefConstructor) MessageDescriptor() *msgfield.Descriptor { return refConstructorDesc }

// Validate checks the struct rules of the ref.
func (r *RefConstructor) Validate(context.Context) error { return validateStruct(r) }

func parseRefConstructorMessage(ctx context.Context, v any) (msgfield.Message, error) {
	r, err := parseRefConstructor(v)
	if err != nil {
		return nil, err
	}
	return r, nil
}

func parseRefConstructor(v any) (*RefConstructor, error) {
	m, iss := objectFields(v, "gtype", "gid")
	if m == nil {
		return nil, iss
	}
	gtype, more := stringField(m, "gtype")
	iss = append(iss, more...)
	gid, more := stringField(m, "gid")
	iss = append(iss, more...)
	if len(iss) > 0 {
		return nil, iss
	}
	return &RefConstructor{Gtype: gtype, Gid: gid}, nil
}

func refConstructorSchema() *js.Schema {
	return &js.Schema{
		Type:        "object",
		Description: "ref names the type and optional id of a doc",
		Properties: map[string]*js.Schema{
			"gtype": {Type: "string", Description: "type of the doc"},
			"gid":   {Type: "string", Description: "id of the doc; generated when empty"},
		},
		Required:             []string{"gtype"},
		AdditionalProperties: false,
	}
}
