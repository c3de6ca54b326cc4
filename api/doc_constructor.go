package api

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/reoring/msgfield"
	js "github.com/reoring/msgfield/jsonschema"
)

// DocConstructor describes a single doc to create.
type DocConstructor struct {
	Ref *RefConstructor `json:"ref" validate:"required"`
	// Attributes are arbitrary key/value pairs; they must be representable as a
	// google.protobuf.Struct.
	Attributes map[string]any `json:"attributes,omitempty"`
}

func (*DocConstructor) MessageDescriptor() *msgfield.Descriptor { return docConstructorDesc }

// Normalize assigns a generated gid when the ref has none.
func (d *DocConstructor) Normalize(context.Context) error {
	if d.Ref != nil && d.Ref.Gid == "" {
		d.Ref.Gid = uuid.NewString()
	}
	return nil
}

// Validate checks struct rules and that attributes fit a protobuf Struct.
func (d *DocConstructor) Validate(context.Context) error {
	var iss msgfield.Issues
	if err := validateStruct(d); err != nil {
		if more, ok := msgfield.AsIssues(err); ok {
			iss = append(iss, more...)
		} else {
			return err
		}
	}
	if _, err := structpb.NewStruct(d.Attributes); err != nil {
		it := invalidType(msgfield.RootPath().Field("attributes"), "google.protobuf.Struct")
		it.Cause = err
		iss = msgfield.AppendIssues(iss, it)
	}
	if len(iss) > 0 {
		return iss
	}
	return nil
}

// AttributesStruct returns the attributes as a google.protobuf.Struct.
func (d *DocConstructor) AttributesStruct() (*structpb.Struct, error) {
	s, err := structpb.NewStruct(d.Attributes)
	if err != nil {
		return nil, fmt.Errorf("api: attributes of %s: %w", d.refString(), err)
	}
	return s, nil
}

func (d *DocConstructor) refString() string {
	if d.Ref == nil {
		return "<no ref>"
	}
	return d.Ref.Gtype + "/" + d.Ref.Gid
}

func parseDocConstructorMessage(ctx context.Context, v any) (msgfield.Message, error) {
	d, err := parseDocConstructor(v)
	if err != nil {
		return nil, err
	}
	return d, nil
}

func parseDocConstructor(v any) (*DocConstructor, error) {
	m, iss := objectFields(v, "ref", "attributes")
	if m == nil {
		return nil, iss
	}
	d := &DocConstructor{}
	if raw, ok := m["ref"]; ok && raw != nil {
		ref, err := parseRefConstructor(raw)
		if err != nil {
			nested, _ := msgfield.AsIssues(err)
			iss = append(iss, msgfield.PrefixIssues(msgfield.RootPath().Field("ref"), nested)...)
		}
		d.Ref = ref
	}
	if raw, ok := m["attributes"]; ok && raw != nil {
		attrs, ok := raw.(map[string]any)
		if !ok {
			iss = msgfield.AppendIssues(iss, invalidType(msgfield.RootPath().Field("attributes"), "object"))
		}
		d.Attributes = attrs
	}
	if len(iss) > 0 {
		return nil, iss
	}
	return d, nil
}

func docConstructorSchema() *js.Schema {
	return &js.Schema{
		Type:        "object",
		Description: "DocConstructor is used to create a doc",
		Properties: map[string]*js.Schema{
			"ref":        refConstructorSchema(),
			"attributes": {Type: "object", Description: "arbitrary doc attributes"},
		},
		Required:             []string{"ref"},
		AdditionalProperties: false,
	}
}
