package api

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/reoring/msgfield"
	"github.com/reoring/msgfield/i18n"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// report config keys so issue paths match the input
	v.RegisterTagNameFunc(msgfield.ResolveStructKey)
	return v
}

// validateStruct runs tag validation and maps failures to Issues.
func validateStruct(s any) error {
	err := validate.Struct(s)
	if err == nil {
		return nil
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return msgfield.Issues{msgfield.Issue{Path: "/", Code: msgfield.CodeParseError, Message: err.Error(), Cause: err}}
	}
	var iss msgfield.Issues
	for _, fe := range verrs {
		code := codeForTag(fe.Tag())
		iss = msgfield.AppendIssues(iss, msgfield.Issue{
			Path:    namespaceToPointer(fe.Namespace()),
			Code:    code,
			Message: i18n.T(code, nil),
			Hint:    fe.Tag(),
			Params:  map[string]any{"rule": fe.Tag(), "param": fe.Param()},
		})
	}
	return iss
}

func codeForTag(tag string) string {
	switch tag {
	case "required":
		return msgfield.CodeRequired
	case "max":
		return msgfield.CodeTooLong
	default:
		return msgfield.CodeInvalidType
	}
}

// namespaceToPointer turns "DocConstructor.ref.gtype" into "/ref/gtype".
func namespaceToPointer(ns string) string {
	parts := strings.Split(ns, ".")
	p := msgfield.RootPath()
	for _, part := range parts[1:] {
		p = p.Field(part)
	}
	return p.Pointer()
}
