// Package api declares the graphik document-constructor messages and the
// schema file that registers them with the msgfield runtime.
package api

import (
	"github.com/reoring/msgfield"
)

// FileGraphik is the schema file declaring every message of this package.
// It is registered lazily, the first time a container of these messages is
// constructed.
var FileGraphik = &msgfield.FileDescriptor{Path: "graphik.proto", Package: "api"}

var (
	refConstructorDesc = &msgfield.Descriptor{
		FullName:   "api.RefConstructor",
		File:       FileGraphik,
		Parse:      parseRefConstructorMessage,
		JSONSchema: refConstructorSchema,
	}
	docConstructorDesc = &msgfield.Descriptor{
		FullName:   "api.DocConstructor",
		File:       FileGraphik,
		Parse:      parseDocConstructorMessage,
		JSONSchema: docConstructorSchema,
	}
	docConstructorsDesc = &msgfield.Descriptor{
		FullName:   docConstructorsName,
		File:       FileGraphik,
		Parse:      parseDocConstructorsMessage,
		JSONSchema: docConstructorsSchema,
	}
)

func init() {
	FileGraphik.Messages = []*msgfield.Descriptor{refConstructorDesc, docConstructorDesc, docConstructorsDesc}
}
