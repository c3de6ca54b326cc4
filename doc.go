// Package msgfield provides:
//
// - RepeatedField[T], an ordered container of messages of exactly one declared type
// - A process-wide Registry that registers schema files exactly once (InitSchemaOnce)
// - Exact type checks (CheckType) and config-to-message conversion (ConvertType)
// - A stable error model via TypeMismatchError and Issues (JSON Pointer, code, message)
//
// Design policy:
// - Keep the runtime in the root package; message definitions live in api/.
// - Config loading lives under source/, the CLI under cmd/docbatch.
// - Mutations validate their whole input before committing anything.
//
// Typical usage:
//
//	docs, err := msgfield.NewRepeatedFieldFrom[*api.DocConstructor](ctx, raw)
//	if tm, ok := msgfield.AsTypeMismatch(err); ok { ... }
//	err = docs.Set([]*api.DocConstructor{d1, d2})
//	for i, d := range docs.All() { ... }
package msgfield
