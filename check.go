package msgfield

import (
	"context"
	"fmt"
	"iter"
	"reflect"
)

// CheckType verifies that v is exactly the declared message type T. It never
// converts: config-shaped values are rejected.
func CheckType[T Message](v any) (T, error) {
	want, err := declared[T]()
	if err != nil {
		var zero T
		return zero, err
	}
	return checkAt[T](v, -1, want)
}

// ConvertType accepts either a T or a RawConfig that the registered
// descriptor of T can parse.
func ConvertType[T Message](ctx context.Context, v any) (T, error) {
	var zero T
	want, err := declared[T]()
	if err != nil {
		return zero, err
	}
	if err := ensureSchema(want); err != nil {
		return zero, err
	}
	return convertAt[T](ctx, v, -1, want)
}

func checkAt[T Message](v any, i int, want *Descriptor) (T, error) {
	var zero T
	e, ok := v.(T)
	if !ok {
		return zero, mismatch(i, want, v, nil)
	}
	if isNilMessage(e) {
		return zero, &TypeMismatchError{Index: i, Expected: want.FullName, Actual: "nil"}
	}
	// a Go type may report another message's descriptor
	if d := e.MessageDescriptor(); d == nil || d.FullName != want.FullName {
		return zero, mismatch(i, want, v, nil)
	}
	return e, nil
}

func convertAt[T Message](ctx context.Context, v any, i int, want *Descriptor) (T, error) {
	cfg, ok := v.(RawConfig)
	if !ok {
		return checkAt[T](v, i, want)
	}
	var zero T
	if want.Parse == nil {
		return zero, mismatch(i, want, v, nil)
	}
	m, err := want.Parse(ctx, cfg)
	if err != nil {
		return zero, mismatch(i, want, v, err)
	}
	if n, ok := m.(Normalizer); ok {
		if err := n.Normalize(ctx); err != nil {
			return zero, mismatch(i, want, v, err)
		}
	}
	if vd, ok := m.(Validator); ok {
		if err := vd.Validate(ctx); err != nil {
			return zero, mismatch(i, want, v, err)
		}
	}
	return checkAt[T](m, i, want)
}

func mismatch(i int, want *Descriptor, v any, cause error) *TypeMismatchError {
	return &TypeMismatchError{Index: i, Expected: want.FullName, Actual: typeName(v), Cause: cause}
}

func typeName(v any) string {
	if v == nil {
		return "nil"
	}
	return fmt.Sprintf("%T", v)
}

func isNilMessage(m Message) bool {
	if m == nil {
		return true
	}
	rv := reflect.ValueOf(m)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Interface:
		return rv.IsNil()
	}
	return false
}

// EnsureSchema registers the schema file declaring T in GlobalTypes. It is
// safe to call from any number of goroutines; the file is registered once.
func EnsureSchema[T Message]() error {
	d, err := declared[T]()
	if err != nil {
		return err
	}
	return ensureSchema(d)
}

// declared returns the descriptor of T. Interface types name no single message
// and are rejected.
func declared[T Message]() (*Descriptor, error) {
	d := DescriptorOf[T]()
	if d == nil {
		return nil, fmt.Errorf("%w: %s", ErrNoDescriptor, reflect.TypeFor[T]())
	}
	return d, nil
}

func ensureSchema(d *Descriptor) error {
	if d == nil {
		return ErrNoDescriptor
	}
	if d.File == nil {
		return fmt.Errorf("msgfield: message %s is not linked to a schema file", d.FullName)
	}
	return GlobalTypes.InitSchemaOnce(d.File)
}

// seqOf adapts the iterables accepted by RepeatedField into a single sequence.
// Anything that is not iterable reports ok=false. Nil slices and nil iterators
// read as empty.
func seqOf[T Message](v any) (iter.Seq[any], bool) {
	switch src := v.(type) {
	case nil:
		return emptySeq, true
	case []T:
		return func(yield func(any) bool) {
			for _, e := range src {
				if !yield(e) {
					return
				}
			}
		}, true
	case []any:
		return func(yield func(any) bool) {
			for _, e := range src {
				if !yield(e) {
					return
				}
			}
		}, true
	case iter.Seq[T]:
		if src == nil {
			return emptySeq, true
		}
		return func(yield func(any) bool) {
			for e := range src {
				if !yield(e) {
					return
				}
			}
		}, true
	case iter.Seq[any]:
		if src == nil {
			return emptySeq, true
		}
		return src, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return func(yield func(any) bool) {
			for i := 0; i < rv.Len(); i++ {
				if !yield(rv.Index(i).Interface()) {
					return
				}
			}
		}, true
	case reflect.Func:
		// other single-value iterators, e.g. iter.Seq[RawConfig]
		if !rv.Type().CanSeq() {
			return nil, false
		}
		if rv.IsNil() {
			return emptySeq, true
		}
		return func(yield func(any) bool) {
			for e := range rv.Seq() {
				if !yield(e.Interface()) {
					return
				}
			}
		}, true
	}
	return nil, false
}

func emptySeq(func(any) bool) {}
