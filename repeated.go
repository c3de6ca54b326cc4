package msgfield

import (
	"context"
	"iter"
	"sync"
)

// RepeatedField is an ordered collection of messages of exactly one declared
// type T. Every mutation validates its whole input before touching the stored
// sequence, so a failed call leaves the previous content in place.
//
// The zero value is an empty field ready to use.
type RepeatedField[T Message] struct {
	mu    sync.RWMutex
	elems []T
}

// NewRepeatedField returns an empty field and makes sure the schema file of T
// is registered in GlobalTypes. It panics when T is an interface type or when
// that registration fails, which only happens for conflicting schema
// declarations.
func NewRepeatedField[T Message]() *RepeatedField[T] {
	if err := EnsureSchema[T](); err != nil {
		panic(err)
	}
	return &RepeatedField[T]{elems: []T{}}
}

// NewRepeatedFieldFrom builds a field from initial, which may be nil, a slice
// (of T, any, or RawConfig) or a single-value iterator such as iter.Seq[T] or
// iter.Seq[RawConfig]; nil slices and iterators read as empty. Items are
// either already typed or RawConfig values converted through the registered
// descriptor of T. The first item that cannot be interpreted as T fails the
// construction with a *TypeMismatchError.
func NewRepeatedFieldFrom[T Message](ctx context.Context, initial any) (*RepeatedField[T], error) {
	want, err := declared[T]()
	if err != nil {
		return nil, err
	}
	if err := ensureSchema(want); err != nil {
		return nil, err
	}
	seq, ok := seqOf[T](initial)
	if !ok {
		return nil, &TypeMismatchError{Index: -1, Expected: "repeated " + want.FullName, Actual: typeName(initial)}
	}
	elems := []T{}
	i := 0
	for v := range seq {
		e, err := convertAt[T](ctx, v, i, want)
		if err != nil {
			return nil, err
		}
		elems = append(elems, e)
		i++
	}
	return &RepeatedField[T]{elems: elems}, nil
}

// Descriptor returns the descriptor of the element type, nil for interface
// element types.
func (r *RepeatedField[T]) Descriptor() *Descriptor { return DescriptorOf[T]() }

// Get returns the current sequence. The slice is shared with the field, not a
// snapshot; it is never nil.
func (r *RepeatedField[T]) Get() []T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.elems == nil {
		return []T{}
	}
	return r.elems
}

// Set replaces the whole sequence with an ordered copy of values. Every element
// must be a non-nil value of exactly T.
func (r *RepeatedField[T]) Set(values []T) error {
	want, err := declared[T]()
	if err != nil {
		return err
	}
	next := make([]T, len(values))
	for i, v := range values {
		e, err := checkAt[T](v, i, want)
		if err != nil {
			return err
		}
		next[i] = e
	}
	r.mu.Lock()
	r.elems = next
	r.mu.Unlock()
	return nil
}

// SetAny is Set for dynamically typed input (a slice or iter.Seq). It applies
// the same exact type rule and does not convert config-shaped values.
func (r *RepeatedField[T]) SetAny(values any) error {
	want, err := declared[T]()
	if err != nil {
		return err
	}
	seq, ok := seqOf[T](values)
	if !ok {
		return &TypeMismatchError{Index: -1, Expected: "repeated " + want.FullName, Actual: typeName(values)}
	}
	next := []T{}
	i := 0
	for v := range seq {
		e, err := checkAt[T](v, i, want)
		if err != nil {
			return err
		}
		next = append(next, e)
		i++
	}
	r.mu.Lock()
	r.elems = next
	r.mu.Unlock()
	return nil
}

// Append adds values at the end after validating all of them.
func (r *RepeatedField[T]) Append(values ...T) error {
	want, err := declared[T]()
	if err != nil {
		return err
	}
	r.mu.RLock()
	base := len(r.elems)
	r.mu.RUnlock()
	for i, v := range values {
		if _, err := checkAt[T](v, base+i, want); err != nil {
			return err
		}
	}
	r.mu.Lock()
	r.elems = append(r.elems, values...)
	r.mu.Unlock()
	return nil
}

// Len returns the number of elements.
func (r *RepeatedField[T]) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.elems)
}

// At returns the element at index i; ok is false when i is out of range.
func (r *RepeatedField[T]) At(i int) (T, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i < 0 || i >= len(r.elems) {
		var zero T
		return zero, false
	}
	return r.elems[i], true
}

// All iterates over the sequence as it was when iteration started.
func (r *RepeatedField[T]) All() iter.Seq2[int, T] {
	elems := r.Get()
	return func(yield func(int, T) bool) {
		for i, e := range elems {
			if !yield(i, e) {
				return
			}
		}
	}
}
