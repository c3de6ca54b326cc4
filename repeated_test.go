package msgfield_test

import (
	"context"
	"iter"
	"maps"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/reoring/msgfield"
)

func TestRepeatedField_EmptyByDefault(t *testing.T) {
	req := require.New(t)
	f := msgfield.NewRepeatedField[*doc]()
	req.NotNil(f.Get())
	req.Empty(f.Get())

	var zero msgfield.RepeatedField[*doc]
	req.NotNil(zero.Get(), "zero value should read as empty")
	req.Empty(zero.Get())
}

// TestRepeatedField_Scenario walks construct -> set -> rejected set.
func TestRepeatedField_Scenario(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	f, err := msgfield.NewRepeatedFieldFrom[*doc](ctx, []any{})
	req.NoError(err)
	req.Empty(f.Get())

	d1, d2 := &doc{Name: "a"}, &doc{Name: "b"}
	req.NoError(f.Set([]*doc{d1, d2}))
	req.Equal([]*doc{d1, d2}, f.Get())

	err = f.SetAny([]any{d1, "not-a-T"})
	req.ErrorIs(err, msgfield.ErrTypeMismatch)
	tm, ok := msgfield.AsTypeMismatch(err)
	req.True(ok)
	req.Equal(1, tm.Index)
	req.Equal("string", tm.Actual)
	req.Equal("test.Doc", tm.Expected)

	// failed set must not mutate
	req.Equal([]*doc{d1, d2}, f.Get())
}

func TestRepeatedField_ReplaceNotMerge(t *testing.T) {
	req := require.New(t)
	f := msgfield.NewRepeatedField[*doc]()
	s1 := []*doc{{Name: "a"}, {Name: "b"}, {Name: "c"}}
	s2 := []*doc{{Name: "z"}}
	req.NoError(f.Set(s1))
	req.NoError(f.Set(s2))
	req.Equal(s2, f.Get())
}

func TestRepeatedField_SetCopiesInput(t *testing.T) {
	req := require.New(t)
	f := msgfield.NewRepeatedField[*doc]()
	in := []*doc{{Name: "a"}, {Name: "b"}}
	req.NoError(f.Set(in))
	in[0] = &doc{Name: "changed"}
	req.Equal("a", f.Get()[0].Name, "field must hold its own copy of the input slice")
}

func TestRepeatedField_GetIsLive(t *testing.T) {
	req := require.New(t)
	f := msgfield.NewRepeatedField[*doc]()
	req.NoError(f.Set([]*doc{{Name: "a"}}))
	req.NoError(f.Set([]*doc{{Name: "x"}, {Name: "y"}}))
	got := f.Get()
	req.Len(got, 2)
	req.Equal("y", got[1].Name)
}

func TestRepeatedField_RejectsNilAndForeignMessages(t *testing.T) {
	req := require.New(t)
	f := msgfield.NewRepeatedField[*doc]()
	d := &doc{Name: "keep"}
	req.NoError(f.Set([]*doc{d}))

	tm, ok := msgfield.AsTypeMismatch(f.Set([]*doc{{Name: "ok"}, nil}))
	req.True(ok)
	req.Equal(1, tm.Index)
	req.Equal("nil", tm.Actual)

	tm, ok = msgfield.AsTypeMismatch(f.SetAny([]msgfield.Message{&doc{Name: "ok"}, &note{Text: "hi"}}))
	req.True(ok)
	req.Equal(1, tm.Index)
	req.Equal("*msgfield_test.note", tm.Actual)

	// config-shaped values are only accepted at construction time
	req.ErrorIs(f.SetAny([]any{map[string]any{"name": "x"}}), msgfield.ErrTypeMismatch)

	tm, ok = msgfield.AsTypeMismatch(f.SetAny(42))
	req.True(ok)
	req.Equal(-1, tm.Index)
	req.Equal("repeated test.Doc", tm.Expected)

	// prior content survives rejected writes
	req.Equal([]*doc{d}, f.Get())
}

func TestRepeatedField_SetAnyAcceptsSeq(t *testing.T) {
	req := require.New(t)
	f := msgfield.NewRepeatedField[*doc]()
	want := []*doc{{Name: "a"}, {Name: "b"}}
	req.NoError(f.SetAny(slices.Values(want)))
	req.Equal(want, f.Get())

	var named iter.Seq[msgfield.Message] = func(yield func(msgfield.Message) bool) {
		for _, d := range want {
			if !yield(d) {
				return
			}
		}
	}
	req.NoError(f.SetAny(named))
	req.Equal(want, f.Get())

	// two-value iterators are not element sequences
	tm, ok := msgfield.AsTypeMismatch(f.SetAny(maps.All(map[string]*doc{"a": want[0]})))
	req.True(ok)
	req.Equal(-1, tm.Index)
}

func TestRepeatedField_NilIteratorsAreEmpty(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	f, err := msgfield.NewRepeatedFieldFrom[*doc](ctx, iter.Seq[any](nil))
	req.NoError(err)
	req.Empty(f.Get())

	f, err = msgfield.NewRepeatedFieldFrom[*doc](ctx, iter.Seq[msgfield.RawConfig](nil))
	req.NoError(err)
	req.Empty(f.Get())

	req.NoError(f.Set([]*doc{{Name: "a"}}))
	req.NoError(f.SetAny(iter.Seq[*doc](nil)))
	req.Empty(f.Get())

	req.NoError(f.Set([]*doc{{Name: "a"}}))
	req.NoError(f.SetAny([]*doc(nil)))
	req.Empty(f.Get())
}

func TestRepeatedField_ConstructFromConfig(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()
	d1 := &doc{Name: "typed"}
	f, err := msgfield.NewRepeatedFieldFrom[*doc](ctx, []any{d1, map[string]any{"name": "  raw  "}})
	req.NoError(err)
	got := f.Get()
	req.Len(got, 2)
	req.Same(d1, got[0])
	req.Equal("raw", got[1].Name)

	_, err = msgfield.NewRepeatedFieldFrom[*doc](ctx, []any{d1, map[string]any{"name": 3}})
	tm, ok := msgfield.AsTypeMismatch(err)
	req.True(ok)
	req.Equal(1, tm.Index)
	iss, ok := msgfield.AsIssues(err)
	req.True(ok)
	req.Len(iss, 1)
	req.Equal("/1/name", iss[0].Path)
	req.Equal(msgfield.CodeInvalidType, iss[0].Code)

	// Validator hook runs after conversion
	_, err = msgfield.NewRepeatedFieldFrom[*doc](ctx, []any{map[string]any{"name": "   "}})
	iss, _ = msgfield.AsIssues(err)
	req.Len(iss, 1)
	req.Equal("/0/name", iss[0].Path)
	req.Equal(msgfield.CodeRequired, iss[0].Code)

	// messages without a Parse hook accept typed values only
	_, err = msgfield.NewRepeatedFieldFrom[*note](ctx, []any{map[string]any{"text": "x"}})
	req.ErrorIs(err, msgfield.ErrTypeMismatch)

	_, err = msgfield.NewRepeatedFieldFrom[*doc](ctx, "docs")
	tm, ok = msgfield.AsTypeMismatch(err)
	req.True(ok)
	req.Equal(-1, tm.Index)

	f, err = msgfield.NewRepeatedFieldFrom[*doc](ctx, nil)
	req.NoError(err)
	req.Equal(0, f.Len())
}

func TestRepeatedField_ConstructFromConfigSeq(t *testing.T) {
	req := require.New(t)
	cfgs := []msgfield.RawConfig{{"name": "a"}, {"name": " b "}}
	f, err := msgfield.NewRepeatedFieldFrom[*doc](context.Background(), slices.Values(cfgs))
	req.NoError(err)
	req.Equal(2, f.Len())
	req.Equal("b", f.Get()[1].Name)

	_, err = msgfield.NewRepeatedFieldFrom[*doc](context.Background(), slices.Values([]msgfield.RawConfig{{"name": 1}}))
	iss, ok := msgfield.AsIssues(err)
	req.True(ok)
	req.Equal("/0/name", iss[0].Path)
}

func TestRepeatedField_InterfaceElementType(t *testing.T) {
	req := require.New(t)
	ctx := context.Background()

	_, err := msgfield.NewRepeatedFieldFrom[msgfield.Message](ctx, []any{&doc{Name: "a"}})
	req.ErrorIs(err, msgfield.ErrNoDescriptor)

	var f msgfield.RepeatedField[namedMessage]
	req.Nil(f.Descriptor())
	req.ErrorIs(f.Set([]namedMessage{&doc{Name: "a"}}), msgfield.ErrNoDescriptor)
	req.ErrorIs(f.SetAny([]any{&doc{Name: "a"}}), msgfield.ErrNoDescriptor)
	req.ErrorIs(f.Append(&doc{Name: "a"}), msgfield.ErrNoDescriptor)
	req.Empty(f.Get())

	req.Panics(func() { msgfield.NewRepeatedField[msgfield.Message]() })
}

func TestRepeatedField_AppendAtAll(t *testing.T) {
	req := require.New(t)
	f := msgfield.NewRepeatedField[*doc]()
	a, b := &doc{Name: "a"}, &doc{Name: "b"}
	req.NoError(f.Append(a))
	req.Error(f.Append(b, nil))
	req.Equal(1, f.Len(), "rejected append must not add anything")
	req.NoError(f.Append(b))

	got, ok := f.At(1)
	req.True(ok)
	req.Same(b, got)
	_, ok = f.At(2)
	req.False(ok)

	var names []string
	for _, d := range f.All() {
		names = append(names, d.Name)
	}
	req.Equal([]string{"a", "b"}, names)
	req.Equal("test.Doc", f.Descriptor().FullName)
}

// TestRepeatedField_ConcurrentSetGet checks that readers never observe a
// partially replaced sequence.
func TestRepeatedField_ConcurrentSetGet(t *testing.T) {
	f := msgfield.NewRepeatedField[*doc]()
	short := []*doc{{Name: "s"}}
	long := []*doc{{Name: "l1"}, {Name: "l2"}, {Name: "l3"}}

	var wg sync.WaitGroup
	for w := 0; w < 4; w++ {
		wg.Add(1)
		go func(w int) {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				src := short
				if (i+w)%2 == 0 {
					src = long
				}
				if err := f.Set(src); err != nil {
					t.Error(err)
					return
				}
			}
		}(w)
	}
	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < 200; i++ {
				got := f.Get()
				switch len(got) {
				case 0:
				case 1:
					if got[0].Name != "s" {
						t.Errorf("torn read: %v", got)
					}
				case 3:
					if got[0].Name != "l1" || got[2].Name != "l3" {
						t.Errorf("torn read: %v", got)
					}
				default:
					t.Errorf("unexpected length %d", len(got))
				}
			}
		}()
	}
	wg.Wait()
}
