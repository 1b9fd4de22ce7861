package util

import (
	"fmt"
	"iter"
	"reflect"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Benny93/layerviz/internal/collections"
)

func TestIsEmpty(t *testing.T) {
	t.Parallel()

	t.Run("EmptySlice", func(t *testing.T) {
		t.Parallel()
		assert.True(t, IsEmpty(slices.Values([]int{})))
	})

	t.Run("NonEmptySlice", func(t *testing.T) {
		t.Parallel()
		assert.False(t, IsEmpty(slices.Values([]int{1})))
	})

	t.Run("PullsAtMostOne", func(t *testing.T) {
		t.Parallel()
		pulled := 0
		seq := iter.Seq[int](func(yield func(int) bool) {
			for i := range 10 {
				pulled++
				if !yield(i) {
					return
				}
			}
		})
		assert.False(t, IsEmpty(seq))
		assert.Equal(t, 1, pulled)
	})

	t.Run("OrderedSet", func(t *testing.T) {
		t.Parallel()
		assert.True(t, IsEmpty(collections.NewOrderedSet[string]().All()))
		assert.False(t, IsEmpty(collections.NewOrderedSet("a").All()))
	})
}

func TestUpdatedDict(t *testing.T) {
	t.Parallel()

	base := func() *collections.OrderedMap[string, int] {
		m := collections.NewOrderedMap[string, int]()
		m.Set("a", 1)
		m.Set("b", 2)
		return m
	}

	t.Run("ReplacesExistingKey", func(t *testing.T) {
		t.Parallel()
		in := base()
		out := UpdatedDict(in, "b", 5)

		assert.Equal(t, "{a:1 b:5}", out.String())
		assert.Equal(t, "{a:1 b:2}", in.String())
	})

	t.Run("KeepsOrder", func(t *testing.T) {
		t.Parallel()
		out := UpdatedDict(base(), "a", 9)
		assert.Equal(t, []string{"a", "b"}, out.Keys())
	})

	t.Run("MissingKeyIsNoOp", func(t *testing.T) {
		t.Parallel()
		in := base()
		out := UpdatedDict(in, "z", 7)

		assert.Equal(t, "{a:1 b:2}", out.String())
		assert.False(t, out.Has("z"))
		assert.NotSame(t, in, out)
	})

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		out := UpdatedDict(collections.NewOrderedMap[string, int](), "a", 1)
		assert.Equal(t, 0, out.Len())
	})
}

type tensor struct{}

func (tensor) String() string { return "tensor" }

func TestAssertInputType(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		valid   []reflect.Type
		input   any
		wantErr bool
	}{
		{"ExactMatch", TypesOf(0), 42, false},
		{"SecondOfSeveral", TypesOf("", 0), 42, false},
		{"PointerMatch", TypesOf(&tensor{}), &tensor{}, false},
		{"InterfaceMatch", []reflect.Type{TypeFor[fmt.Stringer]()}, tensor{}, false},
		{"Mismatch", TypesOf(""), 42, true},
		{"ValueIsNotPointer", TypesOf(&tensor{}), tensor{}, true},
		{"NilInput", TypesOf(0), nil, true},
		{"NilInputAllowed", TypesOf(0, nil), nil, false},
		{"NilAllowedButIntGiven", TypesOf(nil), 1, true},
		{"NoValidTypes", nil, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			err := AssertInputType("traverse", tt.valid, tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.IsAssertionFailure(err))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestAssertInputType_Message(t *testing.T) {
	t.Parallel()

	err := AssertInputType("process_input", TypesOf("", 0), 1.5)
	require.Error(t, err)

	msg := err.Error()
	assert.Contains(t, msg, "process_input")
	assert.Contains(t, msg, "float64")
	assert.Contains(t, msg, "(string, int)")

	err = AssertInputType("forward", TypesOf(0), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "<nil>")
}

func TestMustInputType(t *testing.T) {
	t.Parallel()

	assert.NotPanics(t, func() { MustInputType("f", TypesOf(""), "x") })
	assert.Panics(t, func() { MustInputType("f", TypesOf(""), 1) })
}
