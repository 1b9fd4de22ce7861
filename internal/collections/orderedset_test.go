package collections

import (
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewOrderedSet(t *testing.T) {
	t.Parallel()

	t.Run("Empty", func(t *testing.T) {
		t.Parallel()
		s := NewOrderedSet[string]()
		assert.Equal(t, 0, s.Len())
		assert.Empty(t, s.Values())
	})

	t.Run("DeduplicatesInFirstSeenOrder", func(t *testing.T) {
		t.Parallel()
		s := NewOrderedSet("a", "b", "a", "c")
		assert.Equal(t, 3, s.Len())
		assert.Equal(t, []string{"a", "b", "c"}, s.Values())
	})

	t.Run("FromSeq", func(t *testing.T) {
		t.Parallel()
		s := OrderedSetFrom(slices.Values([]int{3, 1, 3, 2, 1}))
		assert.Equal(t, []int{3, 1, 2}, s.Values())
	})
}

func TestOrderedSet_Add(t *testing.T) {
	t.Parallel()

	s := NewOrderedSet("a", "b")
	s.Add("a")
	assert.Equal(t, []string{"a", "b"}, s.Values())

	s.Add("c")
	assert.Equal(t, []string{"a", "b", "c"}, s.Values())
	assert.True(t, s.Contains("c"))
	assert.False(t, s.Contains("z"))
}

func TestOrderedSet_RemoveAndDiscard(t *testing.T) {
	t.Parallel()

	t.Run("DiscardAbsentIsNoOp", func(t *testing.T) {
		t.Parallel()
		s := NewOrderedSet("a", "b", "a", "c")
		s.Discard("z")
		assert.Equal(t, []string{"a", "b", "c"}, s.Values())
	})

	t.Run("RemoveAbsentFails", func(t *testing.T) {
		t.Parallel()
		s := NewOrderedSet("a", "b", "c")
		err := s.Remove("z")
		require.Error(t, err)
		assert.True(t, errors.Is(err, ErrNotFound))
		assert.Equal(t, []string{"a", "b", "c"}, s.Values())
	})

	t.Run("RemoveKeepsOrder", func(t *testing.T) {
		t.Parallel()
		s := NewOrderedSet("a", "b", "c", "d")
		require.NoError(t, s.Remove("b"))
		assert.Equal(t, []string{"a", "c", "d"}, s.Values())
		assert.False(t, s.Contains("b"))

		s.Discard("a")
		assert.Equal(t, []string{"c", "d"}, s.Values())

		// Re-adding appends at the end.
		s.Add("b")
		assert.Equal(t, []string{"c", "d", "b"}, s.Values())
		require.NoError(t, s.Remove("b"))
		assert.Equal(t, []string{"c", "d"}, s.Values())
	})
}

func TestOrderedSet_All(t *testing.T) {
	t.Parallel()

	s := NewOrderedSet(5, 4, 3)

	first := slices.Collect(s.All())
	second := slices.Collect(s.All())
	assert.Equal(t, []int{5, 4, 3}, first)
	assert.Equal(t, first, second)

	var partial []int
	for v := range s.All() {
		partial = append(partial, v)
		if v == 4 {
			break
		}
	}
	assert.Equal(t, []int{5, 4}, partial)
}

func TestOrderedSet_Union(t *testing.T) {
	t.Parallel()

	s := NewOrderedSet("a", "b")
	s.Union(NewOrderedSet("b", "c", "a", "d"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, s.Values())
}

func TestOrderedSet_String(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "OrderedSet", NewOrderedSet[string]().String())
	assert.Equal(t, "OrderedSet([a b c])", NewOrderedSet("a", "b", "c").String())
}

// TestOrderedSetInvariants checks, for arbitrary input sequences, that the set
// holds each element once and in first-seen order.
func TestOrderedSetInvariants(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping property-based test in short mode")
	}

	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	firstSeen := func(items []int) []int {
		var out []int
		for _, item := range items {
			if !slices.Contains(out, item) {
				out = append(out, item)
			}
		}
		return out
	}

	properties.Property("construction de-duplicates in first-seen order", prop.ForAll(
		func(items []int) bool {
			s := NewOrderedSet(items...)
			return slices.Equal(s.Values(), firstSeen(items))
		},
		gen.SliceOf(gen.IntRange(0, 20)),
	))

	properties.Property("discard removes exactly one element", prop.ForAll(
		func(items []int, victim int) bool {
			s := NewOrderedSet(items...)
			before := s.Len()
			present := s.Contains(victim)
			s.Discard(victim)

			expected := slices.DeleteFunc(firstSeen(items), func(v int) bool { return v == victim })
			if present {
				return s.Len() == before-1 && slices.Equal(s.Values(), expected)
			}
			return s.Len() == before && slices.Equal(s.Values(), expected)
		},
		gen.SliceOf(gen.IntRange(0, 20)),
		gen.IntRange(0, 25),
	))

	properties.Property("remove fails exactly when absent", prop.ForAll(
		func(items []int, victim int) bool {
			s := NewOrderedSet(items...)
			present := s.Contains(victim)
			err := s.Remove(victim)
			return (err == nil) == present && !s.Contains(victim)
		},
		gen.SliceOf(gen.IntRange(0, 20)),
		gen.IntRange(0, 25),
	))

	properties.TestingRun(t)
}
