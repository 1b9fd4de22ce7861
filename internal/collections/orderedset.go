// Package collections provides insertion-ordered containers.
//
// Graph building iterates over many sets. Insertion order keeps node and edge
// listings reproducible from run to run.
package collections

import (
	"fmt"
	"iter"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrNotFound is returned by OrderedSet.Remove for absent elements.
var ErrNotFound = errors.New("element not in set")

// OrderedSet is a set that iterates in insertion order.
//
// The zero value is not usable; construct with NewOrderedSet or OrderedSetFrom.
// An OrderedSet is not safe for concurrent mutation.
type OrderedSet[T comparable] struct {
	index map[T]int
	items []T
}

// NewOrderedSet returns a set holding items, de-duplicated, in first-seen order.
func NewOrderedSet[T comparable](items ...T) *OrderedSet[T] {
	s := &OrderedSet[T]{index: make(map[T]int, len(items))}
	for _, item := range items {
		s.Add(item)
	}
	return s
}

// OrderedSetFrom returns a set holding every element of seq in first-seen order.
func OrderedSetFrom[T comparable](seq iter.Seq[T]) *OrderedSet[T] {
	s := NewOrderedSet[T]()
	for item := range seq {
		s.Add(item)
	}
	return s
}

// Len returns the number of elements.
func (s *OrderedSet[T]) Len() int {
	return len(s.items)
}

// Contains reports whether value is in the set.
func (s *OrderedSet[T]) Contains(value T) bool {
	_, ok := s.index[value]
	return ok
}

// Add appends value unless it is already present.
func (s *OrderedSet[T]) Add(value T) {
	if _, ok := s.index[value]; ok {
		return
	}
	s.index[value] = len(s.items)
	s.items = append(s.items, value)
}

// Remove deletes value, failing with ErrNotFound if it is absent.
func (s *OrderedSet[T]) Remove(value T) error {
	if !s.delete(value) {
		return errors.Wrapf(ErrNotFound, "%v", value)
	}
	return nil
}

// Discard deletes value if present.
func (s *OrderedSet[T]) Discard(value T) {
	s.delete(value)
}

func (s *OrderedSet[T]) delete(value T) bool {
	i, ok := s.index[value]
	if !ok {
		return false
	}
	delete(s.index, value)
	s.items = slices.Delete(s.items, i, i+1)
	for j := i; j < len(s.items); j++ {
		s.index[s.items[j]] = j
	}
	return true
}

// All yields the elements in insertion order. The sequence may be iterated
// any number of times; the set must not be mutated while iterating.
func (s *OrderedSet[T]) All() iter.Seq[T] {
	return func(yield func(T) bool) {
		for _, item := range s.items {
			if !yield(item) {
				return
			}
		}
	}
}

// Values returns a copy of the elements in insertion order.
func (s *OrderedSet[T]) Values() []T {
	return slices.Clone(s.items)
}

// Union adds every element of other that is not yet present.
func (s *OrderedSet[T]) Union(other *OrderedSet[T]) {
	for _, item := range other.items {
		s.Add(item)
	}
}

// String renders the set for debugging: "OrderedSet" when empty,
// "OrderedSet([a b])" otherwise.
func (s *OrderedSet[T]) String() string {
	if s.Len() == 0 {
		return "OrderedSet"
	}
	return fmt.Sprintf("OrderedSet(%v)", s.items)
}
