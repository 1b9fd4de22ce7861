// Package util holds small helpers shared by the graph builder.
package util

import (
	"iter"
	"reflect"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/Benny93/layerviz/internal/collections"
)

// IsEmpty reports whether seq yields no elements. It pulls at most one
// element; that element is consumed and not handed back, so callers that
// need the full sequence afterwards must pass a fresh one.
func IsEmpty[T any](seq iter.Seq[T]) bool {
	next, stop := iter.Pull(seq)
	defer stop()
	_, ok := next()
	return !ok
}

// UpdatedDict returns a copy of m in which the value stored under key is
// replaced by value. Order is preserved and m is left untouched.
// A key that is not present in m is ignored; it is not inserted.
func UpdatedDict[K comparable, V any](m *collections.OrderedMap[K, V], key K, value V) *collections.OrderedMap[K, V] {
	out := collections.NewOrderedMap[K, V]()
	for k, v := range m.All() {
		if k == key {
			v = value
		}
		out.Set(k, v)
	}
	return out
}

// TypesOf returns the dynamic types of the given sample values.
func TypesOf(samples ...any) []reflect.Type {
	types := make([]reflect.Type, 0, len(samples))
	for _, s := range samples {
		types = append(types, reflect.TypeOf(s))
	}
	return types
}

// TypeFor returns the reflect.Type of T. Use it for interface types, which
// TypesOf cannot capture from a value.
func TypeFor[T any]() reflect.Type {
	return reflect.TypeFor[T]()
}

// AssertInputType checks that in's dynamic type is one of valid. An interface
// type in valid accepts every type implementing it, and a nil entry (as
// produced by TypesOf(nil)) accepts a nil input.
//
// A mismatch is an internal contract violation; the returned error is an
// assertion failure (see errors.IsAssertionFailure).
func AssertInputType(funcName string, valid []reflect.Type, in any) error {
	actual := reflect.TypeOf(in)
	for _, t := range valid {
		if t == nil || actual == nil {
			if t == actual {
				return nil
			}
			continue
		}
		if actual == t || (t.Kind() == reflect.Interface && actual.Implements(t)) {
			return nil
		}
	}
	return errors.AssertionFailedf(
		"for an unknown reason, %s function was given input with wrong type. "+
			"The input is of type: %s. But, it should be %s",
		errors.Safe(funcName), errors.Safe(typeName(actual)), errors.Safe(typeList(valid)))
}

// MustInputType is AssertInputType for call sites that treat a mismatch as a bug.
func MustInputType(funcName string, valid []reflect.Type, in any) {
	if err := AssertInputType(funcName, valid, in); err != nil {
		panic(err)
	}
}

func typeName(t reflect.Type) string {
	if t == nil {
		return "<nil>"
	}
	return t.String()
}

func typeList(types []reflect.Type) string {
	names := make([]string, 0, len(types))
	for _, t := range types {
		names = append(names, typeName(t))
	}
	return "(" + strings.Join(names, ", ") + ")"
}
