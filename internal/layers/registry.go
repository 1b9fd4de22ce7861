// Package layers builds the table that maps layer class names to the layer
// category they are drawn as.
//
// The table is assembled in two stages. The first stage walks a Registry of
// category -> class names for the host framework. The second stage merges the
// contributions of optional Extensions (for example the activation classes of
// an NLP library); extension entries overwrite first-stage entries with the
// same class name.
package layers

import (
	"github.com/cockroachdb/errors"

	"github.com/Benny93/layerviz/internal/collections"
	"github.com/Benny93/layerviz/internal/scheme"
)

// Registry records, per layer category, the class names exported for it.
type Registry struct {
	// categories keeps registration order so table construction is reproducible.
	categories *collections.OrderedMap[scheme.Key, *collections.OrderedSet[string]]
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		categories: collections.NewOrderedMap[scheme.Key, *collections.OrderedSet[string]](),
	}
}

// Register adds class names under category. Registering a category with no
// names declares it without an export list; such categories contribute
// nothing to the table.
func (r *Registry) Register(category scheme.Key, names ...string) error {
	if !category.Valid() {
		return errors.Wrapf(scheme.ErrUnknownKey, "registering %q", string(category))
	}
	if category.IsNodeKind() {
		return errors.Newf("%s is a node kind, not a layer category", category)
	}

	set, ok := r.categories.Get(category)
	if !ok {
		set = collections.NewOrderedSet[string]()
		r.categories.Set(category, set)
	}
	for _, name := range names {
		if name == "" {
			continue
		}
		set.Add(name)
	}
	return nil
}

// MustRegister is Register for static registration tables.
func (r *Registry) MustRegister(category scheme.Key, names ...string) *Registry {
	if err := r.Register(category, names...); err != nil {
		panic(err)
	}
	return r
}

// Categories returns the registered categories in registration order.
func (r *Registry) Categories() []scheme.Key {
	return r.categories.Keys()
}

// Names returns the class names registered under category.
func (r *Registry) Names(category scheme.Key) []string {
	set, ok := r.categories.Get(category)
	if !ok {
		return nil
	}
	return set.Values()
}

// Extension contributes extra class name -> category entries on top of the
// host framework registry. Supplying an extension is how callers declare that
// the optional library is present.
type Extension interface {
	// Name identifies the extension in logs and listings.
	Name() string

	// LayerTypes returns the entries the extension contributes.
	LayerTypes() map[string]scheme.Key
}
