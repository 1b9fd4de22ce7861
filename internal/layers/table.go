package layers

import (
	"iter"
	"slices"
	"sort"
	"sync"

	"github.com/Benny93/layerviz/internal/logger"
	"github.com/Benny93/layerviz/internal/scheme"
)

// Table maps layer class names to their category. It is immutable once built.
type Table struct {
	types      map[string]scheme.Key
	extensions []string
}

// BuildTable builds the table from reg, then merges each extension in order.
// Extension entries overwrite registry entries, and later extensions
// overwrite earlier ones. Nil extensions, and extensions reporting a nil
// type map, are ignored.
func BuildTable(reg *Registry, exts ...Extension) *Table {
	t := &Table{types: make(map[string]scheme.Key)}

	if reg != nil {
		for _, category := range reg.Categories() {
			names := reg.Names(category)
			if len(names) == 0 {
				continue
			}
			for _, name := range names {
				t.types[name] = category
			}
		}
	}

	for _, ext := range exts {
		if ext == nil {
			continue
		}
		types := ext.LayerTypes()
		if types == nil {
			continue
		}
		added := 0
		for name, category := range types {
			if !category.Valid() || category.IsNodeKind() {
				logger.Logger.Warnw("Skipping extension entry with invalid category",
					"extension", ext.Name(), "class", name, "category", string(category))
				continue
			}
			t.types[name] = category
			added++
		}
		t.extensions = append(t.extensions, ext.Name())
		logger.Logger.Debugw("Merged layer extension", "extension", ext.Name(), "entries", added)
	}

	logger.Logger.Debugw("Layer table built", "entries", len(t.types), "extensions", t.extensions)
	return t
}

// Lookup returns the category of the class called name.
func (t *Table) Lookup(name string) (scheme.Key, bool) {
	k, ok := t.types[name]
	return k, ok
}

// Category returns the category of name, or "" when it is not classified.
func (t *Table) Category(name string) scheme.Key {
	return t.types[name]
}

// Len returns the number of classified class names.
func (t *Table) Len() int {
	return len(t.types)
}

// Names returns the classified class names, sorted.
func (t *Table) Names() []string {
	names := make([]string, 0, len(t.types))
	for name := range t.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// All yields class name and category pairs sorted by class name.
func (t *Table) All() iter.Seq2[string, scheme.Key] {
	return func(yield func(string, scheme.Key) bool) {
		for _, name := range t.Names() {
			if !yield(name, t.types[name]) {
				return
			}
		}
	}
}

// ByCategory returns the sorted class names classified under category.
func (t *Table) ByCategory(category scheme.Key) []string {
	var names []string
	for name, k := range t.types {
		if k == category {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names
}

// Extensions returns the names of the merged extensions in merge order.
func (t *Table) Extensions() []string {
	return slices.Clone(t.extensions)
}

// Map returns a copy of the underlying mapping.
func (t *Table) Map() map[string]scheme.Key {
	out := make(map[string]scheme.Key, len(t.types))
	for k, v := range t.types {
		out[k] = v
	}
	return out
}

// Options selects which optional libraries contribute to the default table.
type Options struct {
	// Transformers enables the Hugging Face transformers activations.
	Transformers bool
}

// Extensions returns the extensions enabled by o.
func (o Options) Extensions() []Extension {
	var exts []Extension
	if o.Transformers {
		exts = append(exts, Transformers())
	}
	return exts
}

var (
	defaultMu     sync.Mutex
	defaultTables = make(map[Options]*Table)
)

// DefaultTable returns the torch.nn table with the extensions enabled by opts.
// Tables are built once per Options value and shared afterwards.
func DefaultTable(opts Options) *Table {
	defaultMu.Lock()
	defer defaultMu.Unlock()

	if t, ok := defaultTables[opts]; ok {
		return t
	}
	t := BuildTable(TorchRegistry(), opts.Extensions()...)
	defaultTables[opts] = t
	return t
}

// Classify returns the category of className in t.
func Classify(t *Table, className string) (scheme.Key, bool) {
	if t == nil {
		return "", false
	}
	return t.Lookup(className)
}
