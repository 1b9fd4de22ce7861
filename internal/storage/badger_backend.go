package storage

import (
	"context"
	"encoding/json"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/dgraph-io/badger/v4"
)

// Key prefixes for different data types
const (
	prefixScheme = "s:" // scheme records
)

// BadgerBackend is a BadgerDB-backed storage implementation.
type BadgerBackend struct {
	db          *badger.DB
	initialized bool
	readOnly    bool
	mu          sync.RWMutex
}

// NewBadgerBackend creates a new BadgerDB backend.
func NewBadgerBackend() *BadgerBackend {
	return &BadgerBackend{}
}

// Initialize opens or creates the BadgerDB database at the given path.
func (b *BadgerBackend) Initialize(path string, readOnly bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	opts := badger.DefaultOptions(path).
		WithNumCompactors(2).
		WithLoggingLevel(badger.ERROR) // Suppress INFO/WARNING logs

	if readOnly {
		opts = opts.WithReadOnly(true)
	}

	var err error
	b.db, err = badger.Open(opts)
	if err != nil {
		return errors.Wrap(err, "opening badger DB")
	}

	b.initialized = true
	b.readOnly = readOnly
	return nil
}

// Close releases all resources held by the backend.
func (b *BadgerBackend) Close() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.db == nil {
		return nil
	}

	err := b.db.Close()
	b.db = nil
	b.initialized = false
	return err
}

// SaveScheme inserts or replaces a scheme record.
func (b *BadgerBackend) SaveScheme(ctx context.Context, rec *SchemeRecord) error {
	if err := ValidateName(rec.Name); err != nil {
		return err
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ready(); err != nil {
		return err
	}
	if b.readOnly {
		return ErrReadOnly
	}

	stored := *rec
	if stored.SavedAt.IsZero() {
		stored.SavedAt = time.Now().UTC()
	}

	data, err := json.Marshal(&stored)
	if err != nil {
		return errors.Wrap(err, "marshaling scheme")
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set(b.schemeKey(rec.Name), data)
	})
}

// GetScheme returns the record called name, or nil if not found.
func (b *BadgerBackend) GetScheme(ctx context.Context, name string) (*SchemeRecord, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.ready(); err != nil {
		return nil, err
	}

	var rec *SchemeRecord
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(b.schemeKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}

		return item.Value(func(val []byte) error {
			rec = &SchemeRecord{}
			return json.Unmarshal(val, rec)
		})
	})
	if err != nil {
		return nil, errors.Wrapf(err, "reading scheme %q", name)
	}

	return rec, nil
}

// ListSchemes returns the stored scheme names, sorted.
func (b *BadgerBackend) ListSchemes(ctx context.Context) ([]string, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if err := b.ready(); err != nil {
		return nil, err
	}

	var names []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(prefixScheme)
		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			key := string(it.Item().Key())
			names = append(names, strings.TrimPrefix(key, prefixScheme))
		}
		return nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "listing schemes")
	}

	sort.Strings(names)
	return names, nil
}

// DeleteScheme removes the record called name. Returns true if it existed.
func (b *BadgerBackend) DeleteScheme(ctx context.Context, name string) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if err := b.ready(); err != nil {
		return false, err
	}
	if b.readOnly {
		return false, ErrReadOnly
	}

	existed := false
	err := b.db.Update(func(txn *badger.Txn) error {
		_, err := txn.Get(b.schemeKey(name))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		existed = true
		return txn.Delete(b.schemeKey(name))
	})
	if err != nil {
		return false, errors.Wrapf(err, "deleting scheme %q", name)
	}

	return existed, nil
}

// ready reports an error when the backend has not been initialized.
// Must be called with the lock held.
func (b *BadgerBackend) ready() error {
	if !b.initialized || b.db == nil {
		return ErrNotInitialized
	}
	return nil
}

func (b *BadgerBackend) schemeKey(name string) []byte {
	return []byte(prefixScheme + name)
}
