// Package storage provides persistence for user-defined color schemes.
//
// It defines the Backend interface that storage implementations must
// satisfy, along with the record type shared by every backend.
package storage

import (
	"context"
	"strings"
	"time"
	"unicode"

	"github.com/cockroachdb/errors"

	"github.com/Benny93/layerviz/internal/scheme"
)

var (
	// ErrInvalidName is returned for scheme names that cannot be stored.
	ErrInvalidName = errors.New("invalid scheme name")

	// ErrNotInitialized is returned by backends used before Initialize or after Close.
	ErrNotInitialized = errors.New("storage not initialized")

	// ErrReadOnly is returned for writes to a backend opened read-only.
	ErrReadOnly = errors.New("storage opened read-only")
)

// SchemeRecord is a stored color scheme.
type SchemeRecord struct {
	// Name is the unique name of the scheme.
	Name string `json:"name"`

	// Base is the preset the scheme was derived from, if any.
	Base string `json:"base,omitempty"`

	// Scheme holds the colors.
	Scheme scheme.ColorScheme `json:"scheme"`

	// SavedAt is the time the record was last written.
	SavedAt time.Time `json:"saved_at"`
}

// Backend defines the interface for storage implementations.
//
// Implementations must be thread-safe and support concurrent access.
type Backend interface {
	// Initialize opens or creates the storage backend at the given path.
	// If readOnly is true, the backend is opened in read-only mode.
	Initialize(path string, readOnly bool) error

	// Close releases all resources held by the backend.
	Close() error

	// SaveScheme inserts or replaces the record with the same name.
	SaveScheme(ctx context.Context, rec *SchemeRecord) error

	// GetScheme returns the record called name, or nil if not found.
	GetScheme(ctx context.Context, name string) (*SchemeRecord, error)

	// ListSchemes returns the stored scheme names, sorted.
	ListSchemes(ctx context.Context) ([]string, error)

	// DeleteScheme removes the record called name.
	// Returns true if it existed.
	DeleteScheme(ctx context.Context, name string) (bool, error)
}

// ValidateName rejects empty names, names containing whitespace or '/', and
// names that shadow a built-in preset.
func ValidateName(name string) error {
	if name == "" || strings.ContainsFunc(name, func(r rune) bool { return r == '/' || unicode.IsSpace(r) }) {
		return errors.Wrapf(ErrInvalidName, "%q", name)
	}
	for _, preset := range scheme.Presets() {
		if strings.EqualFold(name, preset) {
			return errors.Wrapf(ErrInvalidName, "%q is a built-in preset", name)
		}
	}
	return nil
}
