package progress

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/log"
)

// DefaultKey is the storage key holding the passed set.
const DefaultKey = "mallaIDED:v1"

// DefaultExportFilename is the file name offered for exports.
const DefaultExportFilename = "progreso-malla-idED.json"

// Storage is a key-value medium for the persisted document.
type Storage interface {
	// Get returns the value for key and whether it exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key, value string) error
}

// Store loads, saves, imports and exports the passed set.
type Store struct {
	storage Storage
	key     string
	logger  *log.Logger
}

// Option configures a Store.
type Option func(*Store)

// WithKey overrides the storage key.
func WithKey(key string) Option {
	return func(s *Store) {
		if key != "" {
			s.key = key
		}
	}
}

// WithLogger sets the logger used for silent fallbacks.
func WithLogger(l *log.Logger) Option {
	return func(s *Store) {
		if l != nil {
			s.logger = l
		}
	}
}

// NewStore creates a Store over the given medium.
func NewStore(storage Storage, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		key:     DefaultKey,
		logger:  log.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Key returns the storage key in use.
func (s *Store) Key() string {
	return s.key
}

// Load reads the passed set from storage. A missing or malformed payload
// yields an empty set and no error; only medium failures are returned.
func (s *Store) Load(ctx context.Context) (*Set, error) {
	raw, ok, err := s.storage.Get(ctx, s.key)
	if err != nil {
		return nil, fmt.Errorf("read progress: %w", err)
	}
	if !ok || raw == "" {
		return NewSet(), nil
	}

	set, err := Decode([]byte(raw))
	if err != nil {
		s.logger.Debug("ignoring stored progress", "key", s.key, "err", err)
		return NewSet(), nil
	}
	return set, nil
}

// Save writes the passed set to storage.
func (s *Store) Save(ctx context.Context, set *Set) error {
	data, err := Encode(set)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if err := s.storage.Put(ctx, s.key, string(data)); err != nil {
		return fmt.Errorf("write progress: %w", err)
	}
	return nil
}

// Reset persists an empty passed set.
func (s *Store) Reset(ctx context.Context) error {
	return s.Save(ctx, NewSet())
}

// Export writes the passed set as an indented document.
func (s *Store) Export(w io.Writer, set *Set) error {
	data, err := EncodeIndent(set)
	if err != nil {
		return fmt.Errorf("encode progress: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	return nil
}

// Import reads a document. It does not persist; callers replace their set
// and Save once the document is accepted.
func (s *Store) Import(r io.Reader) (*Set, error) {
	raw, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: could not read the file: %v", ErrInvalidDocument, err)
	}
	return Decode(raw)
}
