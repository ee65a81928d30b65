// Package filestore implements the flat-file storage backend: every object
// lives in an indexed in-memory table and the whole set is written to a
// single JSON document on Save.
//
// The document maps "Class.id" keys to the field mapping of each object:
//
//	{"State.4f1c...": {"__class__": "State", "id": "4f1c...", "name": "Nevada", ...}}
//
// Foreign keys are not checked: a City whose state_id names no State is
// stored as-is.
package filestore

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/hashicorp/go-memdb"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// Compile-time interface check.
var _ types.Storage = (*Store)(nil)

// Store is the file backend.
type Store struct {
	mu     sync.RWMutex
	path   string
	db     *memdb.MemDB
	saved  *memdb.MemDB // state as of the last Save or Reload
	closed bool
	logger *slog.Logger
}

// New creates a Store backed by the JSON document at path. The store is
// empty until Reload is called.
func New(path string, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return nil, fmt.Errorf("creating object table: %w", err)
	}
	return &Store{path: path, db: db, saved: db.Snapshot(), logger: logger}, nil
}

// Open creates a Store and loads the document at path. A missing document
// yields an empty store.
func Open(path string, logger *slog.Logger) (*Store, error) {
	s, err := New(path, logger)
	if err != nil {
		return nil, err
	}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the location of the JSON document.
func (s *Store) Path() string { return s.path }

// All returns copies of every object of class keyed by "Class.id".
func (s *Store) All(class string) (map[string]types.Model, error) {
	classes, err := classesFor(class)
	if err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	out := make(map[string]types.Model)
	for _, c := range classes {
		it, err := txn.Get(c, indexID)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", c, err)
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			m := raw.(types.Model)
			out[types.Key(m)] = types.Clone(m)
		}
	}
	return out, nil
}

// Get returns a copy of the object of class with the given id.
func (s *Store) Get(class, id string) (types.Model, error) {
	if !types.IsClass(class) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownClass, class)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	raw, err := txn.First(class, indexID, id)
	if err != nil {
		return nil, fmt.Errorf("looking up %s: %w", types.KeyOf(class, id), err)
	}
	if raw == nil {
		return nil, types.ErrNotFound
	}
	return types.Clone(raw.(types.Model)), nil
}

// Count returns the number of objects of class.
func (s *Store) Count(class string) (int, error) {
	classes, err := classesFor(class)
	if err != nil {
		return 0, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return 0, types.ErrStoreClosed
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	n := 0
	for _, c := range classes {
		it, err := txn.Get(c, indexID)
		if err != nil {
			return 0, fmt.Errorf("scanning %s: %w", c, err)
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			n++
		}
	}
	return n, nil
}

// Where returns copies of the objects of class whose attribute field equals
// value. Foreign-key attributes are served from their index; any other
// attribute is compared against its string form after a table scan.
func (s *Store) Where(class, field, value string) ([]types.Model, error) {
	if !types.IsClass(class) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownClass, class)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, types.ErrStoreClosed
	}

	txn := s.db.Txn(false)
	defer txn.Abort()

	var out []types.Model
	if hasIndex(class, field) {
		if value == "" {
			return nil, nil
		}
		it, err := txn.Get(class, field, value)
		if err != nil {
			return nil, fmt.Errorf("querying %s by %s: %w", class, field, err)
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			out = append(out, types.Clone(raw.(types.Model)))
		}
	} else {
		it, err := txn.Get(class, indexID)
		if err != nil {
			return nil, fmt.Errorf("scanning %s: %w", class, err)
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			m := raw.(types.Model)
			if v, ok := types.Get(m, field); ok && fmt.Sprint(v) == value {
				out = append(out, types.Clone(m))
			}
		}
	}

	sort.Slice(out, func(i, j int) bool { return types.Key(out[i]) < types.Key(out[j]) })
	return out, nil
}

// New registers a copy of obj, replacing any object with the same key.
// A nil obj is a no-op.
func (s *Store) New(obj types.Model) error {
	if obj == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Insert(obj.ClassName(), types.Clone(obj)); err != nil {
		return fmt.Errorf("registering %s: %w", types.Key(obj), err)
	}
	txn.Commit()
	return nil
}

// Delete removes obj. Deleting nil or an untracked object is a no-op.
func (s *Store) Delete(obj types.Model) error {
	if obj == nil {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}

	txn := s.db.Txn(true)
	defer txn.Abort()
	if err := txn.Delete(obj.ClassName(), obj); err != nil {
		if errors.Is(err, memdb.ErrNotFound) {
			return nil
		}
		return fmt.Errorf("deleting %s: %w", types.Key(obj), err)
	}
	txn.Commit()
	return nil
}

// Save writes every tracked object to the JSON document. If the document
// cannot be written the store reverts to its state as of the last Save or
// Reload, discarding the unsaved changes.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}
	if err := s.write(); err != nil {
		s.db = s.saved.Snapshot()
		s.logger.Warn("save failed, unsaved changes discarded", "path", s.path, "error", err)
		return err
	}
	s.saved = s.db.Snapshot()
	return nil
}

// write encodes the table into the JSON document. The caller holds mu.
func (s *Store) write() error {
	txn := s.db.Txn(false)
	defer txn.Abort()

	doc := make(map[string]map[string]any)
	for _, class := range types.Classes() {
		it, err := txn.Get(class, indexID)
		if err != nil {
			return fmt.Errorf("scanning %s: %w", class, err)
		}
		for raw := it.Next(); raw != nil; raw = it.Next() {
			m := raw.(types.Model)
			doc[types.Key(m)] = types.ToMap(m)
		}
	}

	data, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encoding %s: %w", s.path, err)
	}
	if err := writeFileAtomic(s.path, data); err != nil {
		return fmt.Errorf("saving %s: %w", s.path, err)
	}
	s.logger.Debug("saved objects", "path", s.path, "count", len(doc))
	return nil
}

// Reload replaces the tracked set with the contents of the JSON document.
// A missing document leaves the store empty. Entries that cannot be
// rebuilt are skipped and logged.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}

	db, err := memdb.NewMemDB(schema())
	if err != nil {
		return fmt.Errorf("creating object table: %w", err)
	}

	data, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		s.db = db
		s.saved = db.Snapshot()
		return nil
	}
	if err != nil {
		return fmt.Errorf("reading %s: %w", s.path, err)
	}

	var doc map[string]map[string]any
	if err := json.Unmarshal(data, &doc); err != nil {
		return fmt.Errorf("decoding %s: %w", s.path, err)
	}

	txn := db.Txn(true)
	defer txn.Abort()
	loaded := 0
	for key, fields := range doc {
		class, _, _ := strings.Cut(key, ".")
		m, err := types.FromMap(class, fields)
		if err != nil {
			s.logger.Warn("skipping stored object", "key", key, "error", err)
			continue
		}
		if err := txn.Insert(class, m); err != nil {
			s.logger.Warn("skipping stored object", "key", key, "error", err)
			continue
		}
		loaded++
	}
	txn.Commit()

	s.db = db
	s.saved = db.Snapshot()
	s.logger.Debug("reloaded objects", "path", s.path, "count", loaded)
	return nil
}

// Close marks the store closed. Unsaved changes are discarded; callers
// that want them kept call Save first.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.closed = true
	return nil
}

// classesFor expands an optional class filter into the classes to scan.
func classesFor(class string) ([]string, error) {
	if class == "" {
		return types.Classes(), nil
	}
	if !types.IsClass(class) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownClass, class)
	}
	return []string{class}, nil
}
