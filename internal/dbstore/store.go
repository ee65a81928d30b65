// Package dbstore implements the relational storage backend on SQLite or
// PostgreSQL.
//
// Changes are staged in a session: New and Delete are visible to reads
// right away, Save commits them in one transaction and Reload discards
// them. A failed Save rolls the whole session back.
//
// BaseModel has no table and is rejected by New. Attributes outside a
// class's declared set are not persisted.
package dbstore

import (
	"database/sql"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	_ "modernc.org/sqlite"

	"github.com/NateMachoka/AirBnB-clone-v2/pkg/types"
)

// Compile-time interface check.
var _ types.Storage = (*Store)(nil)

// Store is the database backend.
type Store struct {
	mu      sync.RWMutex
	db      *sql.DB
	driver  string
	closed  bool
	session session
	logger  *slog.Logger
}

// Open connects to the database described by cfg and migrates the schema.
// In the test environment the schema is rebuilt empty.
func Open(cfg types.Config, logger *slog.Logger) (*Store, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.DBDriver != types.DriverSQLite && cfg.DBDriver != types.DriverPostgres {
		return nil, fmt.Errorf("%w: %q", types.ErrDriverUnknown, cfg.DBDriver)
	}
	if cfg.DSN == "" {
		return nil, types.ErrDSNEmpty
	}

	dsn := cfg.DSN
	if cfg.DBDriver == types.DriverSQLite {
		dsn = sqliteDSN(dsn)
	}

	db, err := sql.Open(cfg.DBDriver, dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}
	if cfg.DBDriver == types.DriverSQLite {
		// Pragmas are per connection; one connection keeps them consistent.
		db.SetMaxOpenConns(1)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("connecting to database: %w", err)
	}

	if err := migrateSchema(db, cfg.DBDriver, cfg.IsTest()); err != nil {
		db.Close()
		return nil, err
	}

	logger.Debug("database ready", "driver", cfg.DBDriver, "reset", cfg.IsTest())
	return &Store{db: db, driver: cfg.DBDriver, logger: logger}, nil
}

// sqliteDSN enables foreign keys and a busy timeout on a SQLite DSN.
func sqliteDSN(dsn string) string {
	sep := "?"
	if strings.Contains(dsn, "?") {
		sep = "&"
	}
	return dsn + sep + "_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
}

// All returns copies of every object of class keyed by "Class.id",
// including staged changes.
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

	out := make(map[string]types.Model)
	filter := make(map[string]bool, len(classes))
	for _, c := range classes {
		filter[c] = true
		rows, err := s.selectModels(s.db, c, "")
		if err != nil {
			return nil, err
		}
		for _, m := range rows {
			out[types.Key(m)] = m
		}
	}
	s.session.apply(out, filter, nil)
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

	if p, ok := s.session.lookup(types.KeyOf(class, id)); ok {
		if p.op == opDelete {
			return nil, types.ErrNotFound
		}
		return types.Clone(p.obj), nil
	}

	rows, err := s.selectModels(s.db, class, "id = ?", id)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, types.ErrNotFound
	}
	return rows[0], nil
}

// Count returns the number of objects of class, including staged changes.
func (s *Store) Count(class string) (int, error) {
	all, err := s.All(class)
	if err != nil {
		return 0, err
	}
	return len(all), nil
}

// Where returns the objects of class whose attribute field equals value,
// ordered by key. String columns are filtered in SQL; other attributes are
// compared against their string form.
func (s *Store) Where(class, field, value string) ([]types.Model, error) {
	if !types.IsClass(class) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownClass, class)
	}

	matches := func(m types.Model) bool {
		v, ok := types.Get(m, field)
		return ok && fmt.Sprint(v) == value
	}

	var found map[string]types.Model
	if isColumn(class, field) {
		s.mu.RLock()
		defer s.mu.RUnlock()
		if s.closed {
			return nil, types.ErrStoreClosed
		}

		// field is a declared column name, never user text.
		rows, err := s.selectModels(s.db, class, field+" = ?", value)
		if err != nil {
			return nil, err
		}
		found = make(map[string]types.Model, len(rows))
		for _, m := range rows {
			found[types.Key(m)] = m
		}
		s.session.apply(found, map[string]bool{class: true}, matches)
	} else {
		all, err := s.All(class)
		if err != nil {
			return nil, err
		}
		found = make(map[string]types.Model)
		for key, m := range all {
			if matches(m) {
				found[key] = m
			}
		}
	}

	out := make([]types.Model, 0, len(found))
	for _, m := range found {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return types.Key(out[i]) < types.Key(out[j]) })
	return out, nil
}

// New stages obj for insertion or update. BaseModel returns
// ErrUnsupportedClass. A nil obj is a no-op.
func (s *Store) New(obj types.Model) error {
	if obj == nil {
		return nil
	}
	if _, ok := tables[obj.ClassName()]; !ok {
		return fmt.Errorf("%w: %s", types.ErrUnsupportedClass, obj.ClassName())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}
	s.session.stage(opUpsert, obj)
	return nil
}

// Delete stages the removal of obj. A nil obj is a no-op.
func (s *Store) Delete(obj types.Model) error {
	if obj == nil {
		return nil
	}
	if _, ok := tables[obj.ClassName()]; !ok {
		return fmt.Errorf("%w: %s", types.ErrUnsupportedClass, obj.ClassName())
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}
	s.session.stage(opDelete, obj)
	return nil
}

// Save validates every staged object and commits the session in one
// transaction. On any failure nothing is written and the session is
// discarded.
func (s *Store) Save() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}

	if len(s.session.pending) == 0 {
		return nil
	}
	pending := s.session.effective()
	// Whatever the outcome, the session ends here.
	defer s.session.reset()

	for _, p := range pending {
		if p.op != opUpsert {
			continue
		}
		if err := types.Validate(p.obj); err != nil {
			s.logger.Warn("save rejected", "key", types.Key(p.obj), "error", err)
			return err
		}
	}

	tx, err := s.db.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	for _, p := range pending {
		if p.op == opUpsert {
			err = s.upsert(tx, p.obj)
		} else {
			err = s.remove(tx, p.obj)
		}
		if err != nil {
			tx.Rollback()
			s.logger.Warn("save rolled back", "error", err)
			return err
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	s.logger.Debug("saved session", "changes", len(pending))
	return nil
}

// Reload discards staged changes. Reads then reflect committed rows only.
func (s *Store) Reload() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return types.ErrStoreClosed
	}
	s.session.reset()
	return nil
}

// Close discards staged changes and closes the connection pool.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return nil
	}
	s.closed = true
	s.session.reset()
	return s.db.Close()
}

// classesFor expands an optional class filter into the classes to read.
func classesFor(class string) ([]string, error) {
	if class == "" {
		return types.Classes(), nil
	}
	if !types.IsClass(class) {
		return nil, fmt.Errorf("%w: %q", types.ErrUnknownClass, class)
	}
	return []string{class}, nil
}
