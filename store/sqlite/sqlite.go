/*
Package sqlite provides a SQLite-backed implementation of the scheme catalogue.

PURPOSE:
  Implements generic.SchemeStore using SQLite. In production, the same
  patterns apply to PostgreSQL - only minor SQL dialect differences.

INTERFACES IMPLEMENTED:
  generic.SchemeStore: Scheme definitions (versioned)

WHAT IS STORED:
  Only scheme DEFINITIONS. A projection is a pure function of its scheme
  and market inputs, so results are recomputed on demand and never
  written here.

KEY TABLES:
  schemes: One row per scheme id, with the factory JSON document

VERSIONING:
  Save on an existing id replaces the definition and bumps version.
  Create on an existing id fails with generic.ErrDuplicateScheme.

CONCURRENCY:
  Uses sync.RWMutex for thread-safety. In production with PostgreSQL,
  database-level concurrency control handles this instead.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging) for better concurrency:
  - Multiple readers don't block
  - Single writer at a time

USAGE:
  store, err := sqlite.New("./data/vesting.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

MIGRATION:
  Schema is auto-migrated on New().

SEE ALSO:
  - generic/store.go: Interface definition
  - generic/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	json "github.com/goccy/go-json"
	"github.com/mattn/go-sqlite3"

	"github.com/warp/vesting-engine/generic"
)

// Store implements generic.SchemeStore using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ generic.SchemeStore = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if dbPath == ":memory:" {
		// Every connection would get its own empty database
		db.SetMaxOpenConns(1)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Ping checks the database connection.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Scheme definitions (versioned)
	CREATE TABLE IF NOT EXISTS schemes (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL DEFAULT '',
		config_json TEXT NOT NULL,
		preset INTEGER NOT NULL DEFAULT 0,
		version INTEGER NOT NULL DEFAULT 1,
		created_at TEXT NOT NULL,
		updated_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_schemes_preset ON schemes(preset, id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// SCHEME STORE
// =============================================================================

// Create inserts a new scheme at version 1.
func (s *Store) Create(ctx context.Context, rec generic.SchemeRecord) error {
	if err := checkConfig(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO schemes (id, name, config_json, preset, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
	`, string(rec.ID), rec.Name, rec.ConfigJSON, rec.Preset, now, now)

	if isUniqueConstraintError(err) {
		return generic.ErrDuplicateScheme
	}
	if err != nil {
		return fmt.Errorf("failed to create scheme: %w", err)
	}
	return nil
}

// Save inserts or replaces a scheme, bumping its version.
func (s *Store) Save(ctx context.Context, rec generic.SchemeRecord) error {
	if err := checkConfig(rec); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	query := `
		INSERT INTO schemes (id, name, config_json, preset, version, created_at, updated_at)
		VALUES (?, ?, ?, ?, 1, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			name = excluded.name,
			config_json = excluded.config_json,
			preset = excluded.preset,
			version = schemes.version + 1,
			updated_at = excluded.updated_at
	`

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := s.db.ExecContext(ctx, query, string(rec.ID), rec.Name, rec.ConfigJSON, rec.Preset, now, now); err != nil {
		return fmt.Errorf("failed to save scheme: %w", err)
	}
	return nil
}

// Get retrieves a scheme by ID.
func (s *Store) Get(ctx context.Context, id generic.SchemeID) (*generic.SchemeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	row := s.db.QueryRowContext(ctx,
		"SELECT id, name, config_json, preset, version, created_at, updated_at FROM schemes WHERE id = ?",
		string(id),
	)
	rec, err := scanScheme(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, generic.ErrSchemeNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get scheme: %w", err)
	}
	return rec, nil
}

// List returns all schemes ordered by id.
func (s *Store) List(ctx context.Context) ([]generic.SchemeRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, config_json, preset, version, created_at, updated_at FROM schemes ORDER BY id",
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list schemes: %w", err)
	}
	defer rows.Close()

	var schemes []generic.SchemeRecord
	for rows.Next() {
		rec, err := scanScheme(rows)
		if err != nil {
			return nil, err
		}
		schemes = append(schemes, *rec)
	}
	return schemes, rows.Err()
}

// Delete removes a scheme.
func (s *Store) Delete(ctx context.Context, id generic.SchemeID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	result, err := s.db.ExecContext(ctx, "DELETE FROM schemes WHERE id = ?", string(id))
	if err != nil {
		return fmt.Errorf("failed to delete scheme: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return generic.ErrSchemeNotFound
	}
	return nil
}

// Reset clears all data (for testing/demo purposes).
func (s *Store) Reset(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM schemes")
	return err
}

// Helper functions

type scanner interface {
	Scan(dest ...any) error
}

func scanScheme(row scanner) (*generic.SchemeRecord, error) {
	var rec generic.SchemeRecord
	var id, createdAt, updatedAt string
	if err := row.Scan(&id, &rec.Name, &rec.ConfigJSON, &rec.Preset, &rec.Version, &createdAt, &updatedAt); err != nil {
		return nil, err
	}
	rec.ID = generic.SchemeID(id)
	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	return &rec, nil
}

func checkConfig(rec generic.SchemeRecord) error {
	if rec.ID == "" {
		return fmt.Errorf("%w: id is required", generic.ErrInvalidScheme)
	}
	if !json.Valid([]byte(rec.ConfigJSON)) {
		return fmt.Errorf("%w: config is not valid JSON", generic.ErrInvalidScheme)
	}
	return nil
}

func isUniqueConstraintError(err error) bool {
	var sqliteErr sqlite3.Error
	return errors.As(err, &sqliteErr) && sqliteErr.Code == sqlite3.ErrConstraint
}
