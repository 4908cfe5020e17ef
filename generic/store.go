/*
store.go - Persistence interface for scheme definitions

PURPOSE:
  Defines the interface between the engine and the scheme catalogue. Only
  scheme DEFINITIONS are stored; projections are recomputed on every call
  and never persisted.

VERSIONING:
  Saving a scheme whose id already exists replaces it and bumps Version.
  Create fails with ErrDuplicateScheme instead.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite catalogue
  - generic/store/memory.go: In-memory for tests and the CLI

EXAMPLE:
  rec, err := store.Get(ctx, "builder")
  if errors.Is(err, generic.ErrSchemeNotFound) {
      // 404
  }
*/
package generic

import (
	"context"
	"time"
)

// SchemeRecord is a stored scheme definition.
type SchemeRecord struct {
	ID         SchemeID
	Name       string
	ConfigJSON string // factory.SchemeJSON document
	Preset     bool   // seeded from the built-in presets
	Version    int
	CreatedAt  time.Time
	UpdatedAt  time.Time
}

// SchemeStore persists scheme definitions.
type SchemeStore interface {
	// Create stores a new scheme. Fails with ErrDuplicateScheme if the id exists.
	Create(ctx context.Context, rec SchemeRecord) error

	// Save inserts or replaces a scheme, bumping its version.
	Save(ctx context.Context, rec SchemeRecord) error

	// Get returns a scheme or ErrSchemeNotFound.
	Get(ctx context.Context, id SchemeID) (*SchemeRecord, error)

	// List returns all schemes ordered by id.
	List(ctx context.Context) ([]SchemeRecord, error)

	// Delete removes a scheme or returns ErrSchemeNotFound.
	Delete(ctx context.Context, id SchemeID) error
}
