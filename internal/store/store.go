// Package store provides the catalog storage interface and SQLite implementation.
package store

import (
	"context"
	"errors"

	"github.com/rcliao/village-market/internal/model"
)

// ErrNotFound is returned when a listing reference does not exist.
var ErrNotFound = errors.New("listing not found")

// InsertParams holds parameters for storing a listing.
type InsertParams struct {
	Name     string
	Category string
	Phone    string
	Village  string
}

// LatestParams holds parameters for reading the newest listings.
type LatestParams struct {
	Categories []string // set membership; empty means any category
	Village    string
	Limit      int
}

// SearchParams holds parameters for searching listings.
type SearchParams struct {
	Query    string
	Category string
	Village  string
	Limit    int
}

// Store defines the catalog storage interface.
type Store interface {
	// Insert stores a new listing. Returns the created listing.
	Insert(ctx context.Context, p InsertParams) (*model.Listing, error)

	// Latest lists listings matching the filters, newest first.
	Latest(ctx context.Context, p LatestParams) ([]model.Listing, error)

	// Get retrieves a listing by its reference.
	Get(ctx context.Context, ref string) (*model.Listing, error)

	// Rm permanently deletes a listing by its reference.
	Rm(ctx context.Context, ref string) error

	// Close closes the store.
	Close() error
}
