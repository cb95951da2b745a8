package store

import (
	"context"
	"strings"

	"github.com/rcliao/village-market/internal/model"
)

// ExportAll returns all listings oldest first, optionally filtered by category.
func (s *SQLiteStore) ExportAll(ctx context.Context, category string) ([]model.Listing, error) {
	var where []string
	args := []interface{}{}

	if category != "" {
		where = append(where, "category = ?")
		args = append(args, category)
	}

	query := `SELECT id, ref, name, category, phone, village, created_at FROM businesses`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`

	return s.queryListings(ctx, query, args...)
}

// Import stores listings from an export, keeping their refs and creation
// times. Listings whose ref already exists are skipped. Returns the number
// of listings written.
func (s *SQLiteStore) Import(ctx context.Context, listings []model.Listing) (int, error) {
	imported := 0
	for _, l := range listings {
		l.ID = 0
		ok, err := s.insertListing(ctx, &l)
		if err != nil {
			return imported, err
		}
		if ok {
			imported++
		}
	}
	return imported, nil
}
