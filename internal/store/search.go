package store

import (
	"context"
	"strings"

	"github.com/rcliao/village-market/internal/model"
)

// Search finds listings whose name or phone contains the query substring.
func (s *SQLiteStore) Search(ctx context.Context, p SearchParams) ([]model.Listing, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	query := "%" + strings.TrimSpace(p.Query) + "%"

	where := []string{"(name LIKE ? OR phone LIKE ?)"}
	args := []interface{}{query, query}

	if p.Category != "" {
		where = append(where, "category = ?")
		args = append(args, p.Category)
	}
	if p.Village != "" {
		where = append(where, "village = ?")
		args = append(args, p.Village)
	}

	sql := `SELECT id, ref, name, category, phone, village, created_at
		FROM businesses
		WHERE ` + strings.Join(where, " AND ") + `
		ORDER BY id DESC
		LIMIT ?`
	args = append(args, limit)

	return s.queryListings(ctx, sql, args...)
}
