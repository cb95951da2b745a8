package store

import (
	"context"
	"os"

	"github.com/rcliao/village-market/internal/catalog"
	"github.com/rcliao/village-market/internal/model"
)

// Stats holds catalog statistics.
type Stats struct {
	DBPath        string          `json:"db_path" yaml:"db_path"`
	DBSizeBytes   int64           `json:"db_size_bytes" yaml:"db_size_bytes"`
	TotalListings int             `json:"total_listings" yaml:"total_listings"`
	Villages      int             `json:"villages" yaml:"villages"`
	Categories    int             `json:"categories" yaml:"categories"`
	ByVillage     []Count         `json:"by_village" yaml:"by_village"`
	ByCategory    []Count         `json:"by_category" yaml:"by_category"`
	Transport     TransportCounts `json:"transport" yaml:"transport"`
	Latest        []model.Listing `json:"latest" yaml:"latest"`
}

// Count is a grouped row count.
type Count struct {
	Name  string `json:"name" yaml:"name"`
	Count int    `json:"count" yaml:"count"`
}

// TransportCounts breaks transport listings down by sub-type. Legacy
// counts bare "Transport" rows, which browse under Pickups.
type TransportCounts struct {
	Riders  int `json:"riders" yaml:"riders"`
	Pickups int `json:"pickups" yaml:"pickups"`
	Lorries int `json:"lorries" yaml:"lorries"`
	Legacy  int `json:"legacy" yaml:"legacy"`
}

const statsLatest = 50

// Stats returns catalog statistics.
func (s *SQLiteStore) Stats(ctx context.Context, dbPath string) (*Stats, error) {
	st := &Stats{DBPath: dbPath}

	// DB file size
	if info, err := os.Stat(dbPath); err == nil {
		st.DBSizeBytes = info.Size()
	}

	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM businesses`).Scan(&st.TotalListings); err != nil {
		return st, err
	}
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT village) FROM businesses`).Scan(&st.Villages)
	s.db.QueryRowContext(ctx, `SELECT COUNT(DISTINCT category) FROM businesses`).Scan(&st.Categories)

	var err error
	st.ByVillage, err = s.groupCounts(ctx, "village")
	if err != nil {
		return st, err
	}
	st.ByCategory, err = s.groupCounts(ctx, "category")
	if err != nil {
		return st, err
	}

	for _, c := range st.ByCategory {
		switch c.Name {
		case catalog.StorageCategory(catalog.Transport, catalog.Riders):
			st.Transport.Riders = c.Count
		case catalog.StorageCategory(catalog.Transport, catalog.Pickups):
			st.Transport.Pickups = c.Count
		case catalog.StorageCategory(catalog.Transport, catalog.Lorries):
			st.Transport.Lorries = c.Count
		case catalog.Transport:
			st.Transport.Legacy = c.Count
		}
	}

	st.Latest, err = s.Latest(ctx, LatestParams{Limit: statsLatest})
	return st, err
}

// Categories returns per-category listing counts, largest first.
func (s *SQLiteStore) Categories(ctx context.Context) ([]Count, error) {
	return s.groupCounts(ctx, "category")
}

// groupCounts counts rows per distinct value of a fixed column name.
func (s *SQLiteStore) groupCounts(ctx context.Context, column string) ([]Count, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+column+`, COUNT(*) AS cnt FROM businesses
		 GROUP BY `+column+` ORDER BY cnt DESC, `+column+` ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var counts []Count
	for rows.Next() {
		var c Count
		if err := rows.Scan(&c.Name, &c.Count); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
