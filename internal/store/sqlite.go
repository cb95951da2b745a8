package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
	_ "modernc.org/sqlite"

	"github.com/rcliao/village-market/internal/model"
)

const defaultLimit = 20

// SQLiteStore implements Store using SQLite.
type SQLiteStore struct {
	db *sql.DB

	mu      sync.Mutex // guards entropy
	entropy *rand.Rand
}

// NewSQLiteStore opens or creates a SQLite database at the given path.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create db dir: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(wal)&_pragma=busy_timeout(5000)")
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}

	s := &SQLiteStore{
		db:      db,
		entropy: rand.New(rand.NewSource(time.Now().UnixNano())),
	}

	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrate: %w", err)
	}

	return s, nil
}

func (s *SQLiteStore) newRef() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return ulid.MustNew(ulid.Timestamp(time.Now()), s.entropy).String()
}

func (s *SQLiteStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS businesses (
		id          INTEGER PRIMARY KEY AUTOINCREMENT,
		name        TEXT NOT NULL,
		category    TEXT NOT NULL,
		phone       TEXT NOT NULL,
		village     TEXT NOT NULL DEFAULT 'Bumala',
		created_at  TEXT NOT NULL
	);
	CREATE INDEX IF NOT EXISTS idx_businesses_category ON businesses(category, id DESC);
	`
	if _, err := s.db.Exec(schema); err != nil {
		return err
	}

	// Databases from before village tracking lack the column.
	if err := s.ensureColumn("village", `ALTER TABLE businesses ADD COLUMN village TEXT NOT NULL DEFAULT 'Bumala'`); err != nil {
		return err
	}
	if err := s.ensureColumn("ref", `ALTER TABLE businesses ADD COLUMN ref TEXT`); err != nil {
		return err
	}
	if _, err := s.db.Exec(`CREATE UNIQUE INDEX IF NOT EXISTS idx_businesses_ref ON businesses(ref)`); err != nil {
		return err
	}
	return s.backfillRefs()
}

// backfillRefs assigns a ref to rows inserted before refs existed.
func (s *SQLiteStore) backfillRefs() error {
	rows, err := s.db.Query(`SELECT id FROM businesses WHERE ref IS NULL`)
	if err != nil {
		return err
	}
	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if _, err := s.db.Exec(`UPDATE businesses SET ref = ? WHERE id = ?`, s.newRef(), id); err != nil {
			return fmt.Errorf("backfill ref: %w", err)
		}
	}
	return nil
}

func (s *SQLiteStore) ensureColumn(name, ddl string) error {
	rows, err := s.db.Query(`PRAGMA table_info(businesses)`)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var (
			cid          int
			col, typ     string
			notNull, pk  int
			defaultValue sql.NullString
		)
		if err := rows.Scan(&cid, &col, &typ, &notNull, &defaultValue, &pk); err != nil {
			return err
		}
		if col == name {
			return nil
		}
	}
	if err := rows.Err(); err != nil {
		return err
	}
	rows.Close()

	if _, err := s.db.Exec(ddl); err != nil {
		return fmt.Errorf("add column %s: %w", name, err)
	}
	return nil
}

func (s *SQLiteStore) Insert(ctx context.Context, p InsertParams) (*model.Listing, error) {
	l := model.Listing{
		Name:     p.Name,
		Category: p.Category,
		Phone:    p.Phone,
		Village:  p.Village,
	}
	if _, err := s.insertListing(ctx, &l); err != nil {
		return nil, err
	}
	return &l, nil
}

// insertListing writes l, filling Ref, CreatedAt and ID as needed. A row
// with the same ref already present is left alone and reported as false.
func (s *SQLiteStore) insertListing(ctx context.Context, l *model.Listing) (bool, error) {
	l.Name = strings.TrimSpace(l.Name)
	l.Category = strings.TrimSpace(l.Category)
	l.Phone = strings.TrimSpace(l.Phone)
	l.Village = strings.TrimSpace(l.Village)
	if l.Name == "" || l.Category == "" || l.Phone == "" {
		return false, errors.New("name, category and phone are required")
	}
	if l.Village == "" {
		l.Village = model.DefaultVillage
	}
	if l.Ref == "" {
		l.Ref = s.newRef()
	}
	if l.CreatedAt.IsZero() {
		l.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(ctx,
		`INSERT INTO businesses (ref, name, category, phone, village, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)
		 ON CONFLICT(ref) DO NOTHING`,
		l.Ref, l.Name, l.Category, l.Phone, l.Village, l.CreatedAt.UTC().Format(time.RFC3339))
	if err != nil {
		return false, fmt.Errorf("insert listing: %w", err)
	}
	if n, err := res.RowsAffected(); err != nil || n == 0 {
		return false, err
	}
	l.ID, err = res.LastInsertId()
	if err != nil {
		return false, fmt.Errorf("insert listing: %w", err)
	}
	return true, nil
}

func (s *SQLiteStore) Latest(ctx context.Context, p LatestParams) ([]model.Listing, error) {
	limit := p.Limit
	if limit <= 0 {
		limit = defaultLimit
	}

	var where []string
	var args []interface{}

	if len(p.Categories) > 0 {
		where = append(where, "category IN ("+placeholders(len(p.Categories))+")")
		for _, c := range p.Categories {
			args = append(args, c)
		}
	}
	if p.Village != "" {
		where = append(where, "village = ?")
		args = append(args, p.Village)
	}

	query := `SELECT id, ref, name, category, phone, village, created_at FROM businesses`
	if len(where) > 0 {
		query += " WHERE " + strings.Join(where, " AND ")
	}
	query += " ORDER BY id DESC LIMIT ?"
	args = append(args, limit)

	return s.queryListings(ctx, query, args...)
}

func (s *SQLiteStore) Get(ctx context.Context, ref string) (*model.Listing, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, ref, name, category, phone, village, created_at
		 FROM businesses WHERE ref = ?`, ref)
	l, err := scanListing(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func (s *SQLiteStore) Rm(ctx context.Context, ref string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM businesses WHERE ref = ?`, ref)
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, ref)
	}
	return nil
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

func (s *SQLiteStore) queryListings(ctx context.Context, query string, args ...interface{}) ([]model.Listing, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var listings []model.Listing
	for rows.Next() {
		l, err := scanListing(rows)
		if err != nil {
			return nil, err
		}
		listings = append(listings, l)
	}
	return listings, rows.Err()
}

func placeholders(n int) string {
	return strings.TrimSuffix(strings.Repeat("?,", n), ",")
}

type scanner interface {
	Scan(dest ...interface{}) error
}

func scanListing(row scanner) (model.Listing, error) {
	var l model.Listing
	var ref sql.NullString
	var createdAt string

	err := row.Scan(&l.ID, &ref, &l.Name, &l.Category, &l.Phone, &l.Village, &createdAt)
	if err != nil {
		return l, err
	}

	if ref.Valid {
		l.Ref = ref.String
	}
	l.CreatedAt = parseTime(createdAt)
	return l, nil
}

// parseTime accepts RFC 3339 and the microsecond ISO form written by
// earlier deployments.
func parseTime(s string) time.Time {
	if t, err := time.Parse(time.RFC3339Nano, s); err == nil {
		return t
	}
	t, _ := time.Parse("2006-01-02T15:04:05.999999", strings.TrimSuffix(s, "Z"))
	return t
}
