package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSearch_Basic(t *testing.T) {
	dir := t.TempDir()
	s, err := NewSQLiteStore(filepath.Join(dir, "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	defer s.Close()
	ctx := context.Background()

	s.Insert(ctx, InsertParams{Name: "Mama Jane Shop", Category: "Shops & Daily Needs", Phone: "254700000001", Village: "Bumala"})
	s.Insert(ctx, InsertParams{Name: "Jane's Kitchen", Category: "Food & Drinks", Phone: "254700000002", Village: "Sega"})
	s.Insert(ctx, InsertParams{Name: "Boda King", Category: "Transport - Riders", Phone: "254700000003", Village: "Sega"})

	// Search by name
	results, err := s.Search(ctx, SearchParams{Query: "jane"})
	if err != nil {
		t.Fatal(err)
	}
	if diff := cmp.Diff([]string{"Jane's Kitchen", "Mama Jane Shop"}, names(results)); diff != "" {
		t.Errorf("mismatch (-want +got):\n%s", diff)
	}

	// Search with village filter
	results, err = s.Search(ctx, SearchParams{Query: "jane", Village: "Bumala"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// Search by phone
	results, err = s.Search(ctx, SearchParams{Query: "0003"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 1 || results[0].Name != "Boda King" {
		t.Fatalf("expected Boda King, got %v", names(results))
	}

	// Category filter
	results, _ = s.Search(ctx, SearchParams{Query: "", Category: "Food & Drinks"})
	if len(results) != 1 {
		t.Fatalf("expected 1 result, got %d", len(results))
	}

	// No results
	results, err = s.Search(ctx, SearchParams{Query: "lorry"})
	if err != nil {
		t.Fatal(err)
	}
	if len(results) != 0 {
		t.Fatalf("expected 0 results, got %d", len(results))
	}
}
