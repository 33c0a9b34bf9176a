package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"staysearch/internal/domain/filter"
	domainlistings "staysearch/internal/domain/listings"
	"staysearch/internal/infra/storage/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestLoadListingFixtures(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.json")
	data := `[
		{"_id":"a","title":"Loft","location":"Paris, France","price":120,"rating":4.6,"images":["x.jpg"],"createdAt":"2024-03-01T10:00:00Z"},
		{"_id":"b","title":"","location":"Rome","price":80,"images":["y.jpg"]},
		{"_id":"c","title":"Hut","location":"Oslo","price":40,"rating":9,"images":["z.jpg"]}
	]`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	repo := memory.NewListingRepository()
	if err := loadListingFixtures(context.Background(), repo, path, discardLogger()); err != nil {
		t.Fatalf("load: %v", err)
	}
	n, err := repo.Count(context.Background(), filter.Empty())
	if err != nil || n != 1 {
		t.Fatalf("count = %d, %v; invalid fixtures should be skipped", n, err)
	}
	l, err := repo.ByID(context.Background(), "a")
	if err != nil {
		t.Fatalf("ByID: %v", err)
	}
	if l.MaxGuests != domainlistings.DefaultMaxGuests || l.CreatedAt.Year() != 2024 {
		t.Fatalf("unexpected listing %+v", l)
	}
}

func TestLoadListingFixtures_MissingFileIsSkipped(t *testing.T) {
	repo := memory.NewListingRepository()
	err := loadListingFixtures(context.Background(), repo, filepath.Join(t.TempDir(), "nope.json"), discardLogger())
	if err != nil {
		t.Fatalf("missing file should not fail: %v", err)
	}
}

func TestLoadListingFixtures_Malformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "listings.json")
	if err := os.WriteFile(path, []byte(`{"not":"a list"}`), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := loadListingFixtures(context.Background(), memory.NewListingRepository(), path, discardLogger()); err == nil {
		t.Fatal("expected decode error")
	}
}

func TestRepositoryFixturesAreValid(t *testing.T) {
	path := filepath.Join("..", "..", "data", "listings.json")
	if _, err := os.Stat(path); err != nil {
		t.Skipf("fixtures not present: %v", err)
	}
	repo := memory.NewListingRepository()
	if err := loadListingFixtures(context.Background(), repo, path, discardLogger()); err != nil {
		t.Fatalf("load: %v", err)
	}
	n, _ := repo.Count(context.Background(), filter.Empty())
	if n == 0 {
		t.Fatal("bundled fixtures produced no listings")
	}
}
