package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/mekedron/geopoint/internal/domain"
)

func TestStoreSaveAndLoadRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "bookmarks.json")
	store := NewStore(path)

	input := domain.Bookmarks{
		Bookmarks: []domain.Bookmark{
			{Name: "station", IsDefault: true, Point: domain.NewTokyoGeoPoint(128452975, 503157902).Record()},
			{Name: "office", Point: domain.NewWGS84GeoPoint(35, 135).Record()},
		},
	}
	if err := store.Save(context.Background(), input); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}

	output, err := store.Load(context.Background())
	if err != nil {
		t.Fatalf("unexpected load error: %v", err)
	}
	if len(output.Bookmarks) != 2 || output.Bookmarks[0].Name != "station" {
		t.Fatalf("unexpected roundtrip bookmarks: %+v", output)
	}
	point, err := domain.PointFromRecord(output.Bookmarks[0].Point)
	if err != nil {
		t.Fatalf("decode stored point: %v", err)
	}
	if point != domain.NewTokyoGeoPoint(128452975, 503157902) {
		t.Fatalf("unexpected stored point: %v", point)
	}
}

func TestStoreSavesEmptyList(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	store := NewStore(path)
	if err := store.Save(context.Background(), domain.Bookmarks{}); err != nil {
		t.Fatalf("unexpected save error: %v", err)
	}
	payload, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read saved file: %v", err)
	}
	if string(payload) != "{\n  \"bookmarks\": []\n}" {
		t.Fatalf("unexpected empty payload: %q", payload)
	}
}

func TestStoreLoadMissing(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "missing.json"))
	_, err := store.Load(context.Background())
	if !errors.Is(err, ErrStoreNotFound) {
		t.Fatalf("expected ErrStoreNotFound, got %v", err)
	}
}

func TestStoreLoadInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.json")
	if err := os.WriteFile(path, []byte("{"), 0o644); err != nil {
		t.Fatalf("write invalid bookmarks: %v", err)
	}
	_, err := NewStore(path).Load(context.Background())
	if !errors.Is(err, ErrInvalidStore) {
		t.Fatalf("expected ErrInvalidStore, got %v", err)
	}
}

func TestStoreLoadRejectsUnknownDatum(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bookmarks.json")
	payload := `{"bookmarks":[{"name":"x","point":{"datum":"jgd2000","latitude":1,"longitude":2}}]}`
	if err := os.WriteFile(path, []byte(payload), 0o644); err != nil {
		t.Fatalf("write bookmarks: %v", err)
	}
	_, err := NewStore(path).Load(context.Background())
	if !errors.Is(err, ErrInvalidStore) {
		t.Fatalf("expected ErrInvalidStore, got %v", err)
	}
}

func TestStoreSaveRejectsDuplicateNames(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "bookmarks.json"))
	point := domain.NewTokyoGeoPoint(1, 2).Record()
	err := store.Save(context.Background(), domain.Bookmarks{Bookmarks: []domain.Bookmark{
		{Name: "Home", Point: point},
		{Name: "home", Point: point},
	}})
	if !errors.Is(err, ErrInvalidStore) {
		t.Fatalf("expected ErrInvalidStore, got %v", err)
	}
}

func TestStoreSaveRejectsSeveralDefaults(t *testing.T) {
	store := NewStore(filepath.Join(t.TempDir(), "bookmarks.json"))
	point := domain.NewWGS84GeoPoint(1, 2).Record()
	err := store.Save(context.Background(), domain.Bookmarks{Bookmarks: []domain.Bookmark{
		{Name: "a", IsDefault: true, Point: point},
		{Name: "b", IsDefault: true, Point: point},
	}})
	if !errors.Is(err, ErrInvalidStore) {
		t.Fatalf("expected ErrInvalidStore, got %v", err)
	}
}
