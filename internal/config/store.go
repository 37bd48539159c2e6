package config

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mekedron/geopoint/internal/domain"
)

var (
	// ErrStoreNotFound is returned when the bookmark file does not exist.
	ErrStoreNotFound = errors.New("bookmark file not found")
	// ErrInvalidStore is returned when the bookmark payload is malformed.
	ErrInvalidStore = errors.New("bookmark file is invalid")
)

// Store loads and writes bookmarks.
type Store struct {
	path string
}

// NewStore creates a store writing to path.
func NewStore(path string) *Store {
	return &Store{path: path}
}

// Path returns current bookmark file path.
func (s *Store) Path() string {
	return s.path
}

// Load reads and validates bookmarks.
func (s *Store) Load(_ context.Context) (domain.Bookmarks, error) {
	payload, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return domain.Bookmarks{}, ErrStoreNotFound
		}
		return domain.Bookmarks{}, fmt.Errorf("read bookmarks: %w", err)
	}

	var bookmarks domain.Bookmarks
	if err := json.Unmarshal(payload, &bookmarks); err != nil {
		return domain.Bookmarks{}, fmt.Errorf("%w: %v", ErrInvalidStore, err)
	}
	if err := validateBookmarks(bookmarks); err != nil {
		return domain.Bookmarks{}, err
	}
	return bookmarks, nil
}

// Save writes bookmarks. An empty set is written as an empty list.
func (s *Store) Save(_ context.Context, bookmarks domain.Bookmarks) error {
	if err := validateBookmarks(bookmarks); err != nil {
		return err
	}
	if bookmarks.Bookmarks == nil {
		bookmarks.Bookmarks = []domain.Bookmark{}
	}
	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create bookmark directory: %w", err)
	}
	payload, err := json.MarshalIndent(bookmarks, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal bookmarks: %w", err)
	}
	if err := os.WriteFile(s.path, payload, 0o644); err != nil {
		return fmt.Errorf("write bookmarks: %w", err)
	}
	return nil
}

func validateBookmarks(bookmarks domain.Bookmarks) error {
	seen := make(map[string]struct{}, len(bookmarks.Bookmarks))
	defaults := 0
	for _, bookmark := range bookmarks.Bookmarks {
		name := strings.ToLower(strings.TrimSpace(bookmark.Name))
		if name == "" {
			return fmt.Errorf("%w: bookmark name is empty", ErrInvalidStore)
		}
		if _, ok := seen[name]; ok {
			return fmt.Errorf("%w: duplicate bookmark %q", ErrInvalidStore, bookmark.Name)
		}
		seen[name] = struct{}{}
		if _, err := domain.PointFromRecord(bookmark.Point); err != nil {
			return fmt.Errorf("%w: bookmark %q: %v", ErrInvalidStore, bookmark.Name, err)
		}
		if bookmark.IsDefault {
			defaults++
		}
	}
	if defaults > 1 {
		return fmt.Errorf("%w: %d default bookmarks", ErrInvalidStore, defaults)
	}
	return nil
}
