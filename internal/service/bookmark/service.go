package bookmark

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mekedron/geopoint/internal/config"
	"github.com/mekedron/geopoint/internal/domain"
)

var (
	// ErrDefaultBookmarkNotFound indicates no bookmark is marked default.
	ErrDefaultBookmarkNotFound = errors.New("no default bookmark found")
	// ErrBookmarkNotFound indicates requested bookmark does not exist.
	ErrBookmarkNotFound = errors.New("bookmark not found")
	// ErrDuplicateBookmark indicates a save would replace an existing bookmark.
	ErrDuplicateBookmark = errors.New("bookmark already exists")
)

// Loader provides stored bookmarks.
type Loader interface {
	Load(ctx context.Context) (domain.Bookmarks, error)
}

// Store loads and persists bookmarks.
type Store interface {
	Loader
	Save(ctx context.Context, bookmarks domain.Bookmarks) error
}

// Resolver resolves bookmark names.
type Resolver struct {
	loader Loader
}

// NewResolver creates a bookmark resolver.
func NewResolver(loader Loader) *Resolver {
	return &Resolver{loader: loader}
}

// Find resolves explicit bookmark names or the default one.
func (r *Resolver) Find(ctx context.Context, name string) (domain.Bookmark, error) {
	bookmarks, err := r.loader.Load(ctx)
	if err != nil {
		if errors.Is(err, config.ErrStoreNotFound) {
			if strings.TrimSpace(name) == "" {
				return domain.Bookmark{}, ErrDefaultBookmarkNotFound
			}
			return domain.Bookmark{}, fmt.Errorf("%w: %s (no bookmarks saved)", ErrBookmarkNotFound, strings.TrimSpace(name))
		}
		return domain.Bookmark{}, err
	}
	if strings.TrimSpace(name) == "" {
		for _, bookmark := range bookmarks.Bookmarks {
			if bookmark.IsDefault {
				return bookmark, nil
			}
		}
		return domain.Bookmark{}, ErrDefaultBookmarkNotFound
	}

	if index := indexOf(bookmarks, name); index >= 0 {
		return bookmarks.Bookmarks[index], nil
	}
	available := make([]string, 0, len(bookmarks.Bookmarks))
	for _, bookmark := range bookmarks.Bookmarks {
		available = append(available, bookmark.Name)
	}
	return domain.Bookmark{}, fmt.Errorf("%w: %s (available: %s)", ErrBookmarkNotFound, strings.TrimSpace(name), strings.Join(available, ", "))
}

// Point resolves a bookmark and decodes its point.
func (r *Resolver) Point(ctx context.Context, name string) (domain.GeoPoint, error) {
	bookmark, err := r.Find(ctx, name)
	if err != nil {
		return domain.GeoPoint{}, err
	}
	return domain.PointFromRecord(bookmark.Point)
}

// Manager edits stored bookmarks.
type Manager struct {
	store Store
}

// NewManager creates a bookmark manager.
func NewManager(store Store) *Manager {
	return &Manager{store: store}
}

// List returns all bookmarks, empty when none were saved yet.
func (m *Manager) List(ctx context.Context) ([]domain.Bookmark, error) {
	bookmarks, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	return bookmarks.Bookmarks, nil
}

// Put saves point under name. The first bookmark saved becomes the default.
func (m *Manager) Put(ctx context.Context, name string, point domain.GeoPoint, makeDefault bool, overwrite bool) (domain.Bookmark, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return domain.Bookmark{}, fmt.Errorf("bookmark name is required")
	}
	if !point.Valid() {
		return domain.Bookmark{}, fmt.Errorf("%w: point has no datum", domain.ErrInvalidRecord)
	}
	bookmarks, err := m.load(ctx)
	if err != nil {
		return domain.Bookmark{}, err
	}

	entry := domain.Bookmark{Name: trimmed, Point: point.Record()}
	index := indexOf(bookmarks, trimmed)
	switch {
	case index >= 0 && !overwrite:
		return domain.Bookmark{}, fmt.Errorf("%w: %s (use --overwrite to replace)", ErrDuplicateBookmark, bookmarks.Bookmarks[index].Name)
	case index >= 0:
		entry.IsDefault = bookmarks.Bookmarks[index].IsDefault
		bookmarks.Bookmarks[index] = entry
	default:
		entry.IsDefault = len(bookmarks.Bookmarks) == 0
		bookmarks.Bookmarks = append(bookmarks.Bookmarks, entry)
		index = len(bookmarks.Bookmarks) - 1
	}
	if makeDefault {
		for i := range bookmarks.Bookmarks {
			bookmarks.Bookmarks[i].IsDefault = i == index
		}
	}

	if err := m.store.Save(ctx, bookmarks); err != nil {
		return domain.Bookmark{}, err
	}
	slog.Debug("bookmark saved", "name", trimmed, "datum", point.Datum().String(), "point", point.String())
	return bookmarks.Bookmarks[index], nil
}

// Remove deletes a bookmark. Removing the default promotes the first remaining one.
func (m *Manager) Remove(ctx context.Context, name string) (domain.Bookmark, error) {
	bookmarks, err := m.load(ctx)
	if err != nil {
		return domain.Bookmark{}, err
	}
	index := indexOf(bookmarks, name)
	if index < 0 {
		return domain.Bookmark{}, fmt.Errorf("%w: %s", ErrBookmarkNotFound, strings.TrimSpace(name))
	}
	removed := bookmarks.Bookmarks[index]
	bookmarks.Bookmarks = append(bookmarks.Bookmarks[:index:index], bookmarks.Bookmarks[index+1:]...)
	if removed.IsDefault && len(bookmarks.Bookmarks) > 0 {
		bookmarks.Bookmarks[0].IsDefault = true
	}

	if err := m.store.Save(ctx, bookmarks); err != nil {
		return domain.Bookmark{}, err
	}
	slog.Debug("bookmark removed", "name", removed.Name)
	return removed, nil
}

func (m *Manager) load(ctx context.Context) (domain.Bookmarks, error) {
	bookmarks, err := m.store.Load(ctx)
	if errors.Is(err, config.ErrStoreNotFound) {
		return domain.Bookmarks{}, nil
	}
	return bookmarks, err
}

func indexOf(bookmarks domain.Bookmarks, name string) int {
	want := strings.TrimSpace(name)
	for i, bookmark := range bookmarks.Bookmarks {
		if strings.EqualFold(strings.TrimSpace(bookmark.Name), want) {
			return i
		}
	}
	return -1
}
