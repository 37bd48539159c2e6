package cli

import (
	"context"

	"github.com/mekedron/geopoint/internal/config"
	"github.com/mekedron/geopoint/internal/domain"
	"github.com/mekedron/geopoint/internal/service/bookmark"
)

type testStore struct {
	bookmarks domain.Bookmarks
	exists    bool
	saveErr   error
}

func (s *testStore) Load(context.Context) (domain.Bookmarks, error) {
	if !s.exists {
		return domain.Bookmarks{}, config.ErrStoreNotFound
	}
	return domain.Bookmarks{Bookmarks: append([]domain.Bookmark(nil), s.bookmarks.Bookmarks...)}, nil
}

func (s *testStore) Save(_ context.Context, bookmarks domain.Bookmarks) error {
	if s.saveErr != nil {
		return s.saveErr
	}
	s.exists = true
	s.bookmarks = bookmarks
	return nil
}

type testLocation struct {
	location domain.Location
	err      error
	queries  []string
}

func (l *testLocation) Get(_ context.Context, address string) (domain.Location, error) {
	l.queries = append(l.queries, address)
	if l.err != nil {
		return domain.Location{}, l.err
	}
	return l.location, nil
}

func testSettings() config.Settings {
	return config.Settings{
		UnitsPerDegree: config.DefaultUnitsPerDegree,
		StorePath:      "/dev/null",
		NominatimURL:   config.DefaultNominatimURL,
		LogLevel:       "warn",
		LogFormat:      "text",
		Format:         "table",
	}
}

func testDepsWith(store *testStore, location *testLocation) Dependencies {
	return Dependencies{
		Bookmarks: bookmark.NewResolver(store),
		Manager:   bookmark.NewManager(store),
		Location:  location,
		Settings:  testSettings(),
		Version:   "v0.0.0-test",
	}
}

func testDeps() Dependencies {
	return testDepsWith(&testStore{}, &testLocation{})
}

func seededStore() *testStore {
	return &testStore{
		exists: true,
		bookmarks: domain.Bookmarks{Bookmarks: []domain.Bookmark{
			{Name: "station", IsDefault: true, Point: domain.NewTokyoGeoPoint(35, 135).Record()},
			{Name: "office", Point: domain.NewWGS84GeoPoint(35, 135).Record()},
		}},
	}
}
