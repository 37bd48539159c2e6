package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"regexp"

	"github.com/mekedron/geopoint/internal/config"
	"github.com/mekedron/geopoint/internal/domain"
)

var unknownCommandPattern = regexp.MustCompile(`unknown command "([^"]+)"`)

// BookmarkResolver resolves bookmark selections.
type BookmarkResolver interface {
	Find(ctx context.Context, name string) (domain.Bookmark, error)
	Point(ctx context.Context, name string) (domain.GeoPoint, error)
}

// BookmarkManager edits stored bookmarks.
type BookmarkManager interface {
	List(ctx context.Context) ([]domain.Bookmark, error)
	Put(ctx context.Context, name string, point domain.GeoPoint, makeDefault bool, overwrite bool) (domain.Bookmark, error)
	Remove(ctx context.Context, name string) (domain.Bookmark, error)
}

// LocationResolver resolves addresses to coordinates.
type LocationResolver interface {
	Get(ctx context.Context, address string) (domain.Location, error)
}

// Dependencies wires runtime services.
type Dependencies struct {
	Bookmarks BookmarkResolver
	Manager   BookmarkManager
	Location  LocationResolver
	Settings  config.Settings
	Version   string
}

var errVersionShown = fmt.Errorf("version shown")

// Execute runs the CLI with injected dependencies.
func Execute(ctx context.Context, args []string, deps Dependencies, stdout io.Writer, stderr io.Writer) int {
	cmd := NewRootCommand(deps)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil || err == errVersionShown {
		return 0
	}
	var controlled *exitError
	if errors.As(err, &controlled) {
		return controlled.code
	}

	if matches := unknownCommandPattern.FindStringSubmatch(err.Error()); len(matches) > 1 {
		_, _ = fmt.Fprintf(stderr, "No such command '%s'\n", matches[1])
		return 2
	}

	if msg := err.Error(); msg != "" {
		_, _ = fmt.Fprintln(stderr, msg)
	}
	return 1
}
