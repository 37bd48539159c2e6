package main

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/mekedron/geopoint/internal/cli"
	"github.com/mekedron/geopoint/internal/config"
	locationgateway "github.com/mekedron/geopoint/internal/gateway/location"
	"github.com/mekedron/geopoint/internal/logging"
	"github.com/mekedron/geopoint/internal/service/bookmark"
)

var version = "dev"

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		_, _ = os.Stderr.WriteString("load .env: " + err.Error() + "\n")
		os.Exit(1)
	}

	settings, err := config.LoadSettings("")
	if err != nil {
		_, _ = os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	logging.Setup(settings.LogLevel, settings.LogFormat, os.Stderr)

	store := config.NewStore(settings.StorePath)
	deps := cli.Dependencies{
		Bookmarks: bookmark.NewResolver(store),
		Manager:   bookmark.NewManager(store),
		Location:  locationgateway.NewClient(locationgateway.WithBaseURL(settings.NominatimURL)),
		Settings:  settings,
		Version:   version,
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	exitCode := cli.Execute(ctx, os.Args[1:], deps, os.Stdout, os.Stderr)
	stop()
	os.Exit(exitCode)
}
