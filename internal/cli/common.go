package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/mekedron/geopoint/internal/config"
	"github.com/mekedron/geopoint/internal/domain"
	"github.com/mekedron/geopoint/internal/logging"
	"github.com/mekedron/geopoint/internal/service/bookmark"
	"github.com/mekedron/geopoint/internal/service/output"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	codeInvalidArgument = "GEOPOINT_INVALID_ARGUMENT"
	codeBookmarkError   = "GEOPOINT_BOOKMARK_ERROR"
	codeStoreError      = "GEOPOINT_STORE_ERROR"
	codeLocationError   = "GEOPOINT_LOCATION_ERROR"
)

type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return ""
}

type globalFlags struct {
	Format  string
	Output  string
	Verbose bool
}

// newGlobalFlagSet declares the flags every command accepts, in help order.
func newGlobalFlagSet(flags *globalFlags) *pflag.FlagSet {
	set := pflag.NewFlagSet("global", pflag.ContinueOnError)
	set.SortFlags = false
	var formats []string
	for _, format := range output.Formats() {
		formats = append(formats, string(format))
	}
	set.StringVar(&flags.Format, "format", "", "Output format: "+strings.Join(formats, ", ")+" (default from settings).")
	set.StringVar(&flags.Output, "output", "", "Also write command output to this file.")
	set.BoolVar(&flags.Verbose, "verbose", false, "Enable debug logging on stderr.")
	return set
}

var globalFlagNames = func() map[string]bool {
	names := map[string]bool{}
	newGlobalFlagSet(&globalFlags{}).VisitAll(func(flag *pflag.Flag) {
		names[flag.Name] = true
	})
	return names
}()

func addGlobalFlags(cmd *cobra.Command, flags *globalFlags) {
	cmd.Flags().AddFlagSet(newGlobalFlagSet(flags))
}

// commandContext bundles what every RunE needs after flag parsing.
type commandContext struct {
	cmd      *cobra.Command
	name     string
	format   output.Format
	output   string
	settings config.Settings
}

func newCommandContext(cmd *cobra.Command, deps Dependencies, name string, flags globalFlags) (*commandContext, error) {
	raw := flags.Format
	if strings.TrimSpace(raw) == "" {
		raw = deps.Settings.Format
	}
	format, err := output.ParseFormat(raw)
	if err != nil {
		return nil, err
	}
	if flags.Verbose {
		logging.Setup("debug", deps.Settings.LogFormat, cmd.ErrOrStderr())
	}
	return &commandContext{
		cmd:      cmd,
		name:     name,
		format:   format,
		output:   flags.Output,
		settings: deps.Settings,
	}, nil
}

func (c *commandContext) writer() output.Writer {
	return output.Writer{
		Out:            c.cmd.OutOrStdout(),
		Path:           c.output,
		Format:         c.format,
		Command:        c.name,
		UnitsPerDegree: c.settings.UnitsPerDegree,
	}
}

// emit writes data as a table or as an envelope depending on the format.
func (c *commandContext) emit(data any, warnings []string, table func() string) error {
	return c.writer().Result(data, warnings, table)
}

func (c *commandContext) emitError(code string, message string) error {
	if err := c.writer().Fail(code, message); err != nil {
		return err
	}
	return &exitError{code: 1}
}

// emitBookmarkError classifies service errors into bookmark vs storage failures.
func (c *commandContext) emitBookmarkError(err error) error {
	switch {
	case errors.Is(err, bookmark.ErrBookmarkNotFound),
		errors.Is(err, bookmark.ErrDefaultBookmarkNotFound),
		errors.Is(err, bookmark.ErrDuplicateBookmark):
		return c.emitError(codeBookmarkError, err.Error())
	case errors.Is(err, domain.ErrInvalidRecord), errors.Is(err, domain.ErrUnknownDatum):
		return c.emitError(codeInvalidArgument, err.Error())
	default:
		return c.emitError(codeStoreError, err.Error())
	}
}

// runGroup shows help for a bare command group and rejects unknown subcommands.
func runGroup(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return cmd.Help()
	}
	return fmt.Errorf("unknown command %q for %q", args[0], cmd.CommandPath())
}

func requiredArg(name string) string {
	return name + " is required"
}

type pointView struct {
	Point domain.GeoPoint `json:"point" yaml:"point"`
	Text  string          `json:"text" yaml:"text"`
}

func newPointView(point domain.GeoPoint) pointView {
	return pointView{Point: point, Text: point.String()}
}

var pointHeaders = []string{"DATUM", "LATITUDE", "LONGITUDE", "TEXT"}

func pointRow(point domain.GeoPoint) []string {
	return []string{
		point.Datum().String(),
		strconv.Itoa(point.Latitude()),
		strconv.Itoa(point.Longitude()),
		point.String(),
	}
}

func parseDatumFlag(raw string) (domain.Datum, error) {
	if strings.TrimSpace(raw) == "" {
		return domain.DatumUnknown, errors.New(requiredArg("--datum"))
	}
	return domain.ParseDatum(raw)
}
