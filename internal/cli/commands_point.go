package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/mekedron/geopoint/internal/domain"
	"github.com/mekedron/geopoint/internal/service/output"
	"github.com/spf13/cobra"
)

func newNewCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var datumName string
	var latitude int
	var longitude int
	var checkBounds bool

	cmd := &cobra.Command{
		Use:   "new",
		Short: "Construct a point from an integer latitude/longitude pair.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := newCommandContext(cmd, deps, "new", flags)
			if err != nil {
				return err
			}
			datum, err := parseDatumFlag(datumName)
			if err != nil {
				return ctx.emitError(codeInvalidArgument, err.Error())
			}
			point, err := domain.NewGeoPoint(datum, latitude, longitude)
			if err != nil {
				return ctx.emitError(codeInvalidArgument, err.Error())
			}
			if checkBounds && !point.WithinBounds(ctx.settings.UnitsPerDegree) {
				return ctx.emitError(codeInvalidArgument, outOfBoundsMessage(point, ctx.settings.UnitsPerDegree))
			}
			slog.Debug("point constructed", "datum", point.Datum().String(), "point", point.String())
			return ctx.emit(newPointView(point), nil, func() string {
				return output.RenderTable("", pointHeaders, [][]string{pointRow(point)})
			})
		},
	}

	cmd.Flags().StringVar(&datumName, "datum", "", "Datum of the point: tokyo or wgs84.")
	cmd.Flags().IntVar(&latitude, "lat", 0, "Latitude as an integer in the caller's scale.")
	cmd.Flags().IntVar(&longitude, "lon", 0, "Longitude as an integer in the caller's scale.")
	cmd.Flags().BoolVar(&checkBounds, "check-bounds", false, "Reject points outside [-90,90]x[-180,180] degrees at units_per_degree.")
	_ = cmd.MarkFlagRequired("datum")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newParseCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var datumName string

	cmd := &cobra.Command{
		Use:   "parse <lat>x<lon>",
		Short: "Parse a point literal such as 35x135 or 35,135.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newCommandContext(cmd, deps, "parse", flags)
			if err != nil {
				return err
			}
			datum, err := parseDatumFlag(datumName)
			if err != nil {
				return ctx.emitError(codeInvalidArgument, err.Error())
			}
			point, err := domain.ParseGeoPoint(datum, args[0])
			if err != nil {
				return ctx.emitError(codeInvalidArgument, err.Error())
			}
			return ctx.emit(newPointView(point), nil, func() string {
				return output.RenderTable("", pointHeaders, [][]string{pointRow(point)})
			})
		},
	}

	cmd.Flags().StringVar(&datumName, "datum", "", "Datum of the point: tokyo or wgs84.")
	_ = cmd.MarkFlagRequired("datum")
	addGlobalFlags(cmd, &flags)
	return cmd
}

type comparison struct {
	Equal       bool            `json:"equal" yaml:"equal"`
	A           domain.GeoPoint `json:"a" yaml:"a"`
	B           domain.GeoPoint `json:"b" yaml:"b"`
	Differences []string        `json:"differences" yaml:"differences"`
}

func comparePoints(a, b domain.GeoPoint) comparison {
	differences := []string{}
	if a.Datum() != b.Datum() {
		differences = append(differences, "datum")
	}
	if a.Latitude() != b.Latitude() {
		differences = append(differences, "latitude")
	}
	if a.Longitude() != b.Longitude() {
		differences = append(differences, "longitude")
	}
	return comparison{Equal: a.Equal(b), A: a, B: b, Differences: differences}
}

func newCompareCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var exitCode bool

	cmd := &cobra.Command{
		Use:   "compare <a> <b>",
		Short: "Compare two points by value; operands are datum:<lat>x<lon> or @bookmark.",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newCommandContext(cmd, deps, "compare", flags)
			if err != nil {
				return err
			}
			points := make([]domain.GeoPoint, 0, len(args))
			for _, arg := range args {
				point, err := resolveOperand(cmd.Context(), deps, arg)
				if errors.Is(err, errInvalidOperand) {
					return ctx.emitError(codeInvalidArgument, err.Error())
				}
				if err != nil {
					return ctx.emitBookmarkError(err)
				}
				points = append(points, point)
			}

			result := comparePoints(points[0], points[1])
			rendered := ctx.emit(result, nil, func() string {
				rows := [][]string{
					{"datum", points[0].Datum().String(), points[1].Datum().String()},
					{"latitude", strconv.Itoa(points[0].Latitude()), strconv.Itoa(points[1].Latitude())},
					{"longitude", strconv.Itoa(points[0].Longitude()), strconv.Itoa(points[1].Longitude())},
				}
				title := "equal: " + strconv.FormatBool(result.Equal)
				differences := "none"
				if len(result.Differences) > 0 {
					differences = strings.Join(result.Differences, ", ")
				}
				return output.RenderTable(title, []string{"FIELD", "A", "B"}, rows) + "\ndifferences: " + differences
			})
			if rendered != nil {
				return rendered
			}
			if exitCode && !result.Equal {
				return &exitError{code: 1}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&exitCode, "exit-code", false, "Exit with status 1 when the points differ.")
	addGlobalFlags(cmd, &flags)
	return cmd
}

var errInvalidOperand = errors.New("invalid operand")

// resolveOperand parses "datum:<lat>x<lon>" or looks up "@bookmark".
func resolveOperand(ctx context.Context, deps Dependencies, raw string) (domain.GeoPoint, error) {
	trimmed := strings.TrimSpace(raw)
	if name, ok := strings.CutPrefix(trimmed, "@"); ok {
		if deps.Bookmarks == nil {
			return domain.GeoPoint{}, errors.New("bookmarks are not available")
		}
		return deps.Bookmarks.Point(ctx, name)
	}
	datumName, text, ok := strings.Cut(trimmed, ":")
	if !ok {
		return domain.GeoPoint{}, fmt.Errorf("%w %q: expected datum:<lat>x<lon> or @bookmark", errInvalidOperand, raw)
	}
	datum, err := domain.ParseDatum(datumName)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: %w", errInvalidOperand, err)
	}
	point, err := domain.ParseGeoPoint(datum, text)
	if err != nil {
		return domain.GeoPoint{}, fmt.Errorf("%w: %w", errInvalidOperand, err)
	}
	return point, nil
}

func newDatumsCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "datums",
		Short: "List supported datums.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := newCommandContext(cmd, deps, "datums", flags)
			if err != nil {
				return err
			}
			datums := domain.Datums()
			data := make([]map[string]any, 0, len(datums))
			rows := make([][]string, 0, len(datums))
			for _, datum := range datums {
				data = append(data, map[string]any{"name": datum.String(), "description": datum.Description()})
				rows = append(rows, []string{datum.String(), datum.Description()})
			}
			return ctx.emit(data, nil, func() string {
				return output.RenderTable("", []string{"NAME", "DESCRIPTION"}, rows)
			})
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func outOfBoundsMessage(point domain.GeoPoint, unitsPerDegree int) string {
	return fmt.Sprintf(
		"point %s (%s) is outside [-90,90]x[-180,180] degrees at %d units per degree",
		point.String(),
		point.Datum().String(),
		unitsPerDegree,
	)
}
