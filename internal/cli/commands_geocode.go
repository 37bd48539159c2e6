package cli

import (
	"log/slog"
	"strconv"
	"strings"

	"github.com/mekedron/geopoint/internal/service/output"
	"github.com/spf13/cobra"
)

func newGeocodeCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var saveAs string
	var makeDefault bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "geocode <address...>",
		Short: "Resolve an address to a WGS84 point via OpenStreetMap Nominatim.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newCommandContext(cmd, deps, "geocode", flags)
			if err != nil {
				return err
			}
			address := strings.TrimSpace(strings.Join(args, " "))
			if address == "" {
				return ctx.emitError(codeInvalidArgument, requiredArg("address"))
			}
			if deps.Location == nil {
				return ctx.emitError(codeLocationError, "Location resolver is not available.")
			}
			location, err := deps.Location.Get(cmd.Context(), address)
			if err != nil {
				return ctx.emitError(codeLocationError, err.Error())
			}
			point := location.WGS84Point(ctx.settings.UnitsPerDegree)
			slog.Debug("address geocoded", "address", address, "lat", location.Lat, "lon", location.Lon, "point", point.String())

			if strings.TrimSpace(saveAs) != "" {
				return saveBookmark(ctx, deps, saveAs, point, makeDefault, overwrite)
			}

			data := map[string]any{
				"address":          address,
				"point":            point,
				"text":             point.String(),
				"degrees":          location,
				"units_per_degree": ctx.settings.UnitsPerDegree,
			}
			return ctx.emit(data, nil, func() string {
				row := append(pointRow(point),
					strconv.FormatFloat(location.Lat, 'f', -1, 64),
					strconv.FormatFloat(location.Lon, 'f', -1, 64),
				)
				headers := append(append([]string{}, pointHeaders...), "LAT_DEG", "LON_DEG")
				return output.RenderTable(address, headers, [][]string{row})
			})
		},
	}

	cmd.Flags().StringVar(&saveAs, "save", "", "Save the resolved point as a bookmark with this name.")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "With --save, mark the bookmark as default.")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "With --save, replace an existing bookmark.")
	addGlobalFlags(cmd, &flags)
	return cmd
}
