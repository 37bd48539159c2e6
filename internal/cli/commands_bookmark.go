package cli

import (
	"strconv"

	"github.com/mekedron/geopoint/internal/domain"
	"github.com/mekedron/geopoint/internal/service/output"
	"github.com/spf13/cobra"
)

type bookmarkView struct {
	Name      string          `json:"name" yaml:"name"`
	IsDefault bool            `json:"is_default" yaml:"is_default"`
	Point     domain.GeoPoint `json:"point" yaml:"point"`
	Text      string          `json:"text" yaml:"text"`
}

var bookmarkHeaders = []string{"NAME", "DEFAULT", "DATUM", "LATITUDE", "LONGITUDE", "TEXT"}

func newBookmarkView(bookmark domain.Bookmark) (bookmarkView, error) {
	point, err := domain.PointFromRecord(bookmark.Point)
	if err != nil {
		return bookmarkView{}, err
	}
	return bookmarkView{
		Name:      bookmark.Name,
		IsDefault: bookmark.IsDefault,
		Point:     point,
		Text:      point.String(),
	}, nil
}

func bookmarkRow(view bookmarkView) []string {
	marker := ""
	if view.IsDefault {
		marker = "*"
	}
	return append([]string{view.Name, marker}, pointRow(view.Point)...)
}

func newBookmarkCommand(deps Dependencies) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "bookmark",
		Short: "Save, list, show, and remove named points.",
		Args:  cobra.ArbitraryArgs,
		RunE:  runGroup,
	}
	cmd.AddCommand(newBookmarkSaveCommand(deps))
	cmd.AddCommand(newBookmarkListCommand(deps))
	cmd.AddCommand(newBookmarkShowCommand(deps))
	cmd.AddCommand(newBookmarkRemoveCommand(deps))
	return cmd
}

func newBookmarkSaveCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	var datumName string
	var latitude int
	var longitude int
	var makeDefault bool
	var overwrite bool

	cmd := &cobra.Command{
		Use:   "save <name>",
		Short: "Save a point under a name.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newCommandContext(cmd, deps, "bookmark save", flags)
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
			return saveBookmark(ctx, deps, args[0], point, makeDefault, overwrite)
		},
	}

	cmd.Flags().StringVar(&datumName, "datum", "", "Datum of the point: tokyo or wgs84.")
	cmd.Flags().IntVar(&latitude, "lat", 0, "Latitude as an integer in the caller's scale.")
	cmd.Flags().IntVar(&longitude, "lon", 0, "Longitude as an integer in the caller's scale.")
	cmd.Flags().BoolVar(&makeDefault, "default", false, "Mark this bookmark as the default one.")
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing bookmark with the same name.")
	_ = cmd.MarkFlagRequired("datum")
	_ = cmd.MarkFlagRequired("lat")
	_ = cmd.MarkFlagRequired("lon")
	addGlobalFlags(cmd, &flags)
	return cmd
}

func saveBookmark(
	ctx *commandContext,
	deps Dependencies,
	name string,
	point domain.GeoPoint,
	makeDefault bool,
	overwrite bool,
) error {
	if deps.Manager == nil {
		return ctx.emitError(codeStoreError, "Bookmark store is not available.")
	}
	saved, err := deps.Manager.Put(ctx.cmd.Context(), name, point, makeDefault, overwrite)
	if err != nil {
		return ctx.emitBookmarkError(err)
	}
	view, err := newBookmarkView(saved)
	if err != nil {
		return ctx.emitBookmarkError(err)
	}
	return ctx.emit(view, nil, func() string {
		return output.RenderTable("Bookmark saved.", bookmarkHeaders, [][]string{bookmarkRow(view)})
	})
}

func newBookmarkListCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List saved bookmarks.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := newCommandContext(cmd, deps, "bookmark list", flags)
			if err != nil {
				return err
			}
			if deps.Manager == nil {
				return ctx.emitError(codeStoreError, "Bookmark store is not available.")
			}
			bookmarks, err := deps.Manager.List(cmd.Context())
			if err != nil {
				return ctx.emitBookmarkError(err)
			}
			views := make([]bookmarkView, 0, len(bookmarks))
			rows := make([][]string, 0, len(bookmarks))
			for _, bookmark := range bookmarks {
				view, err := newBookmarkView(bookmark)
				if err != nil {
					return ctx.emitBookmarkError(err)
				}
				views = append(views, view)
				rows = append(rows, bookmarkRow(view))
			}
			return ctx.emit(views, nil, func() string {
				if len(rows) == 0 {
					return "No bookmarks saved."
				}
				return output.RenderTable("Bookmarks: "+strconv.Itoa(len(rows)), bookmarkHeaders, rows)
			})
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newBookmarkShowCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "show [name]",
		Short: "Show one bookmark, the default one when no name is given.",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newCommandContext(cmd, deps, "bookmark show", flags)
			if err != nil {
				return err
			}
			if deps.Bookmarks == nil {
				return ctx.emitError(codeStoreError, "Bookmark store is not available.")
			}
			name := ""
			if len(args) == 1 {
				name = args[0]
			}
			found, err := deps.Bookmarks.Find(cmd.Context(), name)
			if err != nil {
				return ctx.emitBookmarkError(err)
			}
			view, err := newBookmarkView(found)
			if err != nil {
				return ctx.emitBookmarkError(err)
			}
			return ctx.emit(view, nil, func() string {
				return output.RenderTable("", bookmarkHeaders, [][]string{bookmarkRow(view)})
			})
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

func newBookmarkRemoveCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags

	cmd := &cobra.Command{
		Use:   "remove <name>",
		Short: "Remove a bookmark.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := newCommandContext(cmd, deps, "bookmark remove", flags)
			if err != nil {
				return err
			}
			if deps.Manager == nil {
				return ctx.emitError(codeStoreError, "Bookmark store is not available.")
			}
			removed, err := deps.Manager.Remove(cmd.Context(), args[0])
			if err != nil {
				return ctx.emitBookmarkError(err)
			}
			view, err := newBookmarkView(removed)
			if err != nil {
				return ctx.emitBookmarkError(err)
			}
			return ctx.emit(view, nil, func() string {
				return output.RenderTable("Bookmark removed.", bookmarkHeaders, [][]string{bookmarkRow(view)})
			})
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}
