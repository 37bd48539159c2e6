package cli

import (
	"runtime"
	"runtime/debug"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mekedron/geopoint/internal/service/output"
)

const (
	devVersion         = "dev"
	goDevelMainVersion = "(devel)"
	vcsRevisionKey     = "vcs.revision"
	vcsModifiedKey     = "vcs.modified"
)

var readBuildInfo = debug.ReadBuildInfo

type versionInfo struct {
	Version   string `json:"version" yaml:"version"`
	GoVersion string `json:"go_version" yaml:"go_version"`
	Platform  string `json:"platform" yaml:"platform"`
}

func newVersionCommand(deps Dependencies) *cobra.Command {
	var flags globalFlags
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show build version details.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, err := newCommandContext(cmd, deps, "version", flags)
			if err != nil {
				return err
			}
			info := versionInfo{
				Version:   resolvedVersion(deps.Version),
				GoVersion: runtime.Version(),
				Platform:  runtime.GOOS + "/" + runtime.GOARCH,
			}
			return ctx.emit(info, nil, func() string {
				return output.RenderTable("", []string{"VERSION", "GO", "PLATFORM"}, [][]string{
					{info.Version, info.GoVersion, info.Platform},
				})
			})
		},
	}
	addGlobalFlags(cmd, &flags)
	return cmd
}

// resolvedVersion prefers an injected release tag, then module or VCS build info.
func resolvedVersion(raw string) string {
	trimmed := strings.TrimSpace(raw)
	if trimmed != "" && trimmed != devVersion {
		return trimmed
	}

	if info, ok := readBuildInfo(); ok && info != nil {
		if mainVersion := strings.TrimSpace(info.Main.Version); mainVersion != "" && mainVersion != goDevelMainVersion {
			return mainVersion
		}
		if revision, dirty := buildRevision(info.Settings); revision != "" {
			if dirty {
				return revision + "-dirty"
			}
			return revision
		}
	}
	return devVersion
}

func buildRevision(settings []debug.BuildSetting) (string, bool) {
	var revision string
	dirty := false
	for _, setting := range settings {
		switch setting.Key {
		case vcsRevisionKey:
			revision = strings.TrimSpace(setting.Value)
		case vcsModifiedKey:
			dirty = strings.EqualFold(strings.TrimSpace(setting.Value), "true")
		}
	}
	if len(revision) > 12 {
		revision = revision[:12]
	}
	return revision, dirty
}
