package cli

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/mekedron/geopoint/internal/config"
	"github.com/mekedron/geopoint/internal/domain"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// NewRootCommand builds the complete command tree.
func NewRootCommand(deps Dependencies) *cobra.Command {
	version := resolvedVersion(deps.Version)
	printVersion := func(cmd *cobra.Command) error {
		if show, _ := cmd.Flags().GetBool("version"); !show {
			return nil
		}
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), version)
		return errVersionShown
	}

	root := &cobra.Command{
		Use:           "geopoint",
		Short:         "Build, parse, compare, geocode, and bookmark Tokyo Datum and WGS84 points.",
		SilenceErrors: true,
		SilenceUsage:  true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := printVersion(cmd); err != nil {
				return err
			}
			return cmd.Help()
		},
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return printVersion(cmd)
		},
	}
	root.Flags().BoolP("version", "v", false, "Show CLI version and exit.")
	root.SetHelpCommand(&cobra.Command{Hidden: true})
	defaultHelpFunc := root.HelpFunc()
	root.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		if cmd == root {
			renderRootHelp(cmd.OutOrStdout(), root, deps.Settings)
			return
		}
		defaultHelpFunc(cmd, args)
	})

	root.AddCommand(newNewCommand(deps))
	root.AddCommand(newParseCommand(deps))
	root.AddCommand(newCompareCommand(deps))
	root.AddCommand(newDatumsCommand(deps))
	root.AddCommand(newGeocodeCommand(deps))
	root.AddCommand(newBookmarkCommand(deps))
	root.AddCommand(newVersionCommand(deps))

	return root
}

func renderRootHelp(out io.Writer, root *cobra.Command, settings config.Settings) {
	var b strings.Builder
	fmt.Fprintf(&b, "%s: %s\n\n", root.Name(), root.Short)
	fmt.Fprintf(&b, "usage: %s <command> [options]\n", root.Name())
	b.WriteString("global options (accepted by every command):\n")
	for _, option := range rootOptions(root) {
		fmt.Fprintf(&b, "  %s: %s\n", option.token, option.usage)
	}

	b.WriteString("\ncommands:\n")
	for _, cmd := range visibleCommands(root) {
		fmt.Fprintf(&b, "  %s\n    %s\n", cmd.Name(), cmd.Short)
	}

	b.WriteString("\ndatums:\n")
	for _, datum := range domain.Datums() {
		fmt.Fprintf(&b, "  %s: %s\n", datum, datum.Description())
	}

	b.WriteString("\nnotes:\n")
	for _, note := range helpNotes(settings) {
		fmt.Fprintf(&b, "  - %s\n", note)
	}

	b.WriteString("\nfull reference:\n")
	writeReference(&b, root, root.Name())
	_, _ = io.WriteString(out, b.String())
}

func helpNotes(settings config.Settings) []string {
	datums := domain.Datums()
	names := make([]string, 0, len(datums))
	for _, datum := range datums {
		names = append(names, datum.String())
	}
	return []string{
		"command options are optional unless marked [required].",
		fmt.Sprintf(
			"latitude and longitude are integers; geocode and --check-bounds read them at %d units per degree (units_per_degree).",
			settings.UnitsPerDegree,
		),
		fmt.Sprintf("%s points are never equal to each other, even with the same numbers; no datum conversion is performed.", strings.Join(names, " and ")),
		"negative values: use --lat=-90 for flags, and put positional values after --, e.g. geopoint parse --datum wgs84 -- -90x-180",
	}
}

func visibleCommands(parent *cobra.Command) []*cobra.Command {
	var commands []*cobra.Command
	for _, cmd := range parent.Commands() {
		if !cmd.Hidden {
			commands = append(commands, cmd)
		}
	}
	return commands
}

func writeReference(b *strings.Builder, parent *cobra.Command, path string) {
	for _, cmd := range visibleCommands(parent) {
		fmt.Fprintf(b, "- %s %s\n  %s\n", path, cmd.Use, cmd.Short)
		if options := commandOptions(cmd); len(options) > 0 {
			b.WriteString("  options:\n")
			for _, option := range options {
				label := ""
				if option.required {
					label = " [required]"
				}
				fmt.Fprintf(b, "    %s%s: %s\n", option.token, label, option.usage)
			}
		}
		b.WriteString("\n")
		writeReference(b, cmd, path+" "+cmd.Name())
	}
}

type optionDoc struct {
	name     string
	token    string
	usage    string
	required bool
	shared   bool
}

func newOptionDoc(flag *pflag.Flag) optionDoc {
	token := "--" + flag.Name
	if flag.Shorthand != "" {
		token += "/-" + flag.Shorthand
	}
	required := flag.Annotations[cobra.BashCompOneRequiredFlag]
	return optionDoc{
		name:     flag.Name,
		token:    token,
		usage:    strings.TrimSpace(flag.Usage),
		required: len(required) > 0 && required[0] == "true",
		shared:   globalFlagNames[flag.Name],
	}
}

// rootOptions lists the root's own flags followed by the global flag set.
func rootOptions(root *cobra.Command) []optionDoc {
	var options []optionDoc
	visible := func(flag *pflag.Flag) {
		if !flag.Hidden && flag.Name != "help" {
			options = append(options, newOptionDoc(flag))
		}
	}
	root.LocalFlags().VisitAll(visible)
	newGlobalFlagSet(&globalFlags{}).VisitAll(visible)
	return options
}

// commandOptions lists a command's own flags, leaving out the global ones.
func commandOptions(cmd *cobra.Command) []optionDoc {
	var options []optionDoc
	cmd.LocalFlags().VisitAll(func(flag *pflag.Flag) {
		if flag.Hidden || flag.Name == "help" || globalFlagNames[flag.Name] {
			return
		}
		options = append(options, newOptionDoc(flag))
	})
	sort.Slice(options, func(i, j int) bool {
		return options[i].name < options[j].name
	})
	return options
}
