// SPDX-License-Identifier: MPL-2.0

// Package cmd contains all CLI commands for lmi.
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"
	"github.com/SpongeTsui/openlmi-scripts/internal/issue"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
)

var (
	// Version is the semantic version (set via -ldflags).
	Version = "dev"
	// Commit is the git commit hash (set via -ldflags).
	Commit = "unknown"
	// BuildDate is the build timestamp (set via -ldflags).
	BuildDate = "unknown"

	// markdownStyle is the glamour style of issue pages and command docs.
	markdownStyle = "auto"
)

// NewRootCommand creates the lmi command tree for app. Every call returns
// a fresh tree with its own flag values.
func NewRootCommand(app *App) (*cobra.Command, error) {
	tree, err := structureTree()
	if err != nil {
		return nil, definitionError(err)
	}

	flags := &rootFlags{}
	root := &cobra.Command{
		Use:   config.AppName,
		Short: "Manage systems through their management objects",
		Long: TitleStyle.Render("lmi") + SubtitleStyle.Render(" - manage systems through their management objects") + `

Commands are declared once and query the managed system through its
management object namespaces. Without a command, lmi starts an
interactive shell.

` + SubtitleStyle.Render("Examples:") + `
  lmi --snapshot host.yaml hwinfo cpu        Show processor information
  lmi -f csv hwinfo memory                   Print memory information as CSV
  lmi system check server.example.com       Exit 0 if the host name matches
  lmi doc hwinfo                             Read the documentation of hwinfo`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runShell(cmd, flags)
		},
	}

	pf := root.PersistentFlags()
	pf.StringVar(&flags.configPath, "config", "", "config file (default is $HOME/.config/lmi/config.cue)")
	pf.BoolVarP(&flags.verbose, "verbose", "v", false, "enable verbose output")
	pf.BoolVar(&flags.debug, "debug", false, "enable debug logging")
	pf.StringVar(&flags.snapshot, "snapshot", "", "inventory snapshot (.cue or .yaml) commands run against")
	pf.StringVarP(&flags.format, "format", "f", "", "output format of listers ("+listerFormatNames()+")")
	pf.BoolVarP(&flags.noHeadings, "no-headings", "N", false, "do not print column headings")
	pf.BoolVarP(&flags.humanFriendly, "human-friendly", "H", false, "print values in a human readable form")

	for _, child := range tree.Children() {
		root.AddCommand(newDescriptorCommand(app, flags, []string{child.Name}, child.Command))
	}
	root.AddCommand(newConfigCommand(app, flags))
	root.AddCommand(newDocCommand(app, tree))
	root.AddCommand(newShellCommand(app, flags))

	return root, nil
}

// getVersionString returns a formatted version string for display.
func getVersionString() string {
	if Version == "dev" {
		return "dev (built from source)"
	}
	return fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, BuildDate)
}

// Execute builds the root command and runs it. This is called by main.main().
func Execute() {
	app := NewApp(Dependencies{})
	root, err := NewRootCommand(app)
	if err != nil {
		fmt.Fprintln(os.Stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, true))
		os.Exit(ExitFailure)
	}

	// fang overrides root.Version, so the version goes through WithVersion.
	if err := fang.Execute(
		context.Background(),
		root,
		fang.WithVersion(getVersionString()),
		fang.WithNotifySignal(os.Interrupt),
		fang.WithErrorHandler(errorHandler),
	); err != nil {
		var exitErr *ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(ExitFailure)
	}
}

// errorHandler prints errors that no command reported yet.
func errorHandler(w io.Writer, styles fang.Styles, err error) {
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return
	}
	fang.DefaultErrorHandler(w, styles, err)
}

// formatErrorForDisplay formats an error for user display.
// If the error is an ActionableError, it uses the Format method.
// In verbose mode, shows the full error chain and the linked issue page.
func formatErrorForDisplay(err error, verboseMode bool) string {
	var ae *issue.ActionableError
	if !errors.As(err, &ae) {
		return err.Error()
	}

	msg := ae.Format(verboseMode)
	if verboseMode && ae.Issue != 0 {
		if page := issue.Get(ae.Issue); page != nil {
			if rendered, renderErr := page.Render(markdownStyle); renderErr == nil {
				msg += "\n" + rendered
			}
		}
	}
	return msg
}

func listerFormatNames() string {
	formats := config.ListerFormats()
	names := make([]string, len(formats))
	for i, f := range formats {
		names[i] = f.String()
	}
	return strings.Join(names, "|")
}
