// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"
	"github.com/SpongeTsui/openlmi-scripts/internal/issue"

	"github.com/spf13/cobra"
)

// newConfigCommand creates the `lmi config` command tree.
// Subcommands that read configuration use the App's ConfigProvider.
func newConfigCommand(app *App, flags *rootFlags) *cobra.Command {
	cfgCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage lmi configuration",
		Long: `Manage lmi configuration.

Configuration is stored in:
  - Linux: ~/.config/lmi/config.cue
  - macOS: ~/Library/Application Support/lmi/config.cue
  - Windows: %APPDATA%\lmi\config.cue

Every key can be overridden from the environment with the LMI_ prefix,
for example LMI_NAMESPACE or LMI_FORMAT_LISTER.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show current configuration",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := showConfig(cmd.Context(), app, flags); err != nil {
				return app.report(cmd, err, flags.verbose)
			}
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Create default configuration file",
		RunE: func(cmd *cobra.Command, args []string) error {
			path, err := config.CreateDefaultConfig()
			if err != nil {
				return app.report(cmd, fmt.Errorf("failed to create config: %w", err), flags.verbose)
			}
			fmt.Fprintf(app.stdout, "%s Configuration at %s\n", SuccessStyle.Render("✓"), CmdStyle.Render(path))
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Show configuration file path",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfgDir, err := config.ConfigDir()
			if err != nil {
				return app.report(cmd, err, flags.verbose)
			}
			cfgPath, err := config.ConfigFilePath()
			if err != nil {
				return app.report(cmd, err, flags.verbose)
			}
			fmt.Fprintf(app.stdout, "Config directory: %s\n", cfgDir)
			fmt.Fprintf(app.stdout, "Config file: %s\n", cfgPath)
			return nil
		},
	})

	cfgCmd.AddCommand(&cobra.Command{
		Use:   "dump",
		Short: "Output effective configuration as CUE",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := app.loadConfig(cmd.Context(), flags)
			if err != nil {
				return app.report(cmd, err, flags.verbose)
			}
			fmt.Fprint(app.stdout, config.GenerateCUE(cfg))
			return nil
		},
	})

	return cfgCmd
}

func showConfig(ctx context.Context, app *App, flags *rootFlags) error {
	cfg, err := app.loadConfig(ctx, flags)
	if err != nil {
		if rendered, renderErr := issue.Get(issue.ConfigLoadFailedId).Render(markdownStyle); renderErr == nil {
			fmt.Fprint(app.stderr, rendered)
		}
		return err
	}

	w := app.stdout
	keyStyle := CmdStyle
	valueStyle := SuccessStyle
	value := func(v any) string {
		s := fmt.Sprint(v)
		if s == "" {
			return SubtitleStyle.Render("(none)")
		}
		return valueStyle.Render(s)
	}

	fmt.Fprintln(w, TitleStyle.Render("Current Configuration"))
	fmt.Fprintln(w)

	if cfg.Source != "" {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), cfg.Source)
	} else {
		fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("Config file"), SubtitleStyle.Render("(using defaults)"))
	}
	fmt.Fprintln(w)

	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("namespace"), value(cfg.Namespace))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("system_class_name"), value(cfg.SystemClassName))
	fmt.Fprintf(w, "%s: %s\n", keyStyle.Render("debug"), value(cfg.Debug))

	section(w, keyStyle.Render("connection"))
	fmt.Fprintf(w, "  uri: %s\n", value(cfg.Connection.URI))
	fmt.Fprintf(w, "  snapshot: %s\n", value(cfg.Connection.Snapshot))

	section(w, keyStyle.Render("log"))
	fmt.Fprintf(w, "  level: %s\n", value(cfg.Log.Level))

	section(w, keyStyle.Render("format"))
	fmt.Fprintf(w, "  lister: %s\n", value(cfg.Format.Lister))
	fmt.Fprintf(w, "  human_friendly: %s\n", value(cfg.Format.HumanFriendly))
	fmt.Fprintf(w, "  no_headings: %s\n", value(cfg.Format.NoHeadings))

	return nil
}

func section(w io.Writer, title string) {
	fmt.Fprintln(w)
	fmt.Fprintf(w, "%s:\n", title)
}
