// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"io"
	"slices"
	"strings"
	"sync"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"
	"github.com/SpongeTsui/openlmi-scripts/internal/hardware"
	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
	"github.com/SpongeTsui/openlmi-scripts/pkg/command"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
)

const (
	// RootModule is the module of the root multiplexer.
	RootModule = "lmi"

	rootDoc = `Manage systems through their management objects.

Usage:
    lmi [options] <command> [<args>...]
    lmi shell`
)

// structureTree is the command tree built against the default configuration.
// It only provides the shape of the cobra tree and the documentation; every
// invocation runs against a tree built from the loaded configuration.
var structureTree = sync.OnceValues(func() (*command.Descriptor, error) {
	return buildTree(config.DefaultConfig(), log.New(io.Discard))
})

// buildTree builds the root multiplexer with every command module below it.
func buildTree(cfg *config.Config, logger *log.Logger) (*command.Descriptor, error) {
	b := command.NewBuilder(
		command.WithLogger(logger),
		command.WithDefaultNamespace(cfg.Namespace),
	)

	systems := cim.NewSystemResolver(cfg.SystemClassName, logger)
	children, err := hardware.Commands(b, hardware.NewProvider(systems, logger))
	if err != nil {
		return nil, err
	}

	return b.Build(command.Declaration{
		Module:   RootModule,
		Name:     "Lmi",
		Kind:     command.KindMultiplexer,
		Doc:      rootDoc,
		Commands: children,
	})
}

// newDescriptorCommand turns the descriptor reached through path into a
// cobra command. Multiplexers become command groups; end points run the
// descriptor found at the same path of the session tree.
func newDescriptorCommand(app *App, flags *rootFlags, path []string, d *command.Descriptor) *cobra.Command {
	cmd := &cobra.Command{
		Use:   path[len(path)-1] + useSuffix(d),
		Short: summary(d.Doc()),
		Long:  d.Doc(),
		Args:  cobra.ArbitraryArgs,
	}

	if d.IsMultiplexer() {
		for _, child := range d.Children() {
			cmd.AddCommand(newDescriptorCommand(app, flags, append(slices.Clip(path), child.Name), child.Command))
		}
		cmd.RunE = func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				return app.report(cmd, commandNotFoundError(append(slices.Clip(path), args...)), flags.verbose)
			}
			return cmd.Help()
		}
		return cmd
	}

	var keyword map[string]string
	cmd.Flags().StringToStringVarP(&keyword, "option", "o", nil, "keyword argument passed to the command (key=value)")
	cmd.RunE = func(cmd *cobra.Command, args []string) error {
		return app.runCommand(cmd, flags, path, args, keyword)
	}
	return cmd
}

func useSuffix(d *command.Descriptor) string {
	switch {
	case d.IsMultiplexer():
		return " <command>"
	case d.Kind().Has(command.KindCheckResult), d.Kind().Has(command.KindShowInstance):
		return " [<args>...]"
	default:
		return ""
	}
}

// summary returns the first line of doc.
func summary(doc string) string {
	line, _, _ := strings.Cut(strings.TrimSpace(doc), "\n")
	return strings.TrimSuffix(line, ".")
}
