// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"

	"github.com/spf13/cobra"
	"golang.org/x/term"
	"mvdan.cc/sh/v3/shell"
)

// ErrNestedShell is returned when the shell is started from within itself.
var ErrNestedShell = errors.New("already in the interactive shell")

func newShellCommand(app *App, flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Start an interactive shell",
		Long: `Start an interactive shell.

Each line is split with shell quoting rules and run as an lmi command
against the same connection. Type "exit" or "quit", or send EOF, to leave.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runShell(cmd, flags)
		},
	}
}

// runShell reads commands from stdin until exit, quit or EOF. The session is
// opened once and shared by every line.
func (a *App) runShell(cmd *cobra.Command, flags *rootFlags) error {
	ctx := cmd.Context()
	if sessionFromContext(ctx) != nil {
		return a.report(cmd, ErrNestedShell, flags.verbose)
	}

	s, err := a.openSession(ctx, flags)
	if err != nil {
		return a.report(cmd, err, flags.verbose)
	}
	ctx = contextWithSession(ctx, s)

	interactive := isTerminal(a.stdin)
	prompt := promptStyle.Render(config.AppName + "> ")

	scanner := bufio.NewScanner(a.stdin)
	for {
		if interactive {
			fmt.Fprint(a.stdout, prompt)
		}
		if !scanner.Scan() {
			break
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		words, err := shell.Fields(line, os.Getenv)
		if err != nil {
			fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+err.Error())
			continue
		}
		if len(words) == 0 {
			continue
		}
		if words[0] == "exit" || words[0] == "quit" {
			return nil
		}

		// Failures are reported by the command itself; the shell goes on.
		if err := a.runLine(ctx, words); err != nil {
			s.logger.Debug("shell command failed", "line", line, "err", err)
		}
	}
	if interactive {
		fmt.Fprintln(a.stdout)
	}
	return scanner.Err()
}

// runLine runs one shell line through a fresh root command.
func (a *App) runLine(ctx context.Context, words []string) error {
	root, err := NewRootCommand(a)
	if err != nil {
		return err
	}
	root.SetArgs(words)
	root.SetIn(a.stdin)
	root.SetOut(a.stdout)
	root.SetErr(a.stderr)
	return root.ExecuteContext(ctx)
}

func isTerminal(r any) bool {
	f, ok := r.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
