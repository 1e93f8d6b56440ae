// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/SpongeTsui/openlmi-scripts/internal/format"
	"github.com/SpongeTsui/openlmi-scripts/internal/issue"
	"github.com/SpongeTsui/openlmi-scripts/internal/logging"
	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
	"github.com/SpongeTsui/openlmi-scripts/pkg/command"

	"github.com/spf13/cobra"
)

// ErrCommandNotFound is returned when a command path does not resolve to an
// end point.
var ErrCommandNotFound = errors.New("command not found")

// runCommand runs the end point at path with the positional args and
// keyword options of one cobra invocation.
func (a *App) runCommand(cmd *cobra.Command, flags *rootFlags, path, args []string, keyword map[string]string) error {
	ctx := cmd.Context()
	s, err := a.sessionFor(ctx, flags)
	if err != nil {
		return a.report(cmd, err, flags.verbose)
	}

	callArgs := command.Args{Positional: args, Keyword: make(map[string]any, len(keyword))}
	for k, v := range keyword {
		callArgs.Keyword[k] = v
	}

	if err := a.dispatch(ctx, s, flags, path, callArgs); err != nil {
		return a.report(cmd, err, flags.verbose)
	}
	return nil
}

// dispatch executes the descriptor at path and prints its result the way
// its kind asks for.
func (a *App) dispatch(ctx context.Context, s *session, flags *rootFlags, path []string, args command.Args) error {
	d, rest := s.tree.Lookup(path)
	if len(rest) > 0 || !d.IsEndPoint() {
		return commandNotFoundError(path)
	}

	opts, err := flags.formatOptions(s.cfg)
	if err != nil {
		return err
	}

	ctx, _ = logging.WithInvocation(ctx, s.logger, strings.Join(path, " "))
	logger := logging.FromContext(ctx)
	logger.Debug("executing command", "descriptor", d.QualifiedName(), "kind", d.Kind(), "namespace", d.Namespace())

	result, err := d.Execute(ctx, s.conn, args)
	if err != nil {
		return executionError(err, path)
	}

	switch {
	case d.CanCheck():
		return a.check(ctx, d, path, args, result, flags.verbose)
	case d.Kind().Has(command.KindLister):
		rows, err := listerRows(result)
		if err != nil {
			return err
		}
		return format.Rows(a.stdout, opts, d.Columns(), rows)
	case d.CanRender():
		names, values, err := d.Render(ctx, result)
		if err != nil {
			return err
		}
		return format.Record(a.stdout, opts, names, values)
	default:
		return printResult(a.stdout, opts, result)
	}
}

// check judges result. A failed check prints a single line, followed by the
// issue page in verbose mode, and exits 1.
func (a *App) check(ctx context.Context, d *command.Descriptor, path []string, args command.Args, result any, verbose bool) error {
	passed, err := d.CheckResult(args.Options(), result)
	if err != nil {
		return err
	}
	logger := logging.FromContext(ctx)
	if passed {
		logger.Info("check passed", "command", d.QualifiedName())
		return nil
	}

	got := format.Value(returnValue(result), false)
	msg := fmt.Sprintf("%s: unexpected result %q", strings.Join(path, " "), got)
	if want, ok := d.Expected(); ok {
		msg += fmt.Sprintf(", expected %q", format.Value(want, false))
	}
	logger.Info("check failed", "command", d.QualifiedName(), "result", got)
	fmt.Fprintln(a.stderr, ErrorStyle.Render("✗")+" "+msg)
	if verbose {
		if rendered, err := issue.Get(issue.CheckFailedId).Render(markdownStyle); err == nil {
			fmt.Fprint(a.stderr, rendered)
		}
	}
	return &ExitError{Code: ExitFailure}
}

// report prints err and turns it into an ExitError. Errors already reported
// (an ExitError without a cause) pass through silently.
func (a *App) report(cmd *cobra.Command, err error, verbose bool) error {
	cmd.SilenceUsage = true
	cmd.SilenceErrors = true

	var exitErr *ExitError
	if errors.As(err, &exitErr) && exitErr.Err == nil {
		return err
	}

	fmt.Fprintln(a.stderr, ErrorStyle.Render("Error: ")+formatErrorForDisplay(err, verbose))
	code := ExitFailure
	if errors.Is(err, ErrCommandNotFound) {
		code = ExitUsage
	}
	return &ExitError{Code: code, Err: err}
}

// listerRows accepts the row shapes lister functions return.
func listerRows(result any) ([][]any, error) {
	switch r := result.(type) {
	case nil:
		return nil, nil
	case [][]any:
		return r, nil
	case []command.Row:
		rows := make([][]any, len(r))
		for i, row := range r {
			rows[i] = row
		}
		return rows, nil
	default:
		return nil, fmt.Errorf("%w: lister returned %T, rows expected", command.ErrUnexpectedResult, result)
	}
}

// printResult prints the result of a plain end point, one line per item.
func printResult(w io.Writer, opts format.Options, result any) error {
	switch r := result.(type) {
	case nil:
		return nil
	case []string:
		for _, line := range r {
			if _, err := fmt.Fprintln(w, line); err != nil {
				return err
			}
		}
		return nil
	default:
		_, err := fmt.Fprintln(w, format.Value(returnValue(result), opts.HumanFriendly))
		return err
	}
}

// returnValue unwraps method replies to their return value.
func returnValue(result any) any {
	switch r := result.(type) {
	case cim.ReturnValue:
		return r.RVal
	case *cim.ReturnValue:
		if r != nil {
			return r.RVal
		}
	}
	return result
}

func commandNotFoundError(path []string) error {
	return issue.NewErrorContext().
		WithOperation("find command").
		WithResource(strings.Join(path, " ")).
		WithIssue(issue.CommandNotFoundId).
		WithSuggestions(
			"Run 'lmi --help' to list the available commands",
			"Run 'lmi doc <command>' to read about a command group",
		).
		Wrap(ErrCommandNotFound).
		BuildError()
}

func definitionError(err error) error {
	return issue.NewErrorContext().
		WithOperation("register commands").
		WithIssue(issue.CommandDefinitionInvalidId).
		WithSuggestion("Fix the command declaration named in the error").
		Wrap(err).
		BuildError()
}

// executionError attaches the issue page matching a failed execution.
func executionError(err error, path []string) error {
	ec := issue.NewErrorContext().
		WithOperation("run command").
		WithResource("lmi " + strings.Join(path, " ")).
		Wrap(err)

	switch {
	case errors.Is(err, cim.ErrNamespaceNotFound):
		ec.WithIssue(issue.NamespaceNotFoundId).
			WithSuggestion("Check the namespace option in the configuration and the namespaces of the snapshot")
	case errors.Is(err, cim.ErrClassNotFound):
		ec.WithIssue(issue.ClassNotFoundId).
			WithSuggestion("Check the class name; snapshots only hold the classes they were recorded with")
	case errors.Is(err, cim.ErrNoInstance):
		ec.WithSuggestion("The managed system has no instance of the class the command reads")
	}
	return ec.BuildError()
}
