// SPDX-License-Identifier: MPL-2.0

package logging

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
)

// InvocationKey is the log key carrying the id of a dispatched command.
const InvocationKey = "invocation"

// ErrInvalidLevel is returned when a level name is not recognized.
var ErrInvalidLevel = errors.New("invalid log level")

// Options configures New.
type Options struct {
	// Level is a level name such as "warn". Empty means "warn".
	Level string
	// Verbose lowers the level to info.
	Verbose bool
	// Debug lowers the level to debug.
	Debug bool
	// Output defaults to os.Stderr.
	Output io.Writer
	// Prefix is printed in front of every message.
	Prefix string
	// ReportTimestamp adds a timestamp to every message.
	ReportTimestamp bool
}

// New creates a logger from opts. The flags only ever lower the configured
// level: --verbose on a "debug" config keeps debug output.
func New(opts Options) (*log.Logger, error) {
	level, err := ResolveLevel(opts.Level, opts.Verbose, opts.Debug)
	if err != nil {
		return nil, err
	}

	out := opts.Output
	if out == nil {
		out = os.Stderr
	}

	return log.NewWithOptions(out, log.Options{
		Level:           level,
		Prefix:          opts.Prefix,
		ReportTimestamp: opts.ReportTimestamp,
		ReportCaller:    level <= log.DebugLevel,
	}), nil
}

// ResolveLevel parses name and applies the verbose and debug overrides.
func ResolveLevel(name string, verbose, debug bool) (log.Level, error) {
	level := log.WarnLevel
	if name != "" {
		parsed, err := log.ParseLevel(name)
		if err != nil {
			return 0, fmt.Errorf("%w: %q", ErrInvalidLevel, name)
		}
		level = parsed
	}

	switch {
	case debug:
		level = min(level, log.DebugLevel)
	case verbose:
		level = min(level, log.InfoLevel)
	}
	return level, nil
}

// WithInvocation derives a logger tagged with a fresh invocation id and
// stores it in ctx. It returns the new context and the id.
func WithInvocation(ctx context.Context, logger *log.Logger, command string) (context.Context, string) {
	id := uuid.NewString()
	l := logger.With(InvocationKey, id, "command", command)
	return log.WithContext(ctx, l), id
}

// FromContext returns the logger stored in ctx, or the default logger.
func FromContext(ctx context.Context) *log.Logger {
	return log.FromContext(ctx)
}
