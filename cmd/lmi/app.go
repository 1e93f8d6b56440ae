// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"context"
	"io"
	"os"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"
	"github.com/SpongeTsui/openlmi-scripts/internal/format"
	"github.com/SpongeTsui/openlmi-scripts/internal/hardware"
	"github.com/SpongeTsui/openlmi-scripts/internal/issue"
	"github.com/SpongeTsui/openlmi-scripts/internal/logging"
	"github.com/SpongeTsui/openlmi-scripts/internal/snapshot"
	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
	"github.com/SpongeTsui/openlmi-scripts/pkg/command"

	"github.com/charmbracelet/log"
)

type (
	// App wires the CLI to its services. Commands receive it instead of
	// reaching for package globals, so tests can swap any dependency.
	App struct {
		Config    ConfigProvider
		Connector Connector

		stdin  io.Reader
		stdout io.Writer
		stderr io.Writer
	}

	// Dependencies are the injectable services of an App. Nil fields get
	// production defaults.
	Dependencies struct {
		Config    ConfigProvider
		Connector Connector
		Stdin     io.Reader
		Stdout    io.Writer
		Stderr    io.Writer
	}

	// ConfigProvider loads configuration.
	ConfigProvider interface {
		Load(ctx context.Context, opts config.LoadOptions) (*config.Config, error)
	}

	// Connector opens the connection commands run against.
	Connector interface {
		Connect(ctx context.Context, cfg *config.Config) (cim.Connection, error)
	}

	// snapshotConnector serves connections from inventory snapshots.
	snapshotConnector struct{}

	// rootFlags holds the persistent flags of one root command.
	rootFlags struct {
		configPath    string
		verbose       bool
		debug         bool
		snapshot      string
		format        string
		noHeadings    bool
		humanFriendly bool
	}

	// session is the state shared by every invocation of one process, or of
	// one interactive shell.
	session struct {
		cfg    *config.Config
		logger *log.Logger
		tree   *command.Descriptor
		conn   cim.Connection
	}

	sessionContextKey struct{}
)

// NewApp creates an App with defaults for omitted dependencies.
func NewApp(deps Dependencies) *App {
	if deps.Stdin == nil {
		deps.Stdin = os.Stdin
	}
	if deps.Stdout == nil {
		deps.Stdout = os.Stdout
	}
	if deps.Stderr == nil {
		deps.Stderr = os.Stderr
	}
	if deps.Config == nil {
		deps.Config = config.NewProvider()
	}
	if deps.Connector == nil {
		deps.Connector = snapshotConnector{}
	}

	return &App{
		Config:    deps.Config,
		Connector: deps.Connector,
		stdin:     deps.Stdin,
		stdout:    deps.Stdout,
		stderr:    deps.Stderr,
	}
}

// Connect loads the snapshot named by the configuration. Without one there
// is nothing to talk to: the management wire protocol is not implemented.
func (snapshotConnector) Connect(ctx context.Context, cfg *config.Config) (cim.Connection, error) {
	if cfg.Connection.Snapshot == "" {
		return nil, issue.NewErrorContext().
			WithOperation("connect").
			WithResource(cfg.Connection.URI).
			WithIssue(issue.NoConnectionId).
			WithSuggestions(
				"Pass an inventory snapshot: lmi --snapshot host.yaml <command>",
				"Set connection.snapshot in "+config.ConfigFileName+"."+config.ConfigFileExt,
			).
			Wrap(hardware.ErrNoConnection).
			BuildError()
	}
	broker, err := snapshot.Load(ctx, cfg.Connection.Snapshot)
	if err != nil {
		return nil, err
	}
	return broker, nil
}

// loadConfig loads the configuration and applies the flags that override it.
func (a *App) loadConfig(ctx context.Context, flags *rootFlags) (*config.Config, error) {
	cfg, err := a.Config.Load(ctx, config.LoadOptions{ConfigFilePath: flags.configPath})
	if err != nil {
		return nil, err
	}
	if flags.snapshot != "" {
		cfg.Connection.Snapshot = flags.snapshot
	}
	if flags.debug {
		cfg.Debug = true
	}
	return cfg, nil
}

// openSession loads the configuration, builds the command tree against it
// and connects.
func (a *App) openSession(ctx context.Context, flags *rootFlags) (*session, error) {
	cfg, err := a.loadConfig(ctx, flags)
	if err != nil {
		return nil, err
	}

	logger, err := logging.New(logging.Options{
		Level:   cfg.Log.Level.String(),
		Verbose: flags.verbose,
		Debug:   cfg.Debug,
		Output:  a.stderr,
		Prefix:  config.AppName,
	})
	if err != nil {
		return nil, err
	}

	tree, err := buildTree(cfg, logger)
	if err != nil {
		return nil, definitionError(err)
	}

	conn, err := a.Connector.Connect(ctx, cfg)
	if err != nil {
		return nil, err
	}
	logger.Debug("session opened", "uri", conn.URI(), "namespace", cfg.Namespace, "config", cfg.Source)

	return &session{
		cfg:    cfg,
		logger: logger,
		tree:   tree,
		conn:   conn,
	}, nil
}

// sessionFor returns the session stored in ctx by the interactive shell, or
// opens a new one.
func (a *App) sessionFor(ctx context.Context, flags *rootFlags) (*session, error) {
	if s := sessionFromContext(ctx); s != nil {
		return s, nil
	}
	return a.openSession(ctx, flags)
}

func contextWithSession(ctx context.Context, s *session) context.Context {
	return context.WithValue(ctx, sessionContextKey{}, s)
}

func sessionFromContext(ctx context.Context) *session {
	if s, ok := ctx.Value(sessionContextKey{}).(*session); ok {
		return s
	}
	return nil
}

// formatOptions returns the output options of cfg with the flag overrides
// of one invocation applied.
func (f *rootFlags) formatOptions(cfg *config.Config) (format.Options, error) {
	opts := format.OptionsFromConfig(cfg)
	if f.format != "" {
		lister := config.ListerFormat(f.format)
		if valid, errs := lister.IsValid(); !valid {
			return opts, errs[0]
		}
		opts.Format = lister
	}
	if f.noHeadings {
		opts.NoHeadings = true
	}
	if f.humanFriendly {
		opts.HumanFriendly = true
	}
	return opts, nil
}
