// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"bytes"
	"context"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"
	"github.com/SpongeTsui/openlmi-scripts/internal/testutil"
	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
)

type (
	// staticConfig hands out copies of cfg, or err.
	staticConfig struct {
		cfg *config.Config
		err error
	}

	// countingConnector serves the hardware fixture and counts connections.
	countingConnector struct {
		conn  cim.Connection
		calls atomic.Int32
	}

	testCLI struct {
		app       *App
		stdout    *bytes.Buffer
		stderr    *bytes.Buffer
		connector *countingConnector
	}
)

func (p staticConfig) Load(_ context.Context, _ config.LoadOptions) (*config.Config, error) {
	if p.err != nil {
		return nil, p.err
	}
	cfg := *p.cfg
	return &cfg, nil
}

func (c *countingConnector) Connect(context.Context, *config.Config) (cim.Connection, error) {
	c.calls.Add(1)
	return c.conn, nil
}

// newTestCLI returns an App running against the hardware fixture with the
// default configuration changed by mutate.
func newTestCLI(t *testing.T, stdin string, mutate func(*config.Config)) *testCLI {
	t.Helper()

	cfg := config.DefaultConfig()
	if mutate != nil {
		mutate(cfg)
	}
	cli := &testCLI{
		stdout:    &bytes.Buffer{},
		stderr:    &bytes.Buffer{},
		connector: &countingConnector{conn: testutil.NewHardwareBroker()},
	}
	cli.app = NewApp(Dependencies{
		Config:    staticConfig{cfg: cfg},
		Connector: cli.connector,
		Stdin:     strings.NewReader(stdin),
		Stdout:    cli.stdout,
		Stderr:    cli.stderr,
	})
	return cli
}

func (c *testCLI) run(t *testing.T, args ...string) error {
	t.Helper()

	root, err := NewRootCommand(c.app)
	if err != nil {
		t.Fatalf("NewRootCommand() returned error: %v", err)
	}
	root.SetArgs(args)
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)
	return root.ExecuteContext(context.Background())
}
