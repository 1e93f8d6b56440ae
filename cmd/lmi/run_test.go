// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"errors"
	"strings"
	"testing"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"
	"github.com/SpongeTsui/openlmi-scripts/internal/format"
	"github.com/SpongeTsui/openlmi-scripts/internal/hardware"
	"github.com/SpongeTsui/openlmi-scripts/internal/issue"
	"github.com/SpongeTsui/openlmi-scripts/internal/testutil"
	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
	"github.com/SpongeTsui/openlmi-scripts/pkg/command"
)

func TestRun_Output(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		args []string
		want string
	}{
		{
			name: "lister",
			args: []string{"-f", "csv", "hwinfo", "system"},
			want: "Property,Value\nHostname:,server.example.com\n",
		},
		{
			name: "lister without headings",
			args: []string{"hwinfo", "system", "--format", "csv", "--no-headings"},
			want: "Hostname:,server.example.com\n",
		},
		{
			name: "lister in another namespace",
			args: []string{"-f", "csv", "-N", "system", "profiles"},
			want: "Base Server,1.0.0\nPhysical Asset,1.0.2\n",
		},
		{
			name: "show instance with fixed properties",
			args: []string{"-f", "csv", "system", "show"},
			want: "Property,Value\nName,server.example.com\nClass,PG_ComputerSystem\nPrimaryOwnerName,root\nDescription,\n",
		},
		{
			name: "show instance with dynamic properties",
			args: []string{"-f", "csv", "hwinfo", "instance", "LMI_Chassis", "Manufacturer", "SerialNumber", "Color"},
			want: "Property,Value\nManufacturer,HP\nSerialNumber," + testutil.FixtureChassisSN + "\nColor,UNKNOWN\n",
		},
		{
			name: "plain end point",
			args: []string{"system", "uri"},
			want: testutil.FixtureHost + "\n",
		},
		{
			name: "passing check prints nothing",
			args: []string{"hwinfo", "is-main-chassis"},
			want: "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cli := newTestCLI(t, "", nil)
			if err := cli.run(t, tt.args...); err != nil {
				t.Fatalf("run(%v) returned error: %v\nstderr: %s", tt.args, err, cli.stderr)
			}
			if got := cli.stdout.String(); got != tt.want {
				t.Errorf("output mismatch:\n got %q\nwant %q", got, tt.want)
			}
		})
	}
}

func TestRun_FormatFromConfig(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t, "", func(cfg *config.Config) {
		cfg.Format.Lister = config.ListerList
	})
	if err := cli.run(t, "hwinfo", "system"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if got, want := cli.stdout.String(), "Property: Hostname:\nValue:    server.example.com\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}

	// The flag wins over the configuration.
	cli.stdout.Reset()
	if err := cli.run(t, "-f", "yaml", "hwinfo", "system"); err != nil {
		t.Fatalf("run returned error: %v", err)
	}
	if !strings.Contains(cli.stdout.String(), "Value: server.example.com") {
		t.Errorf("expected yaml output, got %q", cli.stdout.String())
	}
}

func TestRun_Check(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		args   []string
		passes bool
	}{
		{"host name set", []string{"system", "check"}, true},
		{"host name matches", []string{"system", "check", "SERVER.example.com"}, true},
		{"host name differs", []string{"system", "check", "other.example.com"}, false},
		{"main chassis", []string{"hwinfo", "is-main-chassis"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cli := newTestCLI(t, "", nil)
			err := cli.run(t, tt.args...)
			if tt.passes {
				if err != nil {
					t.Fatalf("check should pass, got %v\nstderr: %s", err, cli.stderr)
				}
				return
			}

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected *ExitError, got %T: %v", err, err)
			}
			if exitErr.Code != ExitFailure || exitErr.Err != nil {
				t.Errorf("expected a bare exit status 1, got %+v", exitErr)
			}
			if !strings.Contains(cli.stderr.String(), `unexpected result "server.example.com"`) {
				t.Errorf("stderr = %q", cli.stderr.String())
			}
		})
	}
}

func TestRun_CheckFailureShowsExpectation(t *testing.T) {
	t.Parallel()

	broker := cim.NewBroker("desk.example.com")
	broker.AddInstance(cim.DefaultNamespace, hardware.ChassisClass,
		cim.Property{Name: "ChassisPackageType", Value: int64(3)},
	)
	cli := newTestCLI(t, "", nil)
	cli.connector.conn = broker

	err := cli.run(t, "hwinfo", "is-main-chassis")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitFailure {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	want := `hwinfo is-main-chassis: unexpected result "3", expected "17"`
	if !strings.Contains(cli.stderr.String(), want) {
		t.Errorf("stderr = %q, want it to contain %q", cli.stderr.String(), want)
	}
}

func TestRun_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		args    []string
		mutate  func(*config.Config)
		code    int
		wantErr error
		issueID issue.Id
	}{
		{
			name:    "unknown sub command",
			args:    []string{"hwinfo", "gpu"},
			code:    ExitUsage,
			wantErr: ErrCommandNotFound,
			issueID: issue.CommandNotFoundId,
		},
		{
			name:    "unknown format",
			args:    []string{"-f", "xml", "hwinfo", "cpu"},
			code:    ExitFailure,
			wantErr: config.ErrInvalidListerFormat,
		},
		{
			name:    "missing namespace",
			args:    []string{"hwinfo", "cpu"},
			mutate:  func(c *config.Config) { c.Namespace = "root/missing" },
			code:    ExitFailure,
			wantErr: cim.ErrNamespaceNotFound,
			issueID: issue.NamespaceNotFoundId,
		},
		{
			name:    "missing class",
			args:    []string{"hwinfo", "instance", "LMI_Fan"},
			code:    ExitFailure,
			wantErr: cim.ErrClassNotFound,
			issueID: issue.ClassNotFoundId,
		},
		{
			name:    "missing argument",
			args:    []string{"hwinfo", "instance"},
			code:    ExitFailure,
			wantErr: hardware.ErrMissingClass,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cli := newTestCLI(t, "", tt.mutate)
			err := cli.run(t, tt.args...)

			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("expected *ExitError, got %T: %v", err, err)
			}
			if exitErr.Code != tt.code {
				t.Errorf("Code = %d, want %d", exitErr.Code, tt.code)
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, err)
			}
			if tt.issueID != 0 {
				var ae *issue.ActionableError
				if !errors.As(err, &ae) || ae.Issue != tt.issueID {
					t.Errorf("expected issue %d, got %v", tt.issueID, err)
				}
			}
			if !strings.HasPrefix(cli.stderr.String(), "Error: ") {
				t.Errorf("error not reported on stderr: %q", cli.stderr.String())
			}
			if cli.stdout.Len() != 0 {
				t.Errorf("nothing should be printed on stdout, got %q", cli.stdout.String())
			}
		})
	}
}

func TestRun_ConfigError(t *testing.T) {
	t.Parallel()

	loadErr := issue.NewErrorContext().
		WithOperation("load configuration").
		WithIssue(issue.ConfigLoadFailedId).
		Wrap(config.ErrInvalidConfig).
		BuildError()

	var stderr strings.Builder
	app := NewApp(Dependencies{
		Config:    staticConfig{err: loadErr},
		Connector: &countingConnector{conn: testutil.NewHardwareBroker()},
		Stdout:    &strings.Builder{},
		Stderr:    &stderr,
	})
	root, err := NewRootCommand(app)
	if err != nil {
		t.Fatal(err)
	}
	root.SetArgs([]string{"hwinfo", "cpu"})
	root.SetErr(&stderr)
	err = root.Execute()
	if !errors.Is(err, config.ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
	if !strings.Contains(stderr.String(), "failed to load configuration") {
		t.Errorf("stderr = %q", stderr.String())
	}
}

func TestRun_NoConnection(t *testing.T) {
	t.Parallel()

	var stdout, stderr strings.Builder
	app := NewApp(Dependencies{
		Config: staticConfig{cfg: config.DefaultConfig()},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	root, err := NewRootCommand(app)
	if err != nil {
		t.Fatal(err)
	}
	root.SetArgs([]string{"hwinfo", "cpu"})
	root.SetErr(&stderr)
	err = root.Execute()

	if !errors.Is(err, hardware.ErrNoConnection) {
		t.Fatalf("expected ErrNoConnection, got %v", err)
	}
	var ae *issue.ActionableError
	if !errors.As(err, &ae) || ae.Issue != issue.NoConnectionId {
		t.Errorf("expected NoConnectionId issue, got %v", err)
	}
	if !strings.Contains(stderr.String(), "--snapshot") {
		t.Errorf("suggestion missing from %q", stderr.String())
	}
}

func TestRun_SnapshotFlag(t *testing.T) {
	t.Parallel()

	var stdout, stderr strings.Builder
	app := NewApp(Dependencies{
		Config: staticConfig{cfg: config.DefaultConfig()},
		Stdout: &stdout,
		Stderr: &stderr,
	})
	root, err := NewRootCommand(app)
	if err != nil {
		t.Fatal(err)
	}
	root.SetArgs([]string{"--snapshot", "../../internal/snapshot/testdata/host.yaml", "-f", "csv", "hwinfo", "system"})
	if err := root.Execute(); err != nil {
		t.Fatalf("Execute() returned error: %v\nstderr: %s", err, stderr.String())
	}
	if got, want := stdout.String(), "Property,Value\nHostname:,server.example.com\n"; got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}

func TestListerRows(t *testing.T) {
	t.Parallel()

	rows, err := listerRows([]command.Row{{"a", 1}, {"b", 2}})
	if err != nil {
		t.Fatalf("listerRows() returned error: %v", err)
	}
	if len(rows) != 2 || rows[1][0] != "b" {
		t.Errorf("unexpected rows: %v", rows)
	}

	if rows, err := listerRows(nil); err != nil || rows != nil {
		t.Errorf("nil result should give no rows, got %v, %v", rows, err)
	}

	if _, err := listerRows("text"); !errors.Is(err, command.ErrUnexpectedResult) {
		t.Errorf("expected ErrUnexpectedResult, got %v", err)
	}
}

func TestPrintResult(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		result any
		human  bool
		want   string
	}{
		{"nil", nil, false, ""},
		{"string", "local", false, "local\n"},
		{"lines", []string{"a", "b"}, false, "a\nb\n"},
		{"return value", cim.ReturnValue{RVal: int64(0)}, false, "0\n"},
		{"human bool", true, true, "yes\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var b strings.Builder
			if err := printResult(&b, format.Options{HumanFriendly: tt.human}, tt.result); err != nil {
				t.Fatalf("printResult() returned error: %v", err)
			}
			if b.String() != tt.want {
				t.Errorf("got %q, want %q", b.String(), tt.want)
			}
		})
	}
}

func TestRun_CheckFailureVerbose(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t, "", nil)
	err := cli.run(t, "-v", "system", "check", "other.example.com")
	var exitErr *ExitError
	if !errors.As(err, &exitErr) || exitErr.Code != ExitFailure {
		t.Fatalf("expected exit status 1, got %v", err)
	}
	if !strings.Contains(cli.stderr.String(), "Check failed") {
		t.Errorf("verbose failure should show the issue page:\n%s", cli.stderr.String())
	}
}
