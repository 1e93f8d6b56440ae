// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"path/filepath"
	"strings"
	"testing"

	"github.com/SpongeTsui/openlmi-scripts/internal/config"
)

func TestConfigCommand_Show(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t, "", func(cfg *config.Config) {
		cfg.Namespace = "root/interop"
		cfg.Source = "/etc/lmi/config.cue"
	})
	if err := cli.run(t, "config", "show", "--snapshot", "/srv/host.yaml"); err != nil {
		t.Fatalf("config show returned error: %v", err)
	}

	out := cli.stdout.String()
	for _, want := range []string{
		"Current Configuration",
		"Config file: /etc/lmi/config.cue",
		"namespace: root/interop",
		"snapshot: /srv/host.yaml",
		"lister: table",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("config show output misses %q:\n%s", want, out)
		}
	}
}

func TestConfigCommand_Dump(t *testing.T) {
	t.Parallel()

	cli := newTestCLI(t, "", func(cfg *config.Config) {
		cfg.Format.Lister = config.ListerYAML
	})
	if err := cli.run(t, "config", "dump"); err != nil {
		t.Fatalf("config dump returned error: %v", err)
	}
	want := config.DefaultConfig()
	want.Format.Lister = config.ListerYAML
	if got := cli.stdout.String(); got != config.GenerateCUE(want) {
		t.Errorf("config dump mismatch:\n got %s\nwant %s", got, config.GenerateCUE(want))
	}
}

func TestConfigCommand_PathAndInit(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "lmi")
	config.SetConfigDirOverride(dir)
	defer config.Reset()

	cli := newTestCLI(t, "", nil)
	if err := cli.run(t, "config", "path"); err != nil {
		t.Fatalf("config path returned error: %v", err)
	}
	if !strings.Contains(cli.stdout.String(), "Config file: "+filepath.Join(dir, "config.cue")) {
		t.Errorf("config path output: %q", cli.stdout.String())
	}

	cli.stdout.Reset()
	if err := cli.run(t, "config", "init"); err != nil {
		t.Fatalf("config init returned error: %v", err)
	}
	if !strings.Contains(cli.stdout.String(), filepath.Join(dir, "config.cue")) {
		t.Errorf("config init output: %q", cli.stdout.String())
	}
}
