// SPDX-License-Identifier: MPL-2.0

package config

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/SpongeTsui/openlmi-scripts/internal/issue"
	"github.com/SpongeTsui/openlmi-scripts/internal/testutil"
	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	if cfg.Namespace != cim.DefaultNamespace {
		t.Errorf("expected default namespace %q, got %q", cim.DefaultNamespace, cfg.Namespace)
	}
	if cfg.SystemClassName != cim.DefaultSystemClassName {
		t.Errorf("expected default system class %q, got %q", cim.DefaultSystemClassName, cfg.SystemClassName)
	}
	if cfg.Connection.URI != DefaultConnectionURI {
		t.Errorf("expected default connection uri %q, got %q", DefaultConnectionURI, cfg.Connection.URI)
	}
	if cfg.Connection.Snapshot != "" {
		t.Errorf("expected no default snapshot, got %q", cfg.Connection.Snapshot)
	}
	if cfg.Log.Level != LevelWarn {
		t.Errorf("expected default log level warn, got %s", cfg.Log.Level)
	}
	if cfg.Format.Lister != ListerTable {
		t.Errorf("expected default lister format table, got %s", cfg.Format.Lister)
	}
	if cfg.Format.HumanFriendly || cfg.Format.NoHeadings || cfg.Debug {
		t.Error("expected boolean options to be off by default")
	}
	if valid, errs := cfg.IsValid(); !valid {
		t.Errorf("default config should be valid, got %v", errs)
	}
}

func TestConfigDir(t *testing.T) {
	if runtime.GOOS != "linux" {
		t.Skip("XDG lookup is only used on linux")
	}

	testXDGPath := filepath.Join(t.TempDir(), "xdg")
	restoreXDG := testutil.MustSetenv(t, "XDG_CONFIG_HOME", testXDGPath)
	defer restoreXDG()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join(testXDGPath, AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}

	restoreUnset := testutil.MustUnsetenv(t, "XDG_CONFIG_HOME")
	defer restoreUnset()
	home := t.TempDir()
	defer testutil.SetHomeDir(t, home)()

	dir, err = ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if want := filepath.Join(home, ".config", AppName); dir != want {
		t.Errorf("ConfigDir() = %s, want %s", dir, want)
	}
}

func TestConfigDir_Override(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(tmpDir)
	defer Reset()

	dir, err := ConfigDir()
	if err != nil {
		t.Fatalf("ConfigDir() returned error: %v", err)
	}
	if dir != tmpDir {
		t.Errorf("ConfigDir() = %s, want %s", dir, tmpDir)
	}

	path, err := ConfigFilePath()
	if err != nil {
		t.Fatalf("ConfigFilePath() returned error: %v", err)
	}
	if want := filepath.Join(tmpDir, "config.cue"); path != want {
		t.Errorf("ConfigFilePath() = %s, want %s", path, want)
	}
}

func TestLoad_NoConfigFile(t *testing.T) {
	t.Parallel()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Source != "" {
		t.Errorf("expected no config source, got %q", cfg.Source)
	}
	if cfg.Namespace != cim.DefaultNamespace || cfg.Format.Lister != ListerTable {
		t.Errorf("expected defaults, got %+v", cfg)
	}
}

func TestLoad_FromConfigDir(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	path := testutil.MustWriteFile(t, dir, "config.cue", `
namespace: "root/interop"
log: level: "debug"
format: {
	lister:      "csv"
	no_headings: true
}
`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}

	if cfg.Source != path {
		t.Errorf("Source = %q, want %q", cfg.Source, path)
	}
	if cfg.Namespace != "root/interop" {
		t.Errorf("Namespace = %q, want root/interop", cfg.Namespace)
	}
	if cfg.Log.Level != LevelDebug {
		t.Errorf("Log.Level = %s, want debug", cfg.Log.Level)
	}
	if cfg.Format.Lister != ListerCSV || !cfg.Format.NoHeadings {
		t.Errorf("Format = %+v, want csv without headings", cfg.Format)
	}
	// Unset keys keep their defaults.
	if cfg.SystemClassName != cim.DefaultSystemClassName {
		t.Errorf("SystemClassName = %q, want default", cfg.SystemClassName)
	}
	if cfg.Connection.URI != DefaultConnectionURI {
		t.Errorf("Connection.URI = %q, want default", cfg.Connection.URI)
	}
}

func TestLoad_ExplicitFile(t *testing.T) {
	t.Parallel()

	path := testutil.MustWriteFile(t, t.TempDir(), "custom.cue", `connection: snapshot: "/srv/host.yaml"`)

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Connection.Snapshot != "/srv/host.yaml" {
		t.Errorf("Connection.Snapshot = %q, want /srv/host.yaml", cfg.Connection.Snapshot)
	}
}

func TestLoad_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		content string
		missing bool
	}{
		{name: "missing explicit file", missing: true},
		{name: "syntax error", content: "namespace: \"root/cimv2\"\nlog: {"},
		{name: "unknown lister format", content: `format: lister: "xml"`},
		{name: "invalid namespace", content: `namespace: "root//cimv2"`},
		{name: "unknown field", content: `colour: "red"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			path := filepath.Join(t.TempDir(), "config.cue")
			if !tt.missing {
				path = testutil.MustWriteFile(t, filepath.Dir(path), "config.cue", tt.content)
			}

			_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
			if err == nil {
				t.Fatal("Load() should fail")
			}

			var ae *issue.ActionableError
			if !errors.As(err, &ae) {
				t.Fatalf("expected *issue.ActionableError, got %T: %v", err, err)
			}
			if ae.Issue != issue.ConfigLoadFailedId {
				t.Errorf("Issue = %d, want %d", ae.Issue, issue.ConfigLoadFailedId)
			}
			if ae.Resource != path {
				t.Errorf("Resource = %q, want %q", ae.Resource, path)
			}
			if !ae.HasSuggestions() {
				t.Error("expected suggestions")
			}
		})
	}
}

func TestLoad_Canceled(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewProvider().Load(ctx, LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestLoad_EnvOverride(t *testing.T) {
	dir := t.TempDir()
	testutil.MustWriteFile(t, dir, "config.cue", `format: lister: "csv"`)

	defer testutil.MustSetenv(t, "LMI_FORMAT_LISTER", "yaml")()
	defer testutil.MustSetenv(t, "LMI_NAMESPACE", "root/virt")()

	cfg, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: dir})
	if err != nil {
		t.Fatalf("Load() returned error: %v", err)
	}
	if cfg.Format.Lister != ListerYAML {
		t.Errorf("Format.Lister = %s, want yaml from the environment", cfg.Format.Lister)
	}
	if cfg.Namespace != "root/virt" {
		t.Errorf("Namespace = %q, want root/virt from the environment", cfg.Namespace)
	}
}

func TestLoad_InvalidEnvOverride(t *testing.T) {
	defer testutil.MustSetenv(t, "LMI_LOG_LEVEL", "chatty")()

	_, err := NewProvider().Load(context.Background(), LoadOptions{ConfigDirPath: t.TempDir()})
	if !errors.Is(err, ErrInvalidLogLevel) {
		t.Fatalf("expected ErrInvalidLogLevel, got %v", err)
	}
	if !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}

func TestGenerateCUE_RoundTrip(t *testing.T) {
	t.Parallel()

	want := DefaultConfig()
	want.Namespace = "root/interop"
	want.Connection.Snapshot = "/srv/host.yaml"
	want.Log.Level = LevelInfo
	want.Format.Lister = ListerTOML
	want.Format.HumanFriendly = true
	want.Debug = true

	content := GenerateCUE(want)
	if !strings.HasPrefix(content, "// lmi configuration file") {
		t.Errorf("missing header:\n%s", content)
	}

	path := testutil.MustWriteFile(t, t.TempDir(), "config.cue", content)
	got, err := NewProvider().Load(context.Background(), LoadOptions{ConfigFilePath: path})
	if err != nil {
		t.Fatalf("generated config does not load: %v\n%s", err, content)
	}

	got.Source = ""
	if *got != *want {
		t.Errorf("round trip mismatch:\n got %+v\nwant %+v", got, want)
	}
}

func TestCreateDefaultConfig(t *testing.T) {
	tmpDir := t.TempDir()
	SetConfigDirOverride(filepath.Join(tmpDir, "lmi"))
	defer Reset()

	path, err := CreateDefaultConfig()
	if err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}
	if !fileExists(path) {
		t.Fatalf("expected %s to exist", path)
	}

	// An existing file is left alone.
	if err := os.WriteFile(path, []byte(`debug: true`), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := CreateDefaultConfig(); err != nil {
		t.Fatalf("CreateDefaultConfig() returned error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != `debug: true` {
		t.Errorf("existing config was overwritten: %q", data)
	}
}
