// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"testing"
)

func TestConfig_IsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr error
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "nested namespace", mutate: func(c *Config) { c.Namespace = "root/virt/ovirt" }},
		{name: "empty namespace", mutate: func(c *Config) { c.Namespace = "" }, wantErr: ErrInvalidNamespace},
		{name: "trailing slash", mutate: func(c *Config) { c.Namespace = "root/" }, wantErr: ErrInvalidNamespace},
		{name: "class with dash", mutate: func(c *Config) { c.SystemClassName = "PG-System" }, wantErr: ErrInvalidClassName},
		{name: "unknown level", mutate: func(c *Config) { c.Log.Level = "trace" }, wantErr: ErrInvalidLogLevel},
		{name: "unknown lister", mutate: func(c *Config) { c.Format.Lister = "xml" }, wantErr: ErrInvalidListerFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			cfg := DefaultConfig()
			tt.mutate(cfg)

			valid, errs := cfg.IsValid()
			if tt.wantErr == nil {
				if !valid {
					t.Fatalf("expected valid config, got %v", errs)
				}
				return
			}
			if valid || len(errs) != 1 {
				t.Fatalf("expected a single error, got valid=%v errs=%v", valid, errs)
			}
			if !errors.Is(errs[0], tt.wantErr) {
				t.Errorf("expected %v, got %v", tt.wantErr, errs[0])
			}
			if !errors.Is(errs[0], ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", errs[0])
			}
		})
	}
}

func TestInvalidValueError(t *testing.T) {
	t.Parallel()

	_, errs := LogLevel("loud").IsValid()
	var ive *InvalidValueError
	if !errors.As(errs[0], &ive) {
		t.Fatalf("expected *InvalidValueError, got %T", errs[0])
	}
	if ive.Key != "log.level" || ive.Value != "loud" {
		t.Errorf("unexpected fields: %+v", ive)
	}
	if got, want := ive.Error(), `log.level: invalid log level "loud"`; got != want {
		t.Errorf("Error() = %q, want %q", got, want)
	}
}

func TestListerFormats(t *testing.T) {
	t.Parallel()

	for _, f := range ListerFormats() {
		if valid, errs := f.IsValid(); !valid {
			t.Errorf("%s should be valid: %v", f, errs)
		}
	}
}
