// SPDX-License-Identifier: MPL-2.0

package config

import (
	"errors"
	"fmt"
	"regexp"
	"strings"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"
)

const (
	// LevelDebug logs pipeline traces and full transform failure stacks.
	LevelDebug LogLevel = "debug"
	// LevelInfo logs informational messages.
	LevelInfo LogLevel = "info"
	// LevelWarn logs warnings such as missing properties (default).
	LevelWarn LogLevel = "warn"
	// LevelError logs errors only.
	LevelError LogLevel = "error"

	// ListerTable prints lister output as an aligned table.
	ListerTable ListerFormat = "table"
	// ListerList prints one "Column: value" block per row.
	ListerList ListerFormat = "list"
	// ListerCSV prints comma separated values.
	ListerCSV ListerFormat = "csv"
	// ListerYAML prints a YAML sequence of mappings.
	ListerYAML ListerFormat = "yaml"
	// ListerTOML prints a TOML array of tables.
	ListerTOML ListerFormat = "toml"

	// DefaultConnectionURI names the connection when none is configured.
	DefaultConnectionURI = "local"
)

var (
	// ErrInvalidLogLevel is returned when a LogLevel value is not recognized.
	ErrInvalidLogLevel = errors.New("invalid log level")
	// ErrInvalidListerFormat is returned when a ListerFormat value is not recognized.
	ErrInvalidListerFormat = errors.New("invalid lister format")
	// ErrInvalidNamespace is returned for malformed namespace names.
	ErrInvalidNamespace = errors.New("invalid namespace")
	// ErrInvalidClassName is returned for malformed class names.
	ErrInvalidClassName = errors.New("invalid class name")
	// ErrInvalidConfig is the sentinel error wrapped by InvalidConfigError.
	ErrInvalidConfig = errors.New("invalid config")

	namespacePattern = regexp.MustCompile(`^[A-Za-z0-9_]+(/[A-Za-z0-9_]+)*$`)
	classPattern     = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)
)

type (
	// LogLevel is the minimum level of log messages.
	LogLevel string

	// ListerFormat selects how lister and show-instance output is printed.
	ListerFormat string

	// InvalidValueError is returned when a configuration value is not
	// recognized. It wraps the sentinel of the offending field.
	InvalidValueError struct {
		Key   string
		Value string
		Err   error
	}

	// InvalidConfigError collects field-level validation errors.
	InvalidConfigError struct {
		FieldErrors []error
	}

	// Config holds the application configuration.
	Config struct {
		// Namespace is the default namespace of session commands.
		Namespace string `json:"namespace" mapstructure:"namespace"`
		// SystemClassName is the preferred computer system class.
		SystemClassName string `json:"system_class_name" mapstructure:"system_class_name"`
		// Connection selects the managed system.
		Connection ConnectionConfig `json:"connection" mapstructure:"connection"`
		// Log configures logging.
		Log LogConfig `json:"log" mapstructure:"log"`
		// Format configures command output.
		Format FormatConfig `json:"format" mapstructure:"format"`
		// Debug enables debug mode: debug logging and full error chains.
		Debug bool `json:"debug" mapstructure:"debug"`

		// Source is the file the configuration was loaded from, or "".
		Source string `json:"-" mapstructure:"-"`
	}

	// ConnectionConfig selects the managed system.
	ConnectionConfig struct {
		// URI identifies the managed system.
		URI string `json:"uri" mapstructure:"uri"`
		// Snapshot is an inventory snapshot (CUE or YAML) serving as the managed system.
		Snapshot string `json:"snapshot" mapstructure:"snapshot"`
	}

	// LogConfig configures logging.
	LogConfig struct {
		Level LogLevel `json:"level" mapstructure:"level"`
	}

	// FormatConfig configures command output.
	FormatConfig struct {
		// Lister is the output format of lister and show-instance commands.
		Lister ListerFormat `json:"lister" mapstructure:"lister"`
		// HumanFriendly prints values in a human readable form where possible.
		HumanFriendly bool `json:"human_friendly" mapstructure:"human_friendly"`
		// NoHeadings suppresses column headers.
		NoHeadings bool `json:"no_headings" mapstructure:"no_headings"`
	}
)

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Namespace:       cim.DefaultNamespace,
		SystemClassName: cim.DefaultSystemClassName,
		Connection: ConnectionConfig{
			URI: DefaultConnectionURI,
		},
		Log: LogConfig{
			Level: LevelWarn,
		},
		Format: FormatConfig{
			Lister: ListerTable,
		},
	}
}

// IsValid returns whether the Config has valid fields, and the field errors if not.
func (c Config) IsValid() (bool, []error) {
	var errs []error
	if !namespacePattern.MatchString(c.Namespace) {
		errs = append(errs, &InvalidValueError{Key: "namespace", Value: c.Namespace, Err: ErrInvalidNamespace})
	}
	if !classPattern.MatchString(c.SystemClassName) {
		errs = append(errs, &InvalidValueError{Key: "system_class_name", Value: c.SystemClassName, Err: ErrInvalidClassName})
	}
	if valid, fieldErrs := c.Log.Level.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if valid, fieldErrs := c.Format.Lister.IsValid(); !valid {
		errs = append(errs, fieldErrs...)
	}
	if len(errs) > 0 {
		return false, []error{&InvalidConfigError{FieldErrors: errs}}
	}
	return true, nil
}

// Error implements the error interface.
func (e *InvalidValueError) Error() string {
	return fmt.Sprintf("%s: %v %q", e.Key, e.Err, e.Value)
}

// Unwrap returns the field sentinel for errors.Is() compatibility.
func (e *InvalidValueError) Unwrap() error { return e.Err }

// Error implements the error interface.
func (e *InvalidConfigError) Error() string {
	msgs := make([]string, len(e.FieldErrors))
	for i, err := range e.FieldErrors {
		msgs[i] = err.Error()
	}
	return fmt.Sprintf("invalid config: %s", strings.Join(msgs, "; "))
}

// Unwrap returns ErrInvalidConfig and the field errors.
func (e *InvalidConfigError) Unwrap() []error {
	return append([]error{ErrInvalidConfig}, e.FieldErrors...)
}

// String returns the level name.
func (l LogLevel) String() string { return string(l) }

// IsValid returns whether l is a recognized level.
func (l LogLevel) IsValid() (bool, []error) {
	switch l {
	case LevelDebug, LevelInfo, LevelWarn, LevelError:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Key: "log.level", Value: string(l), Err: ErrInvalidLogLevel}}
	}
}

// String returns the format name.
func (f ListerFormat) String() string { return string(f) }

// IsValid returns whether f is a recognized format.
func (f ListerFormat) IsValid() (bool, []error) {
	switch f {
	case ListerTable, ListerList, ListerCSV, ListerYAML, ListerTOML:
		return true, nil
	default:
		return false, []error{&InvalidValueError{Key: "format.lister", Value: string(f), Err: ErrInvalidListerFormat}}
	}
}

// ListerFormats returns the recognized lister formats.
func ListerFormats() []ListerFormat {
	return []ListerFormat{ListerTable, ListerList, ListerCSV, ListerYAML, ListerTOML}
}
