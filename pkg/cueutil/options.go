// SPDX-License-Identifier: MPL-2.0

package cueutil

import (
	"path/filepath"
	"strings"
)

// DefaultMaxFileSize is the default maximum input size (5MB).
const DefaultMaxFileSize int64 = 5 * 1024 * 1024

const (
	// FormatCUE parses the input as CUE.
	FormatCUE Format = iota
	// FormatYAML parses the input as YAML before unifying it with the schema.
	FormatYAML
)

type (
	// Format is the syntax of the user data.
	Format uint8

	parseOptions struct {
		maxFileSize int64
		concrete    bool
		filename    string
		format      Format
	}

	// Option configures parsing behavior.
	Option func(*parseOptions)
)

func defaultOptions() parseOptions {
	return parseOptions{
		maxFileSize: DefaultMaxFileSize,
		concrete:    true,
	}
}

// WithMaxFileSize sets the maximum allowed input size.
func WithMaxFileSize(size int64) Option {
	return func(o *parseOptions) {
		o.maxFileSize = size
	}
}

// WithConcrete sets whether all values must be concrete after unification.
// Config files leave optional fields unset and pass false.
func WithConcrete(concrete bool) Option {
	return func(o *parseOptions) {
		o.concrete = concrete
	}
}

// WithFilename sets the file name used in error messages.
func WithFilename(name string) Option {
	return func(o *parseOptions) {
		o.filename = name
	}
}

// WithFormat sets the syntax of the user data.
func WithFormat(f Format) Option {
	return func(o *parseOptions) {
		o.format = f
	}
}

// FormatOf guesses the input format from a file extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML
	default:
		return FormatCUE
	}
}

// String returns the format name.
func (f Format) String() string {
	if f == FormatYAML {
		return "yaml"
	}
	return "cue"
}
