// SPDX-License-Identifier: MPL-2.0

// Package cueutil validates user files against embedded CUE schemas.
//
// Both the configuration file and inventory snapshots go through the same
// flow: compile the embedded schema, compile the user data (CUE or YAML) and
// unify it with a schema definition, then validate and decode into a Go
// struct. Errors carry the file name and the JSON path of the offending
// value.
//
//	//go:embed config_schema.cue
//	var schema []byte
//
//	res, err := cueutil.ParseAndDecode[FileConfig](schema, data, "#Config",
//	    cueutil.WithFilename("config.cue"), cueutil.WithConcrete(false))
package cueutil
