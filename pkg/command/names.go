// SPDX-License-Identifier: MPL-2.0

package command

import (
	"fmt"
	"regexp"
)

var (
	// commandNamePattern matches names usable on the command line: letters,
	// digits and underscores, optionally in dash-separated segments.
	commandNamePattern = regexp.MustCompile(`(?i)^[a-z_][a-z0-9_]*(?:-[a-z0-9_]+)*$`)

	// identifierPattern matches declaration names.
	identifierPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

	// callableRefPattern matches "module.path:function" references.
	callableRefPattern = regexp.MustCompile(`(?i)^(?P<module>[a-z_]+(?:\.[a-z_]+)*):(?P<func>[a-z_]+)$`)
)

// IsValidCommandName reports whether name may be used as a child command name.
func IsValidCommandName(name string) bool {
	return commandNamePattern.MatchString(name)
}

// ParseCallableRef splits a "module.path:function" reference.
func ParseCallableRef(ref string) (module, function string, err error) {
	m := callableRefPattern.FindStringSubmatch(ref)
	if m == nil {
		return "", "", fmt.Errorf("%w: %q has invalid format (\"module.path:function\" expected)", ErrInvalidCallable, ref)
	}
	return m[callableRefPattern.SubexpIndex("module")], m[callableRefPattern.SubexpIndex("func")], nil
}
