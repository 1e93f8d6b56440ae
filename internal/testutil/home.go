// SPDX-License-Identifier: MPL-2.0

package testutil

import (
	"runtime"
	"testing"
)

// HomeEnvVar returns the variable os.UserHomeDir reads on this platform.
func HomeEnvVar() string {
	if runtime.GOOS == "windows" {
		return "USERPROFILE"
	}
	return "HOME"
}

// SetHomeDir points the home directory at dir and returns a function
// restoring the previous value. Pass it to t.Cleanup or defer it.
func SetHomeDir(t testing.TB, dir string) func() {
	t.Helper()
	return MustSetenv(t, HomeEnvVar(), dir)
}
