// SPDX-License-Identifier: MPL-2.0

package issue

import "github.com/charmbracelet/glamour"

// glamourRender renders with glamour directly, independent of the swappable
// package renderer.
func glamourRender(is *Issue) (string, error) {
	return glamour.Render(is.Markdown(), "notty")
}
