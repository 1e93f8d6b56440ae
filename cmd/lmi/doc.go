// SPDX-License-Identifier: MPL-2.0

package cmd

import (
	"fmt"
	"strings"

	"github.com/SpongeTsui/openlmi-scripts/pkg/command"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"
)

// newDocCommand creates `lmi doc`, which renders the documentation of the
// descriptor at the given path of tree.
func newDocCommand(app *App, tree *command.Descriptor) *cobra.Command {
	return &cobra.Command{
		Use:   "doc [<command>...]",
		Short: "Show the documentation of a command",
		Long: `Show the documentation of a command.

Without arguments the documentation of lmi itself is shown.

` + SubtitleStyle.Render("Examples:") + `
  lmi doc hwinfo
  lmi doc system check`,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, rest := tree.Lookup(args)
			if len(rest) > 0 {
				return app.report(cmd, commandNotFoundError(args), false)
			}

			rendered, err := glamour.Render(commandMarkdown(args, d), markdownStyle)
			if err != nil {
				return app.report(cmd, err, false)
			}
			fmt.Fprint(app.stdout, rendered)
			return nil
		},
	}
}

// commandMarkdown describes d as a markdown page.
func commandMarkdown(path []string, d *command.Descriptor) string {
	var md strings.Builder

	md.WriteString("# " + strings.Join(append([]string{RootModule}, path...), " ") + "\n\n")
	if doc := strings.TrimSpace(d.Doc()); doc != "" {
		title, body, _ := strings.Cut(doc, "\n")
		md.WriteString(title + "\n\n")
		if body = strings.TrimSpace(body); body != "" {
			md.WriteString("~~~\n" + body + "\n~~~\n\n")
		}
	} else {
		md.WriteString("_No documentation._\n\n")
	}

	if usage := strings.TrimSpace(d.Usage()); d.HasOwnUsage() && usage != strings.TrimSpace(d.Doc()) {
		md.WriteString("## Usage\n\n~~~\n" + usage + "\n~~~\n\n")
	}

	if columns := d.Columns(); len(columns) > 0 {
		md.WriteString("## Columns\n\n")
		for _, c := range columns {
			md.WriteString("- " + c + "\n")
		}
		md.WriteString("\n")
	}

	if children := d.Children(); len(children) > 0 {
		md.WriteString("## Commands\n\n")
		for _, c := range children {
			fmt.Fprintf(&md, "- `%s`: %s\n", c.Name, summary(c.Command.Doc()))
		}
		md.WriteString("\n")
	}

	fmt.Fprintf(&md, "_Kind: %s_\n", d.Kind())
	return md.String()
}
