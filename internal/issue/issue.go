// SPDX-License-Identifier: MPL-2.0

package issue

import (
	"cmp"
	"slices"
	"strings"

	"github.com/charmbracelet/glamour"
	"golang.org/x/exp/maps"
)

const (
	ConfigLoadFailedId Id = iota + 1
	SnapshotNotFoundId
	SnapshotLoadFailedId
	NoConnectionId
	CommandNotFoundId
	CommandDefinitionInvalidId
	NamespaceNotFoundId
	ClassNotFoundId
	CheckFailedId
)

type (
	// Id identifies an issue page.
	Id int

	// MarkdownMsg is the markdown body of an issue page.
	MarkdownMsg string

	// HttpLink is a documentation link shown below an issue.
	HttpLink string

	// Issue is a detailed, markdown-rendered explanation of a failure class.
	Issue struct {
		id       Id
		mdMsg    MarkdownMsg
		docLinks []HttpLink
		extLinks []HttpLink
	}
)

func (i *Issue) Id() Id {
	return i.id
}

func (i *Issue) MarkdownMsg() MarkdownMsg {
	return i.mdMsg
}

func (i *Issue) DocLinks() []HttpLink {
	return slices.Clone(i.docLinks)
}

func (i *Issue) ExtLinks() []HttpLink {
	return slices.Clone(i.extLinks)
}

// Markdown returns the page body followed by its links.
func (i *Issue) Markdown() string {
	var md strings.Builder
	md.WriteString(string(i.mdMsg))
	if len(i.docLinks) > 0 || len(i.extLinks) > 0 {
		md.WriteString("\n\n## See also\n")
		for _, link := range slices.Concat(i.docLinks, i.extLinks) {
			md.WriteString("- <" + string(link) + ">\n")
		}
	}
	return md.String()
}

// Render renders the page with the glamour style at stylePath (a style
// name such as "dark" or a JSON style file).
func (i *Issue) Render(stylePath string) (string, error) {
	return render(i.Markdown(), stylePath)
}

var (
	render = glamour.Render

	configLoadFailedIssue = &Issue{
		id: ConfigLoadFailedId,
		mdMsg: `
# Failed to load configuration

The configuration file could not be read or does not match the expected schema.

## Things you can try
- Show the effective configuration and where it was loaded from:
~~~
$ lmi config show
$ lmi config path
~~~
- Compare your file with the defaults:
~~~
$ lmi config dump
~~~

## Example config.cue
~~~cue
namespace:         "root/cimv2"
system_class_name: "PG_ComputerSystem"
log: level: "warn"
format: {
	lister:         "table"
	human_friendly: true
}
~~~`,
		docLinks: []HttpLink{"https://cuelang.org/docs/"},
	}

	snapshotNotFoundIssue = &Issue{
		id: SnapshotNotFoundId,
		mdMsg: `
# Snapshot not found

The inventory snapshot given with ` + "`--snapshot`" + ` (or ` + "`connection.snapshot`" + `) does not exist.

## Things you can try
- Check the path, relative paths are resolved against the current directory.
- Set it in the configuration instead:
~~~cue
connection: snapshot: "/var/lib/lmi/host.yaml"
~~~`,
	}

	snapshotLoadFailedIssue = &Issue{
		id: SnapshotLoadFailedId,
		mdMsg: `
# Snapshot could not be loaded

Snapshots are CUE or YAML files describing instances per namespace.

## Expected structure
~~~yaml
host: server.example.com
namespaces:
  - name: root/cimv2
    instances:
      - class: PG_ComputerSystem
        properties:
          Name: server.example.com
~~~

## Things you can try
- Run with ` + "`--debug`" + ` to see the full validation error.
- Make sure class names are identifiers and property maps are not lists.`,
	}

	noConnectionIssue = &Issue{
		id: NoConnectionId,
		mdMsg: `
# No connection available

Commands that talk to a managed system need a connection. This build reads
the managed system from an inventory snapshot.

## Things you can try
~~~
$ lmi --snapshot host.yaml hwinfo system
~~~`,
	}

	commandNotFoundIssue = &Issue{
		id: CommandNotFoundId,
		mdMsg: `
# Command not found

## Things you can try
- List the available commands:
~~~
$ lmi --help
$ lmi hwinfo --help
~~~
- Read a command's documentation:
~~~
$ lmi doc hwinfo cpu
~~~`,
	}

	commandDefinitionInvalidIssue = &Issue{
		id: CommandDefinitionInvalidId,
		mdMsg: `
# Invalid command definition

A command declaration was rejected while the command tree was built. This is
a bug in the command's declaration, not in how it was called.

## Common causes
- A leaf command without an associated function (CALLABLE).
- Both PROPERTIES and DYNAMIC_PROPERTIES set on a show-instance command.
- A COMMANDS key that is not a valid command name.
- A CALLABLE reference that is not registered.`,
	}

	namespaceNotFoundIssue = &Issue{
		id: NamespaceNotFoundId,
		mdMsg: `
# Namespace not found

The namespace the command is bound to does not exist on the managed system.

## Things you can try
- Check the ` + "`namespace`" + ` configuration key (default ` + "`root/cimv2`" + `).
- Override it for one run:
~~~
$ LMI_NAMESPACE=root/cimv2 lmi hwinfo
~~~`,
	}

	classNotFoundIssue = &Issue{
		id: ClassNotFoundId,
		mdMsg: `
# Class not found

The managed system does not provide a class the command needs. Hardware
commands require the hardware provider to be installed on the managed system.

## Things you can try
- For the computer system class, set ` + "`system_class_name`" + `; lmi falls back to
  ` + "`CIM_ComputerSystem`" + ` when the configured class is missing.`,
	}

	checkFailedIssue = &Issue{
		id: CheckFailedId,
		mdMsg: `
# Check failed

The command ran, but its result did not match the expected value. The exit
status is 1 so that scripts can test it.`,
	}

	issues = map[Id]*Issue{
		configLoadFailedIssue.Id():         configLoadFailedIssue,
		snapshotNotFoundIssue.Id():         snapshotNotFoundIssue,
		snapshotLoadFailedIssue.Id():       snapshotLoadFailedIssue,
		noConnectionIssue.Id():             noConnectionIssue,
		commandNotFoundIssue.Id():          commandNotFoundIssue,
		commandDefinitionInvalidIssue.Id(): commandDefinitionInvalidIssue,
		namespaceNotFoundIssue.Id():        namespaceNotFoundIssue,
		classNotFoundIssue.Id():            classNotFoundIssue,
		checkFailedIssue.Id():              checkFailedIssue,
	}
)

// Values returns every issue ordered by id.
func Values() []*Issue {
	return slices.SortedFunc(maps.Values(issues), func(a, b *Issue) int {
		return cmp.Compare(a.id, b.id)
	})
}

// Get returns the issue with id, or nil.
func Get(id Id) *Issue {
	return issues[id]
}
