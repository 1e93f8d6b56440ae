// SPDX-License-Identifier: MPL-2.0

package command

import (
	"slices"

	"golang.org/x/exp/maps"
)

// resolveTree freezes the dispatch table of a multiplexer. A multiplexer
// without a base is the root of its chain and must declare COMMANDS. A derived
// multiplexer inherits the table of its base unless it declares its own.
func (b *Builder) resolveTree(decl *Declaration, d *Descriptor) error {
	root := decl.Extends == nil

	if d.doc == "" {
		b.logger.Warn("command is missing description string", "command", d.QualifiedName())
	}

	if !root && decl.Commands == nil {
		d.children = slices.Clone(decl.Extends.children)
		return nil
	}
	if len(decl.Commands) == 0 {
		return definitionErr(decl, AttrCommands, ErrMissingCommands, "missing COMMANDS property")
	}

	names := slices.Sorted(maps.Keys(decl.Commands))

	children := make([]Child, 0, len(names))
	for _, name := range names {
		child := decl.Commands[name]
		if !IsValidCommandName(name) {
			return definitionErr(decl, AttrCommands, ErrInvalidName, "command name %q does not match the command name pattern", name)
		}
		if child == nil {
			return definitionErr(decl, AttrCommands, ErrInvalidChild, "value of %q must be a built command", name)
		}
		if child.IsAbstract() {
			return definitionErr(decl, AttrCommands, ErrInvalidChild, "value of %q (%s) is abstract and cannot be dispatched to", name, child.QualifiedName())
		}
		children = append(children, Child{Name: name, Command: inheritDoc(child, d.doc)})
	}
	d.children = children
	return nil
}

// inheritDoc documents an undocumented multiplexer child, and its own
// undocumented multiplexer descendants, with doc. Other children are returned
// unchanged.
func inheritDoc(child *Descriptor, doc string) *Descriptor {
	if doc == "" || !child.IsMultiplexer() || child.doc != "" {
		return child
	}
	clone := child.withDoc(doc)
	clone.children = make([]Child, len(child.children))
	for i, c := range child.children {
		clone.children[i] = Child{Name: c.Name, Command: inheritDoc(c.Command, doc)}
	}
	if !clone.ownUsage {
		clone.usage = textUsage(doc)
	}
	return clone
}
