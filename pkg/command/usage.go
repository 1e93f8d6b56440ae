// SPDX-License-Identifier: MPL-2.0

package command

// resolveUsage applies OWN_USAGE. With UsageFromDoc the documentation is the
// usage text and must exist. A Usage string documents the command when it has
// no doc of its own and is the usage text either way. Without OWN_USAGE the
// usage is derived from the doc, or inherited with it from the base.
func resolveUsage(decl *Declaration, d *Descriptor) error {
	switch {
	case decl.UsageFromDoc:
		if d.doc == "" {
			return definitionErr(decl, AttrOwnUsage, ErrMissingDoc, "OWN_USAGE set to true, but doc string is missing")
		}
		d.usage = textUsage(d.doc)
		d.ownUsage = true
	case decl.Usage != "":
		if d.doc == "" {
			d.doc = decl.Usage
		}
		d.usage = textUsage(decl.Usage)
		d.ownUsage = true
	case decl.Extends != nil && decl.Doc == "":
		d.usage = decl.Extends.usage
		d.ownUsage = decl.Extends.ownUsage
	default:
		d.usage = textUsage(d.doc)
	}
	return nil
}

func textUsage(text string) func() string {
	return func() string { return text }
}
