// SPDX-License-Identifier: MPL-2.0

package command

import "strings"

// attributeRule ties a declaration attribute to the kinds that accept it.
type attributeRule struct {
	attr    string
	allowed Kind
	present func(*Declaration) bool
}

// attributeRules enumerates the optional attributes and where they apply.
// OWN_USAGE applies to every kind and is not listed.
var attributeRules = []attributeRule{
	{AttrCallable, KindEndPoint, func(d *Declaration) bool { return d.Callable != nil || d.CallableRef != "" }},
	{AttrExecute, KindEndPoint, func(d *Declaration) bool { return d.Execute != nil }},
	{AttrNamespace, KindSession, func(d *Declaration) bool { return d.Namespace != "" || d.RawConnection }},
	{AttrColumns, KindLister, func(d *Declaration) bool { return d.Columns != nil }},
	{AttrProperties, KindShowInstance, func(d *Declaration) bool { return d.Properties != nil }},
	{AttrDynamicProperties, KindShowInstance, func(d *Declaration) bool { return d.DynamicProperties }},
	{AttrRender, KindShowInstance, func(d *Declaration) bool { return d.Render != nil }},
	{AttrExpect, KindCheckResult, func(d *Declaration) bool { return d.Expect != nil }},
	{AttrCheckResult, KindCheckResult, func(d *Declaration) bool { return d.CheckResult != nil }},
	{AttrCommands, KindMultiplexer, func(d *Declaration) bool { return d.Commands != nil }},
}

// exclusivePairs lists attributes that may not be set together.
var exclusivePairs = []struct {
	a, b string
	both func(*Declaration) bool
}{
	{AttrCallable, AttrCallable, func(d *Declaration) bool { return d.Callable != nil && d.CallableRef != "" }},
	{AttrNamespace, AttrNamespace, func(d *Declaration) bool { return d.Namespace != "" && d.RawConnection }},
	{AttrProperties, AttrDynamicProperties, func(d *Declaration) bool { return d.Properties != nil && d.DynamicProperties }},
	{AttrRender, AttrProperties, func(d *Declaration) bool { return d.Render != nil && d.Properties != nil }},
	{AttrRender, AttrDynamicProperties, func(d *Declaration) bool { return d.Render != nil && d.DynamicProperties }},
	{AttrExpect, AttrCheckResult, func(d *Declaration) bool { return d.Expect != nil && d.CheckResult != nil }},
	{AttrOwnUsage, AttrOwnUsage, func(d *Declaration) bool { return d.UsageFromDoc && d.Usage != "" }},
}

// validateDeclaration runs the capability validators and returns the
// normalized kind of the command. It stops at the first violation.
func validateDeclaration(decl *Declaration) (Kind, error) {
	if !identifierPattern.MatchString(decl.Name) {
		return 0, definitionErr(decl, AttrName, ErrInvalidName, "command name %q must be an identifier", decl.Name)
	}

	kind, err := resolveKind(decl)
	if err != nil {
		return 0, err
	}

	for _, rule := range attributeRules {
		if rule.present(decl) && !kind.Has(rule.allowed) {
			return 0, definitionErr(decl, rule.attr, ErrForbiddenAttribute, "%s does not apply to a %s command", rule.attr, kind)
		}
	}

	for _, pair := range exclusivePairs {
		if pair.both(decl) {
			if pair.a == pair.b {
				return 0, definitionErr(decl, pair.a, ErrMutuallyExclusive, "%s is given in two exclusive forms", pair.a)
			}
			return 0, definitionErr(decl, pair.a, ErrMutuallyExclusive, "%s and %s are mutually exclusive", pair.a, pair.b)
		}
	}

	if err := checkShapes(decl); err != nil {
		return 0, err
	}
	return kind, nil
}

// resolveKind derives the normalized kind from the declaration and its base.
func resolveKind(decl *Declaration) (Kind, error) {
	kind := decl.Kind.Normalize()
	if decl.Extends != nil {
		baseKind := decl.Extends.Kind()
		if kind == 0 {
			kind = baseKind
		} else if !kind.Has(baseKind) {
			return 0, definitionErr(decl, AttrExtends, ErrInvalidKind,
				"a %s command cannot extend %s (a %s command)", kind, decl.Extends.QualifiedName(), baseKind)
		}
	}
	if ok, errs := kind.IsValid(); !ok {
		return 0, definitionErr(decl, AttrKind, ErrInvalidKind, "%v", errs[0])
	}
	return kind, nil
}

// checkShapes validates the values of present attributes.
func checkShapes(decl *Declaration) error {
	if decl.CallableRef != "" {
		if _, _, err := ParseCallableRef(decl.CallableRef); err != nil {
			return definitionErr(decl, AttrCallable, ErrInvalidCallable, "%v", err)
		}
	}
	if decl.Namespace != "" && strings.TrimSpace(decl.Namespace) == "" {
		return definitionErr(decl, AttrNamespace, ErrInvalidProperty, "NAMESPACE must not be whitespace-only")
	}
	for i, col := range decl.Columns {
		if strings.TrimSpace(col) == "" {
			return definitionErr(decl, AttrColumns, ErrInvalidProperty, "COLUMNS must contain just column names, entry #%d is empty", i)
		}
	}
	for i, prop := range decl.Properties {
		if strings.TrimSpace(prop.Name) == "" {
			return definitionErr(decl, AttrProperties, ErrInvalidProperty, "PROPERTIES entry #%d must be a name or (name, transform) pair", i)
		}
	}
	if decl.Expect != nil && decl.Expect.isFunc && decl.Expect.predicate == nil {
		return definitionErr(decl, AttrExpect, ErrInvalidProperty, "EXPECT predicate must not be nil")
	}
	return nil
}
