// SPDX-License-Identifier: MPL-2.0

package command

import (
	"math"
	"reflect"

	"github.com/SpongeTsui/openlmi-scripts/pkg/cim"

	"github.com/spf13/cast"
)

// resolveCheck fixes the result checker of a check-result command. Without
// EXPECT or a hand-written checker the inherited one is kept, and when there
// is none the descriptor stays abstract until a derived declaration adds it.
func resolveCheck(decl *Declaration, d *Descriptor) {
	switch {
	case decl.CheckResult != nil:
		d.check = decl.CheckResult
		d.expected = nil
	case decl.Expect != nil:
		d.check = decl.Expect.checker()
		d.expected = decl.Expect
	case decl.Extends != nil:
		d.check = decl.Extends.check
		d.expected = decl.Extends.expected
	}
}

func (e *Expectation) checker() CheckFunc {
	if e.isFunc {
		pred := e.predicate
		return func(opts Options, result any) bool {
			return pred(opts, unwrapReturnValue(result))
		}
	}
	want := e.value
	return func(_ Options, result any) bool {
		return valuesEqual(want, unwrapReturnValue(result))
	}
}

func unwrapReturnValue(result any) any {
	switch rv := result.(type) {
	case cim.ReturnValue:
		return rv.RVal
	case *cim.ReturnValue:
		if rv != nil {
			return rv.RVal
		}
	}
	return result
}

// valuesEqual compares numbers by value regardless of their Go type, so an
// expected 0 matches a uint32 return code. Everything else uses deep equality.
func valuesEqual(want, got any) bool {
	if eq, ok := numericEqual(want, got); ok {
		return eq
	}
	return reflect.DeepEqual(want, got)
}

func numericEqual(a, b any) (equal, comparable bool) {
	ka, kb := kindOf(a), kindOf(b)
	if !isNumeric(ka) || !isNumeric(kb) {
		return false, false
	}

	if isInteger(ka) && isInteger(kb) {
		if beyondInt64(a) || beyondInt64(b) {
			if !isUnsigned(ka) || !isUnsigned(kb) {
				return false, true
			}
			return reflect.ValueOf(a).Uint() == reflect.ValueOf(b).Uint(), true
		}
		ai, aerr := cast.ToInt64E(a)
		bi, berr := cast.ToInt64E(b)
		if aerr != nil || berr != nil {
			return false, false
		}
		return ai == bi, true
	}

	af, aerr := cast.ToFloat64E(a)
	bf, berr := cast.ToFloat64E(b)
	if aerr != nil || berr != nil {
		return false, false
	}
	return af == bf, true
}

func kindOf(v any) reflect.Kind {
	if v == nil {
		return reflect.Invalid
	}
	return reflect.TypeOf(v).Kind()
}

func isNumeric(k reflect.Kind) bool {
	return isInteger(k) || k == reflect.Float32 || k == reflect.Float64
}

func isInteger(k reflect.Kind) bool {
	switch k {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return true
	default:
		return isUnsigned(k)
	}
}

func isUnsigned(k reflect.Kind) bool {
	switch k {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return true
	default:
		return false
	}
}

func beyondInt64(v any) bool {
	rv := reflect.ValueOf(v)
	return isUnsigned(rv.Kind()) && rv.Uint() > math.MaxInt64
}
