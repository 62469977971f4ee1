package configs

import (
	"fmt"
	"math/big"

	"github.com/zclconf/go-cty/cty"
)

// configValueFromHCL2 converts a value from HCL's decoder (a cty.Value)
// into the native Go value representation used by the schema validator.
//
// Null values convert to nil, and nil-valued entries are dropped from
// converted maps and objects entirely, so that an attribute the author
// never wrote is indistinguishable from one that is absent. That
// distinction matters to the cross-field presence rules.
func configValueFromHCL2(v cty.Value) interface{} {
	if v == cty.NilVal || v.IsNull() {
		return nil
	}

	ty := v.Type()
	switch {
	case ty.IsPrimitiveType():
		switch ty {
		case cty.Bool:
			return v.True()
		case cty.String:
			return v.AsString()
		case cty.Number:
			// cty has only one number type; recover an int when the
			// value is a whole number so the validator sees the Go type
			// the schema declares.
			bf := v.AsBigFloat()
			if iv, acc := bf.Int64(); acc == big.Exact {
				return int(iv)
			}
			fv, _ := bf.Float64()
			return fv
		}
	case ty.IsListType() || ty.IsSetType() || ty.IsTupleType():
		l := make([]interface{}, 0, v.LengthInt())
		for it := v.ElementIterator(); it.Next(); {
			_, ev := it.Element()
			l = append(l, configValueFromHCL2(ev))
		}
		return l
	case ty.IsMapType() || ty.IsObjectType():
		l := make(map[string]interface{})
		for it := v.ElementIterator(); it.Next(); {
			ek, ev := it.Element()
			if ev.IsNull() {
				continue
			}
			l[ek.AsString()] = configValueFromHCL2(ev)
		}
		return l
	}

	// We should never fall out here, since the decoder specs only
	// produce the types handled above.
	panic(fmt.Errorf("can't convert %#v to native value", v))
}
