package configs

import (
	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hcldec"

	"github.com/terrasynth/terrasynth/schema"
	"github.com/terrasynth/terrasynth/tfdiags"
)

// Resource is a single resource block as written in a configuration
// file, before any schema is applied to its body.
type Resource struct {
	Type string
	Name string

	Config    hcl.Body
	DeclRange hcl.Range
}

// DecodeAttrs decodes the block body against the given attribute
// schemas, returning the raw attribute map in the form the schema
// validator expects: native Go values, with unset attributes absent
// from the map.
//
// Syntax problems are reported here with source locations. Semantic
// problems (missing required attributes, constraint violations and so
// on) are deliberately left to the schema validator, which reports them
// all together with attribute paths.
func (r *Resource) DecodeAttrs(m map[string]*schema.Schema) (map[string]interface{}, tfdiags.Diagnostics) {
	var diags tfdiags.Diagnostics

	spec := decoderSpec(m)
	ctx := &hcl.EvalContext{
		Variables: referenceValues(hcldec.Variables(r.Config, spec)),
	}

	val, hclDiags := hcldec.Decode(r.Config, spec, ctx)
	diags = diags.Append(hclDiags)
	if hclDiags.HasErrors() {
		return nil, diags
	}

	raw, _ := configValueFromHCL2(val).(map[string]interface{})
	if raw == nil {
		raw = make(map[string]interface{})
	}

	// hcldec represents zero repetitions of a block as an empty list
	// rather than a null. An unwritten block must be absent from the
	// raw map, or the cross-field presence rules would see it as set.
	for name, s := range m {
		if s.Type != schema.TypeList {
			continue
		}
		if _, ok := s.Elem.(*schema.Resource); !ok {
			continue
		}
		if l, ok := raw[name].([]interface{}); ok && len(l) == 0 {
			delete(raw, name)
		}
	}

	return raw, diags
}
