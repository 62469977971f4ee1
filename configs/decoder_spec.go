package configs

import (
	"github.com/hashicorp/hcl/v2/hcldec"
	"github.com/zclconf/go-cty/cty"

	"github.com/terrasynth/terrasynth/schema"
)

// decoderSpec returns a hcldec.Spec that can be used to decode a config
// body against the given attribute schemas.
//
// Every attribute is decoded as optional here, even those the schema
// declares Required: hcldec would stop at the first missing attribute,
// while the schema validator collects every problem in one pass, so
// requiredness is enforced there instead.
func decoderSpec(m map[string]*schema.Schema) hcldec.Spec {
	ret := hcldec.ObjectSpec{}
	for name, s := range m {
		ret[name] = attrDecoderSpec(name, s)
	}
	return ret
}

func attrDecoderSpec(name string, s *schema.Schema) hcldec.Spec {
	switch s.Type {
	case schema.TypeList:
		if sub, ok := s.Elem.(*schema.Resource); ok {
			return &hcldec.BlockListSpec{
				TypeName: name,
				Nested:   decoderSpec(sub.Schema),
			}
		}
	case schema.TypeMap:
		if sub, ok := s.Elem.(*schema.Resource); ok {
			// A single nested structure is written as one block.
			return &hcldec.BlockSpec{
				TypeName: name,
				Nested:   decoderSpec(sub.Schema),
			}
		}
	}

	return &hcldec.AttrSpec{
		Name: name,
		Type: impliedType(s),
	}
}

// impliedType returns the cty type that decoding against the schema
// produces for one attribute value.
func impliedType(s *schema.Schema) cty.Type {
	switch s.Type {
	case schema.TypeBool:
		return cty.Bool
	case schema.TypeInt, schema.TypeFloat:
		return cty.Number
	case schema.TypeString:
		return cty.String
	case schema.TypeList:
		if elem, ok := s.Elem.(*schema.Schema); ok {
			return cty.List(impliedType(elem))
		}
		return cty.List(cty.String)
	case schema.TypeMap:
		if elem, ok := s.Elem.(*schema.Schema); ok {
			return cty.Map(impliedType(elem))
		}
		return cty.Map(cty.String)
	default:
		return cty.String
	}
}
