package synth

import (
	"github.com/terrasynth/terrasynth/schema"
)

// renderObject turns a normalized attribute map into its document
// representation, walking the schema so that nested structures and
// per-attribute emission modes are honored.
//
// Attributes whose rendered value is empty are omitted unless the
// schema marks them AlwaysEmit. Emptiness here means nil, an empty
// string, false, or a zero-length collection; numeric zero is a
// meaningful value and is always emitted.
func renderObject(m map[string]*schema.Schema, attrs map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(attrs))
	for k, s := range m {
		v, ok := attrs[k]
		if !ok {
			continue
		}
		rendered := renderValue(s, v)
		if !s.AlwaysEmit && emptyValue(rendered) {
			continue
		}
		out[k] = rendered
	}
	return out
}

func renderValue(s *schema.Schema, v interface{}) interface{} {
	switch s.Type {
	case schema.TypeList:
		list, ok := v.([]interface{})
		if !ok {
			return v
		}
		sub, nested := s.Elem.(*schema.Resource)
		if !nested {
			// Structures reached through a *Schema element, such as a
			// list of maps of structures, still need their values
			// rendered.
			elem, ok := s.Elem.(*schema.Schema)
			if !ok {
				return list
			}
			out := make([]interface{}, len(list))
			for i, e := range list {
				out[i] = renderValue(elem, e)
			}
			return out
		}
		if s.EmitMode == schema.EmitBlocks {
			return renderBlocks(s, sub, list)
		}
		out := make([]interface{}, 0, len(list))
		for _, e := range list {
			obj, ok := e.(map[string]interface{})
			if !ok {
				out = append(out, e)
				continue
			}
			out = append(out, renderObject(sub.Schema, obj))
		}
		return out
	case schema.TypeMap:
		obj, ok := v.(map[string]interface{})
		if !ok {
			return v
		}
		if sub, nested := s.Elem.(*schema.Resource); nested {
			return renderObject(sub.Schema, obj)
		}
		elem, ok := s.Elem.(*schema.Schema)
		if !ok {
			return obj
		}
		out := make(map[string]interface{}, len(obj))
		for k, e := range obj {
			out[k] = renderValue(elem, e)
		}
		return out
	default:
		return v
	}
}

// renderBlocks renders a list of structures as an object keyed by each
// element's label attribute, the "repeated keyed sub-objects" form.
// The label attribute itself becomes the key and is removed from the
// block body. Elements sharing a label collapse to the last one, in
// keeping with how keyed blocks behave downstream.
func renderBlocks(s *schema.Schema, sub *schema.Resource, list []interface{}) map[string]interface{} {
	blocks := make(map[string]interface{}, len(list))
	for _, e := range list {
		obj, ok := e.(map[string]interface{})
		if !ok {
			continue
		}
		label, ok := obj[s.LabelKey].(string)
		if !ok {
			continue
		}
		body := renderObject(sub.Schema, obj)
		delete(body, s.LabelKey)
		blocks[label] = body
	}
	return blocks
}

func emptyValue(v interface{}) bool {
	switch tv := v.(type) {
	case nil:
		return true
	case string:
		return tv == ""
	case bool:
		return !tv
	case []interface{}:
		return len(tv) == 0
	case map[string]interface{}:
		return len(tv) == 0
	default:
		return false
	}
}
