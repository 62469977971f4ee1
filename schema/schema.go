// Package schema is a framework for describing the structure of resource
// configuration and validating raw attribute maps against those
// descriptions.
//
// A resource kind is described by a map of attribute names to *Schema
// values, optionally wrapped in a Resource to attach cross-field check
// rules. Validation produces either an immutable, normalized Record or
// a list of diagnostics describing every problem found, each with the
// exact path of the offending attribute.
package schema

import (
	"fmt"
	"reflect"
	"sort"

	"github.com/mitchellh/mapstructure"
	"github.com/zclconf/go-cty/cty"

	"github.com/terrasynth/terrasynth/tfdiags"
)

// Schema is used to describe the structure of a single attribute value.
//
// Read the documentation of the struct elements for important details.
type Schema struct {
	// Type is the type of the value and must be one of the ValueType values.
	//
	// This type not only determines what raw values are accepted when
	// validating this attribute, but also what type the normalized value
	// has in the resulting Record:
	//
	//   TypeBool - bool
	//   TypeInt - int
	//   TypeFloat - float64
	//   TypeString - string
	//   TypeList - []interface{}
	//   TypeMap - map[string]interface{}
	//
	Type ValueType

	// If one of these is set, then this item can come from the
	// configuration. Exactly one must be set. If Optional is set, the
	// value is optional. If Required is set, the value is required.
	Optional bool
	Required bool

	// If this is non-nil, then this will be a default value that is used
	// when this item is not set in the configuration.
	//
	// DefaultFunc can be specified if you want a dynamic default value,
	// for example one derived from other process state. Only one of
	// Default or DefaultFunc can be set. If the DefaultFunc returns nil,
	// there is no default.
	Default     interface{}
	DefaultFunc SchemaDefaultFunc

	// Description is used as the description for docs and error output.
	// It should be relatively short (a few sentences max).
	Description string

	// The following fields are only valid for a TypeList or TypeMap Type.
	//
	// Elem represents the element type. If it is *Schema, the element
	// type is just a simple value. If it is *Resource, the element type
	// is a structure whose keys are fixed by that resource's schema.
	//
	// For TypeList, Elem describes each element of the list. For TypeMap
	// with a *Schema Elem, the map has arbitrary string keys and Elem
	// describes each value. For TypeMap with a *Resource Elem, the value
	// is a single nested structure validated against the sub-schema; a
	// map of structures is expressed by composing the two forms.
	Elem interface{}

	// MinItems and MaxItems bound the number of elements of a TypeList
	// value. Both bounds are inclusive; zero means unbounded.
	MinItems int
	MaxItems int

	// ValidateFunc is an extra constraint applied to the normalized value
	// of this attribute, such as a numeric range or enum membership
	// check. See the validation package for common implementations.
	ValidateFunc SchemaValidateFunc

	// ConflictsWith is a set of attribute names that may not be set
	// together with this one. RequiredWith is a set of attribute names
	// that must all be set whenever this one is set.
	//
	// ExactlyOneOf and AtLeastOneOf are group constraints; each lists a
	// set of attribute names (conventionally including this one) of
	// which exactly one, or at least one, must be set.
	ConflictsWith []string
	RequiredWith  []string
	ExactlyOneOf  []string
	AtLeastOneOf  []string

	// AlwaysEmit forces the document synthesizer to emit this attribute
	// even when its normalized value is empty. This is needed for
	// booleans that default to false but must still appear in the
	// rendered document.
	AlwaysEmit bool

	// EmitMode selects how a TypeList value is rendered into the
	// synthesized document: as a plain JSON list (the default) or as
	// repeated keyed sub-objects. Different attributes of the same
	// resource may legitimately need different modes, so this is always
	// declared per attribute and never inferred.
	EmitMode EmitMode

	// LabelKey names the element attribute whose value keys each
	// sub-object when EmitMode is EmitBlocks. The named attribute must
	// be a required string in the element schema.
	LabelKey string
}

// SchemaDefaultFunc is a function called to return a default value for
// a field.
type SchemaDefaultFunc func() (interface{}, error)

// SchemaValidateFunc is a function used to apply an extra constraint to
// an attribute value after it has passed its type check. The key is the
// rendered path of the attribute, for use in messages. It returns
// warnings and errors; both may name other attributes where relevant.
type SchemaValidateFunc func(v interface{}, k string) (ws []string, es []error)

// EmitMode selects the document rendering for a list-typed attribute.
type EmitMode int

const (
	// EmitList renders the value as a JSON array. This is the default.
	EmitList EmitMode = iota

	// EmitBlocks renders a list of structures as an object keyed by each
	// element's LabelKey attribute, the way some downstream formats
	// represent repeated named blocks.
	EmitBlocks
)

func (s *Schema) GoString() string {
	return fmt.Sprintf("*%#v", *s)
}

// DefaultValue returns the default value for this schema, evaluating
// DefaultFunc when one is set. A nil result means there is no default.
func (s *Schema) DefaultValue() (interface{}, error) {
	if s.DefaultFunc != nil {
		return s.DefaultFunc()
	}
	return s.Default, nil
}

// schemaMap is a wrapper that adds nice functions on top of schemas.
type schemaMap map[string]*Schema

// Validate validates and normalizes a raw configuration map against
// this schema mapping. All field-level problems are collected into the
// returned diagnostics in one pass rather than failing on the first;
// the normalized map contains only the attributes that validated
// cleanly, and must be discarded if the diagnostics contain errors.
//
// The given raw map is never modified; defaults are applied only to
// the returned map.
func (m schemaMap) Validate(raw map[string]interface{}) (map[string]interface{}, tfdiags.Diagnostics) {
	return m.validateObject(nil, raw)
}

// InternalValidate validates the format of this schema. This should be
// called at registration time to verify that a resource definition is
// properly built; a malformed schema is a bug in the definition, not a
// user input problem, so this fails fast with a plain error.
func (m schemaMap) InternalValidate() error {
	for k, v := range m {
		if v.Type == TypeInvalid {
			return fmt.Errorf("%s: Type must be specified", k)
		}

		if v.Optional && v.Required {
			return fmt.Errorf("%s: Optional or Required must be set, not both", k)
		}

		if !v.Required && !v.Optional {
			return fmt.Errorf("%s: One of Optional or Required must be set", k)
		}

		if v.Required && v.Default != nil {
			return fmt.Errorf("%s: Default cannot be set with Required", k)
		}

		if v.Default != nil && v.DefaultFunc != nil {
			return fmt.Errorf("%s: Default and DefaultFunc cannot both be set", k)
		}

		if v.MinItems < 0 || v.MaxItems < 0 {
			return fmt.Errorf("%s: MinItems and MaxItems must not be negative", k)
		}

		if (v.MinItems > 0 || v.MaxItems > 0) && v.Type != TypeList {
			return fmt.Errorf("%s: MinItems and MaxItems are only supported on lists", k)
		}

		if v.MinItems > 0 && v.MaxItems > 0 && v.MinItems > v.MaxItems {
			return fmt.Errorf("%s: MinItems must not be greater than MaxItems", k)
		}

		if v.Type == TypeList && v.Elem == nil {
			return fmt.Errorf("%s: Elem must be set for lists", k)
		}

		switch t := v.Elem.(type) {
		case nil:
		case *Resource:
			if err := t.InternalValidate(); err != nil {
				return fmt.Errorf("%s: %s", k, err)
			}
		case *Schema:
			bad := t.Optional || t.Required
			if bad {
				return fmt.Errorf("%s: Elem must have only Type set", k)
			}
		default:
			return fmt.Errorf("%s: Elem must be a *Schema or *Resource", k)
		}

		if v.EmitMode == EmitBlocks {
			if err := m.validateEmitBlocks(k, v); err != nil {
				return err
			}
		} else if v.LabelKey != "" {
			return fmt.Errorf("%s: LabelKey is only valid with EmitBlocks", k)
		}

		for _, ref := range v.ConflictsWith {
			if _, ok := m[ref]; !ok {
				return fmt.Errorf("%s: ConflictsWith references unknown attribute %q", k, ref)
			}
		}
		for _, ref := range v.RequiredWith {
			if _, ok := m[ref]; !ok {
				return fmt.Errorf("%s: RequiredWith references unknown attribute %q", k, ref)
			}
		}
		for _, ref := range v.ExactlyOneOf {
			if _, ok := m[ref]; !ok {
				return fmt.Errorf("%s: ExactlyOneOf references unknown attribute %q", k, ref)
			}
		}
		for _, ref := range v.AtLeastOneOf {
			if _, ok := m[ref]; !ok {
				return fmt.Errorf("%s: AtLeastOneOf references unknown attribute %q", k, ref)
			}
		}
	}

	return nil
}

func (m schemaMap) validateEmitBlocks(k string, v *Schema) error {
	if v.Type != TypeList {
		return fmt.Errorf("%s: EmitBlocks is only valid for lists", k)
	}
	sub, ok := v.Elem.(*Resource)
	if !ok {
		return fmt.Errorf("%s: EmitBlocks requires a *Resource Elem", k)
	}
	if v.LabelKey == "" {
		return fmt.Errorf("%s: EmitBlocks requires LabelKey", k)
	}
	label, ok := sub.Schema[v.LabelKey]
	if !ok {
		return fmt.Errorf("%s: LabelKey %q is not in the element schema", k, v.LabelKey)
	}
	if label.Type != TypeString || !label.Required {
		return fmt.Errorf("%s: LabelKey %q must be a required string", k, v.LabelKey)
	}
	return nil
}

func (m schemaMap) validateObject(path cty.Path, raw map[string]interface{}) (map[string]interface{}, tfdiags.Diagnostics) {
	var diags tfdiags.Diagnostics
	result := make(map[string]interface{}, len(m))

	for _, k := range sortedKeys(m) {
		s := m[k]
		attrPath := append(path.Copy(), cty.GetAttrStep{Name: k})

		v, ok := raw[k]
		if !ok || v == nil {
			dv, err := s.DefaultValue()
			if err != nil {
				diags = diags.Append(tfdiags.AttributeValue(
					tfdiags.Error,
					"Invalid default value",
					fmt.Sprintf("Failed to compute the default value for %q: %s.", tfdiags.FormatCtyPath(attrPath), err),
					attrPath,
				))
				continue
			}
			if dv != nil {
				v = dv
				// fall through to normalize the default like any
				// configured value
			} else {
				if s.Required {
					diags = diags.Append(tfdiags.AttributeValue(
						tfdiags.Error,
						"Missing required attribute",
						fmt.Sprintf("The attribute %q is required, but no value was set.", tfdiags.FormatCtyPath(attrPath)),
						attrPath,
					))
				}
				continue
			}
		}

		nv, valDiags := m.validateValue(attrPath, v, s)
		diags = diags.Append(valDiags)
		if valDiags.HasErrors() {
			continue
		}

		if s.ValidateFunc != nil {
			ws, es := s.ValidateFunc(nv, tfdiags.FormatCtyPath(attrPath))
			for _, w := range ws {
				diags = diags.Append(tfdiags.AttributeValue(tfdiags.Warning, w, "", attrPath))
			}
			for _, e := range es {
				diags = diags.Append(tfdiags.AttributeValue(
					tfdiags.Error, "Invalid attribute value", e.Error(), attrPath,
				))
			}
			if len(es) > 0 {
				continue
			}
		}

		result[k] = nv
	}

	// Detect any extra/unknown keys and report those as errors.
	var unknown []string
	for k := range raw {
		if _, ok := m[k]; !ok {
			unknown = append(unknown, k)
		}
	}
	sort.Strings(unknown)
	for _, k := range unknown {
		attrPath := append(path.Copy(), cty.GetAttrStep{Name: k})
		diags = diags.Append(tfdiags.AttributeValue(
			tfdiags.Error,
			"Invalid or unknown attribute",
			fmt.Sprintf("An attribute named %q is not expected here.", tfdiags.FormatCtyPath(attrPath)),
			attrPath,
		))
	}

	diags = diags.Append(m.validateCrossField(path, raw))

	return result, diags
}

// validateCrossField applies the declarative cross-field constraints
// (ConflictsWith, RequiredWith, ExactlyOneOf, AtLeastOneOf) against the
// raw configuration. Presence is judged on the raw input, before any
// defaults are applied, since these rules describe what the user wrote.
func (m schemaMap) validateCrossField(path cty.Path, raw map[string]interface{}) tfdiags.Diagnostics {
	var diags tfdiags.Diagnostics

	present := func(k string) bool {
		v, ok := raw[k]
		return ok && v != nil
	}

	for _, k := range sortedKeys(m) {
		s := m[k]
		attrPath := append(path.Copy(), cty.GetAttrStep{Name: k})

		if present(k) {
			for _, other := range s.ConflictsWith {
				if present(other) {
					diags = diags.Append(tfdiags.AttributeValue(
						tfdiags.Error,
						"Conflicting attributes",
						fmt.Sprintf("%q cannot be set when %q is set.", k, other),
						attrPath,
					))
				}
			}
			for _, other := range s.RequiredWith {
				if !present(other) {
					diags = diags.Append(tfdiags.AttributeValue(
						tfdiags.Error,
						"Missing companion attribute",
						fmt.Sprintf("%q must be set when %q is set.", other, k),
						attrPath,
					))
				}
			}
		}

		// Group constraints are declared on every member of the group;
		// evaluate each group only once, from its lexically first
		// member, so the problem is reported a single time.
		if len(s.ExactlyOneOf) > 0 && k == groupAnchor(s.ExactlyOneOf) {
			n := countPresent(s.ExactlyOneOf, present)
			switch {
			case n == 0:
				diags = diags.Append(tfdiags.AttributeValue(
					tfdiags.Error,
					"Missing required attribute",
					fmt.Sprintf("Exactly one of %s must be set, but none were.", quoteList(s.ExactlyOneOf)),
					attrPath,
				))
			case n > 1:
				diags = diags.Append(tfdiags.AttributeValue(
					tfdiags.Error,
					"Conflicting attributes",
					fmt.Sprintf("Exactly one of %s may be set, but %d were.", quoteList(s.ExactlyOneOf), n),
					attrPath,
				))
			}
		}
		if len(s.AtLeastOneOf) > 0 && k == groupAnchor(s.AtLeastOneOf) {
			if countPresent(s.AtLeastOneOf, present) == 0 {
				diags = diags.Append(tfdiags.AttributeValue(
					tfdiags.Error,
					"Missing required attribute",
					fmt.Sprintf("At least one of %s must be set.", quoteList(s.AtLeastOneOf)),
					attrPath,
				))
			}
		}
	}

	return diags
}

// validateValue checks and normalizes a raw value against a single
// schema, recursing into lists, maps and nested structures. The
// returned diagnostics identify the exact nested location of any
// mismatch via the path.
func (m schemaMap) validateValue(path cty.Path, v interface{}, s *Schema) (interface{}, tfdiags.Diagnostics) {
	switch s.Type {
	case TypeBool:
		var n bool
		if err := mapstructure.WeakDecode(v, &n); err != nil {
			return nil, typeMismatch(path, s.Type, v)
		}
		return n, nil
	case TypeInt:
		var n int
		if err := mapstructure.WeakDecode(v, &n); err != nil {
			return nil, typeMismatch(path, s.Type, v)
		}
		return n, nil
	case TypeFloat:
		var n float64
		if err := mapstructure.WeakDecode(v, &n); err != nil {
			return nil, typeMismatch(path, s.Type, v)
		}
		return n, nil
	case TypeString:
		var n string
		if err := mapstructure.WeakDecode(v, &n); err != nil {
			return nil, typeMismatch(path, s.Type, v)
		}
		return n, nil
	case TypeList:
		return m.validateList(path, v, s)
	case TypeMap:
		return m.validateMap(path, v, s)
	default:
		panic(fmt.Sprintf("unknown type to validate: %s", s.Type))
	}
}

func (m schemaMap) validateList(path cty.Path, v interface{}, s *Schema) (interface{}, tfdiags.Diagnostics) {
	var diags tfdiags.Diagnostics

	// We use reflection to verify the slice because you can't cast to
	// []interface{} unless the slice is exactly that type.
	rawV := reflect.ValueOf(v)
	if rawV.Kind() != reflect.Slice {
		return nil, typeMismatch(path, s.Type, v)
	}

	raws := make([]interface{}, rawV.Len())
	for i := range raws {
		raws[i] = rawV.Index(i).Interface()
	}

	if s.MinItems > 0 && len(raws) < s.MinItems {
		diags = diags.Append(tfdiags.AttributeValue(
			tfdiags.Error,
			"Not enough list items",
			fmt.Sprintf("Attribute %q requires at least %d item(s), but has %d.", tfdiags.FormatCtyPath(path), s.MinItems, len(raws)),
			path,
		))
	}
	if s.MaxItems > 0 && len(raws) > s.MaxItems {
		diags = diags.Append(tfdiags.AttributeValue(
			tfdiags.Error,
			"Too many list items",
			fmt.Sprintf("Attribute %q may have at most %d item(s), but has %d.", tfdiags.FormatCtyPath(path), s.MaxItems, len(raws)),
			path,
		))
	}

	result := make([]interface{}, len(raws))
	for i, raw := range raws {
		elemPath := append(path.Copy(), cty.IndexStep{Key: cty.NumberIntVal(int64(i))})

		switch t := s.Elem.(type) {
		case *Resource:
			obj, ok := raw.(map[string]interface{})
			if !ok {
				diags = diags.Append(typeMismatch(elemPath, TypeMap, raw))
				continue
			}
			nv, objDiags := schemaMap(t.Schema).validateObject(elemPath, obj)
			diags = diags.Append(objDiags)
			result[i] = nv
		case *Schema:
			nv, elemDiags := m.validateValue(elemPath, raw, t)
			diags = diags.Append(elemDiags)
			result[i] = nv
		default:
			// InternalValidate rejects lists without an element type, so
			// this is unreachable for registered schemas.
			result[i] = raw
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return result, diags
}

func (m schemaMap) validateMap(path cty.Path, v interface{}, s *Schema) (interface{}, tfdiags.Diagnostics) {
	var diags tfdiags.Diagnostics

	obj, ok := mapValue(v)
	if !ok {
		return nil, typeMismatch(path, s.Type, v)
	}

	// A *Resource element means the value is a single nested structure
	// with a fixed set of keys, validated against the sub-schema.
	if sub, ok := s.Elem.(*Resource); ok {
		nv, objDiags := schemaMap(sub.Schema).validateObject(path, obj)
		diags = diags.Append(objDiags)
		if diags.HasErrors() {
			return nil, diags
		}
		return nv, diags
	}

	result := make(map[string]interface{}, len(obj))
	for _, k := range sortedKeys(obj) {
		elemPath := append(path.Copy(), cty.IndexStep{Key: cty.StringVal(k)})
		if elem, ok := s.Elem.(*Schema); ok {
			nv, elemDiags := m.validateValue(elemPath, obj[k], elem)
			diags = diags.Append(elemDiags)
			result[k] = nv
		} else {
			result[k] = obj[k]
		}
	}

	if diags.HasErrors() {
		return nil, diags
	}
	return result, diags
}

func typeMismatch(path cty.Path, want ValueType, got interface{}) tfdiags.Diagnostics {
	var diags tfdiags.Diagnostics
	return diags.Append(tfdiags.AttributeValue(
		tfdiags.Error,
		"Incorrect attribute value type",
		fmt.Sprintf("Inappropriate value for attribute %q: %s required, but have %T.", tfdiags.FormatCtyPath(path), want, got),
		path,
	))
}

func countPresent(keys []string, present func(string) bool) int {
	n := 0
	for _, k := range keys {
		if present(k) {
			n++
		}
	}
	return n
}

// groupAnchor returns the member that a group constraint is evaluated
// from, so a group declared on all of its members is checked only once.
func groupAnchor(group []string) string {
	anchor := group[0]
	for _, k := range group[1:] {
		if k < anchor {
			anchor = k
		}
	}
	return anchor
}

func quoteList(keys []string) string {
	sorted := make([]string, len(keys))
	copy(sorted, keys)
	sort.Strings(sorted)
	out := ""
	for i, k := range sorted {
		if i > 0 {
			out += ", "
		}
		out += fmt.Sprintf("%q", k)
	}
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

func mapValue(v interface{}) (map[string]interface{}, bool) {
	if obj, ok := v.(map[string]interface{}); ok {
		return obj, true
	}

	rawV := reflect.ValueOf(v)
	if rawV.Kind() != reflect.Map {
		return nil, false
	}
	obj := make(map[string]interface{}, rawV.Len())
	for _, key := range rawV.MapKeys() {
		ks, ok := key.Interface().(string)
		if !ok {
			return nil, false
		}
		obj[ks] = rawV.MapIndex(key).Interface()
	}
	return obj, true
}
