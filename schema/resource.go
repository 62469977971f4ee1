package schema

import (
	"github.com/terrasynth/terrasynth/tfdiags"
)

// Resource is a named collection of attribute schemas describing one
// resource kind, together with any cross-field check rules that span
// multiple attributes.
//
// A Resource is also used as the Elem of a TypeList or TypeMap schema
// to describe nested structures, in which case CheckRules apply to each
// nested structure independently.
//
// Resources are declared once, before any validation runs, and must
// never be modified afterwards.
type Resource struct {
	Schema map[string]*Schema

	// CheckRules are custom cross-field validators, run in declaration
	// order against the normalized record. They run only when every
	// field-level check passed, and the first failing rule stops the
	// remaining ones, since later rules commonly depend on earlier ones
	// holding.
	CheckRules []CheckRule
}

// CheckRule is a custom cross-field validation applied to a normalized
// record. A non-nil error fails the validation with the error's message.
type CheckRule func(r *Record) error

// Validate validates and normalizes a raw configuration map against the
// resource's schema. All field-level problems are collected and
// returned together; the cross-field CheckRules run afterwards, in
// order, only on a record whose fields all validated.
//
// The returned Record is nil whenever the diagnostics contain errors;
// a record is never partially constructed.
func (r *Resource) Validate(raw map[string]interface{}) (*Record, tfdiags.Diagnostics) {
	attrs, diags := schemaMap(r.Schema).Validate(raw)
	if diags.HasErrors() {
		return nil, diags
	}

	rec := &Record{attrs: attrs}
	for _, rule := range r.CheckRules {
		if err := rule(rec); err != nil {
			diags = diags.Append(tfdiags.Sourceless(
				tfdiags.Error,
				"Invalid resource configuration",
				err.Error(),
			))
			return nil, diags
		}
	}

	return rec, diags
}

// InternalValidate validates the format of the schema itself. This is
// called at registration time; a failure indicates a bug in the resource
// definition rather than a user input problem.
func (r *Resource) InternalValidate() error {
	return schemaMap(r.Schema).InternalValidate()
}
