package tfdiags

import (
	"github.com/zclconf/go-cty/cty"
)

// AttributeValue returns a diagnostic about an attribute value within
// the configuration object currently being validated.
//
// The given path identifies the attribute the problem relates to. For a
// top-level attribute it is a single-element cty.Path with a
// cty.GetAttrStep; for attributes nested inside blocks, lists or maps
// the path carries the full traversal so that the caller can report the
// exact leaf that failed, no matter how deeply it is nested.
func AttributeValue(severity Severity, summary, detail string, attrPath cty.Path) Diagnostic {
	return &attributeDiagnostic{
		diagnosticBase: diagnosticBase{
			severity: severity,
			summary:  summary,
			detail:   detail,
		},
		attrPath: attrPath,
	}
}

// GetAttribute extracts an attribute cty.Path from a diagnostic if it
// contains one. Normally this is not accessed directly, and instead the
// diagnostic's path is applied while rendering it for the user.
func GetAttribute(d Diagnostic) cty.Path {
	if d, ok := d.(*attributeDiagnostic); ok {
		return d.attrPath
	}
	return nil
}

type attributeDiagnostic struct {
	diagnosticBase
	attrPath cty.Path
}

func (d *attributeDiagnostic) Path() cty.Path {
	return d.attrPath
}
