package tfdiags

import (
	"fmt"
	"strings"

	"github.com/zclconf/go-cty/cty"
)

// Diagnostic is a single problem (or warning) detected while validating
// or synthesizing configuration. Diagnostics are used in place of plain
// Go errors so that every problem found in one pass can be reported
// together, each with enough context for a user to locate it.
type Diagnostic interface {
	Severity() Severity
	Description() Description

	// Source returns source location information, if any. Diagnostics
	// produced by pure validation (as opposed to config file parsing)
	// generally have no source information.
	Source() Source

	// Path returns the path of the attribute the diagnostic relates to,
	// or nil if the diagnostic is not about a specific attribute.
	Path() cty.Path
}

type Severity rune

const (
	Error   Severity = 'E'
	Warning Severity = 'W'
)

func (s Severity) String() string {
	switch s {
	case Error:
		return "error"
	case Warning:
		return "warning"
	default:
		return "invalid"
	}
}

// Description is the user-facing description of a diagnostic: a terse
// summary of the problem and, optionally, a longer detail elaborating
// on it.
type Description struct {
	Summary string
	Detail  string
}

// Source describes where in a source file a diagnostic arose, when the
// diagnostic came from parsing configuration files.
type Source struct {
	Subject *SourceRange
	Context *SourceRange
}

type SourceRange struct {
	Filename   string
	Start, End SourcePos
}

type SourcePos struct {
	Line, Column, Byte int
}

func (r SourceRange) String() string {
	return fmt.Sprintf("%s:%d,%d", r.Filename, r.Start.Line, r.Start.Column)
}

// FormatCtyPath renders a cty.Path in the dotted/indexed notation used
// in diagnostic messages, e.g. configuration.backend_configuration.shots
// or ingress[0].from_port.
func FormatCtyPath(path cty.Path) string {
	var buf strings.Builder
	for i, step := range path {
		switch ts := step.(type) {
		case cty.GetAttrStep:
			if i > 0 {
				buf.WriteByte('.')
			}
			buf.WriteString(ts.Name)
		case cty.IndexStep:
			switch ts.Key.Type() {
			case cty.Number:
				bf := ts.Key.AsBigFloat()
				idx, _ := bf.Int64()
				fmt.Fprintf(&buf, "[%d]", idx)
			case cty.String:
				fmt.Fprintf(&buf, "[%q]", ts.Key.AsString())
			default:
				buf.WriteString("[...]")
			}
		}
	}
	return buf.String()
}
