package tfdiags

// Sourceless creates and returns a diagnostic with no source location
// or attribute path information. This is generally used for
// operational-type errors that relate to the overall run rather than
// to any particular attribute in the configuration.
func Sourceless(severity Severity, summary, detail string) Diagnostic {
	return diagnosticBase{
		severity: severity,
		summary:  summary,
		detail:   detail,
	}
}
