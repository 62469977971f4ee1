package configs

import (
	"fmt"

	"github.com/hashicorp/hcl/v2"

	"github.com/terrasynth/terrasynth/synth"
	"github.com/terrasynth/terrasynth/tfdiags"
)

// SynthesizeFile feeds every resource block in the file through the
// session, in declaration order. Blocks whose type is unknown or whose
// body fails to decode are reported and skipped, so one bad block does
// not hide problems in the rest of the file.
func SynthesizeFile(sess *synth.Session, file *File) tfdiags.Diagnostics {
	var diags tfdiags.Diagnostics

	for _, rc := range file.Resources {
		rt, ok := sess.Registry().Lookup(rc.Type)
		if !ok {
			diags = diags.Append(&hcl.Diagnostic{
				Severity: hcl.DiagError,
				Summary:  "Unknown resource type",
				Detail:   fmt.Sprintf("The resource type %q is not registered.", rc.Type),
				Subject:  &rc.DeclRange,
			})
			continue
		}

		raw, moreDiags := rc.DecodeAttrs(rt.Resource.Schema)
		diags = diags.Append(moreDiags)
		if moreDiags.HasErrors() {
			continue
		}

		_, synthDiags := sess.Synthesize(rc.Type, rc.Name, raw)
		diags = diags.Append(synthDiags)
	}

	return diags
}
