package synth

import (
	"github.com/terrasynth/terrasynth/addrs"
)

// Handle is the reference bundle returned after a resource is
// synthesized. It exposes two clearly separated channels:
//
//   - Ref/Refs: symbolic interpolation strings of the form
//     ${type.name.output}, for wiring this resource's outputs into the
//     inputs of later resources. These are opaque placeholders; they
//     carry no data.
//
//   - Derived/DerivedValue: plain values computed from this resource's
//     own validated inputs. These carry real data and are intended for
//     display or decision making, never as wiring targets.
//
// A Handle is immutable; all accessors return fresh maps.
type Handle struct {
	addr    addrs.Resource
	outputs []string
	derived map[string]interface{}
}

// Addr returns the resource identity this handle refers to.
func (h *Handle) Addr() addrs.Resource {
	return h.addr
}

// Ref returns the interpolation string for one declared output, or
// false if the resource type does not declare an output with that name.
func (h *Handle) Ref(output string) (string, bool) {
	for _, name := range h.outputs {
		if name == output {
			return h.addr.Ref(name), true
		}
	}
	return "", false
}

// Refs returns the interpolation strings for all declared outputs,
// keyed by output name.
func (h *Handle) Refs() map[string]string {
	refs := make(map[string]string, len(h.outputs))
	for _, name := range h.outputs {
		refs[name] = h.addr.Ref(name)
	}
	return refs
}

// DerivedValue returns one derived value by name.
func (h *Handle) DerivedValue(name string) (interface{}, bool) {
	v, ok := h.derived[name]
	return v, ok
}

// Derived returns all derived values, keyed by name.
func (h *Handle) Derived() map[string]interface{} {
	out := make(map[string]interface{}, len(h.derived))
	for k, v := range h.derived {
		out[k] = v
	}
	return out
}
