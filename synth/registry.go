// Package synth turns validated resource configurations into a
// Terraform-compatible JSON document, and hands back reference handles
// whose symbolic output strings can be wired into later resources.
package synth

import (
	"fmt"
	"regexp"
	"sort"

	"github.com/terrasynth/terrasynth/internal/logging"
	"github.com/terrasynth/terrasynth/schema"
)

// DerivedFunc computes a plain value from a resource's validated input
// attributes. Derived values are exposed on the resource's Handle
// alongside its symbolic output references, but unlike references they
// carry real data and must never be used as wiring targets.
type DerivedFunc func(r *schema.Record) (interface{}, error)

// ResourceType pairs a resource type name with its validation schema,
// its declared output attributes, and any derived value computations.
type ResourceType struct {
	Name     string
	Resource *schema.Resource

	// Outputs are the logical output attribute names for which the
	// synthesizer produces ${type.name.output} reference strings.
	Outputs []string

	// Derived maps names to computations over the validated record.
	// Derived names must not collide with Outputs, so that the two
	// channels can never be confused.
	Derived map[string]DerivedFunc
}

// validTypeName is the set of acceptable resource type and instance
// names: the same identifier syntax the downstream tooling accepts.
var validTypeName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_-]*$`)

// Registry is a catalog of the resource types available to a synthesis
// run.
//
// A Registry is populated once, during program initialization, and is
// read-only thereafter; because of that lifecycle it may be shared
// freely between concurrent sessions without locking.
type Registry struct {
	types map[string]*ResourceType
}

func NewRegistry() *Registry {
	return &Registry{
		types: make(map[string]*ResourceType),
	}
}

// Register adds a resource type to the registry. Registering the same
// definition under the same name again is a no-op; registering a
// different definition under an existing name is an error, as is a
// structurally invalid schema. These are definition-author bugs, so
// they fail loudly at registration time rather than surfacing during
// later validation of user input.
func (r *Registry) Register(rt *ResourceType) error {
	if rt == nil || rt.Resource == nil {
		return fmt.Errorf("resource type must have a schema")
	}
	if !validTypeName.MatchString(rt.Name) {
		return fmt.Errorf("invalid resource type name %q", rt.Name)
	}

	if err := rt.Resource.InternalValidate(); err != nil {
		return fmt.Errorf("invalid schema for %s: %s", rt.Name, err)
	}

	for _, out := range rt.Outputs {
		if _, ok := rt.Derived[out]; ok {
			return fmt.Errorf("%s: %q is declared both as an output and as a derived value", rt.Name, out)
		}
	}

	if existing, ok := r.types[rt.Name]; ok {
		if existing == rt {
			return nil
		}
		return fmt.Errorf("resource type %q is already registered with a different definition", rt.Name)
	}

	r.types[rt.Name] = rt
	logging.HCLogger().Trace("registered resource type", "type", rt.Name)
	return nil
}

// MustRegister is like Register but panics on error, for use in static
// registration tables built at program start.
func (r *Registry) MustRegister(rt *ResourceType) {
	if err := r.Register(rt); err != nil {
		panic(err)
	}
}

// Lookup returns the registered resource type with the given name.
func (r *Registry) Lookup(name string) (*ResourceType, bool) {
	rt, ok := r.types[name]
	return rt, ok
}

// Types returns the names of all registered resource types in sorted
// order.
func (r *Registry) Types() []string {
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
