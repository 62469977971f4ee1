// Package addrs contains types that represent "addresses": identifiers
// that name a particular object within a synthesized configuration.
package addrs

import (
	"fmt"
)

// Resource is the identity of a single resource instance within one
// synthesis run: the pairing of its resource type name and its
// user-chosen instance name.
//
// The address is the key under which the resource appears in the
// synthesized document and the namespace under which its output
// references are produced, so it must be unique within a run.
type Resource struct {
	Type string
	Name string
}

func (r Resource) String() string {
	return fmt.Sprintf("%s.%s", r.Type, r.Name)
}

// Ref returns the symbolic interpolation string for the named output
// attribute of this resource, in the exact form understood by the
// downstream tooling: ${type.name.attribute}.
func (r Resource) Ref(attribute string) string {
	return fmt.Sprintf("${%s.%s.%s}", r.Type, r.Name, attribute)
}

// Less returns true if the receiver sorts before the other address,
// ordering by type and then by name. Used to present resources in a
// stable order.
func (r Resource) Less(other Resource) bool {
	if r.Type != other.Type {
		return r.Type < other.Type
	}
	return r.Name < other.Name
}
