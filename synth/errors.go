package synth

import (
	"fmt"

	"github.com/terrasynth/terrasynth/addrs"
)

// DuplicateResourceError is returned when a (type, name) pair is
// synthesized twice within one session. Duplicate identities are
// rejected outright rather than silently overwriting the earlier
// resource, since an overwrite would make the output depend on
// declaration order in a way the author almost certainly did not
// intend.
type DuplicateResourceError struct {
	Addr addrs.Resource
}

func (e DuplicateResourceError) Error() string {
	return fmt.Sprintf("duplicate resource %s: a resource with this type and name was already synthesized in this session", e.Addr)
}

// UnknownResourceTypeError is returned when synthesis is requested for
// a resource type that was never registered.
type UnknownResourceTypeError struct {
	Type string
}

func (e UnknownResourceTypeError) Error() string {
	return fmt.Sprintf("unknown resource type %q: no such type is registered", e.Type)
}
