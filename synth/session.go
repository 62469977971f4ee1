package synth

import (
	"fmt"

	"github.com/hashicorp/go-hclog"

	"github.com/terrasynth/terrasynth/addrs"
	"github.com/terrasynth/terrasynth/internal/logging"
	"github.com/terrasynth/terrasynth/schema"
	"github.com/terrasynth/terrasynth/tfdiags"
)

// Session is a single synthesis run: it validates resource
// configurations against a shared read-only Registry and accumulates
// the results into one Document.
//
// Sessions are deliberately sequential. Later resources commonly take
// the symbolic references produced for earlier ones as inputs, which is
// an inherent data dependency; a caller rendering many independent
// definitions concurrently should give each its own Session over the
// shared Registry.
type Session struct {
	registry *Registry
	doc      *Document
	handles  map[addrs.Resource]*Handle
	order    []addrs.Resource
	logger   hclog.Logger
}

func NewSession(registry *Registry) *Session {
	return &Session{
		registry: registry,
		doc:      newDocument(),
		handles:  make(map[addrs.Resource]*Handle),
		logger:   logging.HCLogger().Named("synth"),
	}
}

// Synthesize validates the raw attribute map against the named resource
// type's schema and, if it is fully valid, renders it into the
// session's document under the given instance name.
//
// All validation problems are returned together in the diagnostics. No
// document entry is made and no handle is returned unless validation
// passed completely; a failed resource leaves the session exactly as it
// was. The returned diagnostics may still carry warnings on success.
//
// Synthesizing the same (type, name) pair twice in one session is an
// error, and a type that was never registered is an error.
func (s *Session) Synthesize(typeName, name string, raw map[string]interface{}) (*Handle, tfdiags.Diagnostics) {
	var diags tfdiags.Diagnostics

	rt, ok := s.registry.Lookup(typeName)
	if !ok {
		diags = diags.Append(UnknownResourceTypeError{Type: typeName})
		return nil, diags
	}

	if !validTypeName.MatchString(name) {
		diags = diags.Append(tfdiags.Sourceless(
			tfdiags.Error,
			"Invalid resource name",
			fmt.Sprintf("%q is not a valid resource instance name.", name),
		))
		return nil, diags
	}

	addr := addrs.Resource{Type: typeName, Name: name}
	if _, exists := s.handles[addr]; exists {
		diags = diags.Append(DuplicateResourceError{Addr: addr})
		return nil, diags
	}

	record, valDiags := rt.Resource.Validate(raw)
	diags = diags.Append(valDiags)
	if diags.HasErrors() {
		return nil, diags
	}

	derived, err := computeDerived(rt, record)
	if err != nil {
		diags = diags.Append(err)
		return nil, diags
	}

	attrs := renderObject(rt.Resource.Schema, record.Map())
	s.doc.put(addr, attrs)

	handle := &Handle{
		addr:    addr,
		outputs: rt.Outputs,
		derived: derived,
	}
	s.handles[addr] = handle
	s.order = append(s.order, addr)

	s.logger.Debug("synthesized resource", "addr", addr.String(), "attributes", len(attrs))
	return handle, diags
}

// computeDerived evaluates the resource type's derived value functions
// against the validated record. These run before anything is committed
// to the document, so a failing computation leaves no partial state.
func computeDerived(rt *ResourceType, record *schema.Record) (map[string]interface{}, error) {
	if len(rt.Derived) == 0 {
		return nil, nil
	}
	derived := make(map[string]interface{}, len(rt.Derived))
	for name, fn := range rt.Derived {
		v, err := fn(record)
		if err != nil {
			return nil, fmt.Errorf("computing derived value %q for %s: %s", name, rt.Name, err)
		}
		derived[name] = v
	}
	return derived, nil
}

// Document returns the document built so far. The document is owned by
// the session and becomes stable once the caller stops synthesizing.
func (s *Session) Document() *Document {
	return s.doc
}

// Registry returns the registry this session resolves resource types
// against.
func (s *Session) Registry() *Registry {
	return s.registry
}

// Handle returns the handle for a previously synthesized resource.
func (s *Session) Handle(addr addrs.Resource) (*Handle, bool) {
	h, ok := s.handles[addr]
	return h, ok
}

// Resources returns the addresses of all synthesized resources in
// declaration order.
func (s *Session) Resources() []addrs.Resource {
	out := make([]addrs.Resource, len(s.order))
	copy(out, s.order)
	return out
}
