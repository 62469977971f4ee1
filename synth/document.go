package synth

import (
	"encoding/json"

	"github.com/terrasynth/terrasynth/addrs"
)

// Document is the nested structure emitted for consumption by external
// infrastructure tooling: resource type name to instance name to the
// rendered attribute map, wrapped under a top-level "resource" key when
// serialized.
//
// A Document is built up incrementally by a Session while resources are
// synthesized, and is read-only once the run completes. Serialization
// is deterministic: identical synthesis inputs produce byte-identical
// JSON, so output files can be meaningfully diffed.
type Document struct {
	resources map[string]map[string]map[string]interface{}
}

func newDocument() *Document {
	return &Document{
		resources: make(map[string]map[string]map[string]interface{}),
	}
}

func (d *Document) put(addr addrs.Resource, attrs map[string]interface{}) {
	byName, ok := d.resources[addr.Type]
	if !ok {
		byName = make(map[string]map[string]interface{})
		d.resources[addr.Type] = byName
	}
	byName[addr.Name] = attrs
}

// Resource returns the rendered attribute map for the given address.
// The returned map is the document's own storage and must not be
// modified.
func (d *Document) Resource(addr addrs.Resource) (map[string]interface{}, bool) {
	byName, ok := d.resources[addr.Type]
	if !ok {
		return nil, false
	}
	attrs, ok := byName[addr.Name]
	return attrs, ok
}

// Len returns the number of resources in the document.
func (d *Document) Len() int {
	n := 0
	for _, byName := range d.resources {
		n += len(byName)
	}
	return n
}

// jsonDocument is the serialization shape of a Document. The
// single "resource" property follows the Terraform JSON configuration
// convention and must be preserved exactly for compatibility with
// downstream tooling.
type jsonDocument struct {
	Resource map[string]map[string]map[string]interface{} `json:"resource"`
}

func (d *Document) MarshalJSON() ([]byte, error) {
	return json.Marshal(jsonDocument{Resource: d.resources})
}

// Bytes returns the document serialized as indented JSON with a
// trailing newline, ready to be written out as a configuration file.
// Object keys are emitted in sorted order, which together with the
// deterministic rendering of attribute values makes the output stable
// across runs.
func (d *Document) Bytes() ([]byte, error) {
	buf, err := json.MarshalIndent(jsonDocument{Resource: d.resources}, "", "  ")
	if err != nil {
		return nil, err
	}
	return append(buf, '\n'), nil
}
