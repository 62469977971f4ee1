package schema

import (
	"github.com/mitchellh/mapstructure"
)

// Record is the normalized, rule-checked result of validating a raw
// configuration map against a Resource. Every required attribute is
// present (or defaulted), every value has its declared Go type, and
// every cross-field rule held.
//
// A Record is immutable after construction: accessors return copies of
// any mutable values, so holders of a Record can never disturb each
// other.
type Record struct {
	attrs map[string]interface{}
}

// Get returns the normalized value of the named top-level attribute, or
// nil if the attribute was not set and had no default.
func (r *Record) Get(key string) interface{} {
	v, _ := r.GetOk(key)
	return v
}

// GetOk returns the normalized value of the named top-level attribute
// along with whether it is present in the record.
func (r *Record) GetOk(key string) (interface{}, bool) {
	v, ok := r.attrs[key]
	if !ok {
		return nil, false
	}
	return copyValue(v), true
}

// Map returns the record's attributes as a fresh nested map, safe for
// the caller to modify.
func (r *Record) Map() map[string]interface{} {
	return copyValue(r.attrs).(map[string]interface{})
}

// Decode decodes the record into the given struct using mapstructure,
// for callers that prefer typed access over Get.
func (r *Record) Decode(into interface{}) error {
	return mapstructure.Decode(r.attrs, into)
}

// Len returns the number of attributes present in the record.
func (r *Record) Len() int {
	return len(r.attrs)
}

func copyValue(v interface{}) interface{} {
	switch tv := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(tv))
		for k, e := range tv {
			out[k] = copyValue(e)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(tv))
		for i, e := range tv {
			out[i] = copyValue(e)
		}
		return out
	default:
		return v
	}
}
