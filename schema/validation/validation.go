// Package validation provides reusable constraint predicates for use as
// a schema.Schema's ValidateFunc.
package validation

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/terrasynth/terrasynth/schema"
)

// All returns a SchemaValidateFunc which tests if the provided value
// passes all provided SchemaValidateFunc.
func All(validators ...schema.SchemaValidateFunc) schema.SchemaValidateFunc {
	return func(v interface{}, k string) ([]string, []error) {
		var allWarnings []string
		var allErrors []error
		for _, validator := range validators {
			ws, es := validator(v, k)
			allWarnings = append(allWarnings, ws...)
			allErrors = append(allErrors, es...)
		}
		return allWarnings, allErrors
	}
}

// Any returns a SchemaValidateFunc which tests if the provided value
// passes at least one of the provided SchemaValidateFunc.
func Any(validators ...schema.SchemaValidateFunc) schema.SchemaValidateFunc {
	return func(v interface{}, k string) ([]string, []error) {
		var allWarnings []string
		var allErrors []error
		for _, validator := range validators {
			ws, es := validator(v, k)
			if len(ws) == 0 && len(es) == 0 {
				return ws, es
			}
			allWarnings = append(allWarnings, ws...)
			allErrors = append(allErrors, es...)
		}
		return allWarnings, allErrors
	}
}

// IntBetween returns a SchemaValidateFunc which tests if the provided
// value is of type int and is between min and max (inclusive).
func IntBetween(min, max int) schema.SchemaValidateFunc {
	return func(v interface{}, k string) (ws []string, es []error) {
		value, ok := v.(int)
		if !ok {
			es = append(es, fmt.Errorf("expected type of %s to be int", k))
			return
		}

		if value < min || value > max {
			es = append(es, fmt.Errorf("expected %s to be in the range (%d - %d), got %d", k, min, max, value))
			return
		}

		return
	}
}

// IntAtLeast returns a SchemaValidateFunc which tests if the provided
// value is of type int and is at least min (inclusive).
func IntAtLeast(min int) schema.SchemaValidateFunc {
	return func(v interface{}, k string) (ws []string, es []error) {
		value, ok := v.(int)
		if !ok {
			es = append(es, fmt.Errorf("expected type of %s to be int", k))
			return
		}

		if value < min {
			es = append(es, fmt.Errorf("expected %s to be at least (%d), got %d", k, min, value))
			return
		}

		return
	}
}

// IntAtMost returns a SchemaValidateFunc which tests if the provided
// value is of type int and is at most max (inclusive).
func IntAtMost(max int) schema.SchemaValidateFunc {
	return func(v interface{}, k string) (ws []string, es []error) {
		value, ok := v.(int)
		if !ok {
			es = append(es, fmt.Errorf("expected type of %s to be int", k))
			return
		}

		if value > max {
			es = append(es, fmt.Errorf("expected %s to be at most (%d), got %d", k, max, value))
			return
		}

		return
	}
}

// FloatBetween returns a SchemaValidateFunc which tests if the provided
// value is of type float64 and is between min and max (inclusive).
func FloatBetween(min, max float64) schema.SchemaValidateFunc {
	return func(v interface{}, k string) (ws []string, es []error) {
		value, ok := v.(float64)
		if !ok {
			es = append(es, fmt.Errorf("expected type of %s to be float64", k))
			return
		}

		if value < min || value > max {
			es = append(es, fmt.Errorf("expected %s to be in the range (%f - %f), got %f", k, min, max, value))
			return
		}

		return
	}
}

// StringInSlice returns a SchemaValidateFunc which tests if the provided
// value is of type string and matches the value of an element in the
// valid slice. Matching is case-sensitive unless ignoreCase is set.
func StringInSlice(valid []string, ignoreCase bool) schema.SchemaValidateFunc {
	return func(v interface{}, k string) (ws []string, es []error) {
		value, ok := v.(string)
		if !ok {
			es = append(es, fmt.Errorf("expected type of %s to be string", k))
			return
		}

		for _, str := range valid {
			if value == str || (ignoreCase && strings.EqualFold(value, str)) {
				return
			}
		}

		es = append(es, fmt.Errorf("expected %s to be one of %v, got %s", k, valid, value))
		return
	}
}

// StringLenBetween returns a SchemaValidateFunc which tests if the
// provided value is of type string and has a length between min and max
// (inclusive).
func StringLenBetween(min, max int) schema.SchemaValidateFunc {
	return func(v interface{}, k string) (ws []string, es []error) {
		value, ok := v.(string)
		if !ok {
			es = append(es, fmt.Errorf("expected type of %s to be string", k))
			return
		}
		if len(value) < min || len(value) > max {
			es = append(es, fmt.Errorf("expected length of %s to be in the range (%d - %d), got %s", k, min, max, value))
		}
		return
	}
}

// StringMatch returns a SchemaValidateFunc which tests if the provided
// value matches a given regexp. Optionally an error message can be
// provided to return something friendlier than "must match some globby
// regexp".
func StringMatch(r *regexp.Regexp, message string) schema.SchemaValidateFunc {
	return func(v interface{}, k string) ([]string, []error) {
		value, ok := v.(string)
		if !ok {
			return nil, []error{fmt.Errorf("expected type of %s to be string", k)}
		}

		if ok := r.MatchString(value); !ok {
			if message != "" {
				return nil, []error{fmt.Errorf("invalid value for %s (%s)", k, message)}
			}
			return nil, []error{fmt.Errorf("expected value of %s to match regular expression %q, got %s", k, r, value)}
		}
		return nil, nil
	}
}

// NoZeroValues is a SchemaValidateFunc which tests if the provided value
// is not a zero value. It is useful in situations where you want to
// catch explicit zero values on things like required fields during
// validation.
func NoZeroValues(v interface{}, k string) (ws []string, es []error) {
	if reflectIsZero(v) {
		switch v.(type) {
		case string:
			es = append(es, fmt.Errorf("%s must not be empty", k))
		case int, float64:
			es = append(es, fmt.Errorf("%s must not be zero", k))
		default:
			es = append(es, fmt.Errorf("%s must not be a zero value", k))
		}
	}
	return
}

func reflectIsZero(v interface{}) bool {
	switch tv := v.(type) {
	case string:
		return tv == ""
	case int:
		return tv == 0
	case float64:
		return tv == 0
	case bool:
		return !tv
	default:
		return v == nil
	}
}
