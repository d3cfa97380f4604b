package models

import "encoding/json"

// Record is a generic flat record as the console UI consumes it: decoded
// JSON fields keyed by name, always carrying an "id" once mapped.
type Record map[string]any

// ID returns the record's identifier, or "" when unset.
func (r Record) ID() string {
	return StringField(r, "id")
}

// StringField safely extracts a string field, returning "" if absent or
// of another type.
func StringField(obj map[string]any, field string) string {
	if v, ok := obj[field].(string); ok {
		return v
	}
	return ""
}

// ObjectField safely extracts a nested object field.
func ObjectField(obj map[string]any, field string) map[string]any {
	if v, ok := obj[field].(map[string]any); ok {
		return v
	}
	return nil
}

// NumberField converts a numeric field to float64, reporting whether the
// value was numeric at all.
func NumberField(obj map[string]any, field string) (float64, bool) {
	return ToNumber(obj[field])
}

// ToNumber converts decoded-JSON numeric types to float64.
func ToNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case json.Number:
		f, err := n.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	}
	return 0, false
}
