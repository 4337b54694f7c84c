package schema

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// Value is a default value after coercion: either a number or the original string.
type Value struct {
	num   float64
	str   string
	isNum bool
}

// ParseValue returns a number when raw parses as a finite number and the original
// string otherwise. It never fails.
func ParseValue(raw string) Value {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return String(raw)
	}
	f, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return String(raw)
	}
	return Number(f)
}

// Number wraps a numeric value.
func Number(f float64) Value { return Value{num: f, isNum: true} }

// String wraps a string value.
func String(s string) Value { return Value{str: s} }

// IsNumber reports whether the value was coerced to a number.
func (v Value) IsNumber() bool { return v.isNum }

// Float returns the numeric value and whether there is one.
func (v Value) Float() (float64, bool) { return v.num, v.isNum }

// String returns the textual form, suitable for feeding back into an editor.
func (v Value) String() string {
	if v.isNum {
		return strconv.FormatFloat(v.num, 'f', -1, 64)
	}
	return v.str
}

// Interface returns the value as float64 or string.
func (v Value) Interface() any {
	if v.isNum {
		return v.num
	}
	return v.str
}

// MarshalJSON writes a JSON number or string.
func (v Value) MarshalJSON() ([]byte, error) {
	return json.Marshal(v.Interface())
}

// MarshalYAML writes a YAML number or string.
func (v Value) MarshalYAML() (any, error) {
	return v.Interface(), nil
}
