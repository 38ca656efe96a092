package protocol

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// The host's state blob is decoded leniently: a field with an unexpected
// primitive type is coerced when the intent is clear and left empty
// otherwise, so one odd field never costs the whole update.

var errNotObject = errors.New("expected a JSON object")

// members splits a JSON object into its raw members. It returns nil for
// anything that is not an object.
func members(raw []byte) map[string]json.RawMessage {
	if !isObject(raw) {
		return nil
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil
	}
	return m
}

func isObject(raw []byte) bool {
	raw = bytes.TrimSpace(raw)
	return len(raw) > 0 && raw[0] == '{'
}

func isNull(raw []byte) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

// take removes key from m and returns its raw value.
func take(m map[string]json.RawMessage, key string) json.RawMessage {
	v, ok := m[key]
	if !ok {
		return nil
	}
	delete(m, key)
	return v
}

func decodeAny(raw json.RawMessage) (any, bool) {
	if len(raw) == 0 {
		return nil, false
	}
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	return v, true
}

// looseString accepts a string, a number or a boolean.
func looseString(raw json.RawMessage) string {
	v, _ := decodeAny(raw)
	switch x := v.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	default:
		return ""
	}
}

// looseInt accepts a number or a numeric string. Fractions truncate toward
// zero. Null, other types and values outside the int32 range yield nil.
func looseInt(raw json.RawMessage) *int {
	v, _ := decodeAny(raw)
	var s string
	switch x := v.(type) {
	case json.Number:
		s = x.String()
	case string:
		s = strings.TrimSpace(x)
	default:
		return nil
	}
	if n, err := strconv.ParseInt(s, 10, 32); err == nil {
		i := int(n)
		return &i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || f > math.MaxInt32 || f < math.MinInt32 {
		return nil
	}
	i := int(f)
	return &i
}

// looseBool accepts a boolean, "true"/"false" strings and numbers (non-zero
// is true).
func looseBool(raw json.RawMessage) bool {
	v, _ := decodeAny(raw)
	switch x := v.(type) {
	case bool:
		return x
	case string:
		b, _ := strconv.ParseBool(strings.TrimSpace(x))
		return b
	case json.Number:
		f, err := x.Float64()
		return err == nil && f != 0
	default:
		return false
	}
}
