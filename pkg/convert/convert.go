// Copyright (c) 2026 Sunday. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert reads loosely typed values decoded from JSON.

Every helper reports whether the value was usable so field edits can reject
malformed input instead of storing a zero value.
*/
package convert

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// # Decoded JSON Values

// AnyToFloat64 reads a number decoded from JSON.
//
// Numeric strings are accepted because form-driven clients send them. The
// second result is false for anything else.
func AnyToFloat64(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case json.Number:
		f, err := v.Float64()
		return f, err == nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
		return f, err == nil
	}
	return 0, false
}

// AnyToInt reads a whole number decoded from JSON. Fractions are rejected.
func AnyToInt(value any) (int, bool) {
	f, ok := AnyToFloat64(value)
	if !ok || f != math.Trunc(f) {
		return 0, false
	}
	return int(f), true
}

// AnyToBool reads a boolean decoded from JSON, or its string form.
func AnyToBool(value any) (bool, bool) {
	switch v := value.(type) {
	case bool:
		return v, true
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		return b, err == nil
	}
	return false, false
}

// AnyToString reads a string decoded from JSON. Numbers and booleans are
// formatted, everything else is rejected.
func AnyToString(value any) (string, bool) {
	switch v := value.(type) {
	case string:
		return v, true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(v), true
	case json.Number:
		return v.String(), true
	}
	return "", false
}
