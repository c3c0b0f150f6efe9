package normalize

import (
	"encoding/json"
	"math"
	"strconv"
	"time"
)

// toFloat coerces a loosely-typed numeric value to a float pointer.
// Non-numeric, NaN and infinite values become nil, never zero.
func toFloat(v any) *float64 {
	var f float64
	switch x := v.(type) {
	case float64:
		f = x
	case float32:
		f = float64(x)
	case int:
		f = float64(x)
	case int64:
		f = float64(x)
	case json.Number:
		parsed, err := x.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	case string:
		parsed, err := strconv.ParseFloat(x, 64)
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return nil
	}
	return &f
}

// toInt coerces a loosely-typed value to an int64 pointer.
func toInt(v any) *int64 {
	f := toFloat(v)
	if f == nil {
		return nil
	}
	i := int64(*f)
	return &i
}

// toString returns the string form of v, or "" for non-strings.
func toString(v any) string {
	s, _ := v.(string)
	return s
}

// isoFromUnix converts unix seconds to an ISO-8601 UTC string.
// Zero and negative timestamps yield "".
func isoFromUnix(ts int64) string {
	if ts <= 0 {
		return ""
	}
	return time.Unix(ts, 0).UTC().Format(time.RFC3339)
}
