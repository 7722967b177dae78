package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// ToInt converts various types to int using explicit type switching.
// It handles standard integer types, floats, strings, and byte slices.
func ToInt(val any) int {
	return int(ToInt64(val))
}

// ToInt64 converts various types to int64 using explicit type switching.
func ToInt64(val any) int64 {
	switch v := val.(type) {
	case int:
		return int64(v)
	case int64:
		return v
	case int32:
		return int64(v)
	case int16:
		return int64(v)
	case int8:
		return int64(v)
	case uint:
		return int64(v)
	case uint64:
		return int64(v)
	case uint32:
		return int64(v)
	case uint16:
		return int64(v)
	case uint8:
		return int64(v)
	case float64:
		return int64(v)
	case float32:
		return int64(v)
	case string:
		i, _ := strconv.ParseInt(v, 10, 64)
		return i
	case []byte:
		i, _ := strconv.ParseInt(string(v), 10, 64)
		return i
	case nil:
		return 0
	default:
		s := fmt.Sprintf("%v", v)
		i, _ := strconv.ParseInt(s, 10, 64)
		return i
	}
}

// ToFloat64 converts various types to float64.
func ToFloat64(val any) float64 {
	switch v := val.(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return float64(ToInt64(v))
	case string:
		f, _ := strconv.ParseFloat(v, 64)
		return f
	case []byte:
		f, _ := strconv.ParseFloat(string(v), 64)
		return f
	case nil:
		return 0
	default:
		s := fmt.Sprintf("%v", v)
		f, _ := strconv.ParseFloat(s, 64)
		return f
	}
}

// ToString converts various types to string.
func ToString(val any) string {
	switch v := val.(type) {
	case string:
		return v
	case []byte:
		return string(v)
	case nil:
		return ""
	default:
		return fmt.Sprintf("%v", v)
	}
}

// ToBool converts various types to bool.
// It handles bool, numeric types (1=true), and strings ("1", "true").
func ToBool(val any) bool {
	switch v := val.(type) {
	case bool:
		return v
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8:
		return ToInt(v) == 1
	case string:
		return v == "1" || strings.ToLower(v) == "true"
	case []byte:
		s := string(v)
		return s == "1" || strings.ToLower(s) == "true"
	default:
		return false
	}
}

// ToTime converts a value to time.Time. Strings are parsed as RFC3339 and
// falls back to a plain date (2006-01-02). The zero time is returned when
// the value cannot be interpreted.
func ToTime(val any) time.Time {
	switch v := val.(type) {
	case time.Time:
		return v
	case *time.Time:
		if v == nil {
			return time.Time{}
		}
		return *v
	case string:
		if t, err := time.Parse(time.RFC3339, v); err == nil {
			return t
		}
		if t, err := time.Parse("2006-01-02", v); err == nil {
			return t
		}
		return time.Time{}
	case int64:
		return time.Unix(v, 0).UTC()
	case int:
		return time.Unix(int64(v), 0).UTC()
	case float64:
		return time.Unix(int64(v), 0).UTC()
	default:
		return time.Time{}
	}
}

// SameValue reports whether two loosely typed field values are equal after
// normalization. Times compare by instant regardless of location, numbers
// compare numerically across int/float representations, and everything else
// compares by string form. Used for no-op update detection.
func SameValue(a, b any) bool {
	if a == nil && b == nil {
		return true
	}

	// Time comparison by instant
	if at, ok := timeValue(a); ok {
		bt, bok := timeValue(b)
		return bok && at.Equal(bt)
	}
	if _, ok := timeValue(b); ok {
		return false
	}

	// Numeric comparison when both sides look numeric
	if isNumeric(a) && isNumeric(b) {
		return ToFloat64(a) == ToFloat64(b)
	}

	// Bool comparison
	if _, ok := a.(bool); ok {
		return ToBool(a) == ToBool(b)
	}
	if _, ok := b.(bool); ok {
		return ToBool(a) == ToBool(b)
	}

	return ToString(a) == ToString(b)
}

func timeValue(val any) (time.Time, bool) {
	switch v := val.(type) {
	case time.Time:
		return v, true
	case *time.Time:
		if v == nil {
			return time.Time{}, false
		}
		return *v, true
	default:
		return time.Time{}, false
	}
}

func isNumeric(val any) bool {
	switch val.(type) {
	case int, int64, int32, int16, int8, uint, uint64, uint32, uint16, uint8, float64, float32:
		return true
	default:
		return false
	}
}
