package models

import (
	"reflect"
	"strings"
	"time"

	"football-sync/core/utils"
)

var timeType = reflect.TypeOf(time.Time{})

// Apply copies loosely typed field values onto the entity's own columns,
// coercing each value to the column's Go type. Keys are canonical column
// names; keys without a matching column are ignored. Bookkeeping columns
// on Base are never touched.
func Apply(m Model, fields map[string]any) {
	v := reflect.ValueOf(m).Elem()
	t := v.Type()

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		col := columnName(field)
		if col == "" {
			continue
		}
		val, ok := fields[col]
		if !ok {
			continue
		}
		assign(v.Field(i), val)
	}
}

// snapshot returns the entity's own column values keyed by column name.
// Bookkeeping columns are excluded so no-op detection only compares what
// the provider can change.
func snapshot(m any) map[string]any {
	v := reflect.ValueOf(m).Elem()
	t := v.Type()
	out := make(map[string]any, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		field := t.Field(i)
		if field.Anonymous {
			continue
		}
		col := columnName(field)
		if col == "" {
			continue
		}
		out[col] = v.Field(i).Interface()
	}
	return out
}

// columnName extracts the column from a gorm struct tag.
func columnName(field reflect.StructField) string {
	tag := field.Tag.Get("gorm")
	for _, part := range strings.Split(tag, ";") {
		if name, ok := strings.CutPrefix(part, "column:"); ok {
			return name
		}
	}
	return ""
}

func assign(dst reflect.Value, val any) {
	if !dst.CanSet() {
		return
	}
	if dst.Type() == timeType {
		dst.Set(reflect.ValueOf(utils.ToTime(val)))
		return
	}

	switch dst.Kind() {
	case reflect.String:
		dst.SetString(utils.ToString(val))
	case reflect.Bool:
		dst.SetBool(utils.ToBool(val))
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		dst.SetInt(utils.ToInt64(val))
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n := utils.ToInt64(val)
		if n < 0 {
			n = 0
		}
		dst.SetUint(uint64(n))
	case reflect.Float32, reflect.Float64:
		dst.SetFloat(utils.ToFloat64(val))
	}
}
