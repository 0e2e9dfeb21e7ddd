package engine

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// NormalizeScalar converts a driver value to one of nil, int64, float64,
// string or []byte.
//
// Lists, structs and maps are rendered in DuckDB literal syntax, such as
// [1, 2], {'a': 1} and {k=v}, which casts back to the nested type.
func NormalizeScalar(v any) any {
	switch x := v.(type) {
	case nil, int64, float64, string, []byte:
		return x
	case int:
		return int64(x)
	case int8:
		return int64(x)
	case int16:
		return int64(x)
	case int32:
		return int64(x)
	case uint8:
		return int64(x)
	case uint16:
		return int64(x)
	case uint32:
		return int64(x)
	case uint:
		return normalizeUint(uint64(x))
	case uint64:
		return normalizeUint(x)
	case float32:
		return float64(x)
	case bool:
		if x {
			return int64(1)
		}
		return int64(0)
	case time.Time:
		return formatTime(x)
	case fmt.Stringer:
		return x.String()
	}

	rv := reflect.ValueOf(v)
	if isUUID(rv) {
		var u uuid.UUID
		reflect.Copy(reflect.ValueOf(u[:]), rv)
		return u.String()
	}
	switch rv.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		var sb strings.Builder
		writeNested(&sb, rv)
		return sb.String()
	}
	return fmt.Sprint(v)
}

func isUUID(rv reflect.Value) bool {
	return rv.Kind() == reflect.Array && rv.Len() == 16 && rv.Type().Elem().Kind() == reflect.Uint8
}

// writeNested writes a list, struct or map value in DuckDB literal syntax.
func writeNested(sb *strings.Builder, rv reflect.Value) {
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		sb.WriteByte('[')
		for i := range rv.Len() {
			if i > 0 {
				sb.WriteString(", ")
			}
			writeElement(sb, rv.Index(i).Interface())
		}
		sb.WriteByte(']')
	case reflect.Map:
		type entry struct {
			key   string
			value any
		}
		// STRUCT values arrive keyed by field name, MAP values by any key.
		isStruct := rv.Type().Key().Kind() == reflect.String
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			var kb strings.Builder
			if isStruct {
				kb.WriteString(quoteNested(iter.Key().String()))
			} else {
				writeElement(&kb, iter.Key().Interface())
			}
			entries = append(entries, entry{key: kb.String(), value: iter.Value().Interface()})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })

		sb.WriteByte('{')
		for i, e := range entries {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(e.key)
			if isStruct {
				sb.WriteString(": ")
			} else {
				sb.WriteByte('=')
			}
			writeElement(sb, e.value)
		}
		sb.WriteByte('}')
	}
}

func writeElement(sb *strings.Builder, v any) {
	if b, ok := v.(bool); ok {
		sb.WriteString(strconv.FormatBool(b))
		return
	}
	switch x := NormalizeScalar(v).(type) {
	case nil:
		sb.WriteString("NULL")
	case int64:
		sb.WriteString(strconv.FormatInt(x, 10))
	case float64:
		sb.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
	case []byte:
		sb.WriteString(quoteNested(string(x)))
	case string:
		if isNested(v) {
			sb.WriteString(x)
		} else {
			sb.WriteString(quoteNested(x))
		}
	}
}

func isNested(v any) bool {
	if _, ok := v.([]byte); ok {
		return false
	}
	if _, ok := v.(fmt.Stringer); ok {
		return false
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Map:
		return true
	case reflect.Array:
		return !isUUID(rv)
	}
	return false
}

// quoteNested quotes a string inside a nested literal.
func quoteNested(s string) string {
	return "'" + strings.ReplaceAll(strings.ReplaceAll(s, `\`, `\\`), "'", `\'`) + "'"
}

func normalizeUint(u uint64) any {
	if u > math.MaxInt64 {
		return strconv.FormatUint(u, 10)
	}
	return int64(u)
}

// formatTime renders t in SQLite's canonical text form.
func formatTime(t time.Time) string {
	layout := "2006-01-02 15:04:05"
	if t.Nanosecond() != 0 {
		layout += ".999999999"
	}
	if t.Location() != time.UTC {
		layout += "-07:00"
	}
	return t.Format(layout)
}
