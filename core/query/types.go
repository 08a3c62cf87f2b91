package query

import (
	"reflect"
	"slices"
	"time"
)

// Row maps column names to scalar values.
type Row map[string]any

// columns returns the row's column names in sorted order so generated SQL
// and argument order are deterministic.
func (r Row) columns() []string {
	cols := make([]string, 0, len(r))
	for k := range r {
		cols = append(cols, k)
	}
	slices.Sort(cols)
	return cols
}

// Order sorts results by Column, ascending unless Desc is set.
type Order struct {
	Column string
	Desc   bool
}

// Condition narrows Select, Update and Delete. Where entries are joined with
// AND and compared for equality; a nil value matches NULL. Limit 0 means no
// limit.
type Condition struct {
	Where   Row
	OrderBy []Order
	Limit   int
}

// Schema lists the tables and columns statements may reference.
// Identifiers outside the schema are rejected before any SQL is built.
type Schema map[string][]string

func (s Schema) sets() map[string]map[string]struct{} {
	out := make(map[string]map[string]struct{}, len(s))
	for table, cols := range s {
		set := make(map[string]struct{}, len(cols))
		for _, c := range cols {
			set[c] = struct{}{}
		}
		out[table] = set
	}
	return out
}

var timeType = reflect.TypeFor[time.Time]()

// supported reports whether v can be sent as a bind parameter: scalars,
// time.Time, byte slices and fixed byte arrays such as UUIDs.
func supported(v any) bool {
	if v == nil {
		return true
	}
	t := reflect.TypeOf(v)
	if t == timeType {
		return true
	}
	switch t.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice, reflect.Array:
		return t.Elem().Kind() == reflect.Uint8
	default:
		return false
	}
}
