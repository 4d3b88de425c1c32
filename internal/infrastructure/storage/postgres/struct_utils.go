package postgres

import (
	"reflect"
	"sync"
)

// column is one db-tagged field, promoted fields of embedded structs
// included. index is the path for reflect.Value.FieldByIndex.
type column struct {
	name  string
	index []int
}

var columnCache sync.Map // reflect.Type -> []column

func columnsOf(t reflect.Type) []column {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if cached, ok := columnCache.Load(t); ok {
		return cached.([]column)
	}
	var cols []column
	if t.Kind() == reflect.Struct {
		for _, f := range reflect.VisibleFields(t) {
			tag := f.Tag.Get("db")
			if f.Anonymous || tag == "" || tag == "-" {
				continue
			}
			cols = append(cols, column{name: tag, index: f.Index})
		}
	}
	columnCache.Store(t, cols)
	return cols
}

func structValue(v any) (reflect.Value, bool) {
	rv := reflect.ValueOf(v)
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return reflect.Value{}, false
		}
		rv = rv.Elem()
	}
	return rv, rv.Kind() == reflect.Struct
}

// ExtractDBColumns lists the db tags of T in declaration order, embedded
// entity.Catalog / entity.Document fields first where they are embedded.
func ExtractDBColumns[T any]() []string {
	cols := columnsOf(reflect.TypeFor[T]())
	names := make([]string, len(cols))
	for i, c := range cols {
		names[i] = c.name
	}
	return names
}

// StructToMap maps db tag to field value. Fields tagged "-" are skipped.
func StructToMap(v any) map[string]any {
	rv, ok := structValue(v)
	if !ok {
		return nil
	}
	cols := columnsOf(rv.Type())
	res := make(map[string]any, len(cols))
	for _, c := range cols {
		res[c.name] = rv.FieldByIndex(c.index).Interface()
	}
	return res
}

// RowValues returns the values of v for columns, in that order, for COPY.
// Unknown columns yield nil.
func RowValues(v any, columns []string) []any {
	m := StructToMap(v)
	out := make([]any, len(columns))
	for i, col := range columns {
		out[i] = m[col]
	}
	return out
}

// FilterColumns keeps the entries of data whose keys are table columns.
func FilterColumns(data map[string]any, allowed []string) map[string]any {
	res := make(map[string]any, len(allowed))
	for _, col := range allowed {
		if v, ok := data[col]; ok {
			res[col] = v
		}
	}
	return res
}
