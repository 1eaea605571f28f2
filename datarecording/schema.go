package datarecording

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
)

// recordable tells if a field kind maps to a database column.
func recordable(kind reflect.Kind) bool {
	switch kind {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// fieldNames returns the column names of an entry, one per field.
func fieldNames(entry any) ([]string, error) {
	t := reflect.TypeOf(entry)
	if t == nil || t.Kind() != reflect.Struct {
		return nil, errors.New("entry must be a struct")
	}

	names := make([]string, 0, t.NumField())

	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		if !recordable(f.Type.Kind()) {
			return nil, fmt.Errorf("field %s of type %s cannot be recorded",
				f.Name, f.Type)
		}

		names = append(names, f.Name)
	}

	return names, nil
}

// fieldValues returns the values of an entry in column order.
func fieldValues(entry any) []any {
	v := reflect.ValueOf(entry)
	values := make([]any, v.NumField())

	for i := range values {
		values[i] = v.Field(i).Interface()
	}

	return values
}

// quoteIdent quotes a table or column name so that SQL keywords such as
// Index or Where can be used as names.
func quoteIdent(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

func quoteIdents(names []string) []string {
	quoted := make([]string, len(names))
	for i, n := range names {
		quoted[i] = quoteIdent(n)
	}

	return quoted
}

// A table buffers the entries of one SQLite table until the next flush.
type table struct {
	structType reflect.Type
	insertSQL  string
	entries    []any
}

func newTable(name string, sampleEntry any) (*table, string, error) {
	columns, err := fieldNames(sampleEntry)
	if err != nil {
		return nil, "", fmt.Errorf("table %s: %w", name, err)
	}

	if len(columns) == 0 {
		return nil, "", fmt.Errorf("table %s has no column", name)
	}

	marks := strings.TrimSuffix(strings.Repeat("?, ", len(columns)), ", ")

	t := &table{
		structType: reflect.TypeOf(sampleEntry),
		insertSQL:  "INSERT INTO " + quoteIdent(name) + " VALUES (" + marks + ")",
	}

	createSQL := "CREATE TABLE " + quoteIdent(name) +
		" (\n\t" + strings.Join(quoteIdents(columns), ",\n\t") + "\n);"

	return t, createSQL, nil
}
