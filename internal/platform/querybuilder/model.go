package querybuilder

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/jmoiron/sqlx/reflectx"
)

// modelMapper resolves columns the same way sqlx scans rows, so a struct
// used with Get/Select can be inserted with the same tags.
var modelMapper = reflectx.NewMapperFunc("db", strings.ToLower)

// InsertModel builds an INSERT for every top-level field of model that has an
// explicit db tag.
func InsertModel(table string, model any, suffix string) (string, []any, error) {
	value := reflect.ValueOf(model)
	for value.Kind() == reflect.Pointer {
		if value.IsNil() {
			return "", nil, fmt.Errorf("model cannot be nil")
		}
		value = value.Elem()
	}
	if value.Kind() != reflect.Struct {
		return "", nil, fmt.Errorf("model must be struct, got %s", value.Kind())
	}

	fields := modelMapper.TypeMap(value.Type()).Index
	cols := make([]string, 0, len(fields))
	vals := make([]any, 0, len(fields))
	for _, field := range fields {
		if len(field.Index) != 1 || field.Field.Tag.Get("db") == "" {
			continue
		}
		cols = append(cols, field.Name)
		vals = append(vals, value.FieldByIndex(field.Index).Interface())
	}
	if len(cols) == 0 {
		return "", nil, fmt.Errorf("model %s has no db columns", value.Type())
	}

	return InsertInto(table).Columns(cols...).Values(vals...).Suffix(suffix).ToSQL()
}
