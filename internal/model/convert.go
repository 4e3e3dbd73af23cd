package model

import (
	"fmt"
	"reflect"

	"torque-generator/internal/property"
)

// ScalarToString formats numbers and booleans for string fields. YAML and
// JSON sources carry typed attribute values where XML only has strings.
type ScalarToString struct{}

func (ScalarToString) Accepts(value any, target reflect.Type) bool {
	if target.Kind() != reflect.String {
		return false
	}

	switch reflect.ValueOf(value).Kind() {
	case reflect.Bool,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

func (ScalarToString) Convert(value any, target reflect.Type) (reflect.Value, error) {
	return reflect.ValueOf(fmt.Sprint(value)).Convert(target), nil
}

// Converters returns the converters used when binding schema trees.
func Converters() *property.ConverterRegistry {
	r := property.DefaultConverters()
	r.Register(ScalarToString{})

	return r
}
