package property

import (
	"fmt"
	"reflect"
	"strconv"
	"strings"
)

// Converter turns a value into one assignable to a target type.
type Converter interface {
	Accepts(value any, target reflect.Type) bool
	Convert(value any, target reflect.Type) (reflect.Value, error)
}

// ConverterRegistry is an ordered list of converters; the first one that
// accepts a (value, target type) pair is used.
type ConverterRegistry struct {
	converters []Converter
}

// NewConverterRegistry creates a registry holding converters in order.
func NewConverterRegistry(converters ...Converter) *ConverterRegistry {
	return &ConverterRegistry{converters: converters}
}

// DefaultConverters returns a registry parsing strings into booleans, integers and floats.
func DefaultConverters() *ConverterRegistry {
	return NewConverterRegistry(StringToBool{}, StringToInt{}, StringToFloat{})
}

// Register appends c.
func (r *ConverterRegistry) Register(c Converter) {
	r.converters = append(r.converters, c)
}

// Find returns the first converter accepting the pair, or nil.
func (r *ConverterRegistry) Find(value any, target reflect.Type) Converter {
	if r == nil {
		return nil
	}

	for _, c := range r.converters {
		if c.Accepts(value, target) {
			return c
		}
	}

	return nil
}

func stringValue(value any) (string, bool) {
	v := reflect.ValueOf(value)
	if !v.IsValid() || v.Kind() != reflect.String {
		return "", false
	}

	return v.String(), true
}

// StringToBool parses true/false, yes/no, on/off and 1/0, ignoring case.
type StringToBool struct{}

func (StringToBool) Accepts(value any, target reflect.Type) bool {
	_, ok := stringValue(value)
	return ok && target.Kind() == reflect.Bool
}

func (StringToBool) Convert(value any, target reflect.Type) (reflect.Value, error) {
	s, _ := stringValue(value)

	var b bool

	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "on", "1":
		b = true
	case "false", "no", "off", "0", "":
		b = false
	default:
		return reflect.Value{}, fmt.Errorf("%q is not a boolean", s)
	}

	return reflect.ValueOf(b).Convert(target), nil
}

// StringToInt parses decimal integers into any integer kind.
type StringToInt struct{}

func (StringToInt) Accepts(value any, target reflect.Type) bool {
	if _, ok := stringValue(value); !ok {
		return false
	}

	switch target.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return true
	default:
		return false
	}
}

func (StringToInt) Convert(value any, target reflect.Type) (reflect.Value, error) {
	s, _ := stringValue(value)
	s = strings.TrimSpace(s)

	switch target.Kind() {
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n, err := strconv.ParseUint(s, 10, target.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(n).Convert(target), nil
	default:
		n, err := strconv.ParseInt(s, 10, target.Bits())
		if err != nil {
			return reflect.Value{}, err
		}

		return reflect.ValueOf(n).Convert(target), nil
	}
}

// StringToFloat parses floating point numbers.
type StringToFloat struct{}

func (StringToFloat) Accepts(value any, target reflect.Type) bool {
	_, ok := stringValue(value)
	return ok && (target.Kind() == reflect.Float32 || target.Kind() == reflect.Float64)
}

func (StringToFloat) Convert(value any, target reflect.Type) (reflect.Value, error) {
	s, _ := stringValue(value)

	f, err := strconv.ParseFloat(strings.TrimSpace(s), target.Bits())
	if err != nil {
		return reflect.Value{}, err
	}

	return reflect.ValueOf(f).Convert(target), nil
}
