package source

import (
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"

	"torque-generator/internal/match"
	"torque-generator/internal/property"
)

// FromObject builds an element graph from a Go value. Exported struct fields
// and string-keyed map entries holding scalars become attributes (lowerCamel
// names); structs, maps and slices of them become children (kebab-case names,
// slice fields singularised). Slices tagged with the collector option get a
// container element instead. A pointer reached twice yields the same
// element, so cyclic object graphs produce cyclic element graphs.
func FromObject(name string, obj any) (*Element, error) {
	b := &objectBuilder{seen: make(map[pointerKey]*Element)}

	e, err := b.build(name, reflect.ValueOf(obj))
	if err != nil {
		return nil, err
	}

	if e == nil {
		return nil, fmt.Errorf("%w: nil object", ErrInvalidDocument)
	}

	return e, nil
}

type pointerKey struct {
	typ reflect.Type
	ptr uintptr
}

type objectBuilder struct {
	seen map[pointerKey]*Element
}

func (b *objectBuilder) build(name string, v reflect.Value) (*Element, error) {
	v = unwrapInterface(v)
	if !v.IsValid() {
		return nil, nil
	}

	target := v

	if v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, nil
		}

		key := pointerKey{typ: v.Type(), ptr: v.Pointer()}
		if e, ok := b.seen[key]; ok {
			return e, nil
		}

		e := NewElement(name)
		b.seen[key] = e

		return e, b.fill(e, v, v.Elem())
	}

	e := NewElement(name)

	return e, b.fill(e, target, v)
}

// fill adds the members of v to e. target is the value property reads go
// through: the pointer when there is one, so accessor methods are found.
func (b *objectBuilder) fill(e *Element, target, v reflect.Value) error {
	switch v.Kind() {
	case reflect.Struct:
		for _, f := range reflect.VisibleFields(v.Type()) {
			if !f.IsExported() || f.Anonymous {
				continue
			}

			acc, err := property.Access(target.Interface(), f.Name)
			if err != nil {
				return err
			}

			value, err := acc.Get()
			if err != nil {
				return err
			}

			name, opts := property.ParseTag(f)
			if name == "" {
				name = f.Name
			}

			if slices.Contains(opts, property.CollectorOption) {
				err = b.addCollector(e, name, reflect.ValueOf(value))
			} else {
				err = b.add(e, name, reflect.ValueOf(value))
			}

			if err != nil {
				return err
			}
		}
	case reflect.Map:
		if v.Type().Key().Kind() != reflect.String {
			return fmt.Errorf("%w: map keys of %s are not strings", ErrInvalidDocument, v.Type())
		}

		keys := slices.Sorted(maps.Keys(stringKeys(v)))
		for _, key := range keys {
			if err := b.add(e, key, v.MapIndex(reflect.ValueOf(key).Convert(v.Type().Key()))); err != nil {
				return err
			}
		}
	default:
		if isScalar(v) {
			e.SetText(fmt.Sprint(v.Interface()))
		}
	}

	return nil
}

func (b *objectBuilder) add(e *Element, name string, v reflect.Value) error {
	v = unwrapInterface(v)
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Map, reflect.Slice, reflect.Pointer:
		if v.IsNil() {
			return nil
		}
	}

	switch {
	case isScalar(v):
		e.SetAttribute(match.ToLowerCamelName(name), v.Interface())
	case v.Kind() == reflect.Slice || v.Kind() == reflect.Array:
		itemName := singular(match.ToKebabName(name))

		for i := range v.Len() {
			child, err := b.build(itemName, v.Index(i))
			if err != nil {
				return err
			}

			if child != nil {
				e.AddChild(child)
			}
		}
	default:
		child, err := b.build(match.ToKebabName(name), v)
		if err != nil {
			return err
		}

		if child != nil {
			e.AddChild(child)
		}
	}

	return nil
}

// addCollector adds a container element named after the member holding one
// child per slice item. Items are named after their type.
func (b *objectBuilder) addCollector(e *Element, name string, v reflect.Value) error {
	v = unwrapInterface(v)
	if !v.IsValid() || v.Kind() != reflect.Slice || v.IsNil() {
		return nil
	}

	itemType := v.Type().Elem()
	for itemType.Kind() == reflect.Pointer {
		itemType = itemType.Elem()
	}

	itemName := "item"
	if itemType.Name() != "" {
		itemName = match.ToKebabName(itemType.Name())
	}

	container := NewElement(match.ToKebabName(name))

	for i := range v.Len() {
		child, err := b.build(itemName, v.Index(i))
		if err != nil {
			return err
		}

		if child != nil {
			container.AddChild(child)
		}
	}

	e.AddChild(container)

	return nil
}

func stringKeys(v reflect.Value) map[string]struct{} {
	keys := make(map[string]struct{}, v.Len())
	for _, k := range v.MapKeys() {
		keys[k.String()] = struct{}{}
	}

	return keys
}

func unwrapInterface(v reflect.Value) reflect.Value {
	for v.IsValid() && v.Kind() == reflect.Interface {
		if v.IsNil() {
			return reflect.Value{}
		}

		v = v.Elem()
	}

	return v
}

func isScalar(v reflect.Value) bool {
	switch v.Kind() {
	case reflect.Bool, reflect.String,
		reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	case reflect.Slice:
		return v.Type().Elem().Kind() == reflect.Uint8
	default:
		return false
	}
}

// singular derives an item element name from a collection member name.
func singular(name string) string {
	for _, suffix := range []string{"-list", "-array"} {
		if trimmed, ok := strings.CutSuffix(name, suffix); ok && trimmed != "" {
			return trimmed
		}
	}

	if strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") && len(name) > 1 {
		return strings.TrimSuffix(name, "s")
	}

	return name
}
