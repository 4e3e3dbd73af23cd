package property

import (
	"errors"
	"reflect"
	"strings"
)

var errorType = reflect.TypeFor[error]()

type binding interface {
	describe() string
	valueType() reflect.Type
	readable() bool
	writeable() bool
	get() (reflect.Value, error)
	set(reflect.Value) error
}

type fieldBinding struct {
	field reflect.StructField
	value reflect.Value
}

func (b *fieldBinding) describe() string        { return "field " + b.field.Name }
func (b *fieldBinding) valueType() reflect.Type { return b.field.Type }
func (b *fieldBinding) readable() bool          { return true }
func (b *fieldBinding) writeable() bool         { return b.value.CanSet() }

func (b *fieldBinding) get() (reflect.Value, error) {
	return b.value, nil
}

func (b *fieldBinding) set(v reflect.Value) error {
	if !b.value.CanSet() {
		return errNotAddressable
	}

	b.value.Set(v)

	return nil
}

type methodBinding struct {
	name   string
	typ    reflect.Type
	getter reflect.Value
	setter reflect.Value
}

func (b *methodBinding) describe() string        { return "methods of " + b.name }
func (b *methodBinding) valueType() reflect.Type { return b.typ }
func (b *methodBinding) readable() bool          { return b.getter.IsValid() }
func (b *methodBinding) writeable() bool         { return b.setter.IsValid() }

func (b *methodBinding) get() (reflect.Value, error) {
	out := b.getter.Call(nil)
	if len(out) == 2 && !out[1].IsNil() {
		return reflect.Value{}, out[1].Interface().(error)
	}

	return out[0], nil
}

func (b *methodBinding) set(v reflect.Value) error {
	out := b.setter.Call([]reflect.Value{v})
	if len(out) == 1 && !out[0].IsNil() {
		return out[0].Interface().(error)
	}

	return nil
}

// lookupField finds an exported, non-embedded field of the struct value v
// by tag or by name. The tag wins over a field whose name merely matches.
func lookupField(v reflect.Value, tag, name string) (*fieldBinding, bool) {
	fields := reflect.VisibleFields(v.Type())

	var found *reflect.StructField

	if tag != "" {
		for i, f := range fields {
			if !f.IsExported() || f.Anonymous {
				continue
			}

			if tagged, _ := ParseTag(f); tagged == tag {
				found = &fields[i]
				break
			}
		}
	}

	if found == nil {
		for i, f := range fields {
			if f.IsExported() && !f.Anonymous && strings.EqualFold(f.Name, name) {
				found = &fields[i]
				break
			}
		}
	}

	if found == nil {
		return nil, false
	}

	fv, err := v.FieldByIndexErr(found.Index)
	if err != nil {
		// promoted through a nil embedded pointer
		return nil, false
	}

	return &fieldBinding{field: *found, value: fv}, true
}

// lookupMethods finds a getter (Name, GetName or IsName) and a setter
// (SetName) on recv. At least one must exist.
func lookupMethods(recv reflect.Value, name string) (*methodBinding, bool) {
	b := &methodBinding{name: name}

	for _, candidate := range []string{name, "Get" + name, "Is" + name} {
		if m := recv.MethodByName(candidate); m.IsValid() && isGetter(m.Type()) {
			b.getter = m
			b.typ = m.Type().Out(0)

			break
		}
	}

	if m := recv.MethodByName("Set" + name); m.IsValid() && isSetter(m.Type()) {
		b.setter = m
		if b.typ == nil {
			b.typ = m.Type().In(0)
		}
	}

	if !b.getter.IsValid() && !b.setter.IsValid() {
		return nil, false
	}

	return b, true
}

func isGetter(t reflect.Type) bool {
	if t.NumIn() != 0 {
		return false
	}

	return t.NumOut() == 1 || (t.NumOut() == 2 && t.Out(1) == errorType)
}

func isSetter(t reflect.Type) bool {
	if t.NumIn() != 1 {
		return false
	}

	return t.NumOut() == 0 || (t.NumOut() == 1 && t.Out(0) == errorType)
}

var errNotAddressable = errors.New("target is not addressable")
