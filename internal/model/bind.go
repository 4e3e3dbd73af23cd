package model

import (
	"errors"
	"fmt"
	"reflect"

	log "github.com/sirupsen/logrus"

	"torque-generator/internal/property"
	"torque-generator/internal/source"
)

var (
	// ErrNotDatabase is returned when binding a tree whose root is not a database.
	ErrNotDatabase = errors.New("root element is not a database")
	// ErrUnsupportedField is returned for fields that cannot hold an element.
	ErrUnsupportedField = errors.New("field cannot hold an element")
)

// Binder fills model objects from element trees.
type Binder struct {
	Config property.Config
	// Strict makes unknown attributes and elements an error. Otherwise they
	// are skipped.
	Strict bool

	bound map[uint32]reflect.Value
}

// NewBinder returns a lenient binder with the model converters.
func NewBinder() *Binder {
	cfg := property.DefaultConfig()
	cfg.Converters = Converters()

	return &Binder{Config: cfg}
}

// Bind converts a database tree with a lenient binder.
func Bind(root *source.Element) (*Database, error) {
	return NewBinder().Bind(root)
}

// Bind converts a database tree.
func (b *Binder) Bind(root *source.Element) (*Database, error) {
	if root == nil || root.Name() != "database" {
		name := "<nil>"
		if root != nil {
			name = root.Name()
		}

		return nil, fmt.Errorf("%w: %s", ErrNotDatabase, name)
	}

	db := &Database{}
	if err := b.BindInto(root, db); err != nil {
		return nil, err
	}

	return db, nil
}

// BindInto fills target, a pointer to a struct, from el.
func (b *Binder) BindInto(el *source.Element, target any) error {
	if b.bound == nil {
		b.bound = make(map[uint32]reflect.Value)
	}

	v := reflect.ValueOf(target)
	if v.Kind() != reflect.Pointer || v.Elem().Kind() != reflect.Struct {
		return fmt.Errorf("%w: %T is not a pointer to a struct", ErrUnsupportedField, target)
	}

	return b.fill(el, v)
}

func (b *Binder) fill(el *source.Element, ptr reflect.Value) error {
	b.bound[el.ID()] = ptr
	target := ptr.Interface()

	for _, name := range el.AttributeNames() {
		acc, err := b.Config.Access(target, name)
		if err != nil {
			if err := b.unknown(el, "attribute", name, err); err != nil {
				return err
			}

			continue
		}

		if err := acc.SetPropertyStrict(el.Attribute(name)); err != nil {
			return fmt.Errorf("%s: attribute %s: %w", describe(el), name, err)
		}
	}

	for _, child := range el.Children() {
		acc, err := b.Config.Access(target, child.Name())
		if err != nil {
			if err := b.unknown(el, "element", child.Name(), err); err != nil {
				return err
			}

			continue
		}

		items := []*source.Element{child}
		if acc.HasOption(property.CollectorOption) {
			items = child.Children()
		}

		for _, item := range items {
			value, err := b.object(item, itemType(acc.Type()))
			if err != nil {
				return err
			}

			if err := acc.SetProperty(value.Interface()); err != nil {
				return fmt.Errorf("%s: element %s: %w", describe(el), child.Name(), err)
			}
		}
	}

	return nil
}

// object returns the model value for el, reusing the value of an element
// bound before.
func (b *Binder) object(el *source.Element, t reflect.Type) (reflect.Value, error) {
	switch {
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		if v, ok := b.bound[el.ID()]; ok && v.Type() == t {
			return v, nil
		}

		v := reflect.New(t.Elem())

		return v, b.fill(el, v)
	case t.Kind() == reflect.Struct:
		v := reflect.New(t)
		if err := b.fill(el, v); err != nil {
			return reflect.Value{}, err
		}

		return v.Elem(), nil
	case t.Kind() == reflect.String:
		return reflect.ValueOf(el.Text()).Convert(t), nil
	default:
		return reflect.Value{}, fmt.Errorf("%w: %s for element %s", ErrUnsupportedField, t, describe(el))
	}
}

func (b *Binder) unknown(el *source.Element, kind, name string, err error) error {
	if b.Strict {
		return fmt.Errorf("%s: %s %s: %w", describe(el), kind, name, err)
	}

	log.WithFields(log.Fields{
		"element": describe(el),
		kind:      name,
	}).Debug("skipping unknown member")

	return nil
}

func itemType(t reflect.Type) reflect.Type {
	if t.Kind() == reflect.Slice {
		return t.Elem()
	}

	return t
}

func describe(el *source.Element) string {
	p, err := source.Path(el)
	if err != nil {
		return el.Name()
	}

	if name := el.AttributeString("name"); name != "" {
		return p + "[" + name + "]"
	}

	return p
}
