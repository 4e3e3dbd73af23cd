package property

import (
	"container/list"
	"fmt"
	"reflect"
)

// Collection is implemented by container types single values can be added to.
type Collection interface {
	Add(value any)
}

// List is the Collection created for nil properties declared as Collection.
type List struct {
	Items []any
}

// Add appends value.
func (l *List) Add(value any) {
	l.Items = append(l.Items, value)
}

// Len returns the number of items.
func (l *List) Len() int {
	return len(l.Items)
}

type collectionKind int

const (
	notCollection collectionKind = iota
	setCollection
	linkedListCollection
	customCollection
)

var (
	listType       = reflect.TypeFor[*list.List]()
	collectionType = reflect.TypeFor[Collection]()
	emptyStruct    = reflect.TypeFor[struct{}]()
)

func collectionOf(t reflect.Type) collectionKind {
	switch {
	case t == listType:
		return linkedListCollection
	case t.Kind() == reflect.Map && (t.Elem() == emptyStruct || t.Elem().Kind() == reflect.Bool):
		return setCollection
	case t.Implements(collectionType):
		return customCollection
	default:
		return notCollection
	}
}

// isContainerValue reports whether value is itself a collection, in which
// case it replaces the property value instead of being added to it.
func isContainerValue(value any) bool {
	if value == nil {
		return false
	}

	t := reflect.TypeOf(value)

	switch t.Kind() {
	case reflect.Slice, reflect.Array, reflect.Map:
		return true
	default:
		return t == listType || t.Implements(collectionType)
	}
}

func (a *Accessor) addToCollection(t reflect.Type, value any) error {
	kind := collectionOf(t)

	current, err := a.get()
	if err != nil {
		return err
	}

	if nillable(t) && current.IsNil() {
		created, err := a.newCollection(t, kind)
		if err != nil {
			return err
		}

		if err := a.set(created); err != nil {
			return err
		}

		current = created
	}

	switch kind {
	case linkedListCollection:
		current.Interface().(*list.List).PushBack(value)
	case setCollection:
		key, err := a.assignable(value, t.Key())
		if err != nil {
			return err
		}

		member := reflect.Zero(t.Elem())
		if t.Elem().Kind() == reflect.Bool {
			member = reflect.ValueOf(true).Convert(t.Elem())
		}

		current.SetMapIndex(key, member)
	default:
		current.Interface().(Collection).Add(value)
	}

	return nil
}

func (a *Accessor) newCollection(t reflect.Type, kind collectionKind) (reflect.Value, error) {
	switch {
	case kind == linkedListCollection:
		return reflect.ValueOf(list.New()), nil
	case kind == setCollection:
		return reflect.MakeMap(t), nil
	case t.Kind() == reflect.Interface && reflect.TypeFor[*List]().Implements(t):
		return reflect.ValueOf(&List{}), nil
	case t.Kind() == reflect.Pointer && t.Elem().Kind() == reflect.Struct:
		return reflect.New(t.Elem()), nil
	default:
		return reflect.Value{}, a.fail(ErrCannotSet, fmt.Sprintf("cannot create a %s to add to", t))
	}
}
