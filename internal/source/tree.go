package source

import (
	"fmt"
	"maps"
	"slices"
)

// treeElement converts decoded JSON-like data: objects become elements,
// scalar members attributes, object and array members children named by the member key.
func treeElement(name string, v any) *Element {
	e := NewElement(name)

	switch t := v.(type) {
	case map[string]any:
		for _, key := range slices.Sorted(maps.Keys(t)) {
			addTreeValue(e, key, t[key])
		}
	case nil:
	default:
		e.SetText(fmt.Sprint(t))
	}

	return e
}

func addTreeValue(e *Element, key string, v any) {
	switch t := v.(type) {
	case nil:
	case map[string]any:
		e.AddChild(treeElement(key, t))
	case []any:
		for _, item := range t {
			e.AddChild(treeElement(key, item))
		}
	default:
		e.SetAttribute(key, t)
	}
}

// singleRoot returns the only member of a document object.
func singleRoot(v any) (string, any, error) {
	obj, ok := v.(map[string]any)
	if !ok || len(obj) != 1 {
		return "", nil, fmt.Errorf("%w: expected an object with a single member naming the root element", ErrInvalidDocument)
	}

	for name, value := range obj {
		return name, value, nil
	}

	return "", nil, ErrInvalidDocument
}
