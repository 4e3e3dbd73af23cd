package qname

import "iter"

// Entry is a single key/value pair of a Map.
type Entry[T any] struct {
	Name  QualifiedName
	Value T
}

// Map maps qualified names to values and keeps insertion order, so that
// lookups which have to pick between equally ranked entries are stable.
type Map[T any] struct {
	keys   []QualifiedName
	values map[QualifiedName]T
}

// NewMap creates an empty map.
func NewMap[T any]() *Map[T] {
	return &Map[T]{values: make(map[QualifiedName]T)}
}

// Put stores value under key, replacing any previous value in place.
func (m *Map[T]) Put(key QualifiedName, value T) {
	if _, exists := m.values[key]; !exists {
		m.keys = append(m.keys, key)
	}

	m.values[key] = value
}

// Get returns the value stored under exactly key.
func (m *Map[T]) Get(key QualifiedName) (T, bool) {
	v, ok := m.values[key]
	return v, ok
}

// Contains reports whether key is present, even with a zero value.
func (m *Map[T]) Contains(key QualifiedName) bool {
	_, ok := m.values[key]
	return ok
}

// Remove deletes key and reports whether it was present.
func (m *Map[T]) Remove(key QualifiedName) bool {
	if _, ok := m.values[key]; !ok {
		return false
	}

	delete(m.values, key)

	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}

	return true
}

// Len returns the number of entries.
func (m *Map[T]) Len() int {
	return len(m.keys)
}

// Keys returns the keys in insertion order.
func (m *Map[T]) Keys() []QualifiedName {
	return append([]QualifiedName(nil), m.keys...)
}

// All iterates over the entries in insertion order.
func (m *Map[T]) All() iter.Seq2[QualifiedName, T] {
	return func(yield func(QualifiedName, T) bool) {
		for _, k := range m.keys {
			if !yield(k, m.values[k]) {
				return
			}
		}
	}
}

// PutAll copies all entries of other into m.
func (m *Map[T]) PutAll(other *Map[T]) {
	for k, v := range other.All() {
		m.Put(k, v)
	}
}

// GetInHierarchy returns the value of the most specific entry for key: the
// exact key first, then the same local name in each ancestor namespace up to
// root. An entry present with a zero value still ends the search.
func (m *Map[T]) GetInHierarchy(key QualifiedName) (T, bool) {
	for {
		if v, ok := m.values[key]; ok {
			return v, true
		}

		if key.namespace.IsRoot() {
			var zero T
			return zero, false
		}

		key = QualifiedName{namespace: key.namespace.Parent(), name: key.name}
	}
}

// GetAllInHierarchy returns every entry visible from namespace, without shadowing.
func (m *Map[T]) GetAllInHierarchy(namespace Namespace) *Map[T] {
	result := NewMap[T]()

	for k, v := range m.All() {
		if k.IsVisibleFrom(namespace) {
			result.Put(k, v)
		}
	}

	return result
}

// GetInNamespaceHierarchy returns the entries visible from namespace where an
// entry in a more specific namespace hides entries with the same local name
// in its ancestor namespaces.
//
// Two visible entries sharing a local name are expected to be in an
// ancestor/descendant relation. If they are not, the one inserted first wins.
func (m *Map[T]) GetInNamespaceHierarchy(namespace Namespace) *Map[T] {
	var result []Entry[T]

	for k, v := range m.All() {
		if !k.IsVisibleFrom(namespace) {
			continue
		}

		entry := &Entry[T]{Name: k, Value: v}
		shadowed := false

		for i := range result {
			if result[i].Name.name != k.name {
				continue
			}

			if MoreSpecific(&result[i], entry) == entry {
				result = append(result[:i], result[i+1:]...)
			} else {
				shadowed = true
			}

			break
		}

		if !shadowed {
			result = append(result, *entry)
		}
	}

	out := NewMap[T]()
	for _, e := range result {
		out.Put(e.Name, e.Value)
	}

	return out
}

// MoreSpecific returns the entry whose namespace is more specific. A nil entry
// loses against a present one. The namespaces of both entries are expected to
// be ancestor and descendant of each other.
func MoreSpecific[T any](e1, e2 *Entry[T]) *Entry[T] {
	if e1 == nil {
		return e2
	}

	if e2 == nil {
		return e1
	}

	if e2.Name.namespace.IsVisibleFrom(e1.Name.namespace) {
		return e1
	}

	return e2
}
