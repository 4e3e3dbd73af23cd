package qname

import "strings"

// Separator separates the parts of a namespace and a qualified name.
const Separator = "."

// Namespace is an immutable, dot separated namespace path.
type Namespace struct {
	path string
}

// RootNamespace is the empty namespace. Everything is visible from it
// downwards, and it is the last stop of every ancestor walk.
var RootNamespace = Namespace{}

// NewNamespace creates a namespace from its dotted string form.
func NewNamespace(path string) Namespace {
	return Namespace{path: path}
}

// NewChildNamespace creates the namespace named part below parent.
func NewChildNamespace(parent Namespace, part string) Namespace {
	if parent.IsRoot() {
		return Namespace{path: part}
	}

	return Namespace{path: parent.path + Separator + part}
}

// IsRoot returns true for the root namespace.
func (n Namespace) IsRoot() bool {
	return n.path == ""
}

// Parent strips the last path segment. The parent of root is root.
func (n Namespace) Parent() Namespace {
	idx := strings.LastIndex(n.path, Separator)
	if idx < 0 {
		return RootNamespace
	}

	return Namespace{path: n.path[:idx]}
}

// Parts returns the path segments, or nil for the root namespace.
func (n Namespace) Parts() []string {
	if n.IsRoot() {
		return nil
	}

	return strings.Split(n.path, Separator)
}

// IsVisibleTo reports whether names in n can be seen from other, i.e.
// whether other is root, equal to n, or an ancestor of n.
func (n Namespace) IsVisibleTo(other Namespace) bool {
	if other.IsRoot() {
		return true
	}

	if !strings.HasPrefix(n.path, other.path) {
		return false
	}

	if len(n.path) == len(other.path) {
		return true
	}

	return strings.HasPrefix(n.path[len(other.path):], Separator)
}

// IsVisibleFrom is the mirror of IsVisibleTo: n.IsVisibleFrom(o) == o.IsVisibleTo(n).
// A namespace is visible from itself and from all of its descendants.
func (n Namespace) IsVisibleFrom(other Namespace) bool {
	return other.IsVisibleTo(n)
}

// String returns the dotted form; root is "".
func (n Namespace) String() string {
	return n.path
}
