package qname

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidName is returned for blank local names and names containing the separator.
var ErrInvalidName = errors.New("invalid qualified name")

// QualifiedName is an immutable (namespace, local name) pair.
type QualifiedName struct {
	namespace Namespace
	name      string
}

// New creates a qualified name from a local name and a namespace.
func New(name string, namespace Namespace) (QualifiedName, error) {
	if strings.TrimSpace(name) == "" {
		return QualifiedName{}, fmt.Errorf("%w: name must not be blank", ErrInvalidName)
	}

	if strings.Contains(name, Separator) {
		return QualifiedName{}, fmt.Errorf("%w: name %q must not contain %q", ErrInvalidName, name, Separator)
	}

	return QualifiedName{namespace: namespace, name: name}, nil
}

// Parse parses "namespace.name". Without a separator the name lives in the root namespace.
func Parse(s string) (QualifiedName, error) {
	return ParseIn(s, RootNamespace)
}

// ParseIn parses s, splitting on the last separator. When s has no separator
// the local name is placed in defaultNamespace.
func ParseIn(s string, defaultNamespace Namespace) (QualifiedName, error) {
	idx := strings.LastIndex(s, Separator)
	if idx < 0 {
		return New(s, defaultNamespace)
	}

	return New(s[idx+1:], NewNamespace(s[:idx]))
}

// MustParse is like Parse but panics on error. Intended for constants and tests.
func MustParse(s string) QualifiedName {
	qn, err := Parse(s)
	if err != nil {
		panic(err)
	}

	return qn
}

// Name returns the local name.
func (q QualifiedName) Name() string {
	return q.name
}

// Namespace returns the namespace of the name.
func (q QualifiedName) Namespace() Namespace {
	return q.namespace
}

// IsZero returns true for the zero value, which is not a valid name.
func (q QualifiedName) IsZero() bool {
	return q.name == ""
}

// IsVisibleFrom reports whether the name can be seen from namespace.
func (q QualifiedName) IsVisibleFrom(namespace Namespace) bool {
	return q.namespace.IsVisibleFrom(namespace)
}

// IsVisibleTo reports whether the name's namespace is visible to namespace.
func (q QualifiedName) IsVisibleTo(namespace Namespace) bool {
	return q.namespace.IsVisibleTo(namespace)
}

// WithNamespace returns the same local name in another namespace.
func (q QualifiedName) WithNamespace(namespace Namespace) QualifiedName {
	return QualifiedName{namespace: namespace, name: q.name}
}

// String returns "namespace.name", or just "name" in the root namespace.
func (q QualifiedName) String() string {
	if q.namespace.IsRoot() {
		return q.name
	}

	return q.namespace.path + Separator + q.name
}
