package property

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoSuchProperty is returned when neither a field nor accessor methods match.
	ErrNoSuchProperty = errors.New("no such property")
	// ErrNotWriteable is returned when the bound property has no way to be set.
	ErrNotWriteable = errors.New("property not writeable")
	// ErrNotReadable is returned when the bound property has no getter.
	ErrNotReadable = errors.New("property not readable")
	// ErrCannotSet is returned when a value cannot be assigned to the property type.
	ErrCannotSet = errors.New("cannot set property")
)

// Error describes a failed property resolution or access.
type Error struct {
	Kind        error
	Property    string
	Target      string
	Reason      string
	Tried       []string
	Suggestions []string
}

func (e *Error) Error() string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s: %q on %s", e.Kind, e.Property, e.Target)

	if e.Reason != "" {
		b.WriteString(": " + e.Reason)
	}

	if len(e.Tried) > 0 {
		b.WriteString(" (tried " + strings.Join(e.Tried, ", ") + ")")
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("; did you mean " + strings.Join(e.Suggestions, ", ") + "?")
	}

	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Kind
}
