package outlet

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"torque-generator/internal/match"
	"torque-generator/internal/qname"
)

// ErrDuplicateOutlet is returned when two outlets share a qualified name.
var ErrDuplicateOutlet = errors.New("duplicate outlet")

// UnknownOutletError is returned when an outlet name cannot be resolved.
type UnknownOutletError struct {
	Name        string
	Namespace   qname.Namespace
	Suggestions []string
}

func (e *UnknownOutletError) Error() string {
	msg := fmt.Sprintf("unknown outlet %q", e.Name)
	if !e.Namespace.IsRoot() {
		msg += " (from namespace " + e.Namespace.String() + ")"
	}

	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}

	return msg
}

// Configuration is the catalog of outlets of a generator.
type Configuration struct {
	outlets *qname.Map[Outlet]
	// Debug wraps resolved outlets in a DebuggingWrapper.
	Debug bool
}

// NewConfiguration creates an empty catalog.
func NewConfiguration() *Configuration {
	return &Configuration{outlets: qname.NewMap[Outlet]()}
}

// AddOutlet registers o under its name.
func (c *Configuration) AddOutlet(o Outlet) error {
	if c.outlets.Contains(o.Name()) {
		return fmt.Errorf("%w: %s", ErrDuplicateOutlet, o.Name())
	}

	c.outlets.Put(o.Name(), o)

	return nil
}

// AddMergepointMapping merges a separately declared mapping into the outlet
// called outletName. Mapping a mergepoint the outlet already maps fails.
func (c *Configuration) AddMergepointMapping(outletName string, m *MergepointMapping) error {
	o, err := c.Lookup(outletName, qname.RootNamespace)
	if err != nil {
		return fmt.Errorf("mergepoint %q: %w", m.Name, err)
	}

	return o.SetMergepointMapping(m)
}

// Resolve finds the outlet called name. A name without namespace is searched
// in from and then in its ancestors.
func (c *Configuration) Resolve(name string, from qname.Namespace) (Outlet, error) {
	o, err := c.Lookup(name, from)
	if err != nil {
		return nil, err
	}

	if c.Debug {
		return NewDebuggingWrapper(o), nil
	}

	return o, nil
}

// Lookup is Resolve without debug wrapping. Outlets whose result is not
// written as file content, such as filename outlets, are looked up this way.
func (c *Configuration) Lookup(name string, from qname.Namespace) (Outlet, error) {
	qn, err := qname.ParseIn(name, from)
	if err != nil {
		return nil, err
	}

	if o, ok := c.outlets.GetInHierarchy(qn); ok && o != nil {
		return o, nil
	}

	return nil, &UnknownOutletError{Name: name, Namespace: from, Suggestions: c.suggest(name)}
}

// suggest offers outlet names close to name, comparing qualified names
// first and local names second.
func (c *Configuration) suggest(name string) []string {
	if s := match.Suggest(name, c.Names()); len(s) > 0 {
		return s
	}

	local := name
	if i := strings.LastIndex(name, qname.Separator); i >= 0 {
		local = name[i+1:]
	}

	byLocal := make(map[string][]string)

	var locals []string

	for _, k := range c.outlets.Keys() {
		if _, seen := byLocal[k.Name()]; !seen {
			locals = append(locals, k.Name())
		}

		byLocal[k.Name()] = append(byLocal[k.Name()], k.String())
	}

	var out []string
	for _, l := range match.Suggest(local, locals) {
		out = append(out, byLocal[l]...)
	}

	return out
}

// Names returns the qualified names of all outlets in sorted order.
func (c *Configuration) Names() []string {
	keys := c.outlets.Keys()

	names := make([]string, len(keys))
	for i, k := range keys {
		names[i] = k.String()
	}

	slices.Sort(names)

	return names
}

// Outlets returns all outlets sorted by name, unwrapped.
func (c *Configuration) Outlets() []Outlet {
	out := make([]Outlet, 0, c.outlets.Len())
	for _, o := range c.outlets.All() {
		out = append(out, o)
	}

	slices.SortFunc(out, func(a, b Outlet) int {
		return strings.Compare(a.Name().String(), b.Name().String())
	})

	return out
}

// Len returns the number of outlets.
func (c *Configuration) Len() int {
	return c.outlets.Len()
}
