package outlet

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	log "github.com/sirupsen/logrus"

	"torque-generator/internal/match"
	"torque-generator/internal/output"
	"torque-generator/internal/qname"
	"torque-generator/internal/source"
)

// ErrModelNotElement is returned when an element is needed but the current
// model is something else.
var ErrModelNotElement = errors.New("current model is not a source element")

// State is the mutable context of one generation unit. It is not safe for
// concurrent use.
type State struct {
	Configuration *Configuration
	Variables     *VariableStore
	// Options are generator options, looked up like variables.
	Options *qname.Map[any]
	// Root is the root of the transformed source tree.
	Root *source.Element
	// SourceFile is the path of the input, "" when there is none.
	SourceFile string
	Output     output.Output
	LineBreak  string
	Log        *log.Entry
	// Plain disables debug wrapping of outlets resolved through the state.
	Plain bool

	model   any
	outlets []*BaseOutlet
}

// NewState creates a state for cfg with empty variables and options.
func NewState(cfg *Configuration) *State {
	return &State{
		Configuration: cfg,
		Variables:     NewVariableStore(),
		Options:       qname.NewMap[any](),
		Output:        output.Output{Type: output.TypeText},
		LineBreak:     "\n",
		Log:           log.NewEntry(log.StandardLogger()),
	}
}

// ResolveOutlet finds the outlet called name as seen from the running outlet.
func (s *State) ResolveOutlet(name string) (Outlet, error) {
	if s.Plain {
		return s.Configuration.Lookup(name, s.Namespace())
	}

	return s.Configuration.Resolve(name, s.Namespace())
}

// Model returns the object the running outlet works on.
func (s *State) Model() any {
	return s.model
}

// SetModel replaces the current model.
func (s *State) SetModel(model any) {
	s.model = model
}

// Element returns the current model as a source element.
func (s *State) Element() (*source.Element, error) {
	el, ok := s.model.(*source.Element)
	if !ok || el == nil {
		return nil, fmt.Errorf("%w: %T", ErrModelNotElement, s.model)
	}

	return el, nil
}

// PushOutlet makes o the running outlet.
func (s *State) PushOutlet(o *BaseOutlet) {
	s.outlets = append(s.outlets, o)
}

// PopOutlet removes the running outlet.
func (s *State) PopOutlet() {
	if len(s.outlets) > 0 {
		s.outlets = s.outlets[:len(s.outlets)-1]
	}
}

// CurrentOutlet returns the running outlet or nil.
func (s *State) CurrentOutlet() *BaseOutlet {
	if len(s.outlets) == 0 {
		return nil
	}

	return s.outlets[len(s.outlets)-1]
}

// OutletStack returns the names of the running outlets, outermost first.
func (s *State) OutletStack() []string {
	names := make([]string, len(s.outlets))
	for i, o := range s.outlets {
		names[i] = o.Name().String()
	}

	return names
}

// Namespace returns the namespace of the running outlet, root when none runs.
func (s *State) Namespace() qname.Namespace {
	if o := s.CurrentOutlet(); o != nil {
		return o.Name().Namespace()
	}

	return qname.RootNamespace
}

// Qualify turns a variable or option name into a qualified name. Names
// without a namespace are placed in the namespace of the running outlet.
func (s *State) Qualify(name string) (qname.QualifiedName, error) {
	return qname.ParseIn(name, s.Namespace())
}

// Variable returns the value of the variable visible under name.
func (s *State) Variable(name string) (any, bool) {
	qn, err := s.Qualify(name)
	if err != nil {
		return nil, false
	}

	v, ok := s.Variables.GetInHierarchy(qn)
	if !ok {
		return nil, false
	}

	return v.Value, true
}

// VisibleVariables returns the values of the variables visible to the running
// outlet by local name. A variable in a more specific namespace hides one
// with the same local name further up.
func (s *State) VisibleVariables() map[string]any {
	visible := s.Variables.Content().GetInNamespaceHierarchy(s.Namespace())

	vars := make(map[string]any, visible.Len())
	for k, v := range visible.All() {
		vars[k.Name()] = v.Value
	}

	return vars
}

// SetVariable stores a variable under name in scope.
func (s *State) SetVariable(name string, value any, scope Scope) error {
	qn, err := s.Qualify(name)
	if err != nil {
		return fmt.Errorf("setting variable: %w", err)
	}

	return s.Variables.Set(Variable{Name: qn, Value: value, Scope: scope})
}

// Option returns the generator option visible under name.
func (s *State) Option(name string) (any, bool) {
	qn, err := s.Qualify(name)
	if err != nil {
		return nil, false
	}

	return s.Options.GetInHierarchy(qn)
}

// StringOption is Option formatted as a string, "" when unset.
func (s *State) StringOption(name string) string {
	v, ok := s.Option(name)
	if !ok || v == nil {
		return ""
	}

	if str, ok := v.(string); ok {
		return str
	}

	return fmt.Sprint(v)
}

// SuggestOptions returns set options that are visible where name would be
// and whose local name is close to it.
func (s *State) SuggestOptions(name string) []string {
	qn, err := s.Qualify(name)
	if err != nil {
		return nil
	}

	byLocal := make(map[string][]string)

	var locals []string

	for k := range s.Options.GetAllInHierarchy(qn.Namespace()).All() {
		if _, seen := byLocal[k.Name()]; !seen {
			locals = append(locals, k.Name())
		}

		byLocal[k.Name()] = append(byLocal[k.Name()], k.String())
	}

	var out []string
	for _, l := range match.Suggest(qn.Name(), locals) {
		out = append(out, byLocal[l]...)
	}

	return out
}

// SetOptions parses "namespace.name" keys into the option map.
func (s *State) SetOptions(options map[string]any) error {
	for _, k := range slices.Sorted(maps.Keys(options)) {
		qn, err := qname.Parse(k)
		if err != nil {
			return fmt.Errorf("option %q: %w", k, err)
		}

		s.Options.Put(qn, options[k])
	}

	return nil
}

// DescribeModel names a model in markers and errors: the path of an element
// followed by its name attribute, or the Go type of anything else.
func DescribeModel(model any) string {
	el, ok := model.(*source.Element)
	if !ok {
		return fmt.Sprintf("%T", model)
	}

	if el == nil {
		return "<nil element>"
	}

	p, err := source.Path(el)
	if err != nil {
		p = el.Name()
	}

	if el.HasAttribute("name") {
		p += "[" + el.AttributeString("name") + "]"
	}

	return p
}
