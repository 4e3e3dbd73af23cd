package outlet

import (
	"errors"
	"fmt"
	"reflect"
	"slices"
	"strings"

	log "github.com/sirupsen/logrus"

	"torque-generator/internal/qname"
	"torque-generator/internal/source"
)

// ErrDuplicateMergepoint is returned when a mergepoint is mapped twice for
// the same outlet.
var ErrDuplicateMergepoint = errors.New("duplicate mergepoint mapping")

// Outlet is a named unit of template execution.
type Outlet interface {
	Name() qname.QualifiedName
	// BeforeExecute checks the current model and opens the outlet's scope.
	BeforeExecute(state *State) error
	Execute(state *State) (Result, error)
	// AfterExecute closes the scope opened by BeforeExecute.
	AfterExecute(state *State) error
	// Mergepoint renders the named mergepoint. Unmapped mergepoints are empty.
	Mergepoint(name string, state *State) (string, error)
	SetMergepointMapping(m *MergepointMapping) error
	MergepointNames() []string
}

// Action produces part of a mergepoint.
type Action interface {
	Execute(state *State) (Result, error)
	String() string
}

// MergepointMapping is the ordered list of actions behind one mergepoint.
type MergepointMapping struct {
	Name    string
	Actions []Action
}

// NewMergepointMapping creates a mapping for mergepoint name.
func NewMergepointMapping(name string, actions ...Action) *MergepointMapping {
	return &MergepointMapping{Name: name, Actions: actions}
}

// ModelMismatchError reports a model an outlet cannot work on.
type ModelMismatchError struct {
	Outlet   qname.QualifiedName
	Expected string
	Actual   string
}

func (e *ModelMismatchError) Error() string {
	return fmt.Sprintf("outlet %s expects %s but the model is %s", e.Outlet, e.Expected, e.Actual)
}

// BaseOutlet holds what all outlets share: the name, the model constraints
// and the mergepoint mappings. Concrete outlets embed it and add Execute.
type BaseOutlet struct {
	name qname.QualifiedName
	// InputElementName, when set, requires the model to be a source element
	// with this name.
	InputElementName string
	// InputType, when set, requires the model to be assignable to it.
	InputType   reflect.Type
	mergepoints map[string]*MergepointMapping
}

// NewBaseOutlet creates the shared part of an outlet named name.
func NewBaseOutlet(name qname.QualifiedName) BaseOutlet {
	return BaseOutlet{name: name, mergepoints: make(map[string]*MergepointMapping)}
}

// Name returns the qualified name of the outlet.
func (b *BaseOutlet) Name() qname.QualifiedName {
	return b.name
}

// SetMergepointMapping registers m. Each mergepoint may be mapped once.
func (b *BaseOutlet) SetMergepointMapping(m *MergepointMapping) error {
	if b.mergepoints == nil {
		b.mergepoints = make(map[string]*MergepointMapping)
	}

	if _, exists := b.mergepoints[m.Name]; exists {
		return fmt.Errorf("%w: mergepoint %q of outlet %s", ErrDuplicateMergepoint, m.Name, b.name)
	}

	b.mergepoints[m.Name] = m

	return nil
}

// MergepointMapping returns the mapping for name, or nil.
func (b *BaseOutlet) MergepointMapping(name string) *MergepointMapping {
	return b.mergepoints[name]
}

// Input describes the model the outlet accepts, or "" when it accepts any.
func (b *BaseOutlet) Input() string {
	switch {
	case b.InputElementName != "":
		return b.InputElementName
	case b.InputType != nil:
		return b.InputType.String()
	default:
		return ""
	}
}

// MergepointNames returns the mapped mergepoint names in sorted order.
func (b *BaseOutlet) MergepointNames() []string {
	names := make([]string, 0, len(b.mergepoints))
	for n := range b.mergepoints {
		names = append(names, n)
	}

	slices.Sort(names)

	return names
}

// BeforeExecute validates the model and pushes the outlet together with a
// new variable frame.
func (b *BaseOutlet) BeforeExecute(state *State) error {
	if err := b.checkModel(state.Model()); err != nil {
		return err
	}

	state.PushOutlet(b)
	state.Variables.Push()

	return nil
}

// AfterExecute pops what BeforeExecute pushed.
func (b *BaseOutlet) AfterExecute(state *State) error {
	state.PopOutlet()

	return state.Variables.Pop()
}

func (b *BaseOutlet) checkModel(model any) error {
	if b.InputElementName != "" {
		el, ok := model.(*source.Element)
		if !ok || el == nil {
			return &ModelMismatchError{
				Outlet:   b.name,
				Expected: "element " + b.InputElementName,
				Actual:   fmt.Sprintf("%T", model),
			}
		}

		if el.Name() != b.InputElementName {
			return &ModelMismatchError{
				Outlet:   b.name,
				Expected: "element " + b.InputElementName,
				Actual:   "element " + el.Name(),
			}
		}
	}

	if b.InputType != nil {
		t := reflect.TypeOf(model)
		if t == nil || !t.AssignableTo(b.InputType) {
			return &ModelMismatchError{
				Outlet:   b.name,
				Expected: b.InputType.String(),
				Actual:   fmt.Sprintf("%T", model),
			}
		}
	}

	return nil
}

// Mergepoint runs the actions mapped to name in order and joins their
// string results.
func (b *BaseOutlet) Mergepoint(name string, state *State) (string, error) {
	m := b.mergepoints[name]
	if m == nil || len(m.Actions) == 0 {
		return "", nil
	}

	var sb strings.Builder

	for _, a := range m.Actions {
		res, err := a.Execute(state)
		if err != nil {
			return "", fmt.Errorf("mergepoint %q of outlet %s: %s: %w", name, b.name, a, err)
		}

		if !res.IsStringResult() {
			return "", fmt.Errorf("%w: mergepoint %q of outlet %s: action %s returned a byte result",
				ErrResultType, name, b.name, a)
		}

		sb.WriteString(res.String())
	}

	return sb.String(), nil
}

// Invoke runs o on model: BeforeExecute, Execute and AfterExecute. The
// previous model is restored afterwards, also on failure.
func Invoke(o Outlet, model any, state *State) (Result, error) {
	previous := state.Model()
	state.SetModel(model)

	defer state.SetModel(previous)

	state.Log.WithFields(log.Fields{
		"outlet": o.Name().String(),
		"model":  DescribeModel(model),
	}).Debug("invoking outlet")

	if err := o.BeforeExecute(state); err != nil {
		return Result{}, err
	}

	res, err := o.Execute(state)

	if afterErr := o.AfterExecute(state); afterErr != nil && err == nil {
		err = afterErr
	}

	if err != nil {
		return Result{}, err
	}

	return res, nil
}
