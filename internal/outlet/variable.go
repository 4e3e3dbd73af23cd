package outlet

import (
	"errors"
	"fmt"
	"strings"

	"torque-generator/internal/common"
	"torque-generator/internal/qname"
)

var (
	// ErrUnknownScope is returned when parsing an unrecognised scope name.
	ErrUnknownScope = errors.New("unknown variable scope")
	// ErrNoFrame is returned when an outlet or children variable is used, or a
	// frame is popped, while no outlet frame is open.
	ErrNoFrame = errors.New("no open variable frame")
)

// Scope controls how long a variable lives and who can see it.
type Scope int

const (
	// ScopeOutlet variables are visible in the outlet that set them.
	ScopeOutlet Scope = iota
	// ScopeChildren variables are visible in the setting outlet and in every
	// outlet it invokes.
	ScopeChildren
	// ScopeFile variables live until the current output file is finished.
	ScopeFile
	// ScopeGenerator variables live for the whole run.
	ScopeGenerator
)

func (s Scope) String() string {
	switch s {
	case ScopeOutlet:
		return "outlet"
	case ScopeChildren:
		return "children"
	case ScopeFile:
		return "file"
	case ScopeGenerator:
		return "generator"
	default:
		return common.UnknownStr
	}
}

// ParseScope parses a scope name. The empty string means ScopeOutlet.
func ParseScope(s string) (Scope, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "outlet":
		return ScopeOutlet, nil
	case "children":
		return ScopeChildren, nil
	case "file":
		return ScopeFile, nil
	case "generator":
		return ScopeGenerator, nil
	default:
		return ScopeOutlet, fmt.Errorf("%w: %q", ErrUnknownScope, s)
	}
}

// Variable is a named value with a scope.
type Variable struct {
	Name  qname.QualifiedName
	Value any
	Scope Scope
}

type frame struct {
	outlet   *qname.Map[Variable]
	children *qname.Map[Variable]
}

func newFrame() frame {
	return frame{outlet: qname.NewMap[Variable](), children: qname.NewMap[Variable]()}
}

// VariableStore keeps variables of all scopes. Outlet and children variables
// live in frames that are pushed and popped with outlet invocations.
type VariableStore struct {
	frames    []frame
	file      *qname.Map[Variable]
	generator *qname.Map[Variable]
}

// NewVariableStore creates an empty store with no frame.
func NewVariableStore() *VariableStore {
	return &VariableStore{
		file:      qname.NewMap[Variable](),
		generator: qname.NewMap[Variable](),
	}
}

// Push opens a new frame.
func (s *VariableStore) Push() {
	s.frames = append(s.frames, newFrame())
}

// Pop closes the innermost frame and drops its variables.
func (s *VariableStore) Pop() error {
	if len(s.frames) == 0 {
		return fmt.Errorf("%w: pop without push", ErrNoFrame)
	}

	s.frames = s.frames[:len(s.frames)-1]

	return nil
}

// Depth returns the number of open frames.
func (s *VariableStore) Depth() int {
	return len(s.frames)
}

// Set stores v in its scope. Outlet and children variables need an open
// frame.
func (s *VariableStore) Set(v Variable) error {
	m, err := s.scope(v.Scope)
	if err != nil {
		return fmt.Errorf("setting %s: %w", v.Name, err)
	}

	m.Put(v.Name, v)

	return nil
}

// Remove deletes the variable with exactly name from scope.
func (s *VariableStore) Remove(name qname.QualifiedName, scope Scope) (bool, error) {
	m, err := s.scope(scope)
	if err != nil {
		return false, fmt.Errorf("removing %s: %w", name, err)
	}

	return m.Remove(name), nil
}

func (s *VariableStore) scope(scope Scope) (*qname.Map[Variable], error) {
	switch scope {
	case ScopeGenerator:
		return s.generator, nil
	case ScopeFile:
		return s.file, nil
	}

	if len(s.frames) == 0 {
		return nil, fmt.Errorf("%w: %s variable", ErrNoFrame, scope)
	}

	top := s.frames[len(s.frames)-1]
	if scope == ScopeChildren {
		return top.children, nil
	}

	return top.outlet, nil
}

// EndFile drops all file scoped variables.
func (s *VariableStore) EndFile() {
	s.file = qname.NewMap[Variable]()
}

// Content returns the variables currently visible. Later scopes override
// earlier ones: generator, file, children of every frame from the outermost
// in, and the outlet variables of the innermost frame.
func (s *VariableStore) Content() *qname.Map[Variable] {
	content := qname.NewMap[Variable]()
	content.PutAll(s.generator)
	content.PutAll(s.file)

	for _, f := range s.frames {
		content.PutAll(f.children)
	}

	if len(s.frames) > 0 {
		content.PutAll(s.frames[len(s.frames)-1].outlet)
	}

	return content
}

// GetInHierarchy returns the most specific visible variable for name,
// searching name's namespace and then its ancestors.
func (s *VariableStore) GetInHierarchy(name qname.QualifiedName) (Variable, bool) {
	return s.Content().GetInHierarchy(name)
}
