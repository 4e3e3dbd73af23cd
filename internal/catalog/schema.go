package catalog

import (
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"

	"torque-generator/internal/common"
)

// Catalog is the content of one catalog file.
type Catalog struct {
	Version string `yaml:"version"`
	// Debug wraps every outlet so its output is framed by comments.
	Debug       bool            `yaml:"debug,omitempty"`
	Outlets     []OutletDef     `yaml:"outlets,omitempty"`
	Mergepoints []MergepointDef `yaml:"mergepoints,omitempty"`
}

// OutletDef declares one outlet. Exactly one of Template, TemplateFile and
// Copy is set.
type OutletDef struct {
	Name string `yaml:"name"`
	// Input is the element name the outlet requires as model.
	Input        string                `yaml:"input,omitempty"`
	Template     string                `yaml:"template,omitempty"`
	TemplateFile string                `yaml:"templateFile,omitempty"`
	Copy         string                `yaml:"copy,omitempty"`
	Mergepoints  map[string]ActionList `yaml:"mergepoints,omitempty"`
}

// MergepointDef maps a mergepoint of an outlet declared elsewhere.
type MergepointDef struct {
	Outlet  string     `yaml:"outlet"`
	Name    string     `yaml:"name"`
	Actions ActionList `yaml:"actions"`
}

// ActionList is the ordered action list of a mergepoint.
type ActionList []ActionDef

// ActionKind tells which form an ActionDef has.
type ActionKind int

const (
	ActionOutput ActionKind = iota
	ActionApply
	ActionTraverse
	ActionAttribute
	ActionOption
	ActionMergepoint
)

func (k ActionKind) String() string {
	switch k {
	case ActionOutput:
		return "output"
	case ActionApply:
		return "apply"
	case ActionTraverse:
		return "traverse"
	case ActionAttribute:
		return "attribute"
	case ActionOption:
		return "option"
	case ActionMergepoint:
		return "mergepoint"
	default:
		return common.UnknownStr
	}
}

func actionKinds() map[string]ActionKind {
	kinds := make(map[string]ActionKind)
	for k := ActionOutput; k <= ActionMergepoint; k++ {
		kinds[k.String()] = k
	}

	return kinds
}

// ApplyDef is the body of an apply action.
type ApplyDef struct {
	Path         string `yaml:"path,omitempty"`
	Outlet       string `yaml:"outlet"`
	AcceptNotSet bool   `yaml:"acceptNotSet,omitempty"`
}

// TraverseDef is the body of a traverse action.
type TraverseDef struct {
	Element string `yaml:"element"`
	Outlet  string `yaml:"outlet"`
}

// ValueDef is the body of attribute and option actions. In YAML it may be
// given as just the name.
type ValueDef struct {
	Path         string  `yaml:"path,omitempty"`
	Name         string  `yaml:"name"`
	Default      *string `yaml:"default,omitempty"`
	AcceptNotSet bool    `yaml:"acceptNotSet,omitempty"`
}

// UnmarshalYAML accepts a name or a mapping.
func (v *ValueDef) UnmarshalYAML(node *yaml.Node) error {
	if node.Kind == yaml.ScalarNode {
		*v = ValueDef{Name: node.Value}
		return nil
	}

	type plain ValueDef

	var p plain
	if err := node.Decode(&p); err != nil {
		return err
	}

	*v = ValueDef(p)

	return nil
}

// ActionDef is one action of a mergepoint. Kind selects which of the other
// fields is used.
type ActionDef struct {
	Kind       ActionKind
	Output     string
	Apply      ApplyDef
	Traverse   TraverseDef
	Value      ValueDef
	Mergepoint string
}

// UnmarshalYAML implements yaml.Unmarshaler. A scalar is an output action;
// a mapping must have exactly one key naming the action kind.
func (a *ActionDef) UnmarshalYAML(node *yaml.Node) error {
	switch node.Kind {
	case yaml.ScalarNode:
		*a = ActionDef{Kind: ActionOutput, Output: node.Value}
		return nil
	case yaml.MappingNode:
	default:
		return fmt.Errorf("line %d: expected string or mapping for action", node.Line)
	}

	if len(node.Content) != 2 {
		return fmt.Errorf("line %d: action must have exactly one kind, got %d keys", node.Line, len(node.Content)/2)
	}

	key, body := node.Content[0], node.Content[1]

	kind, ok := actionKinds()[key.Value]
	if !ok {
		return fmt.Errorf("line %d: unknown action %q", key.Line, key.Value)
	}

	def := ActionDef{Kind: kind}

	var err error

	switch kind {
	case ActionOutput:
		err = body.Decode(&def.Output)
	case ActionApply:
		err = body.Decode(&def.Apply)
	case ActionTraverse:
		err = body.Decode(&def.Traverse)
	case ActionAttribute, ActionOption:
		err = body.Decode(&def.Value)
	case ActionMergepoint:
		err = body.Decode(&def.Mergepoint)
	}

	if err != nil {
		return fmt.Errorf("%s action: %w", kind, err)
	}

	*a = def

	return nil
}

// MarshalYAML writes the short form where there is one. Output text is
// always double quoted so that whitespace survives a round trip.
func (a ActionDef) MarshalYAML() (any, error) {
	switch a.Kind {
	case ActionOutput:
		return &yaml.Node{Kind: yaml.ScalarNode, Style: yaml.DoubleQuotedStyle, Tag: "!!str", Value: a.Output}, nil
	case ActionApply:
		return map[string]any{"apply": a.Apply}, nil
	case ActionTraverse:
		return map[string]any{"traverse": a.Traverse}, nil
	case ActionAttribute:
		return map[string]any{"attribute": a.Value}, nil
	case ActionOption:
		return map[string]any{"option": a.Value}, nil
	case ActionMergepoint:
		return map[string]any{"mergepoint": a.Mergepoint}, nil
	default:
		return nil, errors.New("unknown action kind")
	}
}
