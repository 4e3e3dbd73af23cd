package outlet

import (
	"bytes"
	"fmt"
	"text/template"

	"torque-generator/internal/match"
	"torque-generator/internal/property"
	"torque-generator/internal/qname"
	"torque-generator/internal/source"
)

// TemplateOutlet renders a text/template with the current model as data.
//
// Besides the model the template can use these functions:
//
//	mergepoint NAME            content of a mergepoint of this outlet
//	attr NAME                  attribute of the current element, or property of another model
//	var NAME                   variable visible from this outlet, nil when unset
//	vars                       visible variables by local name
//	setVar NAME VALUE [SCOPE]  set a variable (outlet, children, file or generator scope)
//	option NAME                generator option as string
//	children NAME              child elements of the current element named NAME
//	name                       name of the current element
//	lineBreak                  line break of the output
//	exported, kebab, camel     identifier case conversions
type TemplateOutlet struct {
	BaseOutlet
	tmpl *template.Template
}

// NewTemplateOutlet parses text as the template of an outlet called name.
func NewTemplateOutlet(name qname.QualifiedName, text string) (*TemplateOutlet, error) {
	tmpl, err := template.New(name.String()).Funcs(templateFuncs(nil)).Parse(text)
	if err != nil {
		return nil, fmt.Errorf("parsing template of outlet %s: %w", name, err)
	}

	return &TemplateOutlet{BaseOutlet: NewBaseOutlet(name), tmpl: tmpl}, nil
}

func (t *TemplateOutlet) Execute(state *State) (Result, error) {
	// one copy per run, mergepoints may re-enter this outlet
	tmpl, err := t.tmpl.Clone()
	if err != nil {
		return Result{}, fmt.Errorf("cloning template of outlet %s: %w", t.Name(), err)
	}

	var buf bytes.Buffer
	if err := tmpl.Funcs(templateFuncs(state)).Execute(&buf, state.Model()); err != nil {
		return Result{}, fmt.Errorf("executing template of outlet %s: %w", t.Name(), err)
	}

	return NewStringResult(buf.String()), nil
}

func templateFuncs(state *State) template.FuncMap {
	return template.FuncMap{
		"mergepoint": func(name string) (string, error) {
			o := state.CurrentOutlet()
			if o == nil {
				return "", fmt.Errorf("mergepoint %q called outside of an outlet", name)
			}

			return o.Mergepoint(name, state)
		},
		"attr": func(name string) (any, error) {
			if el, ok := state.Model().(*source.Element); ok {
				return el.AttributeString(name), nil
			}

			a, err := property.Access(state.Model(), name)
			if err != nil {
				return nil, err
			}

			return a.Get()
		},
		"var": func(name string) any {
			v, _ := state.Variable(name)
			return v
		},
		"vars": state.VisibleVariables,
		"setVar": func(name string, value any, scope ...string) (string, error) {
			sc := ScopeOutlet

			if len(scope) > 0 {
				var err error
				if sc, err = ParseScope(scope[0]); err != nil {
					return "", err
				}
			}

			return "", state.SetVariable(name, value, sc)
		},
		"option": func(name string) string {
			return state.StringOption(name)
		},
		"children": func(name string) ([]*source.Element, error) {
			el, err := state.Element()
			if err != nil {
				return nil, err
			}

			return el.ChildrenNamed(name), nil
		},
		"name": func() (string, error) {
			el, err := state.Element()
			if err != nil {
				return "", err
			}

			return el.Name(), nil
		},
		"lineBreak": func() string {
			return state.LineBreak
		},
		"exported": match.ToExportedName,
		"kebab":    match.ToKebabName,
		"camel":    match.ToLowerCamelName,
	}
}

// FuncOutlet is an outlet implemented by a Go function.
type FuncOutlet struct {
	BaseOutlet
	Fn func(state *State) (Result, error)
}

// NewFuncOutlet creates an outlet called name running fn.
func NewFuncOutlet(name qname.QualifiedName, fn func(state *State) (Result, error)) *FuncOutlet {
	return &FuncOutlet{BaseOutlet: NewBaseOutlet(name), Fn: fn}
}

func (f *FuncOutlet) Execute(state *State) (Result, error) {
	return f.Fn(state)
}
