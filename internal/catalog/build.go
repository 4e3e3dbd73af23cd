package catalog

import (
	"fmt"
	"maps"
	"path"
	"slices"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"github.com/hashicorp/go-multierror"

	"torque-generator/internal/outlet"
	"torque-generator/internal/qname"
)

// Build creates the outlet configuration of files. Outlets of all files are
// registered before separate mergepoint mappings are applied. All problems
// are reported together.
func Build(fs billy.Filesystem, files ...*File) (*outlet.Configuration, error) {
	cfg := outlet.NewConfiguration()

	var errs *multierror.Error

	for _, f := range files {
		cfg.Debug = cfg.Debug || f.Debug

		for _, def := range f.Outlets {
			o, err := buildOutlet(fs, f.Dir, def)
			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("outlet %s: %w", def.Name, err))
				continue
			}

			if err := cfg.AddOutlet(o); err != nil {
				errs = multierror.Append(errs, err)
			}
		}
	}

	for _, f := range files {
		for _, def := range f.Mergepoints {
			m, err := buildMapping(def.Name, def.Actions)
			if err == nil {
				err = cfg.AddMergepointMapping(def.Outlet, m)
			}

			if err != nil {
				errs = multierror.Append(errs, fmt.Errorf("outlet %s: %w", def.Outlet, err))
			}
		}
	}

	return cfg, errs.ErrorOrNil()
}

func buildOutlet(fs billy.Filesystem, dir string, def OutletDef) (outlet.Outlet, error) {
	name, err := qname.Parse(def.Name)
	if err != nil {
		return nil, err
	}

	var (
		o    outlet.Outlet
		base *outlet.BaseOutlet
	)

	switch {
	case def.Copy != "":
		c := outlet.NewCopyOutlet(name, fs, path.Join(dir, def.Copy))
		o, base = c, &c.BaseOutlet
	case def.TemplateFile != "":
		file := path.Join(dir, def.TemplateFile)

		data, err := util.ReadFile(fs, file)
		if err != nil {
			return nil, fmt.Errorf("reading template %s: %w", file, err)
		}

		t, err := outlet.NewTemplateOutlet(name, string(data))
		if err != nil {
			return nil, err
		}

		o, base = t, &t.BaseOutlet
	default:
		t, err := outlet.NewTemplateOutlet(name, def.Template)
		if err != nil {
			return nil, err
		}

		o, base = t, &t.BaseOutlet
	}

	base.InputElementName = def.Input

	for _, mp := range slices.Sorted(maps.Keys(def.Mergepoints)) {
		m, err := buildMapping(mp, def.Mergepoints[mp])
		if err != nil {
			return nil, err
		}

		if err := o.SetMergepointMapping(m); err != nil {
			return nil, err
		}
	}

	return o, nil
}

func buildMapping(name string, defs ActionList) (*outlet.MergepointMapping, error) {
	actions := make([]outlet.Action, 0, len(defs))

	for i, def := range defs {
		a, err := def.Action()
		if err != nil {
			return nil, fmt.Errorf("mergepoint %s, action %d: %w", name, i+1, err)
		}

		actions = append(actions, a)
	}

	return outlet.NewMergepointMapping(name, actions...), nil
}

// Action creates the action the definition describes.
func (a ActionDef) Action() (outlet.Action, error) {
	switch a.Kind {
	case ActionOutput:
		return &outlet.OutputAction{Text: a.Output}, nil
	case ActionApply:
		return &outlet.ApplyAction{Path: a.Apply.Path, Outlet: a.Apply.Outlet, AcceptNotSet: a.Apply.AcceptNotSet}, nil
	case ActionTraverse:
		return &outlet.TraverseAllAction{Element: a.Traverse.Element, Outlet: a.Traverse.Outlet}, nil
	case ActionAttribute:
		return &outlet.AttributeAction{
			Path:         a.Value.Path,
			Name:         a.Value.Name,
			Default:      a.Value.Default,
			AcceptNotSet: a.Value.AcceptNotSet,
		}, nil
	case ActionOption:
		return &outlet.OptionAction{Name: a.Value.Name, Default: a.Value.Default, AcceptNotSet: a.Value.AcceptNotSet}, nil
	case ActionMergepoint:
		return &outlet.MergepointCallAction{Mergepoint: a.Mergepoint}, nil
	default:
		return nil, fmt.Errorf("unknown action kind %s", a.Kind)
	}
}
