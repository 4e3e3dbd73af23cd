package source

import (
	"context"
	"fmt"
	"go/types"
	"reflect"
	"strings"

	"github.com/hashicorp/go-multierror"
	"golang.org/x/tools/go/packages"
)

// GoPackagesLoadMode is what LoadGoPackages asks go/packages for.
const GoPackagesLoadMode = packages.NeedName |
	packages.NeedFiles |
	packages.NeedTypes |
	packages.NeedImports

// LoadGoPackages type-checks the packages matching patterns (relative to dir
// when not empty) and describes their exported struct types:
//
//	packages
//	  package(name, path)
//	    struct(name)
//	      field(name, type, tag, embedded)
//
// Field types are printed relative to the declaring package.
func LoadGoPackages(ctx context.Context, dir string, patterns ...string) (*Element, error) {
	cfg := &packages.Config{
		Mode:    GoPackagesLoadMode,
		Context: ctx,
		Dir:     dir,
	}

	pkgs, err := packages.Load(cfg, patterns...)
	if err != nil {
		return nil, fmt.Errorf("failed to load packages: %w", err)
	}

	var errs *multierror.Error

	for _, pkg := range pkgs {
		for _, e := range pkg.Errors {
			errs = multierror.Append(errs, e)
		}
	}

	if err := errs.ErrorOrNil(); err != nil {
		return nil, fmt.Errorf("package errors: %w", err)
	}

	root := NewElement("packages")
	for _, pkg := range pkgs {
		root.AddChild(packageElement(pkg))
	}

	return root, nil
}

func packageElement(pkg *packages.Package) *Element {
	e := NewElement("package")
	e.SetAttribute("name", pkg.Name)
	e.SetAttribute("path", pkg.PkgPath)

	qualifier := types.RelativeTo(pkg.Types)
	scope := pkg.Types.Scope()

	for _, name := range scope.Names() {
		typeName, ok := scope.Lookup(name).(*types.TypeName)
		if !ok || !typeName.Exported() || typeName.IsAlias() {
			continue
		}

		st, ok := typeName.Type().Underlying().(*types.Struct)
		if !ok {
			continue
		}

		s := NewElement("struct")
		s.SetAttribute("name", name)

		for i := range st.NumFields() {
			field := st.Field(i)
			if !field.Exported() {
				continue
			}

			f := NewElement("field")
			f.SetAttribute("name", field.Name())
			f.SetAttribute("type", types.TypeString(field.Type(), qualifier))

			if tag := st.Tag(i); tag != "" {
				f.SetAttribute("tag", tag)

				if json, _, _ := strings.Cut(reflect.StructTag(tag).Get("json"), ","); json != "" {
					f.SetAttribute("json", json)
				}
			}

			if field.Embedded() {
				f.SetAttribute("embedded", true)
			}

			s.AddChild(f)
		}

		e.AddChild(s)
	}

	return e
}
