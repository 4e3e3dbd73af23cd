package controller

import (
	"errors"
	"fmt"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"

	"torque-generator/internal/output"
	"torque-generator/internal/source"
)

// ErrInvalidUnit is returned for unit configurations that cannot run.
var ErrInvalidUnit = errors.New("invalid generation unit")

// UnitConfig configures one generation unit.
type UnitConfig struct {
	Name   string       `mapstructure:"name"`
	Source SourceConfig `mapstructure:"source"`
	// Transformers are names known to the transformer registry, run in order.
	Transformers []string `mapstructure:"transformers"`
	// Typed binds the transformed tree to the typed schema model, which then
	// becomes the model of the start outlet.
	Typed bool `mapstructure:"typed"`
	// Outlet is the start outlet.
	Outlet string `mapstructure:"outlet"`
	// Elements selects the elements to generate one output for, relative to
	// the source root. Empty generates one output per source.
	Elements string `mapstructure:"elements"`
	// Filename is a template for the output path. It is executed like an
	// outlet template on the model of the output.
	Filename string `mapstructure:"filename"`
	// FilenameOutlet names an outlet producing the output path. It wins over
	// Filename.
	FilenameOutlet string `mapstructure:"filename_outlet"`
	// Type is an output type key; empty derives it from the file extension.
	Type      string         `mapstructure:"type"`
	Existing  string         `mapstructure:"existing"`
	LineBreak string         `mapstructure:"line_break"`
	Options   map[string]any `mapstructure:"options"`
}

// SourceConfig selects the inputs of a unit.
type SourceConfig struct {
	Dir      string   `mapstructure:"dir"`
	Includes []string `mapstructure:"includes"`
	Excludes []string `mapstructure:"excludes"`
	// Selector is a JSONPath choosing the root of JSON sources.
	Selector string `mapstructure:"selector"`
	// Packages are Go package patterns. When set, the Go packages below Dir
	// are the only source and the file settings are ignored.
	Packages []string `mapstructure:"packages"`
}

// Validate checks what can be checked without loading anything.
func (u *UnitConfig) Validate() error {
	switch {
	case u.Name == "":
		return fmt.Errorf("%w: name is required", ErrInvalidUnit)
	case u.Outlet == "":
		return fmt.Errorf("%w: %s: outlet is required", ErrInvalidUnit, u.Name)
	case u.Filename == "" && u.FilenameOutlet == "":
		return fmt.Errorf("%w: %s: filename or filename_outlet is required", ErrInvalidUnit, u.Name)
	case u.Typed && u.Elements != "":
		return fmt.Errorf("%w: %s: elements cannot be selected from a typed model", ErrInvalidUnit, u.Name)
	}

	if u.Type != "" {
		if _, err := output.LookupType(u.Type); err != nil {
			return fmt.Errorf("%s: %w", u.Name, err)
		}
	}

	if _, err := output.ParseExistingTarget(u.Existing); err != nil {
		return fmt.Errorf("%s: %w", u.Name, err)
	}

	for _, pattern := range append(slices.Clone(u.Source.Includes), u.Source.Excludes...) {
		if !doublestar.ValidatePattern(pattern) {
			return fmt.Errorf("%w: %s: invalid source pattern %q", ErrInvalidUnit, u.Name, pattern)
		}
	}

	return nil
}

// sources lists the inputs of the unit.
func (u *UnitConfig) sources(fs billy.Filesystem) ([]source.Source, error) {
	if len(u.Source.Packages) > 0 {
		dir := u.Source.Dir
		if dir != "" && fs != nil {
			dir = fs.Join(fs.Root(), dir)
		}

		return []source.Source{&source.GoPackagesSource{Dir: dir, Patterns: u.Source.Packages}}, nil
	}

	p := &source.FileProvider{
		FS:       fs,
		BaseDir:  u.Source.Dir,
		Includes: u.Source.Includes,
		Excludes: u.Source.Excludes,
		Selector: u.Source.Selector,
	}

	return p.Sources()
}

// output describes the target file at path.
func (u *UnitConfig) output(path string) (output.Output, error) {
	typ := output.TypeOf(path)

	if u.Type != "" {
		t, err := output.LookupType(u.Type)
		if err != nil {
			return output.Output{}, err
		}

		typ = t
	}

	existing, err := output.ParseExistingTarget(u.Existing)
	if err != nil {
		return output.Output{}, err
	}

	return output.Output{Path: path, Type: typ, Existing: existing, LineBreak: u.LineBreak}, nil
}
