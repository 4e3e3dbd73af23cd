package catalog

import (
	"fmt"
	"path"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	"gopkg.in/yaml.v3"

	"torque-generator/internal/outlet"
)

// Parse validates and decodes YAML catalog data.
func Parse(data []byte) (*Catalog, error) {
	if err := Validate(data); err != nil {
		return nil, err
	}

	var c Catalog
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("failed to parse catalog YAML: %w", err)
	}

	applyDefaults(&c)

	return &c, nil
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(c *Catalog) {
	if c.Version == "" {
		c.Version = "1"
	}

	for i := range c.Outlets {
		for _, actions := range c.Outlets[i].Mergepoints {
			defaultActions(actions)
		}
	}

	for i := range c.Mergepoints {
		defaultActions(c.Mergepoints[i].Actions)
	}
}

func defaultActions(actions ActionList) {
	for i := range actions {
		if a := &actions[i]; a.Kind == ActionApply && a.Apply.Path == "" {
			a.Apply.Path = "."
		}
	}
}

// Marshal serializes a catalog to YAML.
func Marshal(c *Catalog) ([]byte, error) {
	return yaml.Marshal(c)
}

// File is a parsed catalog together with the directory its file references
// are relative to.
type File struct {
	*Catalog
	Dir string
}

// ReadFile reads and parses the catalog at name.
func ReadFile(fs billy.Filesystem, name string) (*File, error) {
	data, err := util.ReadFile(fs, name)
	if err != nil {
		return nil, fmt.Errorf("failed to read catalog %s: %w", name, err)
	}

	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", name, err)
	}

	return &File{Catalog: c, Dir: path.Dir(name)}, nil
}

// Load reads the named catalogs and builds one configuration of all of them.
// Separate mergepoint mappings may refer to outlets of any of the files.
func Load(fs billy.Filesystem, names ...string) (*outlet.Configuration, error) {
	files := make([]*File, 0, len(names))

	for _, name := range names {
		f, err := ReadFile(fs, name)
		if err != nil {
			return nil, err
		}

		files = append(files, f)
	}

	return Build(fs, files...)
}
