package transform

import (
	"context"
	"errors"
	"fmt"
	"path"
	"slices"
	"sort"
	"strings"

	"github.com/go-git/go-billy/v5"
	log "github.com/sirupsen/logrus"

	"torque-generator/internal/match"
	"torque-generator/internal/source"
)

var (
	// ErrIncludeCycle is returned when a schema file includes itself,
	// directly or through other files.
	ErrIncludeCycle = errors.New("schema include cycle")
	// ErrUnknownTransformer is returned for transformer names not in a Registry.
	ErrUnknownTransformer = errors.New("unknown transformer")
)

// Transformer changes a root before generation. It may return a new root.
type Transformer interface {
	Name() string
	Transform(ctx context.Context, root Root, tc *Context) (Root, error)
}

// Context carries what transformers need besides the root.
type Context struct {
	// FS is where schema files are loaded from.
	FS billy.Filesystem
	// SourcePath is the slash separated path of the file the root was read
	// from, relative to FS. Relative file references start from its directory.
	SourcePath string
	Log        *log.Entry

	loading []string
}

// NewContext creates a context for a root read from sourcePath.
func NewContext(fs billy.Filesystem, sourcePath string) *Context {
	tc := &Context{FS: fs, SourcePath: sourcePath, Log: log.NewEntry(log.StandardLogger())}
	if sourcePath != "" {
		tc.loading = []string{path.Clean(sourcePath)}
	}

	return tc
}

// resolve returns the path of a referenced file. baseDir, when set,
// replaces the directory of the current source file.
func (c *Context) resolve(filename, baseDir string) string {
	if path.IsAbs(filename) {
		return path.Clean(filename)
	}

	if baseDir == "" {
		baseDir = path.Dir(c.SourcePath)
	}

	return path.Join(baseDir, filename)
}

// enter returns the context for loading p below c.
func (c *Context) enter(p string) (*Context, error) {
	if slices.Contains(c.loading, p) {
		chain := append(slices.Clone(c.loading), p)
		return nil, fmt.Errorf("%w: %s", ErrIncludeCycle, strings.Join(chain, " -> "))
	}

	return &Context{
		FS:         c.FS,
		SourcePath: p,
		Log:        c.Log,
		loading:    append(slices.Clone(c.loading), p),
	}, nil
}

// load reads the schema file the context was entered for.
func (c *Context) load(ctx context.Context) (*source.Element, error) {
	c.Log.WithField("file", c.SourcePath).Debug("loading schema")

	fs := &source.FileSource{FS: c.FS, Name: c.SourcePath}

	return fs.Root(ctx)
}

// Chain runs transformers in order, each on the result of the previous one.
type Chain []Transformer

func (ch Chain) Transform(ctx context.Context, root Root, tc *Context) (Root, error) {
	for _, t := range ch {
		if err := ctx.Err(); err != nil {
			return root, err
		}

		tc.Log.WithField("transformer", t.Name()).Debug("transforming")

		next, err := t.Transform(ctx, root, tc)
		if err != nil {
			return root, fmt.Errorf("%s: %w", t.Name(), err)
		}

		root = next
	}

	return root, nil
}

// Names returns the names of the transformers in the chain.
func (ch Chain) Names() []string {
	names := make([]string, len(ch))
	for i, t := range ch {
		names[i] = t.Name()
	}

	return names
}

// Factory creates a transformer.
type Factory func() Transformer

// Registry maps configuration names to transformer factories.
type Registry struct {
	factories map[string]Factory
}

// NewRegistry returns a registry with the transformers of this package.
func NewRegistry() *Registry {
	r := &Registry{factories: make(map[string]Factory)}
	r.Register("include-schema", func() Transformer { return &IncludeSchemaTransformer{} })
	r.Register("load-external-schema", func() Transformer { return &LoadExternalSchemaTransformer{} })
	r.Register("collect-primary-keys", func() Transformer { return NewCollectPrimaryKeys() })
	r.Register("resolve-schema-types", func() Transformer { return &ResolveSchemaTypesTransformer{} })

	return r
}

// Register adds or replaces a factory.
func (r *Registry) Register(name string, f Factory) {
	r.factories[name] = f
}

// Names returns the registered names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.factories))
	for n := range r.factories {
		names = append(names, n)
	}

	sort.Strings(names)

	return names
}

// Chain builds a chain from configured names.
func (r *Registry) Chain(names ...string) (Chain, error) {
	chain := make(Chain, 0, len(names))

	for _, n := range names {
		f, ok := r.factories[n]
		if !ok {
			err := fmt.Errorf("%w %q", ErrUnknownTransformer, n)
			if s := match.Suggest(n, r.Names()); len(s) > 0 {
				err = fmt.Errorf("%w; did you mean %s?", err, strings.Join(s, ", "))
			}

			return nil, err
		}

		chain = append(chain, f())
	}

	return chain, nil
}
