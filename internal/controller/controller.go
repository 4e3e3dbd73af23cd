package controller

import (
	"context"
	"fmt"
	"maps"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/hashicorp/go-multierror"
	log "github.com/sirupsen/logrus"

	"torque-generator/internal/diagnostic"
	"torque-generator/internal/outlet"
	"torque-generator/internal/output"
	"torque-generator/internal/qname"
	"torque-generator/internal/source"
	"torque-generator/internal/transform"
)

// Controller drives generation units over an outlet configuration.
type Controller struct {
	Config *outlet.Configuration
	// SourceFS holds the inputs, including included and external schemas.
	SourceFS     billy.Filesystem
	Writer       *output.Writer
	Transformers *transform.Registry
	// Options are generator options, overridden by unit options.
	Options map[string]any
	Log     *log.Entry

	Diagnostics diagnostic.Diagnostics
	// Results lists every output of the run in order.
	Results []output.Result

	// generator scoped variables live as long as the controller
	variables *outlet.VariableStore
}

// New creates a controller reading from sourceFS and writing with w.
func New(cfg *outlet.Configuration, sourceFS billy.Filesystem, w *output.Writer) *Controller {
	return &Controller{
		Config:       cfg,
		SourceFS:     sourceFS,
		Writer:       w,
		Transformers: transform.NewRegistry(),
		Log:          log.NewEntry(log.StandardLogger()),
		variables:    outlet.NewVariableStore(),
	}
}

// Run processes units in order. Failed units are recorded in Diagnostics and
// their errors returned together after all units ran.
func (c *Controller) Run(ctx context.Context, units []UnitConfig) error {
	var errs *multierror.Error

	for _, u := range units {
		if err := ctx.Err(); err != nil {
			return multierror.Append(errs, err).ErrorOrNil()
		}

		if err := c.RunUnit(ctx, u); err != nil {
			c.Log.WithField("unit", u.Name).WithError(err).Error("generation unit failed")
			errs = multierror.Append(errs, fmt.Errorf("unit %s: %w", u.Name, err))
		}
	}

	return errs.ErrorOrNil()
}

// RunUnit runs a single unit. A failure is recorded in Diagnostics.
func (c *Controller) RunUnit(ctx context.Context, u UnitConfig) error {
	logger := c.Log.WithField("unit", u.Name)
	logger.Info("running generation unit")

	run := &unitRun{Controller: c, unit: u, log: logger}

	if err := run.prepare(); err != nil {
		c.record(u, "", nil, err)
		return err
	}

	sources, err := u.sources(c.SourceFS)
	if err != nil {
		c.record(u, "", nil, err)
		return err
	}

	if len(sources) == 0 {
		c.Diagnostics.AddWarning(diagnostic.CodeSource, "no sources found", u.Name, "")
		logger.Warn("no sources found")
	}

	for _, src := range sources {
		if err := run.source(ctx, src); err != nil {
			return err
		}
	}

	return nil
}

// unitRun is the state of one RunUnit call.
type unitRun struct {
	*Controller
	unit  UnitConfig
	log   *log.Entry
	start outlet.Outlet
	chain transform.Chain

	filename outlet.Outlet
}

func (r *unitRun) prepare() error {
	if err := r.unit.Validate(); err != nil {
		return err
	}

	start, err := r.Config.Resolve(r.unit.Outlet, qname.RootNamespace)
	if err != nil {
		return err
	}

	r.start = start

	if r.chain, err = r.Transformers.Chain(r.unit.Transformers...); err != nil {
		return err
	}

	if r.unit.FilenameOutlet != "" {
		r.filename, err = r.Config.Lookup(r.unit.FilenameOutlet, qname.RootNamespace)
		return err
	}

	// the filename template sees names the way the start outlet does
	name, err := qname.New("filename", qname.NewChildNamespace(r.start.Name().Namespace(), r.unit.Name))
	if err != nil {
		return err
	}

	r.filename, err = outlet.NewTemplateOutlet(name, r.unit.Filename)

	return err
}

func (r *unitRun) source(ctx context.Context, src source.Source) error {
	logger := r.log.WithField("source", src.Description())
	logger.Debug("reading source")

	root, err := src.Root(ctx)
	if err != nil {
		r.record(r.unit, "", nil, err)
		return err
	}

	tc := transform.NewContext(r.SourceFS, src.Path())
	tc.Log = logger

	transformed, err := r.chain.Transform(ctx, transform.TreeRoot(root), tc)
	if err != nil {
		r.record(r.unit, "", nil, err)
		return err
	}

	models, tree, err := r.models(transformed)
	if err != nil {
		r.record(r.unit, "", nil, err)
		return err
	}

	for _, m := range models {
		if err := ctx.Err(); err != nil {
			return err
		}

		if err := r.generate(src, tree, m); err != nil {
			r.record(r.unit, r.unit.Outlet, m, err)
			return err
		}
	}

	return nil
}

// models returns what the start outlet runs on, and the tree of the source.
func (r *unitRun) models(root transform.Root) ([]any, *source.Element, error) {
	if r.unit.Typed {
		db, err := root.AsModel()
		if err != nil {
			return nil, nil, err
		}

		tree, err := root.AsTree()
		if err != nil {
			return nil, nil, err
		}

		return []any{db}, tree, nil
	}

	tree, err := root.AsTree()
	if err != nil {
		return nil, nil, err
	}

	if r.unit.Elements == "" {
		return []any{tree}, tree, nil
	}

	selected, err := source.Select(tree, r.unit.Elements)
	if err != nil {
		return nil, nil, err
	}

	models := make([]any, len(selected))
	for i, e := range selected {
		models[i] = e
	}

	return models, tree, nil
}

func (r *unitRun) generate(src source.Source, tree *source.Element, model any) error {
	state := outlet.NewState(r.Config)
	state.Variables = r.variables
	state.Root = tree
	state.SourceFile = src.Path()
	state.Log = r.log

	options := maps.Clone(r.Options)
	if options == nil {
		options = make(map[string]any)
	}

	maps.Copy(options, r.unit.Options)

	if err := state.SetOptions(options); err != nil {
		return err
	}

	defer r.variables.EndFile()

	state.Plain = true
	name, err := outlet.Invoke(r.filename, model, state)
	state.Plain = false

	if err != nil {
		return fmt.Errorf("output filename: %w", err)
	}

	filename := strings.TrimSpace(name.String())
	if filename == "" {
		return fmt.Errorf("output filename of %s is empty", outlet.DescribeModel(model))
	}

	o, err := r.unit.output(path.Clean(filename))
	if err != nil {
		return err
	}

	state.Output = o

	if state.LineBreak, err = r.Writer.LineBreak(o); err != nil {
		return err
	}

	res, err := outlet.Invoke(r.start, model, state)
	if err != nil {
		return err
	}

	content := res.Bytes()
	if res.IsStringResult() {
		content = []byte(res.String())
	}

	written, err := r.Writer.Write(o, content)
	if err != nil {
		return err
	}

	r.Results = append(r.Results, written)

	if written.Unformatted {
		r.Diagnostics.AddWarning(diagnostic.CodeOutput,
			fmt.Sprintf("%s could not be formatted as %s", o.Path, o.Type.Key), r.unit.Name, r.unit.Outlet)
	}

	r.log.WithFields(log.Fields{
		"file":    written.Path,
		"bytes":   written.Bytes,
		"changed": written.Changed,
		"skipped": written.Skipped,
	}).Debug("output done")

	return nil
}

