package transform

import (
	"context"
	"fmt"

	"torque-generator/internal/model"
	"torque-generator/internal/source"
)

// IncludeSchemaTransformer merges included schema files into the including
// database. Includes of included files are resolved first, so the merged
// elements of a nested include end up in the top level database too.
type IncludeSchemaTransformer struct {
	// BaseDir overrides the directory included files are resolved against.
	BaseDir string
}

func (t *IncludeSchemaTransformer) Name() string { return "include-schema" }

func (t *IncludeSchemaTransformer) Transform(ctx context.Context, root Root, tc *Context) (Root, error) {
	switch root.Kind() {
	case KindTree:
		return root, t.transformTree(ctx, root.Tree(), tc)
	case KindModel:
		return root, t.transformModel(ctx, root.Model(), tc)
	default:
		return root, unsupported(t.Name(), root)
	}
}

func (t *IncludeSchemaTransformer) transformTree(ctx context.Context, root *source.Element, tc *Context) error {
	for _, include := range root.ChildrenNamed("include-schema") {
		loaded, child, err := t.load(ctx, include.AttributeString("filename"), tc)
		if err != nil {
			return err
		}

		if err := t.transformTree(ctx, loaded, child); err != nil {
			return err
		}

		for _, e := range loaded.Children() {
			loaded.RemoveChild(e)
			root.AddChild(e)
		}
	}

	return nil
}

func (t *IncludeSchemaTransformer) transformModel(ctx context.Context, db *model.Database, tc *Context) error {
	for _, include := range db.IncludeSchemas {
		loaded, child, err := t.load(ctx, include.Filename, tc)
		if err != nil {
			return err
		}

		included, err := model.Bind(loaded)
		if err != nil {
			return fmt.Errorf("%s: %w", child.SourcePath, err)
		}

		if err := t.transformModel(ctx, included, child); err != nil {
			return err
		}

		db.Domains = append(db.Domains, included.Domains...)
		db.Options = append(db.Options, included.Options...)
		db.Tables = append(db.Tables, included.Tables...)
		db.Views = append(db.Views, included.Views...)
		db.IncludeSchemas = append(db.IncludeSchemas, included.IncludeSchemas...)
		db.ExternalSchemas = append(db.ExternalSchemas, included.ExternalSchemas...)
	}

	return nil
}

func (t *IncludeSchemaTransformer) load(ctx context.Context, filename string, tc *Context) (*source.Element, *Context, error) {
	return loadSchema(ctx, "include-schema", filename, t.BaseDir, tc)
}

// loadSchema reads the file referenced by an include or external schema
// element and returns it together with the context it was loaded in.
func loadSchema(ctx context.Context, element, filename, baseDir string, tc *Context) (*source.Element, *Context, error) {
	if filename == "" {
		return nil, nil, fmt.Errorf("%w: filename of %s in %s", ErrMissingAttribute, element, tc.SourcePath)
	}

	child, err := tc.enter(tc.resolve(filename, baseDir))
	if err != nil {
		return nil, nil, err
	}

	loaded, err := child.load(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("loading %s %s: %w", element, filename, err)
	}

	return loaded, child, nil
}
