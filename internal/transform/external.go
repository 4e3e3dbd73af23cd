package transform

import (
	"context"
	"fmt"

	"torque-generator/internal/model"
	"torque-generator/internal/source"
)

// LoadExternalSchemaTransformer loads external schema files below their
// external-schema element. The top level database then gets all-tables and
// all-views elements listing the tables and views of all external schemas,
// in document order and recursively, followed by its own.
type LoadExternalSchemaTransformer struct {
	// BaseDir overrides the directory external files are resolved against.
	BaseDir string
}

func (t *LoadExternalSchemaTransformer) Name() string { return "load-external-schema" }

func (t *LoadExternalSchemaTransformer) Transform(ctx context.Context, root Root, tc *Context) (Root, error) {
	switch root.Kind() {
	case KindTree:
		if err := t.loadTree(ctx, root.Tree(), tc); err != nil {
			return root, err
		}

		tables, views := collectTree(root.Tree())
		setCollector(root.Tree(), "all-tables", tables)
		setCollector(root.Tree(), "all-views", views)

		return root, nil
	case KindModel:
		db := root.Model()
		if err := t.loadModel(ctx, db, tc); err != nil {
			return root, err
		}

		db.AllTables, db.AllViews = collectModel(db)

		return root, nil
	default:
		return root, unsupported(t.Name(), root)
	}
}

func (t *LoadExternalSchemaTransformer) loadTree(ctx context.Context, root *source.Element, tc *Context) error {
	for _, external := range root.ChildrenNamed("external-schema") {
		loaded, child, err := loadSchema(ctx, "external-schema", external.AttributeString("filename"), t.BaseDir, tc)
		if err != nil {
			return err
		}

		if err := t.loadTree(ctx, loaded, child); err != nil {
			return err
		}

		external.AddChild(loaded)
	}

	return nil
}

func (t *LoadExternalSchemaTransformer) loadModel(ctx context.Context, db *model.Database, tc *Context) error {
	for _, external := range db.ExternalSchemas {
		loaded, child, err := loadSchema(ctx, "external-schema", external.Filename, t.BaseDir, tc)
		if err != nil {
			return err
		}

		externalDB, err := model.Bind(loaded)
		if err != nil {
			return fmt.Errorf("%s: %w", child.SourcePath, err)
		}

		if err := t.loadModel(ctx, externalDB, child); err != nil {
			return err
		}

		external.Database = externalDB
	}

	return nil
}

func collectTree(db *source.Element) (tables, views []*source.Element) {
	for _, external := range db.ChildrenNamed("external-schema") {
		for _, externalDB := range external.ChildrenNamed("database") {
			t, v := collectTree(externalDB)
			tables = append(tables, t...)
			views = append(views, v...)
		}
	}

	tables = append(tables, db.ChildrenNamed("table")...)
	views = append(views, db.ChildrenNamed("view")...)

	return tables, views
}

func collectModel(db *model.Database) (tables []*model.Table, views []*model.View) {
	for _, external := range db.ExternalSchemas {
		if external.Database == nil {
			continue
		}

		t, v := collectModel(external.Database)
		tables = append(tables, t...)
		views = append(views, v...)
	}

	tables = append(tables, db.Tables...)
	views = append(views, db.Views...)

	return tables, views
}

// setCollector replaces the child called name of parent by a new element
// holding items. The items keep their primary parent.
func setCollector(parent *source.Element, name string, items []*source.Element) {
	parent.RemoveChildrenFunc(func(e *source.Element) bool { return e.Name() == name })

	collector := source.NewElement(name)
	for _, item := range items {
		collector.AddChild(item)
	}

	parent.AddChild(collector)
}
