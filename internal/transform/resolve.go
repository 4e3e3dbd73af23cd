package transform

import (
	"context"

	"github.com/hashicorp/go-multierror"

	"torque-generator/internal/model"
	"torque-generator/internal/source"
)

// ResolveSchemaTypesTransformer stores the effective schema type of every
// column in its schemaType attribute, and whether its values are quoted in
// textType. Size, scale and default of a
// referenced domain are copied to columns that do not set them.
// All failing columns are reported together.
type ResolveSchemaTypesTransformer struct{}

func (t *ResolveSchemaTypesTransformer) Name() string { return "resolve-schema-types" }

func (t *ResolveSchemaTypesTransformer) Transform(_ context.Context, root Root, _ *Context) (Root, error) {
	var errs *multierror.Error

	switch root.Kind() {
	case KindTree:
		for _, column := range source.FindAll(root.Tree(), "column") {
			if column.Parent() == nil || column.Parent().Name() != "table" {
				continue
			}

			errs = multierror.Append(errs, resolveTreeColumn(column))
		}
	case KindModel:
		errs = resolveModel(root.Model(), errs)
	default:
		return root, unsupported(t.Name(), root)
	}

	return root, errs.ErrorOrNil()
}

func resolveTreeColumn(column *source.Element) error {
	typ, err := SchemaTypeOf(column)
	if err != nil {
		return err
	}

	column.SetAttribute("schemaType", typ.String())
	column.SetAttribute("textType", typ.IsTextType())

	if name := column.AttributeString("domain"); name != "" {
		domain := findDomain(column, name)
		for _, attr := range []string{"size", "scale", "default"} {
			if !column.HasAttribute(attr) && domain.HasAttribute(attr) {
				column.SetAttribute(attr, domain.Attribute(attr))
			}
		}
	}

	return nil
}

func resolveModel(db *model.Database, errs *multierror.Error) *multierror.Error {
	for _, table := range db.Tables {
		for _, column := range table.Columns {
			typ, err := ModelSchemaType(db, table.Name, column)
			if err != nil {
				errs = multierror.Append(errs, err)
				continue
			}

			column.SchemaType = typ.String()
			column.TextType = typ.IsTextType()

			if domain := db.Domain(column.Domain); domain != nil {
				column.Size = withDefault(column.Size, domain.Size)
				column.Scale = withDefault(column.Scale, domain.Scale)
				column.Default = withDefault(column.Default, domain.Default)
			}
		}
	}

	for _, external := range db.ExternalSchemas {
		if external.Database != nil {
			errs = resolveModel(external.Database, errs)
		}
	}

	return errs
}

func withDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}

	return value
}
