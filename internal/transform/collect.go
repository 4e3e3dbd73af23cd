package transform

import (
	"context"
	"fmt"
	"reflect"
	"strings"

	"torque-generator/internal/model"
	"torque-generator/internal/property"
	"torque-generator/internal/source"
)

// CollectAttributeSetTrueTransformer gathers the children of an element whose
// attribute is true into a collector child of that element. Running it twice
// replaces the collector, so the result does not change.
type CollectAttributeSetTrueTransformer struct {
	// Path is the name of the elements to collect below, e.g. "table".
	Path string
	// ChildName is the name of the children to inspect, e.g. "column".
	ChildName string
	// Attribute must be true on a child for it to be collected.
	Attribute string
	// Target is the name of the collector element, e.g. "primary-key".
	Target string

	name string
}

// NewCollectPrimaryKeys collects the primary key columns of every table.
func NewCollectPrimaryKeys() *CollectAttributeSetTrueTransformer {
	return &CollectAttributeSetTrueTransformer{
		Path:      "table",
		ChildName: "column",
		Attribute: "primaryKey",
		Target:    "primary-key",
		name:      "collect-primary-keys",
	}
}

func (t *CollectAttributeSetTrueTransformer) Name() string {
	if t.name != "" {
		return t.name
	}

	return "collect-" + t.Target
}

func (t *CollectAttributeSetTrueTransformer) Transform(_ context.Context, root Root, _ *Context) (Root, error) {
	switch root.Kind() {
	case KindTree:
		for _, e := range source.FindAll(root.Tree(), t.Path) {
			var collected []*source.Element

			for _, child := range e.ChildrenNamed(t.ChildName) {
				if isTrue(child.Attribute(t.Attribute)) {
					collected = append(collected, child)
				}
			}

			setCollector(e, t.Target, collected)
		}

		return root, nil
	case KindModel:
		for _, table := range modelTables(root.Model()) {
			if err := t.collect(table); err != nil {
				return root, err
			}
		}

		return root, nil
	default:
		return root, unsupported(t.Name(), root)
	}
}

// collect works on any struct pointer through property accessors.
func (t *CollectAttributeSetTrueTransformer) collect(target any) error {
	children, err := property.Access(target, t.ChildName)
	if err != nil {
		return err
	}

	collector, err := property.Access(target, t.Target)
	if err != nil {
		return err
	}

	items, err := children.Get()
	if err != nil {
		return err
	}

	v := reflect.ValueOf(items)
	if v.Kind() != reflect.Slice {
		return fmt.Errorf("%s of %T is a %s, not a slice", t.ChildName, target, v.Kind())
	}

	collected := reflect.MakeSlice(collector.Type(), 0, v.Len())

	for i := range v.Len() {
		item := v.Index(i)

		flag, err := property.Access(item.Interface(), t.Attribute)
		if err != nil {
			return err
		}

		value, err := flag.Get()
		if err != nil {
			return err
		}

		if isTrue(value) {
			collected = reflect.Append(collected, item)
		}
	}

	return collector.SetPropertyStrict(collected.Interface())
}

// modelTables returns the tables of db and, recursively, of its loaded
// external schemas.
func modelTables(db *model.Database) []*model.Table {
	tables := append([]*model.Table(nil), db.Tables...)

	for _, external := range db.ExternalSchemas {
		if external.Database != nil {
			tables = append(tables, modelTables(external.Database)...)
		}
	}

	return tables
}

func isTrue(v any) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		return strings.EqualFold(b, "true")
	default:
		return false
	}
}
