package model

// Database is the root of a schema.
type Database struct {
	Name            string
	DefaultIDMethod string
	DefaultJavaType string
	Package         string
	Domains         []*Domain
	Options         []*Option
	Tables          []*Table
	Views           []*View
	IncludeSchemas  []*IncludeSchema
	ExternalSchemas []*ExternalSchema
	// AllTables and AllViews hold the tables and views of the external
	// schemas followed by the own ones. They are filled by the external
	// schema transformer.
	AllTables []*Table `torque:"all-tables,collector"`
	AllViews  []*View  `torque:"all-views,collector"`
}

// Domain is a named, reusable column type.
type Domain struct {
	Name        string
	Type        string
	Size        string
	Scale       string
	Default     string
	Description string
}

// Option is a key/value pair attached to a database or table.
type Option struct {
	Key   string
	Value string
}

// Table is a database table.
type Table struct {
	Name        string
	JavaName    string
	Description string
	IDMethod    string
	Abstract    bool
	Interface   string
	BaseClass   string
	Columns     []*Column
	ForeignKeys []*ForeignKey
	Uniques     []*Unique
	Indices     []*Index `torque:"index"`
	Options     []*Option
	// PrimaryKey lists the primary key columns, filled by the
	// collect-primary-keys transformer.
	PrimaryKey []*Column `torque:"primary-key,collector"`
}

// Column is a table column.
type Column struct {
	Name          string
	JavaName      string
	Type          string
	Domain        string
	Size          string
	Scale         string
	Default       string
	Description   string
	PrimaryKey    bool
	Required      bool
	AutoIncrement bool
	// SchemaType is the resolved SQL type, see the resolve-schema-types
	// transformer.
	SchemaType string
	// TextType is set with SchemaType for types whose values are quoted.
	TextType bool
	Options  []*Option
}

// ForeignKey references another table.
type ForeignKey struct {
	Name         string
	ForeignTable string
	OnUpdate     string
	OnDelete     string
	References   []*Reference
}

// Reference is one column pair of a foreign key.
type Reference struct {
	Local   string
	Foreign string
}

// Unique is a unique constraint.
type Unique struct {
	Name    string
	Columns []*ConstraintColumn `torque:"unique-column"`
}

// Index is a non unique index.
type Index struct {
	Name    string
	Columns []*ConstraintColumn `torque:"index-column"`
}

// ConstraintColumn names a column of a unique constraint or index.
type ConstraintColumn struct {
	Name string
	Size string
}

// View is a database view.
type View struct {
	Name        string
	JavaName    string
	Description string
	SQLSuffix   string
	Columns     []*ViewColumn `torque:"column"`
}

// ViewColumn is a column of a view, selected by an SQL snippet.
type ViewColumn struct {
	Name     string
	JavaName string
	Type     string
	Select   string
}

// IncludeSchema merges the tables of another schema file.
type IncludeSchema struct {
	Filename string
}

// ExternalSchema references the tables of another schema file without
// merging them.
type ExternalSchema struct {
	Filename string
	// Database is the loaded schema, set by the external schema transformer.
	Database *Database
}

// Table returns the table called name, or nil.
func (d *Database) Table(name string) *Table {
	for _, t := range d.Tables {
		if t.Name == name {
			return t
		}
	}

	return nil
}

// Domain returns the domain called name, or nil.
func (d *Database) Domain(name string) *Domain {
	for _, dom := range d.Domains {
		if dom.Name == name {
			return dom
		}
	}

	return nil
}

// Column returns the column called name, or nil.
func (t *Table) Column(name string) *Column {
	for _, c := range t.Columns {
		if c.Name == name {
			return c
		}
	}

	return nil
}
