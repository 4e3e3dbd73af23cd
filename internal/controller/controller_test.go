package controller

import (
	"context"
	"fmt"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"torque-generator/internal/catalog"
	"torque-generator/internal/diagnostic"
	"torque-generator/internal/outlet"
	"torque-generator/internal/output"
	"torque-generator/internal/property"
	"torque-generator/internal/source"
	"torque-generator/internal/transform"
)

const shopSchema = `<database name="shop">
	<include-schema filename="common.xml"/>
	<table name="book">
		<column name="id" type="INTEGER" primaryKey="true"/>
		<column name="price" domain="money"/>
	</table>
	<table name="author">
		<column name="id" type="INTEGER" primaryKey="true"/>
	</table>
</database>`

const commonSchema = `<database>
	<domain name="money" type="DECIMAL" size="10" scale="2"/>
</database>`

const shopCatalog = `
outlets:
  - name: torque.sql.table
    input: table
    template: |
      CREATE TABLE {{attr "name"}} (
      {{mergepoint "columns"}}    PRIMARY KEY ({{mergepoint "pk"}})
      );
    mergepoints:
      columns:
        - apply: {path: column, outlet: column}
      pk:
        - apply: {path: primary-key/column, outlet: pkColumn}
  - name: torque.sql.column
    template: "    {{attr \"name\"}} {{attr \"schemaType\"}},\n"
  - name: torque.sql.pkColumn
    template: '{{attr "name"}}'
  - name: torque.sql.filename
    template: 'sql/{{attr "name"}}.sql'
  - name: torque.sql.nestedFilename
    template: 'sql/{{mergepoint "stem"}}.sql'
    mergepoints:
      stem:
        - apply: {path: ".", outlet: pkColumn}
  - name: torque.go.tables
    template: |
      package {{option "torque.go.package"}}
      var Tables = []string{ {{range .Tables}}"{{.Name}}",{{end}} }
  - name: torque.vars.set
    template: '{{setVar "seen" "yes" "generator"}}{{setVar "file" "f" "file"}}set'
  - name: torque.vars.get
    template: 'seen={{var "seen"}} file={{var "file"}}'
`

type ControllerTestSuite struct {
	suite.Suite
	in  billy.Filesystem
	out billy.Filesystem
	c   *Controller
}

func (s *ControllerTestSuite) SetupTest() {
	s.in = memfs.New()
	s.out = memfs.New()

	s.write(s.in, "schema/shop-schema.xml", shopSchema)
	s.write(s.in, "schema/common.xml", commonSchema)
	s.write(s.in, "catalog.yaml", shopCatalog)

	cfg, err := catalog.Load(s.in, "catalog.yaml")
	s.Require().NoError(err)

	s.c = New(cfg, s.in, output.NewWriter(s.out))
	s.c.Options = map[string]any{"torque.go.package": "model"}
}

func (s *ControllerTestSuite) write(fs billy.Filesystem, name, content string) {
	s.Require().NoError(util.WriteFile(fs, name, []byte(content), 0o644))
}

func (s *ControllerTestSuite) read(name string) string {
	data, err := util.ReadFile(s.out, name)
	s.Require().NoError(err)

	return string(data)
}

func (s *ControllerTestSuite) sqlUnit() UnitConfig {
	return UnitConfig{
		Name:           "sql",
		Source:         SourceConfig{Dir: "schema", Includes: []string{"*-schema.xml"}},
		Transformers:   []string{"include-schema", "collect-primary-keys", "resolve-schema-types"},
		Outlet:         "torque.sql.table",
		Elements:       "table",
		FilenameOutlet: "torque.sql.filename",
	}
}

func TestControllerSuite(t *testing.T) {
	suite.Run(t, new(ControllerTestSuite))
}

func (s *ControllerTestSuite) TestPerElementOutputs() {
	s.Require().NoError(s.c.Run(context.Background(), []UnitConfig{s.sqlUnit()}))

	s.Equal("CREATE TABLE book (\n    id INTEGER,\n    price DECIMAL,\n    PRIMARY KEY (id)\n);\n", s.read("sql/book.sql"))
	s.Equal("CREATE TABLE author (\n    id INTEGER,\n    PRIMARY KEY (id)\n);\n", s.read("sql/author.sql"))

	s.Require().Len(s.c.Results, 2)
	s.True(s.c.Results[0].Changed)
	s.True(s.c.Diagnostics.IsValid())
}

func (s *ControllerTestSuite) TestDebugMarkersStayOutOfFilenames() {
	s.c.Config.Debug = true

	nested := s.sqlUnit()
	nested.Name = "nested"
	nested.FilenameOutlet = "torque.sql.nestedFilename"

	s.Require().NoError(s.c.Run(context.Background(), []UnitConfig{s.sqlUnit(), nested}))

	s.Require().Len(s.c.Results, 4)

	for _, res := range s.c.Results {
		s.Contains([]string{"sql/book.sql", "sql/author.sql"}, res.Path)
	}

	book := s.read("sql/book.sql")
	s.Contains(book, "-- start of output of outlet torque.sql.table, model database/table[book]\n")
	s.Contains(book, "-- start of output of outlet torque.sql.column, model database/table/column[price]\n")
}

func (s *ControllerTestSuite) TestFilenameTemplateAndExisting() {
	s.write(s.out, "sql/book.sql", "keep me")

	u := s.sqlUnit()
	u.FilenameOutlet = ""
	u.Filename = `sql/{{attr "name"}}.sql`
	u.Existing = "skip"

	s.Require().NoError(s.c.Run(context.Background(), []UnitConfig{u}))

	s.Equal("keep me", s.read("sql/book.sql"))
	s.Contains(s.read("sql/author.sql"), "CREATE TABLE author")
	s.True(s.c.Results[0].Skipped)
}

func (s *ControllerTestSuite) TestFilenameTemplateSeesOutletOptions() {
	s.c.Options["torque.sql.dir"] = "ddl"

	u := s.sqlUnit()
	u.FilenameOutlet = ""
	u.Filename = `{{option "dir"}}/{{attr "name"}}.sql`

	s.Require().NoError(s.c.Run(context.Background(), []UnitConfig{u}))
	s.Contains(s.read("ddl/book.sql"), "CREATE TABLE book")
}

func (s *ControllerTestSuite) TestTypedUnitFormatsGo() {
	u := UnitConfig{
		Name:         "go",
		Source:       SourceConfig{Dir: "schema", Includes: []string{"*-schema.xml"}},
		Transformers: []string{"include-schema"},
		Typed:        true,
		Outlet:       "torque.go.tables",
		Filename:     "model/tables.go",
	}

	s.Require().NoError(s.c.Run(context.Background(), []UnitConfig{u}))
	s.Equal("package model\n\nvar Tables = []string{\"book\", \"author\"}\n", s.read("model/tables.go"))
}

func (s *ControllerTestSuite) TestDryRun() {
	s.write(s.out, "sql/book.sql", "old\n")
	s.c.Writer.DryRun = true

	s.Require().NoError(s.c.Run(context.Background(), []UnitConfig{s.sqlUnit()}))

	s.Equal("old\n", s.read("sql/book.sql"))
	s.Contains(s.c.Results[0].Diff, "-old")
	s.Contains(s.c.Results[0].Diff, "+CREATE TABLE book (")

	_, err := s.out.Stat("sql/author.sql")
	s.Error(err)
}

func (s *ControllerTestSuite) TestFailingUnitDoesNotStopOthers() {
	broken := s.sqlUnit()
	broken.Name = "broken"
	broken.Outlet = "torque.sql.tabel"

	err := s.c.Run(context.Background(), []UnitConfig{broken, s.sqlUnit()})
	s.Require().Error(err)
	s.Contains(err.Error(), "unit broken")

	s.Contains(s.read("sql/book.sql"), "CREATE TABLE book")

	s.Require().Len(s.c.Diagnostics.Errors, 1)
	d := s.c.Diagnostics.Errors[0]
	s.Equal("broken", d.Unit)
	s.Equal(diagnostic.CodeConfiguration, d.Code)
	s.Contains(d.Suggestions, "torque.sql.table")
}

func (s *ControllerTestSuite) TestGenerationErrorNamesElement() {
	s.write(s.in, "schema/bad-schema.xml", `<database><table name="t"><column name="c" type="TEXTT"/></table></database>`)

	u := s.sqlUnit()
	u.Source.Includes = []string{"bad-schema.xml"}
	u.Transformers = []string{"resolve-schema-types"}

	err := s.c.Run(context.Background(), []UnitConfig{u})
	s.Require().Error(err)

	d := s.c.Diagnostics.Errors[0]
	s.Equal(diagnostic.CodeConfiguration, d.Code)
	s.Contains(d.Message, "t.c")
}

func (s *ControllerTestSuite) TestModelMismatch() {
	u := s.sqlUnit()
	u.Elements = ""
	u.Filename = "all.sql"
	u.FilenameOutlet = ""

	s.Require().Error(s.c.Run(context.Background(), []UnitConfig{u}))

	d := s.c.Diagnostics.Errors[0]
	s.Equal(diagnostic.CodeModelMismatch, d.Code)
	s.Equal("torque.sql.table", d.Outlet)
	s.Equal("database[shop]", d.Element)
}

func (s *ControllerTestSuite) TestVariableScopes() {
	units := []UnitConfig{
		{Name: "set", Source: SourceConfig{Dir: "schema", Includes: []string{"shop-schema.xml"}}, Outlet: "torque.vars.set", Filename: "set.txt"},
		{Name: "get", Source: SourceConfig{Dir: "schema", Includes: []string{"shop-schema.xml"}}, Outlet: "torque.vars.get", Filename: "get.txt"},
	}

	s.Require().NoError(s.c.Run(context.Background(), units))
	s.Equal("seen=yes file=<no value>", s.read("get.txt"))
}

func (s *ControllerTestSuite) TestInvalidUnits() {
	tests := []UnitConfig{
		{},
		{Name: "a"},
		{Name: "a", Outlet: "o"},
		{Name: "a", Outlet: "o", Filename: "f", Typed: true, Elements: "table"},
		{Name: "a", Outlet: "o", Filename: "f", Type: "cobol"},
		{Name: "a", Outlet: "o", Filename: "f", Existing: "merge"},
		{Name: "a", Outlet: "o", Filename: "f", Source: SourceConfig{Excludes: []string{"[a"}}},
	}

	for _, u := range tests {
		s.Error(u.Validate())
	}

	s.Require().ErrorIs(tests[len(tests)-1].Validate(), ErrInvalidUnit)

	err := s.c.Run(context.Background(), tests[:1])
	s.Require().ErrorIs(err, ErrInvalidUnit)
}

func (s *ControllerTestSuite) TestCancelled() {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := s.c.Run(ctx, []UnitConfig{s.sqlUnit()})
	s.Require().ErrorIs(err, context.Canceled)
	s.Empty(s.c.Results)
}

func TestClassify(t *testing.T) {
	assert.Equal(t, diagnostic.CodeConfiguration, Classify((&UnitConfig{}).Validate()))
	assert.Equal(t, diagnostic.CodeConfiguration, Classify(fmt.Errorf("x: %w", transform.ErrIncludeCycle)))
	assert.Equal(t, diagnostic.CodeResultType, Classify(outlet.ErrResultType))
	assert.Equal(t, diagnostic.CodeStructure, Classify(source.ErrPathLoop))
	assert.Equal(t, diagnostic.CodeSource, Classify(source.ErrUnknownFormat))
	assert.Equal(t, diagnostic.CodeProperty, Classify(&property.Error{Kind: property.ErrNoSuchProperty}))
	assert.Equal(t, diagnostic.CodeGeneration, Classify(context.Canceled))
}
