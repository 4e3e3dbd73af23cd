package transform

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torque-generator/internal/source"
)

func schemaFS(t *testing.T, files map[string]string) billy.Filesystem {
	t.Helper()

	fs := memfs.New()
	for name, content := range files {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}

	return fs
}

func loadRoot(t *testing.T, fs billy.Filesystem, name string) (*source.Element, *Context) {
	t.Helper()

	tc := NewContext(fs, name)
	root, err := (&source.FileSource{FS: fs, Name: name}).Root(context.Background())
	require.NoError(t, err)

	return root, tc
}

func names(elements []*source.Element) []string {
	out := make([]string, len(elements))
	for i, e := range elements {
		out[i] = e.AttributeString("name")
	}

	return out
}

func TestIncludeSchema_Tree(t *testing.T) {
	fs := schemaFS(t, map[string]string{
		"schema/main.xml": `<database name="shop">
			<include-schema filename="inc/a.xml"/>
			<table name="own"/>
		</database>`,
		"schema/inc/a.xml": `<database name="a">
			<include-schema filename="b.xml"/>
			<table name="a1"/>
		</database>`,
		"schema/inc/b.xml": `<database name="b"><table name="b1"/><domain name="money" type="DECIMAL"/></database>`,
	})

	root, tc := loadRoot(t, fs, "schema/main.xml")

	out, err := (&IncludeSchemaTransformer{}).Transform(context.Background(), TreeRoot(root), tc)
	require.NoError(t, err)

	db := out.Tree()
	assert.Equal(t, []string{"own", "a1", "b1"}, names(db.ChildrenNamed("table")))
	assert.Len(t, db.ChildrenNamed("domain"), 1)
	assert.Len(t, db.ChildrenNamed("include-schema"), 2)

	for _, table := range db.ChildrenNamed("table") {
		assert.Same(t, db, table.Parent())
	}
}

func TestIncludeSchema_Cycle(t *testing.T) {
	fs := schemaFS(t, map[string]string{
		"a.xml": `<database><include-schema filename="b.xml"/></database>`,
		"b.xml": `<database><include-schema filename="a.xml"/></database>`,
	})

	root, tc := loadRoot(t, fs, "a.xml")

	_, err := (&IncludeSchemaTransformer{}).Transform(context.Background(), TreeRoot(root), tc)
	require.ErrorIs(t, err, ErrIncludeCycle)
	assert.Contains(t, err.Error(), "a.xml -> b.xml -> a.xml")
}

func TestIncludeSchema_Errors(t *testing.T) {
	fs := schemaFS(t, map[string]string{
		"nofile.xml":  `<database><include-schema/></database>`,
		"missing.xml": `<database><include-schema filename="gone.xml"/></database>`,
	})

	root, tc := loadRoot(t, fs, "nofile.xml")
	_, err := (&IncludeSchemaTransformer{}).Transform(context.Background(), TreeRoot(root), tc)
	require.ErrorIs(t, err, ErrMissingAttribute)

	root, tc = loadRoot(t, fs, "missing.xml")
	_, err = (&IncludeSchemaTransformer{}).Transform(context.Background(), TreeRoot(root), tc)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.xml")
}

func TestIncludeSchema_BaseDir(t *testing.T) {
	fs := schemaFS(t, map[string]string{
		"schema/main.xml": `<database><include-schema filename="x.xml"/></database>`,
		"shared/x.xml":    `<database><table name="x"/></database>`,
		"schema/x.xml":    `<database><table name="wrong"/></database>`,
	})

	root, tc := loadRoot(t, fs, "schema/main.xml")

	out, err := (&IncludeSchemaTransformer{BaseDir: "shared"}).Transform(context.Background(), TreeRoot(root), tc)
	require.NoError(t, err)
	assert.Equal(t, []string{"x"}, names(out.Tree().ChildrenNamed("table")))
}

func TestIncludeSchema_Model(t *testing.T) {
	fs := schemaFS(t, map[string]string{
		"main.xml": `<database name="shop"><include-schema filename="a.xml"/><table name="own"/></database>`,
		"a.xml":    `<database name="a"><table name="a1"/><domain name="money" type="DECIMAL"/></database>`,
	})

	root, tc := loadRoot(t, fs, "main.xml")
	db, err := TreeRoot(root).AsModel()
	require.NoError(t, err)

	out, err := (&IncludeSchemaTransformer{}).Transform(context.Background(), ModelRoot(db), tc)
	require.NoError(t, err)
	require.Len(t, out.Model().Tables, 2)
	assert.Equal(t, "own", out.Model().Tables[0].Name)
	assert.Equal(t, "a1", out.Model().Tables[1].Name)
	assert.NotNil(t, out.Model().Domain("money"))
}

func TestLoadExternalSchema_Tree(t *testing.T) {
	fs := schemaFS(t, map[string]string{
		"main.xml": `<database name="shop">
			<external-schema filename="ext1.xml"/>
			<table name="own"/>
			<view name="ownView"/>
		</database>`,
		"ext1.xml": `<database name="ext1">
			<external-schema filename="ext2.xml"/>
			<table name="e1"/>
		</database>`,
		"ext2.xml": `<database name="ext2"><table name="e2"/><view name="v2"/></database>`,
	})

	root, tc := loadRoot(t, fs, "main.xml")
	tr := &LoadExternalSchemaTransformer{}

	out, err := tr.Transform(context.Background(), TreeRoot(root), tc)
	require.NoError(t, err)

	db := out.Tree()
	allTables, err := db.Child("all-tables")
	require.NoError(t, err)
	assert.Equal(t, []string{"e2", "e1", "own"}, names(allTables.Children()))

	allViews, err := db.Child("all-views")
	require.NoError(t, err)
	assert.Equal(t, []string{"v2", "ownView"}, names(allViews.Children()))

	// own tables stay children of the database, external ones of theirs
	assert.Equal(t, []string{"own"}, names(db.ChildrenNamed("table")))
	assert.Equal(t, "ext2", allTables.Children()[0].Parent().AttributeString("name"))

	external, err := db.Child("external-schema")
	require.NoError(t, err)
	loaded, err := external.Child("database")
	require.NoError(t, err)
	assert.Equal(t, "ext1", loaded.AttributeString("name"))
}

func TestLoadExternalSchema_Model(t *testing.T) {
	fs := schemaFS(t, map[string]string{
		"main.xml": `<database name="shop"><external-schema filename="ext.xml"/><table name="own"/></database>`,
		"ext.xml":  `<database name="ext"><table name="e1"/><view name="v1"/></database>`,
	})

	root, tc := loadRoot(t, fs, "main.xml")
	db, err := TreeRoot(root).AsModel()
	require.NoError(t, err)

	out, err := (&LoadExternalSchemaTransformer{}).Transform(context.Background(), ModelRoot(db), tc)
	require.NoError(t, err)

	m := out.Model()
	require.NotNil(t, m.ExternalSchemas[0].Database)
	assert.Equal(t, "ext", m.ExternalSchemas[0].Database.Name)
	require.Len(t, m.AllTables, 2)
	assert.Equal(t, "e1", m.AllTables[0].Name)
	assert.Equal(t, "own", m.AllTables[1].Name)
	require.Len(t, m.AllViews, 1)
}

const keysXML = `<database name="shop">
	<table name="book">
		<column name="id" type="INTEGER" primaryKey="true"/>
		<column name="isbn" type="VARCHAR" primaryKey="TRUE"/>
		<column name="title" type="VARCHAR" primaryKey="false"/>
	</table>
	<table name="tag"><column name="label" type="VARCHAR"/></table>
</database>`

func TestCollectPrimaryKeys_Tree(t *testing.T) {
	fs := schemaFS(t, map[string]string{"s.xml": keysXML})
	root, tc := loadRoot(t, fs, "s.xml")
	tr := NewCollectPrimaryKeys()
	assert.Equal(t, "collect-primary-keys", tr.Name())

	for range 2 {
		_, err := tr.Transform(context.Background(), TreeRoot(root), tc)
		require.NoError(t, err)
	}

	book := root.ChildrenNamed("table")[0]
	require.Len(t, book.ChildrenNamed("primary-key"), 1)

	pk, err := book.Child("primary-key")
	require.NoError(t, err)
	assert.Equal(t, []string{"id", "isbn"}, names(pk.Children()))
	assert.Same(t, book, pk.Children()[0].Parent())

	tag := root.ChildrenNamed("table")[1]
	pk, err = tag.Child("primary-key")
	require.NoError(t, err)
	assert.Empty(t, pk.Children())
}

func TestCollectPrimaryKeys_Model(t *testing.T) {
	fs := schemaFS(t, map[string]string{"s.xml": keysXML})
	root, tc := loadRoot(t, fs, "s.xml")
	db, err := TreeRoot(root).AsModel()
	require.NoError(t, err)

	_, err = NewCollectPrimaryKeys().Transform(context.Background(), ModelRoot(db), tc)
	require.NoError(t, err)

	book := db.Table("book")
	require.Len(t, book.PrimaryKey, 2)
	assert.Same(t, book.Columns[0], book.PrimaryKey[0])
	assert.Same(t, book.Columns[1], book.PrimaryKey[1])
	assert.Empty(t, db.Table("tag").PrimaryKey)
}

func TestCollectAttributeSetTrue_UnknownProperty(t *testing.T) {
	fs := schemaFS(t, map[string]string{"s.xml": keysXML})
	root, tc := loadRoot(t, fs, "s.xml")
	db, err := TreeRoot(root).AsModel()
	require.NoError(t, err)

	tr := &CollectAttributeSetTrueTransformer{Path: "table", ChildName: "column", Attribute: "nope", Target: "primary-key"}
	_, err = tr.Transform(context.Background(), ModelRoot(db), tc)
	require.Error(t, err)
}

func TestRegistry(t *testing.T) {
	r := NewRegistry()
	assert.Equal(t, []string{"collect-primary-keys", "include-schema", "load-external-schema", "resolve-schema-types"}, r.Names())

	chain, err := r.Chain("include-schema", "collect-primary-keys")
	require.NoError(t, err)
	assert.Equal(t, []string{"include-schema", "collect-primary-keys"}, chain.Names())

	_, err = r.Chain("include-schemas")
	require.ErrorIs(t, err, ErrUnknownTransformer)
	assert.Contains(t, err.Error(), "did you mean include-schema")
}

func TestChain_Transform(t *testing.T) {
	fs := schemaFS(t, map[string]string{
		"main.xml": `<database><include-schema filename="inc.xml"/></database>`,
		"inc.xml":  `<database><table name="t"><column name="id" type="INTEGER" primaryKey="true"/></table></database>`,
	})
	root, tc := loadRoot(t, fs, "main.xml")

	chain, err := NewRegistry().Chain("include-schema", "collect-primary-keys", "resolve-schema-types")
	require.NoError(t, err)

	out, err := chain.Transform(context.Background(), TreeRoot(root), tc)
	require.NoError(t, err)

	pk, err := source.SelectOne(out.Tree(), "table/primary-key/column")
	require.NoError(t, err)
	assert.Equal(t, "id", pk.AttributeString("name"))
	assert.Equal(t, "INTEGER", pk.AttributeString("schemaType"))
}

func TestChain_Errors(t *testing.T) {
	fs := schemaFS(t, map[string]string{"a.xml": `<database><include-schema/></database>`})
	root, tc := loadRoot(t, fs, "a.xml")

	_, err := Chain{&IncludeSchemaTransformer{}}.Transform(context.Background(), TreeRoot(root), tc)
	require.ErrorIs(t, err, ErrMissingAttribute)
	assert.Contains(t, err.Error(), "include-schema: ")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = Chain{&IncludeSchemaTransformer{}}.Transform(ctx, TreeRoot(root), tc)
	require.ErrorIs(t, err, context.Canceled)
}
