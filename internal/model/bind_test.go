package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torque-generator/internal/property"
	"torque-generator/internal/source"
)

const bookstoreXML = `<database name="bookstore" defaultIdMethod="native">
  <domain name="title" type="VARCHAR" size="255"/>
  <option key="useManagers" value="true"/>
  <table name="author" javaName="Writer">
    <column name="author_id" primaryKey="true" required="true" type="INTEGER" autoIncrement="true"/>
    <column name="name" domain="title"/>
    <unique name="author_name"><unique-column name="name"/></unique>
  </table>
  <table name="book" abstract="false">
    <column name="book_id" primaryKey="true" type="INTEGER"/>
    <column name="author_id" type="INTEGER"/>
    <foreign-key foreignTable="author" onDelete="cascade">
      <reference local="author_id" foreign="author_id"/>
    </foreign-key>
    <index name="book_author"><index-column name="author_id"/></index>
    <unknown-element/>
  </table>
  <view name="book_view" sqlSuffix="from book">
    <column name="title" select="title" type="VARCHAR"/>
  </view>
  <include-schema filename="other-schema.xml"/>
</database>`

func readBookstore(t *testing.T) *source.Element {
	t.Helper()

	root, err := source.ReadXML([]byte(bookstoreXML))
	require.NoError(t, err)

	return root
}

func TestBind(t *testing.T) {
	db, err := Bind(readBookstore(t))
	require.NoError(t, err)

	assert.Equal(t, "bookstore", db.Name)
	assert.Equal(t, "native", db.DefaultIDMethod)
	require.Len(t, db.Domains, 1)
	assert.Equal(t, "255", db.Domains[0].Size)
	require.Len(t, db.Options, 1)
	assert.Equal(t, Option{Key: "useManagers", Value: "true"}, *db.Options[0])
	require.Len(t, db.IncludeSchemas, 1)
	assert.Equal(t, "other-schema.xml", db.IncludeSchemas[0].Filename)

	require.Len(t, db.Tables, 2)
	author := db.Table("author")
	require.NotNil(t, author)
	assert.Equal(t, "Writer", author.JavaName)

	id := author.Column("author_id")
	require.NotNil(t, id)
	assert.True(t, id.PrimaryKey)
	assert.True(t, id.Required)
	assert.True(t, id.AutoIncrement)
	assert.Equal(t, "title", author.Column("name").Domain)
	require.Len(t, author.Uniques, 1)
	assert.Equal(t, "name", author.Uniques[0].Columns[0].Name)

	book := db.Table("book")
	require.NotNil(t, book)
	assert.False(t, book.Abstract)
	require.Len(t, book.ForeignKeys, 1)
	assert.Equal(t, "cascade", book.ForeignKeys[0].OnDelete)
	assert.Equal(t, []*Reference{{Local: "author_id", Foreign: "author_id"}}, book.ForeignKeys[0].References)
	require.Len(t, book.Indices, 1)
	assert.Equal(t, "author_id", book.Indices[0].Columns[0].Name)

	require.Len(t, db.Views, 1)
	assert.Equal(t, "from book", db.Views[0].SQLSuffix)
	assert.Equal(t, "title", db.Views[0].Columns[0].Select)
}

func TestBind_Strict(t *testing.T) {
	b := NewBinder()
	b.Strict = true

	_, err := b.Bind(readBookstore(t))
	require.ErrorIs(t, err, property.ErrNoSuchProperty)
	assert.Contains(t, err.Error(), "unknown-element")
}

func TestBind_NotDatabase(t *testing.T) {
	_, err := Bind(source.NewElement("table"))
	require.ErrorIs(t, err, ErrNotDatabase)
}

func TestBind_TypedValues(t *testing.T) {
	root, err := source.ReadYAML([]byte(`
database:
  name: shop
  table:
    - name: item
      column:
        - name: price
          size: 10
          scale: 2
          required: true
`))
	require.NoError(t, err)

	db, err := Bind(root)
	require.NoError(t, err)

	price := db.Tables[0].Columns[0]
	assert.Equal(t, "10", price.Size)
	assert.Equal(t, "2", price.Scale)
	assert.True(t, price.Required)
}

func TestBind_CollectorsShareObjects(t *testing.T) {
	root := source.NewElement("database")
	root.SetAttribute("name", "shop")

	table := source.NewElement("table")
	table.SetAttribute("name", "item")
	root.AddChild(table)

	id := source.NewElement("column")
	id.SetAttribute("name", "id")
	id.SetAttribute("primaryKey", "true")
	table.AddChild(id)

	pk := source.NewElement("primary-key")
	pk.AddChild(id)
	table.AddChild(pk)

	all := source.NewElement("all-tables")
	all.AddChild(table)
	root.AddChild(all)

	db, err := Bind(root)
	require.NoError(t, err)

	require.Len(t, db.AllTables, 1)
	assert.Same(t, db.Tables[0], db.AllTables[0])
	require.Len(t, db.Tables[0].PrimaryKey, 1)
	assert.Same(t, db.Tables[0].Columns[0], db.Tables[0].PrimaryKey[0])
}

func TestToTree_RoundTrip(t *testing.T) {
	db, err := Bind(readBookstore(t))
	require.NoError(t, err)

	db.AllTables = append(db.AllTables, db.Tables...)
	db.Tables[0].PrimaryKey = []*Column{db.Tables[0].Columns[0]}

	tree, err := ToTree(db)
	require.NoError(t, err)

	assert.Equal(t, "database", tree.Name())
	assert.False(t, tree.HasAttribute("package"), "empty strings are left out")

	tables := tree.ChildrenNamed("table")
	require.Len(t, tables, 2)
	assert.Equal(t, "Writer", tables[0].AttributeString("javaName"))

	all, err := tree.Child("all-tables")
	require.NoError(t, err)
	require.NotNil(t, all)
	assert.Same(t, tables[0], all.Children()[0])

	again, err := Bind(tree)
	require.NoError(t, err)
	assert.Equal(t, db.Name, again.Name)
	require.Len(t, again.Tables, 2)
	assert.Equal(t, db.Tables[1].ForeignKeys, again.Tables[1].ForeignKeys)
	assert.Same(t, again.Tables[0].Columns[0], again.Tables[0].PrimaryKey[0])
	assert.Same(t, again.Tables[1], again.AllTables[1])
}
