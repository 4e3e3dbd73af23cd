package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPath(t *testing.T) {
	db := schemaTree()
	column := db.Children()[0].Children()[1]

	p, err := Path(column)
	require.NoError(t, err)
	assert.Equal(t, "database/table/column", p)

	root, err := Root(column)
	require.NoError(t, err)
	assert.Same(t, db, root)
}

func TestPath_Loop(t *testing.T) {
	a, b := NewElement("a"), NewElement("b")
	a.AddChild(b)
	b.AddChild(a)

	_, err := Path(a)
	require.ErrorIs(t, err, ErrPathLoop)

	_, err = Select(a, "/a")
	require.ErrorIs(t, err, ErrPathLoop)
}

func TestSelect(t *testing.T) {
	db := schemaTree()
	book := db.Children()[0]
	id := book.Children()[0]

	tests := []struct {
		name     string
		from     *Element
		path     string
		expected []*Element
	}{
		{"children by name", db, "table/column", book.Children()},
		{"current", book, ".", []*Element{book}},
		{"empty", book, "", []*Element{book}},
		{"parent", id, "..", []*Element{book}},
		{"wildcard", db, "*/*", book.Children()},
		{"absolute", id, "/database/table", []*Element{book}},
		{"absolute root", id, "/", []*Element{db}},
		{"absolute other root", id, "/schema/table", nil},
		{"no match", db, "view", nil},
		{"parent of root", db, "..", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			found, err := Select(tt.from, tt.path)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, found)
		})
	}

	_, err := Select(db, "table//column")
	require.ErrorIs(t, err, ErrInvalidPath)
}

func TestSelectOne(t *testing.T) {
	db := schemaTree()

	book, err := SelectOne(db, "table")
	require.NoError(t, err)
	assert.Equal(t, "book", book.AttributeString("name"))

	none, err := SelectOne(db, "view")
	require.NoError(t, err)
	assert.Nil(t, none)

	_, err = SelectOne(db, "table/column")
	require.ErrorIs(t, err, ErrAmbiguousChild)
}

func TestWalkAndFindAll(t *testing.T) {
	db := selfLoop()

	var names []string

	Walk(db, func(e *Element) bool {
		names = append(names, e.Name())
		return true
	})
	assert.Equal(t, []string{"database", "table", "column", "column"}, names)

	assert.Len(t, FindAll(db, "column"), 2)

	count := 0
	Walk(db, func(e *Element) bool {
		count++
		return e.Name() == "database"
	})
	assert.Equal(t, 2, count)
}
