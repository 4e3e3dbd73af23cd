package source

import (
	"context"
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileProvider_Sources(t *testing.T) {
	fs := memfs.New()

	for name, content := range map[string]string{
		"schema/book-schema.xml":       bookstoreXML,
		"schema/sub/author-schema.xml": `<database name="authors"/>`,
		"schema/ignored-schema.xml":    `<database/>`,
		"schema/readme.txt":            "docs",
		"other/elsewhere-schema.xml":   `<database/>`,
	} {
		require.NoError(t, util.WriteFile(fs, name, []byte(content), 0o644))
	}

	p := &FileProvider{
		FS:       fs,
		BaseDir:  "schema",
		Includes: []string{"**/*-schema.xml"},
		Excludes: []string{"ignored-*"},
	}

	sources, err := p.Sources()
	require.NoError(t, err)
	require.Len(t, sources, 2)
	assert.Equal(t, "schema/book-schema.xml", sources[0].Path())
	assert.Equal(t, "schema/sub/author-schema.xml", sources[1].Path())
	assert.Equal(t, "file schema/sub/author-schema.xml", sources[1].Description())

	root, err := sources[1].Root(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "authors", root.AttributeString("name"))
}

func TestFileProvider_DefaultIncludes(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "a.yaml", []byte("database:\n  name: a\n"), 0o644))
	require.NoError(t, util.WriteFile(fs, "notes.txt", []byte("x"), 0o644))

	sources, err := (&FileProvider{FS: fs}).Sources()
	require.NoError(t, err)
	require.Len(t, sources, 1)

	root, err := sources[0].Root(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "a", root.AttributeString("name"))
}

func TestFileSource_Errors(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "bad.xml", []byte("<a>"), 0o644))

	_, err := (&FileSource{FS: fs, Name: "missing.xml"}).Root(context.Background())
	require.Error(t, err)

	_, err = (&FileSource{FS: fs, Name: "bad.xml"}).Root(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "bad.xml")

	_, err = (&FileSource{FS: fs, Name: "notes.txt"}).Root(context.Background())
	require.ErrorIs(t, err, ErrUnknownFormat)
}

func TestMatchGlob(t *testing.T) {
	tests := []struct {
		pattern, rel string
		expected     bool
	}{
		{"*.xml", "a.xml", true},
		{"*.xml", "dir/a.xml", false},
		{"**/*.xml", "a.xml", true},
		{"**/*.xml", "dir/sub/a.xml", true},
		{"dir/**/*.xml", "dir/a.xml", true},
		{"dir/**/*.xml", "dir/sub/deep/a.xml", true},
		{"dir/**/*.xml", "other/a.xml", false},
		{"**/*-schema.{xml,yaml}", "sub/shop-schema.yaml", true},
		{"**/*-schema.{xml,yaml}", "sub/shop-schema.json", false},
		{"[", "a", false},
	}

	for _, tt := range tests {
		t.Run(tt.pattern+"_"+tt.rel, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchGlob(tt.pattern, tt.rel))
		})
	}
}

func TestElementSource(t *testing.T) {
	e := NewElement("database")
	s := &ElementSource{Name: "in memory", Element: e}

	root, err := s.Root(context.Background())
	require.NoError(t, err)
	assert.Same(t, e, root)
	assert.Empty(t, s.Path())
	assert.Equal(t, "in memory", s.Description())
}
