package outlet

import (
	"testing"

	"github.com/go-git/go-billy/v5/memfs"
	"github.com/go-git/go-billy/v5/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torque-generator/internal/output"
	"torque-generator/internal/qname"
)

func TestTemplateOutlet_Functions(t *testing.T) {
	cfg := NewConfiguration()
	mustTemplate(t, cfg, "torque.table",
		`{{setVar "prefix" "T_" "children"}}{{name}} {{exported (attr "name")}}:{{range children "column"}}{{mergepoint "column"}}{{end}}`,
		NewMergepointMapping("column", &ApplyAction{Path: "column", Outlet: "column"}))
	mustTemplate(t, cfg, "torque.column", ` {{var "prefix"}}{{kebab (attr "name")}}`)

	table := element("table", map[string]any{"name": "book_author"},
		element("column", map[string]any{"name": "authorId"}))

	res, err := Invoke(mustResolve(t, cfg, "torque.table"), table, NewState(cfg))
	require.NoError(t, err)
	assert.Equal(t, "table BookAuthor: T_author-id", res.String())
}

func TestTemplateOutlet_Vars(t *testing.T) {
	cfg := NewConfiguration()
	mustTemplate(t, cfg, "torque.table",
		`{{setVar "x" "outer" "children"}}{{setVar "z" "gen" "generator"}}{{mergepoint "columns"}}`,
		NewMergepointMapping("columns", &ApplyAction{Path: "column", Outlet: "torque.om.column"}))
	mustTemplate(t, cfg, "torque.om.column",
		`{{setVar "x" "inner"}}{{range $k, $v := vars}}{{$k}}={{$v}};{{end}}`)

	table := element("table", nil, element("column", nil))

	res, err := Invoke(mustResolve(t, cfg, "torque.table"), table, NewState(cfg))
	require.NoError(t, err)
	assert.Equal(t, "x=inner;z=gen;", res.String(), "the column's own x hides the table's")
}

func TestTemplateOutlet_ReentersItself(t *testing.T) {
	cfg := NewConfiguration()
	mustTemplate(t, cfg, "tree", `({{attr "name"}}{{mergepoint "children"}})`,
		NewMergepointMapping("children", &ApplyAction{Path: "node", Outlet: "tree", AcceptNotSet: true}))

	root := element("node", map[string]any{"name": "a"},
		element("node", map[string]any{"name": "b"},
			element("node", map[string]any{"name": "c"})),
		element("node", map[string]any{"name": "d"}))

	res, err := Invoke(mustResolve(t, cfg, "tree"), root, NewState(cfg))
	require.NoError(t, err)
	assert.Equal(t, "(a(b(c))(d))", res.String())
}

func TestTemplateOutlet_PropertyModel(t *testing.T) {
	type table struct {
		Name     string
		Abstract bool
	}

	cfg := NewConfiguration()
	mustTemplate(t, cfg, "om.table", `{{attr "name"}} {{attr "abstract"}}`)

	res, err := Invoke(mustResolve(t, cfg, "om.table"), &table{Name: "book", Abstract: true}, NewState(cfg))
	require.NoError(t, err)
	assert.Equal(t, "book true", res.String())

	_, err = Invoke(mustResolve(t, cfg, "om.table"), &struct{ Title string }{}, NewState(cfg))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "om.table")
}

func TestNewTemplateOutlet_ParseError(t *testing.T) {
	_, err := NewTemplateOutlet(qname.MustParse("broken"), `{{mergepoint "x"`)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken")
}

func TestCopyOutlet(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "logo.png", []byte{0x89, 'P', 'N', 'G'}, 0o644))

	o := NewCopyOutlet(qname.MustParse("copy"), fs, "logo.png")
	res, err := Invoke(o, nil, NewState(NewConfiguration()))
	require.NoError(t, err)
	assert.False(t, res.IsStringResult())
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, res.Bytes())

	// a byte result cannot be part of a mergepoint
	host := newTestOutlet("host")
	require.NoError(t, host.SetMergepointMapping(NewMergepointMapping("logo",
		ActionFunc(func(s *State) (Result, error) { return Invoke(o, nil, s) }))))

	_, err = host.Mergepoint("logo", NewState(NewConfiguration()))
	require.ErrorIs(t, err, ErrResultType)
}

func TestDebuggingWrapper(t *testing.T) {
	cfg := NewConfiguration()
	cfg.Debug = true
	mustTemplate(t, cfg, "torque.sql.table", `create table {{attr "name"}};`)
	require.NoError(t, cfg.AddOutlet(NewCopyOutlet(qname.MustParse("torque.sql.copy"), memfs.New(), "missing")))

	root := schema()
	state := NewState(cfg)
	state.Output = output.Output{Type: output.TypeSQL}

	o := mustResolve(t, cfg, "torque.sql.table")
	require.IsType(t, &DebuggingWrapper{}, o)

	res, err := Invoke(o, root.ChildrenNamed("table")[1], state)
	require.NoError(t, err)
	assert.Equal(t,
		"-- start of output of outlet torque.sql.table, model database/table[book]\n"+
			"create table book;"+
			"-- end of output of outlet torque.sql.table, model database/table[book]\n",
		res.String())

	_, err = Invoke(mustResolve(t, cfg, "torque.sql.copy"), root, state)
	require.Error(t, err, "errors pass through unwrapped")
}

func TestDebuggingWrapper_BytesPassThrough(t *testing.T) {
	fs := memfs.New()
	require.NoError(t, util.WriteFile(fs, "data.bin", []byte{1, 2}, 0o644))

	w := NewDebuggingWrapper(NewCopyOutlet(qname.MustParse("copy"), fs, "data.bin"))

	res, err := Invoke(w, nil, NewState(NewConfiguration()))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2}, res.Bytes())
}

func mustResolve(t *testing.T, cfg *Configuration, name string) Outlet {
	t.Helper()

	o, err := cfg.Resolve(name, qname.RootNamespace)
	require.NoError(t, err)

	return o
}
