package outlet

import (
	"errors"
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"torque-generator/internal/qname"
	"torque-generator/internal/source"
)

func constant(r Result) ActionFunc {
	return func(*State) (Result, error) { return r, nil }
}

func newTestOutlet(name string) *FuncOutlet {
	return NewFuncOutlet(qname.MustParse(name), func(*State) (Result, error) {
		return NewStringResult("ok"), nil
	})
}

func TestMergepoint(t *testing.T) {
	o := newTestOutlet("torque.table")
	require.NoError(t, o.SetMergepointMapping(NewMergepointMapping("empty")))
	require.NoError(t, o.SetMergepointMapping(NewMergepointMapping("body",
		constant(NewStringResult("a")), constant(EmptyResult()), constant(NewStringResult("b")))))
	require.NoError(t, o.SetMergepointMapping(NewMergepointMapping("binary",
		constant(NewStringResult("a")), constant(NewByteResult([]byte{1})))))

	state := NewState(NewConfiguration())

	t.Run("unmapped", func(t *testing.T) {
		s, err := o.Mergepoint("missing", state)
		require.NoError(t, err)
		assert.Empty(t, s)
	})

	t.Run("no actions", func(t *testing.T) {
		s, err := o.Mergepoint("empty", state)
		require.NoError(t, err)
		assert.Empty(t, s)
	})

	t.Run("actions in order", func(t *testing.T) {
		s, err := o.Mergepoint("body", state)
		require.NoError(t, err)
		assert.Equal(t, "ab", s)
	})

	t.Run("byte result", func(t *testing.T) {
		_, err := o.Mergepoint("binary", state)
		require.ErrorIs(t, err, ErrResultType)
		assert.Contains(t, err.Error(), `"binary"`)
		assert.Contains(t, err.Error(), "torque.table")
	})

	t.Run("failing action", func(t *testing.T) {
		boom := errors.New("boom")
		require.NoError(t, o.SetMergepointMapping(NewMergepointMapping("failing",
			ActionFunc(func(*State) (Result, error) { return Result{}, boom }))))

		_, err := o.Mergepoint("failing", state)
		require.ErrorIs(t, err, boom)
	})

	assert.Equal(t, []string{"binary", "body", "empty", "failing"}, o.MergepointNames())
}

func TestSetMergepointMapping_Duplicate(t *testing.T) {
	o := newTestOutlet("torque.table")
	require.NoError(t, o.SetMergepointMapping(NewMergepointMapping("body")))

	err := o.SetMergepointMapping(NewMergepointMapping("body"))
	require.ErrorIs(t, err, ErrDuplicateMergepoint)
	assert.Contains(t, err.Error(), "torque.table")
}

func TestBeforeExecute_ModelChecks(t *testing.T) {
	table := source.NewElement("table")
	column := source.NewElement("column")

	tests := []struct {
		name    string
		setup   func(o *FuncOutlet)
		model   any
		wantErr bool
	}{
		{"no constraints", func(*FuncOutlet) {}, 42, false},
		{"element name matches", func(o *FuncOutlet) { o.InputElementName = "table" }, table, false},
		{"element name differs", func(o *FuncOutlet) { o.InputElementName = "table" }, column, true},
		{"element expected", func(o *FuncOutlet) { o.InputElementName = "table" }, "table", true},
		{"type matches", func(o *FuncOutlet) { o.InputType = reflect.TypeFor[*source.Element]() }, table, false},
		{"type differs", func(o *FuncOutlet) { o.InputType = reflect.TypeFor[string]() }, table, true},
		{"nil model", func(o *FuncOutlet) { o.InputType = reflect.TypeFor[string]() }, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := newTestOutlet("torque.table")
			tt.setup(o)

			state := NewState(NewConfiguration())
			_, err := Invoke(o, tt.model, state)

			if tt.wantErr {
				var mismatch *ModelMismatchError
				require.ErrorAs(t, err, &mismatch)
				assert.Equal(t, "torque.table", mismatch.Outlet.String())
			} else {
				require.NoError(t, err)
			}

			assert.Nil(t, state.CurrentOutlet())
			assert.Equal(t, 0, state.Variables.Depth())
		})
	}
}

func TestInvoke_Lifecycle(t *testing.T) {
	state := NewState(NewConfiguration())
	state.SetModel("outer")

	var (
		seenModel any
		seenStack []string
		seenDepth int
	)

	o := NewFuncOutlet(qname.MustParse("torque.om.inner"), func(s *State) (Result, error) {
		seenModel = s.Model()
		seenStack = s.OutletStack()
		seenDepth = s.Variables.Depth()

		return NewStringResult("done"), nil
	})

	res, err := Invoke(o, "inner", state)
	require.NoError(t, err)
	assert.Equal(t, "done", res.String())
	assert.Equal(t, "inner", seenModel)
	assert.Equal(t, []string{"torque.om.inner"}, seenStack)
	assert.Equal(t, 1, seenDepth)

	assert.Equal(t, "outer", state.Model())
	assert.Empty(t, state.OutletStack())
}

func TestInvoke_RestoresOnError(t *testing.T) {
	state := NewState(NewConfiguration())
	state.SetModel("outer")

	boom := errors.New("boom")
	o := NewFuncOutlet(qname.MustParse("failing"), func(*State) (Result, error) {
		return Result{}, boom
	})

	_, err := Invoke(o, "inner", state)
	require.ErrorIs(t, err, boom)
	assert.Equal(t, "outer", state.Model())
	assert.Nil(t, state.CurrentOutlet())
	assert.Equal(t, 0, state.Variables.Depth())
}

func TestState_VariablesFollowOutletNamespace(t *testing.T) {
	state := NewState(NewConfiguration())

	var got any

	inner := NewFuncOutlet(qname.MustParse("torque.om.column"), func(s *State) (Result, error) {
		got, _ = s.Variable("prefix")
		return EmptyResult(), nil
	})
	outer := NewFuncOutlet(qname.MustParse("torque.table"), func(s *State) (Result, error) {
		if err := s.SetVariable("prefix", "T_", ScopeChildren); err != nil {
			return Result{}, err
		}

		return Invoke(inner, nil, s)
	})

	_, err := Invoke(outer, nil, state)
	require.NoError(t, err)
	assert.Equal(t, "T_", got, "torque.prefix is visible from torque.om")

	_, ok := state.Variable("torque.prefix")
	assert.False(t, ok, "children variables end with the outlet")
}

func TestState_Options(t *testing.T) {
	state := NewState(NewConfiguration())
	require.NoError(t, state.SetOptions(map[string]any{
		"torque.package":    "org.example",
		"torque.om.package": "org.example.om",
		"useManagers":       true,
	}))

	var pkg, om, managers string

	o := NewFuncOutlet(qname.MustParse("torque.om.sub.peer"), func(s *State) (Result, error) {
		om = s.StringOption("package")
		pkg = s.StringOption("torque.package")
		managers = s.StringOption("useManagers")

		return EmptyResult(), nil
	})

	_, err := Invoke(o, nil, state)
	require.NoError(t, err)
	assert.Equal(t, "org.example.om", om)
	assert.Equal(t, "org.example", pkg)
	assert.Equal(t, "true", managers)
	assert.Empty(t, state.StringOption("missing"))
}

func TestBaseOutlet_Input(t *testing.T) {
	o := newTestOutlet("a.b")
	assert.Empty(t, o.Input())

	o.InputType = reflect.TypeFor[*source.Element]()
	assert.Equal(t, "*source.Element", o.Input())

	o.InputElementName = "table"
	assert.Equal(t, "table", o.Input())
}

func TestConfiguration_SortedNames(t *testing.T) {
	cfg := NewConfiguration()
	for _, name := range []string{"torque.sql.table", "torque.database", "om.column", "torque.sql.column"} {
		require.NoError(t, cfg.AddOutlet(newTestOutlet(name)))
	}

	want := []string{"om.column", "torque.database", "torque.sql.column", "torque.sql.table"}
	assert.Equal(t, want, cfg.Names())

	var got []string
	for _, o := range cfg.Outlets() {
		got = append(got, o.Name().String())
	}

	assert.Equal(t, want, got)
}

func TestDescribeModel(t *testing.T) {
	root := schema()

	assert.Equal(t, "database[bookstore]", DescribeModel(root))
	assert.Equal(t, "database/table[book]", DescribeModel(root.ChildrenNamed("table")[1]))
	assert.Equal(t, "column", DescribeModel(element("column", nil)))
	assert.Equal(t, "<nil element>", DescribeModel((*source.Element)(nil)))
	assert.Equal(t, "int", DescribeModel(42))
}
