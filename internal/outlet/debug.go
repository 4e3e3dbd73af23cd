package outlet

import (
	"fmt"

	"torque-generator/internal/qname"
)

// DebuggingWrapper decorates an outlet and surrounds its string results
// with comments naming the outlet and the model. Byte results pass through.
type DebuggingWrapper struct {
	Outlet Outlet
}

// NewDebuggingWrapper wraps o.
func NewDebuggingWrapper(o Outlet) *DebuggingWrapper {
	return &DebuggingWrapper{Outlet: o}
}

func (d *DebuggingWrapper) Name() qname.QualifiedName        { return d.Outlet.Name() }
func (d *DebuggingWrapper) BeforeExecute(state *State) error { return d.Outlet.BeforeExecute(state) }
func (d *DebuggingWrapper) AfterExecute(state *State) error  { return d.Outlet.AfterExecute(state) }
func (d *DebuggingWrapper) MergepointNames() []string        { return d.Outlet.MergepointNames() }
func (d *DebuggingWrapper) Unwrap() Outlet                   { return d.Outlet }

func (d *DebuggingWrapper) Mergepoint(name string, state *State) (string, error) {
	return d.Outlet.Mergepoint(name, state)
}

func (d *DebuggingWrapper) SetMergepointMapping(m *MergepointMapping) error {
	return d.Outlet.SetMergepointMapping(m)
}

func (d *DebuggingWrapper) Execute(state *State) (Result, error) {
	res, err := d.Outlet.Execute(state)
	if err != nil || !res.IsStringResult() {
		return res, err
	}

	t := state.Output.Type
	lb := state.LineBreak
	model := DescribeModel(state.Model())

	start := t.Comment(fmt.Sprintf("start of output of outlet %s, model %s", d.Name(), model))
	end := t.Comment(fmt.Sprintf("end of output of outlet %s, model %s", d.Name(), model))

	return NewStringResult(start + lb + res.String() + end + lb), nil
}
