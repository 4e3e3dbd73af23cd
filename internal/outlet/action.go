package outlet

import (
	"errors"
	"fmt"
	"strings"

	"torque-generator/internal/source"
)

var (
	// ErrNothingSelected is returned when an action path selects no element
	// and the action does not accept that.
	ErrNothingSelected = errors.New("no element selected")
	// ErrAttributeNotSet is returned for a missing attribute without default.
	ErrAttributeNotSet = errors.New("attribute not set")
	// ErrOptionNotSet is returned for a missing option without default.
	ErrOptionNotSet = errors.New("option not set")
)

// ActionFunc adapts a function to the Action interface.
type ActionFunc func(state *State) (Result, error)

func (f ActionFunc) Execute(state *State) (Result, error) { return f(state) }
func (f ActionFunc) String() string                       { return "func" }

// OutputAction prints a literal text.
type OutputAction struct {
	Text string
}

func (a *OutputAction) Execute(*State) (Result, error) { return NewStringResult(a.Text), nil }
func (a *OutputAction) String() string                 { return fmt.Sprintf("output %q", a.Text) }

// ApplyAction invokes an outlet on every element selected by Path, relative
// to the current element.
type ApplyAction struct {
	Path   string
	Outlet string
	// AcceptNotSet makes an empty selection produce nothing instead of an error.
	AcceptNotSet bool
}

func (a *ApplyAction) String() string {
	return fmt.Sprintf("apply %s to %q", a.Outlet, a.Path)
}

func (a *ApplyAction) Execute(state *State) (Result, error) {
	el, err := state.Element()
	if err != nil {
		return Result{}, err
	}

	selected, err := source.Select(el, a.Path)
	if err != nil {
		return Result{}, err
	}

	if len(selected) == 0 {
		if a.AcceptNotSet {
			return NewStringResult(""), nil
		}

		return Result{}, fmt.Errorf("%w: path %q from %s", ErrNothingSelected, a.Path, DescribeModel(el))
	}

	return invokeAll(state, a.Outlet, selected)
}

// TraverseAllAction invokes an outlet on every descendant of the current
// element named Element. The current element itself is not included.
type TraverseAllAction struct {
	Element string
	Outlet  string
}

func (a *TraverseAllAction) String() string {
	return fmt.Sprintf("traverse %q with %s", a.Element, a.Outlet)
}

func (a *TraverseAllAction) Execute(state *State) (Result, error) {
	el, err := state.Element()
	if err != nil {
		return Result{}, err
	}

	var found []*source.Element

	source.Walk(el, func(e *source.Element) bool {
		if e != el && e.Name() == a.Element {
			found = append(found, e)
		}

		return true
	})

	if len(found) == 0 {
		return NewStringResult(""), nil
	}

	return invokeAll(state, a.Outlet, found)
}

func invokeAll(state *State, outletName string, models []*source.Element) (Result, error) {
	o, err := state.ResolveOutlet(outletName)
	if err != nil {
		return Result{}, err
	}

	results := make([]Result, 0, len(models))

	for _, m := range models {
		res, err := Invoke(o, m, state)
		if err != nil {
			return Result{}, err
		}

		results = append(results, res)
	}

	return Concatenate(results...)
}

// AttributeAction prints an attribute of the element selected by Path, or
// of the current element when Path is empty.
type AttributeAction struct {
	Path    string
	Name    string
	Default *string
	// AcceptNotSet prints nothing for a missing attribute without default.
	AcceptNotSet bool
}

func (a *AttributeAction) String() string {
	if a.Path == "" {
		return "attribute " + a.Name
	}

	return fmt.Sprintf("attribute %s of %q", a.Name, a.Path)
}

func (a *AttributeAction) Execute(state *State) (Result, error) {
	el, err := state.Element()
	if err != nil {
		return Result{}, err
	}

	if a.Path != "" {
		el, err = source.SelectOne(el, a.Path)
		if err != nil {
			return Result{}, err
		}
	}

	if el != nil && el.HasAttribute(a.Name) {
		return NewStringResult(el.AttributeString(a.Name)), nil
	}

	switch {
	case a.Default != nil:
		return NewStringResult(*a.Default), nil
	case a.AcceptNotSet:
		return NewStringResult(""), nil
	default:
		return Result{}, fmt.Errorf("%w: %q on %s", ErrAttributeNotSet, a.Name, DescribeModel(state.Model()))
	}
}

// OptionAction prints a generator option.
type OptionAction struct {
	Name         string
	Default      *string
	AcceptNotSet bool
}

func (a *OptionAction) String() string {
	return "option " + a.Name
}

func (a *OptionAction) Execute(state *State) (Result, error) {
	if v, ok := state.Option(a.Name); ok && v != nil {
		return NewStringResult(state.StringOption(a.Name)), nil
	}

	switch {
	case a.Default != nil:
		return NewStringResult(*a.Default), nil
	case a.AcceptNotSet:
		return NewStringResult(""), nil
	default:
		err := fmt.Errorf("%w: %q", ErrOptionNotSet, a.Name)
		if s := state.SuggestOptions(a.Name); len(s) > 0 {
			err = fmt.Errorf("%w; did you mean %s?", err, strings.Join(s, ", "))
		}

		return Result{}, err
	}
}

// MergepointCallAction prints another mergepoint of the running outlet.
type MergepointCallAction struct {
	Mergepoint string
}

func (a *MergepointCallAction) String() string {
	return "mergepoint " + a.Mergepoint
}

func (a *MergepointCallAction) Execute(state *State) (Result, error) {
	o := state.CurrentOutlet()
	if o == nil {
		return Result{}, fmt.Errorf("mergepoint %q called outside of an outlet", a.Mergepoint)
	}

	s, err := o.Mergepoint(a.Mergepoint, state)
	if err != nil {
		return Result{}, err
	}

	return NewStringResult(s), nil
}
