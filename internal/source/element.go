package source

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"sync/atomic"

	"github.com/RoaringBitmap/roaring"
	"github.com/RoaringBitmap/roaring/roaring64"
)

// TextAttribute is the attribute holding the text content of an element.
const TextAttribute = "#text"

var (
	// ErrAmbiguousChild is returned by Child when more than one child has the requested name.
	ErrAmbiguousChild = errors.New("ambiguous child")
	// ErrIndexOutOfRange is returned for child list positions outside the list.
	ErrIndexOutOfRange = errors.New("child index out of range")
)

var lastID atomic.Uint32

// Element is a node of the source graph.
type Element struct {
	id         uint32
	name       string
	attrNames  []string
	attributes map[string]any
	children   []*Element
	parents    []*Element
	parent     *Element
}

// NewElement creates an element without attributes, children or parents.
func NewElement(name string) *Element {
	return &Element{
		id:         lastID.Add(1),
		name:       name,
		attributes: make(map[string]any),
	}
}

// ID returns the stable identity of the element.
func (e *Element) ID() uint32 {
	return e.id
}

// Name returns the element name.
func (e *Element) Name() string {
	return e.name
}

// SetName renames the element.
func (e *Element) SetName(name string) {
	e.name = name
}

// Attribute returns the attribute value, or nil if unset.
func (e *Element) Attribute(name string) any {
	return e.attributes[name]
}

// AttributeString returns the attribute formatted with fmt, or "" if unset.
func (e *Element) AttributeString(name string) string {
	v, ok := e.attributes[name]
	if !ok || v == nil {
		return ""
	}

	if s, ok := v.(string); ok {
		return s
	}

	return fmt.Sprint(v)
}

// HasAttribute reports whether the attribute is set.
func (e *Element) HasAttribute(name string) bool {
	_, ok := e.attributes[name]
	return ok
}

// SetAttribute sets an attribute and returns the previous value. A nil value removes it.
func (e *Element) SetAttribute(name string, value any) any {
	previous := e.attributes[name]

	if value == nil {
		if _, ok := e.attributes[name]; ok {
			delete(e.attributes, name)
			e.attrNames = removeString(e.attrNames, name)
		}

		return previous
	}

	if _, ok := e.attributes[name]; !ok {
		e.attrNames = append(e.attrNames, name)
	}

	e.attributes[name] = value

	return previous
}

// AttributeNames returns the names of all set attributes in the order they were first set.
func (e *Element) AttributeNames() []string {
	return append([]string(nil), e.attrNames...)
}

// Text returns the text content of the element.
func (e *Element) Text() string {
	return e.AttributeString(TextAttribute)
}

// SetText sets the text content; "" removes it.
func (e *Element) SetText(text string) {
	if text == "" {
		e.SetAttribute(TextAttribute, nil)
		return
	}

	e.SetAttribute(TextAttribute, text)
}

// Parent returns the primary parent, which is the first element this one was added to.
func (e *Element) Parent() *Element {
	return e.parent
}

// Parents returns every element that has this element as child.
func (e *Element) Parents() []*Element {
	return append([]*Element(nil), e.parents...)
}

// Children returns the children in order.
func (e *Element) Children() []*Element {
	return append([]*Element(nil), e.children...)
}

// ChildCount returns the number of children.
func (e *Element) ChildCount() int {
	return len(e.children)
}

// ChildrenNamed returns the children with the given name in order.
func (e *Element) ChildrenNamed(name string) []*Element {
	var result []*Element

	for _, c := range e.children {
		if c.name == name {
			result = append(result, c)
		}
	}

	return result
}

// Child returns the single child with the given name, or nil if there is none.
func (e *Element) Child(name string) (*Element, error) {
	matches := e.ChildrenNamed(name)

	switch len(matches) {
	case 0:
		return nil, nil
	case 1:
		return matches[0], nil
	default:
		return nil, fmt.Errorf("%w: element %q has %d children named %q", ErrAmbiguousChild, e.name, len(matches), name)
	}
}

// HasChild reports whether a child with the given name exists.
func (e *Element) HasChild(name string) bool {
	for _, c := range e.children {
		if c.name == name {
			return true
		}
	}

	return false
}

// AddChild appends child.
func (e *Element) AddChild(child *Element) {
	e.children = append(e.children, child)
	e.link(child)
}

// InsertChild inserts child at index; index == ChildCount() appends.
func (e *Element) InsertChild(index int, child *Element) error {
	if index < 0 || index > len(e.children) {
		return fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, index, len(e.children))
	}

	e.children = append(e.children, nil)
	copy(e.children[index+1:], e.children[index:])
	e.children[index] = child
	e.link(child)

	return nil
}

// RemoveChild removes the first occurrence of child and reports whether it was found.
func (e *Element) RemoveChild(child *Element) bool {
	for i, c := range e.children {
		if c == child {
			e.children = append(e.children[:i], e.children[i+1:]...)
			e.unlink(child)

			return true
		}
	}

	return false
}

// RemoveChildAt removes and returns the child at index.
func (e *Element) RemoveChildAt(index int) (*Element, error) {
	if index < 0 || index >= len(e.children) {
		return nil, fmt.Errorf("%w: %d (size %d)", ErrIndexOutOfRange, index, len(e.children))
	}

	child := e.children[index]
	e.children = append(e.children[:index], e.children[index+1:]...)
	e.unlink(child)

	return child, nil
}

// RemoveChildrenFunc removes every child for which remove returns true.
func (e *Element) RemoveChildrenFunc(remove func(*Element) bool) int {
	removed := 0

	for i := 0; i < len(e.children); {
		c := e.children[i]
		if !remove(c) {
			i++
			continue
		}

		e.children = append(e.children[:i], e.children[i+1:]...)
		e.unlink(c)
		removed++
	}

	return removed
}

// ClearChildren removes all children.
func (e *Element) ClearChildren() {
	for len(e.children) > 0 {
		_, _ = e.RemoveChildAt(len(e.children) - 1)
	}
}

func (e *Element) link(child *Element) {
	if child.parent == nil {
		child.parent = e
	}

	child.parents = append(child.parents, e)
}

func (e *Element) unlink(child *Element) {
	for i, p := range child.parents {
		if p == e {
			child.parents = append(child.parents[:i], child.parents[i+1:]...)
			break
		}
	}

	if len(child.parents) == 0 {
		child.parent = nil
	}
}

// Copy deep-copies the graph reachable from e. Attribute values are shared,
// elements are new. An element reached twice is copied once.
func (e *Element) Copy() *Element {
	return e.copyInto(make(map[uint32]*Element))
}

func (e *Element) copyInto(copied map[uint32]*Element) *Element {
	if c, ok := copied[e.id]; ok {
		return c
	}

	c := NewElement(e.name)
	copied[e.id] = c

	for _, name := range e.attrNames {
		c.SetAttribute(name, e.attributes[name])
	}

	for _, child := range e.children {
		c.AddChild(child.copyInto(copied))
	}

	return c
}

// String renders the element and its descendants, one element per line.
// An element already being rendered higher up is printed as a loop marker.
func (e *Element) String() string {
	var sb strings.Builder
	e.render(&sb, roaring.New(), 0)

	return sb.String()
}

func (e *Element) render(sb *strings.Builder, rendering *roaring.Bitmap, depth int) {
	indent := strings.Repeat("  ", depth)

	if rendering.Contains(e.id) {
		fmt.Fprintf(sb, "%s<loop: %s>\n", indent, e.name)
		return
	}

	rendering.Add(e.id)
	defer rendering.Remove(e.id)

	sb.WriteString(indent)
	sb.WriteString(e.name)

	if len(e.attrNames) > 0 {
		parts := make([]string, 0, len(e.attrNames))
		for _, name := range e.attrNames {
			parts = append(parts, fmt.Sprintf("%s=%v", name, e.attributes[name]))
		}

		sb.WriteString("(" + strings.Join(parts, ", ") + ")")
	}

	sb.WriteString("\n")

	for _, child := range e.children {
		child.render(sb, rendering, depth+1)
	}
}

// GraphEquals compares names, attributes and children recursively. A pair of
// elements reached again while being compared is considered equal, which
// makes the comparison terminate on cyclic graphs.
func (e *Element) GraphEquals(other *Element) bool {
	return graphEquals(e, other, roaring64.New())
}

func graphEquals(a, b *Element, comparing *roaring64.Bitmap) bool {
	if a == b {
		return true
	}

	if a == nil || b == nil {
		return false
	}

	pair := uint64(a.id)<<32 | uint64(b.id)
	if comparing.Contains(pair) {
		return true
	}

	if a.name != b.name || len(a.attributes) != len(b.attributes) || len(a.children) != len(b.children) {
		return false
	}

	for name, av := range a.attributes {
		bv, ok := b.attributes[name]
		if !ok || !reflect.DeepEqual(av, bv) {
			return false
		}
	}

	comparing.Add(pair)

	for i := range a.children {
		if !graphEquals(a.children[i], b.children[i], comparing) {
			return false
		}
	}

	return true
}

func removeString(list []string, s string) []string {
	for i, v := range list {
		if v == s {
			return append(list[:i], list[i+1:]...)
		}
	}

	return list
}
