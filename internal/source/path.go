package source

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"github.com/RoaringBitmap/roaring"
)

// PathSeparator separates the steps of an element path.
const PathSeparator = "/"

var (
	// ErrPathLoop is returned when following primary parents revisits an element.
	ErrPathLoop = errors.New("loop in primary parent chain")
	// ErrInvalidPath is returned by Select for malformed paths.
	ErrInvalidPath = errors.New("invalid element path")
)

// Root follows primary parents up to the element without parent.
func Root(e *Element) (*Element, error) {
	chain, err := ancestry(e)
	if err != nil {
		return nil, err
	}

	return chain[0], nil
}

// Path returns the names from the root down to e joined with PathSeparator.
func Path(e *Element) (string, error) {
	chain, err := ancestry(e)
	if err != nil {
		return "", err
	}

	names := make([]string, len(chain))
	for i, a := range chain {
		names[i] = a.name
	}

	return strings.Join(names, PathSeparator), nil
}

// ancestry returns the primary parent chain of e, root first.
func ancestry(e *Element) ([]*Element, error) {
	seen := roaring.New()

	var chain []*Element

	for cur := e; cur != nil; cur = cur.parent {
		if !seen.CheckedAdd(cur.id) {
			return nil, fmt.Errorf("%w: element %q", ErrPathLoop, cur.name)
		}

		chain = append(chain, cur)
	}

	slices.Reverse(chain)

	return chain, nil
}

// Select evaluates a path relative to e. Steps are separated by "/"; a step
// is a child name, "*" for all children, "." for the current element or
// ".." for the primary parent. A leading "/" starts at the root.
func Select(e *Element, path string) ([]*Element, error) {
	current := []*Element{e}

	if strings.HasPrefix(path, PathSeparator) {
		root, err := Root(e)
		if err != nil {
			return nil, err
		}

		current = []*Element{root}
		path = strings.TrimPrefix(path, PathSeparator)

		// the first step of an absolute path names the root itself
		first, rest, _ := strings.Cut(path, PathSeparator)
		if first != "" && first != "*" && first != root.name {
			return nil, nil
		}

		path = rest
	}

	if path == "" {
		return current, nil
	}

	for step := range strings.SplitSeq(path, PathSeparator) {
		if step == "" {
			return nil, fmt.Errorf("%w: empty step in %q", ErrInvalidPath, path)
		}

		var next []*Element

		for _, el := range current {
			switch step {
			case ".":
				next = append(next, el)
			case "..":
				if el.parent != nil {
					next = append(next, el.parent)
				}
			case "*":
				next = append(next, el.children...)
			default:
				next = append(next, el.ChildrenNamed(step)...)
			}
		}

		current = next
	}

	return current, nil
}

// SelectOne is Select for paths that must match at most one element.
func SelectOne(e *Element, path string) (*Element, error) {
	found, err := Select(e, path)
	if err != nil {
		return nil, err
	}

	switch len(found) {
	case 0:
		return nil, nil
	case 1:
		return found[0], nil
	default:
		return nil, fmt.Errorf("%w: path %q matches %d elements", ErrAmbiguousChild, path, len(found))
	}
}

// Walk visits e and its descendants depth first, each element once.
// Returning false from visit skips the children of that element.
func Walk(e *Element, visit func(*Element) bool) {
	walk(e, roaring.New(), visit)
}

func walk(e *Element, visited *roaring.Bitmap, visit func(*Element) bool) {
	if !visited.CheckedAdd(e.id) {
		return
	}

	if !visit(e) {
		return
	}

	for _, c := range e.children {
		walk(c, visited, visit)
	}
}

// FindAll returns every element reachable from e, e included, whose name is name.
func FindAll(e *Element, name string) []*Element {
	var found []*Element

	Walk(e, func(el *Element) bool {
		if el.name == name {
			found = append(found, el)
		}

		return true
	})

	return found
}
