package transform

import (
	"errors"
	"fmt"

	"torque-generator/internal/common"
	"torque-generator/internal/model"
	"torque-generator/internal/source"
)

// ErrUnsupportedRoot is returned by transformers that cannot handle a root kind.
var ErrUnsupportedRoot = errors.New("unsupported root")

// RootKind tells which variant a Root holds.
type RootKind int

const (
	// KindTree is a source element tree.
	KindTree RootKind = iota
	// KindModel is a typed model.Database.
	KindModel
)

func (k RootKind) String() string {
	switch k {
	case KindTree:
		return "tree"
	case KindModel:
		return "model"
	default:
		return common.UnknownStr
	}
}

// Root is the input of a transformer: a tree or a typed model.
type Root struct {
	kind  RootKind
	tree  *source.Element
	model *model.Database
}

// TreeRoot wraps an element tree.
func TreeRoot(e *source.Element) Root {
	return Root{kind: KindTree, tree: e}
}

// ModelRoot wraps a typed database.
func ModelRoot(db *model.Database) Root {
	return Root{kind: KindModel, model: db}
}

func (r Root) Kind() RootKind         { return r.kind }
func (r Root) Tree() *source.Element  { return r.tree }
func (r Root) Model() *model.Database { return r.model }

// AsTree returns the tree, converting a model root with model.ToTree.
func (r Root) AsTree() (*source.Element, error) {
	if r.kind == KindTree {
		return r.tree, nil
	}

	return model.ToTree(r.model)
}

// AsModel returns the model, binding a tree root with model.Bind.
func (r Root) AsModel() (*model.Database, error) {
	if r.kind == KindModel {
		return r.model, nil
	}

	return model.Bind(r.tree)
}

func unsupported(name string, r Root) error {
	return fmt.Errorf("%w: %s cannot transform a %s root", ErrUnsupportedRoot, name, r.kind)
}
