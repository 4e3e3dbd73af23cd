package output

import (
	"bytes"
	"errors"
	"fmt"
	"strings"

	"torque-generator/internal/common"
)

// ErrUnknownExisting is returned for an unrecognised existing-target strategy.
var ErrUnknownExisting = errors.New("unknown existing target strategy")

// ExistingTarget decides what happens when the target file already exists.
type ExistingTarget int

const (
	// Replace overwrites the existing file.
	Replace ExistingTarget = iota
	// Skip keeps the existing file and discards the new content.
	Skip
	// Append adds the new content after the existing content.
	Append
)

func (e ExistingTarget) String() string {
	switch e {
	case Replace:
		return "replace"
	case Skip:
		return "skip"
	case Append:
		return "append"
	default:
		return common.UnknownStr
	}
}

// ParseExistingTarget parses a strategy name. The empty string means Replace.
func ParseExistingTarget(s string) (ExistingTarget, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "replace":
		return Replace, nil
	case "skip":
		return Skip, nil
	case "append":
		return Append, nil
	default:
		return Replace, fmt.Errorf("%w: %q", ErrUnknownExisting, s)
	}
}

// Output is a single target file of a generation unit.
type Output struct {
	// Path is slash separated and relative to the writer's filesystem.
	Path     string
	Type     Type
	Existing ExistingTarget
	// LineBreak overrides line break detection when set.
	LineBreak string
}

// DetermineLineBreak returns the explicit line break of the output, else the
// first line break found in existing, else the default of the output type,
// else "\n".
func (o Output) DetermineLineBreak(existing []byte) string {
	if o.LineBreak != "" {
		return o.LineBreak
	}

	if i := bytes.IndexAny(existing, "\r\n"); i >= 0 {
		switch {
		case existing[i] == '\r' && i+1 < len(existing) && existing[i+1] == '\n':
			return "\r\n"
		case existing[i] == '\r':
			return "\r"
		default:
			return "\n"
		}
	}

	if o.Type.LineBreak != "" {
		return o.Type.LineBreak
	}

	return "\n"
}
