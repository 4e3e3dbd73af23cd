package outlet

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrEmptyConcatenation is returned when concatenating no results.
	ErrEmptyConcatenation = errors.New("cannot concatenate an empty result list")
	// ErrResultType is returned when string and byte results are mixed.
	ErrResultType = errors.New("result type mismatch")
)

// Result is the output of an outlet or action: a string, a byte slice or
// nothing at all.
//
// The type predicates look at the other branch: IsStringResult reports that
// there are no bytes and IsByteArrayResult that there is no string. The empty
// result therefore counts as both.
type Result struct {
	str  *string
	data []byte
}

// NewStringResult returns a string result.
func NewStringResult(s string) Result {
	return Result{str: &s}
}

// NewByteResult returns a byte result. A nil slice gives the empty result.
func NewByteResult(b []byte) Result {
	return Result{data: b}
}

// EmptyResult returns the result without content.
func EmptyResult() Result {
	return Result{}
}

// String returns the string content, "" for byte and empty results.
func (r Result) String() string {
	if r.str == nil {
		return ""
	}

	return *r.str
}

// Bytes returns the byte content, nil for string and empty results.
func (r Result) Bytes() []byte {
	return r.data
}

// IsNull reports whether the result carries no content.
func (r Result) IsNull() bool {
	return r.str == nil && r.data == nil
}

// IsStringResult reports whether the result has no byte content.
func (r Result) IsStringResult() bool {
	return r.data == nil
}

// IsByteArrayResult reports whether the result has no string content.
func (r Result) IsByteArrayResult() bool {
	return r.str == nil
}

// Concatenate joins results of one kind. The kind is decided by the first
// result that is not a byte result (string) or not a string result (bytes).
// When every result is empty, so is the concatenation.
func Concatenate(results ...Result) (Result, error) {
	if len(results) == 0 {
		return Result{}, ErrEmptyConcatenation
	}

	asString, decided := false, false

	for _, r := range results {
		if !r.IsByteArrayResult() {
			asString, decided = true, true
			break
		}

		if !r.IsStringResult() {
			decided = true
			break
		}
	}

	if !decided {
		return Result{}, nil
	}

	if asString {
		var sb strings.Builder

		for i, r := range results {
			if !r.IsStringResult() {
				return Result{}, fmt.Errorf("%w: result %d is a byte result in a string concatenation", ErrResultType, i)
			}

			sb.WriteString(r.String())
		}

		return NewStringResult(sb.String()), nil
	}

	var out []byte

	for i, r := range results {
		if !r.IsByteArrayResult() {
			return Result{}, fmt.Errorf("%w: result %d is a string result in a byte concatenation", ErrResultType, i)
		}

		out = append(out, r.data...)
	}

	if out == nil {
		out = []byte{}
	}

	return NewByteResult(out), nil
}
