package match

import (
	"reflect"
)

// TypeCompatibility describes how a value of one type can reach a slot of another.
type TypeCompatibility int

const (
	// TypeIncompatible means no assignment path exists.
	TypeIncompatible TypeCompatibility = iota
	// TypeNeedsTransform means a converter (for example string to bool) is required.
	TypeNeedsTransform
	// TypeConvertible means a reflect conversion within the same kind family suffices.
	TypeConvertible
	// TypeAssignable means the value can be assigned as is.
	TypeAssignable
	// TypeIdentical means the types are the same.
	TypeIdentical
)

const (
	VerdictIdentical      = "identical"
	VerdictAssignable     = "assignable"
	VerdictConvertible    = "convertible"
	VerdictNeedsTransform = "needs_transform"
	VerdictIncompatible   = "incompatible"
)

// String returns the verdict name.
func (c TypeCompatibility) String() string {
	switch c {
	case TypeIdentical:
		return VerdictIdentical
	case TypeAssignable:
		return VerdictAssignable
	case TypeConvertible:
		return VerdictConvertible
	case TypeNeedsTransform:
		return VerdictNeedsTransform
	case TypeIncompatible:
		return VerdictIncompatible
	default:
		return "unknown"
	}
}

// TypeCompatibilityResult carries the verdict and a readable reason.
type TypeCompatibilityResult struct {
	Compatibility TypeCompatibility
	Reason        string
	SourceType    string
	TargetType    string
}

// ScoreTypeCompatibility classifies assigning a source value to a target slot.
//
// Conversions are only offered inside a kind family (numbers to numbers,
// strings to strings, string and byte slices). reflect would also convert an
// int to a string by interpreting it as a rune, which is never wanted here.
func ScoreTypeCompatibility(source, target reflect.Type) TypeCompatibilityResult {
	result := TypeCompatibilityResult{
		SourceType: source.String(),
		TargetType: target.String(),
	}

	switch {
	case source == target:
		result.Compatibility = TypeIdentical
		result.Reason = "types are identical"
	case source.AssignableTo(target):
		result.Compatibility = TypeAssignable
		result.Reason = "source is assignable to target"
	case sameFamily(source, target) && source.ConvertibleTo(target):
		result.Compatibility = TypeConvertible
		result.Reason = "source is convertible to target"
	case IsStringKind(source) && (IsNumericKind(target) || target.Kind() == reflect.Bool):
		result.Compatibility = TypeNeedsTransform
		result.Reason = "string must be parsed"
	default:
		result.Compatibility = TypeIncompatible
		result.Reason = "types are not compatible"
	}

	return result
}

func sameFamily(a, b reflect.Type) bool {
	switch {
	case IsNumericKind(a):
		return IsNumericKind(b)
	case IsStringKind(a):
		return IsStringKind(b) || isByteSlice(b)
	case isByteSlice(a):
		return IsStringKind(b) || isByteSlice(b)
	default:
		return a.Kind() == b.Kind()
	}
}

// IsNumericKind reports whether t is an integer, unsigned or float type.
func IsNumericKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64,
		reflect.Float32, reflect.Float64:
		return true
	default:
		return false
	}
}

// IsStringKind reports whether t has underlying type string.
func IsStringKind(t reflect.Type) bool {
	return t.Kind() == reflect.String
}

func isByteSlice(t reflect.Type) bool {
	return t.Kind() == reflect.Slice && t.Elem().Kind() == reflect.Uint8
}
