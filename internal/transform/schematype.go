package transform

import (
	"errors"
	"fmt"
	"strings"

	"github.com/RoaringBitmap/roaring"

	"torque-generator/internal/match"
	"torque-generator/internal/model"
	"torque-generator/internal/source"
)

//go:generate go tool stringer -type=SchemaType -linecomment -output=schematype_string.go

// SchemaType is an SQL column type as used in schema files.
type SchemaType int

const (
	SchemaTypeBit SchemaType = iota + 1 // BIT
	SchemaTypeTinyInt                   // TINYINT
	SchemaTypeSmallInt                  // SMALLINT
	SchemaTypeInteger                   // INTEGER
	SchemaTypeBigInt                    // BIGINT
	SchemaTypeFloat                     // FLOAT
	SchemaTypeReal                      // REAL
	SchemaTypeNumeric                   // NUMERIC
	SchemaTypeDecimal                   // DECIMAL
	SchemaTypeChar                      // CHAR
	SchemaTypeVarchar                   // VARCHAR
	SchemaTypeLongVarchar               // LONGVARCHAR
	SchemaTypeDate                      // DATE
	SchemaTypeTime                      // TIME
	SchemaTypeTimestamp                 // TIMESTAMP
	SchemaTypeBinary                    // BINARY
	SchemaTypeVarBinary                 // VARBINARY
	SchemaTypeLongVarBinary             // LONGVARBINARY
	SchemaTypeNull                      // NULL
	SchemaTypeOther                     // OTHER
	SchemaTypeJavaObject                // JAVA_OBJECT
	SchemaTypeDistinct                  // DISTINCT
	SchemaTypeStruct                    // STRUCT
	SchemaTypeArray                     // ARRAY
	SchemaTypeBlob                      // BLOB
	SchemaTypeClob                      // CLOB
	SchemaTypeRef                       // REF
	SchemaTypeBooleanInt                // BOOLEANINT
	SchemaTypeBooleanChar               // BOOLEANCHAR
	SchemaTypeDouble                    // DOUBLE
)

var (
	// ErrUnknownType is wrapped by UnknownTypeError.
	ErrUnknownType = errors.New("unknown schema type")
	// ErrMissingAttribute is returned when a required attribute is absent.
	ErrMissingAttribute = errors.New("missing attribute")
	// ErrDomainNotFound is wrapped by DomainNotFoundError.
	ErrDomainNotFound = errors.New("domain not found")
)

// SchemaTypes returns all schema types in declaration order.
func SchemaTypes() []SchemaType {
	types := make([]SchemaType, 0, SchemaTypeDouble)
	for t := SchemaTypeBit; t <= SchemaTypeDouble; t++ {
		types = append(types, t)
	}

	return types
}

// ParseSchemaType parses a type name, ignoring case and surrounding space.
func ParseSchemaType(s string) (SchemaType, bool) {
	want := strings.ToUpper(strings.TrimSpace(s))
	for _, t := range SchemaTypes() {
		if t.String() == want {
			return t, true
		}
	}

	return 0, false
}

// IsTextType reports whether values of the type are quoted strings.
func (t SchemaType) IsTextType() bool {
	switch t {
	case SchemaTypeChar, SchemaTypeVarchar, SchemaTypeLongVarchar, SchemaTypeClob,
		SchemaTypeDate, SchemaTypeTime, SchemaTypeTimestamp, SchemaTypeBooleanChar:
		return true
	default:
		return false
	}
}

// UnknownTypeError reports a type name that is not a SchemaType.
type UnknownTypeError struct {
	Type        string
	Column      string
	Suggestions []string
}

func newUnknownTypeError(typ, column string) *UnknownTypeError {
	known := make([]string, 0, SchemaTypeDouble)
	for _, t := range SchemaTypes() {
		known = append(known, t.String())
	}

	return &UnknownTypeError{Type: typ, Column: column, Suggestions: match.Suggest(typ, known)}
}

func (e *UnknownTypeError) Error() string {
	msg := fmt.Sprintf("%s %q of column %s", ErrUnknownType, e.Type, e.Column)
	if len(e.Suggestions) > 0 {
		msg += "; did you mean " + strings.Join(e.Suggestions, ", ") + "?"
	}

	return msg
}

func (e *UnknownTypeError) Unwrap() error {
	return ErrUnknownType
}

// DomainNotFoundError reports a column referencing an undefined domain.
type DomainNotFoundError struct {
	Domain string
	Column string
}

func (e *DomainNotFoundError) Error() string {
	return fmt.Sprintf("%s: domain %q referenced by column %s is not defined in the database", ErrDomainNotFound, e.Domain, e.Column)
}

func (e *DomainNotFoundError) Unwrap() error {
	return ErrDomainNotFound
}

// SchemaTypeOf returns the effective type of a column element. A domain
// reference is looked up among the domain elements of the owning database
// and its type wins; otherwise the type attribute of the column is used.
func SchemaTypeOf(column *source.Element) (SchemaType, error) {
	name := columnName(column)
	typ := column.AttributeString("type")

	if domainName := column.AttributeString("domain"); domainName != "" {
		domain := findDomain(column, domainName)
		if domain == nil {
			return 0, &DomainNotFoundError{Domain: domainName, Column: name}
		}

		if dt := domain.AttributeString("type"); dt != "" {
			typ = dt
		}
	}

	return parseColumnType(typ, name)
}

// ModelSchemaType is SchemaTypeOf for the typed model.
func ModelSchemaType(db *model.Database, table string, column *model.Column) (SchemaType, error) {
	name := table + "." + column.Name
	typ := column.Type

	if column.Domain != "" {
		domain := db.Domain(column.Domain)
		if domain == nil {
			return 0, &DomainNotFoundError{Domain: column.Domain, Column: name}
		}

		if domain.Type != "" {
			typ = domain.Type
		}
	}

	return parseColumnType(typ, name)
}

func parseColumnType(typ, column string) (SchemaType, error) {
	if typ == "" {
		return 0, fmt.Errorf("%w: type of column %s", ErrMissingAttribute, column)
	}

	t, ok := ParseSchemaType(typ)
	if !ok {
		return 0, newUnknownTypeError(typ, column)
	}

	return t, nil
}

// findDomain returns the domain element called name of the database owning
// column, or nil.
func findDomain(column *source.Element, name string) *source.Element {
	db := owningDatabase(column)
	if db == nil {
		return nil
	}

	for _, d := range db.ChildrenNamed("domain") {
		if d.AttributeString("name") == name {
			return d
		}
	}

	return nil
}

func owningDatabase(e *source.Element) *source.Element {
	seen := roaring.New()

	for cur := e; cur != nil && seen.CheckedAdd(cur.ID()); cur = cur.Parent() {
		if cur.Name() == "database" {
			return cur
		}
	}

	return nil
}

func columnName(column *source.Element) string {
	name := column.AttributeString("name")
	if p := column.Parent(); p != nil && p.HasAttribute("name") {
		return p.AttributeString("name") + "." + name
	}

	return name
}
