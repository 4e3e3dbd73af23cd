package output

import (
	"errors"
	"fmt"
	"path"
	"sort"
	"strings"

	"mvdan.cc/gofumpt/format"
)

// ErrUnknownType is returned when an output type key is not registered.
var ErrUnknownType = errors.New("unknown output type")

// Type describes a kind of generated file.
type Type struct {
	// Key is the name used in configuration, e.g. "java" or "sql".
	Key string
	// CommentStart and CommentEnd delimit a comment. CommentEnd is empty for
	// line comments.
	CommentStart string
	CommentEnd   string
	// LineBreak is used when neither the output nor an existing target
	// decides it.
	LineBreak string
	// Extensions lists file extensions (with dot) that map to this type.
	Extensions []string
	// Format post-processes the final content. Nil means no formatting.
	Format func([]byte) ([]byte, error)
}

// Comment wraps text in the comment delimiters of the type.
func (t Type) Comment(text string) string {
	if t.CommentEnd == "" {
		return t.CommentStart + " " + text
	}

	return t.CommentStart + " " + text + " " + t.CommentEnd
}

// Predefined output types.
var (
	TypeJava = Type{
		Key: "java", CommentStart: "//", LineBreak: "\n",
		Extensions: []string{".java"},
	}
	TypeGo = Type{
		Key: "go", CommentStart: "//", LineBreak: "\n",
		Extensions: []string{".go"},
		Format:     formatGo,
	}
	TypeSQL = Type{
		Key: "sql", CommentStart: "--", LineBreak: "\n",
		Extensions: []string{".sql", ".ddl"},
	}
	TypeXML = Type{
		Key: "xml", CommentStart: "<!--", CommentEnd: "-->", LineBreak: "\n",
		Extensions: []string{".xml", ".xsd", ".html"},
	}
	TypeProperties = Type{
		Key: "properties", CommentStart: "#", LineBreak: "\n",
		Extensions: []string{".properties", ".yaml", ".yml"},
	}
	TypeText = Type{
		Key: "text", CommentStart: "#", LineBreak: "\n",
		Extensions: []string{".txt"},
	}
)

var types = map[string]Type{}

func init() {
	for _, t := range []Type{TypeJava, TypeGo, TypeSQL, TypeXML, TypeProperties, TypeText} {
		Register(t)
	}
}

// Register adds or replaces an output type.
func Register(t Type) {
	types[t.Key] = t
}

// LookupType returns the registered type for key.
func LookupType(key string) (Type, error) {
	t, ok := types[strings.ToLower(key)]
	if !ok {
		return Type{}, fmt.Errorf("%w %q (known: %s)", ErrUnknownType, key, strings.Join(TypeKeys(), ", "))
	}

	return t, nil
}

// TypeKeys returns the registered type keys in sorted order.
func TypeKeys() []string {
	keys := make([]string, 0, len(types))
	for k := range types {
		keys = append(keys, k)
	}

	sort.Strings(keys)

	return keys
}

// TypeOf guesses the output type from a file name. Unknown extensions map to
// TypeText.
func TypeOf(filename string) Type {
	ext := strings.ToLower(path.Ext(filename))
	for _, k := range TypeKeys() {
		for _, e := range types[k].Extensions {
			if e == ext {
				return types[k]
			}
		}
	}

	return TypeText
}

func formatGo(content []byte) ([]byte, error) {
	return format.Source(content, format.Options{})
}
