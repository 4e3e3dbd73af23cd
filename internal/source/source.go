package source

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

var (
	// ErrInvalidDocument is returned when input cannot be turned into an element graph.
	ErrInvalidDocument = errors.New("invalid source document")
	// ErrUnknownFormat is returned for files whose format cannot be determined.
	ErrUnknownFormat = errors.New("unknown source format")
)

// Format names an input file format.
type Format string

// Supported formats.
const (
	FormatXML    Format = "xml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatSQLite Format = "sqlite"
)

// FormatOf derives the format from a file extension.
func FormatOf(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".xml":
		return FormatXML, nil
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".json":
		return FormatJSON, nil
	case ".db", ".sqlite", ".sqlite3":
		return FormatSQLite, nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownFormat, path)
	}
}

// Parse reads a document held in memory. selector only applies to JSON.
func Parse(data []byte, format Format, selector string) (*Element, error) {
	switch format {
	case FormatXML:
		return ReadXML(data)
	case FormatYAML:
		return ReadYAML(data)
	case FormatJSON:
		return ReadJSON(data, selector)
	default:
		return nil, fmt.Errorf("%w: %q cannot be parsed from memory", ErrUnknownFormat, format)
	}
}

// Source produces the root element of one generation input.
type Source interface {
	// Description names the input in logs and diagnostics.
	Description() string
	// Path is the file the input was read from, or "" when there is none.
	Path() string
	Root(ctx context.Context) (*Element, error)
}

// FileSource reads one file of a billy filesystem.
type FileSource struct {
	FS       billy.Filesystem
	Name     string
	Format   Format
	Selector string
}

func (s *FileSource) Description() string {
	return "file " + s.Name
}

func (s *FileSource) Path() string {
	return s.Name
}

func (s *FileSource) Root(ctx context.Context) (*Element, error) {
	format := s.Format
	if format == "" {
		f, err := FormatOf(s.Name)
		if err != nil {
			return nil, err
		}

		format = f
	}

	if format == FormatSQLite {
		// the driver needs a real file
		return LoadSQLiteMetadata(ctx, filepath.Join(s.FS.Root(), s.Name))
	}

	data, err := util.ReadFile(s.FS, s.Name)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", s.Name, err)
	}

	root, err := Parse(data, format, s.Selector)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", s.Name, err)
	}

	return root, nil
}

// ElementSource serves an element that already exists.
type ElementSource struct {
	Name    string
	Element *Element
}

func (s *ElementSource) Description() string                    { return s.Name }
func (s *ElementSource) Path() string                           { return "" }
func (s *ElementSource) Root(context.Context) (*Element, error) { return s.Element, nil }

// GoPackagesSource describes Go packages, see LoadGoPackages.
type GoPackagesSource struct {
	Dir      string
	Patterns []string
}

func (s *GoPackagesSource) Description() string {
	return "go packages " + strings.Join(s.Patterns, " ")
}

func (s *GoPackagesSource) Path() string {
	return ""
}

func (s *GoPackagesSource) Root(ctx context.Context) (*Element, error) {
	return LoadGoPackages(ctx, s.Dir, s.Patterns...)
}
