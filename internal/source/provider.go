package source

import (
	"fmt"
	"io/fs"
	"path/filepath"
	"slices"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
)

// FileProvider finds input files below BaseDir. A file is used when its
// slash-separated path relative to BaseDir matches one of Includes and none
// of Excludes. Patterns use doublestar syntax: "**" matches any number of
// directories and "{a,b}" alternatives. Without includes every file of a
// known format is used.
type FileProvider struct {
	FS       billy.Filesystem
	BaseDir  string
	Includes []string
	Excludes []string
	// Selector is handed to JSON sources.
	Selector string
}

// Sources returns one FileSource per matching file, sorted by path.
func (p *FileProvider) Sources() ([]Source, error) {
	base := p.BaseDir
	if base == "" {
		base = "."
	}

	var names []string

	err := util.Walk(p.FS, base, func(name string, info fs.FileInfo, err error) error {
		if err != nil {
			return err
		}

		if info.IsDir() {
			return nil
		}

		rel, err := filepath.Rel(base, name)
		if err != nil {
			return err
		}

		if p.accepts(filepath.ToSlash(rel)) {
			names = append(names, name)
		}

		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scanning %s: %w", base, err)
	}

	slices.Sort(names)

	sources := make([]Source, 0, len(names))
	for _, name := range names {
		sources = append(sources, &FileSource{FS: p.FS, Name: name, Selector: p.Selector})
	}

	return sources, nil
}

func (p *FileProvider) accepts(rel string) bool {
	if len(p.Includes) == 0 {
		if _, err := FormatOf(rel); err != nil {
			return false
		}
	} else if !matchesAny(p.Includes, rel) {
		return false
	}

	return !matchesAny(p.Excludes, rel)
}

func matchesAny(patterns []string, rel string) bool {
	for _, pattern := range patterns {
		if MatchGlob(pattern, rel) {
			return true
		}
	}

	return false
}

// MatchGlob matches a slash-separated relative path against a doublestar
// pattern. Invalid patterns match nothing.
func MatchGlob(pattern, rel string) bool {
	ok, err := doublestar.Match(pattern, rel)

	return err == nil && ok
}
