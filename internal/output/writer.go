package output

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path"
	"strings"

	"github.com/go-git/go-billy/v5"
	"github.com/go-git/go-billy/v5/util"
	log "github.com/sirupsen/logrus"
)

// File permission constants.
const (
	dirPerm  = 0o755
	filePerm = 0o644
)

// Result describes what Write did, or would do in dry-run mode.
type Result struct {
	Path string
	// Bytes is the size of the content written (or that would be written).
	Bytes int
	// Skipped is set when the target existed and the strategy was Skip.
	Skipped bool
	// Changed reports whether the target content differs from before.
	Changed bool
	// Diff is a line diff against the previous content, filled in dry-run mode.
	Diff string
	// Unformatted is set when the formatter of the output type failed.
	Unformatted bool
}

// Writer writes outputs to a billy filesystem.
type Writer struct {
	FS billy.Filesystem
	// DryRun computes results and diffs without writing anything.
	DryRun bool
	// KeepUnformatted writes a sidecar file with the raw content when
	// formatting fails.
	KeepUnformatted bool
}

// NewWriter returns a writer over fs.
func NewWriter(fs billy.Filesystem) *Writer {
	return &Writer{FS: fs}
}

// Existing returns the current content of the target, or nil when it does not
// exist.
func (w *Writer) Existing(o Output) ([]byte, error) {
	data, err := util.ReadFile(w.FS, o.Path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", o.Path, err)
	}

	return data, nil
}

// LineBreak determines the line break for o, looking at the existing target.
func (w *Writer) LineBreak(o Output) (string, error) {
	existing, err := w.Existing(o)
	if err != nil {
		return "", err
	}

	return o.DetermineLineBreak(existing), nil
}

// Write stores content at the target of o according to its existing-target
// strategy and type formatter.
func (w *Writer) Write(o Output, content []byte) (Result, error) {
	res := Result{Path: o.Path}

	existing, err := util.ReadFile(w.FS, o.Path)
	exists := err == nil

	if err != nil && !errors.Is(err, os.ErrNotExist) {
		return res, fmt.Errorf("reading %s: %w", o.Path, err)
	}

	if exists && o.Existing == Skip {
		res.Skipped = true
		log.WithField("path", o.Path).Debug("target exists, skipped")

		return res, nil
	}

	if exists && o.Existing == Append {
		content = append(append([]byte{}, existing...), content...)
	}

	if o.Type.Format != nil {
		formatted, ferr := o.Type.Format(content)
		if ferr != nil {
			res.Unformatted = true
			log.WithError(ferr).WithField("path", o.Path).Warn("formatting failed, writing raw content")

			if w.KeepUnformatted && !w.DryRun {
				if err := w.writeUnformatted(o.Path, content); err != nil {
					log.WithError(err).WithField("path", o.Path).Warn("writing unformatted sidecar")
				}
			}
		} else {
			content = formatted
		}
	}

	res.Bytes = len(content)
	res.Changed = !exists || !bytes.Equal(existing, content)

	if w.DryRun {
		if res.Changed {
			res.Diff = Diff(o.Path, string(existing), string(content))
		}

		return res, nil
	}

	if !res.Changed {
		return res, nil
	}

	if dir := path.Dir(o.Path); dir != "." && dir != "/" {
		if err := w.FS.MkdirAll(dir, dirPerm); err != nil {
			return res, fmt.Errorf("creating directory %s: %w", dir, err)
		}
	}

	if err := util.WriteFile(w.FS, o.Path, content, filePerm); err != nil {
		return res, fmt.Errorf("writing %s: %w", o.Path, err)
	}

	return res, nil
}

// writeUnformatted writes content to a sidecar next to the intended target.
// The sidecar keeps the extension so editors can still highlight it.
func (w *Writer) writeUnformatted(target string, content []byte) error {
	ext := path.Ext(target)
	name := strings.TrimSuffix(target, ext) + ".unformatted" + ext

	if dir := path.Dir(name); dir != "." && dir != "/" {
		if err := w.FS.MkdirAll(dir, dirPerm); err != nil {
			return err
		}
	}

	return util.WriteFile(w.FS, name, content, filePerm)
}
