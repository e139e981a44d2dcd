package source

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/facette/natsort"
	"github.com/pkg/errors"
	"github.com/spf13/afero"
)

// Overlay is a file system where files added in memory shadow the files of
// a read-only base file system.
type Overlay struct {
	mem afero.Fs
	fs  afero.Fs
}

// NewOverlay layers an in-memory file system over base. Writes never reach
// base.
func NewOverlay(base afero.Fs) *Overlay {
	mem := afero.NewMemMapFs()
	return &Overlay{
		mem: mem,
		fs:  afero.NewCopyOnWriteFs(afero.NewReadOnlyFs(base), mem),
	}
}

// AddFile adds or replaces a file in the in-memory layer.
func (o *Overlay) AddFile(name string, content []byte) error {
	if err := o.mem.MkdirAll(filepath.Dir(name), 0o755); err != nil {
		return errors.Wrapf(err, "creating directory for %s", name)
	}
	return errors.Wrapf(afero.WriteFile(o.mem, name, content, 0o644), "adding %s", name)
}

// Fs returns the combined file system.
func (o *Overlay) Fs() afero.Fs {
	return o.fs
}

// Expand resolves glob patterns (including "**") against fs. Patterns
// without glob metacharacters are returned as given so that a missing file
// is reported when it is opened. A glob matching nothing is an error.
// The matches of a glob are sorted naturally, so "f2.go" precedes "f10.go".
func Expand(fs afero.Fs, patterns []string) ([]string, error) {
	var files []string
	for _, pattern := range patterns {
		if !hasMeta(pattern) {
			files = append(files, pattern)
			continue
		}
		base, rest := doublestar.SplitPattern(filepath.ToSlash(pattern))
		base = filepath.FromSlash(base)
		fsys := fs
		if base != "." {
			fsys = afero.NewBasePathFs(fs, base)
		}
		matches, err := doublestar.Glob(afero.NewIOFS(fsys), rest, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Wrapf(err, "expanding %q", pattern)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		natsort.Sort(matches)
		for _, m := range matches {
			files = append(files, filepath.Join(base, filepath.FromSlash(m)))
		}
	}
	return files, nil
}

func hasMeta(pattern string) bool {
	for _, c := range pattern {
		switch c {
		case '*', '?', '[', '{':
			return true
		}
	}
	return false
}
