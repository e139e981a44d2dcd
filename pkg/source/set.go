// Package source loads Go source files through a pluggable file system and
// maps syntax tree positions back to the text they were parsed from.
package source

import (
	"context"
	"go/ast"
	"go/parser"
	"go/token"
	"sync"

	"github.com/pkg/errors"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Placeholders returned by [Set.TextRange] when a range cannot be mapped to
// source text.
const (
	InvalidRange = "@@SOURCE::INVALID@@"
	SpansFiles   = "@@SOURCE::SPANS_FILES@@"
)

// Set is a collection of parsed files sharing one token.FileSet. It keeps
// the content of every file so that node ranges can be turned into text.
// A Set is safe for concurrent use.
type Set struct {
	fs   afero.Fs
	fset *token.FileSet

	mu       sync.RWMutex
	contents map[string][]byte
}

// NewSet returns an empty Set reading files from fs.
func NewSet(fs afero.Fs) *Set {
	return &Set{
		fs:       fs,
		fset:     token.NewFileSet(),
		contents: map[string][]byte{},
	}
}

// FileSet returns the positions of all files in the set.
func (s *Set) FileSet() *token.FileSet {
	return s.fset
}

// ReadFile returns the content of name, loading it from the file system if
// it is not part of the set yet.
func (s *Set) ReadFile(name string) ([]byte, error) {
	if src, ok := s.content(name); ok {
		return src, nil
	}
	src, err := afero.ReadFile(s.fs, name)
	if err != nil {
		return nil, errors.Wrapf(err, "reading %s", name)
	}
	return src, nil
}

// ParseFile reads and parses the Go file name.
func (s *Set) ParseFile(ctx context.Context, name string, mode parser.Mode) (*ast.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	src, err := s.ReadFile(name)
	if err != nil {
		return nil, err
	}
	return s.parse(name, src, mode)
}

// ParseFiles parses names with at most parallelism files in flight and
// returns the files in the order of names. The first error cancels the
// remaining work.
func (s *Set) ParseFiles(ctx context.Context, names []string, mode parser.Mode, parallelism int) ([]*ast.File, error) {
	files := make([]*ast.File, len(names))
	g, ctx := errgroup.WithContext(ctx)
	if parallelism > 0 {
		g.SetLimit(parallelism)
	}
	for i, name := range names {
		g.Go(func() error {
			f, err := s.ParseFile(ctx, name, mode)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return files, nil
}

// ParseString parses src as if it was read from a file called name.
func (s *Set) ParseString(name, src string, mode parser.Mode) (*ast.File, error) {
	return s.parse(name, []byte(src), mode)
}

func (s *Set) parse(name string, src []byte, mode parser.Mode) (*ast.File, error) {
	f, err := parser.ParseFile(s.fset, name, src, mode)
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", name)
	}
	s.setContent(name, src)
	return f, nil
}

func (s *Set) content(name string) ([]byte, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src, ok := s.contents[name]
	return src, ok
}

func (s *Set) setContent(name string, src []byte) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.contents[name] = src
}

// Position resolves pos within the set.
func (s *Set) Position(pos token.Pos) token.Position {
	return s.fset.Position(pos)
}

// Text returns the source text covered by n.
func (s *Set) Text(n ast.Node) string {
	return s.TextRange(n.Pos(), n.End())
}

// TextRange returns the source text between pos and end. Ranges that are
// invalid, reversed or not backed by a file of the set yield [InvalidRange];
// ranges starting and ending in different files yield [SpansFiles].
func (s *Set) TextRange(pos, end token.Pos) string {
	if !pos.IsValid() || !end.IsValid() || end < pos {
		return InvalidRange
	}
	begin := s.fset.File(pos)
	if begin == nil {
		return InvalidRange
	}
	// End is exclusive, so a range ending exactly at EOF belongs to the
	// same file.
	if last := s.fset.File(end - 1); last != begin {
		return SpansFiles
	}
	src, ok := s.content(begin.Name())
	if !ok {
		return InvalidRange
	}
	from, to := begin.Offset(pos), begin.Offset(end)
	if to > len(src) {
		return InvalidRange
	}
	return string(src[from:to])
}
