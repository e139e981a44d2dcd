package astdump

import (
	"go/ast"
)

// Stats counts visited syntax nodes.
type Stats struct {
	Visits   int `json:"visits"`
	Files    int `json:"files"`
	Decls    int `json:"decls"`
	Specs    int `json:"specs"`
	Stmts    int `json:"stmts"`
	Exprs    int `json:"exprs"`
	Types    int `json:"types"`
	Fields   int `json:"fields"`
	Comments int `json:"comments"`
	Other    int `json:"other"`
}

// Add records one node of the given category.
func (s *Stats) Add(c Category) {
	s.Visits++
	switch c {
	case CategoryFile:
		s.Files++
	case CategoryDecl:
		s.Decls++
	case CategorySpec:
		s.Specs++
	case CategoryStmt:
		s.Stmts++
	case CategoryExpr:
		s.Exprs++
	case CategoryType:
		s.Types++
	case CategoryField:
		s.Fields++
	case CategoryComment:
		s.Comments++
	default:
		s.Other++
	}
}

// Merge adds the counts of o to s.
func (s *Stats) Merge(o Stats) {
	s.Visits += o.Visits
	s.Files += o.Files
	s.Decls += o.Decls
	s.Specs += o.Specs
	s.Stmts += o.Stmts
	s.Exprs += o.Exprs
	s.Types += o.Types
	s.Fields += o.Fields
	s.Comments += o.Comments
	s.Other += o.Other
}

// Get returns the count for a single category.
func (s Stats) Get(c Category) int {
	switch c {
	case CategoryFile:
		return s.Files
	case CategoryDecl:
		return s.Decls
	case CategorySpec:
		return s.Specs
	case CategoryStmt:
		return s.Stmts
	case CategoryExpr:
		return s.Exprs
	case CategoryType:
		return s.Types
	case CategoryField:
		return s.Fields
	case CategoryComment:
		return s.Comments
	default:
		return s.Other
	}
}

// Count walks root and counts every node below it, root included.
func Count(root ast.Node) Stats {
	var s Stats
	ast.Inspect(root, func(n ast.Node) bool {
		if n == nil {
			return false
		}
		s.Add(CategoryOf(n))
		return true
	})
	return s
}
