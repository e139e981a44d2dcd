package astdump

import (
	"fmt"
	"go/ast"
	"strings"
)

// Category groups syntax node types the way the counters report them.
type Category string

const (
	CategoryFile    Category = "file"
	CategoryDecl    Category = "decl"
	CategorySpec    Category = "spec"
	CategoryStmt    Category = "stmt"
	CategoryExpr    Category = "expr"
	CategoryType    Category = "type"
	CategoryField   Category = "field"
	CategoryComment Category = "comment"
	CategoryOther   Category = "other"
)

// Categories lists every category in reporting order.
var Categories = []Category{
	CategoryFile, CategoryDecl, CategorySpec, CategoryStmt, CategoryExpr,
	CategoryType, CategoryField, CategoryComment, CategoryOther,
}

// CategoryOf classifies n. Type expressions are reported as types even
// though go/ast models them as expressions.
func CategoryOf(n ast.Node) Category {
	switch n.(type) {
	case *ast.File:
		return CategoryFile
	case *ast.Comment, *ast.CommentGroup:
		return CategoryComment
	case *ast.Field, *ast.FieldList:
		return CategoryField
	case *ast.ArrayType, *ast.StructType, *ast.FuncType, *ast.InterfaceType, *ast.MapType, *ast.ChanType:
		return CategoryType
	case ast.Decl:
		return CategoryDecl
	case ast.Spec:
		return CategorySpec
	case ast.Stmt:
		return CategoryStmt
	case ast.Expr:
		return CategoryExpr
	default:
		return CategoryOther
	}
}

// Kind returns the go/ast type name of n, e.g. "FuncDecl".
func Kind(n ast.Node) string {
	return strings.TrimPrefix(fmt.Sprintf("%T", n), "*ast.")
}

// Name returns the identifier a node declares or refers to, if any.
func Name(n ast.Node) string {
	switch n := n.(type) {
	case *ast.File:
		return n.Name.Name
	case *ast.Ident:
		return n.Name
	case *ast.FuncDecl:
		if recv := receiverName(n); recv != "" {
			return recv + "." + n.Name.Name
		}
		return n.Name.Name
	case *ast.TypeSpec:
		return n.Name.Name
	case *ast.ValueSpec:
		return identNames(n.Names)
	case *ast.Field:
		return identNames(n.Names)
	case *ast.ImportSpec:
		if n.Name != nil {
			return n.Name.Name + " " + n.Path.Value
		}
		return n.Path.Value
	case *ast.LabeledStmt:
		return n.Label.Name
	case *ast.BranchStmt:
		if n.Label != nil {
			return n.Label.Name
		}
	}
	return ""
}

func receiverName(fn *ast.FuncDecl) string {
	if fn.Recv == nil || len(fn.Recv.List) == 0 {
		return ""
	}
	typ := fn.Recv.List[0].Type
	for {
		switch t := typ.(type) {
		case *ast.StarExpr:
			typ = t.X
		case *ast.IndexExpr:
			typ = t.X
		case *ast.IndexListExpr:
			typ = t.X
		case *ast.Ident:
			return t.Name
		default:
			return ""
		}
	}
}

func identNames(idents []*ast.Ident) string {
	names := make([]string, len(idents))
	for i, id := range idents {
		names[i] = id.Name
	}
	return strings.Join(names, ", ")
}

// Children returns the direct children of n in the order ast.Walk visits
// them.
func Children(n ast.Node) []ast.Node {
	var children []ast.Node
	ast.Inspect(n, func(c ast.Node) bool {
		if c == nil {
			return false
		}
		if c == n {
			return true
		}
		children = append(children, c)
		return false
	})
	return children
}
