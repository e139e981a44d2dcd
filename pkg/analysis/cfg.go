// Package analysis builds control flow graphs for Go functions and derives
// metrics from them.
package analysis

import (
	"fmt"
	"go/ast"
	"go/printer"
	"sort"
	"strings"

	"github.com/grafana/regexp"
	"golang.org/x/tools/go/cfg"

	"github.com/grafana/treedump/pkg/source"
	"github.com/grafana/treedump/pkg/tree"
)

// Function is a function or method declared at the top level of a file.
type Function struct {
	// Name is "Recv.Name" for methods.
	Name string
	Decl *ast.FuncDecl
}

// Functions returns the functions of file that have a body and whose name
// matches filter. A nil filter matches everything.
func Functions(file *ast.File, filter *regexp.Regexp) []Function {
	var fns []Function
	for _, decl := range file.Decls {
		fd, ok := decl.(*ast.FuncDecl)
		if !ok || fd.Body == nil {
			continue
		}
		name := qualifiedName(fd)
		if filter != nil && !filter.MatchString(name) {
			continue
		}
		fns = append(fns, Function{Name: name, Decl: fd})
	}
	return fns
}

func qualifiedName(fd *ast.FuncDecl) string {
	if fd.Recv == nil || len(fd.Recv.List) == 0 {
		return fd.Name.Name
	}
	typ := fd.Recv.List[0].Type
	for {
		switch t := typ.(type) {
		case *ast.StarExpr:
			typ = t.X
		case *ast.IndexExpr:
			typ = t.X
		case *ast.IndexListExpr:
			typ = t.X
		case *ast.Ident:
			return t.Name + "." + fd.Name.Name
		default:
			return fd.Name.Name
		}
	}
}

// BuildCFG returns the control flow graph of fn's body. Calls to panic,
// os.Exit and log.Fatal* are treated as never returning.
func BuildCFG(fn Function) *cfg.CFG {
	return cfg.New(fn.Decl.Body, mayReturn)
}

func mayReturn(call *ast.CallExpr) bool {
	switch fun := call.Fun.(type) {
	case *ast.Ident:
		return fun.Name != "panic"
	case *ast.SelectorExpr:
		pkg, ok := fun.X.(*ast.Ident)
		if !ok {
			return true
		}
		switch {
		case pkg.Name == "os" && fun.Sel.Name == "Exit":
			return false
		case pkg.Name == "log" && strings.HasPrefix(fun.Sel.Name, "Fatal"):
			return false
		}
	}
	return true
}

// Complexity returns the cyclomatic complexity E - N + 2 of g, counting
// only blocks reachable from the entry. Blocks without successors return
// from the function and are joined by an edge to a single exit node.
func Complexity(g *cfg.CFG) int {
	var nodes, edges, exits int
	for _, b := range g.Blocks {
		if !b.Live {
			continue
		}
		nodes++
		edges += len(b.Succs)
		if len(b.Succs) == 0 {
			exits++
		}
	}
	if exits > 0 {
		nodes++
		edges += exits
	}
	return edges - nodes + 2
}

// CFGTree describes g as a tree: the function at the root and one child
// per live block, listing the block's statements and successors.
func CFGTree(set *source.Set, fn Function, g *cfg.CFG) *tree.Node {
	root := tree.NewNode("FUNCTION: "+fn.Name, "")
	root.Properties = []tree.Property{
		tree.NewProperty("complexity", false, Complexity(g)),
	}
	for _, b := range g.Blocks {
		if !b.Live {
			continue
		}
		succs := make([]any, len(b.Succs))
		for i, s := range b.Succs {
			succs[i] = s.Index
		}
		props := []tree.Property{tree.NewProperty("kind", false, b.Kind.String())}
		if len(succs) > 0 {
			props = append(props, tree.NewProperty("succs", true, succs...))
		}
		node := root.AddChild("Block", fmt.Sprint(b.Index), props)
		for _, n := range b.Nodes {
			node.Comments = append(node.Comments, nodeText(set, n))
		}
	}
	return root
}

// nodeText prints n on one line. Nodes with source are shown as written,
// synthesised nodes are printed from the syntax tree.
func nodeText(set *source.Set, n ast.Node) string {
	text := set.Text(n)
	if text == source.InvalidRange || text == source.SpansFiles {
		var sb strings.Builder
		if err := printer.Fprint(&sb, set.FileSet(), n); err != nil {
			return text
		}
		text = sb.String()
	}
	return strings.Join(strings.Fields(text), " ")
}

// Result is the complexity of a single function.
type Result struct {
	Name       string
	Complexity int
}

// Report computes the complexity of every function of file matching filter
// and returns those at or above threshold, in source order.
func Report(file *ast.File, filter *regexp.Regexp, threshold int) []Result {
	var results []Result
	fns := Functions(file, filter)
	sort.SliceStable(fns, func(i, j int) bool { return fns[i].Decl.Pos() < fns[j].Decl.Pos() })
	for _, fn := range fns {
		c := Complexity(BuildCFG(fn))
		if c < threshold {
			continue
		}
		results = append(results, Result{Name: fn.Name, Complexity: c})
	}
	return results
}
