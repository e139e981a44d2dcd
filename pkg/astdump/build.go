package astdump

import (
	"go/ast"
	"strconv"
	"strings"

	"github.com/grafana/treedump/pkg/source"
	"github.com/grafana/treedump/pkg/tree"
)

// BuildTree converts the syntax tree rooted at root into a [tree.Node] with
// the same node ids, levels and source text the [Dumper] prints. It is used
// for the JSON and Mermaid outputs, which need the complete tree.
func BuildTree(set *source.Set, root ast.Node, cfg Config) *tree.Node {
	b := &treeBuilder{set: set, cfg: cfg}
	return b.build(root, -1, 0)
}

type treeBuilder struct {
	set    *source.Set
	cfg    Config
	nextID int
}

func (b *treeBuilder) build(n ast.Node, parentID, lvl int) *tree.Node {
	id := b.nextID
	b.nextID++

	node := tree.NewNode(Kind(n), strconv.Itoa(id))
	if name := Name(n); name != "" {
		node.Properties = append(node.Properties, tree.NewProperty("name", false, name))
	}
	node.Properties = append(node.Properties,
		tree.NewProperty("parent", false, parentID),
		tree.NewProperty("level", false, lvl),
		tree.NewProperty("category", false, string(CategoryOf(n))),
	)
	if n.Pos().IsValid() {
		node.Properties = append(node.Properties, tree.NewProperty("pos", false, b.set.Position(n.Pos()).String()))
		if _, isFile := n.(*ast.File); b.cfg.ShowSource && !isFile {
			node.Comments = strings.Split(b.set.Text(n), "\n")
		}
	}

	if b.cfg.MaxDepth > 0 && lvl >= b.cfg.MaxDepth {
		return node
	}
	for _, child := range Children(n) {
		node.Children = append(node.Children, b.build(child, id, lvl+1))
	}
	return node
}
