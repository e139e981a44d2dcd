// Package astdump prints Go syntax trees as box-drawn text trees.
package astdump

import (
	"fmt"
	"go/ast"
	"io"
	"strings"

	"github.com/alecthomas/chroma/v2/quick"
	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/mitchellh/go-wordwrap"

	"github.com/grafana/treedump/pkg/source"
	"github.com/grafana/treedump/pkg/treefmt"
)

const sourceRule = "===="

type stackEntry struct {
	id    int
	level int
	// Children of the node that have not been drawn yet.
	queue []ast.Node
}

// Dumper writes syntax trees through a [treefmt.Formatter].
//
// A node's children are queued when the node is visited and drawn one by
// one afterwards. This way the dumper knows which child is the last one
// before drawing it, which a plain recursive walk feeding a streaming
// formatter cannot.
type Dumper struct {
	set     *source.Set
	cfg     Config
	logger  log.Logger
	metrics *Metrics
	f       *treefmt.Formatter

	stack     []stackEntry
	nextID    int
	lastChild bool
	stats     Stats
}

// New returns a Dumper writing to w. Source text is looked up in set.
// logger and metrics may be nil.
func New(set *source.Set, w io.Writer, cfg Config, logger log.Logger, metrics *Metrics) *Dumper {
	if logger == nil {
		logger = log.NewNopLogger()
	}
	return &Dumper{
		set:     set,
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		f:       treefmt.New(w, cfg.formatterConfig()),
	}
}

// Stats returns the counts of all nodes visited so far.
func (d *Dumper) Stats() Stats {
	return d.stats
}

// Dump writes the tree rooted at root.
func (d *Dumper) Dump(root ast.Node) error {
	d.f.Reset()
	d.stack = d.stack[:0]
	d.nextID = 0
	d.lastChild = d.cfg.EnableLastChild

	if err := d.enter(-1, root); err != nil {
		return err
	}
	for len(d.stack) > 0 {
		top := len(d.stack) - 1
		if len(d.stack[top].queue) == 0 {
			d.stack = d.stack[:top]
			d.f.Ascend()
			continue
		}
		child := d.stack[top].queue[0]
		d.stack[top].queue = d.stack[top].queue[1:]
		d.lastChild = d.cfg.EnableLastChild && len(d.stack[top].queue) == 0
		if err := d.enter(top, child); err != nil {
			return err
		}
	}

	d.metrics.observeDump()
	return d.f.Close()
}

// enter pushes n onto the stack, draws it and queues its children. parent
// is the stack index of the parent entry, -1 for the root.
func (d *Dumper) enter(parent int, n ast.Node) error {
	entry := stackEntry{id: d.nextID, level: 0}
	parentID := -1
	if parent >= 0 {
		entry.level = d.stack[parent].level + 1
		parentID = d.stack[parent].id
	}
	d.nextID++

	if err := d.f.Descend(); err != nil {
		return err
	}

	category := CategoryOf(n)
	d.stats.Add(category)
	d.metrics.observeNode(category)

	desc := d.describe(n, entry.id, parentID, entry.level)
	if d.cfg.Verbose {
		level.Debug(d.logger).Log("msg", "visiting node", "node", entry.id, "parent", parentID, "level", entry.level, "kind", Kind(n))
	}
	if err := d.f.AddNodeLines(desc, d.lastChild); err != nil {
		return err
	}

	if d.cfg.MaxDepth <= 0 || entry.level < d.cfg.MaxDepth {
		entry.queue = Children(n)
	}
	d.stack = append(d.stack, entry)
	return nil
}

func (d *Dumper) describe(n ast.Node, id, parentID, lvl int) []string {
	label := Kind(n)
	if name := Name(n); name != "" {
		label += "; name " + name
	}
	desc := []string{fmt.Sprintf("node %d; parent %d; level %d; %s", id, parentID, lvl, label)}

	if !d.cfg.ShowSource || !n.Pos().IsValid() {
		return desc
	}
	// A file spans its whole source, which says nothing about the node.
	if _, ok := n.(*ast.File); ok {
		return desc
	}
	text := d.set.Text(n)
	if d.cfg.WrapWidth > 0 {
		text = wordwrap.WrapString(text, uint(d.cfg.WrapWidth))
	}
	if d.cfg.Highlight {
		text = highlight(text)
	}
	return append(desc, sourceRule, text, sourceRule)
}

func highlight(text string) string {
	var sb strings.Builder
	if err := quick.Highlight(&sb, text, "go", "terminal256", "monokai"); err != nil {
		return text
	}
	return strings.TrimSuffix(sb.String(), "\n")
}
