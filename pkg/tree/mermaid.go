package tree

import (
	"fmt"
	"io"
	"strings"
)

// Mermaid writes trees as Mermaid flowcharts.
type Mermaid struct {
	w      io.Writer
	nextID int
	err    error
}

// NewMermaid returns a Mermaid writer for w.
func NewMermaid(w io.Writer) *Mermaid {
	return &Mermaid{w: w}
}

// Write renders root as a top-down graph.
func (m *Mermaid) Write(root *Node) error {
	m.nextID = 0
	m.err = nil
	m.printf("graph TD\n")
	m.node(root)
	return m.err
}

func (m *Mermaid) node(n *Node) string {
	id := fmt.Sprintf("n%d", m.nextID)
	m.nextID++
	m.printf("    %s[\"%s\"]\n", id, mermaidEscape(label(n)))
	for _, child := range n.Children {
		childID := m.node(child)
		m.printf("    %s --> %s\n", id, childID)
	}
	return id
}

func (m *Mermaid) printf(format string, args ...any) {
	if m.err != nil {
		return
	}
	_, m.err = fmt.Fprintf(m.w, format, args...)
}

var mermaidReplacer = strings.NewReplacer(
	`"`, "#quot;",
	"\n", "<br/>",
)

func mermaidEscape(s string) string {
	return mermaidReplacer.Replace(s)
}
