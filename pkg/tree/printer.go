package tree

import (
	"io"
	"strings"

	"github.com/grafana/treedump/pkg/treefmt"
)

// Printer writes a [Node] as a box-drawn text tree.
type Printer struct {
	f *treefmt.Formatter
}

// PrinterOption customises a [Printer].
type PrinterOption func(*treefmt.Config)

// WithLinePrefix prefixes every printed line with prefix.
func WithLinePrefix(prefix string) PrinterOption {
	return func(cfg *treefmt.Config) { cfg.Prefix = prefix }
}

// WithFlushLeft controls whether the root is drawn without a connector.
func WithFlushLeft(flushLeft bool) PrinterOption {
	return func(cfg *treefmt.Config) { cfg.FlushLeft = flushLeft }
}

// NewPrinter returns a Printer writing to w.
func NewPrinter(w io.Writer, opts ...PrinterOption) *Printer {
	cfg := treefmt.DefaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	return &Printer{f: treefmt.New(w, cfg)}
}

// Print writes root and all of its descendants.
func (p *Printer) Print(root *Node) error {
	p.f.Reset()
	if err := p.f.Descend(); err != nil {
		return err
	}
	if err := p.print(root, true); err != nil {
		return err
	}
	p.f.Ascend()
	return p.f.Close()
}

func (p *Printer) print(n *Node, last bool) error {
	if err := p.f.AddNode(label(n), last); err != nil {
		return err
	}
	if len(n.Children) == 0 {
		return nil
	}
	if err := p.f.Descend(); err != nil {
		return err
	}
	for i, child := range n.Children {
		if err := p.print(child, i == len(n.Children)-1); err != nil {
			return err
		}
	}
	p.f.Ascend()
	return nil
}

func label(n *Node) string {
	if len(n.Comments) == 0 {
		return n.Header()
	}
	return n.Header() + "\n" + strings.Join(n.Comments, "\n")
}

// Sprint renders root into a string using the default printer settings.
func Sprint(root *Node) string {
	var sb strings.Builder
	_ = NewPrinter(&sb).Print(root)
	return sb.String()
}
