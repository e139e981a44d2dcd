// Package treefmt renders a depth-first stream of nodes as an indented tree
// drawn with box-drawing connectors, similar to the output of tree(1):
//
//	Root
//	│
//	├── Child
//	│   │
//	│   └── Grandchild
//	│
//	└── Last child
//
// The Formatter never sees the tree itself. A traversal driver tells it when
// to go one level down ([Formatter.Descend]), one level up
// ([Formatter.Ascend]) and what to print for each visited node
// ([Formatter.AddNode]). Output is written immediately, so whether a node is
// the last of its siblings has to be supplied by the driver.
package treefmt

import (
	"fmt"
	"io"
	"strings"
)

const (
	connectorMid  = "├── "
	connectorLast = "└── "
	continueMid   = "│   "
	continueLast  = "    "
	separator     = "│"

	placeholder = "missing node (automatically injected)"
)

type frame struct {
	prefix    string
	childNo   int
	lastChild bool
}

// Formatter is not safe for concurrent use.
type Formatter struct {
	w   io.Writer
	cfg Config

	stack        []frame
	depth        int
	prefix       string
	childNo      int
	lastChild    bool
	rootEmitted  bool
	implicitRoot bool

	sb strings.Builder
}

// New returns a Formatter writing to w.
func New(w io.Writer, cfg Config) *Formatter {
	f := &Formatter{w: w, cfg: cfg}
	f.Reset()
	return f
}

// Reset discards all traversal state. Configuration is kept.
func (f *Formatter) Reset() {
	f.stack = f.stack[:0]
	f.depth = -1
	f.prefix = ""
	f.childNo = 0
	f.lastChild = false
	f.rootEmitted = false
	f.implicitRoot = false
}

// SetOutput changes the sink subsequent lines are written to.
func (f *Formatter) SetOutput(w io.Writer) { f.w = w }

// SetPrefix sets the text written at the start of every line.
func (f *Formatter) SetPrefix(prefix string) { f.cfg.Prefix = prefix }

// SetFlushLeft controls whether the root node is drawn without a connector.
func (f *Formatter) SetFlushLeft(flushLeft bool) { f.cfg.FlushLeft = flushLeft }

// SetGapPolicy controls how a descend without a parent node is handled.
func (f *Formatter) SetGapPolicy(p GapPolicy) { f.cfg.GapPolicy = p }

// Depth returns the current level. It is -1 before the first Descend.
func (f *Formatter) Depth() int { return f.depth }

// ChildNo returns the number of nodes added at the current level.
func (f *Formatter) ChildNo() int { return f.childNo }

// Balanced reports whether every explicit Descend has been matched by an
// Ascend.
func (f *Formatter) Balanced() bool {
	return f.depth == -1 || (f.implicitRoot && f.depth == 0)
}

// Descend enters a new level below the most recently added node.
//
// If no node has been added at the current level there is nothing to hang
// the new level from. Depending on the gap policy, Descend either draws a
// placeholder node first or returns [ErrStructuralGap] without changing any
// state.
func (f *Formatter) Descend() error {
	if f.depth >= 0 && f.childNo == 0 {
		if f.cfg.GapPolicy == GapFail {
			return fmt.Errorf("%w: level %d", ErrStructuralGap, f.depth)
		}
		label := fmt.Sprintf("%s\nlevel %d; childNo %d", placeholder, f.depth, f.childNo)
		if err := f.AddNode(label, false); err != nil {
			return err
		}
	}
	f.push()
	return nil
}

func (f *Formatter) push() {
	f.stack = append(f.stack, frame{prefix: f.prefix, childNo: f.childNo, lastChild: f.lastChild})
	if f.depth > 0 || (f.depth == 0 && !f.cfg.FlushLeft) {
		if f.lastChild {
			f.prefix += continueLast
		} else {
			f.prefix += continueMid
		}
	}
	f.childNo = 0
	f.lastChild = false
	f.depth++
}

// Ascend leaves the current level and restores the state of its parent.
// Ascending past the outermost explicit level panics with a
// [*ContractViolation]: the driver is broken and any further output would be
// misleading. The root level opened implicitly by AddNode is only left by
// Close.
func (f *Formatter) Ascend() {
	if len(f.stack) == 0 || (f.implicitRoot && f.depth == 0) {
		panic(&ContractViolation{
			Op:        "ascend",
			Depth:     f.depth,
			StackSize: len(f.stack),
			Reason:    "no matching descend",
		})
	}
	f.pop()
}

func (f *Formatter) pop() {
	top := f.stack[len(f.stack)-1]
	f.stack = f.stack[:len(f.stack)-1]
	f.prefix = top.prefix
	f.childNo = top.childNo
	f.lastChild = top.lastChild
	f.depth--
	if f.depth == -1 {
		f.implicitRoot = false
	}
}

// Close ends the traversal. It leaves the root level opened implicitly by an
// AddNode before any Descend and returns [ErrUnbalanced] if other levels are
// still open.
func (f *Formatter) Close() error {
	if f.implicitRoot && f.depth == 0 {
		f.pop()
	}
	if f.depth != -1 {
		return fmt.Errorf("%w: %d level(s) still open", ErrUnbalanced, f.depth+1)
	}
	return nil
}

// AddNodeLines adds a node whose label consists of the given lines.
func (f *Formatter) AddNodeLines(lines []string, lastChild bool) error {
	return f.AddNode(strings.Join(lines, "\n"), lastChild)
}

// AddNode writes a node at the current level. Each line of label after the
// first is drawn under the connector so that it stays attached to the entry.
// lastChild selects the terminal connector; once a terminal node was added
// no further siblings may follow at that level.
func (f *Formatter) AddNode(label string, lastChild bool) error {
	if f.depth < 0 {
		f.push()
		f.implicitRoot = true
	}
	if f.lastChild {
		panic(&ContractViolation{
			Op:        "add node",
			Depth:     f.depth,
			StackSize: len(f.stack),
			Reason:    "sibling added after the last child",
		})
	}

	flushRoot := !f.rootEmitted && f.cfg.FlushLeft
	linePrefix := f.cfg.Prefix + f.prefix

	var connector, continuation string
	if !flushRoot {
		connector, continuation = connectorMid, continueMid
		if lastChild {
			connector, continuation = connectorLast, continueLast
		}
	}

	f.sb.Reset()
	if f.rootEmitted {
		f.sb.WriteString(linePrefix)
		f.sb.WriteString(separator)
		f.sb.WriteByte('\n')
	}

	label = strings.TrimSuffix(label, "\n")
	for i, line := range strings.Split(label, "\n") {
		f.sb.WriteString(linePrefix)
		if i == 0 {
			f.sb.WriteString(connector)
		} else {
			f.sb.WriteString(continuation)
		}
		f.sb.WriteString(line)
		f.sb.WriteByte('\n')
	}

	f.lastChild = lastChild
	f.childNo++
	f.rootEmitted = true

	_, err := io.WriteString(f.w, f.sb.String())
	return err
}
