package main

import (
	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"

	"github.com/grafana/treedump/pkg/treefmt"
)

// demoCommand drives a formatter through a fixed walk. It shows the glyphs,
// multi-line labels and, with --gap, the placeholder for a missing parent.
type demoCommand struct {
	cli         *cli
	lastChild   bool
	emptyLevels bool
	gap         bool
}

func (c *cli) addDemoCommand(app *kingpin.Application) {
	cmd := &demoCommand{cli: c}
	cc := app.Command("demo", "Print a sample tree.")
	cc.Flag("prefix", "Text written at the start of every tree line.").StringVar(&c.cfg.Demo.Prefix)
	cc.Flag("flush-left", "Draw the root node flush against the left margin.").BoolVar(&c.cfg.Demo.FlushLeft)
	cc.Flag("gap-policy", "What to do when a level is entered before its parent node was added. One of [inject, fail].").SetValue(&c.cfg.Demo.GapPolicy)
	cc.Flag("last-child", "Mark the last child of every node.").BoolVar(&cmd.lastChild)
	cc.Flag("empty-levels", "Enter and leave empty levels along the way. They must not show up in the output.").BoolVar(&cmd.emptyLevels)
	cc.Flag("gap", "Enter two levels at once below Node ABJK.").BoolVar(&cmd.gap)
	cc.Action(cmd.run)
}

func (cmd *demoCommand) run(_ *kingpin.ParseContext) error {
	c := cmd.cli
	level.Debug(c.logger).Log("msg", "running demo", "prefix", c.cfg.Demo.Prefix, "last_child", cmd.lastChild, "empty_levels", cmd.emptyLevels, "gap", cmd.gap)
	f := treefmt.New(c.stdout, c.cfg.Demo)
	if err := cmd.walk(f); err != nil {
		return err
	}
	return f.Close()
}

func (cmd *demoCommand) emptyLevel(f *treefmt.Formatter) error {
	if !cmd.emptyLevels {
		return nil
	}
	for i := 0; i < 10; i++ {
		if err := f.Descend(); err != nil {
			return err
		}
		f.Ascend()
	}
	return nil
}

func (cmd *demoCommand) walk(f *treefmt.Formatter) error {
	last := cmd.lastChild
	w := &demoWriter{f: f}

	if err := cmd.emptyLevel(f); err != nil {
		return err
	}
	w.descend()
	w.add("Node A\nInfo", last)
	w.descend()
	w.add("Node AB\nInfo\nMore info", last)
	w.descend()
	w.add("Node ABC\nInfo\nMore info", false)
	w.descend()
	w.add("Node ABCD\nInfo\nMore info", last)
	w.descend()
	w.add("Node ABCDE\nInfo\nMore info", false)
	w.add("Node ABCDF\nInfo\nMore info", last)
	w.ascend()
	w.ascend()
	w.add("Node ABG\nInfo\nMore info", false)
	w.add("Node ABH\nInfo\nMore info", false)
	w.add("Node ABI", false)
	if w.err == nil {
		w.err = cmd.emptyLevel(f)
	}
	w.add("Node ABJ", last)
	w.descend()
	w.add("Node ABJK", last)
	w.descend()
	if cmd.gap {
		w.descend()
	}
	w.add("Node ABJKL", last)
	if cmd.gap {
		w.ascend()
	}
	w.ascend()
	w.ascend()
	w.ascend()
	w.ascend()
	w.ascend()
	return w.err
}

// demoWriter stops forwarding calls after the first error.
type demoWriter struct {
	f   *treefmt.Formatter
	err error
}

func (w *demoWriter) descend() {
	if w.err == nil {
		w.err = w.f.Descend()
	}
}

func (w *demoWriter) ascend() {
	if w.err == nil {
		w.f.Ascend()
	}
}

func (w *demoWriter) add(label string, last bool) {
	if w.err == nil {
		w.err = w.f.AddNode(label, last)
	}
}
