package main

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"

	"github.com/grafana/treedump/pkg/astdump"
	"github.com/grafana/treedump/pkg/source"
	"github.com/grafana/treedump/pkg/tree"
)

// dumpCommand prints the syntax tree of every matched file.
type dumpCommand struct {
	cli      *cli
	format   string
	patterns []string
}

func (c *cli) addDumpCommand(app *kingpin.Application) {
	cmd := &dumpCommand{cli: c}
	cfg := &c.cfg.Dump

	cc := app.Command("dump", "Print the syntax tree of Go files.")
	cc.Flag("format", "Output format. One of [text, json, mermaid].").Default("text").EnumVar(&cmd.format, "text", "json", "mermaid")
	cc.Flag("last-child", "Draw the last child of every node with the terminal connector.").BoolVar(&cfg.EnableLastChild)
	cc.Flag("flush-left", "Draw the root node flush against the left margin.").BoolVar(&cfg.FlushLeft)
	cc.Flag("source", "Print the source text of every node.").BoolVar(&cfg.ShowSource)
	cc.Flag("highlight", "Syntax highlight source text.").BoolVar(&cfg.Highlight)
	cc.Flag("wrap", "Wrap source text at this column. 0 disables wrapping.").IntVar(&cfg.WrapWidth)
	cc.Flag("max-depth", "Do not descend below this level. 0 means unlimited.").IntVar(&cfg.MaxDepth)
	cc.Flag("verbose", "Prefix tree lines with \"TREE: \" and log every node at debug level.").BoolVar(&cfg.Verbose)
	cc.Flag("gap-policy", "What to do when a level is entered before its parent node was added. One of [inject, fail].").SetValue(&cfg.GapPolicy)
	cc.Arg("patterns", "Go files or glob patterns, \"**\" included.").Required().StringsVar(&cmd.patterns)
	cc.Action(cmd.run)
}

func (cmd *dumpCommand) run(_ *kingpin.ParseContext) error {
	c := cmd.cli
	ctx := context.Background()

	files, err := source.Expand(c.fs, cmd.patterns)
	if err != nil {
		return err
	}

	level.Info(c.logger).Log("msg", "AstDumper starting", "files", len(files), "format", cmd.format)

	set := source.NewSet(c.fs)
	dumper := astdump.New(set, c.stdout, c.cfg.Dump, c.logger, astdump.NewMetrics(c.reg))
	var stats astdump.Stats
	for _, name := range files {
		f, err := set.ParseFile(ctx, name, parser.ParseComments)
		if err != nil {
			return err
		}
		if err := cmd.write(set, dumper, name, f, len(files) > 1); err != nil {
			return fmt.Errorf("dumping %s: %w", name, err)
		}
		if cmd.format != "text" {
			stats.Merge(astdump.Count(f))
		}
	}
	if cmd.format == "text" {
		stats = dumper.Stats()
	}

	level.Info(c.logger).Log(
		"msg", "AstDumper complete",
		"visits", stats.Visits,
		"decls", stats.Decls,
		"stmts", stats.Stmts,
		"exprs", stats.Exprs,
		"types", stats.Types,
	)
	return nil
}

func (cmd *dumpCommand) write(set *source.Set, dumper *astdump.Dumper, name string, f *ast.File, withHeader bool) error {
	c := cmd.cli
	switch cmd.format {
	case "json":
		return tree.WriteJSON(c.stdout, astdump.BuildTree(set, f, c.cfg.Dump))
	case "mermaid":
		return tree.NewMermaid(c.stdout).Write(astdump.BuildTree(set, f, c.cfg.Dump))
	default:
		if withHeader {
			c.header("%s:", name)
		}
		return dumper.Dump(f)
	}
}
