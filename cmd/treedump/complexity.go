package main

import (
	"context"
	"fmt"
	"go/ast"
	"go/parser"

	"github.com/alecthomas/kingpin/v2"
	"github.com/go-kit/log/level"
	"github.com/grafana/regexp"

	"github.com/grafana/treedump/pkg/analysis"
	"github.com/grafana/treedump/pkg/source"
	"github.com/grafana/treedump/pkg/tree"
)

// funcFilter is the function name filter shared by the analysis commands.
type funcFilter struct {
	expr string
}

func (ff *funcFilter) register(cc *kingpin.CmdClause) {
	cc.Flag("func", "Only consider functions whose name, \"Recv.Name\" for methods, matches this regular expression.").Short('f').StringVar(&ff.expr)
}

func (ff *funcFilter) compile() (*regexp.Regexp, error) {
	if ff.expr == "" {
		return nil, nil
	}
	re, err := regexp.Compile(ff.expr)
	if err != nil {
		return nil, fmt.Errorf("invalid function filter: %w", err)
	}
	return re, nil
}

// parseAll expands patterns and parses every matched file into set.
func (c *cli) parseAll(set *source.Set, patterns []string) ([]string, []*ast.File, error) {
	names, err := source.Expand(c.fs, patterns)
	if err != nil {
		return nil, nil, err
	}
	files, err := set.ParseFiles(context.Background(), names, parser.ParseComments, c.cfg.Parallelism)
	if err != nil {
		return nil, nil, err
	}
	return names, files, nil
}

// complexityCommand reports the cyclomatic complexity of functions.
type complexityCommand struct {
	cli      *cli
	filter   funcFilter
	patterns []string
}

func (c *cli) addComplexityCommand(app *kingpin.Application) {
	cmd := &complexityCommand{cli: c}
	cc := app.Command("complexity", "Report functions whose cyclomatic complexity reaches a threshold.")
	cc.Flag("threshold", "Minimum complexity to report.").Short('t').IntVar(&c.cfg.ComplexityThreshold)
	cmd.filter.register(cc)
	cc.Arg("patterns", "Go files or glob patterns.").Required().StringsVar(&cmd.patterns)
	cc.Action(cmd.run)
}

func (cmd *complexityCommand) run(_ *kingpin.ParseContext) error {
	c := cmd.cli
	re, err := cmd.filter.compile()
	if err != nil {
		return err
	}
	set := source.NewSet(c.fs)
	names, files, err := c.parseAll(set, cmd.patterns)
	if err != nil {
		return err
	}
	for i, f := range files {
		results := analysis.Report(f, re, c.cfg.ComplexityThreshold)
		level.Debug(c.logger).Log("msg", "computed complexity", "file", names[i], "reported", len(results))
		for _, r := range results {
			fmt.Fprintf(c.stdout, "%s %d\n", r.Name, r.Complexity)
		}
	}
	return nil
}

// cfgCommand prints the control flow graph of functions as trees.
type cfgCommand struct {
	cli      *cli
	filter   funcFilter
	patterns []string
}

func (c *cli) addCFGCommand(app *kingpin.Application) {
	cmd := &cfgCommand{cli: c}
	cc := app.Command("cfg", "Print the control flow graph of every function.")
	cmd.filter.register(cc)
	cc.Arg("patterns", "Go files or glob patterns.").Required().StringsVar(&cmd.patterns)
	cc.Action(cmd.run)
}

func (cmd *cfgCommand) run(_ *kingpin.ParseContext) error {
	c := cmd.cli
	re, err := cmd.filter.compile()
	if err != nil {
		return err
	}
	set := source.NewSet(c.fs)
	_, files, err := c.parseAll(set, cmd.patterns)
	if err != nil {
		return err
	}
	printer := tree.NewPrinter(c.stdout)
	for _, f := range files {
		for _, fn := range analysis.Functions(f, re) {
			if err := printer.Print(analysis.CFGTree(set, fn, analysis.BuildCFG(fn))); err != nil {
				return err
			}
		}
	}
	return nil
}
