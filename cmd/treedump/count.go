package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/dustin/go-humanize"
	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/common/expfmt"

	"github.com/grafana/treedump/pkg/astdump"
	"github.com/grafana/treedump/pkg/source"
)

// countCommand prints node counts per file.
type countCommand struct {
	cli      *cli
	metrics  bool
	patterns []string
}

func (c *cli) addCountCommand(app *kingpin.Application) {
	cmd := &countCommand{cli: c}
	cc := app.Command("count", "Count the syntax nodes of Go files by category.")
	cc.Flag("metrics", "Also print the collected metrics in the Prometheus text format.").BoolVar(&cmd.metrics)
	cc.Arg("patterns", "Go files or glob patterns.").Required().StringsVar(&cmd.patterns)
	cc.Action(cmd.run)
}

func (cmd *countCommand) run(_ *kingpin.ParseContext) error {
	c := cmd.cli
	names, files, err := c.parseAll(source.NewSet(c.fs), cmd.patterns)
	if err != nil {
		return err
	}

	metrics := astdump.NewMetrics(c.reg)
	var total astdump.Stats
	for i, f := range files {
		stats := astdump.Count(f)
		metrics.ObserveStats(stats)
		total.Merge(stats)

		c.header("%s:", names[i])
		printStats(c, stats)
	}
	if len(files) > 1 {
		c.header("total:")
		printStats(c, total)
	}

	if cmd.metrics {
		return cmd.printMetrics()
	}
	return nil
}

func printStats(c *cli, s astdump.Stats) {
	fmt.Fprintf(c.stdout, "\tnodes: %s\n", humanize.Comma(int64(s.Visits)))
	for _, cat := range astdump.Categories {
		if n := s.Get(cat); n > 0 {
			fmt.Fprintf(c.stdout, "\t%s: %s\n", cat, humanize.Comma(int64(n)))
		}
	}
}

func (cmd *countCommand) printMetrics() error {
	c := cmd.cli
	families, err := c.reg.Gather()
	if err != nil {
		return fmt.Errorf("gathering metrics: %w", err)
	}
	for _, mf := range families {
		// count never dumps, so counters it did not touch are left out.
		if untouched(mf) {
			continue
		}
		if _, err := expfmt.MetricFamilyToText(c.stdout, mf); err != nil {
			return fmt.Errorf("writing metrics: %w", err)
		}
	}
	return nil
}

func untouched(mf *dto.MetricFamily) bool {
	for _, m := range mf.GetMetric() {
		if m.GetCounter().GetValue() != 0 {
			return false
		}
	}
	return true
}
