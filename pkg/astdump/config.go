package astdump

import (
	"flag"

	"github.com/grafana/treedump/pkg/treefmt"
)

// Config controls what the [Dumper] prints.
type Config struct {
	// EnableLastChild draws the final child of every node with the terminal
	// connector. When disabled every node is drawn as a middle sibling.
	EnableLastChild bool `yaml:"enable_last_child"`
	FlushLeft       bool `yaml:"flush_left"`

	// ShowSource prints the source text of every node between "====" rules.
	ShowSource bool `yaml:"show_source"`
	// WrapWidth word-wraps source text at the given column. 0 disables wrapping.
	WrapWidth int `yaml:"wrap_width"`
	// Highlight colours source text for a terminal.
	Highlight bool `yaml:"highlight"`

	// MaxDepth stops the traversal below the given level. 0 means unlimited.
	MaxDepth int `yaml:"max_depth"`

	// Verbose tags every tree line with "TREE: " and logs each node
	// description at debug level.
	Verbose bool `yaml:"verbose"`

	GapPolicy treefmt.GapPolicy `yaml:"gap_policy"`
}

// DefaultConfig returns the configuration used by the treedump CLI.
func DefaultConfig() Config {
	return Config{
		EnableLastChild: true,
		FlushLeft:       true,
		ShowSource:      true,
		GapPolicy:       treefmt.GapInject,
	}
}

// RegisterFlagsWithPrefix registers the dumper flags on f.
func (cfg *Config) RegisterFlagsWithPrefix(prefix string, f *flag.FlagSet) {
	f.BoolVar(&cfg.EnableLastChild, prefix+"last-child", true, "Draw the last child of every node with the terminal connector.")
	f.BoolVar(&cfg.FlushLeft, prefix+"flush-left", true, "Draw the root node flush against the left margin.")
	f.BoolVar(&cfg.ShowSource, prefix+"source", true, "Print the source text of every node.")
	f.IntVar(&cfg.WrapWidth, prefix+"wrap", 0, "Wrap source text at this column. 0 disables wrapping.")
	f.BoolVar(&cfg.Highlight, prefix+"highlight", false, "Syntax highlight source text for a terminal.")
	f.IntVar(&cfg.MaxDepth, prefix+"max-depth", 0, "Do not descend below this level. 0 means unlimited.")
	f.BoolVar(&cfg.Verbose, prefix+"verbose", false, "Prefix tree lines with \"TREE: \" and log every visited node at debug level.")
	cfg.GapPolicy = treefmt.GapInject
	f.Var(&cfg.GapPolicy, prefix+"gap-policy", "What to do when a level is entered before its parent node was added. One of [inject, fail].")
}

func (cfg Config) formatterConfig() treefmt.Config {
	fc := treefmt.Config{
		FlushLeft: cfg.FlushLeft,
		GapPolicy: cfg.GapPolicy,
	}
	if cfg.Verbose {
		fc.Prefix = "TREE: "
	}
	return fc
}
