package main

import (
	"fmt"
	"path/filepath"

	"github.com/alecthomas/kingpin/v2"
	"github.com/pkg/errors"

	"github.com/grafana/treedump/pkg/tree"
)

// renderCommand draws a tree described in a YAML or JSON file.
type renderCommand struct {
	cli         *cli
	inputFormat string
	format      string
	prefix      string
	file        string
}

func (c *cli) addRenderCommand(app *kingpin.Application) {
	cmd := &renderCommand{cli: c}
	cc := app.Command("render", "Render a tree described in a YAML or JSON file.")
	cc.Flag("input-format", "Format of the description. Guessed from the file extension when empty. One of [yaml, json].").EnumVar(&cmd.inputFormat, "yaml", "json")
	cc.Flag("format", "Output format. One of [text, json, mermaid].").Default("text").EnumVar(&cmd.format, "text", "json", "mermaid")
	cc.Flag("prefix", "Text written at the start of every tree line.").StringVar(&cmd.prefix)
	cc.Arg("file", "Tree description.").Required().StringVar(&cmd.file)
	cc.Action(cmd.run)
}

func (cmd *renderCommand) run(_ *kingpin.ParseContext) error {
	c := cmd.cli
	format := tree.Format(cmd.inputFormat)
	if format == "" {
		switch filepath.Ext(cmd.file) {
		case ".json":
			format = tree.FormatJSON
		case ".yaml", ".yml":
			format = tree.FormatYAML
		default:
			return fmt.Errorf("cannot guess the format of %s, use --input-format", cmd.file)
		}
	}

	f, err := c.fs.Open(cmd.file)
	if err != nil {
		return errors.Wrap(err, "opening tree description")
	}
	defer f.Close()

	root, err := tree.Decode(f, format)
	if err != nil {
		return errors.Wrapf(err, "reading %s", cmd.file)
	}

	switch cmd.format {
	case "json":
		return tree.WriteJSON(c.stdout, root)
	case "mermaid":
		return tree.NewMermaid(c.stdout).Write(root)
	default:
		return tree.NewPrinter(c.stdout, tree.WithLinePrefix(cmd.prefix)).Print(root)
	}
}
