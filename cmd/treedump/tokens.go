package main

import (
	"fmt"

	"github.com/alecthomas/kingpin/v2"
	"github.com/fatih/color"

	"github.com/grafana/treedump/pkg/source"
)

// tokensCommand lists the raw tokens of a file.
type tokensCommand struct {
	cli  *cli
	file string
}

func (c *cli) addTokensCommand(app *kingpin.Application) {
	cmd := &tokensCommand{cli: c}
	cc := app.Command("tokens", "List the tokens of a Go file, comments included.")
	cc.Arg("file", "Go file.").Required().StringVar(&cmd.file)
	cc.Action(cmd.run)
}

func (cmd *tokensCommand) run(_ *kingpin.ParseContext) error {
	c := cmd.cli
	tokens, err := source.NewSet(c.fs).Tokens(cmd.file)
	for _, tok := range tokens {
		pos := fmt.Sprintf("%d:%d", tok.Pos.Line, tok.Pos.Column)
		fmt.Fprintf(c.stdout, "%-8s %-10s %s\n", pos, color.CyanString(tok.Tok.String()), fmt.Sprintf("%q", tok.Lit))
	}
	return err
}
