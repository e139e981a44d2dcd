package source

import (
	"go/scanner"
	"go/token"

	"github.com/pkg/errors"
)

// Token is a single lexical token of a source file.
type Token struct {
	Pos token.Position
	Tok token.Token
	Lit string
}

// Tokens scans name into raw tokens, comments included. Automatically
// inserted semicolons are reported with the literal "\n".
func (s *Set) Tokens(name string) ([]Token, error) {
	src, err := s.ReadFile(name)
	if err != nil {
		return nil, err
	}
	s.setContent(name, src)
	file := s.fset.AddFile(name, s.fset.Base(), len(src))

	var (
		sc     scanner.Scanner
		errs   scanner.ErrorList
		tokens []Token
	)
	sc.Init(file, src, func(pos token.Position, msg string) {
		errs.Add(pos, msg)
	}, scanner.ScanComments)

	for {
		pos, tok, lit := sc.Scan()
		if tok == token.EOF {
			break
		}
		tokens = append(tokens, Token{Pos: file.Position(pos), Tok: tok, Lit: lit})
	}
	if err := errs.Err(); err != nil {
		return tokens, errors.Wrapf(err, "scanning %s", name)
	}
	return tokens, nil
}
