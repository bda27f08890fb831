// Package ebnf compiles EBNF grammar files into combinator grammars over
// rune input. The accepted notation is that of golang.org/x/exp/ebnf;
// derivations of a named production are labeled with the production name
// so the shape of a parse stays visible in the result.
package ebnf

import (
	"fmt"
	"io"
	"os"

	exp "golang.org/x/exp/ebnf"

	"github.com/dhamidi/peg"
)

// Load parses and verifies an EBNF grammar and compiles it into a
// combinator grammar starting at start. The filename is used for error
// positions only.
func Load(filename string, src io.Reader, start string) (*peg.Grammar, error) {
	grammar, err := exp.Parse(filename, src)
	if err != nil {
		return nil, fmt.Errorf("parse ebnf: %w", err)
	}
	if err := exp.Verify(grammar, start); err != nil {
		return nil, fmt.Errorf("verify ebnf: %w", err)
	}
	g := peg.NewGrammar(start)
	for name, production := range grammar {
		g.Define(name, peg.Unify(compile(g, production.Expr), peg.Label(name)))
	}
	return g, nil
}

// LoadFile reads an EBNF grammar from path.
func LoadFile(path, start string) (*peg.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open grammar: %w", err)
	}
	defer f.Close()
	return Load(path, f, start)
}

func compile(g *peg.Grammar, e exp.Expression) peg.Expression {
	switch x := e.(type) {
	case nil: // empty production
		return peg.Return(peg.Empty)
	case exp.Sequence:
		parts := make([]peg.Expression, len(x))
		for i, part := range x {
			parts[i] = compile(g, part)
		}
		return peg.Chain(parts...)
	case exp.Alternative:
		options := make([]peg.Expression, len(x))
		for i, option := range x {
			options[i] = compile(g, option)
		}
		return peg.Or(options...)
	case *exp.Group:
		return compile(g, x.Body)
	case *exp.Option:
		return peg.Or(compile(g, x.Body), peg.Return(peg.Empty))
	case *exp.Repetition:
		return peg.Star(compile(g, x.Body))
	case *exp.Name:
		return g.Rule(x.String)
	case *exp.Token:
		return literal(x.String)
	case *exp.Range:
		return between(x.Begin.String, x.End.String)
	default: // *exp.Bad
		return peg.Zero
	}
}

// literal matches a token string rune by rune.
func literal(s string) peg.Expression {
	runes := []rune(s)
	parts := make([]peg.Expression, len(runes))
	for i, r := range runes {
		parts[i] = peg.Item(string(r))
	}
	return peg.Chain(parts...)
}

// between matches a single rune in the inclusive range lo … hi.
func between(lo, hi string) peg.Expression {
	l := []rune(lo)[0]
	h := []rune(hi)[0]
	return peg.When(func(value any) bool {
		s, ok := value.(string)
		if !ok || s == "" {
			return false
		}
		r := []rune(s)[0]
		return r >= l && r <= h
	})
}
