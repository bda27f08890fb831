// Package ruleset loads grammar definitions from YAML documents.
//
// A rule set names its start symbol and maps rule names to terms:
//
//	start: pair
//	rules:
//	  digit: { any: [ { item: "0" }, { item: "1" } ] }
//	  pair:  { seq: [ { ref: digit }, { ref: digit } ] }
//
// Each term carries exactly one form: item, one_of, ref, seq, any, star,
// plus, many, some, ahead, end, element, or label/of.
package ruleset

import (
	"fmt"
	"io"
	"os"

	"github.com/goccy/go-yaml"

	"github.com/dhamidi/peg"
)

type file struct {
	Start string          `yaml:"start"`
	Rules map[string]term `yaml:"rules"`
}

type term struct {
	Item    *string  `yaml:"item"`
	OneOf   []string `yaml:"one_of"`
	Ref     *string  `yaml:"ref"`
	Seq     []term   `yaml:"seq"`
	Any     []term   `yaml:"any"`
	Star    *term    `yaml:"star"`
	Plus    *term    `yaml:"plus"`
	Many    *term    `yaml:"many"`
	Some    *term    `yaml:"some"`
	Ahead   *term    `yaml:"ahead"`
	End     bool     `yaml:"end"`
	Element bool     `yaml:"element"`
	Label   *string  `yaml:"label"`
	Of      *term    `yaml:"of"`
}

// Load reads a YAML rule set and builds a validated grammar from it.
func Load(r io.Reader) (*peg.Grammar, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read rule set: %w", err)
	}
	var f file
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("decode rule set: %w", err)
	}
	if f.Start == "" {
		return nil, fmt.Errorf("rule set declares no start symbol")
	}
	if len(f.Rules) == 0 {
		return nil, fmt.Errorf("rule set declares no rules")
	}
	g := peg.NewGrammar(f.Start)
	for name, t := range f.Rules {
		e, err := compile(g, t)
		if err != nil {
			return nil, fmt.Errorf("rule %q: %w", name, err)
		}
		g.Define(name, e)
	}
	if err := g.Validate(); err != nil {
		return nil, err
	}
	return g, nil
}

// LoadFile reads a YAML rule set from path.
func LoadFile(path string) (*peg.Grammar, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open rule set: %w", err)
	}
	defer f.Close()
	g, err := Load(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

func compile(g *peg.Grammar, t term) (peg.Expression, error) {
	forms := 0
	for _, set := range []bool{
		t.Item != nil, len(t.OneOf) > 0, t.Ref != nil, len(t.Seq) > 0,
		len(t.Any) > 0, t.Star != nil, t.Plus != nil, t.Many != nil,
		t.Some != nil, t.Ahead != nil, t.End, t.Element, t.Label != nil,
	} {
		if set {
			forms++
		}
	}
	switch {
	case forms == 0:
		return nil, fmt.Errorf("term has no form")
	case forms > 1:
		return nil, fmt.Errorf("term mixes several forms")
	}

	switch {
	case t.Item != nil:
		return peg.Item(*t.Item), nil
	case len(t.OneOf) > 0:
		choices := make([]any, len(t.OneOf))
		for i, c := range t.OneOf {
			choices[i] = c
		}
		return peg.OneOf(choices...), nil
	case t.Ref != nil:
		return g.Rule(*t.Ref), nil
	case len(t.Seq) > 0:
		parts, err := compileAll(g, t.Seq)
		if err != nil {
			return nil, err
		}
		return peg.Chain(parts...), nil
	case len(t.Any) > 0:
		options, err := compileAll(g, t.Any)
		if err != nil {
			return nil, err
		}
		return peg.Or(options...), nil
	case t.Star != nil:
		return compileInner(g, *t.Star, peg.Star)
	case t.Plus != nil:
		return compileInner(g, *t.Plus, peg.Plus)
	case t.Many != nil:
		return compileInner(g, *t.Many, peg.Many)
	case t.Some != nil:
		return compileInner(g, *t.Some, peg.Some)
	case t.Ahead != nil:
		return compileInner(g, *t.Ahead, peg.Ahead)
	case t.End:
		return peg.EndOfInput, nil
	case t.Element:
		return peg.Element, nil
	default: // label
		if t.Of == nil {
			return nil, fmt.Errorf("label %q has no term under of", *t.Label)
		}
		inner, err := compile(g, *t.Of)
		if err != nil {
			return nil, err
		}
		return peg.Unify(inner, peg.Label(*t.Label)), nil
	}
}

func compileAll(g *peg.Grammar, ts []term) ([]peg.Expression, error) {
	out := make([]peg.Expression, len(ts))
	for i, t := range ts {
		e, err := compile(g, t)
		if err != nil {
			return nil, err
		}
		out[i] = e
	}
	return out, nil
}

func compileInner(g *peg.Grammar, t term, wrap func(peg.Expression) peg.Expression) (peg.Expression, error) {
	inner, err := compile(g, t)
	if err != nil {
		return nil, err
	}
	return wrap(inner), nil
}
