package peg

import (
	"maps"
	"slices"

	"github.com/tliron/commonlog"
)

var log = commonlog.GetLogger("peg")

// Grammar maps rule names to expressions. Rules may be defined in any
// order; references resolve at parse time. A Grammar is itself an
// Expression deriving its start symbol, so grammars nest inside larger
// expressions.
//
// The rule set is mutable during setup only. The recursion-guard history
// is scoped to one top-level Derive at a time, so a single Grammar value
// must not serve concurrent parses.
type Grammar struct {
	start   string
	rules   map[string]Expression
	history []invocation
}

// invocation records one active rule call for the recursion guard.
type invocation struct {
	pos int
	ref *Reference
}

func NewGrammar(start string) *Grammar {
	return &Grammar{start: start, rules: make(map[string]Expression)}
}

// Define registers or replaces the rule named symbol.
func (g *Grammar) Define(symbol string, e Expression) { g.rules[symbol] = e }

// Rule returns a lazy reference to the rule named symbol. The rule may be
// defined later; the lookup happens at parse time.
func (g *Grammar) Rule(symbol string) *Reference {
	return &Reference{grammar: g, symbol: symbol}
}

// Start returns the grammar's start symbol.
func (g *Grammar) Start() string { return g.start }

// SetStart designates a different start symbol.
func (g *Grammar) SetStart(symbol string) { g.start = symbol }

// Derive evaluates the start symbol. It panics with an
// *UndefinedSymbolError when the start symbol has no rule.
func (g *Grammar) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		rule, ok := g.rules[g.start]
		if !ok {
			panic(&UndefinedSymbolError{Symbol: g.start})
		}
		for r, p := range rule.Derive(input, position) {
			if !yield(r, p) {
				return
			}
		}
	}
}

// Validate checks that the start symbol and every referenced rule are
// defined, without evaluating anything. References created through other
// grammars and continuations inside Bind are not visible to it.
func (g *Grammar) Validate() error {
	if _, ok := g.rules[g.start]; !ok {
		return &UndefinedSymbolError{Symbol: g.start}
	}
	for _, symbol := range slices.Sorted(maps.Keys(g.rules)) {
		var missing *UndefinedSymbolError
		walk(g.rules[symbol], func(e Expression) {
			if missing != nil {
				return
			}
			if ref, ok := e.(*Reference); ok && ref.grammar == g {
				if _, defined := g.rules[ref.symbol]; !defined {
					missing = &UndefinedSymbolError{Symbol: ref.symbol}
				}
			}
		})
		if missing != nil {
			return missing
		}
	}
	return nil
}

// walk visits e and its structural children.
func walk(e Expression, visit func(Expression)) {
	visit(e)
	switch n := e.(type) {
	case chainExpr:
		walk(n.left, visit)
		walk(n.right, visit)
	case orExpr:
		for _, option := range n.options {
			walk(option, visit)
		}
	case bindExpr:
		walk(n.expr, visit)
	case aheadExpr:
		walk(n.expr, visit)
	case locateExpr:
		walk(n.expr, visit)
	case repeatExpr:
		walk(n.expr, visit)
	case someExpr:
		walk(n.expr, visit)
	case unifyExpr:
		walk(n.expr, visit)
	}
}

// Reference is a lazy, call-time lookup of a grammar rule. Each Reference
// has its own identity in the recursion guard, which detects a re-entrant
// invocation of the same reference at the same position and aborts it
// locally instead of recursing forever.
type Reference struct {
	grammar *Grammar
	symbol  string
}

// Symbol returns the referenced rule name.
func (r *Reference) Symbol() string { return r.symbol }

func (r *Reference) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		if !r.progressing(position) {
			log.Warningf("rule %q may recurse forever at position %d; backtracking", r.symbol, position)
			return
		}
		rule, ok := r.grammar.rules[r.symbol]
		if !ok {
			panic(&UndefinedSymbolError{Symbol: r.symbol})
		}
		g := r.grammar
		g.history = append(g.history, invocation{pos: position, ref: r})
		defer func() {
			g.history = g.history[:len(g.history)-1]
		}()
		for res, next := range rule.Derive(input, position) {
			if !yield(res, next) {
				return
			}
		}
	}
}

// progressing reports whether invoking this reference at pos makes
// progress, i.e. there is no active invocation of the same reference at
// the same position.
func (r *Reference) progressing(pos int) bool {
	for i := len(r.grammar.history) - 1; i >= 0; i-- {
		active := r.grammar.history[i]
		if active.ref == r && active.pos == pos {
			return false
		}
	}
	return true
}
