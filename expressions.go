package peg

import (
	"iter"
	"slices"
)

// Derivations lazily enumerates every way an expression matched, as
// (result, next position) pairs. Consumers may stop ranging at any point.
type Derivations = iter.Seq2[Result, int]

// Expression is a composable parsing expression. Derive has no side
// effects beyond the binding discipline described on Variable.
type Expression interface {
	Derive(input Input, position int) Derivations
}

// Return yields v once at the current position, consuming nothing. It is
// the unit of the expression monad.
func Return(v any) Expression { return returnExpr{result: lift(v)} }

type returnExpr struct {
	result Result
}

func (r returnExpr) Derive(_ Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		yield(r.result, position)
	}
}

// Zero yields nothing. It is the identity of Or and annihilates Bind.
var Zero Expression = zeroExpr{}

type zeroExpr struct{}

func (zeroExpr) Derive(Input, int) Derivations {
	return func(func(Result, int) bool) {}
}

// Element consumes the next element and yields it as an Instance.
var Element Expression = elementExpr{}

type elementExpr struct{}

func (elementExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		if position < input.Len() {
			yield(Instance{Value: input.At(position), At: position}, position+1)
		}
	}
}

// Item consumes the next element if it unifies against v, one derivation
// per unification result. A plain v matches by structural equality; a
// Unifiable v is used as the pattern directly.
func Item(v any) Expression { return itemExpr{pattern: Lift(v)} }

type itemExpr struct {
	pattern Unifiable
}

func (i itemExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		if position >= input.Len() {
			return
		}
		inst := Instance{Value: input.At(position), At: position}
		for u := range i.pattern.Unify(inst) {
			if !yield(lift(u), position+1) {
				return
			}
		}
	}
}

// When consumes the next element if its value satisfies pred.
func When(pred func(value any) bool) Expression {
	return Bind(Element, func(r Result) Expression {
		if pred(r.Unpack()) {
			return Return(r)
		}
		return Zero
	})
}

// OneOf consumes the next element if it equals one of choices.
func OneOf(choices ...any) Expression { return oneOfExpr{choices: choices} }

type oneOfExpr struct {
	choices []any
}

func (o oneOfExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		if position >= input.Len() {
			return
		}
		v := input.At(position)
		if slices.ContainsFunc(o.choices, func(c any) bool { return equal(c, v) }) {
			yield(Instance{Value: v, At: position}, position+1)
		}
	}
}

// Bind is the monadic bind: each maps every result of p to a continuation
// expression, evaluated at the position p left off.
func Bind(p Expression, each func(Result) Expression) Expression {
	return bindExpr{expr: p, each: each}
}

type bindExpr struct {
	expr Expression
	each func(Result) Expression
}

func (b bindExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		for r1, p1 := range b.expr.Derive(input, position) {
			for r2, p2 := range b.each(r1).Derive(input, p1) {
				if !yield(r2, p2) {
					return
				}
			}
		}
	}
}

// Chain applies the given expressions in order, merging their results with
// Combine: Empty disappears and consecutive matches accumulate into one
// flat Sequence. Chain() yields a single Empty.
func Chain(ps ...Expression) Expression {
	switch len(ps) {
	case 0:
		return Return(Empty)
	case 1:
		return ps[0]
	}
	e := ps[0]
	for _, p := range ps[1:] {
		e = chainExpr{left: e, right: p}
	}
	return e
}

type chainExpr struct {
	left, right Expression
}

func (c chainExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		for r1, p1 := range c.left.Derive(input, position) {
			for r2, p2 := range c.right.Derive(input, p1) {
				if !yield(Combine(r1, r2), p2) {
					return
				}
			}
		}
	}
}

// Or enumerates the derivations of each alternative in order, all from the
// same starting position. The left operand is exhausted before the next
// one starts. Or() is Zero.
func Or(ps ...Expression) Expression {
	switch len(ps) {
	case 0:
		return Zero
	case 1:
		return ps[0]
	}
	return orExpr{options: ps}
}

type orExpr struct {
	options []Expression
}

func (o orExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		for _, option := range o.options {
			for r, p := range option.Derive(input, position) {
				if !yield(r, p) {
					return
				}
			}
		}
	}
}

// Ahead succeeds with Empty at the original position if p has at least one
// derivation there. Only the first derivation is examined; no input is
// consumed.
func Ahead(p Expression) Expression { return aheadExpr{expr: p} }

type aheadExpr struct {
	expr Expression
}

func (a aheadExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		for range a.expr.Derive(input, position) {
			yield(Empty, position)
			return
		}
	}
}

// Locate runs p and unifies pattern against each derivation's
// starting-match position; derivations whose position does not unify are
// dropped.
func Locate(p Expression, pattern Unifiable) Expression {
	return locateExpr{expr: p, pattern: pattern}
}

type locateExpr struct {
	expr    Expression
	pattern Unifiable
}

func (l locateExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		for r, p := range l.expr.Derive(input, position) {
			for range l.pattern.Unify(r.Pos()) {
				if !yield(r, p) {
					return
				}
			}
		}
	}
}

// EndOfInput matches only at the end of input, yielding an End marker.
var EndOfInput Expression = endOfInputExpr{}

type endOfInputExpr struct{}

func (endOfInputExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		if position == input.Len() {
			yield(End{At: position}, position)
		}
	}
}

// Star applies p greedily zero or more times, taking only the first
// derivation at each step, and yields exactly one accumulated result.
// There is no backtracking across iterations. Two caveats carry over from
// this cut: variables bound during an iteration are not released when the
// iteration is cut short, so do not rely on them being unbound afterwards;
// and a p that matches without consuming input repeats forever.
func Star(p Expression) Expression { return repeatExpr{expr: p} }

// Plus is Star requiring at least one iteration.
func Plus(p Expression) Expression { return repeatExpr{expr: p, once: true} }

type repeatExpr struct {
	expr Expression
	once bool
}

func (re repeatExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		acc, pos, n := Empty, position, 0
		for {
			r, next, ok := firstDerivation(re.expr, input, pos)
			if !ok {
				break
			}
			acc = Combine(acc, r)
			pos = next
			n++
		}
		if re.once && n == 0 {
			return
		}
		yield(acc, pos)
	}
}

// Some applies p one or more times with full backtracking: for every
// derivation of p, longer continuations are enumerated before the bare
// prefix, so every repetition count is a candidate. Recursion depth grows
// with the number of repetitions matched.
func Some(p Expression) Expression { return someExpr{expr: p} }

// Many applies p zero or more times with full backtracking.
func Many(p Expression) Expression { return Or(Some(p), Return(Empty)) }

type someExpr struct {
	expr Expression
}

func (s someExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		for r1, p1 := range s.expr.Derive(input, position) {
			for r2, p2 := range s.Derive(input, p1) {
				if !yield(Combine(r1, r2), p2) {
					return
				}
			}
			if !yield(r1, p1) {
				return
			}
		}
	}
}

// Unify pipes every result of p through pattern, yielding one derivation
// per unification result at p's next position.
func Unify(p Expression, pattern Unifiable) Expression {
	return unifyExpr{expr: p, pattern: pattern}
}

type unifyExpr struct {
	expr    Expression
	pattern Unifiable
}

func (u unifyExpr) Derive(input Input, position int) Derivations {
	return func(yield func(Result, int) bool) {
		for r, p := range u.expr.Derive(input, position) {
			for unified := range u.pattern.Unify(r) {
				if !yield(lift(unified), p) {
					return
				}
			}
		}
	}
}

// firstDerivation draws the first derivation of p, abandoning the rest.
func firstDerivation(p Expression, input Input, position int) (Result, int, bool) {
	for r, next := range p.Derive(input, position) {
		return r, next, true
	}
	return nil, 0, false
}
