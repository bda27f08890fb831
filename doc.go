// Package peg implements backtracking parsers as a monad of composable
// expressions, extended with a unification layer that binds parse results
// to variables and constructs application objects from them.
//
// An Expression consumes an indexable Input starting at a position and
// lazily enumerates every derivation as a (Result, next position) pair:
//
//	for result, next := range expr.Derive(peg.Text("1+0"), 0) {
//		fmt.Println(peg.Unpack(result), next)
//	}
//
// Expressions form a monad with Return and Bind, and an ordered choice
// with Or and Zero:
//
//	Bind(p, Return)  ≡ p
//	Bind(Return(x), f) ≡ f(x)
//	Or(p, Zero) ≡ p ≡ Or(Zero, p)
//	Bind(Or(p, q), f) ≡ Or(Bind(p, f), Bind(q, f))
//
// Failure is structural: an expression that cannot match simply yields no
// derivations. Alternatives are enumerated depth first, left to right, so
// taking only the first derivation gives "first match wins" semantics.
//
// Results are piped through Unifiable patterns with Unify:
//
//	l, r := new(peg.Variable), new(peg.Variable)
//	digit := peg.Or(peg.Item("0"), peg.Item("1"))
//	add := peg.Unify(
//		peg.Chain(peg.Unify(digit, l), peg.Item("+"), peg.Unify(digit, r)),
//		peg.Make(newSum, peg.Bindings{"left": l, "right": r}),
//	)
//
// A Variable captures the first value it sees and afterwards matches only
// values that unify with the capture, so repeating a variable inside one
// chain expresses an equality constraint. Bindings are released when the
// enumeration that created them is exhausted; see Star for the one
// documented exception.
//
// Grammars name expressions and resolve references lazily at parse time,
// which permits forward references and mutual recursion in any definition
// order. A grammar-scoped guard aborts rules that recurse at a fixed
// position without consuming input, so left-recursive rules fail locally
// instead of looping.
package peg
