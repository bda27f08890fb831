package peg

import (
	"fmt"
	"iter"
	"reflect"
)

// Result is a value produced by one successful match step. Results are
// themselves unifiable, so a previously captured result can serve as a
// pattern for structural equality.
type Result interface {
	Unifiable

	// Unpack projects the result down to plain data: an Instance to its
	// consumed element, a Sequence to a []any, a Labeled to its inner
	// result's data.
	Unpack() any

	// Pos is the input position of the first element covered by this
	// result, or -1 for results that cover no input.
	Pos() int
}

// Empty signals success without a payload. It is the identity of Combine
// and disappears from any combination.
var Empty Result = emptyResult{}

type emptyResult struct{}

func (emptyResult) Unpack() any { return nil }

func (emptyResult) Pos() int { return -1 }

func (emptyResult) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if value == Empty {
			yield(value)
		}
	}
}

func (emptyResult) String() string { return "Empty" }

// End marks a match of the end of input.
type End struct {
	At int
}

func (e End) Unpack() any { return nil }

func (e End) Pos() int { return e.At }

// Unify accepts any other End regardless of position.
func (e End) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if _, ok := value.(End); ok {
			yield(value)
		}
	}
}

func (e End) String() string { return fmt.Sprintf("<end at %d>", e.At) }

// Instance is one consumed element, tagged with the position it was
// consumed at.
type Instance struct {
	Value any
	At    int
}

func (i Instance) Unpack() any { return i.Value }

func (i Instance) Pos() int { return i.At }

// Unify matches another Instance by consumed value, or a plain value
// directly.
func (i Instance) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if other, ok := value.(Instance); ok {
			if equal(i.Value, other.Value) {
				yield(value)
			}
			return
		}
		if equal(i.Value, value) {
			yield(value)
		}
	}
}

func (i Instance) String() string { return fmt.Sprintf("<%v at %d>", i.Value, i.At) }

// Sequence is the flat, ordered combination of several results. Combine
// never nests a Sequence inside a Sequence.
type Sequence struct {
	Items []Result
}

func (s Sequence) Unpack() any {
	items := make([]any, len(s.Items))
	for i, item := range s.Items {
		items[i] = item.Unpack()
	}
	return items
}

func (s Sequence) Pos() int {
	if len(s.Items) == 0 {
		return -1
	}
	return s.Items[0].Pos()
}

// Unify matches another Sequence of the same length whose items unify
// pairwise.
func (s Sequence) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		other, ok := value.(Sequence)
		if !ok || len(s.Items) != len(other.Items) {
			return
		}
		for i := range s.Items {
			if _, ok := firstUnified(s.Items[i], other.Items[i]); !ok {
				return
			}
		}
		yield(value)
	}
}

func (s Sequence) String() string { return fmt.Sprintf("Sequence(%v)", s.Items) }

// Labeled attaches a name to a sub-result, typically a grammar rule name.
type Labeled struct {
	Result Result
	Label  string
}

func (l Labeled) Unpack() any { return l.Result.Unpack() }

func (l Labeled) Pos() int { return l.Result.Pos() }

func (l Labeled) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if equal(l, value) {
			yield(value)
		}
	}
}

func (l Labeled) String() string { return fmt.Sprintf("<%s: %v>", l.Label, l.Result) }

// Value lifts a plain Go value into the result model. It is how factory
// output and projected data travel through a derivation stream.
type Value struct {
	V any
}

func (v Value) Unpack() any { return v.V }

func (v Value) Pos() int { return -1 }

func (v Value) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if other, ok := value.(Value); ok {
			if equal(v.V, other.V) {
				yield(value)
			}
			return
		}
		if equal(v.V, value) {
			yield(value)
		}
	}
}

// Combine merges two results. Empty is absorbed on either side, an End on
// the right of consumed input is absorbed, and adjacent Sequences flatten
// into one.
func Combine(a, b Result) Result {
	if a == Empty {
		return b
	}
	if b == Empty {
		return a
	}
	if _, ok := b.(End); ok {
		switch a.(type) {
		case Instance, Sequence:
			return a
		}
	}
	as, aSeq := a.(Sequence)
	bs, bSeq := b.(Sequence)
	switch {
	case aSeq && bSeq:
		items := make([]Result, 0, len(as.Items)+len(bs.Items))
		items = append(items, as.Items...)
		items = append(items, bs.Items...)
		return Sequence{Items: items}
	case aSeq:
		items := make([]Result, 0, len(as.Items)+1)
		items = append(items, as.Items...)
		return Sequence{Items: append(items, b)}
	case bSeq:
		items := make([]Result, 0, len(bs.Items)+1)
		items = append(items, a)
		return Sequence{Items: append(items, bs.Items...)}
	default:
		return Sequence{Items: []Result{a, b}}
	}
}

// Unpack projects any value down to plain data, unwrapping results,
// constants and bound variables.
func Unpack(v any) any {
	if u, ok := v.(interface{ Unpack() any }); ok {
		return u.Unpack()
	}
	return v
}

// lift brings a value into the result model.
func lift(v any) Result {
	switch r := v.(type) {
	case nil:
		return Empty
	case Result:
		return r
	default:
		return Value{V: v}
	}
}

// firstUnified draws the first unification of pattern against value.
func firstUnified(pattern Unifiable, value any) (any, bool) {
	for u := range pattern.Unify(value) {
		return u, true
	}
	return nil, false
}

func equal(a, b any) bool { return reflect.DeepEqual(a, b) }
