package peg

import (
	"fmt"
	"iter"
)

// Unifiable matches values flowing out of an expression. Unify yields
// zero or more transformed values; zero yields reject the enclosing
// derivation, several yields make the pattern non-deterministic.
type Unifiable interface {
	Unify(value any) iter.Seq[any]
}

// Lift turns a plain value into a pattern matching it by structural
// equality. Values that are already unifiable are used as they are.
func Lift(v any) Unifiable {
	if u, ok := v.(Unifiable); ok {
		return u
	}
	return Constant{Value: v}
}

// Any accepts every value unchanged.
var Any Unifiable = anyPattern{}

type anyPattern struct{}

func (anyPattern) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		yield(value)
	}
}

// Nothing rejects every value.
var Nothing Unifiable = nothingPattern{}

type nothingPattern struct{}

func (nothingPattern) Unify(any) iter.Seq[any] {
	return func(func(any) bool) {}
}

// Constant matches exactly one value. An Instance is matched by its
// consumed element and passed through with its position intact.
type Constant struct {
	Value any
}

func (c Constant) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if inst, ok := value.(Instance); ok {
			if equal(c.Value, inst.Value) {
				yield(value)
			}
			return
		}
		if equal(c.Value, value) {
			yield(value)
		}
	}
}

func (c Constant) Unpack() any { return c.Value }

func (c Constant) String() string { return fmt.Sprintf("Constant(%v)", c.Value) }

// Variable is a binding cell. Unbound it captures the value it is unified
// with; bound it only admits values that unify with the capture. The zero
// value is an unbound variable ready for use.
//
// A binding is released when the enumeration that created it is resumed
// after its yield, which is what happens whenever a parse backtracks into
// an alternative. A consumer that abandons the enumeration mid-yield (the
// cut inside Ahead, Star and Plus, or a caller that stops after the first
// derivation) leaves the binding in place; call Unbind to reset such a
// variable before reuse.
type Variable struct {
	bound bool
	value any
}

func (v *Variable) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		if v.bound {
			if u, ok := v.value.(Unifiable); ok {
				for r := range u.Unify(value) {
					if !yield(r) {
						return
					}
				}
				return
			}
			if u, ok := value.(Unifiable); ok {
				for r := range u.Unify(v.value) {
					if !yield(r) {
						return
					}
				}
				return
			}
			if equal(v.value, value) {
				yield(value)
			}
			return
		}
		v.bound, v.value = true, value
		if !yield(value) {
			// The consumer cut this enumeration short; the binding
			// stays in place. See the type comment.
			return
		}
		v.bound, v.value = false, nil
	}
}

// Bound reports whether the variable currently holds a value.
func (v *Variable) Bound() bool { return v.bound }

// Unbind discards the current binding.
func (v *Variable) Unbind() { v.bound, v.value = false, nil }

// Unpack returns the plain data of the bound value, or nil when unbound.
func (v *Variable) Unpack() any { return Unpack(v.value) }

func (v *Variable) String() string {
	if v.bound {
		return fmt.Sprintf("<variable bound to %v>", v.value)
	}
	return "<unbound variable>"
}

// Label wraps every value it sees into a Labeled result carrying the
// label's name. It always succeeds exactly once.
type Label string

func (l Label) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		yield(Labeled{Result: lift(value), Label: string(l)})
	}
}

// Bindings names the variables whose values a factory receives.
type Bindings map[string]*Variable

// Factory constructs an application object from named argument values.
type Factory func(args map[string]any) (any, error)

// Make calls factory with the unpacked values of all currently bound
// variables in args; unbound variables are omitted. A factory error
// escapes as a *FactoryArgumentError panic because it indicates a
// malformed pattern, not a parse failure.
func Make(factory Factory, args Bindings) Unifiable {
	return makePattern{factory: factory, args: args}
}

type makePattern struct {
	factory Factory
	args    Bindings
}

func (m makePattern) Unify(any) iter.Seq[any] {
	return func(yield func(any) bool) {
		args := make(map[string]any, len(m.args))
		for name, v := range m.args {
			if v.bound {
				args[name] = v.Unpack()
			}
		}
		made, err := m.factory(args)
		if err != nil {
			panic(&FactoryArgumentError{Err: err})
		}
		yield(made)
	}
}

// Apply pipes the unpacked incoming value through fn, yielding the
// transformed value. Like Make, an error from fn escapes as a
// *FactoryArgumentError panic.
func Apply(fn func(value any) (any, error)) Unifiable {
	return applyPattern{fn: fn}
}

type applyPattern struct {
	fn func(value any) (any, error)
}

func (a applyPattern) Unify(value any) iter.Seq[any] {
	return func(yield func(any) bool) {
		made, err := a.fn(Unpack(value))
		if err != nil {
			panic(&FactoryArgumentError{Err: err})
		}
		yield(made)
	}
}
