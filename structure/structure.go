// Package structure extends the parsing engine to structured data such as
// objects and collections. Everything here is built on the public
// expression API: projections are Bind with a Return or Zero continuation
// over a projection function, exactly the shape any consumer of the
// engine could write.
package structure

import (
	"reflect"

	"github.com/dhamidi/peg"
)

// This parses the whole input value instead of the next element. It
// complements Element for inputs that are not consumed piecewise.
var This peg.Expression = thisExpr{}

type thisExpr struct{}

func (thisExpr) Derive(input peg.Input, position int) peg.Derivations {
	return func(yield func(peg.Result, int) bool) {
		yield(peg.Instance{Value: unwrap(input), At: position}, position)
	}
}

// Get continues parsing with the named field of a struct or the named key
// of a string-keyed map. A missing field or key is a parse failure, not
// an error.
func Get(name string) peg.Expression {
	return Project(func(v any) (any, bool) {
		rv := reflect.ValueOf(v)
		if rv.Kind() == reflect.Pointer {
			rv = rv.Elem()
		}
		switch rv.Kind() {
		case reflect.Struct:
			f := rv.FieldByName(name)
			if f.IsValid() && f.CanInterface() {
				return f.Interface(), true
			}
		case reflect.Map:
			if rv.Type().Key().Kind() == reflect.String {
				mv := rv.MapIndex(reflect.ValueOf(name).Convert(rv.Type().Key()))
				if mv.IsValid() {
					return mv.Interface(), true
				}
			}
		}
		return nil, false
	})
}

// At continues parsing with the i-th element of the input.
func At(i int) peg.Expression {
	return Project(func(v any) (any, bool) {
		if in, ok := v.(peg.Input); ok {
			if i >= 0 && i < in.Len() {
				return in.At(i), true
			}
			return nil, false
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Slice, reflect.Array:
			if i >= 0 && i < rv.Len() {
				return rv.Index(i).Interface(), true
			}
		case reflect.String:
			runes := []rune(rv.String())
			if i >= 0 && i < len(runes) {
				return string(runes[i]), true
			}
		}
		return nil, false
	})
}

// Is continues parsing only when the input value has type T.
func Is[T any]() peg.Expression {
	return peg.Bind(This, func(r peg.Result) peg.Expression {
		if _, ok := r.Unpack().(T); ok {
			return peg.Return(r)
		}
		return peg.Zero
	})
}

// Project continues parsing with the projection of the whole input value.
// A false return drops the derivation.
func Project(f func(value any) (any, bool)) peg.Expression {
	return peg.Bind(This, func(r peg.Result) peg.Expression {
		if v, ok := f(r.Unpack()); ok {
			return peg.Return(peg.Value{V: v})
		}
		return peg.Zero
	})
}

// Into continues to parse p's output with q: for each derivation of p its
// unpacked result becomes q's input, and q's derivations are yielded at
// the position p left off.
func Into(p, q peg.Expression) peg.Expression { return intoExpr{outer: p, inner: q} }

type intoExpr struct {
	outer, inner peg.Expression
}

func (n intoExpr) Derive(input peg.Input, position int) peg.Derivations {
	return func(yield func(peg.Result, int) bool) {
		for r1, p1 := range n.outer.Derive(input, position) {
			for r2 := range n.inner.Derive(Adapt(r1.Unpack()), 0) {
				if !yield(r2, p1) {
					return
				}
			}
		}
	}
}

// Adapt wraps an arbitrary value as parse input. Strings index rune-wise,
// slices and arrays element-wise; anything else is a zero-length input
// still reachable through This.
func Adapt(v any) peg.Input {
	switch x := v.(type) {
	case peg.Input:
		return x
	case string:
		return peg.Text(x)
	case []any:
		return peg.Items(x...)
	}
	return valueInput{v: v}
}

type valueInput struct {
	v any
}

func (i valueInput) Len() int {
	rv := reflect.ValueOf(i.v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Len()
	}
	return 0
}

func (i valueInput) At(idx int) any {
	rv := reflect.ValueOf(i.v)
	switch rv.Kind() {
	case reflect.Slice, reflect.Array:
		return rv.Index(idx).Interface()
	}
	return nil
}

// unwrap recovers the original value behind an Adapt wrapper so that This
// hands back what the caller passed in.
func unwrap(input peg.Input) any {
	if vi, ok := input.(valueInput); ok {
		return vi.v
	}
	return input
}
