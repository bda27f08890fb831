package peg

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestItem(t *testing.T) {
	values, positions := collect(Item("a"), Text("a"))
	if len(values) != 1 {
		t.Fatalf("want one derivation, got %d", len(values))
	}
	if values[0] != "a" {
		t.Errorf("unpacked value = %v, want a", values[0])
	}
	if positions[0] != 1 {
		t.Errorf("next position = %d, want 1", positions[0])
	}

	if values, _ := collect(Item("a"), Text("b")); len(values) != 0 {
		t.Errorf("item(a) over b: want zero derivations, got %v", values)
	}
	if values, _ := collect(Item("a"), Text("")); len(values) != 0 {
		t.Errorf("item(a) over empty input: want zero derivations, got %v", values)
	}
}

func TestChain(t *testing.T) {
	e := Chain(Item("a"), Item("b"))

	values, positions := collect(e, Text("ab"))
	if len(values) != 1 {
		t.Fatalf("want one derivation, got %d", len(values))
	}
	if diff := cmp.Diff([]any{"a", "b"}, values[0]); diff != "" {
		t.Errorf("unpacked result (-want +got):\n%s", diff)
	}
	if positions[0] != 2 {
		t.Errorf("next position = %d, want 2", positions[0])
	}

	if values, _ := collect(e, Text("a")); len(values) != 0 {
		t.Errorf("over truncated input: want zero derivations, got %v", values)
	}
}

func TestOr(t *testing.T) {
	e := Or(Item("a"), Item("b"))

	values, positions := collect(e, Text("b"))
	if len(values) != 1 || values[0] != "b" || positions[0] != 1 {
		t.Errorf("over b: got %v at %v, want [b] at [1]", values, positions)
	}

	if values, _ := collect(e, Text("c")); len(values) != 0 {
		t.Errorf("over c: want zero derivations, got %v", values)
	}
}

func TestSome(t *testing.T) {
	e := Some(Or(Item("a"), Item("b")))

	values, positions := collect(e, Text("ab"))
	found := false
	for i, v := range values {
		if cmp.Equal([]any{"a", "b"}, v) && positions[i] == 2 {
			found = true
		}
	}
	if !found {
		t.Errorf("derivations %v at %v do not include [a b] at 2", values, positions)
	}
}

func TestSomeEnumeratesEveryPrefix(t *testing.T) {
	values, positions := collect(Some(Item("a")), Text("aaa"))

	wantValues := []any{[]any{"a", "a", "a"}, []any{"a", "a"}, "a"}
	wantPositions := []int{3, 2, 1}
	if diff := cmp.Diff(wantValues, values); diff != "" {
		t.Errorf("results (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff(wantPositions, positions); diff != "" {
		t.Errorf("positions (-want +got):\n%s", diff)
	}
}

func TestMany(t *testing.T) {
	values, positions := collect(Many(Item("a")), Text("b"))
	if len(values) != 1 || values[0] != nil || positions[0] != 0 {
		t.Errorf("zero matches: got %v at %v, want [<nil>] at [0]", values, positions)
	}
}

func TestStar(t *testing.T) {
	tests := []struct {
		name  string
		input string
		value any
		next  int
	}{
		{"no match", "b", nil, 0},
		{"one match", "ab", "a", 1},
		{"all matches", "aaa", []any{"a", "a", "a"}, 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			values, positions := collect(Star(Item("a")), Text(tt.input))
			if len(values) != 1 {
				t.Fatalf("want exactly one derivation, got %d", len(values))
			}
			if diff := cmp.Diff(tt.value, values[0]); diff != "" {
				t.Errorf("result (-want +got):\n%s", diff)
			}
			if positions[0] != tt.next {
				t.Errorf("next position = %d, want %d", positions[0], tt.next)
			}
		})
	}
}

func TestPlus(t *testing.T) {
	if values, _ := collect(Plus(Item("a")), Text("b")); len(values) != 0 {
		t.Errorf("plus with zero matches: want zero derivations, got %v", values)
	}
	values, positions := collect(Plus(Item("a")), Text("aa"))
	if len(values) != 1 || positions[0] != 2 {
		t.Fatalf("got %v at %v, want one derivation at 2", values, positions)
	}
	if diff := cmp.Diff([]any{"a", "a"}, values[0]); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}
}

// Star cuts each iteration after its first derivation, so a variable
// bound inside the iteration keeps its binding afterwards. This is
// long-standing documented behavior; grammars compose Star with explicit
// Unbind calls when they need a fresh variable.
func TestStarKeepsBindings(t *testing.T) {
	v := new(Variable)
	values, _ := collect(Star(Unify(Item(Any), v)), Text("aa"))
	if len(values) != 1 {
		t.Fatalf("want one derivation, got %d", len(values))
	}
	if !v.Bound() {
		t.Error("variable released after Star, want binding kept")
	}
	v.Unbind()
	if v.Bound() {
		t.Error("Unbind left the variable bound")
	}
}

func TestAhead(t *testing.T) {
	e := Chain(Ahead(Item("a")), Element)

	values, positions := collect(e, Text("a"))
	if len(values) != 1 || values[0] != "a" || positions[0] != 1 {
		t.Errorf("got %v at %v, want [a] at [1]", values, positions)
	}

	if values, _ := collect(e, Text("b")); len(values) != 0 {
		t.Errorf("failed lookahead: want zero derivations, got %v", values)
	}
}

func TestLocate(t *testing.T) {
	matched := Chain(Item("a"), Locate(Item("b"), Constant{Value: 1}))
	values, positions := collect(matched, Text("ab"))
	if len(values) != 1 || positions[0] != 2 {
		t.Errorf("got %v at %v, want one derivation at 2", values, positions)
	}

	mismatched := Chain(Item("a"), Locate(Item("b"), Constant{Value: 5}))
	if values, _ := collect(mismatched, Text("ab")); len(values) != 0 {
		t.Errorf("position mismatch: want zero derivations, got %v", values)
	}

	v := new(Variable)
	bound := Chain(Item("a"), Unify(Locate(Item("b"), v), Apply(func(any) (any, error) {
		return v.Unpack(), nil
	})))
	values, _ = collect(bound, Text("ab"))
	if len(values) != 1 {
		t.Fatalf("want one derivation, got %d", len(values))
	}
	if diff := cmp.Diff([]any{"a", 1}, values[0]); diff != "" {
		t.Errorf("located position (-want +got):\n%s", diff)
	}
}

func TestEndOfInput(t *testing.T) {
	e := Chain(Item("a"), EndOfInput)

	values, positions := collect(e, Text("a"))
	if len(values) != 1 || values[0] != "a" || positions[0] != 1 {
		t.Errorf("got %v at %v, want [a] at [1]", values, positions)
	}

	if values, _ := collect(e, Text("ab")); len(values) != 0 {
		t.Errorf("input remaining: want zero derivations, got %v", values)
	}

	values, _ = collect(EndOfInput, Text(""))
	if len(values) != 1 || values[0] != nil {
		t.Errorf("empty input: got %v, want [<nil>]", values)
	}
}

func TestWhen(t *testing.T) {
	vowel := When(func(v any) bool {
		s, ok := v.(string)
		return ok && (s == "a" || s == "e" || s == "i" || s == "o" || s == "u")
	})
	if values, _ := collect(vowel, Text("e")); len(values) != 1 || values[0] != "e" {
		t.Errorf("over e: got %v, want [e]", values)
	}
	if values, _ := collect(vowel, Text("x")); len(values) != 0 {
		t.Errorf("over x: want zero derivations, got %v", values)
	}
}

func TestOneOf(t *testing.T) {
	digit := OneOf("0", "1", "2")
	if values, _ := collect(digit, Text("2")); len(values) != 1 || values[0] != "2" {
		t.Errorf("over 2: got %v, want [2]", values)
	}
	if values, _ := collect(digit, Text("9")); len(values) != 0 {
		t.Errorf("over 9: want zero derivations, got %v", values)
	}
	if values, _ := collect(digit, Text("")); len(values) != 0 {
		t.Errorf("over empty input: want zero derivations, got %v", values)
	}
}

func TestElement(t *testing.T) {
	values, positions := collect(Element, Items(42, "x"))
	if len(values) != 1 || values[0] != 42 || positions[0] != 1 {
		t.Errorf("got %v at %v, want [42] at [1]", values, positions)
	}
}

func TestItemOverTypedSlice(t *testing.T) {
	values, positions := collect(Chain(Item(3), Item(1)), Of([]int{3, 1, 4}))
	if len(values) != 1 || positions[0] != 2 {
		t.Fatalf("got %v at %v, want one derivation at 2", values, positions)
	}
	if diff := cmp.Diff([]any{3, 1}, values[0]); diff != "" {
		t.Errorf("result (-want +got):\n%s", diff)
	}
}

func TestFirstDerivationCancels(t *testing.T) {
	// Taking one derivation and stopping must not enumerate the rest.
	pulls := 0
	counting := Bind(Or(Item("a"), Element, Element), func(r Result) Expression {
		pulls++
		return Return(r)
	})
	for range counting.Derive(Text("a"), 0) {
		break
	}
	if pulls != 1 {
		t.Errorf("continuations evaluated = %d, want 1", pulls)
	}
}
