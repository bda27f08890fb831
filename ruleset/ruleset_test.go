package ruleset

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/dhamidi/peg"
)

func first(t *testing.T, g *peg.Grammar, input string) (any, int) {
	t.Helper()
	for r, next := range g.Derive(peg.Text(input), 0) {
		return peg.Unpack(r), next
	}
	t.Fatalf("no derivation over %q", input)
	return nil, 0
}

func TestLoad(t *testing.T) {
	g, err := Load(strings.NewReader(`
start: pair
rules:
  digit: { any: [ { item: "0" }, { item: "1" } ] }
  pair:  { seq: [ { ref: digit }, { ref: digit } ] }
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}

	value, next := first(t, g, "10")
	if diff := cmp.Diff([]any{"1", "0"}, value); diff != "" {
		t.Errorf("unpacked result (-want +got):\n%s", diff)
	}
	if next != 2 {
		t.Errorf("next position = %d, want 2", next)
	}

	if _, err := Load(strings.NewReader(`
start: pair
rules:
  pair: { seq: [ { ref: digit }, { ref: digit } ] }
`)); err == nil {
		t.Error("undefined reference: want an error")
	}
}

func TestLoadTermForms(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
		input   string
		want    any
		next    int
	}{
		{
			"one_of and plus",
			"start: bits\nrules:\n  bits: { plus: { one_of: [\"0\", \"1\"] } }\n",
			"101",
			[]any{"1", "0", "1"},
			3,
		},
		{
			"star with no match",
			"start: bits\nrules:\n  bits: { star: { item: \"1\" } }\n",
			"x",
			nil,
			0,
		},
		{
			"ahead and element",
			"start: guarded\nrules:\n  guarded: { seq: [ { ahead: { item: \"a\" } }, { element: true } ] }\n",
			"a",
			"a",
			1,
		},
		{
			"end of input",
			"start: all\nrules:\n  all: { seq: [ { item: \"a\" }, { end: true } ] }\n",
			"a",
			"a",
			1,
		},
		{
			"some backtracks",
			"start: run\nrules:\n  run: { some: { item: \"a\" } }\n",
			"aa",
			[]any{"a", "a"},
			2,
		},
		{
			"many over nothing",
			"start: run\nrules:\n  run: { many: { item: \"a\" } }\n",
			"b",
			nil,
			0,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g, err := Load(strings.NewReader(tt.grammar))
			if err != nil {
				t.Fatalf("load: %v", err)
			}
			value, next := first(t, g, tt.input)
			if diff := cmp.Diff(tt.want, value); diff != "" {
				t.Errorf("unpacked result (-want +got):\n%s", diff)
			}
			if next != tt.next {
				t.Errorf("next position = %d, want %d", next, tt.next)
			}
		})
	}
}

func TestLoadLabel(t *testing.T) {
	g, err := Load(strings.NewReader(`
start: digit
rules:
  digit: { label: bit, of: { one_of: ["0", "1"] } }
`))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	for r := range g.Derive(peg.Text("1"), 0) {
		labeled, ok := r.(peg.Labeled)
		if !ok {
			t.Fatalf("result = %T, want Labeled", r)
		}
		if labeled.Label != "bit" || labeled.Unpack() != "1" {
			t.Errorf("got %v %v, want bit 1", labeled.Label, labeled.Unpack())
		}
	}
}

func TestLoadRejectsMalformedRuleSets(t *testing.T) {
	tests := []struct {
		name    string
		grammar string
	}{
		{"no start", "rules:\n  a: { item: \"a\" }\n"},
		{"no rules", "start: a\n"},
		{"empty term", "start: a\nrules:\n  a: {}\n"},
		{"mixed forms", "start: a\nrules:\n  a: { item: \"a\", ref: b }\n"},
		{"label without of", "start: a\nrules:\n  a: { label: x }\n"},
		{"start undefined", "start: a\nrules:\n  b: { item: \"b\" }\n"},
		{"not yaml", ":"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Load(strings.NewReader(tt.grammar)); err == nil {
				t.Error("want an error")
			}
		})
	}
}
