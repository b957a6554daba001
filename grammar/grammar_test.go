package grammar_test

import (
	"errors"
	"testing"

	"github.com/eolymp/latex-playground"
	"github.com/eolymp/latex-playground/grammar"
	"github.com/google/go-cmp/cmp"
)

func nodes(t *testing.T, src string) []latex.Node {
	t.Helper()

	root, err := latex.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}

	return root.Content
}

func TestCompileErrors(t *testing.T) {
	tt := []struct {
		name  string
		input string
		err   grammar.CompileError
	}{
		{name: "empty", input: "  // nothing\n", err: grammar.CompileError{Msg: "grammar has no rules", Line: 2, Column: 1}},
		{name: "undefined rule", input: "a = b", err: grammar.CompileError{Msg: "rule \"b\" is not defined", Line: 1, Column: 5}},
		{name: "duplicate rule", input: "a = .\na = .", err: grammar.CompileError{Msg: "rule \"a\" is defined more than once", Line: 2, Column: 1}},
		{name: "missing equals", input: "a .", err: grammar.CompileError{Msg: "expected = after rule name \"a\", got \".\"", Line: 1, Column: 3}},
		{name: "empty expression", input: "a = ", err: grammar.CompileError{Msg: "expected expression, got end of grammar", Line: 1, Column: 5}},
		{name: "unclosed parenthesis", input: "a = (. .", err: grammar.CompileError{Msg: "expected ), got end of grammar", Line: 1, Column: 9}},
		{name: "unknown type", input: "a = <table>", err: grammar.CompileError{Msg: "unknown node type \"table\"", Line: 1, Column: 5}},
		{name: "unterminated string", input: "a = \"x", err: grammar.CompileError{Msg: "unterminated string", Line: 1, Column: 5}},
		{name: "unexpected character", input: "a = #", err: grammar.CompileError{Msg: "unexpected character '#'", Line: 1, Column: 5}},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			_, err := grammar.Compile(tc.input)

			var got *grammar.CompileError
			if !errors.As(err, &got) {
				t.Fatalf("Compile(%q) error = %v, want *CompileError", tc.input, err)
			}

			if diff := cmp.Diff(tc.err, *got); diff != "" {
				t.Errorf("Compile() error mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestCompileInvalidRegex(t *testing.T) {
	_, err := grammar.Compile(`a = ~"(x"`)

	var got *grammar.CompileError
	if !errors.As(err, &got) {
		t.Fatalf("Compile() error = %v, want *CompileError", err)
	}

	if got.Cause == nil || got.Line != 1 || got.Column != 5 {
		t.Errorf("Compile() error = %#v, want error at 1:5 with cause", got)
	}
}

func TestRules(t *testing.T) {
	g, err := grammar.Compile("doc = item* // start\nitem = .\nrest = item")
	if err != nil {
		t.Fatal(err)
	}

	if diff := cmp.Diff([]string{"doc", "item", "rest"}, g.Rules()); diff != "" {
		t.Errorf("Rules() mismatch (-want +got):\n%s", diff)
	}
}

func TestParse(t *testing.T) {
	tt := []struct {
		name    string
		grammar string
		input   string
		match   bool
	}{
		{name: "any", grammar: "a = .*", input: "x \\y {z}", match: true},
		{name: "empty input", grammar: "a = .*", input: "", match: true},
		{name: "literal", grammar: `a = "x" @space "y"`, input: "x y", match: true},
		{name: "literal mismatch", grammar: `a = "x" @space "y"`, input: "x z", match: false},
		{name: "regex", grammar: `a = ~"[0-9]+"`, input: "123", match: true},
		{name: "regex is anchored", grammar: `a = ~"[0-9]+"`, input: "123a", match: false},
		{name: "regex lookahead", grammar: `a = ~"(?=.*b)\w+"`, input: "abc", match: true},
		{name: "node type", grammar: "a = <macro:section> <group>", input: "\\section{x}{y}", match: true},
		{name: "node type name mismatch", grammar: "a = <macro:section>", input: "\\chapter{x}", match: false},
		{name: "environment name", grammar: "a = <environment:itemize>", input: "\\begin{itemize}\\end{itemize}", match: true},
		{name: "starred environment", grammar: "a = <mathenv:align*>", input: "\\begin{align*}x\\end{align*}", match: true},
		{name: "choice", grammar: `a = ("x" / "y") @space ("x" / "y")`, input: "y x", match: true},
		{name: "choice mismatch", grammar: `a = ("x" / "y") @space ("x" / "y")`, input: "y z", match: false},
		{name: "optional", grammar: `a = <macro:item> @whitespace? "x"`, input: "\\item x", match: true},
		{name: "plus needs one", grammar: "a = @string+", input: "", match: false},
		{name: "not predicate", grammar: "a = (!<macro:end> .)*", input: "a \\b c", match: true},
		{name: "and predicate", grammar: "a = &<macro> . .*", input: "\\b c", match: true},
		{name: "and predicate fails", grammar: "a = &<macro> .*", input: "c", match: false},
		{name: "rules", grammar: "a = b+\nb = @string / @space", input: "x y", match: true},
		{name: "left recursion fails", grammar: "a = a \"x\" / \"y\"", input: "y", match: true},
		{name: "empty repetition terminates", grammar: "a = (\"x\"?)*", input: "", match: true},
		{name: "helpers", grammar: "a = @math @parbreak @comment", input: "$x$\n\n% c\n", match: true},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			g, err := grammar.Compile(tc.grammar)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tc.grammar, err)
			}

			_, err = g.Parse(nodes(t, tc.input))
			if tc.match && err != nil {
				t.Errorf("Parse(%q) error: %v", tc.input, err)
			}

			if !tc.match && err == nil {
				t.Errorf("Parse(%q) must fail", tc.input)
			}
		})
	}
}

func TestParseMatchTree(t *testing.T) {
	g, err := grammar.Compile(`
		list  = (item / @space)*
		item  = <macro:item> @whitespace? body:(!<macro:item> .)*
	`)
	if err != nil {
		t.Fatal(err)
	}

	input := nodes(t, "\\item a b \\item c")

	m, err := g.Parse(input)
	if err != nil {
		t.Fatal(err)
	}

	type span struct {
		Name       string
		Start, End int
	}

	var got []span
	for _, c := range m.Find("body") {
		got = append(got, span{Name: c.Label, Start: c.Start, End: c.End})
	}

	// \item, ws, a, ws, b, ws, \item, ws, c
	want := []span{{Name: "body", Start: 2, End: 6}, {Name: "body", Start: 8, End: 9}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Find() mismatch (-want +got):\n%s", diff)
	}

	if m.Rule != "list" || m.Start != 0 || m.End != len(input) {
		t.Errorf("Parse() = %s [%d,%d), want list [0,%d)", m.Rule, m.Start, m.End, len(input))
	}

	if len(m.Children) != 2 || m.Children[0].Rule != "item" {
		t.Errorf("Parse() children = %v", m.Children)
	}
}

func TestParseString(t *testing.T) {
	g, err := grammar.Compile(`a = x:"x" @space b
b = .`)
	if err != nil {
		t.Fatal(err)
	}

	m, err := g.Parse(nodes(t, "x \\y"))
	if err != nil {
		t.Fatal(err)
	}

	want := "a [0,3) \"x \\\\y\"\n  x: [0,1) \"x\"\n  b [2,3) \"\\\\y\"\n"
	if diff := cmp.Diff(want, m.String()); diff != "" {
		t.Errorf("String() mismatch (-want +got):\n%s", diff)
	}
}

func TestParseErrors(t *testing.T) {
	tt := []struct {
		name    string
		grammar string
		input   string
		index   int
		msg     string
	}{
		{name: "unexpected node", grammar: `a = "x" "y"`, input: "x\\z", index: 1, msg: `expected "y", got macro \z`},
		{name: "alternatives", grammar: `a = "x" ("y" / <group>)`, input: "x\\z", index: 1, msg: `expected "y" or <group>, got macro \z`},
		{name: "end of input", grammar: `a = "x" "y"`, input: "x", index: 1, msg: `expected "y", got end of input`},
		{name: "trailing input", grammar: `a = "x"`, input: "x y", index: 1, msg: "unexpected whitespace"},
		{name: "trailing after repetition", grammar: `a = "x"*`, input: "x\\y", index: 1, msg: `expected "x", got macro \y`},
		{name: "unknown helper", grammar: `a = @sentence`, input: "x", index: 0, msg: "helper @sentence is not defined"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			g, err := grammar.Compile(tc.grammar)
			if err != nil {
				t.Fatalf("Compile(%q) error: %v", tc.grammar, err)
			}

			_, err = g.Parse(nodes(t, tc.input))

			var got *grammar.MatchError
			if !errors.As(err, &got) {
				t.Fatalf("Parse(%q) error = %v, want *MatchError", tc.input, err)
			}

			if got.Index != tc.index || got.Msg != tc.msg {
				t.Errorf("Parse(%q) error = %d: %q, want %d: %q", tc.input, got.Index, got.Msg, tc.index, tc.msg)
			}

			var ce *grammar.CompileError
			if errors.As(err, &ce) {
				t.Errorf("match errors must not be compile errors")
			}
		})
	}
}

func TestParseErrorPosition(t *testing.T) {
	g, err := grammar.Compile(`a = "x" "y"`)
	if err != nil {
		t.Fatal(err)
	}

	_, err = g.Parse(nodes(t, "x\\z"))
	if err == nil || err.Error() != `1:2: expected "y", got macro \z` {
		t.Errorf("Parse() error = %v", err)
	}
}

func TestWithHelpers(t *testing.T) {
	g, err := grammar.Compile("a = @bold+")
	if err != nil {
		t.Fatal(err)
	}

	bold := func(n latex.Node) bool {
		return latex.IsMacro(n, "textbf")
	}

	if _, err := g.Parse(nodes(t, "\\textbf{a}\\textbf{b}"), grammar.WithHelpers(map[string]grammar.Helper{"bold": bold})); err != nil {
		t.Errorf("Parse() error: %v", err)
	}
}

func TestWithStart(t *testing.T) {
	g, err := grammar.Compile("a = \"x\"\nb = \"y\"")
	if err != nil {
		t.Fatal(err)
	}

	m, err := g.Parse(nodes(t, "y"), grammar.WithStart("b"))
	if err != nil {
		t.Fatal(err)
	}

	if m.Rule != "b" {
		t.Errorf("Parse() rule = %q, want b", m.Rule)
	}

	if _, err := g.Parse(nodes(t, "y"), grammar.WithStart("c")); err == nil {
		t.Errorf("Parse() with unknown start rule must fail")
	}
}
