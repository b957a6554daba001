package lint_test

import (
	"testing"

	"github.com/eolymp/latex-playground"
	"github.com/eolymp/latex-playground/lint"
	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

var cmpIgnorePosition = cmpopts.IgnoreFields(lint.Diagnostic{}, "Position")

func parse(t *testing.T, src string) *latex.Root {
	t.Helper()

	root, err := latex.Parse(src)
	if err != nil {
		t.Fatalf("Parse(%q) error: %v", src, err)
	}

	return root
}

func messages(diagnostics []lint.Diagnostic) (out []string) {
	for _, d := range diagnostics {
		out = append(out, d.RuleName+": "+d.Message)
	}

	return
}

func TestReport(t *testing.T) {
	tt := []struct {
		name   string
		rule   lint.Rule
		input  string
		output []string
	}{
		{
			name:   "font shaping in text",
			rule:   lint.FontShapingCommands{},
			input:  "{\\bf x} and {\\em y}",
			output: []string{"no-tex-font-shaping-commands: \\bf is deprecated, use \\textbf{...}", "no-tex-font-shaping-commands: \\em is deprecated, use \\emph{...}"},
		},
		{
			name:   "font shaping in math",
			rule:   lint.FontShapingCommands{},
			input:  "${\\rm d}x$ ${\\sc x}$",
			output: []string{"no-tex-font-shaping-commands: \\rm is deprecated, use \\mathrm{...}", "no-tex-font-shaping-commands: \\sc is deprecated"},
		},
		{
			name:   "redundant group",
			rule:   lint.RedundantGroup{},
			input:  "{{x}} \\textbf{{y}} {z}",
			output: []string{"no-redundant-group: redundant group", "no-redundant-group: redundant group in argument"},
		},
		{
			name:   "group in definition is not redundant",
			rule:   lint.RedundantGroup{},
			input:  "\\newcommand{\\x}{{y}}",
			output: nil,
		},
		{
			name:   "plaintext operators",
			rule:   lint.PlaintextOperators{},
			input:  "$sin x + \\sin y + cosh z + sinx$",
			output: []string{"no-plaintext-operators: use \\sin instead of sin", "no-plaintext-operators: use \\cosh instead of cosh"},
		},
		{
			name:   "operators in upright text are fine",
			rule:   lint.PlaintextOperators{},
			input:  "sin $\\text{sin} \\operatorname{sin}$",
			output: nil,
		},
		{
			name:   "def",
			rule:   lint.NoDef{},
			input:  "\\def\\x{1}",
			output: []string{"no-def: do not use \\def, use \\newcommand or \\renewcommand instead"},
		},
		{
			name:   "tex display math",
			rule:   lint.TexDisplayMath{},
			input:  "$$x$$ \\[y\\]",
			output: []string{"no-tex-display-math: use \\[...\\] instead of $$...$$"},
		},
		{
			name:   "trailing whitespace",
			rule:   lint.TrailingWhitespace{},
			input:  "a  \nb\t\r\nc",
			output: []string{"no-trailing-whitespace: trailing whitespace", "no-trailing-whitespace: trailing whitespace"},
		},
		{
			name:   "too many cells",
			rule:   lint.TabularColumns{},
			input:  "\\begin{tabular}{cc}a&b&c\\\\d\\\\\\hline\\end{tabular}",
			output: []string{"tabular-column-count: row has 3 cells, but 2 columns are declared"},
		},
		{
			name:   "repeated columns",
			rule:   lint.TabularColumns{},
			input:  "\\begin{tabular}{*{3}{c}|p{2cm}}a&b&c&d\\end{tabular}",
			output: nil,
		},
		{
			name:   "multicolumn",
			rule:   lint.TabularColumns{},
			input:  "\\begin{tabular}{|c|c|}\\multicolumn{2}{c}{x} & y\\end{tabular}",
			output: []string{"tabular-column-count: row has 3 cells, but 2 columns are declared"},
		},
		{
			name:   "array in math",
			rule:   lint.TabularColumns{},
			input:  "$\\begin{array}{c}1&2\\end{array}$",
			output: []string{"tabular-column-count: row has 2 cells, but 1 columns are declared"},
		},
		{
			name:   "invalid column spec",
			rule:   lint.TabularColumns{},
			input:  "\\begin{tabular}{cq}a\\end{tabular}",
			output: []string{"tabular-column-count: invalid column specification: unknown column type 'q'"},
		},
		{
			name:   "graphics options",
			rule:   lint.GraphicsOptions{},
			input:  "\\includegraphics[width=0.5\\textwidth, foo=1, height=abc, scale=2]{img.png}",
			output: []string{"includegraphics-options: unknown option \"foo\"", "includegraphics-options: option \"height\" must be a length, got \"abc\""},
		},
		{
			name:   "graphics lengths",
			rule:   lint.GraphicsOptions{},
			input:  "\\includegraphics[width=-1cm,height=3furlong,angle=x]{img.png}",
			output: []string{"includegraphics-options: option \"angle\" must be a number, got \"x\"", "includegraphics-options: option \"height\": measurement unit \"furlong\" is not supported", "includegraphics-options: option \"width\" must be positive, got \"-1cm\""},
		},
		{
			name:   "ligatures",
			rule:   lint.Ligatures{},
			input:  "a—b “c” \\verb|—|",
			output: []string{"prefer-tex-ligatures: use --- instead of —", "prefer-tex-ligatures: use `` instead of “", "prefer-tex-ligatures: use '' instead of ”"},
		},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			root := parse(t, tc.input)
			before := latex.Clone(root)

			got := messages(lint.New(tc.rule).Report(root, tc.input))
			if diff := cmp.Diff(tc.output, got); diff != "" {
				t.Errorf("Report() mismatch (-want +got):\n%s", diff)
			}

			if diff := cmp.Diff(before, latex.Node(root)); diff != "" {
				t.Errorf("Report() must not modify the tree (-before +after):\n%s", diff)
			}
		})
	}
}

func TestReportWithoutSource(t *testing.T) {
	root := parse(t, "$$x$$  \n")

	if got := lint.New(lint.TexDisplayMath{}, lint.TrailingWhitespace{}).Report(root); len(got) != 0 {
		t.Errorf("rules which need source must report nothing without it, got %v", got)
	}
}

func TestReportPosition(t *testing.T) {
	root := parse(t, "ab  \nc")

	got := lint.New(lint.TrailingWhitespace{}).Report(root, "ab  \nc")
	want := []lint.Diagnostic{{
		RuleName: "no-trailing-whitespace",
		Message:  "trailing whitespace",
		Severity: lint.SeverityWarning,
		Position: &latex.Position{
			Start: latex.Point{Offset: 2, Line: 1, Column: 3},
			End:   latex.Point{Offset: 4, Line: 1, Column: 5},
		},
	}}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Report() mismatch (-want +got):\n%s", diff)
	}

	if s := got[0].String(); s != "no-trailing-whitespace: trailing whitespace (1:3)" {
		t.Errorf("String() = %q", s)
	}
}

func TestFix(t *testing.T) {
	tt := []struct {
		name   string
		rule   lint.Rule
		input  string
		output string
	}{
		{name: "font shaping", rule: lint.FontShapingCommands{}, input: "{\\bf x y}", output: "\\textbf{x y}"},
		{name: "font shaping in math", rule: lint.FontShapingCommands{}, input: "${\\bf x}$", output: "$\\mathbf{x}$"},
		{name: "font shaping without replacement", rule: lint.FontShapingCommands{}, input: "${\\sc x}$", output: "${\\sc x}$"},
		{name: "nested font shaping", rule: lint.FontShapingCommands{}, input: "{\\it a {\\bf b}}", output: "\\textit{a \\textbf{b}}"},
		{name: "redundant group", rule: lint.RedundantGroup{}, input: "{{{x}}}", output: "{x}"},
		{name: "redundant group in argument", rule: lint.RedundantGroup{}, input: "\\textbf{{x}}", output: "\\textbf{x}"},
		{name: "group in optional argument", rule: lint.RedundantGroup{}, input: "\\section[{a]b}]{x}", output: "\\section[{a]b}]{x}"},
		{name: "group in definition", rule: lint.RedundantGroup{}, input: "\\newcommand{\\x}{{y}}", output: "\\newcommand{\\x}{{y}}"},
		{name: "operators", rule: lint.PlaintextOperators{}, input: "$sin x+log(y)$", output: "$\\sin x+\\log(y)$"},
		{name: "operators in operatorname", rule: lint.PlaintextOperators{}, input: "$\\operatorname{sin}x$", output: "$\\operatorname{sin}x$"},
		{name: "ligatures", rule: lint.Ligatures{}, input: "a—b “c”", output: "a---b ``c''"},
		{name: "ligatures keep verbatim", rule: lint.Ligatures{}, input: "\\verb|—| $—$", output: "\\verb|—| $—$"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			root := parse(t, tc.input)

			fixed, failures := lint.New(tc.rule).Fix(root)
			if len(failures) != 0 {
				t.Fatalf("Fix() failures: %v", failures)
			}

			if fixed != latex.Node(root) {
				t.Errorf("Fix() must return the same root")
			}

			if got := latex.PrintRaw(fixed); got != tc.output {
				t.Errorf("Fix() = %q, want %q", got, tc.output)
			}
		})
	}
}

func TestFixShape(t *testing.T) {
	l := lint.Default()

	group := &latex.Group{Content: []latex.Node{&latex.Group{Content: []latex.Node{&latex.String{Content: "x"}}}}}
	node, _ := l.Fix(group)
	if _, ok := node.(*latex.Group); !ok {
		t.Fatalf("Fix() of a group must return a group, got %T", node)
	}

	if got := latex.PrintRaw(node); got != "{x}" {
		t.Errorf("Fix() = %q, want %q", got, "{x}")
	}

	nodes, _ := l.FixNodes(parse(t, "{\\bf a} b").Content)
	if got := latex.PrintRaw(nodes...); got != "\\textbf{a} b" {
		t.Errorf("FixNodes() = %q, want %q", got, "\\textbf{a} b")
	}
}

// splitter replaces every top-level "x" with "a b"
type splitter struct{}

func (splitter) Name() string { return "splitter" }

func (splitter) Check(*lint.Context, *latex.Root) {}

func (splitter) Fix(root *latex.Root) {
	var out []latex.Node
	for _, n := range root.Content {
		if s, ok := n.(*latex.String); ok && s.Content == "x" {
			out = append(out, &latex.String{Content: "a"}, &latex.Whitespace{}, &latex.String{Content: "b"})
			continue
		}

		out = append(out, n)
	}

	root.Content = out
}

func TestFixExpandsNode(t *testing.T) {
	node, failures := lint.New(splitter{}).Fix(&latex.String{Content: "x"})
	if len(failures) != 0 {
		t.Fatalf("Fix() failures: %v", failures)
	}

	if _, ok := node.(*latex.Root); !ok {
		t.Fatalf("Fix() of an expanded node must return a root, got %T", node)
	}

	if got := latex.PrintRaw(node); got != "a b" {
		t.Errorf("Fix() = %q, want %q", got, "a b")
	}
}

type panicking struct{}

func (panicking) Name() string { return "panicking" }

func (panicking) Check(*lint.Context, *latex.Root) { panic("boom") }

func (panicking) Fix(root *latex.Root) {
	root.Content = root.Content[:0]
	panic("boom")
}

func TestRuleFailure(t *testing.T) {
	l := lint.New(panicking{}, lint.NoDef{}, lint.FontShapingCommands{})

	got := l.Report(parse(t, "\\def\\x{1}"))
	want := []lint.Diagnostic{
		{RuleName: "panicking", Message: "rule failed: boom", Severity: lint.SeverityError},
		{RuleName: "no-def", Message: "do not use \\def, use \\newcommand or \\renewcommand instead", Severity: lint.SeverityWarning},
	}

	if diff := cmp.Diff(want, got, cmpIgnorePosition); diff != "" {
		t.Errorf("Report() mismatch (-want +got):\n%s", diff)
	}

	root := parse(t, "{\\bf x}")
	fixed, failures := l.Fix(root)

	if diff := cmp.Diff([]string{"panicking: rule failed: boom"}, messages(failures)); diff != "" {
		t.Errorf("Fix() failures mismatch (-want +got):\n%s", diff)
	}

	if got := latex.PrintRaw(fixed); got != "\\textbf{x}" {
		t.Errorf("Fix() = %q, other rules must still apply", got)
	}
}

type recorder struct {
	name string
	log  *[]string
}

func (r recorder) Name() string { return r.name }

func (r recorder) Check(*lint.Context, *latex.Root) { *r.log = append(*r.log, "check "+r.name) }

func (r recorder) Fix(*latex.Root) { *r.log = append(*r.log, "fix "+r.name) }

func TestRuleOrder(t *testing.T) {
	var log []string
	l := lint.New(recorder{name: "a", log: &log}, recorder{name: "b", log: &log})

	l.Report(&latex.Root{})
	l.Fix(&latex.Root{})

	want := []string{"check a", "check b", "fix a", "fix b"}
	if diff := cmp.Diff(want, log); diff != "" {
		t.Errorf("rules order mismatch (-want +got):\n%s", diff)
	}

	if diff := cmp.Diff([]string{"a", "b"}, l.Rules()); diff != "" {
		t.Errorf("Rules() mismatch (-want +got):\n%s", diff)
	}
}

func TestDefaultOrder(t *testing.T) {
	// a redundant group around font switch is removed before the switch is rewritten
	root := parse(t, "{{\\bf x}}")
	fixed, _ := lint.Default().Fix(root)

	if got := latex.PrintRaw(fixed); got != "\\textbf{x}" {
		t.Errorf("Fix() = %q, want %q", got, "\\textbf{x}")
	}
}
