package latex_test

import (
	"encoding/json"
	"testing"

	"github.com/eolymp/latex-playground"
	"github.com/google/go-cmp/cmp"
)

func TestPrintRaw(t *testing.T) {
	tt := []struct {
		name   string
		input  string
		output string
	}{
		{name: "arguments", input: "\\section*[a]{b} text $x^2$", output: "\\section*[a]{b} text $x^2$"},
		{name: "digits", input: "\\frac12", output: "\\frac12"},
		{name: "letters", input: "\\frac ab", output: "\\frac a b"},
		{name: "sameline comment", input: "a % c\nb", output: "a % c\nb"},
		{name: "comment before paragraph", input: "% c\n\nb", output: "% c\n\nb"},
		{name: "environment", input: "\\begin{itemize}\\item a\\end{itemize}", output: "\\begin{itemize}\\item a\\end{itemize}"},
		{name: "display math", input: "$$x$$", output: "\\[x\\]"},
		{name: "verb", input: "\\verb|a  b|", output: "\\verb|a  b|"},
		{name: "verbatim", input: "\\begin{verbatim}\n a  b\n\\end{verbatim}", output: "\\begin{verbatim}\n a  b\n\\end{verbatim}"},
		{name: "spaces", input: "x  \n y\n\n\n\nz", output: "x y\n\nz"},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			root, err := latex.Parse(tc.input)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(tc.output, latex.PrintRaw(root)); diff != "" {
				t.Errorf("PrintRaw() mismatch (-want +got):\n%s", diff)
			}

			again, err := latex.Parse(tc.output)
			if err != nil {
				t.Fatal(err)
			}

			if diff := cmp.Diff(latex.StripPositions(root), latex.StripPositions(again)); diff != "" {
				t.Errorf("printed source parses into a different tree (-want +got):\n%s", diff)
			}
		})
	}
}

func TestNeedsSpace(t *testing.T) {
	tt := []struct {
		name   string
		before string
		arg    *latex.Argument
		output bool
	}{
		{name: "letter after letter", before: "frac", arg: bare(str("a")), output: true},
		{name: "digit after letter", before: "frac", arg: bare(str("1")), output: false},
		{name: "letter after symbol", before: "^", arg: bare(str("a")), output: false},
		{name: "macro after letter", before: "frac", arg: bare(macro("pi")), output: false},
		{name: "delimited", before: "frac", arg: arg(str("a")), output: false},
		{name: "absent", before: "frac", arg: bare(), output: false},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			if got := latex.NeedsSpace(tc.before, tc.arg); got != tc.output {
				t.Errorf("NeedsSpace(%q) = %v, want %v", tc.before, got, tc.output)
			}
		})
	}
}

func TestMarshalJSON(t *testing.T) {
	root, err := latex.Parse("\\emph{x}")
	if err != nil {
		t.Fatal(err)
	}

	got, err := json.Marshal(latex.StripPositions(root))
	if err != nil {
		t.Fatal(err)
	}

	want := `{"type":"root","content":[{"type":"macro","content":"emph","escapeToken":"\\","args":[{"type":"argument","openMark":"{","closeMark":"}","content":[{"type":"string","content":"x"}]}]}]}`
	if diff := cmp.Diff(want, string(got)); diff != "" {
		t.Errorf("json mismatch (-want +got):\n%s", diff)
	}
}
