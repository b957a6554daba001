package playground

import (
	"testing"

	"github.com/eolymp/latex-playground"
	"github.com/eolymp/latex-playground/lint"
	"github.com/google/go-cmp/cmp"
)

// failingFix rewrites part of the tree and then panics
type failingFix struct{}

func (failingFix) Name() string { return "failing-fix" }

func (failingFix) Check(*lint.Context, *latex.Root) {}

func (failingFix) Fix(root *latex.Root) {
	root.Content = append(root.Content, &latex.String{Content: "garbage"})
	panic("fix failed")
}

func TestFormatFixFailure(t *testing.T) {
	src := "{\\bf x}  $sin y$"

	want, err := Format(src, Options{PrintWidth: 80})
	if err != nil {
		t.Fatal(err)
	}

	tt := []struct {
		name   string
		linter *lint.Linter
	}{
		{name: "failing rule only", linter: lint.New(failingFix{})},
		{name: "failing rule after working rules", linter: lint.New(lint.FontShapingCommands{}, lint.PlaintextOperators{}, failingFix{})},
	}

	for _, tc := range tt {
		t.Run(tc.name, func(t *testing.T) {
			got, err := format(src, Options{PrintWidth: 80, FixLints: true}, tc.linter)
			if err != nil {
				t.Fatalf("format() must not fail when a fix fails: %v", err)
			}

			if diff := cmp.Diff(want, got); diff != "" {
				t.Errorf("format() must fall back to unfixed tree (-want +got):\n%s", diff)
			}
		})
	}
}
