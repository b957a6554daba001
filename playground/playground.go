// Package playground exposes the formatting pipeline as a set of independent
// calls: parse, lint, build a print document and render it.
package playground

import (
	"encoding/json"
	"fmt"

	"github.com/eolymp/latex-playground"
	"github.com/eolymp/latex-playground/doc"
	"github.com/eolymp/latex-playground/grammar"
	"github.com/eolymp/latex-playground/lint"
	"github.com/eolymp/latex-playground/printer"
)

// DefaultWidth is used when Options.PrintWidth is not set
const DefaultWidth = 80

type Options struct {
	PrintWidth int
	UseTabs    bool
	TabWidth   int
	// FixLints runs lint fixes before printing
	FixLints bool
}

func DefaultOptions() Options {
	return Options{PrintWidth: DefaultWidth, UseTabs: true, TabWidth: 2}
}

func (o Options) render() doc.Options {
	width := o.PrintWidth
	if width <= 0 {
		width = DefaultWidth
	}

	return doc.Options{Width: width, UseTabs: o.UseTabs, TabWidth: o.TabWidth}
}

// Parse parses LaTeX source, errors are *latex.ParseError
func Parse(src string) (*latex.Root, error) {
	return latex.Parse(src)
}

// Format parses and pretty-prints LaTeX source. The result has no trailing line break.
func Format(src string, opts Options) (string, error) {
	return format(src, opts, lint.Default())
}

func format(src string, opts Options, l *lint.Linter) (string, error) {
	d, err := toPrintDocument(src, opts, l)
	if err != nil {
		return "", err
	}

	return doc.Render(d, opts.render()), nil
}

// ToPrintDocument parses source and builds its print document, lint fixes are
// applied when Options.FixLints is set.
func ToPrintDocument(src string, opts Options) (doc.Doc, error) {
	return toPrintDocument(src, opts, lint.Default())
}

func toPrintDocument(src string, opts Options, l *lint.Linter) (doc.Doc, error) {
	root, err := latex.Parse(src)
	if err != nil {
		return nil, err
	}

	if opts.FixLints {
		root = fix(l, root)
	}

	return printer.Build(root), nil
}

// fix applies all lint fixes to a copy of the tree. When any fix fails, the
// original tree is printed as is.
func fix(l *lint.Linter, root *latex.Root) *latex.Root {
	fixed, failures := l.Fix(latex.Clone(root))
	if len(failures) > 0 {
		return root
	}

	return fixed.(*latex.Root)
}

// RenderDocument lays out print document within the given width
func RenderDocument(d doc.Doc, width int) string {
	return doc.Render(d, Options{PrintWidth: width, UseTabs: true, TabWidth: 2}.render())
}

// FormatDoc returns a readable dump of the print document
func FormatDoc(src string, opts Options) (string, error) {
	d, err := ToPrintDocument(src, opts)
	if err != nil {
		return "", err
	}

	return doc.Debug(d, opts.render().Width), nil
}

// LintReport runs all lint rules against the tree, source enables rules which
// look at the original text (trailing whitespace, $$ delimiters).
func LintReport(root *latex.Root, source ...string) []lint.Diagnostic {
	return lint.Default().Report(root, source...)
}

// LintFix applies all lint fixes in place and returns the node of the same shape
func LintFix(node latex.Node) latex.Node {
	fixed, _ := lint.Default().Fix(node)
	return fixed
}

// Lints parses source and reports lint diagnostics
func Lints(src string) ([]lint.Diagnostic, error) {
	root, err := latex.Parse(src)
	if err != nil {
		return nil, err
	}

	return LintReport(root, src), nil
}

// ParseWithGrammar parses source and runs a grammar compiled from grammarSrc over
// the top-level nodes. Each stage fails with its own error.
func ParseWithGrammar(src, grammarSrc string, opts ...grammar.ParseOption) (*grammar.Match, error) {
	root, err := latex.Parse(src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse LaTeX source: %w", err)
	}

	g, err := grammar.Compile(grammarSrc)
	if err != nil {
		return nil, fmt.Errorf("failed to compile grammar: %w", err)
	}

	m, err := g.Parse(root.Content, opts...)
	if err != nil {
		return nil, fmt.Errorf("grammar did not match: %w", err)
	}

	return m, nil
}

// JSON returns indented JSON of the tree without positions
func JSON(node latex.Node) ([]byte, error) {
	return json.MarshalIndent(latex.StripPositions(node), "", "  ")
}
