package lint

import (
	"strings"
	"unicode/utf8"

	"github.com/eolymp/latex-playground"
)

// TexDisplayMath reports display math written as $$...$$. The tree does not keep
// the delimiters, so the rule looks at the original source. The printer always
// prints display math as \[...\], so there is nothing to fix.
type TexDisplayMath struct{}

func (TexDisplayMath) Name() string {
	return "no-tex-display-math"
}

func (TexDisplayMath) Check(ctx *Context, root *latex.Root) {
	src, ok := ctx.Source()
	if !ok {
		return
	}

	latex.Walk(root, func(node latex.Node, _ latex.Context) bool {
		m, ok := node.(*latex.DisplayMath)
		if !ok || m.Position == nil {
			return true
		}

		if off := m.Position.Start.Offset; off >= 0 && off < len(src) && strings.HasPrefix(src[off:], "$$") {
			ctx.Report(m.Position, "use \\[...\\] instead of $$...$$")
		}

		return true
	})
}

// TrailingWhitespace reports spaces and tabs at the end of source lines
type TrailingWhitespace struct{}

func (TrailingWhitespace) Name() string {
	return "no-trailing-whitespace"
}

func (TrailingWhitespace) Check(ctx *Context, _ *latex.Root) {
	src, ok := ctx.Source()
	if !ok {
		return
	}

	offset := 0
	for i, line := range strings.Split(src, "\n") {
		text := strings.TrimSuffix(line, "\r")
		trimmed := strings.TrimRight(text, " \t")

		if len(trimmed) < len(text) {
			start := latex.Point{Offset: offset + len(trimmed), Line: i + 1, Column: utf8.RuneCountInString(trimmed) + 1}
			end := latex.Point{Offset: offset + len(text), Line: i + 1, Column: utf8.RuneCountInString(text) + 1}

			ctx.Report(&latex.Position{Start: start, End: end}, "trailing whitespace")
		}

		offset += len(line) + 1
	}
}
