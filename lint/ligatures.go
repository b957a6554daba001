package lint

import (
	"strings"

	"github.com/eolymp/latex-playground"
)

// Ligatures reports typographic characters typed directly in text, LaTeX produces
// them from ASCII ligatures: --- for an em dash, `` and '' for quotes.
type Ligatures struct{}

// ligature returns LaTeX input producing a given typographic character
func ligature(a rune) string {
	switch a {
	case '—':
		return "---"
	case '–':
		return "--"
	case '«':
		return "<<"
	case '»':
		return ">>"
	case '“':
		return "``"
	case '”':
		return "''"
	case '‘':
		return "`"
	case '’':
		return "'"
	default:
		return ""
	}
}

func (Ligatures) Name() string {
	return "prefer-tex-ligatures"
}

func (Ligatures) Check(ctx *Context, root *latex.Root) {
	latex.Walk(root, func(node latex.Node, c latex.Context) bool {
		s, ok := node.(*latex.String)
		if !ok || c.Mode != latex.TextMode {
			return true
		}

		seen := map[rune]bool{}
		for _, r := range s.Content {
			if l := ligature(r); l != "" && !seen[r] {
				seen[r] = true
				ctx.Report(s.Position, "use %s instead of %c", l, r)
			}
		}

		return true
	})
}

func (Ligatures) Fix(root *latex.Root) {
	latex.Walk(root, func(node latex.Node, c latex.Context) bool {
		s, ok := node.(*latex.String)
		if !ok || c.Mode != latex.TextMode {
			return true
		}

		var b strings.Builder
		for _, r := range s.Content {
			if l := ligature(r); l != "" {
				b.WriteString(l)
			} else {
				b.WriteRune(r)
			}
		}

		s.Content = b.String()
		return true
	})
}
