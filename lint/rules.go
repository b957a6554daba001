package lint

import (
	"strings"

	"github.com/eolymp/latex-playground"
)

// RedundantGroup reports groups which only contain another group: {{x}}, \textbf{{x}}.
// Arguments of definitions (\newcommand, \def) are left alone, there an extra group
// keeps the scope of the defined macro.
type RedundantGroup struct{}

func (RedundantGroup) Name() string {
	return "no-redundant-group"
}

func (RedundantGroup) Check(ctx *Context, root *latex.Root) {
	latex.Walk(root, func(node latex.Node, c latex.Context) bool {
		switch n := node.(type) {
		case *latex.Group:
			if nested(n) != nil {
				ctx.Report(n.Position, "redundant group")
			}
		case *latex.Argument:
			if redundantArgument(n, c.Parent) {
				ctx.Report(n.Position, "redundant group in argument")
			}
		}

		return true
	})
}

func (RedundantGroup) Fix(root *latex.Root) {
	latex.Transform(root, func(nodes []latex.Node, _ latex.Context) []latex.Node {
		for i, node := range nodes {
			if inner := nested(node); inner != nil {
				nodes[i] = inner
			}
		}

		return nodes
	})

	latex.Walk(root, func(node latex.Node, c latex.Context) bool {
		if arg, ok := node.(*latex.Argument); ok && redundantArgument(arg, c.Parent) {
			arg.Content = arg.Content[0].(*latex.Group).Content
		}

		return true
	})
}

// nested returns inner group of {{...}}
func nested(node latex.Node) *latex.Group {
	g, ok := node.(*latex.Group)
	if !ok || len(g.Content) != 1 {
		return nil
	}

	inner, _ := g.Content[0].(*latex.Group)
	return inner
}

func redundantArgument(arg *latex.Argument, parent latex.Node) bool {
	if arg.OpenMark != "{" || len(arg.Content) != 1 {
		return false
	}

	if _, ok := arg.Content[0].(*latex.Group); !ok {
		return false
	}

	return latex.IsMacro(parent) && !latex.IsMacro(parent, "newcommand", "renewcommand", "providecommand", "newenvironment", "renewenvironment", "def")
}

// FontShapingCommands reports TeX font switches like \bf and rewrites {\bf x} into \textbf{x} (\mathbf{x} in math).
type FontShapingCommands struct{}

var fontShaping = map[string][2]string{
	// text and math replacements
	"bf": {"textbf", "mathbf"},
	"it": {"textit", "mathit"},
	"rm": {"textrm", "mathrm"},
	"sf": {"textsf", "mathsf"},
	"tt": {"texttt", "mathtt"},
	"sl": {"textsl", ""},
	"sc": {"textsc", ""},
	"em": {"emph", ""},
}

func (FontShapingCommands) Name() string {
	return "no-tex-font-shaping-commands"
}

func (FontShapingCommands) Check(ctx *Context, root *latex.Root) {
	latex.Walk(root, func(node latex.Node, c latex.Context) bool {
		m, ok := node.(*latex.Macro)
		if !ok || m.EscapeToken != "\\" {
			return true
		}

		if repl := shapingReplacement(m.Content, c.Mode); repl != "" {
			ctx.Report(m.Position, "\\%s is deprecated, use \\%s{...}", m.Content, repl)
		} else if _, ok := fontShaping[m.Content]; ok {
			ctx.Report(m.Position, "\\%s is deprecated", m.Content)
		}

		return true
	})
}

func (FontShapingCommands) Fix(root *latex.Root) {
	latex.Transform(root, func(nodes []latex.Node, c latex.Context) []latex.Node {
		for i, node := range nodes {
			g, ok := node.(*latex.Group)
			if !ok {
				continue
			}

			j := 0
			for j < len(g.Content) && latex.IsSpace(g.Content[j]) {
				j++
			}

			if j == len(g.Content) {
				continue
			}

			m, ok := g.Content[j].(*latex.Macro)
			if !ok || m.EscapeToken != "\\" || len(m.Args) > 0 {
				continue
			}

			repl := shapingReplacement(m.Content, c.Mode)
			if repl == "" {
				continue
			}

			content := g.Content[j+1:]
			for len(content) > 0 && latex.IsSpace(content[0]) {
				content = content[1:]
			}

			nodes[i] = &latex.Macro{
				Content:     repl,
				EscapeToken: "\\",
				Args:        []*latex.Argument{{OpenMark: "{", CloseMark: "}", Content: content}},
				Position:    g.Position,
			}
		}

		return nodes
	})
}

func shapingReplacement(name string, mode latex.Mode) string {
	repl, ok := fontShaping[name]
	if !ok {
		return ""
	}

	if mode == latex.MathMode {
		return repl[1]
	}

	return repl[0]
}

// PlaintextOperators reports operator names typed as plain letters in math, like sin x instead of \sin x.
type PlaintextOperators struct{}

var operators = map[string]bool{
	"sin": true, "cos": true, "tan": true, "cot": true, "sec": true, "csc": true,
	"arcsin": true, "arccos": true, "arctan": true, "sinh": true, "cosh": true, "tanh": true, "coth": true,
	"log": true, "ln": true, "lg": true, "exp": true, "max": true, "min": true, "sup": true, "inf": true,
	"lim": true, "det": true, "gcd": true, "deg": true, "dim": true, "ker": true, "arg": true, "hom": true, "Pr": true,
}

// upright macros which take operator names literally
var uprightMacros = []string{"operatorname", "mathrm", "mathit", "mathbf", "mathsf", "mathtt", "label", "ref", "eqref"}

func (PlaintextOperators) Name() string {
	return "no-plaintext-operators"
}

func (PlaintextOperators) Check(ctx *Context, root *latex.Root) {
	latex.Inspect(root, func(nodes []latex.Node, c latex.Context) {
		if c.Mode != latex.MathMode || latex.IsMacro(c.Parent, uprightMacros...) {
			return
		}

		for _, op := range findOperators(nodes) {
			ctx.Report(op.pos, "use \\%s instead of %s", op.name, op.name)
		}
	})
}

func (PlaintextOperators) Fix(root *latex.Root) {
	latex.Transform(root, func(nodes []latex.Node, c latex.Context) []latex.Node {
		if c.Mode != latex.MathMode || latex.IsMacro(c.Parent, uprightMacros...) {
			return nodes
		}

		ops := findOperators(nodes)
		if len(ops) == 0 {
			return nodes
		}

		out := make([]latex.Node, 0, len(nodes))
		last := 0

		for _, op := range ops {
			out = append(out, nodes[last:op.start]...)
			out = append(out, &latex.Macro{Content: op.name, EscapeToken: "\\", Position: op.pos})
			last = op.end
		}

		return append(out, nodes[last:]...)
	})
}

type operator struct {
	start, end int
	name       string
	pos        *latex.Position
}

// findOperators finds whole words of single letter strings which spell an operator name
func findOperators(nodes []latex.Node) (ops []operator) {
	for i := 0; i < len(nodes); {
		if !isLetter(nodes[i]) {
			i++
			continue
		}

		j := i
		var word strings.Builder
		for j < len(nodes) && isLetter(nodes[j]) {
			word.WriteString(nodes[j].(*latex.String).Content)
			j++
		}

		if operators[word.String()] {
			ops = append(ops, operator{start: i, end: j, name: word.String(), pos: span(nodes[i], nodes[j-1])})
		}

		i = j
	}

	return
}

func isLetter(n latex.Node) bool {
	s, ok := n.(*latex.String)
	if !ok || s.Content == "" {
		return false
	}

	for _, r := range s.Content {
		if !('a' <= r && r <= 'z' || 'A' <= r && r <= 'Z') {
			return false
		}
	}

	return true
}

// NoDef reports \def, which bypasses checks done by \newcommand
type NoDef struct{}

func (NoDef) Name() string {
	return "no-def"
}

func (NoDef) Check(ctx *Context, root *latex.Root) {
	latex.Walk(root, func(node latex.Node, _ latex.Context) bool {
		if m, ok := node.(*latex.Macro); ok && m.EscapeToken == "\\" && m.Content == "def" {
			ctx.Report(m.Position, "do not use \\def, use \\newcommand or \\renewcommand instead")
		}

		return true
	})
}

func span(from, to latex.Node) *latex.Position {
	a, b := from.Pos(), to.Pos()
	if a == nil || b == nil {
		return nil
	}

	return &latex.Position{Start: a.Start, End: b.End}
}
