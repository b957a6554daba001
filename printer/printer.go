// Package printer converts LaTeX AST into a print document.
//
// The document does not depend on the target width, it marks places where lines
// can be broken and lets the renderer decide. Text paragraphs are filled word by
// word, environments are printed on their own lines with indented content, display
// math is kept on one line when it fits. Inline math and verbatim content are never
// broken.
package printer

import (
	"fmt"
	"strings"

	"github.com/eolymp/latex-playground"
	"github.com/eolymp/latex-playground/doc"
)

// Build converts node into a print document
func Build(node latex.Node) doc.Doc {
	p := &printer{}

	if r, ok := node.(*latex.Root); ok {
		d, _ := p.sequence(r.Content, scope{mode: latex.TextMode}, false)
		return d
	}

	return p.node(node, scope{mode: latex.TextMode})
}

// scope describes how sequence is printed
type scope struct {
	mode latex.Mode
	// inline is set inside inline math, where no line breaks are allowed
	inline bool
}

type printer struct{}

// sequence prints content of a container. When trailing is set, whitespace at the end of the sequence is kept,
// containers with trimmed content (root, environments, display math) take care of line breaks themselves.
// The second value reports whether the sequence ends with a comment, which must be followed by a line break.
func (p *printer) sequence(nodes []latex.Node, s scope, trailing bool) (doc.Doc, bool) {
	f := &fill{}
	comment := false
	depth := 0 // \left ... \right nesting

	for i, node := range nodes {
		comment = false

		switch n := node.(type) {
		case *latex.Whitespace:
			if s.inline || depth > 0 {
				f.space(sepSpace)
			} else {
				f.space(sepSoft)
			}
		case *latex.Parbreak:
			f.space(sepBlank)
		case *latex.Comment:
			if n.Sameline {
				// keep comment on the line it was written on
				if _, ok := prev(nodes, i).(*latex.Whitespace); ok {
					f.force(sepSpace)
				} else {
					f.force(sepNone)
				}
			} else {
				f.breakBefore()
			}

			f.add(doc.Text("%" + n.Content))
			f.force(sepHard)
			comment = true
		case *latex.Environment, *latex.MathEnv, *latex.Verbatim:
			f.breakBefore()
			f.add(p.node(n, s))
			f.force(sepHard)
		case *latex.Macro:
			if n.EscapeToken != "" && n.Content == "item" {
				f.breakBefore()
			}

			if s.mode == latex.MathMode && n.EscapeToken != "" {
				switch n.Content {
				case "left":
					depth++
				case "right":
					if depth > 0 {
						depth--
					}
				}
			}

			f.add(p.node(n, s))

			if n.EscapeToken != "" && n.Content == "\\" && !s.inline {
				f.space(sepHard)
			}
		case *latex.String:
			if i > 0 && glued(nodes[i-1], n) {
				f.add(doc.Text(" "))
			}

			f.add(p.node(n, s))
		default:
			f.add(p.node(n, s))
		}
	}

	return f.finish(trailing), comment
}

func (p *printer) node(node latex.Node, s scope) doc.Doc {
	switch n := node.(type) {
	case *latex.Root:
		d, _ := p.sequence(n.Content, s, false)
		return d
	case *latex.String:
		return doc.Text(n.Content)
	case *latex.Whitespace:
		return doc.Line
	case *latex.Parbreak:
		return doc.Concat(doc.HardLine, doc.HardLine)
	case *latex.Comment:
		return doc.Concat(doc.Text("%"+n.Content), doc.HardLine)
	case *latex.Macro:
		return p.macro(n, s)
	case *latex.Argument:
		return p.wrap(n.OpenMark, n.CloseMark, n.Content, s)
	case *latex.Group:
		return p.wrap("{", "}", n.Content, s)
	case *latex.InlineMath:
		return p.wrap("$", "$", n.Content, scope{mode: latex.MathMode, inline: true})
	case *latex.DisplayMath:
		return p.displayMath(n)
	case *latex.Environment:
		return p.environment(latex.EnvName(n.Env), n.Args, n.Content, s, s.mode)
	case *latex.MathEnv:
		return p.environment(latex.EnvName(n.Env), n.Args, n.Content, s, latex.MathMode)
	case *latex.Verbatim:
		return doc.Text("\\begin{" + n.Env + "}" + n.Content + "\\end{" + n.Env + "}")
	case *latex.Verb:
		return doc.Text("\\" + n.Env + n.Escape + n.Content + n.Escape)
	default:
		panic(fmt.Sprintf("printer: unexpected node %T", node))
	}
}

func (p *printer) macro(m *latex.Macro, s scope) doc.Doc {
	parts := []doc.Doc{doc.Text(m.EscapeToken + m.Content)}

	as := s
	as.mode = latex.ArgMode(m, s.mode)

	last := m.EscapeToken + m.Content
	for _, arg := range m.Args {
		if absent(arg) {
			continue
		}

		if latex.NeedsSpace(last, arg) {
			parts = append(parts, doc.Text(" "))
		}

		parts = append(parts, p.node(arg, as))

		if raw := latex.PrintRaw(arg); raw != "" {
			last = raw
		}
	}

	return doc.Concat(parts...)
}

// wrap prints content between open and close marks
func (p *printer) wrap(open, close string, content []latex.Node, s scope) doc.Doc {
	d, _ := p.sequence(content, s, true)
	return doc.Concat(doc.Text(open), d, doc.Text(close))
}

func (p *printer) displayMath(n *latex.DisplayMath) doc.Doc {
	d, comment := p.sequence(n.Content, scope{mode: latex.MathMode}, false)

	closing := doc.SoftLine
	if comment {
		closing = doc.HardLine
	}

	return doc.Group(doc.Text("\\["), doc.Indent(doc.SoftLine, d), closing, doc.Text("\\]"))
}

func (p *printer) environment(name string, args []*latex.Argument, content []latex.Node, s scope, mode latex.Mode) doc.Doc {
	parts := []doc.Doc{doc.Text("\\begin{" + name + "}")}
	for _, arg := range args {
		if !absent(arg) {
			parts = append(parts, p.node(arg, s))
		}
	}

	if len(content) > 0 {
		body, _ := p.sequence(content, scope{mode: mode}, false)
		parts = append(parts, doc.Indent(doc.HardLine, body))
	}

	parts = append(parts, doc.HardLine, doc.Text("\\end{"+name+"}"))

	return doc.Concat(parts...)
}

func prev(nodes []latex.Node, i int) latex.Node {
	if i == 0 {
		return nil
	}

	return nodes[i-1]
}

// absent reports whether argument was not given in the source (like missing optional argument)
func absent(arg *latex.Argument) bool {
	return arg.OpenMark == "" && arg.CloseMark == "" && len(arg.Content) == 0
}

// glued reports whether string would become a part of preceding macro name if printed right after it
func glued(before latex.Node, s *latex.String) bool {
	m, ok := before.(*latex.Macro)
	if !ok || m.EscapeToken == "" || !isLetters(m.Content) || s.Content == "" || !isLetters(s.Content[:1]) {
		return false
	}

	for _, arg := range m.Args {
		if !absent(arg) {
			return false
		}
	}

	return true
}

func isLetters(s string) bool {
	return s != "" && strings.Trim(s, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ") == ""
}
