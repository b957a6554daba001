package latex

import (
	"fmt"
	"io"
	"strings"
)

// PrintRaw prints nodes back to LaTeX source without any formatting
func PrintRaw(nodes ...Node) string {
	var b strings.Builder
	if err := WriteRaw(&b, nodes...); err != nil {
		return ""
	}

	return b.String()
}

// WriteRaw prints nodes back to LaTeX source without any formatting. Whitespace
// is written as a single space and paragraph break as a blank line.
func WriteRaw(w io.Writer, nodes ...Node) error {
	for _, node := range nodes {
		if err := writeRaw(w, node); err != nil {
			return err
		}
	}

	return nil
}

func writeRaw(w io.Writer, node Node) error {
	switch node := node.(type) {
	case *Root:
		return WriteRaw(w, node.Content...)
	case *String:
		_, err := fmt.Fprint(w, node.Content)
		return err
	case *Whitespace:
		_, err := fmt.Fprint(w, " ")
		return err
	case *Parbreak:
		_, err := fmt.Fprint(w, "\n\n")
		return err
	case *Comment:
		suffix := "\n"
		if node.SuffixParbreak {
			suffix = ""
		}

		_, err := fmt.Fprint(w, "%", node.Content, suffix)
		return err
	case *Macro:
		if _, err := fmt.Fprint(w, node.EscapeToken, node.Content); err != nil {
			return err
		}

		last := node.Content
		for _, arg := range node.Args {
			if NeedsSpace(last, arg) {
				if _, err := fmt.Fprint(w, " "); err != nil {
					return err
				}
			}

			if err := writeRaw(w, arg); err != nil {
				return err
			}

			if raw := PrintRaw(arg); raw != "" {
				last = raw
			}
		}

		return nil
	case *Argument:
		return writeRawAndWrap(w, node.OpenMark, node.CloseMark, node.Content)
	case *Group:
		return writeRawAndWrap(w, "{", "}", node.Content)
	case *InlineMath:
		return writeRawAndWrap(w, "$", "$", node.Content)
	case *DisplayMath:
		return writeRawAndWrap(w, "\\[", "\\]", node.Content)
	case *Environment:
		return writeRawEnvironment(w, node.Env, node.Args, node.Content)
	case *MathEnv:
		return writeRawEnvironment(w, node.Env, node.Args, node.Content)
	case *Verbatim:
		_, err := fmt.Fprint(w, "\\begin{", node.Env, "}", node.Content, "\\end{", node.Env, "}")
		return err
	case *Verb:
		_, err := fmt.Fprint(w, "\\", node.Env, node.Escape, node.Content, node.Escape)
		return err
	default:
		panic(fmt.Sprintf("latex: unexpected node %T", node))
	}
}

func writeRawAndWrap(w io.Writer, prefix, suffix string, content []Node) error {
	if _, err := fmt.Fprint(w, prefix); err != nil {
		return err
	}

	if err := WriteRaw(w, content...); err != nil {
		return err
	}

	_, err := fmt.Fprint(w, suffix)
	return err
}

func writeRawEnvironment(w io.Writer, env []Node, args []*Argument, content []Node) error {
	name := EnvName(env)

	if _, err := fmt.Fprint(w, "\\begin{", name, "}"); err != nil {
		return err
	}

	for _, arg := range args {
		if err := writeRaw(w, arg); err != nil {
			return err
		}
	}

	if err := WriteRaw(w, content...); err != nil {
		return err
	}

	_, err := fmt.Fprint(w, "\\end{", name, "}")
	return err
}

// NeedsSpace reports whether a space must separate an undelimited argument from
// preceding text ending with a letter, otherwise both would be read as one command name.
func NeedsSpace(before string, arg *Argument) bool {
	if arg.OpenMark != "" || len(arg.Content) == 0 || before == "" {
		return false
	}

	if c := before[len(before)-1]; !isLetter(rune(c)) {
		return false
	}

	raw := PrintRaw(arg.Content[0])
	return raw != "" && isLetter(rune(raw[0]))
}
