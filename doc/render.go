package doc

import (
	"strings"
	"unicode"

	"golang.org/x/text/width"
)

// Options control document layout
type Options struct {
	// Width is a target line width, lines may be longer only when text can not be broken
	Width int
	// UseTabs indents with tabs instead of spaces
	UseTabs bool
	// TabWidth is a number of spaces in one level of indentation, it is also a width of a tab character
	TabWidth int
}

type mode int

const (
	modeBreak mode = iota
	modeFlat
)

type command struct {
	ind  int
	mode mode
	doc  Doc
}

type renderer struct {
	width    int
	tabWidth int
	unit     string
	out      []byte
	col      int

	// protect is a length of output which must not be trimmed, everything after it
	// is whitespace written by renderer itself
	protect int
}

// Render lays out document to fit into a given width.
//
// Layout is decided in a single pass. Each group is measured flat together with
// the content following it up to the next possible line break, if it fits into the
// rest of the line the group is printed flat. Inner groups are measured flat as a part
// of the outer group, so the decision never depends on how inner groups break.
// Width is a target, a group which does not fit is printed broken even if it
// still exceeds the width.
func Render(d Doc, opts Options) string {
	tw := opts.TabWidth
	if tw <= 0 {
		tw = 2
	}

	r := &renderer{width: opts.Width, tabWidth: tw, unit: strings.Repeat(" ", tw)}
	if opts.UseTabs {
		r.unit = "\t"
	}

	r.run(d)

	return string(r.out)
}

func (r *renderer) run(d Doc) {
	stack := []command{{mode: modeBreak, doc: d}}

	for len(stack) > 0 {
		c := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		switch d := c.doc.(type) {
		case text:
			r.write(d.s)
		case *concat:
			for i := len(d.parts) - 1; i >= 0; i-- {
				stack = append(stack, command{ind: c.ind, mode: c.mode, doc: d.parts[i]})
			}
		case *indent:
			stack = append(stack, command{ind: c.ind + 1, mode: c.mode, doc: d.contents})
		case *group:
			if c.mode == modeFlat && !d.broken {
				stack = append(stack, command{ind: c.ind, mode: modeFlat, doc: d.contents})
				break
			}

			next := command{ind: c.ind, mode: modeFlat, doc: d.contents}
			if d.broken || !r.fits(next, stack) {
				next.mode = modeBreak
			}

			stack = append(stack, next)
		case line:
			if c.mode == modeFlat && d.kind != lineHard {
				if d.kind == lineSpace {
					r.out = append(r.out, ' ')
					r.col++
				}

				break
			}

			r.newline(c.ind)
		default:
			panic("doc: unexpected document type")
		}
	}
}

// fits checks if next command printed flat together with the rest of the line fits into remaining width
func (r *renderer) fits(next command, rest []command) bool {
	remaining := r.width - r.col
	cmds := []command{next}
	restIdx := len(rest)

	for remaining >= 0 {
		if len(cmds) == 0 {
			if restIdx == 0 {
				return true
			}

			restIdx--
			cmds = append(cmds, rest[restIdx])
			continue
		}

		c := cmds[len(cmds)-1]
		cmds = cmds[:len(cmds)-1]

		switch d := c.doc.(type) {
		case text:
			if i := strings.IndexByte(d.s, '\n'); i >= 0 {
				return remaining-StringWidth(d.s[:i], r.tabWidth) >= 0
			}

			remaining -= StringWidth(d.s, r.tabWidth)
		case *concat:
			for i := len(d.parts) - 1; i >= 0; i-- {
				cmds = append(cmds, command{mode: c.mode, doc: d.parts[i]})
			}
		case *indent:
			cmds = append(cmds, command{mode: c.mode, doc: d.contents})
		case *group:
			m := c.mode
			if d.broken {
				m = modeBreak
			}

			cmds = append(cmds, command{mode: m, doc: d.contents})
		case line:
			if c.mode == modeBreak || d.kind == lineHard {
				return true
			}

			if d.kind == lineSpace {
				remaining--
			}
		}
	}

	return false
}

func (r *renderer) write(s string) {
	if s == "" {
		return
	}

	r.out = append(r.out, s...)

	if i := strings.LastIndexByte(s, '\n'); i >= 0 {
		r.col = StringWidth(s[i+1:], r.tabWidth)
	} else {
		r.col += StringWidth(s, r.tabWidth)
	}

	if strings.TrimSpace(s) != "" {
		r.protect = len(r.out)
	}
}

// newline trims whitespace written by renderer at the end of the line and starts a new indented line
func (r *renderer) newline(ind int) {
	end := len(r.out)
	for end > r.protect && (r.out[end-1] == ' ' || r.out[end-1] == '\t') {
		end--
	}

	r.out = append(r.out[:end], '\n')
	r.protect = len(r.out)

	for i := 0; i < ind; i++ {
		r.out = append(r.out, r.unit...)
	}

	r.col = ind * StringWidth(r.unit, r.tabWidth)
}

// StringWidth returns number of columns occupied by s. East Asian wide characters
// take two columns, combining marks take none, tab takes tabWidth columns.
func StringWidth(s string, tabWidth int) int {
	n := 0
	for _, r := range s {
		switch {
		case r == '\t':
			n += tabWidth
		case r < 0x20 || unicode.Is(unicode.Mn, r):
			continue
		default:
			switch width.LookupRune(r).Kind() {
			case width.EastAsianWide, width.EastAsianFullwidth:
				n += 2
			default:
				n++
			}
		}
	}

	return n
}
