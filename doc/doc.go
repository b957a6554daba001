// Package doc implements a layout independent print document and a renderer
// which lays it out against a target line width.
//
// A document is built from text, line breaks, indentation and groups. A group is
// the unit of layout decision: the renderer prints it on a single line (flat) when
// it fits into the remaining width, otherwise line breaks inside the group are
// printed as new lines (broken). Groups which contain a hard line break are always
// broken.
package doc

import "strings"

// Doc is a print document. The set of implementations is closed.
type Doc interface {
	// hard reports whether document contains a forced line break
	hard() bool
	doc()
}

type text struct {
	s string
}

type lineKind int

const (
	// soft line is a space when flat
	lineSpace lineKind = iota
	// soft line is empty when flat
	lineSoft
	// line is always broken
	lineHard
)

type line struct {
	kind lineKind
}

type indent struct {
	contents Doc
	broken   bool
}

type group struct {
	contents Doc
	broken   bool
}

type concat struct {
	parts  []Doc
	broken bool
}

func (d text) hard() bool    { return strings.Contains(d.s, "\n") }
func (d line) hard() bool    { return d.kind == lineHard }
func (d *indent) hard() bool { return d.broken }
func (d *group) hard() bool  { return d.broken }
func (d *concat) hard() bool { return d.broken }

func (text) doc()    {}
func (line) doc()    {}
func (*indent) doc() {}
func (*group) doc()  {}
func (*concat) doc() {}

var (
	// Line is printed as a space when enclosing group is flat and as a new line otherwise
	Line Doc = line{kind: lineSpace}
	// SoftLine is printed as nothing when enclosing group is flat and as a new line otherwise
	SoftLine Doc = line{kind: lineSoft}
	// HardLine is always printed as a new line, it forces all enclosing groups to break
	HardLine Doc = line{kind: lineHard}

	// Empty prints nothing
	Empty Doc = &concat{}
)

// Text is a literal text. Text is never broken, if it contains a line break all
// enclosing groups are broken.
func Text(s string) Doc {
	return text{s: s}
}

// Concat joins documents
func Concat(docs ...Doc) Doc {
	var parts []Doc
	broken := false

	for _, d := range docs {
		if d == nil {
			continue
		}

		// flatten nested concatenations, it keeps documents shallow
		if c, ok := d.(*concat); ok {
			parts = append(parts, c.parts...)
		} else {
			parts = append(parts, d)
		}

		broken = broken || d.hard()
	}

	if len(parts) == 1 {
		return parts[0]
	}

	return &concat{parts: parts, broken: broken}
}

// Indent increases indentation of new lines printed inside
func Indent(docs ...Doc) Doc {
	c := Concat(docs...)
	return &indent{contents: c, broken: c.hard()}
}

// Group marks documents as a unit which is printed either flat or broken
func Group(docs ...Doc) Doc {
	c := Concat(docs...)
	return &group{contents: c, broken: c.hard()}
}

// Join concatenates documents putting separator between them
func Join(sep Doc, docs []Doc) Doc {
	parts := make([]Doc, 0, len(docs)*2)
	for i, d := range docs {
		if i > 0 {
			parts = append(parts, sep)
		}

		parts = append(parts, d)
	}

	return Concat(parts...)
}

// IsHard reports whether document contains a forced line break
func IsHard(d Doc) bool {
	return d != nil && d.hard()
}

// IsEmpty reports whether document prints nothing in any layout
func IsEmpty(d Doc) bool {
	switch d := d.(type) {
	case nil:
		return true
	case text:
		return d.s == ""
	case *concat:
		for _, p := range d.parts {
			if !IsEmpty(p) {
				return false
			}
		}

		return true
	case *group:
		return IsEmpty(d.contents)
	case *indent:
		return IsEmpty(d.contents)
	default:
		return false
	}
}
