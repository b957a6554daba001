package printer

import "github.com/eolymp/latex-playground/doc"

// separator is a kind of space between two words, a stronger separator wins
// when several of them follow each other
type separator int

const (
	sepNone separator = iota
	// sepSpace is a space which is never broken
	sepSpace
	// sepSoft is a space or a line break, whichever fits
	sepSoft
	// sepHard is a line break
	sepHard
	// sepBlank is an empty line
	sepBlank
)

// fill collects a sequence of words and separators between them. Each word
// separated by a soft separator is wrapped into its own group, which gives greedy
// paragraph filling: a word goes to the next line only when it does not fit.
type fill struct {
	parts   []doc.Doc
	word    []doc.Doc
	sep     separator
	pending separator
	started bool
}

// add appends document to the current word
func (f *fill) add(d doc.Doc) {
	if len(f.word) == 0 {
		f.sep = f.pending
		f.pending = sepNone
	}

	f.word = append(f.word, d)
}

// space ends the current word
func (f *fill) space(s separator) {
	f.flush()

	if s > f.pending {
		f.pending = s
	}
}

// force sets pending separator regardless of its strength
func (f *fill) force(s separator) {
	f.flush()
	f.pending = s
}

// breakBefore makes sure the next word starts on a new line, unless it is the very first word
func (f *fill) breakBefore() {
	f.flush()

	if (f.started || f.pending != sepNone) && f.pending < sepHard {
		f.pending = sepHard
	}
}

func (f *fill) flush() {
	if len(f.word) == 0 {
		return
	}

	word := doc.Concat(f.word...)
	f.word = nil

	if !f.started {
		f.started = true
		f.parts = append(f.parts, leading(f.sep), word)
		return
	}

	switch f.sep {
	case sepNone:
		f.parts = append(f.parts, word)
	case sepSpace:
		f.parts = append(f.parts, doc.Text(" "), word)
	case sepSoft:
		// a word which is broken anyway does not take part in the fit check
		if doc.IsHard(word) {
			f.parts = append(f.parts, doc.Group(doc.Line), word)
		} else {
			f.parts = append(f.parts, doc.Group(doc.Line, word))
		}
	case sepHard:
		f.parts = append(f.parts, doc.HardLine, word)
	case sepBlank:
		f.parts = append(f.parts, doc.HardLine, doc.HardLine, word)
	}
}

// finish returns the document, trailing separator is kept only when trailing is set
func (f *fill) finish(trailing bool) doc.Doc {
	f.flush()

	if trailing {
		f.parts = append(f.parts, leading(f.pending))
	}

	return doc.Concat(f.parts...)
}

// leading returns a separator printed at the edge of a sequence where there is no word to break against
func leading(s separator) doc.Doc {
	switch s {
	case sepSpace, sepSoft:
		return doc.Text(" ")
	case sepHard:
		return doc.HardLine
	case sepBlank:
		return doc.Concat(doc.HardLine, doc.HardLine)
	default:
		return nil
	}
}
