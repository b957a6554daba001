package grammar

import (
	"strings"
	"unicode"
)

type tokenKind int

const (
	tokEOF tokenKind = iota
	tokIdent
	tokString
	tokRegex
	tokType
	tokHelper
	tokPunct
)

type token struct {
	kind   tokenKind
	text   string
	line   int
	column int
}

// lexer splits grammar source into tokens, the whole source is tokenized
// upfront so that the parser can look two tokens ahead.
type lexer struct {
	src    []rune
	pos    int
	line   int
	column int
}

func tokenize(src string) ([]token, error) {
	l := &lexer{src: []rune(src), line: 1, column: 1}

	var tokens []token
	for {
		t, err := l.next()
		if err != nil {
			return nil, err
		}

		tokens = append(tokens, t)
		if t.kind == tokEOF {
			return tokens, nil
		}
	}
}

func (l *lexer) errorf(line, column int, msg string) *CompileError {
	return &CompileError{Msg: msg, Line: line, Column: column}
}

func (l *lexer) peek() (rune, bool) {
	if l.pos >= len(l.src) {
		return 0, false
	}

	return l.src[l.pos], true
}

func (l *lexer) read() rune {
	r := l.src[l.pos]
	l.pos++

	if r == '\n' {
		l.line++
		l.column = 1
	} else {
		l.column++
	}

	return r
}

func (l *lexer) skip() {
	for {
		r, ok := l.peek()
		if !ok {
			return
		}

		switch {
		case unicode.IsSpace(r):
			l.read()
		case r == '/' && l.pos+1 < len(l.src) && l.src[l.pos+1] == '/':
			for r, ok := l.peek(); ok && r != '\n'; r, ok = l.peek() {
				l.read()
			}
		default:
			return
		}
	}
}

func (l *lexer) next() (token, error) {
	l.skip()

	line, column := l.line, l.column

	r, ok := l.peek()
	if !ok {
		return token{kind: tokEOF, line: line, column: column}, nil
	}

	switch {
	case isIdentStart(r):
		return token{kind: tokIdent, text: l.ident(), line: line, column: column}, nil
	case r == '"' || r == '\'':
		s, err := l.quoted(true)
		if err != nil {
			return token{}, err
		}

		return token{kind: tokString, text: s, line: line, column: column}, nil
	case r == '~':
		l.read()

		if r, ok := l.peek(); !ok || (r != '"' && r != '\'') {
			return token{}, l.errorf(line, column, "expected quoted pattern after ~")
		}

		s, err := l.quoted(false)
		if err != nil {
			return token{}, err
		}

		return token{kind: tokRegex, text: s, line: line, column: column}, nil
	case r == '<':
		l.read()

		var b strings.Builder
		for {
			r, ok := l.peek()
			if !ok || r == '\n' {
				return token{}, l.errorf(line, column, "unterminated node type")
			}

			l.read()
			if r == '>' {
				break
			}

			b.WriteRune(r)
		}

		return token{kind: tokType, text: strings.TrimSpace(b.String()), line: line, column: column}, nil
	case r == '@':
		l.read()

		if r, ok := l.peek(); !ok || !isIdentStart(r) {
			return token{}, l.errorf(line, column, "expected helper name after @")
		}

		return token{kind: tokHelper, text: l.ident(), line: line, column: column}, nil
	case strings.ContainsRune("=/*+?&!():.", r):
		l.read()
		return token{kind: tokPunct, text: string(r), line: line, column: column}, nil
	default:
		return token{}, l.errorf(line, column, "unexpected character "+quoteRune(r))
	}
}

func (l *lexer) ident() string {
	start := l.pos
	for r, ok := l.peek(); ok && isIdentPart(r); r, ok = l.peek() {
		l.read()
	}

	return string(l.src[start:l.pos])
}

// quoted reads a quoted string. With unescape set, escape sequences are
// interpreted, otherwise the content is kept as written (regular expressions).
func (l *lexer) quoted(unescape bool) (string, error) {
	line, column := l.line, l.column
	quote := l.read()

	var b strings.Builder
	for {
		r, ok := l.peek()
		if !ok || r == '\n' {
			return "", l.errorf(line, column, "unterminated string")
		}

		l.read()

		if r == quote {
			return b.String(), nil
		}

		if r != '\\' {
			b.WriteRune(r)
			continue
		}

		e, ok := l.peek()
		if !ok {
			return "", l.errorf(line, column, "unterminated string")
		}

		l.read()

		if !unescape {
			if e != quote {
				b.WriteRune('\\')
			}

			b.WriteRune(e)
			continue
		}

		switch e {
		case 'n':
			b.WriteRune('\n')
		case 't':
			b.WriteRune('\t')
		default:
			b.WriteRune(e)
		}
	}
}

func isIdentStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isIdentPart(r rune) bool {
	return isIdentStart(r) || unicode.IsDigit(r)
}

func quoteRune(r rune) string {
	return "'" + string(r) + "'"
}
