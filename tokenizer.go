package latex

import (
	"io"
	"strings"
	"unicode/utf8"
)

// Mode controls how source is split into tokens.
type Mode int

const (
	TextMode Mode = iota
	MathMode
)

func (m Mode) String() string {
	if m == MathMode {
		return "math"
	}

	return "text"
}

// Tokenizer splits source into tokens. In text mode text runs are read as a
// whole, in math mode every character is a separate token, so that ^ and _
// can take exactly one following character as an argument.
type Tokenizer struct {
	src      string
	mode     Mode
	cur      Point
	prev     Point
	verbatim map[string]bool
}

func NewTokenizer(src string, mode Mode) *Tokenizer {
	return &Tokenizer{
		src:      src,
		mode:     mode,
		cur:      Point{Offset: 0, Line: 1, Column: 1},
		verbatim: VerbatimEnvironments(),
	}
}

func (l *Tokenizer) Mode() Mode {
	return l.mode
}

func (l *Tokenizer) SetMode(mode Mode) {
	l.mode = mode
}

// Point returns position of the next unread character
func (l *Tokenizer) Point() Point {
	return l.cur
}

// Seek moves tokenizer to a given point, the point must be obtained from a token
// produced by this tokenizer.
func (l *Tokenizer) Seek(p Point) {
	l.cur = p
	l.prev = p
}

func (l *Tokenizer) Token() (Token, error) {
	start := l.cur

	char, err := l.read()
	if err != nil {
		return Token{}, err
	}

	switch char {
	case '{':
		return l.token(BraceOpen, "{", start), nil
	case '}':
		return l.token(BraceClose, "}", start), nil
	case '[':
		return l.token(BracketOpen, "[", start), nil
	case ']':
		return l.token(BracketClose, "]", start), nil
	case '&', '~', '#', '^', '_':
		return l.token(SymbolToken, string(char), start), nil
	case '%':
		return l.readLineComment(start)
	case '$':
		return l.readMathShift(start)
	case '\\':
		return l.readBackslash(start)
	default:
		if isWhitespace(char) {
			l.unread()
			return l.readWhitespace(start)
		}

		if l.mode == MathMode {
			return l.token(TextToken, string(char), start), nil
		}

		l.unread()
		return l.readText(start)
	}
}

func (l *Tokenizer) token(kind TokenKind, data string, start Point) Token {
	return Token{Kind: kind, Data: data, Pos: Position{Start: start, End: l.cur}}
}

func (l *Tokenizer) read() (rune, error) {
	if l.cur.Offset >= len(l.src) {
		return 0, io.EOF
	}

	r, size := utf8.DecodeRuneInString(l.src[l.cur.Offset:])

	l.prev = l.cur
	l.cur.Offset += size

	if r == '\n' {
		l.cur.Line++
		l.cur.Column = 1
	} else {
		l.cur.Column++
	}

	return r, nil
}

// unread steps back by one rune, only one step back is possible
func (l *Tokenizer) unread() {
	l.cur = l.prev
}

func (l *Tokenizer) peek() (rune, bool) {
	if l.cur.Offset >= len(l.src) {
		return 0, false
	}

	r, _ := utf8.DecodeRuneInString(l.src[l.cur.Offset:])
	return r, true
}

func (l *Tokenizer) readText(start Point) (Token, error) {
	for {
		read, err := l.read()
		if err == io.EOF {
			break
		}

		if isSpecial(read) || isWhitespace(read) {
			l.unread()
			break
		}
	}

	return l.token(TextToken, l.src[start.Offset:l.cur.Offset], start), nil
}

func (l *Tokenizer) readWhitespace(start Point) (Token, error) {
	for {
		read, err := l.read()
		if err == io.EOF {
			break
		}

		if !isWhitespace(read) {
			l.unread()
			break
		}
	}

	return l.token(WhitespaceToken, l.src[start.Offset:l.cur.Offset], start), nil
}

func (l *Tokenizer) readMathShift(start Point) (Token, error) {
	// display math opens with $$, in math mode $ is always read alone so $$ closes with two tokens
	if r, ok := l.peek(); ok && r == '$' && l.mode == TextMode {
		l.read()
		return l.token(MathShift, "$$", start), nil
	}

	return l.token(MathShift, "$", start), nil
}

func (l *Tokenizer) readBackslash(start Point) (Token, error) {
	r, err := l.read()
	if err == io.EOF {
		return Token{}, errorf(Position{Start: start, End: l.cur}, "unexpected end of input after \\")
	}

	// a letter means it's a named command \xyz
	if isLetter(r) {
		l.unread()
		return l.readCommand(start)
	}

	switch r {
	case '[', '(':
		return l.token(MathOpen, string(r), start), nil
	case ']', ')':
		return l.token(MathClose, string(r), start), nil
	default:
		// one symbol command, like \\, \{ or \%
		return l.token(CommandToken, string(r), start), nil
	}
}

func (l *Tokenizer) readCommand(start Point) (Token, error) {
	name := l.word()

	switch name {
	case "verb":
		if r, ok := l.peek(); ok && r == '*' {
			l.read()
			return l.readVerb(start, "verb*")
		}

		return l.readVerb(start, "verb")
	case "begin":
		env, err := l.readEnvironmentName(start)
		if err != nil {
			return Token{}, err
		}

		if l.verbatim[env] {
			return l.readVerbatimBlock(start, env)
		}

		return l.token(BeginToken, env, start), nil
	case "end":
		env, err := l.readEnvironmentName(start)
		if err != nil {
			return Token{}, err
		}

		return l.token(EndToken, env, start), nil
	default:
		return l.token(CommandToken, name, start), nil
	}
}

// readEnvironmentName reads {name} following \begin or \end
func (l *Tokenizer) readEnvironmentName(start Point) (string, error) {
	l.skipSpaces()

	if r, err := l.read(); err != nil || r != '{' {
		return "", errorf(Position{Start: start, End: l.cur}, "environment name is expected")
	}

	from := l.cur.Offset
	for {
		read, err := l.read()
		if err == io.EOF || read == '\n' || read == '{' || read == '\\' {
			return "", errorf(Position{Start: start, End: l.cur}, "environment name is not closed")
		}

		if read == '}' {
			break
		}
	}

	name := strings.TrimSpace(l.src[from : l.cur.Offset-1])
	if name == "" {
		return "", errorf(Position{Start: start, End: l.cur}, "environment name is expected")
	}

	return name, nil
}

// readLineComment reads one line comment after %, line break is not consumed
func (l *Tokenizer) readLineComment(start Point) (Token, error) {
	from := l.cur.Offset
	for {
		read, err := l.read()
		if err == io.EOF {
			break
		}

		if read == '\n' {
			l.unread()
			break
		}
	}

	t := l.token(CommentToken, strings.TrimSuffix(l.src[from:l.cur.Offset], "\r"), start)
	t.Sameline = l.sameline(start.Offset)

	return t, nil
}

// sameline checks if there is anything but whitespace between beginning of the line and offset
func (l *Tokenizer) sameline(offset int) bool {
	for i := offset - 1; i >= 0; i-- {
		switch l.src[i] {
		case '\n':
			return false
		case ' ', '\t', '\r':
			continue
		default:
			return true
		}
	}

	return false
}

// readVerbatimBlock reads verbatim block (ie. block where all markup is ignored) of a given type (eg. comment, verbatim etc)
// until it finds closing \end command.
func (l *Tokenizer) readVerbatimBlock(start Point, env string) (Token, error) {
	closing := "\\end{" + env + "}"

	idx := strings.Index(l.src[l.cur.Offset:], closing)
	if idx < 0 {
		return Token{}, errorf(Position{Start: start, End: l.cur}, "verbatim environment %q is not closed", env)
	}

	content := l.src[l.cur.Offset : l.cur.Offset+idx]
	l.advance(idx + len(closing))

	t := l.token(VerbatimToken, content, start)
	t.Env = env

	return t, nil
}

func (l *Tokenizer) readVerb(start Point, env string) (Token, error) {
	delimiter, err := l.read()
	if err == io.EOF {
		return Token{}, errorf(Position{Start: start, End: l.cur}, "\\%s delimiter is expected", env)
	}

	if isWhitespace(delimiter) || isLetter(delimiter) || delimiter == '*' {
		return Token{}, errorf(Position{Start: start, End: l.cur}, "delimiter character %q is not allowed", delimiter)
	}

	from := l.cur.Offset
	for {
		read, err := l.read()
		if err == io.EOF || read == '\n' {
			return Token{}, errorf(Position{Start: start, End: l.cur}, "\\%s is not closed", env)
		}

		if read == delimiter {
			break
		}
	}

	t := l.token(VerbToken, l.src[from:l.prev.Offset], start)
	t.Env = env
	t.Delimiter = string(delimiter)

	return t, nil
}

// advance reads n bytes
func (l *Tokenizer) advance(n int) {
	end := l.cur.Offset + n
	for l.cur.Offset < end {
		if _, err := l.read(); err != nil {
			return
		}
	}
}

// word reads sequence of letters
func (l *Tokenizer) word() string {
	from := l.cur.Offset
	for {
		read, err := l.read()
		if err == io.EOF {
			break
		}

		if !isLetter(read) {
			l.unread()
			break
		}
	}

	return l.src[from:l.cur.Offset]
}

// skipSpaces skips spaces and tabs, but not line breaks
func (l *Tokenizer) skipSpaces() {
	for {
		r, ok := l.peek()
		if !ok || (r != ' ' && r != '\t') {
			return
		}

		l.read()
	}
}

// isLetter returns true for a letter
func isLetter(r rune) bool {
	return 'a' <= r && r <= 'z' || 'A' <= r && r <= 'Z'
}

// isSpecial returns true if a symbol has a special meaning and should interrupt text reading
func isSpecial(r rune) bool {
	switch r {
	case '#', '$', '%', '^', '&', '_', '{', '}', '~', '\\', '[', ']':
		return true
	default:
		return false
	}
}

func isWhitespace(r rune) bool {
	switch r {
	case ' ', '\n', '\t', '\r':
		return true
	default:
		return false
	}
}
