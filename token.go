package latex

import "strings"

type TokenKind int

const (
	TextToken TokenKind = iota
	WhitespaceToken
	CommentToken
	CommandToken
	BeginToken
	EndToken
	BraceOpen
	BraceClose
	BracketOpen
	BracketClose
	MathShift
	MathOpen
	MathClose
	SymbolToken
	VerbToken
	VerbatimToken
)

var tokenNames = [...]string{
	TextToken:       "text",
	WhitespaceToken: "whitespace",
	CommentToken:    "comment",
	CommandToken:    "command",
	BeginToken:      "\\begin",
	EndToken:        "\\end",
	BraceOpen:       "{",
	BraceClose:      "}",
	BracketOpen:     "[",
	BracketClose:    "]",
	MathShift:       "math shift",
	MathOpen:        "math open",
	MathClose:       "math close",
	SymbolToken:     "symbol",
	VerbToken:       "\\verb",
	VerbatimToken:   "verbatim",
}

func (k TokenKind) String() string {
	if int(k) < len(tokenNames) {
		return tokenNames[k]
	}

	return "unknown"
}

// Token is a single lexical unit.
//
// Data depends on kind: raw text for text, whitespace and symbols, comment body
// (without %) for comments, command name without escape for commands, environment
// name for begin/end, "$" or "$$" for math shift, "[" / "(" and "]" / ")" for
// math open and close, verbatim content for verb and verbatim tokens.
type Token struct {
	Kind TokenKind
	Data string
	Pos  Position

	// Env is verbatim environment name or "verb"/"verb*" for \verb
	Env string
	// Delimiter is a \verb delimiter
	Delimiter string
	// Sameline is set for comments following other content on the same line
	Sameline bool
}

// Newlines counts line breaks in whitespace token
func (t Token) Newlines() int {
	return strings.Count(t.Data, "\n")
}
