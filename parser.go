package latex

import (
	"io"
	"unicode/utf8"
)

type Option func(*Parser)

// WithMode sets initial parsing mode
func WithMode(mode Mode) Option {
	return func(p *Parser) {
		p.mode = mode
	}
}

// WithSignatures registers additional (or overrides existing) macro signatures.
// TextArgs of a registered signature affects parsing only, tree walkers and the
// printer take argument modes from DefaultSignatures.
func WithSignatures(signatures map[string]Signature) Option {
	return func(p *Parser) {
		for k, v := range signatures {
			p.macros[k] = v
		}
	}
}

// WithEnvSignatures registers additional (or overrides existing) environment signatures
func WithEnvSignatures(signatures map[string]Signature) Option {
	return func(p *Parser) {
		for k, v := range signatures {
			p.envs[k] = v
		}
	}
}

type Parser struct {
	tokens *Tokenizer
	mode   Mode
	macros map[string]Signature
	envs   map[string]Signature
	math   map[string]bool

	// buffer holds tokens returned back to stream, the last one is read first
	buffer []Token
}

// Parse parses source in text mode with default signatures
func Parse(src string) (*Root, error) {
	return NewParser(src).Parse()
}

// ParseMath parses source as if it was a content of math environment
func ParseMath(src string) (*Root, error) {
	return NewParser(src, WithMode(MathMode)).Parse()
}

func NewParser(src string, opts ...Option) *Parser {
	p := &Parser{
		macros: DefaultSignatures(),
		envs:   DefaultEnvSignatures(),
		math:   MathEnvironments(),
	}

	for _, opt := range opts {
		opt(p)
	}

	p.tokens = NewTokenizer(src, p.mode)

	return p
}

func (p *Parser) Parse() (*Root, error) {
	start := p.tokens.Point()

	content, _, err := p.sequence(nil)
	if err != nil {
		return nil, err
	}

	return &Root{Content: trim(content), Position: &Position{Start: start, End: p.tokens.Point()}}, nil
}

func (p *Parser) next() (Token, error) {
	if n := len(p.buffer); n > 0 {
		t := p.buffer[n-1]
		p.buffer = p.buffer[:n-1]
		return t, nil
	}

	return p.tokens.Token()
}

func (p *Parser) backup(tokens ...Token) {
	for i := len(tokens) - 1; i >= 0; i-- {
		p.buffer = append(p.buffer, tokens[i])
	}
}

func (p *Parser) peek() (Token, error) {
	t, err := p.next()
	if err != nil {
		return t, err
	}

	p.backup(t)
	return t, nil
}

// switchMode changes tokenizer mode and returns previous one, tokens which were
// read ahead are discarded and will be read again in the new mode
func (p *Parser) switchMode(mode Mode) Mode {
	prev := p.mode
	if prev == mode {
		return prev
	}

	if n := len(p.buffer); n > 0 {
		p.tokens.Seek(p.buffer[n-1].Pos.Start)
		p.buffer = p.buffer[:0]
	}

	p.mode = mode
	p.tokens.SetMode(mode)

	return prev
}

// sequence collects nodes until stop returns true for a token, this token is returned as last. When stop is nil sequence
// is read until the end of input, otherwise reaching the end of input results in io.EOF error.
func (p *Parser) sequence(stop func(Token) bool) (nodes []Node, last Token, err error) {
	for {
		t, err := p.next()
		if err == io.EOF {
			if stop == nil {
				return nodes, Token{}, nil
			}

			return nil, Token{}, io.EOF
		}

		if err != nil {
			return nil, Token{}, err
		}

		if stop != nil && stop(t) {
			return nodes, t, nil
		}

		node, err := p.parse(t)
		if err != nil {
			return nil, Token{}, err
		}

		nodes = append(nodes, node)

		if c, ok := node.(*Comment); ok {
			// comment eats following line break, but not a blank line
			if err := p.afterComment(c, &nodes); err != nil {
				return nil, Token{}, err
			}
		}
	}
}

func (p *Parser) afterComment(c *Comment, nodes *[]Node) error {
	t, err := p.peek()
	if err == io.EOF {
		return nil
	}

	if err != nil {
		return err
	}

	if t.Kind != WhitespaceToken || t.Newlines() == 0 {
		return nil
	}

	p.next()

	if t.Newlines() > 1 {
		c.SuffixParbreak = true
		*nodes = append(*nodes, &Parbreak{Position: pos(t.Pos)})
	}

	return nil
}

func (p *Parser) parse(t Token) (Node, error) {
	switch t.Kind {
	case TextToken:
		return &String{Content: t.Data, Position: pos(t.Pos)}, nil
	case WhitespaceToken:
		if t.Newlines() > 1 {
			return &Parbreak{Position: pos(t.Pos)}, nil
		}

		return &Whitespace{Position: pos(t.Pos)}, nil
	case CommentToken:
		return &Comment{Content: t.Data, Sameline: t.Sameline, Position: pos(t.Pos)}, nil
	case SymbolToken:
		if p.mode == MathMode && (t.Data == "^" || t.Data == "_") {
			return p.arguments(&Macro{Content: t.Data, Position: pos(t.Pos)}, Signature{Args: "m"})
		}

		return &String{Content: t.Data, Position: pos(t.Pos)}, nil
	case BracketOpen, BracketClose:
		return &String{Content: t.Data, Position: pos(t.Pos)}, nil
	case CommandToken:
		return p.command(t)
	case BraceOpen:
		return p.group(t)
	case MathShift:
		return p.mathShift(t)
	case MathOpen:
		return p.mathOpen(t)
	case BeginToken:
		return p.environment(t)
	case VerbToken:
		return &Verb{Env: t.Env, Escape: t.Delimiter, Content: t.Data, Position: pos(t.Pos)}, nil
	case VerbatimToken:
		return &Verbatim{Env: t.Env, Content: t.Data, Position: pos(t.Pos)}, nil
	case BraceClose:
		return nil, errorf(t.Pos, "unexpected }")
	case MathClose:
		return nil, errorf(t.Pos, "unexpected \\%s", t.Data)
	case EndToken:
		return nil, errorf(t.Pos, "unexpected \\end{%s}", t.Data)
	default:
		return nil, errorf(t.Pos, "unexpected token %v", t.Kind)
	}
}

func (p *Parser) command(t Token) (Node, error) {
	m := &Macro{Content: t.Data, EscapeToken: "\\", Position: pos(t.Pos)}

	sig, ok := p.macros[t.Data]
	if !ok {
		return m, nil
	}

	if sig.TextArgs {
		prev := p.switchMode(TextMode)
		defer p.switchMode(prev)
	}

	return p.arguments(m, sig)
}

// arguments reads macro arguments according to signature
func (p *Parser) arguments(m *Macro, sig Signature) (*Macro, error) {
	args, err := p.signature(sig, "\\"+m.Content)
	if err != nil {
		return nil, err
	}

	m.Args = args

	for i := len(args) - 1; i >= 0; i-- {
		if args[i].Position != nil && m.Position != nil {
			m.Position.End = args[i].Position.End
			break
		}
	}

	return m, nil
}

func (p *Parser) signature(sig Signature, name string) ([]*Argument, error) {
	var args []*Argument

	for _, spec := range sig.Args {
		var arg *Argument
		var err error

		switch spec {
		case ' ':
			continue
		case 's':
			arg, err = p.star()
		case 'o':
			arg, err = p.optional()
		case 'm':
			arg, err = p.mandatory()
		default:
			at, _ := p.peek()
			return nil, errorf(at.Pos, "malformed signature %q of %s", sig.Args, name)
		}

		if err != nil {
			return nil, err
		}

		args = append(args, arg)
	}

	return args, nil
}

// star reads optional star following the command, whitespaces before the star are
// skipped and returned back to stream when there is no star
func (p *Parser) star() (*Argument, error) {
	var skipped []Token
	for {
		t, err := p.next()
		if err == io.EOF {
			p.backup(skipped...)
			return &Argument{}, nil
		}

		if err != nil {
			return nil, err
		}

		if t.Kind == WhitespaceToken && t.Newlines() < 2 {
			skipped = append(skipped, t)
			continue
		}

		if t.Kind != TextToken || t.Data[0] != '*' {
			p.backup(append(skipped, t)...)
			return &Argument{}, nil
		}

		star, rest := split(t)
		if rest != nil {
			p.backup(*rest)
		}

		return &Argument{Content: []Node{&String{Content: "*", Position: pos(star.Pos)}}, Position: pos(star.Pos)}, nil
	}
}

// optional reads [...] argument if it follows immediately
func (p *Parser) optional() (*Argument, error) {
	open, err := p.peek()
	if err == io.EOF || (err == nil && open.Kind != BracketOpen) {
		return &Argument{}, nil
	}

	if err != nil {
		return nil, err
	}

	p.next()

	content, last, err := p.sequence(func(t Token) bool {
		return t.Kind == BracketClose
	})

	if err == io.EOF {
		return nil, errorf(open.Pos, "optional argument is not closed")
	}

	if err != nil {
		return nil, err
	}

	return &Argument{OpenMark: "[", CloseMark: "]", Content: content, Position: span(open.Pos, last.Pos)}, nil
}

// mandatory reads {...} argument or a single token, whitespaces before argument are skipped
func (p *Parser) mandatory() (*Argument, error) {
	var skipped []Token
	for {
		t, err := p.next()
		if err == io.EOF {
			p.backup(skipped...)
			return &Argument{}, nil
		}

		if err != nil {
			return nil, err
		}

		if t.Kind == WhitespaceToken && t.Newlines() < 2 {
			skipped = append(skipped, t)
			continue
		}

		switch t.Kind {
		case BraceOpen:
			content, last, err := p.sequence(func(t Token) bool {
				return t.Kind == BraceClose
			})

			if err == io.EOF {
				return nil, errorf(t.Pos, "argument is not closed")
			}

			if err != nil {
				return nil, err
			}

			return &Argument{OpenMark: "{", CloseMark: "}", Content: content, Position: span(t.Pos, last.Pos)}, nil
		case TextToken:
			first, rest := split(t)
			if rest != nil {
				p.backup(*rest)
			}

			str := &String{Content: first.Data, Position: pos(first.Pos)}
			return &Argument{Content: []Node{str}, Position: pos(first.Pos)}, nil
		case CommandToken:
			m := &Macro{Content: t.Data, EscapeToken: "\\", Position: pos(t.Pos)}
			return &Argument{Content: []Node{m}, Position: pos(t.Pos)}, nil
		case SymbolToken:
			str := &String{Content: t.Data, Position: pos(t.Pos)}
			return &Argument{Content: []Node{str}, Position: pos(t.Pos)}, nil
		default:
			p.backup(append(skipped, t)...)
			return &Argument{}, nil
		}
	}
}

func (p *Parser) group(open Token) (Node, error) {
	content, last, err := p.sequence(func(t Token) bool {
		return t.Kind == BraceClose
	})

	if err == io.EOF {
		return nil, errorf(open.Pos, "group is not closed")
	}

	if err != nil {
		return nil, err
	}

	return &Group{Content: content, Position: span(open.Pos, last.Pos)}, nil
}

func (p *Parser) mathShift(open Token) (Node, error) {
	if p.mode == MathMode {
		return nil, errorf(open.Pos, "unexpected %s in math mode", open.Data)
	}

	prev := p.switchMode(MathMode)
	defer p.switchMode(prev)

	content, last, err := p.sequence(func(t Token) bool {
		return t.Kind == MathShift
	})

	if err == io.EOF {
		return nil, errorf(open.Pos, "math is not closed")
	}

	if err != nil {
		return nil, err
	}

	if open.Data == "$" {
		return &InlineMath{Content: content, Position: span(open.Pos, last.Pos)}, nil
	}

	// display math opened with $$ must be closed with $$
	second, err := p.next()
	if err != nil || second.Kind != MathShift {
		return nil, errorf(last.Pos, "display math must be closed with $$")
	}

	return &DisplayMath{Content: trim(content), Position: span(open.Pos, second.Pos)}, nil
}

func (p *Parser) mathOpen(open Token) (Node, error) {
	if p.mode == MathMode {
		return nil, errorf(open.Pos, "unexpected \\%s in math mode", open.Data)
	}

	closing := "]"
	if open.Data == "(" {
		closing = ")"
	}

	prev := p.switchMode(MathMode)
	defer p.switchMode(prev)

	content, last, err := p.sequence(func(t Token) bool {
		return t.Kind == MathClose
	})

	if err == io.EOF {
		return nil, errorf(open.Pos, "math is not closed")
	}

	if err != nil {
		return nil, err
	}

	if last.Data != closing {
		return nil, errorf(last.Pos, "\\%s does not match \\%s", last.Data, open.Data)
	}

	if closing == ")" {
		return &InlineMath{Content: content, Position: span(open.Pos, last.Pos)}, nil
	}

	return &DisplayMath{Content: trim(content), Position: span(open.Pos, last.Pos)}, nil
}

func (p *Parser) environment(begin Token) (Node, error) {
	name := begin.Data
	env := []Node{&String{Content: name}}

	args, err := p.signature(p.envs[name], "\\begin{"+name+"}")
	if err != nil {
		return nil, err
	}

	math := p.math[name]
	if math {
		prev := p.switchMode(MathMode)
		defer p.switchMode(prev)
	}

	content, last, err := p.sequence(func(t Token) bool {
		return t.Kind == EndToken
	})

	if err == io.EOF {
		return nil, errorf(begin.Pos, "environment %q is not closed", name)
	}

	if err != nil {
		return nil, err
	}

	if last.Data != name {
		return nil, errorf(last.Pos, "\\end{%s} does not match \\begin{%s}", last.Data, name)
	}

	if math {
		return &MathEnv{Env: env, Args: args, Content: trim(content), Position: span(begin.Pos, last.Pos)}, nil
	}

	return &Environment{Env: env, Args: args, Content: trim(content), Position: span(begin.Pos, last.Pos)}, nil
}

// split breaks text token into first character and the rest (if any)
func split(t Token) (Token, *Token) {
	_, size := utf8.DecodeRuneInString(t.Data)
	if size == len(t.Data) {
		return t, nil
	}

	mid := t.Pos.Start
	mid.Offset += size
	mid.Column++

	first := Token{Kind: t.Kind, Data: t.Data[:size], Pos: Position{Start: t.Pos.Start, End: mid}}
	rest := Token{Kind: t.Kind, Data: t.Data[size:], Pos: Position{Start: mid, End: t.Pos.End}}

	return first, &rest
}

// trim removes leading and trailing whitespaces and paragraph breaks
func trim(nodes []Node) []Node {
	for len(nodes) > 0 && IsSpace(nodes[0]) {
		nodes = nodes[1:]
	}

	for len(nodes) > 0 && IsSpace(nodes[len(nodes)-1]) {
		nodes = nodes[:len(nodes)-1]
	}

	return nodes
}

func pos(p Position) *Position {
	return &p
}

func span(from, to Position) *Position {
	return &Position{Start: from.Start, End: to.End}
}
