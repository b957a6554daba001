package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dlclark/regexp2"
)

// Compile parses grammar source. Syntax errors, duplicate or undefined rules,
// unknown node types and invalid regular expressions are reported as *CompileError.
func Compile(src string) (*Grammar, error) {
	tokens, err := tokenize(src)
	if err != nil {
		return nil, err
	}

	c := &compiler{tokens: tokens, index: map[string]int{}, helpers: map[string]bool{}}

	g, err := c.grammar()
	if err != nil {
		return nil, err
	}

	return g, nil
}

type compiler struct {
	tokens  []token
	pos     int
	index   map[string]int
	refs    []*ruleRef
	refAt   []token
	helpers map[string]bool
}

func (c *compiler) peek() token {
	return c.tokens[c.pos]
}

func (c *compiler) peekAt(n int) token {
	if c.pos+n >= len(c.tokens) {
		return c.tokens[len(c.tokens)-1]
	}

	return c.tokens[c.pos+n]
}

func (c *compiler) next() token {
	t := c.tokens[c.pos]
	if t.kind != tokEOF {
		c.pos++
	}

	return t
}

func (c *compiler) is(kind tokenKind, text string) bool {
	t := c.peek()
	return t.kind == kind && t.text == text
}

func (c *compiler) errorf(t token, format string, args ...any) *CompileError {
	return &CompileError{Msg: fmt.Sprintf(format, args...), Line: t.line, Column: t.column}
}

func (c *compiler) grammar() (*Grammar, error) {
	g := &Grammar{index: c.index}

	for c.peek().kind != tokEOF {
		r, err := c.rule()
		if err != nil {
			return nil, err
		}

		g.rules = append(g.rules, r)
	}

	if len(g.rules) == 0 {
		return nil, c.errorf(c.peek(), "grammar has no rules")
	}

	for i, ref := range c.refs {
		idx, ok := c.index[ref.name]
		if !ok {
			return nil, c.errorf(c.refAt[i], "rule %q is not defined", ref.name)
		}

		ref.index = idx
	}

	for name := range c.helpers {
		g.helpers = append(g.helpers, name)
	}

	sort.Strings(g.helpers)

	return g, nil
}

func (c *compiler) rule() (*rule, error) {
	name := c.next()
	if name.kind != tokIdent {
		return nil, c.errorf(name, "expected rule name, got %s", describe(name))
	}

	if !c.is(tokPunct, "=") {
		return nil, c.errorf(c.peek(), "expected = after rule name %q, got %s", name.text, describe(c.peek()))
	}

	c.next()

	if _, ok := c.index[name.text]; ok {
		return nil, c.errorf(name, "rule %q is defined more than once", name.text)
	}

	c.index[name.text] = len(c.index)

	e, err := c.choice()
	if err != nil {
		return nil, err
	}

	return &rule{name: name.text, expr: e}, nil
}

func (c *compiler) choice() (expr, error) {
	var alternatives choice

	for {
		e, err := c.sequence()
		if err != nil {
			return nil, err
		}

		alternatives = append(alternatives, e)

		if !c.is(tokPunct, "/") {
			break
		}

		c.next()
	}

	if len(alternatives) == 1 {
		return alternatives[0], nil
	}

	return alternatives, nil
}

// sequence reads expressions until a choice separator, a closing parenthesis,
// end of input or the beginning of the next rule (name followed by =).
func (c *compiler) sequence() (expr, error) {
	var items sequence

	for {
		t := c.peek()
		if t.kind == tokEOF || (t.kind == tokPunct && (t.text == "/" || t.text == ")")) {
			break
		}

		if t.kind == tokIdent && c.peekAt(1).kind == tokPunct && c.peekAt(1).text == "=" {
			break
		}

		e, err := c.labeled()
		if err != nil {
			return nil, err
		}

		items = append(items, e)
	}

	switch len(items) {
	case 0:
		return nil, c.errorf(c.peek(), "expected expression, got %s", describe(c.peek()))
	case 1:
		return items[0], nil
	default:
		return items, nil
	}
}

func (c *compiler) labeled() (expr, error) {
	t := c.peek()
	if t.kind != tokIdent || !(c.peekAt(1).kind == tokPunct && c.peekAt(1).text == ":") {
		return c.prefixed()
	}

	c.next()
	c.next()

	e, err := c.prefixed()
	if err != nil {
		return nil, err
	}

	return labeled{label: t.text, expr: e}, nil
}

func (c *compiler) prefixed() (expr, error) {
	if c.is(tokPunct, "&") || c.is(tokPunct, "!") {
		not := c.next().text == "!"

		e, err := c.suffixed()
		if err != nil {
			return nil, err
		}

		return predicate{expr: e, not: not}, nil
	}

	return c.suffixed()
}

func (c *compiler) suffixed() (expr, error) {
	e, err := c.primary()
	if err != nil {
		return nil, err
	}

	for {
		switch {
		case c.is(tokPunct, "*"):
			e = repeat{expr: e, min: 0, max: -1}
		case c.is(tokPunct, "+"):
			e = repeat{expr: e, min: 1, max: -1}
		case c.is(tokPunct, "?"):
			e = repeat{expr: e, min: 0, max: 1}
		default:
			return e, nil
		}

		c.next()
	}
}

func (c *compiler) primary() (expr, error) {
	t := c.next()

	switch t.kind {
	case tokIdent:
		ref := &ruleRef{name: t.text}
		c.refs = append(c.refs, ref)
		c.refAt = append(c.refAt, t)
		return ref, nil
	case tokString:
		return literal(t.text), nil
	case tokRegex:
		re, err := regexp2.Compile(`\A(?:`+t.text+`)\z`, regexp2.None)
		if err != nil {
			ce := c.errorf(t, "invalid regular expression %q: %v", t.text, err)
			ce.Cause = err
			return nil, ce
		}

		re.MatchTimeout = MatchTimeout

		return pattern{source: t.text, re: re}, nil
	case tokType:
		kind, name, _ := strings.Cut(t.text, ":")
		kind = strings.ToLower(strings.TrimSpace(kind))

		if !nodeTypes[kind] {
			return nil, c.errorf(t, "unknown node type %q", kind)
		}

		return nodeType{kind: kind, name: strings.TrimSpace(name)}, nil
	case tokHelper:
		c.helpers[t.text] = true
		return helper(t.text), nil
	case tokPunct:
		switch t.text {
		case ".":
			return anyNode{}, nil
		case "(":
			e, err := c.choice()
			if err != nil {
				return nil, err
			}

			if !c.is(tokPunct, ")") {
				return nil, c.errorf(c.peek(), "expected ), got %s", describe(c.peek()))
			}

			c.next()

			return e, nil
		}
	}

	return nil, c.errorf(t, "unexpected %s", describe(t))
}

func describe(t token) string {
	switch t.kind {
	case tokEOF:
		return "end of grammar"
	case tokIdent:
		return fmt.Sprintf("name %q", t.text)
	case tokString:
		return fmt.Sprintf("string %q", t.text)
	case tokRegex:
		return fmt.Sprintf("pattern %q", t.text)
	case tokType:
		return "<" + t.text + ">"
	case tokHelper:
		return "@" + t.text
	default:
		return fmt.Sprintf("%q", t.text)
	}
}
