package grammar

import (
	"fmt"
	"sort"
	"strings"

	"github.com/eolymp/latex-playground"
)

// Match is a node of the parse result. Every rule invocation and every labeled
// expression produces a Match, other expressions only contribute their children.
type Match struct {
	Rule     string       `json:"rule,omitempty"`
	Label    string       `json:"label,omitempty"`
	Start    int          `json:"start"`
	End      int          `json:"end"`
	Nodes    []latex.Node `json:"-"`
	Children []*Match     `json:"children,omitempty"`
}

// String returns an indented dump of the match tree with raw LaTeX of every match
func (m *Match) String() string {
	var b strings.Builder
	m.dump(&b, 0)
	return b.String()
}

func (m *Match) dump(b *strings.Builder, depth int) {
	b.WriteString(strings.Repeat("  ", depth))

	if m.Label != "" {
		b.WriteString(m.Label + ":")
	} else {
		b.WriteString(m.Rule)
	}

	fmt.Fprintf(b, " [%d,%d) %q\n", m.Start, m.End, latex.PrintRaw(m.Nodes...))

	for _, child := range m.Children {
		child.dump(b, depth+1)
	}
}

// Find returns matches with a given label or rule name in depth-first order
func (m *Match) Find(name string) (found []*Match) {
	for _, child := range m.Children {
		if child.Label == name || child.Rule == name {
			found = append(found, child)
		}

		found = append(found, child.Find(name)...)
	}

	return
}

// Helper is a predicate called by @name terminals
type Helper func(latex.Node) bool

// DefaultHelpers returns helpers available to every grammar
func DefaultHelpers() map[string]Helper {
	return map[string]Helper{
		"whitespace": is[*latex.Whitespace],
		"parbreak":   is[*latex.Parbreak],
		"comment":    is[*latex.Comment],
		"group":      is[*latex.Group],
		"string":     is[*latex.String],
		"macro":      is[*latex.Macro],
		"space":      latex.IsSpace,
		"math": func(n latex.Node) bool {
			switch n.(type) {
			case *latex.InlineMath, *latex.DisplayMath, *latex.MathEnv:
				return true
			default:
				return false
			}
		},
	}
}

func is[T latex.Node](n latex.Node) bool {
	_, ok := n.(T)
	return ok
}

type ParseOption func(*matcher)

// WithHelpers adds helpers on top of DefaultHelpers, a helper with the same name replaces the default one
func WithHelpers(helpers map[string]Helper) ParseOption {
	return func(m *matcher) {
		for name, h := range helpers {
			m.helpers[name] = h
		}
	}
}

// WithStart starts matching from a given rule instead of the first one
func WithStart(rule string) ParseOption {
	return func(m *matcher) {
		m.start = rule
	}
}

// Parse matches the whole node sequence against the grammar
func (g *Grammar) Parse(nodes []latex.Node, opts ...ParseOption) (*Match, error) {
	m := &matcher{
		grammar: g,
		nodes:   nodes,
		helpers: DefaultHelpers(),
		memo:    map[memoKey]memoEntry{},
		start:   g.rules[0].name,
	}

	for _, opt := range opts {
		opt(m)
	}

	for _, name := range g.helpers {
		if m.helpers[name] == nil {
			return nil, &MatchError{Msg: fmt.Sprintf("helper @%s is not defined", name)}
		}
	}

	start, ok := g.index[m.start]
	if !ok {
		return nil, &MatchError{Msg: fmt.Sprintf("rule %q is not defined", m.start)}
	}

	match, end, ok := m.rule(start, 0)
	if m.err != nil {
		return nil, m.err
	}

	if ok && end == len(nodes) {
		return match, nil
	}

	if ok && end > m.farthest {
		m.farthest = end
		m.expected = nil
	}

	return nil, m.failure()
}

type memoKey struct {
	rule int
	pos  int
}

type memoEntry struct {
	match *Match
	end   int
	ok    bool
}

type matcher struct {
	grammar *Grammar
	nodes   []latex.Node
	helpers map[string]Helper
	memo    map[memoKey]memoEntry
	start   string
	err     *MatchError

	farthest int
	expected map[string]bool
}

// rule invokes a rule with packrat memoization. A failure is stored before the
// rule is evaluated, so left recursion fails instead of looping forever.
func (m *matcher) rule(index, pos int) (*Match, int, bool) {
	key := memoKey{rule: index, pos: pos}
	if e, ok := m.memo[key]; ok {
		return e.match, e.end, e.ok
	}

	m.memo[key] = memoEntry{}

	r := m.grammar.rules[index]

	end, children, ok := m.match(r.expr, pos)
	if !ok {
		return nil, pos, false
	}

	match := &Match{Rule: r.name, Start: pos, End: end, Nodes: m.nodes[pos:end], Children: children}
	m.memo[key] = memoEntry{match: match, end: end, ok: true}

	return match, end, true
}

func (m *matcher) match(e expr, pos int) (int, []*Match, bool) {
	if m.err != nil {
		return pos, nil, false
	}

	switch e := e.(type) {
	case sequence:
		var children []*Match
		end := pos

		for _, item := range e {
			next, c, ok := m.match(item, end)
			if !ok {
				return pos, nil, false
			}

			end = next
			children = append(children, c...)
		}

		return end, children, true
	case choice:
		for _, alt := range e {
			if end, children, ok := m.match(alt, pos); ok {
				return end, children, true
			}
		}

		return pos, nil, false
	case repeat:
		var children []*Match
		end, count := pos, 0

		for e.max < 0 || count < e.max {
			next, c, ok := m.match(e.expr, end)
			if !ok || next == end {
				// an empty match would repeat forever
				if ok {
					count++
				}

				break
			}

			end = next
			count++
			children = append(children, c...)
		}

		if count < e.min {
			return pos, nil, false
		}

		return end, children, true
	case predicate:
		_, _, ok := m.match(e.expr, pos)
		return pos, nil, ok != e.not
	case labeled:
		end, children, ok := m.match(e.expr, pos)
		if !ok {
			return pos, nil, false
		}

		return end, []*Match{{Label: e.label, Start: pos, End: end, Nodes: m.nodes[pos:end], Children: children}}, true
	case *ruleRef:
		match, end, ok := m.rule(e.index, pos)
		if !ok {
			return pos, nil, false
		}

		return end, []*Match{match}, true
	default:
		if m.terminal(e, pos) {
			return pos + 1, nil, true
		}

		m.fail(pos, e.String())
		return pos, nil, false
	}
}

func (m *matcher) terminal(e expr, pos int) bool {
	if pos >= len(m.nodes) {
		return false
	}

	node := m.nodes[pos]

	switch e := e.(type) {
	case anyNode:
		return true
	case literal:
		s, ok := node.(*latex.String)
		return ok && s.Content == string(e)
	case pattern:
		s, ok := node.(*latex.String)
		if !ok {
			return false
		}

		matched, err := e.re.MatchString(s.Content)
		if err != nil {
			m.err = &MatchError{Msg: fmt.Sprintf("pattern %q: %v", e.source, err), Index: pos, Position: node.Pos()}
			return false
		}

		return matched
	case nodeType:
		return node.Type() == e.kind && (e.name == "" || nodeName(node) == e.name)
	case helper:
		return m.helpers[string(e)](node)
	default:
		panic(fmt.Sprintf("grammar: unexpected expression %T", e))
	}
}

// nodeName returns the name matched by <type:name> terminals
func nodeName(n latex.Node) string {
	switch n := n.(type) {
	case *latex.Macro:
		return n.Content
	case *latex.Environment:
		return latex.EnvName(n.Env)
	case *latex.MathEnv:
		return latex.EnvName(n.Env)
	case *latex.Verbatim:
		return n.Env
	case *latex.Verb:
		return n.Env
	case *latex.String:
		return n.Content
	default:
		return ""
	}
}

// fail records a terminal failure, only failures at the farthest position are
// kept since they describe what the grammar expected at the point it got stuck.
func (m *matcher) fail(pos int, expected string) {
	if pos < m.farthest {
		return
	}

	if pos > m.farthest || m.expected == nil {
		m.farthest = pos
		m.expected = map[string]bool{}
	}

	m.expected[expected] = true
}

func (m *matcher) failure() *MatchError {
	err := &MatchError{Index: m.farthest}

	got := "end of input"
	if m.farthest < len(m.nodes) {
		node := m.nodes[m.farthest]
		got = describeNode(node)
		err.Position = node.Pos()
	}

	if len(m.expected) == 0 {
		err.Msg = "unexpected " + got
		return err
	}

	expected := make([]string, 0, len(m.expected))
	for e := range m.expected {
		expected = append(expected, e)
	}

	sort.Strings(expected)

	err.Msg = fmt.Sprintf("expected %s, got %s", strings.Join(expected, " or "), got)
	return err
}

func describeNode(n latex.Node) string {
	switch n := n.(type) {
	case *latex.String:
		return fmt.Sprintf("string %q", n.Content)
	case *latex.Macro:
		return "macro \\" + n.Content
	case *latex.Environment, *latex.MathEnv, *latex.Verbatim:
		return n.Type() + " " + nodeName(n)
	default:
		return n.Type()
	}
}
