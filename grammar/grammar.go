// Package grammar compiles PEG grammars at runtime and runs them over sequences
// of parsed LaTeX nodes instead of characters.
//
// A grammar is a list of rules, the first rule is the start rule:
//
//	doc   = (item / @space)*
//	item  = name:<macro:item> body:(!<macro:item> .)*
//
// Terminals match one node: "." matches any node, "text" matches a string node
// with exactly this content, ~"regex" matches a string node by a regular
// expression, <type> and <type:name> match a node type (and a macro or
// environment name) and @name calls a helper predicate.
package grammar

import (
	"fmt"
	"strings"
	"time"

	"github.com/dlclark/regexp2"
	"github.com/eolymp/latex-playground"
)

// MatchTimeout limits a single regular expression match
const MatchTimeout = time.Second

// Grammar is a compiled grammar, it is immutable and can be used concurrently.
type Grammar struct {
	rules   []*rule
	index   map[string]int
	helpers []string
}

type rule struct {
	name string
	expr expr
}

// Rules returns rule names in declaration order
func (g *Grammar) Rules() []string {
	names := make([]string, len(g.rules))
	for i, r := range g.rules {
		names[i] = r.name
	}

	return names
}

type expr interface {
	String() string
}

type (
	sequence  []expr
	choice    []expr
	repeat    struct {
		expr expr
		min  int
		max  int // -1 is unbounded
	}
	predicate struct {
		expr expr
		not  bool
	}
	labeled struct {
		label string
		expr  expr
	}
	ruleRef struct {
		name  string
		index int
	}
	anyNode struct{}
	literal string
	pattern struct {
		source string
		re     *regexp2.Regexp
	}
	nodeType struct {
		kind string
		name string
	}
	helper string
)

func (e sequence) String() string {
	return join([]expr(e), " ")
}

func (e choice) String() string {
	return "(" + join([]expr(e), " / ") + ")"
}

func (e repeat) String() string {
	switch {
	case e.min == 0 && e.max == 1:
		return e.expr.String() + "?"
	case e.min == 0:
		return e.expr.String() + "*"
	default:
		return e.expr.String() + "+"
	}
}

func (e predicate) String() string {
	if e.not {
		return "!" + e.expr.String()
	}

	return "&" + e.expr.String()
}

func (e labeled) String() string { return e.label + ":" + e.expr.String() }
func (e ruleRef) String() string { return e.name }
func (anyNode) String() string   { return "." }
func (e literal) String() string { return fmt.Sprintf("%q", string(e)) }
func (e pattern) String() string { return "~" + fmt.Sprintf("%q", e.source) }
func (e helper) String() string  { return "@" + string(e) }

func (e nodeType) String() string {
	if e.name == "" {
		return "<" + e.kind + ">"
	}

	return "<" + e.kind + ":" + e.name + ">"
}

func join(list []expr, sep string) string {
	parts := make([]string, len(list))
	for i, e := range list {
		parts[i] = e.String()
	}

	return strings.Join(parts, sep)
}

var nodeTypes = map[string]bool{
	(&latex.String{}).Type():      true,
	(&latex.Whitespace{}).Type():  true,
	(&latex.Parbreak{}).Type():    true,
	(&latex.Comment{}).Type():     true,
	(&latex.Macro{}).Type():       true,
	(&latex.Argument{}).Type():    true,
	(&latex.Group{}).Type():       true,
	(&latex.InlineMath{}).Type():  true,
	(&latex.DisplayMath{}).Type(): true,
	(&latex.Environment{}).Type(): true,
	(&latex.MathEnv{}).Type():     true,
	(&latex.Verbatim{}).Type():    true,
	(&latex.Verb{}).Type():        true,
}
