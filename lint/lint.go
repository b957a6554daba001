// Package lint inspects LaTeX AST and reports style problems, some of them can be fixed automatically.
package lint

import (
	"fmt"

	"github.com/eolymp/latex-playground"
)

type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Diagnostic is a single problem found by a rule
type Diagnostic struct {
	RuleName string          `json:"ruleName"`
	Message  string          `json:"message"`
	Position *latex.Position `json:"position,omitempty"`
	Severity Severity        `json:"severity"`
}

func (d Diagnostic) String() string {
	if d.Position == nil {
		return fmt.Sprintf("%s: %s", d.RuleName, d.Message)
	}

	return fmt.Sprintf("%s: %s (%d:%d)", d.RuleName, d.Message, d.Position.Start.Line, d.Position.Start.Column)
}

// Rule inspects the tree and reports diagnostics. Check must not modify the tree.
type Rule interface {
	Name() string
	Check(ctx *Context, root *latex.Root)
}

// Fixer is implemented by rules which are able to fix the problems they report
type Fixer interface {
	Fix(root *latex.Root)
}

// Context collects diagnostics reported by a rule
type Context struct {
	rule        string
	source      string
	hasSource   bool
	diagnostics []Diagnostic
}

// Source returns original source of the document, some rules need it to look at
// details which are not preserved in the tree.
func (c *Context) Source() (string, bool) {
	return c.source, c.hasSource
}

// Report adds a warning
func (c *Context) Report(pos *latex.Position, format string, args ...any) {
	c.report(SeverityWarning, pos, format, args...)
}

// Error adds an error
func (c *Context) Error(pos *latex.Position, format string, args ...any) {
	c.report(SeverityError, pos, format, args...)
}

func (c *Context) report(severity Severity, pos *latex.Position, format string, args ...any) {
	var p *latex.Position
	if pos != nil {
		cp := *pos
		p = &cp
	}

	c.diagnostics = append(c.diagnostics, Diagnostic{
		RuleName: c.rule,
		Message:  fmt.Sprintf(format, args...),
		Position: p,
		Severity: severity,
	})
}

// Linter runs a fixed list of rules. It has no mutable state and can be shared.
type Linter struct {
	rules []Rule
}

// New creates linter with given rules, rules run in the given order
func New(rules ...Rule) *Linter {
	return &Linter{rules: append([]Rule(nil), rules...)}
}

// Default creates linter with all built-in rules. Rules which depend on fixes of
// other rules are registered after them.
func Default() *Linter {
	return New(
		RedundantGroup{},
		FontShapingCommands{},
		PlaintextOperators{},
		Ligatures{},
		NoDef{},
		TexDisplayMath{},
		TrailingWhitespace{},
		TabularColumns{},
		GraphicsOptions{},
	)
}

// Rules returns names of registered rules
func (l *Linter) Rules() []string {
	names := make([]string, len(l.rules))
	for i, r := range l.rules {
		names[i] = r.Name()
	}

	return names
}

// Report runs all rules without modifying the tree. Rules which need the original
// source report nothing when it is not given. A rule which fails is reported as
// an error diagnostic, other rules still run.
func (l *Linter) Report(root *latex.Root, source ...string) (diagnostics []Diagnostic) {
	for _, rule := range l.rules {
		ctx := &Context{rule: rule.Name()}
		if len(source) > 0 {
			ctx.source, ctx.hasSource = source[0], true
		}

		if err := l.check(rule, ctx, root); err != nil {
			ctx.diagnostics = append(ctx.diagnostics, failure(rule, err))
		}

		diagnostics = append(diagnostics, ctx.diagnostics...)
	}

	return
}

// Fix applies fixes of all rules to the node and returns the result of the same
// shape: a root for a root, a single node for any other node. A node which fixes
// expand into several nodes is returned as a root holding them. The tree is modified
// in place. Changes of a rule which fails are rolled back, failures are returned
// as diagnostics.
func (l *Linter) Fix(node latex.Node) (latex.Node, []Diagnostic) {
	if root, ok := node.(*latex.Root); ok {
		return root, l.fix(root)
	}

	root := &latex.Root{Content: []latex.Node{node}}
	failures := l.fix(root)

	if len(root.Content) == 1 {
		return root.Content[0], failures
	}

	// a rule may replace single node with a sequence, a group would add a scope
	return root, failures
}

// FixNodes applies fixes to a sequence of nodes and returns fixed sequence
func (l *Linter) FixNodes(nodes []latex.Node) ([]latex.Node, []Diagnostic) {
	root := &latex.Root{Content: nodes}
	failures := l.fix(root)

	return root.Content, failures
}

func (l *Linter) fix(root *latex.Root) (failures []Diagnostic) {
	for _, rule := range l.rules {
		fixer, ok := rule.(Fixer)
		if !ok {
			continue
		}

		backup := latex.CloneNodes(root.Content)

		if err := l.apply(fixer, root); err != nil {
			root.Content = backup
			failures = append(failures, failure(rule, err))
		}
	}

	return
}

func (l *Linter) check(rule Rule, ctx *Context, root *latex.Root) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	rule.Check(ctx, root)
	return nil
}

func (l *Linter) apply(fixer Fixer, root *latex.Root) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()

	fixer.Fix(root)
	return nil
}

func failure(rule Rule, err error) Diagnostic {
	return Diagnostic{
		RuleName: rule.Name(),
		Message:  fmt.Sprintf("rule failed: %v", err),
		Severity: SeverityError,
	}
}
