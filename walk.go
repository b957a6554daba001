package latex

import "fmt"

// Context describes where a visited node is located
type Context struct {
	Parent Node
	Mode   Mode
}

// Walk visits node and all its descendants in depth-first order. Children are
// not visited when visit returns false.
func Walk(node Node, visit func(Node, Context) bool) {
	walk(node, Context{Mode: modeOf(node, TextMode)}, visit)
}

func walk(node Node, ctx Context, visit func(Node, Context) bool) {
	if !visit(node, ctx) {
		return
	}

	inner := Context{Parent: node, Mode: modeOf(node, ctx.Mode)}

	switch n := node.(type) {
	case *Macro:
		argCtx := inner
		if argCtx.Mode == MathMode && textArgs(n) {
			argCtx.Mode = TextMode
		}

		for _, arg := range n.Args {
			walk(arg, argCtx, visit)
		}
	case *Environment:
		for _, arg := range n.Args {
			walk(arg, Context{Parent: node, Mode: ctx.Mode}, visit)
		}
	case *MathEnv:
		for _, arg := range n.Args {
			walk(arg, Context{Parent: node, Mode: ctx.Mode}, visit)
		}
	}

	for _, child := range Content(node) {
		walk(child, inner, visit)
	}
}

// Transform rewrites every content sequence of the tree bottom-up: children are
// transformed before their parent sequence is passed to fn. Context.Parent is the
// node owning the sequence, for argument content it is the macro or environment
// the argument belongs to. The tree is modified in place.
func Transform(node Node, fn func(nodes []Node, ctx Context) []Node) Node {
	if r, ok := node.(*Root); ok {
		r.Content = transform(r.Content, Context{Parent: r, Mode: TextMode}, fn)
		return r
	}

	nodes := transform([]Node{node}, Context{Mode: TextMode}, fn)
	if len(nodes) == 1 {
		return nodes[0]
	}

	return &Root{Content: nodes}
}

func transform(nodes []Node, ctx Context, fn func([]Node, Context) []Node) []Node {
	for _, node := range nodes {
		inner := Context{Parent: node, Mode: modeOf(node, ctx.Mode)}

		switch n := node.(type) {
		case *Macro:
			argCtx := inner
			if textArgs(n) {
				argCtx.Mode = TextMode
			}

			for _, arg := range n.Args {
				arg.Content = transform(arg.Content, argCtx, fn)
			}
		case *Group:
			n.Content = transform(n.Content, inner, fn)
		case *InlineMath:
			n.Content = transform(n.Content, inner, fn)
		case *DisplayMath:
			n.Content = transform(n.Content, inner, fn)
		case *Environment:
			for _, arg := range n.Args {
				arg.Content = transform(arg.Content, Context{Parent: node, Mode: ctx.Mode}, fn)
			}

			n.Content = transform(n.Content, inner, fn)
		case *MathEnv:
			for _, arg := range n.Args {
				arg.Content = transform(arg.Content, Context{Parent: node, Mode: ctx.Mode}, fn)
			}

			n.Content = transform(n.Content, inner, fn)
		case *Argument:
			n.Content = transform(n.Content, inner, fn)
		case *Root:
			n.Content = transform(n.Content, inner, fn)
		}
	}

	return fn(nodes, ctx)
}

// Inspect calls fn for every content sequence of the tree in depth-first order,
// Context is the same as in Transform. The tree is not modified.
func Inspect(node Node, fn func(nodes []Node, ctx Context)) {
	if r, ok := node.(*Root); ok {
		inspect(r.Content, Context{Parent: r, Mode: TextMode}, fn)
		return
	}

	inspect([]Node{node}, Context{Mode: TextMode}, fn)
}

func inspect(nodes []Node, ctx Context, fn func([]Node, Context)) {
	fn(nodes, ctx)

	for _, node := range nodes {
		inner := Context{Parent: node, Mode: modeOf(node, ctx.Mode)}

		switch n := node.(type) {
		case *Macro:
			argCtx := inner
			if textArgs(n) {
				argCtx.Mode = TextMode
			}

			for _, arg := range n.Args {
				inspect(arg.Content, argCtx, fn)
			}
		case *Environment:
			for _, arg := range n.Args {
				inspect(arg.Content, Context{Parent: node, Mode: ctx.Mode}, fn)
			}
		case *MathEnv:
			for _, arg := range n.Args {
				inspect(arg.Content, Context{Parent: node, Mode: ctx.Mode}, fn)
			}
		}

		switch node.(type) {
		case *Group, *InlineMath, *DisplayMath, *Environment, *MathEnv, *Argument, *Root:
			inspect(Content(node), inner, fn)
		}
	}
}

// modeOf returns mode of node content given the mode node itself is in
func modeOf(node Node, mode Mode) Mode {
	switch node.(type) {
	case *InlineMath, *DisplayMath, *MathEnv:
		return MathMode
	default:
		return mode
	}
}

// ArgMode returns mode of macro arguments given the mode macro is used in. Only
// the default signature table is consulted (as in Walk, Transform and Inspect):
// the tree does not record signatures registered with WithSignatures.
func ArgMode(m *Macro, mode Mode) Mode {
	if textArgs(m) {
		return TextMode
	}

	return mode
}

func textArgs(m *Macro) bool {
	sig, ok := macros[m.Content]
	return ok && sig.TextArgs && m.EscapeToken != ""
}

// Clone returns a deep copy of the tree
func Clone(node Node) Node {
	return mapTree(node, func(p *Position) *Position {
		if p == nil {
			return nil
		}

		c := *p
		return &c
	})
}

// StripPositions returns a copy of the tree without any positions, original tree is not modified
func StripPositions(node Node) Node {
	return mapTree(node, func(*Position) *Position { return nil })
}

// CloneNodes returns a deep copy of node sequence
func CloneNodes(nodes []Node) []Node {
	return mapNodes(nodes, func(p *Position) *Position {
		if p == nil {
			return nil
		}

		c := *p
		return &c
	})
}

func mapNodes(nodes []Node, pos func(*Position) *Position) []Node {
	if nodes == nil {
		return nil
	}

	out := make([]Node, len(nodes))
	for i, n := range nodes {
		out[i] = mapTree(n, pos)
	}

	return out
}

func mapArgs(args []*Argument, pos func(*Position) *Position) []*Argument {
	if args == nil {
		return nil
	}

	out := make([]*Argument, len(args))
	for i, a := range args {
		out[i] = mapTree(a, pos).(*Argument)
	}

	return out
}

func mapTree(node Node, pos func(*Position) *Position) Node {
	switch n := node.(type) {
	case *String:
		return &String{Content: n.Content, Position: pos(n.Position)}
	case *Whitespace:
		return &Whitespace{Position: pos(n.Position)}
	case *Parbreak:
		return &Parbreak{Position: pos(n.Position)}
	case *Comment:
		return &Comment{Content: n.Content, Sameline: n.Sameline, SuffixParbreak: n.SuffixParbreak, Position: pos(n.Position)}
	case *Macro:
		return &Macro{Content: n.Content, EscapeToken: n.EscapeToken, Args: mapArgs(n.Args, pos), Position: pos(n.Position)}
	case *Argument:
		return &Argument{OpenMark: n.OpenMark, CloseMark: n.CloseMark, Content: mapNodes(n.Content, pos), Position: pos(n.Position)}
	case *Group:
		return &Group{Content: mapNodes(n.Content, pos), Position: pos(n.Position)}
	case *InlineMath:
		return &InlineMath{Content: mapNodes(n.Content, pos), Position: pos(n.Position)}
	case *DisplayMath:
		return &DisplayMath{Content: mapNodes(n.Content, pos), Position: pos(n.Position)}
	case *Environment:
		return &Environment{Env: mapNodes(n.Env, pos), Args: mapArgs(n.Args, pos), Content: mapNodes(n.Content, pos), Position: pos(n.Position)}
	case *MathEnv:
		return &MathEnv{Env: mapNodes(n.Env, pos), Args: mapArgs(n.Args, pos), Content: mapNodes(n.Content, pos), Position: pos(n.Position)}
	case *Verbatim:
		return &Verbatim{Env: n.Env, Content: n.Content, Position: pos(n.Position)}
	case *Verb:
		return &Verb{Env: n.Env, Escape: n.Escape, Content: n.Content, Position: pos(n.Position)}
	case *Root:
		return &Root{Content: mapNodes(n.Content, pos), Position: pos(n.Position)}
	default:
		panic(fmt.Sprintf("latex: unexpected node %T", node))
	}
}
