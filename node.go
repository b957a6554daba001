package latex

// Point is a single location in the source. Offset is a 0-based byte offset,
// Line and Column are 1-based (columns count runes).
type Point struct {
	Offset int `json:"offset"`
	Line   int `json:"line"`
	Column int `json:"column"`
}

// Position is a source span, End is exclusive.
type Position struct {
	Start Point `json:"start"`
	End   Point `json:"end"`
}

// Node is one of the AST node types declared in this package. The set is closed,
// code switching over nodes should panic on a type it does not know.
type Node interface {
	// Type returns the node discriminator as it appears in JSON ("string", "macro", ...)
	Type() string
	// Pos returns node position, it may be nil for synthesized nodes
	Pos() *Position

	node()
}

type String struct {
	Content  string    `json:"content"`
	Position *Position `json:"position,omitempty"`
}

type Whitespace struct {
	Position *Position `json:"position,omitempty"`
}

type Parbreak struct {
	Position *Position `json:"position,omitempty"`
}

// Comment is a %-comment. Sameline is set when the comment shares its line
// with preceding content, SuffixParbreak when a blank line follows it.
type Comment struct {
	Content        string    `json:"content"`
	Sameline       bool      `json:"sameline"`
	SuffixParbreak bool      `json:"suffixParbreak,omitempty"`
	Position       *Position `json:"position,omitempty"`
}

// Macro is a command invocation, Content holds the name without escape token.
// EscapeToken is "\" for regular commands and "" for ^ and _ in math mode.
type Macro struct {
	Content     string      `json:"content"`
	EscapeToken string      `json:"escapeToken"`
	Args        []*Argument `json:"args,omitempty"`
	Position    *Position   `json:"position,omitempty"`
}

// Argument is one macro or environment argument. Marks are empty for a single
// token argument and for an optional argument that was not given.
type Argument struct {
	OpenMark  string    `json:"openMark"`
	CloseMark string    `json:"closeMark"`
	Content   []Node    `json:"content"`
	Position  *Position `json:"position,omitempty"`
}

type Group struct {
	Content  []Node    `json:"content"`
	Position *Position `json:"position,omitempty"`
}

type InlineMath struct {
	Content  []Node    `json:"content"`
	Position *Position `json:"position,omitempty"`
}

type DisplayMath struct {
	Content  []Node    `json:"content"`
	Position *Position `json:"position,omitempty"`
}

type Environment struct {
	Env      []Node      `json:"env"`
	Args     []*Argument `json:"args,omitempty"`
	Content  []Node      `json:"content"`
	Position *Position   `json:"position,omitempty"`
}

// MathEnv is an environment whose content is parsed in math mode (align, bmatrix, ...)
type MathEnv struct {
	Env      []Node      `json:"env"`
	Args     []*Argument `json:"args,omitempty"`
	Content  []Node      `json:"content"`
	Position *Position   `json:"position,omitempty"`
}

// Verbatim is an environment with opaque content, it is never tokenized.
type Verbatim struct {
	Env      string    `json:"env"`
	Content  string    `json:"content"`
	Position *Position `json:"position,omitempty"`
}

// Verb is \verb|...|, Env is "verb" or "verb*" and Escape is the delimiter.
type Verb struct {
	Env      string    `json:"env"`
	Escape   string    `json:"escape"`
	Content  string    `json:"content"`
	Position *Position `json:"position,omitempty"`
}

type Root struct {
	Content  []Node    `json:"content"`
	Position *Position `json:"position,omitempty"`
}

func (*String) Type() string      { return "string" }
func (*Whitespace) Type() string  { return "whitespace" }
func (*Parbreak) Type() string    { return "parbreak" }
func (*Comment) Type() string     { return "comment" }
func (*Macro) Type() string       { return "macro" }
func (*Argument) Type() string    { return "argument" }
func (*Group) Type() string       { return "group" }
func (*InlineMath) Type() string  { return "inlinemath" }
func (*DisplayMath) Type() string { return "displaymath" }
func (*Environment) Type() string { return "environment" }
func (*MathEnv) Type() string     { return "mathenv" }
func (*Verbatim) Type() string    { return "verbatim" }
func (*Verb) Type() string        { return "verb" }
func (*Root) Type() string        { return "root" }

func (n *String) Pos() *Position      { return n.Position }
func (n *Whitespace) Pos() *Position  { return n.Position }
func (n *Parbreak) Pos() *Position    { return n.Position }
func (n *Comment) Pos() *Position     { return n.Position }
func (n *Macro) Pos() *Position       { return n.Position }
func (n *Argument) Pos() *Position    { return n.Position }
func (n *Group) Pos() *Position       { return n.Position }
func (n *InlineMath) Pos() *Position  { return n.Position }
func (n *DisplayMath) Pos() *Position { return n.Position }
func (n *Environment) Pos() *Position { return n.Position }
func (n *MathEnv) Pos() *Position     { return n.Position }
func (n *Verbatim) Pos() *Position    { return n.Position }
func (n *Verb) Pos() *Position        { return n.Position }
func (n *Root) Pos() *Position        { return n.Position }

func (*String) node()      {}
func (*Whitespace) node()  {}
func (*Parbreak) node()    {}
func (*Comment) node()     {}
func (*Macro) node()       {}
func (*Argument) node()    {}
func (*Group) node()       {}
func (*InlineMath) node()  {}
func (*DisplayMath) node() {}
func (*Environment) node() {}
func (*MathEnv) node()     {}
func (*Verbatim) node()    {}
func (*Verb) node()        {}
func (*Root) node()        {}

// EnvName returns printed environment name, for example "align*"
func EnvName(env []Node) string {
	return PrintRaw(env...)
}

// IsMacro reports whether node is a regular macro with one of the given names
func IsMacro(n Node, names ...string) bool {
	m, ok := n.(*Macro)
	if !ok {
		return false
	}

	if len(names) == 0 {
		return true
	}

	for _, name := range names {
		if m.Content == name {
			return true
		}
	}

	return false
}

// IsSpace reports whether node is Whitespace or Parbreak
func IsSpace(n Node) bool {
	switch n.(type) {
	case *Whitespace, *Parbreak:
		return true
	default:
		return false
	}
}

// Content returns the child sequence of a container node, or nil for leaves.
func Content(n Node) []Node {
	switch n := n.(type) {
	case *Root:
		return n.Content
	case *Group:
		return n.Content
	case *Argument:
		return n.Content
	case *InlineMath:
		return n.Content
	case *DisplayMath:
		return n.Content
	case *Environment:
		return n.Content
	case *MathEnv:
		return n.Content
	default:
		return nil
	}
}
