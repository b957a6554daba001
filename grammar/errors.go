package grammar

import (
	"fmt"

	"github.com/eolymp/latex-playground"
)

// CompileError is returned by Compile, Line and Column point into the grammar source.
type CompileError struct {
	Msg    string
	Line   int
	Column int
	Cause  error
}

func (e *CompileError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Line, e.Column, e.Msg)
}

func (e *CompileError) Unwrap() error {
	return e.Cause
}

// MatchError is returned when a compiled grammar does not accept a node sequence.
// Index is the offending node, it equals the number of nodes when input ended
// too early. Position is the position of that node if it has one.
type MatchError struct {
	Msg      string
	Index    int
	Position *latex.Position
}

func (e *MatchError) Error() string {
	if e.Position != nil {
		return fmt.Sprintf("%d:%d: %s", e.Position.Start.Line, e.Position.Start.Column, e.Msg)
	}

	return fmt.Sprintf("node %d: %s", e.Index, e.Msg)
}
