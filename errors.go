package latex

import "fmt"

// ParseError is returned when source can not be tokenized or structured. Location
// points to the first offending token (or to the unmatched opener).
type ParseError struct {
	Desc     string
	Location Position
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("%d:%d: %s", e.Location.Start.Line, e.Location.Start.Column, e.Desc)
}

func errorf(pos Position, format string, args ...any) *ParseError {
	return &ParseError{Desc: fmt.Sprintf(format, args...), Location: pos}
}
