package parser

import (
	"fmt"

	"github.com/Lalufu/wisent"
)

// ParseError describes one position where the parser stalled: the offending
// token, the token types which would have been acceptable, and a snapshot of
// the partial parse trees on the stack at that moment.
//
// A nil Token denotes an unexpected end of input.
type ParseError struct {
	Token    wisent.Token
	Expected []wisent.TokType
	Stack    []*Node
}

// ParseErrors collects the parse errors of one parser run. The parser
// recovers from errors where possible and keeps going; it surfaces all of
// them afterwards in a single ParseErrors value.
//
// Tree is the repaired parse tree, or nil if no repair was possible.
type ParseErrors struct {
	Errors []*ParseError
	Tree   *Node
}

func (e *ParseErrors) Error() string {
	if len(e.Errors) == 1 {
		return "1 parse error"
	}
	return fmt.Sprintf("%d parse errors", len(e.Errors))
}
