package parser

import (
	"sort"

	"github.com/Lalufu/wisent"
)

// StateTok indexes the shift- and reduce-tables: a parser state plus a
// lookahead token type.
type StateTok struct {
	State int
	Tok   wisent.TokType
}

// StateSym indexes the goto-table: a parser state plus a non-terminal
// symbol id.
type StateSym struct {
	State int
	Sym   int
}

// Reduction is a reduce-table entry: the rule's head symbol (by display name
// and by goto id) and the length of its right hand side.
type Reduction struct {
	Head string // display name of the head symbol
	Sym  int    // goto id of the head symbol
	Len  int    // number of RHS symbols to pop
}

// Tables is the complete automaton of a generated parser: the LR(1) ACTION
// tables (split into shift and reduce), the GOTO table, the halting state,
// and the symbol metadata the runtime needs for tree construction and error
// reporting. Tables are read-only; a Tables value may be shared by any
// number of parser instances.
//
// Generated parsers are a Tables literal plus a constructor; the driver
// executing them is the Parser type of this package.
type Tables struct {
	Shift        map[StateTok]int       // (state, terminal) -> next state
	Reduce       map[StateTok]Reduction // (state, terminal) -> reduction
	Goto         map[StateSym]int       // (state, non-terminal) -> next state
	HaltingState int                    // state entered after shifting #eof
	Terminals    map[string]wisent.TokType
	TokenNames   map[wisent.TokType]string
	Transparent  map[string]bool // non-terminals to flatten during tree construction
}

// Expected returns all token types for which a state has a shift- or
// reduce-action, in ascending order.
func (t Tables) Expected(state int) []wisent.TokType {
	seen := map[wisent.TokType]bool{}
	for key := range t.Shift {
		if key.State == state {
			seen[key.Tok] = true
		}
	}
	for key := range t.Reduce {
		if key.State == state {
			seen[key.Tok] = true
		}
	}
	expected := make([]wisent.TokType, 0, len(seen))
	for tok := range seen {
		expected = append(expected, tok)
	}
	sort.Slice(expected, func(a, b int) bool { return expected[a] < expected[b] })
	return expected
}

// TokenName returns the display name for a token type, or "?".
func (t Tables) TokenName(tok wisent.TokType) string {
	if name, ok := t.TokenNames[tok]; ok {
		return name
	}
	return "?"
}

// terminalTypes returns the token types of all terminals except #eof, in
// ascending order. The error-recovery search enumerates repair candidates in
// this order.
func (t Tables) terminalTypes() []wisent.TokType {
	tt := make([]wisent.TokType, 0, len(t.Terminals))
	for _, tok := range t.Terminals {
		if tok == wisent.EOF {
			continue
		}
		tt = append(tt, tok)
	}
	sort.Slice(tt, func(a, b int) bool { return tt[a] < tt[b] })
	return tt
}
