package grammar

import (
	"fmt"

	"github.com/Lalufu/wisent"
)

// Symbol is a grammar symbol, i.e. a terminal or a non-terminal. Symbols are
// interned per grammar: two symbols of a grammar are identical iff their
// pointers are.
//
// Terminals carry a token value of type int, assigned in order of first
// occurrence; token value 0 is reserved for the synthetic end-of-input
// terminal. Non-terminals carry negative values. All lookup tables of the
// analysis and of the table generator key on these values, never on the
// symbol names.
type Symbol struct {
	Name  string // visual representation of the symbol
	Value int    // token value; >= 0 for terminals, < 0 for non-terminals
}

// eofTokenValue is the token value of the synthetic end-of-input terminal.
const eofTokenValue = int(wisent.EOF)

// IsTerminal is true for terminal symbols, including #eof.
func (sym *Symbol) IsTerminal() bool {
	return sym.Value >= 0
}

// IsEOF is true for the synthetic end-of-input terminal.
func (sym *Symbol) IsEOF() bool {
	return sym.Value == eofTokenValue
}

// TokenType returns the token value of a terminal as a token type.
func (sym *Symbol) TokenType() wisent.TokType {
	return wisent.TokType(sym.Value)
}

func (sym *Symbol) String() string {
	return sym.Name
}

// --- Symbol interning -------------------------------------------------------

// symtab interns the symbols of one grammar. Symbols are recorded in order of
// first occurrence; this order is the canonical symbol iteration order of the
// grammar.
type symtab struct {
	symbols []*Symbol
	byName  map[string]*Symbol
	byValue map[int]*Symbol
	tvals   int // next token value to assign
	nvals   int // next (negated) non-terminal value to assign
}

func newSymtab() *symtab {
	return &symtab{
		byName:  map[string]*Symbol{},
		byValue: map[int]*Symbol{},
		tvals:   eofTokenValue + 1,
		nvals:   -1,
	}
}

func (st *symtab) internTerminal(name string, value ...int) *Symbol {
	if sym, ok := st.byName[name]; ok {
		return sym
	}
	v := st.tvals
	if len(value) > 0 {
		v = value[0]
	} else {
		st.tvals++
	}
	sym := &Symbol{Name: name, Value: v}
	st.record(sym)
	return sym
}

func (st *symtab) internNonTerminal(name string) *Symbol {
	if sym, ok := st.byName[name]; ok {
		return sym
	}
	sym := &Symbol{Name: name, Value: st.nvals}
	st.nvals--
	st.record(sym)
	return sym
}

// freshName guards the synthetic symbols against name clashes with user
// symbols. Quoted terminals may contain any character.
func (st *symtab) freshName(name string) string {
	for st.byName[name] != nil {
		name += "'"
	}
	return name
}

func (st *symtab) record(sym *Symbol) {
	st.symbols = append(st.symbols, sym)
	st.byName[sym.Name] = sym
	st.byValue[sym.Value] = sym
}

// dropUnused removes interned symbols which no retained rule mentions.
// Cleanup may have discarded every rule a symbol occurred in.
func (st *symtab) dropUnused(g *Grammar) {
	used := map[*Symbol]bool{g.Start: true, g.EOF: true}
	for _, r := range g.rules {
		used[r.LHS] = true
		for _, sym := range r.rhs {
			used[sym] = true
		}
	}
	kept := st.symbols[:0]
	for _, sym := range st.symbols {
		if used[sym] {
			kept = append(kept, sym)
		} else {
			delete(st.byName, sym.Name)
			delete(st.byValue, sym.Value)
		}
	}
	st.symbols = kept
}

// --- Rules ------------------------------------------------------------------

// Rule is a production rule of a grammar. An empty RHS denotes an epsilon
// production. Rules are numbered; the serial of the augmented rule is
// AugmentedRuleSerial, user rules count from 0 in input order. Serials are
// stable under cleanup: dropping a rule leaves a gap.
type Rule struct {
	Serial int
	LHS    *Symbol
	rhs    []*Symbol
}

// RHS returns the right hand side of a rule. Callers must not modify the
// returned slice.
func (r *Rule) RHS() []*Symbol {
	return r.rhs
}

// Len returns the length of the rule's right hand side.
func (r *Rule) Len() int {
	return len(r.rhs)
}

// IsEpsilon is true for epsilon productions.
func (r *Rule) IsEpsilon() bool {
	return len(r.rhs) == 0
}

func (r *Rule) String() string {
	s := fmt.Sprintf("[%s] ::= [", r.LHS.Name)
	for i, sym := range r.rhs {
		if i > 0 {
			s += " "
		}
		s += sym.Name
	}
	return s + "]"
}
