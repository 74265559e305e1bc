package lr1

import (
	"github.com/Lalufu/wisent"
	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/parser"
)

// RuntimeTables converts the generated sparse tables into the map form the
// parser runtime executes. The transparent set lists the non-terminals whose
// inner nodes the runtime will flatten; the grammar front end supplies it,
// programmatically built grammars may pass nil.
//
// RuntimeTables must only be used after a conflict-free CreateTables run;
// for conflicted tables the primary action would win silently.
func (lrgen *TableGenerator) RuntimeTables(transparent map[string]bool) parser.Tables {
	t := parser.Tables{
		Shift:        map[parser.StateTok]int{},
		Reduce:       map[parser.StateTok]parser.Reduction{},
		Goto:         map[parser.StateSym]int{},
		HaltingState: lrgen.HaltingState,
		Terminals:    map[string]wisent.TokType{},
		TokenNames:   map[wisent.TokType]string{},
		Transparent:  map[string]bool{},
	}
	lrgen.actiontable.Each(func(state, symval int, a, b int32) {
		if b != lrgen.actiontable.NullValue() {
			tracer().Errorf("conflicting actions at (%d,%d) exported", state, symval)
		}
		tok := wisent.TokType(symval)
		if a == ShiftAction {
			target := lrgen.gototable.Value(state, symval)
			t.Shift[parser.StateTok{State: state, Tok: tok}] = int(target)
			return
		}
		rule := lrgen.g.Rule(int(a))
		t.Reduce[parser.StateTok{State: state, Tok: tok}] = parser.Reduction{
			Head: rule.LHS.Name,
			Sym:  rule.LHS.Value,
			Len:  rule.Len(),
		}
	})
	lrgen.gototable.Each(func(state, symval int, a, b int32) {
		if symval >= 0 { // terminal transitions are covered by the shift table
			return
		}
		t.Goto[parser.StateSym{State: state, Sym: symval}] = int(a)
	})
	lrgen.g.EachTerminal(func(sym *grammar.Symbol) {
		t.TokenNames[sym.TokenType()] = sym.Name
		if !sym.IsEOF() {
			t.Terminals[sym.Name] = sym.TokenType()
		}
	})
	for name := range transparent {
		t.Transparent[name] = true
	}
	return t
}
