package lr1

import (
	"fmt"
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/Lalufu/wisent/grammar"
)

func makeExprGrammar(t *testing.T) *grammar.LRAnalysis {
	b := grammar.NewGrammarBuilder("Expressions")
	b.LHS("expr").N("expr").T("+").N("term").End()
	b.LHS("expr").N("term").End()
	b.LHS("term").N("term").T("*").N("factor").End()
	b.LHS("term").N("factor").End()
	b.LHS("factor").T("num").End()
	b.LHS("factor").T("(").N("expr").T(")").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return grammar.Analysis(g)
}

func TestClosureOfStartItem(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.lr")
	defer teardown()
	//
	ga := makeExprGrammar(t)
	lrgen := NewTableGenerator(ga)
	closure0 := lrgen.closureSet(singleton(StartItem(ga.Grammar())))
	// S' -> •expr #eof, plus items for every rule of expr, term and factor
	if closure0.Size() < 7 {
		t.Errorf("closure of start item has %d items, expected more", closure0.Size())
	}
	haveStart := false
	closure0.Each(func(x interface{}) {
		i := asItem(x)
		if i.Rule().Serial == grammar.AugmentedRuleSerial && i.Dot() == 0 {
			haveStart = true
		}
	})
	if !haveStart {
		t.Errorf("closure lost the start item")
	}
}

func TestCreateTables(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.lr")
	defer teardown()
	//
	ga := makeExprGrammar(t)
	lrgen := NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil {
		t.Fatalf("expression grammar is LR(1), got %v", err)
	}
	if lrgen.HasConflicts {
		t.Errorf("expression grammar should have no conflicts")
	}
	if lrgen.CFSM().States() == 0 {
		t.Fatalf("no CFSM states built")
	}
	if lrgen.HaltingState == 0 {
		t.Errorf("halting state not found")
	}
	// state 0 must shift '(' and 'num'
	g := ga.Grammar()
	for _, name := range []string{"(", "num"} {
		sym := g.SymbolByName(name)
		if a := lrgen.ActionTable().Value(0, sym.Value); a != ShiftAction {
			t.Errorf("expected shift action for %s in state 0, got %s",
				name, valstring(a, lrgen.ActionTable()))
		}
	}
	// state 0 must have a goto for expr
	if lrgen.GotoTable().Value(0, g.SymbolByName("expr").Value) == lrgen.GotoTable().NullValue() {
		t.Errorf("expected goto entry for expr in state 0")
	}
}

// fingerprint serializes tables for comparison between runs.
func fingerprint(lrgen *TableGenerator) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "states=%d halt=%d\n", lrgen.CFSM().States(), lrgen.HaltingState)
	lrgen.ActionTable().Each(func(state, symval int, a, b int32) {
		fmt.Fprintf(&sb, "A %d %d %d %d\n", state, symval, a, b)
	})
	lrgen.GotoTable().Each(func(state, symval int, a, b int32) {
		fmt.Fprintf(&sb, "G %d %d %d\n", state, symval, a)
	})
	return sb.String()
}

func TestDeterministicConstruction(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.lr")
	defer teardown()
	//
	// two independent runs must agree on numbering and tables
	lrgen1 := NewTableGenerator(makeExprGrammar(t))
	if err := lrgen1.CreateTables(); err != nil {
		t.Fatal(err)
	}
	lrgen2 := NewTableGenerator(makeExprGrammar(t))
	if err := lrgen2.CreateTables(); err != nil {
		t.Fatal(err)
	}
	if fingerprint(lrgen1) != fingerprint(lrgen2) {
		t.Errorf("table construction is not deterministic")
	}
}

func makeDanglingElse(t *testing.T) *grammar.LRAnalysis {
	// stmt : 'if' 'expr' stmt | 'if' 'expr' stmt 'else' stmt | 'other' ;
	b := grammar.NewGrammarBuilder("DanglingElse")
	b.LHS("stmt").T("if").T("expr").N("stmt").End()
	b.LHS("stmt").T("if").T("expr").N("stmt").T("else").N("stmt").End()
	b.LHS("stmt").T("other").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	return grammar.Analysis(g)
}

func TestShiftReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(makeDanglingElse(t))
	err := lrgen.CreateTables()
	if err == nil {
		t.Fatalf("dangling else must produce a conflict")
	}
	conflicts, ok := err.(*Conflicts)
	if !ok {
		t.Fatalf("expected *Conflicts, got %T", err)
	}
	if conflicts.Len() != 1 {
		t.Errorf("expected exactly 1 conflict, got %d", conflicts.Len())
	}
	conflicts.Each(func(c *Conflict) {
		if c.IsReduceReduce() {
			t.Errorf("expected a shift-reduce conflict")
		}
		if len(c.Shift) == 0 || len(c.Reduces) != 1 {
			t.Errorf("unexpected participants: %d shifts, %d reduces",
				len(c.Shift), len(c.Reduces))
		}
		if len(c.Text) == 0 || c.Text[len(c.Text)-1].Name != "else" {
			t.Errorf("representative input should end in 'else', got %v", c.Text)
		}
	})
}

func TestReduceReduceConflict(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.lr")
	defer teardown()
	//
	// A and B both derive 'x'; after x with lookahead #eof both reduce
	b := grammar.NewGrammarBuilder("RR")
	b.LHS("S").N("A").End()
	b.LHS("S").N("B").End()
	b.LHS("A").T("x").End()
	b.LHS("B").T("x").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := NewTableGenerator(grammar.Analysis(g))
	err = lrgen.CreateTables()
	conflicts, ok := err.(*Conflicts)
	if !ok {
		t.Fatalf("expected conflicts, got %v", err)
	}
	found := false
	conflicts.Each(func(c *Conflict) {
		if c.IsReduceReduce() {
			found = true
		}
	})
	if !found {
		t.Errorf("expected a reduce-reduce conflict")
	}
}

func TestConflictOverride(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(makeDanglingElse(t))
	// mark the 'else' of rule 1 (position 4) and the end of rule 0
	// (position 4) as intentionally conflicting
	lrgen.SetOverrides(map[int]map[int]bool{
		0: {4: true},
		1: {4: true},
	})
	if err := lrgen.CreateTables(); err != nil {
		t.Errorf("override should suppress the conflict, got %v", err)
	}
	// the conflict must be resolved in favor of shifting 'else'
	g := lrgen.Analysis().Grammar()
	els := g.SymbolByName("else")
	found := false
	lrgen.ActionTable().Each(func(state, symval int, a, b int32) {
		if symval == els.Value && a == ShiftAction {
			found = true
		}
	})
	if !found {
		t.Errorf("expected a shift action on 'else' after override resolution")
	}
}

func TestConflictReport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(makeDanglingElse(t))
	err := lrgen.CreateTables()
	conflicts, ok := err.(*Conflicts)
	if !ok {
		t.Fatalf("expected conflicts, got %v", err)
	}
	var sb strings.Builder
	conflicts.Report(&sb, nil, "dangling.wi")
	report := sb.String()
	if !strings.Contains(report, "shift-reduce conflict") {
		t.Errorf("report misses the conflict kind:\n%s", report)
	}
	if !strings.Contains(report, "can be shifted") || !strings.Contains(report, "can be reduced") {
		t.Errorf("report misses participants:\n%s", report)
	}
}

func TestRuntimeTablesExport(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.lr")
	defer teardown()
	//
	lrgen := NewTableGenerator(makeExprGrammar(t))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	tables := lrgen.RuntimeTables(nil)
	if tables.HaltingState != lrgen.HaltingState {
		t.Errorf("halting state lost in export")
	}
	if len(tables.Shift) == 0 || len(tables.Reduce) == 0 || len(tables.Goto) == 0 {
		t.Errorf("export produced empty tables")
	}
	if _, ok := tables.Terminals["num"]; !ok {
		t.Errorf("terminal map misses 'num'")
	}
	if _, ok := tables.Terminals["#eof"]; ok {
		t.Errorf("terminal map must not list #eof")
	}
}
