package grammar

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"
)

// The unambiguous expression grammar used throughout the module's tests.
//
//     expr   : expr '+' term | term ;
//     term   : term '*' factor | factor ;
//     factor : 'num' | '(' expr ')' ;
//
func makeExprGrammar(t *testing.T) *Grammar {
	b := NewGrammarBuilder("Expressions")
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
	return g
}

func first(t *testing.T, ga *LRAnalysis, name string) map[string]bool {
	return tokset(t, ga, ga.First(ga.Grammar().SymbolByName(name)).AppendTo(nil))
}

func follow(t *testing.T, ga *LRAnalysis, name string) map[string]bool {
	return tokset(t, ga, ga.Follow(ga.Grammar().SymbolByName(name)).AppendTo(nil))
}

func tokset(t *testing.T, ga *LRAnalysis, vals []int) map[string]bool {
	set := map[string]bool{}
	for _, v := range vals {
		sym := ga.Grammar().TerminalByValue(v)
		if sym == nil {
			t.Fatalf("token value %d is not a terminal", v)
		}
		set[sym.Name] = true
	}
	return set
}

func expectSet(t *testing.T, got map[string]bool, want ...string) {
	t.Helper()
	if len(got) != len(want) {
		t.Errorf("expected %v, got %v", want, got)
		return
	}
	for _, w := range want {
		if !got[w] {
			t.Errorf("expected %v, got %v", want, got)
			return
		}
	}
}

func TestFirstSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.grammar")
	defer teardown()
	//
	ga := Analysis(makeExprGrammar(t))
	expectSet(t, first(t, ga, "expr"), "num", "(")
	expectSet(t, first(t, ga, "term"), "num", "(")
	expectSet(t, first(t, ga, "factor"), "num", "(")
	expectSet(t, first(t, ga, "num"), "num")
}

func TestFollowSets(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.grammar")
	defer teardown()
	//
	ga := Analysis(makeExprGrammar(t))
	expectSet(t, follow(t, ga, "expr"), "+", ")", "#eof")
	expectSet(t, follow(t, ga, "term"), "+", "*", ")", "#eof")
	expectSet(t, follow(t, ga, "factor"), "+", "*", ")", "#eof")
}

func TestFollowOfEOFIsEmpty(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.grammar")
	defer teardown()
	//
	ga := Analysis(makeExprGrammar(t))
	if !ga.Follow(ga.Grammar().EOF).IsEmpty() {
		t.Errorf("FOLLOW(#eof) should be empty")
	}
}

func TestNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.grammar")
	defer teardown()
	//
	// list : ; list : list 'item' ;
	b := NewGrammarBuilder("Lists")
	b.LHS("list").Epsilon()
	b.LHS("list").N("list").T("item").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(g)
	if !ga.DerivesEpsilon(g.SymbolByName("list")) {
		t.Errorf("list must be nullable")
	}
	if ga.DerivesEpsilon(g.SymbolByName("item")) {
		t.Errorf("terminals are never nullable")
	}
}

func TestNullableChain(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.grammar")
	defer teardown()
	//
	// A -> B D, both nullable; A must be nullable, FIRST(A) = {b, d}
	b := NewGrammarBuilder("G")
	b.LHS("S").N("A").T("a").End()
	b.LHS("A").N("B").N("D").End()
	b.LHS("B").T("b").End()
	b.LHS("B").Epsilon()
	b.LHS("D").T("d").End()
	b.LHS("D").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(g)
	if !ga.DerivesEpsilon(g.SymbolByName("A")) {
		t.Errorf("A must be nullable")
	}
	expectSet(t, first(t, ga, "A"), "b", "d")
	expectSet(t, first(t, ga, "S"), "a", "b", "d")
	// nullability is not encoded in FIRST
	if ga.First(g.SymbolByName("A")).Len() != 2 {
		t.Errorf("FIRST(A) must contain exactly b and d")
	}
}

func TestFirstWithLookahead(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("G")
	b.LHS("S").N("B").T("a").End()
	b.LHS("B").T("b").End()
	b.LHS("B").Epsilon()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(g)
	B := g.SymbolByName("B")
	a := g.SymbolByName("a")
	// FIRST(B · eof) = {b, eof}, since B is nullable
	fi := ga.FirstWithLookahead([]*Symbol{B}, g.EOF.TokenType())
	expectSet(t, tokset(t, ga, fi.AppendTo(nil)), "b", "#eof")
	// FIRST(a · eof) = {a}
	fi = ga.FirstWithLookahead([]*Symbol{a}, g.EOF.TokenType())
	expectSet(t, tokset(t, ga, fi.AppendTo(nil)), "a")
	// FIRST(ε · eof) = {eof}
	fi = ga.FirstWithLookahead(nil, g.EOF.TokenType())
	expectSet(t, tokset(t, ga, fi.AppendTo(nil)), "#eof")
}

func TestShortcuts(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.grammar")
	defer teardown()
	//
	ga := Analysis(makeExprGrammar(t))
	g := ga.Grammar()
	short := ga.Shortcut(g.SymbolByName("expr"))
	if len(short) != 1 || short[0].Name != "num" {
		t.Errorf("shortest expansion of expr should be [num], got %v", short)
	}
	short = ga.Shortcut(g.SymbolByName("("))
	if len(short) != 1 || short[0].Name != "(" {
		t.Errorf("terminals expand to themselves, got %v", short)
	}
}

func TestShortcutNullable(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.grammar")
	defer teardown()
	//
	b := NewGrammarBuilder("Lists")
	b.LHS("list").Epsilon()
	b.LHS("list").N("list").T("item").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	ga := Analysis(g)
	if short := ga.Shortcut(g.SymbolByName("list")); len(short) != 0 {
		t.Errorf("nullable symbols expand to the empty string, got %v", short)
	}
}
