package emit

import (
	"strings"
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/lr1"
)

func makeTables(t *testing.T) *lr1.TableGenerator {
	t.Helper()
	b := grammar.NewGrammarBuilder("Parens")
	b.LHS("S").T("(").N("S").T(")").End()
	b.LHS("S").T("x").End()
	g, err := b.Grammar()
	if err != nil {
		t.Fatal(err)
	}
	lrgen := lr1.NewTableGenerator(grammar.Analysis(g))
	if err := lrgen.CreateTables(); err != nil {
		t.Fatal(err)
	}
	return lrgen
}

func TestEmitParser(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.emit")
	defer teardown()
	//
	lrgen := makeTables(t)
	var sb strings.Builder
	e := New(Source("parens.wi"))
	if err := e.Emit(&sb, lrgen, nil); err != nil {
		t.Fatal(err)
	}
	out := sb.String()
	for _, want := range []string{
		"package parens",
		"var Terminals = map[string]wisent.TokType{",
		"var tables = parser.Tables{",
		"Shift: map[parser.StateTok]int{",
		"Reduce: map[parser.StateTok]parser.Reduction{",
		"Goto: map[parser.StateSym]int{",
		"HaltingState:",
		"func NewParser(opts ...parser.Option) *parser.Parser {",
		"// source grammar: parens.wi",
		"// production rules:",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("emitted source misses %q", want)
		}
	}
	if strings.Contains(out, "#eof\": ") {
		t.Errorf("the terminal map must not export #eof")
	}
}

func TestEmitDeterministic(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.emit")
	defer teardown()
	//
	// property: byte-identical output across independent generator runs
	var out1, out2 strings.Builder
	if err := New(Source("parens.wi")).Emit(&out1, makeTables(t), map[string]bool{"_x": true}); err != nil {
		t.Fatal(err)
	}
	if err := New(Source("parens.wi")).Emit(&out2, makeTables(t), map[string]bool{"_x": true}); err != nil {
		t.Fatal(err)
	}
	if out1.String() != out2.String() {
		t.Errorf("emitted output is not deterministic")
	}
}

func TestEmitExampleInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.emit")
	defer teardown()
	//
	var sb strings.Builder
	if err := New(Source("parens.wi")).Emit(&sb, makeTables(t), nil); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(sb.String(), "// example input:") {
		t.Errorf("emitted source misses the example sentence")
	}
	if !strings.Contains(sb.String(), "//   x") {
		t.Errorf("shortest example for S should be x")
	}
}

func TestPackageNameDerivation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.emit")
	defer teardown()
	//
	tests := []struct {
		source string
		pkg    string
	}{
		{"grammar.wi", "grammar"},
		{"path/to/my-lang.wi", "mylang"},
		{"7up.wi", "parser_7up"},
	}
	for _, tc := range tests {
		if got := packageName(tc.source); got != tc.pkg {
			t.Errorf("packageName(%q) = %q, expected %q", tc.source, got, tc.pkg)
		}
	}
}
