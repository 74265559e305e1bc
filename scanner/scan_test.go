package scanner

import (
	"testing"

	"github.com/npillmayer/schuko/tracing/gotestingadapter"

	"github.com/Lalufu/wisent"
)

func testIds() map[string]wisent.TokType {
	ids := map[string]wisent.TokType{
		NameToken:  1,
		NameString: 2,
	}
	for i, lit := range Literals {
		ids[lit] = wisent.TokType(3 + i)
	}
	return ids
}

func scanAll(t *testing.T, input string) []Token {
	t.Helper()
	adapter, err := NewAdapter(testIds())
	if err != nil {
		t.Fatal(err)
	}
	scan, err := adapter.Scanner("test.wi", []byte(input))
	if err != nil {
		t.Fatal(err)
	}
	var tokens []Token
	for {
		tok, ok := scan.Next()
		if !ok {
			break
		}
		tokens = append(tokens, tok.(Token))
	}
	return tokens
}

func TestScanRule(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.scanner")
	defer teardown()
	//
	tokens := scanAll(t, "expr : expr '+' term ;")
	lexemes := []string{"expr", ":", "expr", "'+'", "term", ";"}
	if len(tokens) != len(lexemes) {
		t.Fatalf("expected %d tokens, got %d", len(lexemes), len(tokens))
	}
	for i, want := range lexemes {
		if tokens[i].Lexeme() != want {
			t.Errorf("token %d is %q, expected %q", i, tokens[i].Lexeme(), want)
		}
	}
	ids := testIds()
	if tokens[0].TokType() != ids[NameToken] {
		t.Errorf("identifier scanned as %d", tokens[0].TokType())
	}
	if tokens[3].TokType() != ids[NameString] {
		t.Errorf("string literal scanned as %d", tokens[3].TokType())
	}
}

func TestScanSkipsCommentsAndWhitespace(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.scanner")
	defer teardown()
	//
	tokens := scanAll(t, "# a comment\n  a \t b # trailing\nc")
	if len(tokens) != 3 {
		t.Fatalf("expected 3 tokens, got %d", len(tokens))
	}
}

func TestScanPositions(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.scanner")
	defer teardown()
	//
	tokens := scanAll(t, "a :\n  b ;")
	if tokens[0].Line != 1 || tokens[0].Column != 1 {
		t.Errorf("token 'a' at %d:%d, expected 1:1", tokens[0].Line, tokens[0].Column)
	}
	if tokens[2].Line != 2 || tokens[2].Column != 3 {
		t.Errorf("token 'b' at %d:%d, expected 2:3", tokens[2].Line, tokens[2].Column)
	}
}

func TestScanPunctuation(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.scanner")
	defer teardown()
	//
	tokens := scanAll(t, "a : b* c+ | ! d ;")
	kinds := []string{NameToken, ":", NameToken, "*", NameToken, "+", "|", "!", NameToken, ";"}
	if len(tokens) != len(kinds) {
		t.Fatalf("expected %d tokens, got %d", len(kinds), len(tokens))
	}
	ids := testIds()
	for i, kind := range kinds {
		if tokens[i].TokType() != ids[kind] {
			t.Errorf("token %d (%q) has type %d, expected %q", i, tokens[i].Lexeme(), tokens[i].TokType(), kind)
		}
	}
}

func TestScanDoubleQuotedString(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.scanner")
	defer teardown()
	//
	tokens := scanAll(t, `a : "num" ;`)
	if len(tokens) != 4 {
		t.Fatalf("expected 4 tokens, got %d", len(tokens))
	}
	if tokens[2].Lexeme() != `"num"` {
		t.Errorf("string lexeme is %q", tokens[2].Lexeme())
	}
	if tokens[2].TokType() != testIds()[NameString] {
		t.Errorf("double-quoted literal must scan as string")
	}
}

func TestScanReportsUnknownInput(t *testing.T) {
	teardown := gotestingadapter.QuickConfig(t, "wisent.scanner")
	defer teardown()
	//
	adapter, err := NewAdapter(testIds())
	if err != nil {
		t.Fatal(err)
	}
	scan, err := adapter.Scanner("test.wi", []byte("a @ b"))
	if err != nil {
		t.Fatal(err)
	}
	var reported []error
	scan.SetErrorHandler(func(e error) { reported = append(reported, e) })
	count := 0
	for {
		if _, ok := scan.Next(); !ok {
			break
		}
		count++
	}
	if len(reported) == 0 {
		t.Errorf("expected a scanner error for '@'")
	}
	if count != 2 {
		t.Errorf("expected scanning to continue after the error, got %d tokens", count)
	}
}
