package wifile

import (
	"sync"

	"github.com/Lalufu/wisent"
	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/lr1"
	"github.com/Lalufu/wisent/parser"
	"github.com/Lalufu/wisent/scanner"
)

// The grammar language is itself parsed with the LR(1) machinery of this
// module. Its grammar, in its own notation:
//
//    grammar : rule* ;
//    rule    : token ':' _rhs ';' ;
//    _rhs    : list | _rhs '|' list ;
//    list    : _item* ;
//    _item   : _tos | _tos '+' | _tos '*' | '!' ;
//    _tos    : token | string ;
//
// The '*'-lists are spelled out below, the way the front end would desugar
// them. All helper non-terminals are transparent, so a parse tree consists
// of a 'grammar' root over 'rule' nodes, each holding its head token, the
// punctuation, and 'list' nodes with the items of one alternative.
type meta struct {
	g        *grammar.Grammar
	tables   parser.Tables
	tokenIds map[string]wisent.TokType
	adapter  *scanner.LMAdapter
}

var metaOnce sync.Once
var metaLang *meta
var metaErr error

// metaLanguage builds the grammar-language tables once per process.
func metaLanguage() (*meta, error) {
	metaOnce.Do(func() {
		metaLang, metaErr = buildMetaLanguage()
	})
	return metaLang, metaErr
}

func buildMetaLanguage() (*meta, error) {
	b := grammar.NewGrammarBuilder("wi")
	b.LHS("grammar").N("rule*").End()
	b.LHS("rule*").Epsilon()
	b.LHS("rule*").N("rule*").N("rule").End()
	b.LHS("rule").T("token").T(":").N("_rhs").T(";").End()
	b.LHS("_rhs").N("list").End()
	b.LHS("_rhs").N("_rhs").T("|").N("list").End()
	b.LHS("list").N("_item*").End()
	b.LHS("_item*").Epsilon()
	b.LHS("_item*").N("_item*").N("_item").End()
	b.LHS("_item").N("_tos").End()
	b.LHS("_item").N("_tos").T("+").End()
	b.LHS("_item").N("_tos").T("*").End()
	b.LHS("_item").T("!").End()
	b.LHS("_tos").T("token").End()
	b.LHS("_tos").T("string").End()
	g, err := b.Grammar()
	if err != nil {
		return nil, err
	}
	ga := grammar.Analysis(g)
	lrgen := lr1.NewTableGenerator(ga)
	if err := lrgen.CreateTables(); err != nil {
		return nil, err // the language above is LR(1); this cannot happen
	}
	transparent := map[string]bool{
		"rule*": true, "_rhs": true, "_item*": true, "_item": true, "_tos": true,
	}
	m := &meta{
		g:      g,
		tables: lrgen.RuntimeTables(transparent),
	}
	m.tokenIds = map[string]wisent.TokType{}
	for _, name := range append([]string{scanner.NameToken, scanner.NameString}, scanner.Literals...) {
		sym := g.SymbolByName(name)
		if sym != nil {
			m.tokenIds[name] = sym.TokenType()
		}
	}
	if m.adapter, err = scanner.NewAdapter(m.tokenIds); err != nil {
		return nil, err
	}
	return m, nil
}
