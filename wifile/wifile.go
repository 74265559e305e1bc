/*
Package wifile reads grammar description files.

A grammar file is a sequence of rules of the form

    head : item … | item … | … ;

where items are identifiers (non-terminals, or terminals if they never occur
as a rule head) and quoted string literals (terminals), optionally suffixed
with '*' or '+'. The quotes are stripped, so a literal names the same symbol
as an identifier with the same text: a literal whose text is also a rule
head refers to that non-terminal. A leading '!' marks the following item as a conflict
override. Identifiers starting with '_' name transparent non-terminals.
'#' starts a line comment.

The file is tokenized by package scanner and parsed with a generated parser
for the grammar language itself, error recovery included: a syntactically
broken grammar file yields diagnostics for every problem found, not just the
first one. The '*' and '+' suffixes are desugared into fresh transparent
helper non-terminals here, so the grammar handed to the analysis is plain
BNF.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package wifile

import (
	"fmt"
	"os"
	"strings"

	"github.com/npillmayer/schuko/tracing"

	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/parser"
	"github.com/Lalufu/wisent/scanner"
)

// tracer traces with key 'wisent.wifile'.
func tracer() tracing.Trace {
	return tracing.Select("wisent.wifile")
}

// maxErr bounds the number of reported errors in a grammar file.
const maxErr = 100

// Pos is a source location within a grammar file.
type Pos struct {
	Line int
	Col  int
}

// RawRule is one extracted production: a head and the symbol names of its
// RHS, with '*'/'+' already desugared. Positions holds a source location for
// the head, each RHS symbol, and the rule terminator, in this order.
type RawRule struct {
	Head      string
	Body      []string
	Positions []Pos
}

// File is the result of reading a grammar file: the extracted rules plus
// everything the table generator and the diagnostics need to know about
// their origin.
type File struct {
	Name        string
	Rules       []*RawRule
	Transparent map[string]bool      // '_'-prefixed and synthetic non-terminals
	Overrides   map[int]map[int]bool // rule serial -> '!'-marked positions
	Errors      []*parser.ParseError // recovered syntax errors in the file
}

// ReadFile reads and parses a grammar file. See Read.
func ReadFile(fname string) (*File, error) {
	input, err := os.ReadFile(fname)
	if err != nil {
		return nil, err
	}
	return Read(input, fname)
}

// Read parses grammar source. If the source has recoverable syntax errors,
// the returned File carries them in its Errors field and still holds the
// rules of the repaired parse; callers report them with FormatErrors and
// treat the run as failed. If no repair was possible, the returned File
// carries the errors but no rules, and the *parser.ParseErrors is returned
// as well. A nil File is returned on other failures, e.g. if the input could
// not be tokenized at all.
func Read(input []byte, fname string) (*File, error) {
	m, err := metaLanguage()
	if err != nil {
		return nil, err
	}
	scan, err := m.adapter.Scanner(fname, input)
	if err != nil {
		return nil, err
	}
	var scanErr error
	scan.SetErrorHandler(func(e error) {
		if scanErr == nil {
			scanErr = e
		}
		tracer().Errorf("%s: %v", fname, e)
	})
	file := &File{
		Name:        fname,
		Transparent: map[string]bool{},
		Overrides:   map[int]map[int]bool{},
	}
	p := parser.NewParser(m.tables, parser.MaxErrors(maxErr))
	tree, err := p.Parse(scan)
	if err != nil {
		pe, ok := err.(*parser.ParseErrors)
		if !ok {
			return nil, err
		}
		file.Errors = pe.Errors
		if pe.Tree == nil {
			return file, err
		}
		tree = pe.Tree
	}
	if scanErr != nil && len(file.Errors) == 0 {
		return nil, fmt.Errorf("%s: %v", fname, scanErr)
	}
	file.extractRules(tree)
	return file, nil
}

// Grammar builds the grammar from the extracted rules. Identifiers which
// occur as a rule head become non-terminals, everything else is a terminal.
func (f *File) Grammar() (*grammar.Grammar, error) {
	heads := map[string]bool{}
	for _, r := range f.Rules {
		heads[r.Head] = true
	}
	b := grammar.NewGrammarBuilder(f.Name)
	for _, r := range f.Rules {
		rb := b.LHS(r.Head)
		for _, sym := range r.Body {
			if heads[sym] {
				rb.N(sym)
			} else {
				rb.T(sym)
			}
		}
		rb.End()
	}
	return b.Grammar()
}

// Locate resolves a rule position to a source location, for conflict
// reports. Position 0 is the rule head, 1…n the RHS symbols, n+1 the rule
// terminator.
func (f *File) Locate(serial, pos int) (line, col int, ok bool) {
	if serial < 0 || serial >= len(f.Rules) {
		return 0, 0, false
	}
	pp := f.Rules[serial].Positions
	if len(pp) == 0 {
		return 0, 0, false
	}
	if pos >= len(pp) {
		pos = len(pp) - 1
	}
	if pp[pos] == (Pos{}) {
		return 0, 0, false
	}
	return pp[pos].Line, pp[pos].Col, true
}

// --- Rule extraction --------------------------------------------------------

// A scanned item of one alternative: the symbol name plus metadata.
type item struct {
	name string
	kind string // the terminal class of the leaf: "token", "string", "+", …
	pos  Pos
}

// extractRules walks the parse tree of a grammar file and collects the
// production rules. '+' and '*' suffixes are expanded here, by introducing
// fresh transparent helper symbols; '!' markers are removed from the rules
// and recorded in the override table.
func (f *File) extractRules(tree *parser.Node) {
	for _, ruleNode := range tree.Children {
		if ruleNode.IsLeaf() || ruleNode.Sym != "rule" {
			continue
		}
		f.extractRule(ruleNode)
	}
}

func (f *File) extractRule(ruleNode *parser.Node) {
	if len(ruleNode.Children) < 2 {
		return
	}
	head, ok := leafItem(ruleNode.Children[0])
	if !ok || head.name == "" {
		// a repaired tree may synthesize the head token; the damage has
		// already been reported, skip the rule
		return
	}
	if strings.HasPrefix(head.name, "_") {
		f.Transparent[head.name] = true
	}
	var tail []item
	for _, child := range ruleNode.Children[2:] {
		if !child.IsLeaf() { // a 'list' node: the items of one alternative
			tail = tail[:0]
			for _, it := range child.Children {
				if li, ok := leafItem(it); ok {
					tail = append(tail, li)
				}
			}
			continue
		}
		if child.Sym != "|" && child.Sym != ";" {
			continue
		}
		terminator, _ := leafItem(child)
		f.addAlternative(head, append([]item{}, tail...), terminator)
	}
}

// addAlternative records one desugared alternative, plus the helper rules
// for any '+'/'*' suffixes it contains.
func (f *File) addAlternative(head item, tail []item, terminator item) {
	res := append([]item{head}, tail...)
	res = append(res, terminator)

	// expand suffixes right to left, so 'a b* c' sees its own symbols
	var todo []item
	for i := len(res) - 2; i > 1; i-- {
		if res[i].kind != "+" && res[i].kind != "*" {
			continue
		}
		base := res[i-1]
		synth := item{name: base.name + res[i].kind, kind: "token", pos: base.pos}
		if !f.Transparent[synth.name] {
			f.Transparent[synth.name] = true
			todo = append(todo, item{name: synth.name, kind: res[i].kind, pos: base.pos})
		}
		res = append(res[:i-1], append([]item{synth}, res[i+1:]...)...)
	}

	// strip '!' markers, recording the position of the item they precede
	var force []int
	for i := 0; i < len(res); {
		if res[i].kind == "!" {
			force = append(force, i)
			res = append(res[:i], res[i+1:]...)
		} else {
			i++
		}
	}

	serial := len(f.Rules)
	rule := &RawRule{Head: res[0].name}
	for _, it := range res {
		rule.Positions = append(rule.Positions, it.pos)
	}
	for _, it := range res[1 : len(res)-1] {
		rule.Body = append(rule.Body, it.name)
	}
	f.Rules = append(f.Rules, rule)
	if len(force) > 0 {
		marks := map[int]bool{}
		for _, p := range force {
			marks[p] = true
		}
		f.Overrides[serial] = marks
	}

	// helper rules:  X+ -> X | X+ X     X* -> | X* X
	for _, synth := range todo {
		base := strings.TrimSuffix(synth.name, synth.kind)
		pp := []Pos{synth.pos, synth.pos, synth.pos, synth.pos}
		if synth.kind == "+" {
			f.Rules = append(f.Rules,
				&RawRule{Head: synth.name, Body: []string{base}, Positions: pp[:3]},
				&RawRule{Head: synth.name, Body: []string{synth.name, base}, Positions: pp})
		} else {
			f.Rules = append(f.Rules,
				&RawRule{Head: synth.name, Body: nil, Positions: pp[:2]},
				&RawRule{Head: synth.name, Body: []string{synth.name, base}, Positions: pp})
		}
	}
}

// leafItem converts a parse tree leaf into an item, stripping the quotes of
// string literals. Tokens synthesized by error recovery have no payload and
// yield ok == false for the token classes which need one.
func leafItem(n *parser.Node) (item, bool) {
	if !n.IsLeaf() {
		return item{}, false
	}
	it := item{kind: n.Sym}
	if st, ok := n.Token.(scanner.Token); ok {
		it.pos = Pos{Line: st.Line, Col: st.Column}
	}
	switch n.Sym {
	case scanner.NameToken:
		it.name = n.Token.Lexeme()
		return it, it.name != ""
	case scanner.NameString:
		lex := n.Token.Lexeme()
		if len(lex) < 2 {
			return it, false
		}
		it.name = lex[1 : len(lex)-1]
		return it, it.name != ""
	default:
		it.name = n.Sym
		return it, true
	}
}
