/*
Package grammar implements context free grammars and their static analysis.

Building a Grammar

Grammars are specified using a grammar builder object. Clients add rules,
consisting of non-terminal symbols and terminals. Grammars may contain
epsilon-productions.

Example:

    b := grammar.NewGrammarBuilder("G")
    b.LHS("S").N("A").T("a").End()     // S  ->  A a
    b.LHS("A").T("b").End()            // A  ->  b
    b.LHS("A").Epsilon()               // A  ->

Construction subjects the rule set to a cleanup step: non-productive rules
(rules which can never derive a string of terminals) and unreachable rules
are dropped, and the grammar is augmented with a fresh start symbol S' and
an end-of-input terminal, adding the rule

    S' -> S #eof

Cleanup may be suppressed for diagnostic purposes; augmentation always
happens.

Static Grammar Analysis

After the grammar is complete, it has to be analysed. For this end, the
grammar is subjected to an LRAnalysis object, which determines all nullable
symbols and computes FIRST- and FOLLOW-sets for the grammar.

    ga := grammar.Analysis(g)
    ga.Grammar().EachNonTerminal(func(A *grammar.Symbol) {
        fmt.Printf("FIRST(%s) = %v", A.Name, ga.First(A))
    })

The analysis object also provides shortest terminal expansions per symbol,
which the table generator uses to illustrate conflicts and the emitter uses
to produce example input.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package grammar

import (
	"fmt"

	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'wisent.grammar'.
func tracer() tracing.Trace {
	return tracing.Select("wisent.grammar")
}

// Grammar is an immutable set of production rules together with a
// distinguished start symbol. Create one with a GrammarBuilder.
//
// After construction the grammar is augmented: Start is the synthetic start
// symbol S', EOF the synthetic end-of-input terminal, and the augmented rule
//
//    S' -> UserStart #eof
//
// carries the reserved serial AugmentedRuleSerial.
type Grammar struct {
	Name      string             // a grammar has a name, for documentation purposes
	Start     *Symbol            // augmented start symbol S'
	UserStart *Symbol            // the start symbol the client declared
	EOF       *Symbol            // synthetic end-of-input terminal
	rules     []*Rule            // augmented rule first, then retained rules in input order
	bySerial  map[int]*Rule      // rule lookup by serial
	byHead    map[*Symbol][]*Rule
	symtab    *symtab
	cleanedup bool
}

// AugmentedRuleSerial is the reserved rule serial of S' -> UserStart #eof.
const AugmentedRuleSerial = -1

// Size returns the number of rules, including the augmented rule.
func (g *Grammar) Size() int {
	return len(g.rules)
}

// Rule returns the rule with a given serial, or nil. The augmented rule has
// serial AugmentedRuleSerial.
func (g *Grammar) Rule(serial int) *Rule {
	return g.bySerial[serial]
}

// AugmentedRule returns S' -> UserStart #eof.
func (g *Grammar) AugmentedRule() *Rule {
	return g.bySerial[AugmentedRuleSerial]
}

// RulesFor returns all rules with a given head symbol, in input order.
func (g *Grammar) RulesFor(head *Symbol) []*Rule {
	return g.byHead[head]
}

// EachRule iterates over all rules, the augmented rule first, then user
// rules in input order.
func (g *Grammar) EachRule(f func(r *Rule)) {
	for _, r := range g.rules {
		f(r)
	}
}

// EachSymbol iterates over all symbols of the grammar, in order of first
// occurrence, with the synthetic symbols S' and #eof last. The iteration
// order is stable across runs; the table generator relies on this for
// reproducible state numbering.
func (g *Grammar) EachSymbol(f func(sym *Symbol)) {
	for _, sym := range g.symtab.symbols {
		f(sym)
	}
}

// EachTerminal iterates over the terminals of the grammar, #eof included.
func (g *Grammar) EachTerminal(f func(sym *Symbol)) {
	g.EachSymbol(func(sym *Symbol) {
		if sym.IsTerminal() {
			f(sym)
		}
	})
}

// EachNonTerminal iterates over the non-terminals of the grammar, S'
// included.
func (g *Grammar) EachNonTerminal(f func(sym *Symbol)) {
	g.EachSymbol(func(sym *Symbol) {
		if !sym.IsTerminal() {
			f(sym)
		}
	})
}

// Terminals returns the terminals of the grammar, #eof included.
func (g *Grammar) Terminals() []*Symbol {
	var tt []*Symbol
	g.EachTerminal(func(sym *Symbol) { tt = append(tt, sym) })
	return tt
}

// NonTerminals returns the non-terminals of the grammar, S' included.
func (g *Grammar) NonTerminals() []*Symbol {
	var nn []*Symbol
	g.EachNonTerminal(func(sym *Symbol) { nn = append(nn, sym) })
	return nn
}

// SymbolByName returns the symbol with a given name, or nil.
func (g *Grammar) SymbolByName(name string) *Symbol {
	return g.symtab.byName[name]
}

// TerminalByValue returns the terminal with a given token value, or nil.
func (g *Grammar) TerminalByValue(v int) *Symbol {
	sym := g.symtab.byValue[v]
	if sym == nil || !sym.IsTerminal() {
		return nil
	}
	return sym
}

// Dump logs the grammar's rules to the tracer (level Debug).
func (g *Grammar) Dump() {
	tracer().Debugf("--- grammar %s ----------", g.Name)
	for _, r := range g.rules {
		tracer().Debugf("%3d: %s", r.Serial, r)
	}
	tracer().Debugf("-------------------------")
}

// --- Construction and cleanup ----------------------------------------------

// newGrammar performs cleanup and augmentation on a builder's rule set.
func newGrammar(name string, rules []*Rule, start *Symbol, st *symtab, cleanup bool) (*Grammar, error) {
	if len(rules) == 0 {
		return nil, RulesError("empty grammar")
	}
	if cleanup {
		var err error
		rules, err = cleanupRules(rules, start)
		if err != nil {
			return nil, err
		}
	}
	g := &Grammar{
		Name:      name,
		UserStart: start,
		symtab:    st,
		cleanedup: cleanup,
	}
	// augmentation: mint S' and #eof, insert S' -> start #eof
	g.EOF = st.internTerminal(st.freshName("#eof"), eofTokenValue)
	g.Start = st.internNonTerminal(st.freshName("S'"))
	augmented := &Rule{
		Serial: AugmentedRuleSerial,
		LHS:    g.Start,
		rhs:    []*Symbol{start, g.EOF},
	}
	g.rules = append([]*Rule{augmented}, rules...)
	g.bySerial = make(map[int]*Rule, len(g.rules))
	g.byHead = make(map[*Symbol][]*Rule)
	for _, r := range g.rules {
		g.bySerial[r.Serial] = r
		g.byHead[r.LHS] = append(g.byHead[r.LHS], r)
	}
	st.dropUnused(g)
	return g, nil
}

// cleanupRules removes non-productive and unreachable rules. It fails if the
// start symbol itself is non-productive.
func cleanupRules(rules []*Rule, start *Symbol) ([]*Rule, error) {
	// remove non-terminal symbols which do not generate terminal strings
	productive := map[*Symbol]bool{}
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			if productive[r.LHS] {
				continue
			}
			ok := true
			for _, sym := range r.rhs {
				if !sym.IsTerminal() && !productive[sym] {
					ok = false
					break
				}
			}
			if ok {
				productive[r.LHS] = true
				changed = true
			}
		}
	}
	if !productive[start] {
		return nil, RulesError(fmt.Sprintf("start symbol %s doesn't generate terminals", start.Name))
	}
	retained := rules[:0]
	for _, r := range rules {
		ok := true
		for _, sym := range r.rhs {
			if !sym.IsTerminal() && !productive[sym] {
				ok = false
				break
			}
		}
		if ok {
			retained = append(retained, r)
		} else {
			tracer().Debugf("dropping non-productive rule %s", r)
		}
	}
	rules = retained

	// remove rules for unreachable symbols
	reachable := map[*Symbol]bool{start: true}
	for changed := true; changed; {
		changed = false
		for _, r := range rules {
			if !reachable[r.LHS] {
				continue
			}
			for _, sym := range r.rhs {
				if !reachable[sym] {
					reachable[sym] = true
					changed = true
				}
			}
		}
	}
	retained = rules[:0]
	for _, r := range rules {
		if reachable[r.LHS] {
			retained = append(retained, r)
		} else {
			tracer().Debugf("dropping unreachable rule %s", r)
		}
	}
	return retained, nil
}
