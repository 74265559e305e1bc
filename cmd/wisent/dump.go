package main

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/lr1"
)

// dumpGrammar prints the analyzed grammar and the LR(1) automaton in a
// human-readable form: symbols, rules, nullable symbols, the number of CFSM
// states, the halting state, and the CFSM's transitions. The items of the
// states are not printed.
func dumpGrammar(g *grammar.Grammar, ga *grammar.LRAnalysis, lrgen *lr1.TableGenerator) {
	pterm.Info.Printf("grammar %s\n", g.Name)

	var tt []string
	g.EachTerminal(func(sym *grammar.Symbol) {
		if !sym.IsEOF() {
			tt = append(tt, sym.Name)
		}
	})
	fmt.Printf("terminal symbols:\n  %s\n", strings.Join(tt, " "))

	var nn []string
	g.EachNonTerminal(func(sym *grammar.Symbol) {
		if sym != g.Start {
			nn = append(nn, sym.Name)
		}
	})
	fmt.Printf("non-terminal symbols:\n  %s\n", strings.Join(nn, " "))

	fmt.Println("production rules:")
	g.EachRule(func(r *grammar.Rule) {
		if r.Serial == grammar.AugmentedRuleSerial {
			return
		}
		var body []string
		for _, sym := range r.RHS() {
			body = append(body, sym.Name)
		}
		fmt.Printf("  %3d: %s -> %s\n", r.Serial, r.LHS.Name, strings.Join(body, " "))
	})

	var nullable []string
	g.EachNonTerminal(func(sym *grammar.Symbol) {
		if ga.DerivesEpsilon(sym) {
			nullable = append(nullable, sym.Name)
		}
	})
	if len(nullable) > 0 {
		fmt.Printf("nullable symbols:\n  %s\n", strings.Join(nullable, " "))
	}

	cfsm := lrgen.CFSM()
	fmt.Printf("CFSM has %d states, halting state is %d\n", cfsm.States(), lrgen.HaltingState)
	fmt.Println("transitions:")
	cfsm.EachEdge(func(from, to int, label *grammar.Symbol) {
		fmt.Printf("  %3d --%s--> %d\n", from, label.Name, to)
	})
}
