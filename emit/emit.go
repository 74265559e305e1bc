/*
Package emit writes generated parsers as Go source.

An emitted parser is a single self-contained source file: the parse tables
as literal data, the terminal symbol table, the transparent-symbol set, and
a constructor wiring everything into the runtime driver of package parser.
The driver itself is not duplicated into the output; the generated file
imports it.

Emission is deterministic: the same grammar produces byte-identical output
on every run. The table generator's state numbering is reproducible, and the
emitter enumerates all tables in sorted order.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package emit

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"
	"strings"

	"github.com/dekarrin/rosed"
	"github.com/npillmayer/schuko/tracing"

	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/lr1"
)

// tracer traces with key 'wisent.emit'.
func tracer() tracing.Trace {
	return tracing.Select("wisent.emit")
}

// Version of the generator, quoted in emitted headers.
const Version = "0.1"

// Emitter writes generated parser source. Create one with New.
type Emitter struct {
	pkg    string // package name of the emitted file
	source string // grammar file name, for the header comment
}

// Option configures an emitter.
type Option func(e *Emitter)

// Package sets the package name of the emitted source file. Without it, a
// name is derived from the grammar file name.
func Package(name string) Option {
	return func(e *Emitter) {
		e.pkg = name
	}
}

// Source records the grammar file name for the emitted header comment.
func Source(fname string) Option {
	return func(e *Emitter) {
		e.source = fname
	}
}

// New creates an emitter.
func New(opts ...Option) *Emitter {
	e := &Emitter{}
	for _, opt := range opts {
		opt(e)
	}
	if e.pkg == "" {
		e.pkg = packageName(e.source)
	}
	return e
}

// Emit writes the generated parser for a conflict-free table generator run.
// The transparent set lists the non-terminals to flatten at parse time.
func (e *Emitter) Emit(w io.Writer, lrgen *lr1.TableGenerator, transparent map[string]bool) error {
	g := lrgen.Analysis().Grammar()
	tracer().Infof("emitting parser package %s for grammar %s", e.pkg, g.Name)
	var err error
	put := func(format string, args ...interface{}) {
		if err == nil {
			_, err = fmt.Fprintf(w, format, args...)
		}
	}

	put("// Code generated by wisent %s. DO NOT EDIT.\n", Version)
	if e.source != "" {
		put("// source grammar: %s\n", e.source)
	}
	put("// parser type: LR(1)\n")
	e.decorations(put, lrgen, g)
	put("\npackage %s\n\n", e.pkg)
	put("import (\n")
	put("\twisent %q\n", "github.com/Lalufu/wisent")
	put("\t%q\n", "github.com/Lalufu/wisent/parser")
	put(")\n\n")

	put("// Terminals maps the terminal names of the grammar to their token types.\n")
	put("// Token streams handed to the parser must use these values.\n")
	put("var Terminals = map[string]wisent.TokType{\n")
	g.EachTerminal(func(sym *grammar.Symbol) {
		if !sym.IsEOF() {
			put("\t%q: %d,\n", sym.Name, sym.Value)
		}
	})
	put("}\n\n")

	put("var tokenNames = map[wisent.TokType]string{\n")
	g.EachTerminal(func(sym *grammar.Symbol) {
		put("\t%d: %q,\n", sym.Value, sym.Name)
	})
	put("}\n\n")

	put("var transparent = map[string]bool{\n")
	var tnames []string
	for name, on := range transparent {
		if on {
			tnames = append(tnames, name)
		}
	}
	sort.Strings(tnames)
	for _, name := range tnames {
		put("\t%q: true,\n", name)
	}
	put("}\n\n")

	e.tables(put, lrgen, g)

	put("// NewParser creates a parser instance for the grammar. Instances may run\n")
	put("// in parallel; a single instance must not.\n")
	put("func NewParser(opts ...parser.Option) *parser.Parser {\n")
	put("\treturn parser.NewParser(tables, opts...)\n")
	put("}\n")
	return err
}

// decorations writes the grammar summary into the emitted header: terminal
// and non-terminal symbols, production rules, and a shortest example
// sentence.
func (e *Emitter) decorations(put func(string, ...interface{}), lrgen *lr1.TableGenerator, g *grammar.Grammar) {
	put("//\n// terminal symbols:\n")
	var tt []string
	g.EachTerminal(func(sym *grammar.Symbol) {
		if !sym.IsEOF() {
			tt = append(tt, sym.Name)
		}
	})
	commentBlock(put, strings.Join(tt, " "))
	put("//\n// non-terminal symbols:\n")
	var nn []string
	g.EachNonTerminal(func(sym *grammar.Symbol) {
		if sym != g.Start {
			nn = append(nn, sym.Name)
		}
	})
	commentBlock(put, strings.Join(nn, " "))
	put("//\n// production rules:\n")
	g.EachRule(func(r *grammar.Rule) {
		if r.Serial == grammar.AugmentedRuleSerial {
			return
		}
		var body []string
		for _, sym := range r.RHS() {
			body = append(body, sym.Name)
		}
		put("//   %s -> %s\n", r.LHS.Name, strings.Join(body, " "))
	})
	example := lrgen.Analysis().Shortcut(g.UserStart)
	if len(example) > 0 {
		put("//\n// example input:\n")
		var names []string
		for _, sym := range example {
			names = append(names, sym.Name)
		}
		commentBlock(put, strings.Join(names, " "))
	}
}

// tables writes the shift-, reduce- and goto-tables and the halting state,
// assembled into the runtime's Tables value. Cells appear in (state, symbol)
// order.
func (e *Emitter) tables(put func(string, ...interface{}), lrgen *lr1.TableGenerator, g *grammar.Grammar) {
	put("var tables = parser.Tables{\n")
	put("\tShift: map[parser.StateTok]int{\n")
	lrgen.ActionTable().Each(func(state, symval int, a, b int32) {
		if a != lr1.ShiftAction {
			return
		}
		target := lrgen.GotoTable().Value(state, symval)
		put("\t\t{%d, %d}: %d, // %s\n", state, symval, target, tokComment(g, symval))
	})
	put("\t},\n")
	put("\tReduce: map[parser.StateTok]parser.Reduction{\n")
	lrgen.ActionTable().Each(func(state, symval int, a, b int32) {
		if a == lr1.ShiftAction {
			return
		}
		r := g.Rule(int(a))
		put("\t\t{%d, %d}: {Head: %q, Sym: %d, Len: %d}, // %s\n",
			state, symval, r.LHS.Name, r.LHS.Value, r.Len(), tokComment(g, symval))
	})
	put("\t},\n")
	put("\tGoto: map[parser.StateSym]int{\n")
	lrgen.GotoTable().Each(func(state, symval int, a, b int32) {
		if symval >= 0 { // terminal targets live in the shift table
			return
		}
		put("\t\t{%d, %d}: %d, // %s\n", state, symval, a, tokComment(g, symval))
	})
	put("\t},\n")
	put("\tHaltingState: %d,\n", lrgen.HaltingState)
	put("\tTerminals:    Terminals,\n")
	put("\tTokenNames:   tokenNames,\n")
	put("\tTransparent:  transparent,\n")
	put("}\n\n")
}

func tokComment(g *grammar.Grammar, symval int) string {
	var name string
	g.EachSymbol(func(sym *grammar.Symbol) {
		if sym.Value == symval {
			name = sym.Name
		}
	})
	return name
}

// commentBlock wraps a long symbol listing into indented comment lines.
func commentBlock(put func(string, ...interface{}), text string) {
	if text == "" {
		return
	}
	wrapped := rosed.Edit(text).Wrap(72).String()
	for _, line := range strings.Split(wrapped, "\n") {
		if line == "" {
			continue
		}
		put("//   %s\n", line)
	}
}

// packageName derives a Go package name from the grammar file name.
func packageName(source string) string {
	base := filepath.Base(source)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	var sb strings.Builder
	for _, r := range base {
		if r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '_' {
			sb.WriteRune(r)
		}
	}
	name := strings.ToLower(sb.String())
	if name == "" || name[0] >= '0' && name[0] <= '9' {
		name = "parser_" + name
	}
	return name
}

