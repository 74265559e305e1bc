package grammar

import (
	"golang.org/x/tools/container/intsets"

	"github.com/Lalufu/wisent"
)

// LRAnalysis is the static analysis of a grammar, as needed by LR table
// generation: the set of nullable symbols, FIRST- and FOLLOW-sets, and
// shortest terminal expansions. Create one with Analysis(g); the analysis is
// immutable afterwards.
//
// FIRST- and FOLLOW-sets contain token values of terminals. Nullability is
// tracked separately and never encoded as a pseudo-entry of a FIRST-set.
type LRAnalysis struct {
	g         *Grammar
	nullable  map[*Symbol]bool
	first     map[*Symbol]*intsets.Sparse
	follow    map[*Symbol]*intsets.Sparse
	shortcuts map[*Symbol][]*Symbol
}

// Analysis creates and computes the analysis for a grammar. All fixpoint
// computations run to completion here; the result is the mathematically
// unique least fixpoint, independent of rule order.
func Analysis(g *Grammar) *LRAnalysis {
	ga := &LRAnalysis{
		g:        g,
		nullable: map[*Symbol]bool{},
		first:    map[*Symbol]*intsets.Sparse{},
		follow:   map[*Symbol]*intsets.Sparse{},
	}
	g.EachSymbol(func(sym *Symbol) {
		ga.first[sym] = &intsets.Sparse{}
		ga.follow[sym] = &intsets.Sparse{}
		if sym.IsTerminal() {
			ga.first[sym].Insert(sym.Value)
		}
	})
	ga.computeNullable()
	ga.computeFirst()
	ga.computeFollow()
	ga.computeShortcuts()
	return ga
}

// Grammar returns the grammar this analysis is for.
func (ga *LRAnalysis) Grammar() *Grammar {
	return ga.g
}

// DerivesEpsilon is true iff sym can derive the empty string.
func (ga *LRAnalysis) DerivesEpsilon(sym *Symbol) bool {
	return ga.nullable[sym]
}

// First returns FIRST(sym): the token values of all terminals which may
// begin a derivation of sym. Callers must not modify the returned set.
func (ga *LRAnalysis) First(sym *Symbol) *intsets.Sparse {
	return ga.first[sym]
}

// Follow returns FOLLOW(sym): the token values of all terminals which may
// appear immediately after sym in a sentential form derivable from the
// start symbol. Callers must not modify the returned set.
func (ga *LRAnalysis) Follow(sym *Symbol) *intsets.Sparse {
	return ga.follow[sym]
}

// FirstOfWord computes FIRST for a word of symbols, skipping over nullable
// prefixes. The empty word yields the empty set.
func (ga *LRAnalysis) FirstOfWord(word []*Symbol) *intsets.Sparse {
	fi := &intsets.Sparse{}
	for _, sym := range word {
		fi.UnionWith(ga.first[sym])
		if !ga.nullable[sym] {
			break
		}
	}
	return fi
}

// FirstWithLookahead computes FIRST(word·a), i.e. FIRST of the word followed
// by the single terminal a. This is the lookahead computation of the LR(1)
// closure operation: if the whole word is nullable, a itself is in the set.
func (ga *LRAnalysis) FirstWithLookahead(word []*Symbol, a wisent.TokType) *intsets.Sparse {
	fi := &intsets.Sparse{}
	for _, sym := range word {
		fi.UnionWith(ga.first[sym])
		if !ga.nullable[sym] {
			return fi
		}
	}
	fi.Insert(int(a))
	return fi
}

// IsNullableWord is true iff every symbol of the word is nullable. The empty
// word is nullable.
func (ga *LRAnalysis) IsNullableWord(word []*Symbol) bool {
	for _, sym := range word {
		if !ga.nullable[sym] {
			return false
		}
	}
	return true
}

// --- Fixpoint computations --------------------------------------------------

// A symbol is nullable iff some rule for it has an all-nullable RHS.
func (ga *LRAnalysis) computeNullable() {
	for changed := true; changed; {
		changed = false
		ga.g.EachRule(func(r *Rule) {
			if ga.nullable[r.LHS] {
				return
			}
			if ga.IsNullableWord(r.rhs) {
				ga.nullable[r.LHS] = true
				changed = true
			}
		})
	}
	tracer().Debugf("%d symbols are nullable", len(ga.nullable))
}

// For every rule, FIRST of the head absorbs FIRST of the RHS prefix up to
// and including the first non-nullable symbol.
func (ga *LRAnalysis) computeFirst() {
	for changed := true; changed; {
		changed = false
		ga.g.EachRule(func(r *Rule) {
			fi := ga.FirstOfWord(r.rhs)
			if ga.first[r.LHS].UnionWith(fi) {
				changed = true
			}
		})
	}
}

// For every rule X -> ... Y β, FOLLOW(Y) absorbs FIRST(β), and FOLLOW(X) as
// well if β is nullable.
func (ga *LRAnalysis) computeFollow() {
	for changed := true; changed; {
		changed = false
		ga.g.EachRule(func(r *Rule) {
			for i, sym := range r.rhs {
				rest := r.rhs[i+1:]
				fo := ga.FirstOfWord(rest)
				if ga.IsNullableWord(rest) {
					fo.UnionWith(ga.follow[r.LHS])
				}
				if ga.follow[sym].UnionWith(fo) {
					changed = true
				}
			}
		})
	}
}
