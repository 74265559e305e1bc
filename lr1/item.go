package lr1

import (
	"fmt"

	"github.com/Lalufu/wisent"
	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/iteratable"
)

// Item is an LR(1) item: a production rule with a dot position and a single
// terminal lookahead. Items are values and comparable; item sets rely on
// this.
//
//    [ stmt ::= 'if' 'expr' • stmt, 'else' ]
//
// The dot runs from 0 (before the first RHS symbol) to the length of the
// RHS (completed item).
type Item struct {
	rule *grammar.Rule
	dot  int
	la   wisent.TokType // lookahead terminal token value
}

// NullItem is the invalid item.
var NullItem = Item{}

// StartItem returns the initial item of the canonical collection:
// the augmented rule with the dot at position 0 and lookahead #eof.
func StartItem(g *grammar.Grammar) Item {
	return Item{
		rule: g.AugmentedRule(),
		dot:  0,
		la:   wisent.EOF,
	}
}

// Rule returns the item's production rule.
func (i Item) Rule() *grammar.Rule {
	return i.rule
}

// Dot returns the item's dot position.
func (i Item) Dot() int {
	return i.dot
}

// Lookahead returns the item's lookahead token value.
func (i Item) Lookahead() wisent.TokType {
	return i.la
}

// PeekSymbol returns the symbol after the dot, or nil for a completed item.
func (i Item) PeekSymbol() *grammar.Symbol {
	if i.dot >= i.rule.Len() {
		return nil
	}
	return i.rule.RHS()[i.dot]
}

// Completed is true if the dot has passed the last RHS symbol.
func (i Item) Completed() bool {
	return i.dot >= i.rule.Len()
}

// Advance returns the item with the dot moved one symbol to the right, or
// NullItem for a completed item.
func (i Item) Advance() Item {
	if i.Completed() {
		return NullItem
	}
	return Item{rule: i.rule, dot: i.dot + 1, la: i.la}
}

// tail returns the RHS symbols after the symbol after the dot, i.e. β in
// [ A ::= α • B β, a ].
func (i Item) tail() []*grammar.Symbol {
	if i.dot+1 >= i.rule.Len() {
		return nil
	}
	return i.rule.RHS()[i.dot+1:]
}

func (i Item) String() string {
	s := fmt.Sprintf("[%s ::= ", i.rule.LHS.Name)
	for n, sym := range i.rule.RHS() {
		if n == i.dot {
			s += "• "
		}
		s += sym.Name + " "
	}
	if i.Completed() {
		s += "• "
	}
	return s + fmt.Sprintf(", %d]", i.la)
}

// --- Item sets --------------------------------------------------------------

func newItemSet() *iteratable.Set {
	return iteratable.NewSet(0)
}

func asItem(x interface{}) Item {
	if item, ok := x.(Item); ok {
		return item
	}
	return NullItem
}

// Dump logs an item set to the tracer (level Debug).
func Dump(S *iteratable.Set) {
	S.Each(func(x interface{}) {
		tracer().Debugf("    %s", asItem(x))
	})
}

func itemSetString(S *iteratable.Set) string {
	s := "{"
	first := true
	for _, x := range S.Values() {
		if first {
			s += " "
			first = false
		} else {
			s += ", "
		}
		s += asItem(x).String()
	}
	return s + " }"
}
