/*
Package lr1 constructs canonical LR(1) parse tables.

Clients create a Grammar, subject it to grammar analysis and then to a table
generator:

    b := grammar.NewGrammarBuilder("G")
    b.LHS("S").T("(").N("S").T(")").End()
    b.LHS("S").T("x").End()
    g, _ := b.Grammar()

    ga := grammar.Analysis(g)
    lrgen := lr1.NewTableGenerator(ga)
    if err := lrgen.CreateTables(); err != nil { ... }  // err holds all conflicts

CreateTables enumerates the canonical collection of LR(1) item sets — the
states of the characteristic finite state machine (CFSM) — and derives the
ACTION and GOTO tables from it. States are numbered in discovery order;
discovery is FIFO over the pending states with symbols visited in the
grammar's canonical symbol order. Two runs over the same grammar therefore
produce identical state numbering and identical tables.

Conflicts do not abort table construction. They are collected, each with a
shortest illustrative input prefix, and returned as a single Conflicts error
after all states have been processed.

Refer to "Crafting A Compiler" by Charles N. Fisher & Richard J. LeBlanc, Jr.,
section 6.5.1, for the canonical construction.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package lr1

import (
	"fmt"
	"sort"

	"github.com/cnf/structhash"
	"github.com/emirpasic/gods/lists/arraylist"
	"github.com/emirpasic/gods/sets/treeset"
	"github.com/emirpasic/gods/utils"
	"github.com/npillmayer/schuko/tracing"

	"github.com/Lalufu/wisent"
	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/iteratable"
	"github.com/Lalufu/wisent/sparse"
)

// tracer traces with key 'wisent.lr'.
func tracer() tracing.Trace {
	return tracing.Select("wisent.lr")
}

// Actions for parser action tables.
const (
	ShiftAction = -1 // reduce actions are encoded as non-negative rule serials
)

// === Closure and Goto-Set Operations =======================================

// closureSet computes the closure of an item set: for every item with a
// non-terminal B after the dot, the start items of all rules for B enter the
// set, with lookaheads FIRST(β·a) for item [ A ::= α • B β, a ].
func (lrgen *TableGenerator) closureSet(S *iteratable.Set) *iteratable.Set {
	C := S.Copy() // the start items are in the closure
	C.IterateOnce()
	for C.Next() {
		item := asItem(C.Item())
		B := item.PeekSymbol()
		if B == nil || B.IsTerminal() {
			continue
		}
		lookahead := lrgen.ga.FirstWithLookahead(item.tail(), item.la)
		var las []int
		las = lookahead.AppendTo(las)
		for _, r := range lrgen.g.RulesFor(B) {
			for _, la := range las {
				C.Add(Item{rule: r, dot: 0, la: wisent.TokType(la)})
			}
		}
	}
	return C
}

// gotoSet advances every item of a closure having symbol A after the dot.
// The result is not yet a closure.
func (lrgen *TableGenerator) gotoSet(closure *iteratable.Set, A *grammar.Symbol) *iteratable.Set {
	gotoset := newItemSet()
	for _, x := range closure.Values() {
		i := asItem(x)
		if i.PeekSymbol() == A {
			gotoset.Add(i.Advance())
		}
	}
	return gotoset
}

func (lrgen *TableGenerator) gotoSetClosure(S *iteratable.Set, A *grammar.Symbol) *iteratable.Set {
	gotoset := lrgen.gotoSet(S, A)
	gclosure := lrgen.closureSet(gotoset)
	tracer().Debugf("goto(%s) --%s--> %s", itemSetString(S), A, itemSetString(gclosure))
	return gclosure
}

// === CFSM Construction =====================================================

// CFSMState is a state within the CFSM for a grammar.
type CFSMState struct {
	ID     int             // serial ID of this state
	items  *iteratable.Set // configuration items within this state
	Accept bool            // is this the halting state?
	path   []*grammar.Symbol
}

// CFSM edge between 2 states, directed and with a symbol label.
type cfsmEdge struct {
	from  *CFSMState
	to    *CFSMState
	label *grammar.Symbol
}

// Dump is a debugging helper.
func (s *CFSMState) Dump() {
	tracer().Debugf("--- state %03d -----------", s.ID)
	Dump(s.items)
	tracer().Debugf("-------------------------")
}

func (s *CFSMState) String() string {
	return fmt.Sprintf("(state %d | [%d])", s.ID, s.items.Size())
}

// Path returns a shortest symbol path from the start state to this state,
// following discovery edges. It is used to illustrate conflicts.
func (s *CFSMState) Path() []*grammar.Symbol {
	return s.path
}

// We need this for the set of states. It sorts states by serial ID.
func stateComparator(s1, s2 interface{}) int {
	c1 := s1.(*CFSMState)
	c2 := s2.(*CFSMState)
	return utils.IntComparator(c1.ID, c2.ID)
}

// CFSM is the characteristic finite state machine for an LR(1) grammar.
// It will be constructed by a TableGenerator. Clients normally do not use it
// directly, but it is accessible for debugging purposes and for computing
// derived tables.
type CFSM struct {
	g       *grammar.Grammar
	states  *treeset.Set    // all the states, sorted by ID
	edges   *arraylist.List // all the edges between states
	byKey   map[string]*CFSMState
	S0      *CFSMState // start state
	cfsmIds int        // serial IDs for CFSM states
}

// create an empty (initial) CFSM automaton.
func emptyCFSM(g *grammar.Grammar) *CFSM {
	c := &CFSM{g: g}
	c.states = treeset.NewWith(stateComparator)
	c.edges = arraylist.New()
	c.byKey = map[string]*CFSMState{}
	return c
}

// Item sets are map keys during the canonical collection. We intern them by
// content: a state's key is a hash over the sorted triples
// (rule serial, dot, lookahead) of its items.
func itemSetKey(iset *iteratable.Set) string {
	type triple struct {
		Serial int
		Dot    int
		La     int
	}
	triples := make([]triple, 0, iset.Size())
	for _, x := range iset.Values() {
		i := asItem(x)
		triples = append(triples, triple{i.rule.Serial, i.dot, int(i.la)})
	}
	sort.Slice(triples, func(a, b int) bool {
		if triples[a].Serial != triples[b].Serial {
			return triples[a].Serial < triples[b].Serial
		}
		if triples[a].Dot != triples[b].Dot {
			return triples[a].Dot < triples[b].Dot
		}
		return triples[a].La < triples[b].La
	})
	hash, err := structhash.Hash(struct{ Triples []triple }{triples}, 1)
	if err != nil { // no reason for this to happen, but the API demands it
		panic(err)
	}
	return hash
}

// addState interns an item set: it returns the existing state for equal
// content, or numbers a new one.
func (c *CFSM) addState(iset *iteratable.Set) (*CFSMState, bool) {
	key := itemSetKey(iset)
	if s, ok := c.byKey[key]; ok {
		return s, false
	}
	s := &CFSMState{ID: c.cfsmIds, items: iset}
	c.cfsmIds++
	c.byKey[key] = s
	c.states.Add(s)
	return s, true
}

func (c *CFSM) addEdge(s0, s1 *CFSMState, sym *grammar.Symbol) *cfsmEdge {
	e := &cfsmEdge{from: s0, to: s1, label: sym}
	c.edges.Add(e)
	return e
}

func (c *CFSM) allEdges(s *CFSMState) []*cfsmEdge {
	it := c.edges.Iterator()
	r := make([]*cfsmEdge, 0, 2)
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		if e.from == s {
			r = append(r, e)
		}
	}
	return r
}

// States returns the number of CFSM states.
func (c *CFSM) States() int {
	return c.states.Size()
}

// EachState iterates over the CFSM's states in ID order.
func (c *CFSM) EachState(f func(s *CFSMState)) {
	it := c.states.Iterator()
	for it.Next() {
		f(it.Value().(*CFSMState))
	}
}

// EachEdge iterates over all edges of the CFSM.
func (c *CFSM) EachEdge(f func(from, to int, label *grammar.Symbol)) {
	it := c.edges.Iterator()
	for it.Next() {
		e := it.Value().(*cfsmEdge)
		f(e.from.ID, e.to.ID, e.label)
	}
}

// === Table Generation ======================================================

// TableGenerator is a generator object to construct LR(1) parser tables.
// Clients usually create a Grammar G, then an LRAnalysis-object for G, and
// then a table generator. TableGenerator.CreateTables() constructs the CFSM
// and the parser tables for an LR(1)-parser recognizing grammar G.
type TableGenerator struct {
	g            *grammar.Grammar
	ga           *grammar.LRAnalysis
	dfa          *CFSM
	gototable    *Table
	actiontable  *Table
	overrides    map[int]map[int]bool // rule serial -> marked positions
	conflicts    *Conflicts
	HaltingState int
	HasConflicts bool
}

// NewTableGenerator creates a new TableGenerator for a (previously analysed)
// grammar.
func NewTableGenerator(ga *grammar.LRAnalysis) *TableGenerator {
	lrgen := &TableGenerator{}
	lrgen.g = ga.Grammar()
	lrgen.ga = ga
	return lrgen
}

// SetOverrides hands the generator the conflict-override marks collected by
// the grammar front end: for every rule serial the set of marked positions
// (position p marks the p-th RHS symbol, counting from 1; position
// RHS-length+1 marks the rule end). A conflict whose participants all carry
// a mark at their respective positions is resolved silently.
func (lrgen *TableGenerator) SetOverrides(overrides map[int]map[int]bool) {
	lrgen.overrides = overrides
}

// Analysis returns the grammar analysis the generator operates on.
func (lrgen *TableGenerator) Analysis() *grammar.LRAnalysis {
	return lrgen.ga
}

// CFSM returns the characteristic finite state machine (CFSM) for the
// grammar. Usually clients call lrgen.CreateTables() beforehand, but it is
// possible to call lrgen.CFSM() directly. The CFSM will be created, if it
// has not been constructed previously.
func (lrgen *TableGenerator) CFSM() *CFSM {
	if lrgen.dfa == nil {
		lrgen.dfa = lrgen.buildCFSM()
	}
	return lrgen.dfa
}

// GotoTable returns the GOTO table for LR-parsing the grammar. It carries
// the successor state for every (state, symbol) transition — for terminals
// these are the shift targets, for non-terminals the goto targets. The
// tables have to be built by calling CreateTables() previously.
func (lrgen *TableGenerator) GotoTable() *Table {
	if lrgen.gototable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.gototable
}

// ActionTable returns the ACTION table for LR-parsing the grammar. Entries
// are ShiftAction or the serial of the rule to reduce. The tables have to be
// built by calling CreateTables() previously.
func (lrgen *TableGenerator) ActionTable() *Table {
	if lrgen.actiontable == nil {
		tracer().P("lr", "gen").Errorf("tables not yet initialized")
	}
	return lrgen.actiontable
}

// Conflicts returns the conflicts found during table construction, or nil.
func (lrgen *TableGenerator) Conflicts() *Conflicts {
	return lrgen.conflicts
}

// CreateTables creates the data structures for an LR(1) parser: the CFSM and
// the ACTION- and GOTO-tables. If the grammar is not LR(1), the returned
// error is a *Conflicts listing every conflict; the tables are still built
// (with conflict cells holding action pairs), so diagnostic tools may
// inspect them.
func (lrgen *TableGenerator) CreateTables() error {
	lrgen.dfa = lrgen.buildCFSM()
	lrgen.gototable = lrgen.buildGotoTable()
	lrgen.actiontable = lrgen.buildActionTable()
	lrgen.findHaltingState()
	if lrgen.HasConflicts {
		return lrgen.conflicts
	}
	return nil
}

// Construct the characteristic finite state machine CFSM for the grammar,
// i.e. the canonical collection of LR(1) item sets. Pending states are
// processed in FIFO order and symbols in the grammar's canonical order,
// making state numbering reproducible.
func (lrgen *TableGenerator) buildCFSM() *CFSM {
	tracer().Debugf("=== build CFSM ==================================================")
	G := lrgen.g
	cfsm := emptyCFSM(G)
	closure0 := lrgen.closureSet(singleton(StartItem(G)))
	cfsm.S0, _ = cfsm.addState(closure0)
	cfsm.S0.Dump()
	queue := []*CFSMState{cfsm.S0}
	for len(queue) > 0 {
		s := queue[0]
		queue = queue[1:]
		G.EachSymbol(func(A *grammar.Symbol) {
			gotoset := lrgen.gotoSetClosure(s.items, A)
			if gotoset.Empty() {
				return
			}
			snew, isNew := cfsm.addState(gotoset)
			if isNew {
				snew.path = append(append([]*grammar.Symbol{}, s.path...), A)
				queue = append(queue, snew)
				snew.Dump()
			}
			cfsm.addEdge(s, snew, A)
		})
	}
	tracer().Infof("CFSM has %d states", cfsm.states.Size())
	return cfsm
}

func singleton(i Item) *iteratable.Set {
	S := newItemSet()
	S.Add(i)
	return S
}

// buildGotoTable fills the GOTO table from the CFSM's edges.
func (lrgen *TableGenerator) buildGotoTable() *Table {
	statescnt := lrgen.dfa.states.Size()
	table := newTable(lrgen.g, statescnt, true)
	lrgen.dfa.EachState(func(state *CFSMState) {
		for _, e := range lrgen.dfa.allEdges(state) {
			table.set(state.ID, e.label.Value, int32(e.to.ID))
		}
	})
	return table
}

// For building the ACTION table we iterate over all the states of the CFSM.
// Every complete item [ A ::= γ •, a ] contributes a reduce action for its
// rule at lookahead a; every outgoing terminal edge contributes a shift
// action. Cells receiving more than one distinct action are conflicts,
// unless the grammar author marked every participant with an override.
//
// Shift entries are represented as -1 (ShiftAction). Reduce entries are
// encoded as the serial of the grammar rule to reduce. The augmented rule
// never produces a reduce entry; acceptance is reaching the halting state.
func (lrgen *TableGenerator) buildActionTable() *Table {
	statescnt := lrgen.dfa.states.Size()
	actions := newTable(lrgen.g, statescnt, false)
	lrgen.conflicts = newConflicts()
	lrgen.dfa.EachState(func(state *CFSMState) {
		cells := lrgen.collectActions(state)
		for _, cell := range cells {
			lrgen.fillCell(actions, state, cell)
		}
	})
	lrgen.HasConflicts = lrgen.conflicts.Len() > 0
	return actions
}

// actionCell describes all candidate actions of one ACTION table cell.
type actionCell struct {
	la      *grammar.Symbol // lookahead terminal
	shift   *CFSMState      // shift target, if any
	shifted []Item          // the items justifying the shift
	reduces []*grammar.Rule // rules with a complete item at this lookahead
}

// collectActions gathers the candidate actions per lookahead terminal for
// one state, in the grammar's canonical terminal order.
func (lrgen *TableGenerator) collectActions(state *CFSMState) []*actionCell {
	cells := map[*grammar.Symbol]*actionCell{}
	var order []*grammar.Symbol
	cell := func(la *grammar.Symbol) *actionCell {
		if c, ok := cells[la]; ok {
			return c
		}
		c := &actionCell{la: la}
		cells[la] = c
		order = append(order, la)
		return c
	}
	for _, x := range state.items.Values() {
		i := asItem(x)
		if !i.Completed() || i.rule.Serial == grammar.AugmentedRuleSerial {
			continue
		}
		la := lrgen.g.TerminalByValue(int(i.la))
		c := cell(la)
		if !containsRule(c.reduces, i.rule) {
			c.reduces = append(c.reduces, i.rule)
		}
	}
	for _, e := range lrgen.dfa.allEdges(state) {
		if !e.label.IsTerminal() {
			continue
		}
		c := cell(e.label)
		c.shift = e.to
		for _, x := range state.items.Values() {
			i := asItem(x)
			if i.PeekSymbol() == e.label {
				c.shifted = append(c.shifted, i)
			}
		}
	}
	result := make([]*actionCell, 0, len(order))
	for _, la := range order {
		result = append(result, cells[la])
	}
	return result
}

func containsRule(rules []*grammar.Rule, r *grammar.Rule) bool {
	for _, x := range rules {
		if x == r {
			return true
		}
	}
	return false
}

// fillCell writes one ACTION table cell and records conflicts. An overridden
// conflict is resolved silently: shift wins over reduce, and among reduces
// the rule with the lowest serial wins.
func (lrgen *TableGenerator) fillCell(actions *Table, state *CFSMState, cell *actionCell) {
	nactions := len(cell.reduces)
	if cell.shift != nil {
		nactions++
	}
	if nactions == 1 {
		if cell.shift != nil {
			actions.set(state.ID, cell.la.Value, ShiftAction)
		} else {
			actions.set(state.ID, cell.la.Value, int32(cell.reduces[0].Serial))
		}
		return
	}
	sort.Slice(cell.reduces, func(a, b int) bool {
		return cell.reduces[a].Serial < cell.reduces[b].Serial
	})
	if lrgen.overridden(cell) {
		tracer().Infof("conflict at (%d,%s) resolved by override", state.ID, cell.la)
		if cell.shift != nil {
			actions.set(state.ID, cell.la.Value, ShiftAction)
		} else {
			actions.set(state.ID, cell.la.Value, int32(cell.reduces[0].Serial))
		}
		return
	}
	// record the conflict; the table cell keeps the action pair
	text := append(lrgen.ga.ShortcutWord(state.path), cell.la)
	lrgen.conflicts.add(cell, state, text)
	if cell.shift != nil {
		actions.add(state.ID, cell.la.Value, ShiftAction)
	}
	for _, r := range cell.reduces {
		actions.add(state.ID, cell.la.Value, int32(r.Serial))
	}
}

// overridden checks whether every participant of a conflict carries an
// override mark at its position: a shift item at the position of the symbol
// after the dot, a reduce rule at the position past its last RHS symbol.
func (lrgen *TableGenerator) overridden(cell *actionCell) bool {
	if lrgen.overrides == nil {
		return false
	}
	marked := func(serial, pos int) bool {
		return lrgen.overrides[serial][pos]
	}
	for _, i := range cell.shifted {
		if !marked(i.rule.Serial, i.dot+1) {
			return false
		}
	}
	for _, r := range cell.reduces {
		if !marked(r.Serial, r.Len()+1) {
			return false
		}
	}
	return true
}

// findHaltingState locates the unique state reached by shifting #eof out of
// the state the start symbol leads to.
func (lrgen *TableGenerator) findHaltingState() {
	start := lrgen.gototable.Value(lrgen.dfa.S0.ID, lrgen.g.UserStart.Value)
	if start == lrgen.gototable.NullValue() {
		tracer().Errorf("no transition for the start symbol out of state 0")
		return
	}
	halt := lrgen.gototable.Value(int(start), lrgen.g.EOF.Value)
	if halt == lrgen.gototable.NullValue() {
		tracer().Errorf("no #eof transition out of state %d", start)
		return
	}
	lrgen.HaltingState = int(halt)
	lrgen.dfa.EachState(func(s *CFSMState) {
		if s.ID == lrgen.HaltingState {
			s.Accept = true
		}
	})
	tracer().Infof("halting state is %d", lrgen.HaltingState)
}

// --- Parser tables ----------------------------------------------------------

// Table is a parser table, implemented as a sparse matrix with rows indexed
// by state IDs. Column indices are symbol values, which may be negative for
// non-terminals; mincol shifts them into matrix range.
type Table struct {
	matrix *sparse.IntMatrix
	mincol int
}

// newTable sizes a table for a grammar: GOTO tables span all symbol values,
// ACTION tables terminals only.
func newTable(g *grammar.Grammar, states int, withNonTerms bool) *Table {
	mincol, maxcol := 0, 0
	g.EachSymbol(func(sym *grammar.Symbol) {
		if !withNonTerms && !sym.IsTerminal() {
			return
		}
		if sym.Value < mincol {
			mincol = sym.Value
		}
		if sym.Value > maxcol {
			maxcol = sym.Value
		}
	})
	extent := maxcol - mincol + 1
	tracer().Debugf("table of size %d x %d", states, extent)
	return &Table{
		matrix: sparse.NewIntMatrix(states, extent, sparse.DefaultNullValue),
		mincol: mincol,
	}
}

func (t *Table) col(symval int) int {
	j := symval - t.mincol
	if j < 0 {
		panic(fmt.Sprintf("lr1.Table access with column index < 0: %d", j))
	}
	return j
}

func (t *Table) set(i int, symval int, val int32) {
	t.matrix.Set(i, t.col(symval), val)
}

func (t *Table) add(i int, symval int, val int32) {
	t.matrix.Add(i, t.col(symval), val)
}

// NullValue returns the table's empty-cell marker.
func (t *Table) NullValue() int32 {
	return t.matrix.NullValue()
}

// Value returns the primary entry at (state, symbol value), or NullValue.
func (t *Table) Value(i int, symval int) int32 {
	return t.matrix.Value(i, t.col(symval))
}

// Values returns the pair of entries at (state, symbol value). Conflict
// cells hold two entries.
func (t *Table) Values(i int, symval int) (int32, int32) {
	return t.matrix.Values(i, t.col(symval))
}

// Each enumerates the occupied cells in (state, column) order.
func (t *Table) Each(f func(state int, symval int, a, b int32)) {
	t.matrix.Each(func(i, j int, a, b int32) {
		f(i, j+t.mincol, a, b)
	})
}

// valstring is a short helper to stringify an action table entry.
func valstring(v int32, m *Table) string {
	if v == m.NullValue() {
		return "<none>"
	} else if v == ShiftAction {
		return "<shift>"
	}
	return fmt.Sprintf("<reduce %d>", v)
}
