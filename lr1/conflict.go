package lr1

import (
	"fmt"
	"io"
	"strings"

	"github.com/Lalufu/wisent/grammar"
)

// Conflicts is the list of LR(1) conflicts of a grammar. In order to report
// all discovered conflicts in one run, table construction never aborts on
// the first conflict; it collects every one of them here and returns the
// collection as a single error value.
//
// Conflicts are keyed by their participating actions. If the same action set
// conflicts in more than one state, only the occurrence with the shortest
// illustrative input is kept.
type Conflicts struct {
	list  map[string]*Conflict
	order []string // insertion order, for deterministic reports
}

// Conflict describes one conflicting ACTION table cell: a state, a lookahead
// terminal, the participating actions, and a shortest terminal string which
// drives the parser into the state (the illustrative input).
type Conflict struct {
	State     int
	Lookahead *grammar.Symbol
	Shift     []ShiftParticipant
	Reduces   []*grammar.Rule
	Path      []*grammar.Symbol // symbol path from state 0 into State
	Text      []*grammar.Symbol // shortest terminal expansion of Path, plus Lookahead
}

// ShiftParticipant is a shift action involved in a conflict: a rule and the
// position of the shifted symbol within it (counting from 1).
type ShiftParticipant struct {
	Rule *grammar.Rule
	Pos  int
}

// IsReduceReduce is true if more than one reduction participates.
func (c *Conflict) IsReduceReduce() bool {
	return len(c.Reduces) > 1
}

func newConflicts() *Conflicts {
	return &Conflicts{list: map[string]*Conflict{}}
}

// Len returns the number of recorded conflicts.
func (c *Conflicts) Len() int {
	return len(c.list)
}

// Error makes Conflicts usable as an error value.
func (c *Conflicts) Error() string {
	if c.Len() == 1 {
		return "1 conflict"
	}
	return fmt.Sprintf("%d conflicts", c.Len())
}

// Each iterates over the recorded conflicts, in order of first discovery.
func (c *Conflicts) Each(f func(conflict *Conflict)) {
	for _, key := range c.order {
		f(c.list[key])
	}
}

func (c *Conflicts) add(cell *actionCell, state *CFSMState, text []*grammar.Symbol) {
	conflict := &Conflict{
		State:     state.ID,
		Lookahead: cell.la,
		Reduces:   cell.reduces,
		Path:      state.path,
		Text:      text,
	}
	for _, i := range cell.shifted {
		conflict.Shift = append(conflict.Shift, ShiftParticipant{Rule: i.rule, Pos: i.dot + 1})
	}
	key := conflict.signature()
	if old, ok := c.list[key]; ok {
		if textLen(text) >= textLen(old.Text) {
			return
		}
		c.list[key] = conflict // keep the shorter illustration
		return
	}
	c.list[key] = conflict
	c.order = append(c.order, key)
}

// The signature identifies a conflict by its participating actions,
// independent of the state it occurred in.
func (c *Conflict) signature() string {
	var sb strings.Builder
	for _, s := range c.Shift {
		fmt.Fprintf(&sb, "S%d.%d|", s.Rule.Serial, s.Pos)
	}
	for _, r := range c.Reduces {
		fmt.Fprintf(&sb, "R%d|", r.Serial)
	}
	return sb.String()
}

func textLen(text []*grammar.Symbol) int {
	n := 0
	for _, sym := range text {
		n += len(sym.Name)
	}
	return n
}

// --- Reporting --------------------------------------------------------------

// RuleLocator resolves a (rule serial, position) pair to a source location.
// Position 0 is the rule's head, positions 1…n its RHS symbols, position n+1
// the rule end. The front end, which knows the grammar file, provides this;
// programmatically built grammars pass nil.
type RuleLocator func(serial, pos int) (line, col int, ok bool)

// Report writes a human-readable description of all conflicts, one line per
// message, each prefixed with "file:line:col: " as far as locations are
// known. This mirrors the compiler-style diagnostics of the command line
// tool.
func (c *Conflicts) Report(w io.Writer, locate RuleLocator, fname string) {
	c.Each(func(conflict *Conflict) {
		var pending []string
		flush := func(line, col int, ok bool) {
			for _, msg := range pending {
				printDiagnostic(w, msg, line, col, ok, fname)
			}
			pending = pending[:0]
		}
		ruleLine := func(r *grammar.Rule, pos int) {
			pending = append(pending, "    "+ruleWithDot(r, pos)+";")
			if locate != nil {
				line, col, ok := locate(r.Serial, pos)
				flush(line, col, ok)
			} else {
				flush(0, 0, false)
			}
		}

		kind := "shift-reduce"
		if conflict.IsReduceReduce() {
			kind = "reduce-reduce"
		}
		pending = append(pending, kind+" conflict: the input")
		pending = append(pending, "    "+illustration(conflict.Text)+" ...")

		cont := ""
		if len(conflict.Shift) > 0 {
			msg := "  can be shifted using "
			if len(conflict.Shift) > 1 {
				msg += "one of the production rules"
			} else {
				msg += "the production rule"
			}
			pending = append(pending, msg)
			for _, s := range conflict.Shift {
				ruleLine(s.Rule, s.Pos)
			}
			cont = "or "
		}
		for _, r := range conflict.Reduces {
			pending = append(pending, "  "+cont+"can be reduced to")
			pending = append(pending, "    "+reduceIllustration(conflict, r)+" ...")
			pending = append(pending, "  using the production rule")
			ruleLine(r, r.Len()+1)
			cont = "or "
		}
	})
}

// illustration renders terminals as "t1 t2 … .la", the dot separating the
// consumed input from the lookahead.
func illustration(text []*grammar.Symbol) string {
	if len(text) == 0 {
		return "."
	}
	names := make([]string, 0, len(text)-1)
	for _, sym := range text[:len(text)-1] {
		names = append(names, sym.Name)
	}
	return strings.Join(names, " ") + "." + text[len(text)-1].Name
}

// reduceIllustration replaces the handle at the end of the conflict's path
// by the rule's head symbol.
func reduceIllustration(conflict *Conflict, r *grammar.Rule) string {
	path := conflict.Path
	if r.Len() <= len(path) {
		path = path[:len(path)-r.Len()]
	}
	var sb strings.Builder
	for _, sym := range path {
		sb.WriteString(sym.Name)
		sb.WriteString(" ")
	}
	sb.WriteString(r.LHS.Name)
	sb.WriteString(".")
	sb.WriteString(conflict.Lookahead.Name)
	return sb.String()
}

// ruleWithDot renders a rule as "head: a b.c" with the dot at a position.
func ruleWithDot(r *grammar.Rule, pos int) string {
	var sb strings.Builder
	sb.WriteString(r.LHS.Name)
	sb.WriteString(":")
	for i, sym := range r.RHS() {
		if i+1 == pos {
			sb.WriteString(".")
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString(sym.Name)
	}
	if pos > r.Len() {
		sb.WriteString(".")
	}
	return sb.String()
}

func printDiagnostic(w io.Writer, msg string, line, col int, haveLoc bool, fname string) {
	prefix := "error: "
	if fname != "" {
		if haveLoc {
			prefix = fmt.Sprintf("%s:%d:%d: ", fname, line, col)
		} else {
			prefix = fname + ": "
		}
	}
	fmt.Fprintln(w, prefix+msg)
}
