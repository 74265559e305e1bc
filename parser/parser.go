/*
Package parser implements the runtime for generated LR(1) parsers.

The parser is a deterministic pushdown automaton driven by the tables of
package lr1 (or by the table literals of an emitted parser). Its stack holds
pairs of a state and a partial parse tree; shifting pushes a leaf, reducing
pops the handle and pushes an inner node. Inner nodes of transparent
non-terminals — synthetic symbols introduced by '*'/'+' desugaring, and any
non-terminal whose name starts with '_' — are spliced into their parent, so
finished trees stay compact.

When the automaton stalls, the parser does not give up: it records the error
and tries to repair the input. A small window around the offending token is
re-parsed, and single-token edits (insert, substitute, delete) are trialled;
the edit leaving the fewest tokens unconsumed is taken if it beats the
unedited window. Parsing then resumes with the repaired input. All recorded errors are surfaced after the
run in a single ParseErrors value, together with the repaired tree.

A Parser instance owns its stack and lookahead and must not be used for
concurrent Parse calls; since instances share no mutable state, any number
of them may run in parallel on the same Tables.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package parser

import (
	"github.com/npillmayer/schuko/tracing"

	"github.com/Lalufu/wisent"
)

// tracer traces with key 'wisent.parser'.
func tracer() tracing.Trace {
	return tracing.Select("wisent.parser")
}

// Parser is a table-driven LR(1) parser with error recovery. Create one with
// NewParser; a parser may be re-used for any number of sequential Parse
// calls.
type Parser struct {
	tables Tables
	maxErr int // abort after this many errors; 0 = unlimited
	pre    int // tokens of left context in the repair window
	post   int // tokens of lookahead in the repair window
}

// NewParser creates a parser for a set of tables.
func NewParser(tables Tables, opts ...Option) *Parser {
	p := &Parser{
		tables: tables,
		pre:    4,
		post:   4,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Option configures a parser.
type Option func(p *Parser)

// MaxErrors limits the number of parse errors before the parser gives up.
// The default of 0 means unlimited.
func MaxErrors(n int) Option {
	return func(p *Parser) {
		p.maxErr = n
	}
}

// RecoveryWindow configures the repair window: pre tokens of already-parsed
// left context and post tokens of additional lookahead. Both default to 4.
func RecoveryWindow(pre, post int) Option {
	return func(p *Parser) {
		p.pre = pre
		p.post = post
	}
}

// Tables returns the tables the parser is driven by.
func (p *Parser) Tables() Tables {
	return p.tables
}

// We store pairs of states and partial parse trees on the parse stack.
type stackitem struct {
	state int
	node  *Node
}

// input is the parser's token source. Repaired queues are pushed to the
// front; an #eof token is synthesized after the client's stream is
// exhausted.
type input struct {
	pending []wisent.Token
	stream  wisent.TokenStream
	eofSent bool
}

func (in *input) next() (wisent.Token, bool) {
	if len(in.pending) > 0 {
		tok := in.pending[0]
		in.pending = in.pending[1:]
		return tok, true
	}
	if in.stream != nil {
		if tok, ok := in.stream.Next(); ok {
			return tok, true
		}
		if !in.eofSent {
			in.eofSent = true
			return wisent.T{Kind: wisent.EOF, Text: "#eof"}, true
		}
	}
	return nil, false
}

func (in *input) prepend(queue []wisent.Token) {
	in.pending = append(append([]wisent.Token{}, queue...), in.pending...)
}

// Parse runs the automaton over a token stream and constructs a parse tree.
// The parser appends an end-of-input token internally; the stream just ends.
//
// On a clean parse the error result is nil. If the parser stalled along the
// way, the error is a *ParseErrors listing every recorded error; the
// returned tree is then the repaired tree (also available as the
// ParseErrors' Tree field), or nil if recovery failed.
func (p *Parser) Parse(stream wisent.TokenStream) (*Node, error) {
	var errors []*ParseError
	in := &input{stream: stream}
	stack := make([]stackitem, 0, 512)
	state := 0
	for {
		done, _, st, stalled := p.parseTree(in, &stack, state)
		state = st
		if done {
			break
		}
		expected := p.tables.Expected(state)
		errors = append(errors, &ParseError{
			Token:    stalled,
			Expected: expected,
			Stack:    snapshot(stack),
		})
		if p.maxErr > 0 && len(errors) >= p.maxErr {
			return nil, &ParseErrors{Errors: errors}
		}
		if stalled == nil {
			// Input ran dry below the halting state; there is no token to
			// repair around.
			return nil, &ParseErrors{Errors: errors}
		}
		var ok bool
		if state, stack, ok = p.recover(in, stack, stalled); !ok {
			return nil, &ParseErrors{Errors: errors}
		}
	}
	tree := stack[0].node
	if len(errors) > 0 {
		return tree, &ParseErrors{Errors: errors, Tree: tree}
	}
	return tree, nil
}

// parseTree is the inner shift/reduce loop. It drives the automaton until
// the halting state is reached, the input is exhausted, or no action exists
// for the current (state, lookahead) pair.
//
// It returns (done, count, state, stalled): done is true iff the halting
// state was reached, count is the number of shifted tokens, and stalled is
// the offending token of a stall (nil when the input ran dry or on
// success).
func (p *Parser) parseTree(in *input, stack *[]stackitem, state int) (bool, int, int, wisent.Token) {
	readNext := true
	var readahead wisent.Token
	count := 0
	for state != p.tables.HaltingState {
		if readNext {
			var ok bool
			if readahead, ok = in.next(); !ok {
				return false, count, state, nil
			}
			readNext = false
		}
		token := readahead.TokType()

		if red, ok := p.tables.Reduce[StateTok{state, token}]; ok {
			var node *Node
			if red.Len > 0 {
				popped := (*stack)[len(*stack)-red.Len:]
				state = popped[0].state
				node = p.assemble(red, popped)
				*stack = (*stack)[:len(*stack)-red.Len]
			} else {
				node = &Node{Sym: red.Head}
			}
			tracer().Debugf("reduce %v", node)
			next, ok := p.tables.Goto[StateSym{state, red.Sym}]
			if !ok { // cannot happen with well-formed tables
				return false, count, state, readahead
			}
			*stack = append(*stack, stackitem{state, node})
			state = next
		} else if next, ok := p.tables.Shift[StateTok{state, token}]; ok {
			tracer().Debugf("shift %q", p.tables.TokenName(token))
			*stack = append(*stack, stackitem{state, p.leaf(readahead)})
			state = next
			readNext = true
			count++
		} else {
			return false, count, state, readahead
		}
	}
	return true, count, state, nil
}

// assemble builds the inner node for a reduction. Children with a
// transparent head are spliced in: their own children take their place.
func (p *Parser) assemble(red Reduction, popped []stackitem) *Node {
	node := &Node{Sym: red.Head}
	for _, s := range popped {
		if !s.node.IsLeaf() && p.tables.Transparent[s.node.Sym] {
			node.Children = append(node.Children, s.node.Children...)
		} else {
			node.Children = append(node.Children, s.node)
		}
	}
	return node
}

func (p *Parser) leaf(tok wisent.Token) *Node {
	return &Node{Sym: p.tables.TokenName(tok.TokType()), Token: tok}
}

func snapshot(stack []stackitem) []*Node {
	nodes := make([]*Node, len(stack))
	for i, s := range stack {
		nodes[i] = s.node
	}
	return nodes
}

// --- Error recovery ---------------------------------------------------------

// recover tries to resynchronize a stalled parse. It forms a window of the
// last few already-consumed tokens, the offending token and a few tokens of
// additional lookahead, re-parses the consumed part, and then searches for a
// single-token edit of the window which lets a trial parse advance further
// than the unedited window does. On success the repaired window is pushed
// back onto the input and parsing resumes; the returned state and stack
// replace the caller's.
func (p *Parser) recover(in *input, stack []stackitem, stalled wisent.Token) (int, []stackitem, bool) {
	// split off a window: all consumed tokens replay, except the last pre
	// ones, which join the offending token in the repair queue
	var replay, queue []wisent.Token
	for _, s := range stack {
		for _, t := range s.node.Leaves() {
			queue = append(queue, t)
			if len(queue) > p.pre {
				replay = append(replay, queue[0])
				queue = queue[1:]
			}
		}
	}
	queue = append(queue, stalled)

	// re-parse the replay part from state 0 to restore a stack for trials
	stack = stack[:0]
	rin := &input{pending: replay}
	_, _, state, _ := p.parseTree(rin, &stack, 0)

	m := len(queue)
	for i := 0; i < p.post; i++ {
		tok, ok := in.next()
		if !ok {
			break
		}
		queue = append(queue, tok)
	}
	tracer().Debugf("repair window of %d+%d tokens", m, len(queue)-m)

	trialStack := make([]int, 0, len(stack)+8)
	baseline := len(queue) - m + 1
	bestVal := baseline
	bestQueue := queue
	terminals := p.tables.terminalTypes()
	for _, q2 := range p.varyQueue(queue, m, terminals) {
		trialStack = trialStack[:0]
		for _, s := range stack {
			trialStack = append(trialStack, s.state)
		}
		pos := p.tryParse(q2, trialStack, state)
		if val := len(q2) - pos; val < bestVal {
			bestVal = val
			bestQueue = q2
			if val == 0 { // candidate fully consumed, cannot do better
				break
			}
		}
	}
	if bestVal >= baseline {
		return state, stack, false
	}
	in.prepend(bestQueue)
	return state, stack, true
}

// varyQueue enumerates all single-edit variations of the first m positions
// of the repair queue: for every position, right to left, the insertion of
// every terminal, the substitution by every other terminal, and the
// deletion. The end-of-input token is never substituted or deleted.
func (p *Parser) varyQueue(queue []wisent.Token, m int, terminals []wisent.TokType) [][]wisent.Token {
	var qq [][]wisent.Token
	edit := func(prefix []wisent.Token, mid []wisent.Token, suffix []wisent.Token) []wisent.Token {
		q2 := make([]wisent.Token, 0, len(prefix)+len(mid)+len(suffix))
		q2 = append(q2, prefix...)
		q2 = append(q2, mid...)
		q2 = append(q2, suffix...)
		return q2
	}
	for i := m - 1; i >= 0; i-- {
		for _, t := range terminals {
			qq = append(qq, edit(queue[:i], []wisent.Token{p.synthesize(t)}, queue[i:]))
		}
		if queue[i].TokType() == wisent.EOF {
			continue
		}
		for _, t := range terminals {
			if t == queue[i].TokType() {
				continue
			}
			qq = append(qq, edit(queue[:i], []wisent.Token{p.synthesize(t)}, queue[i+1:]))
		}
		qq = append(qq, edit(queue[:i], nil, queue[i+1:]))
	}
	return qq
}

// synthesize creates a repair token for a terminal. It carries no payload;
// leaves built from it are recognizable by their empty lexeme.
func (p *Parser) synthesize(t wisent.TokType) wisent.Token {
	return wisent.T{Kind: t, Text: ""}
}

// tryParse runs the automaton over a fixed token slice without building
// trees. It returns how many tokens were consumed before the automaton
// halted or stalled. The stack holds states only.
func (p *Parser) tryParse(queue []wisent.Token, stack []int, state int) int {
	count := 0
	for state != p.tables.HaltingState && count < len(queue) {
		token := queue[count].TokType()

		if red, ok := p.tables.Reduce[StateTok{state, token}]; ok {
			if red.Len > 0 {
				if red.Len > len(stack) {
					break // malformed trial stack, give up on this candidate
				}
				state = stack[len(stack)-red.Len]
				stack = stack[:len(stack)-red.Len]
			}
			next, ok := p.tables.Goto[StateSym{state, red.Sym}]
			if !ok {
				break
			}
			stack = append(stack, state)
			state = next
		} else if next, ok := p.tables.Shift[StateTok{state, token}]; ok {
			stack = append(stack, state)
			state = next
			count++
		} else {
			break
		}
	}
	return count
}
