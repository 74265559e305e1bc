package grammar

// GrammarBuilder is a builder type for grammars. Clients typically use it
// like this:
//
//    b := grammar.NewGrammarBuilder("Parens")
//    b.LHS("S").T("(").N("S").T(")").End()
//    b.LHS("S").T("x").End()
//    g, err := b.Grammar()
//
// The head of the first rule becomes the start symbol, unless SetStart is
// called. Symbols are distinguished into terminals and non-terminals by the
// builder calls T and N; a name must be used consistently.
type GrammarBuilder struct {
	name    string
	st      *symtab
	rules   []*Rule
	start   *Symbol
	serials int
}

// NewGrammarBuilder creates a new builder for a grammar with the given name.
func NewGrammarBuilder(name string) *GrammarBuilder {
	return &GrammarBuilder{
		name: name,
		st:   newSymtab(),
	}
}

// LHS starts a rule for a non-terminal head symbol. Complete the rule with a
// sequence of T/N calls, terminated by End or Epsilon.
func (b *GrammarBuilder) LHS(name string) *RuleBuilder {
	return &RuleBuilder{
		gb:   b,
		head: b.st.internNonTerminal(name),
	}
}

// SetStart declares the start symbol. Without it, the head of the first rule
// is used.
func (b *GrammarBuilder) SetStart(name string) *GrammarBuilder {
	b.start = b.st.internNonTerminal(name)
	return b
}

// Grammar finalizes the builder: the rule set is cleaned up, augmented and
// returned as an immutable grammar.
func (b *GrammarBuilder) Grammar(opts ...Option) (*Grammar, error) {
	cleanup := true
	for _, opt := range opts {
		opt(&cleanup)
	}
	if b.start == nil && len(b.rules) > 0 {
		b.start = b.rules[0].LHS
	}
	return newGrammar(b.name, b.rules, b.start, b.st, cleanup)
}

// Option configures grammar finalization.
type Option func(cleanup *bool)

// WithoutCleanup suppresses the removal of non-productive and unreachable
// rules. Diagnostic tools use this to inspect a grammar as written.
func WithoutCleanup() Option {
	return func(cleanup *bool) {
		*cleanup = false
	}
}

// RuleBuilder is a builder type for a single grammar rule. It is returned
// from GrammarBuilder.LHS.
type RuleBuilder struct {
	gb   *GrammarBuilder
	head *Symbol
	rhs  []*Symbol
}

// N appends a non-terminal to the rule's RHS.
func (rb *RuleBuilder) N(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.st.internNonTerminal(name))
	return rb
}

// T appends a terminal to the rule's RHS. The terminal's token value is
// assigned at first occurrence.
func (rb *RuleBuilder) T(name string) *RuleBuilder {
	rb.rhs = append(rb.rhs, rb.gb.st.internTerminal(name))
	return rb
}

// End completes the rule and hands it to the grammar builder. It returns the
// rule's serial.
func (rb *RuleBuilder) End() int {
	r := &Rule{
		Serial: rb.gb.serials,
		LHS:    rb.head,
		rhs:    rb.rhs,
	}
	rb.gb.serials++
	rb.gb.rules = append(rb.gb.rules, r)
	rb.gb = nil // builder is spent
	return r.Serial
}

// Epsilon completes the rule as an epsilon production.
func (rb *RuleBuilder) Epsilon() int {
	rb.rhs = nil
	return rb.End()
}
