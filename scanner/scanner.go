/*
Package scanner tokenizes grammar source files.

The grammar language is small: identifiers, quoted string literals, a handful
of punctuation characters, and '#'-comments. The tokenizer is built on
lexmachine; the caller supplies the token values to assign, so that the
produced tokens line up with the terminals of the grammar-language grammar in
package wifile.

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package scanner

import (
	"github.com/npillmayer/schuko/tracing"
	"github.com/timtadh/lexmachine"
	"github.com/timtadh/lexmachine/machines"

	"github.com/Lalufu/wisent"
)

// tracer traces with key 'wisent.scanner'.
func tracer() tracing.Trace {
	return tracing.Select("wisent.scanner")
}

// Tokenizer is a scanner interface: a token stream with an error hook.
// Scanner errors (unrecognized input characters) are reported through the
// handler; scanning continues behind the offending character.
type Tokenizer interface {
	wisent.TokenStream
	SetErrorHandler(func(error))
}

// Names of the grammar language's composite token classes. Punctuation
// classes are named by their literal.
const (
	NameToken  = "token"  // identifiers
	NameString = "string" // quoted string literals
)

// Literals of the grammar language.
var Literals = []string{":", "|", ";", "*", "+", "!"}

// LMAdapter wraps a compiled lexmachine DFA for the grammar language.
// Create one with NewAdapter; one adapter serves any number of inputs.
type LMAdapter struct {
	lexer *lexmachine.Lexer
}

// NewAdapter compiles the grammar-language DFA. tokenIds maps the token
// class names — "token", "string" and the literals — to the token values
// the scanner shall emit. NewAdapter returns an error if compiling the DFA
// failed.
func NewAdapter(tokenIds map[string]wisent.TokType) (*LMAdapter, error) {
	adapter := &LMAdapter{lexer: lexmachine.NewLexer()}
	skip := func(*lexmachine.Scanner, *machines.Match) (interface{}, error) {
		return nil, nil
	}
	adapter.lexer.Add([]byte(`( |\t|\n|\r)+`), skip)
	adapter.lexer.Add([]byte(`#[^\n]*`), skip)
	adapter.lexer.Add([]byte(`[a-zA-Z_][a-zA-Z0-9_]*`), makeToken(tokenIds[NameToken]))
	adapter.lexer.Add([]byte(`'[^']*'`), makeToken(tokenIds[NameString]))
	adapter.lexer.Add([]byte(`"[^"]*"`), makeToken(tokenIds[NameString]))
	for _, lit := range Literals {
		adapter.lexer.Add([]byte(`\`+lit), makeToken(tokenIds[lit]))
	}
	if err := adapter.lexer.Compile(); err != nil {
		tracer().Errorf("error compiling DFA: %v", err)
		return nil, err
	}
	return adapter, nil
}

// makeToken wraps a scanned match into a token.
func makeToken(id wisent.TokType) lexmachine.Action {
	return func(s *lexmachine.Scanner, m *machines.Match) (interface{}, error) {
		return s.Token(int(id), string(m.Bytes), m), nil
	}
}

// Scanner creates a tokenizer for one input. The file name is not used;
// errors reach the handler without it.
func (lm *LMAdapter) Scanner(fname string, input []byte) (*LMScanner, error) {
	s, err := lm.lexer.Scanner(input)
	if err != nil {
		return nil, err
	}
	return &LMScanner{scanner: s, Error: logError}, nil
}

// LMScanner is a scanner for one input, implementing the Tokenizer
// interface.
type LMScanner struct {
	scanner *lexmachine.Scanner
	Error   func(error)
}

var _ Tokenizer = (*LMScanner)(nil)

// Default error reporting function for scanners.
func logError(e error) {
	tracer().Errorf("scanner error: %v", e)
}

// SetErrorHandler sets an error handler for the scanner.
func (s *LMScanner) SetErrorHandler(h func(error)) {
	if h == nil {
		s.Error = logError
		return
	}
	s.Error = h
}

// Next is part of the TokenStream interface. Unrecognized input is reported
// to the error handler and skipped.
func (s *LMScanner) Next() (wisent.Token, bool) {
	tok, err, eof := s.scanner.Next()
	for err != nil {
		s.Error(err)
		if ui, is := err.(*machines.UnconsumedInput); is {
			s.scanner.TC = ui.FailTC + 1
		} else {
			return nil, false
		}
		tok, err, eof = s.scanner.Next()
	}
	if eof {
		return nil, false
	}
	t := tok.(*lexmachine.Token)
	return Token{
		Kind:   wisent.TokType(t.Type),
		Text:   string(t.Lexeme),
		Line:   t.StartLine,
		Column: t.StartColumn,
		Ext:    wisent.Span{uint64(t.TC), uint64(t.TC + len(t.Lexeme))},
	}, true
}

// --- Tokens -----------------------------------------------------------------

// Token is the token type produced for grammar source files. Besides the
// input span it records line and column, which end up in diagnostics and in
// the rule-location table for conflict reports.
type Token struct {
	Kind   wisent.TokType
	Text   string
	Line   int
	Column int
	Ext    wisent.Span
}

func (t Token) TokType() wisent.TokType { return t.Kind }
func (t Token) Lexeme() string          { return t.Text }
func (t Token) Span() wisent.Span       { return t.Ext }
