/*
Package wisent provides shared types for the wisent parser generator and
the parsers it generates.

Wisent turns a textual grammar description into LR(1) parse tables and a
parser executing them. The packages of this module split the work as
follows: package grammar holds symbols, production rules and the static
grammar analysis (nullable symbols, FIRST- and FOLLOW-sets, shortest
expansions), package lr1 constructs the canonical LR(1) collection and
the ACTION/GOTO tables, package parser is the table-driven runtime with
parse-tree construction and error recovery, package wifile reads grammar
source files, and package emit writes the generated parser source.

This root package defines the contract between a parser and the token
stream it consumes: tokens, token types and input spans.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package wisent

import "fmt"

// --- A general purpose interface for tokens --------------------------------

// TokType is a category type for a Token. Terminal symbols of a grammar are
// assigned small positive token types during grammar construction; EOF is
// always token type 0.
type TokType int

// EOF is the token type of the synthetic end-of-input terminal. Parsers
// append an EOF token to every input stream; clients never produce one.
const EOF TokType = 0

// Tokens represent input tokens. They are usually produced by a scanner and
// reflect terminals in a language.
//
// An example would be a token for a number literal:
//
//    TokType = 3           // identifier for this kind of tokens (grammar specific)
//    Lexeme  = "3.1416"    // lexeme how it appeared in the input stream
//    Span    = 67…73       // occurred from position 67 in the input stream
//
// Clients of generated parsers implement this interface with their own token
// type; everything except TokType() is opaque payload which the parser
// carries into the leaves of the parse tree untouched.
type Token interface {
	TokType() TokType
	Lexeme() string
	Span() Span
}

// A TokenStream is a pull-based source of tokens. The parser demands one
// token at a time; the stream signals end of input by returning ok == false.
type TokenStream interface {
	Next() (tok Token, ok bool)
}

// --- Default tokens ---------------------------------------------------------

// T is a minimal token implementation, suitable for tests, for the
// interactive try-out mode and for token streams assembled in memory.
type T struct {
	Kind TokType
	Text string
	Ext  Span
}

func (t T) TokType() TokType { return t.Kind }
func (t T) Lexeme() string   { return t.Text }
func (t T) Span() Span       { return t.Ext }

// SliceStream wraps a token slice into a TokenStream.
func SliceStream(tokens []Token) TokenStream {
	return &sliceStream{tokens: tokens}
}

type sliceStream struct {
	tokens []Token
	pos    int
}

func (s *sliceStream) Next() (Token, bool) {
	if s.pos >= len(s.tokens) {
		return nil, false
	}
	t := s.tokens[s.pos]
	s.pos++
	return t, true
}

// --- Spans ------------------------------------------------------------

// Span is a small type for capturing a length of input token run. A span
// denotes a start position and the position just behind the end.
type Span [2]uint64 // (x…y)

// From returns the start value of a span.
func (s Span) From() uint64 {
	return s[0]
}

// To returns the end value of a span.
func (s Span) To() uint64 {
	return s[1]
}

// Len returns the length of (x…y)
func (s Span) Len() uint64 {
	return s[1] - s[0]
}

func (s Span) IsNull() bool {
	return s == Span{}
}

func (s Span) Extend(other Span) Span {
	if other[0] < s[0] {
		s[0] = other[0]
	}
	if other[1] > s[1] {
		s[1] = other[1]
	}
	return s
}

func (s Span) String() string {
	return fmt.Sprintf("(%d…%d)", s[0], s[1])
}
