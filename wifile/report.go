package wifile

import (
	"fmt"
	"io"
	"sort"
	"strings"
	"unicode"

	"github.com/Lalufu/wisent"
	"github.com/Lalufu/wisent/parser"
	"github.com/Lalufu/wisent/scanner"
)

// FormatErrors writes the syntax errors recorded while reading the grammar
// file, one per line, in compiler style:
//
//    grammar.wi:3:12: missing ';' (found token "expr")
//
// Errors without a usable location are prefixed with the file name only.
func (f *File) FormatErrors(w io.Writer) {
	m, err := metaLanguage()
	if err != nil {
		return
	}
	for _, pe := range f.Errors {
		f.formatError(w, m, pe)
	}
	if len(f.Errors) >= maxErr {
		f.printError(w, "too many errors, giving up ...", Pos{})
	}
}

func (f *File) formatError(w io.Writer, m *meta, pe *parser.ParseError) {
	if pe.Token == nil || pe.Token.TokType() == wisent.EOF {
		f.printError(w, "unexpected end of file", Pos{})
		return
	}
	pos := Pos{}
	if st, ok := pe.Token.(scanner.Token); ok {
		pos = Pos{Line: st.Line, Col: st.Column}
	}
	tp := quote(m.tables.TokenName(pe.Token.TokType()))
	val := pe.Token.Lexeme()
	found := tp
	if val != "" && quote(val) != tp {
		found = fmt.Sprintf("%s %q", tp, val)
	}

	expected := make([]string, 0, len(pe.Expected))
	expectEnd := false
	for _, e := range pe.Expected {
		if e == wisent.EOF {
			expectEnd = true
			continue
		}
		expected = append(expected, quote(m.tables.TokenName(e)))
	}
	if len(expected) == 1 && !expectEnd {
		f.printError(w, fmt.Sprintf("missing %s (found %s)", expected[0], found), pos)
		return
	}
	sort.Strings(expected)
	if expectEnd {
		expected = append(expected, "end of file")
	}
	var msg string
	switch len(expected) {
	case 0:
		msg = fmt.Sprintf("parse error before %s", found)
	case 1:
		msg = fmt.Sprintf("parse error before %s, expected %s", found, expected[0])
	default:
		msg = fmt.Sprintf("parse error before %s, expected %s or %s", found,
			strings.Join(expected[:len(expected)-1], ", "), expected[len(expected)-1])
	}
	f.printError(w, msg, pos)
}

func (f *File) printError(w io.Writer, msg string, pos Pos) {
	prefix := "error: "
	if f.Name != "" {
		if pos.Line > 0 {
			prefix = fmt.Sprintf("%s:%d:%d: ", f.Name, pos.Line, pos.Col)
		} else {
			prefix = f.Name + ": "
		}
	}
	fmt.Fprintln(w, prefix+msg)
}

// quote wraps non-alphabetic token names in single quotes.
func quote(s string) string {
	for _, r := range s {
		if !unicode.IsLetter(r) {
			return "'" + s + "'"
		}
	}
	return s
}
