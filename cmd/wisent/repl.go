package main

import (
	"fmt"
	"strings"

	"github.com/chzyer/readline"
	"github.com/pterm/pterm"

	"github.com/Lalufu/wisent"
	"github.com/Lalufu/wisent/lr1"
	"github.com/Lalufu/wisent/parser"
	"github.com/Lalufu/wisent/wifile"
)

// repl lets the user try out the freshly built tables: every input line is a
// whitespace-separated sequence of terminal names, which is run through the
// parser; the resulting parse tree or the parse errors are printed.
func repl(lrgen *lr1.TableGenerator, file *wifile.File) {
	tables := lrgen.RuntimeTables(file.Transparent)
	pterm.Info.Println("enter sentences of terminal symbols; quit with <ctrl>D")
	rl, err := readline.New("wisent> ")
	if err != nil {
		fail(err.Error())
	}
	defer rl.Close()
	for {
		line, err := rl.Readline()
		if err != nil { // io.EOF on <ctrl>D
			break
		}
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		tokens, err := tokenizeSentence(line, tables)
		if err != nil {
			pterm.Error.Println(err.Error())
			continue
		}
		p := parser.NewParser(tables)
		tree, err := p.Parse(wisent.SliceStream(tokens))
		if err != nil {
			reportSentenceErrors(err, tables)
		}
		if tree != nil {
			fmt.Print(parser.Sprint(tree))
		}
	}
}

// tokenizeSentence splits an input line into terminal tokens. Terminal names
// may be written with or without quotes.
func tokenizeSentence(line string, tables parser.Tables) ([]wisent.Token, error) {
	var tokens []wisent.Token
	for _, field := range strings.Fields(line) {
		name := strings.Trim(field, "'\"")
		tok, ok := tables.Terminals[name]
		if !ok {
			return nil, fmt.Errorf("not a terminal of the grammar: %s", field)
		}
		tokens = append(tokens, wisent.T{Kind: tok, Text: name})
	}
	return tokens, nil
}

func reportSentenceErrors(err error, tables parser.Tables) {
	pe, ok := err.(*parser.ParseErrors)
	if !ok {
		pterm.Error.Println(err.Error())
		return
	}
	for _, e := range pe.Errors {
		var expected []string
		for _, tok := range e.Expected {
			expected = append(expected, tables.TokenName(tok))
		}
		if e.Token == nil || e.Token.TokType() == wisent.EOF {
			pterm.Error.Printf("unexpected end of input, expected %s\n",
				strings.Join(expected, ", "))
			continue
		}
		pterm.Error.Printf("parse error before %s, expected %s\n",
			tables.TokenName(e.Token.TokType()), strings.Join(expected, ", "))
	}
	if pe.Tree != nil {
		pterm.Info.Println("recovered with a repaired tree:")
	}
}
