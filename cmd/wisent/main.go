/*
wisent is a parser generator for LR(1) grammars.

Usage:

    wisent [options] grammar.wi

Given a textual grammar description, wisent constructs canonical LR(1) parse
tables and emits a Go source file containing the tables and a constructor
for a ready-to-run parser. Conflicts in the grammar are reported with
illustrative input strings, all of them in a single run.

Options:

    -t, --type T         parser type (lr1; ll1, lr0, slr are diagnostics-only)
    -o, --output FILE    write the generated parser to FILE (default stdout)
    -p, --package NAME   package name for the generated source
    -d, --dump           print grammar and automaton diagnostics
    -i, --interactive    try out sentences against the grammar
        --trace LEVEL    trace level [Debug|Info|Error]
    -V, --version        show version information
    -h, --help           show usage

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package main

import (
	"fmt"
	"os"

	"github.com/npillmayer/schuko/gtrace"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/pterm/pterm"
	"github.com/spf13/pflag"

	"github.com/Lalufu/wisent/emit"
	"github.com/Lalufu/wisent/grammar"
	"github.com/Lalufu/wisent/lr1"
	"github.com/Lalufu/wisent/wifile"
)

var parserTypes = map[string]string{
	"ll1": "LL(1)",
	"lr0": "LR(0)",
	"slr": "SLR",
	"lr1": "LR(1)",
}

func main() {
	ptype := pflag.StringP("type", "t", "lr1", "parser type (lr1, ll1, lr0, slr)")
	output := pflag.StringP("output", "o", "", "output file for the generated parser")
	pkg := pflag.StringP("package", "p", "", "package name for the generated source")
	dump := pflag.BoolP("dump", "d", false, "print grammar and automaton diagnostics")
	interactive := pflag.BoolP("interactive", "i", false, "try out sentences against the grammar")
	tlevel := pflag.String("trace", "Error", "trace level [Debug|Info|Error]")
	version := pflag.BoolP("version", "V", false, "show version information")
	help := pflag.BoolP("help", "h", false, "show this message")
	pflag.Parse()

	if *help {
		fmt.Println("usage: wisent [options] grammar")
		pflag.PrintDefaults()
		os.Exit(0)
	}
	if *version {
		fmt.Printf("wisent %s\n", emit.Version)
		os.Exit(0)
	}

	// set up logging
	initDisplay()
	gtrace.SyntaxTracer = gologadapter.New()
	for _, key := range []string{"wisent.grammar", "wisent.lr", "wisent.parser", "wisent.scanner", "wisent.wifile", "wisent.emit"} {
		tracing.Select(key).SetTraceLevel(traceLevel(*tlevel))
	}

	if pflag.NArg() < 1 {
		fail("no grammar file specified")
	}
	if pflag.NArg() > 1 {
		fail("too many command line arguments")
	}
	source := pflag.Arg(0)
	typeName, ok := parserTypes[*ptype]
	if !ok {
		fail(fmt.Sprintf("invalid parser type %s", *ptype))
	}

	// read the grammar file; syntax errors are recovered and all reported
	file, err := wifile.ReadFile(source)
	if err != nil {
		if file != nil && len(file.Errors) > 0 {
			file.FormatErrors(os.Stderr)
		} else {
			fail(err.Error())
		}
		os.Exit(1)
	}
	hasErrors := len(file.Errors) > 0
	if hasErrors {
		file.FormatErrors(os.Stderr)
	}

	g, err := file.Grammar()
	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", source, err)
		os.Exit(1)
	}
	ga := grammar.Analysis(g)
	lrgen := lr1.NewTableGenerator(ga)
	lrgen.SetOverrides(file.Overrides)
	if err = lrgen.CreateTables(); err != nil {
		if conflicts, ok := err.(*lr1.Conflicts); ok {
			conflicts.Report(os.Stderr, file.Locate, source)
			fmt.Fprintf(os.Stderr, "%s: %s, aborting ...\n", source, conflicts.Error())
		} else {
			fmt.Fprintf(os.Stderr, "%s: %v\n", source, err)
		}
		os.Exit(1)
	}
	if hasErrors {
		os.Exit(1)
	}

	if *dump {
		dumpGrammar(g, ga, lrgen)
	}
	if *interactive {
		repl(lrgen, file)
		os.Exit(0)
	}
	if *ptype != "lr1" {
		pterm.Info.Printf("parser type %s is diagnostics-only, no parser emitted\n", typeName)
		os.Exit(0)
	}

	// emit the parser
	var opts []emit.Option
	opts = append(opts, emit.Source(source))
	if *pkg != "" {
		opts = append(opts, emit.Package(*pkg))
	}
	out := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			fail(err.Error())
		}
		defer f.Close()
		out = f
	}
	if err := emit.New(opts...).Emit(out, lrgen, file.Transparent); err != nil {
		fail(err.Error())
	}
}

func fail(msg string) {
	fmt.Fprintf(os.Stderr, "error: %s\n", msg)
	os.Exit(1)
}

// We use pterm for moderately fancy output.
func initDisplay() {
	pterm.Info.Prefix = pterm.Prefix{
		Text:  "  >>",
		Style: pterm.NewStyle(pterm.BgCyan, pterm.FgBlack),
	}
	pterm.Error.Prefix = pterm.Prefix{
		Text:  "  Error",
		Style: pterm.NewStyle(pterm.BgRed, pterm.FgBlack),
	}
}

func traceLevel(l string) tracing.TraceLevel {
	switch l {
	case "Debug", "debug":
		return tracing.LevelDebug
	case "Info", "info":
		return tracing.LevelInfo
	}
	return tracing.LevelError
}
