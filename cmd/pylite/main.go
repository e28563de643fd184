package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/goforj/godump"

	"github.com/pylite-lang/pylite/internal/evaluator"
	"github.com/pylite-lang/pylite/internal/lexer"
	pylog "github.com/pylite-lang/pylite/internal/log"
	"github.com/pylite-lang/pylite/internal/parser"
	"github.com/pylite-lang/pylite/internal/repl"
)

const (
	version   = "0.1.0"
	buildDate = "dev"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	fs := flag.NewFlagSet("pylite", flag.ContinueOnError)
	logLevel := fs.String("log-level", "none", "diagnostic log level: trace, debug, info, warn, error, none")
	logFile := fs.String("log-file", "", "write diagnostic logs to this file instead of stderr")
	dumpAST := fs.Bool("dump-ast", false, "pretty-print the parsed module before evaluating it")
	showVersion := fs.Bool("version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return 2
	}
	if *showVersion {
		fmt.Printf("pylite %s (%s)\n", version, buildDate)
		return 0
	}

	pylog.InitLogger(*logLevel, *logFile, true)
	defer pylog.Close()

	rest := fs.Args()
	if len(rest) == 0 {
		repl.Start(os.Stdin, os.Stdout, repl.Options{DumpAST: *dumpAST})
		return 0
	}

	return runFile(rest[0], *dumpAST)
}

func runFile(path string, dumpAST bool) int {
	src, err := os.ReadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "pylite: %v\n", err)
		return 1
	}

	p := parser.New(lexer.New(string(src)))
	mod := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(os.Stderr, "pylite: parse error:")
		for _, e := range errs {
			fmt.Fprintf(os.Stderr, "  %s\n", e)
		}
		return 1
	}
	if dumpAST {
		godump.Dump(mod)
	}

	ev := evaluator.New(os.Stdout)
	if err := ev.Run(mod); err != nil {
		fmt.Fprintf(os.Stderr, "pylite: %v\n", err)
		return 1
	}
	return 0
}
