// Package repl implements a line-edited interactive read-eval-print loop
// over the same lexer/parser/evaluator pipeline the CLI driver uses for
// whole source files.
package repl

import (
	"fmt"
	"io"
	"os"

	"github.com/peterh/liner"
	"github.com/goforj/godump"
	"golang.org/x/term"

	"github.com/pylite-lang/pylite/internal/evaluator"
	"github.com/pylite-lang/pylite/internal/lexer"
	"github.com/pylite-lang/pylite/internal/parser"
)

const prompt = ">>> "

// Options configures Start's behavior.
type Options struct {
	DumpAST bool
}

// Start runs an interactive loop over in/out. When in is a real terminal
// it uses a history-backed line editor; otherwise it reads all of in and
// evaluates it as one program, matching the behavior a piped/scripted
// invocation expects.
func Start(in *os.File, out io.Writer, opts Options) {
	ev := evaluator.New(out)

	if !term.IsTerminal(int(in.Fd())) {
		startPlain(in, out, ev, opts)
		return
	}

	line := liner.NewLiner()
	defer line.Close()
	line.SetMultiLineMode(false)

	for {
		text, err := line.Prompt(prompt)
		if err != nil {
			if err == liner.ErrPromptAborted || err == io.EOF {
				return
			}
			fmt.Fprintf(out, "input error: %v\n", err)
			return
		}
		if text == "" {
			continue
		}
		line.AppendHistory(text)
		evalLine(text, out, ev, opts)
	}
}

func startPlain(in io.Reader, out io.Writer, ev *evaluator.Evaluator, opts Options) {
	buf := make([]byte, 0, 4096)
	chunk := make([]byte, 4096)
	for {
		n, err := in.Read(chunk)
		if n > 0 {
			buf = append(buf, chunk[:n]...)
		}
		if err != nil {
			break
		}
	}
	evalLine(string(buf), out, ev, opts)
}

func evalLine(text string, out io.Writer, ev *evaluator.Evaluator, opts Options) {
	p := parser.New(lexer.New(text + "\n"))
	mod := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		fmt.Fprintln(out, "parse error:")
		for _, e := range errs {
			fmt.Fprintf(out, "  %s\n", e)
		}
		return
	}
	if opts.DumpAST {
		godump.Dump(mod)
	}
	if err := ev.Run(mod); err != nil {
		fmt.Fprintf(out, "error: %v\n", err)
	}
}
