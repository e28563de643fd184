package evaluator

import (
	"bytes"
	"strings"
	"testing"

	"github.com/pylite-lang/pylite/internal/lexer"
	"github.com/pylite-lang/pylite/internal/parser"
)

func runSource(t *testing.T, src string) string {
	t.Helper()
	p := parser.New(lexer.New(src))
	mod := p.ParseModule()
	if errs := p.Errors(); len(errs) > 0 {
		t.Fatalf("parse errors: %v", errs)
	}
	var out bytes.Buffer
	ev := New(&out)
	if err := ev.Run(mod); err != nil {
		t.Fatalf("eval error: %v", err)
	}
	return out.String()
}

func TestArithmeticAndPrint(t *testing.T) {
	got := runSource(t, "print(1 + 2 * 3)\n")
	if got != "7\n" {
		t.Fatalf("got %q", got)
	}
}

func TestFloorDivAndMod(t *testing.T) {
	got := runSource(t, "print(-7 // 2)\nprint(-7 % 2)\n")
	want := "-4\n1\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFloatSixDigits(t *testing.T) {
	got := runSource(t, "print(1 / 4)\n")
	if got != "0.250000\n" {
		t.Fatalf("got %q", got)
	}
}

func TestGlobalWriteFallthrough(t *testing.T) {
	src := strings.Join([]string{
		"x = 1",
		"def bump():",
		"    x = x + 1",
		"    print(x)",
		"bump()",
		"print(x)",
		"",
	}, "\n")
	got := runSource(t, src)
	want := "2\n2\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestLocalShadowsWithoutLeaking(t *testing.T) {
	src := strings.Join([]string{
		"def f():",
		"    y = 5",
		"    print(y)",
		"f()",
		"print(y)",
		"",
	}, "\n")
	got := runSource(t, src)
	want := "5\nNone\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFunctionDefaultsAndKeywords(t *testing.T) {
	src := strings.Join([]string{
		"def greet(name, greeting=\"hi\"):",
		"    print(greeting + \" \" + name)",
		"greet(\"a\")",
		"greet(\"b\", greeting=\"yo\")",
		"",
	}, "\n")
	got := runSource(t, src)
	want := "hi a\nyo b\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestWhileBreakContinue(t *testing.T) {
	src := strings.Join([]string{
		"i = 0",
		"total = 0",
		"while i < 10:",
		"    i = i + 1",
		"    if i % 2 == 0:",
		"        continue",
		"    if i > 7:",
		"        break",
		"    total = total + i",
		"print(total)",
		"",
	}, "\n")
	got := runSource(t, src)
	if got != "16\n" {
		t.Fatalf("got %q", got)
	}
}

func TestReturnUnwindsLoop(t *testing.T) {
	src := strings.Join([]string{
		"def first_even(n):",
		"    i = 0",
		"    while i < n:",
		"        if i % 2 == 0:",
		"            return i",
		"        i = i + 1",
		"    return -1",
		"print(first_even(7))",
		"",
	}, "\n")
	got := runSource(t, src)
	if got != "0\n" {
		t.Fatalf("got %q", got)
	}
}

func TestRecursion(t *testing.T) {
	src := strings.Join([]string{
		"def fact(n):",
		"    if n < 2:",
		"        return 1",
		"    return n * fact(n - 1)",
		"print(fact(10))",
		"",
	}, "\n")
	got := runSource(t, src)
	if got != "3628800\n" {
		t.Fatalf("got %q", got)
	}
}

func TestTruthinessAndCoercion(t *testing.T) {
	got := runSource(t, "print(bool(\"\"))\nprint(bool(\"x\"))\nprint(int(\"42\") + 1)\nprint(str(3) + \"!\")\n")
	want := "False\nTrue\n43\n3!\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestShortCircuitEvaluation(t *testing.T) {
	src := strings.Join([]string{
		"def boom():",
		"    print(\"called\")",
		"    return True",
		"x = False and boom()",
		"y = True or boom()",
		"print(x)",
		"print(y)",
		"",
	}, "\n")
	got := runSource(t, src)
	want := "False\nTrue\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestFormatString(t *testing.T) {
	src := "name = \"world\"\nprint(f\"hello {name}, {1 + 1}\")\n"
	got := runSource(t, src)
	if got != "hello world, 2\n" {
		t.Fatalf("got %q", got)
	}
}

func TestTupleReprAndEquality(t *testing.T) {
	src := "t = (1, \"a\", (2, \"b\"))\nprint(t)\nprint((1,) == (1,))\n"
	got := runSource(t, src)
	want := "(1, 'a', (2, 'b'))\nTrue\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestChainedComparison(t *testing.T) {
	got := runSource(t, "print(1 < 2 < 3)\nprint(1 < 2 < 0)\n")
	want := "True\nFalse\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestMultiTargetAssignment(t *testing.T) {
	got := runSource(t, "a = b = 5\nprint(a)\nprint(b)\n")
	want := "5\n5\n"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestAugmentedAssignment(t *testing.T) {
	got := runSource(t, "x = 10\nx //= 3\nprint(x)\n")
	if got != "3\n" {
		t.Fatalf("got %q", got)
	}
}

func TestDivisionByZeroIsHostError(t *testing.T) {
	p := parser.New(lexer.New("print(1 // 0)\n"))
	mod := p.ParseModule()
	var out bytes.Buffer
	ev := New(&out)
	if err := ev.Run(mod); err == nil {
		t.Fatal("expected division-by-zero error")
	}
}
