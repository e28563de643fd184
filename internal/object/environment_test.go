package object

import (
	"testing"

	"github.com/pylite-lang/pylite/internal/ast"
)

func TestGetUnboundNameIsNoneNotError(t *testing.T) {
	env := NewEnvironment()
	if got := env.Get("missing"); got.Kind() != NoneKind {
		t.Fatalf("got %v, want None", got)
	}
}

func TestAssignFallsThroughToExistingGlobal(t *testing.T) {
	env := NewEnvironment()
	env.Assign("x", String("global"))

	env.PushScope()
	env.Assign("x", String("rebound"))
	env.PopScope()

	if got := env.Get("x"); got.AsString() != "rebound" {
		t.Fatalf("got %q, want %q", got.AsString(), "rebound")
	}
}

func TestAssignCreatesInCurrentScopeWhenUnbound(t *testing.T) {
	env := NewEnvironment()
	env.PushScope()
	env.Assign("y", String("local"))
	env.PopScope()

	if got := env.Get("y"); got.Kind() != NoneKind {
		t.Fatalf("expected y to not leak into global scope, got %v", got)
	}
}

func TestAssignPrefersInnermostScopeThatAlreadyHoldsName(t *testing.T) {
	env := NewEnvironment()
	env.PushScope()
	env.Define("z", String("outer"))
	env.PushScope()
	env.Assign("z", String("inner"))
	if got := env.Get("z"); got.AsString() != "inner" {
		t.Fatalf("got %q, want %q", got.AsString(), "inner")
	}
	env.PopScope()
	if got := env.Get("z"); got.AsString() != "inner" {
		t.Fatalf("after pop, got %q, want %q (same scope frame)", got.AsString(), "inner")
	}
	env.PopScope()
}

func TestDefineAlwaysBindsCurrentScope(t *testing.T) {
	env := NewEnvironment()
	env.Assign("n", intVal(1))
	env.PushScope()
	env.Define("n", intVal(99))
	if got := env.Get("n"); got.AsInt().Sign() == 0 || got.AsInt().String() != "99" {
		t.Fatalf("got %v, want 99", got)
	}
	env.PopScope()
	if got := env.Get("n"); got.AsInt().String() != "1" {
		t.Fatalf("global binding should be untouched by Define in a pushed scope, got %v", got)
	}
}

func TestPopScopeWithoutPushPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Fatal("expected panic popping an empty scope stack")
		}
	}()
	NewEnvironment().PopScope()
}

func TestFunctionTableDefineAndLookup(t *testing.T) {
	table := NewFunctionTable()
	def := newTestFunctionDef("greet", []string{"name"})
	table.Define(&def)

	got, err := table.Lookup("greet")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got.Name != "greet" || len(got.Params) != 1 || got.Params[0] != "name" {
		t.Fatalf("got %+v", got)
	}
}

func TestFunctionTableLookupMissing(t *testing.T) {
	table := NewFunctionTable()
	if _, err := table.Lookup("nope"); err == nil {
		t.Fatal("expected error looking up an undefined function")
	}
}

func TestFunctionTableRedefineReplaces(t *testing.T) {
	table := NewFunctionTable()
	table.Define(&FunctionDef{Name: "f", Params: []string{"a"}, Body: &ast.Suite{}})
	table.Define(&FunctionDef{Name: "f", Params: []string{"a", "b"}, Body: &ast.Suite{}})

	got, err := table.Lookup("f")
	if err != nil || len(got.Params) != 2 {
		t.Fatalf("got %+v, err %v", got, err)
	}
}

func newTestFunctionDef(name string, params []string) FunctionDef {
	return FunctionDef{Name: name, Params: params, Body: &ast.Suite{}}
}
