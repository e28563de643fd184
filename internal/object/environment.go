package object

import (
	"fmt"

	"github.com/pylite-lang/pylite/internal/ast"
)

// Environment is the name-resolution runtime: an ordered stack of local
// scopes plus one distinguished global scope.
//
// Reads consult the local stack innermost-first, then the global scope,
// and yield None if the name is bound nowhere. Writes rebind the first
// scope (local stack innermost-first, else global) that already contains
// the name; if no scope contains it, the write creates a fresh binding in
// the current scope (the top of the local stack, or the global scope when
// the stack is empty). This asymmetry is load-bearing: a plain
// assignment inside a function body reaches out and mutates an
// already-existing global without any explicit declaration, but never
// creates a brand-new global by accident.
type Environment struct {
	global *scope
	stack  []*scope
}

type scope struct {
	vars map[string]Value
}

func newScope() *scope { return &scope{vars: make(map[string]Value)} }

// NewEnvironment returns a fresh Environment with an empty global scope
// and no local scopes pushed.
func NewEnvironment() *Environment {
	return &Environment{global: newScope()}
}

// PushScope pushes a new, empty local scope, making it current.
func (e *Environment) PushScope() {
	e.stack = append(e.stack, newScope())
}

// PopScope pops the current local scope. It panics if no local scope is
// pushed, which would indicate a push/pop imbalance in the evaluator.
func (e *Environment) PopScope() {
	if len(e.stack) == 0 {
		panic("object: PopScope with no local scope pushed")
	}
	e.stack = e.stack[:len(e.stack)-1]
}

func (e *Environment) current() *scope {
	if len(e.stack) == 0 {
		return e.global
	}
	return e.stack[len(e.stack)-1]
}

// Get looks up name per the read policy, returning None (not an error)
// when the name is bound nowhere.
func (e *Environment) Get(name string) Value {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if v, ok := e.stack[i].vars[name]; ok {
			return v
		}
	}
	if v, ok := e.global.vars[name]; ok {
		return v
	}
	return None
}

// Assign writes name = value per the write-fallthrough policy described
// on Environment.
func (e *Environment) Assign(name string, value Value) {
	for i := len(e.stack) - 1; i >= 0; i-- {
		if _, ok := e.stack[i].vars[name]; ok {
			e.stack[i].vars[name] = value
			return
		}
	}
	if _, ok := e.global.vars[name]; ok {
		e.global.vars[name] = value
		return
	}
	e.current().vars[name] = value
}

// Define always binds name = value in the current scope, unconditionally.
// It is used for parameter binding, where a call's fresh scope must shadow
// any same-named outer binding rather than mutate it.
func (e *Environment) Define(name string, value Value) {
	e.current().vars[name] = value
}

// FunctionDef is an immutable, registered user function: its name, ordered
// parameter names, ordered default expressions aligned to the trailing
// len(Defaults) parameters, and its body.
type FunctionDef struct {
	Name     string
	Params   []string
	Defaults []Value
	Body     *ast.Suite
}

// FunctionTable is the namespace of user-defined functions, kept separate
// from variable bindings.
type FunctionTable struct {
	fns map[string]*FunctionDef
}

// NewFunctionTable returns an empty FunctionTable.
func NewFunctionTable() *FunctionTable {
	return &FunctionTable{fns: make(map[string]*FunctionDef)}
}

// Define registers def, replacing any prior definition under the same
// name.
func (t *FunctionTable) Define(def *FunctionDef) {
	t.fns[def.Name] = def
}

// Lookup returns the FunctionDef registered under name, or an error if no
// such function is defined.
func (t *FunctionTable) Lookup(name string) (*FunctionDef, error) {
	def, ok := t.fns[name]
	if !ok {
		return nil, fmt.Errorf("undefined function: %s", name)
	}
	return def, nil
}
