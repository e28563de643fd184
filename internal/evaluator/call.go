package evaluator

import (
	"fmt"

	"github.com/pylite-lang/pylite/internal/ast"
	"github.com/pylite-lang/pylite/internal/object"
)

func (e *Evaluator) evalCall(node *ast.Call) (object.Value, error) {
	ident, ok := node.Callee.(*ast.Identifier)
	if !ok {
		return object.Value{}, fmt.Errorf("not callable: %s", node.Callee.String())
	}

	args := make([]object.Value, len(node.Args))
	for i, a := range node.Args {
		v, err := e.evalExpression(a)
		if err != nil {
			return object.Value{}, err
		}
		args[i] = v
	}
	kwargs := make(map[string]object.Value, len(node.Keywords))
	kwOrder := make([]string, 0, len(node.Keywords))
	for _, kw := range node.Keywords {
		v, err := e.evalExpression(kw.Value)
		if err != nil {
			return object.Value{}, err
		}
		if _, dup := kwargs[kw.Name]; dup {
			return object.Value{}, fmt.Errorf("%s() got multiple values for argument %q", ident.Name, kw.Name)
		}
		kwargs[kw.Name] = v
		kwOrder = append(kwOrder, kw.Name)
	}

	if fn, err := builtinLookup(ident.Name); err == nil {
		return fn(e, args)
	}

	def, err := e.Funcs.Lookup(ident.Name)
	if err != nil {
		return object.Value{}, err
	}
	return e.callUserFunction(def, args, kwargs, kwOrder)
}

// callUserFunction implements the call protocol: positional arguments bind
// left-to-right, keyword arguments bind by name with duplicate-binding
// detection, missing trailing parameters fall back to their definition-time
// default, and the call executes in a fresh scope that is guaranteed to be
// popped on every exit path, including when the body's Return signal (or
// an evaluation error) propagates out.
func (e *Evaluator) callUserFunction(def *object.FunctionDef, args []object.Value, kwargs map[string]object.Value, kwOrder []string) (object.Value, error) {
	if len(args) > len(def.Params) {
		return object.Value{}, fmt.Errorf("%s() takes %d positional argument(s) but %d were given", def.Name, len(def.Params), len(args))
	}
	bound := make(map[string]object.Value, len(def.Params))
	boundSet := make(map[string]bool, len(def.Params))
	for i, v := range args {
		name := def.Params[i]
		bound[name] = v
		boundSet[name] = true
	}
	for _, name := range kwOrder {
		if boundSet[name] {
			return object.Value{}, fmt.Errorf("%s() got multiple values for argument %q", def.Name, name)
		}
		if !isParam(def.Params, name) {
			return object.Value{}, fmt.Errorf("%s() got an unexpected keyword argument %q", def.Name, name)
		}
		bound[name] = kwargs[name]
		boundSet[name] = true
	}
	firstDefaultIdx := len(def.Params) - len(def.Defaults)
	for i, name := range def.Params {
		if boundSet[name] {
			continue
		}
		if i >= firstDefaultIdx {
			bound[name] = def.Defaults[i-firstDefaultIdx]
			boundSet[name] = true
			continue
		}
		return object.Value{}, fmt.Errorf("%s() missing required argument: %q", def.Name, name)
	}

	e.Env.PushScope()
	defer e.Env.PopScope()
	for _, name := range def.Params {
		e.Env.Define(name, bound[name])
	}

	sig, err := e.evalSuite(def.Body)
	if err != nil {
		return object.Value{}, err
	}
	if sig == nil {
		return object.None, nil
	}
	if sig.Kind != SignalReturn {
		return object.Value{}, fmt.Errorf("%s: %s outside loop", def.Name, signalName(sig.Kind))
	}
	return sig.Value, nil
}

func isParam(params []string, name string) bool {
	for _, p := range params {
		if p == name {
			return true
		}
	}
	return false
}
