package evaluator

import (
	"fmt"
	"strings"

	"github.com/pylite-lang/pylite/internal/object"
)

type builtinFunc func(e *Evaluator, args []object.Value) (object.Value, error)

var builtins = map[string]builtinFunc{
	"print": builtinPrint,
	"int":   builtinInt,
	"float": builtinFloat,
	"str":   builtinStr,
	"bool":  builtinBool,
}

func builtinLookup(name string) (builtinFunc, error) {
	fn, ok := builtins[name]
	if !ok {
		return nil, fmt.Errorf("not a builtin: %s", name)
	}
	return fn, nil
}

func builtinPrint(e *Evaluator, args []object.Value) (object.Value, error) {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = a.String()
	}
	fmt.Fprintln(e.Out, strings.Join(parts, " "))
	return object.None, nil
}

func builtinInt(_ *Evaluator, args []object.Value) (object.Value, error) {
	if err := arity("int", args, 1); err != nil {
		return object.Value{}, err
	}
	return args[0].ToInt()
}

func builtinFloat(_ *Evaluator, args []object.Value) (object.Value, error) {
	if err := arity("float", args, 1); err != nil {
		return object.Value{}, err
	}
	return args[0].ToFloat()
}

func builtinStr(_ *Evaluator, args []object.Value) (object.Value, error) {
	if err := arity("str", args, 1); err != nil {
		return object.Value{}, err
	}
	return args[0].ToStringValue(), nil
}

func builtinBool(_ *Evaluator, args []object.Value) (object.Value, error) {
	if err := arity("bool", args, 1); err != nil {
		return object.Value{}, err
	}
	return args[0].ToBool(), nil
}

func arity(name string, args []object.Value, want int) error {
	if len(args) != want {
		return fmt.Errorf("%s() takes exactly %d argument(s) (%d given)", name, want, len(args))
	}
	return nil
}
