// Package evaluator walks a parsed module's syntax tree, producing values
// and side effects against a runtime Environment and FunctionTable.
package evaluator

import (
	"fmt"
	"io"

	"github.com/pylite-lang/pylite/internal/ast"
	"github.com/pylite-lang/pylite/internal/bigint"
	"github.com/pylite-lang/pylite/internal/object"
	"github.com/pylite-lang/pylite/internal/token"
)

// Evaluator holds the runtime state threaded through one program's
// execution: its variable Environment, its FunctionTable, and the stream
// print writes to.
type Evaluator struct {
	Env   *object.Environment
	Funcs *object.FunctionTable
	Out   io.Writer
}

// New returns an Evaluator with a fresh global Environment and
// FunctionTable, writing print output to out.
func New(out io.Writer) *Evaluator {
	return &Evaluator{
		Env:   object.NewEnvironment(),
		Funcs: object.NewFunctionTable(),
		Out:   out,
	}
}

// Run evaluates every top-level statement of mod in order. It stops and
// reports an error on the first uncaught ControlSignal or evaluation
// error.
func (e *Evaluator) Run(mod *ast.Module) error {
	for _, stmt := range mod.Statements {
		sig, err := e.evalStatement(stmt)
		if err != nil {
			return err
		}
		if sig != nil {
			return fmt.Errorf("'%s' outside loop or function", signalName(sig.Kind))
		}
	}
	return nil
}

func signalName(k SignalKind) string {
	switch k {
	case SignalBreak:
		return "break"
	case SignalContinue:
		return "continue"
	case SignalReturn:
		return "return"
	default:
		return "control signal"
	}
}

// evalStatement executes one statement, returning a non-nil ControlSignal
// when execution must unwind toward an enclosing loop or function call.
func (e *Evaluator) evalStatement(stmt ast.Statement) (*ControlSignal, error) {
	switch s := stmt.(type) {
	case *ast.FunctionDef:
		return nil, e.evalFunctionDef(s)
	case *ast.ExpressionStatement:
		_, err := e.evalExpression(s.Expr)
		return nil, err
	case *ast.Assign:
		return nil, e.evalAssign(s)
	case *ast.AugAssign:
		return nil, e.evalAugAssign(s)
	case *ast.Break:
		return &ControlSignal{Kind: SignalBreak}, nil
	case *ast.Continue:
		return &ControlSignal{Kind: SignalContinue}, nil
	case *ast.Return:
		var v object.Value = object.None
		if s.Value != nil {
			var err error
			v, err = e.evalExpression(s.Value)
			if err != nil {
				return nil, err
			}
		}
		return &ControlSignal{Kind: SignalReturn, Value: v}, nil
	case *ast.If:
		return e.evalIf(s)
	case *ast.While:
		return e.evalWhile(s)
	default:
		return nil, fmt.Errorf("evaluator: unhandled statement %T", stmt)
	}
}

func (e *Evaluator) evalSuite(suite *ast.Suite) (*ControlSignal, error) {
	for _, stmt := range suite.Statements {
		sig, err := e.evalStatement(stmt)
		if err != nil || sig != nil {
			return sig, err
		}
	}
	return nil, nil
}

func (e *Evaluator) evalFunctionDef(fn *ast.FunctionDef) error {
	defaults := make([]object.Value, len(fn.Defaults))
	for i, expr := range fn.Defaults {
		v, err := e.evalExpression(expr)
		if err != nil {
			return err
		}
		defaults[i] = v
	}
	e.Funcs.Define(&object.FunctionDef{
		Name:     fn.Name,
		Params:   fn.Params,
		Defaults: defaults,
		Body:     fn.Body,
	})
	return nil
}

func (e *Evaluator) evalAssign(a *ast.Assign) error {
	v, err := e.evalExpression(a.Value)
	if err != nil {
		return err
	}
	for _, target := range a.Targets {
		if err := e.assignTo(target, v); err != nil {
			return err
		}
	}
	return nil
}

func (e *Evaluator) assignTo(target ast.Expression, v object.Value) error {
	switch t := target.(type) {
	case *ast.Identifier:
		e.Env.Assign(t.Name, v)
		return nil
	case *ast.TupleLiteral:
		if v.Kind() != object.TupleKind {
			return fmt.Errorf("cannot unpack non-tuple value into %d targets", len(t.Elements))
		}
		elems := v.AsTuple()
		if len(elems) != len(t.Elements) {
			return fmt.Errorf("cannot unpack tuple of length %d into %d targets", len(elems), len(t.Elements))
		}
		for i, sub := range t.Elements {
			if err := e.assignTo(sub, elems[i]); err != nil {
				return err
			}
		}
		return nil
	default:
		return fmt.Errorf("invalid assignment target: %s", target.String())
	}
}

func (e *Evaluator) evalAugAssign(a *ast.AugAssign) error {
	name, ok := a.Target.(*ast.Identifier)
	if !ok {
		return fmt.Errorf("invalid augmented assignment target: %s", a.Target.String())
	}
	current := e.Env.Get(name.Name)
	rhs, err := e.evalExpression(a.Value)
	if err != nil {
		return err
	}
	var result object.Value
	switch a.Op {
	case "+=":
		result, err = object.Add(current, rhs)
	case "-=":
		result, err = object.Sub(current, rhs)
	case "*=":
		result, err = object.Mul(current, rhs)
	case "/=":
		result, err = object.Div(current, rhs)
	case "//=":
		result, err = object.FloorDiv(current, rhs)
	case "%=":
		result, err = object.Mod(current, rhs)
	default:
		return fmt.Errorf("unsupported augmented assignment operator: %s", a.Op)
	}
	if err != nil {
		return err
	}
	e.Env.Assign(name.Name, result)
	return nil
}

func (e *Evaluator) evalIf(node *ast.If) (*ControlSignal, error) {
	for i, cond := range node.Conditions {
		v, err := e.evalExpression(cond)
		if err != nil {
			return nil, err
		}
		if v.Truthy() {
			return e.evalSuite(node.Bodies[i])
		}
	}
	if node.Else != nil {
		return e.evalSuite(node.Else)
	}
	return nil, nil
}

func (e *Evaluator) evalWhile(node *ast.While) (*ControlSignal, error) {
	for {
		v, err := e.evalExpression(node.Cond)
		if err != nil {
			return nil, err
		}
		if !v.Truthy() {
			return nil, nil
		}
		sig, err := e.evalSuite(node.Body)
		if err != nil {
			return nil, err
		}
		if sig != nil {
			switch sig.Kind {
			case SignalBreak:
				return nil, nil
			case SignalContinue:
				continue
			default:
				return sig, nil
			}
		}
	}
}

// evalExpression evaluates expr to a Value. Expressions never themselves
// originate a ControlSignal; a Call that invokes a user function catches
// any Return signal produced by that function's body before returning.
func (e *Evaluator) evalExpression(expr ast.Expression) (object.Value, error) {
	switch node := expr.(type) {
	case *ast.Identifier:
		return e.Env.Get(node.Name), nil
	case *ast.IntegerLiteral:
		n, err := bigint.FromString(node.Raw)
		if err != nil {
			return object.Value{}, fmt.Errorf("invalid integer literal %q: %w", node.Raw, err)
		}
		return object.Int(n), nil
	case *ast.FloatLiteral:
		return object.Float(node.Value), nil
	case *ast.StringLiteral:
		return object.String(node.Value), nil
	case *ast.BoolLiteral:
		return object.Bool(node.Value), nil
	case *ast.NoneLiteral:
		return object.None, nil
	case *ast.TupleLiteral:
		return e.evalTuple(node)
	case *ast.FormatString:
		return e.evalFormatString(node)
	case *ast.PrefixExpr:
		return e.evalPrefix(node)
	case *ast.InfixExpr:
		return e.evalInfix(node)
	case *ast.Comparison:
		return e.evalComparison(node)
	case *ast.Call:
		return e.evalCall(node)
	default:
		return object.Value{}, fmt.Errorf("evaluator: unhandled expression %T", expr)
	}
}

func (e *Evaluator) evalTuple(node *ast.TupleLiteral) (object.Value, error) {
	elems := make([]object.Value, len(node.Elements))
	for i, el := range node.Elements {
		v, err := e.evalExpression(el)
		if err != nil {
			return object.Value{}, err
		}
		elems[i] = v
	}
	return object.Tuple(elems), nil
}

func (e *Evaluator) evalPrefix(node *ast.PrefixExpr) (object.Value, error) {
	v, err := e.evalExpression(node.Operand)
	if err != nil {
		return object.Value{}, err
	}
	switch node.Op {
	case token.MINUS:
		return object.Neg(v)
	case token.NOT:
		return object.Bool(!v.Truthy()), nil
	default:
		return object.Value{}, fmt.Errorf("unsupported unary operator: %s", node.Op)
	}
}

func (e *Evaluator) evalInfix(node *ast.InfixExpr) (object.Value, error) {
	if node.Op == token.AND {
		left, err := e.evalExpression(node.Left)
		if err != nil {
			return object.Value{}, err
		}
		if !left.Truthy() {
			return left, nil
		}
		return e.evalExpression(node.Right)
	}
	if node.Op == token.OR {
		left, err := e.evalExpression(node.Left)
		if err != nil {
			return object.Value{}, err
		}
		if left.Truthy() {
			return left, nil
		}
		return e.evalExpression(node.Right)
	}
	left, err := e.evalExpression(node.Left)
	if err != nil {
		return object.Value{}, err
	}
	right, err := e.evalExpression(node.Right)
	if err != nil {
		return object.Value{}, err
	}
	switch node.Op {
	case token.PLUS:
		return object.Add(left, right)
	case token.MINUS:
		return object.Sub(left, right)
	case token.STAR:
		return object.Mul(left, right)
	case token.SLASH:
		return object.Div(left, right)
	case token.DSLASH:
		return object.FloorDiv(left, right)
	case token.PERCENT:
		return object.Mod(left, right)
	default:
		return object.Value{}, fmt.Errorf("unsupported binary operator: %s", node.Op)
	}
}

func (e *Evaluator) evalComparison(node *ast.Comparison) (object.Value, error) {
	left, err := e.evalExpression(node.First)
	if err != nil {
		return object.Value{}, err
	}
	for i, op := range node.Ops {
		right, err := e.evalExpression(node.Rest[i])
		if err != nil {
			return object.Value{}, err
		}
		ok, err := compareOp(op, left, right)
		if err != nil {
			return object.Value{}, err
		}
		if !ok {
			return object.Bool(false), nil
		}
		left = right
	}
	return object.Bool(true), nil
}

func compareOp(op token.Type, a, b object.Value) (bool, error) {
	if op == token.EQ {
		return object.Equal(a, b), nil
	}
	if op == token.NOT_EQ {
		return !object.Equal(a, b), nil
	}
	c, err := object.Compare(a, b)
	if err != nil {
		return false, err
	}
	switch op {
	case token.LT:
		return c < 0, nil
	case token.GT:
		return c > 0, nil
	case token.LT_EQ:
		return c <= 0, nil
	case token.GT_EQ:
		return c >= 0, nil
	default:
		return false, fmt.Errorf("unsupported comparison operator: %s", op)
	}
}
