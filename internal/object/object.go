// Package object implements the runtime value model: a tagged Value union
// of None, Bool, Int, Float, String, and Tuple, plus the coercion and
// comparison rules between them.
package object

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pylite-lang/pylite/internal/bigint"
)

// Kind identifies which of the six shapes a Value holds.
type Kind int

const (
	NoneKind Kind = iota
	BoolKind
	IntKind
	FloatKind
	StringKind
	TupleKind
)

func (k Kind) String() string {
	switch k {
	case NoneKind:
		return "NoneType"
	case BoolKind:
		return "bool"
	case IntKind:
		return "int"
	case FloatKind:
		return "float"
	case StringKind:
		return "str"
	case TupleKind:
		return "tuple"
	default:
		return "unknown"
	}
}

// Value is the runtime representation of every value this interpreter
// manipulates. Exactly one of the typed accessors is meaningful for a
// given Kind().
type Value struct {
	kind Kind
	b    bool
	i    bigint.Int
	f    float64
	s    string
	t    []Value
}

// None is the sole value of kind NoneKind.
var None = Value{kind: NoneKind}

// Bool constructs a Bool value.
func Bool(b bool) Value { return Value{kind: BoolKind, b: b} }

// Int constructs an Int value.
func Int(i bigint.Int) Value { return Value{kind: IntKind, i: i} }

// Float constructs a Float value.
func Float(f float64) Value { return Value{kind: FloatKind, f: f} }

// String constructs a String value.
func String(s string) Value { return Value{kind: StringKind, s: s} }

// Tuple constructs a Tuple value from elems, which is not retained by the
// caller after this call (Tuple copies the slice header but not the
// backing array; pass a freshly built slice).
func Tuple(elems []Value) Value { return Value{kind: TupleKind, t: elems} }

func (v Value) Kind() Kind          { return v.kind }
func (v Value) AsBool() bool        { return v.b }
func (v Value) AsInt() bigint.Int   { return v.i }
func (v Value) AsFloat() float64    { return v.f }
func (v Value) AsString() string    { return v.s }
func (v Value) AsTuple() []Value    { return v.t }

// Truthy implements the language's truthiness rule: None and False are
// falsy; zero Int/Float/empty String/empty Tuple are falsy; everything
// else is truthy.
func (v Value) Truthy() bool {
	switch v.kind {
	case NoneKind:
		return false
	case BoolKind:
		return v.b
	case IntKind:
		return !v.i.IsZero()
	case FloatKind:
		return v.f != 0
	case StringKind:
		return v.s != ""
	case TupleKind:
		return len(v.t) > 0
	default:
		return false
	}
}

// ToInt converts v to an Int value per the coercion lattice: Bool and Int
// pass through (Bool becomes 0/1), Float truncates toward zero, String
// parses as a decimal integer literal. Tuple and None have no Int
// coercion.
func (v Value) ToInt() (Value, error) {
	switch v.kind {
	case IntKind:
		return v, nil
	case BoolKind:
		if v.b {
			return Int(bigint.FromInt64(1)), nil
		}
		return Int(bigint.FromInt64(0)), nil
	case FloatKind:
		return Int(bigint.FromInt64(int64(v.f))), nil
	case StringKind:
		n, err := bigint.FromString(strings.TrimSpace(v.s))
		if err != nil {
			return Value{}, fmt.Errorf("invalid literal for int: %q", v.s)
		}
		return Int(n), nil
	default:
		return Value{}, fmt.Errorf("cannot convert %s to int", v.kind)
	}
}

// ToFloat converts v to a Float value per the coercion lattice.
func (v Value) ToFloat() (Value, error) {
	switch v.kind {
	case FloatKind:
		return v, nil
	case BoolKind:
		if v.b {
			return Float(1), nil
		}
		return Float(0), nil
	case IntKind:
		return Float(v.i.Float64()), nil
	case StringKind:
		f, err := strconv.ParseFloat(strings.TrimSpace(v.s), 64)
		if err != nil {
			return Value{}, fmt.Errorf("invalid literal for float: %q", v.s)
		}
		return Float(f), nil
	default:
		return Value{}, fmt.Errorf("cannot convert %s to float", v.kind)
	}
}

// ToBool converts v to a Bool value using the Truthy rule.
func (v Value) ToBool() Value { return Bool(v.Truthy()) }

// ToStringValue converts v to a String value using display rules (not
// the quoted repr rules used inside Tuple.String()).
func (v Value) ToStringValue() Value { return String(v.String()) }

// String renders v the way `print`/`str` display it: floats always carry
// six digits after the decimal point, tuples use Python-style repr with
// only their *direct* string elements single-quoted.
func (v Value) String() string {
	switch v.kind {
	case NoneKind:
		return "None"
	case BoolKind:
		if v.b {
			return "True"
		}
		return "False"
	case IntKind:
		return v.i.String()
	case FloatKind:
		return strconv.FormatFloat(v.f, 'f', 6, 64)
	case StringKind:
		return v.s
	case TupleKind:
		return tupleRepr(v.t)
	default:
		return "<?>"
	}
}

// tupleRepr renders a tuple's elements with only the top-level string
// elements single-quoted; nested tuples apply the same rule recursively to
// their own elements.
func tupleRepr(elems []Value) string {
	parts := make([]string, len(elems))
	for i, e := range elems {
		if e.kind == StringKind {
			parts[i] = "'" + e.s + "'"
		} else {
			parts[i] = e.String()
		}
	}
	s := "(" + strings.Join(parts, ", ")
	if len(elems) == 1 {
		s += ","
	}
	return s + ")"
}

// rank orders the four promotable kinds along the coercion lattice Bool <
// Int < Float < String used to decide which side of a binary operator gets
// promoted; None and Tuple rank -1.
func rank(k Kind) int {
	switch k {
	case BoolKind:
		return 0
	case IntKind:
		return 1
	case FloatKind:
		return 2
	case StringKind:
		return 3
	default:
		return -1
	}
}

// promote converts a and b to a common kind for arithmetic/comparison,
// following the Bool < Int < Float < String lattice. None and Tuple values
// never promote: promote returns an error when either operand is one.
func promote(a, b Value) (Value, Value, Kind, error) {
	ra, rb := rank(a.Kind()), rank(b.Kind())
	if ra < 0 || rb < 0 {
		return Value{}, Value{}, NoneKind, fmt.Errorf("unsupported operand type(s): %s and %s", a.Kind(), b.Kind())
	}
	target := a.Kind()
	if rb > ra {
		target = b.Kind()
	}
	pa, err := coerceTo(a, target)
	if err != nil {
		return Value{}, Value{}, NoneKind, err
	}
	pb, err := coerceTo(b, target)
	if err != nil {
		return Value{}, Value{}, NoneKind, err
	}
	return pa, pb, target, nil
}

func coerceTo(v Value, target Kind) (Value, error) {
	switch target {
	case IntKind:
		return v.ToInt()
	case FloatKind:
		return v.ToFloat()
	case StringKind:
		return v.ToStringValue(), nil
	default:
		return v, nil
	}
}

// Add implements the `+` operator, including string concatenation.
func Add(a, b Value) (Value, error) {
	pa, pb, kind, err := promote(a, b)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case IntKind:
		return Int(pa.i.Add(pb.i)), nil
	case FloatKind:
		return Float(pa.f + pb.f), nil
	case StringKind:
		return String(pa.s + pb.s), nil
	default:
		return Value{}, fmt.Errorf("unsupported operand type(s) for +: %s and %s", a.Kind(), b.Kind())
	}
}

// Sub implements the `-` operator.
func Sub(a, b Value) (Value, error) {
	pa, pb, kind, err := promote(a, b)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case IntKind:
		return Int(pa.i.Sub(pb.i)), nil
	case FloatKind:
		return Float(pa.f - pb.f), nil
	default:
		return Value{}, fmt.Errorf("unsupported operand type(s) for -: %s and %s", a.Kind(), b.Kind())
	}
}

// Mul implements the `*` operator, including string repetition (`str * int`
// or `int * str`): a non-positive count yields "".
func Mul(a, b Value) (Value, error) {
	if s, n, ok := stringRepeatOperands(a, b); ok {
		return stringRepeat(s, n), nil
	}
	pa, pb, kind, err := promote(a, b)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case IntKind:
		return Int(pa.i.Mul(pb.i)), nil
	case FloatKind:
		return Float(pa.f * pb.f), nil
	default:
		return Value{}, fmt.Errorf("unsupported operand type(s) for *: %s and %s", a.Kind(), b.Kind())
	}
}

func stringRepeatOperands(a, b Value) (string, bigint.Int, bool) {
	if a.kind == StringKind && b.kind == IntKind {
		return a.s, b.i, true
	}
	if b.kind == StringKind && a.kind == IntKind {
		return b.s, a.i, true
	}
	return "", bigint.Int{}, false
}

func stringRepeat(s string, n bigint.Int) Value {
	count := n.Int64()
	if count <= 0 {
		return String("")
	}
	return String(strings.Repeat(s, int(count)))
}

// Div implements the `/` operator, which always produces a Float.
func Div(a, b Value) (Value, error) {
	fa, err := a.ToFloat()
	if err != nil {
		return Value{}, err
	}
	fb, err := b.ToFloat()
	if err != nil {
		return Value{}, err
	}
	if fb.f == 0 {
		return Value{}, fmt.Errorf("division by zero")
	}
	return Float(fa.f / fb.f), nil
}

// FloorDiv implements the `//` operator.
func FloorDiv(a, b Value) (Value, error) {
	pa, pb, kind, err := promote(a, b)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case IntKind:
		q, err := pa.i.FloorDiv(pb.i)
		if err != nil {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Int(q), nil
	case FloatKind:
		if pb.f == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Float(floorFloat(pa.f / pb.f)), nil
	default:
		return Value{}, fmt.Errorf("unsupported operand type(s) for //: %s and %s", a.Kind(), b.Kind())
	}
}

// Mod implements the `%` operator.
func Mod(a, b Value) (Value, error) {
	pa, pb, kind, err := promote(a, b)
	if err != nil {
		return Value{}, err
	}
	switch kind {
	case IntKind:
		r, err := pa.i.FloorMod(pb.i)
		if err != nil {
			return Value{}, fmt.Errorf("division by zero")
		}
		return Int(r), nil
	case FloatKind:
		if pb.f == 0 {
			return Value{}, fmt.Errorf("division by zero")
		}
		q := floorFloat(pa.f / pb.f)
		return Float(pa.f - q*pb.f), nil
	default:
		return Value{}, fmt.Errorf("unsupported operand type(s) for %%: %s and %s", a.Kind(), b.Kind())
	}
}

func floorFloat(f float64) float64 {
	i := float64(int64(f))
	if f < 0 && i != f {
		i--
	}
	return i
}

// Neg implements unary `-`.
func Neg(v Value) (Value, error) {
	switch v.kind {
	case IntKind:
		return Int(v.i.Neg()), nil
	case FloatKind:
		return Float(-v.f), nil
	case BoolKind:
		n, _ := v.ToInt()
		return Int(n.i.Neg()), nil
	default:
		return Value{}, fmt.Errorf("bad operand type for unary -: %s", v.Kind())
	}
}

// Compare implements `<`, `<=`, `>`, `>=`, returning -1, 0, or 1. Tuple
// comparison is lexicographic over elements, which themselves may recurse
// through Compare. A String never promotes against a non-String operand:
// it compares only against another String, erroring otherwise (so `==`,
// which treats a Compare error as "not equal", never reports a numeric
// value and a string as equal by promoting the number to its string form).
func Compare(a, b Value) (int, error) {
	if a.kind == TupleKind || b.kind == TupleKind {
		if a.kind != TupleKind || b.kind != TupleKind {
			return 0, fmt.Errorf("unsupported comparison between %s and %s", a.Kind(), b.Kind())
		}
		return compareTuples(a.t, b.t)
	}
	if a.kind == StringKind || b.kind == StringKind {
		if a.kind != StringKind || b.kind != StringKind {
			return 0, fmt.Errorf("unsupported comparison between %s and %s", a.Kind(), b.Kind())
		}
		return strings.Compare(a.s, b.s), nil
	}
	pa, pb, kind, err := promote(a, b)
	if err != nil {
		return 0, err
	}
	switch kind {
	case IntKind:
		return pa.i.Cmp(pb.i), nil
	case FloatKind:
		switch {
		case pa.f < pb.f:
			return -1, nil
		case pa.f > pb.f:
			return 1, nil
		default:
			return 0, nil
		}
	default:
		return 0, fmt.Errorf("unsupported comparison between %s and %s", a.Kind(), b.Kind())
	}
}

func compareTuples(a, b []Value) (int, error) {
	for i := 0; i < len(a) && i < len(b); i++ {
		c, err := Compare(a[i], b[i])
		if err != nil {
			return 0, err
		}
		if c != 0 {
			return c, nil
		}
	}
	switch {
	case len(a) < len(b):
		return -1, nil
	case len(a) > len(b):
		return 1, nil
	default:
		return 0, nil
	}
}

// Equal implements `==`. Unlike Compare, it never errors: values of
// incompatible kinds that cannot be promoted are simply unequal, matching
// the source language's equality semantics.
func Equal(a, b Value) bool {
	if a.kind == TupleKind || b.kind == TupleKind {
		if a.kind != TupleKind || b.kind != TupleKind || len(a.t) != len(b.t) {
			return false
		}
		for i := range a.t {
			if !Equal(a.t[i], b.t[i]) {
				return false
			}
		}
		return true
	}
	c, err := Compare(a, b)
	if err != nil {
		return false
	}
	return c == 0
}
