package evaluator

import "github.com/pylite-lang/pylite/internal/object"

// SignalKind distinguishes the three shapes of non-local control transfer.
type SignalKind int

const (
	SignalBreak SignalKind = iota
	SignalContinue
	SignalReturn
)

// ControlSignal is returned alongside a Value from Eval to unwind the
// tree-walk toward the one frame that is allowed to catch it: a loop body
// for Break/Continue, a function call for Return. Every recursive Eval
// call site must check for a non-nil signal and propagate it upward
// unless it is the catching frame.
type ControlSignal struct {
	Kind  SignalKind
	Value object.Value // meaningful only for SignalReturn
}
