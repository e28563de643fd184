package evaluator

import (
	"strings"

	"github.com/pylite-lang/pylite/internal/ast"
	"github.com/pylite-lang/pylite/internal/object"
)

// evalFormatString evaluates each interpolated fragment of an f-string in
// the current environment and stitches the result together with the
// literal fragments, using the same stringification rule (six fraction
// digits for Float) as print/str.
func (e *Evaluator) evalFormatString(node *ast.FormatString) (object.Value, error) {
	var buf strings.Builder
	for _, part := range node.Parts {
		if part.Expr == nil {
			buf.WriteString(part.Text)
			continue
		}
		v, err := e.evalExpression(part.Expr)
		if err != nil {
			return object.Value{}, err
		}
		buf.WriteString(v.String())
	}
	return object.String(buf.String()), nil
}
