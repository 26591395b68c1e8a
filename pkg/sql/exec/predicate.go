package exec

import (
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/types"
)

// evalExpr evaluates expr against one row over columns. Field resolution
// is a plain name lookup over the (already concatenated, for joins)
// column list: since concatenation always places the left side's columns
// before the right side's, a duplicate name resolves to the left-side
// occurrence first, which is exactly the "Field must resolve from the
// left row set first" rule §4.6 describes for join predicates — no
// separate left/right-aware recursive evaluator is needed.
func evalExpr(expr ast.Expression, columns []string, row types.Row) (types.Value, error) {
	switch e := expr.(type) {
	case *ast.FieldExpr:
		idx := indexOf(columns, e.Name)
		if idx < 0 {
			return types.Value{}, &errors.ColumnNotFoundError{Name: e.Name}
		}
		return row[idx], nil
	case *ast.ConstExpr:
		return e.Value, nil
	case *ast.OperationExpr:
		lv, err := evalExpr(e.Left, columns, row)
		if err != nil {
			return types.Value{}, err
		}
		rv, err := evalExpr(e.Right, columns, row)
		if err != nil {
			return types.Value{}, err
		}
		if lv.IsNull() || rv.IsNull() {
			return types.Null, nil
		}
		cmp, ok := lv.Compare(rv)
		if !ok {
			return types.Value{}, &errors.TypeMismatchError{
				Table: "", Column: "",
				Want: "comparable", Got: "incomparable operand pair",
			}
		}
		switch e.Op {
		case ast.OpEqual:
			return types.NewBoolean(cmp == 0), nil
		case ast.OpGreaterThan:
			return types.NewBoolean(cmp > 0), nil
		case ast.OpLessThan:
			return types.NewBoolean(cmp < 0), nil
		default:
			return types.Value{}, &errors.InternalError{Message: "unknown operator kind"}
		}
	case *ast.FunctionExpr:
		return types.Value{}, &errors.InternalError{Message: "aggregate function is not valid outside an Aggregate node"}
	default:
		return types.Value{}, &errors.InternalError{Message: "unsupported expression kind"}
	}
}

// isTruthy implements Filter's three-valued-logic collapse: only a
// boolean true keeps the row, null and false both drop it.
func isTruthy(v types.Value) bool {
	b, ok := v.AsBoolean()
	return ok && b
}

// evalConst evaluates an expression known, by scope, to be constant (the
// values in an INSERT, the assignment expressions in an UPDATE).
func evalConst(expr ast.Expression) (types.Value, error) {
	ce, ok := expr.(*ast.ConstExpr)
	if !ok {
		return types.Value{}, &errors.ParseError{Message: "expected a constant expression in this position"}
	}
	return ce.Value, nil
}
