package exec

import (
	"fmt"
	"sort"

	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/sql/plan"
	"github.com/bobboyms/kvsql/pkg/sql/txn"
	"github.com/bobboyms/kvsql/pkg/types"
)

// Execute runs node's plan to completion against tx and returns the
// statement's ResultSet.
func Execute(node plan.Node, tx *txn.Tx) (ResultSet, error) {
	switch n := node.(type) {
	case *plan.CreateTable:
		if err := tx.CreateTable(n.Schema); err != nil {
			return ResultSet{}, err
		}
		return ResultSet{Kind: KindCreateTable, TableName: n.Schema.Name}, nil
	case *plan.Insert:
		count, err := execInsert(n, tx)
		return ResultSet{Kind: KindInsert, Count: count}, err
	case *plan.Update:
		count, err := execUpdate(n, tx)
		return ResultSet{Kind: KindUpdate, Count: count}, err
	case *plan.Delete:
		count, err := execDelete(n, tx)
		return ResultSet{Kind: KindDelete, Count: count}, err
	default:
		rs, err := execRows(node, tx)
		if err != nil {
			return ResultSet{}, err
		}
		return ResultSet{Kind: KindScan, Columns: rs.Columns, Rows: rs.Rows}, nil
	}
}

// execRows runs the Select-pipeline portion of the plan tree (every node
// other than the statement-level CreateTable/Insert/Update/Delete) and
// returns its column-carrying row stream.
func execRows(node plan.Node, tx *txn.Tx) (rowSet, error) {
	switch n := node.(type) {
	case *plan.Scan:
		return execScan(n, tx)
	case *plan.Filter:
		return execFilter(n, tx)
	case *plan.Projection:
		return execProjection(n, tx)
	case *plan.Order:
		return execOrder(n, tx)
	case *plan.Offset:
		return execOffset(n, tx)
	case *plan.Limit:
		return execLimit(n, tx)
	case *plan.NestedLoopJoin:
		return execJoin(n, tx)
	case *plan.Aggregate:
		return execAggregate(n, tx)
	default:
		return rowSet{}, &errors.InternalError{Message: "unsupported plan node in row pipeline"}
	}
}

func execScan(n *plan.Scan, tx *txn.Tx) (rowSet, error) {
	tbl, err := tx.MustGetTable(n.Table)
	if err != nil {
		return rowSet{}, err
	}
	rows, err := tx.ScanTable(tbl)
	if err != nil {
		return rowSet{}, err
	}
	columns := tbl.ColumnNames()
	if n.Filter == nil {
		return rowSet{Columns: columns, Rows: rows}, nil
	}
	kept := make([]types.Row, 0, len(rows))
	for _, row := range rows {
		v, err := evalExpr(n.Filter, columns, row)
		if err != nil {
			return rowSet{}, err
		}
		if isTruthy(v) {
			kept = append(kept, row)
		}
	}
	return rowSet{Columns: columns, Rows: kept}, nil
}

func execFilter(n *plan.Filter, tx *txn.Tx) (rowSet, error) {
	input, err := execRows(n.Input, tx)
	if err != nil {
		return rowSet{}, err
	}
	kept := make([]types.Row, 0, len(input.Rows))
	for _, row := range input.Rows {
		v, err := evalExpr(n.Predicate, input.Columns, row)
		if err != nil {
			return rowSet{}, err
		}
		if isTruthy(v) {
			kept = append(kept, row)
		}
	}
	return rowSet{Columns: input.Columns, Rows: kept}, nil
}

func execProjection(n *plan.Projection, tx *txn.Tx) (rowSet, error) {
	input, err := execRows(n.Input, tx)
	if err != nil {
		return rowSet{}, err
	}
	outCols := make([]string, len(n.Exprs))
	for i, se := range n.Exprs {
		outCols[i] = projectionColumnName(se, i)
	}
	outRows := make([]types.Row, len(input.Rows))
	for ri, row := range input.Rows {
		outRow := make(types.Row, len(n.Exprs))
		for i, se := range n.Exprs {
			v, err := evalExpr(se.Expr, input.Columns, row)
			if err != nil {
				return rowSet{}, err
			}
			outRow[i] = v
		}
		outRows[ri] = outRow
	}
	return rowSet{Columns: outCols, Rows: outRows}, nil
}

func projectionColumnName(se ast.SelectExpr, i int) string {
	if se.Alias != "" {
		return se.Alias
	}
	if fe, ok := se.Expr.(*ast.FieldExpr); ok {
		return fe.Name
	}
	return fmt.Sprintf("col_%d", i)
}

func execOrder(n *plan.Order, tx *txn.Tx) (rowSet, error) {
	input, err := execRows(n.Input, tx)
	if err != nil {
		return rowSet{}, err
	}
	keyIdx := make([]int, len(n.Keys))
	for i, k := range n.Keys {
		keyIdx[i] = indexOf(input.Columns, k.Column)
		if keyIdx[i] < 0 {
			return rowSet{}, &errors.ColumnNotFoundError{Name: k.Column}
		}
	}
	sort.SliceStable(input.Rows, func(i, j int) bool {
		a, b := input.Rows[i], input.Rows[j]
		for ki, idx := range keyIdx {
			cmp, ok := a[idx].Compare(b[idx])
			if !ok || cmp == 0 {
				continue
			}
			if n.Keys[ki].Desc {
				return cmp > 0
			}
			return cmp < 0
		}
		return false
	})
	return input, nil
}

func execOffset(n *plan.Offset, tx *txn.Tx) (rowSet, error) {
	input, err := execRows(n.Input, tx)
	if err != nil {
		return rowSet{}, err
	}
	if n.N >= int64(len(input.Rows)) {
		return rowSet{Columns: input.Columns, Rows: nil}, nil
	}
	if n.N <= 0 {
		return input, nil
	}
	return rowSet{Columns: input.Columns, Rows: input.Rows[n.N:]}, nil
}

func execLimit(n *plan.Limit, tx *txn.Tx) (rowSet, error) {
	input, err := execRows(n.Input, tx)
	if err != nil {
		return rowSet{}, err
	}
	if n.N < int64(len(input.Rows)) {
		return rowSet{Columns: input.Columns, Rows: input.Rows[:n.N]}, nil
	}
	return input, nil
}

func execJoin(n *plan.NestedLoopJoin, tx *txn.Tx) (rowSet, error) {
	left, err := execRows(n.Left, tx)
	if err != nil {
		return rowSet{}, err
	}
	right, err := execRows(n.Right, tx)
	if err != nil {
		return rowSet{}, err
	}
	columns := make([]string, 0, len(left.Columns)+len(right.Columns))
	columns = append(columns, left.Columns...)
	columns = append(columns, right.Columns...)

	nullRight := make(types.Row, len(right.Columns))
	for i := range nullRight {
		nullRight[i] = types.Null
	}

	var rows []types.Row
	for _, lrow := range left.Rows {
		matched := false
		for _, rrow := range right.Rows {
			combined := concatRows(lrow, rrow)
			if n.Predicate == nil {
				rows = append(rows, combined)
				matched = true
				continue
			}
			v, err := evalExpr(n.Predicate, columns, combined)
			if err != nil {
				return rowSet{}, err
			}
			if isTruthy(v) {
				rows = append(rows, combined)
				matched = true
			}
		}
		if n.Outer && !matched {
			rows = append(rows, concatRows(lrow, nullRight))
		}
	}
	return rowSet{Columns: columns, Rows: rows}, nil
}

func concatRows(a, b types.Row) types.Row {
	out := make(types.Row, 0, len(a)+len(b))
	out = append(out, a...)
	out = append(out, b...)
	return out
}
