package exec

import (
	"strings"

	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/sql/plan"
	"github.com/bobboyms/kvsql/pkg/sql/txn"
	"github.com/bobboyms/kvsql/pkg/types"
)

// execAggregate partitions input by GroupBy's value (the whole input is
// one partition when GroupBy is empty), using types.Value.Hash as the
// partition key, and evaluates n.Exprs once per partition. Partition
// emission order is unspecified, matching Scenario F.
func execAggregate(n *plan.Aggregate, tx *txn.Tx) (rowSet, error) {
	input, err := execRows(n.Input, tx)
	if err != nil {
		return rowSet{}, err
	}

	groupIdx := -1
	if n.GroupBy != "" {
		groupIdx = indexOf(input.Columns, n.GroupBy)
		if groupIdx < 0 {
			return rowSet{}, &errors.ColumnNotFoundError{Name: n.GroupBy}
		}
	}

	type partition struct {
		rows []types.Row
	}
	order := make([]string, 0)
	partitions := make(map[string]*partition)
	for _, row := range input.Rows {
		key := ""
		if groupIdx >= 0 {
			key = row[groupIdx].Hash()
		}
		p, ok := partitions[key]
		if !ok {
			p = &partition{}
			partitions[key] = p
			order = append(order, key)
		}
		p.rows = append(p.rows, row)
	}
	if len(order) == 0 && n.GroupBy == "" {
		// Aggregating over zero rows still produces exactly one output row
		// (e.g. COUNT(*) over an empty table is 0, not "no rows").
		order = append(order, "")
		partitions[""] = &partition{}
	}

	outCols := make([]string, len(n.Exprs))
	for i, se := range n.Exprs {
		outCols[i] = projectionColumnName(se, i)
	}

	outRows := make([]types.Row, 0, len(order))
	for _, key := range order {
		prows := partitions[key].rows
		outRow := make(types.Row, len(n.Exprs))
		for i, se := range n.Exprs {
			switch e := se.Expr.(type) {
			case *ast.FieldExpr:
				if e.Name != n.GroupBy {
					return rowSet{}, &errors.InternalError{
						Message: "column " + e.Name + " referenced in aggregate without GROUP BY",
					}
				}
				if len(prows) == 0 {
					outRow[i] = types.Null
				} else {
					outRow[i] = prows[0][groupIdx]
				}
			case *ast.FunctionExpr:
				v, err := aggregateFunc(e.Name, input.Columns, prows, e.Column)
				if err != nil {
					return rowSet{}, err
				}
				outRow[i] = v
			default:
				return rowSet{}, &errors.InternalError{Message: "unsupported expression in aggregate projection"}
			}
		}
		outRows = append(outRows, outRow)
	}
	return rowSet{Columns: outCols, Rows: outRows}, nil
}

// aggregateFunc evaluates one aggregate function (case-insensitive) over
// the named column across rows. A linear scan is used throughout,
// including for MIN/MAX, rather than sorting the partition — sorting to
// extract an extremum is the inefficiency some reference implementations
// fall into.
func aggregateFunc(name string, columns []string, rows []types.Row, column string) (types.Value, error) {
	fn := strings.ToUpper(name)

	if fn == "COUNT" && column == "*" {
		return types.NewInteger(int64(len(rows))), nil
	}

	idx := indexOf(columns, column)
	if idx < 0 {
		return types.Value{}, &errors.ColumnNotFoundError{Name: column}
	}

	switch fn {
	case "COUNT":
		count := int64(0)
		for _, row := range rows {
			if !row[idx].IsNull() {
				count++
			}
		}
		return types.NewInteger(count), nil

	case "MIN", "MAX":
		wantMax := fn == "MAX"
		var best types.Value
		found := false
		for _, row := range rows {
			v := row[idx]
			if v.IsNull() {
				continue
			}
			if !found {
				best, found = v, true
				continue
			}
			cmp, ok := best.Compare(v)
			if !ok {
				return types.Value{}, &errors.TypeMismatchError{Want: "comparable", Got: "incomparable value in aggregate"}
			}
			if (wantMax && cmp < 0) || (!wantMax && cmp > 0) {
				best = v
			}
		}
		if !found {
			return types.Null, nil
		}
		return best, nil

	case "SUM":
		sum := 0.0
		any := false
		for _, row := range rows {
			v := row[idx]
			if v.IsNull() {
				continue
			}
			f, ok := v.Float64()
			if !ok {
				return types.Value{}, &errors.TypeMismatchError{Want: "numeric", Got: "non-numeric value in SUM"}
			}
			sum += f
			any = true
		}
		if !any {
			return types.Null, nil
		}
		return types.NewFloat(sum), nil

	case "AVG":
		sum := 0.0
		count := 0
		for _, row := range rows {
			v := row[idx]
			if v.IsNull() {
				continue
			}
			f, ok := v.Float64()
			if !ok {
				return types.Value{}, &errors.TypeMismatchError{Want: "numeric", Got: "non-numeric value in AVG"}
			}
			sum += f
			count++
		}
		if count == 0 {
			return types.Null, nil
		}
		return types.NewFloat(sum / float64(count)), nil

	default:
		return types.Value{}, &errors.ParseError{Message: "unknown aggregate function " + name}
	}
}
