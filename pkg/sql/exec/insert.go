package exec

import (
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/sql/plan"
	"github.com/bobboyms/kvsql/pkg/sql/schema"
	"github.com/bobboyms/kvsql/pkg/sql/txn"
	"github.com/bobboyms/kvsql/pkg/types"
)

func execInsert(n *plan.Insert, tx *txn.Tx) (int, error) {
	tbl, err := tx.MustGetTable(n.Table)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, valueExprs := range n.Values {
		row, err := buildInsertRow(tbl, n.Columns, valueExprs)
		if err != nil {
			return count, err
		}
		if err := tx.CreateRow(tbl, row); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

// buildInsertRow builds one row for an INSERT. Without an explicit column
// list the values are positional against the table's declared column
// order, padding any trailing unsupplied columns from their defaults.
// With an explicit column list, each named column takes its supplied
// value and every other column falls back to its default.
func buildInsertRow(tbl schema.Table, columns []string, valueExprs []ast.Expression) (types.Row, error) {
	row := make(types.Row, len(tbl.Columns))

	if columns == nil {
		for i, c := range tbl.Columns {
			if i < len(valueExprs) {
				v, err := evalConst(valueExprs[i])
				if err != nil {
					return nil, err
				}
				row[i] = v
				continue
			}
			if !c.HasDefault {
				return nil, &errors.MissingDefaultError{Table: tbl.Name, Column: c.Name}
			}
			row[i] = c.Default
		}
		return row, nil
	}

	if len(columns) != len(valueExprs) {
		return nil, &errors.ParseError{Message: "column list and value list length mismatch"}
	}
	provided := make(map[string]types.Value, len(columns))
	for i, name := range columns {
		v, err := evalConst(valueExprs[i])
		if err != nil {
			return nil, err
		}
		if tbl.ColumnIndex(name) < 0 {
			return nil, &errors.ColumnNotFoundError{Name: name}
		}
		provided[name] = v
	}
	for i, c := range tbl.Columns {
		if v, ok := provided[c.Name]; ok {
			row[i] = v
			continue
		}
		if !c.HasDefault {
			return nil, &errors.MissingDefaultError{Table: tbl.Name, Column: c.Name}
		}
		row[i] = c.Default
	}
	return row, nil
}
