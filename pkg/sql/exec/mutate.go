package exec

import (
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/sql/plan"
	"github.com/bobboyms/kvsql/pkg/sql/txn"
)

func execUpdate(n *plan.Update, tx *txn.Tx) (int, error) {
	tbl, err := tx.MustGetTable(n.Table)
	if err != nil {
		return 0, err
	}
	source, err := execRows(n.Source, tx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range source.Rows {
		oldPK := row[tbl.PrimaryKeyIndex()]
		newRow := row.Clone()
		for _, a := range n.Assignments {
			idx := tbl.ColumnIndex(a.Column)
			if idx < 0 {
				return count, &errors.ColumnNotFoundError{Name: a.Column}
			}
			v, err := evalConst(a.Expr)
			if err != nil {
				return count, err
			}
			newRow[idx] = v
		}
		if err := tx.UpdateRow(tbl, oldPK, newRow); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}

func execDelete(n *plan.Delete, tx *txn.Tx) (int, error) {
	tbl, err := tx.MustGetTable(n.Table)
	if err != nil {
		return 0, err
	}
	source, err := execRows(n.Source, tx)
	if err != nil {
		return 0, err
	}

	count := 0
	for _, row := range source.Rows {
		pk := row[tbl.PrimaryKeyIndex()]
		if err := tx.DeleteRow(tbl, pk); err != nil {
			return count, err
		}
		count++
	}
	return count, nil
}
