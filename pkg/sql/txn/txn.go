// Package txn is the SQL transaction adapter: it maps table/row
// operations onto the MVCC layer's raw byte keys and values, exposing the
// surface the planner and executors run against (§4.4 of the component
// design). It never talks to the ordered KV store directly — all reads
// and writes go through a *mvcc.Transaction, which is the only thing that
// knows about versions, visibility, and write conflicts.
package txn

import (
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/mvcc"
	"github.com/bobboyms/kvsql/pkg/sql/schema"
	"github.com/bobboyms/kvsql/pkg/types"
)

// Tx is the SQL-level view of a single MVCC transaction.
type Tx struct {
	mv *mvcc.Transaction
}

// New wraps an active MVCC transaction as a SQL transaction.
func New(mv *mvcc.Transaction) *Tx {
	return &Tx{mv: mv}
}

// CreateTable validates the schema, rejects a duplicate name, and persists
// the schema record.
func (t *Tx) CreateTable(tbl schema.Table) error {
	if err := tbl.Validate(); err != nil {
		return err
	}
	key := encodeTableKey(tbl.Name)
	if _, ok, err := t.mv.Get(key); err != nil {
		return &errors.InternalError{Message: "CreateTable: " + err.Error()}
	} else if ok {
		return &errors.TableAlreadyExistsError{Name: tbl.Name}
	}
	return t.mv.Set(key, schema.EncodeTable(tbl))
}

// GetTable returns the named table's schema, or ok=false if it does not
// exist.
func (t *Tx) GetTable(name string) (schema.Table, bool, error) {
	b, ok, err := t.mv.Get(encodeTableKey(name))
	if err != nil {
		return schema.Table{}, false, &errors.InternalError{Message: "GetTable: " + err.Error()}
	}
	if !ok {
		return schema.Table{}, false, nil
	}
	tbl, err := schema.DecodeTable(b)
	if err != nil {
		return schema.Table{}, false, err
	}
	return tbl, true, nil
}

// MustGetTable is GetTable but errors with TableNotFoundError if absent.
func (t *Tx) MustGetTable(name string) (schema.Table, error) {
	tbl, ok, err := t.GetTable(name)
	if err != nil {
		return schema.Table{}, err
	}
	if !ok {
		return schema.Table{}, &errors.TableNotFoundError{Name: name}
	}
	return tbl, nil
}

// validateRow checks each cell's datatype against its column (allowing
// null only where the column is nullable).
func validateRow(tbl schema.Table, row types.Row) error {
	if len(row) != len(tbl.Columns) {
		return &errors.InternalError{Message: "row has wrong column count for table " + tbl.Name}
	}
	for i, c := range tbl.Columns {
		v := row[i]
		if v.IsNull() {
			if !c.Nullable {
				return &errors.NullViolationError{Table: tbl.Name, Column: c.Name}
			}
			continue
		}
		dt, _ := v.Datatype()
		if dt != c.DataType {
			return &errors.TypeMismatchError{
				Table: tbl.Name, Column: c.Name,
				Want: c.DataType.String(), Got: dt.String(),
			}
		}
	}
	return nil
}

// CreateRow validates row against tbl's schema, rejects a duplicate
// primary key, and persists the row under Row(table, pk).
func (t *Tx) CreateRow(tbl schema.Table, row types.Row) error {
	if err := validateRow(tbl, row); err != nil {
		return err
	}
	pk := row[tbl.PrimaryKeyIndex()]
	key := encodeRowKey(tbl.Name, pk)

	if _, ok, err := t.mv.Get(key); err != nil {
		return &errors.InternalError{Message: "CreateRow: " + err.Error()}
	} else if ok {
		return &errors.DuplicatePrimaryKeyError{Table: tbl.Name, Key: pk.String()}
	}
	return t.mv.Set(key, schema.EncodeRow(row))
}

// UpdateRow replaces the row currently stored at oldPK with newRow. A
// primary-key-changing update is modeled as delete-old-then-insert-new,
// per §3's stated lifecycle; a same-key update is the degenerate case of
// the same sequence.
func (t *Tx) UpdateRow(tbl schema.Table, oldPK types.Value, newRow types.Row) error {
	if err := validateRow(tbl, newRow); err != nil {
		return err
	}
	if err := t.mv.Delete(encodeRowKey(tbl.Name, oldPK)); err != nil {
		return err
	}
	newKey := encodeRowKey(tbl.Name, newRow[tbl.PrimaryKeyIndex()])
	return t.mv.Set(newKey, schema.EncodeRow(newRow))
}

// DeleteRow removes the row at pk.
func (t *Tx) DeleteRow(tbl schema.Table, pk types.Value) error {
	return t.mv.Delete(encodeRowKey(tbl.Name, pk))
}

// ScanTable returns every row of tbl, in primary-key order (the order the
// underlying prefix scan already guarantees since rows are keyed by
// table+pk).
func (t *Tx) ScanTable(tbl schema.Table) ([]types.Row, error) {
	pairs, err := t.mv.ScanPrefix(encodeRowPrefix(tbl.Name))
	if err != nil {
		return nil, &errors.InternalError{Message: "ScanTable: " + err.Error()}
	}
	rows := make([]types.Row, 0, len(pairs))
	for _, p := range pairs {
		row, err := schema.DecodeRow(p.Value)
		if err != nil {
			return nil, err
		}
		rows = append(rows, row)
	}
	return rows, nil
}

// Commit commits the underlying MVCC transaction.
func (t *Tx) Commit() error { return t.mv.Commit() }

// Rollback rolls back the underlying MVCC transaction.
func (t *Tx) Rollback() error { return t.mv.Rollback() }
