// Package schema defines the SQL-level table/column schema and its
// invariants.
package schema

import (
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/types"
)

// Column describes one column of a Table.
type Column struct {
	Name       string
	DataType   types.DataType
	Nullable   bool
	HasDefault bool
	Default    types.Value
	PrimaryKey bool
}

// Table is a name plus an ordered list of columns.
type Table struct {
	Name    string
	Columns []Column
}

// PrimaryKeyIndex returns the index of the table's primary-key column.
// Validate guarantees exactly one exists.
func (t Table) PrimaryKeyIndex() int {
	for i, c := range t.Columns {
		if c.PrimaryKey {
			return i
		}
	}
	return -1
}

// ColumnIndex returns the index of the named column, or -1 if absent.
func (t Table) ColumnIndex(name string) int {
	for i, c := range t.Columns {
		if c.Name == name {
			return i
		}
	}
	return -1
}

// ColumnNames returns the table's declared column names in order.
func (t Table) ColumnNames() []string {
	names := make([]string, len(t.Columns))
	for i, c := range t.Columns {
		names[i] = c.Name
	}
	return names
}

// Validate checks the schema invariants: at least one column; exactly one
// primary-key column; the primary-key column is not nullable; if an
// explicit (non-null) default is present its datatype matches the column
// datatype. The implicit Null default normalizeColumn assigns to a
// nullable column with no declared default is exempt from that check.
func (t Table) Validate() error {
	if len(t.Columns) == 0 {
		return &errors.NoPrimaryKeyError{TableName: t.Name}
	}

	pkCount := 0
	for _, c := range t.Columns {
		if c.PrimaryKey {
			pkCount++
			if c.Nullable {
				return &errors.NullViolationError{Table: t.Name, Column: c.Name}
			}
		}
		if c.HasDefault && !c.Default.IsNull() {
			if dt, ok := c.Default.Datatype(); !ok || dt != c.DataType {
				return &errors.DefaultTypeMismatchError{Table: t.Name, Column: c.Name}
			}
		}
	}

	switch {
	case pkCount == 0:
		return &errors.NoPrimaryKeyError{TableName: t.Name}
	case pkCount > 1:
		return &errors.MultiplePrimaryKeysError{TableName: t.Name, Count: pkCount}
	}
	return nil
}
