// Package errors defines the semantic error kinds this engine reports.
// These are kinds, not Go types a caller need match exactly against; each
// kind has one or more concrete struct implementations so callers that
// care can use errors.As, while everyone else reads Kind().
package errors

import "fmt"

// Kind is one of the semantic error categories the engine distinguishes.
type Kind int

const (
	KindParse Kind = iota
	KindCodec
	KindNotFound
	KindConstraint
	KindWriteConflict
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse"
	case KindCodec:
		return "codec"
	case KindNotFound:
		return "not_found"
	case KindConstraint:
		return "constraint"
	case KindWriteConflict:
		return "write_conflict"
	case KindInternal:
		return "internal"
	default:
		return "unknown"
	}
}

// Kinder is implemented by every error this package defines, letting
// callers branch on semantic kind without an exhaustive type switch.
type Kinder interface {
	error
	Kind() Kind
}

// KindOf extracts the Kind of err, defaulting to KindInternal for errors
// this package did not originate (an invariant violation elsewhere in the
// stack, per the error-handling design's framing of Internal as the
// catch-all).
func KindOf(err error) Kind {
	if k, ok := err.(Kinder); ok {
		return k.Kind()
	}
	return KindInternal
}

// ParseError wraps a malformed-SQL error surfaced from upstream (the
// parser is out of scope here, but its errors pass through this kind).
type ParseError struct{ Message string }

func (e *ParseError) Error() string { return fmt.Sprintf("parse error: %s", e.Message) }
func (e *ParseError) Kind() Kind    { return KindParse }

// CodecError reports that a key or value failed to decode against its
// declared schema.
type CodecError struct{ Message string }

func (e *CodecError) Error() string { return fmt.Sprintf("codec error: %s", e.Message) }
func (e *CodecError) Kind() Kind    { return KindCodec }

// TableNotFoundError reports a reference to an undefined table.
type TableNotFoundError struct{ Name string }

func (e *TableNotFoundError) Error() string { return fmt.Sprintf("table %q not found", e.Name) }
func (e *TableNotFoundError) Kind() Kind    { return KindNotFound }

// ColumnNotFoundError reports a reference to an undefined column.
type ColumnNotFoundError struct{ Name string }

func (e *ColumnNotFoundError) Error() string { return fmt.Sprintf("column %q not found", e.Name) }
func (e *ColumnNotFoundError) Kind() Kind    { return KindNotFound }

// TableAlreadyExistsError reports a duplicate CREATE TABLE.
type TableAlreadyExistsError struct{ Name string }

func (e *TableAlreadyExistsError) Error() string {
	return fmt.Sprintf("table %q already exists", e.Name)
}
func (e *TableAlreadyExistsError) Kind() Kind { return KindConstraint }

// NoPrimaryKeyError reports a CREATE TABLE with zero primary-key columns.
type NoPrimaryKeyError struct{ TableName string }

func (e *NoPrimaryKeyError) Error() string {
	return fmt.Sprintf("table %q must declare exactly one primary key column", e.TableName)
}
func (e *NoPrimaryKeyError) Kind() Kind { return KindConstraint }

// MultiplePrimaryKeysError reports a CREATE TABLE with more than one
// primary-key column.
type MultiplePrimaryKeysError struct {
	TableName string
	Count     int
}

func (e *MultiplePrimaryKeysError) Error() string {
	return fmt.Sprintf("table %q declares %d primary key columns, only one is allowed", e.TableName, e.Count)
}
func (e *MultiplePrimaryKeysError) Kind() Kind { return KindConstraint }

// DuplicatePrimaryKeyError reports an insert whose primary key already
// exists in the table.
type DuplicatePrimaryKeyError struct {
	Table string
	Key   string
}

func (e *DuplicatePrimaryKeyError) Error() string {
	return fmt.Sprintf("duplicate primary key %q in table %q", e.Key, e.Table)
}
func (e *DuplicatePrimaryKeyError) Kind() Kind { return KindConstraint }

// NullViolationError reports a NOT NULL column assigned a null value.
type NullViolationError struct {
	Table  string
	Column string
}

func (e *NullViolationError) Error() string {
	return fmt.Sprintf("column %q.%q may not be null", e.Table, e.Column)
}
func (e *NullViolationError) Kind() Kind { return KindConstraint }

// TypeMismatchError reports a value whose datatype does not match its
// column's declared datatype.
type TypeMismatchError struct {
	Table  string
	Column string
	Want   string
	Got    string
}

func (e *TypeMismatchError) Error() string {
	return fmt.Sprintf("column %q.%q expects %s, got %s", e.Table, e.Column, e.Want, e.Got)
}
func (e *TypeMismatchError) Kind() Kind { return KindConstraint }

// MissingDefaultError reports a column with neither a supplied value nor a
// default.
type MissingDefaultError struct {
	Table  string
	Column string
}

func (e *MissingDefaultError) Error() string {
	return fmt.Sprintf("column %q.%q has no value and no default", e.Table, e.Column)
}
func (e *MissingDefaultError) Kind() Kind { return KindConstraint }

// DefaultTypeMismatchError reports a column default whose datatype does not
// match the column's declared datatype.
type DefaultTypeMismatchError struct {
	Table  string
	Column string
}

func (e *DefaultTypeMismatchError) Error() string {
	return fmt.Sprintf("default for column %q.%q does not match its declared type", e.Table, e.Column)
}
func (e *DefaultTypeMismatchError) Kind() Kind { return KindConstraint }

// WriteConflictError reports that the MVCC layer observed an incompatible
// concurrent or newer committed writer for a key. It is retryable by the
// caller with a fresh transaction.
type WriteConflictError struct{ Key string }

func (e *WriteConflictError) Error() string {
	return fmt.Sprintf("write conflict on key %q", e.Key)
}
func (e *WriteConflictError) Kind() Kind { return KindWriteConflict }

// InternalError reports an invariant violation: a bug, not a user error.
type InternalError struct{ Message string }

func (e *InternalError) Error() string { return fmt.Sprintf("internal error: %s", e.Message) }
func (e *InternalError) Kind() Kind    { return KindInternal }
