// Package ast defines the statement and expression tree the parser (out of
// scope here) is expected to produce and the planner consumes. These types
// are the contract boundary between upstream SQL parsing and the planner.
package ast

import "github.com/bobboyms/kvsql/pkg/types"

// Statement is any top-level SQL statement the planner accepts.
type Statement interface {
	isStatement()
}

// ColumnDef is one column declaration in a CREATE TABLE statement.
// Nullable is a pointer so the planner can distinguish "not specified in
// the source text" (nil, defaulted per column kind) from an explicit
// NULL/NOT NULL clause.
type ColumnDef struct {
	Name       string
	DataType   types.DataType
	Nullable   *bool
	PrimaryKey bool
	Default    Expression
}

// CreateTableStmt is `CREATE TABLE name (columns...)`.
type CreateTableStmt struct {
	Name    string
	Columns []ColumnDef
}

func (*CreateTableStmt) isStatement() {}

// InsertStmt is `INSERT INTO table [(columns...)] VALUES (...), (...)`.
// Columns is nil when the statement omitted the column list.
type InsertStmt struct {
	Table   string
	Columns []string
	Values  [][]Expression
}

func (*InsertStmt) isStatement() {}

// SelectExpr is one projected expression, with an optional AS alias.
type SelectExpr struct {
	Expr  Expression
	Alias string
}

// OrderKey is one `ORDER BY` key.
type OrderKey struct {
	Column string
	Desc   bool
}

// SelectStmt is a full SELECT: FROM, an optional WHERE, optional GROUP BY
// (as a bare column name — the current scope has no expression grouping),
// optional HAVING, the projected expressions, ORDER BY, and LIMIT/OFFSET.
type SelectStmt struct {
	From     FromItem
	Where    Expression
	GroupBy  string // empty means no GROUP BY
	Having   Expression
	Exprs    []SelectExpr
	OrderBy  []OrderKey
	Limit    *int64
	Offset   *int64
}

func (*SelectStmt) isStatement() {}

// Assignment is one `SET column = expr` clause of an UPDATE.
type Assignment struct {
	Column string
	Expr   Expression
}

// UpdateStmt is `UPDATE table SET assignments... [WHERE predicate]`.
type UpdateStmt struct {
	Table       string
	Assignments []Assignment
	Where       Expression
}

func (*UpdateStmt) isStatement() {}

// DeleteStmt is `DELETE FROM table [WHERE predicate]`.
type DeleteStmt struct {
	Table string
	Where Expression
}

func (*DeleteStmt) isStatement() {}

// Expression is any scalar or predicate expression.
type Expression interface {
	isExpression()
}

// FieldExpr references a column by name.
type FieldExpr struct {
	Name string
}

func (*FieldExpr) isExpression() {}

// ConstExpr is a literal value (including NULL).
type ConstExpr struct {
	Value types.Value
}

func (*ConstExpr) isExpression() {}

// OperatorKind enumerates the binary comparison operators the parser can
// produce.
type OperatorKind int

const (
	OpEqual OperatorKind = iota
	OpGreaterThan
	OpLessThan
)

// OperationExpr is a binary comparison `lhs OP rhs`.
type OperationExpr struct {
	Op    OperatorKind
	Left  Expression
	Right Expression
}

func (*OperationExpr) isExpression() {}

// FunctionExpr is an aggregate function call `NAME(column)`, e.g.
// `count(id)`, `sum(x)`. Name is matched case-insensitively by the
// aggregate executor.
type FunctionExpr struct {
	Name   string
	Column string
}

func (*FunctionExpr) isExpression() {}

// FromItem is any source of rows in a SELECT's FROM clause.
type FromItem interface {
	isFromItem()
}

// TableItem references a single table by name.
type TableItem struct {
	Name string
}

func (*TableItem) isFromItem() {}

// JoinType enumerates the join kinds the parser can produce. RIGHT is
// normalized away by the planner (swapped to a LEFT join with operands
// reversed), so the planner's Node tree never itself carries JoinRight.
type JoinType int

const (
	JoinCross JoinType = iota
	JoinInner
	JoinLeft
	JoinRight
)

// JoinItem is a two-sided join with an optional predicate. CROSS joins
// carry a nil Predicate.
type JoinItem struct {
	Type      JoinType
	Left      FromItem
	Right     FromItem
	Predicate Expression
}

func (*JoinItem) isFromItem() {}
