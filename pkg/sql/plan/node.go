// Package plan turns an ast.Statement into a tree of Nodes, one executor
// per node (§4.5 of the component design). Planning is purely
// syntax-directed: no cost-based choices, no statistics.
package plan

import (
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/sql/schema"
)

// Node is one plan-tree node. Each concrete type below corresponds 1:1 to
// an executor in pkg/sql/exec.
type Node interface {
	isNode()
}

// CreateTable carries a fully normalized schema ready for txn.CreateTable.
type CreateTable struct {
	Schema schema.Table
}

func (*CreateTable) isNode() {}

// Insert carries the raw column list / values expressions; defaulting and
// row construction happen in the executor, since it needs the table
// schema which is only available once the transaction is running.
type Insert struct {
	Table   string
	Columns []string
	Values  [][]ast.Expression
}

func (*Insert) isNode() {}

// Scan reads every row of Table, optionally filtering with Filter
// (pushed down from a single-table FROM's WHERE clause).
type Scan struct {
	Table  string
	Filter ast.Expression
}

func (*Scan) isNode() {}

// Filter retains input rows whose Predicate evaluates true.
type Filter struct {
	Input     Node
	Predicate ast.Expression
}

func (*Filter) isNode() {}

// Projection selects/renames columns from Input.
type Projection struct {
	Input Node
	Exprs []ast.SelectExpr
}

func (*Projection) isNode() {}

// Order stably sorts Input by Keys, in order.
type Order struct {
	Input Node
	Keys  []ast.OrderKey
}

func (*Order) isNode() {}

// Offset skips the first N rows of Input.
type Offset struct {
	Input Node
	N     int64
}

func (*Offset) isNode() {}

// Limit keeps at most N rows of Input.
type Limit struct {
	Input Node
	N     int64
}

func (*Limit) isNode() {}

// NestedLoopJoin joins Left and Right. Predicate is nil for a CROSS join.
// Outer marks a LEFT join (RIGHT joins are normalized to LEFT at plan
// time by swapping operands).
type NestedLoopJoin struct {
	Left      Node
	Right     Node
	Predicate ast.Expression
	Outer     bool
}

func (*NestedLoopJoin) isNode() {}

// Aggregate partitions Input by GroupBy (or the whole input if empty) and
// evaluates Exprs once per partition.
type Aggregate struct {
	Input   Node
	Exprs   []ast.SelectExpr
	GroupBy string
}

func (*Aggregate) isNode() {}

// Update wraps a Source (a Scan carrying the WHERE predicate) and applies
// Assignments to every row it produces.
type Update struct {
	Table       string
	Source      Node
	Assignments []ast.Assignment
}

func (*Update) isNode() {}

// Delete wraps a Source (a Scan carrying the WHERE predicate) and deletes
// every row it produces.
type Delete struct {
	Table  string
	Source Node
}

func (*Delete) isNode() {}
