// Package exec runs a plan.Node tree against a txn.Tx and produces a
// ResultSet (§4.6 of the component design, §6's session surface). Each
// plan node has one corresponding executor function here; rows are
// materialized between every node rather than streamed, matching the
// reference design's stated preference for simplicity over memory
// efficiency.
package exec

import "github.com/bobboyms/kvsql/pkg/types"

// Kind discriminates the variant of a ResultSet, mirroring §6's
// CreateTable{name}/Insert{count}/Scan{columns,rows}/Update{count}/
// Delete{count} union.
type Kind int

const (
	KindCreateTable Kind = iota
	KindInsert
	KindScan
	KindUpdate
	KindDelete
)

// ResultSet is the outcome of running one statement's plan to completion.
type ResultSet struct {
	Kind      Kind
	TableName string     // set for KindCreateTable
	Count     int        // set for KindInsert/KindUpdate/KindDelete
	Columns   []string   // set for KindScan
	Rows      []types.Row // set for KindScan
}

// rowSet is the internal, column-carrying row stream passed between the
// Select-pipeline node executors (Scan/Filter/Projection/Order/Offset/
// Limit/NestedLoopJoin/Aggregate). It becomes a ResultSet only at the
// statement's top level.
type rowSet struct {
	Columns []string
	Rows    []types.Row
}

func indexOf(columns []string, name string) int {
	for i, c := range columns {
		if c == name {
			return i
		}
	}
	return -1
}
