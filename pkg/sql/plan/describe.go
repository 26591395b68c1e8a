package plan

import (
	"fmt"
	"strings"
)

// Describe renders a Node tree as one indented line per node, outermost
// node first, each child on the lines after its parent and indented one
// level deeper, so the leaves appear last and most indented — an
// EXPLAIN-adjacent debugging aid, not a new SQL surface.
func Describe(n Node) string {
	var b strings.Builder
	describe(&b, n, 0)
	return b.String()
}

func describe(b *strings.Builder, n Node, depth int) {
	indent := strings.Repeat("  ", depth)
	switch v := n.(type) {
	case *CreateTable:
		fmt.Fprintf(b, "%sCreateTable(%s)\n", indent, v.Schema.Name)
	case *Insert:
		fmt.Fprintf(b, "%sInsert(%s)\n", indent, v.Table)
	case *Scan:
		fmt.Fprintf(b, "%sScan(%s, filtered=%v)\n", indent, v.Table, v.Filter != nil)
	case *Filter:
		fmt.Fprintf(b, "%sFilter\n", indent)
		describe(b, v.Input, depth+1)
	case *Projection:
		fmt.Fprintf(b, "%sProjection(%d exprs)\n", indent, len(v.Exprs))
		describe(b, v.Input, depth+1)
	case *Order:
		fmt.Fprintf(b, "%sOrder(%d keys)\n", indent, len(v.Keys))
		describe(b, v.Input, depth+1)
	case *Offset:
		fmt.Fprintf(b, "%sOffset(%d)\n", indent, v.N)
		describe(b, v.Input, depth+1)
	case *Limit:
		fmt.Fprintf(b, "%sLimit(%d)\n", indent, v.N)
		describe(b, v.Input, depth+1)
	case *NestedLoopJoin:
		fmt.Fprintf(b, "%sNestedLoopJoin(outer=%v)\n", indent, v.Outer)
		describe(b, v.Left, depth+1)
		describe(b, v.Right, depth+1)
	case *Aggregate:
		fmt.Fprintf(b, "%sAggregate(group_by=%q)\n", indent, v.GroupBy)
		describe(b, v.Input, depth+1)
	case *Update:
		fmt.Fprintf(b, "%sUpdate(%s)\n", indent, v.Table)
		describe(b, v.Source, depth+1)
	case *Delete:
		fmt.Fprintf(b, "%sDelete(%s)\n", indent, v.Table)
		describe(b, v.Source, depth+1)
	default:
		fmt.Fprintf(b, "%s?\n", indent)
	}
}
