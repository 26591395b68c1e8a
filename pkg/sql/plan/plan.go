package plan

import (
	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/sql/schema"
	"github.com/bobboyms/kvsql/pkg/types"
)

// Plan compiles one statement into its Node tree.
func Plan(stmt ast.Statement) (Node, error) {
	switch s := stmt.(type) {
	case *ast.CreateTableStmt:
		return planCreateTable(s)
	case *ast.InsertStmt:
		return &Insert{Table: s.Table, Columns: s.Columns, Values: s.Values}, nil
	case *ast.SelectStmt:
		return planSelect(s)
	case *ast.UpdateStmt:
		return &Update{
			Table:       s.Table,
			Source:      &Scan{Table: s.Table, Filter: s.Where},
			Assignments: s.Assignments,
		}, nil
	case *ast.DeleteStmt:
		return &Delete{Table: s.Table, Source: &Scan{Table: s.Table, Filter: s.Where}}, nil
	default:
		return nil, &errors.ParseError{Message: "unsupported statement"}
	}
}

func planCreateTable(s *ast.CreateTableStmt) (Node, error) {
	cols := make([]schema.Column, 0, len(s.Columns))
	for _, cd := range s.Columns {
		col, err := normalizeColumn(cd)
		if err != nil {
			return nil, err
		}
		cols = append(cols, col)
	}
	tbl := schema.Table{Name: s.Name, Columns: cols}
	if err := tbl.Validate(); err != nil {
		return nil, err
	}
	return &CreateTable{Schema: tbl}, nil
}

// normalizeColumn resolves the nullable default (primary-key columns
// default to non-nullable, everything else defaults to nullable) and the
// default Value (a column default is the current scope's only constant
// expression kind; a nullable column with no declared default defaults to
// Null so Insert can always fall back to "the column's default" without a
// special case for "no default at all but nullable").
func normalizeColumn(cd ast.ColumnDef) (schema.Column, error) {
	nullable := !cd.PrimaryKey
	if cd.Nullable != nil {
		nullable = *cd.Nullable
	}

	col := schema.Column{
		Name:       cd.Name,
		DataType:   cd.DataType,
		Nullable:   nullable,
		PrimaryKey: cd.PrimaryKey,
	}

	switch {
	case cd.Default != nil:
		ce, ok := cd.Default.(*ast.ConstExpr)
		if !ok {
			return schema.Column{}, &errors.ParseError{Message: "column default must be a constant expression"}
		}
		col.HasDefault = true
		col.Default = ce.Value
	case nullable:
		col.HasDefault = true
		col.Default = types.Null
	}
	return col, nil
}

func planSelect(s *ast.SelectStmt) (Node, error) {
	fromNode, err := planFromItem(s.From)
	if err != nil {
		return nil, err
	}

	if s.Where != nil {
		if scan, ok := fromNode.(*Scan); ok {
			scan.Filter = s.Where
		} else {
			fromNode = &Filter{Input: fromNode, Predicate: s.Where}
		}
	}

	node := fromNode
	hasAggregation := s.GroupBy != "" || selectHasAggregate(s.Exprs)
	if hasAggregation {
		node = &Aggregate{Input: node, Exprs: s.Exprs, GroupBy: s.GroupBy}
	}

	if s.Having != nil {
		node = &Filter{Input: node, Predicate: s.Having}
	}

	if len(s.OrderBy) > 0 {
		node = &Order{Input: node, Keys: s.OrderBy}
	}
	if s.Offset != nil {
		node = &Offset{Input: node, N: *s.Offset}
	}
	if s.Limit != nil {
		node = &Limit{Input: node, N: *s.Limit}
	}

	if !hasAggregation {
		node = &Projection{Input: node, Exprs: s.Exprs}
	}
	return node, nil
}

func selectHasAggregate(exprs []ast.SelectExpr) bool {
	for _, se := range exprs {
		if _, ok := se.Expr.(*ast.FunctionExpr); ok {
			return true
		}
	}
	return false
}

func planFromItem(item ast.FromItem) (Node, error) {
	switch v := item.(type) {
	case *ast.TableItem:
		return &Scan{Table: v.Name}, nil
	case *ast.JoinItem:
		left, right, predicate, outer := v.Left, v.Right, v.Predicate, false
		jtype := v.Type
		if jtype == ast.JoinRight {
			left, right = right, left
			jtype = ast.JoinLeft
		}
		switch jtype {
		case ast.JoinLeft:
			outer = true
		case ast.JoinCross:
			predicate = nil
		}

		leftNode, err := planFromItem(left)
		if err != nil {
			return nil, err
		}
		rightNode, err := planFromItem(right)
		if err != nil {
			return nil, err
		}
		return &NestedLoopJoin{Left: leftNode, Right: rightNode, Predicate: predicate, Outer: outer}, nil
	default:
		return nil, &errors.ParseError{Message: "unsupported FROM item"}
	}
}
