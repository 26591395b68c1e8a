// Command kvsql is a small demonstration driver for the embedded SQL
// engine: create a table, insert rows, run a SELECT, and print the
// result as extended-JSON.
package main

import (
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/bobboyms/kvsql/pkg/kv"
	"github.com/bobboyms/kvsql/pkg/mvcc"
	"github.com/bobboyms/kvsql/pkg/session"
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/types"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		fmt.Fprintf(os.Stderr, "logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	engine := mvcc.NewEngine(kv.NewMemoryStore(), logger)
	sess := session.New(engine, logger)

	if err := run(sess); err != nil {
		logger.Error("demo failed", zap.Error(err))
		os.Exit(1)
	}
}

func run(sess *session.Session) error {
	if _, err := sess.Execute(&ast.CreateTableStmt{
		Name: "products",
		Columns: []ast.ColumnDef{
			{Name: "id", DataType: types.Integer, PrimaryKey: true},
			{Name: "name", DataType: types.String},
			{Name: "price", DataType: types.Float},
		},
	}); err != nil {
		return fmt.Errorf("create table: %w", err)
	}

	rows := []struct {
		id    int64
		name  string
		price float64
	}{
		{1, "widget", 9.99},
		{2, "gadget", 19.99},
		{3, "gizmo", 29.99},
	}
	for _, r := range rows {
		if _, err := sess.Execute(&ast.InsertStmt{
			Table: "products",
			Values: [][]ast.Expression{{
				&ast.ConstExpr{Value: types.NewInteger(r.id)},
				&ast.ConstExpr{Value: types.NewString(r.name)},
				&ast.ConstExpr{Value: types.NewFloat(r.price)},
			}},
		}); err != nil {
			return fmt.Errorf("insert %d: %w", r.id, err)
		}
	}

	limit := int64(10)
	rs, err := sess.Execute(&ast.SelectStmt{
		From: &ast.TableItem{Name: "products"},
		Exprs: []ast.SelectExpr{
			{Expr: &ast.FieldExpr{Name: "id"}},
			{Expr: &ast.FieldExpr{Name: "name"}},
			{Expr: &ast.FieldExpr{Name: "price"}},
		},
		OrderBy: []ast.OrderKey{{Column: "id"}},
		Limit:   &limit,
	})
	if err != nil {
		return fmt.Errorf("select: %w", err)
	}

	out, err := session.RenderJSON(rs)
	if err != nil {
		return fmt.Errorf("render: %w", err)
	}
	fmt.Println(out)
	return nil
}
