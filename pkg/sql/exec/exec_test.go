package exec

import (
	"testing"

	"github.com/bobboyms/kvsql/pkg/kv"
	"github.com/bobboyms/kvsql/pkg/mvcc"
	"github.com/bobboyms/kvsql/pkg/sql/ast"
	"github.com/bobboyms/kvsql/pkg/sql/plan"
	"github.com/bobboyms/kvsql/pkg/sql/txn"
	"github.com/bobboyms/kvsql/pkg/types"
)

func newTx(t *testing.T) *txn.Tx {
	t.Helper()
	e := mvcc.NewEngine(kv.NewMemoryStore(), nil)
	mv, err := e.Begin()
	if err != nil {
		t.Fatal(err)
	}
	return txn.New(mv)
}

func mustExec(t *testing.T, tx *txn.Tx, stmt ast.Statement) ResultSet {
	t.Helper()
	node, err := plan.Plan(stmt)
	if err != nil {
		t.Fatal(err)
	}
	rs, err := Execute(node, tx)
	if err != nil {
		t.Fatal(err)
	}
	return rs
}

func intVal(v int64) types.Value    { return types.NewInteger(v) }
func strVal(v string) types.Value   { return types.NewString(v) }
func constExpr(v types.Value) ast.Expression {
	return &ast.ConstExpr{Value: v}
}

// TestScenarioA_CRUDRoundTrip reproduces spec scenario A.
func TestScenarioA_CRUDRoundTrip(t *testing.T) {
	tx := newTx(t)

	mustExec(t, tx, &ast.CreateTableStmt{
		Name: "t",
		Columns: []ast.ColumnDef{
			{Name: "a", DataType: types.Integer, PrimaryKey: true},
			{Name: "b", DataType: types.String, Default: constExpr(strVal("vv"))},
			{Name: "c", DataType: types.Integer, Default: constExpr(intVal(100))},
		},
	})

	mustExec(t, tx, &ast.InsertStmt{
		Table:  "t",
		Values: [][]ast.Expression{{constExpr(intVal(1)), constExpr(strVal("a")), constExpr(intVal(1))}},
	})
	mustExec(t, tx, &ast.InsertStmt{
		Table:   "t",
		Columns: []string{"c", "a"},
		Values:  [][]ast.Expression{{constExpr(intVal(200)), constExpr(intVal(3))}},
	})

	rs := mustExec(t, tx, &ast.SelectStmt{
		From: &ast.TableItem{Name: "t"},
		Exprs: []ast.SelectExpr{
			{Expr: &ast.FieldExpr{Name: "a"}},
			{Expr: &ast.FieldExpr{Name: "b"}},
			{Expr: &ast.FieldExpr{Name: "c"}},
		},
	})

	if len(rs.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rs.Rows))
	}
	checkRow(t, rs.Rows[0], int64(1), "a", int64(1))
	checkRow(t, rs.Rows[1], int64(3), "vv", int64(200))
}

func checkRow(t *testing.T, row types.Row, a int64, b string, c int64) {
	t.Helper()
	ai, _ := row[0].AsInteger()
	bs, _ := row[1].AsString()
	ci, _ := row[2].AsInteger()
	if ai != a || bs != b || ci != c {
		t.Fatalf("row = (%d,%s,%d), want (%d,%s,%d)", ai, bs, ci, a, b, c)
	}
}

// TestScenarioB_UpdateChangingPrimaryKey reproduces spec scenario B.
func TestScenarioB_UpdateChangingPrimaryKey(t *testing.T) {
	tx := newTx(t)
	mustExec(t, tx, &ast.CreateTableStmt{
		Name: "t",
		Columns: []ast.ColumnDef{
			{Name: "a", DataType: types.Integer, PrimaryKey: true},
			{Name: "b", DataType: types.String, Default: constExpr(strVal("vv"))},
			{Name: "c", DataType: types.Integer, Default: constExpr(intVal(100))},
		},
	})
	mustExec(t, tx, &ast.InsertStmt{
		Table:  "t",
		Values: [][]ast.Expression{{constExpr(intVal(1)), constExpr(strVal("a")), constExpr(intVal(1))}},
	})
	mustExec(t, tx, &ast.InsertStmt{
		Table:   "t",
		Columns: []string{"c", "a"},
		Values:  [][]ast.Expression{{constExpr(intVal(200)), constExpr(intVal(3))}},
	})

	mustExec(t, tx, &ast.UpdateStmt{
		Table:       "t",
		Assignments: []ast.Assignment{{Column: "a", Expr: constExpr(intVal(33))}},
		Where:       &ast.OperationExpr{Op: ast.OpEqual, Left: &ast.FieldExpr{Name: "a"}, Right: constExpr(intVal(3))},
	})

	rs := mustExec(t, tx, &ast.SelectStmt{
		From:  &ast.TableItem{Name: "t"},
		Exprs: []ast.SelectExpr{{Expr: &ast.FieldExpr{Name: "a"}}, {Expr: &ast.FieldExpr{Name: "b"}}, {Expr: &ast.FieldExpr{Name: "c"}}},
	})
	if len(rs.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rs.Rows))
	}
	checkRow(t, rs.Rows[0], int64(1), "a", int64(1))
	checkRow(t, rs.Rows[1], int64(33), "vv", int64(200))
}

// TestScenarioF_AggregateWithGrouping reproduces spec scenario F.
func TestScenarioF_AggregateWithGrouping(t *testing.T) {
	tx := newTx(t)
	mustExec(t, tx, &ast.CreateTableStmt{
		Name: "s",
		Columns: []ast.ColumnDef{
			{Name: "k", DataType: types.String, PrimaryKey: true},
			{Name: "g", DataType: types.String},
			{Name: "x", DataType: types.Integer},
		},
	})
	rows := [][3]interface{}{
		{"a", "G1", int64(1)},
		{"b", "G1", int64(3)},
		{"c", "G2", int64(10)},
	}
	for _, r := range rows {
		mustExec(t, tx, &ast.InsertStmt{
			Table: "s",
			Values: [][]ast.Expression{{
				constExpr(strVal(r[0].(string))),
				constExpr(strVal(r[1].(string))),
				constExpr(intVal(r[2].(int64))),
			}},
		})
	}

	rs := mustExec(t, tx, &ast.SelectStmt{
		From:    &ast.TableItem{Name: "s"},
		GroupBy: "g",
		Exprs: []ast.SelectExpr{
			{Expr: &ast.FieldExpr{Name: "g"}},
			{Expr: &ast.FunctionExpr{Name: "count", Column: "k"}},
			{Expr: &ast.FunctionExpr{Name: "sum", Column: "x"}},
		},
	})

	if len(rs.Rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rs.Rows))
	}
	got := map[string][2]float64{}
	for _, row := range rs.Rows {
		g, _ := row[0].AsString()
		cnt, _ := row[1].AsInteger()
		sum, _ := row[2].AsFloat()
		got[g] = [2]float64{float64(cnt), sum}
	}
	if got["G1"] != [2]float64{2, 4} {
		t.Fatalf("G1 = %v, want {2,4}", got["G1"])
	}
	if got["G2"] != [2]float64{1, 10} {
		t.Fatalf("G2 = %v, want {1,10}", got["G2"])
	}
}

func TestJoin_InnerAndLeftOuter(t *testing.T) {
	tx := newTx(t)
	mustExec(t, tx, &ast.CreateTableStmt{Name: "l", Columns: []ast.ColumnDef{
		{Name: "id", DataType: types.Integer, PrimaryKey: true},
	}})
	mustExec(t, tx, &ast.CreateTableStmt{Name: "r", Columns: []ast.ColumnDef{
		{Name: "lid", DataType: types.Integer, PrimaryKey: true},
	}})
	mustExec(t, tx, &ast.InsertStmt{Table: "l", Values: [][]ast.Expression{{constExpr(intVal(1))}}})
	mustExec(t, tx, &ast.InsertStmt{Table: "l", Values: [][]ast.Expression{{constExpr(intVal(2))}}})
	mustExec(t, tx, &ast.InsertStmt{Table: "r", Values: [][]ast.Expression{{constExpr(intVal(1))}}})

	joinPred := &ast.OperationExpr{Op: ast.OpEqual, Left: &ast.FieldExpr{Name: "id"}, Right: &ast.FieldExpr{Name: "lid"}}

	inner := mustExec(t, tx, &ast.SelectStmt{
		From: &ast.JoinItem{Type: ast.JoinInner, Left: &ast.TableItem{Name: "l"}, Right: &ast.TableItem{Name: "r"}, Predicate: joinPred},
		Exprs: []ast.SelectExpr{{Expr: &ast.FieldExpr{Name: "id"}}},
	})
	if len(inner.Rows) != 1 {
		t.Fatalf("inner join rows = %d, want 1", len(inner.Rows))
	}

	left := mustExec(t, tx, &ast.SelectStmt{
		From: &ast.JoinItem{Type: ast.JoinLeft, Left: &ast.TableItem{Name: "l"}, Right: &ast.TableItem{Name: "r"}, Predicate: joinPred},
		Exprs: []ast.SelectExpr{{Expr: &ast.FieldExpr{Name: "id"}}, {Expr: &ast.FieldExpr{Name: "lid"}}},
	})
	if len(left.Rows) != 2 {
		t.Fatalf("left join rows = %d, want 2", len(left.Rows))
	}
}

func TestDelete(t *testing.T) {
	tx := newTx(t)
	mustExec(t, tx, &ast.CreateTableStmt{Name: "t", Columns: []ast.ColumnDef{
		{Name: "id", DataType: types.Integer, PrimaryKey: true},
	}})
	mustExec(t, tx, &ast.InsertStmt{Table: "t", Values: [][]ast.Expression{{constExpr(intVal(1))}}})
	mustExec(t, tx, &ast.InsertStmt{Table: "t", Values: [][]ast.Expression{{constExpr(intVal(2))}}})

	rs := mustExec(t, tx, &ast.DeleteStmt{
		Table: "t",
		Where: &ast.OperationExpr{Op: ast.OpEqual, Left: &ast.FieldExpr{Name: "id"}, Right: constExpr(intVal(1))},
	})
	if rs.Count != 1 {
		t.Fatalf("delete count = %d, want 1", rs.Count)
	}

	rest := mustExec(t, tx, &ast.SelectStmt{
		From:  &ast.TableItem{Name: "t"},
		Exprs: []ast.SelectExpr{{Expr: &ast.FieldExpr{Name: "id"}}},
	})
	if len(rest.Rows) != 1 {
		t.Fatalf("remaining rows = %d, want 1", len(rest.Rows))
	}
}

func TestLimitOffset(t *testing.T) {
	tx := newTx(t)
	mustExec(t, tx, &ast.CreateTableStmt{Name: "t", Columns: []ast.ColumnDef{
		{Name: "id", DataType: types.Integer, PrimaryKey: true},
	}})
	for i := int64(1); i <= 5; i++ {
		mustExec(t, tx, &ast.InsertStmt{Table: "t", Values: [][]ast.Expression{{constExpr(intVal(i))}}})
	}

	offset := int64(1)
	limit := int64(2)
	rs := mustExec(t, tx, &ast.SelectStmt{
		From:    &ast.TableItem{Name: "t"},
		OrderBy: []ast.OrderKey{{Column: "id"}},
		Offset:  &offset,
		Limit:   &limit,
		Exprs:   []ast.SelectExpr{{Expr: &ast.FieldExpr{Name: "id"}}},
	})
	if len(rs.Rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rs.Rows))
	}
	first, _ := rs.Rows[0][0].AsInteger()
	second, _ := rs.Rows[1][0].AsInteger()
	if first != 2 || second != 3 {
		t.Fatalf("got (%d,%d), want (2,3)", first, second)
	}
}
