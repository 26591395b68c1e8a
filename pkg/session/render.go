package session

import (
	"go.mongodb.org/mongo-driver/v2/bson"

	"github.com/bobboyms/kvsql/pkg/sql/exec"
	"github.com/bobboyms/kvsql/pkg/types"
)

// RenderJSON renders a ResultSet as extended-JSON text, for callers (a
// REPL, a test harness) that want to print or log a query result. This
// repurposes the reference codebase's BsonToJson round-trip: build a
// bson.D describing the result, then render it with bson.MarshalExtJSON
// exactly as storage.BsonToJson does, rather than hand-writing a JSON
// encoder.
func RenderJSON(rs exec.ResultSet) (string, error) {
	doc := bson.D{{Key: "kind", Value: kindName(rs.Kind)}}

	switch rs.Kind {
	case exec.KindCreateTable:
		doc = append(doc, bson.E{Key: "table", Value: rs.TableName})
	case exec.KindInsert, exec.KindUpdate, exec.KindDelete:
		doc = append(doc, bson.E{Key: "count", Value: rs.Count})
	case exec.KindScan:
		doc = append(doc, bson.E{Key: "columns", Value: rs.Columns})
		doc = append(doc, bson.E{Key: "rows", Value: rowsToBSON(rs.Rows)})
	}

	b, err := bson.MarshalExtJSON(doc, false, false)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func kindName(k exec.Kind) string {
	switch k {
	case exec.KindCreateTable:
		return "create_table"
	case exec.KindInsert:
		return "insert"
	case exec.KindScan:
		return "scan"
	case exec.KindUpdate:
		return "update"
	case exec.KindDelete:
		return "delete"
	default:
		return "unknown"
	}
}

func rowsToBSON(rows []types.Row) bson.A {
	out := make(bson.A, len(rows))
	for i, row := range rows {
		cells := make(bson.A, len(row))
		for j, v := range row {
			cells[j] = valueToBSON(v)
		}
		out[i] = cells
	}
	return out
}

func valueToBSON(v types.Value) interface{} {
	if v.IsNull() {
		return nil
	}
	dt, _ := v.Datatype()
	switch dt {
	case types.Boolean:
		b, _ := v.AsBoolean()
		return b
	case types.Integer:
		i, _ := v.AsInteger()
		return i
	case types.Float:
		f, _ := v.AsFloat()
		return f
	case types.String:
		s, _ := v.AsString()
		return s
	default:
		return v.String()
	}
}
