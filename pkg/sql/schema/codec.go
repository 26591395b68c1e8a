// Binary encoding for Table schemas and Rows, stored as the SQL-level
// value payload under Version(raw, v) (see pkg/mvcc). This is a stable
// binary format built directly on the protobuf wire format via
// google.golang.org/protobuf/encoding/protowire's low-level
// Append*/Consume* functions, rather than generated .pb.go message types:
// there is no .proto source (and no generated code) to hand-author here
// with any confidence of correctness, so this package speaks the wire
// format directly. It is deliberately distinct from pkg/encoding, which
// produces order-preserving KEY bytes — the protobuf wire format is not
// order preserving, so it is only ever used for opaque VALUE payloads.
package schema

import (
	"math"

	"google.golang.org/protobuf/encoding/protowire"

	"github.com/bobboyms/kvsql/pkg/errors"
	"github.com/bobboyms/kvsql/pkg/types"
)

func floatBits(f float64) uint64   { return math.Float64bits(f) }
func floatFromBits(b uint64) float64 { return math.Float64frombits(b) }

// Value submessage field numbers. Exactly one of these is present for a
// non-null value; none present means Null (mirroring a protobuf oneof
// where the unset case is the zero/absent case).
const (
	valueFieldBool   protowire.Number = 1
	valueFieldInt    protowire.Number = 2
	valueFieldFloat  protowire.Number = 3
	valueFieldString protowire.Number = 4
)

func encodeValueMsg(v types.Value) []byte {
	if v.IsNull() {
		return nil
	}
	dt, _ := v.Datatype()
	var b []byte
	switch dt {
	case types.Boolean:
		bv, _ := v.AsBoolean()
		n := uint64(0)
		if bv {
			n = 1
		}
		b = protowire.AppendTag(b, valueFieldBool, protowire.VarintType)
		b = protowire.AppendVarint(b, n)
	case types.Integer:
		iv, _ := v.AsInteger()
		b = protowire.AppendTag(b, valueFieldInt, protowire.VarintType)
		b = protowire.AppendVarint(b, protowire.EncodeZigZag(iv))
	case types.Float:
		fv, _ := v.AsFloat()
		b = protowire.AppendTag(b, valueFieldFloat, protowire.Fixed64Type)
		b = protowire.AppendFixed64(b, floatBits(fv))
	case types.String:
		sv, _ := v.AsString()
		b = protowire.AppendTag(b, valueFieldString, protowire.BytesType)
		b = protowire.AppendBytes(b, []byte(sv))
	}
	return b
}

func decodeValueMsg(b []byte) (types.Value, error) {
	if len(b) == 0 {
		return types.Null, nil
	}
	for len(b) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 {
			return types.Value{}, &errors.CodecError{Message: "decodeValueMsg: bad tag"}
		}
		b = b[tagLen:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return types.Value{}, &errors.CodecError{Message: "decodeValueMsg: bad varint"}
			}
			b = b[n:]
			switch num {
			case valueFieldBool:
				return types.NewBoolean(v != 0), nil
			case valueFieldInt:
				return types.NewInteger(protowire.DecodeZigZag(v)), nil
			}
		case protowire.Fixed64Type:
			v, n := protowire.ConsumeFixed64(b)
			if n < 0 {
				return types.Value{}, &errors.CodecError{Message: "decodeValueMsg: bad fixed64"}
			}
			b = b[n:]
			if num == valueFieldFloat {
				return types.NewFloat(floatFromBits(v)), nil
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return types.Value{}, &errors.CodecError{Message: "decodeValueMsg: bad bytes"}
			}
			b = b[n:]
			if num == valueFieldString {
				return types.NewString(string(v)), nil
			}
		default:
			return types.Value{}, &errors.CodecError{Message: "decodeValueMsg: unsupported wire type"}
		}
	}
	return types.Null, nil
}

// EncodeRow serializes a row as a repeated-submessage field, one entry per
// cell in column order.
func EncodeRow(row types.Row) []byte {
	var b []byte
	for _, cell := range row {
		b = protowire.AppendTag(b, 1, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeValueMsg(cell))
	}
	return b
}

// DecodeRow is the inverse of EncodeRow.
func DecodeRow(b []byte) (types.Row, error) {
	var row types.Row
	for len(b) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 || typ != protowire.BytesType || num != 1 {
			return nil, &errors.CodecError{Message: "DecodeRow: malformed cell field"}
		}
		b = b[tagLen:]
		cellBytes, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return nil, &errors.CodecError{Message: "DecodeRow: bad cell bytes"}
		}
		b = b[n:]

		v, err := decodeValueMsg(cellBytes)
		if err != nil {
			return nil, err
		}
		row = append(row, v)
	}
	return row, nil
}

// column submessage field numbers.
const (
	columnFieldName       protowire.Number = 1
	columnFieldDataType   protowire.Number = 2
	columnFieldNullable   protowire.Number = 3
	columnFieldHasDefault protowire.Number = 4
	columnFieldDefault    protowire.Number = 5
	columnFieldPrimaryKey protowire.Number = 6
)

func encodeColumnMsg(c Column) []byte {
	var b []byte
	b = protowire.AppendTag(b, columnFieldName, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(c.Name))

	b = protowire.AppendTag(b, columnFieldDataType, protowire.VarintType)
	b = protowire.AppendVarint(b, uint64(c.DataType))

	b = protowire.AppendTag(b, columnFieldNullable, protowire.VarintType)
	b = protowire.AppendVarint(b, boolVarint(c.Nullable))

	b = protowire.AppendTag(b, columnFieldHasDefault, protowire.VarintType)
	b = protowire.AppendVarint(b, boolVarint(c.HasDefault))

	if c.HasDefault {
		b = protowire.AppendTag(b, columnFieldDefault, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeValueMsg(c.Default))
	}

	b = protowire.AppendTag(b, columnFieldPrimaryKey, protowire.VarintType)
	b = protowire.AppendVarint(b, boolVarint(c.PrimaryKey))
	return b
}

func decodeColumnMsg(b []byte) (Column, error) {
	var c Column
	for len(b) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 {
			return Column{}, &errors.CodecError{Message: "decodeColumnMsg: bad tag"}
		}
		b = b[tagLen:]

		switch typ {
		case protowire.VarintType:
			v, n := protowire.ConsumeVarint(b)
			if n < 0 {
				return Column{}, &errors.CodecError{Message: "decodeColumnMsg: bad varint"}
			}
			b = b[n:]
			switch num {
			case columnFieldDataType:
				c.DataType = types.DataType(v)
			case columnFieldNullable:
				c.Nullable = v != 0
			case columnFieldHasDefault:
				c.HasDefault = v != 0
			case columnFieldPrimaryKey:
				c.PrimaryKey = v != 0
			}
		case protowire.BytesType:
			v, n := protowire.ConsumeBytes(b)
			if n < 0 {
				return Column{}, &errors.CodecError{Message: "decodeColumnMsg: bad bytes"}
			}
			b = b[n:]
			switch num {
			case columnFieldName:
				c.Name = string(v)
			case columnFieldDefault:
				dv, err := decodeValueMsg(v)
				if err != nil {
					return Column{}, err
				}
				c.Default = dv
			}
		default:
			return Column{}, &errors.CodecError{Message: "decodeColumnMsg: unsupported wire type"}
		}
	}
	return c, nil
}

// EncodeTable serializes a table schema as a stable binary message: name
// plus repeated column submessages, in declaration order.
func EncodeTable(t Table) []byte {
	var b []byte
	b = protowire.AppendTag(b, 1, protowire.BytesType)
	b = protowire.AppendBytes(b, []byte(t.Name))
	for _, c := range t.Columns {
		b = protowire.AppendTag(b, 2, protowire.BytesType)
		b = protowire.AppendBytes(b, encodeColumnMsg(c))
	}
	return b
}

// DecodeTable is the inverse of EncodeTable.
func DecodeTable(b []byte) (Table, error) {
	var t Table
	for len(b) > 0 {
		num, typ, tagLen := protowire.ConsumeTag(b)
		if tagLen < 0 || typ != protowire.BytesType {
			return Table{}, &errors.CodecError{Message: "DecodeTable: malformed field"}
		}
		b = b[tagLen:]
		v, n := protowire.ConsumeBytes(b)
		if n < 0 {
			return Table{}, &errors.CodecError{Message: "DecodeTable: bad bytes"}
		}
		b = b[n:]

		switch num {
		case 1:
			t.Name = string(v)
		case 2:
			c, err := decodeColumnMsg(v)
			if err != nil {
				return Table{}, err
			}
			t.Columns = append(t.Columns, c)
		default:
			return Table{}, &errors.CodecError{Message: "DecodeTable: unknown field"}
		}
	}
	return t, nil
}

func boolVarint(b bool) uint64 {
	if b {
		return 1
	}
	return 0
}
