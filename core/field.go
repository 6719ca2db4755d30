package core

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType discriminates the value stored in a Field.
type FieldType uint8

const (
	StringType FieldType = iota
	IntType
	Int64Type
	Float64Type
	BoolType
	TimeType
	DurationType
	ErrorType
	AnyType
)

// Field is a typed key-value pair attached to a record. Scalar values
// live in the fixed slots (Int64 doubles as the bool and the
// nanosecond timestamp carrier), so building a field allocates nothing
// except for AnyType.
type Field struct {
	Key     string
	Type    FieldType
	Int64   int64
	Float64 float64
	Str     string
	Any     interface{}
}

// AppendValue appends the field's rendered value to b and returns the
// extended slice. Formatters use it to render fields without an
// intermediate string.
func (f Field) AppendValue(b []byte) []byte {
	switch f.Type {
	case StringType, ErrorType:
		return append(b, f.Str...)
	case IntType, Int64Type:
		return strconv.AppendInt(b, f.Int64, 10)
	case Float64Type:
		return strconv.AppendFloat(b, f.Float64, 'f', -1, 64)
	case BoolType:
		return strconv.AppendBool(b, f.Int64 == 1)
	case TimeType:
		return time.Unix(0, f.Int64).AppendFormat(b, time.RFC3339)
	case DurationType:
		return append(b, time.Duration(f.Int64).String()...)
	case AnyType:
		return fmt.Appendf(b, "%v", f.Any)
	default:
		return b
	}
}

// StringValue renders the field's value as a string.
func (f Field) StringValue() string {
	return string(f.AppendValue(nil))
}
