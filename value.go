package ordkey

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
)

// Value is a typed column value. Values are immutable; the zero Value is
// invalid.
type Value struct {
	typ  Type
	null bool
	i    int64
	f    float64
	b    []byte
}

// Int8 returns an int8 value.
func Int8(v int8) Value { return Value{typ: TypeInt8, i: int64(v)} }

// Int16 returns an int16 value.
func Int16(v int16) Value { return Value{typ: TypeInt16, i: int64(v)} }

// Int32 returns an int32 value.
func Int32(v int32) Value { return Value{typ: TypeInt32, i: int64(v)} }

// Int64 returns an int64 value.
func Int64(v int64) Value { return Value{typ: TypeInt64, i: v} }

// Float32 returns a float32 value.
func Float32(v float32) Value { return Value{typ: TypeFloat32, f: float64(v)} }

// Float64 returns a float64 value.
func Float64(v float64) Value { return Value{typ: TypeFloat64, f: v} }

// Bytes returns a bytes value. The slice is not copied and must not be
// modified while the value is in use.
func Bytes(v []byte) Value { return Value{typ: TypeBytes, b: v} }

// String returns a string value.
func String(v string) Value { return Value{typ: TypeString, b: []byte(v)} }

// Null returns a NULL of type t. NULLs can only be encoded into nullable
// columns.
func Null(t Type) Value { return Value{typ: t, null: true} }

// Type returns the logical type of the value.
func (v Value) Type() Type { return v.typ }

// IsNull returns true for NULL values.
func (v Value) IsNull() bool { return v.null }

// Int returns the integer of integer values, 0 otherwise.
func (v Value) Int() int64 { return v.i }

// Float returns the float of float values, 0 otherwise. Float32 values are
// widened without loss.
func (v Value) Float() float64 { return v.f }

// Bytes returns the payload of bytes and string values.
func (v Value) Bytes() []byte { return v.b }

// Str returns the payload of bytes and string values as a string.
func (v Value) Str() string { return string(v.b) }

// Compare compares two values of the same type in their natural order.
// NULL sorts before any non-NULL value. The result is undefined for values
// of different types.
func (v Value) Compare(o Value) int {
	switch {
	case v.null && o.null:
		return 0
	case v.null:
		return -1
	case o.null:
		return 1
	}

	switch {
	case v.typ.IsInteger():
		return compareInt(v.i, o.i)
	case v.typ.IsFloat():
		return compareFloat(v.f, o.f)
	default:
		return bytes.Compare(v.b, o.b)
	}
}

// Equal returns true if both values have the same type and compare equal.
// Positive and negative zero are equal, NaNs are equal to NaNs with the same
// sign and payload.
func (v Value) Equal(o Value) bool {
	return v.typ == o.typ && v.Compare(o) == 0
}

// String returns a human readable representation, which ParseValue accepts.
func (v Value) String() string {
	if v.null {
		return "NULL"
	}

	switch v.typ {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		return strconv.FormatInt(v.i, 10)
	case TypeFloat32:
		return strconv.FormatFloat(v.f, 'g', -1, 32)
	case TypeFloat64:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case TypeBytes:
		return "0x" + hex.EncodeToString(v.b)
	case TypeString:
		return strconv.Quote(string(v.b))
	}
	return "<invalid>"
}

// ParseValue parses a textual literal of type t. "NULL" yields a NULL.
// Bytes accept a 0x prefixed hex string or raw text, strings accept a
// quoted or raw text.
func ParseValue(t Type, s string) (Value, error) {
	if s == "NULL" {
		return Null(t), nil
	}

	switch t {
	case TypeInt8, TypeInt16, TypeInt32, TypeInt64:
		n, err := strconv.ParseInt(s, 10, t.Width())
		if err != nil {
			return Value{}, wrapErr(ErrSchemaViolation, "parse %s %q: %v", t, s, err)
		}
		return Value{typ: t, i: n}, nil
	case TypeFloat32, TypeFloat64:
		f, err := strconv.ParseFloat(s, t.Width())
		if err != nil {
			return Value{}, wrapErr(ErrSchemaViolation, "parse %s %q: %v", t, s, err)
		}
		return Value{typ: t, f: f}, nil
	case TypeBytes:
		if strings.HasPrefix(s, "0x") {
			b, err := hex.DecodeString(s[2:])
			if err != nil {
				return Value{}, wrapErr(ErrSchemaViolation, "parse bytes %q: %v", s, err)
			}
			return Bytes(b), nil
		}
		return Bytes([]byte(s)), nil
	case TypeString:
		if len(s) > 1 && s[0] == '"' {
			u, err := strconv.Unquote(s)
			if err != nil {
				return Value{}, wrapErr(ErrSchemaViolation, "parse string %s: %v", s, err)
			}
			return String(u), nil
		}
		return String(s), nil
	}
	return Value{}, wrapErr(ErrSchemaViolation, "unknown type %s", t)
}

// --------------------------------------------------------------------

func compareInt(a, b int64) int {
	if a < b {
		return -1
	} else if a > b {
		return 1
	}
	return 0
}

// compareFloat orders -NaN < -Inf < ... < -0 == +0 < ... < +Inf < +NaN.
func compareFloat(a, b float64) int {
	an, bn := math.IsNaN(a), math.IsNaN(b)
	if !an && !bn {
		if a < b {
			return -1
		} else if a > b {
			return 1
		}
		return 0
	}

	if c := compareInt(nanRank(a), nanRank(b)); c != 0 {
		return c
	}

	// same-signed NaNs, order by payload
	ab, bb := math.Float64bits(a)&^signBit64, math.Float64bits(b)&^signBit64
	c := 0
	if ab < bb {
		c = -1
	} else if ab > bb {
		c = 1
	}
	if math.Signbit(a) {
		c = -c
	}
	return c
}

func nanRank(f float64) int64 {
	if !math.IsNaN(f) {
		return 0
	}
	if math.Signbit(f) {
		return -1
	}
	return 1
}
