package ordkey

import (
	"errors"
	"fmt"
)

// Error classes. Returned errors wrap one of these and can be matched
// with errors.Is.
var (
	// ErrSchemaViolation is returned when a tuple does not conform to a schema,
	// either by arity or by the type of one of its values.
	ErrSchemaViolation = errors.New("ordkey: schema violation")

	// ErrFraming is returned when an encoded key cannot be split into columns.
	ErrFraming = errors.New("ordkey: framing error")

	// ErrUnsupportedWidth is returned for integer widths other than 8, 16, 32, 64
	// and float widths other than 32, 64.
	ErrUnsupportedWidth = errors.New("ordkey: unsupported width")

	// ErrEmbeddedTerminator is returned when a variable-width payload contains
	// a zero byte in a position where it would break ordering.
	ErrEmbeddedTerminator = errors.New("ordkey: embedded terminator")
)

func wrapErr(class error, format string, args ...interface{}) error {
	return fmt.Errorf("%w: "+format, append([]interface{}{class}, args...)...)
}

// --------------------------------------------------------------------

// Type is the logical type of a column.
type Type uint8

// Supported logical types.
const (
	TypeInvalid Type = iota
	TypeInt8
	TypeInt16
	TypeInt32
	TypeInt64
	TypeFloat32
	TypeFloat64
	TypeBytes
	TypeString
	typeCount
)

var typeNames = [typeCount]string{
	TypeInvalid: "invalid",
	TypeInt8:    "int8",
	TypeInt16:   "int16",
	TypeInt32:   "int32",
	TypeInt64:   "int64",
	TypeFloat32: "float32",
	TypeFloat64: "float64",
	TypeBytes:   "bytes",
	TypeString:  "string",
}

// ParseType parses a type name, as returned by Type.String.
func ParseType(s string) (Type, error) {
	for t := TypeInt8; t < typeCount; t++ {
		if typeNames[t] == s {
			return t, nil
		}
	}
	return TypeInvalid, fmt.Errorf("ordkey: unknown type %q", s)
}

// String returns the type name.
func (t Type) String() string {
	if t < typeCount {
		return typeNames[t]
	}
	return fmt.Sprintf("Type(%d)", uint8(t))
}

// Width returns the width in bits of fixed-width types and 0 for
// variable-width types.
func (t Type) Width() int {
	switch t {
	case TypeInt8:
		return 8
	case TypeInt16:
		return 16
	case TypeInt32, TypeFloat32:
		return 32
	case TypeInt64, TypeFloat64:
		return 64
	}
	return 0
}

// IsInteger returns true for the signed integer types.
func (t Type) IsInteger() bool { return t >= TypeInt8 && t <= TypeInt64 }

// IsFloat returns true for the floating point types.
func (t Type) IsFloat() bool { return t == TypeFloat32 || t == TypeFloat64 }

// IsVariable returns true for variable-width, terminated types.
func (t Type) IsVariable() bool { return t == TypeBytes || t == TypeString }

func (t Type) isValid() bool { return t > TypeInvalid && t < typeCount }

// --------------------------------------------------------------------

// Direction is the sort direction of a column.
type Direction uint8

// Supported sort directions.
const (
	Ascending Direction = iota
	Descending
)

// ParseDirection parses "asc"/"desc" (also accepting the long forms).
func ParseDirection(s string) (Direction, error) {
	switch s {
	case "", "asc", "ascending":
		return Ascending, nil
	case "desc", "descending":
		return Descending, nil
	}
	return Ascending, fmt.Errorf("ordkey: unknown direction %q", s)
}

// String returns "asc" or "desc".
func (d Direction) String() string {
	switch d {
	case Ascending:
		return "asc"
	case Descending:
		return "desc"
	}
	return fmt.Sprintf("Direction(%d)", uint8(d))
}

func (d Direction) isValid() bool { return d <= Descending }
