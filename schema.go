package ordkey

import (
	"fmt"
	"strings"
)

// Column describes a single key column.
type Column struct {
	// Name is an optional label, used for display only.
	Name string

	// Type is the logical type of the column values.
	Type Type

	// Direction is the sort direction of the column.
	Direction Direction

	// Nullable columns accept NULL values at the cost of one marker byte
	// per key. NULLs sort first in ascending and last in descending columns.
	Nullable bool
}

// Asc returns an ascending column of type t.
func Asc(t Type) Column { return Column{Type: t, Direction: Ascending} }

// Desc returns a descending column of type t.
func Desc(t Type) Column { return Column{Type: t, Direction: Descending} }

// String returns a short description, e.g. "name int32 desc null".
func (c Column) String() string {
	var sb strings.Builder
	if c.Name != "" {
		sb.WriteString(c.Name)
		sb.WriteByte(' ')
	}
	sb.WriteString(c.Type.String())
	sb.WriteByte(' ')
	sb.WriteString(c.Direction.String())
	if c.Nullable {
		sb.WriteString(" null")
	}
	return sb.String()
}

// Tuple is an ordered list of values, one per schema column.
type Tuple []Value

// String returns a human readable representation.
func (t Tuple) String() string {
	parts := make([]string, len(t))
	for i, v := range t {
		parts[i] = v.String()
	}
	return "(" + strings.Join(parts, ", ") + ")"
}

// Equal returns true if both tuples have the same length and all values
// are equal.
func (t Tuple) Equal(o Tuple) bool {
	if len(t) != len(o) {
		return false
	}
	for i := range t {
		if !t[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// --------------------------------------------------------------------

// Schema is an immutable, ordered list of key columns. A column's ordinal
// position is its index. Schemas are safe for concurrent use.
type Schema struct {
	cols []Column
}

// NewSchema validates the columns and returns a schema.
func NewSchema(cols ...Column) (*Schema, error) {
	if len(cols) == 0 {
		return nil, fmt.Errorf("ordkey: schema has no columns")
	}
	for i, c := range cols {
		if !c.Type.isValid() {
			return nil, fmt.Errorf("ordkey: column %d has invalid type %s", i, c.Type)
		}
		if !c.Direction.isValid() {
			return nil, fmt.Errorf("ordkey: column %d has invalid direction %s", i, c.Direction)
		}
	}
	return &Schema{cols: append([]Column(nil), cols...)}, nil
}

// MustSchema is like NewSchema but panics on error.
func MustSchema(cols ...Column) *Schema {
	s, err := NewSchema(cols...)
	if err != nil {
		panic(err)
	}
	return s
}

// NumColumns returns the number of columns.
func (s *Schema) NumColumns() int { return len(s.cols) }

// Column returns the column at ordinal position i.
func (s *Schema) Column(i int) Column { return s.cols[i] }

// Columns returns a copy of all columns.
func (s *Schema) Columns() []Column { return append([]Column(nil), s.cols...) }

// String returns a description of all columns.
func (s *Schema) String() string {
	parts := make([]string, len(s.cols))
	for i, c := range s.cols {
		parts[i] = c.String()
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Validate checks that t conforms to the schema without encoding it.
func (s *Schema) Validate(t Tuple) error {
	if err := s.checkArity(t, false); err != nil {
		return err
	}
	for i, v := range t {
		if err := s.checkValue(i, v); err != nil {
			return err
		}
	}
	return nil
}

func (s *Schema) checkArity(t Tuple, prefix bool) error {
	if prefix && len(t) > len(s.cols) {
		return wrapErr(ErrSchemaViolation, "prefix has %d values, schema has %d columns", len(t), len(s.cols))
	}
	if !prefix && len(t) != len(s.cols) {
		return wrapErr(ErrSchemaViolation, "tuple has %d values, schema has %d columns", len(t), len(s.cols))
	}
	return nil
}

func (s *Schema) checkValue(i int, v Value) error {
	c := s.cols[i]
	if v.typ != c.Type {
		return wrapErr(ErrSchemaViolation, "column %d expects %s, got %s", i, c.Type, v.typ)
	}
	if v.null && !c.Nullable {
		return wrapErr(ErrSchemaViolation, "column %d is not nullable", i)
	}
	if c.Type.IsVariable() && !s.allowsZeroPayload(i) {
		for _, b := range v.b {
			if b == terminator {
				return wrapErr(ErrEmbeddedTerminator, "column %d", i)
			}
		}
	}
	return nil
}

// allowsZeroPayload returns true if column i may carry zero bytes in its
// payload, which only holds for a final ascending column.
func (s *Schema) allowsZeroPayload(i int) bool {
	return i == len(s.cols)-1 && s.cols[i].Direction == Ascending
}
