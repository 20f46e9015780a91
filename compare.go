package ordkey

import "bytes"

// Compare compares two encoded keys using unsigned lexicographic order.
// For keys of the same schema this matches Schema.CompareTuples of the
// decoded tuples.
func Compare(a, b []byte) int {
	return bytes.Compare(a, b)
}

// CompareTuples compares two tuples in the schema's natural order: column by
// column, reversed for descending columns, stopping at the first difference.
func (s *Schema) CompareTuples(a, b Tuple) (int, error) {
	if err := s.checkTuple(a); err != nil {
		return 0, err
	}
	if err := s.checkTuple(b); err != nil {
		return 0, err
	}

	for i, c := range s.cols {
		n := a[i].Compare(b[i])
		if c.Direction == Descending {
			n = -n
		}
		if n != 0 {
			return n, nil
		}
	}
	return 0, nil
}

func (s *Schema) checkTuple(t Tuple) error {
	if err := s.checkArity(t, false); err != nil {
		return err
	}
	for i, v := range t {
		if v.typ != s.cols[i].Type {
			return wrapErr(ErrSchemaViolation, "column %d expects %s, got %s", i, s.cols[i].Type, v.typ)
		}
	}
	return nil
}
