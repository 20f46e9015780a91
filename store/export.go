package store

import (
	"io"

	"github.com/bsm/ordkey/table"
)

// WriteTable writes the full, ordered contents of r to w in table format
// and returns the number of exported entries.
func WriteTable(w io.Writer, r Reader, o *table.WriterOptions) (int, error) {
	tw := table.NewWriter(w, o)

	it := r.NewIterator(nil)
	defer it.Release()

	for it.Next() {
		if err := tw.Append(it.Key(), it.Value()); err != nil {
			return tw.Count(), err
		}
	}
	if err := it.Err(); err != nil {
		return tw.Count(), err
	}

	if err := tw.Close(); err != nil {
		return tw.Count(), err
	}
	return tw.Count(), nil
}
