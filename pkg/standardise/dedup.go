package standardise

import (
	"strings"

	"github.com/dataplane-io/scour/pkg/dataset"
)

// Deduplicate removes exact-duplicate rows, keeping the first occurrence.
// Two rows are duplicates when every column matches on both nullness and
// value. Returns the deduplicated dataset and the number of rows removed.
func Deduplicate(ds *dataset.Dataset) (*dataset.Dataset, int) {
	rows := ds.NumRows()
	if rows == 0 {
		return ds, 0
	}

	seen := make(map[string]struct{}, rows)
	keep := make([]int, 0, rows)

	var key strings.Builder
	for r := 0; r < rows; r++ {
		key.Reset()
		for _, col := range ds.Columns() {
			v := col.Values[r]
			if v == nil {
				key.WriteByte(0x00)
			} else {
				key.WriteByte(0x01)
				key.WriteString(dataset.ValueToString(v))
			}
			// unit separator keeps ("ab","c") distinct from ("a","bc")
			key.WriteByte(0x1f)
		}

		k := key.String()
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		keep = append(keep, r)
	}

	removed := rows - len(keep)
	if removed == 0 {
		return ds, 0
	}
	return ds.Select(keep), removed
}
