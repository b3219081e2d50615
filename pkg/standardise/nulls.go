package standardise

import (
	"github.com/dataplane-io/scour/pkg/dataset"
)

// UnifyNulls replaces every cell whose text rendering matches one of the
// null-like tokens with the null marker. Matching is textual so "NULL" in
// a string column and an empty string both unify regardless of type.
// Returns the number of cells nulled.
func UnifyNulls(ds *dataset.Dataset, tokens []string) int {
	if len(tokens) == 0 {
		return 0
	}

	tokenSet := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		tokenSet[t] = struct{}{}
	}

	nulled := 0
	for _, col := range ds.Columns() {
		for i, v := range col.Values {
			if v == nil {
				continue
			}
			if _, match := tokenSet[dataset.ValueToString(v)]; match {
				col.Values[i] = nil
				nulled++
			}
		}
	}
	return nulled
}
