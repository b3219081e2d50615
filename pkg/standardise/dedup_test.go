package standardise

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dataplane-io/scour/pkg/dataset"
)

func TestDeduplicate(t *testing.T) {
	ds := buildDataset(t,
		&dataset.Column{Name: "a", Type: dataset.FieldTypeString, Values: []interface{}{"x", "x", "y", "x"}},
		&dataset.Column{Name: "b", Type: dataset.FieldTypeInt, Values: []interface{}{int64(1), int64(1), int64(2), int64(3)}},
	)

	out, removed := Deduplicate(ds)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 3, out.NumRows())

	a, _ := out.Column("a")
	assert.Equal(t, []interface{}{"x", "y", "x"}, a.Values)
	b, _ := out.Column("b")
	assert.Equal(t, []interface{}{int64(1), int64(2), int64(3)}, b.Values)
}

func TestDeduplicateNullVsEmpty(t *testing.T) {
	// null and empty string are different rows
	ds := buildDataset(t,
		&dataset.Column{Name: "a", Type: dataset.FieldTypeString, Values: []interface{}{nil, "", nil}},
	)

	out, removed := Deduplicate(ds)
	assert.Equal(t, 1, removed)
	assert.Equal(t, 2, out.NumRows())
}

func TestDeduplicateBoundaryConfusion(t *testing.T) {
	// ("ab","c") and ("a","bc") must stay distinct
	ds := buildDataset(t,
		&dataset.Column{Name: "l", Type: dataset.FieldTypeString, Values: []interface{}{"ab", "a"}},
		&dataset.Column{Name: "r", Type: dataset.FieldTypeString, Values: []interface{}{"c", "bc"}},
	)

	out, removed := Deduplicate(ds)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 2, out.NumRows())
}

func TestDeduplicateEmpty(t *testing.T) {
	ds := dataset.New("empty")
	out, removed := Deduplicate(ds)
	assert.Equal(t, 0, removed)
	assert.Equal(t, 0, out.NumRows())
}
