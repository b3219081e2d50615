package columnar

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplane-io/scour/pkg/dataset"
)

func sampleDataset(t *testing.T) *dataset.Dataset {
	t.Helper()
	ds := dataset.New("sample")
	require.NoError(t, ds.AddColumn(&dataset.Column{
		Name: "name", Type: dataset.FieldTypeString,
		Values: []interface{}{"alice", nil, "carol"},
	}))
	require.NoError(t, ds.AddColumn(&dataset.Column{
		Name: "age", Type: dataset.FieldTypeInt,
		Values: []interface{}{int64(30), int64(41), nil},
	}))
	require.NoError(t, ds.AddColumn(&dataset.Column{
		Name: "score", Type: dataset.FieldTypeFloat,
		Values: []interface{}{1.5, nil, 2.25},
	}))
	require.NoError(t, ds.AddColumn(&dataset.Column{
		Name: "active", Type: dataset.FieldTypeBool,
		Values: []interface{}{true, false, nil},
	}))
	require.NoError(t, ds.AddColumn(&dataset.Column{
		Name: "joined", Type: dataset.FieldTypeTimestamp,
		Values: []interface{}{
			time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC),
			nil,
			time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC),
		},
	}))
	return ds
}

func TestParquetRoundTrip(t *testing.T) {
	ds := sampleDataset(t)

	var buf bytes.Buffer
	w, err := NewWriter(&buf, Parquet)
	require.NoError(t, err)
	require.NoError(t, w.WriteDataset(ds))
	require.NoError(t, w.Close())

	r, err := NewReader(&buf, Parquet)
	require.NoError(t, err)
	out, err := r.ReadDataset("roundtrip")
	require.NoError(t, err)

	assert.Equal(t, ds.NumRows(), out.NumRows())
	assert.Equal(t, ds.ColumnNames(), out.ColumnNames())

	name, _ := out.Column("name")
	assert.Equal(t, dataset.FieldTypeString, name.Type)
	assert.Equal(t, []interface{}{"alice", nil, "carol"}, name.Values)

	age, _ := out.Column("age")
	assert.Equal(t, dataset.FieldTypeInt, age.Type)
	assert.Equal(t, []interface{}{int64(30), int64(41), nil}, age.Values)

	score, _ := out.Column("score")
	assert.Equal(t, []interface{}{1.5, nil, 2.25}, score.Values)

	active, _ := out.Column("active")
	assert.Equal(t, []interface{}{true, false, nil}, active.Values)

	joined, _ := out.Column("joined")
	assert.Equal(t, dataset.FieldTypeTimestamp, joined.Type)
	require.Nil(t, joined.Values[1])
	assert.True(t, joined.Values[0].(time.Time).Equal(time.Date(2023, 1, 2, 3, 4, 5, 0, time.UTC)))
	assert.True(t, joined.Values[2].(time.Time).Equal(time.Date(2024, 6, 7, 8, 9, 10, 0, time.UTC)))
}

func TestParquetFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.parquet")

	ds := sampleDataset(t)
	require.NoError(t, WriteFile(path, Parquet, ds))

	out, err := ReadFile(path, Parquet)
	require.NoError(t, err)
	assert.Equal(t, ds.NumRows(), out.NumRows())
	assert.Equal(t, ds.ColumnNames(), out.ColumnNames())
}

func TestCSVRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.csv")

	ds := sampleDataset(t)
	require.NoError(t, WriteFile(path, CSV, ds))

	out, err := ReadFile(path, CSV)
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumRows())
	assert.Equal(t, ds.ColumnNames(), out.ColumnNames())

	// CSV reads back as text
	name, _ := out.Column("name")
	assert.Equal(t, dataset.FieldTypeString, name.Type)
	assert.Equal(t, []interface{}{"alice", "", "carol"}, name.Values)

	age, _ := out.Column("age")
	assert.Equal(t, []interface{}{"30", "41", ""}, age.Values)

	joined, _ := out.Column("joined")
	assert.Equal(t, "2023-01-02 03:04:05", joined.Values[0])
}

func TestCSVGzipRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "sample.csv.gz")

	ds := sampleDataset(t)
	require.NoError(t, WriteFile(path, CSV, ds))

	// file on disk is gzip, not plain text
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Greater(t, len(raw), 2)
	assert.Equal(t, []byte{0x1f, 0x8b}, raw[:2])

	out, err := ReadFile(path, CSV)
	require.NoError(t, err)
	assert.Equal(t, 3, out.NumRows())
}

func TestCSVEmptyFile(t *testing.T) {
	r := newCSVReader(bytes.NewReader(nil))
	_, err := r.ReadDataset("empty")
	assert.Error(t, err)
}

func TestCSVRaggedRow(t *testing.T) {
	r := newCSVReader(bytes.NewReader([]byte("a,b\n1\n")))
	_, err := r.ReadDataset("ragged")
	assert.Error(t, err)
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := NewReader(bytes.NewReader(nil), Format("orc"))
	assert.Error(t, err)
	_, err = NewWriter(&bytes.Buffer{}, Format("avro"))
	assert.Error(t, err)
}

func TestParquetGzipRejected(t *testing.T) {
	dir := t.TempDir()
	err := WriteFile(filepath.Join(dir, "x.parquet.gz"), Parquet, sampleDataset(t))
	assert.Error(t, err)
}
