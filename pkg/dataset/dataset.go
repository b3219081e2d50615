// Package dataset provides the in-memory columnar dataset that the
// standardisation pipeline operates on. A Dataset is an ordered collection
// of named, typed columns of equal length. Column names are unique. The
// schema is computed when the dataset is assembled and carried alongside
// the data, so pipeline stages filter on declared types instead of
// re-inspecting values.
package dataset

import (
	"fmt"
	"strconv"
	"time"
)

// FieldType is the declared logical type of a column.
type FieldType string

const (
	// FieldTypeString is textual data
	FieldTypeString FieldType = "string"
	// FieldTypeInt is 64-bit integer data
	FieldTypeInt FieldType = "int"
	// FieldTypeFloat is 64-bit floating point data
	FieldTypeFloat FieldType = "float"
	// FieldTypeBool is boolean data
	FieldTypeBool FieldType = "bool"
	// FieldTypeTimestamp is date/time data
	FieldTypeTimestamp FieldType = "timestamp"
	// FieldTypeBinary is opaque byte data, passed through untouched
	FieldTypeBinary FieldType = "binary"
)

// Field describes one column in the schema.
type Field struct {
	Name     string    `json:"name"`
	Type     FieldType `json:"type"`
	Nullable bool      `json:"nullable"`
}

// Schema describes the structure of a dataset.
type Schema struct {
	Name   string  `json:"name"`
	Fields []Field `json:"fields"`
}

// Column is a named sequence of values of a single logical type.
// A nil element is the null marker.
type Column struct {
	Name   string
	Type   FieldType
	Values []interface{}
}

// Len returns the number of values in the column.
func (c *Column) Len() int {
	return len(c.Values)
}

// Clone returns a deep copy of the column. Values are scalars so the
// element copy is enough.
func (c *Column) Clone() *Column {
	values := make([]interface{}, len(c.Values))
	copy(values, c.Values)
	return &Column{Name: c.Name, Type: c.Type, Values: values}
}

// Dataset is an ordered collection of equal-length columns.
type Dataset struct {
	name    string
	columns []*Column
	index   map[string]int
}

// New creates an empty dataset.
func New(name string) *Dataset {
	return &Dataset{
		name:  name,
		index: make(map[string]int),
	}
}

// Name returns the dataset name.
func (d *Dataset) Name() string {
	return d.name
}

// AddColumn appends a column. The column must match the row count of the
// existing columns and its name must be unique.
func (d *Dataset) AddColumn(col *Column) error {
	if col == nil || col.Name == "" {
		return fmt.Errorf("column must have a name")
	}
	if _, exists := d.index[col.Name]; exists {
		return fmt.Errorf("duplicate column name %q", col.Name)
	}
	if len(d.columns) > 0 && col.Len() != d.NumRows() {
		return fmt.Errorf("column %q has %d rows, dataset has %d", col.Name, col.Len(), d.NumRows())
	}
	d.index[col.Name] = len(d.columns)
	d.columns = append(d.columns, col)
	return nil
}

// Column returns the named column, or false when absent.
func (d *Dataset) Column(name string) (*Column, bool) {
	i, ok := d.index[name]
	if !ok {
		return nil, false
	}
	return d.columns[i], true
}

// Columns returns the columns in schema order.
func (d *Dataset) Columns() []*Column {
	return d.columns
}

// ColumnNames returns the column names in schema order.
func (d *Dataset) ColumnNames() []string {
	names := make([]string, len(d.columns))
	for i, col := range d.columns {
		names[i] = col.Name
	}
	return names
}

// NumRows returns the row count.
func (d *Dataset) NumRows() int {
	if len(d.columns) == 0 {
		return 0
	}
	return d.columns[0].Len()
}

// NumCols returns the column count.
func (d *Dataset) NumCols() int {
	return len(d.columns)
}

// Schema returns the schema of the dataset.
func (d *Dataset) Schema() *Schema {
	fields := make([]Field, len(d.columns))
	for i, col := range d.columns {
		fields[i] = Field{Name: col.Name, Type: col.Type, Nullable: true}
	}
	return &Schema{Name: d.name, Fields: fields}
}

// ReplaceColumn swaps the named column for a replacement of the same
// length. The replacement keeps the original's position and name.
func (d *Dataset) ReplaceColumn(name string, col *Column) error {
	i, ok := d.index[name]
	if !ok {
		return fmt.Errorf("no column %q", name)
	}
	if col.Len() != d.NumRows() {
		return fmt.Errorf("replacement for %q has %d rows, dataset has %d", name, col.Len(), d.NumRows())
	}
	col.Name = name
	d.columns[i] = col
	return nil
}

// Rename applies fn to every column name. Renames that would collide with
// an already-assigned name fail the whole operation, leaving the dataset
// unchanged.
func (d *Dataset) Rename(fn func(string) string) error {
	renamed := make([]string, len(d.columns))
	seen := make(map[string]struct{}, len(d.columns))
	for i, col := range d.columns {
		name := fn(col.Name)
		if name == "" {
			return fmt.Errorf("rename of %q produced an empty name", col.Name)
		}
		if _, dup := seen[name]; dup {
			return fmt.Errorf("rename collision on %q", name)
		}
		seen[name] = struct{}{}
		renamed[i] = name
	}

	index := make(map[string]int, len(d.columns))
	for i, col := range d.columns {
		col.Name = renamed[i]
		index[renamed[i]] = i
	}
	d.index = index
	return nil
}

// Select returns a new dataset containing only the rows whose indices are
// listed, in the given order. Column order and types are preserved.
func (d *Dataset) Select(rows []int) *Dataset {
	out := New(d.name)
	for _, col := range d.columns {
		values := make([]interface{}, 0, len(rows))
		for _, r := range rows {
			values = append(values, col.Values[r])
		}
		// AddColumn cannot fail here: names and lengths come from a valid dataset
		_ = out.AddColumn(&Column{Name: col.Name, Type: col.Type, Values: values})
	}
	return out
}

// Clone returns a deep copy of the dataset.
func (d *Dataset) Clone() *Dataset {
	out := New(d.name)
	for _, col := range d.columns {
		_ = out.AddColumn(col.Clone())
	}
	return out
}

// ValueToString renders a cell value as text. Null renders as the empty
// string; timestamps use second precision with a space separator.
func ValueToString(value interface{}) string {
	if value == nil {
		return ""
	}

	switch v := value.(type) {
	case string:
		return v
	case int:
		return strconv.Itoa(v)
	case int32:
		return strconv.FormatInt(int64(v), 10)
	case int64:
		return strconv.FormatInt(v, 10)
	case float32:
		return strconv.FormatFloat(float64(v), 'f', -1, 32)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(v)
	case time.Time:
		return v.Format("2006-01-02 15:04:05")
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", value)
	}
}
