package standardise

import (
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dataplane-io/scour/pkg/dataset"
	"github.com/dataplane-io/scour/pkg/errors"
	"github.com/dataplane-io/scour/pkg/logger"
)

// timestampLayouts are tried in order when coercing a value to a
// timestamp. Ordered most to least specific.
var timestampLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006/01/02",
	"2006-01-02",
}

// ColumnError records a per-column failure inside the transform driver.
// The column it names was left in its pre-transform state.
type ColumnError struct {
	Column string
	Err    error
}

// NormalizeStringColumns trims, upper-cases and unicode-normalises every
// value of every string-typed column. Columns are selected from the
// declared schema, not by re-inspecting values. A column that fails is
// left untouched, its error is recorded, and the remaining columns are
// still processed.
func NormalizeStringColumns(ds *dataset.Dataset) []ColumnError {
	var errs []ColumnError

	for _, col := range ds.Columns() {
		if col.Type != dataset.FieldTypeString {
			continue
		}

		replacement, err := normalizeStringColumn(col)
		if err != nil {
			logger.Error("failed to standardise column, leaving it unmodified",
				zap.String("column", col.Name),
				zap.Error(err))
			errs = append(errs, ColumnError{Column: col.Name, Err: err})
			continue
		}

		if err := ds.ReplaceColumn(col.Name, replacement); err != nil {
			errs = append(errs, ColumnError{Column: col.Name, Err: err})
		}
	}

	return errs
}

func normalizeStringColumn(col *dataset.Column) (*dataset.Column, error) {
	values := make([]interface{}, len(col.Values))
	for i, v := range col.Values {
		if v == nil {
			values[i] = nil
			continue
		}
		s, ok := v.(string)
		if !ok {
			return nil, errors.New(errors.ErrorTypeData, "string column holds a non-string value").
				WithDetail("column", col.Name).
				WithDetail("row", i)
		}
		values[i] = NormalizeString(strings.ToUpper(strings.TrimSpace(s)))
	}
	return &dataset.Column{Name: col.Name, Type: dataset.FieldTypeString, Values: values}, nil
}

// NormalizeTimestamps coerces the named columns to timestamps. Names
// absent from the dataset are silently skipped. Values that fail to parse
// become null rather than failing the column; a structural failure (a
// column that cannot be coerced at all) leaves that column unmodified,
// records an error and moves on.
func NormalizeTimestamps(ds *dataset.Dataset, columns []string) []ColumnError {
	var errs []ColumnError

	for _, name := range columns {
		col, ok := ds.Column(name)
		if !ok {
			continue
		}

		replacement, err := coerceTimestampColumn(col)
		if err != nil {
			logger.Error("could not normalise timestamp column, leaving it unmodified",
				zap.String("column", name),
				zap.Error(err))
			errs = append(errs, ColumnError{Column: name, Err: err})
			continue
		}

		if err := ds.ReplaceColumn(name, replacement); err != nil {
			errs = append(errs, ColumnError{Column: name, Err: err})
		}
	}

	return errs
}

func coerceTimestampColumn(col *dataset.Column) (*dataset.Column, error) {
	if col.Type == dataset.FieldTypeBinary {
		return nil, errors.New(errors.ErrorTypeData, "binary column cannot be coerced to timestamp").
			WithDetail("column", col.Name)
	}

	values := make([]interface{}, len(col.Values))
	for i, v := range col.Values {
		values[i] = coerceTimestamp(v)
	}
	return &dataset.Column{Name: col.Name, Type: dataset.FieldTypeTimestamp, Values: values}, nil
}

// coerceTimestamp reinterprets a single value as a timestamp, returning
// nil when it does not parse.
func coerceTimestamp(v interface{}) interface{} {
	switch t := v.(type) {
	case nil:
		return nil
	case time.Time:
		return t
	case string:
		s := strings.TrimSpace(t)
		if s == "" {
			return nil
		}
		for _, layout := range timestampLayouts {
			if parsed, err := time.Parse(layout, s); err == nil {
				return parsed
			}
		}
		return nil
	default:
		return nil
	}
}
