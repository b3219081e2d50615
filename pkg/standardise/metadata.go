package standardise

import (
	"time"

	"github.com/dataplane-io/scour/pkg/dataset"
	"github.com/dataplane-io/scour/pkg/errors"
)

const (
	// TimestampColumn is the appended processing-timestamp column
	TimestampColumn = "standardise_timestamp"
	// SourceColumn is the appended provenance tag column
	SourceColumn = "data_source"
)

// TagMetadata appends the provenance columns: a processing timestamp at
// second precision and a fixed source tag, one value per row. Fails when
// the dataset already carries a column with either name.
func TagMetadata(ds *dataset.Dataset, sourceTag string, now time.Time) error {
	// Check both names up front so a collision leaves the dataset untouched.
	for _, name := range []string{TimestampColumn, SourceColumn} {
		if _, exists := ds.Column(name); exists {
			return errors.New(errors.ErrorTypeData, "dataset already carries a provenance column").
				WithDetail("column", name)
		}
	}

	rows := ds.NumRows()
	now = now.Truncate(time.Second)

	stamps := make([]interface{}, rows)
	tags := make([]interface{}, rows)
	for i := 0; i < rows; i++ {
		stamps[i] = now
		tags[i] = sourceTag
	}

	if err := ds.AddColumn(&dataset.Column{
		Name:   TimestampColumn,
		Type:   dataset.FieldTypeTimestamp,
		Values: stamps,
	}); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to append processing timestamp column")
	}

	if err := ds.AddColumn(&dataset.Column{
		Name:   SourceColumn,
		Type:   dataset.FieldTypeString,
		Values: tags,
	}); err != nil {
		return errors.Wrap(err, errors.ErrorTypeData, "failed to append source tag column")
	}

	return nil
}
