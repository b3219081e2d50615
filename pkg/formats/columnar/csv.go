package columnar

import (
	"encoding/csv"
	"io"

	"github.com/dataplane-io/scour/pkg/dataset"
	"github.com/dataplane-io/scour/pkg/errors"
)

// csvReader implements Reader for CSV format. Every column comes back
// string-typed; the first row is the header. CSV cannot distinguish null
// from the empty string, so empty cells read as "" and rely on the
// pipeline's null unification.
type csvReader struct {
	reader io.Reader
}

func newCSVReader(r io.Reader) *csvReader {
	return &csvReader{reader: r}
}

func (cr *csvReader) ReadDataset(name string) (*dataset.Dataset, error) {
	r := csv.NewReader(cr.reader)
	r.FieldsPerRecord = -1 // validated against the header below

	headers, err := r.Read()
	if err == io.EOF {
		return nil, errors.New(errors.ErrorTypeData, "csv file is empty")
	}
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read csv header")
	}

	columns := make([]*dataset.Column, len(headers))
	for i, h := range headers {
		columns[i] = &dataset.Column{Name: h, Type: dataset.FieldTypeString}
	}

	for {
		row, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read csv row")
		}
		if len(row) != len(headers) {
			return nil, errors.New(errors.ErrorTypeData, "csv row width does not match header").
				WithDetail("expected", len(headers)).
				WithDetail("got", len(row))
		}
		for i, cell := range row {
			columns[i].Values = append(columns[i].Values, cell)
		}
	}

	ds := dataset.New(name)
	for _, col := range columns {
		if err := ds.AddColumn(col); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to assemble dataset")
		}
	}
	return ds, nil
}

func (cr *csvReader) Format() Format {
	return CSV
}

// csvWriter implements Writer for CSV format. Null cells render as the
// empty string; timestamps at second precision.
type csvWriter struct {
	writer *csv.Writer
}

func newCSVWriter(w io.Writer) *csvWriter {
	return &csvWriter{writer: csv.NewWriter(w)}
}

func (cw *csvWriter) WriteDataset(ds *dataset.Dataset) error {
	if err := cw.writer.Write(ds.ColumnNames()); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv header")
	}

	cols := ds.Columns()
	row := make([]string, len(cols))
	for r := 0; r < ds.NumRows(); r++ {
		for i, col := range cols {
			row[i] = dataset.ValueToString(col.Values[r])
		}
		if err := cw.writer.Write(row); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to write csv row")
		}
	}
	return nil
}

func (cw *csvWriter) Close() error {
	cw.writer.Flush()
	if err := cw.writer.Error(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to flush csv writer")
	}
	return nil
}

func (cw *csvWriter) Format() Format {
	return CSV
}
