package columnar

import (
	"bytes"
	"context"
	"io"
	"time"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/apache/arrow-go/v18/parquet"
	"github.com/apache/arrow-go/v18/parquet/compress"
	"github.com/apache/arrow-go/v18/parquet/file"
	"github.com/apache/arrow-go/v18/parquet/pqarrow"

	"github.com/dataplane-io/scour/pkg/dataset"
	"github.com/dataplane-io/scour/pkg/errors"
)

// parquetWriter implements Writer for Parquet format
type parquetWriter struct {
	writer io.Writer
}

func newParquetWriter(w io.Writer) *parquetWriter {
	return &parquetWriter{writer: w}
}

func (pw *parquetWriter) WriteDataset(ds *dataset.Dataset) error {
	arrowSchema, err := toArrowSchema(ds.Schema())
	if err != nil {
		return err
	}

	alloc := memory.NewGoAllocator()
	builder := array.NewRecordBuilder(alloc, arrowSchema)
	defer builder.Release()

	for i, col := range ds.Columns() {
		fieldBuilder := builder.Field(i)
		for _, v := range col.Values {
			appendValue(fieldBuilder, v)
		}
	}

	props := parquet.NewWriterProperties(
		parquet.WithCompression(compress.Codecs.Snappy),
	)
	arrowProps := pqarrow.NewArrowWriterProperties(
		pqarrow.WithAllocator(alloc),
	)

	fw, err := pqarrow.NewFileWriter(arrowSchema, pw.writer, props, arrowProps)
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to create parquet writer")
	}

	record := builder.NewRecord()
	defer record.Release()

	if err := fw.WriteBuffered(record); err != nil {
		_ = fw.Close()
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to write parquet record batch")
	}

	if err := fw.Close(); err != nil {
		return errors.Wrap(err, errors.ErrorTypeFormat, "failed to close parquet writer")
	}
	return nil
}

func (pw *parquetWriter) Close() error {
	return nil
}

func (pw *parquetWriter) Format() Format {
	return Parquet
}

// parquetReader implements Reader for Parquet format
type parquetReader struct {
	reader io.Reader
}

func newParquetReader(r io.Reader) *parquetReader {
	return &parquetReader{reader: r}
}

func (pr *parquetReader) ReadDataset(name string) (*dataset.Dataset, error) {
	// Parquet needs a seekable reader, so buffer the stream.
	data, err := io.ReadAll(pr.reader)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to read parquet data")
	}

	fr, err := file.NewParquetReader(bytes.NewReader(data))
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to open parquet file")
	}
	defer fr.Close()

	alloc := memory.NewGoAllocator()
	arrowReader, err := pqarrow.NewFileReader(fr, pqarrow.ArrowReadProperties{}, alloc)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to create arrow reader")
	}

	arrowSchema, err := arrowReader.Schema()
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read parquet schema")
	}

	columns := make([]*dataset.Column, arrowSchema.NumFields())
	for i := 0; i < arrowSchema.NumFields(); i++ {
		f := arrowSchema.Field(i)
		columns[i] = &dataset.Column{
			Name: f.Name,
			Type: fromArrowType(f.Type),
		}
	}

	rr, err := arrowReader.GetRecordReader(context.Background(), nil, nil)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to create record reader")
	}
	defer rr.Release()

	for rr.Next() {
		batch := rr.Record()
		for i := 0; i < int(batch.NumCols()); i++ {
			arr := batch.Column(i)
			for row := 0; row < arr.Len(); row++ {
				columns[i].Values = append(columns[i].Values, arrowValue(arr, row))
			}
		}
	}
	if err := rr.Err(); err != nil && err != io.EOF {
		return nil, errors.Wrap(err, errors.ErrorTypeFormat, "failed to read parquet record batches")
	}

	ds := dataset.New(name)
	for _, col := range columns {
		if err := ds.AddColumn(col); err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeData, "failed to assemble dataset")
		}
	}
	return ds, nil
}

func (pr *parquetReader) Format() Format {
	return Parquet
}

// appendValue appends a dataset cell to an arrow builder, falling back to
// null for anything the builder cannot hold.
func appendValue(builder array.Builder, value interface{}) {
	if value == nil {
		builder.AppendNull()
		return
	}

	switch b := builder.(type) {
	case *array.BooleanBuilder:
		if v, ok := value.(bool); ok {
			b.Append(v)
		} else {
			b.AppendNull()
		}

	case *array.Int64Builder:
		switch v := value.(type) {
		case int:
			b.Append(int64(v))
		case int32:
			b.Append(int64(v))
		case int64:
			b.Append(v)
		default:
			b.AppendNull()
		}

	case *array.Float64Builder:
		switch v := value.(type) {
		case float32:
			b.Append(float64(v))
		case float64:
			b.Append(v)
		default:
			b.AppendNull()
		}

	case *array.StringBuilder:
		if v, ok := value.(string); ok {
			b.Append(v)
		} else {
			b.Append(dataset.ValueToString(value))
		}

	case *array.TimestampBuilder:
		switch v := value.(type) {
		case time.Time:
			b.Append(arrow.Timestamp(v.UnixNano()))
		case string:
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				b.Append(arrow.Timestamp(t.UnixNano()))
			} else {
				b.AppendNull()
			}
		default:
			b.AppendNull()
		}

	case *array.BinaryBuilder:
		switch v := value.(type) {
		case []byte:
			b.Append(v)
		case string:
			b.Append([]byte(v))
		default:
			b.AppendNull()
		}

	default:
		builder.AppendNull()
	}
}

// arrowValue extracts one cell from an arrow array as a dataset value.
func arrowValue(arr arrow.Array, row int) interface{} {
	if arr.IsNull(row) {
		return nil
	}

	switch c := arr.(type) {
	case *array.Boolean:
		return c.Value(row)
	case *array.Int8:
		return int64(c.Value(row))
	case *array.Int16:
		return int64(c.Value(row))
	case *array.Int32:
		return int64(c.Value(row))
	case *array.Int64:
		return c.Value(row)
	case *array.Uint8:
		return int64(c.Value(row))
	case *array.Uint16:
		return int64(c.Value(row))
	case *array.Uint32:
		return int64(c.Value(row))
	case *array.Uint64:
		return int64(c.Value(row))
	case *array.Float32:
		return float64(c.Value(row))
	case *array.Float64:
		return c.Value(row)
	case *array.String:
		return c.Value(row)
	case *array.LargeString:
		return c.Value(row)
	case *array.Binary:
		return c.Value(row)
	case *array.Timestamp:
		dt := c.DataType().(*arrow.TimestampType)
		return c.Value(row).ToTime(dt.Unit)
	case *array.Date32:
		return c.Value(row).ToTime()
	case *array.Date64:
		return c.Value(row).ToTime()
	default:
		return nil
	}
}

// Schema conversion helpers

func toArrowSchema(schema *dataset.Schema) (*arrow.Schema, error) {
	fields := make([]arrow.Field, 0, len(schema.Fields))

	for _, field := range schema.Fields {
		arrowType, err := toArrowType(field.Type)
		if err != nil {
			return nil, err
		}
		fields = append(fields, arrow.Field{
			Name:     field.Name,
			Type:     arrowType,
			Nullable: true,
		})
	}

	return arrow.NewSchema(fields, nil), nil
}

func toArrowType(fieldType dataset.FieldType) (arrow.DataType, error) {
	switch fieldType {
	case dataset.FieldTypeString:
		return arrow.BinaryTypes.String, nil
	case dataset.FieldTypeInt:
		return arrow.PrimitiveTypes.Int64, nil
	case dataset.FieldTypeFloat:
		return arrow.PrimitiveTypes.Float64, nil
	case dataset.FieldTypeBool:
		return arrow.FixedWidthTypes.Boolean, nil
	case dataset.FieldTypeTimestamp:
		return arrow.FixedWidthTypes.Timestamp_ns, nil
	case dataset.FieldTypeBinary:
		return arrow.BinaryTypes.Binary, nil
	default:
		return nil, errors.New(errors.ErrorTypeFormat, "unsupported field type").
			WithDetail("type", string(fieldType))
	}
}

func fromArrowType(arrowType arrow.DataType) dataset.FieldType {
	switch arrowType.ID() {
	case arrow.BOOL:
		return dataset.FieldTypeBool
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32, arrow.UINT64:
		return dataset.FieldTypeInt
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return dataset.FieldTypeFloat
	case arrow.STRING, arrow.LARGE_STRING:
		return dataset.FieldTypeString
	case arrow.BINARY, arrow.LARGE_BINARY:
		return dataset.FieldTypeBinary
	case arrow.DATE32, arrow.DATE64, arrow.TIMESTAMP:
		return dataset.FieldTypeTimestamp
	default:
		return dataset.FieldTypeString
	}
}
