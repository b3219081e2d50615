// Package columnar reads and writes datasets in columnar file formats.
// Parquet is the primary format; CSV (optionally gzip-compressed) is
// supported for plain-text interchange.
package columnar

import (
	"io"
	"os"
	"strings"

	"github.com/klauspost/compress/gzip"

	"github.com/dataplane-io/scour/pkg/dataset"
	"github.com/dataplane-io/scour/pkg/errors"
)

// Format represents a columnar storage format
type Format string

const (
	// Parquet is Apache Parquet format
	Parquet Format = "parquet"
	// CSV is comma-separated text, optionally gzip-compressed
	CSV Format = "csv"
)

// Reader decodes a dataset from a stream.
type Reader interface {
	// ReadDataset reads the whole dataset
	ReadDataset(name string) (*dataset.Dataset, error)
	// Format returns the columnar format
	Format() Format
}

// Writer encodes a dataset to a stream.
type Writer interface {
	// WriteDataset writes the whole dataset
	WriteDataset(ds *dataset.Dataset) error
	// Close flushes and finalises the output
	Close() error
	// Format returns the columnar format
	Format() Format
}

// NewReader creates a reader for the given format.
func NewReader(r io.Reader, format Format) (Reader, error) {
	switch format {
	case Parquet:
		return newParquetReader(r), nil
	case CSV:
		return newCSVReader(r), nil
	default:
		return nil, errors.New(errors.ErrorTypeFormat, "unsupported columnar format").
			WithDetail("format", string(format))
	}
}

// NewWriter creates a writer for the given format.
func NewWriter(w io.Writer, format Format) (Writer, error) {
	switch format {
	case Parquet:
		return newParquetWriter(w), nil
	case CSV:
		return newCSVWriter(w), nil
	default:
		return nil, errors.New(errors.ErrorTypeFormat, "unsupported columnar format").
			WithDetail("format", string(format))
	}
}

// ReadFile reads a dataset from a file. CSV files ending in .gz are
// transparently decompressed. The dataset is named after the path.
func ReadFile(path string, format Format) (*dataset.Dataset, error) {
	f, err := os.Open(path) //nolint:gosec // G304: path comes from validated config
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open input file")
	}
	defer f.Close()

	var src io.Reader = f
	if strings.HasSuffix(path, ".gz") {
		if format == Parquet {
			return nil, errors.New(errors.ErrorTypeFormat, "parquet files carry internal compression, .gz is not supported")
		}
		gz, err := gzip.NewReader(f)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrorTypeFile, "failed to open gzip stream")
		}
		defer gz.Close()
		src = gz
	}

	reader, err := NewReader(src, format)
	if err != nil {
		return nil, err
	}
	return reader.ReadDataset(path)
}

// WriteFile writes a dataset to a file. CSV output ending in .gz is
// gzip-compressed.
func WriteFile(path string, format Format, ds *dataset.Dataset) error {
	f, err := os.Create(path) //nolint:gosec // G304: path comes from validated config
	if err != nil {
		return errors.Wrap(err, errors.ErrorTypeFile, "failed to create output file")
	}
	defer f.Close()

	var dst io.Writer = f
	var gz *gzip.Writer
	if strings.HasSuffix(path, ".gz") {
		if format == Parquet {
			return errors.New(errors.ErrorTypeFormat, "parquet files carry internal compression, .gz is not supported")
		}
		gz = gzip.NewWriter(f)
		dst = gz
	}

	writer, err := NewWriter(dst, format)
	if err != nil {
		return err
	}
	if err := writer.WriteDataset(ds); err != nil {
		return err
	}
	if err := writer.Close(); err != nil {
		return err
	}
	if gz != nil {
		if err := gz.Close(); err != nil {
			return errors.Wrap(err, errors.ErrorTypeFile, "failed to finalise gzip stream")
		}
	}
	return f.Sync()
}
