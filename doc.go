// Package scour is a one-shot batch standardisation tool for columnar
// data files.
//
// A run reads a Parquet or CSV file, applies a fixed sequence of
// cleansing transformations and writes a cleaned columnar file:
//
//  1. Column name standardisation (snake_case)
//  2. Null value handling and normalisation
//  3. Timestamp format standardisation
//  4. String cleansing and unicode normalisation
//  5. Row deduplication
//  6. Metadata tagging
//
// # Quick Start
//
// Standardise a file from the command line:
//
//	scour run --config scour.yaml
//
// Or drive the pipeline directly:
//
//	import (
//	    "context"
//	    "github.com/dataplane-io/scour/pkg/config"
//	    "github.com/dataplane-io/scour/pkg/standardise"
//	)
//
//	cfg := config.Default()
//	cfg.Input.Path = "files/input.parquet"
//	cfg.Output.Path = "files/output.parquet"
//	if err := cfg.Validate(); err != nil {
//	    log.Fatal(err)
//	}
//	pipeline := standardise.NewPipeline(cfg)
//	if err := pipeline.Run(context.Background()); err != nil {
//	    log.Fatal(err) // only the initial read is fatal
//	}
//
// Every stage after the initial read is best-effort: failures are logged
// and the run continues with the previous stage's result, so an output
// file is produced whenever the input could be read at all.
package scour
