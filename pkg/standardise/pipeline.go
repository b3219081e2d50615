package standardise

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/dataplane-io/scour/pkg/config"
	"github.com/dataplane-io/scour/pkg/dataset"
	"github.com/dataplane-io/scour/pkg/errors"
	"github.com/dataplane-io/scour/pkg/formats/columnar"
	"github.com/dataplane-io/scour/pkg/logger"
	"github.com/dataplane-io/scour/pkg/metrics"
)

// Stage names, in execution order.
const (
	StageRead       = "read"
	StageRename     = "rename"
	StageNulls      = "nulls"
	StageTimestamps = "timestamps"
	StageStrings    = "strings"
	StageDedup      = "dedup"
	StageMetadata   = "metadata"
	StageWrite      = "write"
	StageVerify     = "verify"
)

// StageResult is the explicit per-stage outcome threaded through the
// pipeline. A failed stage carries the previous stage's dataset so the
// run can continue on the best available data.
type StageResult struct {
	Stage    string
	Dataset  *dataset.Dataset
	Err      error
	Duration time.Duration
}

// Ok reports whether the stage completed without error.
func (r StageResult) Ok() bool {
	return r.Err == nil
}

// Pipeline runs the standardisation stages over one input file. Only the
// initial read is fatal; every later failure is logged and the pipeline
// continues with the previous stage's dataset, still attempting to
// produce an output file.
type Pipeline struct {
	cfg       *config.Config
	log       *zap.Logger
	collector *metrics.Collector
	runID     string
	results   []StageResult
}

// NewPipeline creates a pipeline for the given configuration.
func NewPipeline(cfg *config.Config) *Pipeline {
	runID := uuid.NewString()
	return &Pipeline{
		cfg:       cfg,
		log:       logger.With(zap.String("pipeline", cfg.Name), zap.String("run_id", runID)),
		collector: metrics.NewCollector(cfg.Name),
		runID:     runID,
	}
}

// RunID returns the unique identifier of this run.
func (p *Pipeline) RunID() string {
	return p.runID
}

// Results returns the per-stage outcomes of the last Run.
func (p *Pipeline) Results() []StageResult {
	return p.results
}

// Run executes the pipeline. The returned error is non-nil only when the
// input file cannot be read; every other failure degrades stage-locally.
func (p *Pipeline) Run(ctx context.Context) error {
	ctx = context.WithValue(ctx, logger.RunIDKey, p.runID)
	p.results = p.results[:0]

	ds, err := p.read(ctx)
	if err != nil {
		return err
	}

	ds = p.runStage(StageRename, ds, func(ds *dataset.Dataset) (*dataset.Dataset, error) {
		return ds, RenameSnakeCase(ds)
	})

	ds = p.runStage(StageNulls, ds, func(ds *dataset.Dataset) (*dataset.Dataset, error) {
		nulled := UnifyNulls(ds, p.cfg.Standardise.NullValues)
		p.collector.RecordNulledCells(nulled)
		p.log.Info("unified null-like tokens", zap.Int("cells_nulled", nulled))
		return ds, nil
	})

	ds = p.runStage(StageTimestamps, ds, func(ds *dataset.Dataset) (*dataset.Dataset, error) {
		for _, colErr := range NormalizeTimestamps(ds, p.cfg.Standardise.TimestampColumns) {
			p.collector.RecordStageError(StageTimestamps)
			p.log.Error("timestamp column failed",
				zap.String("column", colErr.Column), zap.Error(colErr.Err))
		}
		return ds, nil
	})

	ds = p.runStage(StageStrings, ds, func(ds *dataset.Dataset) (*dataset.Dataset, error) {
		for _, colErr := range NormalizeStringColumns(ds) {
			p.collector.RecordStageError(StageStrings)
			p.log.Error("string column failed",
				zap.String("column", colErr.Column), zap.Error(colErr.Err))
		}
		return ds, nil
	})

	ds = p.runStage(StageDedup, ds, func(ds *dataset.Dataset) (*dataset.Dataset, error) {
		deduped, removed := Deduplicate(ds)
		p.collector.RecordDuplicates(removed)
		p.log.Info("deduplicated rows", zap.Int("removed", removed))
		return deduped, nil
	})

	ds = p.runStage(StageMetadata, ds, func(ds *dataset.Dataset) (*dataset.Dataset, error) {
		return ds, TagMetadata(ds, p.cfg.Standardise.SourceTag, time.Now())
	})

	if p.write(ds) && p.cfg.Standardise.VerifyOutput {
		p.verify()
	}

	p.log.Info("pipeline finished",
		zap.Int("rows_out", ds.NumRows()),
		zap.Int("columns_out", ds.NumCols()),
		zap.Int("recoverable_errors", p.collector.ErrorCount()))
	return nil
}

// runStage applies fn and decides continuation explicitly: on failure the
// previous dataset is carried forward unchanged.
func (p *Pipeline) runStage(stage string, ds *dataset.Dataset, fn func(*dataset.Dataset) (*dataset.Dataset, error)) *dataset.Dataset {
	timer := p.collector.StartTimer(stage)
	next, err := fn(ds)
	elapsed := timer.Stop()

	result := StageResult{Stage: stage, Dataset: next, Err: err, Duration: elapsed}
	if err != nil {
		p.collector.RecordStageError(stage)
		p.log.Error("stage failed, continuing with previous dataset",
			zap.String("stage", stage), zap.Error(err))
		result.Dataset = ds
	}
	p.results = append(p.results, result)
	return result.Dataset
}

func (p *Pipeline) read(ctx context.Context) (*dataset.Dataset, error) {
	timer := p.collector.StartTimer(StageRead)
	ds, err := columnar.ReadFile(p.cfg.Input.Path, columnar.Format(p.cfg.Input.Format))
	elapsed := timer.Stop()

	if err != nil {
		fatal := errors.MarkFatal(errors.Wrap(err, errors.ErrorTypeFile, "failed to read input file"))
		p.results = append(p.results, StageResult{Stage: StageRead, Err: fatal, Duration: elapsed})
		logger.WithContext(ctx).Error("failed to read input file",
			zap.String("path", p.cfg.Input.Path), zap.Error(err))
		return nil, fatal
	}

	p.results = append(p.results, StageResult{Stage: StageRead, Dataset: ds, Duration: elapsed})
	p.collector.RecordRows("read", ds.NumRows())
	p.log.Info("read input file",
		zap.String("path", p.cfg.Input.Path),
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumCols()))
	return ds, nil
}

// write returns true when the output file landed on disk.
func (p *Pipeline) write(ds *dataset.Dataset) bool {
	timer := p.collector.StartTimer(StageWrite)
	err := columnar.WriteFile(p.cfg.Output.Path, columnar.Format(p.cfg.Output.Format), ds)
	elapsed := timer.Stop()

	if err != nil {
		p.collector.RecordStageError(StageWrite)
		p.results = append(p.results, StageResult{Stage: StageWrite, Err: err, Duration: elapsed})
		p.log.Error("failed to write output file",
			zap.String("path", p.cfg.Output.Path), zap.Error(err))
		return false
	}

	p.results = append(p.results, StageResult{Stage: StageWrite, Dataset: ds, Duration: elapsed})
	p.collector.RecordRows("written", ds.NumRows())
	p.log.Info("successfully cleansed data and exported",
		zap.String("path", p.cfg.Output.Path), zap.Int("rows", ds.NumRows()))
	return true
}

// verify re-reads the written file and logs its shape. Failures are
// recoverable: the output already exists, verification is advisory.
func (p *Pipeline) verify() {
	timer := p.collector.StartTimer(StageVerify)
	ds, err := columnar.ReadFile(p.cfg.Output.Path, columnar.Format(p.cfg.Output.Format))
	elapsed := timer.Stop()

	if err != nil {
		p.collector.RecordStageError(StageVerify)
		p.results = append(p.results, StageResult{Stage: StageVerify, Err: err, Duration: elapsed})
		p.log.Error("failed to verify output file", zap.Error(err))
		return
	}

	p.results = append(p.results, StageResult{Stage: StageVerify, Dataset: ds, Duration: elapsed})
	p.log.Info("verified output file",
		zap.Int("rows", ds.NumRows()),
		zap.Int("columns", ds.NumCols()))
}
