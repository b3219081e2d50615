package standardise

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dataplane-io/scour/pkg/config"
	"github.com/dataplane-io/scour/pkg/errors"
	"github.com/dataplane-io/scour/pkg/formats/columnar"
)

func pipelineConfig(t *testing.T, input, output string) *config.Config {
	t.Helper()
	cfg := config.Default()
	cfg.Name = "pipeline-test"
	cfg.Input.Path = input
	cfg.Output.Path = output
	require.NoError(t, cfg.Validate())
	return cfg
}

func TestPipelineEndToEnd(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	output := filepath.Join(dir, "output.csv")

	csvData := "First Name,date_column,City\n" +
		"  café  ,2023-01-01,Wellington\n" +
		"  café  ,2023-01-01,Wellington\n" +
		"john,not a date,NULL\n"
	require.NoError(t, os.WriteFile(input, []byte(csvData), 0o644))

	cfg := pipelineConfig(t, input, output)
	p := NewPipeline(cfg)
	require.NoError(t, p.Run(context.Background()))

	out, err := columnar.ReadFile(output, columnar.CSV)
	require.NoError(t, err)

	// 3 rows in, 1 exact duplicate removed, 2 provenance columns appended
	assert.Equal(t, 2, out.NumRows())
	assert.Equal(t, 5, out.NumCols())
	assert.Equal(t,
		[]string{"first_name", "date_column", "city", "standardise_timestamp", "data_source"},
		out.ColumnNames())

	name, _ := out.Column("first_name")
	assert.Equal(t, []interface{}{"CAFE", "JOHN"}, name.Values)

	city, _ := out.Column("city")
	assert.Equal(t, "WELLINGTON", city.Values[0])
	assert.Equal(t, "", city.Values[1], "nulled token renders as empty csv cell")

	date, _ := out.Column("date_column")
	assert.Equal(t, "2023-01-01 00:00:00", date.Values[0])
	assert.Equal(t, "", date.Values[1], "unparseable timestamp became null")

	source, _ := out.Column("data_source")
	assert.Equal(t, "UNSPECIFIED", source.Values[0])

	for _, result := range p.Results() {
		assert.True(t, result.Ok(), "stage %s failed: %v", result.Stage, result.Err)
	}
}

func TestPipelineMissingInputIsFatal(t *testing.T) {
	dir := t.TempDir()
	cfg := pipelineConfig(t,
		filepath.Join(dir, "does-not-exist.csv"),
		filepath.Join(dir, "output.csv"))

	p := NewPipeline(cfg)
	err := p.Run(context.Background())
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))

	_, statErr := os.Stat(cfg.Output.Path)
	assert.True(t, os.IsNotExist(statErr), "no output written on fatal read")
}

func TestPipelineContinuesAfterMetadataCollision(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "input.csv")
	output := filepath.Join(dir, "output.csv")

	// input already carries a data_source column, so the metadata stage fails
	csvData := "data_source,v\nORIGIN,x\n"
	require.NoError(t, os.WriteFile(input, []byte(csvData), 0o644))

	cfg := pipelineConfig(t, input, output)
	p := NewPipeline(cfg)
	require.NoError(t, p.Run(context.Background()))

	// output still produced from the best available prior-stage result
	out, err := columnar.ReadFile(output, columnar.CSV)
	require.NoError(t, err)
	assert.Equal(t, 1, out.NumRows())

	var metadataFailed bool
	for _, result := range p.Results() {
		if result.Stage == StageMetadata && !result.Ok() {
			metadataFailed = true
		}
	}
	assert.True(t, metadataFailed)
}

func TestPipelineRunID(t *testing.T) {
	cfg := config.Default()
	a := NewPipeline(cfg)
	b := NewPipeline(cfg)
	assert.NotEmpty(t, a.RunID())
	assert.NotEqual(t, a.RunID(), b.RunID())
}
