package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()
	assert.Equal(t, []string{"NULL", "N/A", ""}, cfg.Standardise.NullValues)
	assert.Equal(t, "UNSPECIFIED", cfg.Standardise.SourceTag)
	assert.Equal(t, "files/input.parquet", cfg.Input.Path)
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "parquet", cfg.Input.Format)
	assert.Equal(t, "parquet", cfg.Output.Format)
}

func TestValidateFormatInference(t *testing.T) {
	cfg := Default()
	cfg.Input.Path = "in.csv"
	cfg.Output.Path = "out.csv.gz"
	require.NoError(t, cfg.Validate())
	assert.Equal(t, "csv", cfg.Input.Format)
	assert.Equal(t, "csv", cfg.Output.Format)
}

func TestValidateErrors(t *testing.T) {
	cfg := Default()
	cfg.Input.Path = ""
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Input.Path = "in.xlsx"
	assert.Error(t, cfg.Validate())

	cfg = Default()
	cfg.Standardise.SourceTag = ""
	assert.Error(t, cfg.Validate())
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scour.yaml")
	content := `
name: orders
input:
  path: data/orders.parquet
standardise:
  null_values: ["NULL", "-"]
  timestamp_columns: [created_at, updated_at]
  source_tag: CRM
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, Load(path, cfg))
	assert.Equal(t, "orders", cfg.Name)
	assert.Equal(t, "data/orders.parquet", cfg.Input.Path)
	assert.Equal(t, []string{"NULL", "-"}, cfg.Standardise.NullValues)
	assert.Equal(t, []string{"created_at", "updated_at"}, cfg.Standardise.TimestampColumns)
	assert.Equal(t, "CRM", cfg.Standardise.SourceTag)
	// untouched sections keep their defaults
	assert.Equal(t, "files/output.parquet", cfg.Output.Path)
}

func TestLoadJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "scour.json")
	content := `{"name":"orders","input":{"path":"in.csv"},"output":{"path":"out.csv"}}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, Load(path, cfg))
	assert.Equal(t, "orders", cfg.Name)
	assert.Equal(t, "in.csv", cfg.Input.Path)
}

func TestLoadEnvSubstitution(t *testing.T) {
	t.Setenv("SCOUR_TEST_INPUT", "env/input.parquet")

	dir := t.TempDir()
	path := filepath.Join(dir, "scour.yaml")
	content := "input:\n  path: ${SCOUR_TEST_INPUT}\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := Default()
	require.NoError(t, Load(path, cfg))
	assert.Equal(t, "env/input.parquet", cfg.Input.Path)
}

func TestLoadMissingFile(t *testing.T) {
	cfg := Default()
	assert.Error(t, Load("no/such/file.yaml", cfg))
}

func TestSaveRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "out.yaml")

	cfg := Default()
	cfg.Name = "saved"
	require.NoError(t, Save(path, cfg))

	loaded := &Config{}
	require.NoError(t, Load(path, loaded))
	assert.Equal(t, "saved", loaded.Name)
	assert.Equal(t, cfg.Standardise.NullValues, loaded.Standardise.NullValues)
}
