package main

import (
	"context"
	"fmt"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/dataplane-io/scour/pkg/config"
	"github.com/dataplane-io/scour/pkg/logger"
	"github.com/dataplane-io/scour/pkg/standardise"
)

var version = "0.1.0"

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	root := &cobra.Command{
		Use:   "scour",
		Short: "scour - one-shot columnar data standardisation",
		Long: `scour ingests a columnar data file (Parquet or CSV), applies a fixed
sequence of cleansing transformations (column renaming, null unification,
timestamp coercion, string normalisation, deduplication, provenance
tagging) and writes a cleaned columnar file.`,
	}

	root.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("scour v%s\n", version)
			fmt.Printf("Go version: %s\n", runtime.Version())
			fmt.Printf("OS/Arch: %s/%s\n", runtime.GOOS, runtime.GOARCH)
		},
	})

	var configFile, inputPath, outputPath, sourceTag, logLevel string

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Run a standardisation pass over one file",
		Long: `Run a standardisation pass using the given configuration file.
Flags override the corresponding configuration values.

Example:
  scour run --config scour.yaml
  scour run --input files/input.parquet --output files/output.parquet`,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.Default()
			if configFile != "" {
				if err := config.Load(configFile, cfg); err != nil {
					return fmt.Errorf("configuration error: %w", err)
				}
			}
			if inputPath != "" {
				cfg.Input.Path = inputPath
				cfg.Input.Format = ""
			}
			if outputPath != "" {
				cfg.Output.Path = outputPath
				cfg.Output.Format = ""
			}
			if sourceTag != "" {
				cfg.Standardise.SourceTag = sourceTag
			}
			if logLevel != "" {
				cfg.Logging.Level = logLevel
			}
			if err := cfg.Validate(); err != nil {
				return fmt.Errorf("configuration error: %w", err)
			}

			if err := logger.Init(logger.Config{
				Level:       cfg.Logging.Level,
				Encoding:    cfg.Logging.Encoding,
				Development: cfg.Logging.Development,
			}); err != nil {
				return fmt.Errorf("logger error: %w", err)
			}
			defer func() { _ = logger.Sync() }()

			pipeline := standardise.NewPipeline(cfg)
			return pipeline.Run(context.Background())
		},
	}

	runCmd.Flags().StringVarP(&configFile, "config", "c", "", "Path to YAML or JSON configuration file")
	runCmd.Flags().StringVarP(&inputPath, "input", "i", "", "Input file path (overrides config)")
	runCmd.Flags().StringVarP(&outputPath, "output", "o", "", "Output file path (overrides config)")
	runCmd.Flags().StringVar(&sourceTag, "source-tag", "", "Provenance tag stamped into the data_source column")
	runCmd.Flags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	root.AddCommand(runCmd)

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
