package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/internal/outwriter"
	"github.com/repolens/repolens/internal/parquet"
	"github.com/spf13/cobra"
)

// exportCmd converts a completed job's payload into Parquet tables.
var exportCmd = &cobra.Command{
	Use:   "export <job-id>",
	Short: "Export a completed job's analysis data to Parquet files.",
	Long: `Read the JSON payload a completed job wrote and render it into two
Parquet tables: per-repository summaries and the full commit log.

The files land next to the job's payload unless --output-file names
another directory.

The Parquet files can be used with:
  - Apache Spark
  - Apache Arrow
  - Pandas (via pyarrow)
  - DuckDB
  - Any other Parquet-compatible tool`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		jobID := args[0]
		job, err := storeManager.GetJobStore().GetJob(rootCtx, jobID)
		if err != nil {
			contract.LogFatal("Cannot load job "+jobID, err)
		}
		if job.ReportPath == "" {
			contract.LogFatal("Cannot export job "+jobID, fmt.Errorf("job has no recorded output; status is %s", job.Status))
		}

		data, err := outwriter.ReadPayload(job.ReportPath)
		if err != nil {
			contract.LogFatal("Cannot read job payload", err)
		}

		exportDir := cfg.OutputFile
		if exportDir == "" {
			exportDir = job.ReportPath
		}
		files, err := parquet.ExportAnalysis(data, exportDir)
		if err != nil {
			contract.LogFatal("Cannot export analysis data", err)
		}
		for _, f := range files {
			fmt.Printf("Exported %s\n", filepath.Clean(f))
		}
	},
}
