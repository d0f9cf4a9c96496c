package outwriter

import (
	"fmt"
	"io"
	"os"
	"strconv"
	"time"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/internal/parquet"
	"github.com/repolens/repolens/schema"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"
)

// WriteAnalysisResults outputs an analysis run, dispatching based on the
// output format configured.
func WriteAnalysisResults(data *schema.AnalysisData, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeJSON(w, data)
		}, "Wrote JSON")

	case schema.ParquetOut:
		dir := cfg.OutputFile
		if dir == "" {
			dir = "."
		}
		files, err := parquet.ExportAnalysis(data, dir)
		if err != nil {
			return fmt.Errorf("error writing parquet output: %w", err)
		}
		for _, f := range files {
			fmt.Fprintf(os.Stderr, "💾 Wrote parquet to %s\n", f)
		}
		return nil

	default:
		// Default to human-readable table
		return writeWithFile(cfg.OutputFile, func(w io.Writer) error {
			return writeAnalysisTable(data, duration, w)
		}, "Wrote table")
	}
}

// writeAnalysisTable generates and writes the human-readable summary.
func writeAnalysisTable(data *schema.AnalysisData, duration time.Duration, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"Repository", "Commits", "Branches", "Lines", "Files", "Contrib", "Commits/Day"})
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	nameWidth := getMaxTableNameWidth()
	var rows [][]string
	for i := range data.Repos {
		s := &data.Repos[i].Summary
		rows = append(rows, []string{
			truncateName(s.Name, nameWidth),
			strconv.Itoa(s.NumCommits),
			strconv.Itoa(s.NumBranches),
			strconv.Itoa(s.TotalLines),
			strconv.Itoa(s.FileCount),
			strconv.Itoa(s.ContributorCount),
			fmt.Sprintf("%.2f", s.CommitsPerDay),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}

	agg := &data.Aggregate
	fmt.Fprintf(writer, "\nAnalyzed %d repositories in %v\n", agg.ReposAnalyzed, duration.Round(time.Millisecond))
	fmt.Fprintf(writer, "Total: %d commits, %d branches, %d lines inserted\n",
		agg.TotalCommits, agg.TotalBranches, agg.TotalLines)
	fmt.Fprintf(writer, "Activity span: %s to %s (%.2f commits/day overall)\n",
		formatTimePtr(agg.FirstCommit), formatTimePtr(agg.LastCommit), agg.CommitsPerDay)
	if agg.FastestPaceRepo != "" {
		fmt.Fprintf(writer, "Fastest pace: %s (%.0fs between commits)\n",
			agg.FastestPaceRepo, agg.FastestPaceSeconds)
	}
	return nil
}

// WriteJobList renders job records as a table, newest first.
func WriteJobList(jobs []schema.Job, writer io.Writer) error {
	table := tablewriter.NewWriter(writer)
	table.Header([]string{"ID", "Status", "Created", "Completed", "Path"})

	var rows [][]string
	for _, job := range jobs {
		rows = append(rows, []string{
			job.ID,
			contract.GetStatusLabel(job.Status),
			job.CreatedAt.Format("2006-01-02 15:04:05"),
			formatTimePtr(job.CompletedAt),
			truncateName(job.RepoPath, getMaxTableNameWidth()),
		})
	}
	if err := table.Bulk(rows); err != nil {
		return err
	}
	return table.Render()
}

// WriteJobDetail prints one job record in long form.
func WriteJobDetail(job *schema.Job, writer io.Writer) {
	fmt.Fprintf(writer, "Job:       %s\n", job.ID)
	fmt.Fprintf(writer, "Status:    %s\n", contract.GetStatusLabel(job.Status))
	fmt.Fprintf(writer, "Created:   %s\n", job.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(writer, "Completed: %s\n", formatTimePtr(job.CompletedAt))
	fmt.Fprintf(writer, "Path:      %s\n", job.RepoPath)
	if job.ReportPath != "" {
		fmt.Fprintf(writer, "Reports:   %s\n", job.ReportPath)
	}
	if job.Error != "" {
		fmt.Fprintf(writer, "Error:     %s\n", job.Error)
	}
}
