// Package parquet exports repository analysis payloads to Parquet files
// using github.com/parquet-go/parquet-go.
package parquet

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/parquet-go/parquet-go"
	"github.com/repolens/repolens/schema"
)

// File names written by ExportAnalysis.
const (
	SummariesFileName = "repo_summaries.parquet"
	CommitsFileName   = "commits.parquet"
)

// RepoSummaryRow is the flattened per-repository summary record. One row
// per repository per analysis run.
type RepoSummaryRow struct {
	// JobID identifies the analysis run this row belongs to
	JobID string `parquet:"job_id,snappy"`

	// Name is the repository name relative to the analysis base directory
	Name string `parquet:"name,snappy"`

	// Path is the absolute repository path
	Path string `parquet:"path,snappy"`

	NumCommits  int32 `parquet:"num_commits,snappy"`
	NumBranches int32 `parquet:"num_branches,snappy"`
	TotalLines  int32 `parquet:"total_lines,snappy"`
	FileCount   int32 `parquet:"file_count,snappy"`

	ContributorCount int32 `parquet:"contributor_count,snappy"`

	// FirstCommit and LastCommit bound the repository's activity span
	// (nullable for repositories without commits)
	FirstCommit *time.Time `parquet:"first_commit,optional,snappy"`
	LastCommit  *time.Time `parquet:"last_commit,optional,snappy"`

	TimeSpanDays  int32   `parquet:"time_span_days,snappy"`
	CommitsPerDay float64 `parquet:"commits_per_day,snappy"`

	LinesPerCommit float64 `parquet:"lines_per_commit,snappy"`
}

// CommitRow is one mined commit, keyed by run and repository.
type CommitRow struct {
	// JobID identifies the analysis run this row belongs to
	JobID string `parquet:"job_id,snappy"`

	// Repository is the repository name the commit was mined from
	Repository string `parquet:"repository,snappy"`

	Hash        string    `parquet:"hash,snappy"`
	Author      string    `parquet:"author,snappy"`
	AuthorEmail string    `parquet:"author_email,snappy"`
	AuthorTime  time.Time `parquet:"author_date,snappy"`
	CommitTime  time.Time `parquet:"commit_date,snappy"`
	Message     string    `parquet:"message,snappy"`
}

// ExportAnalysis writes the summary and commit tables of one analysis
// payload into the output directory and returns the written file paths.
func ExportAnalysis(data *schema.AnalysisData, outputDir string) ([]string, error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create output directory %q: %w", outputDir, err)
	}

	summariesPath := filepath.Join(outputDir, SummariesFileName)
	if err := writeParquet(summariesPath, ConvertRepoSummaries(data)); err != nil {
		return nil, fmt.Errorf("failed to write repo summaries: %w", err)
	}

	commitsPath := filepath.Join(outputDir, CommitsFileName)
	if err := writeParquet(commitsPath, ConvertCommits(data)); err != nil {
		return nil, fmt.Errorf("failed to write commits: %w", err)
	}

	return []string{summariesPath, commitsPath}, nil
}

// writeParquet writes a slice of records to a Parquet file using struct
// schema inference.
func writeParquet[T any](outputPath string, data []T) error {
	file, err := os.Create(outputPath)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	defer func() { _ = file.Close() }()

	writer := parquet.NewGenericWriter[T](file)
	defer func() { _ = writer.Close() }()

	if _, err := writer.Write(data); err != nil {
		return fmt.Errorf("failed to write data to parquet file: %w", err)
	}

	return nil
}

// ConvertRepoSummaries flattens the payload's per-repository summaries
// into Parquet rows.
func ConvertRepoSummaries(data *schema.AnalysisData) []RepoSummaryRow {
	rows := make([]RepoSummaryRow, len(data.Repos))
	for i := range data.Repos {
		repo := &data.Repos[i]
		summary := &repo.Summary
		rows[i] = RepoSummaryRow{
			JobID:            data.JobID,
			Name:             repo.Repository.Name,
			Path:             repo.Repository.AbsolutePath,
			NumCommits:       int32(summary.NumCommits),
			NumBranches:      int32(summary.NumBranches),
			TotalLines:       int32(summary.TotalLines),
			FileCount:        int32(summary.FileCount),
			ContributorCount: int32(summary.ContributorCount),
			FirstCommit:      summary.FirstCommit,
			LastCommit:       summary.LastCommit,
			TimeSpanDays:     int32(summary.TimeSpanDays),
			CommitsPerDay:    summary.CommitsPerDay,
			LinesPerCommit:   summary.LinesPerCommit,
		}
	}
	return rows
}

// ConvertCommits flattens every mined commit of the payload into Parquet
// rows.
func ConvertCommits(data *schema.AnalysisData) []CommitRow {
	var rows []CommitRow
	for i := range data.Repos {
		repo := &data.Repos[i]
		for _, commit := range repo.Commits {
			rows = append(rows, CommitRow{
				JobID:       data.JobID,
				Repository:  repo.Repository.Name,
				Hash:        commit.Hash,
				Author:      commit.Author,
				AuthorEmail: commit.AuthorEmail,
				AuthorTime:  commit.AuthorTime,
				CommitTime:  commit.CommitTime,
				Message:     commit.Message,
			})
		}
	}
	return rows
}
