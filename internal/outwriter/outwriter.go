// Package outwriter has output and writer logic.
package outwriter

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
)

// File names written into a job's output directory.
const (
	PayloadFileName = "repo_data.json"
	SummaryFileName = "analysis_summary.json"
)

// WritePayload writes the full analysis document as JSON into the output
// directory and returns the file path.
func WritePayload(data *schema.AnalysisData, outputDir string) (string, error) {
	path := filepath.Join(outputDir, PayloadFileName)
	file, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create payload file %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	if err := writeJSON(file, data); err != nil {
		return "", err
	}
	return path, nil
}

// WriteRunSummary writes the small top-level index next to the payload.
func WriteRunSummary(data *schema.AnalysisData, outputDir string) error {
	summary := schema.AnalysisSummary{
		ReposAnalyzed: data.Aggregate.ReposAnalyzed,
		RepoNames:     data.Aggregate.RepoNames,
		Timestamp:     data.GeneratedAt,
		JobID:         data.JobID,
	}

	path := filepath.Join(outputDir, SummaryFileName)
	file, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create summary file %q: %w", path, err)
	}
	defer func() { _ = file.Close() }()

	return writeJSON(file, summary)
}

// ReadPayload loads a previously written analysis document from an
// output directory.
func ReadPayload(outputDir string) (*schema.AnalysisData, error) {
	path := filepath.Join(outputDir, PayloadFileName)
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read payload file %q: %w", path, err)
	}
	var data schema.AnalysisData
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("failed to decode payload file %q: %w", path, err)
	}
	return &data, nil
}

// writeWithFile handles the common pattern of opening a file, writing to it, and cleaning up.
// It accepts a writer function that takes an io.Writer and returns an error.
func writeWithFile(outputFile string, writer func(io.Writer) error, successMsg string) error {
	file, err := contract.SelectOutputFile(outputFile)
	if err != nil {
		return err
	}
	// Only close if it's not stdout
	if file != os.Stdout {
		defer func() { _ = file.Close() }()
	}

	if err := writer(file); err != nil {
		return err
	}

	if file != os.Stdout {
		fmt.Fprintf(os.Stderr, "💾 %s to %s\n", successMsg, outputFile)
	}
	return nil
}

// writeJSON is a generic JSON encoder that handles indentation consistently.
func writeJSON(w io.Writer, data any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("failed to encode JSON: %w", err)
	}
	return nil
}

// formatTimePtr renders an optional timestamp for display.
func formatTimePtr(t *time.Time) string {
	if t == nil {
		return "n/a"
	}
	return t.Format("2006-01-02 15:04:05")
}
