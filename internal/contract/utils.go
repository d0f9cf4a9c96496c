package contract

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/repolens/repolens/schema"
)

// LogFatal logs an error and exits the program.
func LogFatal(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Fatal %s: %v\n", msg, err)
	os.Exit(1)
}

// LogWarn logs a warning message to stderr.
func LogWarn(msg string, err error) {
	_, _ = fmt.Fprintf(os.Stderr, "Warn %s: %v\n", msg, err)
}

// LogInfo logs an informational message to stderr.
func LogInfo(msg string) {
	_, _ = fmt.Fprintf(os.Stderr, "%s\n", msg)
}

// GetStatusLabel returns a colored label for a job status.
func GetStatusLabel(status schema.JobStatus) string {
	switch status {
	case schema.JobCompleted:
		return color.GreenString(string(status))
	case schema.JobFailed:
		return color.RedString(string(status))
	case schema.JobRunning:
		return color.YellowString(string(status))
	default:
		return string(status)
	}
}

// GetDBFilePath returns the path to the SQLite DB file for job storage.
func GetDBFilePath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return ".repolens.db"
	}
	return filepath.Join(homeDir, ".repolens.db")
}

// SelectOutputFile returns a writable file for the given path, or stdout
// when the path is empty.
func SelectOutputFile(outputFile string) (*os.File, error) {
	if outputFile == "" {
		return os.Stdout, nil
	}
	file, err := os.Create(outputFile)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file %q: %w", outputFile, err)
	}
	return file, nil
}
