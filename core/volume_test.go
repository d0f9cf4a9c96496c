package core

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func volumeConfig() *contract.Config {
	return &contract.Config{GitTimeout: 30 * time.Second}
}

func TestSampleCodeStats_NoCommits(t *testing.T) {
	client := new(contract.MockGitClient)
	repo := schema.RepositoryHandle{Name: "empty", AbsolutePath: t.TempDir()}

	stats := SampleCodeStats(context.Background(), volumeConfig(), client, repo, nil)

	assert.Equal(t, schema.CodeStats{}, stats)
	client.AssertNotCalled(t, "GetDiffShortstat")
}

func TestSampleCodeStats_DiffBases(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []schema.Commit{
		// Log order is newest first; the earliest commit must still get
		// the empty-tree base.
		{Hash: "ccc", CommitTime: base.Add(2 * time.Hour)},
		{Hash: "aaa", CommitTime: base},
		{Hash: "bbb", CommitTime: base.Add(time.Hour)},
	}

	dir := t.TempDir()
	repo := schema.RepositoryHandle{Name: "repo", AbsolutePath: dir}

	client := new(contract.MockGitClient)
	client.On("GetDiffShortstat", mock.Anything, dir, schema.EmptyTreeHash, "aaa").
		Return([]byte(" 1 file changed, 100 insertions(+)"), nil).Once()
	client.On("GetDiffShortstat", mock.Anything, dir, "bbb^", "bbb").
		Return([]byte(" 2 files changed, 20 insertions(+), 5 deletions(-)"), nil).Once()
	client.On("GetDiffShortstat", mock.Anything, dir, "ccc^", "ccc").
		Return([]byte(" 1 file changed, 3 insertions(+)"), nil).Once()

	stats := SampleCodeStats(context.Background(), volumeConfig(), client, repo, commits)

	assert.Equal(t, 123, stats.TotalInsertedLines)
	client.AssertExpectations(t)
}

func TestSampleCodeStats_SkipsFailedDiffs(t *testing.T) {
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	commits := []schema.Commit{
		{Hash: "aaa", CommitTime: base},
		{Hash: "bbb", CommitTime: base.Add(time.Hour)},
	}

	dir := t.TempDir()
	repo := schema.RepositoryHandle{Name: "repo", AbsolutePath: dir}

	client := new(contract.MockGitClient)
	client.On("GetDiffShortstat", mock.Anything, dir, schema.EmptyTreeHash, "aaa").
		Return([]byte(nil), errors.New("bad object")).Once()
	client.On("GetDiffShortstat", mock.Anything, dir, "bbb^", "bbb").
		Return([]byte(" 1 file changed, 7 insertions(+)"), nil).Once()

	stats := SampleCodeStats(context.Background(), volumeConfig(), client, repo, commits)

	// One failed diff does not abort the rest.
	assert.Equal(t, 7, stats.TotalInsertedLines)
	client.AssertExpectations(t)
}

func TestParseInsertions(t *testing.T) {
	tests := []struct {
		name string
		out  string
		want int
	}{
		{"insertions and deletions", " 2 files changed, 10 insertions(+), 5 deletions(-)", 10},
		{"single insertion", " 1 file changed, 1 insertion(+)", 1},
		{"deletions only", " 1 file changed, 5 deletions(-)", 0},
		{"empty output", "", 0},
		{"multiple lines", " 1 file changed, 3 insertions(+)\n 1 file changed, 4 insertions(+)\n", 7},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, parseInsertions([]byte(tt.out)))
		})
	}
}

func TestCensusWorkingTree(t *testing.T) {
	dir := t.TempDir()
	files := map[string]string{
		"main.go":           "package main",
		"util.py":           "pass",
		"README.md":         "# readme",
		"Makefile":          "all:",
		"docs/guide.md":     "guide",
		"src/app.js":        "app",
		".git/config":       "[core]",
		".git/objects/blob": "x",
	}
	for rel, content := range files {
		path := filepath.Join(dir, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	fileCount, extensions := censusWorkingTree(dir)

	// Only allow-listed source extensions count as files.
	assert.Equal(t, 3, fileCount)

	// The histogram covers every extension outside .git; extensionless
	// files are skipped entirely.
	assert.Equal(t, map[string]int{".go": 1, ".py": 1, ".md": 2, ".js": 1}, extensions)
}
