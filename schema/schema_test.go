package schema

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJobStatusIsTerminal(t *testing.T) {
	tests := []struct {
		status JobStatus
		want   bool
	}{
		{JobPending, false},
		{JobRunning, false},
		{JobCompleted, true},
		{JobFailed, true},
		{JobStatus("unknown"), false},
	}

	for _, tt := range tests {
		t.Run(string(tt.status), func(t *testing.T) {
			assert.Equal(t, tt.want, tt.status.IsTerminal())
		})
	}
}

func TestAnalysisDataRepo(t *testing.T) {
	data := &AnalysisData{
		Repos: []RepoAnalysis{
			{Repository: RepositoryHandle{Name: "alpha"}},
			{Repository: RepositoryHandle{Name: "beta"}},
		},
	}

	found := data.Repo("beta")
	require.NotNil(t, found)
	assert.Equal(t, "beta", found.Repository.Name)

	// The returned pointer aliases the slice entry.
	found.Summary.NumCommits = 7
	assert.Equal(t, 7, data.Repos[1].Summary.NumCommits)

	assert.Nil(t, data.Repo("missing"))
}

func TestJobJSONOmitsOptionalFields(t *testing.T) {
	job := Job{
		ID:        "job-1",
		Status:    JobPending,
		CreatedAt: time.Date(2024, 6, 1, 9, 30, 0, 0, time.UTC),
		RepoPath:  "/repos/alpha",
	}

	raw, err := json.Marshal(job)
	require.NoError(t, err)

	assert.NotContains(t, string(raw), "completed_at")
	assert.NotContains(t, string(raw), "report_path")
	assert.NotContains(t, string(raw), "error")
	assert.NotContains(t, string(raw), "repo_id")
}

func TestRepoSummaryJSONOmitsUnsetOptionals(t *testing.T) {
	summary := RepoSummary{Name: "empty"}

	raw, err := json.Marshal(summary)
	require.NoError(t, err)

	// Threshold-gated statistics never appear as zero-filled garbage.
	assert.NotContains(t, string(raw), "first_commit")
	assert.NotContains(t, string(raw), "time_between_commits")
	assert.NotContains(t, string(raw), "peak_window")
	assert.NotContains(t, string(raw), "frequent_words")
}

func TestAllDatabaseBackends(t *testing.T) {
	assert.Equal(t,
		[]DatabaseBackend{SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend},
		AllDatabaseBackends)
}
