package schema

import "time"

// Job is the persisted record of one analysis run. The orchestrator owns
// every mutation of this record; other components never touch it.
type Job struct {
	ID          string     `json:"id"`
	Status      JobStatus  `json:"status"`
	CreatedAt   time.Time  `json:"created_at"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
	RepoPath    string     `json:"repo_path"`
	ReportPath  string     `json:"report_path,omitempty"`
	Error       string     `json:"error,omitempty"`

	// RepoID links the job to a tracked repository, when the job was
	// submitted for one.
	RepoID string `json:"repo_id,omitempty"`
}

// JobRequest holds the inputs of a job submission.
type JobRequest struct {
	RepoPath         string `json:"repo_path"`
	Recursive        bool   `json:"recursive"`
	SkipConfirmation bool   `json:"skip_confirmation"`
	RepoID           string `json:"repo_id,omitempty"`
}

// TrackedRepository is a persisted repository the user has saved, distinct
// from a RepositoryHandle discovered at mining time.
type TrackedRepository struct {
	ID             string         `json:"id"`
	Name           string         `json:"name"`
	Path           string         `json:"path"`
	RelativePath   string         `json:"relative_path"`
	IsFavorite     bool           `json:"is_favorite"`
	LastAccessed   *time.Time     `json:"last_accessed,omitempty"`
	Tags           string         `json:"tags,omitempty"`
	LastCommitDate *time.Time     `json:"last_commit_date,omitempty"`
	LastAnalysisID string         `json:"last_analysis_job_id,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
}

// LastAnalysis is the cached analysis snapshot stored in a tracked
// repository's metadata after a successful job.
type LastAnalysis struct {
	Date          time.Time `json:"date"`
	JobID         string    `json:"job_id"`
	TotalCommits  int       `json:"total_commits"`
	TotalBranches int       `json:"total_branches"`
	TotalFiles    int       `json:"total_files"`
	TotalLines    int       `json:"total_lines"`
}
