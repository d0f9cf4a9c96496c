package schema

import "time"

// RepoAnalysis bundles everything mined from a single repository.
type RepoAnalysis struct {
	Repository RepositoryHandle `json:"repository"`
	Commits    []Commit         `json:"commits"`
	Branches   []Branch         `json:"branches"`
	CodeStats  CodeStats        `json:"code_stats"`
	Summary    RepoSummary      `json:"summary"`
}

// AnalysisData is the self-contained analysis document produced by one
// job. It is what reporting and export collaborators consume, independent
// of any rendered report text.
type AnalysisData struct {
	JobID       string         `json:"job_id,omitempty"`
	GeneratedAt time.Time      `json:"generated_at"`
	Repos       []RepoAnalysis `json:"repositories"`

	Aggregate AggregateSummary `json:"aggregate_stats"`
}

// Repo returns the analysis entry for the named repository, or nil.
func (d *AnalysisData) Repo(name string) *RepoAnalysis {
	for i := range d.Repos {
		if d.Repos[i].Repository.Name == name {
			return &d.Repos[i]
		}
	}
	return nil
}

// AnalysisSummary is the small top-level index written next to the full
// payload, listing what a run covered.
type AnalysisSummary struct {
	ReposAnalyzed int       `json:"repositories_analyzed"`
	RepoNames     []string  `json:"repository_names"`
	Timestamp     time.Time `json:"timestamp"`
	JobID         string    `json:"job_id,omitempty"`
}

// StoreStatus reports connectivity and row counts for the job store.
type StoreStatus struct {
	Backend   string `json:"backend"`
	Connected bool   `json:"connected"`
	JobCount  int64  `json:"job_count"`
	RepoCount int64  `json:"repo_count"`
}
