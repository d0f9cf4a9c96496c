package schema

import "time"

// PeakActivityWindow describes the densest fixed-size run of consecutive
// commits, used as a burst-of-activity signal. Only computed when a
// repository has at least MinCommitsForPeakWindow commits.
type PeakActivityWindow struct {
	// Commits is the fixed window size.
	Commits int `json:"commits"`

	// Duration is the wall-clock span of the window in seconds.
	Duration float64 `json:"duration_seconds"`

	Start time.Time `json:"start"`
	End   time.Time `json:"end"`

	// CommitsPerMinute is the pace implied by the window duration.
	// Zero when the window duration itself is zero.
	CommitsPerMinute float64 `json:"commits_per_minute"`
}

// Peak window sizing constraints.
const (
	// PeakWindowSize is the number of commits in the sliding window.
	PeakWindowSize = 5

	// MinCommitsForPeakWindow is the minimum commit count for the peak
	// window scan to run.
	MinCommitsForPeakWindow = 6
)

// CommitGaps holds statistics over consecutive chronological commit gaps.
// Only present when a repository has at least two commits.
type CommitGaps struct {
	AvgSeconds float64 `json:"avg_seconds"`
	MinSeconds float64 `json:"min_seconds"`
	MaxSeconds float64 `json:"max_seconds"`
}

// WordCount pairs a commit-message word with its frequency. Rankings are
// stable: ties keep first-seen order.
type WordCount struct {
	Word  string `json:"word"`
	Count int    `json:"count"`
}

// RepoSummary holds derived per-repository statistics.
type RepoSummary struct {
	Name        string `json:"name"`
	NumCommits  int    `json:"num_commits"`
	NumBranches int    `json:"num_branches"`
	TotalLines  int    `json:"total_lines"`
	FileCount   int    `json:"file_count"`

	FileExtensions map[string]int `json:"file_extensions,omitempty"`

	// Time-span fields only exist when the repository has commits.
	FirstCommit   *time.Time `json:"first_commit,omitempty"`
	LastCommit    *time.Time `json:"last_commit,omitempty"`
	TimeSpanDays  int        `json:"time_span_days"`
	CommitsPerDay float64    `json:"commits_per_day"`

	Gaps *CommitGaps `json:"time_between_commits,omitempty"`

	FrequentWords    []WordCount `json:"frequent_words,omitempty"`
	ContributorCount int         `json:"contributor_count"`
	LinesPerCommit   float64     `json:"lines_per_commit"`

	PeakWindow *PeakActivityWindow `json:"peak_window,omitempty"`
}

// AggregateSummary holds statistics computed across all repositories in
// one analysis run.
type AggregateSummary struct {
	TotalCommits  int      `json:"total_commits"`
	TotalBranches int      `json:"total_branches"`
	TotalLines    int      `json:"total_lines"`
	ReposAnalyzed int      `json:"repos_analyzed"`
	RepoNames     []string `json:"repository_names"`

	FirstCommit   *time.Time `json:"first_commit,omitempty"`
	LastCommit    *time.Time `json:"last_commit,omitempty"`
	CommitsPerDay float64    `json:"overall_commits_per_day"`

	FrequentWords []WordCount `json:"frequent_words,omitempty"`

	// FastestPaceSeconds is the smallest positive minimum inter-commit
	// gap across all repositories; FastestPaceRepo names the repository
	// that achieved it. Ties go to the first repository encountered.
	FastestPaceSeconds float64 `json:"fastest_pace_seconds,omitempty"`
	FastestPaceRepo    string  `json:"fastest_pace_repo,omitempty"`
}
