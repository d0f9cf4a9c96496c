// Package schema has configs, models and shared types for all parts of repolens.
package schema

import "time"

// RepositoryHandle identifies a single discovered repository root.
// One handle is produced per distinct absolute path.
type RepositoryHandle struct {
	// Name is the path relative to the scan root, or the basename when
	// the scan root itself is the repository.
	Name string `json:"name"`

	// AbsolutePath is the absolute filesystem path of the repository root.
	AbsolutePath string `json:"path"`
}

// Commit holds one parsed commit from the repository log.
// All time-series logic orders commits by CommitTime, never by log order.
type Commit struct {
	Hash           string    `json:"hash"`
	Author         string    `json:"author"`
	AuthorEmail    string    `json:"author_email"`
	AuthorTime     time.Time `json:"author_date"`
	Committer      string    `json:"committer,omitempty"`
	CommitterEmail string    `json:"committer_email,omitempty"`
	CommitTime     time.Time `json:"commit_date"`
	Message        string    `json:"message"`
}

// Branch holds one local branch. Remote-tracking branches are dropped
// during extraction and never appear here.
type Branch struct {
	Name      string `json:"name"`
	IsCurrent bool   `json:"is_current"`
}

// CodeStats holds code-volume metrics for a repository.
type CodeStats struct {
	// TotalInsertedLines is the sum of insertion counts across every
	// commit's diff against its predecessor.
	TotalInsertedLines int `json:"total_lines"`

	// FileCount counts working-tree files whose extension is in the
	// source allow-list.
	FileCount int `json:"file_count"`

	// FileExtensions is a histogram of every file extension in the
	// working tree, not just source extensions.
	FileExtensions map[string]int `json:"file_extensions,omitempty"`
}
