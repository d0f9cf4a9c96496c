// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"context"
	"time"

	"github.com/repolens/repolens/schema"
)

// GitClient defines the Git operations the mining engine needs.
// This allows the core mining logic to be tested without a real git executable.
type GitClient interface {
	// Run executes a git command against the given repository path and
	// returns its stdout. Its use should be minimized in favor of the
	// explicit methods below.
	Run(ctx context.Context, repoPath string, args ...string) ([]byte, error)

	// GetCommitLog returns the raw delimiter-separated commit log across
	// all refs, one line per commit.
	GetCommitLog(ctx context.Context, repoPath string) ([]byte, error)

	// GetBranchList returns the raw 'git branch -a' output.
	GetBranchList(ctx context.Context, repoPath string) ([]byte, error)

	// GetDiffShortstat returns the shortstat line for the diff between
	// two references.
	GetDiffShortstat(ctx context.Context, repoPath string, base, target string) ([]byte, error)
}

// JobStore persists analysis jobs. Implementations must return
// ErrJobNotFound for missing ids so callers can tell "not found" apart
// from a storage failure.
type JobStore interface {
	CreateJob(ctx context.Context, job *schema.Job) error
	GetJob(ctx context.Context, id string) (*schema.Job, error)
	UpdateJob(ctx context.Context, job *schema.Job) error
	ListJobs(ctx context.Context) ([]schema.Job, error)
	GetStatus(ctx context.Context) (schema.StoreStatus, error)
	Close() error
}

// RepositoryStore persists tracked repositories. Implementations must
// return ErrRepositoryNotFound for missing ids.
type RepositoryStore interface {
	CreateRepository(ctx context.Context, repo *schema.TrackedRepository) error
	GetRepository(ctx context.Context, id string) (*schema.TrackedRepository, error)
	UpdateRepository(ctx context.Context, repo *schema.TrackedRepository) error
	ListRepositories(ctx context.Context) ([]schema.TrackedRepository, error)
	Close() error
}

// StoreManager bundles the persistence stores the orchestrator consumes.
type StoreManager interface {
	GetJobStore() JobStore
	GetRepositoryStore() RepositoryStore
}

// Clock abstracts time for deterministic tests of job timestamps.
type Clock interface {
	Now() time.Time
}

// SystemClock is the default Clock backed by time.Now.
type SystemClock struct{}

// Now implements the Clock interface.
func (SystemClock) Now() time.Time { return time.Now() }
