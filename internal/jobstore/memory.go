package jobstore

import (
	"context"
	"fmt"
	"maps"
	"sort"
	"sync"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
)

// MemoryStore keeps jobs and tracked repositories in process memory. It
// backs the "none" store backend so the orchestrator still tracks jobs
// for the lifetime of the process when no database is configured, and it
// doubles as a test fixture.
type MemoryStore struct {
	mu    sync.RWMutex
	jobs  map[string]schema.Job
	repos map[string]schema.TrackedRepository
}

var _ contract.JobStore = &MemoryStore{}        // Compile-time check
var _ contract.RepositoryStore = &MemoryStore{} // Compile-time check

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		jobs:  make(map[string]schema.Job),
		repos: make(map[string]schema.TrackedRepository),
	}
}

// CreateJob stores a copy of the job record.
func (m *MemoryStore) CreateJob(_ context.Context, job *schema.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; ok {
		return fmt.Errorf("job %s already exists", job.ID)
	}
	m.jobs[job.ID] = *job
	return nil
}

// GetJob returns a copy of the stored job.
func (m *MemoryStore) GetJob(_ context.Context, id string) (*schema.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	job, ok := m.jobs[id]
	if !ok {
		return nil, fmt.Errorf("job %s: %w", id, ErrJobNotFound)
	}
	return &job, nil
}

// UpdateJob replaces an existing job record.
func (m *MemoryStore) UpdateJob(_ context.Context, job *schema.Job) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.jobs[job.ID]; !ok {
		return fmt.Errorf("job %s: %w", job.ID, ErrJobNotFound)
	}
	m.jobs[job.ID] = *job
	return nil
}

// ListJobs returns all jobs, newest submission first.
func (m *MemoryStore) ListJobs(_ context.Context) ([]schema.Job, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	jobs := make([]schema.Job, 0, len(m.jobs))
	for _, job := range m.jobs {
		jobs = append(jobs, job)
	}
	sort.SliceStable(jobs, func(i, j int) bool {
		return jobs[i].CreatedAt.After(jobs[j].CreatedAt)
	})
	return jobs, nil
}

// GetStatus reports the in-memory record counts.
func (m *MemoryStore) GetStatus(_ context.Context) (schema.StoreStatus, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return schema.StoreStatus{
		Backend:   string(schema.NoneBackend),
		Connected: true,
		JobCount:  int64(len(m.jobs)),
		RepoCount: int64(len(m.repos)),
	}, nil
}

// CreateRepository stores a copy of the tracked repository.
func (m *MemoryStore) CreateRepository(_ context.Context, repo *schema.TrackedRepository) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.repos[repo.ID]; ok {
		return fmt.Errorf("repository %s already exists", repo.ID)
	}
	m.repos[repo.ID] = cloneRepository(repo)
	return nil
}

// GetRepository returns a copy of the tracked repository.
func (m *MemoryStore) GetRepository(_ context.Context, id string) (*schema.TrackedRepository, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	repo, ok := m.repos[id]
	if !ok {
		return nil, fmt.Errorf("repository %s: %w", id, ErrRepositoryNotFound)
	}
	clone := cloneRepository(&repo)
	return &clone, nil
}

// UpdateRepository replaces an existing tracked repository.
func (m *MemoryStore) UpdateRepository(_ context.Context, repo *schema.TrackedRepository) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.repos[repo.ID]; !ok {
		return fmt.Errorf("repository %s: %w", repo.ID, ErrRepositoryNotFound)
	}
	m.repos[repo.ID] = cloneRepository(repo)
	return nil
}

// ListRepositories returns all tracked repositories ordered by name.
func (m *MemoryStore) ListRepositories(_ context.Context) ([]schema.TrackedRepository, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	repos := make([]schema.TrackedRepository, 0, len(m.repos))
	for _, repo := range m.repos {
		repos = append(repos, cloneRepository(&repo))
	}
	sort.SliceStable(repos, func(i, j int) bool {
		return repos[i].Name < repos[j].Name
	})
	return repos, nil
}

// Close is a no-op for the in-memory store.
func (m *MemoryStore) Close() error { return nil }

// cloneRepository copies the record including its metadata map, so
// callers cannot mutate stored state through a returned pointer.
func cloneRepository(repo *schema.TrackedRepository) schema.TrackedRepository {
	clone := *repo
	if repo.Metadata != nil {
		clone.Metadata = maps.Clone(repo.Metadata)
	}
	return clone
}
