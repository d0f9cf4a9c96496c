package jobstore

import (
	"context"
	"testing"
	"time"

	"github.com/repolens/repolens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore_JobLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	job := &schema.Job{
		ID:        "job-1",
		Status:    schema.JobPending,
		CreatedAt: time.Now(),
		RepoPath:  "/repos/alpha",
	}
	require.NoError(t, store.CreateJob(ctx, job))

	// Duplicate ids are rejected.
	assert.Error(t, store.CreateJob(ctx, job))

	stored, err := store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, schema.JobPending, stored.Status)

	stored.Status = schema.JobRunning
	require.NoError(t, store.UpdateJob(ctx, stored))

	again, err := store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, schema.JobRunning, again.Status)

	_, err = store.GetJob(ctx, "missing")
	assert.ErrorIs(t, err, ErrJobNotFound)
	assert.ErrorIs(t, store.UpdateJob(ctx, &schema.Job{ID: "missing"}), ErrJobNotFound)
}

func TestMemoryStore_GetJobReturnsCopy(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateJob(ctx, &schema.Job{
		ID: "job-1", Status: schema.JobPending, CreatedAt: time.Now(), RepoPath: "/x",
	}))

	first, err := store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	first.Status = schema.JobFailed

	// Mutating the returned record does not touch stored state.
	second, err := store.GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, schema.JobPending, second.Status)
}

func TestMemoryStore_ListJobsOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	base := time.Date(2024, 7, 1, 9, 0, 0, 0, time.UTC)
	for i, id := range []string{"oldest", "middle", "newest"} {
		require.NoError(t, store.CreateJob(ctx, &schema.Job{
			ID:        id,
			Status:    schema.JobPending,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
			RepoPath:  "/x",
		}))
	}

	jobs, err := store.ListJobs(ctx)
	require.NoError(t, err)
	require.Len(t, jobs, 3)
	assert.Equal(t, "newest", jobs[0].ID)
	assert.Equal(t, "oldest", jobs[2].ID)
}

func TestMemoryStore_RepositoryLifecycle(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	repo := &schema.TrackedRepository{
		ID:       "repo-1",
		Name:     "alpha",
		Path:     "/repos/alpha",
		Metadata: map[string]any{"origin": "github"},
	}
	require.NoError(t, store.CreateRepository(ctx, repo))
	assert.Error(t, store.CreateRepository(ctx, repo))

	stored, err := store.GetRepository(ctx, "repo-1")
	require.NoError(t, err)

	// The metadata map is cloned both ways.
	stored.Metadata["origin"] = "gitlab"
	again, err := store.GetRepository(ctx, "repo-1")
	require.NoError(t, err)
	assert.Equal(t, "github", again.Metadata["origin"])

	_, err = store.GetRepository(ctx, "missing")
	assert.ErrorIs(t, err, ErrRepositoryNotFound)
	assert.ErrorIs(t, store.UpdateRepository(ctx, &schema.TrackedRepository{ID: "missing"}), ErrRepositoryNotFound)
}

func TestMemoryStore_ListRepositoriesOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	for _, name := range []string{"zeta", "alpha"} {
		require.NoError(t, store.CreateRepository(ctx, &schema.TrackedRepository{
			ID: "id-" + name, Name: name, Path: "/repos/" + name,
		}))
	}

	repos, err := store.ListRepositories(ctx)
	require.NoError(t, err)
	require.Len(t, repos, 2)
	assert.Equal(t, "alpha", repos[0].Name)
	assert.Equal(t, "zeta", repos[1].Name)
}

func TestMemoryStore_GetStatus(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	require.NoError(t, store.CreateJob(ctx, &schema.Job{ID: "j", Status: schema.JobPending, CreatedAt: time.Now()}))

	status, err := store.GetStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, string(schema.NoneBackend), status.Backend)
	assert.True(t, status.Connected)
	assert.Equal(t, int64(1), status.JobCount)
	assert.Zero(t, status.RepoCount)
	assert.NoError(t, store.Close())
}

func TestNewManager_NoneBackendSharesMemoryStore(t *testing.T) {
	mgr, err := NewManager(schema.NoneBackend, "")
	require.NoError(t, err)

	jobs := mgr.GetJobStore()
	repos := mgr.GetRepositoryStore()
	require.NotNil(t, jobs)
	require.NotNil(t, repos)

	// Jobs and repositories share one in-memory store.
	assert.Same(t, any(jobs), any(repos))
	assert.NoError(t, mgr.Close())
}

func TestNewManager_SQLite(t *testing.T) {
	mgr, err := NewManager(schema.SQLiteBackend, t.TempDir()+"/mgr.db")
	require.NoError(t, err)

	ctx := context.Background()
	require.NoError(t, mgr.GetJobStore().CreateJob(ctx, &schema.Job{
		ID: "job-1", Status: schema.JobPending, CreatedAt: time.Now(), RepoPath: "/x",
	}))

	job, err := mgr.GetJobStore().GetJob(ctx, "job-1")
	require.NoError(t, err)
	assert.Equal(t, "job-1", job.ID)
	assert.NoError(t, mgr.Close())
}
