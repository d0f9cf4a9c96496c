package jobstore

import (
	"context"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
	"github.com/stretchr/testify/mock"
)

// MockStoreManager is a mock implementation of StoreManager for testing.
type MockStoreManager struct {
	mock.Mock
}

var _ contract.StoreManager = &MockStoreManager{} // Compile-time check

// GetJobStore implements the StoreManager interface.
func (m *MockStoreManager) GetJobStore() contract.JobStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.JobStore)
	return store
}

// GetRepositoryStore implements the StoreManager interface.
func (m *MockStoreManager) GetRepositoryStore() contract.RepositoryStore {
	ret := m.Called()
	store, _ := ret.Get(0).(contract.RepositoryStore)
	return store
}

// MockJobStore is a mock implementation of JobStore for testing.
type MockJobStore struct {
	mock.Mock
}

var _ contract.JobStore = &MockJobStore{} // Compile-time check

// CreateJob implements the JobStore interface.
func (m *MockJobStore) CreateJob(ctx context.Context, job *schema.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// GetJob implements the JobStore interface.
func (m *MockJobStore) GetJob(ctx context.Context, id string) (*schema.Job, error) {
	args := m.Called(ctx, id)
	job, _ := args.Get(0).(*schema.Job)
	return job, args.Error(1)
}

// UpdateJob implements the JobStore interface.
func (m *MockJobStore) UpdateJob(ctx context.Context, job *schema.Job) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

// ListJobs implements the JobStore interface.
func (m *MockJobStore) ListJobs(ctx context.Context) ([]schema.Job, error) {
	args := m.Called(ctx)
	jobs, _ := args.Get(0).([]schema.Job)
	return jobs, args.Error(1)
}

// GetStatus implements the JobStore interface.
func (m *MockJobStore) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	args := m.Called(ctx)
	return args.Get(0).(schema.StoreStatus), args.Error(1)
}

// Close implements the JobStore interface.
func (m *MockJobStore) Close() error {
	args := m.Called()
	return args.Error(0)
}

// MockRepositoryStore is a mock implementation of RepositoryStore for testing.
type MockRepositoryStore struct {
	mock.Mock
}

var _ contract.RepositoryStore = &MockRepositoryStore{} // Compile-time check

// CreateRepository implements the RepositoryStore interface.
func (m *MockRepositoryStore) CreateRepository(ctx context.Context, repo *schema.TrackedRepository) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

// GetRepository implements the RepositoryStore interface.
func (m *MockRepositoryStore) GetRepository(ctx context.Context, id string) (*schema.TrackedRepository, error) {
	args := m.Called(ctx, id)
	repo, _ := args.Get(0).(*schema.TrackedRepository)
	return repo, args.Error(1)
}

// UpdateRepository implements the RepositoryStore interface.
func (m *MockRepositoryStore) UpdateRepository(ctx context.Context, repo *schema.TrackedRepository) error {
	args := m.Called(ctx, repo)
	return args.Error(0)
}

// ListRepositories implements the RepositoryStore interface.
func (m *MockRepositoryStore) ListRepositories(ctx context.Context) ([]schema.TrackedRepository, error) {
	args := m.Called(ctx)
	repos, _ := args.Get(0).([]schema.TrackedRepository)
	return repos, args.Error(1)
}

// Close implements the RepositoryStore interface.
func (m *MockRepositoryStore) Close() error {
	args := m.Called()
	return args.Error(0)
}
