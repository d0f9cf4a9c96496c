package jobstore

import (
	"sync"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
)

// Manager bundles the job and repository stores behind one handle.
type Manager struct {
	sync.RWMutex // Protects the store pointers during initialization
	jobs         contract.JobStore
	repos        contract.RepositoryStore
}

var _ contract.StoreManager = &Manager{} // Compile-time check

// NewManager initializes the persistence stores for the configured
// backend. The "none" backend falls back to an in-memory store so job
// tracking still works for the lifetime of the process.
func NewManager(backend schema.DatabaseBackend, connStr string) (*Manager, error) {
	if backend == schema.NoneBackend {
		mem := NewMemoryStore()
		return &Manager{jobs: mem, repos: mem}, nil
	}

	store, err := NewStore(backend, connStr)
	if err != nil {
		return nil, err
	}
	return &Manager{jobs: store, repos: store}, nil
}

// GetJobStore returns the JobStore.
func (mgr *Manager) GetJobStore() contract.JobStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.jobs
}

// GetRepositoryStore returns the RepositoryStore.
func (mgr *Manager) GetRepositoryStore() contract.RepositoryStore {
	mgr.RLock()
	defer mgr.RUnlock()
	return mgr.repos
}

// Close closes the underlying stores. The job and repository stores may
// share one connection, in which case it is closed once.
func (mgr *Manager) Close() error {
	mgr.Lock()
	defer mgr.Unlock()
	err := mgr.jobs.Close()
	if any(mgr.repos) != any(mgr.jobs) {
		if cerr := mgr.repos.Close(); cerr != nil && err == nil {
			err = cerr
		}
	}
	return err
}
