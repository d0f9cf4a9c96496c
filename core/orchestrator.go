package core

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/google/uuid"
	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/internal/outwriter"
	"github.com/repolens/repolens/schema"
)

// jobQueueSize bounds how many submitted jobs can wait for a worker.
const jobQueueSize = 256

// Orchestrator owns the job lifecycle: it persists job records, runs the
// mining pipeline on a bounded worker pool, and records each job's
// terminal outcome exactly once. Mining components stay pure; only the
// orchestrator mutates job records.
type Orchestrator struct {
	cfg    *contract.Config
	client contract.GitClient
	stores contract.StoreManager
	clock  contract.Clock

	queue chan string
	wg    sync.WaitGroup

	mu       sync.Mutex
	running  map[string]context.CancelFunc
	requests map[string]schema.JobRequest
	started  bool
}

// NewOrchestrator creates an orchestrator. Call Start before submitting
// jobs and Close to drain the pool.
func NewOrchestrator(cfg *contract.Config, client contract.GitClient, stores contract.StoreManager, clock contract.Clock) *Orchestrator {
	if clock == nil {
		clock = contract.SystemClock{}
	}
	return &Orchestrator{
		cfg:      cfg,
		client:   client,
		stores:   stores,
		clock:    clock,
		queue:    make(chan string, jobQueueSize),
		running:  make(map[string]context.CancelFunc),
		requests: make(map[string]schema.JobRequest),
	}
}

// Start launches the worker pool. Workers pick up queued jobs until
// Close is called; ctx cancellation stops in-flight mining.
func (o *Orchestrator) Start(ctx context.Context) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if o.started {
		return
	}
	o.started = true

	for range o.cfg.Workers {
		o.wg.Go(func() {
			for jobID := range o.queue {
				if err := o.RunJob(ctx, jobID); err != nil {
					contract.LogWarn("Job execution failed for "+jobID, err)
				}
			}
		})
	}
}

// Close stops accepting jobs and waits for in-flight jobs to finish.
func (o *Orchestrator) Close() {
	close(o.queue)
	o.wg.Wait()
}

// CreateJob validates the request, persists a pending job record, and
// enqueues it for the worker pool. The call never runs the pipeline
// itself. Input errors (missing base path, missing git binary) are
// reported here and the job is never created.
func (o *Orchestrator) CreateJob(ctx context.Context, req schema.JobRequest) (*schema.Job, error) {
	if err := contract.CheckGitAvailable(); err != nil {
		return nil, err
	}
	info, err := os.Stat(req.RepoPath)
	if err != nil {
		return nil, fmt.Errorf("repository path %q does not exist: %w", req.RepoPath, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("repository path %q is not a directory", req.RepoPath)
	}

	job := &schema.Job{
		ID:        uuid.NewString(),
		Status:    schema.JobPending,
		CreatedAt: o.clock.Now(),
		RepoPath:  req.RepoPath,
		RepoID:    req.RepoID,
	}
	if err := o.stores.GetJobStore().CreateJob(ctx, job); err != nil {
		return nil, fmt.Errorf("failed to persist job record: %w", err)
	}

	o.mu.Lock()
	o.requests[job.ID] = req
	o.mu.Unlock()

	select {
	case o.queue <- job.ID:
	default:
		// The record is already persisted; close it out as failed so no
		// pending job lingers that no worker will ever pick up.
		o.mu.Lock()
		delete(o.requests, job.ID)
		o.mu.Unlock()

		now := o.clock.Now()
		job.Status = schema.JobFailed
		job.CompletedAt = &now
		job.Error = fmt.Sprintf("job queue is full (%d pending)", jobQueueSize)
		if err := o.stores.GetJobStore().UpdateJob(ctx, job); err != nil {
			contract.LogWarn("Cannot record queue overflow for job "+job.ID, err)
		}
		return nil, fmt.Errorf("job queue is full (%d pending); retry later", jobQueueSize)
	}

	return job, nil
}

// RunJob executes the mining pipeline for one job: mark running, mine,
// then record the terminal state exactly once. A per-job run-once guard
// rejects concurrent executions of the same id, and terminal jobs are
// never re-opened.
func (o *Orchestrator) RunJob(ctx context.Context, jobID string) error {
	jobCtx, err := o.acquire(ctx, jobID)
	if err != nil {
		return err
	}
	defer o.release(jobID)

	jobs := o.stores.GetJobStore()
	job, err := jobs.GetJob(ctx, jobID)
	if err != nil {
		return fmt.Errorf("cannot load job %s: %w", jobID, err)
	}
	if job.Status.IsTerminal() {
		return fmt.Errorf("job %s already finished with status %s", jobID, job.Status)
	}

	job.Status = schema.JobRunning
	if err := jobs.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("cannot mark job %s running: %w", jobID, err)
	}

	data, reportPath, runErr := o.executeMining(jobCtx, job)

	now := o.clock.Now()
	job.CompletedAt = &now
	if runErr != nil {
		job.Status = schema.JobFailed
		job.Error = runErr.Error()
	} else {
		job.Status = schema.JobCompleted
		job.ReportPath = reportPath
	}
	if err := jobs.UpdateJob(ctx, job); err != nil {
		return fmt.Errorf("cannot record outcome of job %s: %w", jobID, err)
	}

	// Tracked-repository metadata refresh is best effort; its failure
	// never flips a completed job back to failed.
	if runErr == nil && job.RepoID != "" {
		if err := o.updateTrackedRepository(ctx, job, data); err != nil {
			contract.LogWarn("Cannot update tracked repository "+job.RepoID, err)
		}
	}

	return nil
}

// CancelJob cancels an in-flight job. The cancelled run ends as failed
// via the normal terminal update.
func (o *Orchestrator) CancelJob(jobID string) bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	cancel, ok := o.running[jobID]
	if ok {
		cancel()
	}
	return ok
}

// acquire installs the run-once guard and derives the per-job context.
func (o *Orchestrator) acquire(ctx context.Context, jobID string) (context.Context, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if _, ok := o.running[jobID]; ok {
		return nil, fmt.Errorf("job %s is already running", jobID)
	}
	jobCtx, cancel := context.WithCancel(ctx)
	o.running[jobID] = cancel
	return jobCtx, nil
}

// release drops the run-once guard and the submission request.
func (o *Orchestrator) release(jobID string) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if cancel, ok := o.running[jobID]; ok {
		cancel()
		delete(o.running, jobID)
	}
	delete(o.requests, jobID)
}

// requestFor returns the submission request for a job, falling back to
// permissive defaults for jobs restored from storage.
func (o *Orchestrator) requestFor(job *schema.Job) schema.JobRequest {
	o.mu.Lock()
	defer o.mu.Unlock()
	if req, ok := o.requests[job.ID]; ok {
		return req
	}
	return schema.JobRequest{
		RepoPath:         job.RepoPath,
		Recursive:        true,
		SkipConfirmation: true,
		RepoID:           job.RepoID,
	}
}

// executeMining runs discovery, extraction and aggregation for the job
// and writes the payload plus reports under the job's output directory.
func (o *Orchestrator) executeMining(ctx context.Context, job *schema.Job) (*schema.AnalysisData, string, error) {
	req := o.requestFor(job)

	cfgJob := *o.cfg
	cfgJob.BaseDir = job.RepoPath
	cfgJob.Recursive = req.Recursive
	cfgJob.SkipConfirmation = req.SkipConfirmation

	outputDir := filepath.Join(o.cfg.OutputDir, job.ID)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return nil, "", fmt.Errorf("cannot create output directory %q: %w", outputDir, err)
	}

	data, err := MineAll(ctx, &cfgJob, o.client)
	if err != nil {
		return nil, "", err
	}
	data.JobID = job.ID

	if _, err := outwriter.WritePayload(data, outputDir); err != nil {
		return nil, "", err
	}
	if err := outwriter.WriteRunSummary(data, outputDir); err != nil {
		return nil, "", err
	}

	if !o.cfg.SkipReports {
		for i := range data.Repos {
			if _, err := outwriter.WriteMarkdownReport(&data.Repos[i], outputDir); err != nil {
				return nil, "", err
			}
		}
	}

	return data, outputDir, nil
}

// updateTrackedRepository refreshes the cached analysis metadata of the
// tracked repository a job was submitted for.
func (o *Orchestrator) updateTrackedRepository(ctx context.Context, job *schema.Job, data *schema.AnalysisData) error {
	store := o.stores.GetRepositoryStore()
	repo, err := store.GetRepository(ctx, job.RepoID)
	if err != nil {
		return err
	}

	totalFiles := 0
	for _, r := range data.Repos {
		totalFiles += r.Summary.FileCount
	}

	if repo.Metadata == nil {
		repo.Metadata = make(map[string]any)
	}
	repo.Metadata["last_analysis"] = schema.LastAnalysis{
		Date:          *job.CompletedAt,
		JobID:         job.ID,
		TotalCommits:  data.Aggregate.TotalCommits,
		TotalBranches: data.Aggregate.TotalBranches,
		TotalFiles:    totalFiles,
		TotalLines:    data.Aggregate.TotalLines,
	}
	repo.LastAnalysisID = job.ID
	if data.Aggregate.LastCommit != nil {
		repo.LastCommitDate = data.Aggregate.LastCommit
	}

	return store.UpdateRepository(ctx, repo)
}
