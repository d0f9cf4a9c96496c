// Package jobstore persists analysis jobs and tracked repositories in a
// SQL database (SQLite, MySQL or PostgreSQL).
package jobstore

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"

	_ "github.com/go-sql-driver/mysql" // MySQL driver
	_ "github.com/jackc/pgx/v5/stdlib" // PostgreSQL driver
	_ "modernc.org/sqlite"             // SQLite driver
)

// Sentinel errors so callers can tell "not found" apart from a storage
// failure with errors.Is.
var (
	ErrJobNotFound        = errors.New("job not found")
	ErrRepositoryNotFound = errors.New("repository not found")
)

// Table names for job tracking.
const (
	jobsTable         = "repolens_jobs"
	repositoriesTable = "repolens_repositories"
)

// Store implements both contract.JobStore and contract.RepositoryStore on
// one database connection. Jobs and tracked repositories share a database
// because job records reference repository ids.
type Store struct {
	db      *sql.DB
	backend schema.DatabaseBackend
}

var _ contract.JobStore = &Store{}        // Compile-time check
var _ contract.RepositoryStore = &Store{} // Compile-time check

// NewStore opens the backing database, verifies connectivity and creates
// the job tables if they do not exist.
func NewStore(backend schema.DatabaseBackend, connStr string) (*Store, error) {
	db, err := openDatabase(backend, connStr)
	if err != nil {
		return nil, err
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w. Check that the server is running and connection parameters are valid", backend, err)
	}

	if err := createJobTables(db, backend); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to create job tables: %w", err)
	}

	return &Store{db: db, backend: backend}, nil
}

// openDatabase opens a *sql.DB for the configured backend.
func openDatabase(backend schema.DatabaseBackend, connStr string) (*sql.DB, error) {
	switch backend {
	case schema.SQLiteBackend:
		dbPath := connStr
		if dbPath == "" {
			dbPath = contract.GetDBFilePath()
		}
		db, err := sql.Open("sqlite", dbPath)
		if err != nil {
			return nil, fmt.Errorf("failed to open SQLite database at %q: %w. Ensure the directory is writable", dbPath, err)
		}
		// Limit SQLite to a single open connection to avoid "database is locked" errors
		db.SetMaxOpenConns(1)
		return db, nil

	case schema.MySQLBackend:
		db, err := sql.Open("mysql", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open MySQL database: %w. Check connection string format: user:password@tcp(host:port)/dbname", err)
		}
		return db, nil

	case schema.PostgreSQLBackend:
		db, err := sql.Open("pgx", connStr)
		if err != nil {
			return nil, fmt.Errorf("failed to open PostgreSQL database: %w. Check connection string format: host=localhost port=5432 user=postgres dbname=mydb", err)
		}
		return db, nil

	default:
		return nil, fmt.Errorf("unsupported store backend: %s. Must be sqlite, mysql or postgresql", backend)
	}
}

// createJobTables creates the jobs and repositories tables.
func createJobTables(db *sql.DB, backend schema.DatabaseBackend) error {
	tables := []struct {
		name  string
		query string
	}{
		{jobsTable, getCreateJobsQuery(backend)},
		{repositoriesTable, getCreateRepositoriesQuery(backend)},
	}

	for _, table := range tables {
		if _, err := db.Exec(table.query); err != nil {
			return fmt.Errorf("failed to create table %s: %w", table.name, err)
		}
	}

	return nil
}

// getCreateJobsQuery returns the CREATE TABLE query for repolens_jobs.
// Timestamps are stored as RFC 3339 strings on every backend so decode
// logic stays uniform.
func getCreateJobsQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(jobsTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(36) PRIMARY KEY,
				status VARCHAR(20) NOT NULL,
				created_at VARCHAR(40) NOT NULL,
				completed_at VARCHAR(40),
				repo_path TEXT NOT NULL,
				report_path TEXT,
				error_message TEXT,
				repo_id VARCHAR(36)
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				status TEXT NOT NULL,
				created_at TEXT NOT NULL,
				completed_at TEXT,
				repo_path TEXT NOT NULL,
				report_path TEXT,
				error_message TEXT,
				repo_id TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				status TEXT NOT NULL,
				created_at TEXT NOT NULL,
				completed_at TEXT,
				repo_path TEXT NOT NULL,
				report_path TEXT,
				error_message TEXT,
				repo_id TEXT
			);
		`, quotedTableName)
	}
}

// getCreateRepositoriesQuery returns the CREATE TABLE query for
// repolens_repositories.
func getCreateRepositoriesQuery(backend schema.DatabaseBackend) string {
	quotedTableName := quoteTableName(repositoriesTable, backend)

	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id VARCHAR(36) PRIMARY KEY,
				name VARCHAR(255) NOT NULL,
				path TEXT NOT NULL,
				relative_path TEXT,
				is_favorite TINYINT(1) NOT NULL DEFAULT 0,
				last_accessed VARCHAR(40),
				tags TEXT,
				last_commit_date VARCHAR(40),
				last_analysis_job_id VARCHAR(36),
				metadata TEXT
			);
		`, quotedTableName)

	case schema.PostgreSQLBackend:
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				path TEXT NOT NULL,
				relative_path TEXT,
				is_favorite BOOLEAN NOT NULL DEFAULT FALSE,
				last_accessed TEXT,
				tags TEXT,
				last_commit_date TEXT,
				last_analysis_job_id TEXT,
				metadata TEXT
			);
		`, quotedTableName)

	default: // SQLite
		return fmt.Sprintf(`
			CREATE TABLE IF NOT EXISTS %s (
				id TEXT PRIMARY KEY,
				name TEXT NOT NULL,
				path TEXT NOT NULL,
				relative_path TEXT,
				is_favorite INTEGER NOT NULL DEFAULT 0,
				last_accessed TEXT,
				tags TEXT,
				last_commit_date TEXT,
				last_analysis_job_id TEXT,
				metadata TEXT
			);
		`, quotedTableName)
	}
}

// CreateJob inserts a new job record.
func (s *Store) CreateJob(ctx context.Context, job *schema.Job) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (id, status, created_at, completed_at, repo_path, report_path, error_message, repo_id)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(jobsTable, s.backend))

	_, err := s.db.ExecContext(ctx, rebind(query, s.backend),
		job.ID, string(job.Status), encodeTime(job.CreatedAt), encodeTimePtr(job.CompletedAt),
		job.RepoPath, nullIfEmpty(job.ReportPath), nullIfEmpty(job.Error), nullIfEmpty(job.RepoID))
	if err != nil {
		return fmt.Errorf("failed to insert job %s: %w", job.ID, err)
	}
	return nil
}

// GetJob loads one job by id, returning ErrJobNotFound for missing ids.
func (s *Store) GetJob(ctx context.Context, id string) (*schema.Job, error) {
	query := fmt.Sprintf(`
		SELECT id, status, created_at, completed_at, repo_path, report_path, error_message, repo_id
		FROM %s WHERE id = ?
	`, quoteTableName(jobsTable, s.backend))

	row := s.db.QueryRowContext(ctx, rebind(query, s.backend), id)
	job, err := scanJob(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("job %s: %w", id, ErrJobNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load job %s: %w", id, err)
	}
	return job, nil
}

// UpdateJob rewrites the mutable fields of an existing job record.
func (s *Store) UpdateJob(ctx context.Context, job *schema.Job) error {
	query := fmt.Sprintf(`
		UPDATE %s SET status = ?, completed_at = ?, report_path = ?, error_message = ?
		WHERE id = ?
	`, quoteTableName(jobsTable, s.backend))

	result, err := s.db.ExecContext(ctx, rebind(query, s.backend),
		string(job.Status), encodeTimePtr(job.CompletedAt),
		nullIfEmpty(job.ReportPath), nullIfEmpty(job.Error), job.ID)
	if err != nil {
		return fmt.Errorf("failed to update job %s: %w", job.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("job %s: %w", job.ID, ErrJobNotFound)
	}
	return nil
}

// ListJobs returns every job, newest submission first.
func (s *Store) ListJobs(ctx context.Context) ([]schema.Job, error) {
	query := fmt.Sprintf(`
		SELECT id, status, created_at, completed_at, repo_path, report_path, error_message, repo_id
		FROM %s ORDER BY created_at DESC
	`, quoteTableName(jobsTable, s.backend))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query jobs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var jobs []schema.Job
	for rows.Next() {
		job, err := scanJob(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan job: %w", err)
		}
		jobs = append(jobs, *job)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating jobs: %w", err)
	}
	return jobs, nil
}

// GetStatus reports connectivity and row counts for the store.
func (s *Store) GetStatus(ctx context.Context) (schema.StoreStatus, error) {
	status := schema.StoreStatus{
		Backend:   string(s.backend),
		Connected: s.db != nil,
	}

	counts := []struct {
		table string
		dest  *int64
	}{
		{jobsTable, &status.JobCount},
		{repositoriesTable, &status.RepoCount},
	}
	for _, c := range counts {
		query := fmt.Sprintf("SELECT COUNT(*) FROM %s", quoteTableName(c.table, s.backend))
		if err := s.db.QueryRowContext(ctx, query).Scan(c.dest); err != nil {
			return status, fmt.Errorf("failed to count %s: %w", c.table, err)
		}
	}

	return status, nil
}

// CreateRepository inserts a new tracked repository.
func (s *Store) CreateRepository(ctx context.Context, repo *schema.TrackedRepository) error {
	metadata, err := encodeMetadata(repo.Metadata)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		INSERT INTO %s (id, name, path, relative_path, is_favorite, last_accessed, tags, last_commit_date, last_analysis_job_id, metadata)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, quoteTableName(repositoriesTable, s.backend))

	_, err = s.db.ExecContext(ctx, rebind(query, s.backend),
		repo.ID, repo.Name, repo.Path, nullIfEmpty(repo.RelativePath), repo.IsFavorite,
		encodeTimePtr(repo.LastAccessed), nullIfEmpty(repo.Tags), encodeTimePtr(repo.LastCommitDate),
		nullIfEmpty(repo.LastAnalysisID), metadata)
	if err != nil {
		return fmt.Errorf("failed to insert repository %s: %w", repo.ID, err)
	}
	return nil
}

// GetRepository loads one tracked repository by id, returning
// ErrRepositoryNotFound for missing ids.
func (s *Store) GetRepository(ctx context.Context, id string) (*schema.TrackedRepository, error) {
	query := fmt.Sprintf(`
		SELECT id, name, path, relative_path, is_favorite, last_accessed, tags, last_commit_date, last_analysis_job_id, metadata
		FROM %s WHERE id = ?
	`, quoteTableName(repositoriesTable, s.backend))

	row := s.db.QueryRowContext(ctx, rebind(query, s.backend), id)
	repo, err := scanRepository(row.Scan)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("repository %s: %w", id, ErrRepositoryNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load repository %s: %w", id, err)
	}
	return repo, nil
}

// UpdateRepository rewrites the mutable fields of a tracked repository.
func (s *Store) UpdateRepository(ctx context.Context, repo *schema.TrackedRepository) error {
	metadata, err := encodeMetadata(repo.Metadata)
	if err != nil {
		return err
	}

	query := fmt.Sprintf(`
		UPDATE %s SET name = ?, path = ?, relative_path = ?, is_favorite = ?, last_accessed = ?,
			tags = ?, last_commit_date = ?, last_analysis_job_id = ?, metadata = ?
		WHERE id = ?
	`, quoteTableName(repositoriesTable, s.backend))

	result, err := s.db.ExecContext(ctx, rebind(query, s.backend),
		repo.Name, repo.Path, nullIfEmpty(repo.RelativePath), repo.IsFavorite,
		encodeTimePtr(repo.LastAccessed), nullIfEmpty(repo.Tags), encodeTimePtr(repo.LastCommitDate),
		nullIfEmpty(repo.LastAnalysisID), metadata, repo.ID)
	if err != nil {
		return fmt.Errorf("failed to update repository %s: %w", repo.ID, err)
	}
	if n, err := result.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("repository %s: %w", repo.ID, ErrRepositoryNotFound)
	}
	return nil
}

// ListRepositories returns every tracked repository ordered by name.
func (s *Store) ListRepositories(ctx context.Context) ([]schema.TrackedRepository, error) {
	query := fmt.Sprintf(`
		SELECT id, name, path, relative_path, is_favorite, last_accessed, tags, last_commit_date, last_analysis_job_id, metadata
		FROM %s ORDER BY name
	`, quoteTableName(repositoriesTable, s.backend))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query repositories: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var repos []schema.TrackedRepository
	for rows.Next() {
		repo, err := scanRepository(rows.Scan)
		if err != nil {
			return nil, fmt.Errorf("failed to scan repository: %w", err)
		}
		repos = append(repos, *repo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating repositories: %w", err)
	}
	return repos, nil
}

// Close closes the underlying connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

// scanJob decodes one job row via the given Scan function, so it can be
// shared between QueryRow and Rows iteration.
func scanJob(scan func(dest ...any) error) (*schema.Job, error) {
	var job schema.Job
	var status, createdAt string
	var completedAt, reportPath, errMsg, repoID sql.NullString

	if err := scan(&job.ID, &status, &createdAt, &completedAt, &job.RepoPath, &reportPath, &errMsg, &repoID); err != nil {
		return nil, err
	}

	job.Status = schema.JobStatus(status)
	created, err := decodeTime(createdAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse created_at: %w", err)
	}
	job.CreatedAt = created
	job.CompletedAt, err = decodeTimePtr(completedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to parse completed_at: %w", err)
	}
	job.ReportPath = reportPath.String
	job.Error = errMsg.String
	job.RepoID = repoID.String
	return &job, nil
}

// scanRepository decodes one tracked repository row.
func scanRepository(scan func(dest ...any) error) (*schema.TrackedRepository, error) {
	var repo schema.TrackedRepository
	var relativePath, lastAccessed, tags, lastCommitDate, lastAnalysisID, metadata sql.NullString

	if err := scan(&repo.ID, &repo.Name, &repo.Path, &relativePath, &repo.IsFavorite,
		&lastAccessed, &tags, &lastCommitDate, &lastAnalysisID, &metadata); err != nil {
		return nil, err
	}

	repo.RelativePath = relativePath.String
	repo.Tags = tags.String
	repo.LastAnalysisID = lastAnalysisID.String

	var err error
	repo.LastAccessed, err = decodeTimePtr(lastAccessed)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_accessed: %w", err)
	}
	repo.LastCommitDate, err = decodeTimePtr(lastCommitDate)
	if err != nil {
		return nil, fmt.Errorf("failed to parse last_commit_date: %w", err)
	}

	if metadata.Valid && metadata.String != "" {
		if err := json.Unmarshal([]byte(metadata.String), &repo.Metadata); err != nil {
			return nil, fmt.Errorf("failed to decode repository metadata: %w", err)
		}
	}
	return &repo, nil
}

// encodeMetadata serializes the free-form metadata map to JSON.
func encodeMetadata(metadata map[string]any) (any, error) {
	if len(metadata) == 0 {
		return nil, nil
	}
	raw, err := json.Marshal(metadata)
	if err != nil {
		return nil, fmt.Errorf("failed to encode repository metadata: %w", err)
	}
	return string(raw), nil
}

// nullIfEmpty maps the empty string to SQL NULL for optional columns.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}

// Timestamps are persisted as RFC 3339 UTC strings on every backend. The
// fraction is always nine digits wide so that lexicographic ordering of
// the stored strings matches chronological ordering; RFC3339Nano trims
// trailing zeros and would misorder same-second timestamps under
// ORDER BY.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

func encodeTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func encodeTimePtr(t *time.Time) any {
	if t == nil {
		return nil
	}
	return encodeTime(*t)
}

func decodeTime(s string) (time.Time, error) {
	// Lenient on the fraction width so rows written before the layout
	// became fixed-width still decode.
	return time.Parse(time.RFC3339Nano, s)
}

func decodeTimePtr(s sql.NullString) (*time.Time, error) {
	if !s.Valid || s.String == "" {
		return nil, nil
	}
	t, err := decodeTime(s.String)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// quoteTableName returns the properly quoted table name for the backend.
func quoteTableName(name string, backend schema.DatabaseBackend) string {
	switch backend {
	case schema.MySQLBackend:
		return fmt.Sprintf("`%s`", name)
	default: // SQLite and PostgreSQL
		return fmt.Sprintf("%q", name)
	}
}

// rebind rewrites ? placeholders into $1..$n for PostgreSQL. The other
// backends take ? as-is.
func rebind(query string, backend schema.DatabaseBackend) string {
	if backend != schema.PostgreSQLBackend {
		return query
	}
	var b strings.Builder
	n := 0
	for _, r := range query {
		if r == '?' {
			n++
			b.WriteString("$" + strconv.Itoa(n))
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}
