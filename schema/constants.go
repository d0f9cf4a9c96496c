package schema

// Custom string types for type safety.
type (
	// JobStatus represents the lifecycle state of an analysis job.
	JobStatus string

	// OutputMode represents the format of the output.
	OutputMode string

	// DatabaseBackend represents the database backend for job storage.
	DatabaseBackend string
)

// All job statuses supported. A job starts as pending, moves to running
// when mining begins, and ends in exactly one of completed or failed.
const (
	JobPending   JobStatus = "pending"
	JobRunning   JobStatus = "running"
	JobCompleted JobStatus = "completed"
	JobFailed    JobStatus = "failed"
)

// IsTerminal reports whether the status is final.
func (s JobStatus) IsTerminal() bool {
	return s == JobCompleted || s == JobFailed
}

// All output modes supported.
const (
	TextOut    OutputMode = "text" // default
	JSONOut    OutputMode = "json"
	ParquetOut OutputMode = "parquet"
)

// All storage backends supported.
const (
	SQLiteBackend     DatabaseBackend = "sqlite" // default
	MySQLBackend      DatabaseBackend = "mysql"
	PostgreSQLBackend DatabaseBackend = "postgresql"
	NoneBackend       DatabaseBackend = "none"
)

// AllDatabaseBackends returns a list of all supported storage backends.
var AllDatabaseBackends = []DatabaseBackend{SQLiteBackend, MySQLBackend, PostgreSQLBackend, NoneBackend}

// EmptyTreeHash is Git's well-known empty-tree object. The chronologically
// earliest commit of a repository is diffed against it, since that commit
// has no parent to diff against.
const EmptyTreeHash = "4b825dc642cb6eb9a060e54bf8d69288fbee4904"

// RemoteBranchPrefix marks remote-tracking branches in 'git branch -a'
// output. Such branches are excluded from all counts and reports.
const RemoteBranchPrefix = "remotes/"

// SourceFileExtensions is the allow-list of extensions counted as source
// files by the code volume sampler.
var SourceFileExtensions = map[string]bool{
	".py":   true,
	".js":   true,
	".java": true,
	".c":    true,
	".cpp":  true,
	".h":    true,
	".cs":   true,
	".php":  true,
	".rb":   true,
	".go":   true,
	".ts":   true,
}
