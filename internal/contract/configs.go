package contract

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"time"

	"github.com/repolens/repolens/schema"
)

// Default values for configuration.
const (
	// DefaultGitTimeout bounds every git invocation. A hung invocation
	// fails the affected repository, not the whole job.
	DefaultGitTimeout = 120 * time.Second

	// DefaultReportsDirName is the directory under the output dir where
	// per-job payloads and reports land.
	DefaultReportsDirName = "repolens_reports"
)

// DefaultWorkers is the default size of the job worker pool.
var DefaultWorkers = runtime.GOMAXPROCS(0)

// Config holds the runtime configuration for mining and job execution.
// This struct is the final, validated config.
type Config struct {
	BaseDir          string
	OutputDir        string
	Recursive        bool
	SkipConfirmation bool
	SkipReports      bool

	Workers    int
	GitTimeout time.Duration

	Output     schema.OutputMode
	OutputFile string

	StoreBackend schema.DatabaseBackend
	StoreConnect string // Please use env var as this is plaintext
}

// Clone returns a copy of the config that callers can mutate per request
// without touching the shared base config.
func (c *Config) Clone() *Config {
	clone := *c
	return &clone
}

// ConfigRawInput holds the raw inputs from all sources (flags, env, config file).
// Viper unmarshals into this struct.
type ConfigRawInput struct {
	// This is set manually from positional args, so no tag
	BaseDirStr string

	OutputDir     string `mapstructure:"output"`
	Recursive     bool   `mapstructure:"recursive"`
	Yes           bool   `mapstructure:"yes"`
	SkipReports   bool   `mapstructure:"skip-reports"`
	Workers       int    `mapstructure:"workers"`
	GitTimeoutStr string `mapstructure:"git-timeout"`
	OutputMode    string `mapstructure:"output-mode"`
	OutputFile    string `mapstructure:"output-file"`
	StoreBackend  string `mapstructure:"store-backend"`
	StoreConnect  string `mapstructure:"store-db-connect"`
}

// ValidDatabaseBackends is the set of accepted storage backends.
var ValidDatabaseBackends = map[schema.DatabaseBackend]bool{
	schema.SQLiteBackend:     true,
	schema.MySQLBackend:      true,
	schema.PostgreSQLBackend: true,
	schema.NoneBackend:       true,
}

// ProcessAndValidate converts raw input into the validated Config.
func ProcessAndValidate(cfg *Config, input *ConfigRawInput) error {
	if err := resolveBaseDir(cfg, input); err != nil {
		return err
	}
	if err := validateSimpleInputs(cfg, input); err != nil {
		return err
	}
	return validateBackendConfig(cfg, input)
}

// resolveBaseDir turns the positional base directory into a clean
// absolute path and verifies it exists.
func resolveBaseDir(cfg *Config, input *ConfigRawInput) error {
	baseDir := input.BaseDirStr
	if baseDir == "" {
		baseDir = "."
	}
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return err
	}
	absBase = filepath.Clean(absBase)

	info, err := os.Stat(absBase)
	if err != nil {
		return fmt.Errorf("base directory %q does not exist: %w", baseDir, err)
	}
	if !info.IsDir() {
		return fmt.Errorf("base path %q is not a directory", baseDir)
	}

	cfg.BaseDir = absBase
	return nil
}

// validateSimpleInputs handles fields that map over directly.
func validateSimpleInputs(cfg *Config, input *ConfigRawInput) error {
	cfg.Recursive = input.Recursive
	cfg.SkipConfirmation = input.Yes
	cfg.SkipReports = input.SkipReports
	cfg.OutputFile = input.OutputFile

	cfg.OutputDir = input.OutputDir
	if cfg.OutputDir == "" {
		cfg.OutputDir = filepath.Join(cfg.BaseDir, DefaultReportsDirName)
	}

	cfg.Workers = input.Workers
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}

	cfg.GitTimeout = DefaultGitTimeout
	if input.GitTimeoutStr != "" {
		d, err := time.ParseDuration(input.GitTimeoutStr)
		if err != nil {
			return fmt.Errorf("invalid git-timeout %q: %w", input.GitTimeoutStr, err)
		}
		if d <= 0 {
			return fmt.Errorf("git-timeout must be positive, got %q", input.GitTimeoutStr)
		}
		cfg.GitTimeout = d
	}

	switch mode := schema.OutputMode(input.OutputMode); mode {
	case "", schema.TextOut:
		cfg.Output = schema.TextOut
	case schema.JSONOut, schema.ParquetOut:
		cfg.Output = mode
	default:
		return fmt.Errorf("invalid output mode '%s'. must be text, json, parquet", input.OutputMode)
	}

	return nil
}

// validateBackendConfig validates the job store backend configuration.
func validateBackendConfig(cfg *Config, input *ConfigRawInput) error {
	backend := schema.DatabaseBackend(strings.ToLower(input.StoreBackend))
	if backend == "" {
		backend = schema.SQLiteBackend
	}
	if !ValidDatabaseBackends[backend] {
		return fmt.Errorf("invalid store backend '%s'. must be sqlite, mysql, postgresql, none", input.StoreBackend)
	}
	cfg.StoreBackend = backend
	cfg.StoreConnect = input.StoreConnect
	return ValidateDatabaseConnectionString(cfg.StoreBackend, cfg.StoreConnect)
}

// ValidateDatabaseConnectionString validates the format of database
// connection strings for MySQL and PostgreSQL backends.
func ValidateDatabaseConnectionString(backend schema.DatabaseBackend, connStr string) error {
	switch backend {
	case schema.SQLiteBackend, schema.NoneBackend:
		return nil
	case schema.MySQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "@tcp(") {
			return fmt.Errorf("MySQL connection string must contain '@tcp(' for host:port specification")
		}
		if !strings.Contains(connStr, "/") {
			return fmt.Errorf("MySQL connection string must contain '/' followed by database name")
		}
	case schema.PostgreSQLBackend:
		if connStr == "" {
			return fmt.Errorf("store-db-connect is required when using %s backend", backend)
		}
		if !strings.Contains(connStr, "host=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'host=' parameter")
		}
		if !strings.Contains(connStr, "dbname=") {
			return fmt.Errorf("PostgreSQL connection string must contain 'dbname=' parameter")
		}
	}
	return nil
}
