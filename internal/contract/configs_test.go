package contract

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/repolens/repolens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProcessAndValidate(t *testing.T) {
	tests := []struct {
		name        string
		input       *ConfigRawInput
		expectError bool
		errContains string
	}{
		{
			name:        "minimal defaults",
			input:       &ConfigRawInput{BaseDirStr: "."},
			expectError: false,
		},
		{
			name: "all fields set",
			input: &ConfigRawInput{
				BaseDirStr:    ".",
				Recursive:     true,
				Yes:           true,
				SkipReports:   true,
				Workers:       8,
				GitTimeoutStr: "45s",
				OutputMode:    "json",
				StoreBackend:  "sqlite",
			},
			expectError: false,
		},
		{
			name:        "missing base directory",
			input:       &ConfigRawInput{BaseDirStr: "/definitely/not/a/real/path"},
			expectError: true,
			errContains: "does not exist",
		},
		{
			name:        "invalid output mode",
			input:       &ConfigRawInput{BaseDirStr: ".", OutputMode: "yaml"},
			expectError: true,
			errContains: "invalid output mode",
		},
		{
			name:        "invalid store backend",
			input:       &ConfigRawInput{BaseDirStr: ".", StoreBackend: "mongodb"},
			expectError: true,
			errContains: "invalid store backend",
		},
		{
			name:        "unparsable git timeout",
			input:       &ConfigRawInput{BaseDirStr: ".", GitTimeoutStr: "fast"},
			expectError: true,
			errContains: "invalid git-timeout",
		},
		{
			name:        "negative git timeout",
			input:       &ConfigRawInput{BaseDirStr: ".", GitTimeoutStr: "-5s"},
			expectError: true,
			errContains: "must be positive",
		},
		{
			name:        "mysql backend without connection string",
			input:       &ConfigRawInput{BaseDirStr: ".", StoreBackend: "mysql"},
			expectError: true,
			errContains: "store-db-connect is required",
		},
		{
			name: "mysql backend with valid connection string",
			input: &ConfigRawInput{
				BaseDirStr:   ".",
				StoreBackend: "mysql",
				StoreConnect: "user:pass@tcp(localhost:3306)/repolens",
			},
			expectError: false,
		},
		{
			name: "mysql backend missing tcp host",
			input: &ConfigRawInput{
				BaseDirStr:   ".",
				StoreBackend: "mysql",
				StoreConnect: "user:pass/repolens",
			},
			expectError: true,
			errContains: "@tcp(",
		},
		{
			name:        "postgresql backend without connection string",
			input:       &ConfigRawInput{BaseDirStr: ".", StoreBackend: "postgresql"},
			expectError: true,
			errContains: "store-db-connect is required",
		},
		{
			name: "postgresql backend with valid connection string",
			input: &ConfigRawInput{
				BaseDirStr:   ".",
				StoreBackend: "postgresql",
				StoreConnect: "host=localhost port=5432 user=repolens dbname=repolens sslmode=disable",
			},
			expectError: false,
		},
		{
			name: "postgresql backend missing dbname",
			input: &ConfigRawInput{
				BaseDirStr:   ".",
				StoreBackend: "postgresql",
				StoreConnect: "host=localhost user=repolens",
			},
			expectError: true,
			errContains: "dbname=",
		},
		{
			name:        "backend is case insensitive",
			input:       &ConfigRawInput{BaseDirStr: ".", StoreBackend: "SQLite"},
			expectError: false,
		},
		{
			name:        "none backend needs nothing",
			input:       &ConfigRawInput{BaseDirStr: ".", StoreBackend: "none"},
			expectError: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &Config{}
			err := ProcessAndValidate(cfg, tt.input)
			if tt.expectError {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			assert.True(t, filepath.IsAbs(cfg.BaseDir), "base dir should be absolute")
		})
	}
}

func TestProcessAndValidate_Defaults(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{BaseDirStr: "."}))

	assert.Equal(t, DefaultGitTimeout, cfg.GitTimeout)
	assert.Equal(t, DefaultWorkers, cfg.Workers)
	assert.Equal(t, schema.TextOut, cfg.Output)
	assert.Equal(t, schema.SQLiteBackend, cfg.StoreBackend)
	assert.Equal(t, filepath.Join(cfg.BaseDir, DefaultReportsDirName), cfg.OutputDir)
}

func TestProcessAndValidate_Overrides(t *testing.T) {
	dir := t.TempDir()
	cfg := &Config{}
	input := &ConfigRawInput{
		BaseDirStr:    dir,
		OutputDir:     filepath.Join(dir, "out"),
		Recursive:     true,
		Yes:           true,
		SkipReports:   true,
		Workers:       3,
		GitTimeoutStr: "90s",
		OutputMode:    "parquet",
		OutputFile:    "results.parquet",
	}
	require.NoError(t, ProcessAndValidate(cfg, input))

	assert.Equal(t, filepath.Join(dir, "out"), cfg.OutputDir)
	assert.True(t, cfg.Recursive)
	assert.True(t, cfg.SkipConfirmation)
	assert.True(t, cfg.SkipReports)
	assert.Equal(t, 3, cfg.Workers)
	assert.Equal(t, 90*time.Second, cfg.GitTimeout)
	assert.Equal(t, schema.ParquetOut, cfg.Output)
	assert.Equal(t, "results.parquet", cfg.OutputFile)
}

func TestProcessAndValidate_EmptyBaseDirDefaultsToCwd(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{}))
	assert.True(t, filepath.IsAbs(cfg.BaseDir))
}

func TestProcessAndValidate_NonPositiveWorkers(t *testing.T) {
	cfg := &Config{}
	require.NoError(t, ProcessAndValidate(cfg, &ConfigRawInput{BaseDirStr: ".", Workers: -2}))
	assert.Equal(t, DefaultWorkers, cfg.Workers)
}

func TestConfigClone(t *testing.T) {
	cfg := &Config{BaseDir: "/repos", Recursive: true, Workers: 4}
	clone := cfg.Clone()

	clone.BaseDir = "/elsewhere"
	clone.Recursive = false

	// The original is untouched.
	assert.Equal(t, "/repos", cfg.BaseDir)
	assert.True(t, cfg.Recursive)
	assert.Equal(t, 4, clone.Workers)
}

func TestValidateDatabaseConnectionString(t *testing.T) {
	assert.NoError(t, ValidateDatabaseConnectionString(schema.SQLiteBackend, ""))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.NoneBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.MySQLBackend, ""))
	assert.Error(t, ValidateDatabaseConnectionString(schema.PostgreSQLBackend, "host=x"))
	assert.NoError(t, ValidateDatabaseConnectionString(schema.MySQLBackend, "u:p@tcp(h:3306)/db"))
}
