package mcp_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/repolens/repolens/core"
	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/internal/jobstore"
	mcp_internal "github.com/repolens/repolens/internal/mcp"
	"github.com/repolens/repolens/schema"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServerDeps(t *testing.T) (*contract.Config, contract.GitClient, *core.Orchestrator, contract.StoreManager) {
	t.Helper()
	stores, err := jobstore.NewManager(schema.NoneBackend, "")
	require.NoError(t, err)

	cfg := &contract.Config{
		BaseDir:    t.TempDir(),
		OutputDir:  filepath.Join(t.TempDir(), "reports"),
		Workers:    1,
		GitTimeout: 30 * time.Second,
	}
	client := new(contract.MockGitClient)
	orch := core.NewOrchestrator(cfg, client, stores, nil)
	return cfg, client, orch, stores
}

func callToolRequest(name string, args map[string]any) mcp.CallToolRequest {
	return mcp.CallToolRequest{
		Params: mcp.CallToolParams{
			Name:      name,
			Arguments: args,
		},
	}
}

func textContent(t *testing.T, res *mcp.CallToolResult) string {
	t.Helper()
	require.NotEmpty(t, res.Content)
	text, ok := res.Content[0].(mcp.TextContent)
	require.True(t, ok, "Tool result content should be text")
	return text.Text
}

func TestMCPServerHandlers_ValidationErrors(t *testing.T) {
	cfg, client, orch, stores := newTestServerDeps(t)
	s := mcp_internal.NewMCPServer(cfg, client, orch, stores)
	ctx := context.Background()

	t.Run("submit_job missing repo_path", func(t *testing.T) {
		tool := s.GetTool("submit_job")
		require.NotNil(t, tool, "Tool submit_job should exist")

		res, err := tool.Handler(ctx, callToolRequest("submit_job", map[string]any{
			"repo_path": "",
		}))
		require.NoError(t, err, "Tool logic failures are reported through the result, not a raw error")
		assert.True(t, res.IsError)
		assert.Contains(t, textContent(t, res), "repo_path is required")
	})

	t.Run("get_job_status missing job_id", func(t *testing.T) {
		tool := s.GetTool("get_job_status")
		require.NotNil(t, tool, "Tool get_job_status should exist")

		res, err := tool.Handler(ctx, callToolRequest("get_job_status", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, textContent(t, res), "job_id is required")
	})

	t.Run("get_job_status unknown job", func(t *testing.T) {
		tool := s.GetTool("get_job_status")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callToolRequest("get_job_status", map[string]any{
			"job_id": "no-such-job",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, textContent(t, res), "job lookup failed")
	})

	t.Run("cancel_job missing job_id", func(t *testing.T) {
		tool := s.GetTool("cancel_job")
		require.NotNil(t, tool, "Tool cancel_job should exist")

		res, err := tool.Handler(ctx, callToolRequest("cancel_job", map[string]any{}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, textContent(t, res), "job_id is required")
	})

	t.Run("cancel_job with no in-flight run", func(t *testing.T) {
		tool := s.GetTool("cancel_job")
		require.NotNil(t, tool)

		res, err := tool.Handler(ctx, callToolRequest("cancel_job", map[string]any{
			"job_id": "no-such-job",
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, textContent(t, res), "is not running")
	})

	t.Run("analyze_repos with no repositories", func(t *testing.T) {
		tool := s.GetTool("analyze_repos")
		require.NotNil(t, tool, "Tool analyze_repos should exist")

		res, err := tool.Handler(ctx, callToolRequest("analyze_repos", map[string]any{
			"repo_path": t.TempDir(),
		}))
		require.NoError(t, err)
		assert.True(t, res.IsError)
		assert.Contains(t, textContent(t, res), "no Git repositories found")
	})
}

func TestMCPServerHandlers_ListJobs(t *testing.T) {
	cfg, client, orch, stores := newTestServerDeps(t)
	s := mcp_internal.NewMCPServer(cfg, client, orch, stores)
	ctx := context.Background()

	require.NoError(t, stores.GetJobStore().CreateJob(ctx, &schema.Job{
		ID:        "job-1",
		Status:    schema.JobCompleted,
		CreatedAt: time.Now(),
		RepoPath:  "/repos/alpha",
	}))

	tool := s.GetTool("list_jobs")
	require.NotNil(t, tool, "Tool list_jobs should exist")

	res, err := tool.Handler(ctx, callToolRequest("list_jobs", map[string]any{}))
	require.NoError(t, err)
	assert.False(t, res.IsError)

	text := textContent(t, res)
	assert.Contains(t, text, "job-1")
	assert.Contains(t, text, "completed")
}
