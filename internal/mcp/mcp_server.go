// Package mcp provides the Model Context Protocol (MCP) server implementation.
package mcp

import (
	"context"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/repolens/repolens/core"
	"github.com/repolens/repolens/internal/contract"
)

// NewMCPServer initializes and configures the RepoLens MCP server without starting it.
// This is exposed for unit testing.
func NewMCPServer(baseCfg *contract.Config, client contract.GitClient, orch *core.Orchestrator, stores contract.StoreManager) *server.MCPServer {
	s := server.NewMCPServer(
		"RepoLens Mining Server",
		"1.0.0",
		server.WithLogging(),
	)

	h := &toolHandler{
		baseCfg: baseCfg,
		client:  client,
		orch:    orch,
		stores:  stores,
	}

	// --- 1. Tool: analyze_repos ---
	s.AddTool(mcp.NewTool("analyze_repos",
		mcp.WithDescription("Mine git repositories under a directory and return commit, branch and code volume statistics."),
		mcp.WithString("repo_path", mcp.Description("Base directory to scan for repositories (defaults to the configured base directory).")),
		mcp.WithBoolean("recursive", mcp.Description("Scan nested directories for repositories. Defaults to true.")),
	), h.handleAnalyzeRepos)

	// --- 2. Tool: submit_job ---
	s.AddTool(mcp.NewTool("submit_job",
		mcp.WithDescription("Submit a background mining job for a directory and return its job record immediately."),
		mcp.WithString("repo_path", mcp.Description("Base directory to mine."), mcp.Required()),
		mcp.WithBoolean("recursive", mcp.Description("Scan nested directories for repositories. Defaults to true.")),
	), h.handleSubmitJob)

	// --- 3. Tool: get_job_status ---
	s.AddTool(mcp.NewTool("get_job_status",
		mcp.WithDescription("Fetch the current record of a previously submitted mining job."),
		mcp.WithString("job_id", mcp.Description("Identifier returned by submit_job."), mcp.Required()),
	), h.handleGetJobStatus)

	// --- 4. Tool: list_jobs ---
	s.AddTool(mcp.NewTool("list_jobs",
		mcp.WithDescription("List all mining jobs, newest first."),
	), h.handleListJobs)

	// --- 5. Tool: cancel_job ---
	s.AddTool(mcp.NewTool("cancel_job",
		mcp.WithDescription("Cancel an in-flight mining job. The cancelled job ends as failed with the cancellation recorded."),
		mcp.WithString("job_id", mcp.Description("Identifier returned by submit_job."), mcp.Required()),
	), h.handleCancelJob)

	return s
}

// StartMCPServer starts the RepoLens MCP server.
func StartMCPServer(_ context.Context, baseCfg *contract.Config, client contract.GitClient, orch *core.Orchestrator, stores contract.StoreManager) error {
	s := NewMCPServer(baseCfg, client, orch, stores)
	return server.ServeStdio(s)
}
