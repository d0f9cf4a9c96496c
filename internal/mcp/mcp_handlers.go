package mcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/repolens/repolens/core"
	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
)

// toolHandler holds common dependencies for MCP tool handlers.
type toolHandler struct {
	baseCfg *contract.Config
	client  contract.GitClient
	orch    *core.Orchestrator
	stores  contract.StoreManager
}

func (h *toolHandler) handleAnalyzeRepos(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	cfg := h.baseCfg.Clone()
	if p := request.GetString("repo_path", ""); p != "" {
		cfg.BaseDir = p
	}
	cfg.Recursive = request.GetBool("recursive", true)
	// Tool callers cannot answer an interactive prompt.
	cfg.SkipConfirmation = true

	data, err := core.MineAll(ctx, cfg, h.client)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("analysis failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(data, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleSubmitJob(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	req := schema.JobRequest{
		RepoPath:         request.GetString("repo_path", ""),
		Recursive:        request.GetBool("recursive", true),
		SkipConfirmation: true,
	}
	if req.RepoPath == "" {
		return mcp.NewToolResultError("repo_path is required"), nil
	}

	job, err := h.orch.CreateJob(ctx, req)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("job submission failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(job, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleGetJobStatus(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := request.GetString("job_id", "")
	if jobID == "" {
		return mcp.NewToolResultError("job_id is required"), nil
	}

	job, err := h.stores.GetJobStore().GetJob(ctx, jobID)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("job lookup failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(job, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}

func (h *toolHandler) handleCancelJob(_ context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobID := request.GetString("job_id", "")
	if jobID == "" {
		return mcp.NewToolResultError("job_id is required"), nil
	}

	if !h.orch.CancelJob(jobID) {
		return mcp.NewToolResultError(fmt.Sprintf("job %s is not running", jobID)), nil
	}
	return mcp.NewToolResultText(fmt.Sprintf("cancellation requested for job %s", jobID)), nil
}

func (h *toolHandler) handleListJobs(ctx context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	jobs, err := h.stores.GetJobStore().ListJobs(ctx)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("job listing failed: %v", err)), nil
	}

	jsonData, _ := json.MarshalIndent(jobs, "", "  ")
	return mcp.NewToolResultText(string(jsonData)), nil
}
