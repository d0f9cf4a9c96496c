package core

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/repolens/repolens/core/stats"
	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
)

// Policy errors surfaced by MineAll before any extraction runs.
var (
	// ErrNoReposFound means discovery yielded zero repository roots.
	ErrNoReposFound = errors.New("no Git repositories found")

	// ErrConfirmationRequired means discovery yielded multiple roots and
	// the caller did not grant confirmation.
	ErrConfirmationRequired = errors.New("confirmation required for multiple repositories")
)

// MineRepository runs the full extraction pipeline for one repository:
// commit history, branches, code volume, then the summary. Extraction
// failures degrade to zero-valued statistics; they never propagate.
func MineRepository(ctx context.Context, cfg *contract.Config, client contract.GitClient, repo schema.RepositoryHandle) schema.RepoAnalysis {
	commits := ExtractCommits(ctx, cfg, client, repo)
	branches := ExtractBranches(ctx, cfg, client, repo)
	codeStats := SampleCodeStats(ctx, cfg, client, repo, commits)
	summary := stats.Summarize(repo.Name, commits, branches, codeStats)

	return schema.RepoAnalysis{
		Repository: repo,
		Commits:    commits,
		Branches:   branches,
		CodeStats:  codeStats,
		Summary:    summary,
	}
}

// MineAll discovers repositories under cfg.BaseDir and mines each one
// sequentially, then aggregates. Discovery yielding zero roots, or
// multiple roots without confirmation, fails the whole run before any
// extraction happens.
func MineAll(ctx context.Context, cfg *contract.Config, client contract.GitClient) (*schema.AnalysisData, error) {
	repos, err := DiscoverRepos(cfg.BaseDir, cfg.Recursive)
	if err != nil {
		return nil, fmt.Errorf("repository discovery failed: %w", err)
	}
	if len(repos) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoReposFound, cfg.BaseDir)
	}
	if len(repos) > 1 && !cfg.SkipConfirmation {
		return nil, fmt.Errorf("%w: found %d", ErrConfirmationRequired, len(repos))
	}

	data := &schema.AnalysisData{
		GeneratedAt: time.Now(),
		Repos:       make([]schema.RepoAnalysis, 0, len(repos)),
	}
	summaries := make([]schema.RepoSummary, 0, len(repos))

	for i, repo := range repos {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		contract.LogInfo(fmt.Sprintf("[%d/%d] Analyzing %s...", i+1, len(repos), repo.Name))

		analysis := MineRepository(ctx, cfg, client, repo)
		data.Repos = append(data.Repos, analysis)
		summaries = append(summaries, analysis.Summary)
	}

	data.Aggregate = stats.Aggregate(summaries)
	return data, nil
}
