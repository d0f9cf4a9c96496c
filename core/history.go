package core

import (
	"context"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
)

// commitLogFields is the number of delimited fields in a commit log line.
// Shorter lines are malformed and discarded.
const commitLogFields = 8

// ExtractCommits returns the full commit history of a repository across
// all refs. A failing git invocation (not a repository, corrupted repo)
// is logged and yields an empty history so one bad repository cannot
// abort a multi-repository job.
func ExtractCommits(ctx context.Context, cfg *contract.Config, client contract.GitClient, repo schema.RepositoryHandle) []schema.Commit {
	callCtx, cancel := context.WithTimeout(ctx, cfg.GitTimeout)
	defer cancel()

	out, err := client.GetCommitLog(callCtx, repo.AbsolutePath)
	if err != nil {
		contract.LogWarn("Cannot get commit history for "+repo.Name, err)
		return nil
	}
	return ParseCommitLog(out)
}

// ParseCommitLog parses delimiter-separated commit log output, one commit
// per line. Malformed or truncated lines are dropped.
func ParseCommitLog(out []byte) []schema.Commit {
	var commits []schema.Commit
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}

		parts := strings.SplitN(line, "|", commitLogFields)
		if len(parts) < commitLogFields {
			continue
		}

		authorTS, err := strconv.ParseInt(parts[3], 10, 64)
		if err != nil {
			continue
		}
		commitTS, err := strconv.ParseInt(parts[6], 10, 64)
		if err != nil {
			continue
		}

		commits = append(commits, schema.Commit{
			Hash:           parts[0],
			Author:         parts[1],
			AuthorEmail:    parts[2],
			AuthorTime:     time.Unix(authorTS, 0),
			Committer:      parts[4],
			CommitterEmail: parts[5],
			CommitTime:     time.Unix(commitTS, 0),
			Message:        parts[7],
		})
	}
	return commits
}

// ExtractBranches returns the local branches of a repository. Failures
// are logged and yield an empty list, mirroring ExtractCommits.
func ExtractBranches(ctx context.Context, cfg *contract.Config, client contract.GitClient, repo schema.RepositoryHandle) []schema.Branch {
	callCtx, cancel := context.WithTimeout(ctx, cfg.GitTimeout)
	defer cancel()

	out, err := client.GetBranchList(callCtx, repo.AbsolutePath)
	if err != nil {
		contract.LogWarn("Cannot get branch info for "+repo.Name, err)
		return nil
	}
	return ParseBranchList(out)
}

// ParseBranchList parses 'git branch -a' output. The current-branch
// marker is stripped and recorded; remote-tracking branches are dropped
// entirely.
func ParseBranchList(out []byte) []schema.Branch {
	var branches []schema.Branch
	for _, line := range strings.Split(strings.TrimSpace(string(out)), "\n") {
		name := strings.TrimSpace(line)
		if name == "" {
			continue
		}

		isCurrent := false
		if strings.HasPrefix(name, "*") {
			isCurrent = true
			name = strings.TrimSpace(strings.TrimPrefix(name, "*"))
		}

		if strings.HasPrefix(name, schema.RemoteBranchPrefix) {
			continue
		}

		branches = append(branches, schema.Branch{
			Name:      name,
			IsCurrent: isCurrent,
		})
	}
	return branches
}

// SortCommitsChronologically returns a copy of commits ordered by commit
// timestamp ascending. Log order is reverse-chronological and not
// guaranteed monotonic across branches, so every time-series computation
// sorts first.
func SortCommitsChronologically(commits []schema.Commit) []schema.Commit {
	sorted := make([]schema.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CommitTime.Before(sorted[j].CommitTime)
	})
	return sorted
}
