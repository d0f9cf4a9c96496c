package contract

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
)

// CommitLogFormat is the pretty format for the commit log: hash, author
// name/email/timestamp, committer name/email/timestamp, subject. Eight
// fields separated by a pipe; parsers discard shorter lines.
const CommitLogFormat = "%H|%an|%ae|%at|%cn|%ce|%ct|%s"

// LocalGitClient implements the GitClient interface by executing the
// local 'git' binary installed on the machine. The repository path is
// always passed via -C; the process working directory is never mutated,
// so concurrent invocations cannot race on shared state.
type LocalGitClient struct{}

var _ GitClient = &LocalGitClient{} // Compile-time check

// NewLocalGitClient creates a new instance of the local Git client.
func NewLocalGitClient() *LocalGitClient {
	return &LocalGitClient{}
}

// Run executes a git command and returns its stdout output. The context
// bounds the invocation; a hung git process fails this call only, not the
// whole batch.
func (c *LocalGitClient) Run(ctx context.Context, repoPath string, args ...string) ([]byte, error) {
	fullArgs := append([]string{"-C", repoPath}, args...)
	cmd := exec.CommandContext(ctx, "git", fullArgs...)
	out, err := cmd.Output()
	if ctxErr := ctx.Err(); ctxErr != nil {
		return nil, fmt.Errorf("git command timed out in %q: %w", repoPath, ctxErr)
	}
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		stderr := strings.TrimSpace(string(exitErr.Stderr))
		return nil, fmt.Errorf("git command failed in %q: %s. If this is not a Git repository, verify the path or run 'git init'", repoPath, stderr)
	} else if err != nil {
		return nil, fmt.Errorf("git command failed: %w. Ensure Git is installed and available on your PATH", err)
	}
	return out, nil
}

// GetCommitLog implements the GitClient interface. It requests the full
// history across all refs, one line per commit.
func (c *LocalGitClient) GetCommitLog(ctx context.Context, repoPath string) ([]byte, error) {
	args := []string{
		"log", "--all",
		"--format=" + CommitLogFormat,
	}
	return c.Run(ctx, repoPath, args...)
}

// GetBranchList implements the GitClient interface.
func (c *LocalGitClient) GetBranchList(ctx context.Context, repoPath string) ([]byte, error) {
	return c.Run(ctx, repoPath, "branch", "-a")
}

// GetDiffShortstat implements the GitClient interface.
func (c *LocalGitClient) GetDiffShortstat(ctx context.Context, repoPath string, base, target string) ([]byte, error) {
	return c.Run(ctx, repoPath, "diff", "--shortstat", base, target)
}

// CheckGitAvailable verifies the git binary is on PATH.
func CheckGitAvailable() error {
	if _, err := exec.LookPath("git"); err != nil {
		return fmt.Errorf("git executable not found: %w. Install Git and ensure it is on your PATH", err)
	}
	return nil
}
