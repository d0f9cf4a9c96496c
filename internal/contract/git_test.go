package contract

import (
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// skipIfGitNotAvailable skips the test if git binary is not found in PATH.
func skipIfGitNotAvailable(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skipf("git binary not found in PATH: %v", err)
	}
}

// initTestRepo creates a real git repository with one commit in a temp dir.
func initTestRepo(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	run := func(args ...string) {
		t.Helper()
		cmd := exec.Command("git", append([]string{"-C", dir}, args...)...)
		cmd.Env = append(os.Environ(),
			"GIT_AUTHOR_NAME=Test Author",
			"GIT_AUTHOR_EMAIL=author@example.com",
			"GIT_COMMITTER_NAME=Test Author",
			"GIT_COMMITTER_EMAIL=author@example.com",
		)
		out, err := cmd.CombinedOutput()
		require.NoError(t, err, "git %v failed: %s", args, out)
	}

	run("init", "--initial-branch=main")
	require.NoError(t, os.WriteFile(filepath.Join(dir, "hello.go"), []byte("package main\n"), 0o644))
	run("add", "hello.go")
	run("commit", "-m", "initial commit")

	return dir
}

func TestNewLocalGitClient(t *testing.T) {
	client := NewLocalGitClient()
	assert.NotNil(t, client)
	assert.IsType(t, &LocalGitClient{}, client)
}

func TestLocalGitClient_Run(t *testing.T) {
	skipIfGitNotAvailable(t)
	repo := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	out, err := client.Run(ctx, repo, "rev-parse", "--is-inside-work-tree")
	require.NoError(t, err)
	assert.Equal(t, "true", strings.TrimSpace(string(out)))
}

func TestLocalGitClient_Run_NotARepo(t *testing.T) {
	skipIfGitNotAvailable(t)
	client := NewLocalGitClient()

	_, err := client.Run(context.Background(), t.TempDir(), "log")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "git command failed")
}

func TestLocalGitClient_Run_ContextTimeout(t *testing.T) {
	skipIfGitNotAvailable(t)
	repo := initTestRepo(t)
	client := NewLocalGitClient()

	ctx, cancel := context.WithTimeout(context.Background(), time.Nanosecond)
	defer cancel()

	_, err := client.Run(ctx, repo, "log")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")
}

func TestLocalGitClient_GetCommitLog(t *testing.T) {
	skipIfGitNotAvailable(t)
	repo := initTestRepo(t)
	client := NewLocalGitClient()

	out, err := client.GetCommitLog(context.Background(), repo)
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(out)), "\n")
	require.Len(t, lines, 1)

	fields := strings.Split(lines[0], "|")
	require.Len(t, fields, 8)
	assert.Equal(t, "Test Author", fields[1])
	assert.Equal(t, "author@example.com", fields[2])
	assert.Equal(t, "initial commit", fields[7])
}

func TestLocalGitClient_GetBranchList(t *testing.T) {
	skipIfGitNotAvailable(t)
	repo := initTestRepo(t)
	client := NewLocalGitClient()

	out, err := client.GetBranchList(context.Background(), repo)
	require.NoError(t, err)
	assert.Contains(t, string(out), "main")
}

func TestLocalGitClient_GetDiffShortstat(t *testing.T) {
	skipIfGitNotAvailable(t)
	repo := initTestRepo(t)
	client := NewLocalGitClient()
	ctx := context.Background()

	// Resolve the only commit and diff it against the empty tree.
	hashOut, err := client.Run(ctx, repo, "rev-parse", "HEAD")
	require.NoError(t, err)
	hash := strings.TrimSpace(string(hashOut))

	out, err := client.GetDiffShortstat(ctx, repo, "4b825dc642cb6eb9a060e54bf8d69288fbee4904", hash)
	require.NoError(t, err)
	assert.Contains(t, string(out), "insertion")
}

func TestCheckGitAvailable(t *testing.T) {
	skipIfGitNotAvailable(t)
	assert.NoError(t, CheckGitAvailable())
}

func TestMockGitClient_Run(t *testing.T) {
	mockClient := new(MockGitClient)

	const expectedRepoPath = "/path/to/repo"
	expectedArgs := []string{"log", "-1", "--oneline"}
	expectedOutput := []byte("a1b2c3d commit message")
	expectedError := errors.New("mocked git error")

	// MockGitClient.Run flattens (ctx, repoPath, args...) into one
	// argument list for m.Called; the expectation must match that shape.
	var calledArgs []any
	ctx := context.Background()
	calledArgs = append(calledArgs, ctx, expectedRepoPath)
	for _, arg := range expectedArgs {
		calledArgs = append(calledArgs, arg)
	}

	mockClient.
		On("Run", calledArgs...).
		Return(expectedOutput, expectedError).
		Once()

	actualOutput, actualError := mockClient.Run(ctx, expectedRepoPath, expectedArgs...)

	assert.Equal(t, expectedOutput, actualOutput)
	assert.Equal(t, expectedError, actualError)
	mockClient.AssertExpectations(t)
}
