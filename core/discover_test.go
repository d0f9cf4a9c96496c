package core

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// makeRepo creates a fake repository root by planting a .git directory.
func makeRepo(t *testing.T, base string, parts ...string) string {
	t.Helper()
	dir := filepath.Join(append([]string{base}, parts...)...)
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".git"), 0o755))
	return dir
}

func TestDiscoverRepos_BaseIsRepo(t *testing.T) {
	base := t.TempDir()
	makeRepo(t, base)

	repos, err := DiscoverRepos(base, true)
	require.NoError(t, err)
	require.Len(t, repos, 1)

	// The scan root itself uses its basename.
	assert.Equal(t, filepath.Base(base), repos[0].Name)
	assert.Equal(t, base, repos[0].AbsolutePath)
}

func TestDiscoverRepos_ChildRepos(t *testing.T) {
	base := t.TempDir()
	makeRepo(t, base, "alpha")
	makeRepo(t, base, "beta")
	require.NoError(t, os.MkdirAll(filepath.Join(base, "not-a-repo"), 0o755))

	repos, err := DiscoverRepos(base, true)
	require.NoError(t, err)
	require.Len(t, repos, 2)

	// Traversal order is lexical within each directory.
	assert.Equal(t, "alpha", repos[0].Name)
	assert.Equal(t, "beta", repos[1].Name)
}

func TestDiscoverRepos_NestedRecursive(t *testing.T) {
	base := t.TempDir()
	makeRepo(t, base, "outer")
	makeRepo(t, base, "outer", "vendor", "inner")

	repos, err := DiscoverRepos(base, true)
	require.NoError(t, err)
	require.Len(t, repos, 2)

	assert.Equal(t, "outer", repos[0].Name)
	assert.Equal(t, filepath.Join("outer", "vendor", "inner"), repos[1].Name)
}

func TestDiscoverRepos_NestedNonRecursive(t *testing.T) {
	base := t.TempDir()
	makeRepo(t, base, "outer")
	makeRepo(t, base, "outer", "vendor", "inner")
	makeRepo(t, base, "sibling")

	repos, err := DiscoverRepos(base, false)
	require.NoError(t, err)
	require.Len(t, repos, 2)

	// The walk does not descend into a found root's subtree, but siblings
	// are still visited.
	assert.Equal(t, "outer", repos[0].Name)
	assert.Equal(t, "sibling", repos[1].Name)
}

func TestDiscoverRepos_GitFileIsNotRepo(t *testing.T) {
	// Worktrees and submodules use a .git file, not a directory. Only
	// directories mark a root here.
	base := t.TempDir()
	dir := filepath.Join(base, "worktree")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".git"), []byte("gitdir: ../elsewhere"), 0o644))

	repos, err := DiscoverRepos(base, true)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestDiscoverRepos_EmptyTree(t *testing.T) {
	repos, err := DiscoverRepos(t.TempDir(), true)
	require.NoError(t, err)
	assert.Empty(t, repos)
}

func TestDiscoverRepos_MissingBase(t *testing.T) {
	base := filepath.Join(t.TempDir(), "does-not-exist")

	repos, err := DiscoverRepos(base, true)
	// The root itself failing to stat is surfaced through the walk
	// callback, which skips it; no repositories and no error.
	require.NoError(t, err)
	assert.Empty(t, repos)
}
