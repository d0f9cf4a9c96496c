// Package core has the repository mining pipeline and job orchestration.
package core

import (
	"io/fs"
	"os"
	"path/filepath"

	"github.com/repolens/repolens/schema"
)

// gitMetaDir is the version-control metadata directory that marks a
// repository root.
const gitMetaDir = ".git"

// DiscoverRepos walks baseDir depth-first and returns a handle for every
// distinct repository root found. A directory is a root iff it directly
// contains a .git directory. With recursive=false the walk does not
// descend into a found root's subtree; with recursive=true nested roots
// are reported too. Directories that cannot be listed are skipped and the
// walk continues with remaining siblings. Output order is traversal order
// (lexical within each directory), which is deterministic for a given
// filesystem state.
func DiscoverRepos(baseDir string, recursive bool) ([]schema.RepositoryHandle, error) {
	absBase, err := filepath.Abs(baseDir)
	if err != nil {
		return nil, err
	}
	absBase = filepath.Clean(absBase)

	var repos []schema.RepositoryHandle
	found := make(map[string]bool)

	walkErr := filepath.WalkDir(absBase, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			// Unreadable directories do not abort discovery.
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if d.Name() == gitMetaDir {
			// Never descend into version-control metadata.
			return fs.SkipDir
		}

		info, statErr := os.Stat(filepath.Join(path, gitMetaDir))
		if statErr != nil || !info.IsDir() {
			return nil
		}

		if found[path] {
			return nil
		}
		found[path] = true

		name := filepath.Base(path)
		if path != absBase {
			if rel, relErr := filepath.Rel(absBase, path); relErr == nil {
				name = rel
			}
		}
		repos = append(repos, schema.RepositoryHandle{
			Name:         name,
			AbsolutePath: path,
		})

		if !recursive {
			// Do not look for repositories inside this repository.
			return fs.SkipDir
		}
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}

	return repos, nil
}
