package core

import (
	"context"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
)

// insertionPattern matches the insertion count on a diff shortstat line,
// e.g. " 2 files changed, 10 insertions(+), 5 deletions(-)".
var insertionPattern = regexp.MustCompile(`(\d+) insertion`)

// SampleCodeStats computes code-volume metrics for a repository: total
// inserted lines across every commit plus a file census of the working
// tree. The chronologically earliest commit is diffed against the
// empty-tree sentinel since it has no parent; every other commit is
// diffed against its first parent. Per-commit diff failures are skipped
// so one odd commit cannot abort the sampling of the rest.
func SampleCodeStats(ctx context.Context, cfg *contract.Config, client contract.GitClient, repo schema.RepositoryHandle, commits []schema.Commit) schema.CodeStats {
	if len(commits) == 0 {
		return schema.CodeStats{}
	}

	sorted := SortCommitsChronologically(commits)
	totalLines := 0
	for i, commit := range sorted {
		base := commit.Hash + "^"
		if i == 0 {
			base = schema.EmptyTreeHash
		}

		out, err := diffShortstat(ctx, cfg, client, repo.AbsolutePath, base, commit.Hash)
		if err != nil {
			contract.LogWarn("Cannot diff commit "+commit.Hash+" in "+repo.Name, err)
			continue
		}
		totalLines += parseInsertions(out)
	}

	fileCount, extensions := censusWorkingTree(repo.AbsolutePath)

	return schema.CodeStats{
		TotalInsertedLines: totalLines,
		FileCount:          fileCount,
		FileExtensions:     extensions,
	}
}

// diffShortstat runs one bounded diff invocation.
func diffShortstat(ctx context.Context, cfg *contract.Config, client contract.GitClient, repoPath, base, target string) ([]byte, error) {
	callCtx, cancel := context.WithTimeout(ctx, cfg.GitTimeout)
	defer cancel()
	return client.GetDiffShortstat(callCtx, repoPath, base, target)
}

// parseInsertions sums insertion counts over shortstat output. Lines
// without an insertion count contribute 0.
func parseInsertions(out []byte) int {
	total := 0
	for _, match := range insertionPattern.FindAllSubmatch(out, -1) {
		if n, err := strconv.Atoi(string(match[1])); err == nil {
			total += n
		}
	}
	return total
}

// censusWorkingTree walks the repository tree once, tallying every file
// extension and counting files on the source allow-list. The metadata
// directory is excluded; unreadable subtrees are skipped.
func censusWorkingTree(repoPath string) (int, map[string]int) {
	fileCount := 0
	extensions := make(map[string]int)

	_ = filepath.WalkDir(repoPath, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if d.Name() == gitMetaDir {
				return fs.SkipDir
			}
			return nil
		}

		ext := filepath.Ext(d.Name())
		if ext == "" {
			return nil
		}
		extensions[ext]++
		if schema.SourceFileExtensions[ext] {
			fileCount++
		}
		return nil
	})

	return fileCount, extensions
}
