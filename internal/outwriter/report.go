package outwriter

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/repolens/repolens/schema"
)

// recentCommitLimit is how many commits the report's recent-activity
// section shows.
const recentCommitLimit = 10

// fileTypeLimit is how many extensions the file-type breakdown shows.
const fileTypeLimit = 10

// WriteMarkdownReport renders the per-repository report and writes it
// into the output directory. It returns the report file path.
func WriteMarkdownReport(analysis *schema.RepoAnalysis, outputDir string) (string, error) {
	path := filepath.Join(outputDir, reportFileName(analysis.Repository.Name))
	if err := os.WriteFile(path, []byte(RenderMarkdownReport(analysis)), 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %q: %w", path, err)
	}
	return path, nil
}

// reportFileName derives a flat file name from a repository name, which
// may contain path separators when repositories were discovered in
// nested directories.
func reportFileName(repoName string) string {
	name := strings.ReplaceAll(repoName, string(os.PathSeparator), "_")
	name = strings.ReplaceAll(name, "/", "_")
	return name + "_report.md"
}

// RenderMarkdownReport builds the markdown report text for one repository.
func RenderMarkdownReport(analysis *schema.RepoAnalysis) string {
	summary := &analysis.Summary
	var b strings.Builder

	fmt.Fprintf(&b, "# Repository Analysis Report: %s\n\n", analysis.Repository.Name)

	b.WriteString("## Repository Statistics\n\n")
	fmt.Fprintf(&b, "- **Repository Name:** %s\n", analysis.Repository.Name)
	fmt.Fprintf(&b, "- **Repository Path:** %s\n", analysis.Repository.AbsolutePath)
	fmt.Fprintf(&b, "- **Total Commits:** %d\n", summary.NumCommits)
	fmt.Fprintf(&b, "- **Total Branches:** %d\n", summary.NumBranches)
	fmt.Fprintf(&b, "- **Total Files:** %d\n", summary.FileCount)
	fmt.Fprintf(&b, "- **Total Lines of Code:** %d\n", summary.TotalLines)

	if summary.FirstCommit != nil && summary.LastCommit != nil {
		fmt.Fprintf(&b, "- **First Commit:** %s\n", formatTimePtr(summary.FirstCommit))
		fmt.Fprintf(&b, "- **Last Commit:** %s\n", formatTimePtr(summary.LastCommit))
		fmt.Fprintf(&b, "- **Repository Age:** %d days\n", summary.TimeSpanDays)
	}
	fmt.Fprintf(&b, "- **Total Contributors:** %d\n", summary.ContributorCount)
	fmt.Fprintf(&b, "- **Average Commits Per Day:** %.2f\n", summary.CommitsPerDay)

	b.WriteString("\n## File Types\n\n")
	for _, ext := range topExtensions(summary.FileExtensions, fileTypeLimit) {
		fmt.Fprintf(&b, "- **%s:** %d files\n", ext, summary.FileExtensions[ext])
	}

	b.WriteString("\n## Common Words in Commit Messages\n\n")
	for _, wc := range summary.FrequentWords {
		fmt.Fprintf(&b, "- **%s:** %d occurrences\n", wc.Word, wc.Count)
	}

	if summary.PeakWindow != nil {
		b.WriteString("\n## Peak Activity\n\n")
		fmt.Fprintf(&b, "- **Window:** %d commits in %.0f seconds\n", summary.PeakWindow.Commits, summary.PeakWindow.Duration)
		fmt.Fprintf(&b, "- **From:** %s\n", summary.PeakWindow.Start.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "- **To:** %s\n", summary.PeakWindow.End.Format("2006-01-02 15:04:05"))
		fmt.Fprintf(&b, "- **Pace:** %.2f commits per minute\n", summary.PeakWindow.CommitsPerMinute)
	}

	b.WriteString("\n## Recent Commits\n\n")
	for _, commit := range recentCommits(analysis.Commits, recentCommitLimit) {
		fmt.Fprintf(&b, "- **%s** - %s (by %s)\n",
			commit.CommitTime.Format("2006-01-02 15:04:05"), commit.Message, commit.Author)
	}

	return b.String()
}

// topExtensions returns up to limit extensions ordered by descending file
// count, name ascending on ties so report output is stable.
func topExtensions(extensions map[string]int, limit int) []string {
	exts := make([]string, 0, len(extensions))
	for ext := range extensions {
		exts = append(exts, ext)
	}
	sort.Slice(exts, func(i, j int) bool {
		if extensions[exts[i]] != extensions[exts[j]] {
			return extensions[exts[i]] > extensions[exts[j]]
		}
		return exts[i] < exts[j]
	})
	if len(exts) > limit {
		exts = exts[:limit]
	}
	return exts
}

// recentCommits returns up to limit commits, newest commit date first.
func recentCommits(commits []schema.Commit, limit int) []schema.Commit {
	sorted := make([]schema.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CommitTime.After(sorted[j].CommitTime)
	})
	if len(sorted) > limit {
		sorted = sorted[:limit]
	}
	return sorted
}
