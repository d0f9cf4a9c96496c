// Package stats derives per-repository and cross-repository statistics
// from mined commit, branch and code-volume data. Everything here is a
// pure function over its inputs.
package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/repolens/repolens/schema"
)

const (
	secondsPerDay = 24 * 60 * 60

	// topWordCount caps the frequent-word rankings.
	topWordCount = 10
)

// Summarize computes the per-repository summary. Fields that need at
// least one, two or six commits are left unset when the thresholds are
// not met; they are optional in the schema, never zero-filled garbage.
func Summarize(repoName string, commits []schema.Commit, branches []schema.Branch, codeStats schema.CodeStats) schema.RepoSummary {
	summary := schema.RepoSummary{
		Name:           repoName,
		NumCommits:     len(commits),
		NumBranches:    len(branches),
		TotalLines:     codeStats.TotalInsertedLines,
		FileCount:      codeStats.FileCount,
		FileExtensions: codeStats.FileExtensions,
	}
	if len(commits) == 0 {
		return summary
	}

	sorted := sortChronologically(commits)
	first := sorted[0].CommitTime
	last := sorted[len(sorted)-1].CommitTime
	summary.FirstCommit = &first
	summary.LastCommit = &last
	summary.TimeSpanDays = int(last.Sub(first).Hours() / 24)

	// Floor the span at one day so same-day activity does not divide by zero.
	days := max(1, last.Sub(first).Seconds()/secondsPerDay)
	summary.CommitsPerDay = float64(len(commits)) / days

	summary.Gaps = commitGaps(sorted)
	summary.FrequentWords = topWords(messageWordCounts(commits))
	summary.ContributorCount = countContributors(commits)
	summary.LinesPerCommit = float64(codeStats.TotalInsertedLines) / float64(len(commits))
	summary.PeakWindow = peakActivityWindow(sorted)

	return summary
}

// Aggregate computes cross-repository statistics for one run. Summaries
// arrive in processing order, which fixes every tie-break (fastest pace
// and word ranking are first-encountered-wins).
func Aggregate(summaries []schema.RepoSummary) schema.AggregateSummary {
	agg := schema.AggregateSummary{
		ReposAnalyzed: len(summaries),
	}

	wordCounts := make(map[string]int)
	var wordOrder []string

	for _, s := range summaries {
		agg.TotalCommits += s.NumCommits
		agg.TotalBranches += s.NumBranches
		agg.TotalLines += s.TotalLines
		agg.RepoNames = append(agg.RepoNames, s.Name)

		if s.FirstCommit != nil && (agg.FirstCommit == nil || s.FirstCommit.Before(*agg.FirstCommit)) {
			agg.FirstCommit = s.FirstCommit
		}
		if s.LastCommit != nil && (agg.LastCommit == nil || s.LastCommit.After(*agg.LastCommit)) {
			agg.LastCommit = s.LastCommit
		}

		for _, wc := range s.FrequentWords {
			if _, seen := wordCounts[wc.Word]; !seen {
				wordOrder = append(wordOrder, wc.Word)
			}
			wordCounts[wc.Word] += wc.Count
		}

		// Strict less-than keeps the first repository on ties.
		if s.Gaps != nil && s.Gaps.MinSeconds > 0 {
			if agg.FastestPaceRepo == "" || s.Gaps.MinSeconds < agg.FastestPaceSeconds {
				agg.FastestPaceSeconds = s.Gaps.MinSeconds
				agg.FastestPaceRepo = s.Name
			}
		}
	}

	if agg.FirstCommit != nil && agg.LastCommit != nil {
		days := max(1, agg.LastCommit.Sub(*agg.FirstCommit).Seconds()/secondsPerDay)
		agg.CommitsPerDay = float64(agg.TotalCommits) / days
	}

	ordered := make([]schema.WordCount, 0, len(wordOrder))
	for _, w := range wordOrder {
		ordered = append(ordered, schema.WordCount{Word: w, Count: wordCounts[w]})
	}
	agg.FrequentWords = topWords(ordered)

	return agg
}

// sortChronologically orders a copy of commits by commit timestamp.
func sortChronologically(commits []schema.Commit) []schema.Commit {
	sorted := make([]schema.Commit, len(commits))
	copy(sorted, commits)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].CommitTime.Before(sorted[j].CommitTime)
	})
	return sorted
}

// commitGaps computes statistics over consecutive chronological gaps.
// Needs at least two commits.
func commitGaps(sorted []schema.Commit) *schema.CommitGaps {
	if len(sorted) < 2 {
		return nil
	}

	var sum float64
	gaps := schema.CommitGaps{}
	for i := 1; i < len(sorted); i++ {
		gap := sorted[i].CommitTime.Sub(sorted[i-1].CommitTime).Seconds()
		sum += gap
		if i == 1 {
			gaps.MinSeconds = gap
			gaps.MaxSeconds = gap
			continue
		}
		gaps.MinSeconds = min(gaps.MinSeconds, gap)
		gaps.MaxSeconds = max(gaps.MaxSeconds, gap)
	}
	gaps.AvgSeconds = sum / float64(len(sorted)-1)
	return &gaps
}

// messageWordCounts tallies lower-cased whitespace-split words over all
// commit messages, preserving first-seen order for stable ranking.
func messageWordCounts(commits []schema.Commit) []schema.WordCount {
	counts := make(map[string]int)
	var order []string
	for _, c := range commits {
		for _, word := range strings.Fields(strings.ToLower(c.Message)) {
			if _, seen := counts[word]; !seen {
				order = append(order, word)
			}
			counts[word]++
		}
	}

	result := make([]schema.WordCount, 0, len(order))
	for _, w := range order {
		result = append(result, schema.WordCount{Word: w, Count: counts[w]})
	}
	return result
}

// topWords ranks word counts by count descending, keeping insertion order
// on ties, and truncates to the top ten.
func topWords(words []schema.WordCount) []schema.WordCount {
	ranked := make([]schema.WordCount, len(words))
	copy(ranked, words)
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	if len(ranked) > topWordCount {
		ranked = ranked[:topWordCount]
	}
	if len(ranked) == 0 {
		return nil
	}
	return ranked
}

// countContributors counts distinct author emails.
func countContributors(commits []schema.Commit) int {
	authors := make(map[string]bool)
	for _, c := range commits {
		authors[c.AuthorEmail] = true
	}
	return len(authors)
}

// peakActivityWindow slides a fixed-size window across the chronological
// commit sequence and returns the window with the minimum time span. The
// scan visits every window position; bursts can occur anywhere. Needs at
// least MinCommitsForPeakWindow commits.
func peakActivityWindow(sorted []schema.Commit) *schema.PeakActivityWindow {
	if len(sorted) < schema.MinCommitsForPeakWindow {
		return nil
	}

	size := schema.PeakWindowSize
	bestStart := 0
	bestDuration := time.Duration(-1)
	for i := 0; i+size <= len(sorted); i++ {
		duration := sorted[i+size-1].CommitTime.Sub(sorted[i].CommitTime)
		if bestDuration < 0 || duration < bestDuration {
			bestDuration = duration
			bestStart = i
		}
	}

	window := schema.PeakActivityWindow{
		Commits:  size,
		Duration: bestDuration.Seconds(),
		Start:    sorted[bestStart].CommitTime,
		End:      sorted[bestStart+size-1].CommitTime,
	}
	if secs := bestDuration.Seconds(); secs > 0 {
		window.CommitsPerMinute = float64(size) * 60 / secs
	}
	return &window
}
