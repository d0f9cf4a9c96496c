package cmd

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/repolens/repolens/core"
	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/internal/outwriter"
	"github.com/spf13/cobra"
)

// analyzeCmd mines repositories synchronously and prints the results.
var analyzeCmd = &cobra.Command{
	Use:   "analyze [base-dir]",
	Short: "Mine git repositories under a directory and print their statistics.",
	Long: `Scan a directory tree for git repositories and mine each one for commit
history, branches and inserted code volume, then print per-repository and
aggregate statistics.

When more than one repository is found the run asks for confirmation
before mining, unless --yes is set.

Examples:
  # Analyze every repository under the current directory
  repolens analyze

  # Analyze a workspace without the confirmation prompt
  repolens analyze ~/workspace --yes

  # Only the workspace root, not nested directories
  repolens analyze ~/workspace --recursive=false

  # Machine-readable output
  repolens analyze ~/workspace -y --output-mode json --output-file stats.json`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := runAnalyze(); err != nil {
			contract.LogFatal("Cannot run analysis", err)
		}
	},
}

// runAnalyze executes the synchronous mining pipeline, prompting once if
// multiple repositories need confirmation.
func runAnalyze() error {
	start := time.Now()

	data, err := core.MineAll(rootCtx, cfg, gitClient)
	if errors.Is(err, core.ErrConfirmationRequired) {
		if !confirm(err.Error()) {
			return errors.New("analysis cancelled")
		}
		cfg.SkipConfirmation = true
		data, err = core.MineAll(rootCtx, cfg, gitClient)
	}
	if err != nil {
		return err
	}

	if !cfg.SkipReports {
		if err := os.MkdirAll(cfg.OutputDir, 0o755); err != nil {
			return fmt.Errorf("cannot create output directory %q: %w", cfg.OutputDir, err)
		}
		if _, err := outwriter.WritePayload(data, cfg.OutputDir); err != nil {
			return err
		}
		if err := outwriter.WriteRunSummary(data, cfg.OutputDir); err != nil {
			return err
		}
		for i := range data.Repos {
			if _, err := outwriter.WriteMarkdownReport(&data.Repos[i], cfg.OutputDir); err != nil {
				return err
			}
		}
		contract.LogInfo("Reports written to " + cfg.OutputDir)
	}

	return outwriter.WriteAnalysisResults(data, cfg, time.Since(start))
}

// confirm prints the question and reads a yes/no answer from stdin.
func confirm(question string) bool {
	fmt.Fprintf(os.Stderr, "%s [y/N]: ", question)
	reader := bufio.NewReader(os.Stdin)
	answer, err := reader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}
