package cmd

import (
	"fmt"

	"github.com/repolens/repolens/internal/contract"
	"github.com/spf13/cobra"
)

// checkCmd verifies the environment before any mining runs.
var checkCmd = &cobra.Command{
	Use:   "check [base-dir]",
	Short: "Verify that git, the base directory and the job store are usable.",
	Long: `Run the preflight checks every analysis depends on:
- a git executable on PATH
- an existing, readable base directory
- a reachable job store

Useful before wiring repolens into scripts or CI.

Examples:
  repolens check
  repolens check ~/workspace --store-backend none`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		if err := contract.CheckGitAvailable(); err != nil {
			contract.LogFatal("Git is not available", err)
		}
		fmt.Println("✅ git executable found")
		fmt.Printf("✅ base directory: %s\n", cfg.BaseDir)

		status, err := storeManager.GetJobStore().GetStatus(rootCtx)
		if err != nil {
			contract.LogFatal("Job store is not usable", err)
		}
		fmt.Printf("✅ job store: %s backend, %d jobs, %d tracked repositories\n",
			status.Backend, status.JobCount, status.RepoCount)
	},
}
