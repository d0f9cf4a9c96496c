package cmd

import (
	"os"

	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/internal/outwriter"
	"github.com/repolens/repolens/schema"
	"github.com/spf13/cobra"
)

// jobsCmd groups the job lifecycle subcommands.
var jobsCmd = &cobra.Command{
	Use:   "jobs",
	Short: "Submit and inspect analysis jobs.",
	Long: `Manage tracked analysis jobs. Every submission gets a persistent job
record that moves from pending to running and ends as completed or
failed, with the output directory recorded on success.`,
	Run: func(cmd *cobra.Command, _ []string) {
		_ = cmd.Help()
	},
}

// jobsSubmitCmd creates a job record and executes it.
var jobsSubmitCmd = &cobra.Command{
	Use:   "submit [base-dir]",
	Short: "Submit an analysis job for a directory and run it to completion.",
	Long: `Create a tracked job for the given directory and execute the mining
pipeline. The job record survives in the configured store, so its
outcome can be inspected later with 'repolens jobs status'.

Examples:
  repolens jobs submit ~/workspace
  repolens jobs submit ~/workspace --skip-reports
  repolens jobs status <job-id>`,
	Args:    cobra.MaximumNArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		job, err := orchestrator.CreateJob(rootCtx, schema.JobRequest{
			RepoPath:         cfg.BaseDir,
			Recursive:        cfg.Recursive,
			SkipConfirmation: true,
		})
		if err != nil {
			contract.LogFatal("Cannot submit job", err)
		}
		contract.LogInfo("Submitted job " + job.ID)

		if err := orchestrator.RunJob(rootCtx, job.ID); err != nil {
			contract.LogFatal("Cannot run job "+job.ID, err)
		}

		final, err := storeManager.GetJobStore().GetJob(rootCtx, job.ID)
		if err != nil {
			contract.LogFatal("Cannot load job "+job.ID, err)
		}
		outwriter.WriteJobDetail(final, os.Stdout)
		if final.Status == schema.JobFailed {
			os.Exit(1)
		}
	},
}

// jobsRunCmd executes a previously submitted job that is still pending.
var jobsRunCmd = &cobra.Command{
	Use:   "run <job-id>",
	Short: "Execute a pending job by id.",
	Long: `Run the mining pipeline for a job that was created earlier but never
reached a terminal state. Jobs that already completed or failed are
refused.`,
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		jobID := args[0]
		if err := orchestrator.RunJob(rootCtx, jobID); err != nil {
			contract.LogFatal("Cannot run job "+jobID, err)
		}
		job, err := storeManager.GetJobStore().GetJob(rootCtx, jobID)
		if err != nil {
			contract.LogFatal("Cannot load job "+jobID, err)
		}
		outwriter.WriteJobDetail(job, os.Stdout)
	},
}

// jobsStatusCmd prints one job record.
var jobsStatusCmd = &cobra.Command{
	Use:     "status <job-id>",
	Short:   "Show the current record of a job.",
	Args:    cobra.ExactArgs(1),
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, args []string) {
		job, err := storeManager.GetJobStore().GetJob(rootCtx, args[0])
		if err != nil {
			contract.LogFatal("Cannot load job "+args[0], err)
		}
		outwriter.WriteJobDetail(job, os.Stdout)
	},
}

// jobsListCmd lists all jobs, newest first.
var jobsListCmd = &cobra.Command{
	Use:     "list",
	Short:   "List all jobs, newest first.",
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		jobs, err := storeManager.GetJobStore().ListJobs(rootCtx)
		if err != nil {
			contract.LogFatal("Cannot list jobs", err)
		}
		if len(jobs) == 0 {
			contract.LogInfo("No jobs found")
			return
		}
		if err := outwriter.WriteJobList(jobs, os.Stdout); err != nil {
			contract.LogFatal("Cannot render job list", err)
		}
	},
}
