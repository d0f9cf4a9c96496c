// Package cmd defines the command-line interface for repolens.
package cmd

import (
	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/schema"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func init() {
	// Call initConfig on Cobra's initialization
	cobra.OnInitialize(initConfig)

	// Add primary subcommands to the root command
	rootCmd.AddCommand(analyzeCmd)
	rootCmd.AddCommand(jobsCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(versionCmd)

	// Add the jobs subcommands to the parent jobs command
	jobsCmd.AddCommand(jobsSubmitCmd)
	jobsCmd.AddCommand(jobsRunCmd)
	jobsCmd.AddCommand(jobsStatusCmd)
	jobsCmd.AddCommand(jobsListCmd)

	// Bind all persistent flags of rootCmd to Viper
	rootCmd.PersistentFlags().StringP("output", "o", "", "Directory for job payloads and reports (default: <base>/repolens_reports)")
	rootCmd.PersistentFlags().BoolP("recursive", "r", true, "Scan nested directories for git repositories")
	rootCmd.PersistentFlags().BoolP("yes", "y", false, "Skip the confirmation prompt when multiple repositories are found")
	rootCmd.PersistentFlags().Bool("skip-reports", false, "Skip writing per-repository markdown reports")
	rootCmd.PersistentFlags().Int("workers", contract.DefaultWorkers, "Number of concurrent job workers")
	rootCmd.PersistentFlags().String("git-timeout", "", "Timeout per git invocation (e.g. 120s, 5m)")
	rootCmd.PersistentFlags().String("output-mode", string(schema.TextOut), "Output format: text or json or parquet")
	rootCmd.PersistentFlags().String("output-file", "", "Optional path to write output to")
	rootCmd.PersistentFlags().String("store-backend", string(schema.SQLiteBackend), "Job store backend: sqlite or mysql or postgresql or none")
	rootCmd.PersistentFlags().String("store-db-connect", "", "Database connection string for mysql/postgresql (e.g., user:pass@tcp(host:port)/dbname)")
	rootCmd.PersistentFlags().String("config", "", "Path to config file")
	if err := viper.BindPFlags(rootCmd.PersistentFlags()); err != nil {
		contract.LogFatal("Cannot bind root flags", err)
	}

	// Bind migrate-specific flags
	migrateCmd.Flags().Int("target-version", -1, "Target migration version (-1 means latest, 0 means rollback to initial state)")
	if err := viper.BindPFlags(migrateCmd.Flags()); err != nil {
		contract.LogFatal("Cannot bind migrate flags", err)
	}
}
