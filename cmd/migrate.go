package cmd

import (
	"github.com/repolens/repolens/internal/contract"
	"github.com/repolens/repolens/internal/jobstore"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// migrateCmd manages the job store schema.
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run job store schema migrations.",
	Long: `Migrate the job store schema to a target version.

By default the store migrates to the latest version. Use
--target-version 0 to roll everything back, or a positive number
to land on a specific version.

Examples:
  repolens migrate
  repolens migrate --target-version 0
  repolens migrate --store-backend postgresql --store-db-connect "host=localhost port=5432 user=postgres dbname=repolens"`,
	PreRunE: sharedSetupWrapper,
	Run: func(_ *cobra.Command, _ []string) {
		targetVersion := viper.GetInt("target-version")
		if err := jobstore.Migrate(cfg.StoreBackend, cfg.StoreConnect, targetVersion); err != nil {
			contract.LogFatal("Cannot run migrations", err)
		}
	},
}
