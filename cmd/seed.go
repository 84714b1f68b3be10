package cmd

import (
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jon4hz/yurei/config"
	"github.com/jon4hz/yurei/database"
)

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the database with the default categories and achievements",
	Long:  `This command migrates the database and inserts the default achievements, categories and voting period. It is safe to run multiple times, existing rows are left untouched.`,
	Run:   seed,
}

func init() {
	rootCmd.AddCommand(seedCmd)
}

func seed(cmd *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	db, err := database.New(cfg.Database.Path)
	if err != nil {
		log.Fatalf("failed to initialize database: %v", err)
	}
	defer db.Close() //nolint:errcheck

	if err := db.Migrate(); err != nil {
		log.Fatalf("failed to migrate database: %v", err)
	}
	if err := db.Seed(cmd.Context()); err != nil {
		log.Fatalf("failed to seed database: %v", err)
	}

	log.Info("Successfully seeded the database!")
}
