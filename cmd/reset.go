package cmd

import (
	"os"
	"path"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/jon4hz/yurei/config"
)

var resetCmdFlags struct {
	Force bool
}

var resetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Delete the database and start over",
	Long:  `This command deletes the yurei database file, removing all users, votes and achievements. The default categories and achievements are re-seeded on the next start.`,
	Run:   reset,
}

func init() {
	resetCmd.Flags().BoolVar(&resetCmdFlags.Force, "force", false, "Skip the confirmation and delete the database")

	rootCmd.AddCommand(resetCmd)
}

func reset(_ *cobra.Command, _ []string) {
	cfg, err := config.Load(rootCmdPersistentFlags.ConfigFile)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	if !resetCmdFlags.Force {
		log.Fatal("refusing to delete the database without --force")
	}

	dbFile := path.Join(cfg.Database.Path, "yurei.db")
	if err := os.Remove(dbFile); err != nil {
		if os.IsNotExist(err) {
			log.Info("database does not exist, nothing to do", "file", dbFile)
			return
		}
		log.Fatalf("failed to delete database: %v", err)
	}

	log.Info("Successfully deleted the database!", "file", dbFile)
}
