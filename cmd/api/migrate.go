package main

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"github.com/johnquangdev/meeting-coach/internal/infrastructure/database"
	"github.com/johnquangdev/meeting-coach/pkg/config"
)

var migrateSteps int

var migrateCmd = &cobra.Command{
	Use:       "migrate <up|down>",
	Short:     "Apply or roll back the embedded schema migrations",
	Args:      cobra.MatchAll(cobra.ExactArgs(1), cobra.OnlyValidArgs),
	ValidArgs: []string{"up", "down"},
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}

		db, err := openDatabase(cfg)
		if err != nil {
			return err
		}
		defer database.CloseDB(db) //nolint:errcheck
		log.Println("✅ Database connected successfully")

		var n int
		switch args[0] {
		case "up":
			log.Println("🔄 Applying migrations...")
			n, err = database.MigrateUp(db)
		case "down":
			log.Printf("🔄 Rolling back %d migration(s)...", migrateSteps)
			n, err = database.MigrateDown(db, migrateSteps)
		}
		if err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}

		fmt.Fprintf(cmd.OutOrStdout(), "✅ Successfully applied %d migration(s)!\n", n)
		return nil
	},
}

func init() {
	migrateCmd.Flags().IntVar(&migrateSteps, "steps", 1, "number of migrations to roll back (down only)")
}
