package main

import (
	"fmt"
	"os"

	"ai-studynotes-be/internal/config"
	"ai-studynotes-be/internal/model"
	"ai-studynotes-be/internal/pkg/logger"
	"ai-studynotes-be/pkg/database"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func main() {
	if err := newMigrateCommand().Execute(); err != nil {
		color.Red("Migration failed: %v", err)
		os.Exit(1)
	}
}

func newMigrateCommand() *cobra.Command {
	var (
		drop  bool
		debug bool
	)
	cmd := &cobra.Command{
		Use:          "migrate",
		Short:        "Create or update the study set history tables",
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			log := logger.NewConsoleLogger(debug)
			defer log.Sync()

			db, err := database.NewGormDBFromDSN(cfg.Database.Connection, debug)
			if err != nil {
				return fmt.Errorf("connect: %w", err)
			}

			if drop {
				log.Warn("MIGRATE", "Dropping study_sets", nil)
				if err := db.Migrator().DropTable(&model.StudySet{}); err != nil {
					return fmt.Errorf("drop study_sets: %w", err)
				}
			}

			log.Info("MIGRATE", "Running AutoMigrate", map[string]interface{}{"tables": []string{"study_sets"}})
			if err := db.AutoMigrate(&model.StudySet{}); err != nil {
				return fmt.Errorf("automigrate: %w", err)
			}

			color.Green("Migration completed")
			return nil
		},
	}
	cmd.Flags().BoolVar(&drop, "drop", false, "drop the history table before migrating")
	cmd.Flags().BoolVar(&debug, "debug", false, "log SQL statements")
	return cmd
}
