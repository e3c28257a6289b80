package cmd

import (
	"fmt"
	"path/filepath"

	"quality-audit/internal/database"

	"github.com/spf13/cobra"
)

// migrateCmd represents the migrate command
var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Run database migrations",
	Long: `Create or update the issue_rows table used by the sqlite store.
The workbook store needs no migration; its header row is written on
first append.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(cmd)
		if err != nil {
			return err
		}
		if err := ensureDir(filepath.Dir(cfg.Database.Path)); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}

		db, err := database.Init(cfg.Database)
		if err != nil {
			return fmt.Errorf("failed to connect database: %w", err)
		}
		defer database.Close(db)

		if err := database.AutoMigrate(db); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		cmd.Println("Database migrations completed successfully!")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(migrateCmd)
}
