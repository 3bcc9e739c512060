package cli

import (
	"fmt"
	"log"

	"github.com/glebarez/sqlite"
	"github.com/reviewpulse/trackserver/cmd"
	"github.com/reviewpulse/trackserver/internal/config"
	"github.com/reviewpulse/trackserver/internal/models"
	"github.com/spf13/cobra"
	"gorm.io/gorm"
)

// MigrateCmd represents the 'migrate' command
// This command handles database schema creation and updates
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Executes database migrations to create or update tables.",
	Long: `This command connects to the configured database (SQLite)
and executes GORM automatic migrations for the customer, business,
review request and event tables.`,
	Run: func(cobraCmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig()
		if err != nil {
			log.Fatalf("Failed to load configuration: %v", err)
		}

		db, err := gorm.Open(sqlite.Open(cfg.Database.Name), &gorm.Config{})
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}

		sqlDB, err := db.DB()
		if err != nil {
			log.Fatalf("Failed to obtain underlying SQL database: %v", err)
		}
		defer sqlDB.Close()

		if err := db.AutoMigrate(
			&models.Customer{},
			&models.Business{},
			&models.ReviewRequest{},
			&models.Event{},
		); err != nil {
			log.Fatalf("Failed to run database migrations: %v", err)
		}

		fmt.Println("Database migrations completed successfully.")
	},
}

func init() {
	cmd.RootCmd.AddCommand(MigrateCmd)
}
