package commands

import (
	"fmt"

	"github.com/biodoia/goestate/pkg/config"
	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/spf13/cobra"
)

// MigrateCmd rappresenta il comando migrate
var MigrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Manage database migrations",
	Long: `Manage database schema migrations.

This command allows you to run, reset, and seed database migrations
for the GoEstate assistant.`,
	Example: `  # Run all pending migrations
  goestate migrate up

  # Reset database (drop and recreate)
  goestate migrate reset --confirm

  # Seed the listings catalog
  goestate migrate seed`,
}

var migrateUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Run pending migrations",
	Long:  `Run all pending database migrations to bring the schema up to date.`,
	Example: `  # Run migrations
  goestate migrate up

  # Run migrations with specific config
  goestate migrate up -c config.yaml`,
	RunE: runMigrateUp,
}

var migrateResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Reset database",
	Long:  `Drop all tables and recreate the schema. This will delete all data.`,
	Example: `  # Reset database (requires confirmation)
  goestate migrate reset --confirm`,
	RunE: runMigrateReset,
}

var migrateSeedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Seed the listings catalog",
	Long:  `Populate the properties table with the Miami listings catalog.`,
	Example: `  # Seed database
  goestate migrate seed

  # Force re-seed
  goestate migrate seed --force`,
	RunE: runMigrateSeed,
}

var (
	migrateConfirm bool
	migrateForce   bool
)

func init() {
	migrateResetCmd.Flags().BoolVar(&migrateConfirm, "confirm", false, "Confirm reset action")
	migrateSeedCmd.Flags().BoolVar(&migrateForce, "force", false, "Force re-seed even if data exists")

	MigrateCmd.AddCommand(migrateUpCmd)
	MigrateCmd.AddCommand(migrateResetCmd)
	MigrateCmd.AddCommand(migrateSeedCmd)
}

func runMigrateUp(cmd *cobra.Command, args []string) error {
	db, err := initDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("Running database migrations...")

	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}

	fmt.Println("✓ Migrations completed successfully")
	return nil
}

func runMigrateReset(cmd *cobra.Command, args []string) error {
	if !migrateConfirm {
		return fmt.Errorf("reset requires --confirm flag to proceed")
	}

	db, err := initDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	fmt.Println("⚠️  Resetting database - ALL DATA WILL BE LOST!")

	// Drop all tables
	tables := []interface{}{
		&models.HandoffRecord{},
		&models.Message{},
		&models.LongTermFact{},
		&models.Session{},
		&models.Property{},
	}

	for _, table := range tables {
		if err := db.Migrator().DropTable(table); err != nil {
			fmt.Printf("Warning: Failed to drop table: %v\n", err)
		}
	}

	fmt.Println("✓ All tables dropped")

	// Recreate schema
	fmt.Println("Recreating schema...")
	if err := db.AutoMigrate(); err != nil {
		return fmt.Errorf("failed to recreate schema: %w", err)
	}

	fmt.Println("✓ Database reset successfully")
	return nil
}

func runMigrateSeed(cmd *cobra.Command, args []string) error {
	db, err := initDB(cmd)
	if err != nil {
		return err
	}
	defer db.Close()

	// Check if already seeded
	if !migrateForce {
		var count int64
		db.Model(&models.Property{}).Count(&count)
		if count > 0 {
			fmt.Printf("Database already contains %d properties\n", count)
			fmt.Println("Use --force to re-seed anyway")
			return nil
		}
	}

	fmt.Println("Seeding database with Miami listings...")

	if err := db.Seed(); err != nil {
		return fmt.Errorf("seed failed: %w", err)
	}

	var count int64
	db.Model(&models.Property{}).Count(&count)

	fmt.Printf("✓ Database seeded successfully (%d properties)\n", count)
	return nil
}

func initDB(cmd *cobra.Command) (*database.DB, error) {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	return database.New(&cfg.Database)
}
