package commands

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/biodoia/goestate/pkg/cache"
	"github.com/biodoia/goestate/pkg/config"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/spf13/cobra"
)

// DoctorCmd rappresenta il comando doctor
var DoctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Run health diagnostics",
	Long: `Run comprehensive health checks on the GoEstate system.

This command checks database connectivity, Redis connection, provider
reachability, and overall system status to identify any issues.`,
	Example: `  # Run full diagnostic
  goestate doctor

  # Check only database
  goestate doctor --check database

  # Verbose output
  goestate doctor --verbose`,
	RunE: runDoctor,
}

var (
	doctorCheck   string
	doctorVerbose bool
)

func init() {
	DoctorCmd.Flags().StringVar(&doctorCheck, "check", "", "Run specific check (database, redis, providers)")
	DoctorCmd.Flags().BoolVarP(&doctorVerbose, "verbose", "v", false, "Verbose output")
}

func runDoctor(cmd *cobra.Command, args []string) error {
	fmt.Println("GoEstate System Health Check")
	fmt.Println("============================")
	fmt.Println()

	checks := []struct {
		name string
		fn   func(*cobra.Command) error
	}{
		{"database", checkDatabase},
		{"redis", checkRedis},
		{"providers", checkProviders},
	}

	// Run specific check or all checks
	if doctorCheck != "" {
		for _, check := range checks {
			if check.name == doctorCheck {
				return check.fn(cmd)
			}
		}
		return fmt.Errorf("unknown check: %s", doctorCheck)
	}

	// Run all checks
	results := make(map[string]bool)
	for _, check := range checks {
		err := check.fn(cmd)
		results[check.name] = err == nil
		fmt.Println()
	}

	// Print summary
	fmt.Println("Summary")
	fmt.Println("-------")
	allPassed := true
	for _, check := range checks {
		status := "✓ PASS"
		if !results[check.name] {
			status = "✗ FAIL"
			allPassed = false
		}
		fmt.Printf("%-15s %s\n", check.name+":", status)
	}

	fmt.Println()
	if allPassed {
		fmt.Println("✓ All checks passed - system is healthy")
		return nil
	}
	fmt.Println("✗ Some checks failed - please review errors above")
	return fmt.Errorf("health check failed")
}

func checkDatabase(cmd *cobra.Command) error {
	fmt.Println("[1/3] Database Health Check")
	fmt.Println("---------------------------")

	db, err := initDB(cmd)
	if err != nil {
		fmt.Printf("✗ Failed to connect: %v\n", err)
		return err
	}
	defer db.Close()

	fmt.Println("✓ Database connection established")

	sqlDB, err := db.DB.DB()
	if err != nil {
		fmt.Printf("✗ Failed to get database instance: %v\n", err)
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := sqlDB.PingContext(ctx); err != nil {
		fmt.Printf("✗ Ping failed: %v\n", err)
		return err
	}

	fmt.Println("✓ Database ping successful")

	if doctorVerbose {
		stats := sqlDB.Stats()
		fmt.Printf("  Open connections: %d\n", stats.OpenConnections)
		fmt.Printf("  In use: %d\n", stats.InUse)
		fmt.Printf("  Idle: %d\n", stats.Idle)
	}

	// Check if tables exist
	requiredTables := []interface{}{
		&models.Session{},
		&models.Message{},
		&models.HandoffRecord{},
		&models.LongTermFact{},
		&models.Property{},
	}

	for _, table := range requiredTables {
		if !db.Migrator().HasTable(table) {
			fmt.Printf("✗ Missing table: %T\n", table)
			return fmt.Errorf("database schema incomplete")
		}
	}

	fmt.Println("✓ All required tables present")

	var propertyCount int64
	db.Model(&models.Property{}).Count(&propertyCount)
	fmt.Printf("✓ Found %d properties in database\n", propertyCount)

	if propertyCount == 0 {
		fmt.Println("⚠️  Warning: No properties found - run 'goestate migrate seed'")
	}

	return nil
}

func checkRedis(cmd *cobra.Command) error {
	fmt.Println("[2/3] Redis Health Check")
	fmt.Println("------------------------")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	if !cfg.Redis.Enabled {
		fmt.Println("⚠️  Redis disabled in configuration")
		fmt.Println("   (Redis is optional, long-term facts read straight from the database)")
		return nil
	}

	client, err := cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
	if err != nil {
		fmt.Printf("✗ Redis connection failed: %v\n", err)
		return err
	}
	defer client.Close()

	fmt.Printf("✓ Redis reachable at %s\n", cfg.Redis.Host)
	return nil
}

func checkProviders(cmd *cobra.Command) error {
	fmt.Println("[3/3] Provider Health Check")
	fmt.Println("---------------------------")

	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	// Remote tier: only credentials can be verified offline
	if cfg.Providers.OpenRouter.APIKey != "" {
		fmt.Println("✓ OpenRouter API key configured")
	} else {
		fmt.Println("⚠️  OpenRouter API key missing - remote tiers will be skipped")
	}

	// Local tier: probe the Ollama endpoint
	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, cfg.Providers.Ollama.BaseURL+"/api/tags", nil)
	if err != nil {
		return err
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		fmt.Printf("⚠️  Ollama unreachable at %s: %v\n", cfg.Providers.Ollama.BaseURL, err)
		fmt.Println("   (the chain will fall back to static responses)")
		return nil
	}
	defer resp.Body.Close()

	fmt.Printf("✓ Ollama reachable at %s (model %q)\n", cfg.Providers.Ollama.BaseURL, cfg.Providers.Ollama.Model)
	fmt.Println("✓ Static fallback always available")
	return nil
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	configPath, _ := cmd.Flags().GetString("config")
	return config.Load(configPath)
}
