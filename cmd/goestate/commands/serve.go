package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/biodoia/goestate/internal/agents"
	"github.com/biodoia/goestate/internal/chain"
	"github.com/biodoia/goestate/internal/events"
	"github.com/biodoia/goestate/internal/gateway"
	"github.com/biodoia/goestate/internal/handoff"
	"github.com/biodoia/goestate/internal/listings"
	"github.com/biodoia/goestate/internal/memory"
	"github.com/biodoia/goestate/internal/orchestrator"
	"github.com/biodoia/goestate/internal/providers/ollama"
	"github.com/biodoia/goestate/internal/providers/openrouter"
	"github.com/biodoia/goestate/internal/providers/static"
	"github.com/biodoia/goestate/internal/router"
	"github.com/biodoia/goestate/internal/scheduling"
	"github.com/biodoia/goestate/pkg/cache"
	"github.com/biodoia/goestate/pkg/config"
	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	devMode     bool
	verbose     bool
	autoMigrate bool
)

// ServeCmd rappresenta il comando serve
var ServeCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start GoEstate assistant server",
	Long: `Start the GoEstate conversational assistant server.

This command starts the HTTP server that exposes the multi-agent
real estate assistant API with session management and property search.`,
	Example: `  # Start server with default settings
  goestate serve

  # Start in development mode with verbose logging
  goestate serve --dev --verbose

  # Start with auto-migration enabled
  goestate serve --migrate

  # Start with custom config
  goestate serve -c /path/to/config.yaml`,
	RunE: runServe,
}

func init() {
	ServeCmd.Flags().BoolVar(&devMode, "dev", false, "Enable development mode (pretty logging)")
	ServeCmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose logging (debug level)")
	ServeCmd.Flags().BoolVar(&autoMigrate, "migrate", true, "Auto-run database migrations on startup")
}

func runServe(cmd *cobra.Command, args []string) error {
	// Setup logger
	setupLogger(verbose, devMode)

	log.Info().Msg("🏠 Starting GoEstate Assistant")

	// Load configuration
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	log.Info().
		Str("host", cfg.Server.Host).
		Int("port", cfg.Server.Port).
		Str("data_mode", cfg.Listings.DataMode).
		Bool("dev_mode", devMode).
		Msg("Configuration loaded")

	// Initialize database
	db, err := database.New(&cfg.Database)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %w", err)
	}
	defer db.Close()

	log.Info().
		Str("type", cfg.Database.Type).
		Str("connection", cfg.Database.Connection).
		Msg("Database connected")

	// Run migrations if enabled
	if autoMigrate {
		log.Info().Msg("Running database migrations...")
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to run migrations: %w", err)
		}
		log.Info().Msg("✓ Database migrations completed")

		// Seed database
		if err := db.Seed(); err != nil {
			log.Warn().Err(err).Msg("Failed to seed database (may already be seeded)")
		} else {
			log.Info().Msg("✓ Database seeded with Miami listings")
		}
	}

	// Optional Redis cache for long-term facts
	var redis *cache.RedisClient
	if cfg.Redis.Enabled {
		redis, err = cache.NewRedisClient(cfg.Redis.Host, cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			log.Warn().Err(err).Msg("Redis unavailable, fact cache disabled")
			redis = nil
		} else {
			defer redis.Close()
			log.Info().Str("host", cfg.Redis.Host).Msg("Redis connected")
		}
	}

	// Provider chain: remote primary, local fallback, static last resort
	remote := openrouter.NewClient(cfg.Providers.OpenRouter, cfg.Providers.CallTimeout)
	local := ollama.NewClient(cfg.Providers.Ollama, cfg.Providers.CallTimeout)
	ch := chain.New(remote, local, static.New(), cfg.Agents.MinResponseChars)

	if !remote.HasCredentials() {
		log.Warn().Msg("OpenRouter API key not configured, remote tiers will be skipped")
	}

	// Agent runtime
	calendar := scheduling.New(cfg.Scheduling)
	builder := agents.NewPromptBuilder(calendar, cfg.Agents.MaxSearchResults)
	executor := agents.NewExecutor(ch, builder, calendar, cfg.Providers.OpenRouter.MaxTokens, cfg.Providers.OpenRouter.Temperature)

	// Conversation memory and long-term facts
	facts := memory.NewFactStore(db, redis)
	mem := memory.NewManager(db, cfg.Agents.ContextWindow, facts)

	// Listings source
	var store listings.Store
	dataMode := models.DataMode(cfg.Listings.DataMode)
	if dataMode == models.DataModeMock {
		store = listings.NewMockStore(database.MiamiProperties())
	} else {
		store = listings.NewDBStore(db)
	}

	// Event pipeline
	feed := events.NewRingSink(cfg.Monitoring.EventBuffer)
	sinks := []events.Sink{events.NewLogSink(), feed}
	if cfg.Monitoring.Prometheus.Enabled {
		sinks = append(sinks, events.NewPrometheusSink("goestate"))
	}
	emitter := events.NewEmitter(sinks...)

	orch := orchestrator.New(db, mem, router.New(), handoff.NewRecorder(db), executor, emitter, store, cfg.Agents.MaxSearchResults, dataMode)

	// Create gateway instance
	gw := gateway.New(cfg, db, orch, store, feed)

	// Start gateway in background
	go func() {
		if err := gw.Start(); err != nil {
			log.Fatal().Err(err).Msg("Gateway failed to start")
		}
	}()

	// Log startup information
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().Msgf("🌐 Assistant running on http://%s:%d", cfg.Server.Host, cfg.Server.Port)
	log.Info().Msgf("📊 Health check: http://%s:%d/health", cfg.Server.Host, cfg.Server.Port)
	if cfg.Monitoring.Prometheus.Enabled {
		log.Info().Msgf("📈 Metrics: http://%s:%d/metrics", cfg.Server.Host, cfg.Server.Port)
	}
	log.Info().Msg("━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━━")
	log.Info().Msg("Press Ctrl+C to stop")

	// Setup graceful shutdown
	return waitForShutdown(gw)
}

func waitForShutdown(gw *gateway.Gateway) error {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("⏳ Shutting down gracefully...")

	// Create shutdown context with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	// Shutdown gateway
	if err := gw.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("Error during shutdown")
		return err
	}

	log.Info().Msg("✓ GoEstate Assistant stopped cleanly")
	return nil
}

func setupLogger(verbose, dev bool) {
	// Set log level
	if verbose {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	}

	// Pretty console output in development
	if dev {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stderr,
			TimeFormat: time.RFC3339,
		})
	} else {
		// JSON output for production
		zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	}
}
