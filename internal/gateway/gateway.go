// Package gateway espone l'orchestratore sul trasporto HTTP.
package gateway

import (
	"context"
	"fmt"
	"time"

	"github.com/biodoia/goestate/internal/events"
	"github.com/biodoia/goestate/internal/listings"
	"github.com/biodoia/goestate/internal/orchestrator"
	"github.com/biodoia/goestate/pkg/config"
	"github.com/biodoia/goestate/pkg/database"
	"github.com/biodoia/goestate/pkg/middleware"
	"github.com/gofiber/fiber/v3"
	"github.com/rs/zerolog/log"
)

// Gateway è il server HTTP dell'assistente
type Gateway struct {
	config *config.Config
	db     *database.DB
	app    *fiber.App

	orch  *orchestrator.Orchestrator
	store listings.Store
	feed  *events.RingSink
}

// New crea una nuova istanza del gateway
func New(cfg *config.Config, db *database.DB, orch *orchestrator.Orchestrator, store listings.Store, feed *events.RingSink) *Gateway {
	app := fiber.New(fiber.Config{
		AppName:      "GoEstate Assistant",
		ServerHeader: "GoEstate/1.0",
		ErrorHandler: customErrorHandler,
	})

	gw := &Gateway{
		config: cfg,
		db:     db,
		app:    app,
		orch:   orch,
		store:  store,
		feed:   feed,
	}

	gw.setupMiddlewares()
	gw.setupRoutes()

	return gw
}

// customErrorHandler gestisce gli errori globali
func customErrorHandler(c fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := "Internal Server Error"

	if e, ok := err.(*fiber.Error); ok {
		code = e.Code
		message = e.Message
	}

	return c.Status(code).JSON(fiber.Map{
		"error":      message,
		"request_id": middleware.GetRequestID(c),
	})
}

func (g *Gateway) setupMiddlewares() {
	// Recovery per primo, per catturare tutti i panic
	g.app.Use(middleware.Recovery())
	g.app.Use(middleware.RequestID())
	g.app.Use(middleware.CORS(middleware.DefaultCORSConfig()))
	g.app.Use(middleware.RateLimit(g.config.Server.RateLimit, g.config.Server.RateBurst))
	g.app.Use(middleware.Logging(middleware.LoggingConfig{
		SkipPaths: []string{"/health", "/ready", "/metrics"},
	}))
}

// setupRoutes configura le route HTTP
func (g *Gateway) setupRoutes() {
	g.app.Get("/health", g.handleHealth)
	g.app.Get("/ready", g.handleReady)

	if g.config.Monitoring.Prometheus.Enabled {
		g.app.Get("/metrics", middleware.PrometheusHandler())
	}

	api := g.app.Group("/v1")

	// Ciclo di vita della sessione
	api.Post("/sessions", g.handleStartSession)
	api.Post("/sessions/:id/messages", g.handleSendMessage)
	api.Delete("/sessions/:id", g.handleEndSession)
	api.Get("/sessions/:id/history", g.handleGetHistory)
	api.Get("/sessions/:id", g.handleGetSession)

	// Catalogo immobiliare
	api.Get("/properties/search", g.handleSearchProperties)
	api.Get("/properties/:id", g.handleGetProperty)

	// Feed eventi per la dashboard
	api.Get("/events", g.handleEvents)
}

// Start avvia il gateway
func (g *Gateway) Start() error {
	addr := fmt.Sprintf("%s:%d", g.config.Server.Host, g.config.Server.Port)
	log.Info().Str("addr", addr).Msg("Gateway listening")
	return g.app.Listen(addr)
}

// Shutdown esegue lo shutdown graceful del gateway
func (g *Gateway) Shutdown(ctx context.Context) error {
	if err := g.app.ShutdownWithContext(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}
	log.Info().Msg("Gateway shutdown completed")
	return nil
}

// handleHealth endpoint di health check
func (g *Gateway) handleHealth(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
		"version":   "1.0.0",
	})
}

// handleReady endpoint di readiness check
func (g *Gateway) handleReady(c fiber.Ctx) error {
	sqlDB, err := g.db.DB.DB()
	if err != nil {
		return c.Status(503).JSON(fiber.Map{
			"ready": false,
			"error": "database connection failed",
		})
	}

	if err := sqlDB.Ping(); err != nil {
		return c.Status(503).JSON(fiber.Map{
			"ready": false,
			"error": "database ping failed",
		})
	}

	return c.JSON(fiber.Map{
		"ready":     true,
		"timestamp": time.Now().Unix(),
	})
}
