package database

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/biodoia/goestate/pkg/models"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config contiene la configurazione del database
type Config struct {
	Type       string `yaml:"type"`       // "postgres" or "sqlite"
	Connection string `yaml:"connection"` // Connection string
	MaxConns   int    `yaml:"max_conns"`
	LogLevel   string `yaml:"log_level"`
}

// DB wrappa la connessione GORM
type DB struct {
	*gorm.DB
}

// New crea una nuova connessione al database
func New(cfg *Config) (*DB, error) {
	var dialector gorm.Dialector

	switch cfg.Type {
	case "postgres":
		dialector = postgres.Open(cfg.Connection)
	case "sqlite":
		dialector = sqlite.Open(cfg.Connection)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	// Configure logger
	logLevel := logger.Silent
	switch cfg.LogLevel {
	case "info":
		logLevel = logger.Info
	case "warn":
		logLevel = logger.Warn
	case "error":
		logLevel = logger.Error
	}

	gormConfig := &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	}

	db, err := gorm.Open(dialector, gormConfig)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Configure connection pool
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get database instance: %w", err)
	}

	if cfg.MaxConns > 0 {
		sqlDB.SetMaxOpenConns(cfg.MaxConns)
		sqlDB.SetMaxIdleConns(cfg.MaxConns / 2)
	}
	sqlDB.SetConnMaxLifetime(time.Hour)

	return &DB{DB: db}, nil
}

var memSeq atomic.Int64

// NewInMemory apre un database SQLite in memoria, usato nei test.
// Ogni chiamata apre un database distinto; cache=shared tiene le
// connessioni del pool sulla stessa istanza.
func NewInMemory() (*DB, error) {
	return New(&Config{
		Type:       "sqlite",
		Connection: fmt.Sprintf("file:mem%d?mode=memory&cache=shared", memSeq.Add(1)),
		LogLevel:   "error",
	})
}

// AutoMigrate esegue le migrazioni del database
func (db *DB) AutoMigrate() error {
	return db.DB.AutoMigrate(
		&models.Session{},
		&models.Message{},
		&models.HandoffRecord{},
		&models.LongTermFact{},
		&models.Property{},
	)
}

// Seed popola il catalogo immobiliare con dati iniziali
func (db *DB) Seed() error {
	// Check if already seeded
	var count int64
	db.Model(&models.Property{}).Count(&count)
	if count > 0 {
		return nil // Already seeded
	}

	for _, property := range MiamiProperties() {
		if err := db.Create(&property).Error; err != nil {
			return fmt.Errorf("failed to seed property %s: %w", property.FormattedAddress, err)
		}
	}

	return nil
}

// Close chiude la connessione al database
func (db *DB) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
