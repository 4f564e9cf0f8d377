package config

import (
	"fmt"
	"time"

	"github.com/biodoia/goestate/pkg/database"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

// Config rappresenta la configurazione completa dell'applicazione
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   database.Config  `yaml:"database"`
	Redis      RedisConfig      `yaml:"redis"`
	Providers  ProvidersConfig  `yaml:"providers"`
	Agents     AgentsConfig     `yaml:"agents"`
	Scheduling SchedulingConfig `yaml:"scheduling"`
	Listings   ListingsConfig   `yaml:"listings"`
	Monitoring MonitoringConfig `yaml:"monitoring"`
}

// ServerConfig configurazione del server
type ServerConfig struct {
	Port int    `yaml:"port"`
	Host string `yaml:"host"`
	// Richieste al secondo per client, 0 disabilita il rate limit
	RateLimit float64 `yaml:"rate_limit"`
	RateBurst int     `yaml:"rate_burst"`
}

// RedisConfig configurazione Redis
type RedisConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Host     string `yaml:"host"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
}

// ProvidersConfig configurazione della catena di provider
type ProvidersConfig struct {
	OpenRouter OpenRouterConfig `yaml:"openrouter"`
	Ollama     OllamaConfig     `yaml:"ollama"`
	// Timeout per singola chiamata remota
	CallTimeout time.Duration `yaml:"call_timeout"`
}

// OpenRouterConfig configurazione del provider remoto primario
type OpenRouterConfig struct {
	BaseURL string `yaml:"base_url"`
	APIKey  string `yaml:"api_key"`
	// Modello per ruolo agente; chiave assente usa default_model
	Models       map[string]string `yaml:"models"`
	DefaultModel string            `yaml:"default_model"`
	MaxTokens    int               `yaml:"max_tokens"`
	Temperature  float64           `yaml:"temperature"`
}

// OllamaConfig configurazione del modello locale offline
type OllamaConfig struct {
	BaseURL string `yaml:"base_url"`
	Model   string `yaml:"model"`
	// Timeout per l'acquisizione one-time del modello (pull)
	PullTimeout time.Duration `yaml:"pull_timeout"`
}

// AgentsConfig configurazione degli agenti conversazionali
type AgentsConfig struct {
	// Dimensione della finestra di contesto in messaggi
	ContextWindow int `yaml:"context_window"`
	// Lunghezza minima di una risposta per superare il quality gate
	MinResponseChars int `yaml:"min_response_chars"`
	// Numero massimo di risultati di ricerca iniettati nel prompt
	MaxSearchResults int `yaml:"max_search_results"`
}

// SchedulingConfig tabella degli orari per le visite
type SchedulingConfig struct {
	WeekdaySlots []string `yaml:"weekday_slots"`
	WeekendSlots []string `yaml:"weekend_slots"`
	// Giorni futuri proposti per una visita
	LookaheadDays int `yaml:"lookahead_days"`
}

// ListingsConfig configurazione della sorgente dati immobiliare
type ListingsConfig struct {
	// "mock" usa il dataset locale, "real" la tabella properties
	DataMode string `yaml:"data_mode"`
}

// MonitoringConfig configurazione monitoring
type MonitoringConfig struct {
	Prometheus struct {
		Enabled bool `yaml:"enabled"`
	} `yaml:"prometheus"`
	Logging struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"logging"`
	// Capienza del ring buffer degli eventi per la dashboard
	EventBuffer int `yaml:"event_buffer"`
}

// Load carica la configurazione da file
func Load(configPath string) (*Config, error) {
	v := viper.New()

	// Set defaults
	setDefaults(v)

	// Read config file
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	// Read environment variables
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		// Config file not found, use defaults
	}

	// La chiave API arriva tipicamente dall'ambiente
	if key := v.GetString("OPENROUTER_API_KEY"); key != "" {
		v.Set("providers.openrouter.api_key", key)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg, func(dc *mapstructure.DecoderConfig) {
		dc.TagName = "yaml"
		dc.DecodeHook = mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		)
	}); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults imposta i valori di default
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.rate_limit", 10.0)
	v.SetDefault("server.rate_burst", 20)

	// Database defaults
	v.SetDefault("database.type", "sqlite")
	v.SetDefault("database.connection", "./data/goestate.db")
	v.SetDefault("database.max_conns", 25)
	v.SetDefault("database.log_level", "warn")

	// Redis defaults
	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost:6379")
	v.SetDefault("redis.db", 0)

	// Providers defaults
	v.SetDefault("providers.call_timeout", "30s")
	v.SetDefault("providers.openrouter.base_url", "https://openrouter.ai/api/v1")
	v.SetDefault("providers.openrouter.default_model", "meta-llama/llama-4-maverick:free")
	v.SetDefault("providers.openrouter.max_tokens", 512)
	v.SetDefault("providers.openrouter.temperature", 0.7)
	v.SetDefault("providers.ollama.base_url", "http://localhost:11434")
	v.SetDefault("providers.ollama.model", "gemma3n:e2b")
	v.SetDefault("providers.ollama.pull_timeout", "5m")

	// Agents defaults
	v.SetDefault("agents.context_window", 20)
	v.SetDefault("agents.min_response_chars", 10)
	v.SetDefault("agents.max_search_results", 3)

	// Scheduling defaults
	v.SetDefault("scheduling.weekday_slots", []string{"10:00 AM", "2:00 PM", "4:00 PM"})
	v.SetDefault("scheduling.weekend_slots", []string{"9:00 AM", "11:00 AM", "1:00 PM", "3:00 PM"})
	v.SetDefault("scheduling.lookahead_days", 7)

	// Listings defaults
	v.SetDefault("listings.data_mode", "mock")

	// Monitoring defaults
	v.SetDefault("monitoring.prometheus.enabled", true)
	v.SetDefault("monitoring.logging.level", "info")
	v.SetDefault("monitoring.logging.format", "json")
	v.SetDefault("monitoring.event_buffer", 256)
}

// Validate valida la configurazione
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Agents.ContextWindow < 1 {
		return fmt.Errorf("invalid context window: %d", c.Agents.ContextWindow)
	}

	if c.Agents.MaxSearchResults < 1 {
		return fmt.Errorf("invalid max search results: %d", c.Agents.MaxSearchResults)
	}

	if mode := c.Listings.DataMode; mode != "mock" && mode != "real" {
		return fmt.Errorf("invalid data mode: %s", mode)
	}

	if len(c.Scheduling.WeekdaySlots) == 0 || len(c.Scheduling.WeekendSlots) == 0 {
		return fmt.Errorf("scheduling slot tables must not be empty")
	}

	return nil
}
