package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"arcade/database"

	"github.com/joho/godotenv"
	log "github.com/sirupsen/logrus"
)

// Config holds all application configuration
type Config struct {
	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// HTTP configuration
	HTTPAddr    string
	CORSOrigins string

	// Round store configuration
	RoundStore     string        // "redis" or "memory"
	RedisURL       string
	RoundTTL       time.Duration // Abandoned rounds expire after this long, 0 disables expiry
	RoundCacheSize int           // Capacity of the in-memory round store

	// Game rules
	RulesFile string // Optional TOML overrides for validation and shop catalog

	// Moderation
	SuspectThreshold int // Rejections before a user is flagged

	// NATS configuration
	NATSServers string // Comma-separated, empty disables event forwarding

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	LogLevel string

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			if os.Getenv("ENVIRONMENT") == "test" {
				instance = NewTestConfig()
			} else {
				panic(fmt.Sprintf("failed to load config: %v", err))
			}
		}
	})
	return instance
}

// GetDatabaseURL returns the database URL with the database name applied
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// load loads configuration from environment variables
func load() (*Config, error) {
	// A missing .env file is normal outside local development
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.WithError(err).Warn("Failed to load .env file")
	}

	config := &Config{
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		HTTPAddr:    getEnvWithDefault("HTTP_ADDR", ":8080"),
		CORSOrigins: getEnvWithDefault("CORS_ORIGINS", "*"),

		RoundStore:     getEnvWithDefault("ROUND_STORE", "memory"),
		RedisURL:       getEnvWithDefault("REDIS_URL", "redis://localhost:6379/0"),
		RoundTTL:       6 * time.Hour,
		RoundCacheSize: 10000,

		RulesFile: os.Getenv("RULES_FILE"),

		SuspectThreshold: 3,

		NATSServers: os.Getenv("NATS_SERVERS"),

		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "arcade"),
		OTelExportIntervalMillis: 30000,

		LogLevel: getEnvWithDefault("LOG_LEVEL", "info"),

		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if ttl := os.Getenv("ROUND_TTL"); ttl != "" {
		parsed, err := time.ParseDuration(ttl)
		if err != nil {
			return nil, fmt.Errorf("invalid ROUND_TTL %q: %w", ttl, err)
		}
		config.RoundTTL = parsed
	}
	if size := os.Getenv("ROUND_CACHE_SIZE"); size != "" {
		if parsed, err := strconv.Atoi(size); err == nil && parsed > 0 {
			config.RoundCacheSize = parsed
		}
	}
	if threshold := os.Getenv("SUSPECT_THRESHOLD"); threshold != "" {
		if parsed, err := strconv.Atoi(threshold); err == nil && parsed > 0 {
			config.SuspectThreshold = parsed
		}
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); interval != "" {
		if parsed, err := strconv.Atoi(interval); err == nil && parsed > 0 {
			config.OTelExportIntervalMillis = parsed
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	switch config.RoundStore {
	case "redis", "memory":
	default:
		return nil, fmt.Errorf("ROUND_STORE must be redis or memory, got %q", config.RoundStore)
	}

	if config.Environment != "test" {
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
		if config.DatabaseName != "" && strings.TrimSpace(config.DatabaseName) == "" {
			return nil, fmt.Errorf("DATABASE_NAME cannot be empty when provided")
		}
	}

	return config, nil
}

// ConfigureLogging applies the configured level and formatter to logrus
func (c *Config) ConfigureLogging() {
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		log.WithField("level", c.LogLevel).Warn("Unknown log level, using info")
		level = log.InfoLevel
	}
	log.SetLevel(level)

	if c.Environment == "production" {
		log.SetFormatter(&log.JSONFormatter{})
	} else {
		log.SetFormatter(&log.TextFormatter{FullTimestamp: true})
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// SetTestConfig sets a custom configuration for testing
func SetTestConfig(testConfig *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = testConfig
}

// ResetConfig resets the configuration singleton
func ResetConfig() {
	mu.Lock()
	defer mu.Unlock()
	instance = nil
	once = sync.Once{}
}

// NewTestConfig creates a configuration suitable for tests
func NewTestConfig() *Config {
	return &Config{
		Environment:              "test",
		HTTPAddr:                 ":0",
		CORSOrigins:              "*",
		RoundStore:               "memory",
		RoundTTL:                 6 * time.Hour,
		RoundCacheSize:           1000,
		SuspectThreshold:         3,
		OTelExporterType:         "none",
		OTelServiceName:          "arcade-test",
		OTelExportIntervalMillis: 30000,
		LogLevel:                 "debug",
	}
}
