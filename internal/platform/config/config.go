package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const insecureDefaultJWTSecret = "a-very-secret-key-should-be-longer-and-random"

// EventsBackend selects where committed transfer events go.
type EventsBackend string

const (
	EventsNone  EventsBackend = "none"
	EventsRedis EventsBackend = "redis"
	EventsKafka EventsBackend = "kafka"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL    string
	Port           string
	IsProduction   bool
	EnableDBCheck  bool
	MigrationsPath string
	DBMaxConns     int32

	AuthEnabled bool
	JWTSecret   string

	RateLimit          string // ulule format, e.g. "100-M"
	CORSAllowedOrigins string

	// Quote providers
	RateProviderTimeout time.Duration
	CoinGeckoBaseURL    string
	DolarAPIBaseURL     string

	// Redis backs both the optional quote cache and the redis events backend.
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RateCacheTTL  time.Duration // 0 disables the quote cache

	EventsBackend        EventsBackend
	EventsPublishTimeout time.Duration
	EventsRedisChannel   string
	KafkaBrokers         []string
	KafkaTopic           string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("DB_MAX_CONNS", 10)
	viper.SetDefault("AUTH_ENABLED", false)
	viper.SetDefault("JWT_SECRET", insecureDefaultJWTSecret)
	viper.SetDefault("RATE_LIMIT", "100-M")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "*")
	viper.SetDefault("RATE_PROVIDER_TIMEOUT", "5s")
	viper.SetDefault("COINGECKO_BASE_URL", "https://api.coingecko.com/api/v3")
	viper.SetDefault("DOLARAPI_BASE_URL", "https://dolarapi.com")
	viper.SetDefault("REDIS_ADDR", "")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("RATE_CACHE_TTL", "0s")
	viper.SetDefault("EVENTS_BACKEND", string(EventsNone))
	viper.SetDefault("EVENTS_PUBLISH_TIMEOUT", "2s")
	viper.SetDefault("EVENTS_REDIS_CHANNEL", "wallet.transfers")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "wallet.transfers")

	// Environment variables override .env values and defaults.
	viper.AutomaticEnv()

	cfg := &Config{
		DatabaseURL:        viper.GetString("PGSQL_URL"),
		Port:               viper.GetString("PORT"),
		IsProduction:       viper.GetBool("IS_PRODUCTION"),
		EnableDBCheck:      viper.GetBool("ENABLE_DB_CHECK"),
		MigrationsPath:     viper.GetString("MIGRATIONS_PATH"),
		DBMaxConns:         viper.GetInt32("DB_MAX_CONNS"),
		AuthEnabled:        viper.GetBool("AUTH_ENABLED"),
		JWTSecret:          viper.GetString("JWT_SECRET"),
		RateLimit:          viper.GetString("RATE_LIMIT"),
		CORSAllowedOrigins: viper.GetString("CORS_ALLOWED_ORIGINS"),
		CoinGeckoBaseURL:   viper.GetString("COINGECKO_BASE_URL"),
		DolarAPIBaseURL:    viper.GetString("DOLARAPI_BASE_URL"),
		RedisAddr:          viper.GetString("REDIS_ADDR"),
		RedisPassword:      viper.GetString("REDIS_PASSWORD"),
		RedisDB:            viper.GetInt("REDIS_DB"),
		EventsRedisChannel: viper.GetString("EVENTS_REDIS_CHANNEL"),
		KafkaBrokers:       splitList(viper.GetString("KAFKA_BROKERS")),
		KafkaTopic:         viper.GetString("KAFKA_TOPIC"),
	}

	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = insecureDefaultJWTSecret // !! CHANGE IN PRODUCTION !!
	}
	if cfg.AuthEnabled && cfg.JWTSecret == insecureDefaultJWTSecret {
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.RateProviderTimeout = durationOr("RATE_PROVIDER_TIMEOUT", 5*time.Second)
	cfg.RateCacheTTL = durationOr("RATE_CACHE_TTL", 0)
	cfg.EventsPublishTimeout = durationOr("EVENTS_PUBLISH_TIMEOUT", 2*time.Second)

	switch backend := EventsBackend(strings.ToLower(viper.GetString("EVENTS_BACKEND"))); backend {
	case EventsRedis, EventsKafka, EventsNone:
		cfg.EventsBackend = backend
	default:
		log.Printf("Warning: Unknown EVENTS_BACKEND ('%s'). Defaulting to %s.\n", backend, EventsNone)
		cfg.EventsBackend = EventsNone
	}
	if cfg.EventsBackend == EventsKafka && len(cfg.KafkaBrokers) == 0 {
		log.Println("Warning: EVENTS_BACKEND is kafka but KAFKA_BROKERS is empty. Events are disabled.")
		cfg.EventsBackend = EventsNone
	}
	if (cfg.EventsBackend == EventsRedis || cfg.RateCacheTTL > 0) && cfg.RedisAddr == "" {
		log.Println("Warning: REDIS_ADDR not set. Redis events and the rate cache are disabled.")
		if cfg.EventsBackend == EventsRedis {
			cfg.EventsBackend = EventsNone
		}
		cfg.RateCacheTTL = 0
	}

	return cfg, nil
}

// durationOr parses a duration key, falling back to def on a malformed value.
func durationOr(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d < 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def)
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
