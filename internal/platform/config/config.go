package config

import (
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds application configuration.
type Config struct {
	DatabaseURL       string
	Port              string
	IsProduction      bool
	EnableDBCheck     bool
	LogLevel          string
	JWTSecret         string
	JWTExpiryDuration time.Duration
	JWTIssuer         string

	// External OAuth Providers
	GoogleClientID     string `mapstructure:"GOOGLE_CLIENT_ID"`
	GoogleClientSecret string `mapstructure:"GOOGLE_CLIENT_SECRET"`
	GoogleRedirectURL  string `mapstructure:"GOOGLE_REDIRECT_URL"`
	FrontendBaseURL    string `mapstructure:"FRONTEND_BASE_URL"`

	CORSAllowedOrigins []string
	LoginRateLimit     string

	// Currency normalization
	BaseCurrency     string
	RatesSource      string
	RatesTableFile   string
	RatesFeedURL     string
	RatesFeedTimeout time.Duration
	RatesFeedRetries int
	RatesCacheTTL    time.Duration

	// Optional infrastructure
	RedisURL       string
	KafkaBrokers   []string
	KafkaTopic     string
	PostHogAPIKey  string
	MetricsEnabled bool

	MigrationsPath  string
	SeedDefaultData bool
}

// Rate source names accepted in RATES_SOURCE.
const (
	RatesSourceStatic = "static"
	RatesSourceHTTP   = "http"
)

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PGSQL_URL", "")
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("ENABLE_DB_CHECK", false)
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("JWT_SECRET", "a-very-secret-key-should-be-longer-and-random")
	viper.SetDefault("JWT_EXPIRY_DURATION", "24h")
	viper.SetDefault("JWT_ISSUER", "erp-backend")
	viper.SetDefault("GOOGLE_CLIENT_ID", "")
	viper.SetDefault("GOOGLE_CLIENT_SECRET", "")
	viper.SetDefault("GOOGLE_REDIRECT_URL", "")
	viper.SetDefault("FRONTEND_BASE_URL", "http://localhost:3000")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("LOGIN_RATE_LIMIT", "5-M")
	viper.SetDefault("BASE_CURRENCY", "MAD")
	viper.SetDefault("RATES_SOURCE", RatesSourceStatic)
	viper.SetDefault("RATES_TABLE_FILE", "")
	viper.SetDefault("RATES_FEED_URL", "")
	viper.SetDefault("RATES_FEED_TIMEOUT", "5s")
	viper.SetDefault("RATES_FEED_RETRIES", 2)
	viper.SetDefault("RATES_CACHE_TTL", "5m")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("KAFKA_BROKERS", "")
	viper.SetDefault("KAFKA_TOPIC", "erp.events")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("METRICS_ENABLED", true)
	viper.SetDefault("MIGRATIONS_PATH", "file://migrations")
	viper.SetDefault("SEED_DEFAULT_DATA", false)

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.DatabaseURL = viper.GetString("PGSQL_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: PGSQL_URL environment variable not set.")
	}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080" // Default port
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}

	cfg.JWTSecret = viper.GetString("JWT_SECRET")
	if cfg.JWTSecret == "" {
		cfg.JWTSecret = "a-very-secret-key-should-be-longer-and-random" // !! CHANGE IN PRODUCTION !!
		log.Println("Warning: JWT_SECRET environment variable not set. Using default insecure key.")
	}

	cfg.JWTExpiryDuration = durationOrDefault("JWT_EXPIRY_DURATION", 24*time.Hour)

	cfg.JWTIssuer = viper.GetString("JWT_ISSUER")
	if cfg.JWTIssuer == "" {
		cfg.JWTIssuer = "erp-backend"
		log.Printf("Warning: JWT_ISSUER not set. Defaulting to %s.\n", cfg.JWTIssuer)
	}

	cfg.GoogleClientID = viper.GetString("GOOGLE_CLIENT_ID")
	cfg.GoogleClientSecret = viper.GetString("GOOGLE_CLIENT_SECRET")
	cfg.GoogleRedirectURL = viper.GetString("GOOGLE_REDIRECT_URL")
	cfg.FrontendBaseURL = viper.GetString("FRONTEND_BASE_URL")
	if cfg.GoogleClientID == "" || cfg.GoogleClientSecret == "" {
		log.Println("Warning: GOOGLE_CLIENT_ID or GOOGLE_CLIENT_SECRET not set. Google sign-in will not function.")
	}

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{cfg.FrontendBaseURL}
	}
	cfg.LoginRateLimit = viper.GetString("LOGIN_RATE_LIMIT")

	cfg.BaseCurrency = strings.ToUpper(strings.TrimSpace(viper.GetString("BASE_CURRENCY")))
	if len(cfg.BaseCurrency) != 3 {
		log.Printf("Warning: Invalid value for BASE_CURRENCY ('%s'). Defaulting to MAD.\n", cfg.BaseCurrency)
		cfg.BaseCurrency = "MAD"
	}

	cfg.RatesSource = strings.ToLower(viper.GetString("RATES_SOURCE"))
	cfg.RatesTableFile = viper.GetString("RATES_TABLE_FILE")
	cfg.RatesFeedURL = viper.GetString("RATES_FEED_URL")
	switch cfg.RatesSource {
	case RatesSourceStatic:
	case RatesSourceHTTP:
		if cfg.RatesFeedURL == "" {
			log.Println("Warning: RATES_SOURCE is http but RATES_FEED_URL is not set. Using the static table.")
			cfg.RatesSource = RatesSourceStatic
		}
	default:
		log.Printf("Warning: Invalid value for RATES_SOURCE ('%s'). Defaulting to %s.\n", cfg.RatesSource, RatesSourceStatic)
		cfg.RatesSource = RatesSourceStatic
	}
	cfg.RatesFeedTimeout = durationOrDefault("RATES_FEED_TIMEOUT", 5*time.Second)
	cfg.RatesFeedRetries = viper.GetInt("RATES_FEED_RETRIES")
	if cfg.RatesFeedRetries < 0 {
		cfg.RatesFeedRetries = 0
	}
	cfg.RatesCacheTTL = durationOrDefault("RATES_CACHE_TTL", 5*time.Minute)

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.KafkaBrokers = splitList(viper.GetString("KAFKA_BROKERS"))
	cfg.KafkaTopic = viper.GetString("KAFKA_TOPIC")
	cfg.PostHogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.MetricsEnabled = viper.GetBool("METRICS_ENABLED")

	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.EnableDBCheck = viper.GetBool("ENABLE_DB_CHECK")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")
	cfg.MigrationsPath = viper.GetString("MIGRATIONS_PATH")
	cfg.SeedDefaultData = viper.GetBool("SEED_DEFAULT_DATA")

	return cfg, nil
}

// durationOrDefault parses key (e.g., "60m", "1h"), falling back to def on bad input.
func durationOrDefault(key string, def time.Duration) time.Duration {
	raw := viper.GetString(key)
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		if raw != "" {
			log.Printf("Warning: Invalid value for %s ('%s'). Defaulting to %s.\n", key, raw, def.String())
		}
		return def
	}
	return d
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
