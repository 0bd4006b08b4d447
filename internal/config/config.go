package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	// Database
	StorageDriver string
	DatabaseURL   string
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string

	// JWT
	JWTSecret string
	JWTExpiry time.Duration

	// LLM
	LLMProvider      string
	LLMTimeout       time.Duration
	GeminiAPIKey     string
	GeminiModel      string
	GeminiAPIURL     string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	AnthropicAPIKey  string
	AnthropicModel   string
	AnthropicBaseURL string

	// Server
	Port          string
	CORSOrigins   string
	RateLimit     int
	AuthRateLimit int

	// Observability
	LogLevel  string
	AppEnv    string
	SentryDSN string
}

// Load reads the process environment once. A .env file in the working
// directory is merged in first when present; real environment variables win.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		StorageDriver: getEnv("STORAGE_DRIVER", StorageDriverPostgres),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnv("DB_PORT", "5432"),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", ""),
		DBName:        getEnv("DB_NAME", "prepwise"),
		DBSSLMode:     getEnv("DB_SSLMODE", "disable"),

		JWTSecret: getEnv("JWT_SECRET", ""),
		JWTExpiry: parseDuration(getEnv("JWT_EXPIRY", "24h"), 24*time.Hour),

		LLMProvider:      getEnv("LLM_PROVIDER", "gemini"),
		LLMTimeout:       parseDuration(getEnv("LLM_TIMEOUT", "60s"), 60*time.Second),
		GeminiAPIKey:     getEnv("GEMINI_API_KEY", ""),
		GeminiModel:      getEnv("GEMINI_MODEL", "gemini-2.0-flash"),
		GeminiAPIURL:     getEnv("GEMINI_API_URL", ""),
		OpenAIAPIKey:     getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:      getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:    getEnv("OPENAI_BASE_URL", ""),
		AnthropicAPIKey:  getEnv("ANTHROPIC_API_KEY", ""),
		AnthropicModel:   getEnv("ANTHROPIC_MODEL", "claude-haiku-4-5-20251001"),
		AnthropicBaseURL: getEnv("ANTHROPIC_BASE_URL", ""),

		Port:          getEnv("PORT", "5000"),
		CORSOrigins:   getEnv("CORS_ORIGINS", "*"),
		RateLimit:     parseInt(getEnv("RATE_LIMIT_PER_MIN", "60"), 60),
		AuthRateLimit: parseInt(getEnv("AUTH_RATE_LIMIT_PER_MIN", "10"), 10),

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		AppEnv:    getEnv("APP_ENV", "development"),
		SentryDSN: getEnv("SENTRY_DSN", ""),
	}
}

// Validate reports every missing required setting at once.
func (c *Config) Validate() error {
	var errs []error
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET environment variable is required"))
	}
	switch c.StorageDriver {
	case StorageDriverMemory:
	case StorageDriverPostgres:
		if c.DatabaseURL == "" && c.DBPassword == "" {
			errs = append(errs, errors.New("DATABASE_URL or DB_PASSWORD environment variable is required"))
		}
	default:
		errs = append(errs, errors.New("STORAGE_DRIVER must be one of: postgres, memory"))
	}
	if c.JWTExpiry <= 0 {
		errs = append(errs, errors.New("JWT_EXPIRY must be positive"))
	}
	return errors.Join(errs...)
}

func (c *Config) DSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "host=" + c.DBHost +
		" user=" + c.DBUser +
		" password=" + c.DBPassword +
		" dbname=" + c.DBName +
		" port=" + c.DBPort +
		" sslmode=" + c.DBSSLMode +
		" TimeZone=UTC"
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseInt(s string, fallback int) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return fallback
	}
	return n
}
