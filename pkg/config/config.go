package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Database drivers accepted by DB_DRIVER
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

const developmentJWTSecret = "clashart-development-secret"

type Config struct {
	Port     string
	Env      string
	LogLevel string

	DBDriver        string
	PostgresConnStr string
	SQLitePath      string
	MongoURI        string
	MongoDatabase   string

	RedisURL          string
	FollowingCacheTTL time.Duration

	JWTSecret string
	JWTTTL    time.Duration

	FirebaseCredentialsPath string

	GeminiAPIKey      string
	GeminiModel       string
	ModerationTimeout time.Duration

	SeedDemoData bool
}

// Load reads an optional .env file and then the environment.
// It reports whether a .env file was found so the caller can log it.
func Load() (*Config, bool, error) {
	envFile := godotenv.Load() == nil

	cfg := &Config{
		Port:                    getEnv("PORT", "8080"),
		Env:                     getEnv("ENV", "development"),
		LogLevel:                getEnv("LOG_LEVEL", ""),
		DBDriver:                getEnv("DB_DRIVER", DriverPostgres),
		PostgresConnStr:         getEnv("POSTGRES_CONN_STR", ""),
		SQLitePath:              getEnv("SQLITE_PATH", "clashart.db"),
		MongoURI:                getEnv("MONGO_URI", ""),
		MongoDatabase:           getEnv("MONGO_DATABASE", "clashart"),
		RedisURL:                getEnv("REDIS_URL", ""),
		JWTSecret:               getEnv("JWT_SECRET", ""),
		FirebaseCredentialsPath: getEnv("FIREBASE_CREDENTIALS_PATH", ""),
		GeminiAPIKey:            getEnv("GEMINI_API_KEY", ""),
		GeminiModel:             getEnv("GEMINI_MODEL", "gemini-flash-latest"),
	}

	var errs []error
	cfg.FollowingCacheTTL = getDuration("FOLLOWING_CACHE_TTL", 5*time.Minute, &errs)
	cfg.JWTTTL = getDuration("JWT_TTL", 72*time.Hour, &errs)
	cfg.ModerationTimeout = getDuration("MODERATION_TIMEOUT", 5*time.Second, &errs)
	cfg.SeedDemoData = getBool("SEED_DEMO_DATA", false, &errs)

	if cfg.JWTSecret == "" && cfg.IsDevelopment() {
		cfg.JWTSecret = developmentJWTSecret
	}
	return cfg, envFile, errors.Join(errs...)
}

// IsDevelopment reports whether ENV is development
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate reports every missing or inconsistent setting at once
func (c *Config) Validate() error {
	var errs []error
	switch c.DBDriver {
	case DriverPostgres:
		if c.PostgresConnStr == "" {
			errs = append(errs, errors.New("POSTGRES_CONN_STR must be set when DB_DRIVER is postgres"))
		}
	case DriverSQLite:
		if c.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH must be set when DB_DRIVER is sqlite"))
		}
	default:
		errs = append(errs, fmt.Errorf("unsupported DB_DRIVER %q", c.DBDriver))
	}
	if c.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET must be set"))
	}
	if c.MongoURI == "" && !c.IsDevelopment() {
		errs = append(errs, errors.New("MONGO_URI must be set outside development"))
	}
	if c.FollowingCacheTTL <= 0 {
		errs = append(errs, errors.New("FOLLOWING_CACHE_TTL must be positive"))
	}
	if c.JWTTTL <= 0 {
		errs = append(errs, errors.New("JWT_TTL must be positive"))
	}
	return errors.Join(errs...)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue time.Duration, errs *[]error) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return d
}

func getBool(key string, defaultValue bool, errs *[]error) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return defaultValue
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		*errs = append(*errs, fmt.Errorf("%s: %w", key, err))
		return defaultValue
	}
	return b
}
