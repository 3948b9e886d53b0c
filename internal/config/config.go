package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Upload   UploadConfig
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name string
	Env  string
	Host string
	Port string
}

// PostgresConfig holds DB connection values.
type PostgresConfig struct {
	User     string
	Password string
	Host     string
	Port     string
	Name     string
}

// RedisConfig holds Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// AuthConfig defines authentication parameters. BootstrapSecret gates the
// first-admin promotion endpoint; leaving it unset disables that path.
type AuthConfig struct {
	JWTSecret       string
	TokenTTLHours   int
	BcryptCost      int
	BootstrapSecret string
}

// UploadConfig controls where uploaded objects land on disk.
type UploadConfig struct {
	BaseDir    string
	PublicBase string
}

// Load reads configuration from environment variables, applying defaults where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "omtii-marketplace"),
			Env:  getEnv("APP_ENV", "development"),
			Host: getEnv("APP_HOST", "0.0.0.0"),
			Port: getEnv("PORT", "8080"),
		},
		Postgres: PostgresConfig{
			User:     getEnv("DB_USER", "postgres"),
			Password: os.Getenv("DB_PASSWORD"),
			Host:     getEnv("DB_HOST", "127.0.0.1"),
			Port:     getEnv("DB_PORT", "5432"),
			Name:     getEnv("DB_NAME", "omtii"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		Auth: AuthConfig{
			JWTSecret:       getEnv("JWT_SECRET", "dev-secret"),
			TokenTTLHours:   getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 72),
			BcryptCost:      getEnvAsInt("AUTH_BCRYPT_COST", 12),
			BootstrapSecret: os.Getenv("ADMIN_BOOTSTRAP_SECRET"),
		},
		Upload: UploadConfig{
			BaseDir:    getEnv("UPLOAD_DIR", "./uploads"),
			PublicBase: getEnv("UPLOAD_PUBLIC_BASE", "/static"),
		},
	}

	return cfg, nil
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// DSN renders the Postgres connection string.
func (p PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s", p.User, p.Password, p.Host, p.Port, p.Name)
}

// TokenTTL returns the access token lifetime.
func (a AuthConfig) TokenTTL() time.Duration {
	if a.TokenTTLHours <= 0 {
		return 72 * time.Hour
	}
	return time.Duration(a.TokenTTLHours) * time.Hour
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}
