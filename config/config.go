package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver       string
	URL          string
	Host         string
	Port         int
	User         string
	Password     string
	DBName       string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// LoadDatabaseConfig loads database configuration from environment variables.
// A non-empty <prefix>DATABASE_URL takes precedence over the discrete fields.
func LoadDatabaseConfig(prefix string) (*DatabaseConfig, error) {
	cfg := &DatabaseConfig{
		Driver:       getEnv(prefix+"DB_DRIVER", "postgres"),
		URL:          getEnv(prefix+"DATABASE_URL", ""),
		Host:         getEnv(prefix+"DB_HOST", "postgres"),
		User:         getEnv(prefix+"DB_USER", "postgres"),
		Password:     getEnv(prefix+"DB_PASSWORD", "postgres"),
		DBName:       getEnv(prefix+"DB_NAME", "social_db"),
		SSLMode:      getEnv(prefix+"DB_SSLMODE", "disable"),
		MaxOpenConns: getEnvAsInt(prefix+"DB_MAX_OPEN_CONNS", 25),
		MaxIdleConns: getEnvAsInt(prefix+"DB_MAX_IDLE_CONNS", 5),
		MaxLifetime:  getEnvAsDuration(prefix+"DB_MAX_LIFETIME", 5*time.Minute),
	}

	switch cfg.Driver {
	case "postgres", "pgx":
	default:
		return nil, fmt.Errorf("unsupported database driver %q (set %sDB_DRIVER to postgres or pgx)", cfg.Driver, prefix)
	}

	var err error
	cfg.Port, err = strconv.Atoi(getEnv(prefix+"DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid database port: %w", err)
	}

	if cfg.URL == "" && cfg.DBName == "" {
		return nil, fmt.Errorf("database name is required (set %sDB_NAME)", prefix)
	}

	return cfg, nil
}

// DSN returns the connection string for the configured driver.
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}

// RedisConfig holds the slot store connection settings.
type RedisConfig struct {
	Addr      string
	Password  string
	DB        int
	KeyPrefix string
}

func LoadRedisConfig() *RedisConfig {
	return &RedisConfig{
		Addr:      getEnv("REDIS_ADDR", "localhost:6379"),
		Password:  getEnv("REDIS_PASSWORD", ""),
		DB:        getEnvAsInt("REDIS_DB", 0),
		KeyPrefix: getEnv("REDIS_KEY_PREFIX", "social:"),
	}
}

// NatsConfig holds NATS configuration. An empty URL disables publishing.
type NatsConfig struct {
	URL           string
	Name          string
	MaxReconnects int
	ReconnectWait time.Duration
}

func LoadNatsConfig() *NatsConfig {
	return &NatsConfig{
		URL:           getEnv("NATS_URL", ""),
		Name:          getEnv("NATS_CLIENT_NAME", "social-server"),
		MaxReconnects: getEnvAsInt("NATS_MAX_RECONNECTS", 10),
		ReconnectWait: getEnvAsDuration("NATS_RECONNECT_WAIT", 2*time.Second),
	}
}

// AppConfig holds the HTTP, gRPC and auth settings of the server.
type AppConfig struct {
	HTTPPort        string
	GRPCPort        string
	JWTSecret       string
	AccessExpiry    time.Duration
	AllowedOrigins  []string
	SlotBackend     string
	MediaDir        string
	MediaBaseURL    string
	RunMigrations   bool
	ShutdownTimeout time.Duration
}

func LoadAppConfig() (*AppConfig, error) {
	cfg := &AppConfig{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		GRPCPort:        getEnv("GRPC_PORT", "50051"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		AccessExpiry:    getEnvAsDuration("ACCESS_TOKEN_EXPIRY", 24*time.Hour),
		AllowedOrigins:  getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
		SlotBackend:     getEnv("SLOT_STORE", "memory"),
		MediaDir:        getEnv("MEDIA_DIR", "./media"),
		MediaBaseURL:    getEnv("MEDIA_BASE_URL", "/media"),
		RunMigrations:   getEnvAsBool("RUN_MIGRATIONS", true),
		ShutdownTimeout: getEnvAsDuration("SHUTDOWN_TIMEOUT", 10*time.Second),
	}

	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET environment variable is required")
	}

	switch cfg.SlotBackend {
	case "memory", "redis":
	default:
		return nil, fmt.Errorf("unsupported slot store %q (set SLOT_STORE to memory or redis)", cfg.SlotBackend)
	}

	return cfg, nil
}

// getEnv gets an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt gets an environment variable as int or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.ParseBool(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration gets an environment variable as duration or returns a default value
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := time.ParseDuration(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsSlice splits a comma separated variable, trimming blanks.
func getEnvAsSlice(key string, defaultValue []string) []string {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
