package config

import (
	"log"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/joho/godotenv"
)

// Config holds all application configuration
// Built once in main and passed to the components that need it
type Config struct {
	// Server configuration
	Port            string
	ShutdownTimeout time.Duration

	// Logging
	LogLevel  string
	LogPretty bool

	// Rate limiting
	RateLimitType   string // "memory", "redis" or "none"
	RateLimit       int    // number of requests allowed
	RateLimitWindow int    // time window in seconds

	// Datastore configuration
	DatastoreType string // "mysql", "redis" or "memory"
	DatastorePath string // optional CSV file with seed schools

	// MySQL configuration
	MySQLDSN         string
	MySQLAutoMigrate bool

	// Redis configuration
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

// Load reads configuration from environment variables
// with sensible defaults
func Load() *Config {
	// .env is optional, in Docker the variables are set directly
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables or defaults")
	}

	return &Config{
		Port:            getEnv("PORT", "5000"),
		ShutdownTimeout: time.Duration(getEnvAsInt("SHUTDOWN_TIMEOUT", 10)) * time.Second,

		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogPretty: getEnvAsBool("LOG_PRETTY", true),

		RateLimitType:   getEnv("RATE_LIMITER_TYPE", "memory"),
		RateLimit:       getEnvAsInt("RATE_LIMIT", 20),
		RateLimitWindow: getEnvAsInt("RATE_LIMIT_WINDOW", 1),

		DatastoreType: strings.ToLower(getEnv("DATASTORE_TYPE", "mysql")),
		DatastorePath: getEnv("DATASTORE_PATH", ""),

		MySQLDSN:         getEnv("MYSQL_DSN", buildMySQLDSN()),
		MySQLAutoMigrate: getEnvAsBool("MYSQL_AUTO_MIGRATE", true),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
	}
}

// RequestsPerSecond converts RateLimit per RateLimitWindow seconds into a rate
// Example: 10 requests per 5 seconds = 2.0 req/s
func (c *Config) RequestsPerSecond() float64 {
	window := c.RateLimitWindow
	if window <= 0 {
		window = 1
	}
	return float64(c.RateLimit) / float64(window)
}

// buildMySQLDSN assembles a DSN from the discrete DB_* variables
// used when MYSQL_DSN is not given
func buildMySQLDSN() string {
	cfg := mysql.NewConfig()
	cfg.User = getEnv("DB_USER", "root")
	cfg.Passwd = getEnv("DB_PASSWORD", "")
	cfg.Net = "tcp"
	cfg.Addr = net.JoinHostPort(getEnv("DB_HOST", "localhost"), getEnv("DB_PORT", "3306"))
	cfg.DBName = getEnv("DB_NAME", "school_db")
	cfg.ParseTime = true
	return cfg.FormatDSN()
}

// getEnv reads an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}

// getEnvAsInt reads an environment variable as an integer
// Returns default if not set or invalid
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

// getEnvAsBool reads an environment variable as a bool ("true", "1", "false", ...)
// Returns default if not set or invalid
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
