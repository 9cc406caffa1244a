package config

import (
	"errors"
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// ErrMissingSecret is returned when production starts without a real JWT
// secret configured.
var ErrMissingSecret = errors.New("JWT_SECRET must be set in production")

// Config holds application configuration loaded from environment variables.
// Provide sane defaults for local development; production requires the
// sensitive values to be set explicitly.
type Config struct {
	AppName string
	Env     string // development, staging, production
	Host    string
	Port    string
	GinMode string

	// Database
	DatabaseURL   string // full DSN; overrides the DB_* parts when set
	DBHost        string
	DBPort        string
	DBUser        string
	DBPassword    string
	DBName        string
	DBSSLMode     string
	DBMaxConns    int32
	DBMinConns    int32
	DBMaxConnLife time.Duration

	// Redis (optional; rate limiting falls back to in-process counters)
	RedisAddr     string
	RedisPassword string
	RedisDB       int

	// JWT
	JWTSecret          string
	JWTExpirationHours int

	// Proxy handling: trust X-Forwarded-For / X-Real-IP only when the
	// service sits behind a reverse proxy that sets them.
	TrustProxy bool

	// Rate limiting for credential endpoints
	AuthRateLimit  int
	AuthRateWindow time.Duration

	// CORS
	CORSAllowedOrigins string // comma-separated

	// Migrations
	MigrationsDir string

	// HTTP access log toggle (Gin logger)
	HTTPLogEnabled bool

	// Request timeout for the HTTP server
	RequestTimeout time.Duration

	// Request body cap in bytes; oversized bodies are rejected with 413
	MaxBodyBytes int64
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getbool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			log.Printf("invalid boolean for %s: %v, using default %v", key, err, def)
			return def
		}
		return b
	}
	return def
}

func getint(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err != nil {
			log.Printf("invalid int for %s: %v, using default %d", key, err, def)
			return def
		}
		return i
	}
	return def
}

func getdur(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			log.Printf("invalid duration for %s: %v, using default %v", key, err, def)
			return def
		}
		return d
	}
	return def
}

// Load loads configuration from environment variables.
func Load() *Config {
	return &Config{
		AppName: getenv("APP_NAME", "go-auth-service"),
		Env:     getenv("ENVIRONMENT", "development"),
		Host:    getenv("HOST", "0.0.0.0"),
		Port:    getenv("PORT", "8080"),
		GinMode: getenv("GIN_MODE", "release"),

		DatabaseURL:   getenv("DATABASE_URL", ""),
		DBHost:        getenv("DB_HOST", "localhost"),
		DBPort:        getenv("DB_PORT", "5432"),
		DBUser:        getenv("DB_USER", "postgres"),
		DBPassword:    getenv("DB_PASSWORD", "postgres"),
		DBName:        getenv("DB_NAME", "authdb"),
		DBSSLMode:     getenv("DB_SSLMODE", "disable"),
		DBMaxConns:    int32(getint("DATABASE_POOL_SIZE", 10)),
		DBMinConns:    int32(getint("DB_MIN_CONNS", 2)),
		DBMaxConnLife: getdur("DB_MAX_CONN_LIFETIME", time.Hour),

		RedisAddr:     getenv("REDIS_ADDR", ""),
		RedisPassword: getenv("REDIS_PASSWORD", ""),
		RedisDB:       getint("REDIS_DB", 0),

		JWTSecret:          getenv("JWT_SECRET", "dev-secret-do-not-use-in-production"),
		JWTExpirationHours: getint("JWT_EXPIRATION_HOURS", 24),

		TrustProxy: getbool("TRUST_PROXY", false),

		AuthRateLimit:  getint("AUTH_RATE_LIMIT", 10),
		AuthRateWindow: getdur("AUTH_RATE_WINDOW", time.Minute),

		CORSAllowedOrigins: getenv("CORS_ALLOWED_ORIGINS", "http://localhost:3000"),

		MigrationsDir: getenv("MIGRATIONS_DIR", "db/migrations"),

		HTTPLogEnabled: getbool("HTTP_LOG_ENABLED", false),

		RequestTimeout: getdur("REQUEST_TIMEOUT", 30*time.Second),

		MaxBodyBytes: int64(getint("MAX_BODY_SIZE_BYTES", 2<<20)),
	}
}

// Validate rejects configurations that must never reach production.
func (c *Config) Validate() error {
	if c.IsProduction() && (c.JWTSecret == "" || c.JWTSecret == "dev-secret-do-not-use-in-production") {
		return ErrMissingSecret
	}
	return nil
}

// IsProduction reports whether the service runs with production hardening.
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Env, "production")
}

// IsDevelopment reports whether the development-only endpoints are enabled.
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Env, "development")
}

// PostgresDSN returns a DSN compatible with pgx. DATABASE_URL wins when set.
func (c *Config) PostgresDSN() string {
	if c.DatabaseURL != "" {
		return c.DatabaseURL
	}
	return "postgres://" + c.DBUser + ":" + c.DBPassword + "@" + c.DBHost + ":" + c.DBPort + "/" + c.DBName + "?sslmode=" + c.DBSSLMode
}

// CORSOrigins returns the allowed origins as a slice.
func (c *Config) CORSOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	res := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			res = append(res, p)
		}
	}
	return res
}
