package config

import (
	"os"
	"strconv"
	"time"
)

// DatabaseConfig holds PostgreSQL database connection settings.
type DatabaseConfig struct {
	Host               string
	Port               string
	User               string
	Password           string
	Name               string
	SSLMode            string
	ApplicationName    string
	ConnectTimeoutSec  int
	MaxOpenConns       int
	MaxIdleConns       int
	ConnMaxLifetimeSec int
}

// Enabled reports whether a database host was configured. Without one the
// service runs without check history.
func (c DatabaseConfig) Enabled() bool {
	return c.Host != ""
}

// MinIOConfig holds object storage settings for the check archive.
type MinIOConfig struct {
	Endpoint  string
	AccessKey string
	SecretKey string
	Bucket    string
	UseSSL    bool
}

// Enabled reports whether an object storage endpoint was configured.
func (c MinIOConfig) Enabled() bool {
	return c.Endpoint != ""
}

// HIBPConfig holds settings for the HaveIBeenPwned breach lookup.
// An empty APIKey switches the service into demo mode.
type HIBPConfig struct {
	APIKey     string
	BaseURL    string
	UserAgent  string
	TimeoutSec int
}

// DefaultHIBPTimeout bounds HIBP calls when HIBP_TIMEOUT_SEC is unset or not positive.
const DefaultHIBPTimeout = 12 * time.Second

// DefaultPersistTimeout bounds each recorder call when PERSIST_TIMEOUT_SEC is
// unset or not positive.
const DefaultPersistTimeout = 3 * time.Second

// Timeout returns the outbound request bound. It is never zero, since a zero
// http.Client timeout means no timeout at all.
func (c HIBPConfig) Timeout() time.Duration {
	if c.TimeoutSec <= 0 {
		return DefaultHIBPTimeout
	}
	return time.Duration(c.TimeoutSec) * time.Second
}

// AppConfig is the centralized configuration struct for the application.
// It is populated from environment variables. Sensitive values are not hardcoded.
type AppConfig struct {
	Environment       string
	Port              string
	CORSAllowOrigins  string
	PersistTimeoutSec int
	HIBP              HIBPConfig
	Database          DatabaseConfig
	MinIO             MinIOConfig
}

// PersistTimeout returns the per-recorder persistence bound as a duration.
func (c *AppConfig) PersistTimeout() time.Duration {
	if c.PersistTimeoutSec <= 0 {
		return DefaultPersistTimeout
	}
	return time.Duration(c.PersistTimeoutSec) * time.Second
}

// Load reads configuration from environment variables.
// A .env file can be auto-loaded by importing: _ "github.com/joho/godotenv/autoload"
// This function does not require a .env file; real environment variables take precedence.
func Load() *AppConfig {
	return &AppConfig{
		Environment:       getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8000"),
		CORSAllowOrigins:  getEnv("CORS_ALLOW_ORIGINS", "*"),
		PersistTimeoutSec: getEnvInt("PERSIST_TIMEOUT_SEC", 3),
		HIBP: HIBPConfig{
			APIKey:     getEnv("HIBP_API_KEY", ""),
			BaseURL:    getEnv("HIBP_BASE_URL", "https://haveibeenpwned.com"),
			UserAgent:  getEnv("HIBP_USER_AGENT", "BreachGuard/1.0"),
			TimeoutSec: getEnvInt("HIBP_TIMEOUT_SEC", 12),
		},
		Database: DatabaseConfig{
			Host:               getEnv("DB_HOST", ""),
			Port:               getEnv("DB_PORT", "5432"),
			User:               getEnv("DB_USER", ""),
			Password:           getEnv("DB_PASSWORD", ""),
			Name:               getEnv("DB_NAME", ""),
			SSLMode:            getEnv("DB_SSLMODE", "disable"),
			ApplicationName:    getEnv("DB_APPLICATION_NAME", "breachguard"),
			ConnectTimeoutSec:  getEnvInt("DB_CONNECT_TIMEOUT_SEC", 5),
			MaxOpenConns:       getEnvInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns:       getEnvInt("DB_MAX_IDLE_CONNS", 5),
			ConnMaxLifetimeSec: getEnvInt("DB_CONN_MAX_LIFETIME_SEC", 300),
		},
		MinIO: MinIOConfig{
			Endpoint:  getEnv("MINIO_ENDPOINT", ""),
			AccessKey: getEnv("MINIO_ACCESS_KEY", ""),
			SecretKey: getEnv("MINIO_SECRET_KEY", ""),
			Bucket:    getEnv("MINIO_BUCKET", ""),
			UseSSL:    getEnvBool("MINIO_USE_SSL", false),
		},
	}
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		i, err := strconv.Atoi(v)
		if err == nil {
			return i
		}
	}
	return def
}
