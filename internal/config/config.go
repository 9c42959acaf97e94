package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode   string
	Port      string
	LogLevel  string
	Database  DatabaseConfig
	JWT       JWTConfig
	Cookie    CookieConfig
	OAuth     OAuthConfig
	Redis     RedisConfig
	Storage   StorageConfig
	Pricing   PricingConfig
	Cron      CronConfig
	Seed      SeedConfig
	RateLimit RateLimitConfig
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Driver   string // postgres or mysql
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// JWTConfig holds token signing configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// OAuthConfig holds the Google sign-in client
type OAuthConfig struct {
	GoogleClientID     string
	GoogleClientSecret string
	GoogleRedirectURL  string
	// Where the browser lands after the callback (the SPA)
	PostLoginRedirect string
	StateTTLMinutes   int
}

// RedisConfig holds redis configuration. Empty Addr disables redis.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// StorageConfig holds object storage configuration. Empty Endpoint disables archiving.
type StorageConfig struct {
	Endpoint       string
	AccessKey      string
	SecretKey      string
	Bucket         string
	UseSSL         bool
	PresignMinutes int
}

// PricingConfig points at an optional rate table override
type PricingConfig struct {
	TableFile string
}

// CronConfig holds scheduled job specs
type CronConfig struct {
	TokenCleanupSpec   string
	LedgerSnapshotSpec string
}

// RateLimitConfig holds per-IP request budgets per minute. Zero turns a
// limiter off.
type RateLimitConfig struct {
	APIPerMinute    int
	AuthPerMinute   int
	StrictPerMinute int
}

// SeedConfig holds first-boot data
type SeedConfig struct {
	AdminEmail string
	AdminName  string
	// Legacy six-digit role codes, keyed by role name
	RoleCodes map[string]string
}

// Global config instance
var AppConfig *Config

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// Load .env file (ignore error if file doesn't exist in production)
	if err := godotenv.Load(); err != nil {
		GetLogger().Warn("⚠️ .env file not found, using environment variables")
	}

	// Get APP_MODE (default to "dev") - trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	config := &Config{
		AppMode:  appMode,
		Port:     getEnv("PORT", "3000"),
		LogLevel: getEnv("LOG_LEVEL", "info"),
		Database: loadDatabaseConfig(appMode),
		JWT:      loadJWTConfig(appMode),
		Cookie:   loadCookieConfig(appMode),
		OAuth:    loadOAuthConfig(appMode),
		Redis:    loadRedisConfig(),
		Storage:  loadStorageConfig(),
		Pricing:  PricingConfig{TableFile: getEnv("PRICING_TABLE_FILE", "")},
		Cron: CronConfig{
			TokenCleanupSpec:   getEnv("CRON_TOKEN_CLEANUP", "0 3 * * *"),
			LedgerSnapshotSpec: getEnv("CRON_LEDGER_SNAPSHOT", "0 23 * * *"),
		},
		Seed: loadSeedConfig(),
		RateLimit: RateLimitConfig{
			APIPerMinute:    getEnvInt("RATE_LIMIT_API", 100),
			AuthPerMinute:   getEnvInt("RATE_LIMIT_AUTH", 5),
			StrictPerMinute: getEnvInt("RATE_LIMIT_STRICT", 3),
		},
	}

	if config.IsProd() && (config.JWT.Secret == defaultSecret || config.JWT.RefreshSecret == defaultRefreshSecret) {
		return nil, fmt.Errorf("PROD_JWT_SECRET and PROD_JWT_REFRESH_SECRET must be set in prod mode")
	}

	// Set global config
	AppConfig = config

	InitLogger(config)
	GetLogger().Infof("✅ Configuration loaded successfully [MODE: %s]", appMode)
	return config, nil
}

func modePrefix(mode string) string {
	if mode == "prod" {
		return "PROD_"
	}
	return "DEV_"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := modePrefix(mode)
	driver := strings.ToLower(getEnv(prefix+"DB_DRIVER", "postgres"))

	defaultPort := "5432"
	if driver == "mysql" {
		defaultPort = "3306"
	}

	return DatabaseConfig{
		Driver:   driver,
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", defaultPort),
		User:     getEnv(prefix+"DB_USER", "postgres"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "vpcs"),
		SSLMode:  getEnv(prefix+"DB_SSLMODE", "disable"),
	}
}

const (
	defaultSecret        = "default_secret"
	defaultRefreshSecret = "default_refresh_secret"
)

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := modePrefix(mode)

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", defaultSecret),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", defaultRefreshSecret),
		AccessTokenMins:  getEnvInt("ACCESS_TOKEN_MINUTES", 15),
		RefreshTokenDays: getEnvInt("REFRESH_TOKEN_DAYS", 7),
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	secure, _ := strconv.ParseBool(getEnv(modePrefix(mode)+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

func loadOAuthConfig(mode string) OAuthConfig {
	prefix := modePrefix(mode)

	return OAuthConfig{
		GoogleClientID:     getEnv(prefix+"GOOGLE_CLIENT_ID", ""),
		GoogleClientSecret: getEnv(prefix+"GOOGLE_CLIENT_SECRET", ""),
		GoogleRedirectURL:  getEnv(prefix+"GOOGLE_REDIRECT_URL", "http://localhost:3000/api/v1/auth/google/callback"),
		PostLoginRedirect:  getEnv(prefix+"POST_LOGIN_REDIRECT", "http://localhost:5173/"),
		StateTTLMinutes:    getEnvInt("OAUTH_STATE_MINUTES", 10),
	}
}

func loadRedisConfig() RedisConfig {
	return RedisConfig{
		Addr:     getEnv("REDIS_ADDR", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
		DB:       getEnvInt("REDIS_DB", 0),
	}
}

func loadStorageConfig() StorageConfig {
	useSSL, _ := strconv.ParseBool(getEnv("MINIO_USE_SSL", "false"))

	return StorageConfig{
		Endpoint:       getEnv("MINIO_ENDPOINT", ""),
		AccessKey:      getEnv("MINIO_ACCESS_KEY", ""),
		SecretKey:      getEnv("MINIO_SECRET_KEY", ""),
		Bucket:         getEnv("MINIO_BUCKET", "vpcs-exports"),
		UseSSL:         useSSL,
		PresignMinutes: getEnvInt("MINIO_PRESIGN_MINUTES", 60),
	}
}

func loadSeedConfig() SeedConfig {
	codes := map[string]string{}
	for _, role := range []string{"Administrator", "Supervisor", "Management"} {
		if code := getEnv("SEED_CODE_"+strings.ToUpper(role), ""); code != "" {
			codes[role] = code
		}
	}

	return SeedConfig{
		AdminEmail: strings.ToLower(getEnv("SEED_ADMIN_EMAIL", "")),
		AdminName:  getEnv("SEED_ADMIN_NAME", "Administrator"),
		RoleCodes:  codes,
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	v, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return v
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://vpcs.app"
	}
	return origins
}

// GoogleEnabled reports whether OAuth sign-in is configured
func (c *Config) GoogleEnabled() bool {
	return c.OAuth.GoogleClientID != "" && c.OAuth.GoogleClientSecret != ""
}
