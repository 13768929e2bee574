package infra

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config represents application configuration loaded from environment variables.
type Config struct {
	AppEnv            string
	Port              string
	DatabaseURL       string
	DBMaxConns        int32
	DBMinConns        int32
	DBConnLifetime    time.Duration
	DBConnIdleTime    time.Duration
	DBConnectTimeout  time.Duration
	JWTSecret         string
	SessionTTL        time.Duration
	IdentityAPIURL    string
	IdentityAPIKey    string
	MinDonationAmount int64
	MaxPageSize       int
	StoreTimeout      time.Duration
	GeoIPDBPath       string
	AllowedOrigins    []string
	HTTPReadTimeout   time.Duration
	HTTPWriteTimeout  time.Duration
	HTTPIdleTimeout   time.Duration
	RateLimitPerMin   int
}

// LoadConfig loads configuration from environment variables and applies defaults where needed.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:            getEnv("APP_ENV", "development"),
		Port:              getEnv("PORT", "8080"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		DBMaxConns:        int32(getEnvInt("DB_MAX_CONNS", 10)),
		DBMinConns:        int32(getEnvInt("DB_MIN_CONNS", 1)),
		DBConnLifetime:    time.Minute * time.Duration(getEnvInt("DB_CONN_LIFETIME_MINUTES", 60)),
		DBConnIdleTime:    time.Minute * time.Duration(getEnvInt("DB_CONN_IDLE_MINUTES", 30)),
		DBConnectTimeout:  time.Second * time.Duration(getEnvInt("DB_CONNECT_TIMEOUT_SECONDS", 10)),
		JWTSecret:         os.Getenv("JWT_SECRET"),
		SessionTTL:        time.Hour * time.Duration(getEnvInt("SESSION_TTL_HOURS", 24)),
		IdentityAPIURL:    getEnv("IDENTITY_API_URL", "https://api.identity.example.com"),
		IdentityAPIKey:    os.Getenv("IDENTITY_API_KEY"),
		MinDonationAmount: int64(getEnvInt("MIN_DONATION_AMOUNT", 100)),
		MaxPageSize:       getEnvInt("MAX_PAGE_SIZE", 50),
		StoreTimeout:      time.Second * time.Duration(getEnvInt("STORE_TIMEOUT_SECONDS", 5)),
		GeoIPDBPath:       os.Getenv("GEOIP_DB_PATH"),
		AllowedOrigins:    splitList(getEnv("ALLOWED_ORIGINS", "http://localhost:3000")),
		HTTPReadTimeout:   time.Second * time.Duration(getEnvInt("HTTP_READ_TIMEOUT_SECONDS", 15)),
		HTTPWriteTimeout:  time.Second * time.Duration(getEnvInt("HTTP_WRITE_TIMEOUT_SECONDS", 30)),
		HTTPIdleTimeout:   time.Second * time.Duration(getEnvInt("HTTP_IDLE_TIMEOUT_SECONDS", 60)),
		RateLimitPerMin:   getEnvInt("RATE_LIMIT_PER_MINUTE", 60),
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL is required")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.IdentityAPIKey == "" {
		return nil, fmt.Errorf("IDENTITY_API_KEY is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return fallback
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
