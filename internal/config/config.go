package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"
)

type Config struct {
	AppEnv string
	Port   string

	DBHost     string
	DBUser     string
	DBPassword string
	DBName     string
	DBPort     string
	DBSSLMode  string

	RedisAddr   string
	KafkaBroker string

	JWTSecret       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration

	SessionCacheTTL       time.Duration
	TeardownChunkSize     int
	InviteCodeMaxAttempts int
	DefaultLanguage       string
	ExportTimezone        string

	FeedAllowedOrigins []string
	OutboxPollInterval time.Duration
}

// Load reads the process environment. godotenv.Load is expected to have run first.
func Load() Config {
	return Config{
		AppEnv: getEnv("APP_ENV", "development"),
		Port:   getEnv("PORT", "3000"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBUser:     getEnv("DB_USER", "postgres"),
		DBPassword: os.Getenv("DB_PASSWORD"),
		DBName:     getEnv("DB_NAME", "attendance"),
		DBPort:     getEnv("DB_PORT", "5432"),
		DBSSLMode:  getEnv("DB_SSLMODE", "disable"),

		RedisAddr:   getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBroker: os.Getenv("KAFKA_BROKER"),

		JWTSecret:       os.Getenv("JWT_SECRET"),
		AccessTokenTTL:  getDuration("ACCESS_TOKEN_TTL", 15*time.Minute),
		RefreshTokenTTL: getDuration("REFRESH_TOKEN_TTL", 7*24*time.Hour),

		SessionCacheTTL:       getDuration("SESSION_CACHE_TTL", 5*time.Minute),
		TeardownChunkSize:     getInt("TEARDOWN_CHUNK_SIZE", 400),
		InviteCodeMaxAttempts: getInt("INVITE_CODE_MAX_ATTEMPTS", 10),
		DefaultLanguage:       getEnv("DEFAULT_LANGUAGE", "ja"),
		ExportTimezone:        getEnv("EXPORT_TIMEZONE", "Asia/Tokyo"),

		FeedAllowedOrigins: getList("FEED_ALLOWED_ORIGINS"),
		OutboxPollInterval: getDuration("OUTBOX_POLL_INTERVAL", 3*time.Second),
	}
}

func (c Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// ExportLocation resolves ExportTimezone, falling back to UTC.
func (c Config) ExportLocation() *time.Location {
	loc, err := time.LoadLocation(c.ExportTimezone)
	if err != nil {
		zap.L().Warn("unknown export timezone, using UTC", zap.String("timezone", c.ExportTimezone))
		return time.UTC
	}
	return loc
}

func getList(key string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return nil
	}
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if v := strings.TrimSpace(part); v != "" {
			out = append(out, v)
		}
	}
	return out
}

func getInt(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		zap.L().Warn("invalid integer env, using default", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil || v <= 0 {
		zap.L().Warn("invalid duration env, using default", zap.String("key", key), zap.String("value", raw))
		return fallback
	}
	return v
}
