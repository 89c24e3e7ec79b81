package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type R2 struct {
	AccountID  string
	AccessKey  string
	SecretKey  string
	BucketName string
	PublicURL  string
}

type Quota struct {
	DailyLimit int
	TimeZone   string
	Store      string // postgres, redis or memory
}

type Config struct {
	Port            string
	PostgresURI     string
	RedisURI        string
	FrontendURL     string
	SecretKey       string
	CookieName      string
	DefaultTimeZone string
	AutoPublish     bool
	SweepInterval   time.Duration
	RateLimitRPS    int
	SeedFile        string
	LogLevel        string
	LogFile         string
	Quota           Quota
	R2              R2
}

func LoadConfig() *Config {
	return &Config{
		Port:            getEnv("PORT", "3000"),
		PostgresURI:     getEnv("POSTGRES_URI", ""),
		RedisURI:        getEnv("REDIS_URI", "localhost:6379"),
		FrontendURL:     getEnv("FRONTEND_URL", "http://localhost:5173"),
		SecretKey:       getEnv("SECRET_KEY", ""),
		CookieName:      getEnv("COOKIE_NAME", "shipsocial_session"),
		DefaultTimeZone: getEnv("DEFAULT_TIMEZONE", "UTC"),
		AutoPublish:     getEnvBool("AUTO_PUBLISH", false),
		SweepInterval:   getEnvDuration("SWEEP_INTERVAL", 10*time.Minute),
		RateLimitRPS:    getEnvInt("RATE_LIMIT_RPS", 5),
		SeedFile:        getEnv("SEED_FILE", ""),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		LogFile:         getEnv("LOG_FILE", ""),
		Quota: Quota{
			DailyLimit: getEnvInt("QUOTA_DAILY_LIMIT", 20),
			TimeZone:   getEnv("QUOTA_TIMEZONE", "UTC"),
			Store:      strings.ToLower(getEnv("QUOTA_STORE", "postgres")),
		},
		R2: R2{
			AccountID:  getEnv("R2_ACCOUNT_ID", ""),
			AccessKey:  getEnv("R2_ACCESS_KEY", ""),
			SecretKey:  getEnv("R2_SECRET_KEY", ""),
			BucketName: getEnv("R2_BUCKET_NAME", ""),
			PublicURL:  getEnv("R2_PUBLIC_URL", ""),
		},
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if n, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return n
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if b, err := strconv.ParseBool(getEnv(key, "")); err == nil {
		return b
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if d, err := time.ParseDuration(getEnv(key, "")); err == nil && d > 0 {
		return d
	}
	return defaultValue
}
