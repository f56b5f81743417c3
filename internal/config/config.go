package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

var AppEnv Config

type Config struct {
	MongoURI       string
	DBName         string
	JWTSecret      string
	AccessTokenTTL time.Duration

	RedisAddr string
	RedisDB   int

	// Admission control for the public catalog endpoints.
	RateLimit       int
	RateLimitWindow time.Duration

	// Popular-products aggregation cache.
	PopularCacheTTL time.Duration

	// Checkout pricing policy: flat shipping fee plus a tax percentage
	// applied to the item subtotal.
	ShippingFee float64
	TaxRate     float64
	Currency    string
}

func Load() {
	if err := godotenv.Load(); err != nil {
		log.Println(".env not loaded:", err)
	}
	AppEnv = Config{
		MongoURI:        getEnvOrDefault("MONGO_URI", ""),
		DBName:          getEnvOrDefault("DB_NAME", "storefront"),
		JWTSecret:       getEnvOrDefault("JWT_SECRET", ""),
		AccessTokenTTL:  getDurationEnv("ACCESS_TOKEN_TTL", 20, time.Minute),
		RedisAddr:       getEnvOrDefault("REDIS_ADDR", "localhost:6379"),
		RedisDB:         getIntEnv("REDIS_DB", 0),
		RateLimit:       getIntEnv("RATE_LIMIT", 10),
		RateLimitWindow: getDurationEnv("RATE_LIMIT_WINDOW", 60, time.Second),
		PopularCacheTTL: getDurationEnv("POPULAR_CACHE_TTL", 5, time.Minute),
		ShippingFee:     getFloatEnv("SHIPPING_FEE", 10),
		TaxRate:         getFloatEnv("TAX_RATE", 0.10),
		Currency:        getEnvOrDefault("CURRENCY", "USD"),
	}
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue int, unit time.Duration) time.Duration {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil && parsed > 0 {
			return time.Duration(parsed) * unit
		}
	}
	return time.Duration(defaultValue) * unit
}

func getIntEnv(key string, defaultValue int) int {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getFloatEnv(key string, defaultValue float64) float64 {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		if parsed, err := strconv.ParseFloat(value, 64); err == nil && parsed >= 0 {
			return parsed
		}
	}
	return defaultValue
}
