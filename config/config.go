package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

// Config is the immutable environment snapshot built once in main and
// passed to the packages that need it.
type Config struct {
	Port          string
	MongoURI      string
	MongoDB       string
	RedisAddr     string
	JWTSecret     []byte
	PublicBaseURL string

	// Courier sync
	CourierSyncInterval time.Duration
	CourierSyncBatch    int

	// Anonymous cart lifetime (TTL index on cart documents)
	GuestCartTTL time.Duration
}

// Load reads .env if present, then assembles Config from the process
// environment with local-dev defaults.
func Load() Config {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found; using system environment")
	}

	cfg := Config{
		Port:                getenv("PORT", ":4000"),
		MongoURI:            getenv("MONGODB_URI", "mongodb://localhost:27017"),
		MongoDB:             getenv("MONGODB_DB", "voltshop"),
		RedisAddr:           getenv("REDIS_ADDR", "localhost:6379"),
		JWTSecret:           []byte(getenv("JWT_SECRET", "dev_only_secret")),
		PublicBaseURL:       getenv("PUBLIC_BASE_URL", "http://localhost:4000"),
		CourierSyncInterval: getDuration("COURIER_SYNC_INTERVAL", 10*time.Minute),
		CourierSyncBatch:    20,
		GuestCartTTL:        getDuration("GUEST_CART_TTL", 72*time.Hour),
	}
	if cfg.Port[0] != ':' {
		cfg.Port = ":" + cfg.Port
	}
	return cfg
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		log.Printf("Invalid duration for %s: %q, using default", key, v)
		return fallback
	}
	return d
}
