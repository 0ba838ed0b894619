package config

import (
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv          string
	Port            string
	UpstreamBaseURL string
	UpstreamTimeout time.Duration
	ProxyPrefix     string
	JWTSecret       string
	CartStorageFile string
	RedisURL        string
	RedisAddr       string
	RedisPassword   string
}

var AppConfig *Config

func LoadConfig() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found, using system environment variables")
	}

	upstreamTimeout, err := time.ParseDuration(getEnv("UPSTREAM_TIMEOUT", "15s"))
	if err != nil || upstreamTimeout <= 0 {
		upstreamTimeout = 15 * time.Second
	}

	AppConfig = &Config{
		AppEnv:          getEnv("APP_ENV", "development"),
		Port:            getEnv("APP_PORT", getEnv("PORT", "8082")),
		UpstreamBaseURL: getEnv("UPSTREAM_API_URL", "https://api.ebunly.com"),
		UpstreamTimeout: upstreamTimeout,
		ProxyPrefix:     getEnv("PROXY_PREFIX", "/proxy"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		CartStorageFile: getEnv("CART_STORAGE_FILE", "./data/cart.json"),
		RedisURL:        os.Getenv("REDIS_URL"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
	}

	log.Println("Configuration loaded successfully")
	log.Printf("Environment: %s", AppConfig.AppEnv)
	log.Printf("Upstream API: %s", AppConfig.UpstreamBaseURL)
	log.Printf("Server will run on port: %s", AppConfig.Port)
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
