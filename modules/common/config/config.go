package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every environment variable the server reads.
type Config struct {
	// Gemini API
	GeminiAPIKeys []string
	ImageModel    string
	VideoModel    string

	// Video polling
	VideoPollInterval    time.Duration
	VideoPollMaxAttempts int

	// Redis (optional - job queue)
	RedisHost     string
	RedisPort     string
	RedisUsername string
	RedisPassword string
	RedisUseTLS   bool

	// Server
	Port string

	// Session housekeeping
	SessionMaxAge    time.Duration
	SessionIdleLimit time.Duration
}

var globalConfig *Config

// LoadConfig reads .env (if present) and the process environment.
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println("⚠️  .env file not found, using environment variables")
	}

	useTLS := true
	if tlsStr := os.Getenv("REDIS_USE_TLS"); tlsStr != "" {
		if parsed, err := strconv.ParseBool(tlsStr); err == nil {
			useTLS = parsed
		}
	}

	pollInterval := 5 * time.Second
	if intervalStr := os.Getenv("VIDEO_POLL_INTERVAL"); intervalStr != "" {
		if parsed, err := time.ParseDuration(intervalStr); err == nil && parsed > 0 {
			pollInterval = parsed
		}
	}

	// 120 attempts * 5s = 10 minutes before a video job is declared dead
	pollAttempts := 120
	if attemptsStr := os.Getenv("VIDEO_POLL_MAX_ATTEMPTS"); attemptsStr != "" {
		if parsed, err := strconv.Atoi(attemptsStr); err == nil && parsed > 0 {
			pollAttempts = parsed
		}
	}

	globalConfig = &Config{
		GeminiAPIKeys: parseKeys(),
		ImageModel:    getEnv("GEMINI_IMAGE_MODEL", "gemini-2.5-flash-image"),
		VideoModel:    getEnv("VEO_MODEL", "veo-3.1-fast-generate-preview"),

		VideoPollInterval:    pollInterval,
		VideoPollMaxAttempts: pollAttempts,

		RedisHost:     getEnv("REDIS_HOST", ""),
		RedisPort:     getEnv("REDIS_PORT", "6379"),
		RedisUsername: getEnv("REDIS_USERNAME", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisUseTLS:   useTLS,

		Port: getEnv("PORT", "8080"),

		SessionMaxAge:    24 * time.Hour,
		SessionIdleLimit: 2 * time.Hour,
	}

	if err := globalConfig.validate(); err != nil {
		return nil, err
	}

	log.Println("✅ Configuration loaded successfully")
	log.Printf("   Gemini: %s (keys: %d)", globalConfig.ImageModel, len(globalConfig.GeminiAPIKeys))
	log.Printf("   Veo: %s (poll: %s, max %d attempts)", globalConfig.VideoModel, globalConfig.VideoPollInterval, globalConfig.VideoPollMaxAttempts)
	if globalConfig.RedisHost != "" {
		log.Printf("   Redis: %s:%s (TLS: %v)", globalConfig.RedisHost, globalConfig.RedisPort, globalConfig.RedisUseTLS)
	} else {
		log.Printf("   Redis: not configured, jobs run in-process")
	}

	return globalConfig, nil
}

// GetConfig returns the loaded configuration.
func GetConfig() *Config {
	if globalConfig == nil {
		log.Fatal("❌ Config not loaded. Call LoadConfig() first.")
	}
	return globalConfig
}

// parseKeys reads GEMINI_API_KEYS (comma separated) with GEMINI_API_KEY as
// a single-key fallback.
func parseKeys() []string {
	raw := os.Getenv("GEMINI_API_KEYS")
	if raw == "" {
		raw = os.Getenv("GEMINI_API_KEY")
	}

	var keys []string
	for _, key := range strings.Split(raw, ",") {
		if trimmed := strings.TrimSpace(key); trimmed != "" {
			keys = append(keys, trimmed)
		}
	}
	return keys
}

func (c *Config) validate() error {
	if len(c.GeminiAPIKeys) == 0 {
		return fmt.Errorf("GEMINI_API_KEYS is required")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetRedisAddr builds the Redis connection string.
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.RedisHost, c.RedisPort)
}
