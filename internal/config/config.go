package config

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Host string
	Port int

	GroqAPIKey string
	GroqAPIURL string
	Model      string

	TimeoutMs        int
	RetryStatusCodes []int
	RetryMaxAttempts int

	Debug string

	WebRoot       string
	SessionSecret string
	AdminToken    string

	LedgerTTL  time.Duration
	SessionTTL time.Duration
}

var (
	cfg  *Config
	once sync.Once
)

const DefaultGroqAPIURL = "https://api.groq.com/openai/v1/chat/completions"

func Load() *Config {
	once.Do(func() {
		_ = godotenv.Load()

		cfg = &Config{
			Host:             getEnv("HOST", "0.0.0.0"),
			Port:             getEnvInt("PORT", 5000),
			GroqAPIKey:       getEnv("GROQ_API_KEY", ""),
			GroqAPIURL:       getEnv("GROQ_API_URL", DefaultGroqAPIURL),
			Model:            getEnv("MODEL", "llama-3.3-70b-versatile"),
			TimeoutMs:        getEnvInt("TIMEOUT", 120000),
			RetryStatusCodes: getEnvIntSlice("RETRY_STATUS_CODES", []int{429, 500, 502, 503}),
			RetryMaxAttempts: getEnvInt("RETRY_MAX_ATTEMPTS", 3),
			Debug:            getEnv("DEBUG", "off"),
			WebRoot:          getEnv("WEB_ROOT", "./web"),
			SessionSecret:    getEnv("SESSION_SECRET", ""),
			AdminToken:       getEnv("ADMIN_TOKEN", ""),
			LedgerTTL:        time.Duration(getEnvInt("LEDGER_TTL_MINUTES", 60)) * time.Minute,
			SessionTTL:       time.Duration(getEnvInt("SESSION_TTL_MINUTES", 1440)) * time.Minute,
		}
	})

	return cfg
}

func Get() *Config {
	if cfg == nil {
		return Load()
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}

func getEnvIntSlice(key string, defaultValue []int) []int {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		result := make([]int, 0, len(parts))
		for _, p := range parts {
			if i, err := strconv.Atoi(strings.TrimSpace(p)); err == nil {
				result = append(result, i)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return defaultValue
}
