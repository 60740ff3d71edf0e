package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings. Everything comes from the environment
// (optionally seeded from a .env file) so the same binary works in the CLI,
// in containers, and under systemd without flags.
type Config struct {
	PdftotextBin string
	PdftoppmBin  string
	IngestBin    string

	TmpDir      string
	StepTimeout time.Duration
	OCR         bool

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	DatabaseURL string
	Port        string
}

// Load reads configuration from the environment. A missing .env file is fine.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		PdftotextBin:  getEnv("PDFPIPE_PDFTOTEXT_BIN", "pdftotext"),
		PdftoppmBin:   getEnv("PDFPIPE_PDFTOPPM_BIN", "pdftoppm"),
		IngestBin:     getEnv("PDFPIPE_INGEST_BIN", "ingest"),
		TmpDir:        getEnv("PDFPIPE_TMP_DIR", ""),
		StepTimeout:   getEnvDuration("PDFPIPE_STEP_TIMEOUT", 0),
		OCR:           getEnvBool("PDFPIPE_OCR", false),
		RedisAddr:     getEnv("REDIS_URL", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		Port:          getEnv("PORT", "8080"),
	}
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
