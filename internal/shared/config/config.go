package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration.
type Config struct {
	Port              string
	CORSAllowOrigin   []string
	ObjectStoreType   string
	LocalStoreDir     string
	AWSRegion         string
	S3Bucket          string
	S3Prefix          string
	QueueURL          string
	QueueMode         string
	WorkerConcurrency int
	JobMaxAttempts    int
	JobRetryBase      time.Duration
	LLMProvider       string
	LLMModel          string
	LLMAPIKey         string
	LLMTimeout        time.Duration
	LLMMaxAttempts    int
	LLMCacheTTL       time.Duration
	AnalysisVersion   string
	MailSender        string
	DatabaseURL       string
	Env               string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	env := normalizeEnv(getEnv("ENV", "dev"))
	dbURL := os.Getenv("DATABASE_URL")

	if env == "production" && dbURL == "" {
		log.Printf("DATABASE_URL is required in production")
	}

	return Config{
		Port:              getEnv("PORT", "8080"),
		CORSAllowOrigin:   splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:5173")),
		ObjectStoreType:   normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:     getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:         getEnv("AWS_REGION", ""),
		S3Bucket:          getEnv("S3_BUCKET", ""),
		S3Prefix:          getEnv("S3_PREFIX", ""),
		QueueURL:          getEnv("ANALYSIS_QUEUE_URL", ""),
		QueueMode:         normalizeQueueMode(getEnv("QUEUE_MODE", "memory")),
		WorkerConcurrency: getEnvInt("WORKER_CONCURRENCY", 4),
		JobMaxAttempts:    getEnvInt("JOB_MAX_ATTEMPTS", 3),
		JobRetryBase:      getEnvDuration("JOB_RETRY_BASE", 2*time.Second),
		LLMProvider:       getEnv("LLM_PROVIDER", "gemini"),
		LLMModel:          getEnv("LLM_MODEL", "gemini-1.5-flash"),
		LLMAPIKey:         getEnv("GEMINI_API_KEY", ""),
		LLMTimeout:        getEnvDuration("LLM_TIMEOUT", 60*time.Second),
		LLMMaxAttempts:    getEnvInt("LLM_MAX_ATTEMPTS", 3),
		LLMCacheTTL:       getEnvDuration("LLM_CACHE_TTL", time.Hour),
		AnalysisVersion:   getEnv("ANALYSIS_VERSION", "gemini-1.5-flash:v1"),
		MailSender:        getEnv("MAIL_SENDER", ""),
		DatabaseURL:       dbURL,
		Env:               env,
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	n, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || n <= 0 {
		return def
	}
	return n
}

func getEnvDuration(key string, def time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return def
	}
	d, err := time.ParseDuration(strings.TrimSpace(raw))
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	var out []string
	for _, p := range parts {
		if trimmed := strings.TrimSpace(p); trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}

func normalizeEnv(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "production", "prod":
		return "production"
	case "staging":
		return "staging"
	case "local":
		return "local"
	case "development", "dev":
		return "dev"
	default:
		return "dev"
	}
}

func normalizeStoreType(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "s3":
		return "s3"
	default:
		return "local"
	}
}

func normalizeQueueMode(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "sqs":
		return "sqs"
	default:
		return "memory"
	}
}
