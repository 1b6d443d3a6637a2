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
	Port            string
	Env             string
	LogLevel        string
	CORSAllowOrigin []string
	RateLimitRPS    float64
	RateLimitBurst  int
	MaxUploadBytes  int64

	HistoryBackend string
	HistoryFile    string
	HistoryLimit   int
	DatabaseURL    string

	EmbeddingProvider string
	EmbeddingBaseURL  string
	EmbeddingModel    string
	EmbeddingAPIKey   string
	EmbeddingTimeout  time.Duration

	OllamaBaseURL         string
	OllamaModel           string
	OllamaStream          bool
	OllamaProbeTimeout    time.Duration
	OllamaGenerateTimeout time.Duration

	KeywordTopN int

	ArchiveUploads  bool
	ObjectStoreType string
	LocalStoreDir   string
	AWSRegion       string
	S3Bucket        string
	S3Prefix        string
	SSEKMSKeyID     string
}

// Load reads configuration from environment variables with sensible defaults.
// Values from CONFIG_FILE (TOML) are applied first; real environment variables win.
func Load() Config {
	// Best-effort load of local env files for dev convenience.
	loadEnvFiles(".env", "cmd/.env")

	if path := strings.TrimSpace(os.Getenv("CONFIG_FILE")); path != "" {
		if err := applyFile(path); err != nil {
			log.Printf("config: ignoring %s: %v", path, err)
		}
	}

	env := normalizeEnv(getEnv("ENV", "dev"))
	backend := normalizeHistoryBackend(getEnv("HISTORY_BACKEND", "file"))
	dbURL := os.Getenv("DATABASE_URL")

	if backend == "postgres" && dbURL == "" {
		log.Printf("HISTORY_BACKEND=postgres requires DATABASE_URL")
	}

	return Config{
		Port:            getEnv("PORT", "8000"),
		Env:             env,
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		CORSAllowOrigin: splitAndTrim(getEnv("CORS_ALLOW_ORIGINS", "http://localhost:8000,http://127.0.0.1:8000")),
		RateLimitRPS:    getEnvFloat("RATE_LIMIT_RPS", 2),
		RateLimitBurst:  getEnvInt("RATE_LIMIT_BURST", 10),
		MaxUploadBytes:  int64(getEnvInt("MAX_UPLOAD_BYTES", 10<<20)),

		HistoryBackend: backend,
		HistoryFile:    getEnv("HISTORY_FILE", "analysis_history.json"),
		HistoryLimit:   getEnvInt("HISTORY_LIMIT", 50),
		DatabaseURL:    dbURL,

		EmbeddingProvider: normalizeEmbeddingProvider(getEnv("EMBEDDING_PROVIDER", "ollama")),
		EmbeddingBaseURL:  getEnv("EMBEDDING_BASE_URL", ""),
		EmbeddingModel:    getEnv("EMBEDDING_MODEL", "all-minilm"),
		EmbeddingAPIKey:   getEnv("EMBEDDING_API_KEY", ""),
		EmbeddingTimeout:  getEnvDuration("EMBEDDING_TIMEOUT", 60*time.Second),

		OllamaBaseURL:         getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		OllamaModel:           getEnv("OLLAMA_MODEL", "llama3.2"),
		OllamaStream:          getEnvBool("OLLAMA_STREAM", false),
		OllamaProbeTimeout:    getEnvDuration("OLLAMA_PROBE_TIMEOUT", 2*time.Second),
		OllamaGenerateTimeout: getEnvDuration("OLLAMA_GENERATE_TIMEOUT", 60*time.Second),

		KeywordTopN: getEnvInt("KEYWORD_TOP_N", 20),

		ArchiveUploads:  getEnvBool("ARCHIVE_UPLOADS", false),
		ObjectStoreType: normalizeStoreType(getEnv("OBJECT_STORE", "local")),
		LocalStoreDir:   getEnv("LOCAL_STORE_DIR", "./data"),
		AWSRegion:       getEnv("AWS_REGION", ""),
		S3Bucket:        getEnv("S3_BUCKET", ""),
		S3Prefix:        getEnv("S3_PREFIX", ""),
		SSEKMSKeyID:     getEnv("SSE_KMS_KEY_ID", ""),
	}
}

func getEnv(key, def string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return def
}

func getEnvInt(key string, def int) int {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
		log.Printf("config: %s invalid int %q, using %d", key, val, def)
	}
	return def
}

func getEnvFloat(key string, def float64) float64 {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if f, err := strconv.ParseFloat(val, 64); err == nil {
			return f
		}
		log.Printf("config: %s invalid number %q, using %v", key, val, def)
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	if val := strings.TrimSpace(os.Getenv(key)); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
		log.Printf("config: %s invalid bool %q, using %v", key, val, def)
	}
	return def
}

// getEnvDuration accepts Go durations ("90s") or a bare number of seconds.
func getEnvDuration(key string, def time.Duration) time.Duration {
	val := strings.TrimSpace(os.Getenv(key))
	if val == "" {
		return def
	}
	if d, err := time.ParseDuration(val); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.ParseFloat(val, 64); err == nil && secs > 0 {
		return time.Duration(secs * float64(time.Second))
	}
	log.Printf("config: %s invalid duration %q, using %s", key, val, def)
	return def
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

func normalizeHistoryBackend(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "postgres", "pg", "postgresql":
		return "postgres"
	case "memory":
		return "memory"
	default:
		return "file"
	}
}

func normalizeEmbeddingProvider(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "openai", "openai-compatible":
		return "openai"
	default:
		return "ollama"
	}
}
