package config

import (
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	App       AppConfig
	Corpus    CorpusConfig
	Session   SessionConfig
	Retrieval RetrievalConfig
	Ai        AIConfig
	Admin     AdminConfig
}

type AppConfig struct {
	Port               string
	BaseURL            string
	Environment        string
	LogFilePath        string
	CorsAllowedOrigins string
}

type CorpusConfig struct {
	Dir           string
	WatchEnabled  bool
	WatchDebounce time.Duration
}

type SessionConfig struct {
	Enabled       bool
	MaxSessions   int
	IdleTimeout   time.Duration
	SweepInterval time.Duration
}

type RetrievalConfig struct {
	MaxComponents int
	MaxTopics     int
}

type AIConfig struct {
	Provider      string // "ollama" or "echo"
	Model         string // e.g. "llama3", "qwen2.5"
	OllamaBaseURL string
}

type AdminConfig struct {
	SettingsPath     string
	SettingsCacheTTL time.Duration
}

func Load() *Config {
	if err := godotenv.Load(); err != nil {
		log.Println("Note: .env file not found, using system environment")
	}

	return &Config{
		App: AppConfig{
			Port:               getEnv("APP_PORT", "3000"),
			BaseURL:            getEnv("APP_BASE_URL", "http://localhost:3000"),
			Environment:        getEnv("GO_ENV", "development"),
			LogFilePath:        getEnv("LOG_FILE_PATH", "logs/app.log"),
			CorsAllowedOrigins: getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		},
		Corpus: CorpusConfig{
			Dir:           getEnv("CORPUS_DIR", "./corpus"),
			WatchEnabled:  getEnvAsBool("CORPUS_WATCH_ENABLED", true),
			WatchDebounce: getEnvAsDuration("CORPUS_WATCH_DEBOUNCE", 500*time.Millisecond),
		},
		Session: SessionConfig{
			Enabled:       getEnvAsBool("SESSION_MODE_ENABLED", true),
			MaxSessions:   getEnvAsInt("SESSION_MAX", 5),
			IdleTimeout:   getEnvAsDuration("SESSION_IDLE_TIMEOUT", 10*time.Minute),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", time.Minute),
		},
		Retrieval: RetrievalConfig{
			MaxComponents: getEnvAsInt("RETRIEVAL_MAX_COMPONENTS", 5),
			MaxTopics:     getEnvAsInt("RETRIEVAL_MAX_TOPICS", 3),
		},
		Ai: AIConfig{
			Provider:      getEnv("LLM_PROVIDER", "ollama"),
			Model:         getEnv("LLM_MODEL", "llama3"),
			OllamaBaseURL: getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
		},
		Admin: AdminConfig{
			SettingsPath:     getEnv("ADMIN_SETTINGS_PATH", "assistant.yaml"),
			SettingsCacheTTL: getEnvAsDuration("ADMIN_SETTINGS_CACHE_TTL", 30*time.Second),
		},
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	strValue := getEnv(key, "")
	if value, err := strconv.Atoi(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsBool(key string, fallback bool) bool {
	strValue := getEnv(key, "")
	if value, err := strconv.ParseBool(strValue); err == nil {
		return value
	}
	return fallback
}

func getEnvAsDuration(key string, fallback time.Duration) time.Duration {
	strValue := getEnv(key, "")
	if value, err := time.ParseDuration(strValue); err == nil {
		return value
	}
	return fallback
}
