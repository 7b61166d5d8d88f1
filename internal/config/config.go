package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	ProviderGemini = "gemini"
	ProviderOllama = "ollama"
)

type Config struct {
	// Server
	Port string
	Env  string

	// Generation provider
	AIProvider       string
	AIRequestsPerMin int
	AIConcurrentReqs int

	// Gemini AI
	GeminiAPIKey string
	GeminiModel  string

	// Ollama
	OllamaHost  string
	OllamaModel string

	// Content
	ProfilePath  string
	ProjectsPath string

	// Redis (optional, shared rate-limit counters)
	RedisURL string

	// Assistant rate limiting (per client IP)
	AssistantRateLimit  int
	AssistantRateWindow time.Duration

	// Frontend
	FrontendURL string
}

func Load() *Config {
	// Load .env file if it exists
	godotenv.Load()

	provider := strings.ToLower(getEnvOrDefault("AI_PROVIDER", ProviderGemini))

	cfg := &Config{
		Port:                getEnvOrDefault("PORT", "8080"),
		Env:                 getEnvOrDefault("ENV", "development"),
		AIProvider:          provider,
		GeminiModel:         getEnvOrDefault("GEMINI_MODEL", "gemini-2.0-flash"),
		AIRequestsPerMin:    getEnvAsIntOrDefault("AI_REQUESTS_PER_MINUTE", 60),
		AIConcurrentReqs:    getEnvAsIntOrDefault("AI_CONCURRENT_REQUESTS", 5),
		OllamaHost:          getEnvOrDefault("OLLAMA_HOST", "http://localhost:11434"),
		OllamaModel:         getEnvOrDefault("OLLAMA_MODEL", "llama3.2"),
		ProfilePath:         getEnvOrDefault("PROFILE_PATH", "data/profile.yaml"),
		ProjectsPath:        getEnvOrDefault("PROJECTS_PATH", "data/projects.yaml"),
		RedisURL:            getEnvOrDefault("REDIS_URL", ""),
		AssistantRateLimit:  getEnvAsIntOrDefault("ASSISTANT_RATE_LIMIT", 20),
		AssistantRateWindow: time.Duration(getEnvAsIntOrDefault("ASSISTANT_RATE_WINDOW_SECONDS", 60)) * time.Second,
		FrontendURL:         getEnvOrDefault("FRONTEND_URL", "http://localhost:3000"),
	}

	// The API key is only needed when Gemini actually serves requests.
	if provider == ProviderGemini {
		cfg.GeminiAPIKey = mustGetEnv("GEMINI_API_KEY")
	}

	return cfg
}

// Validate rejects settings the server cannot start with.
func (c *Config) Validate() error {
	switch c.AIProvider {
	case ProviderGemini, ProviderOllama:
	default:
		return fmt.Errorf("unsupported AI_PROVIDER %q (want %q or %q)", c.AIProvider, ProviderGemini, ProviderOllama)
	}
	if c.AIConcurrentReqs < 1 {
		return fmt.Errorf("AI_CONCURRENT_REQUESTS must be positive, got %d", c.AIConcurrentReqs)
	}
	if c.AssistantRateLimit < 1 {
		return fmt.Errorf("ASSISTANT_RATE_LIMIT must be positive, got %d", c.AssistantRateLimit)
	}
	if c.AssistantRateWindow <= 0 {
		return fmt.Errorf("ASSISTANT_RATE_WINDOW_SECONDS must be positive")
	}
	return nil
}

func mustGetEnv(key string) string {
	val := os.Getenv(key)
	if val == "" {
		panic(fmt.Sprintf("required environment variable %s is not set", key))
	}
	return val
}

func getEnvOrDefault(key, defaultVal string) string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	return val
}

func getEnvAsIntOrDefault(key string, defaultVal int) int {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}
	return n
}
