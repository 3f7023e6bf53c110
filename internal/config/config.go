package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/dgallion1/studymap/internal/llm"
	"github.com/dgallion1/studymap/internal/roadmap"
)

type Config struct {
	Port string

	// Completion service
	LLMAPIKey      string
	LLMBaseURL     string
	LLMModel       string
	LLMMaxTokens   int
	LLMTemperature float64
	LLMTimeout     time.Duration
	LLMStatsWindow time.Duration

	// Roadmap expansion
	FanOut        int
	TopicPolicy   string
	ParentContext bool

	// CORS
	AllowedOrigins []string
}

func Load() Config {
	cfg := Config{
		Port: envOr("PORT", "8000"),

		LLMAPIKey:      envOr("LLM_API_KEY", os.Getenv("GROQ_API_KEY")),
		LLMBaseURL:     envOr("LLM_BASE_URL", "https://api.groq.com/openai/v1"),
		LLMModel:       envOr("LLM_MODEL", "openai/gpt-oss-120b"),
		LLMMaxTokens:   envInt("LLM_MAX_TOKENS", 500),
		LLMTemperature: envFloat("LLM_TEMPERATURE", 0.4),
		LLMTimeout:     envDuration("LLM_TIMEOUT", 60*time.Second),
		LLMStatsWindow: envDuration("LLM_STATS_WINDOW", time.Hour),

		FanOut:        envInt("ROADMAP_FAN_OUT", roadmap.DefaultFanOut),
		TopicPolicy:   envOr("ROADMAP_TOPIC_POLICY", string(roadmap.PolicyLast)),
		ParentContext: envBool("ROADMAP_PARENT_CONTEXT", true),

		AllowedOrigins: envList("ALLOWED_ORIGINS", []string{
			"http://localhost:5173",
			"http://127.0.0.1:5173",
		}),
	}

	if cfg.LLMMaxTokens <= 0 {
		cfg.LLMMaxTokens = 500
	}
	if cfg.LLMTimeout <= 0 {
		cfg.LLMTimeout = 60 * time.Second
	}
	if cfg.LLMStatsWindow <= 0 {
		cfg.LLMStatsWindow = time.Hour
	}

	return cfg
}

func (c Config) Validate() error {
	if c.LLMAPIKey == "" {
		return fmt.Errorf("LLM_API_KEY (or GROQ_API_KEY) is required")
	}
	if c.LLMBaseURL == "" {
		return fmt.Errorf("LLM_BASE_URL must not be empty")
	}
	if c.LLMTemperature < 0 || c.LLMTemperature > 2 {
		return fmt.Errorf("LLM_TEMPERATURE must be between 0 and 2, got %g", c.LLMTemperature)
	}
	if c.FanOut < 0 || c.FanOut > roadmap.MaxTopics {
		return fmt.Errorf("ROADMAP_FAN_OUT must be between 0 and %d, got %d", roadmap.MaxTopics, c.FanOut)
	}
	if _, err := roadmap.ParseTopicPolicy(c.TopicPolicy); err != nil {
		return fmt.Errorf("ROADMAP_TOPIC_POLICY: %w", err)
	}
	return nil
}

// LLM returns the completion client settings.
func (c Config) LLM() llm.Options {
	return llm.Options{
		APIKey:      c.LLMAPIKey,
		BaseURL:     c.LLMBaseURL,
		Model:       c.LLMModel,
		MaxTokens:   c.LLMMaxTokens,
		Temperature: c.LLMTemperature,
		Timeout:     c.LLMTimeout,
		StatsWindow: c.LLMStatsWindow,
	}
}

// Roadmap returns the builder settings. Call Validate first.
func (c Config) Roadmap() roadmap.Options {
	policy, err := roadmap.ParseTopicPolicy(c.TopicPolicy)
	if err != nil {
		policy = roadmap.PolicyLast
	}
	return roadmap.Options{
		FanOut:        c.FanOut,
		Policy:        policy,
		ParentContext: c.ParentContext,
	}
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envFloat(key string, fallback float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

// envList reads a comma-separated list, dropping empty entries.
func envList(key string, fallback []string) []string {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	var out []string
	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
