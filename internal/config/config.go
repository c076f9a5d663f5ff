package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
)

type AppConfig struct {
	OpenAIBaseURL string
	OpenAIAPIKey  string
	Model         string

	RedisURL    string
	DatabaseURL string

	SolverTimeoutSec  int
	SolverTemperature float64
	CacheTTLSec       int

	PromptDir string
}

func Load() (*AppConfig, error) {
	cfg := &AppConfig{
		OpenAIBaseURL:     "https://api.openai.com/v1",
		Model:             "deepseek-chat",
		SolverTimeoutSec:  120,
		SolverTemperature: 0.5,
		CacheTTLSec:       0,
	}

	if v := strings.TrimSpace(os.Getenv("OPENAI_BASE_URL")); v != "" {
		cfg.OpenAIBaseURL = v
	}
	cfg.OpenAIAPIKey = strings.TrimSpace(os.Getenv("OPENAI_API_KEY"))
	if v := strings.TrimSpace(os.Getenv("BENCH_MODEL")); v != "" {
		cfg.Model = v
	}

	cfg.RedisURL = strings.TrimSpace(os.Getenv("REDIS_URL"))
	cfg.DatabaseURL = strings.TrimSpace(os.Getenv("DATABASE_URL"))

	if v := strings.TrimSpace(os.Getenv("SOLVER_TIMEOUT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.SolverTimeoutSec = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SOLVER_TEMPERATURE")); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f >= 0 {
			cfg.SolverTemperature = f
		}
	}
	if v := strings.TrimSpace(os.Getenv("SOLVER_CACHE_TTL")); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.CacheTTLSec = n
		}
	}

	cfg.PromptDir = strings.TrimSpace(os.Getenv("PROMPT_DIR"))

	if cfg.OpenAIAPIKey == "" {
		return nil, errors.New("OPENAI_API_KEY is required")
	}

	return cfg, nil
}
