package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	LogLevel            string
	DBPath              string
	LichessBaseURL      string
	LichessToken        string
	EvalDepth           int
	EvalMaxRetries      int
	EvalCacheSize       int
	MaxConcurrentEval   int // 0 = derive from token presence
	HTTPTimeoutSeconds  int // 0 = derive from token presence
	AnalysisWorkerCount int
	AnalysisQueueSize   int
	MetricsEnabled      bool
	ResearchEnabled     bool
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8000"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		DBPath:              envOr("DB_PATH", "file:replaylens.db"),
		LichessBaseURL:      envOr("LICHESS_BASE_URL", "https://lichess.org"),
		LichessToken:        envOr("LICHESS_TOKEN", ""),
		EvalDepth:           envIntOr("EVAL_DEPTH", 15),
		EvalMaxRetries:      envIntOr("EVAL_MAX_RETRIES", 2),
		EvalCacheSize:       envIntOr("EVAL_CACHE_SIZE", 4096),
		MaxConcurrentEval:   envIntOr("MAX_CONCURRENT_EVAL", 0),
		HTTPTimeoutSeconds:  envIntOr("HTTP_TIMEOUT_SECONDS", 0),
		AnalysisWorkerCount: envIntOr("ANALYSIS_WORKER_COUNT", 2),
		AnalysisQueueSize:   envIntOr("ANALYSIS_QUEUE_SIZE", 64),
		MetricsEnabled:      envBoolOr("METRICS_ENABLED", true),
		ResearchEnabled:     envBoolOr("RESEARCH_ENABLED", false),
	}
}

// EvalConcurrency resolves the fan-out limit: token holders get a higher
// ceiling before the remote service throttles.
func (c Config) EvalConcurrency() int {
	if c.MaxConcurrentEval > 0 {
		return c.MaxConcurrentEval
	}
	if c.LichessToken != "" {
		return 20
	}
	return 5
}

// HTTPTimeout resolves the per-request timeout in seconds. Anonymous callers
// get a longer window since the remote service deprioritizes them.
func (c Config) HTTPTimeout() int {
	if c.HTTPTimeoutSeconds > 0 {
		return c.HTTPTimeoutSeconds
	}
	if c.LichessToken != "" {
		return 15
	}
	return 30
}

// Validate checks the loaded configuration for values that would make the
// service unusable, collecting every problem into one error.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.LichessBaseURL == "" {
		problems = append(problems, "LICHESS_BASE_URL cannot be empty")
	}
	if c.EvalDepth < 1 || c.EvalDepth > 30 {
		problems = append(problems, fmt.Sprintf("EVAL_DEPTH must be between 1 and 30, got %d", c.EvalDepth))
	}
	if c.EvalMaxRetries < 0 {
		problems = append(problems, fmt.Sprintf("EVAL_MAX_RETRIES cannot be negative, got %d", c.EvalMaxRetries))
	}
	if c.MaxConcurrentEval < 0 {
		problems = append(problems, fmt.Sprintf("MAX_CONCURRENT_EVAL cannot be negative, got %d", c.MaxConcurrentEval))
	}
	if c.AnalysisWorkerCount < 1 {
		problems = append(problems, fmt.Sprintf("ANALYSIS_WORKER_COUNT must be at least 1, got %d", c.AnalysisWorkerCount))
	}
	if c.AnalysisQueueSize < 1 {
		problems = append(problems, fmt.Sprintf("ANALYSIS_QUEUE_SIZE must be at least 1, got %d", c.AnalysisQueueSize))
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL must be one of DEBUG, INFO, WARN, ERROR, got %q", c.LogLevel))
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %t", key, v, def)
	}
	return def
}
