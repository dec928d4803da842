package config_test

import (
	"os"
	"testing"

	"github.com/replaylens/replaylens/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":8000",
		LogLevel:            "INFO",
		DBPath:              "test.db",
		LichessBaseURL:      "https://lichess.org",
		EvalDepth:           15,
		EvalMaxRetries:      2,
		EvalCacheSize:       1024,
		AnalysisWorkerCount: 2,
		AnalysisQueueSize:   64,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()
	assert.NoError(t, cfg.Validate())
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyBaseURL(t *testing.T) {
	cfg := validConfig()
	cfg.LichessBaseURL = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LICHESS_BASE_URL cannot be empty")
}

func TestValidate_InvalidEvalDepth(t *testing.T) {
	tests := []struct {
		name  string
		depth int
	}{
		{name: "zero depth", depth: 0},
		{name: "depth too high", depth: 31},
		{name: "negative depth", depth: -1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.EvalDepth = tt.depth

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), "EVAL_DEPTH")
		})
	}
}

func TestValidate_InvalidWorkerSettings(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero workers",
			mutate:        func(c *config.Config) { c.AnalysisWorkerCount = 0 },
			expectedError: "ANALYSIS_WORKER_COUNT",
		},
		{
			name:          "negative workers",
			mutate:        func(c *config.Config) { c.AnalysisWorkerCount = -1 },
			expectedError: "ANALYSIS_WORKER_COUNT",
		},
		{
			name:          "zero queue",
			mutate:        func(c *config.Config) { c.AnalysisQueueSize = 0 },
			expectedError: "ANALYSIS_QUEUE_SIZE",
		},
		{
			name:          "negative retries",
			mutate:        func(c *config.Config) { c.EvalMaxRetries = -1 },
			expectedError: "EVAL_MAX_RETRIES",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_LogLevels(t *testing.T) {
	for _, level := range []string{"DEBUG", "INFO", "WARN", "ERROR", "debug"} {
		t.Run(level, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = level
			assert.NoError(t, cfg.Validate())
		})
	}

	cfg := validConfig()
	cfg.LogLevel = "INVALID"
	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "LOG_LEVEL")
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		Addr:     "",
		LogLevel: "INVALID",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "LICHESS_BASE_URL cannot be empty")
	assert.Contains(t, errStr, "EVAL_DEPTH")
	assert.Contains(t, errStr, "ANALYSIS_WORKER_COUNT")
	assert.Contains(t, errStr, "ANALYSIS_QUEUE_SIZE")
	assert.Contains(t, errStr, "LOG_LEVEL")
}

func TestEvalConcurrency(t *testing.T) {
	tests := []struct {
		name     string
		cfg      config.Config
		expected int
	}{
		{
			name:     "explicit override wins",
			cfg:      config.Config{MaxConcurrentEval: 8, LichessToken: "tok"},
			expected: 8,
		},
		{
			name:     "token raises the limit",
			cfg:      config.Config{LichessToken: "tok"},
			expected: 20,
		},
		{
			name:     "anonymous stays conservative",
			cfg:      config.Config{},
			expected: 5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.cfg.EvalConcurrency())
		})
	}
}

func TestHTTPTimeout(t *testing.T) {
	assert.Equal(t, 15, config.Config{LichessToken: "tok"}.HTTPTimeout())
	assert.Equal(t, 30, config.Config{}.HTTPTimeout())
	assert.Equal(t, 45, config.Config{HTTPTimeoutSeconds: 45}.HTTPTimeout())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	originalAddr := os.Getenv("ADDR")
	originalToken := os.Getenv("LICHESS_TOKEN")

	defer func() {
		if originalAddr != "" {
			os.Setenv("ADDR", originalAddr)
		} else {
			os.Unsetenv("ADDR")
		}
		if originalToken != "" {
			os.Setenv("LICHESS_TOKEN", originalToken)
		} else {
			os.Unsetenv("LICHESS_TOKEN")
		}
	}()

	os.Setenv("ADDR", ":9090")
	os.Setenv("LICHESS_TOKEN", "lip_test")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "lip_test", cfg.LichessToken)
	assert.Equal(t, "https://lichess.org", cfg.LichessBaseURL)
}
