package model

import (
	"os"
	"path/filepath"
	"time"
)

// Config holds the complete Fabula configuration
type Config struct {
	Columns      ColumnConfig    `yaml:"columns"`
	Retry        RetryConfig     `yaml:"retry"`
	RateLimiting RateLimitConfig `yaml:"rate_limiting"`
	Cache        CacheConfig     `yaml:"cache"`
	Output       OutputConfig    `yaml:"output"`
	LLM          LLMConfig       `yaml:"llm"`
}

// ColumnConfig names the table columns the pipeline reads and writes
type ColumnConfig struct {
	// Narrative is the required input column
	Narrative string `yaml:"narrative"`

	// Annotation is the per-row role/event annotation column (written)
	Annotation string `yaml:"annotation"`

	// Persistence is the pairwise element-persistence column (written)
	Persistence string `yaml:"persistence"`
}

// RetryConfig controls the per-request retry loop
type RetryConfig struct {
	// MaxAttempts is the total number of attempts per request (minimum 1)
	MaxAttempts int `yaml:"max_attempts"`

	// Backoff is the linear backoff unit: the sleep before retry n is
	// Backoff * n
	Backoff time.Duration `yaml:"backoff"`
}

// RateLimitConfig paces requests against the generation API
type RateLimitConfig struct {
	// RequestsPerSecond limits API calls (0 = unlimited)
	RequestsPerSecond float64 `yaml:"requests_per_second"`

	// BurstSize is the limiter burst capacity
	BurstSize int `yaml:"burst_size"`
}

// CacheConfig controls the optional LLM response cache
type CacheConfig struct {
	// Enabled turns response caching on. Disabled by default: a fresh run
	// recomputes every annotation and comparison.
	Enabled bool `yaml:"enabled"`

	// Dir is the disk cache directory
	Dir string `yaml:"dir"`

	// TTL is how long cached responses stay valid
	TTL time.Duration `yaml:"ttl"`
}

// OutputConfig controls CLI output behavior
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// LLMConfig holds generation provider settings
type LLMConfig struct {
	// Provider name: "openai", "anthropic", "ollama"
	Provider string `yaml:"provider"`

	// Model name (provider-specific)
	Model string `yaml:"model"`

	// APIKey for OpenAI/Anthropic (usually from environment)
	APIKey string `yaml:"api_key,omitempty"`

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string `yaml:"base_url,omitempty"`

	// Timeout for a single API request, in seconds
	Timeout int `yaml:"timeout"`

	// MaxTokens limits the response length
	MaxTokens int `yaml:"max_tokens"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		Columns: ColumnConfig{
			Narrative:   "Narrative",
			Annotation:  "Narrative_roles_and_salient_elements",
			Persistence: "Elements_persistence",
		},
		Retry: RetryConfig{
			MaxAttempts: 3,
			Backoff:     time.Second,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 0, // unlimited
			BurstSize:         1,
		},
		Cache: CacheConfig{
			Enabled: false,
			Dir:     defaultCacheDir(),
			TTL:     7 * 24 * time.Hour,
		},
		Output: OutputConfig{
			Verbose: false,
		},
		LLM: LLMConfig{
			Provider:  "anthropic",
			Model:     "claude-3-5-sonnet-20241022",
			Timeout:   60,
			MaxTokens: 1000,
		},
	}
}

func defaultCacheDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".fabula-cache"
	}
	return filepath.Join(home, ".fabula", "cache")
}
