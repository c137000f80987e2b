package model

import "time"

// Config is the full runtime configuration, assembled from defaults, the
// config file (~/.axiom/config.yaml), AXIOM_* environment variables and
// CLI flags, in ascending priority.
type Config struct {
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Scenario    ScenarioConfig    `yaml:"scenario" mapstructure:"scenario"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// LLMConfig configures the optional natural-language parsing helper.
// When Provider is empty the engine uses its deterministic heuristic
// parser and works fully offline.
type LLMConfig struct {
	Provider          string  `yaml:"provider" mapstructure:"provider"` // openai, anthropic, ollama, ""
	Model             string  `yaml:"model" mapstructure:"model"`
	APIKey            string  `yaml:"-" mapstructure:"-"` // From env only, never written to disk
	BaseURL           string  `yaml:"base_url,omitempty" mapstructure:"base_url"`
	TimeoutSeconds    int     `yaml:"timeout_seconds" mapstructure:"timeout_seconds"`
	MaxTokens         int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// CacheConfig controls the layered analysis cache
type CacheConfig struct {
	Enabled   bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir       string        `yaml:"dir" mapstructure:"dir"` // Disk layer location; empty disables disk layer
	MemoryTTL time.Duration `yaml:"memory_ttl" mapstructure:"memory_ttl"`
	DiskTTL   time.Duration `yaml:"disk_ttl" mapstructure:"disk_ttl"`
}

// ConcurrencyConfig sizes the batch worker pool
type ConcurrencyConfig struct {
	AnalysisWorkers int `yaml:"analysis_workers" mapstructure:"analysis_workers"`
}

// ScenarioConfig controls scenario generation
type ScenarioConfig struct {
	MaxTemplates int    `yaml:"max_templates" mapstructure:"max_templates"` // Top-N templates by priority
	MaxGenerated int    `yaml:"max_generated" mapstructure:"max_generated"` // Cap on contract-derived scenarios
	PlaybookPath string `yaml:"playbook,omitempty" mapstructure:"playbook"` // Optional YAML playbook
}

// OutputConfig controls rendering
type OutputConfig struct {
	Verbose       bool `yaml:"verbose" mapstructure:"verbose"`
	IncludeFooter bool `yaml:"include_footer" mapstructure:"include_footer"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider:          "",
			TimeoutSeconds:    30,
			MaxTokens:         1000,
			RequestsPerSecond: 2,
			Burst:             4,
		},
		Cache: CacheConfig{
			Enabled:   true,
			MemoryTTL: 30 * time.Minute,
			DiskTTL:   24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			AnalysisWorkers: 4,
		},
		Scenario: ScenarioConfig{
			MaxTemplates: 5,
			MaxGenerated: 3,
		},
		Output: OutputConfig{
			IncludeFooter: true,
		},
	}
}
