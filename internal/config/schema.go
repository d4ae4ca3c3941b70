package config

import (
	"fmt"
	"log/slog"
)

// Config holds fitcheck configuration.
// Stored at: ~/.fitcheck/config.yaml
type Config struct {
	Server       ServerCfg                 `mapstructure:"server" yaml:"server" json:"server"`
	Logging      LoggingCfg                `mapstructure:"logging" yaml:"logging" json:"logging"`
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers" json:"llm_providers"`
	Pipeline     PipelineCfg               `mapstructure:"pipeline" yaml:"pipeline" json:"pipeline"`
}

// ServerCfg configures the HTTP listener.
type ServerCfg struct {
	Host string `mapstructure:"host" yaml:"host" json:"host"`
	Port string `mapstructure:"port" yaml:"port" json:"port"`
}

// LoggingCfg configures the slog handler.
type LoggingCfg struct {
	Level string `mapstructure:"level" yaml:"level" json:"level"` // "debug", "info", "warn", "error"
}

// SlogLevel maps the configured level name to a slog.Level.
// Unknown names fall back to info.
func (l LoggingCfg) SlogLevel() slog.Level {
	switch l.Level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type      string  `mapstructure:"type" yaml:"type" json:"type"`                                // "openrouter", "openai"
	Model     string  `mapstructure:"model" yaml:"model" json:"model"`                             // Default model name
	APIKey    string  `mapstructure:"api_key" yaml:"api_key" json:"api_key"`                       // API key (supports ${ENV_VAR} syntax)
	BaseURL   string  `mapstructure:"base_url" yaml:"base_url,omitempty" json:"base_url,omitempty"` // Optional endpoint override
	RateLimit float64 `mapstructure:"rate_limit" yaml:"rate_limit" json:"rate_limit"`              // Requests per second
	Enabled   bool    `mapstructure:"enabled" yaml:"enabled" json:"enabled"`
}

// PipelineCfg configures the two-stage analysis pipeline.
type PipelineCfg struct {
	Provider        string `mapstructure:"provider" yaml:"provider" json:"provider"`                            // llm_providers entry to use
	VisionModel     string `mapstructure:"vision_model" yaml:"vision_model" json:"vision_model"`                // Stage 1 model
	TextModel       string `mapstructure:"text_model" yaml:"text_model" json:"text_model"`                      // Stage 2 model
	VisionMaxTokens int    `mapstructure:"vision_max_tokens" yaml:"vision_max_tokens" json:"vision_max_tokens"` // Stage 1 completion budget
	TextMaxTokens   int    `mapstructure:"text_max_tokens" yaml:"text_max_tokens" json:"text_max_tokens"`       // Stage 2 completion budget
	Strict          bool   `mapstructure:"strict" yaml:"strict" json:"strict"`                                  // Run the sanitizer after normalization
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Server: ServerCfg{
			Host: "127.0.0.1",
			Port: "8080",
		},
		Logging: LoggingCfg{
			Level: "info",
		},
		LLMProviders: map[string]LLMProviderCfg{
			"openrouter": {
				Type:      "openrouter",
				Model:     "allenai/molmo-2-8b:free",
				APIKey:    "${OPENROUTER_API_KEY}",
				RateLimit: 1.0,
				Enabled:   true,
			},
		},
		Pipeline: PipelineCfg{
			Provider:        "openrouter",
			VisionModel:     "allenai/molmo-2-8b:free",
			TextModel:       "allenai/molmo-2-8b:free",
			VisionMaxTokens: 400,
			TextMaxTokens:   600,
			Strict:          true,
		},
	}
}

// GetLLMProvider returns an LLM provider config by name.
func (c *Config) GetLLMProvider(name string) (LLMProviderCfg, bool) {
	cfg, ok := c.LLMProviders[name]
	return cfg, ok
}

// EnabledLLMProviders returns all enabled LLM providers.
func (c *Config) EnabledLLMProviders() map[string]LLMProviderCfg {
	result := make(map[string]LLMProviderCfg)
	for name, cfg := range c.LLMProviders {
		if cfg.Enabled {
			result[name] = cfg
		}
	}
	return result
}

// Validate checks the parts of the configuration that must hold before
// the server starts serving: every enabled provider must resolve to a
// non-empty API key, and the pipeline must reference an enabled provider.
func (c *Config) Validate() error {
	for name, llm := range c.LLMProviders {
		if !llm.Enabled {
			continue
		}
		if ResolveEnvVars(llm.APIKey) == "" {
			return fmt.Errorf("llm provider %q: api_key %q resolves to empty", name, llm.APIKey)
		}
	}

	prov, ok := c.LLMProviders[c.Pipeline.Provider]
	if !ok {
		return fmt.Errorf("pipeline.provider %q is not configured under llm_providers", c.Pipeline.Provider)
	}
	if !prov.Enabled {
		return fmt.Errorf("pipeline.provider %q is disabled", c.Pipeline.Provider)
	}

	return nil
}
