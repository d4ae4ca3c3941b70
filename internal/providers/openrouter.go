package providers

import (
	"net/http"
	"time"
)

const (
	OpenRouterName    = "openrouter"
	OpenRouterBaseURL = "https://openrouter.ai/api/v1"

	// OpenRouterDefaultModel is the lightweight vision-capable model used
	// for both analysis stages unless configured otherwise.
	OpenRouterDefaultModel = "allenai/molmo-2-8b:free"
)

// OpenRouterConfig holds configuration for the OpenRouter client.
type OpenRouterConfig struct {
	APIKey       string
	BaseURL      string
	DefaultModel string
	Timeout      time.Duration
	RPS          float64      // Locally admitted requests per second (default: 1)
	HTTPClient   *http.Client // Optional (tests)
}

// OpenRouterClient implements LLMClient using the OpenRouter API.
// Every Chat call makes exactly one HTTP attempt.
type OpenRouterClient struct {
	apiKey       string
	baseURL      string
	defaultModel string
	client       *http.Client
	limiter      *RateLimiter
	rps          float64
}

// NewOpenRouterClient creates a new OpenRouter client.
func NewOpenRouterClient(cfg OpenRouterConfig) *OpenRouterClient {
	if cfg.BaseURL == "" {
		cfg.BaseURL = OpenRouterBaseURL
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = OpenRouterDefaultModel
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = 120 * time.Second
	}
	if cfg.RPS == 0 {
		cfg.RPS = 1.0
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	return &OpenRouterClient{
		apiKey:       cfg.APIKey,
		baseURL:      cfg.BaseURL,
		defaultModel: cfg.DefaultModel,
		client:       httpClient,
		limiter:      NewRateLimiter(int(cfg.RPS * 60)),
		rps:          cfg.RPS,
	}
}

// Name returns the client identifier.
func (c *OpenRouterClient) Name() string {
	return OpenRouterName
}

// RequestsPerSecond returns the locally admitted request rate.
func (c *OpenRouterClient) RequestsPerSecond() float64 {
	return c.rps
}

// LimiterStatus reports the admission limiter's current state.
func (c *OpenRouterClient) LimiterStatus() RateLimiterStatus {
	return c.limiter.Status()
}

// Verify interface
var _ LLMClient = (*OpenRouterClient)(nil)
