package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"

	"conference-worker/internal/services"
)

// Prefix of every environment variable read by the worker
const Prefix = "CONFWORKER"

// Config holds the worker configuration.
// Environment variables are read with the CONFWORKER_ prefix,
// e.g. CONFWORKER_UPSTREAM_URL, CONFWORKER_MODEL_PROVIDER.
type Config struct {
	// Upstream feed: an http(s) URL or s3://bucket/key
	UpstreamURL string `envconfig:"UPSTREAM_URL" default:"https://androidstudygroup.github.io/conferences/upcoming.json"`

	// Outbound network bounds
	ConnectTimeout time.Duration `envconfig:"CONNECT_TIMEOUT" default:"20s"`
	HTTPTimeout    time.Duration `envconfig:"HTTP_TIMEOUT" default:"20s"`

	// Model capability
	ModelProvider string `envconfig:"MODEL_PROVIDER" default:"none"`
	ModelName     string `envconfig:"MODEL_NAME" default:"@cf/meta/llama-3-8b-instruct"`
	ModelBaseURL  string `envconfig:"MODEL_BASE_URL" default:""`
	ModelAPIKey   string `envconfig:"MODEL_API_KEY" default:""`
	ModelFunction string `envconfig:"MODEL_FUNCTION" default:""`

	AWSRegion string `envconfig:"AWS_REGION" default:""`

	// HTTP surface
	HTTPPort       int      `envconfig:"HTTP_PORT" default:"8080"`
	CacheMaxAge    int      `envconfig:"CACHE_MAX_AGE" default:"600"`
	AllowedOrigins []string `envconfig:"ALLOWED_ORIGINS" default:"*"`

	// Lambda event payload: "v1" (REST API) or "v2" (HTTP API, Function URL)
	LambdaEventFormat string `envconfig:"LAMBDA_EVENT_FORMAT" default:"v1"`

	FlagSize int    `envconfig:"FLAG_SIZE" default:"80"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`
}

// New reads the configuration from the environment and validates it
func New() (*Config, error) {
	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "failed to process environment variables")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks provider settings and numeric bounds
func (c *Config) Validate() error {
	if c.UpstreamURL == "" {
		return fmt.Errorf("UPSTREAM_URL must not be empty")
	}
	if services.IsS3URI(c.UpstreamURL) {
		if _, _, err := services.ParseS3URI(c.UpstreamURL); err != nil {
			return fmt.Errorf("invalid UPSTREAM_URL: %w", err)
		}
	}

	switch c.ModelProvider {
	case "", services.ModelProviderNone:
	case services.ModelProviderOpenAI:
		if c.ModelAPIKey == "" {
			return fmt.Errorf("MODEL_API_KEY is required for model provider %q", c.ModelProvider)
		}
	case services.ModelProviderLambda:
		if c.ModelFunction == "" {
			return fmt.Errorf("MODEL_FUNCTION is required for model provider %q", c.ModelProvider)
		}
	default:
		return fmt.Errorf("unsupported MODEL_PROVIDER: %s", c.ModelProvider)
	}

	if c.LambdaEventFormat != "" && c.LambdaEventFormat != "v1" && c.LambdaEventFormat != "v2" {
		return fmt.Errorf("unsupported LAMBDA_EVENT_FORMAT: %s", c.LambdaEventFormat)
	}
	if c.ConnectTimeout <= 0 || c.HTTPTimeout <= 0 {
		return fmt.Errorf("timeouts must be positive")
	}
	if c.CacheMaxAge < 0 {
		return fmt.Errorf("CACHE_MAX_AGE must not be negative")
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		return fmt.Errorf("invalid HTTP_PORT: %d", c.HTTPPort)
	}
	return nil
}

// ModelSettings returns the model section for the service factory
func (c *Config) ModelSettings() services.ModelSettings {
	return services.ModelSettings{
		Provider:     c.ModelProvider,
		Name:         c.ModelName,
		BaseURL:      c.ModelBaseURL,
		APIKey:       c.ModelAPIKey,
		FunctionName: c.ModelFunction,
		Region:       c.AWSRegion,
	}
}

// NewForTesting returns defaults without reading the environment
func NewForTesting() *Config {
	return &Config{
		UpstreamURL:       services.DefaultUpstreamURL,
		ConnectTimeout:    services.DefaultConnectTimeout,
		HTTPTimeout:       services.DefaultRequestTimeout,
		ModelProvider:     services.ModelProviderNone,
		ModelName:         services.DefaultModelName,
		HTTPPort:          8080,
		CacheMaxAge:       600,
		AllowedOrigins:    []string{"*"},
		LambdaEventFormat: "v1",
		FlagSize:          services.DefaultFlagSize,
		LogLevel:          "info",
	}
}
