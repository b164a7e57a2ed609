package services

import (
	"context"
	"fmt"
	"net/http"

	lambdaclient "github.com/aws/aws-sdk-go-v2/service/lambda"
)

// Model providers
const (
	ModelProviderNone   = "none"
	ModelProviderOpenAI = "openai"
	ModelProviderLambda = "lambda"
)

// ModelSettings selects and configures the model capability
type ModelSettings struct {
	Provider     string
	Name         string
	BaseURL      string
	APIKey       string
	FunctionName string
	Region       string
}

// NewModelRunner builds the configured model runner. It returns a nil runner
// and no error when no provider is configured; summary requests then fail
// with a model-unavailable error without touching the network.
func NewModelRunner(ctx context.Context, settings ModelSettings, httpClient *http.Client) (ModelRunner, error) {
	switch settings.Provider {
	case "", ModelProviderNone:
		return nil, nil
	case ModelProviderOpenAI:
		model, err := NewOpenAIModel(httpClient, OpenAIModelConfig{
			APIKey:  settings.APIKey,
			BaseURL: settings.BaseURL,
			Model:   settings.Name,
		})
		if err != nil {
			return nil, err
		}
		return model, nil
	case ModelProviderLambda:
		cfg, err := LoadAWSConfig(ctx, settings.Region, httpClient)
		if err != nil {
			return nil, err
		}
		model, err := NewLambdaModel(lambdaclient.NewFromConfig(cfg), settings.FunctionName)
		if err != nil {
			return nil, err
		}
		return model, nil
	default:
		return nil, fmt.Errorf("unsupported model provider: %s", settings.Provider)
	}
}
