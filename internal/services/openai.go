package services

import (
	"context"
	"fmt"
	"net/http"

	"github.com/sashabaranov/go-openai"
)

// OpenAIModel runs prompts against any OpenAI-compatible chat completion
// endpoint, e.g. Workers AI at https://api.cloudflare.com/client/v4/accounts/<id>/ai/v1
type OpenAIModel struct {
	client      *openai.Client
	model       string
	temperature float32
	maxTokens   int
}

// OpenAIModelConfig holds the settings of an OpenAI-compatible model
type OpenAIModelConfig struct {
	APIKey      string
	BaseURL     string // empty means api.openai.com
	Model       string
	Temperature float32
	MaxTokens   int
}

// NewOpenAIModel creates a model runner sharing the given HTTP client
func NewOpenAIModel(httpClient *http.Client, cfg OpenAIModelConfig) (*OpenAIModel, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("model API key is required")
	}

	clientConfig := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}
	if httpClient != nil {
		clientConfig.HTTPClient = httpClient
	}

	model := cfg.Model
	if model == "" {
		model = DefaultModelName
	}
	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 512
	}

	return &OpenAIModel{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       model,
		temperature: cfg.Temperature,
		maxTokens:   maxTokens,
	}, nil
}

// Model returns the configured model name
func (o *OpenAIModel) Model() string {
	return o.model
}

// Run sends the prompt as a single user message
func (o *OpenAIModel) Run(ctx context.Context, prompt string) (ModelResult, error) {
	resp, err := o.client.CreateChatCompletion(
		ctx,
		openai.ChatCompletionRequest{
			Model:       o.model,
			Temperature: o.temperature,
			MaxTokens:   o.maxTokens,
			Messages: []openai.ChatCompletionMessage{
				{
					Role:    openai.ChatMessageRoleUser,
					Content: prompt,
				},
			},
		},
	)
	if err != nil {
		return ModelResult{}, NewError(KindModelError, "run model", fmt.Errorf("chat completion request failed: %w", err))
	}

	if len(resp.Choices) == 0 {
		return ModelResult{}, NewError(KindModelError, "run model", fmt.Errorf("no response choices from model"))
	}

	return TextResult(resp.Choices[0].Message.Content), nil
}
