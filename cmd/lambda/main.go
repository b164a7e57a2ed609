package main

import (
	"context"
	"os"

	"github.com/aws/aws-lambda-go/lambda"

	"conference-worker/internal/api"
	"conference-worker/internal/config"
	"conference-worker/internal/logger"
)

// main is the entry point for the Lambda function
func main() {
	cfg, err := config.New()
	if err != nil {
		log := logger.New("conference-worker", "info")
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	log := logger.New("conference-worker", cfg.LogLevel)

	// No scrape endpoint exists inside Lambda, so metrics stay disabled
	dispatcher, err := api.Build(context.Background(), cfg, log, nil)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize dispatcher")
	}

	allowOrigin := "*"
	if len(cfg.AllowedOrigins) > 0 {
		allowOrigin = cfg.AllowedOrigins[0]
	}
	handler := api.NewLambdaHandler(dispatcher, allowOrigin)

	log.Info().
		Str("event_format", cfg.LambdaEventFormat).
		Bool("summaries_enabled", dispatcher.HasModel()).
		Str("function", os.Getenv("AWS_LAMBDA_FUNCTION_NAME")).
		Msg("Lambda function starting")

	if cfg.LambdaEventFormat == "v2" {
		lambda.Start(handler.HandleHTTPRequest)
		return
	}
	lambda.Start(handler.HandleProxyRequest)
}
