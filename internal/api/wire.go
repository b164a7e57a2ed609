package api

import (
	"context"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"

	"conference-worker/internal/config"
	"conference-worker/internal/metrics"
	"conference-worker/internal/services"
)

// Build wires the dispatcher from configuration. The outbound HTTP client is
// created here once and shared by the upstream source and the model.
func Build(ctx context.Context, cfg *config.Config, logger zerolog.Logger, m *metrics.Metrics) (*Dispatcher, error) {
	httpClient := services.NewHTTPClient(cfg.ConnectTimeout, cfg.HTTPTimeout)

	source, err := services.NewConferenceSource(ctx, cfg.UpstreamURL, cfg.AWSRegion, httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create conference source")
	}

	model, err := services.NewModelRunner(ctx, cfg.ModelSettings(), httpClient)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create model runner")
	}

	transformer := services.NewConferenceTransformerWithFlagSize(logger, cfg.FlagSize)
	if m != nil {
		transformer.OnUnknownCountry = m.UnknownCountry
	}

	logger.Info().
		Fields(sourceFields(source)).
		Fields(modelFields(model)).
		Str("model_provider", cfg.ModelProvider).
		Dur("http_timeout", cfg.HTTPTimeout).
		Msg("Dispatcher configured")

	return NewDispatcher(DispatcherConfig{
		Source:      source,
		Transformer: transformer,
		Model:       model,
		Metrics:     m,
		Logger:      logger,
		CacheMaxAge: cfg.CacheMaxAge,
		CallTimeout: cfg.HTTPTimeout,
	}), nil
}

func sourceFields(source services.ConferenceSource) map[string]interface{} {
	switch s := source.(type) {
	case *services.HTTPConferenceSource:
		return map[string]interface{}{"upstream": s.URL()}
	case *services.S3ConferenceSource:
		return map[string]interface{}{"upstream_bucket": s.GetBucketName(), "upstream_key": s.GetKey()}
	default:
		return map[string]interface{}{}
	}
}

func modelFields(model services.ModelRunner) map[string]interface{} {
	fields := map[string]interface{}{"model_available": model != nil}
	if m, ok := model.(*services.OpenAIModel); ok {
		fields["model"] = m.Model()
	}
	return fields
}
