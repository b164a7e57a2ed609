package api

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"conference-worker/internal/metrics"
	"conference-worker/internal/models"
	"conference-worker/internal/services"
)

// DefaultCacheMaxAge is the client cache lifetime of the conference list, in seconds
const DefaultCacheMaxAge = 600

// Request is a transport-independent inbound request
type Request struct {
	Method    string
	Body      []byte
	RequestID string
}

// Response is a transport-independent outbound response
type Response struct {
	StatusCode int
	Headers    map[string]string
	Body       string
}

// Dispatcher is the single entry point of the worker. It routes a request to
// the conference list or to the AI summary and turns every failure into an
// ErrorEnvelope. It holds no per-request state.
type Dispatcher struct {
	source      services.ConferenceSource
	transformer *services.ConferenceTransformer
	model       services.ModelRunner
	metrics     *metrics.Metrics
	logger      zerolog.Logger
	now         func() time.Time
	cacheMaxAge int
	callTimeout time.Duration
}

// DispatcherConfig wires the dispatcher's collaborators. Model may be nil,
// in which case summary requests are answered with a model-unavailable error.
type DispatcherConfig struct {
	Source      services.ConferenceSource
	Transformer *services.ConferenceTransformer
	Model       services.ModelRunner
	Metrics     *metrics.Metrics
	Logger      zerolog.Logger
	Now         func() time.Time
	CacheMaxAge int
	CallTimeout time.Duration
}

// NewDispatcher creates a dispatcher, filling in defaults for optional fields
func NewDispatcher(cfg DispatcherConfig) *Dispatcher {
	d := &Dispatcher{
		source:      cfg.Source,
		transformer: cfg.Transformer,
		model:       cfg.Model,
		metrics:     cfg.Metrics,
		logger:      cfg.Logger,
		now:         cfg.Now,
		cacheMaxAge: cfg.CacheMaxAge,
		callTimeout: cfg.CallTimeout,
	}
	if d.transformer == nil {
		d.transformer = services.NewConferenceTransformer(cfg.Logger)
	}
	if d.now == nil {
		d.now = time.Now
	}
	if d.cacheMaxAge <= 0 {
		d.cacheMaxAge = DefaultCacheMaxAge
	}
	if d.callTimeout <= 0 {
		d.callTimeout = services.DefaultRequestTimeout
	}
	return d
}

// HasModel reports whether the model capability is configured
func (d *Dispatcher) HasModel() bool {
	return d.model != nil
}

// Dispatch handles one request. POST requests are summary requests; every
// other method reads the conference list.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) Response {
	requestID := req.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	logger := d.logger.With().
		Str("request_id", requestID).
		Str("method", req.Method).
		Logger()
	ctx = logger.WithContext(ctx)

	if isSummaryRequest(req) {
		return d.handleSummary(ctx, req.Body)
	}
	return d.handleList(ctx)
}

func isSummaryRequest(req Request) bool {
	return strings.Contains(strings.ToUpper(req.Method), http.MethodPost)
}

// List path

func (d *Dispatcher) handleList(ctx context.Context) Response {
	logger := zerolog.Ctx(ctx)
	headers := d.listHeaders()

	conferences, err := d.listConferences(ctx)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(services.KindOf(err))).Msg("Failed to list conferences")
		d.metrics.ObserveRequest(metrics.PathList, metrics.OutcomeError)

		// The list path reports failures in-band with a 200 status
		envelope := models.NewErrorEnvelope("Error fetching conferences: "+err.Error(), d.now())
		return Response{StatusCode: http.StatusOK, Headers: headers, Body: envelope.JSON()}
	}

	body, err := json.Marshal(conferences)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode conferences")
		d.metrics.ObserveRequest(metrics.PathList, metrics.OutcomeError)
		envelope := models.NewErrorEnvelope("Error fetching conferences: "+err.Error(), d.now())
		return Response{StatusCode: http.StatusOK, Headers: headers, Body: envelope.JSON()}
	}

	logger.Info().
		Int("conferences", len(conferences)).
		Int("with_cfp_dates", countCfpDates(conferences)).
		Msg("Served conference list")
	d.metrics.ObserveRequest(metrics.PathList, metrics.OutcomeOK)
	return Response{StatusCode: http.StatusOK, Headers: headers, Body: string(body)}
}

func (d *Dispatcher) listConferences(ctx context.Context) ([]models.Conference, error) {
	if d.source == nil {
		return nil, services.NewError(services.KindUpstreamUnavailable, "fetch conferences", fmt.Errorf("no upstream source configured"))
	}

	fetchCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	start := time.Now()
	raws, err := d.source.FetchRaw(fetchCtx)
	d.metrics.ObserveUpstreamFetch(time.Since(start))
	if err != nil {
		if services.KindOf(err) == "" {
			err = services.NewError(services.KindUpstreamUnavailable, "fetch conferences", err)
		}
		return nil, err
	}

	conferences, err := d.transformer.Transform(raws)
	if err != nil {
		return nil, err
	}
	d.metrics.AddTransformed(len(conferences))
	return conferences, nil
}

func countCfpDates(conferences []models.Conference) int {
	n := 0
	for _, conf := range conferences {
		if conf.Cfp.HasDates() {
			n++
		}
	}
	return n
}

func (d *Dispatcher) listHeaders() map[string]string {
	return map[string]string{
		"content-type":  "application/json",
		"cache-control": fmt.Sprintf("private, max-age=%d", d.cacheMaxAge),
	}
}

// Summary path

func (d *Dispatcher) handleSummary(ctx context.Context, body []byte) Response {
	logger := zerolog.Ctx(ctx)
	headers := map[string]string{"content-type": "application/json"}

	result, err := d.summarize(ctx, body)
	if err != nil {
		logger.Error().Err(err).Str("kind", string(services.KindOf(err))).Msg("Failed to summarize conference")
		d.metrics.ObserveRequest(metrics.PathSummary, metrics.OutcomeError)
		envelope := models.NewErrorEnvelope(summaryErrorMessage(err), d.now())
		return Response{StatusCode: http.StatusInternalServerError, Headers: headers, Body: envelope.JSON()}
	}

	data, err := json.Marshal(result)
	if err != nil {
		logger.Error().Err(err).Msg("Failed to encode summary")
		d.metrics.ObserveRequest(metrics.PathSummary, metrics.OutcomeError)
		envelope := models.NewErrorEnvelope(summaryErrorMessage(err), d.now())
		return Response{StatusCode: http.StatusInternalServerError, Headers: headers, Body: envelope.JSON()}
	}

	d.metrics.ObserveRequest(metrics.PathSummary, metrics.OutcomeOK)
	return Response{StatusCode: http.StatusOK, Headers: headers, Body: string(data)}
}

func (d *Dispatcher) summarize(ctx context.Context, body []byte) (models.SummaryResult, error) {
	logger := zerolog.Ctx(ctx)

	req, err := decodeSummaryRequest(body)
	if err != nil {
		return models.SummaryResult{}, err
	}

	if d.model == nil {
		return models.SummaryResult{}, services.NewError(services.KindModelUnavailable, "summarize", fmt.Errorf("model capability not configured"))
	}

	prompt := models.NewSummaryPrompt(req.URL)
	logger.Debug().Str("prompt", prompt.Prompt).Msg("Running summary prompt")

	callCtx, cancel := context.WithTimeout(ctx, d.callTimeout)
	defer cancel()

	start := time.Now()
	result, err := d.model.Run(callCtx, prompt.Prompt)
	d.metrics.ObserveModelCall(time.Since(start))
	if err != nil {
		if services.KindOf(err) == "" {
			err = services.NewError(services.KindModelError, "run model", err)
		}
		return models.SummaryResult{}, err
	}

	text, err := services.ExtractResponseText(result)
	if err != nil {
		return models.SummaryResult{}, err
	}
	logger.Debug().Str("response", text).Msg("Model response received")

	return models.NewSummaryResult(prompt, text), nil
}

func decodeSummaryRequest(body []byte) (models.SummaryRequest, error) {
	var req models.SummaryRequest
	if err := json.Unmarshal(body, &req); err != nil {
		return req, services.NewError(services.KindMalformedRequest, "decode summary request", err)
	}
	if strings.TrimSpace(req.URL) == "" {
		return req, services.NewError(services.KindMalformedRequest, "decode summary request", fmt.Errorf("missing url"))
	}
	return req, nil
}

func summaryErrorMessage(err error) string {
	switch services.KindOf(err) {
	case services.KindModelUnavailable:
		return "Model capability not configured. Set CONFWORKER_MODEL_PROVIDER to enable summaries"
	case services.KindMalformedRequest:
		return "Invalid summary request: " + err.Error()
	default:
		return "Error in AI request: " + err.Error()
	}
}
