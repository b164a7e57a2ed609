package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"conference-worker/internal/metrics"
	"conference-worker/internal/models"
	"conference-worker/internal/services"
)

var fixedNow = time.Date(2024, 12, 13, 0, 0, 0, 0, time.UTC)

type fakeSource struct {
	raws  []models.RawConference
	err   error
	calls int
}

func (f *fakeSource) FetchRaw(ctx context.Context) ([]models.RawConference, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.raws, nil
}

type fakeModel struct {
	result services.ModelResult
	err    error
	prompt string
	calls  int
}

func (f *fakeModel) Run(ctx context.Context, prompt string) (services.ModelResult, error) {
	f.calls++
	f.prompt = prompt
	if f.err != nil {
		return services.ModelResult{}, f.err
	}
	return f.result, nil
}

func droidconFeed() []models.RawConference {
	return []models.RawConference{
		{
			Name:      "Droidcon India",
			Website:   "https://droidcon.in",
			Location:  "Bengaluru, India",
			DateStart: "2024-12-13",
			DateEnd:   "2024-12-14",
			Cfp: &models.RawCfp{
				Start: models.StringPtr("2024-08-01"),
				End:   models.StringPtr("2024-10-15"),
				Site:  models.StringPtr("https://droidcon.in/cfp"),
			},
		},
	}
}

func newTestDispatcher(source services.ConferenceSource, model services.ModelRunner, m *metrics.Metrics) *Dispatcher {
	return NewDispatcher(DispatcherConfig{
		Source:  source,
		Model:   model,
		Metrics: m,
		Logger:  zerolog.Nop(),
		Now:     func() time.Time { return fixedNow },
	})
}

func scrapeMetrics(t *testing.T, m *metrics.Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	return rec.Body.String()
}

func TestDispatch_ListConferences(t *testing.T) {
	source := &fakeSource{raws: droidconFeed()}
	m := metrics.New()
	d := newTestDispatcher(source, nil, m)

	resp := d.Dispatch(context.Background(), Request{Method: http.MethodGet})

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["content-type"])
	assert.Equal(t, "private, max-age=600", resp.Headers["cache-control"])

	var conferences []models.Conference
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &conferences))
	require.Len(t, conferences, 1)
	assert.Equal(t, "Bengaluru", conferences[0].City)
	assert.Equal(t, "India", conferences[0].Country)
	assert.Equal(t, "https://flagcdn.com/w80/in.png", conferences[0].CountryFlagURL)
	assert.Equal(t, int64(1734048000), conferences[0].DateStartEpoch)
	assert.Equal(t, int64(1734134400), conferences[0].DateEndEpoch)
	assert.Contains(t, resp.Body, `"countryFlagUrl"`)

	assert.Equal(t, 1, source.calls)
	assert.Contains(t, scrapeMetrics(t, m), `confworker_requests_total{outcome="ok",path="list"} 1`)
}

func TestDispatch_NonPostMethodsReadList(t *testing.T) {
	for _, method := range []string{http.MethodGet, http.MethodHead, http.MethodPut, http.MethodDelete, ""} {
		t.Run(method, func(t *testing.T) {
			source := &fakeSource{raws: droidconFeed()}
			model := &fakeModel{result: services.TextResult("unused")}
			d := newTestDispatcher(source, model, nil)

			resp := d.Dispatch(context.Background(), Request{Method: method, Body: []byte(`{"url":"https://droidcon.in"}`)})
			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, 1, source.calls)
			assert.Equal(t, 0, model.calls)
		})
	}
}

func TestDispatch_EmptyFeed(t *testing.T) {
	d := newTestDispatcher(&fakeSource{raws: []models.RawConference{}}, nil, nil)

	resp := d.Dispatch(context.Background(), Request{Method: http.MethodGet})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "[]", resp.Body)
}

func TestDispatch_ListFailureReportsInBand(t *testing.T) {
	m := metrics.New()
	d := newTestDispatcher(&fakeSource{err: errors.New("connection refused")}, nil, m)

	resp := d.Dispatch(context.Background(), Request{Method: http.MethodGet})

	// List failures keep status 200 and the list headers
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Headers["content-type"])
	assert.Equal(t, "private, max-age=600", resp.Headers["cache-control"])
	assert.JSONEq(t, `{
		"message": "Error fetching conferences: fetch conferences: connection refused",
		"timestamp": 1734048000000,
		"status": "error"
	}`, resp.Body)
	assert.Contains(t, scrapeMetrics(t, m), `confworker_requests_total{outcome="error",path="list"} 1`)
}

func TestDispatch_ListDateParseFailure(t *testing.T) {
	feed := droidconFeed()
	feed[0].DateEnd = "not a date"
	d := newTestDispatcher(&fakeSource{raws: feed}, nil, nil)

	resp := d.Dispatch(context.Background(), Request{Method: http.MethodGet})
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var envelope models.ErrorEnvelope
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &envelope))
	assert.Equal(t, models.StatusError, envelope.Status)
	assert.True(t, strings.HasPrefix(envelope.Message, "Error fetching conferences: "))
	assert.Contains(t, envelope.Message, "Droidcon India")
}

func TestDispatch_NoSourceConfigured(t *testing.T) {
	d := newTestDispatcher(nil, nil, nil)

	resp := d.Dispatch(context.Background(), Request{Method: http.MethodGet})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, resp.Body, `"status":"error"`)
}

func TestDispatch_CustomCacheMaxAge(t *testing.T) {
	d := NewDispatcher(DispatcherConfig{
		Source:      &fakeSource{raws: droidconFeed()},
		Logger:      zerolog.Nop(),
		CacheMaxAge: 120,
	})

	resp := d.Dispatch(context.Background(), Request{Method: http.MethodGet})
	assert.Equal(t, "private, max-age=120", resp.Headers["cache-control"])
}

func TestDispatch_Summary(t *testing.T) {
	expectedPrompt := "Provide one paragraph information about https://droidcon.in\n" +
		"Response should only contain text and should give brief about conference\n" +
		"topics, speakers and location."

	tests := []struct {
		name   string
		result services.ModelResult
	}{
		{"structured result", services.RawResult(map[string]interface{}{"response": "Droidcon India is the largest Android event in India."})},
		{"text result", services.TextResult("Droidcon India is the largest Android event in India.")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := &fakeSource{}
			model := &fakeModel{result: tt.result}
			m := metrics.New()
			d := newTestDispatcher(source, model, m)

			resp := d.Dispatch(context.Background(), Request{
				Method: http.MethodPost,
				Body:   []byte(`{"url": "https://droidcon.in"}`),
			})

			assert.Equal(t, http.StatusOK, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Headers["content-type"])
			assert.Empty(t, resp.Headers["cache-control"])

			var result models.SummaryResult
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &result))
			assert.Equal(t, expectedPrompt, result.Inputs.Prompt)
			assert.Equal(t, "Droidcon India is the largest Android event in India.", result.Response.Response)

			assert.Equal(t, expectedPrompt, model.prompt)
			assert.Equal(t, 1, model.calls)
			assert.Equal(t, 0, source.calls)
			assert.Contains(t, scrapeMetrics(t, m), `confworker_requests_total{outcome="ok",path="summary"} 1`)
		})
	}
}

func TestDispatch_SummaryMethodIsCaseInsensitive(t *testing.T) {
	model := &fakeModel{result: services.TextResult("ok")}
	d := newTestDispatcher(&fakeSource{}, model, nil)

	resp := d.Dispatch(context.Background(), Request{Method: "post", Body: []byte(`{"url":"https://droidcon.in"}`)})
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, 1, model.calls)
}

func TestDispatch_SummaryWithoutModel(t *testing.T) {
	source := &fakeSource{}
	d := newTestDispatcher(source, nil, nil)
	require.False(t, d.HasModel())

	resp := d.Dispatch(context.Background(), Request{Method: http.MethodPost, Body: []byte(`{"url":"https://droidcon.in"}`)})

	assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
	var envelope models.ErrorEnvelope
	require.NoError(t, json.Unmarshal([]byte(resp.Body), &envelope))
	assert.Equal(t, models.StatusError, envelope.Status)
	assert.Equal(t, int64(1734048000000), envelope.Timestamp)
	assert.Contains(t, envelope.Message, "Model capability not configured")
	assert.Equal(t, 0, source.calls)
}

func TestDispatch_SummaryFailures(t *testing.T) {
	tests := []struct {
		name          string
		body          string
		model         *fakeModel
		messagePrefix string
	}{
		{
			name:          "malformed json",
			body:          `{"url": `,
			model:         &fakeModel{result: services.TextResult("unused")},
			messagePrefix: "Invalid summary request: ",
		},
		{
			name:          "missing url",
			body:          `{"website": "https://droidcon.in"}`,
			model:         &fakeModel{result: services.TextResult("unused")},
			messagePrefix: "Invalid summary request: ",
		},
		{
			name:          "empty body",
			body:          ``,
			model:         &fakeModel{result: services.TextResult("unused")},
			messagePrefix: "Invalid summary request: ",
		},
		{
			name:          "model error",
			body:          `{"url": "https://droidcon.in"}`,
			model:         &fakeModel{err: errors.New("rate limited")},
			messagePrefix: "Error in AI request: ",
		},
		{
			name:          "model returned nothing",
			body:          `{"url": "https://droidcon.in"}`,
			model:         &fakeModel{result: services.RawResult(nil)},
			messagePrefix: "Error in AI request: ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := metrics.New()
			d := newTestDispatcher(&fakeSource{}, tt.model, m)

			resp := d.Dispatch(context.Background(), Request{Method: http.MethodPost, Body: []byte(tt.body)})

			assert.Equal(t, http.StatusInternalServerError, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Headers["content-type"])

			var envelope models.ErrorEnvelope
			require.NoError(t, json.Unmarshal([]byte(resp.Body), &envelope))
			assert.Equal(t, models.StatusError, envelope.Status)
			assert.Equal(t, int64(1734048000000), envelope.Timestamp)
			assert.True(t, strings.HasPrefix(envelope.Message, tt.messagePrefix), envelope.Message)
			assert.Contains(t, scrapeMetrics(t, m), `confworker_requests_total{outcome="error",path="summary"} 1`)
		})
	}
}

func TestDispatch_ModelErrorIncludesCause(t *testing.T) {
	d := newTestDispatcher(&fakeSource{}, &fakeModel{err: errors.New("rate limited")}, nil)

	resp := d.Dispatch(context.Background(), Request{Method: http.MethodPost, Body: []byte(`{"url":"https://droidcon.in"}`)})
	assert.Contains(t, resp.Body, "rate limited")
}
