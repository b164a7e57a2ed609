package api

import (
	"io"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"conference-worker/internal/metrics"
	"conference-worker/internal/models"
)

// maxBodyBytes bounds the size of a summary request body
const maxBodyBytes = 1 << 20

// NewRouter exposes the dispatcher over plain HTTP, plus /metrics and /healthz
func NewRouter(d *Dispatcher, m *metrics.Metrics, allowedOrigins []string) http.Handler {
	router := mux.NewRouter()
	router.Use(RecoveryMiddleware(d.logger, d.now))

	router.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	}).Methods(http.MethodGet)
	if m != nil {
		router.Handle("/metrics", m.Handler()).Methods(http.MethodGet)
	}

	// Any method reaches the dispatcher: POST summarizes, everything else lists
	router.HandleFunc("/", dispatchHandler(d))

	if len(allowedOrigins) == 0 {
		allowedOrigins = []string{"*"}
	}
	cors := handlers.CORS(
		handlers.AllowedOrigins(allowedOrigins),
		handlers.AllowedMethods([]string{http.MethodGet, http.MethodPost, http.MethodOptions}),
		handlers.AllowedHeaders([]string{"Content-Type"}),
	)
	return cors(router)
}

func dispatchHandler(d *Dispatcher) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body []byte
		if r.Body != nil {
			data, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
			if err != nil {
				// An unreadable body becomes a malformed summary request
				data = []byte{}
			}
			body = data
		}

		resp := d.Dispatch(r.Context(), Request{
			Method:    r.Method,
			Body:      body,
			RequestID: r.Header.Get("X-Request-Id"),
		})
		writeResponse(w, resp)
	}
}

func writeResponse(w http.ResponseWriter, resp Response) {
	for k, v := range resp.Headers {
		w.Header().Set(k, v)
	}
	w.WriteHeader(resp.StatusCode)
	_, _ = io.WriteString(w, resp.Body)
}

// RecoveryMiddleware turns a panic in a downstream handler into a 500 ErrorEnvelope
func RecoveryMiddleware(logger zerolog.Logger, now func() time.Time) mux.MiddlewareFunc {
	if now == nil {
		now = time.Now
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					logger.Error().
						Interface("panic", rec).
						Str("method", r.Method).
						Str("url", r.URL.String()).
						Str("remote", r.RemoteAddr).
						Bytes("stack", debug.Stack()).
						Msg("panic recovered")

					envelope := models.NewErrorEnvelope("Internal server error", now())
					w.Header().Set("Content-Type", "application/json")
					w.WriteHeader(http.StatusInternalServerError)
					_, _ = io.WriteString(w, envelope.JSON())
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
