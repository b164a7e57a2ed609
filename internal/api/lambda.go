package api

import (
	"context"
	"encoding/base64"
	"net/http"

	"github.com/aws/aws-lambda-go/events"
)

// LambdaHandler adapts the dispatcher to API Gateway and Function URL events
type LambdaHandler struct {
	dispatcher  *Dispatcher
	corsHeaders map[string]string
}

// NewLambdaHandler creates a Lambda adapter. allowOrigin is sent back in
// Access-Control-Allow-Origin.
func NewLambdaHandler(d *Dispatcher, allowOrigin string) *LambdaHandler {
	if allowOrigin == "" {
		allowOrigin = "*"
	}
	return &LambdaHandler{
		dispatcher: d,
		corsHeaders: map[string]string{
			"Access-Control-Allow-Origin":  allowOrigin,
			"Access-Control-Allow-Headers": "Content-Type",
			"Access-Control-Allow-Methods": "GET,POST,OPTIONS",
		},
	}
}

// HandleProxyRequest serves REST API (payload v1) events
func (h *LambdaHandler) HandleProxyRequest(ctx context.Context, request events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	if request.HTTPMethod == http.MethodOptions {
		return events.APIGatewayProxyResponse{
			StatusCode: http.StatusOK,
			Headers:    h.withCORS(nil),
		}, nil
	}

	resp := h.dispatcher.Dispatch(ctx, Request{
		Method:    request.HTTPMethod,
		Body:      eventBody(request.Body, request.IsBase64Encoded),
		RequestID: request.RequestContext.RequestID,
	})

	return events.APIGatewayProxyResponse{
		StatusCode: resp.StatusCode,
		Headers:    h.withCORS(resp.Headers),
		Body:       resp.Body,
	}, nil
}

// HandleHTTPRequest serves HTTP API (payload v2) and Function URL events
func (h *LambdaHandler) HandleHTTPRequest(ctx context.Context, request events.APIGatewayV2HTTPRequest) (events.APIGatewayV2HTTPResponse, error) {
	method := request.RequestContext.HTTP.Method
	if method == http.MethodOptions {
		return events.APIGatewayV2HTTPResponse{
			StatusCode: http.StatusOK,
			Headers:    h.withCORS(nil),
		}, nil
	}

	resp := h.dispatcher.Dispatch(ctx, Request{
		Method:    method,
		Body:      eventBody(request.Body, request.IsBase64Encoded),
		RequestID: request.RequestContext.RequestID,
	})

	return events.APIGatewayV2HTTPResponse{
		StatusCode: resp.StatusCode,
		Headers:    h.withCORS(resp.Headers),
		Body:       resp.Body,
	}, nil
}

func (h *LambdaHandler) withCORS(headers map[string]string) map[string]string {
	merged := make(map[string]string, len(headers)+len(h.corsHeaders))
	for k, v := range h.corsHeaders {
		merged[k] = v
	}
	for k, v := range headers {
		merged[k] = v
	}
	return merged
}

// eventBody returns the raw request body. A body that claims to be base64
// but is not is passed through unchanged and fails JSON decoding later.
func eventBody(body string, isBase64 bool) []byte {
	if !isBase64 {
		return []byte(body)
	}
	decoded, err := base64.StdEncoding.DecodeString(body)
	if err != nil {
		return []byte(body)
	}
	return decoded
}
