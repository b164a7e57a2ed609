package services

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"

	"conference-worker/internal/models"
)

// DefaultUpstreamURL is the public feed of upcoming Android conferences
const DefaultUpstreamURL = "https://androidstudygroup.github.io/conferences/upcoming.json"

// ConferenceSource fetches the raw upstream conference list
type ConferenceSource interface {
	FetchRaw(ctx context.Context) ([]models.RawConference, error)
}

// HTTPConferenceSource reads the feed over HTTP
type HTTPConferenceSource struct {
	client *resty.Client
	url    string
}

// NewHTTPConferenceSource creates a source on top of the shared HTTP client
func NewHTTPConferenceSource(httpClient *http.Client, url string) *HTTPConferenceSource {
	if url == "" {
		url = DefaultUpstreamURL
	}
	client := resty.NewWithClient(httpClient).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", "conference-worker/1.0")

	return &HTTPConferenceSource{client: client, url: url}
}

// URL returns the feed location
func (s *HTTPConferenceSource) URL() string {
	return s.url
}

// FetchRaw downloads and decodes the feed. There is no retry; any failure is
// reported as upstream unavailable.
func (s *HTTPConferenceSource) FetchRaw(ctx context.Context) ([]models.RawConference, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		Get(s.url)
	if err != nil {
		return nil, NewError(KindUpstreamUnavailable, "fetch conferences", err)
	}
	if !resp.IsSuccess() {
		return nil, NewError(KindUpstreamUnavailable, "fetch conferences",
			fmt.Errorf("upstream returned status %d", resp.StatusCode()))
	}

	return decodeRawConferences(resp.Body())
}

func decodeRawConferences(data []byte) ([]models.RawConference, error) {
	var raws []models.RawConference
	if err := json.Unmarshal(data, &raws); err != nil {
		return nil, NewError(KindUpstreamUnavailable, "decode conferences", err)
	}
	return raws, nil
}

// IsS3URI reports whether a configured upstream points at an S3 object
func IsS3URI(uri string) bool {
	return strings.HasPrefix(uri, "s3://")
}

// ParseS3URI splits s3://bucket/key into bucket and key
func ParseS3URI(uri string) (bucket, key string, err error) {
	if !IsS3URI(uri) {
		return "", "", fmt.Errorf("not an s3 uri: %q", uri)
	}
	rest := strings.TrimPrefix(uri, "s3://")
	bucket, key, found := strings.Cut(rest, "/")
	if !found || bucket == "" || strings.TrimPrefix(key, "/") == "" {
		return "", "", fmt.Errorf("s3 uri must be s3://bucket/key: %q", uri)
	}
	return bucket, strings.TrimPrefix(key, "/"), nil
}
