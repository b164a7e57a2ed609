package services

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"conference-worker/internal/models"
)

// S3GetObjectAPI is the part of the S3 client used to read the feed snapshot
type S3GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3.GetObjectInput, optFns ...func(*s3.Options)) (*s3.GetObjectOutput, error)
}

// S3ConferenceSource reads a JSON snapshot of the upstream feed from S3
type S3ConferenceSource struct {
	client     S3GetObjectAPI
	bucketName string
	key        string
}

// NewS3ConferenceSource creates a source for s3://bucket/key
func NewS3ConferenceSource(client S3GetObjectAPI, uri string) (*S3ConferenceSource, error) {
	bucket, key, err := ParseS3URI(uri)
	if err != nil {
		return nil, err
	}
	return &S3ConferenceSource{
		client:     client,
		bucketName: bucket,
		key:        key,
	}, nil
}

// GetBucketName returns the bucket holding the snapshot
func (s *S3ConferenceSource) GetBucketName() string {
	return s.bucketName
}

// GetKey returns the object key of the snapshot
func (s *S3ConferenceSource) GetKey() string {
	return s.key
}

// FetchRaw downloads and decodes the snapshot
func (s *S3ConferenceSource) FetchRaw(ctx context.Context) ([]models.RawConference, error) {
	result, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucketName),
		Key:    aws.String(s.key),
	})
	if err != nil {
		return nil, NewError(KindUpstreamUnavailable, "fetch conferences",
			fmt.Errorf("failed to download s3://%s/%s: %w", s.bucketName, s.key, err))
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, NewError(KindUpstreamUnavailable, "fetch conferences",
			fmt.Errorf("failed to read S3 object body: %w", err))
	}

	return decodeRawConferences(data)
}

// LoadAWSConfig loads the default AWS configuration, sending SDK traffic
// through the shared HTTP client
func LoadAWSConfig(ctx context.Context, region string, httpClient *http.Client) (aws.Config, error) {
	opts := []func(*config.LoadOptions) error{
		config.WithHTTPClient(httpClient),
	}
	if region != "" {
		opts = append(opts, config.WithRegion(region))
	}

	cfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return aws.Config{}, fmt.Errorf("failed to load AWS config: %w", err)
	}
	return cfg, nil
}

// NewConferenceSource picks the S3 or HTTP source from the upstream location.
// AWS configuration is only loaded for s3:// locations.
func NewConferenceSource(ctx context.Context, upstream, region string, httpClient *http.Client) (ConferenceSource, error) {
	if !IsS3URI(upstream) {
		return NewHTTPConferenceSource(httpClient, upstream), nil
	}

	cfg, err := LoadAWSConfig(ctx, region, httpClient)
	if err != nil {
		return nil, err
	}
	source, err := NewS3ConferenceSource(s3.NewFromConfig(cfg), upstream)
	if err != nil {
		return nil, err
	}
	return source, nil
}
