package services

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"samaj-backend/internal/apperrors"
	appconfig "samaj-backend/internal/config"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

const uploadURLExpiry = 5 * time.Minute

// Storage buckets. Each maps to a key prefix inside the configured S3 bucket.
const (
	BucketAvatars         = "avatars"
	BucketChatImages      = "chat-images"
	BucketTrustDocuments  = "trust-documents"
	BucketMatrimonyPhotos = "matrimony-photos"
)

var knownBuckets = map[string]struct{}{
	BucketAvatars:         {},
	BucketChatImages:      {},
	BucketTrustDocuments:  {},
	BucketMatrimonyPhotos: {},
}

// StorageService hands out pre-signed upload URLs
type StorageService struct {
	presign       *s3.PresignClient
	s3Bucket      string
	publicBaseURL string
	newID         func() string
}

// NewStorageService creates a storage service from AWS settings. Static keys
// and a custom endpoint are used when configured, otherwise the default
// credential chain and AWS endpoints.
func NewStorageService(ctx context.Context, cfg appconfig.AWSConfig) (*StorageService, error) {
	opts := []func(*config.LoadOptions) error{config.WithRegion(cfg.Region)}
	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, config.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := config.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	s3Client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if cfg.Endpoint != "" {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		}
	})

	publicBase := strings.TrimRight(cfg.PublicBaseURL, "/")
	if publicBase == "" {
		if cfg.Endpoint != "" {
			publicBase = strings.TrimRight(cfg.Endpoint, "/") + "/" + cfg.S3Bucket
		} else {
			publicBase = fmt.Sprintf("https://%s.s3.%s.amazonaws.com", cfg.S3Bucket, cfg.Region)
		}
	}

	return &StorageService{
		presign:       s3.NewPresignClient(s3Client),
		s3Bucket:      cfg.S3Bucket,
		publicBaseURL: publicBase,
		newID:         func() string { return uuid.New().String() },
	}, nil
}

// UploadRequest represents a request for an upload URL
type UploadRequest struct {
	Bucket      string `json:"bucket"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
}

// UploadResponse represents the response with a pre-signed URL
type UploadResponse struct {
	UploadURL string `json:"upload_url"`
	PublicURL string `json:"public_url"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
}

// GetPreSignedURL generates a pre-signed PUT URL for <bucket>/<user_id>/<uuid><ext>
func (s *StorageService) GetPreSignedURL(ctx context.Context, userID string, req UploadRequest) (*UploadResponse, error) {
	if _, ok := knownBuckets[req.Bucket]; !ok {
		return nil, apperrors.ErrUnknownBucket
	}
	if req.ContentType == "" {
		return nil, apperrors.InvalidArg("content_type is required")
	}

	key := fmt.Sprintf("%s/%s/%s%s", req.Bucket, userID, s.newID(), strings.ToLower(path.Ext(req.Filename)))

	request, err := s.presign.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Bucket),
		Key:         aws.String(key),
		ContentType: aws.String(req.ContentType),
	}, func(opts *s3.PresignOptions) {
		opts.Expires = uploadURLExpiry
	})
	if err != nil {
		return nil, fmt.Errorf("failed to generate pre-signed URL: %w", err)
	}

	return &UploadResponse{
		UploadURL: request.URL,
		PublicURL: s.publicBaseURL + "/" + key,
		Key:       key,
		ExpiresIn: int(uploadURLExpiry.Seconds()),
	}, nil
}
