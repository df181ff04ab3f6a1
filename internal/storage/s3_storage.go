package storage

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
)

// Upload constraints for business logo images.
const (
	MaxLogoSize = 5 * 1024 * 1024 // 5MB
)

var AllowedLogoTypes = []string{"image/jpeg", "image/png", "image/webp", "image/svg+xml"}

var (
	ErrFileTooLarge       = fmt.Errorf("file size exceeds the %dMB limit", MaxLogoSize/(1024*1024))
	ErrInvalidContentType = fmt.Errorf("content type not allowed, expected one of: %s", strings.Join(AllowedLogoTypes, ", "))
)

// S3Storage issues pre-signed PUT URLs so logo uploads go straight to S3
// without passing through the API server.
type S3Storage struct {
	client  *s3.Client
	bucket  string
	baseURL string
}

type PresignedUpload struct {
	UploadURL string `json:"upload_url"`
	FileURL   string `json:"file_url"`
	Key       string `json:"key"`
}

func NewS3Storage(region, bucket, accessKeyID, secretAccessKey, baseURL string) *S3Storage {
	var cfg aws.Config
	var err error

	if accessKeyID != "" && secretAccessKey != "" {
		cfg = aws.Config{
			Region: region,
			Credentials: credentials.NewStaticCredentialsProvider(
				accessKeyID,
				secretAccessKey,
				"",
			),
		}
	} else {
		// default chain: env vars, shared credentials file, IAM role
		cfg, err = config.LoadDefaultConfig(context.TODO(),
			config.WithRegion(region),
		)
		if err != nil {
			cfg = aws.Config{Region: region}
		}
	}

	return &S3Storage{
		client:  s3.NewFromConfig(cfg),
		bucket:  bucket,
		baseURL: baseURL,
	}
}

// PresignLogoUpload validates the upload and returns a pre-signed PUT URL
// valid for 15 minutes. Keys are namespaced per business so stale logos can
// be swept later.
func (s *S3Storage) PresignLogoUpload(ctx context.Context, businessID uint, filename, contentType string, size int64) (*PresignedUpload, error) {
	if size > MaxLogoSize {
		return nil, ErrFileTooLarge
	}
	if err := validateContentType(contentType); err != nil {
		return nil, err
	}

	ext := filepath.Ext(filename)
	key := fmt.Sprintf("logos/%d/%s%s", businessID, uuid.New().String(), ext)

	presignClient := s3.NewPresignClient(s.client)
	presignedReq, err := presignClient.PresignPutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	}, s3.WithPresignExpires(15*time.Minute))
	if err != nil {
		return nil, fmt.Errorf("failed to generate presigned URL: %w", err)
	}

	var fileURL string
	if s.baseURL != "" {
		// CDN or custom domain in front of the bucket
		fileURL = fmt.Sprintf("%s/%s", s.baseURL, key)
	} else {
		fileURL = fmt.Sprintf("https://%s.s3.%s.amazonaws.com/%s", s.bucket, s.client.Options().Region, key)
	}

	return &PresignedUpload{
		UploadURL: presignedReq.URL,
		FileURL:   fileURL,
		Key:       key,
	}, nil
}

func validateContentType(contentType string) error {
	for _, allowed := range AllowedLogoTypes {
		if contentType == allowed {
			return nil
		}
	}
	return ErrInvalidContentType
}
