package service

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/google/uuid"
	"github.com/recipehub/backend/config"
)

// S3MediaStore stores recipe images in an S3 bucket with public read
// access. Object keys double as external identifiers.
type S3MediaStore struct {
	s3Config *config.S3Config
}

// NewS3MediaStore creates a new S3MediaStore instance
func NewS3MediaStore(s3Config *config.S3Config) *S3MediaStore {
	return &S3MediaStore{s3Config: s3Config}
}

// extensionForContentType maps the accepted image types to file extensions.
func extensionForContentType(contentType string) string {
	switch contentType {
	case "image/png":
		return ".png"
	default:
		return ".jpg"
	}
}

// Upload reads the file at localPath and uploads it under the configured
// folder, returning the object key and public URL.
func (s *S3MediaStore) Upload(ctx context.Context, localPath string, contentType string) (*MediaObject, error) {
	file, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open upload file: %w", err)
	}
	defer func() { _ = file.Close() }()

	key := fmt.Sprintf("%s/%s%s", s.s3Config.Folder, uuid.New().String(), extensionForContentType(contentType))

	_, err = s.s3Config.Client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(s.s3Config.BucketName),
		Key:         aws.String(key),
		Body:        file,
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to upload to S3: %w", err)
	}

	publicURL := fmt.Sprintf("https://%s.s3.amazonaws.com/%s", s.s3Config.BucketName, key)
	log.Printf("[MediaStore] Uploaded image %s", publicURL)

	return &MediaObject{ExternalID: key, URL: publicURL}, nil
}

// Delete removes the object identified by externalID from the bucket.
func (s *S3MediaStore) Delete(ctx context.Context, externalID string) error {
	_, err := s.s3Config.Client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.s3Config.BucketName),
		Key:    aws.String(externalID),
	})
	if err != nil {
		return fmt.Errorf("failed to delete from S3: %w", err)
	}

	log.Printf("[MediaStore] Deleted image %s", externalID)
	return nil
}
