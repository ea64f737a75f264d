package storage

import "context"

// ObjectStorage captures the S3-compatible operations report exports need.
type ObjectStorage interface {
	UploadObject(ctx context.Context, key string, data []byte, contentType string) (string, error)
}
