package storage

import (
	"context"
	"io"

	"github.com/cheerioo/api/infrastructure/config"
)

// Driver stores and serves uploaded attachment blobs. Keys are opaque paths
// like "events/<eventID>/<uuid>.jpg".
type Driver interface {
	Put(ctx context.Context, key string, contentType string, body io.Reader, size int64) error
	Get(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	// URL returns the address clients fetch the blob from.
	URL(key string) string
}

// NewDriver selects the configured driver.
func NewDriver(cfg config.StorageConfig) (Driver, error) {
	if cfg.Driver == "s3" {
		return NewS3Driver(cfg.S3)
	}
	return NewLocalDriver(cfg.LocalPath), nil
}
