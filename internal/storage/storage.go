package storage

import (
	"fmt"
	"io"
	"log/slog"

	cfg "github.com/sendmenow/sendmenow/internal/config"
)

// Storage is the photo cache backend. The database BLOB is the source of
// truth for photo bytes; this layer only holds the best-effort cache copy.
type Storage interface {
	// Save stores a file at the given path
	Save(path string, file io.Reader) error

	// Open reads the file back
	Open(path string) (io.ReadCloser, error)

	// Delete removes a file at the given path
	Delete(path string) error
}

// New creates the storage backend selected by config: local disk by
// default, any S3-compatible service with STORAGE_DRIVER=s3.
func New(c *cfg.Config) (Storage, error) {
	switch c.StorageDriver {
	case "", "local":
		slog.Info("initializing local storage", "dir", c.UploadDir)
		return NewLocalStorage(c.UploadDir)
	case "s3":
		slog.Info("initializing S3 storage",
			"bucket", c.S3Bucket,
			"region", c.S3Region,
			"endpoint", c.S3Endpoint,
		)
		return NewS3Storage(S3Config{
			Region:    c.S3Region,
			Bucket:    c.S3Bucket,
			AccessKey: c.S3AccessKey,
			SecretKey: c.S3SecretKey,
			Endpoint:  c.S3Endpoint,
		})
	default:
		return nil, fmt.Errorf("unknown storage driver %q", c.StorageDriver)
	}
}
