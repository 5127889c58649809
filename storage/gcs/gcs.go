// Package gcs provides a Google Cloud Storage backend.
package gcs

import (
	"context"
	"errors"
	"fmt"
	"io"

	gstorage "cloud.google.com/go/storage"
	"google.golang.org/api/option"

	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/storage"
)

func init() {
	storage.RegisterFactory(storage.ProviderGCS, func(ctx context.Context, cfg storage.Config, log *logger.Logger) (storage.Storage, error) {
		return NewStorage(ctx, cfg, log)
	})
}

// Storage implements storage.Storage on a Google Cloud Storage bucket.
type Storage struct {
	client *gstorage.Client
	bucket *gstorage.BucketHandle
	name   string
}

// ClientOptions translates cfg into Google API client options. The
// recognition backend reuses it so both clients share credentials.
func ClientOptions(cfg storage.Config) []option.ClientOption {
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	if cfg.ProjectID != "" {
		opts = append(opts, option.WithQuotaProject(cfg.ProjectID))
	}
	if cfg.Endpoint != "" {
		opts = append(opts, option.WithEndpoint(cfg.Endpoint), option.WithoutAuthentication())
	}
	return opts
}

// NewStorage creates a GCS client bound to cfg.Bucket.
func NewStorage(ctx context.Context, cfg storage.Config, log *logger.Logger) (*Storage, error) {
	client, err := gstorage.NewClient(ctx, ClientOptions(cfg)...)
	if err != nil {
		return nil, fmt.Errorf("storage: gcs client: %w", err)
	}
	log.Debug("gcs client ready", logger.Fields("bucket", cfg.Bucket, "project", cfg.ProjectID))
	return &Storage{client: client, bucket: client.Bucket(cfg.Bucket), name: cfg.Bucket}, nil
}

// Bucket returns the bucket name.
func (s *Storage) Bucket() string { return s.name }

// Upload streams reader into the object at key.
func (s *Storage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	// Cancelling the writer's context is the only way to abort a GCS upload
	// without committing a partial object.
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	w := s.bucket.Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, reader); err != nil {
		cancel()
		_ = w.Close()
		return fmt.Errorf("storage: gcs upload %s: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("storage: gcs upload %s: %w", key, err)
	}
	return nil
}

// Download returns a reader for the object at key.
func (s *Storage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	r, err := s.bucket.Object(key).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			return nil, fmt.Errorf("storage: gcs download %s: %w", key, storage.ErrNotFound)
		}
		return nil, fmt.Errorf("storage: gcs download %s: %w", key, err)
	}
	return r, nil
}

// Delete removes the object at key. Missing objects are not an error.
func (s *Storage) Delete(ctx context.Context, key string) error {
	if err := s.bucket.Object(key).Delete(ctx); err != nil && !errors.Is(err, gstorage.ErrObjectNotExist) {
		return fmt.Errorf("storage: gcs delete %s: %w", key, err)
	}
	return nil
}

// Exists checks whether the object at key exists.
func (s *Storage) Exists(ctx context.Context, key string) (bool, error) {
	_, err := s.bucket.Object(key).Attrs(ctx)
	if err != nil {
		if errors.Is(err, gstorage.ErrObjectNotExist) {
			return false, nil
		}
		return false, fmt.Errorf("storage: gcs attrs %s: %w", key, err)
	}
	return true, nil
}

// URI returns the gs:// reference for key.
func (s *Storage) URI(key string) string {
	return "gs://" + s.name + "/" + key
}

// Close closes the underlying client.
func (s *Storage) Close() error {
	return s.client.Close()
}

var _ storage.Storage = (*Storage)(nil)
