package storage

import (
	"context"
	"fmt"
	"path"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"

	apperrors "github.com/kbukum/transcriber/errors"
	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/provider"
)

// ObjectRef names an object in a bucket.
type ObjectRef struct {
	Bucket string
	Key    string
}

// URI returns the reference as scheme://bucket/key.
func (r ObjectRef) URI(scheme string) string {
	return scheme + "://" + r.Bucket + "/" + r.Key
}

func (r ObjectRef) String() string { return r.Bucket + "/" + r.Key }

// TraceScope prefixes the spans opened around each transfer, e.g.
// "storage.download".
const TraceScope = "storage"

// Gateway moves whole files between a Storage bucket and the local filesystem.
// Transfers run through the provider chain for logging and tracing. Every
// failure is returned as a storage-kind *errors.AppError.
type Gateway struct {
	store Storage
	fetch provider.RequestResponse[FetchRequest, *Transfer]
	put   provider.RequestResponse[PutRequest, *Transfer]
	log   *logger.Logger
}

// NewGateway creates a Gateway over store.
func NewGateway(store Storage, log *logger.Logger) *Gateway {
	log = log.WithComponent("storage.gateway")
	fetch := provider.Chain(
		provider.WithLogging[FetchRequest, *Transfer](log),
		provider.WithTracing[FetchRequest, *Transfer](TraceScope),
	)(NewFetchProvider(store))
	put := provider.Chain(
		provider.WithLogging[PutRequest, *Transfer](log),
		provider.WithTracing[PutRequest, *Transfer](TraceScope),
	)(NewPutProvider(store))
	return &Gateway{store: store, fetch: fetch, put: put, log: log}
}

// Bucket returns the bucket the gateway is bound to.
func (g *Gateway) Bucket() string { return g.store.Bucket() }

// Ref returns a reference to key in the gateway's bucket.
func (g *Gateway) Ref(key string) ObjectRef {
	return ObjectRef{Bucket: g.store.Bucket(), Key: key}
}

// URI returns the backend-native reference for ref, as handed to the
// recognition backend.
func (g *Gateway) URI(ref ObjectRef) string {
	return g.store.URI(ref.Key)
}

// Download copies ref into destDir, naming the file after the last path
// element of the key. An existing file with the same name is replaced.
func (g *Gateway) Download(ctx context.Context, ref ObjectRef, destDir string) (string, error) {
	if err := g.checkBucket(ref, "download"); err != nil {
		return "", err
	}
	t, err := g.fetch.Execute(ctx, FetchRequest{Key: ref.Key, Dest: filepath.Join(destDir, path.Base(ref.Key))})
	if err != nil {
		return "", apperrors.Storage("download", ref.String(), err)
	}
	g.log.Debug("downloaded object", logger.Fields("key", ref.Key, "path", t.Path, "bytes", t.Bytes))
	return t.Path, nil
}

// Upload writes the file at localPath to ref, overwriting any existing
// object. An empty contentType is detected from the file contents.
func (g *Gateway) Upload(ctx context.Context, localPath string, ref ObjectRef, contentType string) error {
	if err := g.checkBucket(ref, "upload"); err != nil {
		return err
	}
	if contentType == "" {
		mt, err := mimetype.DetectFile(localPath)
		if err != nil {
			return apperrors.Storage("upload", ref.String(), err)
		}
		contentType = mt.String()
	}

	t, err := g.put.Execute(ctx, PutRequest{Path: localPath, Key: ref.Key, ContentType: contentType})
	if err != nil {
		return apperrors.Storage("upload", ref.String(), err)
	}
	g.log.Debug("uploaded object", logger.Fields("key", ref.Key, "bytes", t.Bytes, "content_type", contentType))
	return nil
}

func (g *Gateway) checkBucket(ref ObjectRef, op string) error {
	if ref.Bucket != g.store.Bucket() {
		return apperrors.Storage(op, ref.String(),
			fmt.Errorf("bucket %q is not served by this gateway (bound to %q)", ref.Bucket, g.store.Bucket()))
	}
	return nil
}
