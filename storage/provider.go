package storage

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/kbukum/transcriber/provider"
)

// FetchRequest copies the object at Key into the local file Dest.
type FetchRequest struct {
	Key  string
	Dest string
}

// PutRequest stores the local file Path at Key.
type PutRequest struct {
	Path        string
	Key         string
	ContentType string
}

// Transfer describes a completed copy between the bucket and local disk.
type Transfer struct {
	Path  string
	Bytes int64
}

// FetchProvider wraps Storage.Download as a RequestResponse provider that
// writes the object to a file.
type FetchProvider struct {
	storage Storage
}

// NewFetchProvider creates a RequestResponse provider for downloads.
func NewFetchProvider(s Storage) *FetchProvider {
	return &FetchProvider{storage: s}
}

func (p *FetchProvider) Name() string                       { return "download" }
func (p *FetchProvider) IsAvailable(_ context.Context) bool { return p.storage != nil }

// Execute replaces Dest with the object body. A partial file is removed on
// failure.
func (p *FetchProvider) Execute(ctx context.Context, req FetchRequest) (*Transfer, error) {
	rc, err := p.storage.Download(ctx, req.Key)
	if err != nil {
		return nil, err
	}
	defer rc.Close() //nolint:errcheck // read side

	f, err := os.Create(req.Dest)
	if err != nil {
		return nil, fmt.Errorf("create %s: %w", req.Dest, err)
	}
	n, err := io.Copy(f, rc)
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		_ = os.Remove(req.Dest)
		return nil, err
	}
	return &Transfer{Path: req.Dest, Bytes: n}, nil
}

// PutProvider wraps Storage.Upload as a RequestResponse provider that reads
// from a file.
type PutProvider struct {
	storage Storage
}

// NewPutProvider creates a RequestResponse provider for uploads.
func NewPutProvider(s Storage) *PutProvider {
	return &PutProvider{storage: s}
}

func (p *PutProvider) Name() string                       { return "upload" }
func (p *PutProvider) IsAvailable(_ context.Context) bool { return p.storage != nil }

func (p *PutProvider) Execute(ctx context.Context, req PutRequest) (*Transfer, error) {
	f, err := os.Open(req.Path)
	if err != nil {
		return nil, err
	}
	defer f.Close() //nolint:errcheck // read side

	info, err := f.Stat()
	if err != nil {
		return nil, err
	}
	if err := p.storage.Upload(ctx, req.Key, f, req.ContentType); err != nil {
		return nil, err
	}
	return &Transfer{Path: req.Path, Bytes: info.Size()}, nil
}

var (
	_ provider.RequestResponse[FetchRequest, *Transfer] = (*FetchProvider)(nil)
	_ provider.RequestResponse[PutRequest, *Transfer]   = (*PutProvider)(nil)
)
