// Package testutil provides an in-memory storage.Storage for tests.
package testutil

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"sort"
	"sync"

	"github.com/kbukum/transcriber/storage"
)

// Object is a stored object.
type Object struct {
	Data        []byte
	ContentType string
}

// Call records one operation against the store.
type Call struct {
	Op  string
	Key string
}

// Memory is a thread-safe in-memory storage.Storage. Failures can be
// injected per operation and key.
type Memory struct {
	mu      sync.Mutex
	bucket  string
	objects map[string]Object
	calls   []Call
	failOn  map[Call]error
}

var _ storage.Storage = (*Memory)(nil)

// NewMemory creates an empty store for bucket.
func NewMemory(bucket string) *Memory {
	return &Memory{
		bucket:  bucket,
		objects: make(map[string]Object),
		failOn:  make(map[Call]error),
	}
}

// Put seeds an object.
func (m *Memory) Put(key string, data []byte, contentType string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = Object{Data: append([]byte(nil), data...), ContentType: contentType}
}

// Get returns a stored object.
func (m *Memory) Get(key string) (Object, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	o, ok := m.objects[key]
	return o, ok
}

// Keys returns the sorted stored keys.
func (m *Memory) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	keys := make([]string, 0, len(m.objects))
	for k := range m.objects {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// FailOn makes op ("upload", "download", "delete", "exists") on key return err.
func (m *Memory) FailOn(op, key string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.failOn[Call{Op: op, Key: key}] = err
}

// Calls returns every operation recorded so far.
func (m *Memory) Calls() []Call {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Call(nil), m.calls...)
}

// CallCount returns how many times op was called.
func (m *Memory) CallCount(op string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for _, c := range m.calls {
		if c.Op == op {
			n++
		}
	}
	return n
}

func (m *Memory) record(op, key string) error {
	c := Call{Op: op, Key: key}
	m.calls = append(m.calls, c)
	return m.failOn[c]
}

// Bucket returns the bucket name.
func (m *Memory) Bucket() string { return m.bucket }

// Upload stores the contents of reader.
func (m *Memory) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := io.ReadAll(reader)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("upload", key); err != nil {
		return err
	}
	m.objects[key] = Object{Data: data, ContentType: contentType}
	return nil
}

// Download returns a reader over a copy of the stored bytes.
func (m *Memory) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("download", key); err != nil {
		return nil, err
	}
	o, ok := m.objects[key]
	if !ok {
		return nil, fmt.Errorf("memory: %s: %w", key, storage.ErrNotFound)
	}
	return io.NopCloser(bytes.NewReader(append([]byte(nil), o.Data...))), nil
}

// Delete removes key.
func (m *Memory) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("delete", key); err != nil {
		return err
	}
	delete(m.objects, key)
	return nil
}

// Exists reports whether key is stored.
func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.record("exists", key); err != nil {
		return false, err
	}
	_, ok := m.objects[key]
	return ok, nil
}

// URI returns the gs:// reference for key.
func (m *Memory) URI(key string) string { return "gs://" + m.bucket + "/" + key }

// Close is a no-op.
func (m *Memory) Close() error { return nil }
