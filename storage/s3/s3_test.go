package s3_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/kbukum/transcriber/storage"
	"github.com/kbukum/transcriber/storage/s3"
)

const bucket = "transcriber-test"

type object struct {
	body        string
	contentType string
}

// fakeS3 answers path-style object requests the way S3 does.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]object
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key, ok := strings.CutPrefix(r.URL.Path, "/"+bucket+"/")
	if !ok {
		http.Error(w, "unexpected path "+r.URL.Path, http.StatusNotImplemented)
		return
	}
	switch r.Method {
	case http.MethodPut:
		data, err := io.ReadAll(r.Body)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		f.objects[key] = object{body: string(data), contentType: r.Header.Get("Content-Type")}
		w.WriteHeader(http.StatusOK)
	case http.MethodGet:
		obj, ok := f.objects[key]
		if !ok {
			w.Header().Set("Content-Type", "application/xml")
			w.WriteHeader(http.StatusNotFound)
			_, _ = io.WriteString(w, `<?xml version="1.0" encoding="UTF-8"?><Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`)
			return
		}
		w.Header().Set("Content-Type", obj.contentType)
		_, _ = io.WriteString(w, obj.body)
	case http.MethodHead:
		if _, ok := f.objects[key]; !ok {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		http.Error(w, "unexpected method", http.StatusMethodNotAllowed)
	}
}

func (f *fakeS3) put(key string, obj object) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = obj
}

func (f *fakeS3) get(key string) (object, bool) {
	f.mu.Lock()
	defer f.mu.Unlock()
	obj, ok := f.objects[key]
	return obj, ok
}

func newStorage(t *testing.T) (*s3.Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: make(map[string]object)}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := s3.NewStorage(context.Background(), storage.Config{
		Provider:  storage.ProviderS3,
		Bucket:    bucket,
		Region:    storage.DefaultRegion,
		Endpoint:  srv.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	if err != nil {
		t.Fatalf("NewStorage: %v", err)
	}
	return s, fake
}

func TestStorage_DownloadMissingIsNotFound(t *testing.T) {
	s, _ := newStorage(t)

	_, err := s.Download(context.Background(), "missing.mp3")
	if !errors.Is(err, storage.ErrNotFound) {
		t.Fatalf("Download error = %v, want ErrNotFound", err)
	}
}

func TestStorage_UploadSetsContentType(t *testing.T) {
	s, fake := newStorage(t)

	if err := s.Upload(context.Background(), "calls/a.txt", strings.NewReader("hola\n"), "text/plain; charset=utf-8"); err != nil {
		t.Fatalf("Upload: %v", err)
	}
	obj, ok := fake.get("calls/a.txt")
	if !ok {
		t.Fatal("object not stored")
	}
	if obj.contentType != "text/plain; charset=utf-8" {
		t.Errorf("content type = %q", obj.contentType)
	}
	if !strings.Contains(obj.body, "hola\n") {
		t.Errorf("body = %q", obj.body)
	}
}

func TestStorage_DownloadReadsObject(t *testing.T) {
	s, fake := newStorage(t)
	fake.put("llamada.mp3", object{body: "ID3audio", contentType: "audio/mpeg"})

	rc, err := s.Download(context.Background(), "llamada.mp3")
	if err != nil {
		t.Fatalf("Download: %v", err)
	}
	defer rc.Close()
	data, err := io.ReadAll(rc)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "ID3audio" {
		t.Errorf("data = %q", data)
	}
}

func TestStorage_Exists(t *testing.T) {
	s, fake := newStorage(t)
	fake.put("a.wav", object{body: "RIFF", contentType: "audio/wav"})

	tests := []struct {
		key  string
		want bool
	}{
		{"a.wav", true},
		{"b.wav", false},
	}
	for _, tt := range tests {
		got, err := s.Exists(context.Background(), tt.key)
		if err != nil {
			t.Fatalf("Exists(%q): %v", tt.key, err)
		}
		if got != tt.want {
			t.Errorf("Exists(%q) = %v, want %v", tt.key, got, tt.want)
		}
	}
}

func TestStorage_URI(t *testing.T) {
	s, _ := newStorage(t)
	if got := s.URI("llamada_converted.wav"); got != "s3://"+bucket+"/llamada_converted.wav" {
		t.Errorf("URI = %q", got)
	}
}
