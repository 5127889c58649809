package provider_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kbukum/transcriber/logger"
	"github.com/kbukum/transcriber/provider"
	"github.com/kbukum/transcriber/resilience"
)

type echoProvider struct {
	name  string
	err   error
	calls int
}

func (p *echoProvider) Name() string                       { return p.name }
func (p *echoProvider) IsAvailable(_ context.Context) bool { return true }

func (p *echoProvider) Execute(_ context.Context, input string) (string, error) {
	p.calls++
	if p.err != nil {
		return "", p.err
	}
	return "echo:" + input, nil
}

type orderTracker struct {
	inner provider.RequestResponse[string, string]
	tag   string
	order *[]string
}

func (o *orderTracker) Name() string                         { return o.inner.Name() }
func (o *orderTracker) IsAvailable(ctx context.Context) bool { return o.inner.IsAvailable(ctx) }

func (o *orderTracker) Execute(ctx context.Context, in string) (string, error) {
	*o.order = append(*o.order, o.tag+":in")
	out, err := o.inner.Execute(ctx, in)
	*o.order = append(*o.order, o.tag+":out")
	return out, err
}

func TestChain_Order(t *testing.T) {
	var order []string
	mw := func(tag string) provider.Middleware[string, string] {
		return func(inner provider.RequestResponse[string, string]) provider.RequestResponse[string, string] {
			return &orderTracker{inner: inner, tag: tag, order: &order}
		}
	}

	wrapped := provider.Chain(mw("A"), mw("B"))(&echoProvider{name: "test"})
	if _, err := wrapped.Execute(context.Background(), "x"); err != nil {
		t.Fatal(err)
	}

	want := "A:in,B:in,B:out,A:out"
	if got := strings.Join(order, ","); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestChain_LoggingAndTracingPassThrough(t *testing.T) {
	p := &echoProvider{name: "ffmpeg"}
	wrapped := provider.Chain(
		provider.WithLogging[string, string](logger.Nop()),
		provider.WithTracing[string, string]("transcoder"),
	)(p)

	if wrapped.Name() != "ffmpeg" {
		t.Errorf("expected name to pass through, got %q", wrapped.Name())
	}
	out, err := wrapped.Execute(context.Background(), "a.mp3")
	if err != nil || out != "echo:a.mp3" {
		t.Fatalf("expected echo:a.mp3, got %q, err %v", out, err)
	}

	p.err = errors.New("exit status 1")
	if _, err := wrapped.Execute(context.Background(), "a.mp3"); !errors.Is(err, p.err) {
		t.Errorf("expected inner error to propagate, got %v", err)
	}
}

func TestRegistry_CreateAndList(t *testing.T) {
	reg := provider.NewRegistry[*echoProvider]()
	reg.RegisterFactory("google", func(cfg map[string]any) (*echoProvider, error) {
		return &echoProvider{name: "google"}, nil
	})
	reg.RegisterFactory("whisper", func(cfg map[string]any) (*echoProvider, error) {
		return &echoProvider{name: "whisper"}, nil
	})

	p, err := reg.Create("whisper", nil)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if p.Name() != "whisper" {
		t.Errorf("expected whisper, got %s", p.Name())
	}
	if !reg.Has("google") || reg.Has("azure") {
		t.Error("unexpected Has result")
	}
	if got := strings.Join(reg.List(), ","); got != "google,whisper" {
		t.Errorf("expected sorted names, got %s", got)
	}
}

func TestRegistry_UnknownName(t *testing.T) {
	reg := provider.NewRegistry[*echoProvider]()
	_, err := reg.Create("missing", nil)
	if err == nil || !strings.Contains(err.Error(), `"missing"`) {
		t.Errorf("expected not registered error, got %v", err)
	}
}

func TestWithResilience_EmptyIsPassthrough(t *testing.T) {
	p := &echoProvider{name: "p"}
	wrapped := provider.WithResilience[string, string](provider.ResilienceConfig{})(p)
	if wrapped != provider.RequestResponse[string, string](p) {
		t.Error("expected empty config to return the provider unchanged")
	}
}

func TestWithResilience_CircuitOpens(t *testing.T) {
	p := &echoProvider{name: "p", err: errors.New("rejected")}
	wrapped := provider.WithResilience[string, string](provider.ResilienceConfig{
		CircuitBreaker: &resilience.CircuitBreakerConfig{MaxFailures: 2},
	})(p)

	for i := 0; i < 2; i++ {
		_, _ = wrapped.Execute(context.Background(), "x")
	}
	_, err := wrapped.Execute(context.Background(), "x")
	if !errors.Is(err, resilience.ErrCircuitOpen) {
		t.Fatalf("expected ErrCircuitOpen, got %v", err)
	}
	if p.calls != 2 {
		t.Errorf("expected inner to be called twice, got %d", p.calls)
	}
}

func TestExecuteWithResilience_NilState(t *testing.T) {
	got, err := provider.ExecuteWithResilience(context.Background(), nil, func() (int, error) { return 7, nil })
	if err != nil || got != 7 {
		t.Errorf("expected passthrough, got %d, %v", got, err)
	}
}

func TestFunc(t *testing.T) {
	f := provider.Func[string, int]{ProviderName: "len", Fn: func(_ context.Context, s string) (int, error) {
		return len(s), nil
	}}
	n, err := f.Execute(context.Background(), "hola")
	if err != nil || n != 4 {
		t.Errorf("expected 4, got %d, %v", n, err)
	}
	if !f.IsAvailable(context.Background()) {
		t.Error("expected Func with Fn to be available")
	}
}

func TestDecodeConfig(t *testing.T) {
	var out struct {
		URL     string        `mapstructure:"url"`
		Timeout time.Duration `mapstructure:"timeout"`
		Workers int           `mapstructure:"workers"`
	}
	err := provider.DecodeConfig(map[string]any{
		"url":     "http://sidecar:8387",
		"timeout": "90s",
		"workers": "4",
	}, &out)
	if err != nil {
		t.Fatalf("DecodeConfig: %v", err)
	}
	if out.URL != "http://sidecar:8387" || out.Timeout != 90*time.Second || out.Workers != 4 {
		t.Errorf("decoded = %+v", out)
	}
	if err := provider.DecodeConfig(nil, &out); err != nil {
		t.Errorf("nil map: %v", err)
	}
}
