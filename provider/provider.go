package provider

import "context"

// Provider is the base interface every swappable backend implements.
type Provider interface {
	// Name returns the provider's unique name.
	Name() string
	// IsAvailable checks if the provider is ready to handle requests.
	IsAvailable(ctx context.Context) bool
}

// Factory creates a provider instance from configuration.
type Factory[T Provider] func(cfg map[string]any) (T, error)

// RequestResponse is a provider that takes one input and returns one output.
// Subprocess execution and single HTTP calls fit this shape.
type RequestResponse[I, O any] interface {
	Provider
	Execute(ctx context.Context, input I) (O, error)
}

// Func adapts a plain function into a RequestResponse provider.
type Func[I, O any] struct {
	ProviderName string
	Fn           func(ctx context.Context, input I) (O, error)
}

func (f Func[I, O]) Name() string                       { return f.ProviderName }
func (f Func[I, O]) IsAvailable(_ context.Context) bool { return f.Fn != nil }

func (f Func[I, O]) Execute(ctx context.Context, input I) (O, error) {
	return f.Fn(ctx, input)
}
