// Package app wires the transcription service: it builds every component
// from Config and mounts the HTTP API once they are started.
package app

import (
	"context"
	"fmt"

	"github.com/kbukum/transcriber/api"
	"github.com/kbukum/transcriber/bootstrap"
	"github.com/kbukum/transcriber/component"
	"github.com/kbukum/transcriber/observability"
	"github.com/kbukum/transcriber/provider"
	"github.com/kbukum/transcriber/recognition"
	"github.com/kbukum/transcriber/server"
	"github.com/kbukum/transcriber/storage"
	"github.com/kbukum/transcriber/transcoder"
	"github.com/kbukum/transcriber/version"
	"github.com/kbukum/transcriber/workflow"
)

// App is the bootstrapped service.
type App = bootstrap.App[*Config]

// Option customizes New.
type Option func(*options)

type options struct {
	bootstrap []bootstrap.Option
	backends  *provider.Registry[recognition.Backend]
	store     storage.Storage
}

// WithBootstrapOptions passes options through to bootstrap.NewApp.
func WithBootstrapOptions(opts ...bootstrap.Option) Option {
	return func(o *options) { o.bootstrap = append(o.bootstrap, opts...) }
}

// WithBackends replaces the recognition backend registry.
func WithBackends(reg *provider.Registry[recognition.Backend]) Option {
	return func(o *options) { o.backends = reg }
}

// WithStorage uses store instead of building one from the storage config.
func WithStorage(store storage.Storage) Option {
	return func(o *options) { o.store = store }
}

// New builds the service. Components start in this order: observability,
// storage, transcoder, recognition, HTTP server. Every route is mounted here,
// before the server listens; the transcribe route answers 503 until the
// configure phase builds the orchestrator on the started clients.
func New(cfg *Config, opts ...Option) (*App, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	if o.backends == nil {
		o.backends = Backends()
	}
	if cfg.Version == "" {
		cfg.Version = version.Get().String()
	}

	a, err := bootstrap.NewApp(cfg, o.bootstrap...)
	if err != nil {
		return nil, err
	}
	log := a.Logger
	if o.store != nil && o.store.Bucket() != cfg.Storage.Bucket {
		return nil, fmt.Errorf("storage: store is bound to bucket %q, config names %q", o.store.Bucket(), cfg.Storage.Bucket)
	}

	obs := observability.NewComponent(observability.Service{
		Name:        cfg.Name,
		Version:     cfg.Version,
		Environment: cfg.Environment,
	}, cfg.Observability, log)

	var store storageProvider
	if o.store != nil {
		store = staticStorage{o.store}
	} else {
		store = storage.NewComponent(cfg.Storage, log)
	}

	tc := transcoder.NewComponent(transcoder.New(cfg.Transcoder, cfg.Name, log))
	rec := recognition.NewComponent(cfg.Recognition, o.backends, log)

	srv := server.New(cfg.HTTP, log)
	srv.ApplyMiddleware()
	srv.RegisterDefaultEndpoints(cfg.Name, a.Components.HealthAll, store.Name(), tc.Name(), rec.Name())
	transcriber := &api.Deferred{}
	api.NewHandler(transcriber, log).Register(srv.GinEngine())

	for _, c := range []component.Component{obs, store, tc, rec, server.NewComponent(srv)} {
		if err := a.RegisterComponent(c); err != nil {
			return nil, err
		}
	}

	a.OnConfigure(func(ctx context.Context, a *App) error {
		orch, err := workflow.New(cfg.Workflow, workflow.Deps{
			Store:      storage.NewGateway(store.Storage(), log),
			Transcoder: tc.Transcoder(),
			Recognizer: rec.Client(),
			Metrics:    obs.Metrics(),
			Log:        log,
		})
		if err != nil {
			return err
		}
		transcriber.Set(orch)
		a.Logger.Info("Transcription enabled", map[string]interface{}{
			"route":   api.TranscribePath,
			"addr":    srv.Addr(),
			"bucket":  cfg.Storage.Bucket,
			"backend": rec.Client().Backend(),
		})
		return nil
	})
	return a, nil
}

type storageProvider interface {
	component.Component
	Storage() storage.Storage
}

// staticStorage serves a Storage built by the caller.
type staticStorage struct {
	s storage.Storage
}

func (s staticStorage) Name() string                { return "storage" }
func (s staticStorage) Start(context.Context) error { return nil }
func (s staticStorage) Stop(context.Context) error  { return s.s.Close() }
func (s staticStorage) Storage() storage.Storage    { return s.s }
func (s staticStorage) Health(context.Context) component.Health {
	return component.Health{Name: "storage", Status: component.StatusHealthy}
}
