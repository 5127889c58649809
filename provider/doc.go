// Package provider defines swappable backends and the middleware that wraps them.
//
// Backends implement Provider and are created by name through a Registry of
// factories. Single-call backends implement RequestResponse and can be
// decorated with Chain:
//
//	wrapped := provider.Chain(
//	    provider.WithLogging[process.Command, *process.Result](log),
//	    provider.WithTracing[process.Command, *process.Result]("transcoder"),
//	    provider.WithResilience[process.Command, *process.Result](cfg),
//	)(process.NewAdapter(process.Config{Name: "ffmpeg"}))
package provider
