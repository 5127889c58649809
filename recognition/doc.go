// Package recognition submits long-running speech recognition jobs and
// awaits their results.
//
// A Client wraps one Backend chosen by name from a registry:
//
//	reg := recognition.NewRegistry()
//	reg.RegisterFactory(google.ProviderName, google.Factory())
//	backend, _ := reg.Create("google", settings.BackendConfig())
//	client := recognition.NewClient(backend, recognition.ClientConfig{}, log)
//
//	job, err := client.Submit(ctx, recognition.DefaultConfig(), recognition.Audio{URI: "gs://bucket/a.wav"})
//	result, err := client.Await(ctx, job, 180*time.Second)
//
// Submit failures are submission errors. Await distinguishes timeout from
// backend failure. Backends that answer synchronously are wrapped with Go.
package recognition
