package app

import (
	"github.com/kbukum/transcriber/provider"
	"github.com/kbukum/transcriber/recognition"
	"github.com/kbukum/transcriber/recognition/google"
	"github.com/kbukum/transcriber/recognition/openai"
	"github.com/kbukum/transcriber/recognition/whisper"

	// Storage backends register themselves.
	_ "github.com/kbukum/transcriber/storage/gcs"
	_ "github.com/kbukum/transcriber/storage/local"
	_ "github.com/kbukum/transcriber/storage/s3"
)

// Backends returns a registry with every recognition backend.
func Backends() *provider.Registry[recognition.Backend] {
	reg := recognition.NewRegistry()
	reg.RegisterFactory(google.ProviderName, google.Factory())
	reg.RegisterFactory(whisper.ProviderName, whisper.Factory())
	reg.RegisterFactory(openai.ProviderName, openai.Factory())
	return reg
}
