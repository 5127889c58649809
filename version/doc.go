// Package version exposes build information for the /info endpoint and
// startup logs.
//
//	go build -ldflags "-X github.com/kbukum/transcriber/version.Version=1.0.0"
package version
