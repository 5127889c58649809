// Package api exposes the transcription workflow over HTTP.
package api
