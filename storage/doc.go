// Package storage provides object storage bound to a single bucket and the
// Gateway the transcription workflow uses to move files between the bucket
// and local scratch space.
//
// Backends register themselves from init:
//
//	import (
//	    _ "github.com/kbukum/transcriber/storage/gcs"
//	    _ "github.com/kbukum/transcriber/storage/local"
//	    _ "github.com/kbukum/transcriber/storage/s3"
//	)
//
//	store, err := storage.New(ctx, cfg.Storage, log)
//	gw := storage.NewGateway(store, log)
package storage
