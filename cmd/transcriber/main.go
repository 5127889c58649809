// Command transcriber serves POST /transcribir_audio: it converts an audio
// object from the bucket with ffmpeg, runs a speech recognition job on it,
// and returns the transcript.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/kbukum/transcriber/app"
	"github.com/kbukum/transcriber/config"
	"github.com/kbukum/transcriber/logger"
)

func main() {
	configFile := flag.String("config", "", "path to config.yml (default: search ./cmd/transcriber, ./config, .)")
	envFile := flag.String("env", "", "path to a .env file")
	flag.Parse()

	var opts []config.LoaderOption
	if *configFile != "" {
		opts = append(opts, config.WithConfigFile(*configFile))
	}
	if *envFile != "" {
		opts = append(opts, config.WithEnvFile(*envFile))
	}

	cfg, err := app.Load(opts...)
	if err != nil {
		logger.Fatal("Failed to load config", logger.ErrorFields("load", err))
	}

	a, err := app.New(cfg)
	if err != nil {
		logger.Fatal("Failed to build service", logger.ErrorFields("build", err))
	}

	if err := a.Run(context.Background()); err != nil {
		a.Logger.Error("Service stopped with error", logger.ErrorFields("run", err))
		os.Exit(1)
	}
}
