// Package config loads service configuration with Viper.
//
// Values come from cmd/<service>/config.yml, an optional .env file loaded
// through godotenv, and the process environment, in increasing precedence.
//
//	var cfg app.Config
//	err := config.LoadConfig("transcriber", &cfg, config.WithEnvAlias("http.port", "PORT"))
package config
