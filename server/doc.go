// Package server provides the HTTP server: a Gin engine served over HTTP/1.1
// and h2c, wrapped by the middleware in server/middleware and exposing the
// health endpoints in server/endpoint.
package server
