// Package observability wires OpenTelemetry tracing and metrics.
//
// Export is optional. When disabled, StartSpan and Metrics still work
// against the global no-op providers, so instrumented code never branches
// on whether telemetry is on.
package observability
