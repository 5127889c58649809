// Package resilience provides the fault-isolation primitives used around
// external collaborators.
//
//   - Bulkhead caps how many calls run at once, e.g. concurrent ffmpeg processes.
//   - CircuitBreaker fails fast after repeated errors from a backend.
//
// Neither primitive retries; a failed call is reported to the caller once.
package resilience
