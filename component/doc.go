// Package component defines the lifecycle contract for long-lived
// infrastructure and a Registry that starts, stops and health-checks it.
package component
