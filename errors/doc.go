// Package errors provides the closed error taxonomy used across the service.
//
// Every failure surfaced to a caller is an *AppError carrying a machine-readable
// code, a stable Kind, and the HTTP status it maps to. Collaborator adapters
// return tagged errors; anything untagged that reaches the HTTP boundary is
// classified as unknown.
package errors
