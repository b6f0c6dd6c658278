// Package server exposes the port inventory over HTTP.
//
// The API is the caller-facing contract of the core:
//
//	GET /ports              → full inventory (usedPorts + containers)
//	GET /ports/:port/check  → availability of a single port
//	GET /ports/random       → a random free port in the configured range
//	GET /health             → liveness of the container runtime connection
//
// Failures map to statuses by taxonomy: validation failures are 400,
// runtime unavailability is 503, generation exhaustion is 500. Every error
// body carries a stable "code" string so callers can branch without parsing
// messages.
package server
