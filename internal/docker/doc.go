// Package docker is the runtime client: the collaborator that talks to the
// Docker daemon and supplies raw container and binding data to the core.
//
// It wraps the Docker Engine SDK client with automatic socket detection
// across platforms (Linux, macOS, Windows), daemon liveness checks, and the
// Snapshot operation that pairs each running container with its port binding
// table in a single point-in-time pass.
//
// Every daemon failure is reported as a model.RuntimeUnavailableError.
// Retry policy, if any, belongs to callers — this package never retries.
package docker
