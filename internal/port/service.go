package port

import (
	"context"
	"math/rand/v2"

	"github.com/mmr-tortoise/portscout/internal/model"
)

// Snapshotter supplies a consistent point-in-time view of the running
// containers and their binding tables. The Docker runtime client implements
// it; tests substitute fakes.
//
// A single Snapshot call must not mix container lists obtained at different
// points in time — that is the only consistency requirement the core relies
// on. Timeout and retry policy belong to the implementation, not here.
type Snapshotter interface {
	Snapshot(ctx context.Context) ([]model.RawContainer, error)
}

// Service answers inventory, availability, and random-port queries over a
// Snapshotter.
//
// Each request is a single synchronous computation over a fresh snapshot:
// no caching, no locks, no state shared between requests. Every call pays
// the full enumeration cost of the runtime client.
type Service struct {
	// runtime is the collaborator that talks to the container daemon.
	// Injected via constructor to allow test doubles.
	runtime Snapshotter

	// Random generation parameters, defaulted in NewService and
	// overridable via SetRange.
	rangeLow    int
	rangeHigh   int
	maxAttempts int

	// rng is an optional seeded source for reproducible generation in
	// tests. Nil means the shared math/rand/v2 source.
	rng *rand.Rand
}

// NewService creates a Service over the given runtime client with the
// default random-generation range and attempt budget.
// The runtime must not be nil.
func NewService(runtime Snapshotter) *Service {
	return &Service{
		runtime:     runtime,
		rangeLow:    DefaultRangeLow,
		rangeHigh:   DefaultRangeHigh,
		maxAttempts: DefaultMaxAttempts,
	}
}

// SetRange overrides the sampling range and attempt budget used by Random.
// Bounds are validated at generation time, not here.
func (s *Service) SetRange(low, high, maxAttempts int) {
	s.rangeLow = low
	s.rangeHigh = high
	s.maxAttempts = maxAttempts
}

// SetRand injects a seeded random source for reproducible draws.
func (s *Service) SetRand(rng *rand.Rand) {
	s.rng = rng
}

// Inventory builds the current port inventory from a fresh runtime snapshot.
func (s *Service) Inventory(ctx context.Context) (model.PortInventory, error) {
	snapshot, err := s.runtime.Snapshot(ctx)
	if err != nil {
		return model.PortInventory{}, err
	}
	return Build(snapshot), nil
}

// Check reports whether a single host port is free.
//
// Validation runs first and short-circuits: an out-of-range port never
// reaches the runtime client.
func (s *Service) Check(ctx context.Context, port int) (model.PortCheckResult, error) {
	if err := ValidatePort(port); err != nil {
		return model.PortCheckResult{}, err
	}

	inv, err := s.Inventory(ctx)
	if err != nil {
		return model.PortCheckResult{}, err
	}
	return Check(inv, port), nil
}

// Random mints a free port within the configured range. The returned port is
// not reserved — it was merely free as of the snapshot used.
func (s *Service) Random(ctx context.Context) (int, error) {
	inv, err := s.Inventory(ctx)
	if err != nil {
		return 0, err
	}
	return RandomFree(inv, s.rangeLow, s.rangeHigh, s.maxAttempts, s.rng)
}
