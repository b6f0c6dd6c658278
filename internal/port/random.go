package port

import (
	"fmt"
	"math/rand/v2"

	"github.com/mmr-tortoise/portscout/internal/model"
)

const (
	// DefaultRangeLow is the bottom of the development-friendly range
	// random generation samples from by default.
	DefaultRangeLow = 3000

	// DefaultRangeHigh is the top of the default sampling range.
	DefaultRangeHigh = 9999

	// DefaultMaxAttempts is the default retry budget for rejection sampling.
	DefaultMaxAttempts = 100
)

// intn draws a uniformly random integer in [0, n). Injectable so tests can
// seed the source; a nil value falls back to the shared math/rand/v2 source.
type intn func(n int) int

// RandomFree samples a host port in [low, high] (inclusive both ends) that
// is not present in the inventory's used set.
//
// The strategy is sampling-with-rejection, not exhaustive search: draw a
// uniform port, accept the first one that is free, and give up after
// maxAttempts draws. Every free port is reachable, but a near-saturated
// range may burn the whole budget without success — the budget converts
// that into a deterministic ExhaustedError instead of an unbounded loop.
//
// No port is reserved by this operation. It only reports a value that was
// free as of the snapshot behind inv; any race between generation and
// actual use belongs to the caller.
func RandomFree(inv model.PortInventory, low, high, maxAttempts int, rng *rand.Rand) (int, error) {
	if err := validateRange(low, high, maxAttempts); err != nil {
		return 0, err
	}

	draw := intn(rand.IntN)
	if rng != nil {
		draw = rng.IntN
	}

	span := high - low + 1
	for attempt := 0; attempt < maxAttempts; attempt++ {
		candidate := low + draw(span)
		if !inv.Used(candidate) {
			return candidate, nil
		}
	}

	return 0, &model.ExhaustedError{Low: low, High: high, Attempts: maxAttempts}
}

// validateRange gates the generation preconditions: both bounds must be
// valid ports, low must not exceed high, and the attempt budget must be
// positive.
func validateRange(low, high, maxAttempts int) error {
	if low < MinPort || low > MaxPort || high < MinPort || high > MaxPort {
		return &model.ValidationError{
			Field:  "range",
			Reason: fmt.Sprintf("bounds %d-%d must lie within %d-%d", low, high, MinPort, MaxPort),
		}
	}
	if low > high {
		return &model.ValidationError{
			Field:  "range",
			Reason: fmt.Sprintf("lower bound %d exceeds upper bound %d", low, high),
		}
	}
	if maxAttempts < 1 {
		return &model.ValidationError{
			Field:  "attempts",
			Reason: fmt.Sprintf("attempt budget %d must be at least 1", maxAttempts),
		}
	}
	return nil
}
