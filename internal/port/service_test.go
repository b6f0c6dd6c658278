package port

import (
	"context"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/portscout/internal/model"
)

// fakeSnapshotter is a test double for the runtime client. It counts calls
// so tests can assert whether the runtime was consulted at all.
type fakeSnapshotter struct {
	containers []model.RawContainer
	err        error
	calls      int
}

func (f *fakeSnapshotter) Snapshot(ctx context.Context) ([]model.RawContainer, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.containers, nil
}

func webSnapshot() []model.RawContainer {
	return []model.RawContainer{
		{
			ID:   "aaaaaaaaaaaaaaaa",
			Name: "/web",
			Bindings: model.BindingTable{
				"80/tcp": {{HostPort: "8080"}},
			},
		},
	}
}

// TestService_Inventory verifies the straight snapshot → build path.
func TestService_Inventory(t *testing.T) {
	fake := &fakeSnapshotter{containers: webSnapshot()}
	svc := NewService(fake)

	inv, err := svc.Inventory(context.Background())
	require.NoError(t, err)

	assert.Equal(t, []int{8080}, inv.UsedPorts)
	assert.Equal(t, 1, fake.calls)
}

// TestService_Check_ValidationShortCircuits verifies the precondition from
// the availability contract: an out-of-range port is reported as a
// validation failure BEFORE any runtime interaction is attempted.
func TestService_Check_ValidationShortCircuits(t *testing.T) {
	fake := &fakeSnapshotter{containers: webSnapshot()}
	svc := NewService(fake)

	_, err := svc.Check(context.Background(), 70000)
	require.Error(t, err)

	var verr *model.ValidationError
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, 0, fake.calls, "the runtime must not be consulted for an invalid port")
}

// TestService_Check verifies the full check path over a fresh snapshot.
func TestService_Check(t *testing.T) {
	fake := &fakeSnapshotter{containers: webSnapshot()}
	svc := NewService(fake)

	result, err := svc.Check(context.Background(), 8080)
	require.NoError(t, err)
	assert.False(t, result.Available)
	require.NotNil(t, result.UsedBy)
	assert.Equal(t, "web", result.UsedBy.Container)

	result, err = svc.Check(context.Background(), 9000)
	require.NoError(t, err)
	assert.True(t, result.Available)

	// Each request rebuilds its inventory from scratch — two checks mean
	// two snapshots, never a cached one.
	assert.Equal(t, 2, fake.calls)
}

// TestService_RuntimeFailurePropagates verifies that a RuntimeUnavailable
// condition from the collaborator surfaces unchanged; the core never retries.
func TestService_RuntimeFailurePropagates(t *testing.T) {
	fake := &fakeSnapshotter{err: &model.RuntimeUnavailableError{Op: "list containers"}}
	svc := NewService(fake)

	_, err := svc.Inventory(context.Background())
	var runtimeErr *model.RuntimeUnavailableError
	require.ErrorAs(t, err, &runtimeErr)

	_, err = svc.Check(context.Background(), 8080)
	require.ErrorAs(t, err, &runtimeErr)

	_, err = svc.Random(context.Background())
	require.ErrorAs(t, err, &runtimeErr)

	assert.Equal(t, 3, fake.calls, "one snapshot attempt per request, no retries")
}

// TestService_Random verifies generation against the configured range and
// the exhaustion failure mode.
func TestService_Random(t *testing.T) {
	fake := &fakeSnapshotter{containers: webSnapshot()}
	svc := NewService(fake)
	svc.SetRand(rand.New(rand.NewPCG(7, 0)))

	port, err := svc.Random(context.Background())
	require.NoError(t, err)
	assert.GreaterOrEqual(t, port, DefaultRangeLow)
	assert.LessOrEqual(t, port, DefaultRangeHigh)
	assert.NotEqual(t, 8080, port)

	// Narrow the range onto the single occupied port: exhaustion.
	svc.SetRange(8080, 8080, 10)
	_, err = svc.Random(context.Background())

	var exhausted *model.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, 10, exhausted.Attempts)
}
