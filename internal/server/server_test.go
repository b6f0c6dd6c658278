package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmr-tortoise/portscout/internal/model"
	"github.com/mmr-tortoise/portscout/internal/port"
)

// fakeRuntime doubles as Snapshotter and Pinger so one fixture drives both
// the service and the health endpoint. Call counting lets tests assert the
// no-runtime-call guarantee for validation failures.
type fakeRuntime struct {
	containers []model.RawContainer
	snapErr    error
	pingErr    error
	snapshots  int
}

func (f *fakeRuntime) Snapshot(ctx context.Context) ([]model.RawContainer, error) {
	f.snapshots++
	if f.snapErr != nil {
		return nil, f.snapErr
	}
	return f.containers, nil
}

func (f *fakeRuntime) Ping(ctx context.Context) error {
	return f.pingErr
}

// newTestServer wires a real port.Service over the fake runtime, the same
// composition main uses.
func newTestServer(rt *fakeRuntime) (*Server, *port.Service) {
	svc := port.NewService(rt)
	return New(svc, rt, nil), svc
}

func doGet(t *testing.T, s *Server, path string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func webDBRuntime() *fakeRuntime {
	return &fakeRuntime{
		containers: []model.RawContainer{
			{
				ID:     "aaaaaaaaaaaaaaaaaaaaaaaa",
				Name:   "/web",
				Image:  "nginx:1.27",
				Status: "Up 3 hours",
				Bindings: model.BindingTable{
					"80/tcp": {{HostIP: "0.0.0.0", HostPort: "8080"}},
				},
			},
			{
				ID:    "bbbbbbbbbbbbbbbbbbbbbbbb",
				Name:  "/db",
				Image: "postgres:16",
				Bindings: model.BindingTable{
					"5432/tcp": {{HostPort: "5432"}, {HostPort: "5433"}},
				},
			},
		},
	}
}

// TestGetPorts verifies the inventory payload shape: sorted usedPorts plus
// per-container records with short IDs and normalized names.
func TestGetPorts(t *testing.T) {
	s, _ := newTestServer(webDBRuntime())

	rec := doGet(t, s, "/ports")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		UsedPorts  []int `json:"usedPorts"`
		Containers []struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Bindings []struct {
				ContainerPort string `json:"containerPort"`
				HostPort      int    `json:"hostPort"`
				HostIP        string `json:"hostIp"`
			} `json:"bindings"`
		} `json:"containers"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))

	assert.Equal(t, []int{5432, 5433, 8080}, body.UsedPorts)
	require.Len(t, body.Containers, 2)
	assert.Equal(t, "web", body.Containers[0].Name)
	assert.Equal(t, "aaaaaaaaaaaa", body.Containers[0].ID, "IDs are truncated to 12 chars")
	require.Len(t, body.Containers[0].Bindings, 1)
	assert.Equal(t, "0.0.0.0", body.Containers[0].Bindings[0].HostIP)
}

// TestGetPorts_EmptyInventory verifies [] (not null) for a quiet host.
func TestGetPorts_EmptyInventory(t *testing.T) {
	s, _ := newTestServer(&fakeRuntime{})

	rec := doGet(t, s, "/ports")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"usedPorts":[],"containers":[]}`, rec.Body.String())
}

// TestCheck_Occupied verifies the usedBy attribution for a bound port.
func TestCheck_Occupied(t *testing.T) {
	s, _ := newTestServer(webDBRuntime())

	rec := doGet(t, s, "/ports/8080/check")
	require.Equal(t, http.StatusOK, rec.Code)

	var result model.PortCheckResult
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &result))
	assert.Equal(t, 8080, result.Port)
	assert.False(t, result.Available)
	require.NotNil(t, result.UsedBy)
	assert.Equal(t, "web", result.UsedBy.Container)
	assert.Equal(t, "80/tcp", result.UsedBy.ContainerPort)
}

// TestCheck_Free verifies that usedBy is omitted entirely for a free port.
func TestCheck_Free(t *testing.T) {
	s, _ := newTestServer(webDBRuntime())

	rec := doGet(t, s, "/ports/3000/check")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"port":3000,"available":true}`, rec.Body.String())
}

// TestCheck_OutOfRange verifies the validation gate: 70000 is rejected with
// a 400 and the runtime is never consulted.
func TestCheck_OutOfRange(t *testing.T) {
	rt := webDBRuntime()
	s, _ := newTestServer(rt)

	rec := doGet(t, s, "/ports/70000/check")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), codeValidationFailed)
	assert.Equal(t, 0, rt.snapshots, "invalid port must not trigger a snapshot")
}

// TestCheck_NonNumeric verifies that a garbage path segment is a validation
// failure handled before the service is called.
func TestCheck_NonNumeric(t *testing.T) {
	rt := webDBRuntime()
	s, _ := newTestServer(rt)

	rec := doGet(t, s, "/ports/banana/check")
	require.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), codeValidationFailed)
	assert.Equal(t, 0, rt.snapshots)
}

// TestRandom verifies a successful draw: in range, marked available, and
// not one of the occupied ports.
func TestRandom(t *testing.T) {
	s, _ := newTestServer(webDBRuntime())

	rec := doGet(t, s, "/ports/random")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		Port      int  `json:"port"`
		Available bool `json:"available"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.True(t, body.Available)
	assert.GreaterOrEqual(t, body.Port, port.DefaultRangeLow)
	assert.LessOrEqual(t, body.Port, port.DefaultRangeHigh)
	assert.NotContains(t, []int{5432, 5433, 8080}, body.Port)
}

// TestRandom_Exhausted verifies the 500 + generation_exhausted mapping when
// the whole range is occupied, distinguishable from runtime unavailability.
func TestRandom_Exhausted(t *testing.T) {
	s, svc := newTestServer(webDBRuntime())
	svc.SetRange(8080, 8080, 10)

	rec := doGet(t, s, "/ports/random")
	require.Equal(t, http.StatusInternalServerError, rec.Code)
	assert.Contains(t, rec.Body.String(), codeGenerationExhausted)
}

// TestRuntimeUnavailable verifies the 503 mapping on every runtime-backed
// endpoint.
func TestRuntimeUnavailable(t *testing.T) {
	rt := &fakeRuntime{snapErr: &model.RuntimeUnavailableError{Op: "list containers"}}
	s, _ := newTestServer(rt)

	for _, path := range []string{"/ports", "/ports/8080/check", "/ports/random"} {
		rec := doGet(t, s, path)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code, path)
		assert.Contains(t, rec.Body.String(), codeRuntimeUnavailable, path)
	}
}

// TestHealth verifies the liveness pass-through in both directions.
func TestHealth(t *testing.T) {
	rt := webDBRuntime()
	s, _ := newTestServer(rt)

	rec := doGet(t, s, "/health")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())

	rt.pingErr = &model.RuntimeUnavailableError{Op: "ping daemon"}
	rec = doGet(t, s, "/health")
	require.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.JSONEq(t, `{"status":"unavailable"}`, rec.Body.String())
}
