package runpod

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imamik/podtrain/internal/compute"
	"github.com/imamik/podtrain/internal/config"
)

// gqlRequest is the body the GraphQL client posts.
type gqlRequest struct {
	Query     string                 `json:"query"`
	Variables map[string]interface{} `json:"variables"`
}

// testServer mocks the GraphQL endpoint. Each request is recorded and
// answered by the handler.
type testServer struct {
	server *httptest.Server

	mu       sync.Mutex
	requests []gqlRequest
	auth     []string
	handler  func(req gqlRequest, n int) interface{}
}

func newTestServer(t *testing.T, handler func(req gqlRequest, n int) interface{}) *testServer {
	t.Helper()
	ts := &testServer{handler: handler}
	ts.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req gqlRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}

		ts.mu.Lock()
		ts.requests = append(ts.requests, req)
		ts.auth = append(ts.auth, r.Header.Get("Authorization"))
		n := len(ts.requests)
		ts.mu.Unlock()

		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(ts.handler(req, n))
	}))
	t.Cleanup(ts.server.Close)
	return ts
}

func (ts *testServer) client() *Client {
	return NewClient(ts.server.URL, "test-key",
		WithHTTPClient(ts.server.Client()),
		WithLogger(logrus.New()),
		WithTimeouts(&config.Timeouts{
			APIRequest:         5 * time.Second,
			CreateMaxAttempts:  3,
			CreateInitialDelay: time.Millisecond,
		}),
	)
}

func (ts *testServer) calls() []gqlRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]gqlRequest(nil), ts.requests...)
}

func data(v interface{}) map[string]interface{} {
	return map[string]interface{}{"data": v}
}

func gqlErrors(msg string) map[string]interface{} {
	return map[string]interface{}{
		"data":   nil,
		"errors": []map[string]interface{}{{"message": msg}},
	}
}

func TestClient_ListOffers(t *testing.T) {
	ts := newTestServer(t, func(req gqlRequest, _ int) interface{} {
		return data(map[string]interface{}{
			"gpuTypes": []map[string]interface{}{
				{
					"id": "NVIDIA A40", "displayName": "A40", "memoryInGb": 48,
					"lowestPrice": map[string]interface{}{
						"minimumBidPrice": 0.2, "uninterruptablePrice": 0.39,
						"totalCount": 10, "rentedCount": 4,
					},
				},
				{
					"id": "NVIDIA H100", "displayName": "H100", "memoryInGb": 80,
					"lowestPrice": map[string]interface{}{
						"minimumBidPrice": nil, "uninterruptablePrice": 2.99,
						"totalCount": 2, "rentedCount": 2,
					},
				},
			},
		})
	})

	offers, err := ts.client().ListOffers(context.Background(), compute.CapacityFilter{GPUCount: 2})
	require.NoError(t, err)
	require.Len(t, offers, 2)

	a40 := offers[0]
	assert.Equal(t, "NVIDIA A40", a40.ID)
	assert.Equal(t, "A40", a40.DisplayName)
	assert.Equal(t, 48, a40.MemoryGB)
	require.NotNil(t, a40.BidPrice)
	assert.True(t, a40.BidPrice.Equal(decimal.RequireFromString("0.2")))
	require.NotNil(t, a40.OnDemandPrice)
	assert.True(t, a40.OnDemandPrice.Equal(decimal.RequireFromString("0.39")))
	assert.True(t, a40.Available())

	h100 := offers[1]
	assert.Nil(t, h100.BidPrice)
	assert.False(t, h100.Available())

	calls := ts.calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "gpuTypes")
	assert.Contains(t, calls[0].Query, "lowestPrice(input: {gpuCount: $gpuCount})")
	assert.EqualValues(t, 2, calls[0].Variables["gpuCount"])
	assert.Equal(t, []string{"Bearer test-key"}, ts.auth)
}

func TestClient_ListOffers_DefaultsGPUCount(t *testing.T) {
	ts := newTestServer(t, func(gqlRequest, int) interface{} {
		return data(map[string]interface{}{"gpuTypes": []interface{}{}})
	})

	offers, err := ts.client().ListOffers(context.Background(), compute.CapacityFilter{})
	require.NoError(t, err)
	assert.Empty(t, offers)
	assert.EqualValues(t, 1, ts.calls()[0].Variables["gpuCount"])
}

func TestClient_ListOffers_Error(t *testing.T) {
	ts := newTestServer(t, func(gqlRequest, int) interface{} {
		return gqlErrors("Unauthorized")
	})

	_, err := ts.client().ListOffers(context.Background(), compute.CapacityFilter{GPUCount: 1})
	require.Error(t, err)
	assert.ErrorIs(t, err, compute.ErrUnauthorized)
}

func testPodSpec() compute.PodSpec {
	return compute.PodSpec{
		Name:            "podtrain-1234abcd",
		OfferID:         "NVIDIA A40",
		CloudType:       "ALL",
		GPUCount:        1,
		ContainerDiskGB: 50,
		VolumeGB:        50,
		MinVCPU:         2,
		MinRAMGB:        15,
		ImageName:       "runpod/pytorch:latest",
		Ports:           "22/tcp",
		VolumeMountPath: "/workspace",
		Env:             []compute.EnvVar{{Key: "PUBLIC_KEY", Value: "ssh-ed25519 AAAA"}},
	}
}

func podResponse(field, id string) map[string]interface{} {
	return data(map[string]interface{}{
		field: map[string]interface{}{
			"id": id, "desiredStatus": "RUNNING", "imageName": "runpod/pytorch:latest", "machineId": "m-1",
		},
	})
}

func TestClient_CreateInterruptible(t *testing.T) {
	ts := newTestServer(t, func(gqlRequest, int) interface{} {
		return podResponse("podRentInterruptable", "pod-1")
	})

	handle, err := ts.client().CreateInterruptible(context.Background(), testPodSpec(), 0.2)
	require.NoError(t, err)
	assert.Equal(t, compute.Handle("pod-1"), handle)

	calls := ts.calls()
	require.Len(t, calls, 1)
	assert.True(t, strings.HasPrefix(calls[0].Query, "mutation"))
	assert.Contains(t, calls[0].Query, "PodRentInterruptableInput")
	assert.Contains(t, calls[0].Query, "podRentInterruptable(input: $input)")

	input, ok := calls[0].Variables["input"].(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, 0.2, input["bidPerGpu"])
	assert.Equal(t, "NVIDIA A40", input["gpuTypeId"])
	assert.Equal(t, "podtrain-1234abcd", input["name"])
	assert.Equal(t, "ALL", input["cloudType"])
	assert.EqualValues(t, 50, input["containerDiskInGb"])
	assert.Equal(t, "/workspace", input["volumeMountPath"])
	assert.Equal(t, []interface{}{
		map[string]interface{}{"key": "PUBLIC_KEY", "value": "ssh-ed25519 AAAA"},
	}, input["env"])
}

func TestClient_CreateOnDemand(t *testing.T) {
	ts := newTestServer(t, func(gqlRequest, int) interface{} {
		return podResponse("podFindAndDeployOnDemand", "pod-2")
	})

	handle, err := ts.client().CreateOnDemand(context.Background(), testPodSpec())
	require.NoError(t, err)
	assert.Equal(t, compute.Handle("pod-2"), handle)

	calls := ts.calls()
	require.Len(t, calls, 1)
	assert.Contains(t, calls[0].Query, "PodFindAndDeployOnDemandInput")
	input := calls[0].Variables["input"].(map[string]interface{})
	assert.NotContains(t, input, "bidPerGpu")
}

func TestClient_Create_RetriesCapacityShortage(t *testing.T) {
	ts := newTestServer(t, func(_ gqlRequest, n int) interface{} {
		if n < 3 {
			return gqlErrors("There are no longer any instances available with the requested specifications. Please refresh and try again.")
		}
		return podResponse("podRentInterruptable", "pod-3")
	})

	handle, err := ts.client().CreateInterruptible(context.Background(), testPodSpec(), 0.2)
	require.NoError(t, err)
	assert.Equal(t, compute.Handle("pod-3"), handle)
	assert.Len(t, ts.calls(), 3)
}

func TestClient_Create_OtherErrorsAreNotRetried(t *testing.T) {
	ts := newTestServer(t, func(gqlRequest, int) interface{} {
		return gqlErrors("invalid gpuTypeId")
	})

	_, err := ts.client().CreateOnDemand(context.Background(), testPodSpec())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid gpuTypeId")
	assert.Len(t, ts.calls(), 1)
}

func TestClient_Create_RejectedKey(t *testing.T) {
	ts := newTestServer(t, func(gqlRequest, int) interface{} {
		return gqlErrors("Unauthorized")
	})

	_, err := ts.client().CreateInterruptible(context.Background(), testPodSpec(), 0.3)
	require.Error(t, err)
	assert.ErrorIs(t, err, compute.ErrUnauthorized)
	assert.Len(t, ts.calls(), 1)
}

func TestClient_ListOffers_OtherErrorIsNotUnauthorized(t *testing.T) {
	ts := newTestServer(t, func(gqlRequest, int) interface{} {
		return gqlErrors("internal error")
	})

	_, err := ts.client().ListOffers(context.Background(), compute.CapacityFilter{GPUCount: 1})
	require.Error(t, err)
	assert.NotErrorIs(t, err, compute.ErrUnauthorized)
}

func TestClient_Create_EmptyID(t *testing.T) {
	ts := newTestServer(t, func(gqlRequest, int) interface{} {
		return podResponse("podFindAndDeployOnDemand", "")
	})

	_, err := ts.client().CreateOnDemand(context.Background(), testPodSpec())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoPodReturned)
	assert.Len(t, ts.calls(), 1)
}

func TestClient_Status(t *testing.T) {
	t.Run("with ports", func(t *testing.T) {
		ts := newTestServer(t, func(gqlRequest, int) interface{} {
			return data(map[string]interface{}{
				"pod": map[string]interface{}{
					"id": "pod-1", "desiredStatus": "RUNNING",
					"runtime": map[string]interface{}{
						"uptimeInSeconds": 12,
						"ports": []map[string]interface{}{
							{"ip": "10.0.0.5", "isIpPublic": false, "privatePort": 22, "publicPort": 22, "type": "tcp"},
							{"ip": "203.0.113.9", "isIpPublic": true, "privatePort": 22, "publicPort": 40122, "type": "tcp"},
						},
					},
				},
			})
		})

		status, err := ts.client().Status(context.Background(), "pod-1")
		require.NoError(t, err)
		assert.Equal(t, "pod-1", status.ID)
		assert.Equal(t, "RUNNING", status.DesiredStatus)
		assert.Equal(t, []compute.PortMapping{
			{IP: "10.0.0.5", Public: false, PrivatePort: 22, PublicPort: 22, Type: "tcp"},
			{IP: "203.0.113.9", Public: true, PrivatePort: 22, PublicPort: 40122, Type: "tcp"},
		}, status.Ports)

		calls := ts.calls()
		assert.Contains(t, calls[0].Query, "pod(input: {podId: $podId})")
		assert.Equal(t, "pod-1", calls[0].Variables["podId"])
	})

	t.Run("still starting", func(t *testing.T) {
		ts := newTestServer(t, func(gqlRequest, int) interface{} {
			return data(map[string]interface{}{
				"pod": map[string]interface{}{"id": "pod-1", "desiredStatus": "RUNNING", "runtime": nil},
			})
		})

		status, err := ts.client().Status(context.Background(), "pod-1")
		require.NoError(t, err)
		assert.Empty(t, status.Ports)
	})

	t.Run("not found", func(t *testing.T) {
		ts := newTestServer(t, func(gqlRequest, int) interface{} {
			return data(map[string]interface{}{"pod": nil})
		})

		_, err := ts.client().Status(context.Background(), "pod-x")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestClient_Stop(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t, func(gqlRequest, int) interface{} {
			return data(map[string]interface{}{
				"podStop": map[string]interface{}{"id": "pod-1", "desiredStatus": "EXITED"},
			})
		})

		require.NoError(t, ts.client().Stop(context.Background(), "pod-1"))
		calls := ts.calls()
		require.Len(t, calls, 1)
		assert.Contains(t, calls[0].Query, "podStop(input: {podId: $podId})")
		assert.Equal(t, "pod-1", calls[0].Variables["podId"])
	})

	t.Run("already gone", func(t *testing.T) {
		ts := newTestServer(t, func(gqlRequest, int) interface{} {
			return gqlErrors("pod not found")
		})

		assert.NoError(t, ts.client().Stop(context.Background(), "pod-1"))
	})

	t.Run("failure", func(t *testing.T) {
		ts := newTestServer(t, func(gqlRequest, int) interface{} {
			return gqlErrors("internal error")
		})

		err := ts.client().Stop(context.Background(), "pod-1")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "pod-1")
	})
}
