// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package health

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	natsserver "github.com/nats-io/nats-server/v2/test"
	"github.com/nats-io/nats.go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

var (
	up   = pingFunc(func(context.Context) error { return nil })
	down = pingFunc(func(context.Context) error { return errors.New("unreachable") })
)

func TestCheck(t *testing.T) {
	tests := []struct {
		name     string
		redis    Pinger
		database Pinger
		want     Status
		healthy  bool
	}{
		{"all up", up, up, Status{StatusConnected, StatusDisabled, StatusConnected}, true},
		{"archive disabled", up, nil, Status{StatusConnected, StatusDisabled, StatusDisabled}, true},
		{"redis down", down, nil, Status{StatusDisconnected, StatusDisabled, StatusDisabled}, false},
		{"archive down", up, down, Status{StatusConnected, StatusDisabled, StatusDisconnected}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewChecker(tt.redis, nil, tt.database).Check(context.Background())
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.healthy, got.Healthy())
		})
	}
}

func TestCheckNATS(t *testing.T) {
	s := natsserver.RunRandClientPortServer()
	nc, err := nats.Connect(s.ClientURL())
	require.NoError(t, err)
	defer nc.Close()

	c := NewChecker(up, nc, nil)
	assert.Equal(t, StatusConnected, c.Check(context.Background()).NATS)

	nc.Close()
	s.Shutdown()
	assert.Equal(t, StatusDisconnected, c.Check(context.Background()).NATS)
}

func TestReady(t *testing.T) {
	t.Run("ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewChecker(up, nil, nil).Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))

		assert.Equal(t, http.StatusOK, w.Code)
		var status Status
		require.NoError(t, json.NewDecoder(w.Body).Decode(&status))
		assert.Equal(t, StatusConnected, status.Redis)
	})

	t.Run("not ready", func(t *testing.T) {
		w := httptest.NewRecorder()
		NewChecker(down, nil, nil).Ready(w, httptest.NewRequest(http.MethodGet, "/ready", nil))
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	})
}

func TestLive(t *testing.T) {
	w := httptest.NewRecorder()
	NewChecker(down, nil, nil).Live(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "OK", w.Body.String())
}
