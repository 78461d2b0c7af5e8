// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package health

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/nats-io/nats.go"
)

const (
	StatusConnected    = "connected"
	StatusDisconnected = "disconnected"
	StatusDisabled     = "disabled"

	checkTimeout = 2 * time.Second
)

// Pinger is anything that can verify its own connection
type Pinger interface {
	Ping(ctx context.Context) error
}

// Status of each dependency
type Status struct {
	Redis    string `json:"redis"`
	NATS     string `json:"nats"`
	Database string `json:"database"`
}

// Healthy reports whether every enabled dependency is connected
func (s Status) Healthy() bool {
	for _, v := range []string{s.Redis, s.NATS, s.Database} {
		if v == StatusDisconnected {
			return false
		}
	}
	return true
}

// Checker probes the room store, the event bus and the archive. The bus
// and archive are optional; nil means disabled.
type Checker struct {
	redis    Pinger
	nc       *nats.Conn
	database Pinger
}

func NewChecker(redis Pinger, nc *nats.Conn, database Pinger) *Checker {
	return &Checker{
		redis:    redis,
		nc:       nc,
		database: database,
	}
}

// Check runs every probe
func (h *Checker) Check(ctx context.Context) Status {
	status := Status{
		Redis:    ping(ctx, h.redis),
		NATS:     StatusDisabled,
		Database: ping(ctx, h.database),
	}

	if h.nc != nil {
		if h.nc.IsConnected() {
			status.NATS = StatusConnected
		} else {
			status.NATS = StatusDisconnected
		}
	}

	return status
}

func ping(ctx context.Context, p Pinger) string {
	if p == nil {
		return StatusDisabled
	}
	ctx, cancel := context.WithTimeout(ctx, checkTimeout)
	defer cancel()
	if err := p.Ping(ctx); err != nil {
		return StatusDisconnected
	}
	return StatusConnected
}

// Live handles GET /health. The process is up if it can answer.
func (h *Checker) Live(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

// Ready handles GET /ready
func (h *Checker) Ready(w http.ResponseWriter, r *http.Request) {
	status := h.Check(r.Context())

	w.Header().Set("Content-Type", "application/json")
	if status.Healthy() {
		w.WriteHeader(http.StatusOK)
	} else {
		w.WriteHeader(http.StatusServiceUnavailable)
	}
	json.NewEncoder(w).Encode(status)
}
