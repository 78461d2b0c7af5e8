// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package testutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
)

// SetupStore starts an in-memory Redis and returns a store backed by it
func SetupStore(t *testing.T, opts ...store.Option) (*store.RedisStore, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return store.NewRedisStore(client, opts...), mr
}

// ErrExpireRejected is returned by FailExpireHook
var ErrExpireRejected = errors.New("expire rejected")

// FailExpireHook is a go-redis hook that fails every pipeline carrying an
// EXPIRE and lets everything else through
type FailExpireHook struct{}

func (FailExpireHook) DialHook(next redis.DialHook) redis.DialHook { return next }

func (FailExpireHook) ProcessHook(next redis.ProcessHook) redis.ProcessHook { return next }

func (FailExpireHook) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return func(ctx context.Context, cmds []redis.Cmder) error {
		for _, cmd := range cmds {
			if cmd.Name() == "expire" {
				return ErrExpireRejected
			}
		}
		return next(ctx, cmds)
	}
}

// GetTestClock returns a fixed clock for deterministic timestamps
func GetTestClock() func() time.Time {
	fixed := time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)
	return func() time.Time { return fixed }
}

// Published is one event captured by RecordingPublisher
type Published struct {
	RoomID string
	Event  models.Event
}

// RecordingPublisher captures events in publish order
type RecordingPublisher struct {
	mu     sync.Mutex
	events []Published
	err    error
}

func (p *RecordingPublisher) Publish(_ context.Context, roomID string, event models.Event) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.err != nil {
		return p.err
	}
	p.events = append(p.events, Published{RoomID: roomID, Event: event})
	return nil
}

// FailWith makes every following Publish return err
func (p *RecordingPublisher) FailWith(err error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.err = err
}

func (p *RecordingPublisher) Events() []Published {
	p.mu.Lock()
	defer p.mu.Unlock()
	return append([]Published(nil), p.events...)
}

// Names returns the event names in publish order
func (p *RecordingPublisher) Names() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	names := make([]string, len(p.events))
	for i, e := range p.events {
		names[i] = e.Event.Name
	}
	return names
}

func (p *RecordingPublisher) Reset() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = nil
}

// MemoryArchive keeps snapshots in memory
type MemoryArchive struct {
	mu    sync.Mutex
	snaps []models.ResultSnapshot
	err   error
}

func (a *MemoryArchive) SaveSnapshot(_ context.Context, snap models.ResultSnapshot) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return a.err
	}
	a.snaps = append(a.snaps, snap)
	return nil
}

func (a *MemoryArchive) ListSnapshots(_ context.Context, roomID string) ([]models.ResultSnapshot, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.err != nil {
		return nil, a.err
	}
	out := []models.ResultSnapshot{}
	for _, s := range a.snaps {
		if s.RoomID == roomID {
			out = append(out, s)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ComputedAt.After(out[j].ComputedAt) })
	return out, nil
}

// FailWith makes every following call return err
func (a *MemoryArchive) FailWith(err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = err
}

func (a *MemoryArchive) Len() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.snaps)
}

// MakeRequest creates an HTTP test request
func MakeRequest(method, path string, body interface{}, headers map[string]string) *http.Request {
	var req *http.Request
	if body != nil {
		jsonBody, _ := json.Marshal(body)
		req = httptest.NewRequest(method, path, bytes.NewReader(jsonBody))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, path, nil)
	}

	for k, v := range headers {
		req.Header.Set(k, v)
	}

	return req
}

// HostHeaders returns the headers authenticating a host request
func HostHeaders(secret string) map[string]string {
	return map[string]string{"X-Host-Secret": secret}
}

// AssertStatus checks that the response has the expected status code
func AssertStatus(t *testing.T, w *httptest.ResponseRecorder, expected int) {
	t.Helper()
	if w.Code != expected {
		t.Errorf("Expected status %d, got %d. Body: %s", expected, w.Code, w.Body.String())
	}
}

// AssertJSON decodes the response body into the provided struct
func AssertJSON(t *testing.T, w *httptest.ResponseRecorder, v interface{}) {
	t.Helper()
	if err := json.NewDecoder(w.Body).Decode(v); err != nil {
		t.Fatalf("Failed to decode JSON response: %v", err)
	}
}
