// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package router

import (
	"net/http"

	"github.com/danielhkuo/quickly-rank/broadcast"
	"github.com/danielhkuo/quickly-rank/handlers"
	"github.com/danielhkuo/quickly-rank/health"
	"github.com/danielhkuo/quickly-rank/metrics"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/session"
)

// Deps are the long-lived components the routes are served from
type Deps struct {
	Session *session.Service
	Hub     *broadcast.Hub
	Health  *health.Checker
	Metrics *metrics.Collector
}

func NewRouter(deps Deps) *http.ServeMux {
	mux := http.NewServeMux()

	// Initialize handlers
	roomHandler := handlers.NewRoomHandler(deps.Session, deps.Hub)
	votingHandler := handlers.NewVotingHandler(deps.Session)
	resultsHandler := handlers.NewResultsHandler(deps.Session)
	eventHandler := handlers.NewEventHandler(deps.Session, deps.Hub)

	handle := func(method, path string, h http.HandlerFunc) {
		mux.HandleFunc(method+" "+path, middleware.WithLogging(deps.Metrics, path, h))
	}

	// Health and metrics
	mux.HandleFunc("GET /health", deps.Health.Live)
	mux.HandleFunc("GET /ready", deps.Health.Ready)
	mux.Handle("GET /metrics", deps.Metrics.Handler())

	// Room management (host operations require X-Host-Secret)
	handle("POST", "/rooms", roomHandler.CreateRoom)
	handle("GET", "/rooms/{id}", roomHandler.GetRoom)
	handle("DELETE", "/rooms/{id}", roomHandler.DeleteRoom)
	handle("POST", "/rooms/{id}/nominees", roomHandler.AddNominee)
	handle("PUT", "/rooms/{id}/state", roomHandler.SetState)
	handle("POST", "/rooms/{id}/users", roomHandler.JoinRoom)

	// Voting
	handle("POST", "/rooms/{id}/votes", votingHandler.SubmitVote)
	handle("GET", "/rooms/{id}/winner", votingHandler.GetWinner)

	// Results
	handle("GET", "/rooms/{id}/results", resultsHandler.GetResults)
	handle("GET", "/rooms/{id}/snapshots", resultsHandler.GetSnapshots)

	// Realtime events
	handle("GET", "/rooms/{id}/events", eventHandler.Subscribe)

	// Root endpoint
	mux.HandleFunc("GET /{$}", func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("quickly-rank API v1"))
	})

	return mux
}
