// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package router defines HTTP routes for the Quickly Rank API.

# Route Registration

NewRouter creates a configured http.ServeMux with all endpoints:

	mux := router.NewRouter(router.Deps{
		Session: svc,
		Hub:     hub,
		Health:  checker,
		Metrics: m,
	})

# Endpoints

Health and metrics:

	GET /health  - Liveness
	GET /ready   - Dependency readiness
	GET /metrics - Prometheus metrics

Room management (host, requires X-Host-Secret):

	POST   /rooms                - Create room
	POST   /rooms/{id}/nominees  - Add nominee
	PUT    /rooms/{id}/state     - Change state
	DELETE /rooms/{id}           - Tear down room
	GET    /rooms/{id}/snapshots - Archived results

Participation (public):

	GET  /rooms/{id}         - Current room view
	POST /rooms/{id}/users   - Join (nominating only)
	POST /rooms/{id}/votes   - Submit ranked ballot (voting only)
	GET  /rooms/{id}/winner  - Ranked pairs winner
	GET  /rooms/{id}/results - Pairwise breakdown (done only)
	GET  /rooms/{id}/events  - Websocket event stream

Every room route is wrapped with request logging and metrics.
*/
package router
