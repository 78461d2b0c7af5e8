// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package metrics exposes Prometheus instrumentation for the service.

	m := metrics.New()
	mux.Handle("GET /metrics", m.Handler())

Every recording method accepts a nil receiver, so components can be
built without metrics in tests.

# Series

  - quickly_rank_http_requests_total{method,route,status}
  - quickly_rank_http_request_duration_seconds{method,route}
  - quickly_rank_rooms_created_total, quickly_rank_rooms_deleted_total
  - quickly_rank_votes_submitted_total
  - quickly_rank_winners_resolved_total{outcome}
  - quickly_rank_events_published_total{event,status}
  - quickly_rank_events_dropped_total
  - quickly_rank_websocket_clients
*/
package metrics
