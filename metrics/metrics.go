// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const Namespace = "quickly_rank"

// Collector holds all Prometheus metrics for the service. A nil *Collector
// is valid and records nothing.
type Collector struct {
	registry *prometheus.Registry

	// HTTP metrics
	HTTPRequests *prometheus.CounterVec
	HTTPDuration *prometheus.HistogramVec

	// Room metrics
	RoomsCreated    prometheus.Counter
	RoomsDeleted    prometheus.Counter
	VotesSubmitted  prometheus.Counter
	WinnersResolved *prometheus.CounterVec

	// Broadcast metrics
	EventsPublished *prometheus.CounterVec
	EventsDropped   prometheus.Counter
	WSClients       prometheus.Gauge
}

// New creates a collector backed by its own registry
func New() *Collector {
	registry := prometheus.NewRegistry()

	c := &Collector{
		registry: registry,
		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "http_requests_total",
				Help:      "Total number of HTTP requests",
			},
			[]string{"method", "route", "status"},
		),
		HTTPDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: Namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request duration in seconds",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
		RoomsCreated: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rooms_created_total",
			Help:      "Total number of rooms created",
		}),
		RoomsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "rooms_deleted_total",
			Help:      "Total number of rooms torn down by their host",
		}),
		VotesSubmitted: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "votes_submitted_total",
			Help:      "Total number of accepted ballots",
		}),
		WinnersResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "winners_resolved_total",
				Help:      "Total number of ranked pairs resolutions",
			},
			[]string{"outcome"},
		),
		EventsPublished: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: Namespace,
				Name:      "events_published_total",
				Help:      "Total number of room events handed to the broadcaster",
			},
			[]string{"event", "status"},
		),
		EventsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: Namespace,
			Name:      "events_dropped_total",
			Help:      "Events not delivered because a subscriber was too slow",
		}),
		WSClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: Namespace,
			Name:      "websocket_clients",
			Help:      "Currently connected websocket subscribers",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		c.HTTPRequests,
		c.HTTPDuration,
		c.RoomsCreated,
		c.RoomsDeleted,
		c.VotesSubmitted,
		c.WinnersResolved,
		c.EventsPublished,
		c.EventsDropped,
		c.WSClients,
	)

	return c
}

// Registry exposes the underlying registry for tests and custom exporters
func (c *Collector) Registry() *prometheus.Registry {
	if c == nil {
		return nil
	}
	return c.registry
}

// Handler serves the metrics in the Prometheus text format
func (c *Collector) Handler() http.Handler {
	if c == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one completed HTTP request
func (c *Collector) ObserveRequest(method, route string, status int, elapsed time.Duration) {
	if c == nil {
		return
	}
	c.HTTPRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	c.HTTPDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}

func (c *Collector) RoomCreated() {
	if c != nil {
		c.RoomsCreated.Inc()
	}
}

func (c *Collector) RoomDeleted() {
	if c != nil {
		c.RoomsDeleted.Inc()
	}
}

func (c *Collector) VoteSubmitted() {
	if c != nil {
		c.VotesSubmitted.Inc()
	}
}

// WinnerResolved counts a resolution, split by whether a winner existed
func (c *Collector) WinnerResolved(hasWinner bool) {
	if c == nil {
		return
	}
	outcome := "winner"
	if !hasWinner {
		outcome = "none"
	}
	c.WinnersResolved.WithLabelValues(outcome).Inc()
}

// EventPublished counts a publish attempt for the named event
func (c *Collector) EventPublished(event string, err error) {
	if c == nil {
		return
	}
	status := "ok"
	if err != nil {
		status = "error"
	}
	c.EventsPublished.WithLabelValues(event, status).Inc()
}

func (c *Collector) EventDropped() {
	if c != nil {
		c.EventsDropped.Inc()
	}
}

func (c *Collector) ClientConnected() {
	if c != nil {
		c.WSClients.Inc()
	}
}

func (c *Collector) ClientDisconnected() {
	if c != nil {
		c.WSClients.Dec()
	}
}
