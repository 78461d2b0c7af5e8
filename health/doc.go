// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package health reports liveness and dependency readiness.
//
// GET /health always answers OK while the process runs. GET /ready returns
// 503 with a per-dependency breakdown when Redis, NATS or the archive
// database is configured but unreachable.
package health
