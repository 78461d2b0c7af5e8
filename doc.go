// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package main provides the entry point for the Quickly Rank API server.

Quickly Rank runs ranked-choice elections in short-lived rooms: a host
opens a room, everyone nominates, everyone submits a ranked ballot, and
the ranked pairs (Tideman) method picks one winner. Every change is pushed
to room members over a websocket.

# Starting the Server

The server requires environment variables or CLI flags for configuration:

	REDIS_URL=redis://localhost:6379/0 go run .

Or with flags:

	go run . -p 3318 -r redis://localhost:6379/0 -n nats://localhost:4222

A .env file in the working directory is loaded first.

# Configuration

Required settings:

  - REDIS_URL (-r): Room store

Optional settings:

  - PORT (-p): Server port (default: 3318)
  - NATS_URL (-n): Event bus, needed when running more than one node
  - DATABASE_URL (-d), DATABASE_TYPE (-t): Result archive
  - ROOM_TTL (-ttl): Idle room expiry (default: never)
  - ALLOWED_ORIGIN (-origin): CORS and websocket origin

# Architecture

  - tideman: Ranked pairs resolution (tally, rank, lock, winner)
  - session: Room aggregate with authorization and invariants
  - store: Redis room state
  - broadcast: Websocket hub and NATS fan-out
  - db: SQL result archive
  - handlers, router, middleware: HTTP surface
  - health, metrics: Readiness and Prometheus metrics
  - models: Shared types
  - auth: Room ids and host secrets
  - cliparse: Configuration parsing

See package documentation for each component.
*/
package main
