// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package broadcast pushes room events to connected clients.

# Publishers

Everything that emits events depends on the Publisher interface:

	type Publisher interface {
		Publish(ctx context.Context, roomID string, event models.Event) error
	}

Two implementations exist:

  - Hub: delivers straight to websocket clients on this node
  - NATSPublisher: publishes on quickly-rank.rooms.{roomId}.events

# Multi-node fan-out

With NATS configured, every node runs a Relay subscribed to
quickly-rank.rooms.*.events which hands each payload to its local Hub:

	session ──Publish──► NATS ──► Relay (node A) ──► Hub ──► clients
	                          └─► Relay (node B) ──► Hub ──► clients

# Delivery

Each client has a bounded send buffer. A client that falls behind is
disconnected rather than slowing down the room. There is no replay;
clients reconnect and fetch GET /rooms/{id} to reconcile.
*/
package broadcast
