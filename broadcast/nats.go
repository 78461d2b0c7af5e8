// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/nats-io/nats.go"

	"github.com/danielhkuo/quickly-rank/models"
)

// Connect dials the event bus with reconnect handling
func Connect(url string, logger *slog.Logger) (*nats.Conn, error) {
	if logger == nil {
		logger = slog.Default()
	}
	opts := []nats.Option{
		nats.Name("quickly-rank"),
		nats.MaxReconnects(-1),
		nats.ReconnectWait(2 * time.Second),
		nats.DisconnectErrHandler(func(nc *nats.Conn, err error) {
			logger.Warn("disconnected from NATS", "error", err)
		}),
		nats.ReconnectHandler(func(nc *nats.Conn) {
			logger.Info("reconnected to NATS", "url", nc.ConnectedUrl())
		}),
		nats.ClosedHandler(func(nc *nats.Conn) {
			logger.Info("NATS connection closed")
		}),
		nats.Timeout(10 * time.Second),
	}

	conn, err := nats.Connect(url, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to NATS: %w", err)
	}
	return conn, nil
}

// NATSPublisher publishes room events on the bus so that every node's
// Relay can hand them to its local Hub
type NATSPublisher struct {
	nc     *nats.Conn
	logger *slog.Logger
}

func NewNATSPublisher(nc *nats.Conn) *NATSPublisher {
	return &NATSPublisher{
		nc:     nc,
		logger: slog.Default(),
	}
}

func (p *NATSPublisher) Publish(_ context.Context, roomID string, event models.Event) error {
	data, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to encode %s event: %w", event.Name, err)
	}

	subject := BuildRoomSubject(roomID)
	if err := p.nc.Publish(subject, data); err != nil {
		return fmt.Errorf("failed to publish to %s: %w", subject, err)
	}

	p.logger.Debug("published room event", "room_id", roomID, "event", event.Name, "subject", subject)
	return nil
}

// Relay subscribes to every room subject and delivers the payloads to a
// local Hub unchanged
type Relay struct {
	nc     *nats.Conn
	hub    *Hub
	logger *slog.Logger
	sub    *nats.Subscription
}

func NewRelay(nc *nats.Conn, hub *Hub) *Relay {
	return &Relay{
		nc:     nc,
		hub:    hub,
		logger: slog.Default(),
	}
}

// Start subscribes and flushes so that the subscription is registered on
// the server before it returns
func (r *Relay) Start() error {
	sub, err := r.nc.Subscribe(SubjectAllRooms, r.handle)
	if err != nil {
		return fmt.Errorf("failed to subscribe to %s: %w", SubjectAllRooms, err)
	}
	if err := r.nc.Flush(); err != nil {
		_ = sub.Unsubscribe()
		return fmt.Errorf("failed to flush subscription: %w", err)
	}

	r.sub = sub
	r.logger.Info("NATS relay started", "subject", SubjectAllRooms)
	return nil
}

func (r *Relay) handle(msg *nats.Msg) {
	roomID, ok := RoomIDFromSubject(msg.Subject)
	if !ok {
		r.logger.Warn("ignoring message on unexpected subject", "subject", msg.Subject)
		return
	}
	r.hub.Deliver(roomID, msg.Data)
}

func (r *Relay) Stop() error {
	if r.sub == nil {
		return nil
	}
	if err := r.sub.Unsubscribe(); err != nil {
		return fmt.Errorf("failed to unsubscribe: %w", err)
	}
	r.sub = nil
	r.logger.Info("NATS relay stopped")
	return nil
}
