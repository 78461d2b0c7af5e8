// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-rank/broadcast"
	"github.com/danielhkuo/quickly-rank/session"
)

type EventHandler struct {
	svc *session.Service
	hub *broadcast.Hub
}

func NewEventHandler(svc *session.Service, hub *broadcast.Hub) *EventHandler {
	return &EventHandler{svc: svc, hub: hub}
}

// Subscribe handles GET /rooms/{id}/events
// Upgrades to a websocket that receives the room's events
func (h *EventHandler) Subscribe(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if err := h.svc.RoomExists(r.Context(), roomID); err != nil {
		writeError(w, err, "subscribe")
		return
	}

	h.hub.ServeWS(w, r, roomID)
}
