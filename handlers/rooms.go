// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-rank/broadcast"
	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/session"
)

type RoomHandler struct {
	svc *session.Service
	hub *broadcast.Hub
}

func NewRoomHandler(svc *session.Service, hub *broadcast.Hub) *RoomHandler {
	return &RoomHandler{svc: svc, hub: hub}
}

// CreateRoom handles POST /rooms
func (h *RoomHandler) CreateRoom(w http.ResponseWriter, r *http.Request) {
	var req models.CreateRoomRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	resp, err := h.svc.CreateRoom(r.Context(), req.Name, req.UserName)
	if err != nil {
		writeError(w, err, "create room")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, resp)
}

// GetRoom handles GET /rooms/{id}
func (h *RoomHandler) GetRoom(w http.ResponseWriter, r *http.Request) {
	view, err := h.svc.GetRoom(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "get room")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, view)
}

// DeleteRoom handles DELETE /rooms/{id}
func (h *RoomHandler) DeleteRoom(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	if err := h.svc.DeleteRoom(r.Context(), roomID, middleware.HostSecret(r)); err != nil {
		writeError(w, err, "delete room")
		return
	}

	// Only this node's subscribers; others drop off on their next reconnect.
	if h.hub != nil {
		h.hub.CloseRoom(roomID)
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddNominee handles POST /rooms/{id}/nominees
func (h *RoomHandler) AddNominee(w http.ResponseWriter, r *http.Request) {
	var req models.AddNomineeRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	nominee, err := h.svc.AddNominee(r.Context(), r.PathValue("id"), middleware.HostSecret(r), req.Name)
	if err != nil {
		writeError(w, err, "add nominee")
		return
	}

	middleware.JSONResponse(w, http.StatusCreated, models.AddNomineeResponse{Nominee: nominee})
}

// SetState handles PUT /rooms/{id}/state
func (h *RoomHandler) SetState(w http.ResponseWriter, r *http.Request) {
	var req models.SetStateRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	state, err := h.svc.SetState(r.Context(), r.PathValue("id"), middleware.HostSecret(r), req.State)
	if err != nil {
		writeError(w, err, "set state")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SetStateResponse{State: state})
}

// JoinRoom handles POST /rooms/{id}/users
func (h *RoomHandler) JoinRoom(w http.ResponseWriter, r *http.Request) {
	var req models.JoinRoomRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.JoinRoom(r.Context(), r.PathValue("id"), req.UserName); err != nil {
		writeError(w, err, "join room")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
