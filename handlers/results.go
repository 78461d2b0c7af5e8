// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/session"
)

type ResultsHandler struct {
	svc *session.Service
}

func NewResultsHandler(svc *session.Service) *ResultsHandler {
	return &ResultsHandler{svc: svc}
}

// GetResults handles GET /rooms/{id}/results
// Sealed until the room is done
func (h *ResultsHandler) GetResults(w http.ResponseWriter, r *http.Request) {
	res, err := h.svc.Results(r.Context(), r.PathValue("id"))
	if err != nil {
		writeError(w, err, "compute results")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, res)
}

// GetSnapshots handles GET /rooms/{id}/snapshots (host only)
func (h *ResultsHandler) GetSnapshots(w http.ResponseWriter, r *http.Request) {
	snaps, err := h.svc.Snapshots(r.Context(), r.PathValue("id"), middleware.HostSecret(r))
	if err != nil {
		writeError(w, err, "list snapshots")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.SnapshotsResponse{Snapshots: snaps})
}
