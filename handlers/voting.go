// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"

	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/session"
)

type VotingHandler struct {
	svc *session.Service
}

func NewVotingHandler(svc *session.Service) *VotingHandler {
	return &VotingHandler{svc: svc}
}

// SubmitVote handles POST /rooms/{id}/votes
func (h *VotingHandler) SubmitVote(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitVoteRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.svc.SubmitVote(r.Context(), r.PathValue("id"), req.UserName, req.Ballot); err != nil {
		writeError(w, err, "submit vote")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// GetWinner handles GET /rooms/{id}/winner
func (h *VotingHandler) GetWinner(w http.ResponseWriter, r *http.Request) {
	roomID := r.PathValue("id")
	winner, err := h.svc.ResolveWinner(r.Context(), roomID)
	if err != nil {
		writeError(w, err, "resolve winner")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, models.WinnerResponse{
		RoomID:    roomID,
		HasWinner: winner != nil,
		Winner:    winner,
	})
}
