// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/danielhkuo/quickly-rank/middleware"
	"github.com/danielhkuo/quickly-rank/session"
)

// statusFor maps a session error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, session.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrRoomNotFound):
		return http.StatusNotFound
	case errors.Is(err, session.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, session.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, session.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError responds with the status matching err. Store failures are
// logged and reported without detail.
func writeError(w http.ResponseWriter, err error, op string) {
	status := statusFor(err)
	switch status {
	case http.StatusInternalServerError:
		slog.Error("failed to "+op, "error", err)
		middleware.ErrorResponse(w, status, "Failed to "+op)
	case http.StatusNotFound:
		middleware.ErrorResponse(w, status, "Room not found")
	case http.StatusUnauthorized:
		middleware.ErrorResponse(w, status, "Invalid host secret")
	default:
		middleware.ErrorResponse(w, status, err.Error())
	}
}
