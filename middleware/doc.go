// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package middleware provides HTTP helpers shared by all handlers.

# Request Logging

WithLogging logs each request with slog and records it in the metrics
collector under its route pattern:

	mux.HandleFunc("POST /rooms", middleware.WithLogging(m, "/rooms", h.CreateRoom))

The wrapper supports hijacking, so websocket routes can use it too.

# Responses

	middleware.JSONResponse(w, http.StatusCreated, resp)
	middleware.ErrorResponse(w, http.StatusNotFound, "room not found")

# Request Bodies

DecodeJSON parses a body and runs its validator tags, returning a message
fit for a 400 response:

	var req models.SubmitVoteRequest
	if err := middleware.DecodeJSON(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

# Host Secret

Privileged requests carry the host secret in X-Host-Secret:

	secret := middleware.HostSecret(r)

# CORS

CORS answers preflight requests and sets the allow headers. With no
configured origin it reflects the request origin.
*/
package middleware
