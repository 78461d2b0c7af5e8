// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package handlers contains HTTP request handlers for the Quickly Rank API.

# Handler Types

Each handler is a thin struct over the session service:

  - RoomHandler: Room lifecycle, nominees and enrollment
  - VotingHandler: Ballot submission and winner lookup
  - ResultsHandler: Pairwise breakdown and archived snapshots
  - EventHandler: Websocket event stream

	roomHandler := handlers.NewRoomHandler(svc, hub)

# Room Lifecycle

Rooms progress through three states: nominating → voting → done

	POST   /rooms                → CreateRoom (returns host_secret)
	POST   /rooms/{id}/nominees  → AddNominee
	PUT    /rooms/{id}/state     → SetState
	DELETE /rooms/{id}           → DeleteRoom

Host operations require the X-Host-Secret header.

# Participation

	POST /rooms/{id}/users  → JoinRoom (nominating only)
	POST /rooms/{id}/votes  → SubmitVote (voting only, once per user)
	GET  /rooms/{id}        → GetRoom
	GET  /rooms/{id}/winner → GetWinner
	GET  /rooms/{id}/events → Subscribe (websocket)

# Results

	GET /rooms/{id}/results   → GetResults (done only)
	GET /rooms/{id}/snapshots → GetSnapshots (host only)

# Errors

Session errors map to statuses in one place:

	validation    400
	not found     404
	bad secret    401
	wrong state   403
	already voted 409
	store failure 500
*/
package handlers
