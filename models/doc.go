// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package models defines request, response, domain, and event types.

# Request Types

Types for parsing incoming JSON (validated with go-playground/validator tags):

  - CreateRoomRequest: name, user_name
  - AddNomineeRequest: name
  - SetStateRequest: state
  - JoinRoomRequest: user_name
  - SubmitVoteRequest: user_name, ballot ([]string of nominee ids)

# Response Types

  - CreateRoomResponse: room_id, host_secret
  - AddNomineeResponse: nominee
  - SetStateResponse: state
  - WinnerResponse: room_id, has_winner, winner
  - SnapshotsResponse: snapshots
  - ErrorResponse: error, message

# Domain Types

  - Room: room metadata and lifecycle state
  - Nominee: dense 0-based id with a name
  - RoomView: reconciliation snapshot of a room
  - RankedPair: one pairwise comparison and whether it was locked
  - ResultSnapshot: archived resolution record

# Room States

	StateNominating = "nominating"
	StateVoting     = "voting"
	StateDone       = "done"

Use ParseRoomState for wire values; it rejects anything else.

# Events

Events are published to room subscribers as {"event": name, "data": payload}:

	nomination-added {nominee, roomId}
	state-changed    {state, roomId}
	user-joined      {userName, roomId}
	user-voted       {userName}
	winner-decided   {winner}
*/
package models
