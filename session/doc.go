// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package session implements the room aggregate: every read and mutation of a
room goes through Service.

# Lifecycle

	nominating ──► voting ──► done

The host may move a room between any two states. Entering done resolves
the winner, broadcasts winner-decided and archives a result snapshot.

# Operations

  - CreateRoom: new room id and host secret, creator enrolled
  - AddNominee (host): next sequential id from an atomic counter
  - SetState (host): nominating, voting or done
  - JoinRoom: only while nominating
  - SubmitVote: only while voting, once per user name
  - ResolveWinner: ranked pairs over the stored ballots
  - GetRoom: current view for clients that missed events
  - Results: full pairwise breakdown, only once done
  - Snapshots (host): archived results
  - DeleteRoom (host): tears the room down

# Errors

Every error wraps one sentinel, checked with errors.Is:

	ErrValidation       malformed input, nothing written
	ErrRoomNotFound     no such room
	ErrUnauthorized     missing or wrong host secret
	ErrForbidden        operation not allowed in the current state
	ErrConflict         user already voted
	ErrStoreUnavailable backing store failed

# Events

Events are published only after the store write succeeded. A publish
failure is logged and does not fail the operation.
*/
package session
