// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import "time"

// Voting method constants
const (
	MethodRankedPairs = "ranked_pairs"
)

// Request types

type CreateRoomRequest struct {
	Name     string `json:"name" validate:"required,max=100"`
	UserName string `json:"user_name" validate:"required,min=1,max=50"`
}

type AddNomineeRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

type SetStateRequest struct {
	State string `json:"state" validate:"required"`
}

type JoinRoomRequest struct {
	UserName string `json:"user_name" validate:"required,min=1,max=50"`
}

// Nominee ids, most preferred first
type SubmitVoteRequest struct {
	UserName string   `json:"user_name" validate:"required,min=1,max=50"`
	Ballot   []string `json:"ballot" validate:"required,min=1,max=1000"`
}

// Response types

type CreateRoomResponse struct {
	RoomID     string `json:"room_id"`
	HostSecret string `json:"host_secret"`
}

type AddNomineeResponse struct {
	Nominee Nominee `json:"nominee"`
}

type SetStateResponse struct {
	State RoomState `json:"state"`
}

type WinnerResponse struct {
	RoomID    string   `json:"room_id"`
	HasWinner bool     `json:"has_winner"`
	Winner    *Nominee `json:"winner,omitempty"`
}

// ResultsResponse is the full ranked pairs breakdown of a finished room
type ResultsResponse struct {
	RoomID      string       `json:"room_id"`
	Winner      *Nominee     `json:"winner,omitempty"`
	Nominees    []Nominee    `json:"nominees"`
	BallotCount int          `json:"ballot_count"`
	Matrix      [][]int      `json:"matrix"`
	Pairs       []RankedPair `json:"pairs"`
}

type SnapshotsResponse struct {
	Snapshots []ResultSnapshot `json:"snapshots"`
}

// Domain types

type Room struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Host       string    `json:"host"`
	HostSecret string    `json:"-"` // Never expose in JSON
	State      RoomState `json:"state"`
	CreatedAt  time.Time `json:"created_at"`
}

type Nominee struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// RoomView is everything a client needs to rebuild its view of a room
// after missing events.
type RoomView struct {
	Room      Room      `json:"room"`
	Nominees  []Nominee `json:"nominees"`
	Users     []string  `json:"users"`
	VoteCount int       `json:"vote_count"`
}

// Ranked pairs result types

type RankedPair struct {
	Winner int  `json:"winner"`
	Loser  int  `json:"loser"`
	Margin int  `json:"margin"`
	Locked bool `json:"locked"`
}

type ResultSnapshot struct {
	ID           string       `json:"id"`
	RoomID       string       `json:"room_id"`
	Method       string       `json:"method"`
	ComputedAt   time.Time    `json:"computed_at"`
	Winner       *Nominee     `json:"winner,omitempty"`
	NomineeCount int          `json:"nominee_count"`
	BallotCount  int          `json:"ballot_count"`
	Pairs        []RankedPair `json:"pairs"`
	InputsHash   string       `json:"inputs_hash"` // Hash of all ballots for verification
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
