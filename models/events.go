// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

// Realtime event names
const (
	EventNominationAdded = "nomination-added"
	EventStateChanged    = "state-changed"
	EventUserJoined      = "user-joined"
	EventUserVoted       = "user-voted"
	EventWinnerDecided   = "winner-decided"
)

// Event is the envelope pushed to room subscribers.
type Event struct {
	Name string `json:"event"`
	Data any    `json:"data"`
}

type NominationAdded struct {
	Nominee Nominee `json:"nominee"`
	RoomID  string  `json:"roomId"`
}

type StateChanged struct {
	State  RoomState `json:"state"`
	RoomID string    `json:"roomId"`
}

type UserJoined struct {
	UserName string `json:"userName"`
	RoomID   string `json:"roomId"`
}

type UserVoted struct {
	UserName string `json:"userName"`
}

// Winner is nil when the election had no winner.
type WinnerDecided struct {
	Winner *Nominee `json:"winner"`
}

func NewNominationAdded(roomID string, nominee Nominee) Event {
	return Event{Name: EventNominationAdded, Data: NominationAdded{Nominee: nominee, RoomID: roomID}}
}

func NewStateChanged(roomID string, state RoomState) Event {
	return Event{Name: EventStateChanged, Data: StateChanged{State: state, RoomID: roomID}}
}

func NewUserJoined(roomID, userName string) Event {
	return Event{Name: EventUserJoined, Data: UserJoined{UserName: userName, RoomID: roomID}}
}

func NewUserVoted(userName string) Event {
	return Event{Name: EventUserVoted, Data: UserVoted{UserName: userName}}
}

func NewWinnerDecided(winner *Nominee) Event {
	return Event{Name: EventWinnerDecided, Data: WinnerDecided{Winner: winner}}
}
