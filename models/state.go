// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"errors"
	"fmt"
)

var ErrUnknownState = errors.New("unknown room state")

// RoomState is the lifecycle phase of a room.
type RoomState string

const (
	StateNominating RoomState = "nominating"
	StateVoting     RoomState = "voting"
	StateDone       RoomState = "done"
)

// ParseRoomState converts a wire value into a RoomState.
func ParseRoomState(s string) (RoomState, error) {
	state := RoomState(s)
	if !state.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownState, s)
	}
	return state, nil
}

// Valid reports whether s is one of the recognized states.
func (s RoomState) Valid() bool {
	switch s {
	case StateNominating, StateVoting, StateDone:
		return true
	default:
		return false
	}
}

func (s RoomState) String() string {
	return string(s)
}
