// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"errors"

	"github.com/danielhkuo/quickly-rank/models"
)

var ErrNotFound = errors.New("room not found")

// RoomStore is the only place that knows how room state is laid out.
// Every method is keyed by room id.
type RoomStore interface {
	// CreateRoom persists metadata, enrolls the host and resets the nominee counter.
	CreateRoom(ctx context.Context, room models.Room) error
	// GetRoom returns ErrNotFound if the room does not exist.
	GetRoom(ctx context.Context, roomID string) (models.Room, error)
	Exists(ctx context.Context, roomID string) (bool, error)
	SetState(ctx context.Context, roomID string, state models.RoomState) error
	DeleteRoom(ctx context.Context, roomID string) error

	// AddNominee assigns the next id with an atomic increment and records the name.
	AddNominee(ctx context.Context, roomID, name string) (models.Nominee, error)
	Nominees(ctx context.Context, roomID string) ([]models.Nominee, error)
	NomineeCount(ctx context.Context, roomID string) (int, error)

	AddUser(ctx context.Context, roomID, userName string) error
	Users(ctx context.Context, roomID string) ([]string, error)

	// AppendVote records the ballot and marks the user as voted in one step.
	// It reports false, without writing, if the user had already voted.
	AppendVote(ctx context.Context, roomID, userName string, ballot []string) (bool, error)
	Votes(ctx context.Context, roomID string) ([][]string, error)
	VoteCount(ctx context.Context, roomID string) (int, error)

	Ping(ctx context.Context) error
}
