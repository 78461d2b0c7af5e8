// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package broadcast

import (
	"context"
	"strings"

	"github.com/danielhkuo/quickly-rank/models"
)

// Subject layout on the event bus
const (
	SubjectPrefix   = "quickly-rank.rooms."
	SubjectSuffix   = ".events"
	SubjectAllRooms = SubjectPrefix + "*" + SubjectSuffix
)

// Publisher delivers a room event to every subscriber of that room.
// Delivery is best effort and at most once.
type Publisher interface {
	Publish(ctx context.Context, roomID string, event models.Event) error
}

// BuildRoomSubject returns the bus subject carrying events for roomID
func BuildRoomSubject(roomID string) string {
	return SubjectPrefix + roomID + SubjectSuffix
}

// RoomIDFromSubject extracts the room id from a subject built by
// BuildRoomSubject
func RoomIDFromSubject(subject string) (string, bool) {
	if !strings.HasPrefix(subject, SubjectPrefix) || !strings.HasSuffix(subject, SubjectSuffix) {
		return "", false
	}
	id := subject[len(SubjectPrefix) : len(subject)-len(SubjectSuffix)]
	if id == "" || strings.Contains(id, ".") {
		return "", false
	}
	return id, true
}

// Nop discards every event
type Nop struct{}

func (Nop) Publish(context.Context, string, models.Event) error { return nil }
