// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

// RoomKeyPrefix is shared by every key belonging to a room.
// The room id is wrapped in a hash tag so all keys of one room land on the
// same cluster slot, which the vote script relies on.
const RoomKeyPrefix = "quickly-rank:room:"

// BuildRoomKey builds the room metadata hash key.
// Key: quickly-rank:room:{roomId}
func BuildRoomKey(roomID string) string {
	return RoomKeyPrefix + "{" + roomID + "}"
}

// BuildNomineeSeqKey builds the nominee id counter key.
func BuildNomineeSeqKey(roomID string) string {
	return BuildRoomKey(roomID) + ":nominee_seq"
}

// BuildNomineesKey builds the nominee id → name hash key.
func BuildNomineesKey(roomID string) string {
	return BuildRoomKey(roomID) + ":nominees"
}

// BuildUsersKey builds the enrolled users set key.
func BuildUsersKey(roomID string) string {
	return BuildRoomKey(roomID) + ":users"
}

// BuildVotedKey builds the set of users who have voted.
func BuildVotedKey(roomID string) string {
	return BuildRoomKey(roomID) + ":voted"
}

// BuildVotesKey builds the ballot list key.
func BuildVotesKey(roomID string) string {
	return BuildRoomKey(roomID) + ":votes"
}

// roomKeys lists every key a room owns.
func roomKeys(roomID string) []string {
	return []string{
		BuildRoomKey(roomID),
		BuildNomineeSeqKey(roomID),
		BuildNomineesKey(roomID),
		BuildUsersKey(roomID),
		BuildVotedKey(roomID),
		BuildVotesKey(roomID),
	}
}

// Room metadata hash fields
const (
	fieldName       = "name"
	fieldHost       = "host"
	fieldHostSecret = "host_secret"
	fieldState      = "state"
	fieldCreatedAt  = "created_at"
)
