// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package store persists room state in Redis.

# Key Layout

All keys of a room share the hash-tagged prefix quickly-rank:room:{roomId}:

	quickly-rank:room:{id}              hash    name, host, host_secret, state, created_at
	quickly-rank:room:{id}:nominee_seq  string  last nominee id handed out (starts at -1)
	quickly-rank:room:{id}:nominees     hash    nominee id → name
	quickly-rank:room:{id}:users        set     enrolled user names
	quickly-rank:room:{id}:voted        set     users who have voted
	quickly-rank:room:{id}:votes        list    JSON ballots

Key builders live in keys.go; no other package builds room keys.

# Nominee Ids

AddNominee uses INCR on the counter, so concurrent nominations in one room
receive distinct, dense, 0-based ids.

# Votes

AppendVote runs a Lua script that adds the user to the voted set and
appends the ballot only if the user was not already a member. A second
ballot from the same user is never recorded.

# Expiry

By default rooms never expire. WithIdleTTL makes every write refresh an
EXPIRE on all of the room's keys:

	s := store.NewRedisStore(client, store.WithIdleTTL(24*time.Hour))
*/
package store
