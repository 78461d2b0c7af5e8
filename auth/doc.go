// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides identifier and host secret generation.

# Host Secrets

Each room gets a random 24-byte (192-bit) host secret at creation:

	secret, err := auth.GenerateHostSecret()
	err = auth.ValidateHostSecret(presented, room.HostSecret)

Secrets are URL-safe base64 encoded without padding and compared in
constant time. Unlike the room id, the secret is never broadcast or
returned by read endpoints.

# Room IDs

Rooms are identified by random UUIDs:

	roomID, err := auth.GenerateRoomID()

# ID Generation

Random hex IDs for archive records:

	id, err := auth.GenerateID(16)  // 32 hex characters
*/
package auth
