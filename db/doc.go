// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package db archives resolved results in a SQL database.

Live room state lives in Redis and disappears with the room. When a room
is moved to done its result is written here, so a host can still audit it
after the room is gone.

# Connecting

	conn, err := db.Open(ctx, cfg.DatabaseType, cfg.DatabaseURL)
	if err := db.CreateSchema(conn); err != nil {
		log.Fatal(err)
	}
	archive := db.NewSnapshotStore(conn)

Both sqlite (modernc.org/sqlite, no cgo) and postgres (lib/pq) are
supported. CreateSchema is safe to call multiple times.

# Tables

  - result_snapshot: one row per resolution, the full snapshot in payload

Indexed on room_id.
*/
package db
