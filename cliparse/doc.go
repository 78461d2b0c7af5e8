// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package cliparse handles command-line argument parsing and configuration.

# Configuration

ParseFlags returns a Config struct with all settings:

	_ = cliparse.LoadEnvFile(".env")
	cfg, err := cliparse.ParseFlags(os.Args[1:])

# Config Fields

  - Port: Server listen port (default: 3318)
  - RedisURL: Room store connection string (required)
  - NATSURL: Event bus for multi-node fan-out (optional)
  - DatabaseURL: Result archive connection string (optional)
  - DatabaseType: sqlite or postgres (default: sqlite)
  - RoomTTL: Idle expiry for rooms (default: 0, never)
  - AllowedOrigin: CORS and websocket origin (default: any)

# CLI Flags

	-p       Server port
	-r       Redis URL
	-n       NATS URL
	-d       Database URL
	-t       Database type
	-ttl     Idle room expiry
	-origin  Allowed origin

# Environment Variables

Flags fall back to environment variables:

	PORT           → -p
	REDIS_URL      → -r
	NATS_URL       → -n
	DATABASE_URL   → -d
	DATABASE_TYPE  → -t
	ROOM_TTL       → -ttl
	ALLOWED_ORIGIN → -origin

CLI flags take precedence over environment variables, and variables
already present in the environment take precedence over the .env file.
*/
package cliparse
