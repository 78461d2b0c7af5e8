// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/danielhkuo/quickly-rank/models"
)

// SnapshotStore archives resolved room results
type SnapshotStore struct {
	db *sql.DB
}

func NewSnapshotStore(db *sql.DB) *SnapshotStore {
	return &SnapshotStore{db: db}
}

// SaveSnapshot writes an immutable result. The full snapshot is kept as a
// JSON payload; the other columns exist for querying.
func (s *SnapshotStore) SaveSnapshot(ctx context.Context, snap models.ResultSnapshot) error {
	payload, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	var winnerID sql.NullInt64
	if snap.Winner != nil {
		winnerID = sql.NullInt64{Int64: int64(snap.Winner.ID), Valid: true}
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO result_snapshot (id, room_id, method, computed_at, winner_id, ballot_count, payload)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`, snap.ID, snap.RoomID, snap.Method, snap.ComputedAt.UTC(), winnerID, snap.BallotCount, string(payload))
	if err != nil {
		return fmt.Errorf("failed to insert snapshot: %w", err)
	}
	return nil
}

// ListSnapshots returns every snapshot of a room, newest first
func (s *SnapshotStore) ListSnapshots(ctx context.Context, roomID string) ([]models.ResultSnapshot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT payload FROM result_snapshot
		WHERE room_id = $1
		ORDER BY computed_at DESC, id
	`, roomID)
	if err != nil {
		return nil, fmt.Errorf("failed to query snapshots: %w", err)
	}
	defer rows.Close()

	snaps := []models.ResultSnapshot{}
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, fmt.Errorf("failed to scan snapshot: %w", err)
		}
		var snap models.ResultSnapshot
		if err := json.Unmarshal([]byte(payload), &snap); err != nil {
			slog.Warn("skipping unreadable snapshot", "room_id", roomID, "error", err)
			continue
		}
		snaps = append(snaps, snap)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read snapshots: %w", err)
	}
	return snaps, nil
}

// Ping reports whether the archive is reachable
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}
