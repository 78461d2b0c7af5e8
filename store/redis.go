// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/danielhkuo/quickly-rank/models"
)

// appendVoteScript marks the voter and appends the ballot atomically.
// KEYS[1] voted set, KEYS[2] ballot list, ARGV[1] user, ARGV[2] ballot JSON.
var appendVoteScript = redis.NewScript(`
if redis.call("SADD", KEYS[1], ARGV[1]) == 0 then
	return 0
end
redis.call("RPUSH", KEYS[2], ARGV[2])
return 1
`)

// RedisStore implements RoomStore on Redis.
type RedisStore struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

type Option func(*RedisStore)

// WithIdleTTL expires a room after ttl without writes. Zero keeps rooms forever.
func WithIdleTTL(ttl time.Duration) Option {
	return func(s *RedisStore) {
		s.ttl = ttl
	}
}

func NewRedisStore(client redis.UniversalClient, opts ...Option) *RedisStore {
	s := &RedisStore{
		client: client,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *RedisStore) CreateRoom(ctx context.Context, room models.Room) error {
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.HSet(ctx, BuildRoomKey(room.ID), map[string]any{
			fieldName:       room.Name,
			fieldHost:       room.Host,
			fieldHostSecret: room.HostSecret,
			fieldState:      room.State.String(),
			fieldCreatedAt:  room.CreatedAt.UTC().Format(time.RFC3339Nano),
		})
		// Starts before zero so the first INCR hands out id 0.
		pipe.Set(ctx, BuildNomineeSeqKey(room.ID), -1, 0)
		pipe.SAdd(ctx, BuildUsersKey(room.ID), room.Host)
		return nil
	})
	if err != nil {
		return fmt.Errorf("failed to create room: %w", err)
	}
	s.touch(ctx, room.ID)
	return nil
}

func (s *RedisStore) GetRoom(ctx context.Context, roomID string) (models.Room, error) {
	fields, err := s.client.HGetAll(ctx, BuildRoomKey(roomID)).Result()
	if err != nil {
		return models.Room{}, fmt.Errorf("failed to get room: %w", err)
	}
	if len(fields) == 0 {
		return models.Room{}, ErrNotFound
	}

	state, err := models.ParseRoomState(fields[fieldState])
	if err != nil {
		return models.Room{}, fmt.Errorf("corrupt room %s: %w", roomID, err)
	}

	room := models.Room{
		ID:         roomID,
		Name:       fields[fieldName],
		Host:       fields[fieldHost],
		HostSecret: fields[fieldHostSecret],
		State:      state,
	}
	if createdAt, err := time.Parse(time.RFC3339Nano, fields[fieldCreatedAt]); err == nil {
		room.CreatedAt = createdAt
	}

	return room, nil
}

func (s *RedisStore) Exists(ctx context.Context, roomID string) (bool, error) {
	n, err := s.client.Exists(ctx, BuildRoomKey(roomID)).Result()
	if err != nil {
		return false, fmt.Errorf("failed to check room: %w", err)
	}
	return n > 0, nil
}

func (s *RedisStore) SetState(ctx context.Context, roomID string, state models.RoomState) error {
	if err := s.client.HSet(ctx, BuildRoomKey(roomID), fieldState, state.String()).Err(); err != nil {
		return fmt.Errorf("failed to set state: %w", err)
	}
	s.touch(ctx, roomID)
	return nil
}

func (s *RedisStore) DeleteRoom(ctx context.Context, roomID string) error {
	if err := s.client.Del(ctx, roomKeys(roomID)...).Err(); err != nil {
		return fmt.Errorf("failed to delete room: %w", err)
	}
	return nil
}

func (s *RedisStore) AddNominee(ctx context.Context, roomID, name string) (models.Nominee, error) {
	id, err := s.client.Incr(ctx, BuildNomineeSeqKey(roomID)).Result()
	if err != nil {
		return models.Nominee{}, fmt.Errorf("failed to allocate nominee id: %w", err)
	}

	if err := s.client.HSet(ctx, BuildNomineesKey(roomID), strconv.FormatInt(id, 10), name).Err(); err != nil {
		return models.Nominee{}, fmt.Errorf("failed to store nominee %d: %w", id, err)
	}

	s.touch(ctx, roomID)
	return models.Nominee{ID: int(id), Name: name}, nil
}

func (s *RedisStore) Nominees(ctx context.Context, roomID string) ([]models.Nominee, error) {
	fields, err := s.client.HGetAll(ctx, BuildNomineesKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get nominees: %w", err)
	}

	nominees := make([]models.Nominee, 0, len(fields))
	for rawID, name := range fields {
		id, err := strconv.Atoi(rawID)
		if err != nil {
			s.logger.Warn("skipping nominee with non-numeric id", "room_id", roomID, "id", rawID)
			continue
		}
		nominees = append(nominees, models.Nominee{ID: id, Name: name})
	}
	sort.Slice(nominees, func(i, j int) bool { return nominees[i].ID < nominees[j].ID })

	return nominees, nil
}

// NomineeCount is derived from the counter, so it covers every id handed out.
func (s *RedisStore) NomineeCount(ctx context.Context, roomID string) (int, error) {
	last, err := s.client.Get(ctx, BuildNomineeSeqKey(roomID)).Int()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("failed to read nominee counter: %w", err)
	}
	return last + 1, nil
}

func (s *RedisStore) AddUser(ctx context.Context, roomID, userName string) error {
	if err := s.client.SAdd(ctx, BuildUsersKey(roomID), userName).Err(); err != nil {
		return fmt.Errorf("failed to add user: %w", err)
	}
	s.touch(ctx, roomID)
	return nil
}

func (s *RedisStore) Users(ctx context.Context, roomID string) ([]string, error) {
	users, err := s.client.SMembers(ctx, BuildUsersKey(roomID)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get users: %w", err)
	}
	sort.Strings(users)
	return users, nil
}

func (s *RedisStore) AppendVote(ctx context.Context, roomID, userName string, ballot []string) (bool, error) {
	payload, err := json.Marshal(ballot)
	if err != nil {
		return false, fmt.Errorf("failed to encode ballot: %w", err)
	}

	added, err := appendVoteScript.Run(ctx, s.client,
		[]string{BuildVotedKey(roomID), BuildVotesKey(roomID)},
		userName, string(payload),
	).Int()
	if err != nil {
		return false, fmt.Errorf("failed to append vote: %w", err)
	}
	if added == 0 {
		return false, nil
	}

	s.touch(ctx, roomID)
	return true, nil
}

func (s *RedisStore) Votes(ctx context.Context, roomID string) ([][]string, error) {
	raw, err := s.client.LRange(ctx, BuildVotesKey(roomID), 0, -1).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to get votes: %w", err)
	}

	votes := make([][]string, 0, len(raw))
	for i, entry := range raw {
		var ballot []string
		if err := json.Unmarshal([]byte(entry), &ballot); err != nil {
			s.logger.Warn("skipping undecodable ballot", "room_id", roomID, "index", i, "error", err)
			continue
		}
		votes = append(votes, ballot)
	}

	return votes, nil
}

func (s *RedisStore) VoteCount(ctx context.Context, roomID string) (int, error) {
	n, err := s.client.LLen(ctx, BuildVotesKey(roomID)).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count votes: %w", err)
	}
	return int(n), nil
}

func (s *RedisStore) Ping(ctx context.Context) error {
	return s.client.Ping(ctx).Err()
}

// touch pushes the idle deadline of every room key forward. It runs after
// the write has landed, so a failure is logged and the write still succeeds.
func (s *RedisStore) touch(ctx context.Context, roomID string) {
	if s.ttl <= 0 {
		return
	}
	_, err := s.client.Pipelined(ctx, func(pipe redis.Pipeliner) error {
		for _, key := range roomKeys(roomID) {
			pipe.Expire(ctx, key, s.ttl)
		}
		return nil
	})
	if err != nil {
		s.logger.Warn("failed to refresh room ttl", "room_id", roomID, "error", err)
	}
}
