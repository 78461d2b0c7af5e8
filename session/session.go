// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/danielhkuo/quickly-rank/auth"
	"github.com/danielhkuo/quickly-rank/broadcast"
	"github.com/danielhkuo/quickly-rank/metrics"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
	"github.com/danielhkuo/quickly-rank/tideman"
)

// SnapshotArchive persists resolved results beyond the lifetime of a room
type SnapshotArchive interface {
	SaveSnapshot(ctx context.Context, snap models.ResultSnapshot) error
	ListSnapshots(ctx context.Context, roomID string) ([]models.ResultSnapshot, error)
}

// Service is the room aggregate. It owns authorization and the room
// invariants; the store only ever sees writes that passed them.
type Service struct {
	store   store.RoomStore
	events  broadcast.Publisher
	archive SnapshotArchive
	metrics *metrics.Collector
	logger  *slog.Logger
	now     func() time.Time

	newRoomID func() (string, error)
	newSecret func() (string, error)
}

type Option func(*Service)

func WithArchive(a SnapshotArchive) Option {
	return func(s *Service) { s.archive = a }
}

func WithMetrics(m *metrics.Collector) Option {
	return func(s *Service) { s.metrics = m }
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(st store.RoomStore, events broadcast.Publisher, opts ...Option) *Service {
	if events == nil {
		events = broadcast.Nop{}
	}
	s := &Service{
		store:  st,
		events: events,
		logger: slog.Default(),
		now:    time.Now,

		newRoomID: auth.GenerateRoomID,
		newSecret: auth.GenerateHostSecret,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// CreateRoom generates the room id and host secret, persists the room in
// state nominating and enrolls the creator
func (s *Service) CreateRoom(ctx context.Context, name, creator string) (models.CreateRoomResponse, error) {
	name, creator = strings.TrimSpace(name), strings.TrimSpace(creator)
	if name == "" {
		return models.CreateRoomResponse{}, fmt.Errorf("%w: room name is required", ErrValidation)
	}
	if creator == "" {
		return models.CreateRoomResponse{}, fmt.Errorf("%w: user name is required", ErrValidation)
	}

	roomID, err := s.newRoomID()
	if err != nil {
		return models.CreateRoomResponse{}, s.storeError("generate room id", err)
	}
	secret, err := s.newSecret()
	if err != nil {
		return models.CreateRoomResponse{}, s.storeError("generate host secret", err)
	}

	room := models.Room{
		ID:         roomID,
		Name:       name,
		Host:       creator,
		HostSecret: secret,
		State:      models.StateNominating,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.store.CreateRoom(ctx, room); err != nil {
		return models.CreateRoomResponse{}, s.storeError("create room", err)
	}

	s.metrics.RoomCreated()
	s.logger.Info("room created", "room_id", roomID, "host", creator)

	return models.CreateRoomResponse{RoomID: roomID, HostSecret: secret}, nil
}

// AddNominee registers a nominee under the next sequential id
func (s *Service) AddNominee(ctx context.Context, roomID, hostSecret, name string) (models.Nominee, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return models.Nominee{}, fmt.Errorf("%w: nominee name is required", ErrValidation)
	}
	if _, err := s.authorize(ctx, roomID, hostSecret); err != nil {
		return models.Nominee{}, err
	}

	nominee, err := s.store.AddNominee(ctx, roomID, name)
	if err != nil {
		return models.Nominee{}, s.storeError("add nominee", err)
	}

	s.logger.Info("nominee added", "room_id", roomID, "nominee_id", nominee.ID)
	s.emit(ctx, roomID, models.NewNominationAdded(roomID, nominee))
	return nominee, nil
}

// SetState moves the room to any recognized state. Entering done also
// resolves the winner, announces it and archives the result.
func (s *Service) SetState(ctx context.Context, roomID, hostSecret, state string) (models.RoomState, error) {
	next, err := models.ParseRoomState(state)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if _, err := s.authorize(ctx, roomID, hostSecret); err != nil {
		return "", err
	}

	if err := s.store.SetState(ctx, roomID, next); err != nil {
		return "", s.storeError("set state", err)
	}

	s.logger.Info("room state changed", "room_id", roomID, "state", next)
	s.emit(ctx, roomID, models.NewStateChanged(roomID, next))

	switch next {
	case models.StateDone:
		res, err := s.resolve(ctx, roomID)
		if err != nil {
			// The state change itself already succeeded.
			s.logger.Error("failed to resolve winner", "room_id", roomID, "error", err)
			return next, nil
		}
		s.emit(ctx, roomID, models.NewWinnerDecided(res.winner()))
		s.archiveResult(ctx, roomID, res)
	case models.StateNominating, models.StateVoting:
	}

	return next, nil
}

// JoinRoom enrolls a user. Only allowed while nominating.
func (s *Service) JoinRoom(ctx context.Context, roomID, userName string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}
	room, err := s.room(ctx, roomID)
	if err != nil {
		return err
	}

	switch room.State {
	case models.StateNominating:
	case models.StateVoting, models.StateDone:
		return fmt.Errorf("%w: room is %s, joining is closed", ErrForbidden, room.State)
	}

	if err := s.store.AddUser(ctx, roomID, userName); err != nil {
		return s.storeError("add user", err)
	}

	s.emit(ctx, roomID, models.NewUserJoined(roomID, userName))
	return nil
}

// SubmitVote records a ballot, at most one per user name. Entries that are
// not valid nominee ids are kept and ignored at resolution time.
func (s *Service) SubmitVote(ctx context.Context, roomID, userName string, ballot []string) error {
	userName = strings.TrimSpace(userName)
	if userName == "" {
		return fmt.Errorf("%w: user name is required", ErrValidation)
	}
	if len(ballot) == 0 {
		return fmt.Errorf("%w: ballot must rank at least one nominee", ErrValidation)
	}
	room, err := s.room(ctx, roomID)
	if err != nil {
		return err
	}

	switch room.State {
	case models.StateVoting:
	case models.StateNominating, models.StateDone:
		return fmt.Errorf("%w: room is %s, voting is closed", ErrForbidden, room.State)
	}

	recorded, err := s.store.AppendVote(ctx, roomID, userName, ballot)
	if err != nil {
		return s.storeError("append vote", err)
	}
	if !recorded {
		return fmt.Errorf("%w: %s has already voted", ErrConflict, userName)
	}

	s.metrics.VoteSubmitted()
	s.emit(ctx, roomID, models.NewUserVoted(userName))
	return nil
}

// ResolveWinner runs the ranked pairs pipeline over the stored ballots.
// A nil nominee means there is no winner.
func (s *Service) ResolveWinner(ctx context.Context, roomID string) (*models.Nominee, error) {
	if _, err := s.room(ctx, roomID); err != nil {
		return nil, err
	}
	res, err := s.resolve(ctx, roomID)
	if err != nil {
		return nil, err
	}
	return res.winner(), nil
}

// RoomExists returns ErrRoomNotFound unless the room is live
func (s *Service) RoomExists(ctx context.Context, roomID string) error {
	if roomID == "" {
		return fmt.Errorf("%w: room id is required", ErrValidation)
	}
	ok, err := s.store.Exists(ctx, roomID)
	if err != nil {
		return s.storeError("check room", err)
	}
	if !ok {
		return fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	return nil
}

// GetRoom returns the current room view for clients reconciling after
// missed events
func (s *Service) GetRoom(ctx context.Context, roomID string) (models.RoomView, error) {
	room, err := s.room(ctx, roomID)
	if err != nil {
		return models.RoomView{}, err
	}
	nominees, err := s.store.Nominees(ctx, roomID)
	if err != nil {
		return models.RoomView{}, s.storeError("list nominees", err)
	}
	users, err := s.store.Users(ctx, roomID)
	if err != nil {
		return models.RoomView{}, s.storeError("list users", err)
	}
	votes, err := s.store.VoteCount(ctx, roomID)
	if err != nil {
		return models.RoomView{}, s.storeError("count votes", err)
	}

	return models.RoomView{
		Room:      room,
		Nominees:  nominees,
		Users:     users,
		VoteCount: votes,
	}, nil
}

// Results returns the full pairwise breakdown once the room is done
func (s *Service) Results(ctx context.Context, roomID string) (models.ResultsResponse, error) {
	room, err := s.room(ctx, roomID)
	if err != nil {
		return models.ResultsResponse{}, err
	}
	switch room.State {
	case models.StateDone:
	case models.StateNominating, models.StateVoting:
		return models.ResultsResponse{}, fmt.Errorf("%w: results are sealed until the room is done", ErrForbidden)
	}

	res, err := s.resolve(ctx, roomID)
	if err != nil {
		return models.ResultsResponse{}, err
	}

	return models.ResultsResponse{
		RoomID:      roomID,
		Winner:      res.winner(),
		Nominees:    res.nominees,
		BallotCount: res.Ballots,
		Matrix:      res.matrixRows(),
		Pairs:       res.rankedPairs(),
	}, nil
}

// Snapshots lists archived results of a room, newest first
func (s *Service) Snapshots(ctx context.Context, roomID, hostSecret string) ([]models.ResultSnapshot, error) {
	if _, err := s.authorize(ctx, roomID, hostSecret); err != nil {
		return nil, err
	}
	if s.archive == nil {
		return []models.ResultSnapshot{}, nil
	}
	snaps, err := s.archive.ListSnapshots(ctx, roomID)
	if err != nil {
		return nil, s.storeError("list snapshots", err)
	}
	return snaps, nil
}

// DeleteRoom tears the room down. Archived snapshots are kept.
func (s *Service) DeleteRoom(ctx context.Context, roomID, hostSecret string) error {
	if _, err := s.authorize(ctx, roomID, hostSecret); err != nil {
		return err
	}
	if err := s.store.DeleteRoom(ctx, roomID); err != nil {
		return s.storeError("delete room", err)
	}
	s.metrics.RoomDeleted()
	s.logger.Info("room deleted", "room_id", roomID)
	return nil
}

// Ping reports whether the room store is reachable
func (s *Service) Ping(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func (s *Service) room(ctx context.Context, roomID string) (models.Room, error) {
	if roomID == "" {
		return models.Room{}, fmt.Errorf("%w: room id is required", ErrValidation)
	}
	room, err := s.store.GetRoom(ctx, roomID)
	if errors.Is(err, store.ErrNotFound) {
		return models.Room{}, fmt.Errorf("%w: %s", ErrRoomNotFound, roomID)
	}
	if err != nil {
		return models.Room{}, s.storeError("get room", err)
	}
	return room, nil
}

func (s *Service) authorize(ctx context.Context, roomID, hostSecret string) (models.Room, error) {
	room, err := s.room(ctx, roomID)
	if err != nil {
		return models.Room{}, err
	}
	if err := auth.ValidateHostSecret(hostSecret, room.HostSecret); err != nil {
		s.logger.Warn("host secret rejected", "room_id", roomID)
		return models.Room{}, fmt.Errorf("%w: %w", ErrUnauthorized, err)
	}
	return room, nil
}

// emit publishes after a successful write. A failed publish is logged and
// never changes the outcome of the operation.
func (s *Service) emit(ctx context.Context, roomID string, event models.Event) {
	err := s.events.Publish(ctx, roomID, event)
	s.metrics.EventPublished(event.Name, err)
	if err != nil {
		s.logger.Warn("failed to publish event", "room_id", roomID, "event", event.Name, "error", err)
	}
}

func (s *Service) storeError(op string, err error) error {
	s.logger.Error("store operation failed", "op", op, "error", err)
	return fmt.Errorf("%w: %s: %w", ErrStoreUnavailable, op, err)
}

type resolution struct {
	tideman.Result
	nominees []models.Nominee
	hash     string
}

func (s *Service) resolve(ctx context.Context, roomID string) (resolution, error) {
	n, err := s.store.NomineeCount(ctx, roomID)
	if err != nil {
		return resolution{}, s.storeError("count nominees", err)
	}
	nominees, err := s.store.Nominees(ctx, roomID)
	if err != nil {
		return resolution{}, s.storeError("list nominees", err)
	}
	votes, err := s.store.Votes(ctx, roomID)
	if err != nil {
		return resolution{}, s.storeError("read votes", err)
	}

	ballots := make([]tideman.Ballot, len(votes))
	for i, v := range votes {
		ballots[i] = tideman.Ballot(v)
	}

	res := resolution{
		Result:   tideman.Resolve(ballots, n),
		nominees: nominees,
		hash:     hashBallots(votes),
	}
	s.metrics.WinnerResolved(res.HasWinner())
	s.logger.Info("winner resolved", "room_id", roomID, "winner", res.Winner, "ballots", res.Ballots)
	return res, nil
}

func (r resolution) winner() *models.Nominee {
	if !r.HasWinner() {
		return nil
	}
	for _, n := range r.nominees {
		if n.ID == r.Winner {
			return &n
		}
	}
	// Id was handed out but its name write never landed.
	return &models.Nominee{ID: r.Winner}
}

func (r resolution) matrixRows() [][]int {
	rows := make([][]int, r.Matrix.Size())
	for i := range rows {
		rows[i] = append([]int(nil), r.Matrix[i]...)
	}
	return rows
}

func (r resolution) rankedPairs() []models.RankedPair {
	pairs := make([]models.RankedPair, len(r.Pairs))
	for i, p := range r.Pairs {
		pairs[i] = models.RankedPair{
			Winner: p.Winner,
			Loser:  p.Loser,
			Margin: p.Margin,
			Locked: r.Locked[p.Winner][p.Loser],
		}
	}
	return pairs
}

func (s *Service) archiveResult(ctx context.Context, roomID string, res resolution) {
	if s.archive == nil {
		return
	}
	id, err := auth.GenerateID(16)
	if err != nil {
		s.logger.Error("failed to generate snapshot id", "error", err)
		return
	}

	snap := models.ResultSnapshot{
		ID:           id,
		RoomID:       roomID,
		Method:       models.MethodRankedPairs,
		ComputedAt:   s.now().UTC(),
		Winner:       res.winner(),
		NomineeCount: res.Nominees,
		BallotCount:  res.Ballots,
		Pairs:        res.rankedPairs(),
		InputsHash:   res.hash,
	}
	if err := s.archive.SaveSnapshot(ctx, snap); err != nil {
		s.logger.Error("failed to archive result", "room_id", roomID, "error", err)
		return
	}
	s.logger.Info("result archived", "room_id", roomID, "snapshot_id", id)
}

// hashBallots fingerprints the ballot list in stored order. Each ballot is
// hashed as its JSON encoding so entry boundaries are preserved.
func hashBallots(votes [][]string) string {
	h := sha256.New()
	enc := json.NewEncoder(h)
	for _, v := range votes {
		// Encoding a []string into a hash cannot fail.
		_ = enc.Encode(v)
	}
	return hex.EncodeToString(h.Sum(nil))
}
