// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package session

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/store"
	"github.com/danielhkuo/quickly-rank/testutil"
)

type fixture struct {
	svc     *Service
	store   *store.RedisStore
	mr      *miniredis.Miniredis
	events  *testutil.RecordingPublisher
	archive *testutil.MemoryArchive
}

func setup(t *testing.T) *fixture {
	t.Helper()
	st, mr := testutil.SetupStore(t)
	f := &fixture{
		store:   st,
		mr:      mr,
		events:  &testutil.RecordingPublisher{},
		archive: &testutil.MemoryArchive{},
	}
	f.svc = NewService(st, f.events, WithArchive(f.archive), WithClock(testutil.GetTestClock()))
	return f
}

// newRoom creates a room hosted by alice with the given nominees
func (f *fixture) newRoom(t *testing.T, nominees ...string) (roomID, secret string) {
	t.Helper()
	ctx := context.Background()
	created, err := f.svc.CreateRoom(ctx, "Movie Night", "alice")
	require.NoError(t, err)
	for _, n := range nominees {
		_, err := f.svc.AddNominee(ctx, created.RoomID, created.HostSecret, n)
		require.NoError(t, err)
	}
	f.events.Reset()
	return created.RoomID, created.HostSecret
}

func (f *fixture) setState(t *testing.T, roomID, secret string, state models.RoomState) {
	t.Helper()
	_, err := f.svc.SetState(context.Background(), roomID, secret, state.String())
	require.NoError(t, err)
}

func TestCreateRoom(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	first, err := f.svc.CreateRoom(ctx, "Movie Night", "alice")
	require.NoError(t, err)
	second, err := f.svc.CreateRoom(ctx, "Movie Night", "alice")
	require.NoError(t, err)

	assert.NotEmpty(t, first.RoomID)
	assert.NotEmpty(t, first.HostSecret)
	assert.NotEqual(t, first.RoomID, second.RoomID)
	assert.NotEqual(t, first.HostSecret, second.HostSecret)

	view, err := f.svc.GetRoom(ctx, first.RoomID)
	require.NoError(t, err)
	assert.Equal(t, "Movie Night", view.Room.Name)
	assert.Equal(t, "alice", view.Room.Host)
	assert.Equal(t, models.StateNominating, view.Room.State)
	assert.Equal(t, []string{"alice"}, view.Users, "creator is enrolled")
	assert.Empty(t, view.Nominees)
	assert.Zero(t, view.VoteCount)
}

func TestCreateRoomValidation(t *testing.T) {
	f := setup(t)

	_, err := f.svc.CreateRoom(context.Background(), "  ", "alice")
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateRoom(context.Background(), "Movie Night", "")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestCreateRoomGeneratorFailure(t *testing.T) {
	f := setup(t)
	entropy := errors.New("entropy exhausted")

	f.svc.newRoomID = func() (string, error) { return "", entropy }
	_, err := f.svc.CreateRoom(context.Background(), "Movie Night", "alice")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, entropy)

	f.svc.newRoomID = func() (string, error) { return "room-1", nil }
	f.svc.newSecret = func() (string, error) { return "", entropy }
	_, err = f.svc.CreateRoom(context.Background(), "Movie Night", "alice")
	assert.ErrorIs(t, err, ErrStoreUnavailable)
	assert.ErrorIs(t, err, entropy)
}

func TestHashBallotsKeepsEntryBoundaries(t *testing.T) {
	joined := hashBallots([][]string{{"0,1"}})
	split := hashBallots([][]string{{"0", "1"}})
	assert.NotEqual(t, joined, split)

	assert.NotEqual(t, hashBallots([][]string{{"0"}, {"1"}}), hashBallots([][]string{{"0", "1"}}))
	assert.Equal(t, split, hashBallots([][]string{{"0", "1"}}))
}

func TestAddNominee(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t)

	for i, name := range []string{"Alien", "Brazil", "Casablanca"} {
		nominee, err := f.svc.AddNominee(ctx, roomID, secret, name)
		require.NoError(t, err)
		assert.Equal(t, i, nominee.ID)
		assert.Equal(t, name, nominee.Name)
	}

	events := f.events.Events()
	require.Len(t, events, 3)
	assert.Equal(t, roomID, events[0].RoomID)
	assert.Equal(t, models.NewNominationAdded(roomID, models.Nominee{ID: 0, Name: "Alien"}), events[0].Event)
}

func TestAddNomineeWrongSecret(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, _ := f.newRoom(t, "Alien")

	_, err := f.svc.AddNominee(ctx, roomID, "not-the-secret", "Brazil")
	assert.ErrorIs(t, err, ErrUnauthorized)

	_, err = f.svc.AddNominee(ctx, roomID, "", "Brazil")
	assert.ErrorIs(t, err, ErrUnauthorized)

	count, err := f.store.NomineeCount(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, 1, count, "counter unchanged")

	nominees, err := f.store.Nominees(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, []models.Nominee{{ID: 0, Name: "Alien"}}, nominees, "registry unchanged")
	assert.Empty(t, f.events.Events(), "no event on rejected mutation")
}

func TestAddNomineeUnknownRoom(t *testing.T) {
	f := setup(t)
	_, err := f.svc.AddNominee(context.Background(), "missing", "secret", "Alien")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestSetState(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien")

	state, err := f.svc.SetState(ctx, roomID, secret, "voting")
	require.NoError(t, err)
	assert.Equal(t, models.StateVoting, state)

	view, err := f.svc.GetRoom(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, models.StateVoting, view.Room.State)
	assert.Equal(t, []models.Event{models.NewStateChanged(roomID, models.StateVoting)}, eventsOf(f.events))

	// transitions are unguarded, going back is allowed
	state, err = f.svc.SetState(ctx, roomID, secret, "nominating")
	require.NoError(t, err)
	assert.Equal(t, models.StateNominating, state)
}

func TestSetStateRejectsUnknownState(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t)

	_, err := f.svc.SetState(ctx, roomID, secret, "cancelled")
	assert.ErrorIs(t, err, ErrValidation)

	view, err := f.svc.GetRoom(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, models.StateNominating, view.Room.State, "state unchanged")
	assert.Empty(t, f.events.Events())
}

func TestSetStateWrongSecret(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, _ := f.newRoom(t)

	_, err := f.svc.SetState(ctx, roomID, "nope", "voting")
	assert.ErrorIs(t, err, ErrUnauthorized)

	view, err := f.svc.GetRoom(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, models.StateNominating, view.Room.State)
}

func TestJoinRoom(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t)

	require.NoError(t, f.svc.JoinRoom(ctx, roomID, "bob"))
	require.NoError(t, f.svc.JoinRoom(ctx, roomID, "bob"), "joining twice is a no-op")

	view, err := f.svc.GetRoom(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, view.Users)
	assert.Equal(t, models.NewUserJoined(roomID, "bob"), f.events.Events()[0].Event)

	f.setState(t, roomID, secret, models.StateVoting)
	err = f.svc.JoinRoom(ctx, roomID, "carol")
	assert.ErrorIs(t, err, ErrForbidden)

	f.setState(t, roomID, secret, models.StateDone)
	err = f.svc.JoinRoom(ctx, roomID, "carol")
	assert.ErrorIs(t, err, ErrForbidden)

	view, err = f.svc.GetRoom(ctx, roomID)
	require.NoError(t, err)
	assert.NotContains(t, view.Users, "carol")
}

func TestJoinRoomErrors(t *testing.T) {
	f := setup(t)
	assert.ErrorIs(t, f.svc.JoinRoom(context.Background(), "missing", "bob"), ErrRoomNotFound)

	roomID, _ := f.newRoom(t)
	assert.ErrorIs(t, f.svc.JoinRoom(context.Background(), roomID, " "), ErrValidation)
}

func TestSubmitVote(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien", "Brazil")
	f.setState(t, roomID, secret, models.StateVoting)
	f.events.Reset()

	require.NoError(t, f.svc.SubmitVote(ctx, roomID, "alice", []string{"1", "0"}))

	votes, err := f.store.Votes(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"1", "0"}}, votes)
	assert.Equal(t, []models.Event{models.NewUserVoted("alice")}, eventsOf(f.events))
}

func TestSubmitVoteTwiceConflicts(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien", "Brazil")
	f.setState(t, roomID, secret, models.StateVoting)

	require.NoError(t, f.svc.SubmitVote(ctx, roomID, "alice", []string{"0", "1"}))
	after, err := f.store.VoteCount(ctx, roomID)
	require.NoError(t, err)

	err = f.svc.SubmitVote(ctx, roomID, "alice", []string{"1", "0"})
	assert.ErrorIs(t, err, ErrConflict)

	count, err := f.store.VoteCount(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, after, count)

	votes, err := f.store.Votes(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"0", "1"}}, votes, "first ballot kept")
}

func TestSubmitVoteRequiresVotingState(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien")

	assert.ErrorIs(t, f.svc.SubmitVote(ctx, roomID, "alice", []string{"0"}), ErrForbidden)

	f.setState(t, roomID, secret, models.StateDone)
	assert.ErrorIs(t, f.svc.SubmitVote(ctx, roomID, "alice", []string{"0"}), ErrForbidden)

	count, err := f.store.VoteCount(ctx, roomID)
	require.NoError(t, err)
	assert.Zero(t, count)
}

func TestSubmitVoteValidation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien")
	f.setState(t, roomID, secret, models.StateVoting)

	assert.ErrorIs(t, f.svc.SubmitVote(ctx, roomID, "alice", nil), ErrValidation)
	assert.ErrorIs(t, f.svc.SubmitVote(ctx, roomID, "", []string{"0"}), ErrValidation)
	assert.ErrorIs(t, f.svc.SubmitVote(ctx, "missing", "alice", []string{"0"}), ErrRoomNotFound)

	// unknown ids are stored and ignored when resolving
	require.NoError(t, f.svc.SubmitVote(ctx, roomID, "bob", []string{"x", "7", "0"}))
	winner, err := f.svc.ResolveWinner(ctx, roomID)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, 0, winner.ID)
}

func TestSubmitVoteDoesNotRequireEnrollment(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien")
	f.setState(t, roomID, secret, models.StateVoting)

	assert.NoError(t, f.svc.SubmitVote(ctx, roomID, "late-arrival", []string{"0"}))
}

func TestTTLRefreshFailureKeepsWritesAndEvents(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	client.AddHook(testutil.FailExpireHook{})

	events := &testutil.RecordingPublisher{}
	st := store.NewRedisStore(client, store.WithIdleTTL(time.Hour))
	svc := NewService(st, events)
	ctx := context.Background()

	created, err := svc.CreateRoom(ctx, "Movie Night", "alice")
	require.NoError(t, err)

	nominee, err := svc.AddNominee(ctx, created.RoomID, created.HostSecret, "Alien")
	require.NoError(t, err)
	assert.Equal(t, 0, nominee.ID)

	_, err = svc.SetState(ctx, created.RoomID, created.HostSecret, "voting")
	require.NoError(t, err)
	require.NoError(t, svc.SubmitVote(ctx, created.RoomID, "bob", []string{"0"}))
	assert.ErrorIs(t, svc.SubmitVote(ctx, created.RoomID, "bob", []string{"0"}), ErrConflict)

	count, err := st.NomineeCount(ctx, created.RoomID)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
	assert.Equal(t, []string{
		models.EventNominationAdded,
		models.EventStateChanged,
		models.EventUserVoted,
	}, events.Names())
}

func TestResolveWinner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien", "Brazil", "Casablanca")
	f.setState(t, roomID, secret, models.StateVoting)

	ballots := map[string][]string{
		"alice": {"0", "1", "2"},
		"bob":   {"0", "2", "1"},
		"carol": {"1", "0", "2"},
	}
	for user, ballot := range ballots {
		require.NoError(t, f.svc.SubmitVote(ctx, roomID, user, ballot))
	}

	winner, err := f.svc.ResolveWinner(ctx, roomID)
	require.NoError(t, err)
	require.NotNil(t, winner)
	assert.Equal(t, models.Nominee{ID: 0, Name: "Alien"}, *winner)

	again, err := f.svc.ResolveWinner(ctx, roomID)
	require.NoError(t, err)
	assert.Equal(t, winner, again, "resolution is repeatable")
}

func TestResolveWinnerWithoutNominees(t *testing.T) {
	f := setup(t)
	roomID, _ := f.newRoom(t)

	winner, err := f.svc.ResolveWinner(context.Background(), roomID)
	require.NoError(t, err)
	assert.Nil(t, winner)

	_, err = f.svc.ResolveWinner(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrRoomNotFound)
}

func TestDoneAnnouncesAndArchivesWinner(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien", "Brazil")
	f.setState(t, roomID, secret, models.StateVoting)
	require.NoError(t, f.svc.SubmitVote(ctx, roomID, "alice", []string{"1", "0"}))
	f.events.Reset()

	f.setState(t, roomID, secret, models.StateDone)

	brazil := &models.Nominee{ID: 1, Name: "Brazil"}
	assert.Equal(t, []models.Event{
		models.NewStateChanged(roomID, models.StateDone),
		models.NewWinnerDecided(brazil),
	}, eventsOf(f.events))

	snaps, err := f.svc.Snapshots(ctx, roomID, secret)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	snap := snaps[0]
	assert.Equal(t, roomID, snap.RoomID)
	assert.Equal(t, models.MethodRankedPairs, snap.Method)
	assert.Equal(t, brazil, snap.Winner)
	assert.Equal(t, 2, snap.NomineeCount)
	assert.Equal(t, 1, snap.BallotCount)
	assert.Equal(t, []models.RankedPair{{Winner: 1, Loser: 0, Margin: 1, Locked: true}}, snap.Pairs)
	assert.Len(t, snap.InputsHash, 64)
	assert.Equal(t, testutil.GetTestClock()(), snap.ComputedAt)
}

func TestDoneWithoutVotesHasNoWinnerEvent(t *testing.T) {
	f := setup(t)
	roomID, secret := f.newRoom(t)

	f.setState(t, roomID, secret, models.StateDone)

	assert.Equal(t, []models.Event{
		models.NewStateChanged(roomID, models.StateDone),
		models.NewWinnerDecided(nil),
	}, eventsOf(f.events))
}

func TestPublishFailureDoesNotFailOperation(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t)
	f.events.FailWith(errors.New("bus down"))

	nominee, err := f.svc.AddNominee(ctx, roomID, secret, "Alien")
	require.NoError(t, err)
	assert.Equal(t, 0, nominee.ID)
}

func TestArchiveFailureDoesNotFailStateChange(t *testing.T) {
	f := setup(t)
	roomID, secret := f.newRoom(t, "Alien")
	f.archive.FailWith(errors.New("disk full"))

	state, err := f.svc.SetState(context.Background(), roomID, secret, "done")
	require.NoError(t, err)
	assert.Equal(t, models.StateDone, state)
}

func TestResults(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien", "Brazil", "Casablanca")
	f.setState(t, roomID, secret, models.StateVoting)
	require.NoError(t, f.svc.SubmitVote(ctx, roomID, "alice", []string{"2", "0", "1"}))

	_, err := f.svc.Results(ctx, roomID)
	assert.ErrorIs(t, err, ErrForbidden, "sealed while voting")

	f.setState(t, roomID, secret, models.StateDone)
	res, err := f.svc.Results(ctx, roomID)
	require.NoError(t, err)

	assert.Equal(t, roomID, res.RoomID)
	require.NotNil(t, res.Winner)
	assert.Equal(t, 2, res.Winner.ID)
	assert.Equal(t, 1, res.BallotCount)
	assert.Len(t, res.Nominees, 3)
	assert.Equal(t, [][]int{{0, 1, 0}, {0, 0, 0}, {1, 1, 0}}, res.Matrix)
	assert.Len(t, res.Pairs, 3)
	for _, p := range res.Pairs {
		assert.True(t, p.Locked, "consistent ballot locks every pair")
	}
}

func TestSnapshotsRequireHost(t *testing.T) {
	f := setup(t)
	roomID, _ := f.newRoom(t)

	_, err := f.svc.Snapshots(context.Background(), roomID, "guess")
	assert.ErrorIs(t, err, ErrUnauthorized)
}

func TestSnapshotsWithoutArchive(t *testing.T) {
	st, _ := testutil.SetupStore(t)
	svc := NewService(st, nil)
	created, err := svc.CreateRoom(context.Background(), "Lunch", "alice")
	require.NoError(t, err)

	snaps, err := svc.Snapshots(context.Background(), created.RoomID, created.HostSecret)
	require.NoError(t, err)
	assert.Empty(t, snaps)
}

func TestDeleteRoom(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t, "Alien")

	assert.ErrorIs(t, f.svc.DeleteRoom(ctx, roomID, "wrong"), ErrUnauthorized)
	require.NoError(t, f.svc.DeleteRoom(ctx, roomID, secret))

	_, err := f.svc.GetRoom(ctx, roomID)
	assert.ErrorIs(t, err, ErrRoomNotFound)
	assert.ErrorIs(t, f.svc.DeleteRoom(ctx, roomID, secret), ErrRoomNotFound)
}

func TestRoomExists(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	roomID, secret := f.newRoom(t)

	assert.NoError(t, f.svc.RoomExists(ctx, roomID))
	assert.ErrorIs(t, f.svc.RoomExists(ctx, "missing"), ErrRoomNotFound)
	assert.ErrorIs(t, f.svc.RoomExists(ctx, ""), ErrValidation)

	require.NoError(t, f.svc.DeleteRoom(ctx, roomID, secret))
	assert.ErrorIs(t, f.svc.RoomExists(ctx, roomID), ErrRoomNotFound)
}

func TestStoreUnavailable(t *testing.T) {
	f := setup(t)
	roomID, secret := f.newRoom(t)
	f.mr.Close()

	_, err := f.svc.CreateRoom(context.Background(), "Movie Night", "alice")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	_, err = f.svc.AddNominee(context.Background(), roomID, secret, "Alien")
	assert.ErrorIs(t, err, ErrStoreUnavailable)

	assert.Error(t, f.svc.Ping(context.Background()))
}

func eventsOf(p *testutil.RecordingPublisher) []models.Event {
	var out []models.Event
	for _, e := range p.Events() {
		out = append(out, e.Event)
	}
	return out
}
