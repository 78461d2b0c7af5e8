// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"

	"github.com/danielhkuo/quickly-rank/broadcast"
	"github.com/danielhkuo/quickly-rank/models"
	"github.com/danielhkuo/quickly-rank/session"
	"github.com/danielhkuo/quickly-rank/testutil"
)

type testEnv struct {
	mux     *http.ServeMux
	svc     *session.Service
	hub     *broadcast.Hub
	mr      *miniredis.Miniredis
	events  *testutil.RecordingPublisher
	archive *testutil.MemoryArchive
}

// setupTestEnv registers every handler on a bare mux
func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	st, mr := testutil.SetupStore(t)
	env := &testEnv{
		hub:     broadcast.NewHub(),
		mr:      mr,
		events:  &testutil.RecordingPublisher{},
		archive: &testutil.MemoryArchive{},
	}
	env.svc = session.NewService(st, env.events, session.WithArchive(env.archive))
	t.Cleanup(env.hub.Close)

	rooms := NewRoomHandler(env.svc, env.hub)
	voting := NewVotingHandler(env.svc)
	results := NewResultsHandler(env.svc)
	events := NewEventHandler(env.svc, env.hub)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /rooms", rooms.CreateRoom)
	mux.HandleFunc("GET /rooms/{id}", rooms.GetRoom)
	mux.HandleFunc("DELETE /rooms/{id}", rooms.DeleteRoom)
	mux.HandleFunc("POST /rooms/{id}/nominees", rooms.AddNominee)
	mux.HandleFunc("PUT /rooms/{id}/state", rooms.SetState)
	mux.HandleFunc("POST /rooms/{id}/users", rooms.JoinRoom)
	mux.HandleFunc("POST /rooms/{id}/votes", voting.SubmitVote)
	mux.HandleFunc("GET /rooms/{id}/winner", voting.GetWinner)
	mux.HandleFunc("GET /rooms/{id}/results", results.GetResults)
	mux.HandleFunc("GET /rooms/{id}/snapshots", results.GetSnapshots)
	mux.HandleFunc("GET /rooms/{id}/events", events.Subscribe)
	env.mux = mux
	return env
}

func (e *testEnv) do(req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

// createRoom creates a room through the API and adds nominees
func (e *testEnv) createRoom(t *testing.T, nominees ...string) (roomID, secret string) {
	t.Helper()
	w := e.do(testutil.MakeRequest("POST", "/rooms", models.CreateRoomRequest{Name: "Movie Night", UserName: "alice"}, nil))
	testutil.AssertStatus(t, w, http.StatusCreated)
	var resp models.CreateRoomResponse
	testutil.AssertJSON(t, w, &resp)

	for _, n := range nominees {
		w := e.do(testutil.MakeRequest("POST", "/rooms/"+resp.RoomID+"/nominees",
			models.AddNomineeRequest{Name: n}, testutil.HostHeaders(resp.HostSecret)))
		testutil.AssertStatus(t, w, http.StatusCreated)
	}
	return resp.RoomID, resp.HostSecret
}

func (e *testEnv) setState(t *testing.T, roomID, secret string, state models.RoomState) {
	t.Helper()
	w := e.do(testutil.MakeRequest("PUT", "/rooms/"+roomID+"/state",
		models.SetStateRequest{State: state.String()}, testutil.HostHeaders(secret)))
	testutil.AssertStatus(t, w, http.StatusOK)
}

func (e *testEnv) vote(roomID, user string, ballot ...string) *httptest.ResponseRecorder {
	return e.do(testutil.MakeRequest("POST", "/rooms/"+roomID+"/votes",
		models.SubmitVoteRequest{UserName: user, Ballot: ballot}, nil))
}
