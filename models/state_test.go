// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package models

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestParseRoomState(t *testing.T) {
	tests := []struct {
		input   string
		want    RoomState
		wantErr bool
	}{
		{"nominating", StateNominating, false},
		{"voting", StateVoting, false},
		{"done", StateDone, false},
		{"cancelled", "", true},
		{"", "", true},
		{"Voting", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseRoomState(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseRoomState(%q) error = %v, wantErr %v", tt.input, err, tt.wantErr)
			}
			if tt.wantErr && !errors.Is(err, ErrUnknownState) {
				t.Errorf("ParseRoomState(%q) error = %v, want ErrUnknownState", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseRoomState(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestEventEnvelope(t *testing.T) {
	ev := NewNominationAdded("room-1", Nominee{ID: 0, Name: "Alien"})

	data, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}

	expected := `{"event":"nomination-added","data":{"nominee":{"id":0,"name":"Alien"},"roomId":"room-1"}}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}

func TestWinnerDecidedWithoutWinner(t *testing.T) {
	data, err := json.Marshal(NewWinnerDecided(nil))
	if err != nil {
		t.Fatalf("Failed to marshal event: %v", err)
	}

	expected := `{"event":"winner-decided","data":{"winner":null}}`
	if string(data) != expected {
		t.Errorf("Expected %s, got %s", expected, data)
	}
}
