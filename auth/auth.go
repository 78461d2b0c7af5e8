// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

var (
	ErrInvalidHostSecret = errors.New("invalid host secret")
	ErrMissingHostSecret = errors.New("host secret required")
)

// GenerateID creates a random hex ID of the specified byte length
func GenerateID(byteLen int) (string, error) {
	b := make([]byte, byteLen)
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate random ID: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// GenerateRoomID creates a new random room identifier
func GenerateRoomID() (string, error) {
	id, err := uuid.NewRandom()
	if err != nil {
		return "", fmt.Errorf("failed to generate room ID: %w", err)
	}
	return id.String(), nil
}

// GenerateHostSecret creates the credential handed to a room's creator.
// It is required for every privileged mutation of that room.
func GenerateHostSecret() (string, error) {
	b := make([]byte, 24) // 24 bytes = 192 bits of entropy
	_, err := rand.Read(b)
	if err != nil {
		return "", fmt.Errorf("failed to generate host secret: %w", err)
	}
	// URL-safe base64 without padding
	return strings.TrimRight(base64.URLEncoding.EncodeToString(b), "="), nil
}

// ValidateHostSecret compares a presented secret against the stored one
// in constant time
func ValidateHostSecret(presented, stored string) error {
	if presented == "" {
		return ErrMissingHostSecret
	}
	if stored == "" || !hmac.Equal([]byte(presented), []byte(stored)) {
		return ErrInvalidHostSecret
	}
	return nil
}
