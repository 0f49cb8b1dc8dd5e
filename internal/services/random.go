package services

import (
	"crypto/rand"
	"encoding/base64"
	"encoding/hex"
	"fmt"
)

const (
	inviteTokenBytes     = 32
	generatedPasswordLen = 12
)

// newInviteToken returns 32 random bytes hex encoded (64 characters).
func newInviteToken() (string, error) {
	b := make([]byte, inviteTokenBytes)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate invite token: %w", err)
	}
	return hex.EncodeToString(b), nil
}

// newPassword returns a random 12 character password. 9 random bytes encode to exactly
// 12 base64 characters.
func newPassword() (string, error) {
	b := make([]byte, generatedPasswordLen*3/4)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("generate password: %w", err)
	}
	return base64.StdEncoding.EncodeToString(b)[:generatedPasswordLen], nil
}
