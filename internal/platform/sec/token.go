// Copyright (c) 2026 Confero. All rights reserved.

package sec

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
)

// # Opaque Tokens

// GenerateSecureToken returns a hex-encoded random token of byteLength
// entropy bytes. Used for refresh, reset, and verification tokens.
func GenerateSecureToken(byteLength int) (string, error) {
	buf := make([]byte, byteLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("auth: failed to generate secure token: %w", err)
	}
	return hex.EncodeToString(buf), nil
}

// HashToken returns the SHA-256 digest of a token in hex form.
//
// Only the digest is persisted, so a database leak never exposes a usable
// refresh token.
func HashToken(token string) string {
	digest := sha256.Sum256([]byte(token))
	return hex.EncodeToString(digest[:])
}
