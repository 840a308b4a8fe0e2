// Package cryptox holds the password hashing primitive used for user
// credentials.
package cryptox

import (
	"crypto/subtle"
	"encoding/hex"

	"golang.org/x/crypto/argon2"
)

// Argon2Params tunes the argon2id derivation.
type Argon2Params struct {
	Time    uint32
	Memory  uint32 // KiB
	Threads uint8
	KeyLen  uint32
}

// DefaultArgon2Params returns the parameters used in production.
func DefaultArgon2Params() Argon2Params {
	return Argon2Params{Time: 1, Memory: 64 * 1024, Threads: 4, KeyLen: 32}
}

// PasswordHasher derives a deterministic one-way digest of a password.
//
// The configured secret acts as the argon2id salt, so the same plaintext
// always maps to the same digest for a given deployment and digests can be
// compared directly.
type PasswordHasher struct {
	secret []byte
	params Argon2Params
}

// NewPasswordHasher returns a hasher keyed by secret.
func NewPasswordHasher(secret string, params Argon2Params) *PasswordHasher {
	return &PasswordHasher{secret: []byte(secret), params: params}
}

// Hash returns the hex-encoded argon2id digest of plaintext.
func (h *PasswordHasher) Hash(plaintext string) string {
	key := argon2.IDKey([]byte(plaintext), h.secret, h.params.Time, h.params.Memory, h.params.Threads, h.params.KeyLen)
	return hex.EncodeToString(key)
}

// Matches reports whether plaintext hashes to digest, in constant time.
func (h *PasswordHasher) Matches(plaintext, digest string) bool {
	return subtle.ConstantTimeCompare([]byte(h.Hash(plaintext)), []byte(digest)) == 1
}
