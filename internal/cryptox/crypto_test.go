package cryptox

import (
	"encoding/hex"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testParams() Argon2Params {
	return Argon2Params{Time: 1, Memory: 8 * 1024, Threads: 1, KeyLen: 32}
}

func TestPasswordHasher_Deterministic(t *testing.T) {
	h := NewPasswordHasher("thisIsASecret", testParams())

	for _, pw := range []string{"a", "hunter2", "correct horse battery staple", "пароль"} {
		first := h.Hash(pw)
		second := h.Hash(pw)

		assert.Equal(t, first, second, "hash must be deterministic for %q", pw)
		assert.NotEqual(t, pw, first, "hash must differ from plaintext")

		raw, err := hex.DecodeString(first)
		require.NoError(t, err)
		assert.Len(t, raw, 32)
	}
}

func TestPasswordHasher_DifferentInputs(t *testing.T) {
	h := NewPasswordHasher("thisIsASecret", testParams())
	assert.NotEqual(t, h.Hash("one"), h.Hash("two"))

	other := NewPasswordHasher("thisIsAlsoASecret", testParams())
	assert.NotEqual(t, h.Hash("one"), other.Hash("one"), "secret must key the digest")
}

func TestPasswordHasher_Matches(t *testing.T) {
	h := NewPasswordHasher("s", testParams())
	digest := h.Hash("pw")

	assert.True(t, h.Matches("pw", digest))
	assert.False(t, h.Matches("pw2", digest))
	assert.False(t, h.Matches("pw", ""))
}

func TestDefaultArgon2Params(t *testing.T) {
	p := DefaultArgon2Params()
	assert.Equal(t, uint32(1), p.Time)
	assert.Equal(t, uint32(64*1024), p.Memory)
	assert.Equal(t, uint8(4), p.Threads)
	assert.Equal(t, uint32(32), p.KeyLen)
}
