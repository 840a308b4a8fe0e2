package common

import (
	"crypto/rand"
	"math/big"
)

const alnumAlphabet = "abcdefghijklmnopqrstuvwxyz0123456789"

// MakeRandAlnumString returns a string of exactly length characters drawn
// uniformly from [a-z0-9] using crypto/rand.
func MakeRandAlnumString(length int) (string, error) {
	if length <= 0 {
		return "", nil
	}

	max := big.NewInt(int64(len(alnumAlphabet)))
	out := make([]byte, length)
	for i := range out {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		out[i] = alnumAlphabet[n.Int64()]
	}
	return string(out), nil
}

// IsAlnumID reports whether s has the given length and consists only of
// characters produced by MakeRandAlnumString.
func IsAlnumID(s string, length int) bool {
	if len(s) != length {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if (c < 'a' || c > 'z') && (c < '0' || c > '9') {
			return false
		}
	}
	return true
}

// WipeByteArray overwrites b with zeros. A nil slice is a no-op.
func WipeByteArray(b []byte) {
	for i := range b {
		b[i] = 0
	}
}
