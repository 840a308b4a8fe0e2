package models

import "time"

// Token is a bearer credential. Expires is unix milliseconds.
type Token struct {
	ID      string `json:"id"`
	Phone   string `json:"phone"`
	Expires int64  `json:"expires"`
}

// ValidAt reports whether the token is still valid at t.
func (t *Token) ValidAt(now time.Time) bool {
	return t.Expires > now.UnixMilli()
}
