// Package common contains shared constants and sentinel errors used across
// pulsecheck components.
package common

// TokenHeaderName is the HTTP header carrying the bearer token id.
const TokenHeaderName = "token"

// TokenIDLength is the length of generated token ids.
const TokenIDLength = 20

// CheckIDLength is the length of generated check ids.
const CheckIDLength = 20

// PhoneLength is the exact number of digits in a user's phone number.
const PhoneLength = 10
