package crypto

import (
	"crypto/rand"
	"math/big"
)

// AlphanumericAlphabet is URL-safe and suitable for opaque tokens.
const AlphanumericAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

const digitAlphabet = "0123456789"

// SessionTokenLength matches common practice for opaque session handles:
// 62^32 is far beyond brute-force reach.
const SessionTokenLength = 32

// VerificationCodeLength is the number of digits in an email verification
// code.
const VerificationCodeLength = 6

// RandomString returns a uniformly random string of the given length over the
// given alphabet, using crypto/rand. It panics if the source of randomness
// fails, which is unrecoverable.
func RandomString(length int, alphabet string) string {
	max := big.NewInt(int64(len(alphabet)))
	b := make([]byte, length)
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			panic("crypto: random source unavailable: " + err.Error())
		}
		b[i] = alphabet[n.Int64()]
	}
	return string(b)
}

// SessionToken returns a new opaque session handle.
func SessionToken() string {
	return RandomString(SessionTokenLength, AlphanumericAlphabet)
}

// VerificationCode returns a 6-digit numeric code. Leading zeros are
// preserved: the code is a string, not a number.
func VerificationCode() string {
	return RandomString(VerificationCodeLength, digitAlphabet)
}
