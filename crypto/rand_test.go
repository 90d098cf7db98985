package crypto

import (
	"strings"
	"testing"
)

func TestRandomString(t *testing.T) {
	testCases := []struct {
		name     string
		length   int
		alphabet string
	}{
		{"alphanumeric 32", 32, AlphanumericAlphabet},
		{"digits 6", 6, digitAlphabet},
		{"pkce 43", 43, pkceAlphabet},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			s := RandomString(tc.length, tc.alphabet)
			if len(s) != tc.length {
				t.Errorf("RandomString length = %d, want %d", len(s), tc.length)
			}
			for _, char := range s {
				if !strings.ContainsRune(tc.alphabet, char) {
					t.Errorf("RandomString contains invalid character: %c", char)
				}
			}
		})
	}
}

func TestVerificationCodeShape(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 100; i++ {
		code := VerificationCode()
		if len(code) != VerificationCodeLength {
			t.Fatalf("code %q has length %d, want %d", code, len(code), VerificationCodeLength)
		}
		for _, c := range code {
			if c < '0' || c > '9' {
				t.Fatalf("code %q contains non-digit %c", code, c)
			}
		}
		seen[code] = true
	}
	// 100 draws from a million-code space should essentially never collide
	// down to a single value.
	if len(seen) < 2 {
		t.Error("verification codes do not vary")
	}
}

func TestSessionTokenUnique(t *testing.T) {
	a, b := SessionToken(), SessionToken()
	if a == b {
		t.Error("two session tokens are identical")
	}
	if len(a) != SessionTokenLength {
		t.Errorf("token length = %d, want %d", len(a), SessionTokenLength)
	}
}
