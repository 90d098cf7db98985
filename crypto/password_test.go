package crypto

import "testing"

func TestPasswordHashRoundtrip(t *testing.T) {
	hash, err := GenerateHash("password123")
	if err != nil {
		t.Fatalf("GenerateHash failed: %v", err)
	}
	if !CheckPassword("password123", hash) {
		t.Error("correct password rejected")
	}
	if CheckPassword("password124", hash) {
		t.Error("wrong password accepted")
	}
}

func TestCheckPasswordEmptyHash(t *testing.T) {
	// Users created through OAuth2 have no password hash; nothing should
	// match, not even the empty string.
	if CheckPassword("", "") {
		t.Error("empty password matched empty hash")
	}
	if CheckPassword("anything", "") {
		t.Error("password matched empty hash")
	}
}
