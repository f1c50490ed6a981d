package auth

import "testing"

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	if err != nil {
		t.Fatalf("HashPassword() failed: %v", err)
	}
	if hash == "correct horse battery staple" {
		t.Fatal("HashPassword() returned the plaintext")
	}

	if !VerifyPassword(hash, "correct horse battery staple") {
		t.Error("VerifyPassword() rejected the correct password")
	}
	if VerifyPassword(hash, "wrong password") {
		t.Error("VerifyPassword() accepted the wrong password")
	}
	if VerifyPassword("not-a-bcrypt-hash", "anything") {
		t.Error("VerifyPassword() accepted an invalid hash")
	}
}
