package crypto

import (
	"strings"
	"testing"
)

const testKey = "0123456789abcdef0123456789abcdef" // 32 bytes for AES-256

func TestNewEncryptor(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		wantErr error
	}{
		{name: "valid 32-byte key", key: testKey},
		{name: "short key", key: "too-short", wantErr: ErrInvalidKey},
		{name: "empty key", key: "", wantErr: ErrInvalidKey},
		{name: "33-byte key", key: testKey + "x", wantErr: ErrInvalidKey},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			enc, err := NewEncryptor(tt.key)
			if err != tt.wantErr {
				t.Fatalf("NewEncryptor() error = %v, want %v", err, tt.wantErr)
			}
			if tt.wantErr == nil && enc == nil {
				t.Fatal("NewEncryptor() returned nil encryptor")
			}
		})
	}
}

func TestEncryptDecrypt_Roundtrip(t *testing.T) {
	enc, err := NewEncryptor(testKey)
	if err != nil {
		t.Fatalf("NewEncryptor() failed: %v", err)
	}

	plaintexts := []string{
		"access-sandbox-1f2e3d4c",
		"Transferência agendada: R$ 2.300,00 ☕",
		strings.Repeat("padding ", 2000),
	}

	for _, plaintext := range plaintexts {
		ciphertext, err := enc.Encrypt(plaintext)
		if err != nil {
			t.Fatalf("Encrypt(%q) failed: %v", plaintext, err)
		}
		if ciphertext == plaintext {
			t.Error("Encrypt() returned plaintext unchanged")
		}

		decrypted, err := enc.Decrypt(ciphertext)
		if err != nil {
			t.Fatalf("Decrypt() failed: %v", err)
		}
		if decrypted != plaintext {
			t.Errorf("roundtrip mismatch: got %q, want %q", decrypted, plaintext)
		}
	}
}

func TestEncrypt_EmptyStringPassthrough(t *testing.T) {
	enc, _ := NewEncryptor(testKey)

	ciphertext, err := enc.Encrypt("")
	if err != nil || ciphertext != "" {
		t.Errorf("Encrypt(\"\") = (%q, %v), want empty string and nil", ciphertext, err)
	}

	plaintext, err := enc.Decrypt("")
	if err != nil || plaintext != "" {
		t.Errorf("Decrypt(\"\") = (%q, %v), want empty string and nil", plaintext, err)
	}
}

func TestEncrypt_NonceVariesPerCall(t *testing.T) {
	enc, _ := NewEncryptor(testKey)

	c1, _ := enc.Encrypt("same secret")
	c2, _ := enc.Encrypt("same secret")

	if c1 == c2 {
		t.Error("Encrypt() produced identical ciphertexts for the same plaintext")
	}
}

func TestDecrypt_RejectsBadInput(t *testing.T) {
	enc, _ := NewEncryptor(testKey)
	valid, _ := enc.Encrypt("secret")

	tests := []struct {
		name       string
		ciphertext string
	}{
		{name: "tampered", ciphertext: valid[:len(valid)-2] + "ZZ"},
		{name: "invalid base64", ciphertext: "!!!not base64!!!"},
		{name: "shorter than nonce", ciphertext: "YQ=="},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := enc.Decrypt(tt.ciphertext); err == nil {
				t.Error("Decrypt() accepted invalid ciphertext")
			}
		})
	}
}

func TestDecrypt_WrongKey(t *testing.T) {
	enc1, _ := NewEncryptor(testKey)
	enc2, _ := NewEncryptor("fedcba9876543210fedcba9876543210")

	ciphertext, _ := enc1.Encrypt("token for key one")
	if _, err := enc2.Decrypt(ciphertext); err == nil {
		t.Error("Decrypt() succeeded with the wrong key")
	}
}
