package config

import (
	"bytes"
	"crypto/rand"
	"testing"
)

func TestAESGCMRoundtrip(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	plaintext := []byte(`{"email":"user@example.com","password":"hunter2"}`)
	ciphertext, err := encryptAESGCM(plaintext, key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	if bytes.Contains(ciphertext, []byte("hunter2")) {
		t.Error("ciphertext leaks plaintext")
	}

	decrypted, err := decryptAESGCM(ciphertext, key)
	if err != nil {
		t.Fatalf("decrypt: %v", err)
	}
	if !bytes.Equal(decrypted, plaintext) {
		t.Errorf("roundtrip mismatch: %q != %q", decrypted, plaintext)
	}
}

func TestAESGCMWrongKey(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	ciphertext, err := encryptAESGCM([]byte("secret"), key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}

	wrongKey := make([]byte, 32)
	if _, err := rand.Read(wrongKey); err != nil {
		t.Fatal(err)
	}
	if _, err := decryptAESGCM(ciphertext, wrongKey); err == nil {
		t.Error("decrypt succeeded with the wrong key")
	}
}

func TestAESGCMTamperedCiphertext(t *testing.T) {
	key := make([]byte, 32)
	if _, err := rand.Read(key); err != nil {
		t.Fatal(err)
	}

	ciphertext, err := encryptAESGCM([]byte("secret"), key)
	if err != nil {
		t.Fatalf("encrypt: %v", err)
	}
	ciphertext[len(ciphertext)-1] ^= 0x01

	if _, err := decryptAESGCM(ciphertext, key); err == nil {
		t.Error("decrypt accepted tampered ciphertext")
	}
}
