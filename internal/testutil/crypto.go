package testutil

import (
	"encoding/base64"
	"testing"

	"github.com/iyunix/go-easyemail/internal/crypto"
)

// TestEncryptionKey is the deterministic base64 key used across test packages.
func TestEncryptionKey() string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i)
	}
	return base64.StdEncoding.EncodeToString(key)
}

// GetTestCipher creates a cipher with the deterministic test key.
func GetTestCipher(t *testing.T) *crypto.Cipher {
	t.Helper()

	c, err := crypto.NewCipher(TestEncryptionKey())
	if err != nil {
		t.Fatalf("Failed to create cipher: %v", err)
	}
	return c
}
