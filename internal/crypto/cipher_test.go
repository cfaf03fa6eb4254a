package crypto

import (
	"encoding/base64"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testKey(seed byte) string {
	key := make([]byte, 32)
	for i := range key {
		key[i] = byte(i) + seed
	}
	return base64.StdEncoding.EncodeToString(key)
}

func TestNewCipher(t *testing.T) {
	t.Run("valid 32-byte key", func(t *testing.T) {
		c, err := NewCipher(testKey(0))
		require.NoError(t, err)
		assert.NotNil(t, c)
	})

	t.Run("invalid base64", func(t *testing.T) {
		_, err := NewCipher("not-valid-base64!!!")
		assert.Error(t, err)
	})

	t.Run("wrong key length", func(t *testing.T) {
		_, err := NewCipher(base64.StdEncoding.EncodeToString(make([]byte, 16)))
		assert.Error(t, err)
	})
}

func TestEncryptDecrypt(t *testing.T) {
	c, err := NewCipher(testKey(0))
	require.NoError(t, err)

	testCases := []struct {
		name      string
		plaintext string
	}{
		{"json payload", `{"subject":"Hello","body":"Hi there"}`},
		{"empty", ""},
		{"unicode", "Grüße 你好 🔐"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			token, err := c.Encrypt([]byte(tc.plaintext))
			require.NoError(t, err)
			assert.NotEmpty(t, token)

			plaintext, err := c.Decrypt(token)
			require.NoError(t, err)
			assert.Equal(t, tc.plaintext, string(plaintext))
		})
	}
}

func TestEncryptUsesFreshNonce(t *testing.T) {
	c, err := NewCipher(testKey(0))
	require.NoError(t, err)

	first, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)
	second, err := c.Encrypt([]byte("same"))
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
}

func TestDecryptFailures(t *testing.T) {
	c, err := NewCipher(testKey(0))
	require.NoError(t, err)

	t.Run("not base64", func(t *testing.T) {
		_, err := c.Decrypt("%%%")
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})

	t.Run("too short", func(t *testing.T) {
		_, err := c.Decrypt(base64.URLEncoding.EncodeToString([]byte("short")))
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})

	t.Run("wrong key", func(t *testing.T) {
		token, err := c.Encrypt([]byte("secret"))
		require.NoError(t, err)

		other, err := NewCipher(testKey(7))
		require.NoError(t, err)

		_, err = other.Decrypt(token)
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})

	t.Run("corrupted", func(t *testing.T) {
		token, err := c.Encrypt([]byte("secret"))
		require.NoError(t, err)

		raw, err := base64.URLEncoding.DecodeString(token)
		require.NoError(t, err)
		raw[len(raw)-1] ^= 0xFF

		_, err = c.Decrypt(base64.URLEncoding.EncodeToString(raw))
		assert.ErrorIs(t, err, ErrInvalidCiphertext)
	})
}
