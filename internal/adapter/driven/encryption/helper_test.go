package encryption

import (
	"crypto/aes"
	"encoding/base64"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHelper_RoundTrip(t *testing.T) {
	h := New("site-secret")
	require.True(t, h.Enabled())

	inputs := []string{
		"",
		"sk-test-0123456789abcdef",
		"exactly sixteen!",
		"ünïcødé ✓ 日本語",
		"line\nbreaks\tand\x00nul bytes",
		strings.Repeat("long secret ", 200),
	}

	for _, in := range inputs {
		encrypted := h.Encrypt(in)
		assert.NotEqual(t, in, encrypted)
		assert.Equal(t, in, h.Decrypt(encrypted))
	}
}

func TestHelper_EncryptUsesFreshIV(t *testing.T) {
	h := New("site-secret")

	a := h.Encrypt("same value")
	b := h.Encrypt("same value")

	assert.NotEqual(t, a, b)
}

func TestHelper_BlobLayout(t *testing.T) {
	h := New("site-secret")

	data, err := base64.StdEncoding.DecodeString(h.Encrypt("sk-abc"))
	require.NoError(t, err)
	require.Greater(t, len(data), aes.BlockSize)

	// The ciphertext segment after the IV is itself base64 text.
	ciphertext, err := base64.StdEncoding.DecodeString(string(data[aes.BlockSize:]))
	require.NoError(t, err)
	assert.Len(t, ciphertext, aes.BlockSize)
}

func TestHelper_Disabled_IsIdentity(t *testing.T) {
	h := New("")
	require.False(t, h.Enabled())

	for _, in := range []string{"", "sk-plain", "c2stcGxhaW4="} {
		assert.Equal(t, in, h.Encrypt(in))
		assert.Equal(t, in, h.Decrypt(in))
	}
}

func TestHelper_Decrypt_MalformedInputReturnedUnchanged(t *testing.T) {
	h := New("site-secret")

	shortBlob := base64.StdEncoding.EncodeToString([]byte("short"))
	notBlocks := base64.StdEncoding.EncodeToString(append(make([]byte, aes.BlockSize), "YWJj"...))
	innerNotBase64 := base64.StdEncoding.EncodeToString(append(make([]byte, aes.BlockSize), "!!!!"...))

	tests := []struct {
		name string
		in   string
	}{
		{name: "not base64", in: "sk-live-not*base64"},
		{name: "shorter than iv", in: shortBlob},
		{name: "ciphertext not whole blocks", in: notBlocks},
		{name: "ciphertext not base64", in: innerNotBase64},
		{name: "empty", in: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.in, h.Decrypt(tt.in))
		})
	}
}

func TestHelper_Decrypt_WrongSecretReturnsInput(t *testing.T) {
	encrypted := New("secret-one").Encrypt("sk-abc")

	// A wrong key almost always breaks the padding check; when it does not,
	// the output is garbage but never the original plaintext.
	got := New("secret-two").Decrypt(encrypted)
	assert.NotEqual(t, "sk-abc", got)
}

func TestHelper_Encrypt_RandomFailureReturnsPlaintext(t *testing.T) {
	h := New("site-secret")
	h.random = failingReader{}

	assert.Equal(t, "sk-abc", h.Encrypt("sk-abc"))
}

func TestPKCS7Unpad_RejectsBadPadding(t *testing.T) {
	block := make([]byte, aes.BlockSize)

	block[len(block)-1] = 0
	_, err := pkcs7Unpad(block, aes.BlockSize)
	assert.ErrorIs(t, err, errInvalidPadding)

	block[len(block)-1] = 17
	_, err = pkcs7Unpad(block, aes.BlockSize)
	assert.ErrorIs(t, err, errInvalidPadding)

	block[len(block)-1] = 2
	block[len(block)-2] = 3
	_, err = pkcs7Unpad(block, aes.BlockSize)
	assert.ErrorIs(t, err, errInvalidPadding)
}

type failingReader struct{}

func (failingReader) Read([]byte) (int, error) { return 0, errors.New("entropy exhausted") }
