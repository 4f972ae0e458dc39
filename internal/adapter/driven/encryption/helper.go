// Package encryption implements the Cipher port with AES-256-CBC.
//
// The blob layout is base64(iv || base64(ciphertext)), which is what the
// original blog plugin wrote to its options table, so existing keys stay readable.
package encryption

import (
	"bytes"
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"io"

	"github.com/ericfisherdev/spamwall/internal/domain/port/driven"
)

// Compile-time interface satisfaction check.
var _ driven.Cipher = (*Helper)(nil)

// ivLength is the CBC initialization vector size for AES.
const ivLength = aes.BlockSize

var errInvalidPadding = errors.New("invalid padding")

// Helper encrypts and decrypts short secrets with a key derived from a
// site-wide secret. A Helper without a secret is disabled and returns every
// input unchanged.
type Helper struct {
	key    []byte // SHA-256 of the site secret; nil when disabled.
	random io.Reader
}

// New creates a Helper. An empty secret disables encryption.
func New(secret string) *Helper {
	h := &Helper{random: rand.Reader}
	if secret != "" {
		sum := sha256.Sum256([]byte(secret))
		h.key = sum[:]
	}
	return h
}

// Enabled reports whether a secret was configured.
func (h *Helper) Enabled() bool {
	return h.key != nil
}

// Encrypt returns the encrypted blob for plaintext, or plaintext itself when
// encryption is disabled or fails.
func (h *Helper) Encrypt(plaintext string) string {
	if !h.Enabled() {
		return plaintext
	}

	encoded, err := h.encrypt([]byte(plaintext))
	if err != nil {
		return plaintext
	}
	return encoded
}

// Decrypt returns the plaintext for an encrypted blob. The input is returned
// unchanged when encryption is disabled or the blob is malformed, which also
// lets values stored before encryption was enabled pass through.
func (h *Helper) Decrypt(encoded string) string {
	if !h.Enabled() {
		return encoded
	}

	plaintext, err := h.decrypt(encoded)
	if err != nil {
		return encoded
	}
	return plaintext
}

func (h *Helper) encrypt(plaintext []byte) (string, error) {
	block, err := aes.NewCipher(h.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}

	iv := make([]byte, ivLength)
	if _, err := io.ReadFull(h.random, iv); err != nil {
		return "", fmt.Errorf("rand iv: %w", err)
	}

	padded := pkcs7Pad(plaintext, aes.BlockSize)
	ciphertext := make([]byte, len(padded))
	cipher.NewCBCEncrypter(block, iv).CryptBlocks(ciphertext, padded)

	inner := base64.StdEncoding.EncodeToString(ciphertext)
	return base64.StdEncoding.EncodeToString(append(iv, inner...)), nil
}

func (h *Helper) decrypt(encoded string) (string, error) {
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return "", fmt.Errorf("base64 decode: %w", err)
	}
	if len(data) < ivLength {
		return "", errors.New("blob shorter than iv")
	}

	iv, inner := data[:ivLength], data[ivLength:]
	ciphertext, err := base64.StdEncoding.DecodeString(string(inner))
	if err != nil {
		return "", fmt.Errorf("base64 decode ciphertext: %w", err)
	}
	if len(ciphertext) == 0 || len(ciphertext)%aes.BlockSize != 0 {
		return "", errors.New("ciphertext is not a whole number of blocks")
	}

	block, err := aes.NewCipher(h.key)
	if err != nil {
		return "", fmt.Errorf("aes.NewCipher: %w", err)
	}

	plaintext := make([]byte, len(ciphertext))
	cipher.NewCBCDecrypter(block, iv).CryptBlocks(plaintext, ciphertext)

	unpadded, err := pkcs7Unpad(plaintext, aes.BlockSize)
	if err != nil {
		return "", err
	}
	return string(unpadded), nil
}

func pkcs7Pad(data []byte, blockSize int) []byte {
	n := blockSize - len(data)%blockSize
	return append(append([]byte{}, data...), bytes.Repeat([]byte{byte(n)}, n)...)
}

func pkcs7Unpad(data []byte, blockSize int) ([]byte, error) {
	if len(data) == 0 {
		return nil, errInvalidPadding
	}
	n := int(data[len(data)-1])
	if n == 0 || n > blockSize || n > len(data) {
		return nil, errInvalidPadding
	}
	for _, b := range data[len(data)-n:] {
		if int(b) != n {
			return nil, errInvalidPadding
		}
	}
	return data[:len(data)-n], nil
}
