package driven

// Cipher protects secrets at rest. Implementations fail open: when no key is
// configured or a primitive fails, the input is returned unchanged rather
// than an error.
type Cipher interface {
	Encrypt(plaintext string) string
	Decrypt(encoded string) string

	// Enabled reports whether a key is configured. When false, Encrypt and
	// Decrypt are identity functions.
	Enabled() bool
}
