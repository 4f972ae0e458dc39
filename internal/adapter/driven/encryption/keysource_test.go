package encryption

import (
	"bytes"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zalando/go-keyring"
)

func TestResolveSecret_EnvWins(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(KeyringService, KeyringUser, "from-keyring"))

	secret, source, err := ResolveSecret("from-env", true)

	require.NoError(t, err)
	assert.Equal(t, "from-env", secret)
	assert.Equal(t, SourceEnv, source)
}

func TestResolveSecret_Keyring(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(KeyringService, KeyringUser, "from-keyring"))

	secret, source, err := ResolveSecret("", true)

	require.NoError(t, err)
	assert.Equal(t, "from-keyring", secret)
	assert.Equal(t, SourceKeyring, source)
}

func TestResolveSecret_KeyringMissingEntry(t *testing.T) {
	keyring.MockInit()

	secret, source, err := ResolveSecret("", true)

	require.NoError(t, err)
	assert.Empty(t, secret)
	assert.Equal(t, SourceNone, source)
}

func TestResolveSecret_KeyringDisabled(t *testing.T) {
	keyring.MockInit()
	require.NoError(t, keyring.Set(KeyringService, KeyringUser, "from-keyring"))

	secret, source, err := ResolveSecret("", false)

	require.NoError(t, err)
	assert.Empty(t, secret)
	assert.Equal(t, SourceNone, source)
}

func TestResolveSecret_KeyringFault(t *testing.T) {
	busErr := errors.New("dbus: no session bus")
	keyring.MockInitWithError(busErr)

	secret, source, err := ResolveSecret("", true)

	require.ErrorIs(t, err, busErr)
	assert.Empty(t, secret)
	assert.Equal(t, SourceNone, source)
}

func TestNewFromSources(t *testing.T) {
	t.Run("keyring fault disables encryption", func(t *testing.T) {
		keyring.MockInitWithError(errors.New("dbus: no session bus"))
		var logs bytes.Buffer
		logger := slog.New(slog.NewTextHandler(&logs, nil))

		h, source := NewFromSources("", true, logger)

		require.NotNil(t, h)
		assert.False(t, h.Enabled())
		assert.Equal(t, SourceNone, source)
		assert.Equal(t, "sk-plain", h.Encrypt("sk-plain"))
		assert.Contains(t, logs.String(), "keyring unavailable, encryption disabled")
		assert.Contains(t, logs.String(), "dbus: no session bus")
	})

	t.Run("env secret ignores faulty keyring", func(t *testing.T) {
		keyring.MockInitWithError(errors.New("dbus: no session bus"))

		h, source := NewFromSources("from-env", true, slog.Default())

		assert.True(t, h.Enabled())
		assert.Equal(t, SourceEnv, source)
	})

	t.Run("keyring secret enables encryption", func(t *testing.T) {
		keyring.MockInit()
		require.NoError(t, keyring.Set(KeyringService, KeyringUser, "from-keyring"))

		h, source := NewFromSources("", true, slog.Default())

		assert.True(t, h.Enabled())
		assert.Equal(t, SourceKeyring, source)
	})
}
