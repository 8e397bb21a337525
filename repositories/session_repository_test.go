package repositories

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionSealing(t *testing.T) {
	var key [32]byte
	copy(key[:], "0123456789abcdef0123456789abcdef")
	repo := &postgresSessionRepository{key: &key}

	plain := []byte(`{"token":"tok-player"}`)
	sealed, err := repo.seal(plain)
	require.NoError(t, err)
	assert.NotContains(t, string(sealed), "tok-player")

	again, err := repo.seal(plain)
	require.NoError(t, err)
	assert.NotEqual(t, sealed, again, "every write uses a fresh nonce")

	opened, err := repo.open(sealed)
	require.NoError(t, err)
	assert.Equal(t, plain, opened)

	sealed[len(sealed)-1] ^= 0xff
	_, err = repo.open(sealed)
	assert.ErrorIs(t, err, ErrSessionCorrupted)

	_, err = repo.open([]byte("short"))
	assert.ErrorIs(t, err, ErrSessionCorrupted)
}

func TestSessionSealing_WithoutKeyIsPassthrough(t *testing.T) {
	repo := &postgresSessionRepository{}
	sealed, err := repo.seal([]byte("raw"))
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), sealed)

	opened, err := repo.open(sealed)
	require.NoError(t, err)
	assert.Equal(t, []byte("raw"), opened)
}
