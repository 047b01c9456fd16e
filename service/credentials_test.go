package application

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPasswordIsDeterministic(t *testing.T) {
	salt := NewSalt()

	first, err := HashPassword("azerty", salt)
	require.NoError(t, err)
	second, err := HashPassword("azerty", salt)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.NotEqual(t, "azerty", first)

	other, err := HashPassword("azerty", NewSalt())
	require.NoError(t, err)
	assert.NotEqual(t, first, other, "expected a different salt to change the hash")
}

func TestHashPasswordRejectsEmptyPassword(t *testing.T) {
	_, err := HashPassword("", NewSalt())
	assert.ErrorIs(t, err, ErrEmptyPassword)
}

func TestVerifyPassword(t *testing.T) {
	salt := NewSalt()
	hash, err := HashPassword("s3cret", salt)
	require.NoError(t, err)

	assert.True(t, VerifyPassword("s3cret", salt, hash))
	assert.False(t, VerifyPassword("S3cret", salt, hash))
	assert.False(t, VerifyPassword("s3cret", NewSalt(), hash))
	assert.False(t, VerifyPassword("", salt, hash))
}

func TestRandomStrings(t *testing.T) {
	salt := NewSalt()
	token := NewToken()

	assert.Len(t, salt, saltLength)
	assert.Len(t, token, tokenLength)
	assert.Regexp(t, "^[A-Za-z0-9]+$", token)
	assert.NotEqual(t, token, NewToken())
}
