package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndCheckPassword(t *testing.T) {
	hash, err := HashPassword("Secret#123")
	require.NoError(t, err)
	assert.NotEqual(t, "Secret#123", hash)

	assert.NoError(t, CheckPassword(hash, "Secret#123"))
	assert.ErrorIs(t, CheckPassword(hash, "secret#123"), ErrPasswordMismatch)
	assert.ErrorIs(t, CheckPassword("not-a-hash", "Secret#123"), ErrPasswordMismatch)
}

func TestValidatePassword(t *testing.T) {
	assert.Empty(t, ValidatePassword("Secret#123"))

	cases := map[string]int{
		"Sh#1":       1, // length
		"Secret#abc": 1, // digit
		"SECRET#123": 1, // lower
		"secret#123": 1, // upper
		"Secret1234": 1, // symbol
		"abc":        4, // length, digit, upper, symbol
	}
	for password, want := range cases {
		assert.Len(t, ValidatePassword(password), want, password)
	}
}

func TestValidateUsername(t *testing.T) {
	for _, ok := range []string{"alice", "alice.b", "a-b_c", "mail@me+tag", "사용자1"} {
		assert.True(t, ValidateUsername(ok), ok)
	}
	for _, bad := range []string{"", "   ", "has space", "semi;colon", "slash/"} {
		assert.False(t, ValidateUsername(bad), bad)
	}
}
