package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	password := "collections-2026"
	hashed, err := HashPassword(password)

	require.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, password, hashed)

	again, err := HashPassword(password)
	require.NoError(t, err)
	assert.NotEqual(t, hashed, again, "bcrypt salts each hash")
}

func TestCheckPasswordHash(t *testing.T) {
	password := "collections-2026"
	hashed, _ := HashPassword(password)

	assert.True(t, CheckPasswordHash(password, hashed))
	assert.False(t, CheckPasswordHash("wrongpassword", hashed))
}

func TestCheckPasswordHash_InvalidHash(t *testing.T) {
	assert.False(t, CheckPasswordHash("collections-2026", "invalidhash"))
}
