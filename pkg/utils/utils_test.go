package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashPassword(t *testing.T) {
	hashed, err := HashPassword("s3cretpass")
	require.NoError(t, err)
	assert.NotEmpty(t, hashed)
	assert.NotEqual(t, "s3cretpass", hashed)
}

func TestCheckPasswordHash(t *testing.T) {
	hashed, err := HashPassword("s3cretpass")
	require.NoError(t, err)

	assert.True(t, CheckPasswordHash("s3cretpass", hashed))
	assert.False(t, CheckPasswordHash("wrongpass", hashed))
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("alice@example.com"))
	assert.True(t, IsEmail("bob.smith@sub.domain.co.uk"))

	assert.False(t, IsEmail("not-an-email"))
	assert.False(t, IsEmail("@example.com"))
	assert.False(t, IsEmail("alice@.com"))
}
