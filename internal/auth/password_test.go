package auth

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword_RoundTrip(t *testing.T) {
	hash, err := HashPassword("s3cure-password")
	require.NoError(t, err)
	require.NotEmpty(t, hash)
	assert.NotEqual(t, "s3cure-password", hash)

	assert.True(t, CheckPassword("s3cure-password", hash))
	assert.False(t, CheckPassword("wrong-password", hash))
}

func TestHashPassword_SaltedPerCall(t *testing.T) {
	first, err := HashPassword("same-input")
	require.NoError(t, err)
	second, err := HashPassword("same-input")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, CheckPassword("same-input", first))
	assert.True(t, CheckPassword("same-input", second))
}

func TestHashPassword_LengthLimit(t *testing.T) {
	// 72 bytes is the bcrypt maximum and must still hash.
	longest := strings.Repeat("a", 72)
	hash, err := HashPassword(longest)
	require.NoError(t, err)
	assert.True(t, CheckPassword(longest, hash))

	_, err = HashPassword(strings.Repeat("a", 73))
	assert.ErrorIs(t, err, bcrypt.ErrPasswordTooLong)
}

func TestCheckPassword_MalformedHash(t *testing.T) {
	assert.False(t, CheckPassword("anything", ""))
	assert.False(t, CheckPassword("anything", "not-a-bcrypt-hash"))
	assert.False(t, CheckPassword("anything", "$2a$xx$garbage"))
}
