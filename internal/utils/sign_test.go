package utils

import (
	"crypto/rand"
	"crypto/rsa"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSignAndVerify_RoundTrip(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token, err := SignAccessToken("uid-1", "alice", false, key)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseAndVerifySign(token, &key.PublicKey)
	require.NoError(t, err)
	assert.Equal(t, "uid-1", claims.Sub)
	assert.Equal(t, "alice", claims.Username)
	assert.False(t, claims.IsGuest)
}

func TestVerify_WrongKeyRejected(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)
	otherKey, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	token, err := SignAccessToken("uid-1", "alice", true, key)
	require.NoError(t, err)

	_, err = ParseAndVerifySign(token, &otherKey.PublicKey)
	assert.Error(t, err)
}

func TestVerify_GarbageRejected(t *testing.T) {
	key, err := rsa.GenerateKey(rand.Reader, 2048)
	require.NoError(t, err)

	_, err = ParseAndVerifySign("not.a.token", &key.PublicKey)
	assert.Error(t, err)
}

func TestGenerateHash_VerifyHash(t *testing.T) {
	hashed, err := GenerateHash("secret123")
	require.NoError(t, err)
	require.NotEmpty(t, hashed)
	assert.NotEqual(t, "secret123", hashed)

	ok, err := VerifyHash(hashed, "secret123")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = VerifyHash(hashed, "wrong")
	require.NoError(t, err)
	assert.False(t, ok)
}
