package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	_, err := NewBcryptHasher(3)
	assert.Error(t, err)
	_, err = NewBcryptHasher(32)
	assert.Error(t, err)

	hasher, err := NewBcryptHasher(bcrypt.MinCost)
	require.NoError(t, err)

	hash, err := hasher.Hash("Password1")
	require.NoError(t, err)
	assert.NotEqual(t, "Password1", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost, cost)

	assert.True(t, hasher.Compare(hash, "Password1"))
	assert.False(t, hasher.Compare(hash, "password1"))
	assert.False(t, hasher.Compare("not-a-hash", "Password1"))
}
