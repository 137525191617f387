package crypto

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	hash, err := HashPassword(context.Background(), "p@ssw0rd")
	require.NoError(t, err)
	assert.NotEqual(t, "p@ssw0rd", hash)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, DefaultCost, cost)

	assert.True(t, ComparePassword(hash, "p@ssw0rd"))
	assert.False(t, ComparePassword(hash, "wrong"))
}

func TestHashPasswordCost(t *testing.T) {
	hash, err := HashPassword(context.Background(), "x", bcrypt.MinCost)
	require.NoError(t, err)
	cost, _ := bcrypt.Cost([]byte(hash))
	assert.Equal(t, bcrypt.MinCost, cost)

	hash, err = HashPassword(context.Background(), "x", 99)
	require.NoError(t, err)
	cost, _ = bcrypt.Cost([]byte(hash))
	assert.Equal(t, DefaultCost, cost)
}
