// Package crypto hashes and verifies user passwords with bcrypt.
package crypto

import (
	"context"

	"github.com/ncobase/socialhub/logging/logger"

	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used when none is configured.
const DefaultCost = 10

// HashPassword hashes the provided password using bcrypt. cost falls back
// to DefaultCost when out of bcrypt's range.
func HashPassword(ctx context.Context, password string, cost ...int) (string, error) {
	c := DefaultCost
	if len(cost) > 0 && cost[0] >= bcrypt.MinCost && cost[0] <= bcrypt.MaxCost {
		c = cost[0]
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), c)
	if err != nil {
		logger.Errorf(ctx, "crypto.HashPassword error: %v", err)
		return "", err
	}
	return string(hash), nil
}

// ComparePassword compares the hashed password with the provided password.
func ComparePassword(hashedPassword, password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password))
	return err == nil
}
