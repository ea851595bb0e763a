package utils

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"
)

// DefaultBcryptCost matches the ten salting rounds used for stored credentials.
const DefaultBcryptCost = 10

// ErrHashing wraps failures of the underlying hash computation.  A mismatch
// between a password and a hash is never reported through this error.
var ErrHashing = errors.New("password hashing failed")

// ErrPasswordTooLong is returned for passwords bcrypt cannot represent.
var ErrPasswordTooLong = bcrypt.ErrPasswordTooLong

// PasswordHasher hashes and verifies passwords with bcrypt at a fixed cost.
type PasswordHasher struct {
	Cost int
}

// NewPasswordHasher returns a hasher for the given cost, falling back to
// DefaultBcryptCost when the cost is outside bcrypt's accepted range.
func NewPasswordHasher(cost int) PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return PasswordHasher{Cost: cost}
}

// Hash returns a randomly salted bcrypt hash of plain.
func (h PasswordHasher) Hash(plain string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(plain), h.Cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", ErrPasswordTooLong
		}
		return "", fmt.Errorf("%w: %v", ErrHashing, err)
	}
	return string(b), nil
}

// Verify safely compares a plain password against a bcrypt hash.
func (h PasswordHasher) Verify(plain, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain)) == nil
}
