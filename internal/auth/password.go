package auth

import (
	"errors"
	"fmt"

	"github.com/linkdesk/videolink/internal/domain"
	"golang.org/x/crypto/bcrypt"
)

// DefaultCost is the bcrypt work factor used for admin passwords.
const DefaultCost = 10

// ErrMismatchedPassword is returned by Compare when the password does not match the hash.
var ErrMismatchedPassword = errors.New("password does not match")

// PasswordHasher hashes and compares admin passwords with bcrypt.
// Every hash carries its own random salt.
type PasswordHasher struct {
	cost int
}

// NewPasswordHasher creates a hasher with the given bcrypt cost.
func NewPasswordHasher(cost int) *PasswordHasher {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultCost
	}
	return &PasswordHasher{cost: cost}
}

// Hash returns a salted bcrypt hash of password.
func (h *PasswordHasher) Hash(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), h.cost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(hash), nil
}

// Compare checks password against a stored hash in constant time.
// Returns ErrMismatchedPassword on mismatch; any other error means the hash is unusable.
// bcrypt only reads the first 72 bytes, so anything longer can never be an exact match.
func (h *PasswordHasher) Compare(hash, password string) error {
	if len(password) > domain.MaxPasswordBytes {
		return ErrMismatchedPassword
	}
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrMismatchedPassword
	}
	if err != nil {
		return fmt.Errorf("compare password: %w", err)
	}
	return nil
}
