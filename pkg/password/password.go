// Package password hashes and checks login passwords with bcrypt.
package password

import (
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	dErrors "warehouse/pkg/domain-errors"
)

// MinLength is the shortest accepted password.
const MinLength = 6

// ErrMismatch is returned by Verify when the password does not match.
var ErrMismatch = errors.New("password mismatch")

// cost is lowered in tests.
var cost = bcrypt.DefaultCost

// Hash returns a bcrypt hash of password.
func Hash(password string) (string, error) {
	if len(password) < MinLength {
		return "", dErrors.Newf(dErrors.CodeValidation, "password must have at least %d characters", MinLength)
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", dErrors.New(dErrors.CodeValidation, "password is too long")
		}
		return "", fmt.Errorf("could not hash password: %w", err)
	}
	return string(hashed), nil
}

// Verify checks password against a bcrypt hash.
func Verify(password, hash string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)); err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) || errors.Is(err, bcrypt.ErrHashTooShort) {
			return ErrMismatch
		}
		return fmt.Errorf("could not verify password: %w", err)
	}
	return nil
}

// UseMinCostForTests makes hashing fast. Call from TestMain only.
func UseMinCostForTests() {
	cost = bcrypt.MinCost
}
