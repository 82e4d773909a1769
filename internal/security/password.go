package security

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

const passwordCost = 10

var ErrPasswordMismatch = errors.New("password does not match")

// HashPassword returns a salted bcrypt hash of plain.
func HashPassword(plain string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(plain), passwordCost)
	if err != nil {
		return "", err
	}

	return string(hash), nil
}

// CheckPassword returns ErrPasswordMismatch when plain does not produce hash.
// Any other error means the stored hash itself is unusable.
func CheckPassword(hash, plain string) error {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(plain))
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return ErrPasswordMismatch
	}
	return err
}
