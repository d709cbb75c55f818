package utils

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

// bcrypt only hashes the first 72 bytes; reject longer inputs instead of
// silently truncating them.
const maxPasswordBytes = 72

// ErrPasswordTooLong is returned when the plaintext exceeds bcrypt's input limit.
var ErrPasswordTooLong = errors.New("password longer than 72 bytes")

// HashPassword returns the bcrypt hash of the password.
func HashPassword(password string) (string, error) {
	if len(password) > maxPasswordBytes {
		return "", ErrPasswordTooLong
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword reports whether the plaintext matches the stored bcrypt hash.
func CheckPassword(hash, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}
