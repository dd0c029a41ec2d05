package pin

import (
	"errors"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrHashingFailed = errors.New("pin hashing failed")
	ErrWrongPin      = errors.New("wrong pin")
	ErrInvalidPin    = errors.New("pin must be exactly 6 digits")
)

const DefaultCost = bcrypt.DefaultCost

// Valid reports whether p is a well-formed 6-digit manager PIN.
func Valid(p string) bool {
	if len(p) != 6 {
		return false
	}
	for _, r := range p {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func HashPin(p string) (string, error) {
	if !Valid(p) {
		return "", ErrInvalidPin
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(p), DefaultCost)
	if err != nil {
		return "", ErrHashingFailed
	}

	return string(hashedBytes), nil
}

func ComparePin(hashedPin, p string) error {
	if hashedPin == "" || !Valid(p) {
		return ErrInvalidPin
	}

	err := bcrypt.CompareHashAndPassword([]byte(hashedPin), []byte(p))
	if err != nil {
		if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
			return ErrWrongPin
		}
		return err
	}

	return nil
}
