package repository

import (
	"errors"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"focusflow/models"
)

// HashCost is the fixed bcrypt cost factor for stored passwords.
const HashCost = 10

func hashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), HashCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

// verifyPassword checks password against the stored hash. A mismatch is not
// an error; a corrupt hash is.
func verifyPassword(user *models.User, password string) (bool, error) {
	if user == nil {
		return false, nil
	}
	err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, bcrypt.ErrMismatchedHashAndPassword) {
		return false, nil
	}
	return false, err
}

func normalizeUsername(username string) string {
	return strings.TrimSpace(username)
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
