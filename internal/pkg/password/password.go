package password

import (
	"crypto/sha256"
	"encoding/hex"
	"regexp"

	"golang.org/x/crypto/bcrypt"
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
)

var pinPattern = regexp.MustCompile(`^[0-9]{6}$`)

// Hash hashes a secret using bcrypt
func Hash(secret string) (string, error) {
	return HashWithCost(secret, DefaultCost)
}

// HashWithCost hashes with an explicit bcrypt cost (seeders and tests use MinCost)
func HashWithCost(secret string, cost int) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(secret), cost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// Verify compares a secret with a hash
func Verify(secret, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(secret))
	return err == nil
}

// HashToken hashes a token using SHA256 (for refresh tokens)
func HashToken(token string) string {
	hash := sha256.Sum256([]byte(token))
	return hex.EncodeToString(hash[:])
}

// ValidPIN checks the legacy six-digit role code format
func ValidPIN(pin string) bool {
	return pinPattern.MatchString(pin)
}
