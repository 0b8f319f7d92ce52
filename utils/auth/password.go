package auth

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

var (
	ErrPasswordTooShort = errors.New("password must be at least 8 characters")
	ErrPasswordMismatch = errors.New("password does not match")
)

const (
	// DefaultCost is the default bcrypt cost
	DefaultCost = 12
	// MinPasswordLength is the minimum password length
	MinPasswordLength = 8
	// AllowedSpecialChars is the fixed set of accepted special characters
	AllowedSpecialChars = "@$!%*?&"
)

// HashPassword generates a bcrypt hash of the password
func HashPassword(password string) (string, error) {
	if len(password) < MinPasswordLength {
		return "", ErrPasswordTooShort
	}

	hashedBytes, err := bcrypt.GenerateFromPassword([]byte(password), DefaultCost)
	if err != nil {
		return "", err
	}

	return string(hashedBytes), nil
}

// VerifyPassword checks if the provided password matches the hash.
// A malformed digest verifies as a mismatch, never a panic.
func VerifyPassword(hashedPassword, password string) error {
	if err := bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)); err != nil {
		return ErrPasswordMismatch
	}
	return nil
}

// ValidatePasswordStrength applies the institutional password policy:
// minimum length plus at least one lowercase letter, one uppercase letter,
// one digit and one special character from AllowedSpecialChars. Each
// violated rule yields its own message.
func ValidatePasswordStrength(password string) (bool, []string) {
	var violations []string

	if len(password) < MinPasswordLength {
		violations = append(violations, fmt.Sprintf("Password must be at least %d characters long", MinPasswordLength))
	}

	hasUpper := false
	hasLower := false
	hasDigit := false
	hasSpecial := false

	for _, char := range password {
		switch {
		case unicode.IsUpper(char):
			hasUpper = true
		case unicode.IsLower(char):
			hasLower = true
		case unicode.IsDigit(char):
			hasDigit = true
		case strings.ContainsRune(AllowedSpecialChars, char):
			hasSpecial = true
		}
	}

	if !hasLower {
		violations = append(violations, "Password must contain at least one lowercase letter")
	}
	if !hasUpper {
		violations = append(violations, "Password must contain at least one uppercase letter")
	}
	if !hasDigit {
		violations = append(violations, "Password must contain at least one number")
	}
	if !hasSpecial {
		violations = append(violations, fmt.Sprintf("Password must contain at least one special character (%s)", AllowedSpecialChars))
	}

	return len(violations) == 0, violations
}

// IsPasswordValid checks if password meets the full policy
func IsPasswordValid(password string) bool {
	ok, _ := ValidatePasswordStrength(password)
	return ok
}
