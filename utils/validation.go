package utils

import (
	"errors"
	"regexp"
	"strings"
)

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// NormalizeEmail trims surrounding whitespace and lower-cases the
// address before it is sent upstream.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

func ValidateEmail(email string) error {
	if email == "" {
		return errors.New("Email is required")
	}
	if !emailPattern.MatchString(email) {
		return errors.New("Enter a valid email address")
	}
	return nil
}

func ValidatePassword(password string) error {
	if password == "" {
		return errors.New("Password is required")
	}
	if len(password) < 8 {
		return errors.New("Password must be at least 8 characters")
	}
	return nil
}

func ValidateConfirmPassword(password, confirm string) error {
	if confirm == "" {
		return errors.New("Please confirm your password")
	}
	if password != confirm {
		return errors.New("Passwords do not match")
	}
	return nil
}
