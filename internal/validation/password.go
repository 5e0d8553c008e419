package validation

import (
	"errors"
)

const minPasswordLength = 6

// ValidatePassword enforces the minimum password length.
func ValidatePassword(password string) error {
	if len(password) < minPasswordLength {
		return errors.New("Password must be at least 6 characters long")
	}
	return nil
}
