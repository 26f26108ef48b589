package utils

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// HashPassword is applied explicitly before a user record is persisted;
// nothing else in the system ever sees or stores the plaintext.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}

func CheckPassword(hashed, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(password)) == nil
}

// ValidatePasswordStrength requires at least 8 characters with an upper,
// a lower, a digit and a symbol.
func ValidatePasswordStrength(password string) bool {
	if len(password) < 8 {
		return false
	}

	var upper, lower, digit, symbol bool
	for _, r := range password {
		switch {
		case unicode.IsUpper(r):
			upper = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsPunct(r) || unicode.IsSymbol(r):
			symbol = true
		}
	}
	return upper && lower && digit && symbol
}

// DeriveDisplayName builds the profile display name from the signup names.
func DeriveDisplayName(firstName, lastName string) string {
	return firstName + " " + lastName
}
