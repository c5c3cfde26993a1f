package auth

import (
	"unicode"

	"golang.org/x/crypto/bcrypt"
)

// BcryptCost is the bcrypt work factor for stored passwords
var BcryptCost = 12

// MinPasswordLength is the shortest accepted password
const MinPasswordLength = 8

// HashPassword hashes a plaintext password
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), BcryptCost)
	if err != nil {
		return "", err
	}
	return string(bytes), nil
}

// CheckPassword reports whether password matches the stored hash
func CheckPassword(hashedPassword, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashedPassword), []byte(password)) == nil
}

// PasswordStrongEnough requires at least MinPasswordLength characters with a letter and a digit
func PasswordStrongEnough(password string) bool {
	if len([]rune(password)) < MinPasswordLength {
		return false
	}
	var letter, digit bool
	for _, r := range password {
		switch {
		case unicode.IsLetter(r):
			letter = true
		case unicode.IsDigit(r):
			digit = true
		}
	}
	return letter && digit
}
