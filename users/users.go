package users

import (
	"fmt"
	"time"
	"unicode"

	"golang.org/x/crypto/bcrypt"

	apperrors "github.com/eventhub/eventhub/internal/errors"
	"github.com/eventhub/eventhub/token"
)

type User struct {
	ID           string     `json:"id,omitempty" bson:"_id,omitempty"`          // Unique identifier for the user
	Username     string     `json:"username,omitempty" bson:"username"`         // Unique username
	Email        string     `json:"email,omitempty" bson:"email"`               // User's email address
	PasswordHash string     `json:"-" bson:"password_hash"`                     // Hashed password - never serialize
	Birthday     time.Time  `json:"birthday,omitempty" bson:"birthday"`         // Date of birth
	Role         token.Role `json:"role,omitempty" bson:"role"`                 // Either "user" or "admin"
	EventIDs     []string   `json:"events,omitempty" bson:"event_ids,omitempty"` // Events the user is subscribed to
}

// Identity derives the request-time principal from the stored record.
func (u *User) Identity() token.Identity {
	role := u.Role
	if role == "" {
		role = token.RoleUser
	}
	return token.Identity{ID: u.ID, Role: role}
}

// IsAdmin returns true if the user has admin privileges
func (u *User) IsAdmin() bool {
	return u.Role == token.RoleAdmin
}

// ValidatePasswordStrength checks if password meets security requirements:
// - At least 8 characters long
// - Contains uppercase and lowercase letters
// - Contains at least one number
func ValidatePasswordStrength(password string) error {
	if len(password) < 8 {
		return fmt.Errorf("%w: must be at least 8 characters long", apperrors.ErrWeakPassword)
	}

	var (
		hasUpper  bool
		hasLower  bool
		hasNumber bool
	)

	for _, char := range password {
		if unicode.IsUpper(char) {
			hasUpper = true
		} else if unicode.IsLower(char) {
			hasLower = true
		} else if unicode.IsDigit(char) {
			hasNumber = true
		}
	}

	if !hasUpper {
		return fmt.Errorf("%w: must contain at least one uppercase letter", apperrors.ErrWeakPassword)
	}
	if !hasLower {
		return fmt.Errorf("%w: must contain at least one lowercase letter", apperrors.ErrWeakPassword)
	}
	if !hasNumber {
		return fmt.Errorf("%w: must contain at least one number", apperrors.ErrWeakPassword)
	}

	return nil
}

// HashPassword computes the stored hash once, at create or update time.
// It is never recomputed on read.
func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

// CheckPasswordHash compares a candidate password against a stored hash.
// bcrypt's comparison is constant-time over the derived key.
func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}
