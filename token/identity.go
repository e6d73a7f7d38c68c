package token

import "github.com/golang-jwt/jwt/v5"

// Role of an authenticated principal.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Valid reports whether the role is one the server knows about.
func (r Role) Valid() bool {
	return r == RoleUser || r == RoleAdmin
}

// Identity is the minimal principal derived from a verified token.
// It is never persisted; it is reconstructed per request from the claims.
type Identity struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// Claims is the typed JWT payload carried by both token classes.
// Decoding fails closed: a missing subject or an unknown role is
// treated the same as a bad signature.
type Claims struct {
	Role Role `json:"role,omitempty"`
	jwt.RegisteredClaims
}
