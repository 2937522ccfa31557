package models

import "github.com/golang-jwt/jwt/v5"

// Role is the principal's capability level. It is always present on a
// Principal; admin capability is never inferred from optional attributes.
type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// Principal is the authenticated actor performing an operation.
type Principal struct {
	ID   string `json:"id"`
	Role Role   `json:"role"`
}

// IsAdmin reports whether the principal carries the administrator/staff
// capability, which grants every operation on every entity.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// Claims represents the JWT claims structure issued by the identity
// provider. The subject claim is the user ID.
type Claims struct {
	jwt.RegisteredClaims        // Standard JWT claims (sub, iss, aud, exp, iat, etc.)
	Email                string `json:"email"`
	Role                 string `json:"role"` // "authenticated" or "anon"
	IsAdmin              bool   `json:"is_admin"`
}

// Principal converts verified claims into the principal used by services.
func (c *Claims) Principal() Principal {
	role := RoleUser
	if c.IsAdmin {
		role = RoleAdmin
	}
	return Principal{ID: c.Subject, Role: role}
}
