package auth

import "docvault/internal/domain/models"

// JWTVerifier validates bearer tokens and extracts their claims. The
// abstraction keeps the middleware agnostic to where public keys come from.
type JWTVerifier interface {
	// VerifyToken validates a JWT token string and returns the parsed claims.
	// Returns an error if the token is invalid, expired, or badly signed.
	VerifyToken(tokenString string) (*models.Claims, error)

	// Close releases any resources held by the verifier.
	Close() error
}
