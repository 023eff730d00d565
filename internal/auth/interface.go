package auth

import "eventdesk/internal/domain/models"

// JWTVerifier defines the interface for bearer token verification.
// This abstraction keeps the middleware agnostic to how identities are proven.
type JWTVerifier interface {
	// VerifyToken validates a token string and returns the parsed claims.
	// Returns domain.ErrUnauthorized if the token is invalid, expired, or has an invalid signature.
	VerifyToken(tokenString string) (*models.SupabaseClaims, error)

	// Close releases any resources held by the verifier.
	Close() error
}

// TokenOptional is implemented by verifiers that accept requests without a bearer token.
type TokenOptional interface {
	AllowsAnonymous() bool
}
