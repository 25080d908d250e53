package serviceaccount

import (
	"crypto/rsa"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AssertionLifetime is the validity window of a signed assertion.
const AssertionLifetime = time.Hour

// Claims are the JWT-bearer assertion claims sent to the token endpoint.
type Claims struct {
	Issuer    string
	Scope     string
	Audience  string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

// NewClaims builds messaging-scoped claims for issuer, valid for one hour from now.
func NewClaims(issuer, tokenURL string, now time.Time) Claims {
	return Claims{
		Issuer:    issuer,
		Scope:     MessagingScope,
		Audience:  tokenURL,
		IssuedAt:  now,
		ExpiresAt: now.Add(AssertionLifetime),
	}
}

func (c Claims) mapClaims() jwt.MapClaims {
	return jwt.MapClaims{
		"iss":   c.Issuer,
		"scope": c.Scope,
		"aud":   c.Audience,
		"iat":   c.IssuedAt.Unix(),
		"exp":   c.ExpiresAt.Unix(),
	}
}

// SignAssertion returns the compact RS256 JWT for claims.
func SignAssertion(claims Claims, key *rsa.PrivateKey) (string, error) {
	if key == nil {
		return "", fmt.Errorf("%w: nil private key", ErrInvalidCredential)
	}
	token := jwt.NewWithClaims(jwt.SigningMethodRS256, claims.mapClaims())
	signed, err := token.SignedString(key)
	if err != nil {
		return "", fmt.Errorf("failed to sign assertion: %w", err)
	}
	return signed, nil
}
