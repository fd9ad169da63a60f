// Package auth guards the write endpoints with an optional bearer token.
//
// SINGLE OPERATOR:
// datanest is a personal tool. There are no accounts and no per-record
// ownership. When api_secret is configured, the operator runs
// `datanest token` once, and every mutating request must carry
//
//	Authorization: Bearer <jwt>
//
// Without api_secret the API is open, which is the right default for a
// server bound to localhost.
//
// WHY JWT?
// The token is stateless: the server verifies it with nothing but the secret,
// so there is no token table to manage. The expiry is inside the signed
// payload, so it cannot be extended by editing the token.
//
//	HEADER.PAYLOAD.SIGNATURE
//	- Header: {"alg":"HS256","typ":"JWT"}
//	- Payload: {"sub":"operator","iss":"datanest","exp":1234567890}
//	- Signature: HMAC-SHA256(header+"."+payload, secret)
package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

const issuer = "datanest"

// MinSecretLength is the shortest api_secret accepted.
const MinSecretLength = 16

// DefaultTTL is the lifetime of a token issued by `datanest token`.
const DefaultTTL = 30 * 24 * time.Hour

// TokenService issues and verifies bearer tokens signed with one HMAC secret.
type TokenService struct {
	secret []byte
}

// NewTokenService creates a TokenService with the given secret.
// Example: DATANEST_API_SECRET=$(openssl rand -hex 32)
func NewTokenService(secret string) (*TokenService, error) {
	if len(secret) < MinSecretLength {
		return nil, fmt.Errorf("auth: api secret must be at least %d characters", MinSecretLength)
	}
	return &TokenService{secret: []byte(secret)}, nil
}

// Issue signs a token for subject that expires after ttl.
// A negative ttl yields an already-expired token, which tests use.
func (s *TokenService) Issue(subject string, ttl time.Duration) (string, error) {
	if subject == "" {
		return "", errors.New("auth: token subject is required")
	}

	now := time.Now()
	c := jwt.RegisteredClaims{
		Subject:   subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		Issuer:    issuer,
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, c).SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("auth: signing token: %w", err)
	}
	return signed, nil
}

// Validate parses and verifies a token and returns its subject.
//
// VALIDATION CHECKS:
//   - signature matches the secret
//   - algorithm is HS256 (rejects "alg":"none" and algorithm confusion)
//   - issuer is "datanest"
//   - exp is present and in the future
func (s *TokenService) Validate(tokenStr string) (string, error) {
	var c jwt.RegisteredClaims
	_, err := jwt.ParseWithClaims(
		tokenStr,
		&c,
		func(*jwt.Token) (any, error) { return s.secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return "", errors.New("auth: token expired")
		}
		return "", fmt.Errorf("auth: invalid token: %w", err)
	}

	if c.Subject == "" {
		return "", errors.New("auth: token has no subject")
	}
	return c.Subject, nil
}
