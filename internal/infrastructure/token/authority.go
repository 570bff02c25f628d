// Package token issues and validates the HS256 bearer tokens accepted by the
// API. An Authority is built once at startup from the resolved signing key
// and is read-only afterwards, so it is safe for concurrent use.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/fiapcloudgames/user-service/internal/core/domain"
)

const defaultTTL = 24 * time.Hour

// Claims carried by every access token. Subject is the user id.
type Claims struct {
	Email string `json:"email"`
	Role  string `json:"role"`
	jwt.RegisteredClaims
}

type Authority struct {
	key      []byte
	issuer   string
	audience string
	parser   *jwt.Parser
	now      func() time.Time
}

// Configure builds the validation rules. Issuer and audience are enforced
// only when non-empty.
func Configure(signingKey, issuer, audience string) (*Authority, error) {
	if signingKey == "" {
		return nil, fmt.Errorf("%w: token signing key", domain.ErrConfigurationMissing)
	}

	a := &Authority{
		key:      []byte(signingKey),
		issuer:   issuer,
		audience: audience,
		now:      time.Now,
	}

	opts := []jwt.ParserOption{
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return a.now() }),
	}
	if issuer != "" {
		opts = append(opts, jwt.WithIssuer(issuer))
	}
	if audience != "" {
		opts = append(opts, jwt.WithAudience(audience))
	}
	a.parser = jwt.NewParser(opts...)

	return a, nil
}

// Validate verifies signature and lifetime and returns the claims. Failures
// are reported as exactly one of domain.ErrTokenExpired,
// domain.ErrTokenMalformed or domain.ErrSignatureInvalid.
func (a *Authority) Validate(raw string) (*Claims, error) {
	if raw == "" {
		return nil, domain.ErrTokenMalformed
	}

	claims := &Claims{}
	_, err := a.parser.ParseWithClaims(raw, claims, func(*jwt.Token) (any, error) {
		return a.key, nil
	})
	if err != nil {
		return nil, classify(err)
	}
	if claims.Subject == "" {
		return nil, domain.ErrTokenMalformed
	}
	return claims, nil
}

// Issue signs an access token for user valid for ttl.
func (a *Authority) Issue(user domain.User, ttl time.Duration) (string, error) {
	if user == nil {
		return "", domain.ErrInvalidOperation
	}
	if ttl <= 0 {
		ttl = defaultTTL
	}

	acc := user.Base()
	now := a.now()
	claims := Claims{
		Email: acc.Email,
		Role:  string(user.Role()),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   acc.ID,
			Issuer:    a.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
	}
	if a.audience != "" {
		claims.Audience = jwt.ClaimStrings{a.audience}
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(a.key)
}

func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenSignatureInvalid),
		errors.Is(err, jwt.ErrTokenUnverifiable):
		return domain.ErrSignatureInvalid
	case errors.Is(err, jwt.ErrTokenExpired):
		return domain.ErrTokenExpired
	case errors.Is(err, jwt.ErrTokenInvalidIssuer),
		errors.Is(err, jwt.ErrTokenInvalidAudience):
		return domain.ErrSignatureInvalid
	default:
		return domain.ErrTokenMalformed
	}
}
