package helpers

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Token verification failures. Anything that is not a signature or expiry
// problem collapses to ErrTokenMalformed.
var (
	ErrTokenMalformed    = errors.New("token is malformed")
	ErrTokenBadSignature = errors.New("token signature is invalid")
	ErrTokenExpired      = errors.New("token is expired")
)

// JWTManager issues and verifies stateless HS256 bearer tokens. The secret
// is set once at construction and never mutated; Verify is a pure function
// of the token, the clock and that secret.
type JWTManager struct {
	secret []byte
	ttl    time.Duration

	// Now supplies the clock; tests freeze it.
	Now func() time.Time
}

func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{
		secret: []byte(secret),
		ttl:    ttl,
		Now:    time.Now,
	}
}

// TTL returns the configured token lifetime.
func (m *JWTManager) TTL() time.Duration { return m.ttl }

type Claims struct {
	jwt.RegisteredClaims
}

// Issue produces a signed token carrying the subject, issued at the
// manager's current time and expiring TTL later.
func (m *JWTManager) Issue(subject string) (string, time.Time, error) {
	now := m.Now()
	exp := now.Add(m.ttl)
	claims := &Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(exp),
		},
	}
	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	s, err := t.SignedString(m.secret)
	return s, exp, err
}

// Verify checks the signature and expiry and returns the embedded subject.
// Only HMAC signatures are accepted; a token claiming any other algorithm
// is rejected as a signature failure.
func (m *JWTManager) Verify(tokenStr string) (string, error) {
	claims := &Claims{}
	tkn, err := jwt.ParseWithClaims(tokenStr, claims, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrTokenBadSignature
		}
		return m.secret, nil
	}, jwt.WithTimeFunc(m.Now))
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", ErrTokenExpired
		case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, ErrTokenBadSignature):
			return "", ErrTokenBadSignature
		default:
			return "", ErrTokenMalformed
		}
	}
	if !tkn.Valid {
		return "", ErrTokenMalformed
	}
	return claims.Subject, nil
}
