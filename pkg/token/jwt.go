// Package token issues and verifies the HMAC-signed identity tokens handed
// out at registration and login.
package token

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	// ErrInvalidToken covers bad signatures, malformed tokens and expired
	// tokens alike. Callers must not learn which check failed.
	ErrInvalidToken = errors.New("invalid token")

	// ErrInvalidConfig is returned when the configured lifetime would mint
	// a non-expiring or already-expired token.
	ErrInvalidConfig = errors.New("token lifetime must be positive")
)

// Claims is the payload carried by every identity token.
type Claims struct {
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// Manager signs and verifies tokens with a process-wide symmetric secret.
// The secret is loaded once at startup and never re-read.
type Manager struct {
	secret   []byte
	lifetime time.Duration
}

func NewManager(secret string, lifetimeHours int) *Manager {
	return &Manager{
		secret:   []byte(secret),
		lifetime: time.Duration(lifetimeHours) * time.Hour,
	}
}

// Issue signs a token binding userID, email and username, valid from now
// until now plus the configured lifetime. Timestamps are whole seconds.
func (m *Manager) Issue(userID, email, username string) (string, error) {
	if m.lifetime <= 0 {
		return "", ErrInvalidConfig
	}

	now := time.Now()
	claims := &Claims{
		Email:    email,
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.lifetime)),
		},
	}

	t := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := t.SignedString(m.secret)
	if err != nil {
		return "", fmt.Errorf("sign token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry (no leeway) and returns the claims.
// All failure modes collapse into ErrInvalidToken.
func (m *Manager) Verify(tokenStr string) (*Claims, error) {
	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return m.secret, nil
	}, jwt.WithExpirationRequired())
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !parsed.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
