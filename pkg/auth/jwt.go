package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// UserSession represents the authenticated dashboard user carried by the
// hosted auth backend's access token.
type UserSession struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Claims mirrors the access token issued by the hosted auth backend.
// The user id travels in the standard "sub" claim.
type Claims struct {
	Email string `json:"email,omitempty"`
	Role  string `json:"role,omitempty"`
	jwt.RegisteredClaims
}

// Session converts the claims into a UserSession.
func (c *Claims) Session() UserSession {
	return UserSession{
		ID:    c.Subject,
		Email: c.Email,
		Role:  c.Role,
	}
}

// Validator validates bearer tokens signed with a shared HMAC secret.
type Validator struct {
	secret []byte
}

// NewValidator creates a Validator. An empty secret yields nil, meaning auth is disabled.
func NewValidator(secret string) *Validator {
	if secret == "" {
		return nil
	}
	return &Validator{secret: []byte(secret)}
}

// GenerateToken signs a token for the session. Used by the CLI and tests;
// production tokens come from the hosted auth backend.
func (v *Validator) GenerateToken(session UserSession, ttl time.Duration) (string, error) {
	now := time.Now()
	claims := &Claims{
		Email: session.Email,
		Role:  session.Role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   session.ID,
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(v.secret)
}

// ValidateToken validates and parses a JWT token
func (v *Validator) ValidateToken(tokenString string) (*Claims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		// Verify signing method
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errors.New("invalid signing method")
		}
		return v.secret, nil
	})

	if err != nil {
		return nil, err
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, errors.New("invalid token")
	}
	if claims.Subject == "" {
		return nil, errors.New("token has no subject")
	}
	return claims, nil
}
