package auth

import (
	"errors"
	"strconv"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/edupulse/school-service/internal/models"
)

var ErrInvalidToken = errors.New("invalid token")

// SessionClaims is the signed bearer-token payload. It is created at login,
// immutable afterwards, and never persisted server-side.
type SessionClaims struct {
	UserID   uint            `json:"userId"`
	Username string          `json:"username"`
	Role     models.Role     `json:"role"`
	BranchID *uint           `json:"branchId"`
	Name     string          `json:"name"`
	Photo    *string         `json:"photo"`
	UserType models.UserType `json:"userType"`
	jwt.RegisteredClaims
}

// CredentialID returns the login-credential id carried in the subject claim.
func (c *SessionClaims) CredentialID() (uint, error) {
	id, err := strconv.ParseUint(c.Subject, 10, 64)
	if err != nil {
		return 0, ErrInvalidToken
	}
	return uint(id), nil
}

// TokenManager signs and verifies session tokens with a server-held secret.
type TokenManager struct {
	secret []byte
	issuer string
	ttl    time.Duration
}

func NewTokenManager(secret, issuer string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secret: []byte(secret),
		issuer: issuer,
		ttl:    ttl,
	}
}

// Sign issues a token for the given claims. The credential id becomes the
// subject; issued-at and expiry are set here.
func (m *TokenManager) Sign(credentialID uint, claims SessionClaims) (string, error) {
	now := time.Now().UTC()
	claims.RegisteredClaims = jwt.RegisteredClaims{
		Subject:   strconv.FormatUint(uint64(credentialID), 10),
		Issuer:    m.issuer,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(m.secret)
}

// Verify parses the token and checks signature and expiry. Account
// freshness is the caller's concern.
func (m *TokenManager) Verify(tokenString string) (*SessionClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &SessionClaims{}, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, ErrInvalidToken
		}
		return m.secret, nil
	})
	if err != nil {
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*SessionClaims)
	if !ok || !token.Valid {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
