package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var ErrInvalidToken = errors.New("invalid page token")

// PageClaims identify one page workflow. The page ID travels as the subject.
type PageClaims struct {
	jwt.RegisteredClaims
}

// PageID returns the workflow the token was issued for.
func (c *PageClaims) PageID() string {
	return c.Subject
}

// TokenManager issues and validates signed page tokens. A page token is the
// only handle a browser holds on its workflow, so a reload that drops it starts over.
type TokenManager struct {
	secretKey []byte
	ttl       time.Duration
	now       func() time.Time
}

func NewTokenManager(secretKey string, ttl time.Duration) *TokenManager {
	return &TokenManager{
		secretKey: []byte(secretKey),
		ttl:       ttl,
		now:       time.Now,
	}
}

func (m *TokenManager) Issue(pageID string) (string, error) {
	now := m.now()
	claims := PageClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   pageID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
			Issuer:    "lowvie",
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(m.secretKey)
	if err != nil {
		return "", fmt.Errorf("failed to sign page token: %w", err)
	}
	return signed, nil
}

func (m *TokenManager) Validate(tokenString string) (*PageClaims, error) {
	claims := &PageClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return m.secretKey, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer("lowvie"),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid || claims.Subject == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (m *TokenManager) TTL() time.Duration {
	return m.ttl
}
