package embed

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var (
	ErrNotConfigured = errors.New("embed signing secret not configured")
	ErrInvalidToken  = errors.New("invalid embed token")
)

const defaultTTL = 1 * time.Hour

// Signer issues and verifies the short-lived HMAC tokens that let a
// dashboard be iframed without a cookie. A token is bound to one site.
type Signer struct {
	secret []byte
	ttl    time.Duration
}

func NewSigner(secret string, ttl time.Duration) *Signer {
	if ttl == 0 {
		ttl = defaultTTL
	}
	return &Signer{secret: []byte(secret), ttl: ttl}
}

func (s *Signer) Configured() bool {
	return len(s.secret) > 0
}

func (s *Signer) Issue(siteID int64) (string, error) {
	if !s.Configured() {
		return "", ErrNotConfigured
	}
	now := time.Now()
	claims := jwt.MapClaims{
		"siteId": siteID,
		"iat":    now.Unix(),
		"exp":    now.Add(s.ttl).Unix(),
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := tok.SignedString(s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign embed token: %w", err)
	}
	return signed, nil
}

// Verify checks the signature and expiry and returns the site the token is
// bound to.
func (s *Signer) Verify(token string) (int64, error) {
	if !s.Configured() {
		return 0, ErrNotConfigured
	}
	parsed, err := jwt.Parse(token, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method %v", t.Header["alg"])
		}
		return s.secret, nil
	})
	if err != nil || !parsed.Valid {
		return 0, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}

	claims, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return 0, ErrInvalidToken
	}
	siteID, ok := claims["siteId"].(float64)
	if !ok || siteID <= 0 {
		return 0, fmt.Errorf("%w: missing siteId claim", ErrInvalidToken)
	}
	return int64(siteID), nil
}
