// Package identity issues and verifies the bearer tokens that carry the acting user id.
package identity

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/pkg/errors"
)

var (
	ErrInvalidToken = errors.New("invalid token")
	ErrInvalidTTL   = errors.New("token lifetime should be positive")
)

// JWT claims
type Claims struct {
	UserID string `json:"userId"`
	jwt.RegisteredClaims
}

type Provider struct {
	secret []byte
	now    func() time.Time
}

func NewProvider(secret string) *Provider {
	return &Provider{secret: []byte(secret), now: time.Now}
}

func (p *Provider) IssueToken(userId uuid.UUID, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		return "", ErrInvalidTTL
	}

	now := p.now()
	claims := &Claims{
		UserID: userId.String(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userId.String(),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(p.secret)
	if err != nil {
		return "", errors.Wrap(err, "sign token")
	}

	return signed, nil
}

// ParseToken verifies tokenString and returns the user id it was issued for.
func (p *Provider) ParseToken(tokenString string) (uuid.UUID, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		return p.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(p.now))
	if err != nil || !token.Valid {
		return uuid.Nil, errors.Wrap(ErrInvalidToken, "parse")
	}

	userId, err := uuid.Parse(claims.UserID)
	if err != nil {
		return uuid.Nil, errors.Wrap(ErrInvalidToken, "user id")
	}

	return userId, nil
}
