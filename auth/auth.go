package auth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/auth0/go-jwt-middleware/v2/validator"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Issuer signs and validates the HS256 session tokens handed out at
// registration and login. The token subject is the user's public id.
type Issuer struct {
	secret   []byte
	issuer   string
	audience string
	ttl      time.Duration
	now      func() time.Time
}

func NewIssuer(secret, issuer, audience string, ttl time.Duration) (*Issuer, error) {
	if secret == "" {
		return nil, errors.New("auth: JWT secret key not set")
	}
	return &Issuer{
		secret:   []byte(secret),
		issuer:   issuer,
		audience: audience,
		ttl:      ttl,
		now:      time.Now,
	}, nil
}

func (i *Issuer) CreateToken(subject string) (string, error) {
	now := i.now()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ID:        uuid.NewString(),
		Subject:   subject,
		Issuer:    i.issuer,
		Audience:  jwt.ClaimStrings{i.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
	})

	tokenString, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}

	return tokenString, nil
}

// Validator returns a go-jwt-middleware validator that accepts exactly the
// tokens produced by CreateToken.
func (i *Issuer) Validator() (*validator.Validator, error) {
	keyFunc := func(context.Context) (interface{}, error) {
		return i.secret, nil
	}
	return validator.New(
		keyFunc,
		validator.HS256,
		i.issuer,
		[]string{i.audience},
		validator.WithAllowedClockSkew(30*time.Second),
	)
}
