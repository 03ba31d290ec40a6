package auth

import (
	"fmt"
	"time"

	"chirp/domain"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 12

// Credentials hashes passwords and issues/decodes session tokens. The signing
// secret and session TTL are injected at construction; nothing here reads the
// environment.
type Credentials struct {
	secret   []byte
	tokenTTL time.Duration
}

func NewCredentials(secret string, tokenTTL time.Duration) *Credentials {
	return &Credentials{
		secret:   []byte(secret),
		tokenTTL: tokenTTL,
	}
}

func (c *Credentials) TokenTTL() time.Duration {
	return c.tokenTTL
}

func (c *Credentials) HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", fmt.Errorf("hashing password: %w", err)
	}
	return string(hashed), nil
}

func (c *Credentials) CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

func (c *Credentials) IssueToken(userId string, now time.Time) (string, error) {
	token := jwt.NewWithClaims(
		jwt.SigningMethodHS256,
		jwt.RegisteredClaims{
			Subject:   userId,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.tokenTTL)),
		},
	)
	signed, err := token.SignedString(c.secret)
	if err != nil {
		return "", fmt.Errorf("signing token: %w", err)
	}
	return signed, nil
}

// DecodeToken verifies the signature and expiry and returns the embedded user
// id and expiry instant. Verification fails closed: any parse, signature or
// expiry failure yields ErrInvalidToken.
func (c *Credentials) DecodeToken(tokenString string) (string, time.Time, error) {
	token, err := jwt.ParseWithClaims(
		tokenString,
		&jwt.RegisteredClaims{},
		func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return c.secret, nil
		},
	)
	if err != nil || !token.Valid {
		return "", time.Time{}, domain.ErrInvalidToken
	}

	claims, ok := token.Claims.(*jwt.RegisteredClaims)
	if !ok || claims.Subject == "" || claims.ExpiresAt == nil {
		return "", time.Time{}, domain.ErrInvalidToken
	}
	return claims.Subject, claims.ExpiresAt.Time, nil
}
