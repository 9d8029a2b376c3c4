package jwtverify

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// TokenClaims is the signed payload of an access token: sub, usr, jti, iat
// and exp.
type TokenClaims struct {
	Username string `json:"usr"`
	jwt.RegisteredClaims
}

func NewTokenClaims(userID, username, tokenID string, issuedAt, expiresAt time.Time) TokenClaims {
	return TokenClaims{
		Username: username,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID,
			ID:        tokenID,
			IssuedAt:  jwt.NewNumericDate(issuedAt),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
		},
	}
}

// Claims is what protected handlers see after verification.
type Claims struct {
	UserID    string
	Username  string
	TokenID   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}

func (c TokenClaims) toClaims() Claims {
	out := Claims{UserID: c.Subject, Username: c.Username, TokenID: c.ID}
	if c.IssuedAt != nil {
		out.IssuedAt = c.IssuedAt.Time
	}
	if c.ExpiresAt != nil {
		out.ExpiresAt = c.ExpiresAt.Time
	}
	return out
}
