package service

import (
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/user-profile/internal/common/clock"
	commoncrypto "github.com/AlibekovAA/user-profile/internal/common/crypto"
	"github.com/AlibekovAA/user-profile/internal/common/jwtverify"
	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
)

type IssuedToken struct {
	Value     string
	ID        string
	ExpiresAt time.Time
}

// TokenIssuer signs HS256 access tokens valid for ttl and verifies them
// without server-side state.
type TokenIssuer struct {
	jwtSecret   []byte
	idGenerator commoncrypto.IDGenerator
	clock       clock.Clock
	ttl         time.Duration
	verifier    *jwtverify.Verifier
}

func NewTokenIssuer(
	jwtSecret string,
	idGenerator commoncrypto.IDGenerator,
	ttl time.Duration,
	clk clock.Clock,
) *TokenIssuer {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &TokenIssuer{
		jwtSecret:   []byte(jwtSecret),
		idGenerator: idGenerator,
		clock:       clk,
		ttl:         ttl,
		verifier:    jwtverify.NewVerifier(jwtSecret, clk),
	}
}

func (ti *TokenIssuer) Issue(user userdomain.User) (IssuedToken, error) {
	jti, err := ti.idGenerator.NewID()
	if err != nil {
		return IssuedToken{}, err
	}

	// NumericDate has second precision; truncate so ExpiresAt matches exp.
	now := ti.clock.Now().UTC().Truncate(time.Second)
	expiresAt := now.Add(ti.ttl)
	claims := jwtverify.NewTokenClaims(string(user.ID), user.Username, jti, now, expiresAt)

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(ti.jwtSecret)
	if err != nil {
		return IssuedToken{}, err
	}

	incrementAccessTokensIssued()
	return IssuedToken{Value: tokenString, ID: jti, ExpiresAt: expiresAt}, nil
}

// Verify checks signature and expiry only. The user may have been removed
// since the token was issued.
func (ti *TokenIssuer) Verify(tokenString string) (jwtverify.Claims, error) {
	return ti.verifier.Verify(tokenString)
}
