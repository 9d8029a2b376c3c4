package jwtverify

import (
	"errors"

	"github.com/golang-jwt/jwt/v5"

	"github.com/AlibekovAA/user-profile/internal/common/clock"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
	"github.com/AlibekovAA/user-profile/internal/observability/metrics"
)

var errMissingIdentity = errors.New("token has no subject or username")

type Verifier struct {
	secret []byte
	parser *jwt.Parser
}

func NewVerifier(secret string, clk clock.Clock) *Verifier {
	if clk == nil {
		clk = clock.NewRealClock()
	}
	return &Verifier{
		secret: []byte(secret),
		parser: jwt.NewParser(
			jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
			jwt.WithExpirationRequired(),
			jwt.WithTimeFunc(clk.Now),
		),
	}
}

// Verify accepts a token only while now < exp. Failures are
// commonerrors.ErrTokenExpired or commonerrors.ErrInvalidToken.
func (v *Verifier) Verify(tokenString string) (Claims, error) {
	metrics.JWTValidationsTotal.Inc()

	var tc TokenClaims
	_, err := v.parser.ParseWithClaims(tokenString, &tc, func(*jwt.Token) (any, error) {
		return v.secret, nil
	})
	switch {
	case errors.Is(err, jwt.ErrTokenExpired):
		return Claims{}, rejected("expired", commonerrors.ErrTokenExpired.WithCause(err))
	case err != nil:
		return Claims{}, rejected("invalid", commonerrors.ErrInvalidToken.WithCause(err))
	case tc.Subject == "" || tc.Username == "":
		return Claims{}, rejected("missing_claims", commonerrors.ErrInvalidToken.WithCause(errMissingIdentity))
	}

	return tc.toClaims(), nil
}

func rejected(reason string, err error) error {
	metrics.JWTValidationsFailed.WithLabelValues(reason).Inc()
	return err
}
