package service_test

import (
	"errors"
	"testing"
	"time"

	"github.com/AlibekovAA/user-profile/internal/auth/service"
	"github.com/AlibekovAA/user-profile/internal/common/clock"
	"github.com/AlibekovAA/user-profile/internal/common/constants"
	commonerrors "github.com/AlibekovAA/user-profile/internal/common/errors"
	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
)

func TestTokenIssuer_TTLBoundary(t *testing.T) {
	const ttl = 24 * time.Hour
	const epsilon = time.Second

	mockClock := clock.NewMockClock(testNow)
	issuer := service.NewTokenIssuer(constants.TestJWTSecret, &mockIDGenerator{}, ttl, mockClock)

	token, err := issuer.Issue(userdomain.User{ID: "user-1", Username: "alice"})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !token.ExpiresAt.Equal(testNow.Add(ttl)) {
		t.Errorf("unexpected expiry %v", token.ExpiresAt)
	}

	mockClock.Set(testNow.Add(ttl - epsilon))
	if _, err := issuer.Verify(token.Value); err != nil {
		t.Errorf("expected token to be valid at T-ε, got %v", err)
	}

	mockClock.Set(testNow.Add(ttl + epsilon))
	if _, err := issuer.Verify(token.Value); !errors.Is(err, commonerrors.ErrTokenExpired) {
		t.Errorf("expected ErrTokenExpired at T+ε, got %v", err)
	}
}

func TestTokenIssuer_UniqueTokenIDs(t *testing.T) {
	issuer := service.NewTokenIssuer(constants.TestJWTSecret, &mockIDGenerator{}, time.Hour, clock.NewMockClock(testNow))
	user := userdomain.User{ID: "user-1", Username: "alice"}

	a, _ := issuer.Issue(user)
	b, _ := issuer.Issue(user)
	if a.ID == b.ID || a.Value == b.Value {
		t.Error("expected distinct tokens per issue")
	}
}

func TestTokenIssuer_RejectsForeignSecret(t *testing.T) {
	mockClock := clock.NewMockClock(testNow)
	issuer := service.NewTokenIssuer(constants.TestJWTSecret, &mockIDGenerator{}, time.Hour, mockClock)
	other := service.NewTokenIssuer("a-completely-different-secret-of-32b", &mockIDGenerator{}, time.Hour, mockClock)

	token, _ := other.Issue(userdomain.User{ID: "user-1", Username: "alice"})
	if _, err := issuer.Verify(token.Value); !errors.Is(err, commonerrors.ErrInvalidToken) {
		t.Errorf("expected ErrInvalidToken, got %v", err)
	}
}

func TestTokenIssuer_IDGeneratorFailure(t *testing.T) {
	ids := &mockIDGenerator{newIDFunc: func() (string, error) { return "", errors.New("entropy") }}
	issuer := service.NewTokenIssuer(constants.TestJWTSecret, ids, time.Hour, clock.NewMockClock(testNow))

	if _, err := issuer.Issue(userdomain.User{ID: "user-1", Username: "alice"}); err == nil {
		t.Error("expected error")
	}
}
