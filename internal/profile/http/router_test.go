package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	authservice "github.com/AlibekovAA/user-profile/internal/auth/service"
	"github.com/AlibekovAA/user-profile/internal/common/clock"
	"github.com/AlibekovAA/user-profile/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/user-profile/internal/common/crypto"
	"github.com/AlibekovAA/user-profile/internal/common/dto"
	commonhttp "github.com/AlibekovAA/user-profile/internal/common/http"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
	"github.com/AlibekovAA/user-profile/internal/profile/service"
	userdomain "github.com/AlibekovAA/user-profile/internal/user/domain"
	userrepo "github.com/AlibekovAA/user-profile/internal/user/repository"
)

var testNow = time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

type testEnv struct {
	handler http.Handler
	repo    *userrepo.MemoryRepository
	issuer  *authservice.TokenIssuer
	clock   *clock.MockClock
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	clk := clock.NewMockClock(testNow)
	repo := userrepo.NewMemoryRepository()
	issuer := authservice.NewTokenIssuer(constants.TestJWTSecret, commoncrypto.NewUUIDGenerator(), time.Hour, clk)
	profiles := service.NewProfileService(repo, validation.New(clk), clk, logger.Discard())

	for _, u := range []userdomain.User{
		{ID: "user-1", Username: "alice", Email: "alice@example.com", Phone: "1234567890", DOB: time.Date(1990, 1, 2, 0, 0, 0, 0, time.UTC), CreatedAt: testNow, UpdatedAt: testNow},
		{ID: "user-2", Username: "bob", Email: "bob@example.com", Phone: "1234567890", DOB: time.Date(1991, 1, 2, 0, 0, 0, 0, time.UTC), CreatedAt: testNow, UpdatedAt: testNow},
	} {
		if err := repo.Create(context.Background(), u); err != nil {
			t.Fatalf("seed: %v", err)
		}
	}

	return testEnv{
		handler: NewHandler(profiles, issuer, logger.Discard(), time.Second),
		repo:    repo,
		issuer:  issuer,
		clock:   clk,
	}
}

func (e testEnv) token(t *testing.T, id userdomain.ID, username string) string {
	t.Helper()
	tok, err := e.issuer.Issue(userdomain.User{ID: id, Username: username})
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	return tok.Value
}

func (e testEnv) do(method, token, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, "/api/user/profile", strings.NewReader(body))
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	e.handler.ServeHTTP(rec, req)
	return rec
}

func envelopeCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var env commonhttp.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env.Code
}

func TestGetProfile(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, env.token(t, "user-1", "alice"), "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var user dto.User
	if err := json.NewDecoder(rec.Body).Decode(&user); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if user.Username != "alice" || user.Email != "alice@example.com" || user.DOB != "1990-01-02" {
		t.Errorf("unexpected user %+v", user)
	}
}

func TestGetProfile_AuthFailures(t *testing.T) {
	env := newTestEnv(t)
	expired := env.token(t, "user-1", "alice")
	ghost := env.token(t, "ghost", "ghost")

	tests := []struct {
		name       string
		token      string
		advance    time.Duration
		wantStatus int
		wantCode   string
	}{
		{name: "no header", wantStatus: http.StatusUnauthorized, wantCode: "MISSING_AUTHORIZATION"},
		{name: "garbage token", token: "not.a.jwt", wantStatus: http.StatusUnauthorized, wantCode: "INVALID_TOKEN"},
		{name: "expired token", token: expired, advance: 2 * time.Hour, wantStatus: http.StatusUnauthorized, wantCode: "TOKEN_EXPIRED"},
		{name: "deleted user", token: ghost, wantStatus: http.StatusNotFound, wantCode: "USER_NOT_FOUND"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			env.clock.Set(testNow.Add(tt.advance))
			defer env.clock.Set(testNow)

			rec := env.do(http.MethodGet, tt.token, "")
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if code := envelopeCode(t, rec); code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, code)
			}
		})
	}
}

func TestUpdateProfile(t *testing.T) {
	env := newTestEnv(t)
	env.clock.Advance(time.Minute)

	rec := env.do(http.MethodPut, env.token(t, "user-1", "alice"), `{"email":"Alice.New@example.com","phone":"5551234567","dob":"1990-05-06"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp dto.UpdateProfileResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Message != "Profile updated successfully" {
		t.Errorf("unexpected message %q", resp.Message)
	}
	if resp.User.Email != "alice.new@example.com" || resp.User.Phone != "5551234567" || resp.User.DOB != "1990-05-06" {
		t.Errorf("unexpected user %+v", resp.User)
	}
	if !resp.User.UpdatedAt.Equal(testNow.Add(time.Minute)) {
		t.Errorf("expected updated_at to move, got %v", resp.User.UpdatedAt)
	}
}

func TestUpdateProfile_Failures(t *testing.T) {
	env := newTestEnv(t)
	token := env.token(t, "user-1", "alice")

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "email of another user", body: `{"email":"bob@example.com","phone":"1234567890","dob":"1990-01-02"}`, wantStatus: http.StatusBadRequest, wantCode: "EMAIL_TAKEN"},
		{name: "invalid fields", body: `{"email":"x","phone":"1","dob":"soon"}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "malformed json", body: `{`, wantStatus: http.StatusBadRequest, wantCode: commonhttp.CodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodPut, token, tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d", tt.wantStatus, rec.Code)
			}
			if code := envelopeCode(t, rec); code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, code)
			}
		})
	}

	stored, _ := env.repo.FindByID(context.Background(), "user-1")
	if stored.Email != "alice@example.com" {
		t.Errorf("failed updates must not change the user, got %+v", stored)
	}
}

func TestProfile_MethodNotAllowed(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodDelete, env.token(t, "user-1", "alice"), "")
	if rec.Code != http.StatusMethodNotAllowed {
		t.Fatalf("expected 405, got %d", rec.Code)
	}
}
