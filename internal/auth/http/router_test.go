package http

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/AlibekovAA/user-profile/internal/auth/service"
	"github.com/AlibekovAA/user-profile/internal/common/clock"
	"github.com/AlibekovAA/user-profile/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/user-profile/internal/common/crypto"
	"github.com/AlibekovAA/user-profile/internal/common/dto"
	commonhttp "github.com/AlibekovAA/user-profile/internal/common/http"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
	userrepo "github.com/AlibekovAA/user-profile/internal/user/repository"
)

const registerBody = `{"username":"alice","email":"alice@example.com","password":"secret1","phone":"1234567890","dob":"1990-01-02"}`

func newTestHandler(t *testing.T) (http.Handler, *service.TokenIssuer) {
	t.Helper()

	clk := clock.NewMockClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	ids := commoncrypto.NewUUIDGenerator()
	issuer := service.NewTokenIssuer(constants.TestJWTSecret, ids, constants.TestTokenTTL, clk)
	svc := service.NewAuthService(
		userrepo.NewMemoryRepository(),
		commoncrypto.NewBcryptHasher(constants.TestBcryptCost),
		ids,
		issuer,
		validation.New(clk),
		clk,
		logger.Discard(),
	)
	return NewHandler(svc, logger.Discard(), time.Second), issuer
}

func do(h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	h.ServeHTTP(rec, req)
	return rec
}

func decodeAuth(t *testing.T, rec *httptest.ResponseRecorder) dto.AuthResponse {
	t.Helper()
	var resp dto.AuthResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return resp
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) commonhttp.ErrorEnvelope {
	t.Helper()
	var env commonhttp.ErrorEnvelope
	if err := json.NewDecoder(rec.Body).Decode(&env); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return env
}

func TestRegister_ReturnsTokenAndUser(t *testing.T) {
	h, issuer := newTestHandler(t)

	rec := do(h, http.MethodPost, "/api/auth/register", registerBody)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	resp := decodeAuth(t, rec)
	if resp.User.Username != "alice" || resp.User.DOB != "1990-01-02" || resp.User.ID == "" {
		t.Errorf("unexpected user %+v", resp.User)
	}
	if strings.Contains(rec.Body.String(), "password") {
		t.Error("response must not include password material")
	}
	if _, err := issuer.Verify(resp.Token); err != nil {
		t.Errorf("token must verify: %v", err)
	}
}

func TestRegister_Conflicts(t *testing.T) {
	h, _ := newTestHandler(t)
	if rec := do(h, http.MethodPost, "/api/auth/register", registerBody); rec.Code != http.StatusOK {
		t.Fatalf("seed register failed: %d", rec.Code)
	}

	tests := []struct {
		name     string
		body     string
		wantCode string
	}{
		{
			name:     "same username",
			body:     `{"username":"alice","email":"other@example.com","password":"secret1","phone":"1234567890","dob":"1990-01-02"}`,
			wantCode: "USERNAME_TAKEN",
		},
		{
			name:     "same email different case",
			body:     `{"username":"bob","email":"ALICE@example.com","password":"secret1","phone":"1234567890","dob":"1990-01-02"}`,
			wantCode: "EMAIL_TAKEN",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/api/auth/register", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", rec.Code)
			}
			if env := decodeEnvelope(t, rec); env.Code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, env.Code)
			}
		})
	}
}

func TestRegister_ValidationFailure(t *testing.T) {
	h, _ := newTestHandler(t)

	rec := do(h, http.MethodPost, "/api/auth/register", `{"username":"alice","email":"nope","password":"secret1","phone":"12","dob":"1990-01-02"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	env := decodeEnvelope(t, rec)
	if env.Code != "VALIDATION_FAILED" {
		t.Errorf("unexpected code %q", env.Code)
	}
	if _, ok := env.Details["fields"]; !ok {
		t.Errorf("expected field details, got %+v", env.Details)
	}
}

func TestLogin(t *testing.T) {
	h, _ := newTestHandler(t)
	if rec := do(h, http.MethodPost, "/api/auth/register", registerBody); rec.Code != http.StatusOK {
		t.Fatalf("seed register failed: %d", rec.Code)
	}

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantCode   string
	}{
		{name: "by username", body: `{"username":"alice","password":"secret1"}`, wantStatus: http.StatusOK},
		{name: "by email", body: `{"username":"Alice@Example.com","password":"secret1"}`, wantStatus: http.StatusOK},
		{name: "wrong password", body: `{"username":"alice","password":"nope123"}`, wantStatus: http.StatusUnauthorized, wantCode: "INVALID_CREDENTIALS"},
		{name: "unknown user", body: `{"username":"ghost","password":"nope123"}`, wantStatus: http.StatusUnauthorized, wantCode: "INVALID_CREDENTIALS"},
		{name: "empty fields", body: `{}`, wantStatus: http.StatusBadRequest, wantCode: "VALIDATION_FAILED"},
		{name: "malformed json", body: `{"username":`, wantStatus: http.StatusBadRequest, wantCode: commonhttp.CodeInvalidJSON},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(h, http.MethodPost, "/api/auth/login", tt.body)
			if rec.Code != tt.wantStatus {
				t.Fatalf("expected %d, got %d: %s", tt.wantStatus, rec.Code, rec.Body.String())
			}
			if tt.wantCode == "" {
				if resp := decodeAuth(t, rec); resp.Token == "" || resp.User.Username != "alice" {
					t.Errorf("unexpected response %+v", resp)
				}
				return
			}
			if env := decodeEnvelope(t, rec); env.Code != tt.wantCode {
				t.Errorf("expected %s, got %s", tt.wantCode, env.Code)
			}
		})
	}
}

func TestAuthRoutes_RejectOtherMethods(t *testing.T) {
	h, _ := newTestHandler(t)

	for _, path := range []string{"/api/auth/register", "/api/auth/login"} {
		rec := do(h, http.MethodGet, path, "")
		if rec.Code != http.StatusMethodNotAllowed {
			t.Errorf("%s: expected 405, got %d", path, rec.Code)
		}
	}
}
