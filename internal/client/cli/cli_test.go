package cli

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	authhttp "github.com/AlibekovAA/user-profile/internal/auth/http"
	authservice "github.com/AlibekovAA/user-profile/internal/auth/service"
	"github.com/AlibekovAA/user-profile/internal/client/session"
	"github.com/AlibekovAA/user-profile/internal/common/clock"
	"github.com/AlibekovAA/user-profile/internal/common/config"
	"github.com/AlibekovAA/user-profile/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/user-profile/internal/common/crypto"
	"github.com/AlibekovAA/user-profile/internal/common/logger"
	"github.com/AlibekovAA/user-profile/internal/common/validation"
	profilehttp "github.com/AlibekovAA/user-profile/internal/profile/http"
	profileservice "github.com/AlibekovAA/user-profile/internal/profile/service"
	userrepo "github.com/AlibekovAA/user-profile/internal/user/repository"
)

// requestLog records "METHOD path" for every request the test server sees.
type requestLog struct {
	mu   sync.Mutex
	seen []string
}

func (l *requestLog) wrap(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		l.mu.Lock()
		l.seen = append(l.seen, r.Method+" "+r.URL.Path)
		l.mu.Unlock()
		next.ServeHTTP(w, r)
	})
}

func (l *requestLog) reset() {
	l.mu.Lock()
	l.seen = nil
	l.mu.Unlock()
}

func (l *requestLog) requests() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string{}, l.seen...)
}

func startServer(t *testing.T) string {
	url, _ := startRecordingServer(t)
	return url
}

func startRecordingServer(t *testing.T) (string, *requestLog) {
	t.Helper()

	log := logger.Discard()
	clk := clock.NewRealClock()
	repo := userrepo.NewMemoryRepository()
	ids := commoncrypto.NewUUIDGenerator()
	v := validation.New(clk)
	issuer := authservice.NewTokenIssuer(constants.TestJWTSecret, ids, constants.TestTokenTTL, clk)

	mux := http.NewServeMux()
	mux.Handle("/api/auth/", authhttp.NewHandler(
		authservice.NewAuthService(repo, commoncrypto.NewBcryptHasher(constants.TestBcryptCost), ids, issuer, v, clk, log),
		log, time.Second,
	))
	mux.Handle("/api/user/profile", profilehttp.NewHandler(
		profileservice.NewProfileService(repo, v, clk, log),
		issuer, log, time.Second,
	))

	reqs := &requestLog{}
	srv := httptest.NewServer(reqs.wrap(mux))
	t.Cleanup(srv.Close)
	return srv.URL, reqs
}

func stubPassword(t *testing.T, pw string) {
	t.Helper()
	orig := readPassword
	readPassword = func(int) ([]byte, error) { return []byte(pw), nil }
	t.Cleanup(func() { readPassword = orig })
}

type harness struct {
	serverURL string
	tokenFile string
}

func newHarness(t *testing.T) harness {
	return harness{
		serverURL: startServer(t),
		tokenFile: filepath.Join(t.TempDir(), "token"),
	}
}

// run executes one CLI invocation the way a separate process would.
func (h harness) run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()

	cfg := config.ClientConfig{
		ServerURL: "http://unused.invalid",
		Timeout:   5 * time.Second,
		LogLevel:  "CRITICAL",
	}
	root := NewRootCommand(cfg, strings.NewReader(stdin))

	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(append([]string{"--server", h.serverURL, "--token-file", h.tokenFile}, args...))

	err := root.ExecuteContext(context.Background())
	return out.String(), err
}

func TestCLI_FullFlow(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret1")

	out, err := h.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Not logged in")

	out, err = h.run(t, "alice\nalice@example.com\n1234567890\n1990-01-02\n", "register")
	require.NoError(t, err)
	assert.Contains(t, out, "Registered and logged in as alice")

	out, err = h.run(t, "", "status")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice (alice@example.com)")

	out, err = h.run(t, "", "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "1234567890")
	assert.Contains(t, out, "1990-01-02")

	out, err = h.run(t, "", "profile", "update", "--phone", "5559876543")
	require.NoError(t, err)
	assert.Contains(t, out, "Profile updated successfully")
	assert.Contains(t, out, "5559876543")
	assert.Contains(t, out, "alice@example.com", "unchanged fields are kept")

	out, err = h.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")

	_, err = h.run(t, "", "profile", "show")
	assert.ErrorIs(t, err, errNotLoggedIn)

	out, err = h.run(t, "", "login", "-u", "alice@example.com")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged in as alice")
}

func TestCLI_LoginWrongPassword(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret1")

	_, err := h.run(t, "", "register", "--username", "bob", "--email", "bob@example.com", "--phone", "1234567890", "--dob", "1990-01-02")
	require.NoError(t, err)
	_, err = h.run(t, "", "logout")
	require.NoError(t, err)

	stubPassword(t, "wrong-password")
	_, err = h.run(t, "", "login", "--username", "bob")
	require.Error(t, err)
	assert.Equal(t, "invalid credentials", err.Error())
}

func TestCLI_UpdateValidationListsFields(t *testing.T) {
	h := newHarness(t)
	stubPassword(t, "secret1")

	_, err := h.run(t, "", "register", "--username", "carol", "--email", "carol@example.com", "--phone", "1234567890", "--dob", "1990-01-02")
	require.NoError(t, err)

	_, err = h.run(t, "", "profile", "update", "--email", "not-an-email", "--phone", "12")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "phone must contain 10 to 15 digits")
}

func TestCLI_UpdateRequiresAFlag(t *testing.T) {
	h := newHarness(t)

	_, err := h.run(t, "", "profile", "update")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "nothing to update")
}

func TestGetSimpleText(t *testing.T) {
	var out bytes.Buffer
	got, err := valueOrPrompt(newReader("  hello \n"), &out, "", "Name")
	require.NoError(t, err)
	assert.Equal(t, "hello", got)
	assert.Equal(t, "Name: ", out.String())

	got, err = valueOrPrompt(newReader(""), &out, "preset", "Name")
	require.NoError(t, err)
	assert.Equal(t, "preset", got)

	got, err = getSimpleText(newReader("last"), "Name", &out)
	require.NoError(t, err)
	assert.Equal(t, "last", got)
}

func TestGetPassword_Error(t *testing.T) {
	orig := readPassword
	defer func() { readPassword = orig }()
	readPassword = func(int) ([]byte, error) { return nil, errors.New("not a terminal") }

	var out bytes.Buffer
	_, err := getPassword(&out)
	require.Error(t, err)
}

func TestCLI_LogoutStaysLocal(t *testing.T) {
	url, reqs := startRecordingServer(t)
	h := harness{serverURL: url, tokenFile: filepath.Join(t.TempDir(), "token")}

	store, err := session.NewFileTokenStore(h.tokenFile)
	require.NoError(t, err)
	require.NoError(t, store.Save("stored-token"))

	out, err := h.run(t, "", "logout")
	require.NoError(t, err)
	assert.Contains(t, out, "Logged out")
	assert.Empty(t, reqs.requests(), "logout must not contact the server")

	token, err := store.Load()
	require.NoError(t, err)
	assert.Empty(t, token)
}

func TestCLI_CommandRequests(t *testing.T) {
	url, reqs := startRecordingServer(t)
	h := harness{serverURL: url, tokenFile: filepath.Join(t.TempDir(), "token")}
	stubPassword(t, "secret1")

	_, err := h.run(t, "", "register", "--username", "dave", "--email", "dave@example.com", "--phone", "1234567890", "--dob", "1990-01-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /api/auth/register"}, reqs.requests())

	reqs.reset()
	_, err = h.run(t, "", "login", "--username", "dave")
	require.NoError(t, err)
	assert.Equal(t, []string{"POST /api/auth/login"}, reqs.requests())

	reqs.reset()
	out, err := h.run(t, "", "profile", "show")
	require.NoError(t, err)
	assert.Contains(t, out, "dave@example.com")
	assert.Equal(t, []string{"GET /api/user/profile"}, reqs.requests())
}
