package session

import (
	"encoding/base64"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/parceltrack/console/internal/common"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func mintToken(t *testing.T, exp time.Time) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "42",
		ExpiresAt: jwt.NewNumericDate(exp),
	}).SignedString([]byte("test-signing-key"))
	require.NoError(t, err)
	return token
}

// rawToken assembles an unsigned JWT-shaped token from literal JSON.
func rawToken(header, claims string) string {
	enc := base64.RawURLEncoding
	return enc.EncodeToString([]byte(header)) + "." + enc.EncodeToString([]byte(claims)) + ".c2ln"
}

// fakeAPI serves the token endpoints and one protected resource that only
// accepts the current access token.
type fakeAPI struct {
	mu           sync.Mutex
	access       string
	refresh      string
	nextAccess   string
	refreshFails bool
	// rejectAll makes the protected resource answer 401 to every token.
	rejectAll bool
	// refreshGate, when set, is waited on before answering a refresh.
	refreshGate chan struct{}

	refreshCalls   atomic.Int32
	protectedCalls atomic.Int32
	unauthorized   atomic.Int32
	authHeaders    []string
	bodies         []string
	requestIDs     []string
}

func (f *fakeAPI) handler() http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("POST /api/token/", func(w http.ResponseWriter, r *http.Request) {
		var body struct{ Username, Password string }
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body.Password != "s3cret" {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = io.WriteString(w, `{"detail":"No active account found with the given credentials"}`)
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusOK, map[string]string{"access": f.access, "refresh": f.refresh})
	})

	mux.HandleFunc("POST /api/token/refresh/", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		if f.refreshGate != nil {
			<-f.refreshGate
		}
		var body struct{ Refresh string }
		_ = json.NewDecoder(r.Body).Decode(&body)

		f.mu.Lock()
		defer f.mu.Unlock()
		if f.refreshFails || body.Refresh != f.refresh {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Token is invalid or expired", "code": "token_not_valid"})
			return
		}
		f.access = f.nextAccess
		writeJSON(w, http.StatusOK, map[string]string{"access": f.access})
	})

	mux.HandleFunc("POST /api/accounts/register/", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]string
		_ = json.NewDecoder(r.Body).Decode(&body)
		if body["password"] != body["password_confirm"] {
			writeJSON(w, http.StatusBadRequest, map[string][]string{"password_confirm": {"Passwords do not match."}})
			return
		}
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, http.StatusCreated, map[string]any{
			"user":    map[string]any{"id": 7, "email": body["email"], "first_name": body["first_name"]},
			"access":  f.access,
			"refresh": f.refresh,
		})
	})

	mux.HandleFunc("/api/protected/", func(w http.ResponseWriter, r *http.Request) {
		f.protectedCalls.Add(1)
		payload, _ := io.ReadAll(r.Body)

		f.mu.Lock()
		f.authHeaders = append(f.authHeaders, r.Header.Get(common.AuthorizationHeaderName))
		f.bodies = append(f.bodies, string(payload))
		f.requestIDs = append(f.requestIDs, r.Header.Get(common.RequestIDHeaderName))
		ok := !f.rejectAll && r.Header.Get(common.AuthorizationHeaderName) == common.BearerScheme+" "+f.access
		f.mu.Unlock()

		if !ok {
			f.unauthorized.Add(1)
			writeJSON(w, http.StatusUnauthorized, map[string]string{"detail": "Given token not valid for any token type"})
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"echo": string(payload)})
	})

	mux.HandleFunc("/api/broken/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	})
	mux.HandleFunc("/api/forbidden/", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusForbidden)
	})

	return mux
}

func (f *fakeAPI) seenAuth() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.authHeaders...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

type env struct {
	api    *fakeAPI
	srv    *httptest.Server
	store  *MemoryStore
	router *Router
	mgr    *Manager
	base   string
}

func newEnv(t *testing.T, api *fakeAPI, start string, tweak ...func(*Options)) *env {
	t.Helper()

	srv := httptest.NewServer(api.handler())
	t.Cleanup(srv.Close)

	e := &env{
		api:    api,
		srv:    srv,
		store:  NewMemoryStore(),
		router: NewRouter(start),
		base:   srv.URL + "/api",
	}

	opts := Options{
		BaseURL:       e.base,
		Store:         e.store,
		Navigator:     e.router,
		Transport:     srv.Client().Transport,
		LoginRoute:    common.LoginRoute,
		LandingRoute:  common.HomeRoute,
		SharedRefresh: true,
		Now:           func() time.Time { return epoch },
	}
	for _, fn := range tweak {
		fn(&opts)
	}

	mgr, err := NewManager(opts)
	require.NoError(t, err)
	e.mgr = mgr
	return e
}

func (e *env) seed(t *testing.T, access, refresh string) {
	t.Helper()
	values := map[string]string{}
	if access != "" {
		values[common.AccessTokenKey] = access
	}
	if refresh != "" {
		values[common.RefreshTokenKey] = refresh
	}
	require.NoError(t, e.store.Set(t.Context(), values))
}

func (e *env) get(t *testing.T, path string) (*http.Response, error) {
	t.Helper()
	req, err := http.NewRequestWithContext(t.Context(), http.MethodGet, e.base+path, nil)
	require.NoError(t, err)
	return e.mgr.HTTPClient().Do(req)
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer resp.Body.Close()
	b, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return strings.TrimSpace(string(b))
}
