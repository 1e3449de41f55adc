package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kusitms-com/meetupd/internal/auth"
	"github.com/kusitms-com/meetupd/internal/errcode"
)

const testSecret = "middleware-test-secret"

type testEnv struct {
	router   http.Handler
	provider *auth.JWTProvider
	logs     *bytes.Buffer
}

func newTestEnv(t *testing.T, opts ...auth.GateOption) *testEnv {
	t.Helper()

	provider, err := auth.NewJWTProvider(testSecret, "meetupd-test", 30*time.Minute, 24*time.Hour)
	require.NoError(t, err)
	allowlist, err := auth.NewAllowlist(auth.DefaultPublicPatterns...)
	require.NoError(t, err)

	logs := &bytes.Buffer{}
	logger := slog.New(slog.NewJSONHandler(logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(ErrorTranslation(logger))
	r.Use(AuthGate(auth.NewGate(allowlist, provider, opts...), logger))

	r.Get("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	r.Get("/api/users/me", func(w http.ResponseWriter, r *http.Request) {
		id, ok := auth.SubjectFromContext(r.Context())
		if !ok {
			http.Error(w, "no subject", http.StatusTeapot)
			return
		}
		_, _ = w.Write([]byte(strconv.FormatInt(id, 10)))
	})
	r.Get("/api/teams/recruiting", func(w http.ResponseWriter, r *http.Request) {
		panic(errors.New("database exploded: password=hunter2"))
	})
	r.Get("/api/teams/{teamId}", func(w http.ResponseWriter, r *http.Request) {
		panic(errcode.New(errcode.TeamNotFound))
	})
	r.Get("/api/contests/search", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("partial"))
		panic("late failure")
	})

	return &testEnv{router: r, provider: provider, logs: logs}
}

func (e *testEnv) do(method, path, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	if authorization != "" {
		req.Header.Set(auth.AuthHeader, authorization)
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

func decodeError(t *testing.T, rec *httptest.ResponseRecorder) errcode.Response {
	t.Helper()
	assert.Equal(t, errcode.ContentType, rec.Header().Get("Content-Type"))
	var body errcode.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func TestPublicRouteWithoutHeader(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/health", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}

func TestProtectedRouteRejections(t *testing.T) {
	env := newTestEnv(t)

	expiredIssuer, err := auth.NewJWTProvider(testSecret, "meetupd-test", 30*time.Minute, 24*time.Hour,
		auth.WithClock(func() time.Time { return time.Now().Add(-time.Hour) }))
	require.NoError(t, err)
	expired, err := expiredIssuer.IssueAccessToken(42)
	require.NoError(t, err)

	refresh, err := env.provider.IssueRefreshToken(42)
	require.NoError(t, err)

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
		wantMessage   string
	}{
		{name: "no header", wantStatus: http.StatusForbidden, wantMessage: errcode.Forbidden.Message},
		{name: "basic scheme", authorization: "Basic Zm9vOmJhcg==", wantStatus: http.StatusForbidden, wantMessage: errcode.Forbidden.Message},
		{name: "bearer without token", authorization: "Bearer", wantStatus: http.StatusForbidden, wantMessage: errcode.Forbidden.Message},
		{name: "expired token", authorization: "Bearer " + expired, wantStatus: http.StatusUnauthorized, wantMessage: errcode.ExpiredToken.Message},
		{name: "garbage token", authorization: "Bearer abc", wantStatus: http.StatusUnauthorized, wantMessage: errcode.InvalidToken.Message},
		{name: "refresh token", authorization: "Bearer " + refresh, wantStatus: http.StatusUnauthorized, wantMessage: errcode.InvalidToken.Message},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := env.do(http.MethodGet, "/api/users/me", tt.authorization)

			assert.Equal(t, tt.wantStatus, rec.Code)
			body := decodeError(t, rec)
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, tt.wantMessage, body.Message)
		})
	}
}

func TestMissingCredentialAsUnauthorized(t *testing.T) {
	env := newTestEnv(t, auth.WithMissingCredentialCode(errcode.Unauthorized))

	rec := env.do(http.MethodGet, "/api/users/me", "")

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, http.StatusUnauthorized, decodeError(t, rec).Status)
}

func TestValidTokenReachesHandlerWithSubject(t *testing.T) {
	env := newTestEnv(t)
	token, err := env.provider.IssueAccessToken(42)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/api/users/me", "Bearer "+token)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "42", rec.Body.String())
}

func TestPanicBecomesGenericInternalError(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/teams/recruiting", "")

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeError(t, rec)
	assert.Equal(t, http.StatusInternalServerError, body.Status)
	assert.Equal(t, errcode.InternalServerError.Message, body.Message)
	assert.NotContains(t, rec.Body.String(), "hunter2")
	assert.Contains(t, env.logs.String(), "hunter2")
}

func TestTypedPanicKeepsItsCode(t *testing.T) {
	env := newTestEnv(t)
	token, err := env.provider.IssueAccessToken(3)
	require.NoError(t, err)

	rec := env.do(http.MethodGet, "/api/teams/9", "Bearer "+token)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, errcode.TeamNotFound.Message, decodeError(t, rec).Message)
}

func TestPanicAfterResponseStartedOnlyLogs(t *testing.T) {
	env := newTestEnv(t)

	rec := env.do(http.MethodGet, "/api/contests/search", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "partial", rec.Body.String())
	assert.Contains(t, env.logs.String(), "panic after response started")
}

func TestPathLoggedOncePerRequest(t *testing.T) {
	paths := []string{"/api/health", "/api/users/me", "/api/teams/recruiting"}
	for _, path := range paths {
		t.Run(path, func(t *testing.T) {
			env := newTestEnv(t)
			env.do(http.MethodGet, path, "")

			count := 0
			for _, line := range strings.Split(strings.TrimSpace(env.logs.String()), "\n") {
				var entry map[string]any
				require.NoError(t, json.Unmarshal([]byte(line), &entry))
				if entry["msg"] == "connect url" {
					count++
					assert.Equal(t, path, entry["path"])
					assert.NotEmpty(t, entry["request_id"])
				}
			}
			assert.Equal(t, 1, count)
		})
	}
}
