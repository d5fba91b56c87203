package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"parking-booking/internal/usecase"
	"parking-booking/pkg/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubIdentities struct {
	identity utils.Identity
	err      error
	token    string
}

func (s *stubIdentities) Resolve(_ context.Context, token string) (utils.Identity, error) {
	s.token = token
	return s.identity, s.err
}

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) utils.Response {
	t.Helper()
	var body utils.Response
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func echoIdentity() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		identity, ok := utils.GetIdentityFromContext(r.Context())
		if !ok {
			w.WriteHeader(http.StatusTeapot)
			return
		}
		utils.ResponseSuccess(w, "ok", map[string]any{"user_id": identity.UserID})
	})
}

func TestAuthenticate(t *testing.T) {
	tests := []struct {
		name   string
		header string
		stub   *stubIdentities
		status int
		code   string
	}{
		{"missing header", "", &stubIdentities{}, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"wrong scheme", "Basic abc", &stubIdentities{}, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"empty token", "Bearer ", &stubIdentities{}, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"rejected token", "Bearer abc", &stubIdentities{err: usecase.ErrUnauthenticated}, http.StatusUnauthorized, "UNAUTHENTICATED"},
		{"lookup failure", "Bearer abc", &stubIdentities{err: errors.New("db down")}, http.StatusInternalServerError, "INTERNAL_ERROR"},
		{"valid", "Bearer abc", &stubIdentities{identity: utils.NewIdentity(12, utils.RoleCustomer)}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := Authenticate(tt.stub, zap.NewNop())(echoIdentity())

			req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.status, rec.Code)
			body := decodeEnvelope(t, rec)
			assert.Equal(t, tt.code, body.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "abc", tt.stub.token)
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	handler := RequireRole(zap.NewNop(), utils.RoleOwner, utils.RoleAdmin)(echoIdentity())

	serve := func(identity *utils.Identity) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/api/owner/locations/1/reservations", nil)
		if identity != nil {
			req = req.WithContext(utils.SetIdentityContext(req.Context(), *identity))
		}
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		return rec
	}

	assert.Equal(t, http.StatusUnauthorized, serve(nil).Code)

	customer := utils.NewIdentity(3, utils.RoleCustomer)
	assert.Equal(t, http.StatusForbidden, serve(&customer).Code)

	owner := utils.NewIdentity(4, utils.RoleOwner)
	assert.Equal(t, http.StatusOK, serve(&owner).Code)
}

func TestRateLimitDisabledWithoutRedis(t *testing.T) {
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	})
	handler := RateLimit(nil, 1, zap.NewNop())(next)

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/reservations", nil))
		assert.Equal(t, http.StatusNoContent, rec.Code)
	}
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	req := httptest.NewRequest(http.MethodOptions, "/api/reservations", nil)
	req.Header.Set("Origin", "https://app.example.com")
	req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	req.Header.Set("Access-Control-Request-Headers", "Authorization")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.False(t, called)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Methods"), http.MethodPost)
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}

func TestCORSExposesRequestID(t *testing.T) {
	handler := CORS()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/reservations", nil)
	req.Header.Set("Origin", "https://app.example.com")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	// header names come back canonicalized (X-Request-Id)
	assert.Contains(t, strings.ToLower(rec.Header().Get("Access-Control-Expose-Headers")), strings.ToLower(RequestIDHeader))
}

func TestRecover(t *testing.T) {
	handler := Recover(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		panic("boom")
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	body := decodeEnvelope(t, rec)
	assert.False(t, body.Status)
	assert.Equal(t, "INTERNAL_ERROR", body.Code)
}

func TestLoggerRequestID(t *testing.T) {
	var seen string
	handler := Logger(zap.NewNop())(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = utils.GetRequestIDFromContext(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "req-123")
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	assert.Equal(t, "req-123", seen)
	assert.Equal(t, "req-123", rec.Header().Get(RequestIDHeader))

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	assert.NotEmpty(t, rec.Header().Get(RequestIDHeader))
}
