package middleware

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"fixit/internal/delivery/http/helpers"
	"fixit/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeTokenVerifier implements domain.TokenVerifier for tests.
type fakeTokenVerifier struct {
	caller domain.Caller
	err    error
}

func (f *fakeTokenVerifier) Verify(_ string) (domain.Caller, error) {
	if f.err != nil {
		return domain.Caller{}, f.err
	}
	return f.caller, nil
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestAuthenticate(t *testing.T) {
	valid := &fakeTokenVerifier{caller: domain.Caller{UID: "user-123", Email: "a@b.com"}}

	tests := []struct {
		name         string
		authHeader   string
		verifier     domain.TokenVerifier
		wantStatus   int
		wantBodyCode string
		nextCalled   bool
		wantCaller   domain.Caller
	}{
		{
			name:       "valid token sets caller and calls next",
			authHeader: "Bearer valid-token",
			verifier:   valid,
			wantStatus: http.StatusOK,
			nextCalled: true,
			wantCaller: domain.Caller{UID: "user-123", Email: "a@b.com"},
		},
		{
			name:       "missing header passes through anonymously",
			authHeader: "",
			verifier:   valid,
			wantStatus: http.StatusOK,
			nextCalled: true,
		},
		{
			name:         "invalid authorization format no Bearer prefix",
			authHeader:   "Basic abc",
			verifier:     valid,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "empty token after Bearer",
			authHeader:   "Bearer ",
			verifier:     valid,
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
		{
			name:         "verifier returns error",
			authHeader:   "Bearer bad-token",
			verifier:     &fakeTokenVerifier{err: errors.New("token is expired")},
			wantStatus:   http.StatusUnauthorized,
			wantBodyCode: helpers.ErrCodeUnauthorized,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			nextCalled := false
			var captured domain.Caller
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
				captured = CallerFromContext(r.Context())
				w.WriteHeader(http.StatusOK)
			})
			handler := Authenticate(tt.verifier, discardLogger())(next)

			req := httptest.NewRequest(http.MethodPost, "http://test/createAdminInvite", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rr := httptest.NewRecorder()

			handler(rr, req)

			require.Equal(t, tt.wantStatus, rr.Code, "status code")
			assert.Equal(t, tt.nextCalled, nextCalled, "next handler called")
			if tt.nextCalled {
				assert.Equal(t, tt.wantCaller, captured, "caller in context")
			}
			if tt.wantBodyCode != "" {
				var envelope helpers.APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, tt.wantBodyCode, envelope.Error.Code)
			}
		})
	}
}

func TestCallerFromContext_empty(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "http://test/", nil)
	caller := CallerFromContext(req.Context())
	assert.False(t, caller.Authenticated())
}
