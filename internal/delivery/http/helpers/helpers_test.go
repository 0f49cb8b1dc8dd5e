package helpers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/netip"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"fixit/internal/domain"
)

func TestWriteDomainError(t *testing.T) {
	tests := []struct {
		name        string
		err         error
		wantStatus  int
		wantCode    string
		wantMessage string
	}{
		{"unauthenticated", domain.NewError(domain.CodeUnauthenticated, "You must be logged in."), http.StatusUnauthorized, "unauthenticated", "You must be logged in."},
		{"permission denied", domain.NewError(domain.CodePermissionDenied, "Only admins can create other admins."), http.StatusForbidden, "permission-denied", "Only admins can create other admins."},
		{"invalid argument", domain.NewError(domain.CodeInvalidArgument, "Invalid email."), http.StatusBadRequest, "invalid-argument", "Invalid email."},
		{"already exists", domain.NewError(domain.CodeAlreadyExists, "A provider with this email already exists."), http.StatusConflict, "already-exists", "A provider with this email already exists."},
		{"not found", domain.NewError(domain.CodeNotFound, "Invalid or expired invitation."), http.StatusNotFound, "not-found", "Invalid or expired invitation."},
		{"wrapped domain error", fmt.Errorf("ctx: %w", domain.WrapError(domain.CodeInternal, "boom", errors.New("db"))), http.StatusInternalServerError, "internal", "boom"},
		{"plain error hides text", errors.New("pq: connection refused"), http.StatusInternalServerError, "internal", internalErrorMessage},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			WriteDomainError(rr, tt.err)

			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, "application/json", rr.Header().Get("Content-Type"))
			var envelope APIResponse
			require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
			assert.Nil(t, envelope.Data)
			require.NotNil(t, envelope.Error)
			assert.Equal(t, tt.wantCode, envelope.Error.Code)
			assert.Equal(t, tt.wantMessage, envelope.Error.Message)
		})
	}
}

func TestWritePlainText(t *testing.T) {
	rr := httptest.NewRecorder()
	WritePlainText(rr, http.StatusBadRequest, "Missing or invalid token.")
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "text/plain; charset=utf-8", rr.Header().Get("Content-Type"))
	assert.Equal(t, "Missing or invalid token.", rr.Body.String())
}

type testRequest struct {
	Email string `json:"email"`
}

func (r testRequest) Validate() []string {
	if r.Email == "" {
		return []string{"email is required"}
	}
	return nil
}

func TestDecodeJSON(t *testing.T) {
	tests := []struct {
		name      string
		body      string
		wantOK    bool
		wantEmail string
	}{
		{"valid", `{"email":"a@b.com","extra":1}`, true, "a@b.com"},
		{"empty body", ``, true, ""},
		{"malformed", `{"email":`, false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest testRequest
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "http://test/", strings.NewReader(tt.body))

			ok := DecodeJSON(rr, req, &dest)

			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantEmail, dest.Email)
			if !tt.wantOK {
				assert.Equal(t, http.StatusBadRequest, rr.Code)
			}
		})
	}
}

func TestDecodeAndValidate(t *testing.T) {
	tests := []struct {
		name   string
		body   string
		wantOK bool
	}{
		{"valid", `{"email":"a@b.com"}`, true},
		{"unknown field", `{"email":"a@b.com","role":"admin"}`, false},
		{"validation fails", `{"email":""}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var dest testRequest
			rr := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "http://test/", strings.NewReader(tt.body))

			ok := DecodeAndValidate(rr, req, &dest)

			assert.Equal(t, tt.wantOK, ok)
			if !tt.wantOK {
				var envelope APIResponse
				require.NoError(t, json.NewDecoder(rr.Body).Decode(&envelope))
				require.NotNil(t, envelope.Error)
				assert.Equal(t, ErrCodeBadRequest, envelope.Error.Code)
			}
		})
	}
}

func TestClientIP(t *testing.T) {
	proxies := []netip.Prefix{netip.MustParsePrefix("10.0.0.0/8")}

	tests := []struct {
		name       string
		forwarded  []string
		remoteAddr string
		trusted    []netip.Prefix
		want       string
	}{
		{name: "remote addr", remoteAddr: "198.51.100.4:5555", want: "198.51.100.4"},
		{name: "remote addr without port", remoteAddr: "198.51.100.4", want: "198.51.100.4"},
		{name: "forwarded ignored without trusted proxies", forwarded: []string{"203.0.113.7"}, remoteAddr: "10.0.0.1:80", want: "10.0.0.1"},
		{name: "forwarded ignored from untrusted peer", forwarded: []string{"203.0.113.7"}, remoteAddr: "198.51.100.4:80", trusted: proxies, want: "198.51.100.4"},
		{name: "trusted peer uses forwarded hop", forwarded: []string{"203.0.113.7"}, remoteAddr: "10.0.0.1:80", trusted: proxies, want: "203.0.113.7"},
		{name: "rightmost untrusted hop wins over spoofed prefix", forwarded: []string{"1.2.3.4, 203.0.113.7, 10.0.0.2"}, remoteAddr: "10.0.0.1:80", trusted: proxies, want: "203.0.113.7"},
		{name: "multiple header lines", forwarded: []string{"1.2.3.4", "203.0.113.7"}, remoteAddr: "10.0.0.1:80", trusted: proxies, want: "203.0.113.7"},
		{name: "all hops trusted falls back to peer", forwarded: []string{"10.0.0.3"}, remoteAddr: "10.0.0.1:80", trusted: proxies, want: "10.0.0.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "http://test/", nil)
			req.RemoteAddr = tt.remoteAddr
			for _, v := range tt.forwarded {
				req.Header.Add("X-Forwarded-For", v)
			}
			assert.Equal(t, tt.want, ClientIP(req, tt.trusted))
		})
	}
}
