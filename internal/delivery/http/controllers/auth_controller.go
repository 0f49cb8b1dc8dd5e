package controllers

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	h "fixit/internal/delivery/http/helpers"
	"fixit/internal/domain"
)

// LoginRequest is the request body for POST /auth/login
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Validate implements Validator.
func (l LoginRequest) Validate() []string {
	var errs []string
	if strings.TrimSpace(l.Email) == "" {
		errs = append(errs, "email is required")
	}
	if l.Password == "" {
		errs = append(errs, "password is required")
	}
	return errs
}

// LoginResponse is the response body for POST /auth/login
type LoginResponse struct {
	Token     string `json:"token"`
	TokenType string `json:"token_type"`
	ExpiresIn int64  `json:"expires_in"`
	UID       string `json:"uid"`
}

// AuthController signs accounts in and issues the bearer tokens the callables accept.
type AuthController struct {
	Logger   *slog.Logger
	Identity domain.IdentityService
	Issuer   domain.TokenIssuer
	Expiry   time.Duration
}

func NewAuthController(logger *slog.Logger, identity domain.IdentityService, issuer domain.TokenIssuer, expiry time.Duration) *AuthController {
	return &AuthController{
		Logger:   logger,
		Identity: identity,
		Issuer:   issuer,
		Expiry:   expiry,
	}
}

// Login godoc
// @Summary Log in
// @Description Authenticate with email and password. Returns a JWT whose subject is the account uid.
// @Tags auth
// @Accept json
// @Produce json
// @Param body body LoginRequest true "Login credentials"
// @Success 200 {object} helpers.APIResponse "data contains token and token_type"
// @Failure 400 {object} helpers.APIResponse "error.code: invalid-argument"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthenticated"
// @Failure 500 {object} helpers.APIResponse "error.code: internal"
// @Router /auth/login [post]
func (c *AuthController) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if !h.DecodeAndValidate(w, r, &req) {
		return
	}
	acct, err := c.Identity.Authenticate(r.Context(), req.Email, req.Password)
	if err != nil {
		if errors.Is(err, domain.ErrInvalidCredentials) {
			h.WriteJSONError(w, http.StatusUnauthorized, h.ErrCodeUnauthorized, "invalid credentials")
			return
		}
		c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "login failed")
		return
	}
	token, err := c.Issuer.Issue(acct.UID, acct.Email, c.Expiry)
	if err != nil {
		c.Logger.ErrorContext(r.Context(), "issue token failed", "uid", acct.UID, "err", err)
		h.WriteJSONError(w, http.StatusInternalServerError, h.ErrCodeInternalError, "login failed")
		return
	}

	h.WriteJSONSuccess(w, http.StatusOK, LoginResponse{
		Token:     token,
		TokenType: "Bearer",
		ExpiresIn: int64(c.Expiry.Seconds()),
		UID:       acct.UID,
	})
}
