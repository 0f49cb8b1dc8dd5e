package controllers

import (
	"log/slog"
	"net/http"

	h "fixit/internal/delivery/http/helpers"
	"fixit/internal/delivery/http/middleware"
	"fixit/internal/domain"
)

// Plain text answers of the approval link endpoint.
const (
	approvalCreatedText         = "Your admin account has been created. Please check your email for login details."
	approvalAlreadyApprovedText = "This invitation has already been approved."
	approvalMissingTokenText    = "Missing or invalid token."
	approvalUnknownTokenText    = "Invalid or expired invitation."
	approvalFailedText          = "Failed to approve the invitation. Please try again later."
)

// CreateAdminInviteRequest is the request body for POST /createAdminInvite.
type CreateAdminInviteRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// OKResponse is the data of a callable that only reports success.
type OKResponse struct {
	OK bool `json:"ok"`
}

// AdminInviteController handles the admin invite callable and the approval link.
type AdminInviteController struct {
	Logger  *slog.Logger
	Service domain.AdminInviteService
}

func NewAdminInviteController(logger *slog.Logger, svc domain.AdminInviteService) *AdminInviteController {
	return &AdminInviteController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateAdminInvite godoc
// @Summary Invite a new admin
// @Description Admin-only. Stores a pending invite and emails an approval link to the invitee.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateAdminInviteRequest true "Invitee"
// @Success 200 {object} helpers.APIResponse "data contains ok=true"
// @Failure 400 {object} helpers.APIResponse "error.code: invalid-argument"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthenticated"
// @Failure 403 {object} helpers.APIResponse "error.code: permission-denied"
// @Failure 500 {object} helpers.APIResponse "error.code: internal"
// @Router /createAdminInvite [post]
func (c *AdminInviteController) CreateAdminInvite(w http.ResponseWriter, r *http.Request) {
	var req CreateAdminInviteRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	caller := middleware.CallerFromContext(r.Context())
	_, err := c.Service.CreateInvite(r.Context(), caller, domain.CreateInviteInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
	})
	if err != nil {
		if domain.ErrorCodeOf(err) == domain.CodeInternal {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, OKResponse{OK: true})
}

// HandleAdminApproval godoc
// @Summary Approve an admin invite
// @Description Visited from the approval email. Creates the admin account once and emails its credentials. Responds in plain text.
// @Tags admin
// @Produce plain
// @Param token query string true "Invite token"
// @Success 200 {string} string "account created or already approved"
// @Failure 400 {string} string "missing or unknown token"
// @Failure 409 {string} string "an account with the invitee email already exists"
// @Failure 429 {string} string "too many requests"
// @Failure 500 {string} string "approval failed"
// @Router /handleAdminApproval [get]
func (c *AdminInviteController) HandleAdminApproval(w http.ResponseWriter, r *http.Request) {
	token := r.URL.Query().Get("token")
	res, err := c.Service.ApproveInvite(r.Context(), token)
	if err != nil {
		switch domain.ErrorCodeOf(err) {
		case domain.CodeInvalidArgument:
			h.WritePlainText(w, http.StatusBadRequest, approvalMissingTokenText)
		case domain.CodeNotFound:
			h.WritePlainText(w, http.StatusBadRequest, approvalUnknownTokenText)
		case domain.CodeAlreadyExists:
			h.WritePlainText(w, http.StatusConflict, "An account with this email already exists.")
		default:
			c.Logger.ErrorContext(r.Context(), "admin approval failed", "err", err)
			h.WritePlainText(w, http.StatusInternalServerError, approvalFailedText)
		}
		return
	}
	if res.Outcome == domain.ApprovalAlreadyApproved {
		h.WritePlainText(w, http.StatusOK, approvalAlreadyApprovedText)
		return
	}
	h.WritePlainText(w, http.StatusOK, approvalCreatedText)
}
