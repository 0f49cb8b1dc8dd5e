package controllers

import (
	"log/slog"
	"net/http"

	h "fixit/internal/delivery/http/helpers"
	"fixit/internal/delivery/http/middleware"
	"fixit/internal/domain"
)

// CreateProviderAccountRequest is the request body for POST /createProviderAccount.
type CreateProviderAccountRequest struct {
	Email         string `json:"email"`
	Password      string `json:"password"`
	FirstName     string `json:"firstName"`
	LastName      string `json:"lastName"`
	ProviderDocID string `json:"providerDocId"`
}

// ProviderController handles provider provisioning by contractors.
type ProviderController struct {
	Logger  *slog.Logger
	Service domain.ProviderService
}

func NewProviderController(logger *slog.Logger, svc domain.ProviderService) *ProviderController {
	return &ProviderController{
		Logger:  logger,
		Service: svc,
	}
}

// CreateProviderAccount godoc
// @Summary Create a provider account
// @Description Contractor-only. Creates a provider login, links it to the contractor and emails the credentials.
// @Tags provider
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param body body CreateProviderAccountRequest true "Provider"
// @Success 200 {object} helpers.APIResponse "data contains ok and providerUid"
// @Failure 400 {object} helpers.APIResponse "error.code: invalid-argument"
// @Failure 401 {object} helpers.APIResponse "error.code: unauthenticated"
// @Failure 403 {object} helpers.APIResponse "error.code: permission-denied"
// @Failure 409 {object} helpers.APIResponse "error.code: already-exists"
// @Failure 500 {object} helpers.APIResponse "error.code: internal"
// @Router /createProviderAccount [post]
func (c *ProviderController) CreateProviderAccount(w http.ResponseWriter, r *http.Request) {
	var req CreateProviderAccountRequest
	if !h.DecodeJSON(w, r, &req) {
		return
	}
	caller := middleware.CallerFromContext(r.Context())
	res, err := c.Service.CreateProviderAccount(r.Context(), caller, domain.CreateProviderInput{
		Email:         req.Email,
		Password:      req.Password,
		FirstName:     req.FirstName,
		LastName:      req.LastName,
		ProviderDocID: req.ProviderDocID,
	})
	if err != nil {
		if domain.ErrorCodeOf(err) == domain.CodeInternal {
			c.Logger.ErrorContext(r.Context(), "request failed", "path", r.URL.Path, "method", r.Method, "err", err)
		}
		h.WriteDomainError(w, err)
		return
	}
	h.WriteJSONSuccess(w, http.StatusOK, res)
}
