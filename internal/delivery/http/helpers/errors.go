package helpers

import (
	"errors"
	"net/http"

	"fixit/internal/domain"
)

const internalErrorMessage = "An internal error occurred."

// StatusForCode maps a callable error code to an HTTP status.
func StatusForCode(code domain.ErrorCode) int {
	switch code {
	case domain.CodeUnauthenticated:
		return http.StatusUnauthorized
	case domain.CodePermissionDenied:
		return http.StatusForbidden
	case domain.CodeInvalidArgument:
		return http.StatusBadRequest
	case domain.CodeAlreadyExists:
		return http.StatusConflict
	case domain.CodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// WriteDomainError writes err as a JSON error envelope. A *domain.Error keeps its code and
// message; anything else is reported as internal without leaking its text.
func WriteDomainError(w http.ResponseWriter, err error) {
	var de *domain.Error
	if !errors.As(err, &de) {
		WriteJSONError(w, http.StatusInternalServerError, ErrCodeInternalError, internalErrorMessage)
		return
	}
	WriteJSONError(w, StatusForCode(de.Code), string(de.Code), de.Message)
}
