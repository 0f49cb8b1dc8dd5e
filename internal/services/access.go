package services

import (
	"context"
	"errors"
	"strings"

	"fixit/internal/domain"
)

// requireRole loads the caller's profile and checks its role. A missing profile is a
// permission failure, not an internal one.
func requireRole(ctx context.Context, users domain.UserRepository, uid string, role domain.Role, deniedMessage string) error {
	profile, err := users.GetByUID(ctx, uid)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.NewError(domain.CodePermissionDenied, deniedMessage)
		}
		return domain.WrapError(domain.CodeInternal, "Failed to load caller profile.", err)
	}
	if profile.Role != role {
		return domain.NewError(domain.CodePermissionDenied, deniedMessage)
	}
	return nil
}

func looksLikeEmail(email string) bool {
	return email != "" && strings.Contains(email, "@")
}
