package service

import (
	"errors"

	"github.com/MindDevsDavid/DragonScan/database/model"
)

// AccessLevel is the role an operation requires.
type AccessLevel string

const (
	AccessPublic        AccessLevel = "public"
	AccessAuthenticated AccessLevel = "authenticated"
	AccessAdmin         AccessLevel = "admin"
)

// AuthService is the access-control gate. Every mutating service calls it
// again before touching state; no component trusts its caller to have
// already checked.
type AuthService struct {
	profileService ProfileService
}

// Authorize decides whether the session's profile may perform an operation
// at the given level. It is a pure read and never mutates session state.
// For admin operations the role is re-read from the profiles table, so a
// stale cookie copy of the role cannot grant access.
func (s *AuthService) Authorize(sessionProfile *model.Profile, level AccessLevel) error {
	if level == AccessPublic {
		return nil
	}
	if sessionProfile == nil {
		return ErrNotAuthenticated
	}
	if level == AccessAuthenticated {
		return nil
	}

	profile, err := s.profileService.GetProfile(sessionProfile.Id)
	if errors.Is(err, ErrNotFound) {
		// Valid cookie but no row, e.g. after a database reset.
		return ErrNotAuthenticated
	} else if err != nil {
		return err
	}

	if profile.Role != model.RoleAdmin {
		return ErrForbidden
	}
	return nil
}
